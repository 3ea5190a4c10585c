package cmd

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jsphweid/pitchscribe/constants"
	"github.com/jsphweid/pitchscribe/file"
	"github.com/jsphweid/pitchscribe/model"
	"github.com/jsphweid/pitchscribe/source"
	"github.com/jsphweid/pitchscribe/store"
	"github.com/jsphweid/pitchscribe/transcribe"
)

var (
	transcribeOutput string
	transcribeAudio  string
	transcribeSave   string
	transcribeOpts   *transcribeFlags
)

func init() {
	rootCmd.AddCommand(transcribeCmd)
	transcribeOpts = addTranscribeFlags(transcribeCmd)
	transcribeCmd.Flags().StringVarP(&transcribeOutput, "output", "o", "", "midi file to write (default OUTPUT_DIR/<name>.mid)")
	transcribeCmd.Flags().StringVar(&transcribeAudio, "audio", "", "source wav, used for the true audio length")
	transcribeCmd.Flags().StringVar(&transcribeSave, "save-activations", "", "also write the stitched activations to this .gob file")
}

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <activations.json|activations.gob>",
	Short: "Transcribes one activation file to MIDI",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := transcribeOutput
		if out == "" {
			if err := os.MkdirAll(constants.GetOutputDir(), 0777); err != nil {
				return err
			}
			out = file.MidiPath(constants.GetOutputDir(), args[0])
		}
		return TranscribeFile(cmd.Context(), args[0], transcribeAudio, out, transcribeSave, transcribeOpts.options())
	},
}

// TranscribeFile transcribes the activation file at path and writes the MIDI to out.
// If audioPath is set, its length replaces the sample count stored in the file.
// If saveActs is set, the stitched activations are written there as gob.
func TranscribeFile(ctx context.Context, path, audioPath, out, saveActs string, opts transcribe.Options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f, err := source.Load(path)
	if err != nil {
		return err
	}
	if audioPath != "" {
		f.AudioSamples, err = source.AudioSamples(audioPath)
		if err != nil {
			return err
		}
	}

	res, err := transcribe.FromFile(ctx, f, opts)
	if err != nil {
		return errors.Wrapf(err, "transcribing %v", path)
	}
	if err := writeMidi(out, res.MIDI); err != nil {
		return err
	}
	log.Infof("Wrote %v notes from %v to %v", len(res.Notes), path, out)
	if saveActs != "" {
		if err := source.Save(saveActs, res.Activations); err != nil {
			return err
		}
		log.Infof("Saved stitched activations to %v", saveActs)
	}

	if err := recordTranscription(uuid.New().String(), path, res); err != nil {
		log.Warnf("Could not record %v: %v", path, err)
	}
	return nil
}

func writeMidi(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "writing midi")
	}
	return nil
}

var (
	recorder     store.Recorder
	recorderErr  error
	recorderOnce sync.Once
)

func getRecorder() (store.Recorder, error) {
	recorderOnce.Do(func() {
		recorder, recorderErr = store.Open(constants.GetDynamoEndpoint(), constants.GetDynamoRegion(), constants.GetDynamoTable())
	})
	return recorder, recorderErr
}

func recordTranscription(id, src string, res transcribe.Result) error {
	r, err := getRecorder()
	if err != nil {
		return err
	}
	return r.Record(summarize(id, src, res))
}

func summarize(id, src string, res transcribe.Result) model.Transcription {
	var end float64
	for _, n := range res.Notes {
		end = max(end, n.StartSeconds+n.DurationSeconds)
	}
	return model.Transcription{
		Id:           id,
		Source:       src,
		NumNotes:     len(res.Notes),
		NumFrames:    res.Frames,
		DurationSecs: end,
		MidiBytes:    len(res.MIDI),
		CreatedAt:    time.Now().Unix(),
	}
}
