package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsphweid/pitchscribe/constants"
	"github.com/jsphweid/pitchscribe/model"
	"github.com/jsphweid/pitchscribe/transcribe"
)

func singleNoteFile(pitchIdx int) model.ActivationFile {
	const nFrames = 50
	acts := model.Activations{
		Contours: model.NewMatrix(nFrames, constants.NFreqBinsContours),
		Frames:   model.NewMatrix(nFrames, constants.NFreqBinsNotes),
		Onsets:   model.NewMatrix(nFrames, constants.NFreqBinsNotes),
	}
	acts.Onsets.Set(5, pitchIdx, 0.9)
	for t := 5; t < 25; t++ {
		acts.Frames.Set(t, pitchIdx, 0.8)
		acts.Contours.Set(t, 3*pitchIdx+1, 0.5)
	}
	return model.ActivationFile{Activations: &acts}
}

func writeJSON(t *testing.T, path string, f model.ActivationFile) {
	dat, err := json.Marshal(f)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, dat, 0644))
}

func TestTranscribeFileAndInspect(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "one.json")
	out := filepath.Join(dir, "one.mid")
	saved := filepath.Join(dir, "one.gob")
	writeJSON(t, in, singleNoteFile(39))

	require.NoError(t, TranscribeFile(context.Background(), in, "", out, saved, transcribe.DefaultOptions()))

	var buf bytes.Buffer
	require.NoError(t, inspect(&buf, out))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

	assert := assert.New(t)
	assert.True(strings.HasPrefix(lines[0], "time format:"))
	assert.Contains(lines[1], "Tempo")
	assert.Contains(lines[2], "NoteOn")
	assert.Contains(lines[2], "key=60")
	assert.Contains(lines[len(lines)-1], "NoteOff")

	// the saved activations transcribe to the same midi
	again := filepath.Join(dir, "again.mid")
	require.NoError(t, TranscribeFile(context.Background(), saved, "", again, "", transcribe.DefaultOptions()))
	first, err := os.ReadFile(out)
	require.NoError(t, err)
	second, err := os.ReadFile(again)
	require.NoError(t, err)
	assert.Equal(first, second)
}

func TestTranscribeFileMissingInput(t *testing.T) {
	dir := t.TempDir()
	err := TranscribeFile(context.Background(), filepath.Join(dir, "nope.json"), "", filepath.Join(dir, "x.mid"), "", transcribe.DefaultOptions())
	assert.Error(t, err)
}

func TestBatchSkipsBadFiles(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeJSON(t, filepath.Join(in, "a.json"), singleNoteFile(39))
	writeJSON(t, filepath.Join(in, "b.json"), singleNoteFile(50))
	require.NoError(t, os.WriteFile(filepath.Join(in, "c.json"), []byte("{not json"), 0644))

	paths := []string{
		filepath.Join(in, "a.json"),
		filepath.Join(in, "b.json"),
		filepath.Join(in, "c.json"),
	}
	report := Batch(context.Background(), paths, out, 2, transcribe.DefaultOptions())

	assert := assert.New(t)
	assert.Equal(2, report.Done)
	assert.Len(report.Failed, 1)
	assert.Contains(report.Failed, paths[2])
	assert.Equal([]uint32{1, 1, 0}, report.NotesPerFile)
	assert.FileExists(filepath.Join(out, "a.mid"))
	assert.FileExists(filepath.Join(out, "b.mid"))
	assert.NoFileExists(filepath.Join(out, "c.mid"))
}

func TestBatchCancelled(t *testing.T) {
	in := t.TempDir()
	writeJSON(t, filepath.Join(in, "a.json"), singleNoteFile(39))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := Batch(ctx, []string{filepath.Join(in, "a.json")}, t.TempDir(), 1, transcribe.DefaultOptions())
	assert.Equal(t, 0, report.Done)
}

func TestSummarize(t *testing.T) {
	res := transcribe.Result{
		Notes: []model.NoteEventTime{
			{StartSeconds: 1, DurationSeconds: 2, Pitch: 60},
			{StartSeconds: 0.5, DurationSeconds: 1, Pitch: 64},
		},
		MIDI:   make([]byte, 42),
		Frames: 300,
	}
	s := summarize("id", "in.json", res)

	assert := assert.New(t)
	assert.Equal("id", s.Id)
	assert.Equal("in.json", s.Source)
	assert.Equal(2, s.NumNotes)
	assert.Equal(300, s.NumFrames)
	assert.Equal(3.0, s.DurationSecs)
	assert.Equal(42, s.MidiBytes)
	assert.NotZero(s.CreatedAt)
}

func TestStatusFor(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(http.StatusBadRequest, statusFor(model.NewShapeError("bad")))
	assert.Equal(http.StatusBadRequest, statusFor(errors.Wrap(model.NewConfigError("bad"), "context")))
	assert.Equal(http.StatusBadRequest, statusFor(model.NewArithmeticError("bad")))
	assert.Equal(http.StatusInternalServerError, statusFor(errors.New("boom")))
}

func TestTranscribeFlagsResolve(t *testing.T) {
	f := addTranscribeFlags(&cobra.Command{Use: "test"})
	f.frameThresh = -1
	f.minFreq = 100
	opts := f.options()

	assert := assert.New(t)
	assert.Nil(opts.Decode.FrameThresh)
	require.NotNil(t, opts.Decode.MinFreqHz)
	assert.Equal(100.0, *opts.Decode.MinFreqHz)
	assert.Nil(opts.Decode.MaxFreqHz)
}

type failingRecorder struct{}

func (failingRecorder) Record(model.Transcription) error { return errors.New("table is gone") }

func (failingRecorder) Get(string) (*model.Transcription, error) { return nil, nil }

func TestTranscribeFileSurvivesStoreFailure(t *testing.T) {
	recorderOnce.Do(func() {})
	prev, prevErr := recorder, recorderErr
	recorder, recorderErr = failingRecorder{}, nil
	t.Cleanup(func() { recorder, recorderErr = prev, prevErr })

	dir := t.TempDir()
	in := filepath.Join(dir, "one.json")
	out := filepath.Join(dir, "one.mid")
	writeJSON(t, in, singleNoteFile(39))

	require.NoError(t, TranscribeFile(context.Background(), in, "", out, "", transcribe.DefaultOptions()))
	assert.FileExists(t, out)
}
