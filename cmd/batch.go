package cmd

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bep/debounce"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jsphweid/pitchscribe/constants"
	"github.com/jsphweid/pitchscribe/file"
	"github.com/jsphweid/pitchscribe/source"
	"github.com/jsphweid/pitchscribe/transcribe"
	"github.com/jsphweid/pitchscribe/util"
)

var (
	batchWorkers int
	batchMaxNum  int
	batchOpts    *transcribeFlags
)

func init() {
	rootCmd.AddCommand(batchCmd)
	batchOpts = addTranscribeFlags(batchCmd)
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 4, "files transcribed at the same time")
	batchCmd.Flags().IntVar(&batchMaxNum, "max", 0, "stop after this many files, 0 for all")
}

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Transcribes every activation file in a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := util.RecreateOutputDir(constants.GetOutputDir()); err != nil {
			return err
		}
		paths, err := util.GatherPaths(args[0], source.Extensions, batchMaxNum)
		if err != nil {
			return err
		}
		report := Batch(cmd.Context(), paths, constants.GetOutputDir(), batchWorkers, batchOpts.options())
		log.Infof("Transcribed %v of %v files, %v notes", report.Done, len(paths), util.Sum(report.NotesPerFile))
		return nil
	},
}

type BatchReport struct {
	Done         int
	Failed       map[string]error
	NotesPerFile []uint32
}

// Batch transcribes each file independently with up to workers at a time.
// A failing file is reported and skipped, it does not stop the others.
func Batch(ctx context.Context, paths []string, outDir string, workers int, opts transcribe.Options) BatchReport {
	if ctx == nil {
		ctx = context.Background()
	}
	workers = util.Clamp(workers, 1, max(1, len(paths)))
	fileNumMap := file.CreateFileNumMap(paths)

	jobs := make(chan uint32)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var finished int64
	report := BatchReport{Failed: map[string]error{}, NotesPerFile: make([]uint32, len(paths))}

	// progress is logged at most twice a second however fast files finish
	debounced := debounce.New(500 * time.Millisecond)
	logProgress := func() {
		log.Infof("Processed %v of %v files", atomic.LoadInt64(&finished), len(paths))
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for num := range jobs {
				path := fileNumMap[num]
				notes, err := batchOne(ctx, path, outDir, opts)

				mu.Lock()
				if err != nil {
					log.Warnf("Skipping %v because: %v", path, err)
					report.Failed[path] = err
				} else {
					report.Done++
					report.NotesPerFile[num] = uint32(notes)
				}
				mu.Unlock()

				atomic.AddInt64(&finished, 1)
				debounced(logProgress)
			}
		}()
	}

	for _, num := range util.SortedKeys(fileNumMap) {
		if ctx.Err() != nil {
			break
		}
		jobs <- num
	}
	close(jobs)
	wg.Wait()
	return report
}

func batchOne(ctx context.Context, path, outDir string, opts transcribe.Options) (int, error) {
	f, err := source.Load(path)
	if err != nil {
		return 0, err
	}
	res, err := transcribe.FromFile(ctx, f, opts)
	if err != nil {
		return 0, err
	}
	if err := writeMidi(file.MidiPath(outDir, path), res.MIDI); err != nil {
		return 0, err
	}
	if err := recordTranscription(uuid.New().String(), path, res); err != nil {
		log.Warnf("Could not record %v: %v", path, err)
	}
	return len(res.Notes), nil
}
