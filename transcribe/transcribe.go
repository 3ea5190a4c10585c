package transcribe

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/jsphweid/pitchscribe/bend"
	"github.com/jsphweid/pitchscribe/constants"
	"github.com/jsphweid/pitchscribe/decode"
	"github.com/jsphweid/pitchscribe/midi"
	"github.com/jsphweid/pitchscribe/model"
	"github.com/jsphweid/pitchscribe/stitch"
	"github.com/jsphweid/pitchscribe/timing"
)

type Options struct {
	Decode decode.Options
	MIDI   midi.Options

	// Estimate per-frame pitch bends from the contours.
	PitchBends    bool
	BinsTolerance int
	OverlapFrames int
}

func DefaultOptions() Options {
	return Options{
		Decode:        decode.DefaultOptions(),
		MIDI:          midi.DefaultOptions(),
		PitchBends:    true,
		BinsTolerance: bend.DefaultBinsTolerance,
		OverlapFrames: constants.NOverlappingFrames,
	}
}

type Result struct {
	Notes []model.NoteEventTime
	MIDI  []byte

	// number of activation frames decoded
	Frames int
	// the stitched input the notes were decoded from
	Activations model.Activations
}

// FromFile runs whichever input the file carries: raw windows are stitched
// first, stitched activations go straight to decoding.
func FromFile(ctx context.Context, f model.ActivationFile, opts Options) (Result, error) {
	switch {
	case f.Activations != nil:
		return FromActivations(ctx, *f.Activations, opts)
	case f.Windows != nil:
		return FromWindows(ctx, *f.Windows, f.AudioSamples, opts)
	}
	return Result{}, model.NewShapeError("input has neither windows nor activations")
}

func FromWindows(ctx context.Context, w model.Windows, audioSamples int, opts Options) (Result, error) {
	if audioSamples < 0 {
		return Result{}, model.NewConfigError("audio sample count must not be negative, got %d", audioSamples)
	}
	acts, err := stitch.StitchAll(w, opts.OverlapFrames, audioSamples)
	if err != nil {
		return Result{}, err
	}
	log.Debugf("stitched %d windows into %d frames", len(w.Frames), acts.Frames.Rows)
	return FromActivations(ctx, acts, opts)
}

// FromActivations decodes notes and renders them to MIDI. The context is
// only checked between stages.
func FromActivations(ctx context.Context, acts model.Activations, opts Options) (Result, error) {
	notes, err := decode.Decode(acts.Frames, acts.Onsets, opts.Decode)
	if err != nil {
		return Result{}, errors.Wrap(err, "decoding notes")
	}
	log.Debugf("decoded %d notes from %d frames", len(notes), acts.Frames.Rows)
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	if opts.PitchBends {
		notes, err = bend.AddPitchBends(acts.Contours, notes, opts.BinsTolerance)
		if err != nil {
			return Result{}, errors.Wrap(err, "estimating pitch bends")
		}
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
	}

	timed := timing.NotesToTime(notes)
	data, err := midi.Write(timed, opts.MIDI)
	if err != nil {
		return Result{}, errors.Wrap(err, "writing midi")
	}
	log.Debugf("wrote %d bytes of midi", len(data))
	return Result{Notes: timed, MIDI: data, Frames: acts.Frames.Rows, Activations: acts}, nil
}

// Apply overrides the defaults in opts with whatever the request sets.
func (opts *Options) Apply(r *model.RequestOptions) {
	if r == nil {
		return
	}
	if r.OnsetThresh != nil {
		opts.Decode.OnsetThresh = *r.OnsetThresh
	}
	if r.FrameThresh != nil {
		opts.Decode.FrameThresh = r.FrameThresh
	}
	if r.MinNoteLen != nil {
		opts.Decode.MinNoteLen = *r.MinNoteLen
	}
	if r.InferOnsets != nil {
		opts.Decode.InferOnsets = *r.InferOnsets
	}
	if r.MelodiaTrick != nil {
		opts.Decode.MelodiaTrick = *r.MelodiaTrick
	}
	if r.MinFreqHz != nil {
		opts.Decode.MinFreqHz = r.MinFreqHz
	}
	if r.MaxFreqHz != nil {
		opts.Decode.MaxFreqHz = r.MaxFreqHz
	}
	if r.EnergyTolerance != nil {
		opts.Decode.EnergyTolerance = *r.EnergyTolerance
	}
	if r.PitchBends != nil {
		opts.PitchBends = *r.PitchBends
	}
	if r.BPM != nil {
		opts.MIDI.BPM = *r.BPM
	}
}
