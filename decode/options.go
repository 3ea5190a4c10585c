package decode

import (
	"math"

	"github.com/jsphweid/pitchscribe/model"
)

type Options struct {
	// Minimum onset activation for a peak to start a note.
	OnsetThresh float64
	// Minimum frame activation for a note to stay on. Nil derives it as
	// mean+std of the frames matrix.
	FrameThresh *float64
	// Notes must be strictly longer than this many frames.
	MinNoteLen int
	// Add onsets where frame activations jump sharply.
	InferOnsets bool
	MaxFreqHz   *float64
	MinFreqHz   *float64
	// Sweep the energy left after onset decoding for notes with missed onsets.
	MelodiaTrick bool
	// Frames allowed below FrameThresh before a note ends.
	EnergyTolerance int
}

func DefaultOptions() Options {
	frameThresh := 0.3
	return Options{
		OnsetThresh:     0.5,
		FrameThresh:     &frameThresh,
		MinNoteLen:      11,
		InferOnsets:     true,
		MelodiaTrick:    true,
		EnergyTolerance: 11,
	}
}

func (o Options) validate() error {
	if math.IsNaN(o.OnsetThresh) {
		return model.NewConfigError("onset threshold is NaN")
	}
	if o.FrameThresh != nil && math.IsNaN(*o.FrameThresh) {
		return model.NewConfigError("frame threshold is NaN")
	}
	if o.MinNoteLen < 0 {
		return model.NewConfigError("minimum note length must not be negative, got %d", o.MinNoteLen)
	}
	if o.EnergyTolerance < 0 {
		return model.NewConfigError("energy tolerance must not be negative, got %d", o.EnergyTolerance)
	}
	if o.MaxFreqHz != nil && !(*o.MaxFreqHz > 0) {
		return model.NewConfigError("maximum frequency must be positive, got %v", *o.MaxFreqHz)
	}
	if o.MinFreqHz != nil && !(*o.MinFreqHz > 0) {
		return model.NewConfigError("minimum frequency must be positive, got %v", *o.MinFreqHz)
	}
	return nil
}
