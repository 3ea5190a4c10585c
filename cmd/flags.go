package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jsphweid/pitchscribe/transcribe"
)

// transcribeFlags binds the transcription options to command line flags.
type transcribeFlags struct {
	opts        transcribe.Options
	frameThresh float64
	minFreq     float64
	maxFreq     float64
	bpm         float64
	tpb         uint16
}

func addTranscribeFlags(cmd *cobra.Command) *transcribeFlags {
	f := &transcribeFlags{opts: transcribe.DefaultOptions()}
	flags := cmd.Flags()
	flags.Float64Var(&f.opts.Decode.OnsetThresh, "onset-thresh", f.opts.Decode.OnsetThresh, "minimum onset activation to start a note")
	flags.Float64Var(&f.frameThresh, "frame-thresh", *f.opts.Decode.FrameThresh, "minimum frame activation to keep a note on, negative derives it from the frames")
	flags.IntVar(&f.opts.Decode.MinNoteLen, "min-note-len", f.opts.Decode.MinNoteLen, "notes must be longer than this many frames")
	flags.BoolVar(&f.opts.Decode.InferOnsets, "infer-onsets", f.opts.Decode.InferOnsets, "add onsets where frame activations jump")
	flags.BoolVar(&f.opts.Decode.MelodiaTrick, "melodia-trick", f.opts.Decode.MelodiaTrick, "sweep leftover energy for notes without onsets")
	flags.IntVar(&f.opts.Decode.EnergyTolerance, "energy-tolerance", f.opts.Decode.EnergyTolerance, "frames allowed below the frame threshold")
	flags.Float64Var(&f.minFreq, "min-freq", 0, "lowest allowed note frequency in Hz, 0 for no limit")
	flags.Float64Var(&f.maxFreq, "max-freq", 0, "highest allowed note frequency in Hz, 0 for no limit")
	flags.BoolVar(&f.opts.PitchBends, "pitch-bends", f.opts.PitchBends, "estimate pitch bends from the contours")
	flags.IntVar(&f.opts.BinsTolerance, "bins-tolerance", f.opts.BinsTolerance, "contour bins searched on each side of a note for bends")
	flags.IntVar(&f.opts.OverlapFrames, "overlap-frames", f.opts.OverlapFrames, "frames shared by neighboring inference windows")
	flags.Float64Var(&f.bpm, "bpm", f.opts.MIDI.BPM, "tempo of the midi file")
	flags.Uint16Var(&f.tpb, "ticks-per-beat", f.opts.MIDI.TicksPerBeat, "midi resolution")
	flags.IntVar(&f.opts.MIDI.BendScale, "bend-scale", f.opts.MIDI.BendScale, "pitch bend units written per contour bin")
	return f
}

// options resolves the flags that need more than a plain assignment.
func (f *transcribeFlags) options() transcribe.Options {
	opts := f.opts
	opts.Decode.FrameThresh = nil
	if f.frameThresh >= 0 {
		thresh := f.frameThresh
		opts.Decode.FrameThresh = &thresh
	}
	if f.minFreq > 0 {
		minFreq := f.minFreq
		opts.Decode.MinFreqHz = &minFreq
	}
	if f.maxFreq > 0 {
		maxFreq := f.maxFreq
		opts.Decode.MaxFreqHz = &maxFreq
	}
	opts.MIDI.BPM = f.bpm
	opts.MIDI.TicksPerBeat = f.tpb
	return opts
}
