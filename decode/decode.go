package decode

import (
	"github.com/jsphweid/pitchscribe/constants"
	"github.com/jsphweid/pitchscribe/model"
	"github.com/jsphweid/pitchscribe/numeric"
	"github.com/pkg/errors"
)

const onsetPeakOrder = 2
const onsetDiffs = 2

// Decode turns frame and onset activations (n_times, n_freqs) into note
// events. The inputs are not modified.
func Decode(frames, onsets model.Matrix, opts Options) ([]model.NoteEventFrame, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if err := frames.Validate(); err != nil {
		return nil, errors.Wrap(err, "frames")
	}
	if err := onsets.Validate(); err != nil {
		return nil, errors.Wrap(err, "onsets")
	}
	if !frames.SameShape(onsets) {
		return nil, model.NewShapeError("frames are (%d, %d) but onsets are (%d, %d)",
			frames.Rows, frames.Cols, onsets.Rows, onsets.Cols)
	}

	frameThresh, err := frameThreshold(frames, opts.FrameThresh)
	if err != nil {
		return nil, err
	}

	frames = frames.Clone()
	onsets = onsets.Clone()
	constrainFrequency(onsets, frames, opts.MaxFreqHz, opts.MinFreqHz)

	effectiveOnsets := onsets
	if opts.InferOnsets {
		effectiveOnsets, err = inferredOnsets(onsets, frames, onsetDiffs)
		if err != nil {
			return nil, errors.Wrap(err, "inferring onsets")
		}
	}

	d := &decoder{
		frames:    frames,
		remaining: frames.Clone(),
		thresh:    frameThresh,
		opts:      opts,
	}

	notes := d.onsetNotes(onsetCandidates(effectiveOnsets, opts.OnsetThresh))
	if opts.MelodiaTrick {
		notes = append(notes, d.melodiaNotes()...)
	}
	return notes, nil
}

func frameThreshold(frames model.Matrix, thresh *float64) (float64, error) {
	if thresh != nil {
		return *thresh, nil
	}
	mean, std, err := numeric.MeanStd(frames)
	if err != nil {
		return 0, errors.Wrap(err, "deriving frame threshold")
	}
	return mean + std, nil
}

// onsetCandidates returns the onset peaks above thresh, latest scan
// position first. Later steps consume energy greedily, so this order
// decides which of two overlapping onsets survives.
func onsetCandidates(onsets model.Matrix, thresh float64) []numeric.Cell {
	peaks := model.NewMatrix(onsets.Rows, onsets.Cols)
	for _, c := range numeric.LocalMaxima(onsets, onsetPeakOrder) {
		peaks.Set(c.Row, c.Col, onsets.At(c.Row, c.Col))
	}

	cells := numeric.WhereGreaterThan(peaks, thresh)
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}
	return cells
}

// decoder owns the working copy of frame energy that note extraction consumes.
type decoder struct {
	frames    model.Matrix
	remaining model.Matrix
	thresh    float64
	opts      Options
}

func (d *decoder) onsetNotes(candidates []numeric.Cell) []model.NoteEventFrame {
	var notes []model.NoteEventFrame
	nFrames := d.frames.Rows

	for _, c := range candidates {
		start, freq := c.Row, c.Col
		// too close to the end of the audio
		if start >= nFrames-1 {
			continue
		}

		i := start + 1
		k := 0 // frames since energy dropped below threshold
		for i < nFrames-1 && k < d.opts.EnergyTolerance {
			if d.remaining.At(i, freq) < d.thresh {
				k++
			} else {
				k = 0
			}
			i++
		}
		end := i - k

		if end-start <= d.opts.MinNoteLen {
			continue
		}

		for t := start; t < end; t++ {
			d.consume(t, freq)
		}
		notes = append(notes, d.note(start, end, freq))
	}
	return notes
}

func (d *decoder) melodiaNotes() []model.NoteEventFrame {
	var notes []model.NoteEventFrame
	nFrames := d.frames.Rows
	tol := d.opts.EnergyTolerance

	for {
		// consumed cells are zero, so a negative threshold must not keep the loop alive
		if m := numeric.GlobalMax(d.remaining); m <= d.thresh || m <= 0 {
			break
		}
		peak, _ := numeric.GlobalArgMax(d.remaining)
		mid, freq := peak.Row, peak.Col
		d.remaining.Set(mid, freq, 0)

		// forward pass
		i := mid + 1
		k := 0
		for i < nFrames-1 && k < tol {
			if d.remaining.At(i, freq) < d.thresh {
				k++
			} else {
				k = 0
			}
			d.consume(i, freq)
			i++
		}
		end := i - 1 - k

		// backward pass, which never reaches the first frame
		i = mid - 1
		k = 0
		for i > 0 && k < tol {
			if d.remaining.At(i, freq) < d.thresh {
				k++
			} else {
				k = 0
			}
			d.consume(i, freq)
			i--
		}
		start := i + 1 + k

		// too short: the energy is gone either way
		if end-start <= d.opts.MinNoteLen {
			continue
		}
		notes = append(notes, d.note(start, end, freq))
	}
	return notes
}

// consume zeroes the remaining energy at frame t for freq and its neighbors.
func (d *decoder) consume(t, freq int) {
	d.remaining.Set(t, freq, 0)
	if freq < d.remaining.Cols-1 {
		d.remaining.Set(t, freq+1, 0)
	}
	if freq > 0 {
		d.remaining.Set(t, freq-1, 0)
	}
}

// note averages the frame activation over [start, end) before any energy was consumed.
func (d *decoder) note(start, end, freq int) model.NoteEventFrame {
	var sum float64
	for t := start; t < end; t++ {
		sum += d.frames.At(t, freq)
	}
	return model.NoteEventFrame{
		StartFrame:     start,
		DurationFrames: end - start,
		Pitch:          freq + constants.MidiOffset,
		Amplitude:      sum / float64(end-start),
	}
}
