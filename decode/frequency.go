package decode

import (
	"github.com/jsphweid/pitchscribe/constants"
	"github.com/jsphweid/pitchscribe/model"
	"github.com/jsphweid/pitchscribe/numeric"
)

// constrainFrequency zeroes the onset and frame columns whose pitch lies
// outside [minHz, maxHz]. Both matrices are modified in place.
func constrainFrequency(onsets, frames model.Matrix, maxHz, minHz *float64) {
	if maxHz == nil && minHz == nil {
		return
	}
	for col := 0; col < frames.Cols; col++ {
		hz := numeric.MidiToHz(float64(col + constants.MidiOffset))
		if (maxHz != nil && hz > *maxHz) || (minHz != nil && hz < *minHz) {
			zeroColumn(onsets, col)
			zeroColumn(frames, col)
		}
	}
}

func zeroColumn(m model.Matrix, col int) {
	for row := 0; row < m.Rows; row++ {
		m.Set(row, col, 0)
	}
}

// inferredOnsets adds onsets where the frame activation jumps over the
// last nDiff frames, scaled to the strength of the predicted onsets.
func inferredOnsets(onsets, frames model.Matrix, nDiff int) (model.Matrix, error) {
	diffs := make([]model.Matrix, 0, nDiff)
	for n := 1; n <= nDiff; n++ {
		diff := model.NewMatrix(frames.Rows, frames.Cols)
		for t := 0; t < frames.Rows; t++ {
			row := diff.Row(t)
			copy(row, frames.Row(t))
			// rows before the start are padded with zeros
			if t-n >= 0 {
				for f, v := range frames.Row(t - n) {
					row[f] -= v
				}
			}
		}
		diffs = append(diffs, diff)
	}

	frameDiff, err := numeric.MinAcross(diffs)
	if err != nil {
		return model.Matrix{}, err
	}
	for i, v := range frameDiff.Data {
		if v < 0 {
			frameDiff.Data[i] = 0
		}
	}
	for t := 0; t < min(nDiff, frameDiff.Rows); t++ {
		zeroRow(frameDiff, t)
	}

	// NOTE: a flat frames matrix has no jumps, so there is nothing to rescale
	diffMax := numeric.GlobalMax(frameDiff)
	if diffMax > 0 {
		scale := numeric.GlobalMax(onsets) / diffMax
		for i := range frameDiff.Data {
			frameDiff.Data[i] *= scale
		}
	}

	return numeric.MaxAcross([]model.Matrix{onsets, frameDiff})
}

func zeroRow(m model.Matrix, row int) {
	r := m.Row(row)
	for i := range r {
		r[i] = 0
	}
}
