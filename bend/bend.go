package bend

import (
	"math"

	"github.com/jsphweid/pitchscribe/constants"
	"github.com/jsphweid/pitchscribe/model"
	"github.com/jsphweid/pitchscribe/numeric"
)

const DefaultBinsTolerance = 25

// gaussianSigma is the width, in contour bins, of the weighting around a note's pitch.
const gaussianSigma = 5

// ContourBin maps a MIDI pitch to its (fractional) contour bin.
func ContourBin(pitch float64) float64 {
	return 12 * constants.ContoursBinsPerSemitone * math.Log2(numeric.MidiToHz(pitch)/constants.AnnotationsBaseFrequency)
}

// AddPitchBends estimates one bend per frame for every note: the offset, in
// contour bins, of the strongest Gaussian-weighted contour activation
// within nBinsTolerance bins of the note's pitch.
func AddPitchBends(contours model.Matrix, notes []model.NoteEventFrame, nBinsTolerance int) ([]model.NoteEventFrame, error) {
	if nBinsTolerance < 0 {
		return nil, model.NewConfigError("bin tolerance must not be negative, got %d", nBinsTolerance)
	}
	if err := contours.Validate(); err != nil {
		return nil, err
	}

	windowLength := 2*nBinsTolerance + 1
	freqGaussian := numeric.GaussianWindow(windowLength, gaussianSigma)

	res := make([]model.NoteEventFrame, 0, len(notes))
	for _, note := range notes {
		end := note.StartFrame + note.DurationFrames
		if note.StartFrame < 0 || note.DurationFrames < 0 || end > contours.Rows {
			return nil, model.NewShapeError("note frames [%d, %d) fall outside %d contour frames",
				note.StartFrame, end, contours.Rows)
		}

		freqIdx := int(math.Round(ContourBin(float64(note.Pitch))))
		freqStart := max(0, freqIdx-nBinsTolerance)
		freqEnd := min(contours.Cols, freqIdx+nBinsTolerance+1)
		// the gaussian is clipped the same way as the contour columns
		gaussStart := freqStart - (freqIdx - nBinsTolerance)
		center := freqIdx - freqStart

		bends := make([]int, 0, note.DurationFrames)
		weighted := make([]float64, max(0, freqEnd-freqStart))
		for t := note.StartFrame; t < end; t++ {
			row := contours.Row(t)
			for j := range weighted {
				weighted[j] = row[freqStart+j] * freqGaussian[gaussStart+j]
			}
			idx, ok := numeric.ArgMax(weighted)
			if !ok {
				// the note's window lies entirely outside the contour bins
				bends = append(bends, 0)
				continue
			}
			bends = append(bends, idx-center)
		}

		note.PitchBends = bends
		res = append(res, note)
	}
	return res, nil
}
