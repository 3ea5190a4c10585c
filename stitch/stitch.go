package stitch

import (
	"github.com/jsphweid/pitchscribe/constants"
	"github.com/jsphweid/pitchscribe/model"
	"github.com/pkg/errors"
)

// ValidFrames is the number of output frames covered by audioSamples of
// audio at the model sample rate.
func ValidFrames(audioSamples int) int {
	return int(float64(audioSamples) * float64(constants.AnnotationsFPS) / float64(constants.AudioSampleRate))
}

// Stitch joins the model output windows into one (time, freq) matrix.
// floor(nOverlap/2) frames are dropped from both ends of every window, and
// the result is cut to at most nValid rows.
func Stitch(windows []model.Tensor3, nOverlap int, nValid int) (model.Matrix, error) {
	if nOverlap < 0 {
		return model.Matrix{}, model.NewConfigError("overlap must not be negative, got %d", nOverlap)
	}
	if nValid < 0 {
		return model.Matrix{}, model.NewConfigError("valid frame count must not be negative, got %d", nValid)
	}
	if len(windows) == 0 {
		return model.Matrix{}, nil
	}

	nTime, nFreq, err := windowShape(windows)
	if err != nil {
		return model.Matrix{}, err
	}

	nOlap := nOverlap / 2
	kept := nTime - 2*nOlap
	if kept <= 0 {
		return model.Matrix{}, model.NewShapeError("overlap of %d frames leaves nothing of a %d frame window", nOverlap, nTime)
	}

	res := model.NewMatrix(min(kept*len(windows), nValid), nFreq)
	row := 0
WindowLoop:
	for _, w := range windows {
		for t := nOlap; t < nTime-nOlap; t++ {
			if row == res.Rows {
				break WindowLoop
			}
			copy(res.Row(row), w.Data[t*nFreq:(t+1)*nFreq])
			row++
		}
	}
	return res, nil
}

// windowShape checks that every window is (1, T, F) with the same T and F.
func windowShape(windows []model.Tensor3) (int, int, error) {
	var nTime, nFreq int
	for i, w := range windows {
		if len(w.Shape) != 3 {
			return 0, 0, model.NewShapeError("window %d has rank %d, expected 3", i, len(w.Shape))
		}
		if w.Shape[0] != 1 {
			return 0, 0, model.NewShapeError("window %d has batch size %d, expected 1", i, w.Shape[0])
		}
		if len(w.Data) != w.Shape[0]*w.Shape[1]*w.Shape[2] {
			return 0, 0, model.NewShapeError("window %d has %d values for shape %v", i, len(w.Data), w.Shape)
		}
		if i == 0 {
			nTime, nFreq = w.Shape[1], w.Shape[2]
			continue
		}
		if w.Shape[1] != nTime || w.Shape[2] != nFreq {
			return 0, 0, model.NewShapeError("window %d has shape %v, expected [1 %d %d]", i, w.Shape, nTime, nFreq)
		}
	}
	return nTime, nFreq, nil
}

// StitchAll stitches the three model heads and checks that they line up.
func StitchAll(w model.Windows, nOverlap int, audioSamples int) (model.Activations, error) {
	var acts model.Activations
	nValid := ValidFrames(audioSamples)

	var err error
	acts.Contours, err = Stitch(w.Contours, nOverlap, nValid)
	if err != nil {
		return model.Activations{}, errors.Wrap(err, "stitching contours")
	}
	acts.Frames, err = Stitch(w.Frames, nOverlap, nValid)
	if err != nil {
		return model.Activations{}, errors.Wrap(err, "stitching frames")
	}
	acts.Onsets, err = Stitch(w.Onsets, nOverlap, nValid)
	if err != nil {
		return model.Activations{}, errors.Wrap(err, "stitching onsets")
	}

	if acts.Contours.Rows != acts.Frames.Rows || acts.Onsets.Rows != acts.Frames.Rows {
		return model.Activations{}, model.NewShapeError("stitched outputs disagree on frame count: contours %d, frames %d, onsets %d",
			acts.Contours.Rows, acts.Frames.Rows, acts.Onsets.Rows)
	}
	return acts, nil
}
