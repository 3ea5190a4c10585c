package model

// Tensor3 is one inference window as it comes out of the model, expected
// to be shaped (1, local-time, freq). The shape travels with the data so a
// wrong rank can be rejected instead of guessed at.
type Tensor3 struct {
	Shape []int     `json:"shape"`
	Data  []float64 `json:"data"`
}

// Windows holds the per-window outputs of the three model heads.
type Windows struct {
	Contours []Tensor3 `json:"contours"`
	Frames   []Tensor3 `json:"frames"`
	Onsets   []Tensor3 `json:"onsets"`
}

// Activations holds the stitched, row-aligned model outputs.
type Activations struct {
	Contours Matrix `json:"contours"`
	Frames   Matrix `json:"frames"`
	Onsets   Matrix `json:"onsets"`
}

// ActivationFile is the on-disk and on-the-wire input. Either Windows (with
// AudioSamples) or already stitched Activations must be set.
type ActivationFile struct {
	AudioSamples int          `json:"audio_samples"`
	Windows      *Windows     `json:"windows,omitempty"`
	Activations  *Activations `json:"activations,omitempty"`
}
