package model

type TranscribeRequest struct {
	ActivationFile
	Options *RequestOptions `json:"options,omitempty"`
}

// RequestOptions overrides the transcription defaults. Nil fields keep the default.
type RequestOptions struct {
	OnsetThresh     *float64 `json:"onset_thresh,omitempty"`
	FrameThresh     *float64 `json:"frame_thresh,omitempty"`
	MinNoteLen      *int     `json:"min_note_len,omitempty"`
	InferOnsets     *bool    `json:"infer_onsets,omitempty"`
	MelodiaTrick    *bool    `json:"melodia_trick,omitempty"`
	MinFreqHz       *float64 `json:"min_freq_hz,omitempty"`
	MaxFreqHz       *float64 `json:"max_freq_hz,omitempty"`
	EnergyTolerance *int     `json:"energy_tolerance,omitempty"`
	PitchBends      *bool    `json:"pitch_bends,omitempty"`
	BPM             *float64 `json:"bpm,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
