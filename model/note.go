package model

// NoteEventFrame is a decoded note in the model's frame domain.
type NoteEventFrame struct {
	StartFrame     int
	DurationFrames int
	Pitch          int
	Amplitude      float64

	// NOTE: nil until pitch bends are estimated, then one value per frame
	PitchBends []int
}

type NoteEventTime struct {
	StartSeconds    float64 `json:"start_seconds"`
	DurationSeconds float64 `json:"duration_seconds"`
	Pitch           int     `json:"pitch"`
	Amplitude       float64 `json:"amplitude"`
	PitchBends      []int   `json:"pitch_bends,omitempty"`
}
