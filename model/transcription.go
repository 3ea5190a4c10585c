package model

// Transcription summarizes one finished run for the transcription log.
type Transcription struct {
	Id           string
	Source       string
	NumNotes     int
	NumFrames    int
	DurationSecs float64
	MidiBytes    int
	CreatedAt    int64
}

type FileNumToPath = map[uint32]string
