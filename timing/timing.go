package timing

import (
	"math"

	"github.com/jsphweid/pitchscribe/constants"
	"github.com/jsphweid/pitchscribe/model"
)

const hopSeconds = float64(constants.FFTHop) / constants.AudioSampleRate

// FrameToSeconds maps a model frame to seconds. Each completed inference
// window shifts the timeline back by constants.WindowOffset.
func FrameToSeconds(frame int) float64 {
	return float64(frame)*hopSeconds - constants.WindowOffset*math.Floor(float64(frame)/constants.AnnotNFrames)
}

// NotesToTime converts frame-domain notes to seconds. Durations are the
// difference of two mapped times because the window correction is not
// linear in the frame index.
func NotesToTime(notes []model.NoteEventFrame) []model.NoteEventTime {
	res := make([]model.NoteEventTime, 0, len(notes))
	for _, n := range notes {
		start := FrameToSeconds(n.StartFrame)
		res = append(res, model.NoteEventTime{
			StartSeconds:    start,
			DurationSeconds: FrameToSeconds(n.StartFrame+n.DurationFrames) - start,
			Pitch:           n.Pitch,
			Amplitude:       n.Amplitude,
			PitchBends:      n.PitchBends,
		})
	}
	return res
}
