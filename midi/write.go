package midi

import (
	"bytes"

	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jsphweid/pitchscribe/model"
)

const channel = 0

// Write serializes notes as a single track MIDI file: a tempo event, then
// the scheduled channel 0 events, then end of track. Nothing is returned
// unless the whole file could be written.
func Write(notes []model.NoteEventTime, opts Options) ([]byte, error) {
	events, err := Schedule(notes, opts)
	if err != nil {
		return nil, err
	}

	var tr smf.Track
	tr.Add(0, smf.MetaTempo(opts.BPM))
	for i, delta := range DeltaEncode(events) {
		tr.Add(delta, message(events[i]))
	}
	tr.Close(0)

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(opts.TicksPerBeat)
	if err := s.Add(tr); err != nil {
		return nil, errors.Wrap(err, "adding track")
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(err, "writing midi")
	}
	return buf.Bytes(), nil
}

func message(e Event) midi.Message {
	switch e.Kind {
	case NoteOn:
		return midi.NoteOn(channel, e.Key, e.Velocity)
	case NoteOff:
		return midi.NoteOff(channel, e.Key)
	case PitchBend:
		return midi.Pitchbend(channel, e.Bend)
	}
	// Schedule only emits channel events
	panic("unexpected event kind " + e.Kind.String())
}
