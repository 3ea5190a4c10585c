package midi

import (
	"bytes"
	"os"

	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func ReadMidiFile(filepath string) (*smf.SMF, error) {
	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, errors.Wrap(err, "reading midi file")
	}
	return parse(dat)
}

func parse(dat []byte) (s *smf.SMF, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r, ok := recover().(string); ok {
			s, e = nil, errors.New(r)
		}
	}()

	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, errors.Wrap(err, "parsing midi file")
	}
	return res, nil
}

// ReadEvents parses a MIDI file and returns the tempo, note and pitch bend
// events of every track with absolute ticks.
func ReadEvents(dat []byte) ([]Event, error) {
	s, err := parse(dat)
	if err != nil {
		return nil, err
	}
	return Events(s), nil
}

func Events(s *smf.SMF) []Event {
	var res []Event
	for _, track := range s.Tracks {
		var absTicks uint32
		for _, evt := range track {
			absTicks += evt.Delta

			var ch, key, vel uint8
			var rel int16
			var abs uint16
			var bpm float64
			msg := midi.Message(evt.Message)
			switch {
			case evt.Message.GetMetaTempo(&bpm):
				res = append(res, Event{Tick: absTicks, Kind: Tempo, BPM: bpm})
			case msg.GetNoteOn(&ch, &key, &vel):
				res = append(res, Event{Tick: absTicks, Kind: NoteOn, Channel: ch, Key: key, Velocity: vel})
			case msg.GetNoteOff(&ch, &key, &vel):
				res = append(res, Event{Tick: absTicks, Kind: NoteOff, Channel: ch, Key: key, Velocity: vel})
			case msg.GetPitchBend(&ch, &rel, &abs):
				res = append(res, Event{Tick: absTicks, Kind: PitchBend, Channel: ch, Bend: rel})
			}
		}
	}
	return res
}
