package midi

import (
	"math"
	"sort"

	"github.com/jsphweid/pitchscribe/constants"
	"github.com/jsphweid/pitchscribe/model"
	"github.com/jsphweid/pitchscribe/util"
)

type EventKind uint8

const (
	NoteOn EventKind = iota
	NoteOff
	PitchBend
	Tempo
)

func (k EventKind) String() string {
	switch k {
	case NoteOn:
		return "NoteOn"
	case NoteOff:
		return "NoteOff"
	case PitchBend:
		return "PitchBend"
	case Tempo:
		return "Tempo"
	}
	return "Unknown"
}

// Event is a channel or tempo event stamped with an absolute tick.
type Event struct {
	Tick     uint32
	Kind     EventKind
	Channel  uint8
	Key      uint8
	Velocity uint8
	// signed, 0 is the centre (0x2000 on the wire)
	Bend int16
	BPM  float64
}

const (
	bendMin = -0x2000
	bendMax = 0x1FFF
)

type Options struct {
	BPM          float64
	TicksPerBeat uint16
	// Multiplies each bend (in contour bins) before it is written. 1 writes
	// the raw bin offset.
	BendScale int
}

func DefaultOptions() Options {
	return Options{
		BPM:          constants.DefaultBPM,
		TicksPerBeat: constants.DefaultTicksPerBeat,
		BendScale:    1,
	}
}

func (o Options) validate() error {
	if !(o.BPM > 0) || math.IsInf(o.BPM, 0) {
		return model.NewConfigError("bpm must be a positive number, got %v", o.BPM)
	}
	if o.TicksPerBeat == 0 || o.TicksPerBeat > 0x7FFF {
		return model.NewConfigError("ticks per beat must be in [1, 32767], got %d", o.TicksPerBeat)
	}
	return nil
}

func (o Options) ticksPerSecond() float64 {
	return float64(o.TicksPerBeat) * o.BPM / 60
}

// Schedule turns notes into channel 0 events ordered by absolute tick. At
// equal ticks all NoteOffs come first, so a key is released before it is
// struck again. Pitch bends at or after a note's NoteOff are dropped.
func Schedule(notes []model.NoteEventTime, opts Options) ([]Event, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	tps := opts.ticksPerSecond()

	var events []Event
	for i, n := range notes {
		if n.Pitch < 0 || n.Pitch > 127 {
			return nil, model.NewConfigError("note %d has pitch %d outside the MIDI range", i, n.Pitch)
		}
		startTick, err := toTick(n.StartSeconds, tps)
		if err != nil {
			return nil, err
		}
		durTicks, err := toTick(n.DurationSeconds, tps)
		if err != nil {
			return nil, err
		}
		key := uint8(n.Pitch)
		offTick := startTick + durTicks

		events = append(events,
			Event{Tick: startTick, Kind: NoteOn, Key: key, Velocity: velocity(n.Amplitude)},
			Event{Tick: offTick, Kind: NoteOff, Key: key},
		)

		for j, b := range n.PitchBends {
			tick, err := toTick(float64(j)*n.DurationSeconds/float64(len(n.PitchBends)), tps)
			if err != nil {
				return nil, err
			}
			tick += startTick
			if j == 0 && tick == startTick {
				tick++
			}
			// a note too short for its bends keeps only those before its NoteOff
			if tick >= offTick {
				continue
			}
			events = append(events, Event{Tick: tick, Kind: PitchBend, Bend: bendValue(b, opts.BendScale)})
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Tick != events[j].Tick {
			return events[i].Tick < events[j].Tick
		}
		return tieRank(events[i].Kind) < tieRank(events[j].Kind)
	})
	return events, nil
}

// tieRank puts every NoteOff of a tick first; everything else keeps its order.
func tieRank(k EventKind) int {
	if k == NoteOff {
		return 0
	}
	return 1
}

func toTick(seconds, tps float64) (uint32, error) {
	ticks := math.Round(seconds * tps)
	if math.IsNaN(ticks) || ticks < 0 || ticks > math.MaxUint32 {
		return 0, model.NewConfigError("%v seconds does not map to a valid tick", seconds)
	}
	return uint32(ticks), nil
}

// velocity never returns 0, since a NoteOn with velocity 0 reads as a NoteOff.
func velocity(amplitude float64) uint8 {
	return uint8(util.Clamp(int(amplitude*127), 1, 127))
}

// bendValue saturates at the 14-bit pitch bend range instead of wrapping.
func bendValue(bend, scale int) int16 {
	return int16(util.Clamp(int64(bend)*int64(scale), bendMin, bendMax))
}

// DeltaEncode returns the tick distance of every event from the one before it.
func DeltaEncode(events []Event) []uint32 {
	deltas := make([]uint32, len(events))
	var prev uint32
	for i, e := range events {
		deltas[i] = e.Tick - prev
		prev = e.Tick
	}
	return deltas
}
