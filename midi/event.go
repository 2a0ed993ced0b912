package midi

import (
	"fmt"
	"time"
)

// Kind is the MIDI status of a note event
type Kind uint8

// MIDI message types
const (
	NoteOn  Kind = 0x90
	NoteOff Kind = 0x80
)

func (k Kind) String() string {
	switch k {
	case NoteOn:
		return "note_on"
	case NoteOff:
		return "note_off"
	}
	return fmt.Sprintf("kind(%#x)", uint8(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	if k != NoteOn && k != NoteOff {
		return nil, fmt.Errorf("unknown event kind %#x", uint8(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "note_on":
		*k = NoteOn
	case "note_off":
		*k = NoteOff
	default:
		return fmt.Errorf("unknown event kind %q", text)
	}
	return nil
}

// Event is a single timed note event, live or recorded
type Event struct {
	Kind     Kind  `json:"kind"`
	Note     uint8 `json:"pitch"`
	Velocity uint8 `json:"velocity"`
	DeltaMs  int64 `json:"deltaMs"` // ms since the previous event from the same source

	Time time.Time `json:"-"` // receive time, zero for recorded events
}

// IsNoteOn reports whether the event starts a note. A note-on with
// velocity 0 is a note-off.
func (e Event) IsNoteOn() bool {
	return e.Kind == NoteOn && e.Velocity > 0
}

func (e Event) String() string {
	return fmt.Sprintf("%s pitch=%d vel=%d dt=%dms", e.Kind, e.Note, e.Velocity, e.DeltaMs)
}
