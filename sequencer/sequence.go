package sequencer

import (
	"errors"
	"fmt"
	"time"

	"go-trails/midi"
)

var (
	// ErrEmptySequence is returned when loading a recording with no events
	ErrEmptySequence = errors.New("sequence is empty")
	// ErrMalformedSequence is returned for recordings that fail validation
	ErrMalformedSequence = errors.New("malformed sequence")
)

// Sequence is a finalized, immutable recording. Each event's DeltaMs is the
// time since the previous event; the first delta is ignored on playback.
type Sequence struct {
	events []midi.Event
}

// NewSequence validates and copies events into a Sequence
func NewSequence(events []midi.Event) (*Sequence, error) {
	if len(events) == 0 {
		return nil, ErrEmptySequence
	}
	for i, ev := range events {
		if err := validateEvent(ev); err != nil {
			return nil, fmt.Errorf("%w: event %d: %v", ErrMalformedSequence, i, err)
		}
	}

	s := &Sequence{events: make([]midi.Event, len(events))}
	copy(s.events, events)
	for i := range s.events {
		s.events[i].Time = time.Time{}
	}
	return s, nil
}

func validateEvent(ev midi.Event) error {
	switch {
	case ev.Kind != midi.NoteOn && ev.Kind != midi.NoteOff:
		return fmt.Errorf("unknown kind %s", ev.Kind)
	case ev.Note > 127:
		return fmt.Errorf("pitch %d out of range", ev.Note)
	case ev.Velocity > 127:
		return fmt.Errorf("velocity %d out of range", ev.Velocity)
	case ev.DeltaMs < 0:
		return fmt.Errorf("negative delta %dms", ev.DeltaMs)
	}
	return nil
}

func (s *Sequence) Len() int {
	return len(s.events)
}

// At returns the i-th event
func (s *Sequence) At(i int) midi.Event {
	return s.events[i]
}

// Events returns a copy of the events
func (s *Sequence) Events() []midi.Event {
	out := make([]midi.Event, len(s.events))
	copy(out, s.events)
	return out
}

// Duration is the sum of all deltas after the first
func (s *Sequence) Duration() time.Duration {
	var ms int64
	for _, ev := range s.events[1:] {
		ms += ev.DeltaMs
	}
	return time.Duration(ms) * time.Millisecond
}
