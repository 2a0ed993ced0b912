package midi

import (
	"fmt"
	"sync/atomic"
	"time"

	"go-trails/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// inputBuffer is how many events can queue between two polls
const inputBuffer = 256

// KeyboardInput handles a standard MIDI keyboard. The driver callback feeds a
// buffered channel that the tick loop drains with Poll.
type KeyboardInput struct {
	id       string
	inPort   drivers.In
	stopFunc func()

	events    chan Event
	lastStamp int32
	dropped   uint64
}

// NewKeyboardInput starts listening on the given port
func NewKeyboardInput(id string, inPort drivers.In) (*KeyboardInput, error) {
	kb := &KeyboardInput{
		id:     id,
		inPort: inPort,
		events: make(chan Event, inputBuffer),
	}

	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, kb.receive, gomidi.HandleError(func(err error) {
			debug.Log("midi-in", "listener error on %s: %v", id, err)
		}))
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		kb.stopFunc = stop
	}

	return kb, nil
}

// receive runs on the driver's goroutine
func (kb *KeyboardInput) receive(msg gomidi.Message, timestampms int32) {
	var channel, note, velocity uint8

	var ev Event
	switch {
	case msg.GetNoteStart(&channel, &note, &velocity):
		ev = Event{Kind: NoteOn, Note: note, Velocity: velocity}
	case msg.GetNoteEnd(&channel, &note):
		ev = Event{Kind: NoteOff, Note: note}
	default:
		return
	}

	ev.DeltaMs = int64(timestampms - kb.lastStamp)
	if ev.DeltaMs < 0 {
		ev.DeltaMs = 0
	}
	kb.lastStamp = timestampms
	ev.Time = time.Now()

	kb.push(ev)
}

func (kb *KeyboardInput) push(ev Event) {
	select {
	case kb.events <- ev:
	default:
		n := atomic.AddUint64(&kb.dropped, 1)
		debug.Log("midi-in", "buffer full, dropped %s (total %d)", ev, n)
	}
}

// Poll returns the next buffered event without blocking
func (kb *KeyboardInput) Poll() (Event, bool) {
	select {
	case ev := <-kb.events:
		return ev, true
	default:
		return Event{}, false
	}
}

func (kb *KeyboardInput) ID() string {
	return kb.id
}

// Dropped returns how many events were lost to a full buffer
func (kb *KeyboardInput) Dropped() uint64 {
	return atomic.LoadUint64(&kb.dropped)
}

func (kb *KeyboardInput) Close() error {
	if kb.stopFunc != nil {
		kb.stopFunc()
		kb.stopFunc = nil
	}
	return nil
}
