package sequencer

import (
	"fmt"
	"time"

	"go-trails/midi"
)

// fakeInput hands out queued events one Poll at a time
type fakeInput struct {
	queue []midi.Event
}

func (f *fakeInput) push(evs ...midi.Event) {
	f.queue = append(f.queue, evs...)
}

func (f *fakeInput) Poll() (midi.Event, bool) {
	if len(f.queue) == 0 {
		return midi.Event{}, false
	}
	ev := f.queue[0]
	f.queue = f.queue[1:]
	return ev, true
}

// outCall is one call seen by recordingOutput
type outCall struct {
	op       string // "on", "off", "inst"
	pitch    uint8
	velocity uint8
	at       time.Time
}

func (c outCall) String() string {
	return fmt.Sprintf("%s(%d,%d)", c.op, c.pitch, c.velocity)
}

// recordingOutput stores every call stamped with now
type recordingOutput struct {
	now   time.Time
	calls []outCall
}

func (o *recordingOutput) NoteOn(pitch, velocity uint8) {
	o.calls = append(o.calls, outCall{"on", pitch, velocity, o.now})
}

func (o *recordingOutput) NoteOff(pitch uint8) {
	o.calls = append(o.calls, outCall{"off", pitch, 0, o.now})
}

func (o *recordingOutput) SetInstrument(id uint8) {
	o.calls = append(o.calls, outCall{"inst", id, 0, o.now})
}

// forPitch filters note calls for one pitch
func (o *recordingOutput) forPitch(p uint8) []outCall {
	var out []outCall
	for _, c := range o.calls {
		if c.op != "inst" && c.pitch == p {
			out = append(out, c)
		}
	}
	return out
}

func (o *recordingOutput) reset() {
	o.calls = nil
}

// memLibrary keeps saved sequences in memory
type memLibrary struct {
	saved []*Sequence
	err   error
}

func (l *memLibrary) Save(seq *Sequence) (string, error) {
	if l.err != nil {
		return "", l.err
	}
	l.saved = append(l.saved, seq)
	return fmt.Sprintf("mem/%d.json", len(l.saved)), nil
}

func (l *memLibrary) Latest() (*Sequence, string, error) {
	if len(l.saved) == 0 {
		return nil, "", ErrNoRecordings
	}
	return l.saved[len(l.saved)-1], "mem/latest.json", nil
}

func on(pitch, vel uint8) midi.Event {
	return midi.Event{Kind: midi.NoteOn, Note: pitch, Velocity: vel}
}

func off(pitch uint8) midi.Event {
	return midi.Event{Kind: midi.NoteOff, Note: pitch}
}

func ms(n int64) time.Duration {
	return time.Duration(n) * time.Millisecond
}

func mustSequence(events ...midi.Event) *Sequence {
	seq, err := NewSequence(events)
	if err != nil {
		panic(err)
	}
	return seq
}

func withDelta(ev midi.Event, d int64) midi.Event {
	ev.DeltaMs = d
	return ev
}
