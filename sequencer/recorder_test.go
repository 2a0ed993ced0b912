package sequencer

import (
	"errors"
	"testing"
	"time"

	"go-trails/midi"
)

func withTime(ev midi.Event, at time.Time) midi.Event {
	ev.Time = at
	return ev
}

func TestRecorderDeltas(t *testing.T) {
	var r Recorder
	r.Record(on(59, 10), t0) // not active
	if r.Len() != 0 {
		t.Fatal("recorded while inactive")
	}

	r.Start()
	r.Record(withTime(on(60, 100), t0), t0.Add(ms(3)))
	r.Record(withTime(off(60), t0.Add(ms(500))), t0.Add(ms(510)))
	r.Record(on(62, 80), t0.Add(ms(600))) // no receive time

	seq, ok := r.Stop()
	if !ok {
		t.Fatal("Stop() returned no sequence")
	}
	want := []int64{0, 500, 100}
	for i, d := range want {
		if got := seq.At(i).DeltaMs; got != d {
			t.Errorf("event %d delta = %d, want %d", i, got, d)
		}
		if !seq.At(i).Time.IsZero() {
			t.Errorf("event %d kept its receive time", i)
		}
	}
	if seq.Duration() != ms(600) {
		t.Errorf("Duration() = %v, want 600ms", seq.Duration())
	}

	if r.Active() || r.Len() != 0 {
		t.Error("recorder not reset after Stop")
	}
	if _, ok := r.Stop(); ok {
		t.Error("empty Stop() returned a sequence")
	}
}

func TestRecorderStartClears(t *testing.T) {
	var r Recorder
	r.Start()
	r.Record(on(60, 100), t0)
	r.Start()
	if r.Len() != 0 {
		t.Errorf("Len() = %d after restart", r.Len())
	}
	r.Record(on(61, 100), t0.Add(ms(900)))
	seq, _ := r.Stop()
	if seq.At(0).DeltaMs != 0 {
		t.Errorf("first delta after restart = %d", seq.At(0).DeltaMs)
	}
}

func TestNewSequenceValidates(t *testing.T) {
	if _, err := NewSequence(nil); err != ErrEmptySequence {
		t.Errorf("empty: %v", err)
	}
	for name, ev := range map[string]midi.Event{
		"pitch":    on(200, 10),
		"velocity": on(60, 128),
		"delta":    withDelta(on(60, 10), -1),
		"kind":     {Kind: 0xA0, Note: 60},
	} {
		if _, err := NewSequence([]midi.Event{ev}); !errors.Is(err, ErrMalformedSequence) {
			t.Errorf("%s: err = %v, want ErrMalformedSequence", name, err)
		}
	}
}
