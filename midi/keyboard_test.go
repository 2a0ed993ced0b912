package midi

import (
	"encoding/json"
	"testing"

	gomidi "gitlab.com/gomidi/midi/v2"
)

func TestKeyboardInputReceive(t *testing.T) {
	kb, err := NewKeyboardInput("test", nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := kb.Poll(); ok {
		t.Fatal("Poll on empty input returned an event")
	}

	kb.receive(gomidi.NoteOn(0, 60, 100), 10)
	kb.receive(gomidi.ControlChange(0, 64, 127), 20) // ignored
	kb.receive(gomidi.NoteOn(0, 60, 0), 510)         // running-status style note-off
	kb.receive(gomidi.NoteOff(0, 62), 600)

	want := []struct {
		kind  Kind
		note  uint8
		vel   uint8
		delta int64
	}{
		{NoteOn, 60, 100, 10},
		{NoteOff, 60, 0, 500},
		{NoteOff, 62, 0, 90},
	}
	for i, w := range want {
		ev, ok := kb.Poll()
		if !ok {
			t.Fatalf("event %d: Poll returned nothing", i)
		}
		if ev.Kind != w.kind || ev.Note != w.note || ev.Velocity != w.vel || ev.DeltaMs != w.delta {
			t.Errorf("event %d = %s, want %s pitch=%d vel=%d dt=%dms", i, ev, w.kind, w.note, w.vel, w.delta)
		}
		if ev.Time.IsZero() {
			t.Errorf("event %d has no receive time", i)
		}
	}
	if _, ok := kb.Poll(); ok {
		t.Error("Poll returned an extra event")
	}
}

func TestKeyboardInputDropsWhenFull(t *testing.T) {
	kb, _ := NewKeyboardInput("test", nil)
	for i := 0; i < inputBuffer+5; i++ {
		kb.push(Event{Kind: NoteOn, Note: 60, Velocity: 1})
	}
	if got := kb.Dropped(); got != 5 {
		t.Errorf("Dropped() = %d, want 5", got)
	}
}

func TestEventKindJSON(t *testing.T) {
	data, err := json.Marshal(Event{Kind: NoteOff, Note: 61, DeltaMs: 250})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"kind":"note_off","pitch":61,"velocity":0,"deltaMs":250}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}

	var ev Event
	if err := json.Unmarshal([]byte(`{"kind":"bend","pitch":1}`), &ev); err == nil {
		t.Error("Unmarshal accepted an unknown kind")
	}
}

func TestIsNoteOn(t *testing.T) {
	if !(Event{Kind: NoteOn, Velocity: 1}).IsNoteOn() {
		t.Error("note-on with velocity should start a note")
	}
	if (Event{Kind: NoteOn, Velocity: 0}).IsNoteOn() {
		t.Error("note-on with velocity 0 is a note-off")
	}
	if (Event{Kind: NoteOff, Velocity: 64}).IsNoteOn() {
		t.Error("note-off never starts a note")
	}
}
