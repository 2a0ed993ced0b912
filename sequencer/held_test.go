package sequencer

import "testing"

func TestDecayReachesZero(t *testing.T) {
	for v := 1; v <= 127; v++ {
		i := float64(v)
		steps := 0
		for i > 0 {
			next := decay(i, DefaultDecayFactor, DefaultDecayConstant)
			if next < 0 {
				t.Fatalf("velocity %d: negative intensity %v", v, next)
			}
			if next >= i {
				t.Fatalf("velocity %d: intensity did not decrease (%v -> %v)", v, i, next)
			}
			i = next
			steps++
			if steps > 10000 {
				t.Fatalf("velocity %d: no zero after %d steps", v, steps)
			}
		}
	}
}

func TestHeldNoteFadesButStaysHeld(t *testing.T) {
	out := &recordingOutput{}
	h := NewHeldNotes(0.994, 5, out)
	h.NoteOn(60, 100)

	zeroAt := -1
	for tick := 1; tick <= 400; tick++ {
		h.Decay()
		i, ok := h.Intensity(60)
		if !ok {
			t.Fatalf("tick %d: pitch dropped by decay", tick)
		}
		if i < 0 {
			t.Fatalf("tick %d: negative intensity %v", tick, i)
		}
		if i == 0 && zeroAt < 0 {
			zeroAt = tick
		}
	}
	// the law gives about 215 ticks from velocity 100
	if zeroAt < 150 || zeroAt > 300 {
		t.Errorf("reached zero at tick %d, want within 150..300", zeroAt)
	}

	h.NoteOff(60)
	if _, ok := h.Intensity(60); ok {
		t.Error("pitch still held after note-off")
	}
}

func TestHeldNotesForwardToOutput(t *testing.T) {
	out := &recordingOutput{}
	h := NewHeldNotes(DefaultDecayFactor, DefaultDecayConstant, out)

	h.NoteOn(64, 90)
	h.NoteOn(60, 100)
	h.NoteOn(64, 20) // overwrite
	h.NoteOff(70)    // never held

	got := h.Notes()
	if len(got) != 2 || got[0].Pitch != 60 || got[1].Pitch != 64 || got[1].Intensity != 20 {
		t.Errorf("Notes() = %+v", got)
	}

	want := []string{"on(64,90)", "on(60,100)", "on(64,20)", "off(70,0)"}
	if len(out.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", out.calls, want)
	}
	for i, c := range out.calls {
		if c.String() != want[i] {
			t.Errorf("call %d = %s, want %s", i, c, want[i])
		}
	}

	h.Apply(on(62, 0)) // velocity 0 ends a note
	if _, ok := h.Intensity(62); ok {
		t.Error("velocity-0 note-on was held")
	}

	out.reset()
	h.Release()
	if h.Len() != 0 || len(out.calls) != 2 {
		t.Errorf("Release left %d notes, sent %v", h.Len(), out.calls)
	}
}
