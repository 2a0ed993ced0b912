package sequencer

import (
	"sort"

	"go-trails/midi"
)

// HeldNote is one sounding pitch and its current intensity (0-127 scale)
type HeldNote struct {
	Pitch     uint8
	Intensity float64
}

// HeldNotes tracks the pitches currently pressed and fades them each tick.
// Note changes are forwarded to the output as they happen.
type HeldNotes struct {
	Factor   float64
	Constant float64

	notes map[uint8]float64
	out   midi.Output
}

// NewHeldNotes creates an empty registry forwarding to out
func NewHeldNotes(factor, constant float64, out midi.Output) *HeldNotes {
	if out == nil {
		out = midi.NopOutput{}
	}
	return &HeldNotes{
		Factor:   factor,
		Constant: constant,
		notes:    make(map[uint8]float64),
		out:      out,
	}
}

// NoteOn sets or overwrites the pitch's intensity to velocity
func (h *HeldNotes) NoteOn(pitch, velocity uint8) {
	h.notes[pitch] = float64(velocity)
	h.out.NoteOn(pitch, velocity)
}

// NoteOff removes the pitch. The output always sees the note-off.
func (h *HeldNotes) NoteOff(pitch uint8) {
	delete(h.notes, pitch)
	h.out.NoteOff(pitch)
}

// Apply routes an event: note-on with velocity starts a note, anything else
// ends it
func (h *HeldNotes) Apply(ev midi.Event) {
	if ev.IsNoteOn() {
		h.NoteOn(ev.Note, ev.Velocity)
	} else {
		h.NoteOff(ev.Note)
	}
}

// Decay fades every held pitch one tick. The subtractive term grows as the
// intensity drops, so a note reaches exactly zero in finite ticks. Pitches at
// zero stay held until their note-off.
func (h *HeldNotes) Decay() {
	for p, i := range h.notes {
		h.notes[p] = decay(i, h.Factor, h.Constant)
	}
}

func decay(i, factor, constant float64) float64 {
	return max(0, i*factor-constant/max(1, i))
}

// Intensity returns the pitch's intensity and whether it is held
func (h *HeldNotes) Intensity(pitch uint8) (float64, bool) {
	i, ok := h.notes[pitch]
	return i, ok
}

func (h *HeldNotes) Len() int {
	return len(h.notes)
}

// Notes returns the held notes sorted by pitch
func (h *HeldNotes) Notes() []HeldNote {
	out := make([]HeldNote, 0, len(h.notes))
	for p, i := range h.notes {
		out = append(out, HeldNote{Pitch: p, Intensity: i})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Pitch < out[b].Pitch })
	return out
}

// Release sends note-off for every held pitch and empties the registry
func (h *HeldNotes) Release() {
	for _, n := range h.Notes() {
		h.NoteOff(n.Pitch)
	}
}

// SetOutput swaps the output (nil means discard)
func (h *HeldNotes) SetOutput(out midi.Output) {
	if out == nil {
		out = midi.NopOutput{}
	}
	h.out = out
}
