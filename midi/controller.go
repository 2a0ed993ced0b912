package midi

// Input is the live event source. Poll never blocks; it returns false when
// no event is waiting.
type Input interface {
	Poll() (Event, bool)
}

// Output accepts note and instrument commands. Calls are fire-and-forget and
// NoteOff on a pitch that was never turned on is a no-op for the receiver.
type Output interface {
	NoteOn(pitch, velocity uint8)
	NoteOff(pitch uint8)
	SetInstrument(id uint8)
}

// NopOutput discards everything (no output port available)
type NopOutput struct{}

func (NopOutput) NoteOn(pitch, velocity uint8) {}
func (NopOutput) NoteOff(pitch uint8)          {}
func (NopOutput) SetInstrument(id uint8)       {}

// General MIDI program used for normal playing and for command feedback
const (
	DefaultInstrument uint8 = 0 // acoustic grand
	ChimeInstrument   uint8 = 5 // electric piano 2
)
