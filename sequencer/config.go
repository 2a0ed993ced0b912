package sequencer

import (
	"time"

	"go-trails/midi"
)

// Engine defaults. The decay pair gives roughly a five second fade from full
// velocity at 60 ticks per second.
const (
	DefaultLoopPeriod    = 8.0   // seconds per loop
	DefaultTickRate      = 60    // ticks per second
	DefaultDecayFactor   = 0.997 // multiplicative decay per tick
	DefaultDecayConstant = 4.5   // subtractive term, divided by intensity
	DefaultMinIntensity  = 1.0   // held notes at or below this leave no trail
	DefaultUndoWindow    = 6     // ± y units grouped into one undo gesture
	DefaultMaxAge        = 30 * time.Second
	DefaultScrubBack     = 8.0 / 60
	DefaultScrubForward  = 6.0 / 60
	DefaultPaletteSize   = 7

	DefaultWidth    = 1280
	DefaultHeight   = 720
	DefaultPitchMin = 36
	DefaultPitchMax = 84
)

// Chime pitches. Sent on the chime instrument; never held or drawn.
const (
	ChimeBoundaryLow  uint8 = 43
	ChimeBoundaryHigh uint8 = 88
	ChimeColor        uint8 = 88
	ChimeClear        uint8 = 43
	ChimePauseOn      uint8 = 76
	ChimePauseOff     uint8 = 72
)

// Config holds every tunable of a Session
type Config struct {
	LoopPeriod float64 // seconds
	TickRate   int     // ticks per second, sets the clock step
	AutoColor  bool    // advance the color phase on each loop boundary

	ScrubBack    float64 // seconds removed per tick while held
	ScrubForward float64 // seconds added per tick while held

	DecayFactor   float64
	DecayConstant float64
	MinIntensity  float64

	MaxAge     time.Duration // 0 disables age eviction
	MaxCount   int           // 0 disables count eviction
	UndoWindow int

	PaletteSize int

	Width, Height      int
	PitchMin, PitchMax uint8

	Instrument      uint8
	ChimeInstrument uint8
}

// DefaultConfig returns the engine defaults
func DefaultConfig() Config {
	return Config{
		LoopPeriod:      DefaultLoopPeriod,
		TickRate:        DefaultTickRate,
		AutoColor:       true,
		ScrubBack:       DefaultScrubBack,
		ScrubForward:    DefaultScrubForward,
		DecayFactor:     DefaultDecayFactor,
		DecayConstant:   DefaultDecayConstant,
		MinIntensity:    DefaultMinIntensity,
		MaxAge:          DefaultMaxAge,
		UndoWindow:      DefaultUndoWindow,
		PaletteSize:     DefaultPaletteSize,
		Width:           DefaultWidth,
		Height:          DefaultHeight,
		PitchMin:        DefaultPitchMin,
		PitchMax:        DefaultPitchMax,
		Instrument:      midi.DefaultInstrument,
		ChimeInstrument: midi.ChimeInstrument,
	}
}

// TickDuration is the nominal time between ticks
func (c Config) TickDuration() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}
