package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go-trails/sequencer"
	"go-trails/tui"
)

// InputConfig selects the controller to listen to
type InputConfig struct {
	PortName string   `json:"portName,omitempty"`
	Prefer   []string `json:"prefer,omitempty"`
	Exclude  []string `json:"exclude,omitempty"`
}

// OutputConfig defines the synth MIDI output
type OutputConfig struct {
	PortName        string `json:"portName,omitempty"`
	Channel         int    `json:"channel,omitempty"` // 1-16
	Instrument      int    `json:"instrument"`
	ChimeInstrument int    `json:"chimeInstrument"`
}

// LoopConfig controls the wrapping clock
type LoopConfig struct {
	PeriodSeconds float64 `json:"periodSeconds"`
	TickRate      int     `json:"tickRate"` // ticks per second
	AutoColor     bool    `json:"autoColor"`
	ScrubBack     float64 `json:"scrubBack"`    // seconds per tick
	ScrubForward  float64 `json:"scrubForward"` // seconds per tick
}

// DecayConfig shapes how held notes fade
type DecayConfig struct {
	Factor       float64 `json:"factor"`
	Constant     float64 `json:"constant"`
	MinIntensity float64 `json:"minIntensity"`
}

// TrailConfig bounds the active trail and the undo gesture window
type TrailConfig struct {
	MaxAgeSeconds float64 `json:"maxAgeSeconds"` // 0 disables age eviction
	MaxCount      int     `json:"maxCount"`      // 0 disables count eviction
	UndoWindow    int     `json:"undoWindow"`
}

// DisplayConfig is the logical canvas the trail coordinates live in
type DisplayConfig struct {
	Width    int   `json:"width"`
	Height   int   `json:"height"`
	PitchMin uint8 `json:"pitchMin"`
	PitchMax uint8 `json:"pitchMax"`
}

// PaletteConfig points at a GIMP palette for the note colors
type PaletteConfig struct {
	Path string `json:"path,omitempty"`
}

// RecordingsConfig says where finalized recordings go
type RecordingsConfig struct {
	Dir    string `json:"dir,omitempty"`
	Format string `json:"format"` // "json" or "mid"
}

// UIConfig tunes the terminal front end
type UIConfig struct {
	// A hold key is released this long after its last auto-repeat. It must
	// exceed the OS initial key-repeat delay.
	HoldTimeoutMs int `json:"holdTimeoutMs"`
}

// Config is the main configuration structure
type Config struct {
	Input      InputConfig      `json:"input"`
	Output     OutputConfig     `json:"output"`
	Loop       LoopConfig       `json:"loop"`
	Decay      DecayConfig      `json:"decay"`
	Trail      TrailConfig      `json:"trail"`
	Display    DisplayConfig    `json:"display"`
	Palette    PaletteConfig    `json:"palette"`
	Recordings RecordingsConfig `json:"recordings"`
	UI         UIConfig         `json:"ui"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	d := sequencer.DefaultConfig()
	return &Config{
		Input: InputConfig{
			Prefer:  []string{"Launchkey", "Novation"},
			Exclude: []string{"Midi Through", "Through Port", "Dummy"},
		},
		Output: OutputConfig{
			Channel:         1,
			Instrument:      int(d.Instrument),
			ChimeInstrument: int(d.ChimeInstrument),
		},
		Loop: LoopConfig{
			PeriodSeconds: d.LoopPeriod,
			TickRate:      d.TickRate,
			AutoColor:     d.AutoColor,
			ScrubBack:     d.ScrubBack,
			ScrubForward:  d.ScrubForward,
		},
		Decay: DecayConfig{
			Factor:       d.DecayFactor,
			Constant:     d.DecayConstant,
			MinIntensity: d.MinIntensity,
		},
		Trail: TrailConfig{
			MaxAgeSeconds: d.MaxAge.Seconds(),
			MaxCount:      d.MaxCount,
			UndoWindow:    d.UndoWindow,
		},
		Display: DisplayConfig{
			Width:    d.Width,
			Height:   d.Height,
			PitchMin: d.PitchMin,
			PitchMax: d.PitchMax,
		},
		Recordings: RecordingsConfig{
			Format: sequencer.FormatJSON,
		},
		UI: UIConfig{
			HoldTimeoutMs: int(tui.DefaultHoldTimeout.Milliseconds()),
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-trails"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// RecordingsDir returns the configured recordings directory, defaulting to
// ~/.config/go-trails/recordings
func (c *Config) RecordingsDir() (string, error) {
	if c.Recordings.Dir != "" {
		return c.Recordings.Dir, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "recordings"), nil
}

// Load reads the config from the default path, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads the config at path. Missing fields keep their defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the config to the default path
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path, creating its directory
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate rejects values the engine cannot run with
func (c *Config) Validate() error {
	switch {
	case c.Loop.PeriodSeconds <= 0:
		return fmt.Errorf("loop.periodSeconds must be positive")
	case c.Loop.TickRate <= 0:
		return fmt.Errorf("loop.tickRate must be positive")
	case c.Decay.Factor <= 0 || c.Decay.Factor >= 1:
		return fmt.Errorf("decay.factor must be in (0, 1)")
	case c.Decay.Constant <= 0:
		return fmt.Errorf("decay.constant must be positive")
	case c.Trail.MaxAgeSeconds < 0 || c.Trail.MaxCount < 0:
		return fmt.Errorf("trail limits must not be negative")
	case c.Display.Width <= 0 || c.Display.Height <= 0:
		return fmt.Errorf("display size must be positive")
	case c.Display.PitchMax <= c.Display.PitchMin || c.Display.PitchMax > 127:
		return fmt.Errorf("display pitch range %d..%d is invalid", c.Display.PitchMin, c.Display.PitchMax)
	case c.Output.Channel < 1 || c.Output.Channel > 16:
		return fmt.Errorf("output.channel must be 1-16")
	case c.Recordings.Format != sequencer.FormatJSON && c.Recordings.Format != sequencer.FormatSMF:
		return fmt.Errorf("recordings.format must be %q or %q", sequencer.FormatJSON, sequencer.FormatSMF)
	case c.UI.HoldTimeoutMs <= 0:
		return fmt.Errorf("ui.holdTimeoutMs must be positive")
	}
	return nil
}

// Engine converts to the sequencer's configuration
func (c *Config) Engine() sequencer.Config {
	e := sequencer.DefaultConfig()
	e.LoopPeriod = c.Loop.PeriodSeconds
	e.TickRate = c.Loop.TickRate
	e.AutoColor = c.Loop.AutoColor
	e.ScrubBack = c.Loop.ScrubBack
	e.ScrubForward = c.Loop.ScrubForward
	e.DecayFactor = c.Decay.Factor
	e.DecayConstant = c.Decay.Constant
	e.MinIntensity = c.Decay.MinIntensity
	e.MaxAge = time.Duration(c.Trail.MaxAgeSeconds * float64(time.Second))
	e.MaxCount = c.Trail.MaxCount
	e.UndoWindow = c.Trail.UndoWindow
	e.Width = c.Display.Width
	e.Height = c.Display.Height
	e.PitchMin = c.Display.PitchMin
	e.PitchMax = c.Display.PitchMax
	e.Instrument = uint8(c.Output.Instrument)
	e.ChimeInstrument = uint8(c.Output.ChimeInstrument)
	return e
}

// HoldTimeout is the hold-key release delay for the TUI
func (c *Config) HoldTimeout() time.Duration {
	return time.Duration(c.UI.HoldTimeoutMs) * time.Millisecond
}
