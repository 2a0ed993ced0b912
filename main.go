package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"gopkg.in/alecthomas/kingpin.v2"

	"go-trails/config"
	"go-trails/debug"
	"go-trails/midi"
	"go-trails/sequencer"
	"go-trails/theme"
	"go-trails/tui"
)

var (
	configPath  = kingpin.Flag("config", "Config file").Short('c').String()
	debugLog    = kingpin.Flag("debug", "Write a debug log next to the config").Short('d').Bool()
	playPath    = kingpin.Flag("play", "Recording to play with the play key (path or name in the recordings dir)").Short('p').String()
	inPort      = kingpin.Flag("in", "MIDI input port name").Short('i').String()
	outPort     = kingpin.Flag("out", "MIDI output port name").Short('o').String()
	palettePath = kingpin.Flag("palette", "GIMP palette for the note colors").ExistingFile()
	maxCount    = kingpin.Flag("max-count", "Active trail points before baking, 0 for no limit").Default("-1").Int()
	maxAge      = kingpin.Flag("max-age", "Trail age before baking, 0 for no limit").Default("-1s").Duration()
	saveConfig  = kingpin.Flag("save-config", "Write the effective config and exit").Bool()
)

func main() {
	kingpin.Version("0.1.0")
	kingpin.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if *saveConfig {
		if *configPath != "" {
			return cfg.SaveFile(*configPath)
		}
		return cfg.Save()
	}

	if *debugLog {
		dir, err := config.ConfigDir()
		if err != nil {
			return err
		}
		if err := debug.Enable(filepath.Join(dir, "debug.log")); err != nil {
			return fmt.Errorf("debug log: %w", err)
		}
		defer debug.Disable()
	}

	palette, err := theme.Load(cfg.Palette.Path)
	if err != nil {
		return fmt.Errorf("palette: %w", err)
	}
	th := theme.New(palette)

	engine := cfg.Engine()
	engine.PaletteSize = palette.Len()

	recDir, err := cfg.RecordingsDir()
	if err != nil {
		return err
	}
	lib := sequencer.NewLibrary(recDir, cfg.Recordings.Format)

	// Open MIDI ports before the TUI takes the terminal
	deviceMgr := midi.NewDeviceManager(cfg.Input.Prefer, cfg.Input.Exclude)
	in, err := deviceMgr.OpenInput(cfg.Input.PortName)
	if err != nil {
		if errors.Is(err, midi.ErrNoInput) {
			return fmt.Errorf("%w (connect a controller or pass --in)", err)
		}
		return err
	}

	var out midi.Output = midi.NopOutput{}
	if po, err := deviceMgr.OpenOutput(cfg.Output.PortName, uint8(cfg.Output.Channel-1)); err != nil {
		fmt.Fprintf(os.Stderr, "No MIDI output (%v), running silent\n", err)
	} else {
		out = po
		defer po.Close()
	}

	session := sequencer.NewSession(engine, in, out, lib)
	if *playPath != "" {
		seq, err := lib.Load(*playPath)
		if err != nil {
			return err
		}
		session.SetSequence(seq)
	}
	defer session.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go deviceMgr.Run(ctx)

	m := tui.NewModel(session, deviceMgr, th, engine)
	m.InputName = in.ID()
	m.HoldTimeout = cfg.HoldTimeout()
	p := tea.NewProgram(m, tea.WithAltScreen())

	_, err = p.Run()
	return err
}

// loadConfig reads the config file and applies flag overrides
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if *inPort != "" {
		cfg.Input.PortName = *inPort
	}
	if *outPort != "" {
		cfg.Output.PortName = *outPort
	}
	if *palettePath != "" {
		cfg.Palette.Path = *palettePath
	}
	if *maxCount >= 0 {
		cfg.Trail.MaxCount = *maxCount
	}
	if *maxAge >= 0 {
		cfg.Trail.MaxAgeSeconds = maxAge.Seconds()
	}
	return cfg, cfg.Validate()
}
