package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"

	"go-trails/config"
	"go-trails/midi"
	"go-trails/sequencer"
)

var (
	app = kingpin.New("midiports", "MIDI port diagnostics for go-trails")

	listCmd = app.Command("list", "List all MIDI ports")

	monitorCmd  = app.Command("monitor", "Print note events from an input")
	monitorPort = monitorCmd.Arg("port", "Input port name (default: auto-pick)").String()

	playCmd  = app.Command("play", "Play a recording to an output")
	playFile = playCmd.Arg("file", "Recording path or name in the recordings dir").Required().String()
	playPort = playCmd.Flag("out", "Output port name").Short('o').String()
	playChan = playCmd.Flag("channel", "MIDI channel 1-16").Default("1").Int()

	recordingsCmd = app.Command("recordings", "List saved recordings, newest first")
)

func main() {
	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	dm := midi.NewDeviceManager(cfg.Input.Prefer, cfg.Input.Exclude)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch cmd {
	case listCmd.FullCommand():
		err = listPorts(dm)
	case monitorCmd.FullCommand():
		err = monitor(ctx, dm, *monitorPort)
	case playCmd.FullCommand():
		err = play(ctx, dm, library(cfg), *playFile, *playPort, *playChan)
	case recordingsCmd.FullCommand():
		err = listRecordings(library(cfg))
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func listPorts(dm *midi.DeviceManager) error {
	fmt.Println("(waiting up to 3 seconds...)")
	ins, outs, err := dm.Ports()
	if err != nil {
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
		return err
	}

	fmt.Println("=== MIDI Input Ports ===")
	for i, name := range ins {
		fmt.Printf("  %d: %s\n", i, name)
	}
	fmt.Println("\n=== MIDI Output Ports ===")
	for i, name := range outs {
		fmt.Printf("  %d: %s\n", i, name)
	}
	return nil
}

func monitor(ctx context.Context, dm *midi.DeviceManager, port string) error {
	in, err := dm.OpenInput(port)
	if err != nil {
		return err
	}
	defer in.Close()

	fmt.Printf("Listening on %s (ctrl+c to stop)\n", in.ID())
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if n := in.Dropped(); n > 0 {
				fmt.Printf("\n%d events dropped\n", n)
			}
			return nil
		case <-ticker.C:
			for {
				ev, ok := in.Poll()
				if !ok {
					break
				}
				fmt.Printf("%s  %s\n", ev.Time.Format("15:04:05.000"), ev)
			}
		}
	}
}

func play(ctx context.Context, dm *midi.DeviceManager, lib *sequencer.FileLibrary, name, port string, channel int) error {
	if channel < 1 || channel > 16 {
		return fmt.Errorf("channel %d out of range 1-16", channel)
	}
	seq, err := lib.Load(name)
	if err != nil {
		return err
	}
	out, err := dm.OpenOutput(port, uint8(channel-1))
	if err != nil {
		return err
	}
	defer out.Close()

	var pb sequencer.Playback
	if err := pb.Load(seq, time.Now()); err != nil {
		return err
	}
	pb.Start()
	fmt.Printf("Playing %d events (%s) to %s\n", seq.Len(), seq.Duration(), out.ID())

	emit := func(ev midi.Event) {
		if ev.IsNoteOn() {
			out.NoteOn(ev.Note, ev.Velocity)
		} else {
			out.NoteOff(ev.Note)
		}
	}

	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()
	for pb.State() == sequencer.Playing {
		select {
		case <-ctx.Done():
			pb.Stop()
			return nil
		case now := <-ticker.C:
			pb.Tick(now, emit)
		}
	}
	fmt.Println("Done")
	return nil
}

// library opens the configured recordings dir, falling back to the working
// directory when the home dir is unknown
func library(cfg *config.Config) *sequencer.FileLibrary {
	dir, err := cfg.RecordingsDir()
	if err != nil {
		dir = "."
	}
	return sequencer.NewLibrary(dir, cfg.Recordings.Format)
}

func listRecordings(lib *sequencer.FileLibrary) error {
	recs, err := lib.List()
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Printf("No recordings in %s\n", lib.Dir)
		return nil
	}
	for _, r := range recs {
		fmt.Printf("  %s  %s\n", r.Timestamp.Format("2006-01-02 15:04:05"), r.Path)
	}
	return nil
}
