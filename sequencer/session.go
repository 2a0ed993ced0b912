package sequencer

import (
	"fmt"
	"time"

	"go-trails/debug"
	"go-trails/midi"
)

// Command is one entry of the command surface
type Command int

const (
	CmdClear Command = iota
	CmdUndo
	CmdToggleRecording
	CmdTogglePlayback
	CmdAdvanceColor
	CmdScrubForward // hold
	CmdScrubBack    // hold
	CmdPauseClock   // hold
	CmdQuit
)

var commandNames = map[Command]string{
	CmdClear:           "clear",
	CmdUndo:            "undo",
	CmdToggleRecording: "toggle-recording",
	CmdTogglePlayback:  "toggle-playback",
	CmdAdvanceColor:    "advance-color",
	CmdScrubForward:    "scrub-forward",
	CmdScrubBack:       "scrub-back",
	CmdPauseClock:      "pause-clock",
	CmdQuit:            "quit",
}

func (c Command) String() string {
	if s, ok := commandNames[c]; ok {
		return s
	}
	return fmt.Sprintf("command(%d)", int(c))
}

// IsHold reports whether the command stays active until released
func (c Command) IsHold() bool {
	return c == CmdScrubForward || c == CmdScrubBack || c == CmdPauseClock
}

// Library persists finalized recordings and supplies one for playback
type Library interface {
	Save(seq *Sequence) (string, error)
	Latest() (*Sequence, string, error)
}

// Frame is the read-only view handed to the renderer once per tick
type Frame struct {
	Now        time.Time
	MarkerY    int
	Phase      int
	NextPhases [2]int
	LoopIndex  int

	Held  []HeldNote
	Trail []Point
	Bake  []Point // expired points to composite into the background, oldest first
	Reset bool    // background must be wiped before baking

	Recording   bool
	Recorded    int // events captured in the current recording
	Playback    PlaybackState
	ClockPaused bool
	Status      string
	Quit        bool
}

// Session is the single owner of all engine state. Tick, Do and Hold must be
// called from one goroutine.
type Session struct {
	cfg Config

	clock    *Clock
	phase    Phase
	held     *HeldNotes
	trail    *Trail
	recorder Recorder
	playback Playback

	in  midi.Input
	out midi.Output
	lib Library

	sequence *Sequence // default for the next playback

	scrubBack, scrubForward bool
	reset                   bool
	status                  string
	quit                    bool
}

// NewSession wires the engine to its collaborators. in, out and lib may be
// nil.
func NewSession(cfg Config, in midi.Input, out midi.Output, lib Library) *Session {
	if out == nil {
		out = midi.NopOutput{}
	}
	size := cfg.PaletteSize
	if size <= 0 {
		size = DefaultPaletteSize
	}
	return &Session{
		cfg:   cfg,
		clock: NewClock(cfg.LoopPeriod),
		phase: Phase{Size: size},
		held:  NewHeldNotes(cfg.DecayFactor, cfg.DecayConstant, out),
		trail: NewTrail(cfg),
		in:    in,
		out:   out,
		lib:   lib,
	}
}

// SetInput swaps the live source (nil while the device is gone). Notes held
// by the old device are released.
func (s *Session) SetInput(in midi.Input) {
	if in == nil {
		s.held.Release()
	}
	s.in = in
}

// SetSequence sets the default sequence for the next playback
func (s *Session) SetSequence(seq *Sequence) {
	s.sequence = seq
}

// Tick runs one fixed step: clock, boundary, input and playback drain,
// decay, snapshot, eviction
func (s *Session) Tick(now time.Time) Frame {
	s.clock.Advance(1 / float64(s.cfg.TickRate))
	switch {
	case s.scrubBack:
		s.clock.ScrubBack(s.cfg.ScrubBack)
	case s.scrubForward:
		s.clock.ScrubForward(s.cfg.ScrubForward)
	}

	if n := s.clock.Crossings(); n > 0 {
		if s.cfg.AutoColor {
			s.phase.Step(n)
		}
		s.out.NoteOff(ChimeBoundaryLow)
		s.out.NoteOff(ChimeBoundaryHigh)
	}

	s.drainInput(now)
	s.drainPlayback(now)

	s.held.Decay()

	markerY := s.clock.MarkerY(s.cfg.Height)
	held := s.held.Notes()
	s.trail.Snapshot(held, markerY, s.phase.Index, now)
	baked := s.trail.Evict(now)
	if len(baked) > 0 {
		debug.LogEvery(60, "trail", "baked %d points, %d active", len(baked), s.trail.Len())
	}

	f := Frame{
		Now:         now,
		MarkerY:     markerY,
		Phase:       s.phase.Index,
		NextPhases:  [2]int{s.phase.Next(1), s.phase.Next(2)},
		LoopIndex:   s.clock.LoopIndex(),
		Held:        held,
		Trail:       s.trail.Points(),
		Bake:        baked,
		Reset:       s.reset,
		Recording:   s.recorder.Active(),
		Recorded:    s.recorder.Len(),
		Playback:    s.playback.State(),
		ClockPaused: s.clock.Paused(),
		Status:      s.status,
		Quit:        s.quit,
	}
	s.reset = false
	return f
}

func (s *Session) drainInput(now time.Time) {
	if s.in == nil {
		return
	}
	for {
		ev, ok := s.in.Poll()
		if !ok {
			return
		}
		s.recorder.Record(ev, now)
		s.held.Apply(ev)
	}
}

func (s *Session) drainPlayback(now time.Time) {
	if s.playback.State() != Playing {
		return
	}
	s.playback.Tick(now, s.held.Apply)
	if s.playback.State() == Finished {
		s.status = "playback finished"
		debug.Log("playback", "finished")
	}
}

// Do applies a momentary command; hold commands are treated as a press
func (s *Session) Do(cmd Command, now time.Time) {
	if cmd.IsHold() {
		s.Hold(cmd, true)
		return
	}

	switch cmd {
	case CmdClear:
		s.trail.Clear()
		s.reset = true
		s.chime(ChimeClear, 100)

	case CmdUndo:
		if n := s.trail.Undo(); n > 0 {
			debug.Log("trail", "undo removed %d points", n)
		}

	case CmdToggleRecording:
		s.toggleRecording()

	case CmdTogglePlayback:
		s.togglePlayback(now)

	case CmdAdvanceColor:
		s.clock.Observe()
		s.phase.Step(1)
		s.chime(ChimeColor, 50)

	case CmdQuit:
		s.quit = true
	}
}

// Hold starts or ends a hold command. Repeated presses are ignored.
func (s *Session) Hold(cmd Command, active bool) {
	switch cmd {
	case CmdScrubBack:
		s.scrubBack = active
	case CmdScrubForward:
		s.scrubForward = active
	case CmdPauseClock:
		if s.clock.Paused() == active {
			return
		}
		s.clock.SetPaused(active)
		if active {
			s.chime(ChimePauseOn, 30)
		} else {
			s.chime(ChimePauseOff, 30)
		}
	}
}

func (s *Session) toggleRecording() {
	if s.recorder.Active() {
		s.finishRecording()
		return
	}
	if s.playback.Active() {
		debug.Log("record", "ignored start while playback is %s", s.playback.State())
		return
	}
	s.recorder.Start()
	s.status = "recording"
	debug.Log("record", "started")
}

// finishRecording finalizes the capture and hands it to the library
func (s *Session) finishRecording() {
	seq, ok := s.recorder.Stop()
	if !ok {
		s.status = "recording empty, nothing saved"
		return
	}
	s.sequence = seq
	s.status = fmt.Sprintf("recorded %d events", seq.Len())

	if s.lib == nil {
		return
	}
	path, err := s.lib.Save(seq)
	if err != nil {
		s.status = fmt.Sprintf("save failed: %v", err)
		debug.Log("record", "save: %v", err)
		return
	}
	s.status = fmt.Sprintf("saved %d events to %s", seq.Len(), path)
	debug.Log("record", "saved %d events to %s", seq.Len(), path)
}

func (s *Session) togglePlayback(now time.Time) {
	switch s.playback.State() {
	case Playing:
		s.playback.Pause()
		s.status = "playback paused"
		return
	case Paused:
		s.playback.Resume(now)
		s.status = "playing"
		return
	}

	if s.recorder.Active() {
		debug.Log("playback", "ignored start while recording")
		return
	}

	seq, err := s.playbackSequence()
	if err == nil {
		err = s.playback.Load(seq, now)
	}
	if err != nil {
		s.status = fmt.Sprintf("cannot play: %v", err)
		debug.Log("playback", "load: %v", err)
		return
	}
	s.playback.Start()
	s.status = fmt.Sprintf("playing %d events", seq.Len())
	debug.Log("playback", "started, %d events", seq.Len())
}

func (s *Session) playbackSequence() (*Sequence, error) {
	if s.sequence != nil {
		return s.sequence, nil
	}
	if s.lib == nil {
		return nil, ErrEmptySequence
	}
	seq, path, err := s.lib.Latest()
	if err != nil {
		return nil, err
	}
	debug.Log("playback", "loaded %s", path)
	s.sequence = seq
	return seq, nil
}

// Close stops playback, finalizes an active recording and releases every
// held note
func (s *Session) Close() {
	s.playback.Stop()
	if s.recorder.Active() {
		s.finishRecording()
	}
	s.held.Release()
}

// Done reports whether Quit was requested
func (s *Session) Done() bool {
	return s.quit
}

// chime plays a feedback note on the chime instrument. Chimes never touch
// the held notes or the trail.
func (s *Session) chime(pitch, velocity uint8) {
	s.out.SetInstrument(s.cfg.ChimeInstrument)
	s.out.NoteOn(pitch, velocity)
	s.out.SetInstrument(s.cfg.Instrument)
}

// Accessors for the renderer and tests

func (s *Session) Held() *HeldNotes {
	return s.held
}

func (s *Session) Trail() *Trail {
	return s.trail
}

func (s *Session) Clock() *Clock {
	return s.clock
}

func (s *Session) Phase() Phase {
	return s.phase
}

func (s *Session) Playback() *Playback {
	return &s.playback
}

func (s *Session) Recorder() *Recorder {
	return &s.recorder
}
