package sequencer

import (
	"fmt"
	"io"
	"sort"
	"time"

	"go-trails/midi"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// At the default 120 BPM a quarter note lasts 500ms, so 500 ticks per
// quarter makes one tick one millisecond
const (
	smfTicksPerQuarter = 500
	smfDefaultBPM      = 120.0
)

// WriteSMF writes seq as a single-track Standard MIDI File on channel 1
func WriteSMF(w io.Writer, seq *Sequence) error {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(smfTicksPerQuarter)

	var tr smf.Track
	tr.Add(0, smf.MetaTempo(smfDefaultBPM))
	for i, ev := range seq.events {
		var delta uint32
		if i > 0 {
			delta = uint32(ev.DeltaMs)
		}
		if ev.IsNoteOn() {
			tr.Add(delta, gomidi.NoteOn(0, ev.Note, ev.Velocity))
		} else {
			tr.Add(delta, gomidi.NoteOff(0, ev.Note))
		}
	}
	tr.Close(0)

	if err := s.Add(tr); err != nil {
		return fmt.Errorf("add track: %w", err)
	}
	_, err := s.WriteTo(w)
	return err
}

// ReadSMF reads note events from every track of a Standard MIDI File, merged
// by time. Deltas are converted to milliseconds with the file's first tempo.
func ReadSMF(r io.Reader) (*Sequence, error) {
	s, err := smf.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSequence, err)
	}
	ticks, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, fmt.Errorf("%w: SMPTE time format is not supported", ErrMalformedSequence)
	}

	type timed struct {
		abs uint32
		ev  midi.Event
	}

	bpm := smfDefaultBPM
	tempoSeen := false
	var notes []timed

	for _, tr := range s.Tracks {
		var abs uint32
		for _, e := range tr {
			abs += e.Delta

			var t float64
			if !tempoSeen && e.Message.GetMetaTempo(&t) {
				bpm, tempoSeen = t, true
				continue
			}

			var ch, key, vel uint8
			msg := gomidi.Message(e.Message)
			switch {
			case msg.GetNoteStart(&ch, &key, &vel):
				notes = append(notes, timed{abs, midi.Event{Kind: midi.NoteOn, Note: key, Velocity: vel}})
			case msg.GetNoteEnd(&ch, &key):
				notes = append(notes, timed{abs, midi.Event{Kind: midi.NoteOff, Note: key}})
			}
		}
	}

	sort.SliceStable(notes, func(i, j int) bool { return notes[i].abs < notes[j].abs })

	events := make([]midi.Event, len(notes))
	var prevMs int64
	for i, n := range notes {
		ms := ticks.Duration(bpm, n.abs).Round(time.Millisecond).Milliseconds()
		n.ev.DeltaMs = ms - prevMs
		if i == 0 {
			n.ev.DeltaMs = 0
		}
		prevMs = ms
		events[i] = n.ev
	}

	return NewSequence(events)
}
