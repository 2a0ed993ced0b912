package tui

import (
	"sort"

	"go-trails/sequencer"
	"go-trails/widgets"
)

// KeyMap binds key names (as reported by bubbletea) to commands
type KeyMap map[string]sequencer.Command

func DefaultKeyMap() KeyMap {
	return KeyMap{
		"e":        sequencer.CmdClear,
		"z":        sequencer.CmdUndo,
		"r":        sequencer.CmdToggleRecording,
		"p":        sequencer.CmdTogglePlayback,
		" ":        sequencer.CmdAdvanceColor,
		"space":    sequencer.CmdAdvanceColor,
		"s":        sequencer.CmdScrubForward,
		"w":        sequencer.CmdScrubBack,
		"shift+up": sequencer.CmdPauseClock,
		"x":        sequencer.CmdPauseClock,
		"q":        sequencer.CmdQuit,
		"ctrl+c":   sequencer.CmdQuit,
	}
}

// Lookup returns the command bound to key
func (k KeyMap) Lookup(key string) (sequencer.Command, bool) {
	cmd, ok := k[key]
	return cmd, ok
}

// Help lists one binding per command in command order, preferring the
// shortest key name
func (k KeyMap) Help() []widgets.KeyBinding {
	best := make(map[sequencer.Command]string)
	for key, cmd := range k {
		if key == " " {
			key = "space"
		}
		if cur, ok := best[cmd]; !ok || len(key) < len(cur) || (len(key) == len(cur) && key < cur) {
			best[cmd] = key
		}
	}

	cmds := make([]sequencer.Command, 0, len(best))
	for cmd := range best {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i] < cmds[j] })

	out := make([]widgets.KeyBinding, len(cmds))
	for i, cmd := range cmds {
		out[i] = widgets.KeyBinding{Key: best[cmd], Desc: cmd.String()}
	}
	return out
}

// help screen groups, in display order
var sections = []struct {
	title string
	cmds  []sequencer.Command
}{
	{"Trail", []sequencer.Command{sequencer.CmdClear, sequencer.CmdUndo, sequencer.CmdAdvanceColor}},
	{"Recording", []sequencer.Command{sequencer.CmdToggleRecording, sequencer.CmdTogglePlayback}},
	{"Clock (hold)", []sequencer.Command{sequencer.CmdScrubForward, sequencer.CmdScrubBack, sequencer.CmdPauseClock}},
	{"", []sequencer.Command{sequencer.CmdQuit}},
}

// Sections groups Help for the full help screen. Commands without a key are
// left out, as are empty groups.
func (k KeyMap) Sections() []widgets.KeySection {
	byDesc := make(map[string]widgets.KeyBinding)
	for _, b := range k.Help() {
		byDesc[b.Desc] = b
	}

	var out []widgets.KeySection
	for _, sec := range sections {
		ks := widgets.KeySection{Title: sec.title}
		for _, cmd := range sec.cmds {
			if b, ok := byDesc[cmd.String()]; ok {
				ks.Keys = append(ks.Keys, b)
			}
		}
		if len(ks.Keys) > 0 {
			out = append(out, ks)
		}
	}
	return out
}
