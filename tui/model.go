package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-trails/debug"
	"go-trails/midi"
	"go-trails/sequencer"
	"go-trails/theme"
	"go-trails/widgets"
)

// DefaultHoldTimeout releases a hold command when its key stops repeating.
// Terminals report no key release, and the first auto-repeat arrives after
// roughly half a second.
const DefaultHoldTimeout = 600 * time.Millisecond

// header, status and help lines plus the key strip
const chromeLines = 4

// helpKey toggles the full help screen
const helpKey = "?"

type Model struct {
	Session   *sequencer.Session
	DeviceMgr *midi.DeviceManager // may be nil
	Theme     *theme.Theme
	Canvas    *Canvas
	Keys      KeyMap

	HoldTimeout time.Duration
	InputName   string

	tick     time.Duration
	holds    map[sequencer.Command]time.Time // last key repeat per active hold
	frame    sequencer.Frame
	now      func() time.Time
	showHelp bool
	quitting bool
}

// TickMsg drives one engine step
type TickMsg time.Time

type DeviceEventMsg midi.DeviceEvent

func NewModel(session *sequencer.Session, deviceMgr *midi.DeviceManager, th *theme.Theme, cfg sequencer.Config) Model {
	return Model{
		Session:     session,
		DeviceMgr:   deviceMgr,
		Theme:       th,
		Canvas:      NewCanvas(th, cfg, 80, 24-chromeLines),
		Keys:        DefaultKeyMap(),
		HoldTimeout: DefaultHoldTimeout,
		tick:        cfg.TickDuration(),
		holds:       make(map[sequencer.Command]time.Time),
		now:         time.Now,
	}
}

// Tick schedules the next engine step
func Tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	return func() tea.Msg {
		event := <-deviceMgr.Events()
		return DeviceEventMsg(event)
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{Tick(m.tick)}
	if m.DeviceMgr != nil {
		cmds = append(cmds, ListenForDevices(m.DeviceMgr))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == helpKey {
			m.showHelp = !m.showHelp
			return m, nil
		}
		cmd, ok := m.Keys.Lookup(msg.String())
		if !ok {
			return m, nil
		}
		if cmd == sequencer.CmdQuit {
			return m.quit()
		}
		if cmd.IsHold() {
			if _, active := m.holds[cmd]; !active {
				m.Session.Hold(cmd, true)
			}
			m.holds[cmd] = m.now()
			return m, nil
		}
		m.Session.Do(cmd, m.now())

	case TickMsg:
		now := time.Time(msg)
		m.releaseHolds(now)
		m.frame = m.Session.Tick(now)
		m.Canvas.Apply(m.frame)
		if m.frame.Quit {
			return m.quit()
		}
		return m, Tick(m.tick)

	case tea.WindowSizeMsg:
		m.Canvas.Resize(msg.Width, msg.Height-chromeLines)

	case DeviceEventMsg:
		event := midi.DeviceEvent(msg)
		switch event.Type {
		case midi.DeviceConnected:
			m.Session.SetInput(event.Input)
			m.InputName = event.ID
		case midi.DeviceDisconnected:
			m.Session.SetInput(nil)
			m.InputName = ""
		}
		debug.Log("device", "tui saw %v for %s", event.Type, event.ID)
		return m, ListenForDevices(m.DeviceMgr)
	}

	return m, nil
}

// releaseHolds ends holds whose key stopped repeating
func (m Model) releaseHolds(now time.Time) {
	for cmd, last := range m.holds {
		if now.Sub(last) > m.HoldTimeout {
			m.Session.Hold(cmd, false)
			delete(m.holds, cmd)
		}
	}
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.Session.Close()
	return m, tea.Quit
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	f := m.frame
	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	fgStyle := lipgloss.NewStyle().Foreground(m.Theme.FG())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	recStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning()).Bold(true)
	playStyle := lipgloss.NewStyle().Foreground(m.Theme.Success())

	var parts []string
	parts = append(parts, headerStyle.Render("go-trails"))
	parts = append(parts, fgStyle.Render(fmt.Sprintf("loop %d", f.LoopIndex)))
	parts = append(parts, widgets.RenderNextColors(
		m.Theme.Symbols.Solid,
		m.Theme.Phase(f.Phase),
		m.Theme.Phase(f.NextPhases[0]),
		m.Theme.Phase(f.NextPhases[1]),
	))
	if f.Recording {
		parts = append(parts, recStyle.Render(fmt.Sprintf("● REC %d", f.Recorded)))
	}
	switch f.Playback {
	case sequencer.Playing:
		parts = append(parts, playStyle.Render("▶ playing"))
	case sequencer.Paused:
		parts = append(parts, playStyle.Render("‖ paused"))
	}
	if f.ClockPaused {
		parts = append(parts, dimStyle.Render("clock paused"))
	}
	if m.InputName != "" {
		parts = append(parts, dimStyle.Render("in: "+m.InputName))
	} else {
		parts = append(parts, recStyle.Render("no input"))
	}

	var out strings.Builder
	out.WriteString(strings.Join(parts, "  "))
	out.WriteString("\n")
	if m.showHelp {
		out.WriteString(fgStyle.Render(widgets.RenderKeyHelp(m.Keys.Sections())))
		out.WriteString("\n\n")
		out.WriteString(dimStyle.Render(helpKey + " back"))
		return out.String()
	}
	out.WriteString(m.Canvas.View())
	out.WriteString("\n")
	out.WriteString(dimStyle.Render(f.Status))
	out.WriteString("\n")
	out.WriteString(dimStyle.Render(widgets.RenderKeyLine(m.Keys.Help()) + "  " + helpKey + " help"))

	return out.String()
}
