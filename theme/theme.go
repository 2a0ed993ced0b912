package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols

	background colorful.Color
}

type Symbols struct {
	// Trail cells by intensity
	Faint  rune // · low intensity or baked
	Medium rune // • mid intensity
	Bright rune // ● high intensity

	Marker rune // ─ loop time marker row
	Held   rune // ▼ currently held pitch, on the key strip
	Key    rune // ▔ idle key strip cell

	Solid rune // ■ color swatch
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			Faint:  '·',
			Medium: '•',
			Bright: '●',

			Marker: '─',
			Held:   '▼',
			Key:    '▔',

			Solid: '■',
		},
		background: colorful.Color{R: 0.06, G: 0.06, B: 0.08},
	}
}

// UI colors, fixed so they stay readable whatever the note palette is
var (
	uiFG      = lipgloss.Color("#d0d0d0")
	uiMuted   = lipgloss.Color("#6c6c6c")
	uiAccent  = lipgloss.Color("#ffaf00")
	uiWarning = lipgloss.Color("#ff5f5f")
	uiSuccess = lipgloss.Color("#87d75f")
)

// Style helpers

func (t *Theme) BG() lipgloss.Color {
	return lipgloss.Color(t.background.Hex())
}

func (t *Theme) FG() lipgloss.Color {
	return uiFG
}

func (t *Theme) Accent() lipgloss.Color {
	return uiAccent
}

func (t *Theme) Muted() lipgloss.Color {
	return uiMuted
}

func (t *Theme) Warning() lipgloss.Color {
	return uiWarning
}

func (t *Theme) Success() lipgloss.Color {
	return uiSuccess
}

// Phase returns the palette color for a color phase
func (t *Theme) Phase(phase int) RGB {
	return t.Palette.Index(phase)
}

// NoteColor is the phase color faded toward the background by intensity
// (0-127). Full velocity gives the pure phase color.
func (t *Theme) NoteColor(phase int, intensity float64) lipgloss.Color {
	return lipgloss.Color(t.Shade(t.Phase(phase), intensity/127).Hex())
}

// Shade blends c toward the background. amount 1 keeps c, 0 gives the
// background.
func (t *Theme) Shade(c RGB, amount float64) colorful.Color {
	amount = min(1, max(0, amount))
	return t.background.BlendLab(toColorful(c), amount).Clamped()
}

// Glyph picks the trail symbol for an intensity (0-127)
func (t *Theme) Glyph(intensity float64) rune {
	switch {
	case intensity >= 80:
		return t.Symbols.Bright
	case intensity >= 30:
		return t.Symbols.Medium
	}
	return t.Symbols.Faint
}

func toColorful(c RGB) colorful.Color {
	return colorful.Color{R: float64(c[0]) / 255, G: float64(c[1]) / 255, B: float64(c[2]) / 255}
}
