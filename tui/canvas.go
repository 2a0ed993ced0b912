package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-trails/sequencer"
	"go-trails/theme"
)

// cell is one character of the canvas
type cell struct {
	glyph     rune
	phase     int
	intensity float64
	set       bool
}

// Canvas draws frames onto a character grid. Baked points go to a background
// layer that only a Reset frame clears; the active trail, the time marker and
// the held keys are drawn over it on every Apply.
type Canvas struct {
	Theme *theme.Theme

	Width, Height      int // trail coordinate space
	PitchMin, PitchMax uint8

	cols, rows int
	background []cell
	cells      []cell
	held       []bool // key strip, per column
	markerRow  int
	phase      int
}

// NewCanvas creates a canvas for the engine's coordinate space
func NewCanvas(th *theme.Theme, cfg sequencer.Config, cols, rows int) *Canvas {
	c := &Canvas{
		Theme:    th,
		Width:    cfg.Width,
		Height:   cfg.Height,
		PitchMin: cfg.PitchMin,
		PitchMax: cfg.PitchMax,
	}
	c.Resize(cols, rows)
	return c
}

// Resize changes the grid size. Baked history is stored per cell, so it is
// dropped.
func (c *Canvas) Resize(cols, rows int) {
	cols, rows = max(1, cols), max(1, rows)
	if cols == c.cols && rows == c.rows {
		return
	}
	c.cols, c.rows = cols, rows
	c.background = make([]cell, cols*rows)
	c.cells = make([]cell, cols*rows)
	c.held = make([]bool, cols)
}

func (c *Canvas) Size() (cols, rows int) {
	return c.cols, c.rows
}

// Apply composites one frame
func (c *Canvas) Apply(f sequencer.Frame) {
	if f.Reset {
		clear(c.background)
	}
	for _, p := range f.Bake {
		c.plot(c.background, p)
	}

	copy(c.cells, c.background)
	for _, p := range f.Trail {
		c.plot(c.cells, p)
	}

	c.markerRow, _ = c.row(f.MarkerY)
	c.phase = f.Phase

	clear(c.held)
	for _, n := range f.Held {
		if col, ok := c.col(sequencer.PitchX(n.Pitch, c.PitchMin, c.PitchMax, c.Width)); ok {
			c.held[col] = true
		}
	}
}

func (c *Canvas) plot(layer []cell, p sequencer.Point) {
	col, ok := c.col(p.X)
	if !ok {
		return
	}
	row, ok := c.row(p.Y)
	if !ok {
		return
	}
	layer[row*c.cols+col] = cell{
		glyph:     c.Theme.Glyph(p.Intensity),
		phase:     p.Phase,
		intensity: p.Intensity,
		set:       true,
	}
}

// col maps a trail x onto a column; x == Width lands on the last column
func (c *Canvas) col(x int) (int, bool) {
	if x < 0 || x > c.Width || c.Width <= 0 {
		return 0, false
	}
	return min(x*c.cols/c.Width, c.cols-1), true
}

func (c *Canvas) row(y int) (int, bool) {
	if y < 0 || y >= c.Height || c.Height <= 0 {
		return 0, false
	}
	return y * c.rows / c.Height, true
}

// At returns the glyph drawn at a cell, ignoring the marker. Blank cells are
// spaces.
func (c *Canvas) At(col, row int) rune {
	if col < 0 || col >= c.cols || row < 0 || row >= c.rows {
		return ' '
	}
	if cl := c.cells[row*c.cols+col]; cl.set {
		return cl.glyph
	}
	return ' '
}

// Held reports whether the key strip shows a held note at col
func (c *Canvas) Held(col int) bool {
	return col >= 0 && col < c.cols && c.held[col]
}

// View renders the grid plus the key strip below it
func (c *Canvas) View() string {
	var out strings.Builder
	var line runs

	muted := c.Theme.Muted()
	for row := 0; row < c.rows; row++ {
		line.reset()
		for col := 0; col < c.cols; col++ {
			cl := c.cells[row*c.cols+col]
			switch {
			case cl.set:
				line.add(cl.glyph, c.Theme.NoteColor(cl.phase, cl.intensity))
			case row == c.markerRow:
				line.add(c.Theme.Symbols.Marker, muted)
			default:
				line.add(' ', "")
			}
		}
		out.WriteString(line.String())
		out.WriteString("\n")
	}

	line.reset()
	held := c.Theme.NoteColor(c.phase, 127)
	for col := 0; col < c.cols; col++ {
		if c.held[col] {
			line.add(c.Theme.Symbols.Held, held)
		} else {
			line.add(c.Theme.Symbols.Key, muted)
		}
	}
	out.WriteString(line.String())

	return out.String()
}

// runs groups neighbouring cells of one color so each run is styled once
type runs struct {
	out   strings.Builder
	text  strings.Builder
	color lipgloss.Color
}

func (r *runs) reset() {
	r.out.Reset()
	r.text.Reset()
	r.color = ""
}

func (r *runs) add(glyph rune, color lipgloss.Color) {
	if color != r.color {
		r.flush()
		r.color = color
	}
	r.text.WriteRune(glyph)
}

func (r *runs) flush() {
	if r.text.Len() == 0 {
		return
	}
	if r.color == "" {
		r.out.WriteString(r.text.String())
	} else {
		r.out.WriteString(lipgloss.NewStyle().Foreground(r.color).Render(r.text.String()))
	}
	r.text.Reset()
}

func (r *runs) String() string {
	r.flush()
	return r.out.String()
}
