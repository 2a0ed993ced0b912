package tui

import (
	"strings"
	"testing"

	"go-trails/sequencer"
	"go-trails/theme"
)

func newTestCanvas() *Canvas {
	return NewCanvas(theme.New(theme.DefaultPalette()), sequencer.DefaultConfig(), 80, 20)
}

func point(x, y int, intensity float64) sequencer.Point {
	return sequencer.Point{X: x, Y: y, Pitch: 60, Intensity: intensity}
}

func TestCanvasPlotsTrail(t *testing.T) {
	c := newTestCanvas()
	c.Apply(sequencer.Frame{Trail: []sequencer.Point{
		point(640, 360, 127),
		point(1280, 0, 10),
		point(-3, 0, 127),
		point(10, 720, 127),
	}})

	if got := c.At(40, 10); got != '●' {
		t.Errorf("At(40,10) = %q, want ●", got)
	}
	if got := c.At(79, 0); got != '·' {
		t.Errorf("right edge = %q, want ·", got)
	}
	if c.At(0, 0) != ' ' {
		t.Error("off-canvas point was drawn")
	}
}

func TestCanvasBakeAndReset(t *testing.T) {
	c := newTestCanvas()
	c.Apply(sequencer.Frame{Bake: []sequencer.Point{point(0, 0, 50)}})
	c.Apply(sequencer.Frame{})
	if c.At(0, 0) != '•' {
		t.Fatalf("baked point lost: %q", c.At(0, 0))
	}

	c.Apply(sequencer.Frame{Trail: []sequencer.Point{point(640, 360, 127)}})
	c.Apply(sequencer.Frame{})
	if c.At(40, 10) != ' ' {
		t.Error("active point persisted without baking")
	}

	c.Apply(sequencer.Frame{Reset: true})
	if c.At(0, 0) != ' ' {
		t.Error("Reset kept the background")
	}
}

func TestCanvasHeldAndMarker(t *testing.T) {
	c := newTestCanvas()
	c.Apply(sequencer.Frame{
		MarkerY: 180,
		Held:    []sequencer.HeldNote{{Pitch: 60, Intensity: 90}},
	})
	if !c.Held(40) || c.Held(41) {
		t.Error("key strip does not show pitch 60 at column 40")
	}

	lines := strings.Split(c.View(), "\n")
	if len(lines) != 21 {
		t.Fatalf("View() has %d lines, want 21", len(lines))
	}
	if !strings.Contains(lines[5], "─") {
		t.Errorf("marker row = %q", lines[5])
	}
	if !strings.Contains(lines[20], "▼") {
		t.Errorf("key strip = %q", lines[20])
	}
}

func TestCanvasResize(t *testing.T) {
	c := newTestCanvas()
	c.Apply(sequencer.Frame{Bake: []sequencer.Point{point(0, 0, 50)}})
	c.Resize(120, 30)
	if cols, rows := c.Size(); cols != 120 || rows != 30 {
		t.Errorf("Size() = %d,%d", cols, rows)
	}
	if c.At(0, 0) != ' ' {
		t.Error("resize kept cells")
	}
	c.Resize(-1, 0)
	if cols, rows := c.Size(); cols != 1 || rows != 1 {
		t.Errorf("Size() = %d,%d after bad resize", cols, rows)
	}
}
