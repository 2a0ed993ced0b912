package sequencer

import "time"

// Point is one trail mark: a held note's position, color and intensity at
// the tick it was sampled
type Point struct {
	X, Y       int
	Phase      int
	Pitch      uint8
	Intensity  float64
	InsertedAt time.Time
}

// Trail is the active, oldest-first sequence of points. Points leave it by
// eviction (handed to the renderer to bake), undo, or clear.
type Trail struct {
	MaxAge       time.Duration // 0 disables age eviction
	MaxCount     int           // 0 disables count eviction
	UndoWindow   int
	MinIntensity float64

	Width              int
	PitchMin, PitchMax uint8

	points []Point
}

// NewTrail creates an empty trail from the session config
func NewTrail(cfg Config) *Trail {
	return &Trail{
		MaxAge:       cfg.MaxAge,
		MaxCount:     cfg.MaxCount,
		UndoWindow:   cfg.UndoWindow,
		MinIntensity: cfg.MinIntensity,
		Width:        cfg.Width,
		PitchMin:     cfg.PitchMin,
		PitchMax:     cfg.PitchMax,
	}
}

// PitchX maps a pitch linearly across the trail width
func (t *Trail) PitchX(pitch uint8) int {
	return PitchX(pitch, t.PitchMin, t.PitchMax, t.Width)
}

// PitchX maps pitch from [lo, hi] onto [0, width]. Pitches outside the range
// land off-canvas.
func PitchX(pitch, lo, hi uint8, width int) int {
	span := float64(hi) - float64(lo)
	return int((float64(pitch) - float64(lo)) / span * float64(width))
}

// Snapshot appends one point per held note above the minimum intensity
func (t *Trail) Snapshot(held []HeldNote, markerY, phase int, now time.Time) {
	for _, n := range held {
		if n.Intensity <= t.MinIntensity {
			continue
		}
		t.points = append(t.points, Point{
			X:          t.PitchX(n.Pitch),
			Y:          markerY,
			Phase:      phase,
			Pitch:      n.Pitch,
			Intensity:  n.Intensity,
			InsertedAt: now,
		})
	}
}

// Evict drops the expired prefix and returns it for baking (nil when nothing
// expired). Age and count policies combine: the prefix covers whichever
// reaches further.
func (t *Trail) Evict(now time.Time) []Point {
	n := 0
	if t.MaxAge > 0 {
		for n < len(t.points) && now.Sub(t.points[n].InsertedAt) > t.MaxAge {
			n++
		}
	}
	if t.MaxCount > 0 && len(t.points)-n > t.MaxCount {
		n = len(t.points) - t.MaxCount
	}
	if n == 0 {
		return nil
	}

	baked := make([]Point, n)
	copy(baked, t.points[:n])

	// compact in place so the backing array never grows past peak occupancy
	live := copy(t.points, t.points[n:])
	clear(t.points[live:])
	t.points = t.points[:live]

	return baked
}

// Undo removes the newest point and every earlier point of the same gesture:
// same pitch and phase, y strictly within UndoWindow of the last removed
// point. Returns how many were removed.
func (t *Trail) Undo() int {
	if len(t.points) == 0 {
		return 0
	}

	target := t.points[len(t.points)-1]
	t.points = t.points[:len(t.points)-1]
	removed := 1

	for i := len(t.points) - 1; i >= 0; i-- {
		p := t.points[i]
		if p.Pitch != target.Pitch || p.Phase != target.Phase {
			continue
		}
		if dy := p.Y - target.Y; dy <= -t.UndoWindow || dy >= t.UndoWindow {
			continue
		}
		target = p
		t.points = append(t.points[:i], t.points[i+1:]...)
		removed++
	}

	return removed
}

// Clear drops every point
func (t *Trail) Clear() {
	clear(t.points)
	t.points = t.points[:0]
}

func (t *Trail) Len() int {
	return len(t.points)
}

// Points returns a copy of the active trail
func (t *Trail) Points() []Point {
	out := make([]Point, len(t.points))
	copy(out, t.points)
	return out
}
