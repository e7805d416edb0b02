package input

import (
	"math"
	"time"
)

// Thresholds separate clicks from drags and pair clicks into double-clicks.
type Thresholds struct {
	ClickDistance       float64       // pixels
	ClickDuration       time.Duration // down to up
	DoubleClickDistance float64       // pixels between the two clicks
	DoubleClickInterval time.Duration // up to up
}

// DefaultThresholds returns 5 px / 250 ms clicks and 5 px / 400 ms double-clicks.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ClickDistance:       5,
		ClickDuration:       250 * time.Millisecond,
		DoubleClickDistance: 5,
		DoubleClickInterval: 400 * time.Millisecond,
	}
}

func distance(ax, ay, bx, by float64) float64 {
	return math.Hypot(bx-ax, by-ay)
}

// ClickDetector classifies a primary down/up pair as a click when both the
// displacement and the duration stay under the thresholds.
type ClickDetector struct {
	MaxDistance float64
	MaxDuration time.Duration

	down  bool
	start PointerEvent
}

// Down records the start of a gesture.
func (c *ClickDetector) Down(ev PointerEvent) {
	c.down = true
	c.start = ev
}

// Up ends the gesture and reports whether it was a click.
func (c *ClickDetector) Up(ev PointerEvent) bool {
	if !c.down {
		return false
	}
	c.down = false
	if distance(c.start.X, c.start.Y, ev.X, ev.Y) >= c.MaxDistance {
		return false
	}
	return ev.Time.Sub(c.start.Time) < c.MaxDuration
}

// Cancel forgets a gesture in progress.
func (c *ClickDetector) Cancel() {
	c.down = false
}

// DoubleClickDetector synthesizes double-clicks for hosts that only report
// single clicks: a second click close enough in time and space completes one.
type DoubleClickDetector struct {
	MaxDistance float64
	MaxInterval time.Duration

	have bool
	last PointerEvent
}

// Click feeds one click and reports whether it completes a double-click.
func (d *DoubleClickDetector) Click(ev PointerEvent) bool {
	if d.have &&
		ev.Time.Sub(d.last.Time) < d.MaxInterval &&
		distance(d.last.X, d.last.Y, ev.X, ev.Y) < d.MaxDistance {
		d.have = false
		return true
	}
	d.have = true
	d.last = ev
	return false
}
