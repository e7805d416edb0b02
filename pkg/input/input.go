// Package input turns pointer and keyboard events into cut-plane mutations.
//
// The Controller is an explicit per-pointer state machine (idle, dragging)
// gated by the session's freeze flag and interaction mode. It also decides
// which buttons the orbit camera may use so the two never fight over one
// button.
package input

import (
	"time"

	"fortio.org/log"

	"github.com/taigrr/crosscut/pkg/session"
)

// Button identifies a pointer button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonMiddle
	ButtonSecondary
)

// Cursor is the pointer affordance the host should show.
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorGrab
	CursorGrabbing
)

func (c Cursor) String() string {
	switch c {
	case CursorGrab:
		return "grab"
	case CursorGrabbing:
		return "grabbing"
	default:
		return "default"
	}
}

// PointerEvent is one pointer sample in host pixels.
type PointerEvent struct {
	ID     int
	Button Button
	X, Y   float64
	Time   time.Time
}

// Host is the platform side of pointer handling. Capture errors are never
// fatal.
type Host interface {
	SetPointerCapture(id int) error
	ReleasePointerCapture(id int) error
	SetCursor(c Cursor)
}

// OrbitAction is what an orbit controller does with a button.
type OrbitAction int

const (
	OrbitNone OrbitAction = iota
	OrbitRotate
	OrbitDolly
	OrbitPan
)

// OrbitControls is the subset of an orbit camera controller the input
// controller arbitrates.
type OrbitControls interface {
	SetEnabled(enabled bool)
	MapButtons(primary, middle, secondary OrbitAction)
}

// Controller routes input to the session's cut plane.
type Controller struct {
	state *session.State
	host  Host

	clicks  ClickDetector
	doubles DoubleClickDetector
	// SynthesizeDoubleClick pairs clicks into double-clicks for hosts
	// without a native double-click event.
	SynthesizeDoubleClick bool

	dragging   bool
	dragID     int
	dragButton Button
	lastX      float64
	lastY      float64

	cursor Cursor
}

// NewController binds a controller to a session. host may be nil.
func NewController(state *session.State, host Host, th Thresholds) *Controller {
	return &Controller{
		state:   state,
		host:    host,
		clicks:  ClickDetector{MaxDistance: th.ClickDistance, MaxDuration: th.ClickDuration},
		doubles: DoubleClickDetector{MaxDistance: th.DoubleClickDistance, MaxInterval: th.DoubleClickInterval},
		cursor:  CursorDefault,
	}
}

// Dragging reports whether a plane drag is in progress.
func (c *Controller) Dragging() bool {
	return c.dragging
}

// Cursor returns the affordance for the current state.
func (c *Controller) Cursor() Cursor {
	switch {
	case c.dragging:
		return CursorGrabbing
	case c.state.Mode == session.ModeKnife && !c.state.Frozen:
		return CursorGrab
	default:
		return CursorDefault
	}
}

func (c *Controller) syncCursor() {
	cur := c.Cursor()
	if cur == c.cursor {
		return
	}
	c.cursor = cur
	if c.host != nil {
		c.host.SetCursor(cur)
	}
}

// PointerDown handles a button press and reports whether the host should
// suppress its default action.
func (c *Controller) PointerDown(ev PointerEvent) (preventDefault bool) {
	if ev.Button == ButtonPrimary {
		c.clicks.Down(ev)
	}
	grabs := ev.Button == ButtonSecondary ||
		(ev.Button == ButtonPrimary && c.state.Mode == session.ModeKnife)
	if grabs && !c.state.Frozen && !c.dragging {
		c.dragging = true
		c.dragID = ev.ID
		c.dragButton = ev.Button
		c.lastX, c.lastY = ev.X, ev.Y
		if c.host != nil {
			if err := c.host.SetPointerCapture(ev.ID); err != nil {
				log.Debugf("pointer capture %d: %v", ev.ID, err)
			}
		}
	}
	c.syncCursor()
	return ev.Button == ButtonSecondary
}

// PointerMove rotates the plane by the movement since the last sample while
// dragging.
func (c *Controller) PointerMove(ev PointerEvent) {
	if !c.dragging || ev.ID != c.dragID {
		return
	}
	dx, dy := ev.X-c.lastX, ev.Y-c.lastY
	c.lastX, c.lastY = ev.X, ev.Y
	if c.state.Frozen {
		return
	}
	c.state.Plane.ApplyPointerDelta(dx, dy)
}

// PointerUp ends a drag when the button that started it is released and
// runs click detection. A click in camera mode freezes an unfrozen cut.
func (c *Controller) PointerUp(ev PointerEvent) {
	if c.dragging && ev.ID == c.dragID && ev.Button == c.dragButton {
		c.dragging = false
		if c.host != nil {
			if err := c.host.ReleasePointerCapture(ev.ID); err != nil {
				log.Debugf("pointer release %d: %v", ev.ID, err)
			}
		}
	}
	if ev.Button == ButtonPrimary && c.clicks.Up(ev) {
		if c.state.Mode == session.ModeCamera && !c.state.Frozen {
			c.state.Freeze()
			log.LogVf("click freeze at %.0f,%.0f", ev.X, ev.Y)
		}
		if c.SynthesizeDoubleClick && c.doubles.Click(ev) {
			c.DoubleClick()
		}
	}
	c.syncCursor()
}

// DoubleClick unfreezes the cut in any mode.
func (c *Controller) DoubleClick() {
	c.state.Unfreeze()
	c.syncCursor()
}

// KeyDown applies one rotation step for the six plane keys while unfrozen.
// It reports whether the key was consumed.
func (c *Controller) KeyDown(key rune) bool {
	if c.state.Frozen {
		return false
	}
	return c.state.Plane.ApplyKeyStep(key)
}

// ContextMenu reports that the native context menu must be suppressed; the
// secondary button rotates the plane.
func (c *Controller) ContextMenu() (preventDefault bool) {
	return true
}

// Arbitrate assigns orbit buttons for the current mode and disables the
// orbit controller during a plane drag. Call it once per frame.
func (c *Controller) Arbitrate(oc OrbitControls) {
	c.syncCursor()
	if oc == nil {
		return
	}
	if c.state.Mode == session.ModeKnife {
		oc.MapButtons(OrbitNone, OrbitDolly, OrbitNone)
	} else {
		oc.MapButtons(OrbitRotate, OrbitDolly, OrbitNone)
	}
	oc.SetEnabled(!c.dragging)
}
