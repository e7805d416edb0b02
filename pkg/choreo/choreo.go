// Package choreo runs time-based camera animations: aligning the view with
// the cut plane and snapping back to the default view. Animations are
// scheduler tasks with explicit cancellation tokens, and starting one
// cancels the other.
package choreo

import (
	"time"

	"fortio.org/log"

	"github.com/taigrr/crosscut/pkg/cutplane"
	"github.com/taigrr/crosscut/pkg/math3d"
	"github.com/taigrr/crosscut/pkg/session"
)

// Camera is the host camera the choreographer drives.
type Camera interface {
	Eye() math3d.Vec3
	SetPosition(p math3d.Vec3)
	LookAt(target math3d.Vec3)
}

// OrbitTarget is an orbit controller whose pivot can be recentered.
type OrbitTarget interface {
	SetTarget(t math3d.Vec3)
}

// Options configures the animations.
type Options struct {
	Standoff      float64 // align distance from the origin
	AlignDuration time.Duration
	DefaultEye    math3d.Vec3 // reset position
}

// DefaultOptions returns a 6 unit standoff, an 800 ms align and a reset eye
// at (0, 2, 6).
func DefaultOptions() Options {
	return Options{
		Standoff:      6,
		AlignDuration: 800 * time.Millisecond,
		DefaultEye:    math3d.V3(0, 2, 6),
	}
}

// EaseOutCubic is 1-(1-t)^3, clamped to [0,1].
func EaseOutCubic(t float64) float64 {
	t = min(max(t, 0), 1)
	u := 1 - t
	return 1 - u*u*u
}

// AlignTarget is the camera position facing the cap: standoff along the
// negative plane normal.
func AlignTarget(normal math3d.Vec3, standoff float64) math3d.Vec3 {
	return normal.Normalize().Scale(-standoff)
}

// Choreographer owns the in-flight camera animation.
type Choreographer struct {
	sched *Scheduler
	cam   Camera
	orbit OrbitTarget
	opts  Options

	alignEdge session.Edge
	resetEdge session.Edge
	current   *Token
}

// New creates a choreographer. orbit may be nil.
func New(sched *Scheduler, cam Camera, orbit OrbitTarget, opts Options) *Choreographer {
	return &Choreographer{sched: sched, cam: cam, orbit: orbit, opts: opts}
}

// Observe fires the animations whose session triggers changed since the
// last call. Reset is handled before align.
func (c *Choreographer) Observe(s *session.State, now time.Time) {
	if c.resetEdge.Changed(s.ResetTrigger) {
		c.Reset(&s.Plane)
	}
	if c.alignEdge.Changed(s.AlignTrigger) {
		c.Align(s.Equation().Normal, now)
	}
}

// Animating reports whether an animation is in flight.
func (c *Choreographer) Animating() bool {
	return c.current.Live()
}

// Cancel stops the in-flight animation, if any.
func (c *Choreographer) Cancel() {
	c.current.Cancel()
	c.current = nil
}

// Align animates the camera to AlignTarget(normal) starting at now. The
// target is fixed at call time; later plane changes do not retarget it.
func (c *Choreographer) Align(normal math3d.Vec3, now time.Time) *Token {
	c.Cancel()
	from := c.cam.Eye()
	to := AlignTarget(normal, c.opts.Standoff)
	dur := c.opts.AlignDuration
	log.LogVf("align camera %v -> %v over %v", from, to, dur)
	c.current = c.sched.Schedule(TaskFunc(func(t time.Time) bool {
		p := 1.0
		if dur > 0 {
			p = float64(t.Sub(now)) / float64(dur)
		}
		c.cam.SetPosition(from.Lerp(to, EaseOutCubic(p)))
		c.cam.LookAt(math3d.Zero3())
		if p < 1 {
			return false
		}
		if c.orbit != nil {
			c.orbit.SetTarget(math3d.Zero3())
		}
		return true
	}))
	return c.current
}

// Reset cancels any animation, snaps the camera to the default view,
// recenters the orbit and resets the plane. plane may be nil.
func (c *Choreographer) Reset(plane *cutplane.Model) {
	c.Cancel()
	c.cam.SetPosition(c.opts.DefaultEye)
	c.cam.LookAt(math3d.Zero3())
	if c.orbit != nil {
		c.orbit.SetTarget(math3d.Zero3())
	}
	if plane != nil {
		plane.Reset()
	}
	log.LogVf("reset camera to %v", c.opts.DefaultEye)
}
