package choreo

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/crosscut/pkg/input"
	"github.com/taigrr/crosscut/pkg/math3d"
)

// Orbit limits.
const (
	MaxPitch  = 1.5
	MinRadius = 1.5
	MaxRadius = 30.0

	orbitSensitivity = 0.004 // radians of velocity per pixel
	dollySensitivity = 0.01  // log-radius per pixel
	wheelFactor      = 0.9   // radius scale per wheel step in
	restEpsilon      = 1e-4
)

// OrbitAxis is one spherical angle's angular velocity, decayed towards zero
// by a critically damped spring.
type OrbitAxis struct {
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64
}

// NewOrbitAxis creates an axis whose spring is stepped fps times a second.
func NewOrbitAxis(fps int) OrbitAxis {
	return OrbitAxis{
		// Frequency 4, damping 1: quick glide with no overshoot.
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Step returns the velocity to apply this frame and decays it.
func (a *OrbitAxis) Step() float64 {
	v := a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
	if math.Abs(a.Velocity) < restEpsilon && math.Abs(a.velAccel) < restEpsilon {
		a.Velocity, a.velAccel = 0, 0
	}
	return v
}

// Stop zeroes the axis.
func (a *OrbitAxis) Stop() {
	a.Velocity, a.velAccel = 0, 0
}

// Orbit is a spherical orbit camera controller around a target. It reads
// the camera back every update, so moves made by animations are kept.
type Orbit struct {
	cam    Camera
	target math3d.Vec3

	enabled bool
	buttons [3]input.OrbitAction

	Yaw, Pitch OrbitAxis

	zoom       harmonica.Spring
	zoomVel    float64
	radiusGoal float64
	zooming    bool

	active       input.OrbitAction
	lastX, lastY float64
}

// NewOrbit creates an enabled orbit around the origin with camera-mode
// buttons.
func NewOrbit(cam Camera, fps int) *Orbit {
	return &Orbit{
		cam:     cam,
		enabled: true,
		buttons: [3]input.OrbitAction{input.OrbitRotate, input.OrbitDolly, input.OrbitNone},
		Yaw:     NewOrbitAxis(fps),
		Pitch:   NewOrbitAxis(fps),
		zoom:    harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
}

// SetEnabled turns pointer handling on or off. Disabling ends a drag.
func (o *Orbit) SetEnabled(enabled bool) {
	o.enabled = enabled
	if !enabled {
		o.active = input.OrbitNone
	}
}

// Enabled reports whether the orbit accepts pointer input.
func (o *Orbit) Enabled() bool {
	return o.enabled
}

// MapButtons assigns an action to each pointer button.
func (o *Orbit) MapButtons(primary, middle, secondary input.OrbitAction) {
	o.buttons = [3]input.OrbitAction{primary, middle, secondary}
}

// Action returns the action mapped to b.
func (o *Orbit) Action(b input.Button) input.OrbitAction {
	if b < 0 || int(b) >= len(o.buttons) {
		return input.OrbitNone
	}
	return o.buttons[b]
}

// SetTarget recenters the pivot and stops any residual motion.
func (o *Orbit) SetTarget(t math3d.Vec3) {
	o.target = t
	o.Stop()
}

// Target returns the pivot.
func (o *Orbit) Target() math3d.Vec3 {
	return o.target
}

// Stop cancels inertia and zoom.
func (o *Orbit) Stop() {
	o.Yaw.Stop()
	o.Pitch.Stop()
	o.zooming = false
	o.zoomVel = 0
}

// PointerDown starts an orbit gesture and reports whether b is mapped.
func (o *Orbit) PointerDown(b input.Button, x, y float64) bool {
	if !o.enabled {
		return false
	}
	o.active = o.Action(b)
	o.lastX, o.lastY = x, y
	return o.active != input.OrbitNone
}

// PointerMove feeds drag motion to the active gesture.
func (o *Orbit) PointerMove(x, y float64) {
	dx, dy := x-o.lastX, y-o.lastY
	o.lastX, o.lastY = x, y
	if !o.enabled {
		return
	}
	switch o.active {
	case input.OrbitRotate:
		o.Yaw.Velocity -= dx * orbitSensitivity
		o.Pitch.Velocity += dy * orbitSensitivity
	case input.OrbitDolly:
		o.zoomTo(o.goal() * math.Exp(dy*dollySensitivity))
	}
}

// PointerUp ends the gesture. Inertia keeps gliding.
func (o *Orbit) PointerUp() {
	o.active = input.OrbitNone
}

// Wheel zooms in for positive steps and out for negative ones.
func (o *Orbit) Wheel(steps float64) {
	if !o.enabled {
		return
	}
	o.zoomTo(o.goal() * math.Pow(wheelFactor, steps))
}

func (o *Orbit) goal() float64 {
	if o.zooming {
		return o.radiusGoal
	}
	return o.cam.Eye().Sub(o.target).Len()
}

func (o *Orbit) zoomTo(r float64) {
	o.radiusGoal = min(max(r, MinRadius), MaxRadius)
	o.zooming = true
}

// Moving reports whether Update would move the camera.
func (o *Orbit) Moving() bool {
	return o.zooming || o.Yaw.Velocity != 0 || o.Pitch.Velocity != 0
}

// Update advances inertia and zoom by one frame and repositions the camera.
// It reports whether the camera moved.
func (o *Orbit) Update() bool {
	if !o.Moving() {
		return false
	}
	off := o.cam.Eye().Sub(o.target)
	r := off.Len()
	if r < 1e-9 {
		off, r = math3d.V3(0, 0, MinRadius), MinRadius
	}
	yaw := math.Atan2(off.X, off.Z)
	pitch := math.Asin(min(max(off.Y/r, -1), 1))

	yaw += o.Yaw.Step()
	pitch = min(max(pitch+o.Pitch.Step(), -MaxPitch), MaxPitch)

	if o.zooming {
		r, o.zoomVel = o.zoom.Update(r, o.zoomVel, o.radiusGoal)
		if math.Abs(r-o.radiusGoal) < 1e-3 && math.Abs(o.zoomVel) < 1e-3 {
			r = o.radiusGoal
			o.zooming = false
			o.zoomVel = 0
		}
	}
	r = min(max(r, MinRadius), MaxRadius)

	eye := o.target.Add(math3d.V3(
		r*math.Cos(pitch)*math.Sin(yaw),
		r*math.Sin(pitch),
		r*math.Cos(pitch)*math.Cos(yaw),
	))
	o.cam.SetPosition(eye)
	o.cam.LookAt(o.target)
	return true
}
