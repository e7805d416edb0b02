// Package cutplane holds the cutting plane's pose and derives its equation.
//
// The pose is two independent accumulators: a position the plane passes
// through and an Euler orientation that rotates the base normal (0,1,0).
// The plane equation is re-derived from them on every call and never stored.
package cutplane

import (
	"unicode"

	"github.com/taigrr/crosscut/pkg/math3d"
)

const (
	// PointerSensitivity converts pointer pixels to radians.
	PointerSensitivity = 0.01
	// KeyStep is the rotation applied by one key press, in radians.
	KeyStep = 0.1
	// FollowFactor is the per-frame lerp factor towards the pointer target.
	FollowFactor = 0.15
)

// BaseNormal is the plane normal at identity orientation.
var BaseNormal = math3d.Up()

// Model is the plane pose. The zero value is the identity pose.
type Model struct {
	Position    math3d.Vec3
	Orientation math3d.Euler
}

// ApplyPointerDelta rotates the plane by a pointer drag. Horizontal motion
// turns around Y and vertical motion around X, both against the pointer so
// the plane feels grabbed.
func (m *Model) ApplyPointerDelta(dx, dy float64) {
	m.Orientation.Y -= dx * PointerSensitivity
	m.Orientation.X -= dy * PointerSensitivity
}

// ApplyKeyStep rotates the plane by one KeyStep for the six rotation keys,
// w/s (X), a/d (Y) and q/e (Z), case-insensitive. It reports whether key was
// one of them.
func (m *Model) ApplyKeyStep(key rune) bool {
	switch unicode.ToLower(key) {
	case 'w':
		m.Orientation.X += KeyStep
	case 's':
		m.Orientation.X -= KeyStep
	case 'a':
		m.Orientation.Y += KeyStep
	case 'd':
		m.Orientation.Y -= KeyStep
	case 'q':
		m.Orientation.Z += KeyStep
	case 'e':
		m.Orientation.Z -= KeyStep
	default:
		return false
	}
	return true
}

// IsRotationKey reports whether ApplyKeyStep would act on key.
func IsRotationKey(key rune) bool {
	switch unicode.ToLower(key) {
	case 'w', 's', 'a', 'd', 'q', 'e':
		return true
	}
	return false
}

// FollowPointer moves the position a fixed fraction towards target. The
// factor is applied per call, so the response depends on the frame rate.
func (m *Model) FollowPointer(target math3d.Vec3) {
	m.Position = m.Position.Lerp(target, FollowFactor)
}

// Reset returns both accumulators to the identity pose.
func (m *Model) Reset() {
	*m = Model{}
}

// Normal returns the unit plane normal for the current orientation.
func (m *Model) Normal() math3d.Vec3 {
	return m.Orientation.Rotate(BaseNormal).Normalize()
}

// Plane derives the plane equation n·p + D = 0 with D = -n·position.
func (m *Model) Plane() math3d.Plane {
	n := m.Normal()
	return math3d.Plane{Normal: n, D: -n.Dot(m.Position)}
}

// IsIdentity reports whether the pose equals the reset pose.
func (m *Model) IsIdentity() bool {
	return *m == Model{}
}
