package cutplane

import (
	"math"
	"testing"

	"github.com/taigrr/crosscut/pkg/math3d"
)

const eps = 1e-12

func TestIdentityPlane(t *testing.T) {
	var m Model
	p := m.Plane()
	if !p.Normal.ApproxEqual(math3d.Up(), eps) {
		t.Errorf("normal = %v, want +Y", p.Normal)
	}
	if p.D != 0 {
		t.Errorf("D = %v, want 0", p.D)
	}
	if !m.IsIdentity() {
		t.Error("zero model should be identity")
	}
}

func TestNormalStaysUnitLength(t *testing.T) {
	var m Model
	for i := range 5000 {
		m.ApplyPointerDelta(float64(i%97)-13, float64(i%53)+7)
		m.ApplyKeyStep([]rune("wasdqe")[i%6])
		if l := m.Normal().Len(); math.Abs(l-1) > 1e-9 {
			t.Fatalf("step %d: |normal| = %v", i, l)
		}
	}
	// Orientation is never wrapped.
	if sum := math.Abs(m.Orientation.X) + math.Abs(m.Orientation.Y); sum <= 2*math.Pi {
		t.Errorf("accumulated |x|+|y| = %v, want beyond 2π", sum)
	}
}

func TestPointerDeltaIsInverted(t *testing.T) {
	var m Model
	m.ApplyPointerDelta(50, 0)
	if math.Abs(m.Orientation.Y+0.5) > eps || m.Orientation.X != 0 {
		t.Errorf("after dx=50: %+v, want Y=-0.5", m.Orientation)
	}

	m.ApplyPointerDelta(0, -20)
	if math.Abs(m.Orientation.X-0.2) > eps {
		t.Errorf("after dy=-20: X = %v, want 0.2", m.Orientation.X)
	}
}

func TestKeySteps(t *testing.T) {
	tests := []struct {
		key  rune
		want math3d.Euler
	}{
		{'w', math3d.Euler{X: KeyStep}},
		{'S', math3d.Euler{X: -KeyStep}},
		{'a', math3d.Euler{Y: KeyStep}},
		{'D', math3d.Euler{Y: -KeyStep}},
		{'q', math3d.Euler{Z: KeyStep}},
		{'E', math3d.Euler{Z: -KeyStep}},
	}
	for _, tt := range tests {
		var m Model
		if !m.ApplyKeyStep(tt.key) {
			t.Errorf("ApplyKeyStep(%q) = false", tt.key)
		}
		if m.Orientation != tt.want {
			t.Errorf("key %q: orientation = %+v, want %+v", tt.key, m.Orientation, tt.want)
		}
		if !IsRotationKey(tt.key) {
			t.Errorf("IsRotationKey(%q) = false", tt.key)
		}
	}

	var m Model
	if m.ApplyKeyStep('x') {
		t.Error("ApplyKeyStep('x') = true")
	}
	if IsRotationKey('1') {
		t.Error("IsRotationKey('1') = true")
	}
	if !m.IsIdentity() {
		t.Errorf("unmapped key changed the model: %+v", m)
	}
}

func TestQThenENetsZero(t *testing.T) {
	var m Model
	m.ApplyKeyStep('q')
	m.ApplyKeyStep('e')
	if math.Abs(m.Orientation.Z) > 1e-15 {
		t.Errorf("Z = %v, want 0", m.Orientation.Z)
	}
}

func TestFollowPointer(t *testing.T) {
	var m Model
	target := math3d.V3(1, 0, 0)
	m.FollowPointer(target)
	if math.Abs(m.Position.X-FollowFactor) > eps {
		t.Errorf("first step X = %v, want %v", m.Position.X, FollowFactor)
	}
	for range 200 {
		m.FollowPointer(target)
	}
	if !m.Position.ApproxEqual(target, 1e-9) {
		t.Errorf("position = %v, want %v", m.Position, target)
	}
}

func TestOffsetDerivedFromPosition(t *testing.T) {
	m := Model{Position: math3d.V3(0, 0.5, 0)}
	p := m.Plane()
	if math.Abs(p.D+0.5) > eps {
		t.Errorf("D = %v, want -0.5", p.D)
	}
	if d := p.SignedDistance(m.Position); math.Abs(d) > eps {
		t.Errorf("position off plane by %v", d)
	}

	m.Orientation = math3d.Euler{X: 0.3, Y: -1.2, Z: 2}
	m.Position = math3d.V3(0.2, -0.4, 0.7)
	p = m.Plane()
	if d := p.SignedDistance(m.Position); math.Abs(d) > eps {
		t.Errorf("tilted: position off plane by %v", d)
	}
	if !p.ClosestPointToOrigin().ApproxEqual(p.Normal.Scale(-p.D), eps) {
		t.Errorf("closest point %v, want normal·-D", p.ClosestPointToOrigin())
	}
}

func TestReset(t *testing.T) {
	m := Model{Position: math3d.V3(1, 2, 3), Orientation: math3d.Euler{X: 4, Y: 5, Z: 6}}
	m.Reset()
	if !m.IsIdentity() || m.Position != (math3d.Vec3{}) || m.Orientation != (math3d.Euler{}) {
		t.Errorf("after Reset: %+v", m)
	}
}
