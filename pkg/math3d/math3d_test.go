package math3d

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestEulerRotateUp(t *testing.T) {
	tests := []struct {
		name  string
		euler Euler
		want  Vec3
	}{
		{"identity", Euler{}, V3(0, 1, 0)},
		{"x quarter turn", Euler{X: math.Pi / 2}, V3(0, 0, 1)},
		{"z quarter turn", Euler{Z: math.Pi / 2}, V3(-1, 0, 0)},
		{"y leaves up alone", Euler{Y: 1.3}, V3(0, 1, 0)},
		{"x applied after z", Euler{X: math.Pi / 2, Z: math.Pi / 2}, V3(-1, 0, 0)},
		{"x applied after y", Euler{X: math.Pi / 2, Y: math.Pi / 2}, V3(0, 0, 1)},
	}
	for _, tt := range tests {
		got := tt.euler.Rotate(Up())
		if !got.ApproxEqual(tt.want, eps) {
			t.Errorf("%s: Rotate(up) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestEulerRotateKeepsUnitLength(t *testing.T) {
	for i := range 50 {
		e := Euler{X: float64(i) * 0.37, Y: float64(i) * -1.1, Z: float64(i) * 2.9}
		if l := e.Rotate(Up()).Len(); math.Abs(l-1) > eps {
			t.Fatalf("rotation %v produced length %v", e, l)
		}
	}
}

func TestMat4Inverse(t *testing.T) {
	m := Translate(V3(1, -2, 3)).Mul(RotateY(0.7)).Mul(Scale(V3(2, 3, 4)))
	p := V3(0.5, 1.5, -2)
	back := m.Inverse().MulVec3(m.MulVec3(p))
	if !back.ApproxEqual(p, 1e-9) {
		t.Errorf("inverse round trip = %v, want %v", back, p)
	}
}

func TestLookAtMapsTargetToNegativeZ(t *testing.T) {
	view := LookAt(V3(0, 2, 6), V3(0, 0, 0), Up())
	got := view.MulVec3(V3(0, 0, 0))
	want := V3(0, 0, -math.Sqrt(40))
	if !got.ApproxEqual(want, 1e-9) {
		t.Errorf("target in view space = %v, want %v", got, want)
	}
}

func TestLookAtStraightDown(t *testing.T) {
	// Looking along -Y with a +Y up vector must still yield a valid basis.
	view := LookAt(V3(0, 6, 0), V3(0, 0, 0), Up())
	got := view.MulVec3(V3(0, 0, 0))
	if !got.ApproxEqual(V3(0, 0, -6), 1e-9) {
		t.Errorf("target in view space = %v, want (0,0,-6)", got)
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	proj := Perspective(math.Pi/3, 1, 0.1, 100)
	near := proj.MulVec4(V4(0, 0, -0.1, 1)).PerspectiveDivide()
	far := proj.MulVec4(V4(0, 0, -100, 1)).PerspectiveDivide()
	if math.Abs(near.Z+1) > 1e-9 || math.Abs(far.Z-1) > 1e-9 {
		t.Errorf("depth range = [%v, %v], want [-1, 1]", near.Z, far.Z)
	}
}

func TestPlaneSignedDistance(t *testing.T) {
	p := PlaneFromPointNormal(V3(0, 1, 0), V3(0, 2, 0))
	if p.D != -1 {
		t.Errorf("D = %v, want -1", p.D)
	}
	if d := p.SignedDistance(V3(5, 3, -2)); d != 2 {
		t.Errorf("SignedDistance = %v, want 2", d)
	}
	if c := p.ClosestPointToOrigin(); !c.ApproxEqual(V3(0, 1, 0), eps) {
		t.Errorf("ClosestPointToOrigin = %v", c)
	}
}

func TestPlaneBasisIsRightHanded(t *testing.T) {
	for _, n := range []Vec3{V3(0, 1, 0), V3(1, 0, 0), V3(0.3, -0.4, 0.87).Normalize()} {
		u, v := Plane{Normal: n}.Basis()
		if !u.Cross(v).ApproxEqual(n, 1e-9) {
			t.Errorf("basis for %v: u x v = %v", n, u.Cross(v))
		}
	}
}

func TestRayIntersectPlane(t *testing.T) {
	pick := Plane{Normal: V3(0, 0, 1)}
	tests := []struct {
		name string
		ray  Ray
		want Vec3
		ok   bool
	}{
		{"straight on", Ray{V3(1, 2, 5), V3(0, 0, -1)}, V3(1, 2, 0), true},
		{"oblique", Ray{V3(0, 0, 4), V3(1, 0, -1)}, V3(4, 0, 0), true},
		{"parallel", Ray{V3(0, 0, 4), V3(1, 0, 0)}, Vec3{}, false},
		{"pointing away", Ray{V3(0, 0, 4), V3(0, 0, 1)}, Vec3{}, false},
	}
	for _, tt := range tests {
		got, ok := tt.ray.IntersectPlane(pick)
		if ok != tt.ok || !got.ApproxEqual(tt.want, eps) {
			t.Errorf("%s: got %v, %v want %v, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}
