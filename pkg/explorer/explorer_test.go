package explorer

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/taigrr/crosscut/pkg/geometry"
	"github.com/taigrr/crosscut/pkg/input"
	"github.com/taigrr/crosscut/pkg/math3d"
	"github.com/taigrr/crosscut/pkg/models"
	"github.com/taigrr/crosscut/pkg/render"
	"github.com/taigrr/crosscut/pkg/section"
	"github.com/taigrr/crosscut/pkg/session"
)

const (
	width  = 48
	height = 32
)

var t0 = time.Unix(1_700_000_000, 0)

func newExplorer(t *testing.T, opts Options) *Explorer {
	t.Helper()
	return New(render.NewFramebuffer(width, height), session.New(geometry.Box), opts)
}

func press(ms int, x, y float64) input.PointerEvent {
	return input.PointerEvent{ID: 1, Button: input.ButtonPrimary, X: x, Y: y, Time: t0.Add(time.Duration(ms) * time.Millisecond)}
}

func TestKeysSelectSolids(t *testing.T) {
	e := newExplorer(t, DefaultOptions())
	tests := []struct {
		key  rune
		want geometry.Kind
	}{
		{'1', geometry.Box},
		{'3', geometry.Cylinder},
		{'5', geometry.Torus},
		{'9', geometry.Octahedron},
		{'0', geometry.Dodecahedron},
		{'-', geometry.Icosahedron},
	}
	for _, tt := range tests {
		if !e.Key(tt.key) {
			t.Fatalf("key %q not consumed", tt.key)
		}
		if e.State.Solid != tt.want {
			t.Errorf("key %q: solid = %v, want %v", tt.key, e.State.Solid, tt.want)
		}
	}
}

func TestMenuKeys(t *testing.T) {
	e := newExplorer(t, DefaultOptions())

	if !e.Key('k') || e.State.Mode != session.ModeKnife {
		t.Fatalf("k: mode = %v, want knife", e.State.Mode)
	}
	if !e.Key('w') || math.Abs(e.State.Plane.Orientation.X-0.1) > 1e-12 {
		t.Fatalf("w: X = %v, want 0.1", e.State.Plane.Orientation.X)
	}

	if !e.Key('F') || !e.State.Frozen {
		t.Fatal("F did not freeze")
	}
	if e.State.Mode != session.ModeCamera {
		t.Errorf("mode = %v, freeze leaves knife mode", e.State.Mode)
	}
	if e.Key('w') {
		t.Error("plane keys are gated while frozen")
	}
	if math.Abs(e.State.Plane.Orientation.X-0.1) > 1e-12 {
		t.Errorf("frozen X = %v, want 0.1", e.State.Plane.Orientation.X)
	}

	if !e.Key('v') || e.State.AlignTrigger != 1 {
		t.Errorf("v: AlignTrigger = %d, want 1", e.State.AlignTrigger)
	}

	if !e.Key('r') {
		t.Fatal("r not consumed")
	}
	if e.State.Frozen || !e.State.Plane.IsIdentity() || e.State.ResetTrigger != 1 {
		t.Errorf("after r: frozen=%v plane=%+v trigger=%d", e.State.Frozen, e.State.Plane, e.State.ResetTrigger)
	}

	if !e.Key('K') || !e.Key('k') || e.State.Mode != session.ModeCamera {
		t.Errorf("k twice: mode = %v, want camera", e.State.Mode)
	}
	if e.Key('z') {
		t.Error("z consumed")
	}
}

func TestFrameReportsSection(t *testing.T) {
	e := newExplorer(t, DefaultOptions())
	st := e.Frame(t0)

	if st.Solid != "box" || st.Triangles != e.State.Mesh.TriangleCount() {
		t.Errorf("solid=%q triangles=%d", st.Solid, st.Triangles)
	}
	if st.Section == nil {
		t.Fatal("no section through the origin")
	}
	if want := geometry.BoxEdge * geometry.BoxEdge; math.Abs(st.Section.Area-want) > 1e-9 {
		t.Errorf("area = %v, want %v", st.Section.Area, want)
	}
	if st.Render.Pass(section.PassSolid).Fragments == 0 {
		t.Error("solid pass drew nothing")
	}
	if ind := st.Render.Pass(section.PassIndicator); ind.Triangles+ind.Fragments == 0 {
		t.Error("indicator pass drew nothing")
	}

	e.State.Plane.Position = math3d.V3(0, 5, 0)
	st = e.Frame(t0.Add(time.Second))
	if st.Section != nil {
		t.Error("plane above the solid has a section")
	}
	if n := st.Render.CapPixels(); n != 0 {
		t.Errorf("cap pixels = %d, want 0", n)
	}
}

func TestFrozenFrameHidesIndicator(t *testing.T) {
	e := newExplorer(t, DefaultOptions())
	e.Key('f')
	st := e.Frame(t0)
	if !st.Frozen {
		t.Error("not frozen")
	}
	if got := st.Render.Pass(section.PassIndicator); got != (render.Stats{}) {
		t.Errorf("indicator stats = %+v, want none", got)
	}
}

func TestPointerFollow(t *testing.T) {
	e := newExplorer(t, DefaultOptions())
	e.Hover(width*0.9, height/2)
	e.Frame(t0)
	p := e.State.Plane.Position
	if p.X <= 0 {
		t.Errorf("X = %v, want positive", p.X)
	}
	if math.Abs(p.Z) > 1e-9 {
		t.Errorf("Z = %v, target lies on the z=0 pick plane", p.Z)
	}

	first := p.X
	e.Frame(t0.Add(16 * time.Millisecond))
	if e.State.Plane.Position.X <= first {
		t.Errorf("X = %v, want beyond %v", e.State.Plane.Position.X, first)
	}

	e.Key('f')
	frozen := e.State.Plane.Position
	e.Frame(t0.Add(32 * time.Millisecond))
	if e.State.Plane.Position != frozen {
		t.Error("frozen plane followed the pointer")
	}
}

func TestAlignAnimatesToUnderside(t *testing.T) {
	e := newExplorer(t, DefaultOptions())
	e.Key('v')
	if st := e.Frame(t0); !st.Animating {
		t.Fatal("align not animating")
	}

	st := e.Frame(t0.Add(2 * time.Second))
	if st.Animating {
		t.Error("still animating")
	}
	if eye := e.Camera.Eye(); !eye.ApproxEqual(math3d.V3(0, -6, 0), 1e-9) {
		t.Errorf("eye = %v, want (0,-6,0)", eye)
	}
	if st.Render.CapPixels() == 0 {
		t.Error("cap not visible from the aligned camera")
	}
}

func TestResetSnapsCamera(t *testing.T) {
	e := newExplorer(t, DefaultOptions())
	e.Camera.SetPosition(math3d.V3(4, 4, 4))
	e.Key('d')
	e.Key('r')
	e.Frame(t0)
	if eye := e.Camera.Eye(); eye != DefaultOptions().Choreo.DefaultEye {
		t.Errorf("eye = %v", eye)
	}
	if !e.State.Plane.IsIdentity() {
		t.Errorf("plane = %+v", e.State.Plane)
	}
}

func TestKnifeDragDisablesOrbit(t *testing.T) {
	e := newExplorer(t, DefaultOptions())
	e.Key('k')
	e.PointerDown(press(0, 10, 10))
	if !e.Input.Dragging() {
		t.Fatal("knife press did not start a drag")
	}
	e.Frame(t0)
	if e.Orbit.Enabled() {
		t.Error("orbit enabled during a plane drag")
	}

	e.PointerMove(press(0, 30, 10))
	if math.Abs(e.State.Plane.Orientation.Y+0.2) > 1e-12 {
		t.Errorf("Y = %v, want -0.2", e.State.Plane.Orientation.Y)
	}

	e.PointerUp(press(1000, 30, 10))
	e.Frame(t0.Add(time.Second))
	if !e.Orbit.Enabled() {
		t.Error("orbit still disabled")
	}
	if a := e.Orbit.Action(input.ButtonPrimary); a != input.OrbitNone {
		t.Errorf("primary action = %v, knife mode keeps primary for the plane", a)
	}
}

func TestCameraClickFreezes(t *testing.T) {
	e := newExplorer(t, DefaultOptions())
	e.PointerDown(press(0, 10, 10))
	e.PointerUp(press(50, 11, 10))
	if !e.State.Frozen {
		t.Error("click did not freeze")
	}
}

func TestReloadsAreDrained(t *testing.T) {
	opts := DefaultOptions()
	fail := false
	opts.Loader = func(path string) (*models.Mesh, error) {
		if fail {
			return nil, errors.New("truncated file")
		}
		return geometry.Generate(geometry.Torus), nil
	}
	e := newExplorer(t, opts)
	ch := make(chan string, 2)
	e.SetReloads(ch)

	e.State.Plane.Orientation.X = 0.4
	ch <- "/tmp/part.stl"
	st := e.Frame(t0)
	if st.Solid != "/tmp/part.stl" || st.LoadError != nil {
		t.Errorf("solid=%q err=%v", st.Solid, st.LoadError)
	}
	if !e.State.Plane.IsIdentity() {
		t.Error("a reload resets the pose like a solid change")
	}

	fail = true
	ch <- "/tmp/part.stl"
	st = e.Frame(t0.Add(time.Second))
	if st.LoadError == nil {
		t.Error("failed reload reported no error")
	}
	if st.Solid != "/tmp/part.stl" {
		t.Errorf("solid = %q, failed reload keeps the previous mesh", st.Solid)
	}

	close(ch)
	e.Frame(t0.Add(2 * time.Second))
}

func TestResize(t *testing.T) {
	e := newExplorer(t, DefaultOptions())
	e.Resize(80, 20)
	if math.Abs(e.Camera.Aspect-4) > 1e-12 {
		t.Errorf("aspect = %v, want 4", e.Camera.Aspect)
	}
	st := e.Frame(t0)
	if st.Render.Pass(section.PassSolid).Fragments == 0 {
		t.Error("nothing drawn after resize")
	}
	if e.Raster.Width() != 80 {
		t.Errorf("width = %d, want 80", e.Raster.Width())
	}
}
