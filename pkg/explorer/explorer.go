// Package explorer drives one cross-section viewer: it routes host input to
// the controllers and renders a frame on demand. It knows nothing about the
// terminal; cmd/crosscut supplies pixels and events.
package explorer

import (
	"time"
	"unicode"

	"fortio.org/log"

	"github.com/taigrr/crosscut/pkg/choreo"
	"github.com/taigrr/crosscut/pkg/geometry"
	"github.com/taigrr/crosscut/pkg/input"
	"github.com/taigrr/crosscut/pkg/math3d"
	"github.com/taigrr/crosscut/pkg/models"
	"github.com/taigrr/crosscut/pkg/render"
	"github.com/taigrr/crosscut/pkg/section"
	"github.com/taigrr/crosscut/pkg/session"
)

// ModelRadius is the bounding radius imported models are scaled to.
const ModelRadius = 1.2

// PickPlane is the plane the pointer is projected onto to steer the cut
// position.
var PickPlane = math3d.Plane{Normal: math3d.V3(0, 0, 1)}

// Options configures an Explorer.
type Options struct {
	FPS        int
	FOV        float64 // radians
	Thresholds input.Thresholds
	Choreo     choreo.Options
	Section    section.Options
	// Host receives pointer capture and cursor requests. May be nil.
	Host input.Host
	// Loader reads a model file for reloads. Defaults to models.LoadModel.
	Loader func(path string) (*models.Mesh, error)
}

// DefaultOptions returns 60 fps with the package defaults.
func DefaultOptions() Options {
	return Options{
		FPS:        60,
		FOV:        render.NewCamera().FOV,
		Thresholds: input.DefaultThresholds(),
		Choreo:     choreo.DefaultOptions(),
		Section:    section.DefaultOptions(),
	}
}

// Stats describes the last frame, for the HUD.
type Stats struct {
	Solid     string
	Mode      session.Mode
	Frozen    bool
	Plane     math3d.Plane
	Triangles int
	Animating bool
	Cursor    input.Cursor

	Section   *section.Section // nil when the plane misses the solid
	Render    section.Result
	LoadError error // last failed reload, cleared by the next success
}

// Explorer owns every per-session component.
type Explorer struct {
	State  *session.State
	Camera *render.Camera
	Raster *render.Rasterizer
	Cut    *section.Renderer
	Input  *input.Controller
	Orbit  *choreo.Orbit
	Sched  *choreo.Scheduler
	Choreo *choreo.Choreographer

	loader  func(string) (*models.Mesh, error)
	reloads <-chan string

	pointerX, pointerY float64
	hasPointer         bool

	// Section cache keyed by mesh and equation.
	slicedMesh  *models.Mesh
	slicedPlane math3d.Plane
	sliced      *section.Section

	loadErr error
}

// New builds an explorer drawing into fb for the given session.
func New(fb *render.Framebuffer, st *session.State, opts Options) *Explorer {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	cam := render.NewCamera()
	if opts.FOV > 0 {
		cam.FOV = opts.FOV
	}
	cam.SetAspectRatio(float64(fb.Width) / float64(fb.Height))
	cam.SetPosition(opts.Choreo.DefaultEye)
	cam.LookAt(math3d.Zero3())

	raster := render.NewRasterizer(cam, fb)
	sched := &choreo.Scheduler{}
	orbit := choreo.NewOrbit(cam, opts.FPS)
	e := &Explorer{
		State:  st,
		Camera: cam,
		Raster: raster,
		Cut:    section.NewRenderer(raster, opts.Section),
		Input:  input.NewController(st, opts.Host, opts.Thresholds),
		Orbit:  orbit,
		Sched:  sched,
		Choreo: choreo.New(sched, cam, orbit, opts.Choreo),
		loader: opts.Loader,
	}
	if e.loader == nil {
		e.loader = func(path string) (*models.Mesh, error) { return models.LoadModel(path, ModelRadius) }
	}
	return e
}

// SetReloads installs the queue of model paths to reload. Frame drains it.
func (e *Explorer) SetReloads(ch <-chan string) {
	e.reloads = ch
}

// Resize adapts the target and the camera aspect ratio.
func (e *Explorer) Resize(width, height int) {
	e.Raster.Framebuffer().Resize(width, height)
	e.Raster.Resize()
	e.Camera.SetAspectRatio(float64(width) / float64(height))
}

// Hover records the pointer position without a button event.
func (e *Explorer) Hover(x, y float64) {
	e.pointerX, e.pointerY, e.hasPointer = x, y, true
}

// PointerDown routes a press to the plane controller and the orbit.
func (e *Explorer) PointerDown(ev input.PointerEvent) {
	e.Hover(ev.X, ev.Y)
	e.Input.PointerDown(ev)
	if !e.Input.Dragging() {
		e.Orbit.PointerDown(ev.Button, ev.X, ev.Y)
	}
}

// PointerMove routes a drag or hover sample.
func (e *Explorer) PointerMove(ev input.PointerEvent) {
	e.Hover(ev.X, ev.Y)
	e.Input.PointerMove(ev)
	e.Orbit.PointerMove(ev.X, ev.Y)
}

// PointerUp routes a release.
func (e *Explorer) PointerUp(ev input.PointerEvent) {
	e.Hover(ev.X, ev.Y)
	e.Input.PointerUp(ev)
	e.Orbit.PointerUp()
}

// Wheel zooms; positive steps zoom in.
func (e *Explorer) Wheel(steps float64) {
	if e.Choreo.Animating() {
		return
	}
	e.Orbit.Wheel(steps)
}

// SolidKeys maps the number row to catalog solids in order.
const SolidKeys = "1234567890-"

// Key handles one key press: number-row solid selection, f (freeze), r
// (reset), v (align), k (mode) and the plane rotation keys. It reports
// whether the key was used.
func (e *Explorer) Key(key rune) bool {
	lower := unicode.ToLower(key)
	for i, k := range SolidKeys {
		if k == key && i < len(geometry.Kinds()) {
			e.State.Dispatch(session.SelectSolidEvent{Kind: geometry.Kinds()[i]})
			return true
		}
	}
	switch lower {
	case 'f':
		e.State.Dispatch(session.ToggleFreezeEvent{})
	case 'r':
		e.State.Dispatch(session.ResetEvent{})
	case 'v':
		e.State.Dispatch(session.AlignViewEvent{})
	case 'k':
		e.State.Dispatch(session.ToggleModeEvent{})
	default:
		return e.Input.KeyDown(key)
	}
	return true
}

// Frame advances the session by one frame and renders it:
// reloads, pointer-follow, equation, animation triggers, scheduled tasks,
// orbit, button arbitration and finally the cut solid.
func (e *Explorer) Frame(now time.Time) Stats {
	e.drainReloads()
	e.followPointer()

	// Observe derives the equation itself for align.
	e.Choreo.Observe(e.State, now)
	e.Sched.Tick(now)
	if e.Choreo.Animating() {
		e.Orbit.Stop()
	} else {
		e.Orbit.Update()
	}
	e.Input.Arbitrate(e.Orbit)

	plane := e.State.Equation()
	res := e.Cut.Render(e.State.Mesh, plane, !e.State.Frozen)

	return Stats{
		Solid:     e.State.SolidName(),
		Mode:      e.State.Mode,
		Frozen:    e.State.Frozen,
		Plane:     plane,
		Triangles: e.State.Mesh.TriangleCount(),
		Animating: e.Choreo.Animating(),
		Cursor:    e.Input.Cursor(),
		Section:   e.section(plane),
		Render:    res,
		LoadError: e.loadErr,
	}
}

func (e *Explorer) followPointer() {
	if !e.hasPointer || !e.State.CanMutate() {
		return
	}
	fb := e.Raster.Framebuffer()
	nx, ny := render.PixelToNDC(e.pointerX, e.pointerY, fb.Width, fb.Height)
	hit, ok := e.Camera.ScreenRay(nx, ny).IntersectPlane(PickPlane)
	if !ok {
		return
	}
	e.State.Plane.FollowPointer(hit)
}

func (e *Explorer) section(plane math3d.Plane) *section.Section {
	if e.slicedMesh == e.State.Mesh && e.slicedPlane == plane {
		return e.sliced
	}
	e.slicedMesh, e.slicedPlane = e.State.Mesh, plane
	sec, err := section.Slice(e.State.Mesh, plane)
	if err != nil {
		sec = nil
	}
	e.sliced = sec
	return sec
}

func (e *Explorer) drainReloads() {
	if e.reloads == nil {
		return
	}
	for {
		select {
		case path, ok := <-e.reloads:
			if !ok {
				e.reloads = nil
				return
			}
			e.reload(path)
		default:
			return
		}
	}
}

// LoadModel replaces the solid with the model at path, as a solid change
// would. On failure the current solid stays.
func (e *Explorer) LoadModel(path string) error {
	mesh, err := e.loader(path)
	if err != nil {
		return err
	}
	e.State.SetModel(path, mesh)
	log.S(log.Info, "model loaded",
		log.Str("path", path),
		log.Attr("triangles", mesh.TriangleCount()),
		log.Attr("closed", mesh.IsClosed()))
	return nil
}

func (e *Explorer) reload(path string) {
	if err := e.LoadModel(path); err != nil {
		e.loadErr = err
		log.Warnf("reload %s: %v", path, err)
		return
	}
	e.loadErr = nil
}
