// Package section renders a solid cut by a plane and computes the cut's
// cross-section.
//
// The renderer uses the stencil capping technique: back faces beyond the
// plane increment the stencil, front faces decrement it, and a large quad
// on the plane is drawn only where the count is non-zero, which is exactly
// where the plane lies inside the solid. The clipped solid and a faint
// interior wireframe are drawn on top.
package section

import (
	"github.com/taigrr/crosscut/pkg/math3d"
	"github.com/taigrr/crosscut/pkg/render"
)

// Pass identifies a render pass. Passes always run in declaration order.
type Pass int

const (
	PassBackStencil Pass = iota
	PassFrontStencil
	PassCap
	PassSolid
	PassWireframe
	PassIndicator

	numPasses
)

var passNames = [numPasses]string{
	"back-stencil", "front-stencil", "cap", "solid", "wireframe", "indicator",
}

func (p Pass) String() string {
	if p < 0 || p >= numPasses {
		return "unknown"
	}
	return passNames[p]
}

// CapSize is the side of the cap quad. It must exceed any solid's extent.
const CapSize = 10.0

// Options holds the colors and opacities of the passes.
type Options struct {
	SolidColor     render.Color
	CapColor       render.Color
	WireColor      render.Color
	WireOpacity    float64
	IndicatorColor render.Color
	IndicatorSize  float64
	LightDir       math3d.Vec3
}

// DefaultOptions returns the stock palette.
func DefaultOptions() Options {
	return Options{
		SolidColor:     render.RGB(90, 160, 230),
		CapColor:       render.RGB(235, 110, 60),
		WireColor:      render.RGB(255, 255, 255),
		WireOpacity:    0.15,
		IndicatorColor: render.RGB(250, 220, 80),
		IndicatorSize:  3,
		LightDir:       math3d.V3(0.4, 0.8, 0.6).Normalize(),
	}
}

// Result reports what each pass drew.
type Result struct {
	Passes [numPasses]render.Stats
}

// Pass returns the statistics of one pass.
func (r Result) Pass(p Pass) render.Stats {
	return r.Passes[p]
}

// CapPixels is the number of cap fragments written.
func (r Result) CapPixels() int {
	return r.Passes[PassCap].Fragments
}

// Renderer draws cut solids through a rasterizer.
type Renderer struct {
	r    *render.Rasterizer
	Opts Options
	// OnPass, when set, is called before each pass runs.
	OnPass func(Pass)
}

// NewRenderer creates a renderer drawing into r.
func NewRenderer(r *render.Rasterizer, opts Options) *Renderer {
	return &Renderer{r: r, Opts: opts}
}

// Rasterizer returns the target rasterizer.
func (sr *Renderer) Rasterizer() *render.Rasterizer {
	return sr.r
}

func stencilPass(cull render.CullMode, op render.StencilOp, clip []math3d.Plane) render.DrawState {
	return render.DrawState{
		Cull: cull,
		Stencil: render.StencilState{
			Enabled: true,
			Func:    render.StencilAlways,
			Fail:    op,
			ZFail:   op,
			ZPass:   op,
		},
		ClipPlanes: clip,
	}
}

// CapQuad returns the corners of a square of side size centred at the plane
// point nearest the origin, wound counter-clockwise around the normal.
func CapQuad(plane math3d.Plane, size float64) [4]math3d.Vec3 {
	plane.Normalize()
	c := plane.ClosestPointToOrigin()
	u, v := plane.Basis()
	u, v = u.Scale(size/2), v.Scale(size/2)
	return [4]math3d.Vec3{
		c.Sub(u).Sub(v),
		c.Add(u).Sub(v),
		c.Add(u).Add(v),
		c.Sub(u).Add(v),
	}
}

func (sr *Renderer) begin(p Pass) {
	if sr.OnPass != nil {
		sr.OnPass(p)
	}
	sr.r.ResetStats()
}

// Render clears the target and draws mesh cut by plane. The cap and the
// clip planes come from the same equation. When indicator is set the plane
// outline and normal are drawn last.
func (sr *Renderer) Render(mesh render.MeshRenderer, plane math3d.Plane, indicator bool) Result {
	var res Result
	plane.Normalize()
	clip := []math3d.Plane{plane}
	identity := math3d.Identity()
	sr.r.Clear()

	sr.begin(PassBackStencil)
	back := stencilPass(render.CullFront, render.StencilIncrWrap, clip)
	sr.r.DrawMesh(mesh, identity, &back)
	res.Passes[PassBackStencil] = sr.r.Stats

	sr.begin(PassFrontStencil)
	front := stencilPass(render.CullBack, render.StencilDecrWrap, clip)
	sr.r.DrawMesh(mesh, identity, &front)
	res.Passes[PassFrontStencil] = sr.r.Stats

	sr.begin(PassCap)
	sr.drawCap(plane)
	res.Passes[PassCap] = sr.r.Stats

	sr.begin(PassSolid)
	solid := render.OpaqueState(sr.Opts.SolidColor, sr.Opts.LightDir)
	solid.ClipPlanes = clip
	sr.r.DrawMesh(mesh, identity, &solid)
	res.Passes[PassSolid] = sr.r.Stats

	sr.begin(PassWireframe)
	wire := render.DrawState{
		Cull:       render.CullFront,
		ColorWrite: true,
		ClipPlanes: clip,
		Color:      sr.Opts.WireColor,
		Opacity:    sr.Opts.WireOpacity,
	}
	sr.r.DrawMeshWireframe(mesh, identity, &wire)
	res.Passes[PassWireframe] = sr.r.Stats

	if indicator {
		sr.begin(PassIndicator)
		sr.drawIndicator(plane)
		res.Passes[PassIndicator] = sr.r.Stats
	}
	return res
}

func (sr *Renderer) drawCap(plane math3d.Plane) {
	q := CapQuad(plane, CapSize)
	st := render.DrawState{
		Cull:       render.CullNone,
		DepthTest:  true,
		DepthWrite: true,
		ColorWrite: true,
		Stencil: render.StencilState{
			Enabled: true,
			Func:    render.StencilNotEqual,
			Ref:     0,
			Fail:    render.StencilReplace,
			ZFail:   render.StencilReplace,
			ZPass:   render.StencilReplace,
		},
		Shading: render.ShadeUnlit,
		Color:   sr.Opts.CapColor,
		Opacity: 1,
	}
	vert := func(p math3d.Vec3) render.Vertex {
		return render.Vertex{Position: p, Normal: plane.Normal, Color: st.Color}
	}
	sr.r.DrawTriangle(render.Triangle{V: [3]render.Vertex{vert(q[0]), vert(q[1]), vert(q[2])}}, &st)
	sr.r.DrawTriangle(render.Triangle{V: [3]render.Vertex{vert(q[0]), vert(q[2]), vert(q[3])}}, &st)
}

func (sr *Renderer) drawIndicator(plane math3d.Plane) {
	w := render.NewWireframe(sr.r, sr.Opts.IndicatorColor)
	q := CapQuad(plane, sr.Opts.IndicatorSize)
	w.DrawLoop(q[:])
	w.DrawArrow(plane.ClosestPointToOrigin(), plane.Normal, sr.Opts.IndicatorSize/3)
}
