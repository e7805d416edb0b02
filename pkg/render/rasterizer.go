// Package render provides the software rasterizer that hosts the cut view:
// a framebuffer with depth and 8-bit stencil buffers, per-draw culling,
// clip planes and blending.
package render

import (
	"math"

	"github.com/taigrr/crosscut/pkg/math3d"
)

// Vertex represents a vertex with all attributes needed for rasterization.
type Vertex struct {
	Position math3d.Vec3 // World position
	Normal   math3d.Vec3 // Normal vector (for lighting)
	Color    Color       // Vertex color
}

// Triangle represents a triangle to be rasterized.
type Triangle struct {
	V [3]Vertex
}

// Stats counts what happened to the primitives and fragments of the draws
// since the last ResetStats.
type Stats struct {
	Triangles    int // triangles submitted
	Culled       int // triangles rejected by face culling or the near plane
	Fragments    int // fragments that passed every test
	ClipDiscards int // fragments discarded by a clip plane
	StencilFails int
	DepthFails   int
}

// Rasterizer handles software triangle rasterization.
type Rasterizer struct {
	camera  *Camera
	fb      *Framebuffer
	zbuffer []float64 // Depth buffer (1D array, row-major), NDC z
	stencil []uint8   // Stencil buffer (1D array, row-major)
	Stats   Stats
}

// NewRasterizer creates a new rasterizer.
func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{
		camera: camera,
		fb:     fb,
	}
	r.Resize()
	return r
}

// Resize resizes the depth and stencil buffers to match the framebuffer.
func (r *Rasterizer) Resize() {
	n := r.fb.Width * r.fb.Height
	r.zbuffer = make([]float64, n)
	r.stencil = make([]uint8, n)
	r.ClearDepth()
}

// Camera returns the camera the rasterizer projects with.
func (r *Rasterizer) Camera() *Camera {
	return r.camera
}

// Framebuffer returns the color target.
func (r *Rasterizer) Framebuffer() *Framebuffer {
	return r.fb
}

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int {
	return r.fb.Width
}

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int {
	return r.fb.Height
}

// Clear clears color, depth and stencil (call before each frame).
func (r *Rasterizer) Clear() {
	r.fb.Clear()
	r.ClearDepth()
	r.ClearStencil()
}

// ClearDepth clears the Z-buffer.
func (r *Rasterizer) ClearDepth() {
	// Use copy-doubling for faster clearing
	n := len(r.zbuffer)
	if n == 0 {
		return
	}
	r.zbuffer[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(r.zbuffer[i:], r.zbuffer[:i])
	}
}

// ClearStencil zeroes the stencil buffer.
func (r *Rasterizer) ClearStencil() {
	clear(r.stencil)
}

// ResetStats zeroes Stats.
func (r *Rasterizer) ResetStats() {
	r.Stats = Stats{}
}

// StencilAt returns the stencil value at (x, y).
func (r *Rasterizer) StencilAt(x, y int) uint8 {
	if !r.fb.InBounds(x, y) {
		return 0
	}
	return r.stencil[y*r.fb.Width+x]
}

// DepthAt returns the depth buffer value at (x, y).
func (r *Rasterizer) DepthAt(x, y int) float64 {
	if !r.fb.InBounds(x, y) {
		return math.MaxFloat64
	}
	return r.zbuffer[y*r.fb.Width+x]
}

// CountStencil returns how many pixels hold a non-zero stencil value.
func (r *Rasterizer) CountStencil() int {
	n := 0
	for _, s := range r.stencil {
		if s != 0 {
			n++
		}
	}
	return n
}

// clipVertex is a vertex in homogeneous clip space carrying the attributes
// that are interpolated across the triangle.
type clipVertex struct {
	clip  math3d.Vec4
	world math3d.Vec3
	color Color
}

func lerpClipVertex(a, b clipVertex, t float64) clipVertex {
	return clipVertex{
		clip:  a.clip.Lerp(b.clip, t),
		world: a.world.Lerp(b.world, t),
		color: LerpColor(a.color, b.color, t),
	}
}

// clipNear clips a polygon against the near plane (z >= -w) in clip space.
func clipNear(poly []clipVertex) []clipVertex {
	out := make([]clipVertex, 0, len(poly)+2)
	for i := range poly {
		a := poly[i]
		b := poly[(i+1)%len(poly)]
		da := a.clip.Z + a.clip.W
		db := b.clip.Z + b.clip.W
		if da >= 0 {
			out = append(out, a)
		}
		if (da >= 0) != (db >= 0) {
			out = append(out, lerpClipVertex(a, b, da/(da-db)))
		}
	}
	return out
}

// screenVertex holds a vertex transformed to screen space.
type screenVertex struct {
	X, Y  float64 // Screen coordinates (Y down)
	Z     float64 // NDC depth (for Z-buffer)
	InvW  float64 // 1/w (for perspective-correct interpolation)
	World math3d.Vec3
	Color Color
}

func (r *Rasterizer) toScreen(v clipVertex) screenVertex {
	invW := 1 / v.clip.W
	return screenVertex{
		X:     (v.clip.X*invW + 1) * 0.5 * float64(r.fb.Width),
		Y:     (1 - v.clip.Y*invW) * 0.5 * float64(r.fb.Height), // Y flipped
		Z:     v.clip.Z * invW,
		InvW:  invW,
		World: v.world,
		Color: v.color,
	}
}

// shade computes the per-vertex colors of a triangle for the draw state.
func shade(tri *Triangle, st *DrawState) [3]Color {
	var out [3]Color
	switch st.Shading {
	case ShadeFlat:
		n := tri.V[1].Position.Sub(tri.V[0].Position).Cross(tri.V[2].Position.Sub(tri.V[0].Position)).Normalize()
		c := MultiplyColor(st.Color, st.intensity(n))
		out = [3]Color{c, c, c}
	case ShadeGouraud:
		for i := range 3 {
			out[i] = MultiplyColor(st.Color, st.intensity(tri.V[i].Normal))
		}
	default:
		for i := range 3 {
			out[i] = tri.V[i].Color
		}
	}
	return out
}

// DrawTriangle rasterizes a single triangle with the given state.
func (r *Rasterizer) DrawTriangle(tri Triangle, st *DrawState) {
	r.drawTriangle(&tri, st, r.camera.ViewProjectionMatrix())
}

func (r *Rasterizer) drawTriangle(tri *Triangle, st *DrawState, viewProj math3d.Mat4) {
	r.Stats.Triangles++
	colors := shade(tri, st)

	poly := make([]clipVertex, 3, 5)
	for i := range 3 {
		poly[i] = clipVertex{
			clip:  viewProj.MulVec4(math3d.V4FromV3(tri.V[i].Position, 1)),
			world: tri.V[i].Position,
			color: colors[i],
		}
	}
	poly = clipNear(poly)
	if len(poly) < 3 {
		r.Stats.Culled++
		return
	}

	sv := make([]screenVertex, len(poly))
	for i, v := range poly {
		sv[i] = r.toScreen(v)
	}

	// Facing from the signed screen area of the whole (clipped) polygon.
	// Screen Y points down, so counter-clockwise on screen is negative here.
	area := 0.0
	for i := range sv {
		j := (i + 1) % len(sv)
		area += sv[i].X*sv[j].Y - sv[j].X*sv[i].Y
	}
	if area == 0 {
		r.Stats.Culled++
		return
	}
	front := area < 0
	if st.culls(front) {
		r.Stats.Culled++
		return
	}

	for i := 1; i+1 < len(sv); i++ {
		r.fillTriangle(sv[0], sv[i], sv[i+1], st)
	}
}

// edge is the 2D edge function; positive when p lies to the right of a->b
// in Y-down screen space for the orientation used by fillTriangle.
func edge(ax, ay, bx, by, px, py float64) float64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// ownsEdge breaks ties for pixel centers exactly on an edge: of two
// triangles sharing an edge (traversed in opposite directions) exactly one
// owns it, so shared edges are neither skipped nor drawn twice.
func ownsEdge(ax, ay, bx, by float64) bool {
	dy := by - ay
	return dy > 0 || (dy == 0 && bx-ax < 0)
}

func (r *Rasterizer) fillTriangle(v0, v1, v2 screenVertex, st *DrawState) {
	area := edge(v0.X, v0.Y, v1.X, v1.Y, v2.X, v2.Y)
	if area == 0 {
		return
	}
	if area < 0 {
		v1, v2 = v2, v1
		area = -area
	}

	minX := int(math.Max(0, math.Floor(min(v0.X, v1.X, v2.X))))
	maxX := int(math.Min(float64(r.fb.Width-1), math.Ceil(max(v0.X, v1.X, v2.X))))
	minY := int(math.Max(0, math.Floor(min(v0.Y, v1.Y, v2.Y))))
	maxY := int(math.Min(float64(r.fb.Height-1), math.Ceil(max(v0.Y, v1.Y, v2.Y))))

	own0 := ownsEdge(v1.X, v1.Y, v2.X, v2.Y)
	own1 := ownsEdge(v2.X, v2.Y, v0.X, v0.Y)
	own2 := ownsEdge(v0.X, v0.Y, v1.X, v1.Y)

	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float64(x) + 0.5

			w0 := edge(v1.X, v1.Y, v2.X, v2.Y, px, py)
			w1 := edge(v2.X, v2.Y, v0.X, v0.Y, px, py)
			w2 := edge(v0.X, v0.Y, v1.X, v1.Y, px, py)
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			if (w0 == 0 && !own0) || (w1 == 0 && !own1) || (w2 == 0 && !own2) {
				continue
			}
			b0, b1, b2 := w0/area, w1/area, w2/area

			// Depth is linear in screen space; attributes need 1/w weighting.
			z := b0*v0.Z + b1*v1.Z + b2*v2.Z
			p0, p1, p2 := b0*v0.InvW, b1*v1.InvW, b2*v2.InvW
			sum := p0 + p1 + p2
			if sum == 0 {
				continue
			}
			p0, p1, p2 = p0/sum, p1/sum, p2/sum
			world := v0.World.Scale(p0).Add(v1.World.Scale(p1)).Add(v2.World.Scale(p2))

			r.fragment(x, y, z, world, st, func() Color {
				return interpolateColor3(v0.Color, v1.Color, v2.Color, p0, p1, p2)
			})
		}
	}
}

// fragment runs the per-fragment pipeline: clip planes, stencil test, depth
// test, stencil update, depth write and color write/blend.
func (r *Rasterizer) fragment(x, y int, z float64, world math3d.Vec3, st *DrawState, color func() Color) {
	if z < -1 || z > 1 {
		return
	}
	if st.clipped(world) {
		r.Stats.ClipDiscards++
		return
	}
	idx := y*r.fb.Width + x

	if st.Stencil.Enabled && !stencilCompare(st.Stencil.Func, st.Stencil.Ref, r.stencil[idx]) {
		r.Stats.StencilFails++
		r.stencil[idx] = applyStencilOp(st.Stencil.Fail, st.Stencil.Ref, r.stencil[idx])
		return
	}
	if st.DepthTest && z >= r.zbuffer[idx] {
		r.Stats.DepthFails++
		if st.Stencil.Enabled {
			r.stencil[idx] = applyStencilOp(st.Stencil.ZFail, st.Stencil.Ref, r.stencil[idx])
		}
		return
	}
	if st.Stencil.Enabled {
		r.stencil[idx] = applyStencilOp(st.Stencil.ZPass, st.Stencil.Ref, r.stencil[idx])
	}
	if st.DepthWrite {
		r.zbuffer[idx] = z
	}
	r.Stats.Fragments++
	if !st.ColorWrite {
		return
	}
	c := color()
	if st.Opacity > 0 && st.Opacity < 1 {
		r.fb.BlendPixel(x, y, c, st.Opacity)
		return
	}
	r.fb.Pixels[idx] = c
}
