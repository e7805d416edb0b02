package render

import "github.com/taigrr/crosscut/pkg/math3d"

// CullMode selects which triangle facing is discarded. A triangle is front
// facing when its corners wind counter-clockwise on screen.
type CullMode int

const (
	CullNone  CullMode = iota // draw both sides
	CullBack                  // draw front faces only
	CullFront                 // draw back faces only
)

// StencilFunc is the comparison between the reference value and the stored
// stencil value.
type StencilFunc int

const (
	StencilAlways StencilFunc = iota
	StencilNever
	StencilEqual
	StencilNotEqual
)

// StencilOp updates the stored stencil value. Increment and decrement wrap
// around the 8-bit range.
type StencilOp int

const (
	StencilKeep StencilOp = iota
	StencilZero
	StencilReplace
	StencilIncrWrap
	StencilDecrWrap
)

// StencilState configures the stencil test for one draw.
type StencilState struct {
	Enabled bool
	Func    StencilFunc
	Ref     uint8
	Fail    StencilOp // stencil test failed
	ZFail   StencilOp // stencil passed, depth failed
	ZPass   StencilOp // both passed
}

// Shading selects how fragment colors are computed.
type Shading int

const (
	ShadeUnlit   Shading = iota // vertex color as is
	ShadeFlat                   // one intensity per triangle from its face normal
	ShadeGouraud                // per-vertex intensity interpolated across the triangle
)

// DrawState is the per-draw pipeline configuration. The zero value draws
// both faces with no depth, stencil or color output.
type DrawState struct {
	Cull       CullMode
	DepthTest  bool
	DepthWrite bool
	ColorWrite bool
	Stencil    StencilState

	// ClipPlanes discard fragments whose world position has a negative
	// signed distance to any plane.
	ClipPlanes []math3d.Plane

	Shading  Shading
	Color    Color
	LightDir math3d.Vec3
	Ambient  float64
	// Opacity below 1 blends over the framebuffer.
	Opacity float64
}

// OpaqueState returns a depth-tested, depth-writing, back-face-culled state
// drawing color c with Gouraud shading.
func OpaqueState(c Color, lightDir math3d.Vec3) DrawState {
	return DrawState{
		Cull:       CullBack,
		DepthTest:  true,
		DepthWrite: true,
		ColorWrite: true,
		Shading:    ShadeGouraud,
		Color:      c,
		LightDir:   lightDir,
		Ambient:    0.3,
		Opacity:    1,
	}
}

func (s *DrawState) culls(front bool) bool {
	switch s.Cull {
	case CullBack:
		return !front
	case CullFront:
		return front
	}
	return false
}

func (s *DrawState) clipped(world math3d.Vec3) bool {
	for _, p := range s.ClipPlanes {
		if p.SignedDistance(world) < 0 {
			return true
		}
	}
	return false
}

func (s *DrawState) intensity(normal math3d.Vec3) float64 {
	light := s.LightDir.Normalize()
	diffuse := normal.Dot(light)
	if diffuse < 0 {
		diffuse = 0
	}
	return s.Ambient + (1-s.Ambient)*diffuse
}

func stencilCompare(fn StencilFunc, ref, stored uint8) bool {
	switch fn {
	case StencilNever:
		return false
	case StencilEqual:
		return ref == stored
	case StencilNotEqual:
		return ref != stored
	}
	return true
}

func applyStencilOp(op StencilOp, ref, stored uint8) uint8 {
	switch op {
	case StencilZero:
		return 0
	case StencilReplace:
		return ref
	case StencilIncrWrap:
		return stored + 1
	case StencilDecrWrap:
		return stored - 1
	}
	return stored
}
