package render

import (
	"github.com/taigrr/crosscut/pkg/math3d"
)

// Frustum represents the 6 planes of a view frustum.
// Planes are ordered: Left, Right, Bottom, Top, Near, Far.
// Each plane's normal points inward (toward the center of the frustum).
type Frustum struct {
	Planes [6]math3d.Plane
}

// NewFrustumFromMatrix extracts frustum planes from a view-projection matrix
// using the Gribb/Hartmann method. The resulting normals point inward.
func NewFrustumFromMatrix(m math3d.Mat4) Frustum {
	var f Frustum
	// For column-major m, row i element j is m[i + j*4].
	row := func(i int) (float64, float64, float64, float64) {
		return m[i], m[i+4], m[i+8], m[i+12]
	}
	r3x, r3y, r3z, r3w := row(3)
	for i := range 3 {
		rx, ry, rz, rw := row(i)
		// row3 + row_i, then row3 - row_i
		f.Planes[i*2] = math3d.Plane{Normal: math3d.V3(r3x+rx, r3y+ry, r3z+rz), D: r3w + rw}
		f.Planes[i*2+1] = math3d.Plane{Normal: math3d.V3(r3x-rx, r3y-ry, r3z-rz), D: r3w - rw}
	}
	for i := range f.Planes {
		f.Planes[i].Normalize()
	}
	return f
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// Transform returns an AABB that bounds the original AABB after transformation.
func (b AABB) Transform(m math3d.Mat4) AABB {
	first := true
	var out AABB
	for i := range 8 {
		corner := math3d.V3(
			selectComponent(i&1 != 0, b.Max.X, b.Min.X),
			selectComponent(i&2 != 0, b.Max.Y, b.Min.Y),
			selectComponent(i&4 != 0, b.Max.Z, b.Min.Z),
		)
		p := m.MulVec3(corner)
		if first {
			out = AABB{Min: p, Max: p}
			first = false
			continue
		}
		out.Min = out.Min.Min(p)
		out.Max = out.Max.Max(p)
	}
	return out
}

// IntersectAABB tests if the AABB intersects or is inside the frustum.
// Uses the "positive vertex" optimization for faster rejection.
func (f Frustum) IntersectAABB(box AABB) bool {
	for _, plane := range f.Planes {
		// The corner furthest along the plane normal; if it is outside,
		// the whole box is.
		pVertex := math3d.V3(
			selectComponent(plane.Normal.X >= 0, box.Max.X, box.Min.X),
			selectComponent(plane.Normal.Y >= 0, box.Max.Y, box.Min.Y),
			selectComponent(plane.Normal.Z >= 0, box.Max.Z, box.Min.Z),
		)
		if plane.SignedDistance(pVertex) < 0 {
			return false
		}
	}
	return true
}

func selectComponent(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}
