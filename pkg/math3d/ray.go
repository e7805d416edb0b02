package math3d

import "math"

// parallelEpsilon bounds |dir·normal| below which a ray counts as parallel to a plane.
const parallelEpsilon = 1e-9

// Ray is a half-line from Origin along Dir.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Dir.Scale(t))
}

// IntersectPlane returns the point where the ray meets the plane. ok is false
// when the ray is parallel to the plane or the plane lies behind the origin.
func (r Ray) IntersectPlane(p Plane) (Vec3, bool) {
	denom := p.Normal.Dot(r.Dir)
	if math.Abs(denom) < parallelEpsilon {
		return Vec3{}, false
	}
	t := -p.SignedDistance(r.Origin) / denom
	if t < 0 {
		return Vec3{}, false
	}
	return r.At(t), true
}
