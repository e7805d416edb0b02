package math3d

// Plane represents a plane in 3D space using the equation: Normal·p + D = 0.
// Points with positive signed distance lie on the side the normal points to.
type Plane struct {
	Normal Vec3
	D      float64
}

// PlaneFromPointNormal builds the plane through point with the given normal.
// The normal is normalized.
func PlaneFromPointNormal(point, normal Vec3) Plane {
	n := normal.Normalize()
	return Plane{Normal: n, D: -n.Dot(point)}
}

// Normalize normalizes the plane equation so the normal has unit length.
func (p *Plane) Normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1.0 / l)
	p.D /= l
}

// SignedDistance returns the signed distance from the plane to a point.
// Positive = in front (same side as normal), negative = behind.
func (p Plane) SignedDistance(point Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// ClosestPointToOrigin returns the point of the plane nearest to the origin,
// Normal * -D for a unit normal.
func (p Plane) ClosestPointToOrigin() Vec3 {
	return p.Normal.Scale(-p.D)
}

// Project returns the orthogonal projection of point onto the plane.
func (p Plane) Project(point Vec3) Vec3 {
	return point.Sub(p.Normal.Scale(p.SignedDistance(point)))
}

// Basis returns two unit vectors u, v spanning the plane such that
// u x v equals the normal.
func (p Plane) Basis() (u, v Vec3) {
	u = p.Normal.AnyPerpendicular()
	v = p.Normal.Cross(u).Normalize()
	return u, v
}
