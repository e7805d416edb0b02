package math3d

// Euler is an intrinsic rotation applied in X, then Y, then Z order
// (matrix R = Rx * Ry * Rz). Angles are radians and are never wrapped.
type Euler struct {
	X, Y, Z float64
}

// Matrix returns the rotation matrix Rx * Ry * Rz.
func (e Euler) Matrix() Mat4 {
	return RotateX(e.X).Mul(RotateY(e.Y)).Mul(RotateZ(e.Z))
}

// Rotate applies the rotation to v.
func (e Euler) Rotate(v Vec3) Vec3 {
	return e.Matrix().MulVec3Dir(v)
}

// Add returns the component-wise sum of two angle sets.
func (e Euler) Add(b Euler) Euler {
	return Euler{e.X + b.X, e.Y + b.Y, e.Z + b.Z}
}
