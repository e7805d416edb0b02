package geometry

import (
	"github.com/taigrr/crosscut/pkg/math3d"
	"github.com/taigrr/crosscut/pkg/models"
)

// Default sizes. Platonic solids share one circumradius.
const (
	BoxEdge        = 1.6
	SphereRadius   = 1.0
	CylinderRadius = 0.8
	CylinderHeight = 2.0
	ConeRadius     = 1.0
	ConeHeight     = 2.0
	TorusMajor     = 0.8
	TorusMinor     = 0.35
	CapsuleRadius  = 0.6
	CapsuleLength  = 1.2
	HexRadius      = 1.0
	HexHeight      = 1.6
	PlatonicRadius = 1.2
)

const catalogMaxExtent = 1.5

// Generate returns a fresh mesh for k. The caller owns the result; invalid
// kinds produce a box.
func Generate(k Kind) *models.Mesh {
	var m *models.Mesh
	switch k {
	case Sphere:
		m = sphereMesh(SphereRadius)
	case Cylinder:
		m = cylinderMesh(CylinderRadius, CylinderHeight)
	case Cone:
		m = coneMesh(ConeRadius, ConeHeight)
	case Torus:
		m = torusMesh(TorusMajor, TorusMinor)
	case Capsule:
		m = capsuleMesh(CapsuleRadius, CapsuleLength)
	case HexPrism, Tetrahedron, Octahedron, Dodecahedron, Icosahedron:
		m, _ = convexSolid(k.String(), convexPoints(k))
	default:
		m, _ = convexSolid(Box.String(), convexPoints(Box))
	}
	return m
}

// convexPoints returns the hull vertices of the flat-faced solids.
func convexPoints(k Kind) []math3d.Vec3 {
	switch k {
	case HexPrism:
		return hexPoints(HexRadius, HexHeight)
	case Tetrahedron:
		return tetrahedronPoints(PlatonicRadius)
	case Octahedron:
		return octahedronPoints(PlatonicRadius)
	case Dodecahedron:
		return dodecahedronPoints(PlatonicRadius)
	case Icosahedron:
		return icosahedronPoints(PlatonicRadius)
	default:
		return boxPoints(BoxEdge / 2)
	}
}

// Extent returns a half-size that bounds every catalog solid, used to size
// sampling grids and the default camera framing.
func Extent() float64 {
	return catalogMaxExtent
}
