package geometry

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/taigrr/crosscut/pkg/math3d"
	"github.com/taigrr/crosscut/pkg/models"
)

// sdfx builds round solids along Z; the catalog stands them on Y.
var zToY = sdf.RotateX(-math.Pi / 2)

// SDF returns the signed-distance twin of k. Distances are negative inside.
func SDF(k Kind) (sdf.SDF3, error) {
	var (
		s   sdf.SDF3
		err error
	)
	switch k {
	case Sphere:
		s, err = sdf.Sphere3D(SphereRadius)
	case Cylinder:
		s, err = sdf.Cylinder3D(CylinderHeight, CylinderRadius, 0)
		s = upright(s, err)
	case Cone:
		s, err = sdf.Cone3D(ConeHeight, ConeRadius, 0, 0)
		s = upright(s, err)
	case Torus:
		s, err = torusSDF()
	case Capsule:
		// A cylinder rounded by its full radius is a capsule.
		s, err = sdf.Cylinder3D(CapsuleLength+2*CapsuleRadius, CapsuleRadius, CapsuleRadius)
		s = upright(s, err)
	case HexPrism:
		s, err = hexPrismSDF()
	case Tetrahedron, Octahedron, Dodecahedron, Icosahedron:
		pts := convexPoints(k)
		_, planes := convexSolid(k.String(), pts)
		s = newConvexSDF(planes, pts)
	default:
		s, err = sdf.Box3D(v3.Vec{X: BoxEdge, Y: BoxEdge, Z: BoxEdge}, 0)
	}
	if err != nil {
		return nil, fmt.Errorf("sdf %s: %w", k, err)
	}
	return s, nil
}

func upright(s sdf.SDF3, err error) sdf.SDF3 {
	if err != nil {
		return nil
	}
	return sdf.Transform3D(s, zToY)
}

func torusSDF() (sdf.SDF3, error) {
	c, err := sdf.Circle2D(TorusMinor)
	if err != nil {
		return nil, err
	}
	c = sdf.Transform2D(c, sdf.Translate2d(v2.Vec{X: TorusMajor, Y: 0}))
	s, err := sdf.Revolve3D(c)
	if err != nil {
		return nil, err
	}
	return sdf.Transform3D(s, zToY), nil
}

func hexPrismSDF() (sdf.SDF3, error) {
	hex := hexagon(HexRadius)
	pts := make([]v2.Vec, len(hex))
	for i, p := range hex {
		pts[i] = v2.Vec{X: p.X, Y: p.Y}
	}
	poly, err := sdf.Polygon2D(pts)
	if err != nil {
		return nil, err
	}
	return sdf.Transform3D(sdf.Extrude3D(poly, HexHeight), zToY), nil
}

// convexSDF is the intersection of half-spaces. Inside it is exact; outside
// it underestimates near edges, which is all area sampling needs.
type convexSDF struct {
	planes []math3d.Plane
	bb     sdf.Box3
}

func newConvexSDF(planes []math3d.Plane, points []math3d.Vec3) *convexSDF {
	r := 0.0
	for _, p := range points {
		r = math.Max(r, p.Len())
	}
	return &convexSDF{
		planes: planes,
		bb:     sdf.Box3{Min: v3.Vec{X: -r, Y: -r, Z: -r}, Max: v3.Vec{X: r, Y: r, Z: r}},
	}
}

// Evaluate returns the largest signed plane distance.
func (c *convexSDF) Evaluate(p v3.Vec) float64 {
	d := math.Inf(-1)
	q := math3d.V3(p.X, p.Y, p.Z)
	for _, pl := range c.planes {
		d = math.Max(d, pl.SignedDistance(q))
	}
	return d
}

// BoundingBox returns a box enclosing the solid.
func (c *convexSDF) BoundingBox() sdf.Box3 {
	return c.bb
}

// EstimateArea samples a res x res grid of side 2*extent on the plane,
// centred on the plane point nearest the origin, and returns the area of the
// samples that fall inside s.
func EstimateArea(s sdf.SDF3, plane math3d.Plane, extent float64, res int) float64 {
	if res <= 0 || extent <= 0 {
		return 0
	}
	plane.Normalize()
	origin := plane.ClosestPointToOrigin()
	u, v := plane.Basis()
	cell := 2 * extent / float64(res)
	inside := 0
	for i := range res {
		a := -extent + (float64(i)+0.5)*cell
		for j := range res {
			b := -extent + (float64(j)+0.5)*cell
			p := origin.Add(u.Scale(a)).Add(v.Scale(b))
			if s.Evaluate(v3.Vec{X: p.X, Y: p.Y, Z: p.Z}) < 0 {
				inside++
			}
		}
	}
	return float64(inside) * cell * cell
}

// Tessellate meshes the distance field of k with uniform marching cubes.
// It is an alternative to the procedural mesh, denser and without creases.
func Tessellate(k Kind, cells int) (*models.Mesh, error) {
	s, err := SDF(k)
	if err != nil {
		return nil, err
	}
	tris := render.ToTriangles(s, render.NewMarchingCubesUniform(cells))
	m := models.NewMesh(k.String() + "-sdf")
	for _, tri := range tris {
		a := math3d.V3(tri[0].X, tri[0].Y, tri[0].Z)
		b := math3d.V3(tri[1].X, tri[1].Y, tri[1].Z)
		c := math3d.V3(tri[2].X, tri[2].Y, tri[2].Z)
		m.AddFlatTriangle(a, b, c)
	}
	if len(m.Faces) == 0 {
		return nil, fmt.Errorf("tessellate %s: no triangles", k)
	}
	w := m.Welded()
	w.Name = m.Name
	return w, nil
}
