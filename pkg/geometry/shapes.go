package geometry

import (
	"math"
	"sort"

	"github.com/taigrr/crosscut/pkg/math3d"
	"github.com/taigrr/crosscut/pkg/models"
)

// Tessellation density for curved solids.
const (
	radialSegments = 32
	sphereRings    = 16
	capsuleRings   = 8
	torusSides     = 16
	coneSteps      = 6
)

// profile is a polyline in the (radius, height) half-plane that lathe sweeps
// around the Y axis. Points with radius 0 collapse to a single pole vertex.
type profile struct {
	pts    []math3d.Vec2
	closed bool
}

// lathe sweeps each profile around +Y. Profiles are walked bottom to top on
// the outer side, which yields outward counter-clockwise faces. Each profile
// gets its own vertices so normals stay smooth inside a profile and crease
// between profiles.
func lathe(name string, segments int, sections ...profile) *models.Mesh {
	out := models.NewMesh(name)
	for _, sec := range sections {
		part := models.NewMesh(name)
		rings := make([][]int, len(sec.pts))
		for k, p := range sec.pts {
			ring := make([]int, segments)
			if p.X == 0 {
				pole := part.AddVertex(math3d.V3(0, p.Y, 0), math3d.Vec3{})
				for i := range ring {
					ring[i] = pole
				}
				rings[k] = ring
				continue
			}
			for i := range ring {
				a := 2 * math.Pi * float64(i) / float64(segments)
				ring[i] = part.AddVertex(math3d.V3(p.X*math.Sin(a), p.Y, p.X*math.Cos(a)), math3d.Vec3{})
			}
			rings[k] = ring
		}
		n := len(sec.pts)
		spans := n - 1
		if sec.closed {
			spans = n
		}
		for k := range spans {
			lo, hi := rings[k], rings[(k+1)%n]
			for i := range segments {
				j := (i + 1) % segments
				if lo[i] != lo[j] {
					part.AddFace(lo[i], lo[j], hi[j])
				}
				if hi[i] != hi[j] {
					part.AddFace(lo[i], hi[j], hi[i])
				}
			}
		}
		part.CalculateSmoothNormals()
		out.Append(part)
	}
	out.CalculateBounds()
	return out
}

// line returns steps+1 evenly spaced points from a to b.
func line(a, b math3d.Vec2, steps int) []math3d.Vec2 {
	pts := make([]math3d.Vec2, 0, steps+1)
	for i := range steps + 1 {
		pts = append(pts, a.Lerp(b, float64(i)/float64(steps)))
	}
	return pts
}

// arc returns points on a circle of radius r centred at (0, cy) in the
// profile plane, from angle a0 to a1 (radians, measured from -Y towards +X).
func arc(r, cy, a0, a1 float64, steps int) []math3d.Vec2 {
	pts := make([]math3d.Vec2, 0, steps+1)
	for i := range steps + 1 {
		a := a0 + (a1-a0)*float64(i)/float64(steps)
		x := r * math.Sin(a)
		if math.Abs(x) < 1e-12 {
			x = 0
		}
		pts = append(pts, math3d.V2(x, cy-r*math.Cos(a)))
	}
	return pts
}

func disc(r, y float64, up bool) profile {
	if up {
		return profile{pts: []math3d.Vec2{math3d.V2(r, y), math3d.V2(0, y)}}
	}
	return profile{pts: []math3d.Vec2{math3d.V2(0, y), math3d.V2(r, y)}}
}

func sphereMesh(r float64) *models.Mesh {
	return lathe("sphere", radialSegments, profile{pts: arc(r, 0, 0, math.Pi, sphereRings)})
}

func cylinderMesh(r, h float64) *models.Mesh {
	side := profile{pts: []math3d.Vec2{math3d.V2(r, -h/2), math3d.V2(r, h/2)}}
	return lathe("cylinder", radialSegments, disc(r, -h/2, false), side, disc(r, h/2, true))
}

func coneMesh(r, h float64) *models.Mesh {
	side := profile{pts: line(math3d.V2(r, -h/2), math3d.V2(0, h/2), coneSteps)}
	return lathe("cone", radialSegments, disc(r, -h/2, false), side)
}

func capsuleMesh(r, length float64) *models.Mesh {
	pts := arc(r, -length/2, 0, math.Pi/2, capsuleRings)
	pts = append(pts, arc(r, length/2, math.Pi/2, math.Pi, capsuleRings)...)
	return lathe("capsule", radialSegments, profile{pts: pts})
}

func torusMesh(major, minor float64) *models.Mesh {
	pts := make([]math3d.Vec2, torusSides)
	for i := range pts {
		// Start at the outermost point and walk upwards.
		a := 2 * math.Pi * float64(i) / float64(torusSides)
		pts[i] = math3d.V2(major+minor*math.Cos(a), minor*math.Sin(a))
	}
	return lathe("torus", radialSegments, profile{pts: pts, closed: true})
}

// convexSolid builds the hull of points as flat-shaded polygons. It returns
// the outward face planes as well, which double as the solid's distance
// field. Points must enclose the origin.
func convexSolid(name string, points []math3d.Vec3) (*models.Mesh, []math3d.Plane) {
	const eps = 1e-7
	var planes []math3d.Plane
	n := len(points)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
		next:
			for k := j + 1; k < n; k++ {
				normal := points[j].Sub(points[i]).Cross(points[k].Sub(points[i]))
				if normal.Len() < eps {
					continue
				}
				pl := math3d.PlaneFromPointNormal(points[i], normal)
				above, below := false, false
				for _, p := range points {
					d := pl.SignedDistance(p)
					above = above || d > eps
					below = below || d < -eps
				}
				if above && below {
					continue
				}
				if above {
					pl = math3d.Plane{Normal: pl.Normal.Negate(), D: -pl.D}
				}
				for _, q := range planes {
					if q.Normal.Dot(pl.Normal) > 1-eps && math.Abs(q.D-pl.D) < eps {
						continue next
					}
				}
				planes = append(planes, pl)
			}
		}
	}

	mesh := models.NewMesh(name)
	for _, pl := range planes {
		var face []math3d.Vec3
		var centroid math3d.Vec3
		for _, p := range points {
			if math.Abs(pl.SignedDistance(p)) < eps {
				face = append(face, p)
				centroid = centroid.Add(p)
			}
		}
		centroid = centroid.Scale(1 / float64(len(face)))
		u, v := pl.Basis()
		sort.Slice(face, func(a, b int) bool {
			da, db := face[a].Sub(centroid), face[b].Sub(centroid)
			return math.Atan2(da.Dot(v), da.Dot(u)) < math.Atan2(db.Dot(v), db.Dot(u))
		})
		for i := 1; i+1 < len(face); i++ {
			mesh.AddFlatTriangle(face[0], face[i], face[i+1])
		}
	}
	mesh.CalculateBounds()
	return mesh, planes
}

func scaled(radius float64, pts []math3d.Vec3) []math3d.Vec3 {
	out := make([]math3d.Vec3, len(pts))
	for i, p := range pts {
		out[i] = p.Normalize().Scale(radius)
	}
	return out
}

func boxPoints(half float64) []math3d.Vec3 {
	pts := make([]math3d.Vec3, 0, 8)
	for _, x := range []float64{-half, half} {
		for _, y := range []float64{-half, half} {
			for _, z := range []float64{-half, half} {
				pts = append(pts, math3d.V3(x, y, z))
			}
		}
	}
	return pts
}

// hexPoints returns the hexagon in the XZ plane (vertices on ±X) at y=±h/2.
func hexPoints(r, h float64) []math3d.Vec3 {
	pts := make([]math3d.Vec3, 0, 12)
	for _, y := range []float64{-h / 2, h / 2} {
		for _, c := range hexagon(r) {
			pts = append(pts, math3d.V3(c.X, y, c.Y))
		}
	}
	return pts
}

func hexagon(r float64) []math3d.Vec2 {
	pts := make([]math3d.Vec2, 6)
	for i := range pts {
		a := float64(i) * math.Pi / 3
		pts[i] = math3d.V2(r*math.Cos(a), r*math.Sin(a))
	}
	return pts
}

var phi = (1 + math.Sqrt(5)) / 2

func tetrahedronPoints(radius float64) []math3d.Vec3 {
	return scaled(radius, []math3d.Vec3{
		{X: 1, Y: 1, Z: 1}, {X: 1, Y: -1, Z: -1}, {X: -1, Y: 1, Z: -1}, {X: -1, Y: -1, Z: 1},
	})
}

func octahedronPoints(radius float64) []math3d.Vec3 {
	return scaled(radius, []math3d.Vec3{
		{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1},
	})
}

func dodecahedronPoints(radius float64) []math3d.Vec3 {
	pts := boxPoints(1)
	for _, a := range []float64{-1, 1} {
		for _, b := range []float64{-1, 1} {
			pts = append(pts,
				math3d.V3(0, a/phi, b*phi),
				math3d.V3(a/phi, b*phi, 0),
				math3d.V3(a*phi, 0, b/phi),
			)
		}
	}
	return scaled(radius, pts)
}

func icosahedronPoints(radius float64) []math3d.Vec3 {
	var pts []math3d.Vec3
	for _, a := range []float64{-1, 1} {
		for _, b := range []float64{-1, 1} {
			pts = append(pts,
				math3d.V3(0, a, b*phi),
				math3d.V3(a, b*phi, 0),
				math3d.V3(a*phi, 0, b),
			)
		}
	}
	return scaled(radius, pts)
}
