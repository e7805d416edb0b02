package section

import (
	"errors"
	"math"

	"fortio.org/log"

	"github.com/taigrr/crosscut/pkg/math3d"
	"github.com/taigrr/crosscut/pkg/models"
)

// ErrEmptySection is returned when the plane misses the solid.
var ErrEmptySection = errors.New("plane does not intersect the solid")

// Contour is one closed loop of the cross-section. Outer boundaries wind
// counter-clockwise around the plane normal, holes clockwise.
type Contour struct {
	Points []math3d.Vec3
	Closed bool
}

// SignedArea is the area enclosed by the contour, positive for outer
// boundaries. Open contours have no area.
func (c Contour) SignedArea(normal math3d.Vec3) float64 {
	if !c.Closed || len(c.Points) < 3 {
		return 0
	}
	var sum math3d.Vec3
	for i, p := range c.Points {
		sum = sum.Add(p.Cross(c.Points[(i+1)%len(c.Points)]))
	}
	return 0.5 * sum.Dot(normal)
}

// Length is the contour's perimeter.
func (c Contour) Length() float64 {
	n := len(c.Points)
	if n < 2 {
		return 0
	}
	l := 0.0
	for i := 0; i+1 < n; i++ {
		l += c.Points[i].Distance(c.Points[i+1])
	}
	if c.Closed {
		l += c.Points[n-1].Distance(c.Points[0])
	}
	return l
}

// Section is the intersection of a plane with a closed mesh.
type Section struct {
	Plane     math3d.Plane
	Contours  []Contour
	Area      float64
	Perimeter float64
}

// Open counts the contours that did not close. A mesh with holes in its
// surface leaves open contours, which have no area and get no cap.
func (s *Section) Open() int {
	n := 0
	for _, c := range s.Contours {
		if !c.Closed {
			n++
		}
	}
	return n
}

// Centroid returns the area-weighted centre of the section.
func (s *Section) Centroid() math3d.Vec3 {
	var sum math3d.Vec3
	total := 0.0
	for _, c := range s.Contours {
		for _, tri := range triangulateContours(s.Plane, []Contour{c}) {
			a := tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0])).Dot(s.Plane.Normal) / 2
			sum = sum.Add(tri[0].Add(tri[1]).Add(tri[2]).Scale(a / 3))
			total += a
		}
	}
	if total == 0 {
		return s.Plane.ClosestPointToOrigin()
	}
	return sum.Scale(1 / total)
}

// segment is one triangle's piece of the cut, oriented so the solid's
// interior lies to its left when seen from the normal side.
type segment struct {
	a, b     math3d.Vec3
	ka, kb   pointKey
	consumed bool
}

type pointKey struct {
	X, Y, Z int64
}

const keyPrecision = 1e6

func keyOf(p math3d.Vec3) pointKey {
	return pointKey{
		X: int64(math.Round(p.X * keyPrecision)),
		Y: int64(math.Round(p.Y * keyPrecision)),
		Z: int64(math.Round(p.Z * keyPrecision)),
	}
}

// edgePoint returns where the plane crosses segment pq given the signed
// distances dp and dq. The result does not depend on the argument order,
// so triangles sharing an edge agree on the point.
func edgePoint(p, q math3d.Vec3, dp, dq float64) math3d.Vec3 {
	if less(q, p) {
		p, q, dp, dq = q, p, dq, dp
	}
	return p.Lerp(q, dp/(dp-dq))
}

func less(a, b math3d.Vec3) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.Z < b.Z
}

// Slice intersects mesh with plane. Vertices on the plane count as being on
// its non-negative side.
func Slice(mesh *models.Mesh, plane math3d.Plane) (*Section, error) {
	plane.Normalize()
	var segs []segment
	for i := range mesh.TriangleCount() {
		var p [3]math3d.Vec3
		var d [3]float64
		p[0], p[1], p[2] = mesh.Triangle(i)
		for k := range 3 {
			d[k] = plane.SignedDistance(p[k])
		}
		var hits []math3d.Vec3
		for k := range 3 {
			j := (k + 1) % 3
			if (d[k] >= 0) != (d[j] >= 0) {
				hits = append(hits, edgePoint(p[k], p[j], d[k], d[j]))
			}
		}
		if len(hits) != 2 || hits[0].Distance(hits[1]) < 1e-12 {
			continue
		}
		a, b := hits[0], hits[1]
		faceNormal := p[1].Sub(p[0]).Cross(p[2].Sub(p[0]))
		if b.Sub(a).Dot(plane.Normal.Cross(faceNormal)) < 0 {
			a, b = b, a
		}
		segs = append(segs, segment{a: a, b: b, ka: keyOf(a), kb: keyOf(b)})
	}
	if len(segs) == 0 {
		return nil, ErrEmptySection
	}

	s := &Section{Plane: plane, Contours: chain(segs)}
	for _, c := range s.Contours {
		s.Area += c.SignedArea(plane.Normal)
		s.Perimeter += c.Length()
	}
	if open := s.Open(); open > 0 {
		log.LogVf("slice: %d of %d contours are open, mesh is not watertight", open, len(s.Contours))
	}
	return s, nil
}

// chain joins oriented segments head to tail into contours.
func chain(segs []segment) []Contour {
	starts := make(map[pointKey][]int, len(segs))
	for i, sg := range segs {
		starts[sg.ka] = append(starts[sg.ka], i)
	}
	next := func(k pointKey) int {
		for _, i := range starts[k] {
			if !segs[i].consumed {
				return i
			}
		}
		return -1
	}

	var contours []Contour
	for i := range segs {
		if segs[i].consumed {
			continue
		}
		segs[i].consumed = true
		first := segs[i].ka
		pts := []math3d.Vec3{segs[i].a}
		cur := segs[i]
		closed := false
		for {
			if cur.kb == first {
				closed = true
				break
			}
			pts = append(pts, cur.b)
			j := next(cur.kb)
			if j < 0 {
				break
			}
			segs[j].consumed = true
			cur = segs[j]
		}
		contours = append(contours, Contour{Points: pts, Closed: closed})
	}
	return contours
}
