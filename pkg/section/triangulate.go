package section

import (
	"math"
	"sort"

	"fortio.org/log"

	"github.com/taigrr/crosscut/pkg/math3d"
)

// polygon is a contour projected onto the plane basis.
type polygon struct {
	pts3 []math3d.Vec3
	pts  []math3d.Vec2
	area float64
}

func project(plane math3d.Plane, c Contour) polygon {
	u, v := plane.Basis()
	pg := polygon{pts3: c.Points, pts: make([]math3d.Vec2, len(c.Points))}
	for i, p := range c.Points {
		pg.pts[i] = math3d.V2(p.Dot(u), p.Dot(v))
	}
	for i, p := range pg.pts {
		pg.area += p.Cross(pg.pts[(i+1)%len(pg.pts)])
	}
	pg.area /= 2
	return pg
}

func (pg polygon) contains(q math3d.Vec2) bool {
	in := false
	n := len(pg.pts)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := pg.pts[i], pg.pts[j]
		if (a.Y > q.Y) != (b.Y > q.Y) && q.X < (b.X-a.X)*(q.Y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
	}
	return in
}

// triangulateContours fills the closed contours of a section. Clockwise
// contours are holes of the smallest outer contour containing them. The
// triangles wind counter-clockwise around the plane normal.
func triangulateContours(plane math3d.Plane, contours []Contour) [][3]math3d.Vec3 {
	var outers, holes []polygon
	for _, c := range contours {
		if !c.Closed || len(c.Points) < 3 {
			log.Warnf("cap: skipping open contour with %d points", len(c.Points))
			continue
		}
		pg := project(plane, c)
		switch {
		case pg.area > 0:
			outers = append(outers, pg)
		case pg.area < 0:
			holes = append(holes, pg)
		}
	}
	sort.Slice(outers, func(i, j int) bool { return outers[i].area < outers[j].area })

	owned := make([][]polygon, len(outers))
	for _, h := range holes {
		for i, o := range outers {
			if o.contains(h.pts[0]) {
				owned[i] = append(owned[i], h)
				break
			}
		}
	}

	var tris [][3]math3d.Vec3
	for i, o := range outers {
		merged := o
		if len(owned[i]) > 0 {
			merged = bridgeHoles(o, owned[i])
		}
		for _, t := range earClip(merged.pts) {
			tris = append(tris, [3]math3d.Vec3{merged.pts3[t[0]], merged.pts3[t[1]], merged.pts3[t[2]]})
		}
	}
	return tris
}

// bridgeHoles splices each hole into the outer polygon through a bridge
// edge from the hole's rightmost vertex, rightmost holes first.
func bridgeHoles(outer polygon, holes []polygon) polygon {
	sort.Slice(holes, func(i, j int) bool { return maxX(holes[i]) > maxX(holes[j]) })
	merged := outer
	for _, h := range holes {
		hi := 0
		for i, p := range h.pts {
			if p.X > h.pts[hi].X {
				hi = i
			}
		}
		oi := visibleVertex(merged, holes, h.pts[hi])
		if oi < 0 {
			continue
		}
		var pts []math3d.Vec2
		var pts3 []math3d.Vec3
		pts = append(pts, merged.pts[:oi+1]...)
		pts3 = append(pts3, merged.pts3[:oi+1]...)
		for k := range len(h.pts) + 1 {
			j := (hi + k) % len(h.pts)
			pts = append(pts, h.pts[j])
			pts3 = append(pts3, h.pts3[j])
		}
		pts = append(pts, merged.pts[oi:]...)
		pts3 = append(pts3, merged.pts3[oi:]...)
		merged = polygon{pts: pts, pts3: pts3, area: merged.area + h.area}
	}
	return merged
}

func maxX(pg polygon) float64 {
	m := math.Inf(-1)
	for _, p := range pg.pts {
		m = math.Max(m, p.X)
	}
	return m
}

// visibleVertex returns the vertex of pg nearest to q whose connecting
// segment crosses no edge of pg or of the holes.
func visibleVertex(pg polygon, holes []polygon, q math3d.Vec2) int {
	best, bestD := -1, math.Inf(1)
	for i, p := range pg.pts {
		d := p.Distance(q)
		if d >= bestD {
			continue
		}
		if crossesAny(pg.pts, p, q) {
			continue
		}
		blocked := false
		for _, h := range holes {
			if crossesAny(h.pts, p, q) {
				blocked = true
				break
			}
		}
		if !blocked {
			best, bestD = i, d
		}
	}
	return best
}

func crossesAny(ring []math3d.Vec2, a, b math3d.Vec2) bool {
	for i := range ring {
		c, d := ring[i], ring[(i+1)%len(ring)]
		if properIntersect(a, b, c, d) {
			return true
		}
	}
	return false
}

// properIntersect reports whether segments ab and cd cross at a point
// interior to both.
func properIntersect(a, b, c, d math3d.Vec2) bool {
	d1 := b.Sub(a).Cross(c.Sub(a))
	d2 := b.Sub(a).Cross(d.Sub(a))
	d3 := d.Sub(c).Cross(a.Sub(c))
	d4 := d.Sub(c).Cross(b.Sub(c))
	return d1*d2 < 0 && d3*d4 < 0
}

// earClip triangulates a counter-clockwise simple polygon. When no ear can
// be found the remainder is fanned.
func earClip(pts []math3d.Vec2) [][3]int {
	n := len(pts)
	if n < 3 {
		return nil
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	var tris [][3]int
	for len(idx) > 3 {
		found := false
		for i := range idx {
			m := len(idx)
			prev, cur, next := idx[(i-1+m)%m], idx[i], idx[(i+1)%m]
			if !isEar(pts, idx, prev, cur, next) {
				continue
			}
			tris = append(tris, [3]int{prev, cur, next})
			idx = append(idx[:i], idx[i+1:]...)
			found = true
			break
		}
		if !found {
			for i := 1; i+1 < len(idx); i++ {
				tris = append(tris, [3]int{idx[0], idx[i], idx[i+1]})
			}
			return tris
		}
	}
	return append(tris, [3]int{idx[0], idx[1], idx[2]})
}

func isEar(pts []math3d.Vec2, idx []int, prev, cur, next int) bool {
	a, b, c := pts[prev], pts[cur], pts[next]
	if b.Sub(a).Cross(c.Sub(a)) <= 1e-15 {
		return false
	}
	for _, k := range idx {
		if k == prev || k == cur || k == next {
			continue
		}
		p := pts[k]
		// Bridge edges duplicate vertices; a copy of a corner is not inside.
		if p == a || p == b || p == c {
			continue
		}
		if pointInTriangle(p, a, b, c) {
			return false
		}
	}
	return true
}

func pointInTriangle(p, a, b, c math3d.Vec2) bool {
	d1 := b.Sub(a).Cross(p.Sub(a))
	d2 := c.Sub(b).Cross(p.Sub(b))
	d3 := a.Sub(c).Cross(p.Sub(c))
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}
