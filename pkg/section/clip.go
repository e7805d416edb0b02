package section

import (
	"fmt"

	"github.com/taigrr/crosscut/pkg/math3d"
	"github.com/taigrr/crosscut/pkg/models"
)

type clipVert struct {
	pos, normal math3d.Vec3
	d           float64
}

// ClipMesh returns the part of mesh on the non-negative side of plane.
// Triangles crossing the plane are split; winding is preserved.
func ClipMesh(mesh *models.Mesh, plane math3d.Plane) *models.Mesh {
	plane.Normalize()
	out := models.NewMesh(mesh.Name)
	for _, f := range mesh.Faces {
		var vs [3]clipVert
		inside := 0
		for k := range 3 {
			pos, n := mesh.GetVertex(f.V[k])
			vs[k] = clipVert{pos: pos, normal: n, d: plane.SignedDistance(pos)}
			if vs[k].d >= 0 {
				inside++
			}
		}
		switch inside {
		case 0:
			continue
		case 3:
			addTri(out, vs[0], vs[1], vs[2])
			continue
		}

		// Sutherland-Hodgman against one plane yields a triangle or a quad.
		var poly []clipVert
		for k := range 3 {
			a, b := vs[k], vs[(k+1)%3]
			if a.d >= 0 {
				poly = append(poly, a)
			}
			if (a.d >= 0) != (b.d >= 0) {
				poly = append(poly, clipVert{
					pos:    edgePoint(a.pos, b.pos, a.d, b.d),
					normal: a.normal.Lerp(b.normal, a.d/(a.d-b.d)).Normalize(),
				})
			}
		}
		for k := 1; k+1 < len(poly); k++ {
			addTri(out, poly[0], poly[k], poly[k+1])
		}
	}
	out.RemoveDegenerateFaces()
	out.RemoveUnreferencedVertices()
	out.CalculateBounds()
	return out
}

func addTri(m *models.Mesh, a, b, c clipVert) {
	ia := m.AddVertex(a.pos, a.normal)
	ib := m.AddVertex(b.pos, b.normal)
	ic := m.AddVertex(c.pos, c.normal)
	m.AddFace(ia, ib, ic)
}

// CapMesh triangulates the closed contours of s into a flat mesh facing
// against the plane normal, which is outward for the clipped solid.
func CapMesh(s *Section) *models.Mesh {
	m := models.NewMesh("cap")
	for _, t := range triangulateContours(s.Plane, s.Contours) {
		m.AddFlatTriangle(t[0], t[2], t[1])
	}
	m.CalculateBounds()
	return m
}

// CutSolid clips mesh by plane and closes the cut with its cap. The result
// is watertight when mesh is.
func CutSolid(mesh *models.Mesh, plane math3d.Plane) (*models.Mesh, *Section, error) {
	sec, err := Slice(mesh, plane)
	if err != nil {
		return nil, nil, fmt.Errorf("cut %s: %w", mesh.Name, err)
	}
	out := ClipMesh(mesh, plane)
	out.Append(CapMesh(sec))
	out.Name = mesh.Name + "-cut"
	return out, sec, nil
}
