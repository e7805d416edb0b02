// Package models provides the triangle mesh shared by the geometry catalog,
// the cross-section renderer and the file importers/exporters.
package models

import (
	"math"

	"github.com/taigrr/crosscut/pkg/math3d"
)

// Mesh is an indexed triangle mesh. Faces wind counter-clockwise when seen
// from outside the solid.
type Mesh struct {
	Name     string
	Vertices []MeshVertex
	Faces    []Face

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// MeshVertex holds all vertex attributes.
type MeshVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
}

// Face represents a triangle face with vertex indices.
type Face struct {
	V [3]int // Indices into Mesh.Vertices
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]MeshVertex, 0),
		Faces:    make([]Face, 0),
	}
}

// AddVertex appends a vertex and returns its index.
func (m *Mesh) AddVertex(pos, normal math3d.Vec3) int {
	m.Vertices = append(m.Vertices, MeshVertex{Position: pos, Normal: normal})
	return len(m.Vertices) - 1
}

// AddFace appends a triangle.
func (m *Mesh) AddFace(a, b, c int) {
	m.Faces = append(m.Faces, Face{V: [3]int{a, b, c}})
}

// AddFlatTriangle appends three fresh vertices carrying the face normal, so the
// triangle shades flat regardless of its neighbours.
func (m *Mesh) AddFlatTriangle(p0, p1, p2 math3d.Vec3) {
	n := p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
	a := m.AddVertex(p0, n)
	b := m.AddVertex(p1, n)
	c := m.AddVertex(p2, n)
	m.AddFace(a, b, c)
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		m.BoundsMin, m.BoundsMax = math3d.Vec3{}, math3d.Vec3{}
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// BoundingRadius returns the largest distance from the origin to any vertex.
func (m *Mesh) BoundingRadius() float64 {
	r := 0.0
	for _, v := range m.Vertices {
		r = math.Max(r, v.Position.Len())
	}
	return r
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// Triangle returns the three corner positions of face i.
func (m *Mesh) Triangle(i int) (a, b, c math3d.Vec3) {
	f := m.Faces[i].V
	return m.Vertices[f[0]].Position, m.Vertices[f[1]].Position, m.Vertices[f[2]].Position
}

// FaceNormal returns the unit normal of face i from its winding.
func (m *Mesh) FaceNormal(i int) math3d.Vec3 {
	a, b, c := m.Triangle(i)
	return b.Sub(a).Cross(c.Sub(a)).Normalize()
}

// CalculateSmoothNormals computes area-weighted averaged normals for smooth shading.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Zero3()
	}

	for _, f := range m.Faces {
		v0 := m.Vertices[f.V[0]].Position
		v1 := m.Vertices[f.V[1]].Position
		v2 := m.Vertices[f.V[2]].Position
		normal := v1.Sub(v0).Cross(v2.Sub(v0)) // Don't normalize yet

		for _, idx := range f.V {
			m.Vertices[idx].Normal = m.Vertices[idx].Normal.Add(normal)
		}
	}

	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

// Transform applies a transformation matrix to all vertices.
func (m *Mesh) Transform(mat math3d.Mat4) {
	normalMat := mat.Inverse().Transpose()
	for i := range m.Vertices {
		m.Vertices[i].Position = mat.MulVec3(m.Vertices[i].Position)
		m.Vertices[i].Normal = normalMat.MulVec3Dir(m.Vertices[i].Normal).Normalize()
	}
	m.CalculateBounds()
}

// FitToRadius centers the mesh on its bounding-box center and scales it so
// the farthest vertex sits at radius. Used for imported models.
func (m *Mesh) FitToRadius(radius float64) {
	m.CalculateBounds()
	m.Transform(math3d.Translate(m.Center().Negate()))
	if r := m.BoundingRadius(); r > 0 {
		s := radius / r
		m.Transform(math3d.Scale(math3d.V3(s, s, s)))
	}
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  make([]MeshVertex, len(m.Vertices)),
		Faces:     make([]Face, len(m.Faces)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Faces, m.Faces)
	return clone
}

// Append adds all of other's vertices and faces to m.
func (m *Mesh) Append(other *Mesh) {
	base := len(m.Vertices)
	m.Vertices = append(m.Vertices, other.Vertices...)
	for _, f := range other.Faces {
		m.AddFace(f.V[0]+base, f.V[1]+base, f.V[2]+base)
	}
	m.CalculateBounds()
}

// Release drops the vertex and face buffers. A released mesh is empty.
func (m *Mesh) Release() {
	m.Vertices = nil
	m.Faces = nil
}

// GetVertex returns the position and normal for vertex i.
// Implements render.MeshRenderer interface.
func (m *Mesh) GetVertex(i int) (pos, normal math3d.Vec3) {
	v := m.Vertices[i]
	return v.Position, v.Normal
}

// GetFace returns the vertex indices for face i.
// Implements render.MeshRenderer interface.
func (m *Mesh) GetFace(i int) [3]int {
	return m.Faces[i].V
}

// GetBounds returns the axis-aligned bounding box.
// Implements render.BoundedMeshRenderer interface.
func (m *Mesh) GetBounds() (min, max math3d.Vec3) {
	return m.BoundsMin, m.BoundsMax
}

// SignedVolume returns the enclosed volume by the divergence theorem. It is
// positive for a closed mesh with outward winding and negative when inverted.
func (m *Mesh) SignedVolume() float64 {
	vol := 0.0
	for i := range m.Faces {
		a, b, c := m.Triangle(i)
		vol += a.Dot(b.Cross(c))
	}
	return vol / 6
}

// SurfaceArea returns the total triangle area.
func (m *Mesh) SurfaceArea() float64 {
	area := 0.0
	for i := range m.Faces {
		a, b, c := m.Triangle(i)
		area += b.Sub(a).Cross(c.Sub(a)).Len() * 0.5
	}
	return area
}

// vertexKey quantizes a position so nearly coincident vertices compare equal.
type vertexKey struct {
	X, Y, Z int64
}

const weldPrecision = 1e5

func quantize(p math3d.Vec3) vertexKey {
	return vertexKey{
		X: int64(math.Round(p.X * weldPrecision)),
		Y: int64(math.Round(p.Y * weldPrecision)),
		Z: int64(math.Round(p.Z * weldPrecision)),
	}
}

// Welded returns a copy of the mesh in which vertices at the same position
// (to 1e-5) are merged. Normals are recomputed smooth. Welded meshes expose
// shared edges, which closure checks and slicing rely on.
func (m *Mesh) Welded() *Mesh {
	out := NewMesh(m.Name)
	index := make(map[vertexKey]int, len(m.Vertices))
	remap := make([]int, len(m.Vertices))
	for i, v := range m.Vertices {
		key := quantize(v.Position)
		if idx, ok := index[key]; ok {
			remap[i] = idx
			continue
		}
		idx := out.AddVertex(v.Position, v.Normal)
		index[key] = idx
		remap[i] = idx
	}
	for _, f := range m.Faces {
		out.AddFace(remap[f.V[0]], remap[f.V[1]], remap[f.V[2]])
	}
	out.RemoveDegenerateFaces()
	out.CalculateSmoothNormals()
	out.CalculateBounds()
	return out
}

// IsClosed reports whether every directed edge of the welded mesh is matched
// by exactly one opposite edge, i.e. the surface is watertight and
// consistently wound.
func (m *Mesh) IsClosed() bool {
	w := m.Welded()
	if len(w.Faces) == 0 {
		return false
	}
	edges := make(map[[2]int]int, len(w.Faces)*3)
	for _, f := range w.Faces {
		for k := range 3 {
			edges[[2]int{f.V[k], f.V[(k+1)%3]}]++
		}
	}
	for e, n := range edges {
		if n != 1 || edges[[2]int{e[1], e[0]}] != 1 {
			return false
		}
	}
	return true
}

// RemoveDegenerateFaces removes faces with zero or near-zero area.
// Returns the number of faces removed.
func (m *Mesh) RemoveDegenerateFaces() int {
	if len(m.Faces) == 0 {
		return 0
	}

	const minArea = 1e-12
	kept := make([]Face, 0, len(m.Faces))

	for _, f := range m.Faces {
		if f.V[0] == f.V[1] || f.V[1] == f.V[2] || f.V[0] == f.V[2] {
			continue
		}

		v0 := m.Vertices[f.V[0]].Position
		v1 := m.Vertices[f.V[1]].Position
		v2 := m.Vertices[f.V[2]].Position
		area := v1.Sub(v0).Cross(v2.Sub(v0)).Len() * 0.5

		if area > minArea {
			kept = append(kept, f)
		}
	}

	removed := len(m.Faces) - len(kept)
	m.Faces = kept
	return removed
}

// RemoveUnreferencedVertices removes vertices that are not referenced by any face.
// This compacts the vertex array and updates face indices accordingly.
func (m *Mesh) RemoveUnreferencedVertices() {
	if len(m.Faces) == 0 || len(m.Vertices) == 0 {
		return
	}

	referenced := make([]bool, len(m.Vertices))
	for _, f := range m.Faces {
		referenced[f.V[0]] = true
		referenced[f.V[1]] = true
		referenced[f.V[2]] = true
	}

	newIndex := make([]int, len(m.Vertices))
	newVertices := make([]MeshVertex, 0, len(m.Vertices))
	for i, v := range m.Vertices {
		if referenced[i] {
			newIndex[i] = len(newVertices)
			newVertices = append(newVertices, v)
		}
	}

	for i := range m.Faces {
		m.Faces[i].V[0] = newIndex[m.Faces[i].V[0]]
		m.Faces[i].V[1] = newIndex[m.Faces[i].V[1]]
		m.Faces[i].V[2] = newIndex[m.Faces[i].V[2]]
	}

	m.Vertices = newVertices
}
