package models

import (
	"math"
	"strings"
	"testing"

	"github.com/taigrr/crosscut/pkg/math3d"
)

// unitCubeOBJ is a unit cube centered at the origin with outward winding.
const unitCubeOBJ = `
o cube
v -0.5 -0.5 -0.5
v  0.5 -0.5 -0.5
v  0.5  0.5 -0.5
v -0.5  0.5 -0.5
v -0.5 -0.5  0.5
v  0.5 -0.5  0.5
v  0.5  0.5  0.5
v -0.5  0.5  0.5
f 1 4 3 2
f 5 6 7 8
f 1 5 8 4
f 2 3 7 6
f 4 8 7 3
f 1 2 6 5
`

func loadCube(t *testing.T) *Mesh {
	t.Helper()
	mesh, err := NewOBJLoader().Load(strings.NewReader(unitCubeOBJ), "cube")
	if err != nil {
		t.Fatalf("load cube: %v", err)
	}
	return mesh
}

func TestMeshCubeIsClosed(t *testing.T) {
	mesh := loadCube(t)
	if !mesh.IsClosed() {
		t.Error("cube should be closed")
	}
	if v := mesh.SignedVolume(); math.Abs(v-1) > 1e-9 {
		t.Errorf("SignedVolume = %v, want 1", v)
	}
	if a := mesh.SurfaceArea(); math.Abs(a-6) > 1e-9 {
		t.Errorf("SurfaceArea = %v, want 6", a)
	}
}

func TestMeshOpenAfterFaceRemoval(t *testing.T) {
	mesh := loadCube(t)
	mesh.Faces = mesh.Faces[1:]
	if mesh.IsClosed() {
		t.Error("cube with a missing triangle should not be closed")
	}
}

func TestMeshInvertedWindingIsNotOutward(t *testing.T) {
	mesh := loadCube(t)
	for i := range mesh.Faces {
		f := &mesh.Faces[i]
		f.V[1], f.V[2] = f.V[2], f.V[1]
	}
	if v := mesh.SignedVolume(); v >= 0 {
		t.Errorf("inverted cube SignedVolume = %v, want negative", v)
	}
}

func TestMeshWelded(t *testing.T) {
	soup := NewMesh("soup")
	a, b, c, d := math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(1, 1, 0), math3d.V3(0, 1, 0)
	soup.AddFlatTriangle(a, b, c)
	soup.AddFlatTriangle(a, c, d)
	if soup.VertexCount() != 6 {
		t.Fatalf("VertexCount = %d, want 6", soup.VertexCount())
	}
	welded := soup.Welded()
	if welded.VertexCount() != 4 {
		t.Errorf("welded VertexCount = %d, want 4", welded.VertexCount())
	}
	if welded.TriangleCount() != 2 {
		t.Errorf("welded TriangleCount = %d, want 2", welded.TriangleCount())
	}
}

func TestMeshFitToRadius(t *testing.T) {
	mesh := loadCube(t)
	mesh.Transform(math3d.Translate(math3d.V3(10, 0, 0)))
	mesh.FitToRadius(2)
	if c := mesh.Center(); !c.ApproxEqual(math3d.Vec3{}, 1e-9) {
		t.Errorf("Center = %v, want origin", c)
	}
	if r := mesh.BoundingRadius(); math.Abs(r-2) > 1e-9 {
		t.Errorf("BoundingRadius = %v, want 2", r)
	}
}

func TestMeshRelease(t *testing.T) {
	mesh := loadCube(t)
	clone := mesh.Clone()
	mesh.Release()
	if mesh.VertexCount() != 0 || mesh.TriangleCount() != 0 {
		t.Errorf("released mesh still has %d vertices, %d faces", mesh.VertexCount(), mesh.TriangleCount())
	}
	if clone.TriangleCount() != 12 {
		t.Errorf("clone TriangleCount = %d, want 12", clone.TriangleCount())
	}
}

func TestRemoveDegenerateFaces(t *testing.T) {
	mesh := NewMesh("degenerate")
	a := mesh.AddVertex(math3d.V3(0, 0, 0), math3d.Vec3{})
	b := mesh.AddVertex(math3d.V3(1, 0, 0), math3d.Vec3{})
	c := mesh.AddVertex(math3d.V3(2, 0, 0), math3d.Vec3{})
	d := mesh.AddVertex(math3d.V3(0, 1, 0), math3d.Vec3{})
	mesh.AddFace(a, b, c) // collinear
	mesh.AddFace(a, a, b) // repeated index
	mesh.AddFace(a, b, d)
	if removed := mesh.RemoveDegenerateFaces(); removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	mesh.RemoveUnreferencedVertices()
	if mesh.VertexCount() != 3 {
		t.Errorf("VertexCount = %d, want 3", mesh.VertexCount())
	}
}
