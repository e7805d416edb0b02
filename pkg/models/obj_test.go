package models

import (
	"strings"
	"testing"
)

func TestLoadSimpleOBJ(t *testing.T) {
	objData := `
# Simple triangle
v 0 0 0
v 1 0 0
v 0.5 1 0
f 1 2 3
`
	mesh, err := NewOBJLoader().Load(strings.NewReader(objData), "triangle")
	if err != nil {
		t.Fatalf("failed to load OBJ: %v", err)
	}
	if mesh.VertexCount() != 3 {
		t.Errorf("expected 3 vertices, got %d", mesh.VertexCount())
	}
	if mesh.TriangleCount() != 1 {
		t.Errorf("expected 1 triangle, got %d", mesh.TriangleCount())
	}
	if n := mesh.FaceNormal(0); n.Z < 0.99 {
		t.Errorf("winding flipped: normal %v", n)
	}
}

func TestLoadCubeOBJ(t *testing.T) {
	mesh := loadCube(t)
	if mesh.Name != "cube" {
		t.Errorf("Name = %q, want cube", mesh.Name)
	}
	if mesh.VertexCount() != 8 {
		t.Errorf("expected 8 vertices, got %d", mesh.VertexCount())
	}
	// 6 quads fanned into 12 triangles
	if mesh.TriangleCount() != 12 {
		t.Errorf("expected 12 triangles, got %d", mesh.TriangleCount())
	}
}

func TestOBJFaceFormats(t *testing.T) {
	tests := []struct {
		name string
		face string
	}{
		{"plain", "f 1 2 3"},
		{"with uv", "f 1/1 2/2 3/3"},
		{"with uv and normal", "f 1/1/1 2/2/1 3/3/1"},
		{"normal only", "f 1//1 2//1 3//1"},
		{"negative", "f -3 -2 -1"},
	}
	for _, tt := range tests {
		data := "v 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0 0\nvt 1 0\nvt 0 1\nvn 0 0 1\n" + tt.face + "\n"
		mesh, err := NewOBJLoader().Load(strings.NewReader(data), tt.name)
		if err != nil {
			t.Errorf("%s: %v", tt.name, err)
			continue
		}
		if mesh.TriangleCount() != 1 {
			t.Errorf("%s: TriangleCount = %d, want 1", tt.name, mesh.TriangleCount())
		}
	}
}

func TestOBJIndexOutOfRange(t *testing.T) {
	_, err := NewOBJLoader().Load(strings.NewReader("v 0 0 0\nf 1 2 3\n"), "bad")
	if err == nil {
		t.Error("expected out of range error")
	}
}
