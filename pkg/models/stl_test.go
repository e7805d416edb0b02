package models

import (
	"bytes"
	"encoding/binary"
	"math"
	"path/filepath"
	"testing"
)

func TestSTLLoaderASCII(t *testing.T) {
	asciiSTL := `solid square
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 1 1 0
    endloop
  endfacet
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 1 0
      vertex 0 1 0
    endloop
  endfacet
endsolid square`

	mesh, err := NewSTLLoader().Load(bytes.NewReader([]byte(asciiSTL)), "test.stl")
	if err != nil {
		t.Fatalf("Failed to load ASCII STL: %v", err)
	}
	if mesh.Name != "square" {
		t.Errorf("Name = %q, want %q", mesh.Name, "square")
	}
	if mesh.TriangleCount() != 2 {
		t.Errorf("TriangleCount = %d, want 2", mesh.TriangleCount())
	}
	if mesh.VertexCount() != 4 {
		t.Errorf("VertexCount = %d, want 4 (welded)", mesh.VertexCount())
	}
	// Winding is preserved: the facet faces +Z.
	if n := mesh.FaceNormal(0); n.Z < 0.99 {
		t.Errorf("FaceNormal = %v, want +Z", n)
	}
}

func TestSTLLoaderNoWeld(t *testing.T) {
	asciiSTL := `solid tri
facet normal 0 0 1
outer loop
vertex 0 0 0
vertex 1 0 0
vertex 0 1 0
endloop
endfacet
endsolid tri`
	loader := &STLLoader{}
	mesh, err := loader.LoadBytes([]byte(asciiSTL), "tri")
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	if mesh.VertexCount() != 3 {
		t.Errorf("VertexCount = %d, want 3", mesh.VertexCount())
	}
}

func TestSTLVertexOutsideLoop(t *testing.T) {
	_, err := NewSTLLoader().LoadBytes([]byte("solid x\nvertex 0 0 0\nendsolid x\n"), "bad")
	if err == nil {
		t.Error("expected error for vertex outside facet")
	}
}

func TestSTLBinaryRoundTrip(t *testing.T) {
	cube := loadCube(t)

	var buf bytes.Buffer
	if err := WriteSTL(&buf, cube); err != nil {
		t.Fatalf("WriteSTL: %v", err)
	}
	if want := 84 + 50*cube.TriangleCount(); buf.Len() != want {
		t.Fatalf("binary size = %d, want %d", buf.Len(), want)
	}
	if !isBinarySTL(buf.Bytes()) {
		t.Fatal("written data not detected as binary")
	}

	mesh, err := NewSTLLoader().LoadBytes(buf.Bytes(), "cube.stl")
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	if mesh.TriangleCount() != 12 {
		t.Errorf("TriangleCount = %d, want 12", mesh.TriangleCount())
	}
	if mesh.VertexCount() != 8 {
		t.Errorf("VertexCount = %d, want 8", mesh.VertexCount())
	}
	if v := mesh.SignedVolume(); math.Abs(v-1) > 1e-6 {
		t.Errorf("SignedVolume = %v, want 1", v)
	}
}

func TestSTLBinaryHeaderStartingWithSolid(t *testing.T) {
	var buf bytes.Buffer
	header := make([]byte, 80)
	copy(header, "solid but actually binary")
	buf.Write(header)
	binary.Write(&buf, binary.LittleEndian, uint32(1))
	for _, f := range []float32{0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0} {
		binary.Write(&buf, binary.LittleEndian, f)
	}
	binary.Write(&buf, binary.LittleEndian, uint16(0))

	mesh, err := NewSTLLoader().LoadBytes(buf.Bytes(), "tricky")
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	if mesh.TriangleCount() != 1 {
		t.Errorf("TriangleCount = %d, want 1", mesh.TriangleCount())
	}
}

func TestSTLBinaryTruncated(t *testing.T) {
	data := make([]byte, 84)
	binary.LittleEndian.PutUint32(data[80:], 3)
	if _, err := loadBinarySTL(data, "short"); err == nil {
		t.Error("expected truncation error")
	}
}

func TestSaveSTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cube.stl")
	if err := SaveSTL(path, loadCube(t)); err != nil {
		t.Fatalf("SaveSTL: %v", err)
	}
	mesh, err := LoadSTL(path)
	if err != nil {
		t.Fatalf("LoadSTL: %v", err)
	}
	if !mesh.IsClosed() {
		t.Error("reloaded cube should be closed")
	}
}
