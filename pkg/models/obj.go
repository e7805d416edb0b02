package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/taigrr/crosscut/pkg/math3d"
)

// OBJLoader loads the geometry of Wavefront OBJ files. Texture coordinates,
// normals and materials are ignored; normals are recomputed from the
// counter-clockwise winding OBJ already uses.
type OBJLoader struct{}

// NewOBJLoader creates a new OBJ loader.
func NewOBJLoader() *OBJLoader {
	return &OBJLoader{}
}

// LoadFile loads an OBJ file from disk.
func (l *OBJLoader) LoadFile(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer f.Close()

	return l.Load(f, path)
}

// Load parses an OBJ from a reader.
func (l *OBJLoader) Load(r io.Reader, name string) (*Mesh, error) {
	mesh := NewMesh(name)

	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: invalid vertex (need x y z)", lineNum)
			}
			var xyz [3]float64
			for i := range 3 {
				f, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: invalid coordinate: %w", lineNum, err)
				}
				xyz[i] = f
			}
			mesh.AddVertex(math3d.V3(xyz[0], xyz[1], xyz[2]), math3d.Vec3{})

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNum)
			}
			corners := make([]int, 0, len(fields)-1)
			for _, field := range fields[1:] {
				idx, err := parseFaceVertex(field)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNum, err)
				}
				idx = resolveIndex(idx, len(mesh.Vertices))
				if idx < 0 || idx >= len(mesh.Vertices) {
					return nil, fmt.Errorf("line %d: position index %d out of range", lineNum, idx+1)
				}
				corners = append(corners, idx)
			}
			// Fan triangulation (convex polygons)
			for i := 1; i < len(corners)-1; i++ {
				mesh.AddFace(corners[0], corners[i], corners[i+1])
			}

		case "o", "g":
			if len(fields) > 1 {
				mesh.Name = fields[1]
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading OBJ: %w", err)
	}

	mesh.RemoveDegenerateFaces()
	mesh.RemoveUnreferencedVertices()
	mesh.CalculateSmoothNormals()
	mesh.CalculateBounds()
	return mesh, nil
}

// parseFaceVertex returns the position index of a face vertex written as
// v, v/vt, v/vt/vn or v//vn (1-indexed, possibly negative).
func parseFaceVertex(s string) (int, error) {
	head, _, _ := strings.Cut(s, "/")
	pos, err := strconv.Atoi(head)
	if err != nil {
		return 0, fmt.Errorf("invalid vertex index: %s", head)
	}
	return pos, nil
}

// resolveIndex converts OBJ 1-indexed (or negative) index to 0-indexed.
// Returns -1 if index was 0 (not specified).
func resolveIndex(idx, count int) int {
	if idx == 0 {
		return -1
	}
	if idx < 0 {
		return count + idx // Negative indices count from end
	}
	return idx - 1 // Convert 1-indexed to 0-indexed
}

// LoadOBJ is a convenience function to load an OBJ file with default settings.
func LoadOBJ(path string) (*Mesh, error) {
	return NewOBJLoader().LoadFile(path)
}
