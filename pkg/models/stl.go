package models

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/taigrr/crosscut/pkg/math3d"
)

// STLLoader loads STL (stereolithography) files in both ASCII and binary formats.
// STL facets wind counter-clockwise from outside, which is the mesh convention,
// so no winding change is applied.
type STLLoader struct {
	// Weld merges coincident corners so the mesh exposes shared edges.
	// Triangle soups straight from STL never share vertices otherwise.
	Weld bool
}

// NewSTLLoader creates a new STL loader with default settings.
func NewSTLLoader() *STLLoader {
	return &STLLoader{Weld: true}
}

// LoadFile loads an STL file from disk.
func (l *STLLoader) LoadFile(path string) (*Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read STL file: %w", err)
	}

	return l.LoadBytes(data, path)
}

// Load parses STL from a reader.
// Note: This reads the entire content into memory to detect format.
func (l *STLLoader) Load(r io.Reader, name string) (*Mesh, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read STL data: %w", err)
	}
	return l.LoadBytes(data, name)
}

// LoadBytes parses STL from a byte slice.
func (l *STLLoader) LoadBytes(data []byte, name string) (*Mesh, error) {
	var (
		mesh *Mesh
		err  error
	)
	if isBinarySTL(data) {
		mesh, err = loadBinarySTL(data, name)
	} else {
		mesh, err = loadASCIISTL(data, name)
	}
	if err != nil {
		return nil, err
	}
	if l.Weld {
		mesh = mesh.Welded()
	}
	mesh.CalculateBounds()
	return mesh, nil
}

// isBinarySTL detects if the data is binary STL format.
// Binary STL starts with 80-byte header, then 4-byte triangle count.
// ASCII STL starts with "solid".
func isBinarySTL(data []byte) bool {
	if len(data) < 84 {
		return false
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if bytes.HasPrefix(trimmed, []byte("solid")) {
		// Could still be binary if "solid" appears in header;
		// trust the triangle count when it matches the file size.
		triCount := binary.LittleEndian.Uint32(data[80:84])
		return uint64(len(data)) == 84+uint64(triCount)*50
	}

	return true
}

func loadBinarySTL(data []byte, name string) (*Mesh, error) {
	if len(data) < 84 {
		return nil, fmt.Errorf("binary STL too short: %d bytes", len(data))
	}

	triCount := binary.LittleEndian.Uint32(data[80:84])
	expectedSize := 84 + uint64(triCount)*50
	if uint64(len(data)) < expectedSize {
		return nil, fmt.Errorf("binary STL truncated: expected %d bytes, got %d", expectedSize, len(data))
	}

	mesh := NewMesh(name)
	offset := 84
	for range triCount {
		offset += 12 // facet normal, recomputed from winding
		var p [3]math3d.Vec3
		for v := range 3 {
			p[v] = math3d.V3(
				float64(readFloat32LE(data[offset:])),
				float64(readFloat32LE(data[offset+4:])),
				float64(readFloat32LE(data[offset+8:])),
			)
			offset += 12
		}
		offset += 2 // attribute byte count
		mesh.AddFlatTriangle(p[0], p[1], p[2])
	}
	return mesh, nil
}

func readFloat32LE(data []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(data))
}

func loadASCIISTL(data []byte, name string) (*Mesh, error) {
	mesh := NewMesh(name)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNum := 0

	var corners []math3d.Vec3
	inFacet := false
	inLoop := false

	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch strings.ToLower(fields[0]) {
		case "solid":
			if len(fields) > 1 {
				mesh.Name = fields[1]
			}
		case "facet":
			inFacet = true
			corners = corners[:0]
		case "outer":
			if len(fields) >= 2 && strings.ToLower(fields[1]) == "loop" {
				inLoop = true
			}
		case "vertex":
			if !inFacet || !inLoop {
				return nil, fmt.Errorf("line %d: vertex outside facet/loop", lineNum)
			}
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs x y z", lineNum)
			}
			var xyz [3]float64
			for i := range 3 {
				f, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: invalid vertex coordinate: %w", lineNum, err)
				}
				xyz[i] = f
			}
			corners = append(corners, math3d.V3(xyz[0], xyz[1], xyz[2]))
		case "endloop":
			inLoop = false
		case "endfacet":
			// Polygonal facets are fanned.
			for i := 1; i+1 < len(corners); i++ {
				mesh.AddFlatTriangle(corners[0], corners[i], corners[i+1])
			}
			inFacet = false
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASCII STL: %w", err)
	}
	return mesh, nil
}

// LoadSTL is a convenience function to load an STL file with default settings.
func LoadSTL(path string) (*Mesh, error) {
	return NewSTLLoader().LoadFile(path)
}

// WriteSTL writes the mesh as binary STL.
func WriteSTL(w io.Writer, mesh *Mesh) error {
	bw := bufio.NewWriter(w)
	var header [80]byte
	copy(header[:], "crosscut "+mesh.Name)
	if _, err := bw.Write(header[:]); err != nil {
		return fmt.Errorf("write STL header: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(mesh.Faces))); err != nil {
		return fmt.Errorf("write STL triangle count: %w", err)
	}
	rec := make([]float32, 12)
	for i := range mesh.Faces {
		a, b, c := mesh.Triangle(i)
		n := mesh.FaceNormal(i)
		for k, v := range []math3d.Vec3{n, a, b, c} {
			rec[k*3] = float32(v.X)
			rec[k*3+1] = float32(v.Y)
			rec[k*3+2] = float32(v.Z)
		}
		if err := binary.Write(bw, binary.LittleEndian, rec); err != nil {
			return fmt.Errorf("write STL facet %d: %w", i, err)
		}
		if err := binary.Write(bw, binary.LittleEndian, uint16(0)); err != nil {
			return fmt.Errorf("write STL facet %d: %w", i, err)
		}
	}
	return bw.Flush()
}

// SaveSTL writes the mesh as binary STL to path.
func SaveSTL(path string, mesh *Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create STL file: %w", err)
	}
	if err := WriteSTL(f, mesh); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
