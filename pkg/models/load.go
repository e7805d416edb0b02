package models

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for model files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported model format")

// LoadModel loads an STL, OBJ or glTF/GLB file by extension, welds it and
// fits it into a sphere of the given radius around the origin so it can
// stand in for a catalog solid.
func LoadModel(path string, radius float64) (*Mesh, error) {
	var (
		mesh *Mesh
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".stl":
		mesh, err = LoadSTL(path)
	case ".obj":
		mesh, err = LoadOBJ(path)
	case ".glb", ".gltf":
		mesh, err = LoadGLB(path)
	default:
		return nil, fmt.Errorf("%w: %q (use .stl, .obj, .glb or .gltf)", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", path, err)
	}
	mesh = mesh.Welded()
	if mesh.TriangleCount() == 0 {
		return nil, fmt.Errorf("load model %s: no triangles", path)
	}
	mesh.Name = filepath.Base(path)
	if radius > 0 {
		mesh.FitToRadius(radius)
	}
	return mesh, nil
}

// SaveModel writes the mesh as binary STL or GLB depending on the extension.
func SaveModel(path string, mesh *Mesh) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".stl":
		return SaveSTL(path, mesh)
	case ".glb":
		return SaveGLB(path, mesh)
	default:
		return fmt.Errorf("%w: %q (use .stl or .glb)", ErrUnsupportedFormat, ext)
	}
}
