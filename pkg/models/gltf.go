package models

import (
	"fmt"
	"path/filepath"

	"fortio.org/log"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/crosscut/pkg/math3d"
)

// GLTFLoader loads the triangle geometry of glTF/GLB files into a single Mesh,
// flattening the node hierarchy. Materials and textures are ignored.
type GLTFLoader struct{}

// NewGLTFLoader creates a new glTF loader.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{}
}

// LoadGLB loads a binary glTF (.glb) or text (.gltf) file.
func LoadGLB(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load loads a glTF or GLB file and returns a Mesh.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))

	if len(doc.Scenes) > 0 {
		sceneIdx := 0
		if doc.Scene != nil {
			sceneIdx = int(*doc.Scene)
		}
		for _, nodeIdx := range doc.Scenes[sceneIdx].Nodes {
			if err := l.processNode(doc, int(nodeIdx), math3d.Identity(), mesh); err != nil {
				return nil, err
			}
		}
	} else {
		for i := range doc.Nodes {
			if isRootNode(doc, i) {
				if err := l.processNode(doc, i, math3d.Identity(), mesh); err != nil {
					return nil, err
				}
			}
		}
	}

	mesh.CalculateSmoothNormals()
	mesh.CalculateBounds()
	return mesh, nil
}

func isRootNode(doc *gltf.Document, idx int) bool {
	for _, n := range doc.Nodes {
		for _, child := range n.Children {
			if int(child) == idx {
				return false
			}
		}
	}
	return true
}

// processNode recursively processes a node and its children, accumulating transforms.
func (l *GLTFLoader) processNode(doc *gltf.Document, nodeIdx int, parent math3d.Mat4, mesh *Mesh) error {
	node := doc.Nodes[nodeIdx]
	world := parent.Mul(nodeTransform(node))

	if node.Mesh != nil {
		if err := l.processMesh(doc, doc.Meshes[int(*node.Mesh)], mesh, world); err != nil {
			return fmt.Errorf("node %q: %w", node.Name, err)
		}
	}

	for _, childIdx := range node.Children {
		if err := l.processNode(doc, int(childIdx), world, mesh); err != nil {
			return err
		}
	}
	return nil
}

// nodeTransform returns the node's local TRS (or explicit matrix) transform.
func nodeTransform(node *gltf.Node) math3d.Mat4 {
	if node.Matrix != [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1} {
		return math3d.Mat4(node.Matrix)
	}
	local := math3d.Translate(math3d.V3(node.Translation[0], node.Translation[1], node.Translation[2]))
	if node.Rotation != [4]float64{0, 0, 0, 1} {
		local = local.Mul(math3d.FromQuat(node.Rotation[0], node.Rotation[1], node.Rotation[2], node.Rotation[3]))
	}
	if node.Scale != [3]float64{1, 1, 1} && node.Scale != [3]float64{0, 0, 0} {
		local = local.Mul(math3d.Scale(math3d.V3(node.Scale[0], node.Scale[1], node.Scale[2])))
	}
	return local
}

// processMesh extracts triangle primitives, applying the node's world transform.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh, transform math3d.Mat4) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			log.Warnf("gltf %s: skipping primitive with mode %v", m.Name, prim.Mode)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			log.Warnf("gltf %s: skipping primitive without positions", m.Name)
			continue
		}

		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		base := len(mesh.Vertices)
		for _, p := range positions {
			pos := math3d.V3(float64(p[0]), float64(p[1]), float64(p[2]))
			mesh.AddVertex(transform.MulVec3(pos), math3d.Vec3{})
		}

		if prim.Indices != nil {
			indices, err := modeler.ReadIndices(doc, doc.Accessors[int(*prim.Indices)], nil)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
			for i := 0; i+2 < len(indices); i += 3 {
				mesh.AddFace(base+int(indices[i]), base+int(indices[i+1]), base+int(indices[i+2]))
			}
		} else {
			for i := 0; i+2 < len(positions); i += 3 {
				mesh.AddFace(base+i, base+i+1, base+i+2)
			}
		}
	}
	return nil
}

// SaveGLB writes the mesh as a single-node binary glTF file.
func SaveGLB(path string, mesh *Mesh) error {
	doc := BuildGLTF(mesh)
	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("save glb: %w", err)
	}
	return nil
}

// BuildGLTF converts the mesh into a glTF document with one indexed primitive.
func BuildGLTF(mesh *Mesh) *gltf.Document {
	doc := gltf.NewDocument()

	positions := make([][3]float32, len(mesh.Vertices))
	normals := make([][3]float32, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		positions[i] = [3]float32{float32(v.Position.X), float32(v.Position.Y), float32(v.Position.Z)}
		normals[i] = [3]float32{float32(v.Normal.X), float32(v.Normal.Y), float32(v.Normal.Z)}
	}
	indices := make([]uint32, 0, len(mesh.Faces)*3)
	for _, f := range mesh.Faces {
		indices = append(indices, uint32(f.V[0]), uint32(f.V[1]), uint32(f.V[2]))
	}

	prim := &gltf.Primitive{
		Mode:    gltf.PrimitiveTriangles,
		Indices: gltf.Index(modeler.WriteIndices(doc, indices)),
		Attributes: map[string]int{
			gltf.POSITION: modeler.WritePosition(doc, positions),
			gltf.NORMAL:   modeler.WriteNormal(doc, normals),
		},
	}
	doc.Meshes = []*gltf.Mesh{{Name: mesh.Name, Primitives: []*gltf.Primitive{prim}}}
	doc.Nodes = []*gltf.Node{{Name: mesh.Name, Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	return doc
}
