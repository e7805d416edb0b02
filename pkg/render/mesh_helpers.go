package render

import "github.com/taigrr/crosscut/pkg/math3d"

// MeshRenderer is the read-only mesh view the rasterizer draws from.
type MeshRenderer interface {
	GetVertex(i int) (pos, normal math3d.Vec3)
	GetFace(i int) [3]int
	TriangleCount() int
}

// BoundedMeshRenderer is a MeshRenderer that knows its bounding box, which
// lets DrawMesh skip meshes outside the view frustum.
type BoundedMeshRenderer interface {
	MeshRenderer
	GetBounds() (min, max math3d.Vec3)
}

func buildTriangle(mesh MeshRenderer, face [3]int, transform, normalMat math3d.Mat4, color Color) Triangle {
	var tri Triangle
	for k := range 3 {
		p, n := mesh.GetVertex(face[k])
		tri.V[k] = Vertex{
			Position: transform.MulVec3(p),
			Normal:   normalMat.MulVec3Dir(n).Normalize(),
			Color:    color,
		}
	}
	return tri
}

// Visible reports whether the transformed bounds of mesh intersect the view
// frustum. Meshes without bounds are always visible.
func (r *Rasterizer) Visible(mesh MeshRenderer, transform math3d.Mat4) bool {
	bounded, ok := mesh.(BoundedMeshRenderer)
	if !ok {
		return true
	}
	lo, hi := bounded.GetBounds()
	box := AABB{Min: lo, Max: hi}.Transform(transform)
	return NewFrustumFromMatrix(r.camera.ViewProjectionMatrix()).IntersectAABB(box)
}

// DrawMesh draws every face of mesh with the given state.
func (r *Rasterizer) DrawMesh(mesh MeshRenderer, transform math3d.Mat4, st *DrawState) {
	if !r.Visible(mesh, transform) {
		return
	}
	viewProj := r.camera.ViewProjectionMatrix()
	normalMat := transform.Inverse().Transpose()
	for i := range mesh.TriangleCount() {
		tri := buildTriangle(mesh, mesh.GetFace(i), transform, normalMat, st.Color)
		r.drawTriangle(&tri, st, viewProj)
	}
}

// DrawMeshWireframe draws the edges of the faces that survive st.Cull. Each
// undirected edge is drawn once.
func (r *Rasterizer) DrawMeshWireframe(mesh MeshRenderer, transform math3d.Mat4, st *DrawState) {
	if !r.Visible(mesh, transform) {
		return
	}
	eye := r.camera.Eye()
	drawn := make(map[[2]int]bool)
	for i := range mesh.TriangleCount() {
		face := mesh.GetFace(i)
		var p [3]math3d.Vec3
		for k := range 3 {
			pos, _ := mesh.GetVertex(face[k])
			p[k] = transform.MulVec3(pos)
		}
		// World-space facing matches screen winding under perspective.
		normal := p[1].Sub(p[0]).Cross(p[2].Sub(p[0]))
		front := normal.Dot(eye.Sub(p[0])) > 0
		if st.culls(front) {
			continue
		}
		for k := range 3 {
			a, b := face[k], face[(k+1)%3]
			key := [2]int{min(a, b), max(a, b)}
			if drawn[key] {
				continue
			}
			drawn[key] = true
			r.DrawLine3D(p[k], p[(k+1)%3], st)
		}
	}
}
