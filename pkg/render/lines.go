package render

import (
	"math"

	"github.com/taigrr/crosscut/pkg/math3d"
)

// DrawLine3D draws a world-space segment in st.Color. The segment is clipped
// against the near plane; fragments go through the same clip-plane, stencil
// and depth pipeline as triangles.
func (r *Rasterizer) DrawLine3D(a, b math3d.Vec3, st *DrawState) {
	viewProj := r.camera.ViewProjectionMatrix()
	ca := clipVertex{clip: viewProj.MulVec4(math3d.V4FromV3(a, 1)), world: a, color: st.Color}
	cb := clipVertex{clip: viewProj.MulVec4(math3d.V4FromV3(b, 1)), world: b, color: st.Color}

	da := ca.clip.Z + ca.clip.W
	db := cb.clip.Z + cb.clip.W
	switch {
	case da < 0 && db < 0:
		return
	case da < 0:
		ca = lerpClipVertex(ca, cb, da/(da-db))
	case db < 0:
		cb = lerpClipVertex(cb, ca, db/(db-da))
	}

	sa, sb := r.toScreen(ca), r.toScreen(cb)
	steps := int(math.Ceil(math.Max(math.Abs(sb.X-sa.X), math.Abs(sb.Y-sa.Y))))
	if steps == 0 {
		steps = 1
	}
	color := func() Color { return st.Color }
	lastX, lastY := math.MinInt, math.MinInt
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(math.Floor(sa.X + (sb.X-sa.X)*t))
		y := int(math.Floor(sa.Y + (sb.Y-sa.Y)*t))
		if !r.fb.InBounds(x, y) || (x == lastX && y == lastY) {
			continue
		}
		lastX, lastY = x, y
		z := sa.Z + (sb.Z-sa.Z)*t
		// Perspective-correct world position for clip-plane tests.
		wa := (1 - t) * sa.InvW
		wb := t * sb.InvW
		world := sa.World.Scale(wa).Add(sb.World.Scale(wb)).Scale(1 / (wa + wb))
		r.fragment(x, y, z, world, st, color)
	}
}
