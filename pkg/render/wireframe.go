package render

import "github.com/taigrr/crosscut/pkg/math3d"

// Wireframe draws line-based helpers (plane outlines, arrows, axes) through
// a rasterizer using one draw state.
type Wireframe struct {
	r     *Rasterizer
	State DrawState
}

// NewWireframe creates a wireframe helper drawing with color c, depth
// tested but not depth writing.
func NewWireframe(r *Rasterizer, c Color) *Wireframe {
	return &Wireframe{
		r: r,
		State: DrawState{
			DepthTest:  true,
			ColorWrite: true,
			Color:      c,
			Opacity:    1,
		},
	}
}

// DrawLoop draws a closed polyline.
func (w *Wireframe) DrawLoop(points []math3d.Vec3) {
	for i := range points {
		w.r.DrawLine3D(points[i], points[(i+1)%len(points)], &w.State)
	}
}

// DrawArrow draws a segment from origin along dir with a two-stroke head.
func (w *Wireframe) DrawArrow(origin, dir math3d.Vec3, length float64) {
	d := dir.Normalize()
	tip := origin.Add(d.Scale(length))
	w.r.DrawLine3D(origin, tip, &w.State)
	side := d.AnyPerpendicular().Scale(length * 0.15)
	back := tip.Sub(d.Scale(length * 0.25))
	w.r.DrawLine3D(tip, back.Add(side), &w.State)
	w.r.DrawLine3D(tip, back.Sub(side), &w.State)
}

// DrawAxes draws the X (red), Y (green) and Z (blue) axes from origin.
func (w *Wireframe) DrawAxes(origin math3d.Vec3, length float64) {
	saved := w.State.Color
	defer func() { w.State.Color = saved }()
	axes := []struct {
		dir   math3d.Vec3
		color Color
	}{
		{math3d.V3(1, 0, 0), ColorRed},
		{math3d.V3(0, 1, 0), ColorGreen},
		{math3d.V3(0, 0, 1), ColorBlue},
	}
	for _, ax := range axes {
		w.State.Color = ax.color
		w.r.DrawLine3D(origin, origin.Add(ax.dir.Scale(length)), &w.State)
	}
}
