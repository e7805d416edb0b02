package render

import (
	"math"

	"github.com/taigrr/crosscut/pkg/math3d"
)

// Camera is a perspective camera aimed at a target point.
type Camera struct {
	Position math3d.Vec3
	Target   math3d.Vec3
	Up       math3d.Vec3
	FOV      float64 // Vertical field of view in radians
	Aspect   float64
	Near     float64
	Far      float64
}

// NewCamera creates a camera at (0, 0, 5) looking at the origin.
func NewCamera() *Camera {
	return &Camera{
		Position: math3d.V3(0, 0, 5),
		Up:       math3d.Up(),
		FOV:      math.Pi / 3,
		Aspect:   1,
		Near:     0.1,
		Far:      100,
	}
}

// SetPosition moves the camera, keeping its target.
func (c *Camera) SetPosition(p math3d.Vec3) {
	c.Position = p
}

// Eye returns the camera position.
func (c *Camera) Eye() math3d.Vec3 {
	return c.Position
}

// LookAt aims the camera at target.
func (c *Camera) LookAt(target math3d.Vec3) {
	c.Target = target
}

// SetFOV sets the vertical field of view in radians.
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
}

// SetAspectRatio sets width / height.
func (c *Camera) SetAspectRatio(aspect float64) {
	if aspect > 0 {
		c.Aspect = aspect
	}
}

// ViewMatrix returns the world to view transform.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	return math3d.LookAt(c.Position, c.Target, c.Up)
}

// ProjectionMatrix returns the perspective projection.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	return math3d.Perspective(c.FOV, c.Aspect, c.Near, c.Far)
}

// ViewProjectionMatrix returns projection * view.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	return c.ProjectionMatrix().Mul(c.ViewMatrix())
}

// WorldToScreen projects a world point to pixel coordinates. visible is false
// for points behind the camera.
func (c *Camera) WorldToScreen(p math3d.Vec3, width, height int) (x, y, depth float64, visible bool) {
	clip := c.ViewProjectionMatrix().MulVec4(math3d.V4FromV3(p, 1))
	if clip.W <= 0 {
		return 0, 0, 0, false
	}
	ndc := clip.PerspectiveDivide()
	x = (ndc.X + 1) * 0.5 * float64(width)
	y = (1 - ndc.Y) * 0.5 * float64(height)
	return x, y, ndc.Z, true
}

// ScreenRay returns the world-space ray through normalized device
// coordinates (ndcX, ndcY), each in [-1, 1] with +Y up.
func (c *Camera) ScreenRay(ndcX, ndcY float64) math3d.Ray {
	inv := c.ViewProjectionMatrix().Inverse()
	near := inv.MulVec4(math3d.V4(ndcX, ndcY, -1, 1)).PerspectiveDivide()
	far := inv.MulVec4(math3d.V4(ndcX, ndcY, 1, 1)).PerspectiveDivide()
	return math3d.Ray{Origin: near, Dir: far.Sub(near).Normalize()}
}

// PixelToNDC converts pixel coordinates to normalized device coordinates.
func PixelToNDC(x, y float64, width, height int) (float64, float64) {
	return x/float64(width)*2 - 1, 1 - y/float64(height)*2
}
