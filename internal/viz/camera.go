package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	minZoom = 1e-4
	maxZoom = 1e4
)

// Camera projects frame-relative positions onto a canvas. The projection is
// orthographic: Scale metres fit half the smaller canvas side at Zoom 1.
type Camera struct {
	Yaw, Pitch float64
	Scale      float64
	Zoom       float64
}

// NewCamera looks down the y axis, so the orbital x-z plane fills the view.
func NewCamera(scale float64) *Camera {
	return &Camera{Pitch: math.Pi / 2, Scale: scale, Zoom: 1}
}

func (c *Camera) Rotate(dYaw, dPitch float64) {
	c.Yaw += dYaw
	c.Pitch = mgl64.Clamp(c.Pitch+dPitch, -math.Pi/2, math.Pi/2)
}

func (c *Camera) ZoomIn()  { c.Zoom = math.Min(maxZoom, c.Zoom*1.5) }
func (c *Camera) ZoomOut() { c.Zoom = math.Max(minZoom, c.Zoom/1.5) }

func (c *Camera) view() mgl64.Quat {
	yaw := mgl64.QuatRotate(-c.Yaw, mgl64.Vec3{0, 1, 0})
	pitch := mgl64.QuatRotate(c.Pitch, mgl64.Vec3{1, 0, 0})
	return pitch.Mul(yaw)
}

// Project maps p to dot coordinates on a w x h dot canvas. Depth grows
// towards the viewer; ok is false when the dot falls off the canvas.
func (c *Camera) Project(p mgl64.Vec3, w, h int) (x, y int, depth float64, ok bool) {
	v := c.view().Rotate(p)
	px := c.pixelsPerMetre(w, h)
	x = int(math.Round(v.X()*px)) + w/2
	y = int(math.Round(-v.Y()*px)) + h/2
	return x, y, v.Z(), x >= 0 && x < w && y >= 0 && y < h
}

// Dots converts a length in metres to dots at the current zoom.
func (c *Camera) Dots(metres float64, w, h int) int {
	return int(math.Round(metres * c.pixelsPerMetre(w, h)))
}

func (c *Camera) pixelsPerMetre(w, h int) float64 {
	if c.Scale <= 0 {
		return 0
	}
	half := float64(min(w, h)) / 2
	return half * c.Zoom / c.Scale
}
