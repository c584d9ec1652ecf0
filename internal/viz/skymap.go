package viz

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/spacecore/internal/space"
)

// Marker is a projected body, in dot coordinates.
type Marker struct {
	X, Y   int
	Radius int
	Label  string
	Kind   space.Kind
	Depth  float64
}

type radiused interface {
	Radius() float64
}

// DrawSkyMap plots the live bodies of s as seen from frame, centred on
// focus when it is non-nil. Bodies are drawn farthest first; the returned
// markers hold the visible ones in the same order.
func DrawSkyMap(c *Canvas, s *space.Space, frame space.FrameID, cam *Camera, focus space.Body) []Marker {
	c.Clear()
	if s.Frame(frame) == nil {
		return nil
	}
	w, h := c.Dots()

	var origin mgl64.Vec3
	if focus != nil && !focus.IsDead() && focus.Frame() != space.NoFrame {
		origin = s.PositionRelTo(focus, frame)
	}

	var out []Marker
	for _, b := range s.RenderOrder(frame) {
		p := s.PositionRelTo(b, frame).Sub(origin)
		x, y, depth, ok := cam.Project(p, w, h)
		r := 0
		if rb, isAstro := b.(radiused); isAstro {
			r = cam.Dots(rb.Radius(), w, h)
		}
		if !ok && !circleOnCanvas(x, y, r, w, h) {
			continue
		}
		switch {
		case r >= 1:
			c.DrawCircle(x, y, r)
		case b == focus:
			c.DrawLine(x-1, y, x+1, y)
			c.DrawLine(x, y-1, x, y+1)
		default:
			c.Set(x, y)
		}
		out = append(out, Marker{X: x, Y: y, Radius: r, Label: b.Label(), Kind: b.Kind(), Depth: depth})
	}
	return out
}

func circleOnCanvas(x, y, r, w, h int) bool {
	return r > 0 && x+r >= 0 && x-r < w && y+r >= 0 && y-r < h
}
