// Package collide provides frame collision spaces for the simulation.
package collide

import "github.com/san-kum/spacecore/internal/space"

// SphereSpace tests every pair of bounding spheres in a frame. Frames hold
// few bodies, so the quadratic scan is fine.
type SphereSpace struct {
	bodies []space.Body
}

// New returns an empty SphereSpace; it is a space.CollisionSpaceFactory.
func New() space.CollisionSpace {
	return &SphereSpace{}
}

func (c *SphereSpace) Len() int { return len(c.bodies) }

func (c *SphereSpace) Add(b space.Body) {
	for _, o := range c.bodies {
		if o == b {
			return
		}
	}
	c.bodies = append(c.bodies, b)
}

func (c *SphereSpace) Remove(b space.Body) {
	for i, o := range c.bodies {
		if o == b {
			c.bodies = append(c.bodies[:i], c.bodies[i+1:]...)
			return
		}
	}
}

// Collide reports a contact for every overlapping pair in which at least
// one body can move. The normal points from B toward A and the contact
// sits on B's surface.
func (c *SphereSpace) Collide(hit func(*space.Contact)) {
	n := len(c.bodies)
	for i := 0; i < n; i++ {
		a := c.bodies[i]
		if !live(a) {
			continue
		}
		_, dynA := a.(space.Dynamic)
		ra := radius(a)
		for j := i + 1; j < n; j++ {
			b := c.bodies[j]
			if !live(b) || !live(a) {
				continue
			}
			if _, dynB := b.(space.Dynamic); !dynA && !dynB {
				continue
			}
			rb := radius(b)
			delta := a.Position().Sub(b.Position())
			d := delta.Len()
			if d == 0 || d >= ra+rb {
				continue
			}
			normal := delta.Mul(1 / d)
			hit(&space.Contact{
				Pos:    b.Position().Add(normal.Mul(rb)),
				Normal: normal,
				Depth:  ra + rb - d,
				A:      a,
				B:      b,
			})
		}
	}
}

func live(b space.Body) bool {
	return !b.IsDead() && b.Enabled()
}

func radius(b space.Body) float64 {
	if cb, ok := b.(space.Collidable); ok {
		return cb.BoundingRadius()
	}
	return 0
}
