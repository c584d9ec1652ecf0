package space

import "github.com/go-gl/mathgl/mgl64"

// Restitution is the coefficient used for every contact.
const Restitution = 0.5

// Contact is one point of interpenetration. Normal points from B toward A.
type Contact struct {
	Pos    mgl64.Vec3
	Normal mgl64.Vec3
	Depth  float64
	A      Body
	B      Body
}

func (s *Space) collideFrame(id FrameID) {
	f := s.frames[id]
	if astro := s.byID[f.Astro]; astro != nil {
		if ts, ok := astro.(TerrainSource); ok {
			s.collideTerrain(f, astro, ts)
		}
	}
	if f.collisions != nil {
		f.collisions.Collide(s.hit)
	}
	for _, c := range f.Children {
		s.collideFrame(c)
	}
}

// collideTerrain tests the eight hull corners of every dynamic body in f
// against the surface of the frame's planet.
func (s *Space) collideTerrain(f *Frame, planet Body, ts TerrainSource) {
	centre := planet.Position()
	for _, b := range s.bodies {
		d, ok := b.(Dynamic)
		if !ok || b.Frame() != f.ID || b.IsDead() || !b.Enabled() {
			continue
		}
		min, max := d.Aabb()
		for i := 0; i < 8; i++ {
			corner := mgl64.Vec3{min[0], min[1], min[2]}
			if i&1 != 0 {
				corner[0] = max[0]
			}
			if i&2 != 0 {
				corner[1] = max[1]
			}
			if i&4 != 0 {
				corner[2] = max[2]
			}
			pos := b.Orientation().Rotate(corner).Add(b.Position())
			rel := pos.Sub(centre)
			alt := rel.Len()
			if alt == 0 {
				continue
			}
			dir := rel.Mul(1 / alt)
			if h := ts.TerrainHeight(dir); alt < h {
				s.hit(&Contact{Pos: pos, Normal: dir, Depth: h - alt, A: b, B: planet})
			}
		}
	}
}

func (s *Space) hit(c *Contact) {
	d1, dyn1 := c.A.(Dynamic)
	d2, dyn2 := c.B.(Dynamic)
	var resolved bool
	switch {
	case dyn1 && dyn2:
		resolved = s.resolvePair(c, d1, d2)
	case dyn1:
		resolved = s.resolveStatic(c, d1, c.Normal, c.B)
	case dyn2:
		resolved = s.resolveStatic(c, d2, c.Normal.Mul(-1), c.A)
	}
	if resolved {
		for _, o := range s.observers {
			o.OnContact(c)
		}
	}
}

func (s *Space) allowCollision(a, b Body, relVel float64) bool {
	okA := a.OnCollision(s, b, relVel)
	okB := b.OnCollision(s, a, relVel)
	return okA && okB
}

func resolveTerm(d *DynamicBody, r, n mgl64.Vec3) float64 {
	return n.Dot(r.Cross(n).Mul(d.invInertia()).Cross(r))
}

func (s *Space) resolvePair(c *Contact, a, b Dynamic) bool {
	da, db := a.dynamic(), b.dynamic()
	n := c.Normal
	r1 := c.Pos.Sub(da.pos)
	r2 := c.Pos.Sub(db.pos)
	v1 := da.vel.Add(da.angVel.Cross(r1))
	v2 := db.vel.Add(db.angVel.Cross(r2))
	relVel := v1.Sub(v2).Dot(n)
	if relVel >= 0 {
		return false
	}
	if !s.allowCollision(a, b, -relVel) {
		return false
	}

	denom := da.invMass() + db.invMass() + resolveTerm(da, r1, n) + resolveTerm(db, r2, n)
	if denom == 0 {
		return false
	}
	j := -(1 + Restitution) * relVel / denom
	impulse := n.Mul(j)

	da.vel = da.vel.Add(impulse.Mul(da.invMass()))
	db.vel = db.vel.Sub(impulse.Mul(db.invMass()))
	da.angVel = da.angVel.Add(r1.Cross(impulse).Mul(da.invInertia()))
	db.angVel = db.angVel.Sub(r2.Cross(impulse).Mul(db.invInertia()))
	return true
}

// resolveStatic bounces mover off an immovable body. n points from the
// static body toward the mover.
func (s *Space) resolveStatic(c *Contact, mover Dynamic, n mgl64.Vec3, other Body) bool {
	d := mover.dynamic()
	r := c.Pos.Sub(d.pos)
	relVel := d.vel.Add(d.angVel.Cross(r)).Dot(n)
	if relVel >= 0 {
		return false
	}
	if !s.allowCollision(mover, other, -relVel) {
		return false
	}

	denom := d.invMass() + resolveTerm(d, r, n)
	if denom == 0 {
		return false
	}
	j := -(1 + Restitution) * relVel / denom
	impulse := n.Mul(j)
	d.vel = d.vel.Add(impulse.Mul(d.invMass()))
	d.angVel = d.angVel.Add(r.Cross(impulse).Mul(d.invInertia()))
	return true
}
