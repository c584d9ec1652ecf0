package space

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spacecore/internal/sysdesc"
)

const ecmRadius = 4000.0

// PositionRelTo expresses b's position in frame id.
func (s *Space) PositionRelTo(b Body, id FrameID) mgl64.Vec3 {
	return s.FrameTransform(b.Frame(), id).Apply(b.Position())
}

// VelocityRelTo expresses b's velocity in frame id, accounting for the
// translation velocities of the frames on the path. Frame spin is ignored.
func (s *Space) VelocityRelTo(b Body, id FrameID) mgl64.Vec3 {
	vel := s.FrameTransform(b.Frame(), RootFrame).ApplyDir(b.Velocity()).Add(s.rootVelocity(b.Frame()))
	vel = vel.Sub(s.rootVelocity(id))
	return s.FrameTransform(RootFrame, id).ApplyDir(vel)
}

func (s *Space) rootVelocity(id FrameID) mgl64.Vec3 {
	var v mgl64.Vec3
	for ; id != NoFrame; id = s.frames[id].Parent {
		f := s.frames[id]
		if f.Parent == NoFrame {
			break
		}
		v = v.Add(s.FrameTransform(f.Parent, RootFrame).ApplyDir(f.Vel))
	}
	return v
}

// FrameWithSBody finds the frame built for a descriptor.
func (s *Space) FrameWithSBody(sb *sysdesc.Body) FrameID {
	if sb == nil {
		return NoFrame
	}
	return s.findSBodyFrame(RootFrame, sb)
}

func (s *Space) findSBodyFrame(id FrameID, sb *sysdesc.Body) FrameID {
	f := s.frames[id]
	if f.SBody == sb {
		return id
	}
	for _, c := range f.Children {
		if found := s.findSBodyFrame(c, sb); found != NoFrame {
			return found
		}
	}
	return NoFrame
}

// RadiusDamage hurts every damageable body within radius of pos, scaled
// linearly by distance.
func (s *Space) RadiusDamage(attacker Body, frame FrameID, pos mgl64.Vec3, radius, kgDamage float64) {
	for _, b := range s.bodies {
		dmg, ok := b.(Damageable)
		if !ok || b.IsDead() {
			continue
		}
		dist := s.PositionRelTo(b, frame).Sub(pos).Len()
		if dist < radius {
			dmg.OnDamage(s, attacker, (1-dist/radius)*kgDamage)
		}
	}
}

// DoECM fires an electronic countermeasure. Each vulnerable body within
// range is attacked with a chance that grows as it gets closer.
func (s *Space) DoECM(frame FrameID, pos mgl64.Vec3, power int) {
	for _, b := range s.bodies {
		ecm, ok := b.(ECMVulnerable)
		if !ok || b.IsDead() {
			continue
		}
		dist := s.PositionRelTo(b, frame).Sub(pos).Len()
		if dist < ecmRadius && s.rng.Float64() > dist/ecmRadius {
			ecm.ECMAttack(s, power)
		}
	}
}

// RenderOrder lists live bodies farthest first as seen from the origin of
// camFrame.
func (s *Space) RenderOrder(camFrame FrameID) []Body {
	type entry struct {
		dist float64
		b    Body
	}
	entries := make([]entry, 0, len(s.bodies))
	for _, b := range s.bodies {
		if b.IsDead() {
			continue
		}
		d := s.PositionRelTo(b, camFrame).Len()
		if math.IsNaN(d) {
			continue
		}
		entries = append(entries, entry{d, b})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].dist > entries[j].dist })

	out := make([]Body, len(entries))
	for i, e := range entries {
		out[i] = e.b
	}
	return out
}
