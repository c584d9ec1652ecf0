package space

import "github.com/san-kum/spacecore/internal/sysdesc"

// DominantMass returns the body whose gravity governs frame id: the frame's
// own astro body, or for a descriptor frame without one, the astro body of
// its first child frame.
func (s *Space) DominantMass(id FrameID) Body {
	f := s.Frame(id)
	if f == nil {
		return nil
	}
	if f.Astro != 0 {
		return s.byID[f.Astro]
	}
	if f.SBody != nil && len(f.Children) > 0 {
		if child := s.frames[f.Children[0]]; child.Astro != 0 {
			return s.byID[child.Astro]
		}
	}
	return nil
}

func (s *Space) applyGravity() {
	lumps := make(map[FrameID]Body)
	for _, b := range s.bodies {
		d, ok := b.(Dynamic)
		if !ok || b.IsDead() || !b.Enabled() {
			continue
		}
		lump, seen := lumps[b.Frame()]
		if !seen {
			lump = s.DominantMass(b.Frame())
			lumps[b.Frame()] = lump
		}
		if lump == nil || lump == b {
			continue
		}
		m, ok := lump.(Massive)
		if !ok {
			continue
		}
		delta := s.PositionRelTo(lump, b.Frame()).Sub(b.Position())
		r := delta.Len()
		if r == 0 {
			continue
		}
		force := delta.Mul(sysdesc.G * d.Mass() * m.Mass() / (r * r * r))
		d.AddForce(force)
		d.dynamic().gravity = d.dynamic().gravity.Add(force)
	}
}
