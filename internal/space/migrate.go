package space

import "github.com/go-gl/mathgl/mgl64"

func (s *Space) updateFramesOfReference() {
	for _, b := range s.bodies {
		if b.IsDead() || !b.Enabled() || b.Flags()&FlagCanMoveFrame == 0 {
			continue
		}
		s.migrate(b)
	}
}

// migrate moves b at most one level up and then at most one level down the
// frame tree.
func (s *Space) migrate(b Body) {
	f := s.frames[b.Frame()]
	if !f.IsLocalPosInFrame(b.Position()) {
		if f.Parent != NoFrame {
			s.leaveFrame(b, f)
		} else {
			b.SetVelocity(b.Velocity().Add(f.Vel))
		}
	}

	cur := s.frames[b.Frame()]
	for _, cid := range cur.Children {
		kid := s.frames[cid]
		toKid := kid.LeavingTransform().Inverse()
		pos := toKid.Apply(b.Position())
		if kid.IsLocalPosInFrame(pos) {
			s.enterFrame(b, kid, toKid, pos)
			break
		}
	}
}

func (s *Space) leaveFrame(b Body, f *Frame) {
	t := f.LeavingTransform()
	pos := b.Position()
	vel := f.Vel.Add(t.ApplyDir(b.Velocity().Sub(f.StasisVelocity(pos))))

	b.SetPosition(t.Apply(pos))
	b.SetVelocity(vel)
	b.SetOrientation(t.Rot.Mul(b.Orientation()))
	s.changeFrame(b, f.ID, f.Parent)
}

func (s *Space) enterFrame(b Body, kid *Frame, toKid Transform, pos mgl64.Vec3) {
	vel := toKid.ApplyDir(b.Velocity().Sub(kid.Vel)).Add(kid.StasisVelocity(pos))

	b.SetPosition(pos)
	b.SetVelocity(vel)
	b.SetOrientation(toKid.Rot.Mul(b.Orientation()))
	s.changeFrame(b, b.Frame(), kid.ID)
}

func (s *Space) changeFrame(b Body, from, to FrameID) {
	s.SetFrame(b, to)
	s.log.Debug().
		Str("body", b.Label()).
		Str("from", s.frames[from].Label).
		Str("to", s.frames[to].Label).
		Msg("frame change")
	for _, o := range s.observers {
		o.OnFrameChange(b, from, to)
	}
}
