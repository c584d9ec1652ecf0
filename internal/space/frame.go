package space

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spacecore/internal/sysdesc"
)

// FrameID is a stable index into the frame arena.
type FrameID int32

const (
	NoFrame   FrameID = -1
	RootFrame FrameID = 0
)

// Frame is a reference frame. Position, velocity, orientation and angular
// velocity are relative to the parent frame.
type Frame struct {
	ID       FrameID
	Label    string
	Parent   FrameID
	Children []FrameID

	Pos    mgl64.Vec3
	Vel    mgl64.Vec3
	AngVel mgl64.Vec3
	Orient mgl64.Quat
	Radius float64

	// Astro is the body that defines this frame, if any.
	Astro BodyID
	SBody *sysdesc.Body

	collisions CollisionSpace
}

func (f *Frame) IsRotating() bool {
	return f.AngVel.Len() != 0
}

// IsLocalPosInFrame reports whether pos lies within the frame radius. The
// boundary itself counts as inside.
func (f *Frame) IsLocalPosInFrame(pos mgl64.Vec3) bool {
	return pos.Len() <= f.Radius
}

// StasisVelocity is the velocity a point fixed in this frame has as seen
// from the parent, excluding the frame's own translation.
func (f *Frame) StasisVelocity(pos mgl64.Vec3) mgl64.Vec3 {
	return f.AngVel.Cross(pos)
}

// LeavingTransform converts positions in this frame to the parent frame.
func (f *Frame) LeavingTransform() Transform {
	return Transform{Rot: f.Orient, Trans: f.Pos}
}

func (f *Frame) RotateInTimestep(dt float64) {
	w := f.AngVel.Len()
	if w == 0 {
		return
	}
	step := mgl64.QuatRotate(w*dt, f.AngVel.Mul(1/w))
	f.Orient = step.Mul(f.Orient).Normalize()
}

// CollisionSpace reports candidate contacts between the bodies of one
// frame.
type CollisionSpace interface {
	Add(b Body)
	Remove(b Body)
	Collide(hit func(*Contact))
}

// CollisionSpaceFactory creates the collision space of a new frame.
type CollisionSpaceFactory func() CollisionSpace

func (s *Space) newFrame(parent FrameID, label string) *Frame {
	f := &Frame{
		ID:     FrameID(len(s.frames)),
		Label:  label,
		Parent: parent,
		Orient: mgl64.QuatIdent(),
		Radius: math.Inf(1),
	}
	if s.newCollisionSpace != nil {
		f.collisions = s.newCollisionSpace()
	}
	s.frames = append(s.frames, f)
	if parent != NoFrame {
		p := s.frames[parent]
		p.Children = append(p.Children, f.ID)
	}
	return f
}

// Frame returns the frame with the given id, or nil.
func (s *Space) Frame(id FrameID) *Frame {
	if id < 0 || int(id) >= len(s.frames) {
		return nil
	}
	return s.frames[id]
}

func (s *Space) Root() *Frame { return s.frames[RootFrame] }

func (s *Space) NumFrames() int { return len(s.frames) }

// resetFrames drops every frame but the root and empties the root.
func (s *Space) resetFrames() {
	s.frames = s.frames[:1]
	root := s.frames[RootFrame]
	root.Children = nil
	root.Astro = 0
	root.SBody = nil
	root.Pos, root.Vel, root.AngVel = mgl64.Vec3{}, mgl64.Vec3{}, mgl64.Vec3{}
	root.Orient = mgl64.QuatIdent()
	if s.newCollisionSpace != nil {
		root.collisions = s.newCollisionSpace()
	}
}

// FrameTransform returns the transform converting positions in from into
// positions in to, composed through the lowest common ancestor.
func (s *Space) FrameTransform(from, to FrameID) Transform {
	if from == to {
		return IdentityTransform()
	}
	lca := s.commonAncestor(from, to)

	up := IdentityTransform()
	for id := from; id != lca; id = s.frames[id].Parent {
		up = s.frames[id].LeavingTransform().Compose(up)
	}
	down := IdentityTransform()
	for id := to; id != lca; id = s.frames[id].Parent {
		down = s.frames[id].LeavingTransform().Compose(down)
	}
	return down.Inverse().Compose(up)
}

func (s *Space) commonAncestor(a, b FrameID) FrameID {
	seen := make(map[FrameID]bool)
	for id := a; id != NoFrame; id = s.frames[id].Parent {
		seen[id] = true
	}
	for id := b; id != NoFrame; id = s.frames[id].Parent {
		if seen[id] {
			return id
		}
	}
	return RootFrame
}

// moveOrbitingFrames places every descriptor-backed frame on its orbit at
// the current time and spins rotating frames by dt.
func (s *Space) moveOrbitingFrames(id FrameID, dt float64) {
	f := s.frames[id]
	if id == RootFrame {
		f.Pos, f.Vel = mgl64.Vec3{}, mgl64.Vec3{}
	} else if f.SBody != nil && f.SBody.Orbit != nil {
		pos := f.SBody.Orbit.PositionAt(s.time)
		f.Vel = f.SBody.Orbit.PositionAt(s.time + 1).Sub(pos)
		f.Pos = pos
	}
	f.RotateInTimestep(dt)
	for _, c := range f.Children {
		s.moveOrbitingFrames(c, dt)
	}
}
