package space

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spacecore/internal/sysdesc"
)

const (
	stationOrbitFrameRadius = 1e6
	stationRotFrameRadius   = 5000.0
	surfaceSiteRetries      = 100
)

// BuildSystem creates the frames and astro bodies for the current system
// and places orbiting frames at the current time.
func (s *Space) BuildSystem() error {
	if s.system == nil {
		return ErrNoSystem
	}
	if err := s.genBody(s.system.Root, RootFrame); err != nil {
		return fmt.Errorf("build %s: %w", s.system.Name, err)
	}
	s.moveOrbitingFrames(RootFrame, 0)
	s.log.Info().
		Str("system", s.system.Name).
		Int("frames", len(s.frames)).
		Msg("system built")
	return nil
}

func (s *Space) genBody(sb *sysdesc.Body, parent FrameID) error {
	var b Body
	if sb.Type != sysdesc.TypeGravpoint {
		switch sb.SuperType() {
		case sysdesc.SuperTypeStar:
			b = NewStar(sb)
		case sysdesc.SuperTypeRockyPlanet, sysdesc.SuperTypeGasGiant:
			var t Terrain
			if s.terrainFor != nil {
				t = s.terrainFor(sb)
			}
			b = NewPlanet(sb, t)
		case sysdesc.SuperTypeStarport:
			b = NewSpaceStation(sb)
		default:
			return fmt.Errorf("%w: %s (%v)", ErrUnknownBodyType, sb.Name, sb.Type)
		}
		s.AddBody(b)
	}

	frame, err := s.makeFrameFor(sb, b, parent)
	if err != nil {
		return err
	}
	for _, child := range sb.Children {
		if err := s.genBody(child, frame); err != nil {
			return err
		}
	}
	return nil
}

func bodyID(b Body) BodyID {
	if b == nil {
		return 0
	}
	return b.ID()
}

// makeFrameFor creates the frames for one descriptor and returns the frame
// its children belong in.
func (s *Space) makeFrameFor(sb *sysdesc.Body, b Body, parent FrameID) (FrameID, error) {
	if sb.Parent == nil {
		root := s.frames[RootFrame]
		root.SBody = sb
		root.Astro = bodyID(b)
		if b != nil {
			s.SetFrame(b, RootFrame)
		}
		return RootFrame, nil
	}

	switch sb.SuperType() {
	case sysdesc.SuperTypeNone:
		orb := s.newFrame(parent, sb.Name)
		orb.SBody = sb
		orb.Astro = bodyID(b)
		orb.Radius = 1.1 * sb.MaxChildOrbitalDistance()
		return orb.ID, nil

	case sysdesc.SuperTypeStar:
		orb := s.newFrame(parent, sb.Name)
		orb.SBody = sb
		orb.Astro = bodyID(b)
		orb.Radius = orbitFrameRadius(sb)
		s.SetFrame(b, orb.ID)
		return orb.ID, nil

	case sysdesc.SuperTypeRockyPlanet, sysdesc.SuperTypeGasGiant:
		orb := s.newFrame(parent, sb.Name)
		orb.SBody = sb
		orb.Radius = orbitFrameRadius(sb)

		rot := s.newFrame(orb.ID, sb.Name+" rotating")
		rot.Radius = 1.1 * sb.Radius
		rot.AngVel = s.spin(sb)
		rot.Astro = b.ID()
		s.SetFrame(b, rot.ID)
		return orb.ID, nil

	case sysdesc.SuperTypeStarport:
		if sb.Type == sysdesc.TypeStarportSurface {
			return s.placeSurfaceStarport(sb, b, parent)
		}
		orb := s.newFrame(parent, sb.Name)
		orb.SBody = sb
		orb.Radius = stationOrbitFrameRadius

		rot := s.newFrame(orb.ID, sb.Name+" rotating")
		rot.Radius = stationRotFrameRadius
		rot.AngVel = s.spin(sb)
		s.SetFrame(b, rot.ID)
		return orb.ID, nil
	}
	return NoFrame, fmt.Errorf("%w: %s (%v)", ErrUnknownBodyType, sb.Name, sb.Type)
}

func orbitFrameRadius(sb *sysdesc.Body) float64 {
	if r := 1.1 * sb.MaxChildOrbitalDistance(); r > 0 {
		return r
	}
	return 10 * sb.Radius
}

// spin returns the rotating frame's angular velocity. A zero period leaves
// the frame non-rotating.
func (s *Space) spin(sb *sysdesc.Body) mgl64.Vec3 {
	if sb.RotationPeriod == 0 {
		s.log.Warn().Str("body", sb.Name).Msg("zero rotation period, frame will not rotate")
		return mgl64.Vec3{}
	}
	return mgl64.Vec3{0, 2 * math.Pi / sb.RotationPeriod, 0}
}

// placeSurfaceStarport puts a ground station on its planet's surface in the
// planet's rotating frame, moving it off sea-level sites when it can.
func (s *Space) placeSurfaceStarport(sb *sysdesc.Body, b Body, parent FrameID) (FrameID, error) {
	p := s.frames[parent]
	if len(p.Children) == 0 {
		return NoFrame, fmt.Errorf("%w: no rotating frame for surface starport %s", ErrFrameNotFound, sb.Name)
	}
	rotID := p.Children[0]
	ts, ok := s.byID[s.frames[rotID].Astro].(TerrainSource)
	if !ok {
		return NoFrame, fmt.Errorf("%w: surface starport %s is not on a planet", ErrFrameNotFound, sb.Name)
	}
	radius := sb.Parent.Radius

	up := mgl64.Vec3{0, 1, 0}
	rot := sb.SurfaceOrientation
	pos := rot.Rotate(up)
	if ts.TerrainHeight(pos)-radius <= 0 {
		rng := rand.New(rand.NewSource(sb.Seed))
		for tries := 0; tries < surfaceSiteRetries; tries++ {
			rot = mgl64.QuatRotate(2*math.Pi*rng.Float64(), mgl64.Vec3{0, 0, 1}).
				Mul(mgl64.QuatRotate(2*math.Pi*rng.Float64(), mgl64.Vec3{0, 1, 0}))
			pos = rot.Rotate(up)
			if ts.TerrainHeight(pos)-radius > 0 {
				break
			}
		}
	}

	b.SetPosition(pos.Mul(ts.TerrainHeight(pos)))
	b.SetOrientation(rot)
	s.SetFrame(b, rotID)
	return rotID, nil
}
