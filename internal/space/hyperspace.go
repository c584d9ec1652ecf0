package space

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spacecore/internal/sysdesc"
)

// Transition is a hyperspace jump in progress.
type Transition struct {
	Dest    sysdesc.Path
	Elapsed float64
	Jumper  BodyID
}

func (s *Space) Hyperspacing() bool { return s.transition != nil }

// HyperspaceProgress is the fraction of the pending jump already elapsed,
// or 0 when idle.
func (s *Space) HyperspaceProgress() float64 {
	if s.transition == nil {
		return 0
	}
	return math.Min(s.transition.Elapsed/s.hyperspaceDuration, 1)
}

// PendingTransition returns a copy of the pending jump, if any.
func (s *Space) PendingTransition() (Transition, bool) {
	if s.transition == nil {
		return Transition{}, false
	}
	return *s.transition, true
}

// StartHyperspaceTo begins a jump. It returns false and changes nothing
// when a jump is already pending, the jumper cannot afford it or dest lies
// in the current system.
func (s *Space) StartHyperspaceTo(j Jumper, dest sysdesc.Path) bool {
	logger := s.log.With().Str("jumper", j.Label()).Stringer("dest", dest).Logger()
	if s.transition != nil {
		logger.Debug().Msg("hyperspace request rejected: jump in progress")
		return false
	}
	if !j.CanHyperspaceTo(dest) {
		logger.Debug().Msg("hyperspace request rejected: out of range")
		return false
	}
	if s.system != nil && s.system.IsSystem(dest.SectorX, dest.SectorY, dest.SystemIdx) {
		logger.Debug().Msg("hyperspace request rejected: already in system")
		return false
	}

	s.Clear(j)
	j.UseHyperspaceFuel(dest)
	j.Disable()
	s.transition = &Transition{Dest: dest, Jumper: j.ID()}
	logger.Info().Msg("entering hyperspace")
	return true
}

func (s *Space) advanceHyperspace(dt float64) error {
	if s.transition == nil {
		return nil
	}
	s.transition.Elapsed += dt
	if s.transition.Elapsed <= s.hyperspaceDuration {
		return nil
	}

	t := *s.transition
	j, _ := s.Body(t.Jumper).(Jumper)
	s.transition = nil
	return s.EnterSystem(j, t.Dest)
}

// EnterSystem generates and builds the system holding dest and places j
// near the body dest names. It is how a jump completes and how a new game
// starts. j may be nil to build an empty system.
func (s *Space) EnterSystem(j Jumper, dest sysdesc.Path) error {
	if s.generator == nil {
		return ErrNoGenerator
	}
	sys, err := s.generator.Generate(dest.SectorX, dest.SectorY, dest.SystemIdx)
	if err != nil {
		return fmt.Errorf("generate %s: %w", dest, err)
	}

	var keep Body
	if j != nil {
		keep = j
		if s.Body(j.ID()) == nil {
			s.AddBody(j)
		}
	}
	s.transition = nil
	s.Clear(keep)
	s.system = sys
	if err := s.BuildSystem(); err != nil {
		return err
	}

	target := sys.BodyByPath(dest)
	if target == nil {
		return fmt.Errorf("%w: %s", ErrBodyNotFound, dest)
	}
	frame := s.FrameWithSBody(target)
	if frame == NoFrame {
		return fmt.Errorf("%w: %s", ErrFrameNotFound, target.Name)
	}

	if j != nil {
		lon := s.rng.Float64() * math.Pi
		lat := s.rng.Float64() * math.Pi
		dist := (0.4 + s.rng.Float64()*0.2) * sysdesc.AU
		j.SetPosition(mgl64.Vec3{
			math.Sin(lon) * math.Cos(lat) * dist,
			math.Sin(lat) * dist,
			math.Cos(lon) * math.Cos(lat) * dist,
		})
		j.SetVelocity(mgl64.Vec3{})
		s.SetFrame(j, frame)
		j.Enable()
	}

	s.log.Info().
		Str("system", sys.Name).
		Str("target", target.Name).
		Int("frames", len(s.frames)).
		Int("bodies", len(s.bodies)).
		Msg("arrived in system")
	for _, fn := range s.arrivals {
		fn(s, j)
	}
	return nil
}
