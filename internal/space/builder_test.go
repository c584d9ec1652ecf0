package space

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spacecore/internal/sysdesc"
)

type fixedGenerator struct {
	sys *sysdesc.System
}

func (g fixedGenerator) Generate(int, int, int) (*sysdesc.System, error) {
	return g.sys, nil
}

func bodyNamed(s *Space, name string) Body {
	for _, b := range s.Bodies() {
		if b.Label() == name {
			return b
		}
	}
	return nil
}

func TestBuildSol(t *testing.T) {
	s := New(mustCatalog(t))
	if err := s.EnterSystem(nil, sysdesc.Path{BodyIdx: 2}); err != nil {
		t.Fatal(err)
	}

	// Root plus orbit and rotating frames for five planets and one orbital
	// station.
	if s.NumFrames() != 13 {
		t.Errorf("frames = %d, want 13", s.NumFrames())
	}
	if s.NumBodies() != 9 {
		t.Errorf("bodies = %d, want 9", s.NumBodies())
	}

	sol := bodyNamed(s, "Sol")
	if s.Root().Astro != sol.ID() || sol.Frame() != RootFrame {
		t.Error("star not placed in root frame")
	}

	earth := bodyNamed(s, "Earth").(*Planet)
	rot := s.Frame(earth.Frame())
	if rot.Astro != earth.ID() || !rot.IsRotating() {
		t.Fatal("planet not in its rotating frame")
	}
	if math.Abs(rot.AngVel.Y()-2*math.Pi/86164) > 1e-15 {
		t.Errorf("spin = %v", rot.AngVel)
	}
	if math.Abs(rot.Radius-1.1*6.371e6) > 1e-6 {
		t.Errorf("rotating frame radius = %f", rot.Radius)
	}
	orb := s.Frame(rot.Parent)
	if orb.SBody != earth.SBody() || orb.Pos.Len() < 1.4e11 {
		t.Errorf("orbit frame not on Earth's orbit: %v", orb.Pos)
	}
	if orb.Vel.Len() < 2e4 || orb.Vel.Len() > 4e4 {
		t.Errorf("orbital speed = %f m/s", orb.Vel.Len())
	}

	moon := bodyNamed(s, "Moon")
	moonOrb := s.Frame(s.Frame(moon.Frame()).Parent)
	if moonOrb.Parent != orb.ID {
		t.Error("moon frame not a child of Earth's orbit frame")
	}

	station := bodyNamed(s, "Shuttleworth Orbital").(*SpaceStation)
	stRot := s.Frame(station.Frame())
	if stRot.Radius != stationRotFrameRadius || s.Frame(stRot.Parent).Radius != stationOrbitFrameRadius {
		t.Error("orbital station frames have wrong radii")
	}
	if station.IsGroundStation() {
		t.Error("orbital station reported as ground station")
	}

	sydney := bodyNamed(s, "Sydney").(*SpaceStation)
	if sydney.Frame() != earth.Frame() {
		t.Error("surface starport not in planet's rotating frame")
	}
	alt := sydney.Position().Len()
	h := earth.TerrainHeight(sydney.Position().Normalize())
	if math.Abs(alt-h) > 1e-6 || alt <= earth.Radius() {
		t.Errorf("surface starport altitude %f, terrain %f, radius %f", alt, h, earth.Radius())
	}
}

func TestBuildGravpointSystem(t *testing.T) {
	s := New(mustCatalog(t))
	if err := s.EnterSystem(nil, sysdesc.Path{SectorX: 1, BodyIdx: 1}); err != nil {
		t.Fatal(err)
	}
	root := s.Root()
	if root.Astro != 0 || root.SBody == nil || root.SBody.Type != sysdesc.TypeGravpoint {
		t.Fatal("root should be a bodiless gravpoint frame")
	}
	if s.NumFrames() != 5 || s.NumBodies() != 3 {
		t.Errorf("frames=%d bodies=%d, want 5 and 3", s.NumFrames(), s.NumBodies())
	}
	if lump := s.DominantMass(RootFrame); lump == nil || lump.Label() != "Alpha Centauri A" {
		t.Errorf("gravpoint dominant mass = %v", lump)
	}
	a, b := s.Frame(root.Children[0]), s.Frame(root.Children[1])
	if a.Pos.Sub(b.Pos).Len() < 1e11 {
		t.Error("binary stars on top of each other")
	}
}

func TestBuildUnknownBodyType(t *testing.T) {
	root := &sysdesc.Body{Name: "Star", Type: sysdesc.TypeStarG, Mass: 1, Radius: 1}
	odd := &sysdesc.Body{Name: "Oddity", Type: sysdesc.BodyType(99), Parent: root, Index: 1}
	root.Children = []*sysdesc.Body{odd}
	sys := &sysdesc.System{Name: "Broken", Root: root, Bodies: []*sysdesc.Body{root, odd}}

	s := New(fixedGenerator{sys})
	err := s.EnterSystem(nil, sysdesc.Path{})
	if !errors.Is(err, ErrUnknownBodyType) {
		t.Errorf("err = %v, want ErrUnknownBodyType", err)
	}
}

func TestBuildZeroRotationPeriod(t *testing.T) {
	root := &sysdesc.Body{Name: "Star", Type: sysdesc.TypeStarG, Mass: 2e30, Radius: 7e8}
	planet := &sysdesc.Body{
		Name: "Tidal", Type: sysdesc.TypePlanetRocky, Mass: 6e24, Radius: 6e6,
		Orbit: sysdesc.FixedOrbit{Offset: mgl64.Vec3{1e11, 0, 0}}, Parent: root, Index: 1,
	}
	root.Children = []*sysdesc.Body{planet}
	sys := &sysdesc.System{Name: "Still", Root: root, Bodies: []*sysdesc.Body{root, planet}}

	s := New(fixedGenerator{sys})
	if err := s.EnterSystem(nil, sysdesc.Path{BodyIdx: 1}); err != nil {
		t.Fatal(err)
	}
	p := bodyNamed(s, "Tidal")
	rot := s.Frame(p.Frame())
	if rot.IsRotating() {
		t.Errorf("zero period planet spins at %v", rot.AngVel)
	}
	orb := s.Frame(rot.Parent)
	if orb.Radius != 60e6 {
		t.Errorf("childless orbit frame radius = %f, want 10 planet radii", orb.Radius)
	}
	assertVec(t, "fixed orbit", orb.Pos, mgl64.Vec3{1e11, 0, 0}, 0)
}

func TestBuildSystemWithoutSystem(t *testing.T) {
	if err := New(nil).BuildSystem(); !errors.Is(err, ErrNoSystem) {
		t.Errorf("err = %v", err)
	}
}
