package craft

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spacecore/internal/space"
	"github.com/san-kum/spacecore/internal/sysdesc"
)

// Register installs snapshot loaders for ships and missiles.
func Register(sp *space.Space) {
	sp.RegisterLoader(KindShip, loadShip)
	sp.RegisterLoader(KindMissile, loadMissile)
}

func loadShip(_ *space.Space, st *space.BodyState) (space.Body, error) {
	spec := ShipSpec{
		Mass:        st.Mass,
		Inertia:     st.Inertia,
		HalfExtents: st.HalfExtents,
	}
	return NewShip(st.Label, spec), nil
}

func loadMissile(_ *space.Space, st *space.BodyState) (space.Body, error) {
	return NewMissile(nil, nil), nil
}

func (s *Ship) SaveState() map[string]float64 {
	return map[string]float64{
		"fuel":            s.fuel,
		"hull":            s.hull,
		"missiles":        float64(s.missiles),
		"target":          float64(s.target),
		"hostile":         boolf(s.hostile),
		"cooldown":        s.cooldown,
		"thrust_x":        s.thrust[0],
		"thrust_y":        s.thrust[1],
		"thrust_z":        s.thrust[2],
		"loc_sx":          float64(s.location.SectorX),
		"loc_sy":          float64(s.location.SectorY),
		"loc_sys":         float64(s.location.SystemIdx),
		"loc_body":        float64(s.location.BodyIdx),
		"fuel_capacity":   s.spec.FuelCapacity,
		"fuel_per_sector": s.spec.FuelPerSector,
		"max_hull":        s.spec.Hull,
		"max_thrust":      s.spec.Thrust,
		"magazine":        float64(s.spec.Missiles),
		"fire_range":      s.spec.FireRange,
		"fire_cooldown":   s.spec.FireCooldown,
	}
}

func (s *Ship) LoadState(extra map[string]float64) error {
	if extra == nil {
		return fmt.Errorf("ship %q: missing state", s.Label())
	}
	s.spec.FuelCapacity = extra["fuel_capacity"]
	s.spec.FuelPerSector = extra["fuel_per_sector"]
	s.spec.Hull = extra["max_hull"]
	s.spec.Thrust = extra["max_thrust"]
	s.spec.Missiles = int(extra["magazine"])
	s.spec.FireRange = extra["fire_range"]
	s.spec.FireCooldown = extra["fire_cooldown"]

	s.fuel = extra["fuel"]
	s.hull = extra["hull"]
	s.missiles = int(extra["missiles"])
	s.target = space.BodyID(extra["target"])
	s.hostile = extra["hostile"] != 0
	s.cooldown = extra["cooldown"]
	s.thrust = mgl64.Vec3{extra["thrust_x"], extra["thrust_y"], extra["thrust_z"]}
	s.location = sysdesc.Path{
		SectorX:   int(extra["loc_sx"]),
		SectorY:   int(extra["loc_sy"]),
		SystemIdx: int(extra["loc_sys"]),
		BodyIdx:   int(extra["loc_body"]),
	}
	return nil
}

// PostLoadFixup drops a target that did not survive into the snapshot.
func (s *Ship) PostLoadFixup(sp *space.Space) error {
	if s.target != 0 && sp.Body(s.target) == nil {
		s.target = 0
	}
	return nil
}

func (m *Missile) SaveState() map[string]float64 {
	return map[string]float64{
		"owner":    float64(m.owner),
		"target":   float64(m.target),
		"power":    float64(m.power),
		"lifetime": m.lifetime,
	}
}

func (m *Missile) LoadState(extra map[string]float64) error {
	m.owner = space.BodyID(extra["owner"])
	m.target = space.BodyID(extra["target"])
	m.power = int(extra["power"])
	m.lifetime = extra["lifetime"]
	return nil
}

func (m *Missile) PostLoadFixup(sp *space.Space) error {
	if m.target != 0 && sp.Body(m.target) == nil {
		m.target = 0
	}
	if m.owner != 0 && sp.Body(m.owner) == nil {
		m.owner = 0
	}
	return nil
}

func boolf(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
