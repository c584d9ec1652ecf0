// Package craft implements the player-flyable bodies: ships with fuel,
// hull and hyperdrive, and the guided missiles they fire.
package craft

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spacecore/internal/space"
	"github.com/san-kum/spacecore/internal/sysdesc"
)

const (
	KindShip    space.Kind = "ship"
	KindMissile space.Kind = "missile"
)

// Impacts slower than this do no hull damage.
const safeImpactSpeed = 50.0

// ShipSpec describes a hull type.
type ShipSpec struct {
	Mass          float64
	Inertia       float64
	HalfExtents   mgl64.Vec3
	FuelCapacity  float64
	FuelPerSector float64
	Hull          float64
	Thrust        float64
	Missiles      int
	// FireRange is how close a hostile ship gets before launching.
	FireRange    float64
	FireCooldown float64
}

func DefaultShipSpec() ShipSpec {
	return ShipSpec{
		Mass:          2e5,
		Inertia:       5e6,
		HalfExtents:   mgl64.Vec3{15, 6, 25},
		FuelCapacity:  20,
		FuelPerSector: 4,
		Hull:          5e4,
		Thrust:        4e6,
		Missiles:      4,
		FireRange:     5e4,
		FireCooldown:  10,
	}
}

type Ship struct {
	*space.DynamicBody

	spec     ShipSpec
	fuel     float64
	hull     float64
	thrust   mgl64.Vec3
	location sysdesc.Path
	target   space.BodyID
	missiles int
	hostile  bool
	cooldown float64
}

func NewShip(label string, spec ShipSpec) *Ship {
	return &Ship{
		DynamicBody: space.NewDynamicBody(KindShip, label, spec.Mass, spec.Inertia, spec.HalfExtents),
		spec:        spec,
		fuel:        spec.FuelCapacity,
		hull:        spec.Hull,
		missiles:    spec.Missiles,
	}
}

func (s *Ship) Spec() ShipSpec             { return s.spec }
func (s *Ship) Fuel() float64              { return s.fuel }
func (s *Ship) Hull() float64              { return s.hull }
func (s *Ship) Missiles() int              { return s.missiles }
func (s *Ship) Hostile() bool              { return s.hostile }
func (s *Ship) Target() space.BodyID       { return s.target }
func (s *Ship) Location() sysdesc.Path     { return s.location }
func (s *Ship) SetLocation(p sysdesc.Path) { s.location = p }

func (s *Ship) SetTarget(b space.Body) {
	if b == nil {
		s.target = 0
		return
	}
	s.target = b.ID()
}

// SetThrust sets the engine command in body coordinates; each component
// is clamped to [-1, 1] of full thrust.
func (s *Ship) SetThrust(t mgl64.Vec3) {
	for i := range t {
		t[i] = mgl64.Clamp(t[i], -1, 1)
	}
	s.thrust = t
}

// JumpCost is the fuel needed to reach dest from the ship's current
// location. Jumps inside a sector cost one sector's worth.
func (s *Ship) JumpCost(dest sysdesc.Path) float64 {
	dx := float64(dest.SectorX - s.location.SectorX)
	dy := float64(dest.SectorY - s.location.SectorY)
	return s.spec.FuelPerSector * math.Max(1, math.Hypot(dx, dy))
}

func (s *Ship) CanHyperspaceTo(dest sysdesc.Path) bool {
	return s.fuel >= s.JumpCost(dest)
}

func (s *Ship) UseHyperspaceFuel(dest sysdesc.Path) {
	s.fuel -= s.JumpCost(dest)
	s.location = dest
}

func (s *Ship) TimeStepUpdate(sp *space.Space, dt float64) {
	if s.Enabled() {
		if s.thrust.Len() > 0 {
			s.AddForce(s.Orientation().Rotate(s.thrust.Mul(s.spec.Thrust)))
		}
		if s.hostile {
			s.pursue(sp)
		}
	}
	s.DynamicBody.TimeStepUpdate(sp, dt)
}

func (s *Ship) pursue(sp *space.Space) {
	tgt := sp.Body(s.target)
	if tgt == nil {
		return
	}
	rel := sp.PositionRelTo(tgt, s.Frame()).Sub(s.Position())
	if d := rel.Len(); d > s.spec.FireRange/2 {
		s.AddForce(rel.Mul(0.5 * s.spec.Thrust / d))
	}
}

// StaticUpdate lets hostile ships fire at their target.
func (s *Ship) StaticUpdate(sp *space.Space, dt float64) {
	if s.cooldown > 0 {
		s.cooldown -= dt
	}
	if !s.hostile || !s.Enabled() || s.cooldown > 0 {
		return
	}
	tgt := sp.Body(s.target)
	if tgt == nil {
		return
	}
	if sp.PositionRelTo(tgt, s.Frame()).Sub(s.Position()).Len() <= s.spec.FireRange {
		if s.FireMissile(sp, tgt) != nil {
			s.cooldown = s.spec.FireCooldown
		}
	}
}

// FireMissile launches a missile at target from just ahead of the ship.
// It returns nil when the magazine is empty.
func (s *Ship) FireMissile(sp *space.Space, target space.Body) *Missile {
	if s.missiles <= 0 || target == nil {
		return nil
	}
	s.missiles--
	m := NewMissile(s, target)
	ahead := s.Orientation().Rotate(mgl64.Vec3{0, 0, -(s.spec.HalfExtents.Z() + 5)})
	m.SetPosition(s.Position().Add(ahead))
	m.SetVelocity(s.Velocity())
	m.SetOrientation(s.Orientation())
	sp.AddBody(m)
	sp.SetFrame(m, s.Frame())
	sp.Logger().Debug().Str("ship", s.Label()).Str("target", target.Label()).Msg("missile away")
	return m
}

func (s *Ship) OnDamage(sp *space.Space, attacker space.Body, kgDamage float64) {
	if s.IsDead() {
		return
	}
	s.hull -= kgDamage
	if s.hull <= 0 {
		name := "unknown"
		if attacker != nil {
			name = attacker.Label()
		}
		sp.Logger().Info().Str("ship", s.Label()).Str("by", name).Msg("ship destroyed")
		sp.KillBody(s)
	}
}

func (s *Ship) OnCollision(sp *space.Space, other space.Body, relVel float64) bool {
	if relVel > safeImpactSpeed {
		s.OnDamage(sp, other, (relVel-safeImpactSpeed)*s.Mass()*1e-3)
	}
	return true
}

func (s *Ship) NotifyDeath(_ *space.Space, dead space.Body) {
	if dead.ID() == s.target {
		s.target = 0
	}
}

func (s *Ship) String() string {
	return fmt.Sprintf("%s (hull %.0f, fuel %.1f)", s.Label(), s.hull, s.fuel)
}
