package craft

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spacecore/internal/space"
)

const (
	missileMass     = 100.0
	missileInertia  = 10.0
	missileThrust   = 2e4
	missileFuse     = 100.0
	missileBlast    = 300.0
	missileDamage   = 500.0
	missileLifetime = 60.0
)

// Missile homes on its target and detonates inside the fuse distance or
// when its motor burns out.
type Missile struct {
	*space.DynamicBody

	owner    space.BodyID
	target   space.BodyID
	power    int
	lifetime float64
}

func NewMissile(owner, target space.Body) *Missile {
	m := &Missile{
		DynamicBody: space.NewDynamicBody(KindMissile, "missile", missileMass, missileInertia, mgl64.Vec3{0.3, 0.3, 1.5}),
		power:       1,
		lifetime:    missileLifetime,
	}
	if owner != nil {
		m.owner = owner.ID()
	}
	if target != nil {
		m.target = target.ID()
	}
	return m
}

func (m *Missile) Owner() space.BodyID  { return m.owner }
func (m *Missile) Target() space.BodyID { return m.target }
func (m *Missile) Lifetime() float64    { return m.lifetime }

func (m *Missile) TimeStepUpdate(sp *space.Space, dt float64) {
	if !m.Enabled() || m.IsDead() {
		m.DynamicBody.TimeStepUpdate(sp, dt)
		return
	}
	m.lifetime -= dt
	if m.lifetime <= 0 {
		m.explode(sp)
		return
	}
	if tgt := sp.Body(m.target); tgt != nil {
		rel := sp.PositionRelTo(tgt, m.Frame()).Sub(m.Position())
		d := rel.Len()
		if d < missileFuse {
			m.explode(sp)
			return
		}
		m.AddForce(rel.Mul(missileThrust / d))
	}
	m.DynamicBody.TimeStepUpdate(sp, dt)
}

func (m *Missile) explode(sp *space.Space) {
	sp.Logger().Debug().Uint64("missile", uint64(m.ID())).Msg("detonation")
	sp.KillBody(m)
	sp.RadiusDamage(m, m.Frame(), m.Position(), missileBlast, missileDamage)
}

// OnCollision detonates on anything but the launching ship.
func (m *Missile) OnCollision(sp *space.Space, other space.Body, _ float64) bool {
	if other.ID() == m.owner {
		return false
	}
	if !m.IsDead() {
		m.explode(sp)
	}
	return false
}

func (m *Missile) ECMAttack(sp *space.Space, power int) {
	if power >= m.power {
		sp.KillBody(m)
	}
}

func (m *Missile) NotifyDeath(_ *space.Space, dead space.Body) {
	switch dead.ID() {
	case m.target:
		m.target = 0
	case m.owner:
		m.owner = 0
	}
}
