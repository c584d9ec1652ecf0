package space

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spacecore/internal/sysdesc"
)

// BodyID identifies a registered body. Zero means none.
type BodyID uint64

// Kind names a body variant; snapshot loaders are registered per kind.
type Kind string

const (
	KindStar    Kind = "star"
	KindPlanet  Kind = "planet"
	KindStation Kind = "station"
	KindDynamic Kind = "dynamic"
)

type Flags uint32

const (
	// FlagCanMoveFrame lets migration move the body between frames.
	FlagCanMoveFrame Flags = 1 << iota
)

// Body is the contract shared by every simulated object. Implementations
// embed BodyBase, usually through DynamicBody.
type Body interface {
	ID() BodyID
	Label() string
	Kind() Kind
	Frame() FrameID
	Flags() Flags

	Position() mgl64.Vec3
	SetPosition(mgl64.Vec3)
	Velocity() mgl64.Vec3
	SetVelocity(mgl64.Vec3)
	Orientation() mgl64.Quat
	SetOrientation(mgl64.Quat)

	IsDead() bool
	Enabled() bool
	Enable()
	Disable()

	// TimeStepUpdate integrates the body over dt.
	TimeStepUpdate(s *Space, dt float64)
	// StaticUpdate runs after every body has been stepped.
	StaticUpdate(s *Space, dt float64)
	// NotifyDeath tells a live body that another body is about to be removed.
	NotifyDeath(s *Space, dead Body)
	// OnCollision may veto a contact by returning false.
	OnCollision(s *Space, other Body, relVel float64) bool

	base() *BodyBase
}

type Massive interface {
	Mass() float64
}

// Dynamic is a body moved by forces. Only DynamicBody and types embedding
// it satisfy it.
type Dynamic interface {
	Body
	Massive
	AngularInertia() float64
	AngVelocity() mgl64.Vec3
	SetAngVelocity(mgl64.Vec3)
	AddForce(mgl64.Vec3)
	AddTorque(mgl64.Vec3)
	Aabb() (min, max mgl64.Vec3)

	dynamic() *DynamicBody
}

// Orbital is a body built from a system descriptor.
type Orbital interface {
	SBody() *sysdesc.Body
}

type Collidable interface {
	BoundingRadius() float64
}

type Damageable interface {
	OnDamage(s *Space, attacker Body, kgDamage float64)
}

type ECMVulnerable interface {
	ECMAttack(s *Space, power int)
}

// TerrainSource gives the surface height along a unit direction from the
// body centre.
type TerrainSource interface {
	TerrainHeight(dir mgl64.Vec3) float64
}

// Jumper can enter hyperspace.
type Jumper interface {
	Dynamic
	CanHyperspaceTo(dest sysdesc.Path) bool
	UseHyperspaceFuel(dest sysdesc.Path)
}

// Destroyer is told when its body leaves the registry for good.
type Destroyer interface {
	OnDestroy()
}

// BodyBase carries the state every body shares.
type BodyBase struct {
	id       BodyID
	label    string
	kind     Kind
	frame    FrameID
	flags    Flags
	pos      mgl64.Vec3
	vel      mgl64.Vec3
	orient   mgl64.Quat
	dead     bool
	disabled bool
}

func NewBodyBase(kind Kind, label string, flags Flags) BodyBase {
	return BodyBase{kind: kind, label: label, flags: flags, frame: NoFrame, orient: mgl64.QuatIdent()}
}

func (b *BodyBase) ID() BodyID               { return b.id }
func (b *BodyBase) Label() string            { return b.label }
func (b *BodyBase) SetLabel(label string)    { b.label = label }
func (b *BodyBase) Kind() Kind               { return b.kind }
func (b *BodyBase) Frame() FrameID           { return b.frame }
func (b *BodyBase) Flags() Flags             { return b.flags }
func (b *BodyBase) SetFlags(f Flags)         { b.flags = f }
func (b *BodyBase) Position() mgl64.Vec3     { return b.pos }
func (b *BodyBase) SetPosition(p mgl64.Vec3) { b.pos = p }
func (b *BodyBase) Velocity() mgl64.Vec3     { return b.vel }
func (b *BodyBase) SetVelocity(v mgl64.Vec3) { b.vel = v }
func (b *BodyBase) Orientation() mgl64.Quat  { return b.orient }
func (b *BodyBase) SetOrientation(q mgl64.Quat) {
	b.orient = q.Normalize()
}
func (b *BodyBase) IsDead() bool  { return b.dead }
func (b *BodyBase) Enabled() bool { return !b.disabled }
func (b *BodyBase) Enable()       { b.disabled = false }
func (b *BodyBase) Disable()      { b.disabled = true }

func (b *BodyBase) TimeStepUpdate(*Space, float64)         {}
func (b *BodyBase) StaticUpdate(*Space, float64)           {}
func (b *BodyBase) NotifyDeath(*Space, Body)               {}
func (b *BodyBase) OnCollision(*Space, Body, float64) bool { return true }
func (b *BodyBase) base() *BodyBase                        { return b }
