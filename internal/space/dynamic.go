package space

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/spacecore/internal/integrators"
	"github.com/san-kum/spacecore/internal/sysdesc"
)

// DynamicBody is a rigid body integrated under accumulated force and
// torque. Forces are cleared after every time step.
type DynamicBody struct {
	BodyBase

	mass        float64
	inertia     float64
	halfExtents mgl64.Vec3
	angVel      mgl64.Vec3
	force       mgl64.Vec3
	torque      mgl64.Vec3
	// gravity is the part of force contributed by the dominant mass.
	gravity mgl64.Vec3
}

// NewDynamicBody creates a body that can move between frames. The box
// described by halfExtents is its collision hull.
func NewDynamicBody(kind Kind, label string, mass, inertia float64, halfExtents mgl64.Vec3) *DynamicBody {
	return &DynamicBody{
		BodyBase:    NewBodyBase(kind, label, FlagCanMoveFrame),
		mass:        mass,
		inertia:     inertia,
		halfExtents: halfExtents,
	}
}

func (d *DynamicBody) Mass() float64               { return d.mass }
func (d *DynamicBody) AngularInertia() float64     { return d.inertia }
func (d *DynamicBody) HalfExtents() mgl64.Vec3     { return d.halfExtents }
func (d *DynamicBody) AngVelocity() mgl64.Vec3     { return d.angVel }
func (d *DynamicBody) SetAngVelocity(w mgl64.Vec3) { d.angVel = w }
func (d *DynamicBody) AddForce(f mgl64.Vec3)       { d.force = d.force.Add(f) }
func (d *DynamicBody) AddTorque(t mgl64.Vec3)      { d.torque = d.torque.Add(t) }
func (d *DynamicBody) Force() mgl64.Vec3           { return d.force }
func (d *DynamicBody) Torque() mgl64.Vec3          { return d.torque }
func (d *DynamicBody) BoundingRadius() float64     { return d.halfExtents.Len() }
func (d *DynamicBody) dynamic() *DynamicBody       { return d }

// Aabb is the body-local bounding box.
func (d *DynamicBody) Aabb() (min, max mgl64.Vec3) {
	return d.halfExtents.Mul(-1), d.halfExtents
}

func (d *DynamicBody) invMass() float64 {
	if d.mass <= 0 {
		return 0
	}
	return 1 / d.mass
}

func (d *DynamicBody) invInertia() float64 {
	if d.inertia <= 0 {
		return 0
	}
	return 1 / d.inertia
}

// TimeStepUpdate integrates linear motion through the space's integrator
// and spins the orientation by the angular velocity. Gravity from the
// frame's dominant mass is re-evaluated at every integrator stage; other
// forces are held for the whole step. Disabled bodies keep their state but
// still drop accumulated forces.
func (d *DynamicBody) TimeStepUpdate(s *Space, dt float64) {
	defer d.clearForces()
	if !d.Enabled() {
		return
	}

	x := integrators.State{d.pos[0], d.pos[1], d.pos[2], d.vel[0], d.vel[1], d.vel[2]}
	// The clock has already moved on; the step starts dt earlier.
	next := s.integrator.Step(d.accelField(s), x, s.time-dt, dt)
	d.pos = mgl64.Vec3{next[0], next[1], next[2]}
	d.vel = mgl64.Vec3{next[3], next[4], next[5]}

	d.angVel = d.angVel.Add(d.torque.Mul(d.invInertia() * dt))
	if w := d.angVel.Len(); w > 0 {
		d.orient = mgl64.QuatRotate(w*dt, d.angVel.Mul(1/w)).Mul(d.orient).Normalize()
	}
}

// accelField splits the accumulated force into a point-mass well and a
// constant remainder. Without a well in the current frame the recorded
// gravity stays in the remainder.
func (d *DynamicBody) accelField(s *Space) gravityWell {
	w := gravityWell{accel: d.force.Mul(d.invMass())}
	if d.gravity.Len() == 0 {
		return w
	}
	lump := s.DominantMass(d.Frame())
	m, ok := lump.(Massive)
	if !ok || lump.ID() == d.ID() {
		return w
	}
	w.accel = d.force.Sub(d.gravity).Mul(d.invMass())
	w.centre = s.PositionRelTo(lump, d.Frame())
	w.gm = sysdesc.G * m.Mass()
	return w
}

func (d *DynamicBody) clearForces() {
	d.force = mgl64.Vec3{}
	d.torque = mgl64.Vec3{}
	d.gravity = mgl64.Vec3{}
}

// gravityWell is a fixed acceleration plus inverse-square attraction to
// centre.
type gravityWell struct {
	accel  mgl64.Vec3
	centre mgl64.Vec3
	gm     float64
}

func (w gravityWell) Derive(x integrators.State, _ float64) integrators.State {
	a := w.accel
	if w.gm > 0 {
		delta := w.centre.Sub(mgl64.Vec3{x[0], x[1], x[2]})
		if r := delta.Len(); r > 0 {
			a = a.Add(delta.Mul(w.gm / (r * r * r)))
		}
	}
	return integrators.State{x[3], x[4], x[5], a[0], a[1], a[2]}
}
