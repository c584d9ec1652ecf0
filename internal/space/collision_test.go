package space

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spacecore/internal/sysdesc"
	"github.com/san-kum/spacecore/internal/terrain"
)

func contactVel(b *DynamicBody, at mgl64.Vec3) mgl64.Vec3 {
	return b.Velocity().Add(b.AngVelocity().Cross(at.Sub(b.Position())))
}

func momentum(bodies ...*DynamicBody) mgl64.Vec3 {
	var p mgl64.Vec3
	for _, b := range bodies {
		p = p.Add(b.Velocity().Mul(b.Mass()))
	}
	return p
}

// angularMomentum is taken about the frame origin.
func angularMomentum(bodies ...*DynamicBody) mgl64.Vec3 {
	var l mgl64.Vec3
	for _, b := range bodies {
		l = l.Add(b.Position().Cross(b.Velocity().Mul(b.Mass())))
		l = l.Add(b.AngVelocity().Mul(b.AngularInertia()))
	}
	return l
}

func TestCollisionHeadOn(t *testing.T) {
	tests := []struct {
		name    string
		posA    mgl64.Vec3
		posB    mgl64.Vec3
		massA   float64
		massB   float64
		contact mgl64.Vec3
	}{
		{"centred equal mass", mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{1, 0, 0}, 2, 2, mgl64.Vec3{}},
		{"centred unequal mass", mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{1, 0, 0}, 2, 3, mgl64.Vec3{}},
		{"off centre", mgl64.Vec3{-1, 0.5, 0}, mgl64.Vec3{1, -0.3, 0.2}, 2, 3, mgl64.Vec3{}},
		{"off centre contact", mgl64.Vec3{-1, 0.5, 0}, mgl64.Vec3{1, -0.3, 0.2}, 2, 3, mgl64.Vec3{0.1, 0.2, -0.1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			s := New(nil, WithObserver(rec))
			a := NewDynamicBody(KindDynamic, "a", tt.massA, 1, mgl64.Vec3{1, 1, 1})
			b := NewDynamicBody(KindDynamic, "b", tt.massB, 1, mgl64.Vec3{1, 1, 1})
			a.SetPosition(tt.posA)
			b.SetPosition(tt.posB)
			a.SetVelocity(mgl64.Vec3{2, 0, 0})
			b.SetVelocity(mgl64.Vec3{-1, 0, 0})
			s.AddBody(a)
			s.AddBody(b)

			a.SetAngVelocity(mgl64.Vec3{0, 0.3, 0})
			c := &Contact{Pos: tt.contact, Normal: mgl64.Vec3{-1, 0, 0}, Depth: 0.1, A: a, B: b}
			pre := contactVel(a, c.Pos).Sub(contactVel(b, c.Pos)).Dot(c.Normal)
			p0 := momentum(a, b)
			l0 := angularMomentum(a, b)

			s.hit(c)

			post := contactVel(a, c.Pos).Sub(contactVel(b, c.Pos)).Dot(c.Normal)
			if math.Abs(post-(-Restitution*pre)) > 1e-9 {
				t.Errorf("post relVel = %f, want %f", post, -Restitution*pre)
			}
			assertVec(t, "momentum", momentum(a, b), p0, 1e-9)
			assertVec(t, "angular momentum", angularMomentum(a, b), l0, 1e-9)
			if rec.contacts != 1 {
				t.Errorf("contacts = %d, want 1", rec.contacts)
			}
		})
	}
}

func TestCollisionCentredHasNoSpin(t *testing.T) {
	s := New(nil)
	a := NewDynamicBody(KindDynamic, "a", 2, 1, mgl64.Vec3{1, 1, 1})
	b := NewDynamicBody(KindDynamic, "b", 2, 1, mgl64.Vec3{1, 1, 1})
	a.SetPosition(mgl64.Vec3{-1, 0, 0})
	b.SetPosition(mgl64.Vec3{1, 0, 0})
	a.SetVelocity(mgl64.Vec3{2, 0, 0})
	b.SetVelocity(mgl64.Vec3{-1, 0, 0})
	s.AddBody(a)
	s.AddBody(b)

	s.hit(&Contact{Normal: mgl64.Vec3{-1, 0, 0}, A: a, B: b})

	assertVec(t, "a vel", a.Velocity(), mgl64.Vec3{-0.25, 0, 0}, 1e-12)
	assertVec(t, "b vel", b.Velocity(), mgl64.Vec3{1.25, 0, 0}, 1e-12)
	assertVec(t, "a spin", a.AngVelocity(), mgl64.Vec3{}, 0)
}

func TestCollisionSeparatingIsIgnored(t *testing.T) {
	s := New(nil)
	a := newTestShip("a")
	b := newTestShip("b")
	a.SetPosition(mgl64.Vec3{-1, 0, 0})
	b.SetPosition(mgl64.Vec3{1, 0, 0})
	a.SetVelocity(mgl64.Vec3{-2, 0, 0})
	s.AddBody(a)
	s.AddBody(b)

	s.hit(&Contact{Normal: mgl64.Vec3{-1, 0, 0}, A: a, B: b})

	if a.hits != 0 || b.hits != 0 {
		t.Error("collision hooks ran for separating bodies")
	}
	assertVec(t, "a vel", a.Velocity(), mgl64.Vec3{-2, 0, 0}, 0)
}

func TestCollisionVeto(t *testing.T) {
	s := New(nil)
	a := newTestShip("a")
	b := newTestShip("ghost")
	b.veto = true
	a.SetPosition(mgl64.Vec3{-1, 0, 0})
	b.SetPosition(mgl64.Vec3{1, 0, 0})
	a.SetVelocity(mgl64.Vec3{2, 0, 0})
	s.AddBody(a)
	s.AddBody(b)

	s.hit(&Contact{Normal: mgl64.Vec3{-1, 0, 0}, A: a, B: b})

	if a.hits != 1 || b.hits != 1 {
		t.Errorf("hooks = %d, %d, want both called once", a.hits, b.hits)
	}
	assertVec(t, "a vel", a.Velocity(), mgl64.Vec3{2, 0, 0}, 0)
	assertVec(t, "b vel", b.Velocity(), mgl64.Vec3{}, 0)
}

func TestCollisionAgainstStaticBody(t *testing.T) {
	sb := &sysdesc.Body{Name: "Sun", Type: sysdesc.TypeStarG, Mass: 2e30, Radius: 100}

	// The static body may be reported on either side of the contact.
	for _, staticFirst := range []bool{false, true} {
		s := New(nil)
		star := NewStar(sb)
		ship := NewDynamicBody(KindDynamic, "ship", 10, 1, mgl64.Vec3{1, 1, 1})
		ship.SetPosition(mgl64.Vec3{0, 101, 0})
		ship.SetVelocity(mgl64.Vec3{0, -4, 0})
		s.AddBody(star)
		s.AddBody(ship)

		c := &Contact{Pos: mgl64.Vec3{0, 100, 0}, Normal: mgl64.Vec3{0, 1, 0}, A: ship, B: star}
		if staticFirst {
			c = &Contact{Pos: mgl64.Vec3{0, 100, 0}, Normal: mgl64.Vec3{0, -1, 0}, A: star, B: ship}
		}
		s.hit(c)

		assertVec(t, "bounce", ship.Velocity(), mgl64.Vec3{0, 2, 0}, 1e-12)
		assertVec(t, "star", star.Velocity(), mgl64.Vec3{}, 0)
	}
}

func TestTerrainCollision(t *testing.T) {
	rec := &recorder{}
	s := New(nil, WithObserver(rec))
	sb := &sysdesc.Body{Name: "Rock", Type: sysdesc.TypePlanetRocky, Mass: 1e12, Radius: 1000}
	planet := NewPlanet(sb, terrain.Sphere{Radius: 1000})
	s.AddBody(planet)
	f := childFrame(s, RootFrame, "rock", mgl64.Vec3{}, 5000)
	f.Astro = planet.ID()
	s.SetFrame(planet, f.ID)

	lander := NewDynamicBody(KindDynamic, "lander", 1000, 1e6, mgl64.Vec3{1, 1, 1})
	lander.SetPosition(mgl64.Vec3{0, 1000.5, 0})
	lander.SetVelocity(mgl64.Vec3{0, -10, 0})
	s.AddBody(lander)
	s.SetFrame(lander, f.ID)

	hovering := NewDynamicBody(KindDynamic, "hover", 1000, 1e6, mgl64.Vec3{1, 1, 1})
	hovering.SetPosition(mgl64.Vec3{0, -1100, 0})
	s.AddBody(hovering)
	s.SetFrame(hovering, f.ID)

	s.collideFrame(RootFrame)

	if rec.contacts == 0 {
		t.Fatal("expected terrain contacts")
	}
	if lander.Velocity().Y() <= 0 {
		t.Errorf("lander still descending: %v", lander.Velocity())
	}
	assertVec(t, "hovering", hovering.Velocity(), mgl64.Vec3{}, 0)
}
