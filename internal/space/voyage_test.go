package space_test

import (
	"bytes"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/san-kum/spacecore/internal/collide"
	"github.com/san-kum/spacecore/internal/craft"
	"github.com/san-kum/spacecore/internal/space"
	"github.com/san-kum/spacecore/internal/sysdesc"
)

var (
	earth   = sysdesc.Path{BodyIdx: 2}
	prime   = sysdesc.Path{SectorX: 1, SystemIdx: 0, BodyIdx: 2}
	barnard = sysdesc.Path{SystemIdx: 1, BodyIdx: 1}
)

func newWorld(opts ...space.Option) *space.Space {
	cat, err := sysdesc.DefaultCatalog()
	Expect(err).NotTo(HaveOccurred())
	opts = append([]space.Option{space.WithCollisionSpaces(collide.New)}, opts...)
	s := space.New(cat, opts...)
	craft.Register(s)
	return s
}

func hostiles(s *space.Space) []*craft.Ship {
	var out []*craft.Ship
	for _, b := range s.Bodies() {
		if sh, ok := b.(*craft.Ship); ok && sh.Hostile() {
			out = append(out, sh)
		}
	}
	return out
}

func tickFor(s *space.Space, seconds, dt float64) {
	for t := 0.0; t < seconds; t += dt {
		Expect(s.Tick(dt)).To(Succeed())
	}
}

var _ = Describe("Hyperspace", func() {
	var (
		s    *space.Space
		ship *craft.Ship
	)

	BeforeEach(func() {
		s = newWorld()
		ship = craft.NewShip("Eagle", craft.DefaultShipSpec())
		ship.SetLocation(earth)
		Expect(s.EnterSystem(ship, earth)).To(Succeed())
	})

	It("charges fuel by sector distance", func() {
		Expect(ship.JumpCost(barnard)).To(Equal(4.0))
		Expect(ship.JumpCost(sysdesc.Path{SectorX: 3, SectorY: 4})).To(Equal(20.0))
		Expect(s.StartHyperspaceTo(ship, prime)).To(BeTrue())
		Expect(ship.Fuel()).To(BeNumerically("~", 16, 1e-12))
		Expect(ship.Location()).To(Equal(prime))
	})

	It("refuses jumps the tanks cannot cover", func() {
		spec := craft.DefaultShipSpec()
		spec.FuelCapacity = 3
		dry := craft.NewShip("Dry", spec)
		s.AddBody(dry)
		Expect(s.StartHyperspaceTo(dry, prime)).To(BeFalse())
		Expect(s.Hyperspacing()).To(BeFalse())
	})

	It("arrives in the destination system", func() {
		Expect(s.StartHyperspaceTo(ship, prime)).To(BeTrue())
		Expect(ship.Enabled()).To(BeFalse())

		tickFor(s, 1.25, 0.25)

		Expect(s.Hyperspacing()).To(BeFalse())
		Expect(s.System().Name).To(Equal("Alpha Centauri"))
		Expect(ship.Enabled()).To(BeTrue())
		frame := s.FrameWithSBody(s.System().BodyByPath(prime))
		planet := s.DominantMass(frame)
		Expect(planet.Label()).To(Equal("Centauri Prime"))
		d := s.PositionRelTo(ship, frame).Sub(s.PositionRelTo(planet, frame)).Len() / sysdesc.AU
		Expect(d).To(BeNumerically("~", 0.5, 0.1001))
	})

	It("runs arrival hooks", func() {
		s.OnArrival(craft.Pirates(2, craft.DefaultShipSpec()))
		Expect(s.StartHyperspaceTo(ship, barnard)).To(BeTrue())
		tickFor(s, 1.25, 0.25)

		pirates := hostiles(s)
		Expect(pirates).To(HaveLen(2))
		for _, p := range pirates {
			Expect(p.Target()).To(Equal(ship.ID()))
			Expect(p.Frame()).To(Equal(ship.Frame()))
			d := p.Position().Sub(ship.Position()).Len()
			Expect(d).To(BeNumerically(">=", 1e4))
		}
	})

	It("survives a snapshot taken mid-jump", func() {
		Expect(s.StartHyperspaceTo(ship, prime)).To(BeTrue())
		Expect(s.Tick(0.25)).To(Succeed())

		var buf bytes.Buffer
		Expect(s.Serialize(msgpack.NewEncoder(&buf))).To(Succeed())

		restored := newWorld()
		Expect(restored.Unserialize(msgpack.NewDecoder(&buf))).To(Succeed())
		tr, ok := restored.PendingTransition()
		Expect(ok).To(BeTrue())
		Expect(tr.Dest).To(Equal(prime))
		Expect(tr.Elapsed).To(BeNumerically("~", 0.25, 1e-12))

		copyShip, ok := restored.Body(ship.ID()).(*craft.Ship)
		Expect(ok).To(BeTrue())
		Expect(copyShip.Fuel()).To(Equal(ship.Fuel()))
		Expect(copyShip.Location()).To(Equal(prime))

		tickFor(restored, 1, 0.25)
		Expect(restored.System().Name).To(Equal("Alpha Centauri"))
	})
})

var _ = Describe("Combat", func() {
	var (
		s      *space.Space
		ship   *craft.Ship
		target *craft.Ship
	)

	BeforeEach(func() {
		s = newWorld()
		ship = craft.NewShip("Eagle", craft.DefaultShipSpec())
		Expect(s.EnterSystem(ship, earth)).To(Succeed())

		spec := craft.DefaultShipSpec()
		spec.Hull = 1e9
		target = craft.NewShip("Hulk", spec)
		target.SetPosition(ship.Position().Add(mgl64.Vec3{0, 0, -2000}))
		target.SetVelocity(ship.Velocity())
		s.AddBody(target)
		s.SetFrame(target, ship.Frame())
	})

	It("guides a missile onto its target", func() {
		m := ship.FireMissile(s, target)
		Expect(m).NotTo(BeNil())
		Expect(ship.Missiles()).To(Equal(craft.DefaultShipSpec().Missiles - 1))

		tickFor(s, 20, 0.1)

		Expect(s.Body(m.ID())).To(BeNil())
		Expect(target.Hull()).To(BeNumerically("<", 1e9))
		Expect(ship.Hull()).To(Equal(craft.DefaultShipSpec().Hull))
	})

	It("does not collide with the launching ship", func() {
		target.SetPosition(ship.Position().Add(mgl64.Vec3{0, 0, -1e6}))
		m := ship.FireMissile(s, target)
		Expect(s.Tick(0.1)).To(Succeed())
		Expect(m.IsDead()).To(BeFalse())
	})

	It("loses missiles to ECM", func() {
		m := ship.FireMissile(s, target)
		s.DoECM(m.Frame(), m.Position(), 1)
		Expect(m.IsDead()).To(BeTrue())
		Expect(s.Tick(0.1)).To(Succeed())
		Expect(s.Body(m.ID())).To(BeNil())
	})

	It("stops firing with an empty magazine", func() {
		for i := 0; i < craft.DefaultShipSpec().Missiles; i++ {
			Expect(ship.FireMissile(s, target)).NotTo(BeNil())
		}
		Expect(ship.FireMissile(s, target)).To(BeNil())
	})

	It("forgets a destroyed target", func() {
		ship.SetTarget(target)
		target.OnDamage(s, ship, 2e9)
		Expect(target.IsDead()).To(BeTrue())
		Expect(s.Tick(0.1)).To(Succeed())
		Expect(ship.Target()).To(BeZero())
	})
})
