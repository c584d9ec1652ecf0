package space

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spacecore/internal/sysdesc"
)

const kindTestShip Kind = "testship"

// testShip records the hooks the space calls on it.
type testShip struct {
	*DynamicBody
	fuel      float64
	steps     int
	statics   int
	deaths    []BodyID
	deadInReg []bool
	destroyed bool
	veto      bool
	hits      int
}

func newTestShip(label string) *testShip {
	return &testShip{
		DynamicBody: NewDynamicBody(kindTestShip, label, 1000, 1e4, mgl64.Vec3{5, 5, 5}),
		fuel:        3,
	}
}

func (t *testShip) CanHyperspaceTo(sysdesc.Path) bool { return t.fuel >= 1 }
func (t *testShip) UseHyperspaceFuel(sysdesc.Path)    { t.fuel-- }
func (t *testShip) StaticUpdate(*Space, float64)      { t.statics++ }
func (t *testShip) OnDestroy()                        { t.destroyed = true }

func (t *testShip) TimeStepUpdate(s *Space, dt float64) {
	t.steps++
	t.DynamicBody.TimeStepUpdate(s, dt)
}

func (t *testShip) NotifyDeath(s *Space, dead Body) {
	t.deaths = append(t.deaths, dead.ID())
	t.deadInReg = append(t.deadInReg, s.Body(dead.ID()) != nil)
}

func (t *testShip) OnCollision(*Space, Body, float64) bool {
	t.hits++
	return !t.veto
}

func (t *testShip) SaveState() map[string]float64 {
	return map[string]float64{"fuel": t.fuel}
}

func (t *testShip) LoadState(extra map[string]float64) error {
	t.fuel = extra["fuel"]
	return nil
}

func loadTestShip(s *Space, st *BodyState) (Body, error) {
	return newTestShip(st.Label), nil
}

// recorder counts observer callbacks.
type recorder struct {
	NopObserver
	ticks        int
	contacts     int
	frameChanges []FrameID
	deaths       int
}

func (r *recorder) OnTick(*Space, float64)              { r.ticks++ }
func (r *recorder) OnContact(*Contact)                  { r.contacts++ }
func (r *recorder) OnDeath(Body)                        { r.deaths++ }
func (r *recorder) OnFrameChange(_ Body, _, to FrameID) { r.frameChanges = append(r.frameChanges, to) }

func vec3AlmostEqual(a, b mgl64.Vec3, tol float64) bool {
	return a.Sub(b).Len() <= tol
}

func assertVec(t *testing.T, name string, got, want mgl64.Vec3, tol float64) {
	t.Helper()
	if !vec3AlmostEqual(got, want, tol) {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func mustCatalog(t *testing.T) *sysdesc.Catalog {
	t.Helper()
	cat, err := sysdesc.DefaultCatalog()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return cat
}

// solWithShip builds Sol and drops a test ship near Earth.
func solWithShip(t *testing.T, opts ...Option) (*Space, *testShip) {
	t.Helper()
	s := New(mustCatalog(t), opts...)
	s.RegisterLoader(kindTestShip, loadTestShip)
	ship := newTestShip("Eagle")
	if err := s.EnterSystem(ship, sysdesc.Path{BodyIdx: 2}); err != nil {
		t.Fatalf("enter system: %v", err)
	}
	return s, ship
}

// childFrame adds a non-rotating frame under parent.
func childFrame(s *Space, parent FrameID, label string, pos mgl64.Vec3, radius float64) *Frame {
	f := s.newFrame(parent, label)
	f.Pos = pos
	f.Radius = radius
	return f
}

func finite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func asTickError(err error, target **TickError) bool {
	return errors.As(err, target)
}
