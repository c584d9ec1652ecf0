package space

import (
	"bytes"
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vmihailenco/msgpack/v5"
)

func roundTrip(t *testing.T, s *Space) *Space {
	t.Helper()
	var buf bytes.Buffer
	if err := s.Serialize(msgpack.NewEncoder(&buf)); err != nil {
		t.Fatalf("serialize: %v", err)
	}
	out := New(mustCatalog(t))
	out.RegisterLoader(kindTestShip, loadTestShip)
	if err := out.Unserialize(msgpack.NewDecoder(&buf)); err != nil {
		t.Fatalf("unserialize: %v", err)
	}
	return out
}

func TestSerializeRoundTrip(t *testing.T) {
	s, ship := solWithShip(t)
	ship.fuel = 1.5
	ship.SetAngVelocity(mgl64.Vec3{0, 0.2, 0})
	debris := NewDynamicBody(KindDynamic, "debris", 40, 2, mgl64.Vec3{1, 2, 3})
	debris.SetVelocity(mgl64.Vec3{10, 0, 0})
	s.AddBody(debris)
	for i := 0; i < 5; i++ {
		if err := s.Tick(1); err != nil {
			t.Fatal(err)
		}
	}

	got := roundTrip(t, s)

	if got.NumFrames() != s.NumFrames() || got.NumBodies() != s.NumBodies() {
		t.Fatalf("frames %d/%d bodies %d/%d", got.NumFrames(), s.NumFrames(), got.NumBodies(), s.NumBodies())
	}
	if got.Time() != s.Time() || got.TickCount() != s.TickCount() {
		t.Errorf("clock = %v/%d, want %v/%d", got.Time(), got.TickCount(), s.Time(), s.TickCount())
	}
	if got.System().Name != "Sol" {
		t.Errorf("system = %s", got.System().Name)
	}
	for _, want := range s.Bodies() {
		b := got.Body(want.ID())
		if b == nil {
			t.Fatalf("body %d (%s) missing", want.ID(), want.Label())
		}
		if b.Kind() != want.Kind() || b.Frame() != want.Frame() || b.Label() != want.Label() {
			t.Errorf("%s: kind/frame/label mismatch", want.Label())
		}
		assertVec(t, want.Label()+" pos", b.Position(), want.Position(), 0)
		assertVec(t, want.Label()+" vel", b.Velocity(), want.Velocity(), 0)
	}
	for i := 0; i < s.NumFrames(); i++ {
		a, b := s.Frame(FrameID(i)), got.Frame(FrameID(i))
		if a.Astro != b.Astro || a.SBody != nil && b.SBody.Index != a.SBody.Index {
			t.Errorf("frame %d references differ", i)
		}
	}

	gotShip := got.Body(ship.ID()).(*testShip)
	if gotShip.fuel != 1.5 {
		t.Errorf("fuel = %v", gotShip.fuel)
	}
	assertVec(t, "spin", gotShip.AngVelocity(), mgl64.Vec3{0, 0.2, 0}, 0)

	// Both worlds evolve identically.
	for i := 0; i < 10; i++ {
		if err := s.Tick(1); err != nil {
			t.Fatal(err)
		}
		if err := got.Tick(1); err != nil {
			t.Fatal(err)
		}
	}
	assertVec(t, "ship after ticks", gotShip.Position(), ship.Position(), 1e-6)
	assertVec(t, "debris after ticks", got.Body(debris.ID()).Position(), debris.Position(), 1e-6)

	fresh := NewDynamicBody(KindDynamic, "new", 1, 1, mgl64.Vec3{})
	got.AddBody(fresh)
	if got.Body(fresh.ID()) != Body(fresh) || fresh.ID() <= debris.ID() {
		t.Errorf("id %d reused after load", fresh.ID())
	}
}

func TestSerializePendingTransition(t *testing.T) {
	s, ship := solWithShip(t)
	if !s.StartHyperspaceTo(ship, barnardB) {
		t.Fatal("jump rejected")
	}
	if err := s.Tick(0.5); err != nil {
		t.Fatal(err)
	}

	got := roundTrip(t, s)
	tr, ok := got.PendingTransition()
	if !ok || tr.Dest != barnardB || tr.Elapsed != 0.5 || tr.Jumper != ship.ID() {
		t.Fatalf("transition = %+v, %v", tr, ok)
	}
	if got.System() != nil {
		t.Error("hyperspacing world should have no system")
	}
	if got.Body(ship.ID()).Enabled() {
		t.Error("jumper should stay disabled while hyperspacing")
	}

	for i := 0; i < 2; i++ {
		if err := got.Tick(0.5); err != nil {
			t.Fatal(err)
		}
	}
	if got.Hyperspacing() || got.System() == nil || got.System().Name != "Barnard's Star" {
		t.Error("restored jump did not complete")
	}
}

func TestRestoreRejectsBadSnapshots(t *testing.T) {
	s, _ := solWithShip(t)

	tests := []struct {
		name   string
		mutate func(*Snapshot)
		want   error
	}{
		{"version", func(sn *Snapshot) { sn.Version = 99 }, ErrCorruptSnapshot},
		{"no frames", func(sn *Snapshot) { sn.Frames = nil }, ErrCorruptSnapshot},
		{"unknown kind", func(sn *Snapshot) { sn.Bodies[0].Kind = "ufo" }, ErrUnknownKind},
		{"duplicate id", func(sn *Snapshot) { sn.Bodies[1].ID = sn.Bodies[0].ID }, ErrCorruptSnapshot},
		{"bad frame", func(sn *Snapshot) { sn.Bodies[0].Frame = 500 }, ErrCorruptSnapshot},
		{"bad parent", func(sn *Snapshot) { sn.Frames[2].Parent = 9 }, ErrCorruptSnapshot},
		{"bad descriptor", func(sn *Snapshot) { sn.Bodies[1].SBody = 400 }, ErrCorruptSnapshot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := s.Snapshot()
			tt.mutate(snap)
			fresh := New(mustCatalog(t))
			fresh.RegisterLoader(kindTestShip, loadTestShip)
			err := fresh.Restore(snap)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRestoreKeepsCorpsesQuiet(t *testing.T) {
	s, _ := solWithShip(t)
	wreck := NewDynamicBody(KindDynamic, "wreck", 40, 2, mgl64.Vec3{1, 1, 1})
	s.AddBody(wreck)
	s.KillBody(wreck)
	snap := s.Snapshot()

	rec := &recorder{}
	fresh := New(mustCatalog(t), WithObserver(rec))
	fresh.RegisterLoader(kindTestShip, loadTestShip)
	if err := fresh.Restore(snap); err != nil {
		t.Fatalf("restore: %v", err)
	}
	back := fresh.Body(wreck.ID())
	if back == nil || !back.IsDead() {
		t.Fatalf("wreck = %v, want a restored corpse", back)
	}
	if rec.deaths != 0 {
		t.Errorf("restore reported %d deaths, want 0", rec.deaths)
	}

	n := fresh.NumBodies()
	if err := fresh.Tick(0.1); err != nil {
		t.Fatal(err)
	}
	if fresh.NumBodies() != n-1 || fresh.Body(wreck.ID()) != nil {
		t.Errorf("corpse not pruned: %d bodies, was %d", fresh.NumBodies(), n)
	}
	if rec.deaths != 0 {
		t.Errorf("pruning reported %d deaths, want 0", rec.deaths)
	}
}
