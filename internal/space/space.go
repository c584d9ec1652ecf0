package space

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/rs/zerolog"
	"github.com/san-kum/spacecore/internal/integrators"
	"github.com/san-kum/spacecore/internal/sysdesc"
	"github.com/san-kum/spacecore/internal/terrain"
)

// Space is the simulated world of one star system. It is not safe for
// concurrent use; drive it from a single goroutine.
type Space struct {
	log        zerolog.Logger
	rng        *rand.Rand
	generator  sysdesc.Generator
	integrator integrators.Integrator

	newCollisionSpace CollisionSpaceFactory
	terrainFor        TerrainFactory
	observers         []Observer
	arrivals          []ArrivalFunc
	loaders           map[Kind]Loader

	frames  []*Frame
	bodies  []Body
	byID    map[BodyID]Body
	corpses []Body
	nextID  BodyID

	system             *sysdesc.System
	time               float64
	tick               uint64
	transition         *Transition
	hyperspaceDuration float64
}

// New creates an empty world holding only the root frame. gen may be nil
// for worlds built by hand; hyperspace then fails with ErrNoGenerator.
func New(gen sysdesc.Generator, opts ...Option) *Space {
	s := &Space{
		log:                zerolog.Nop(),
		rng:                rand.New(rand.NewSource(1)),
		generator:          gen,
		integrator:         integrators.NewVerlet(),
		terrainFor:         func(sb *sysdesc.Body) Terrain { return terrain.ForBody(sb) },
		byID:               make(map[BodyID]Body),
		hyperspaceDuration: 1.0,
	}
	s.loaders = builtinLoaders()
	for _, opt := range opts {
		opt(s)
	}
	root := s.newFrame(NoFrame, "System")
	root.Radius = math.Inf(1)
	return s
}

func (s *Space) Time() float64                { return s.time }
func (s *Space) TickCount() uint64            { return s.tick }
func (s *Space) System() *sysdesc.System      { return s.system }
func (s *Space) Rand() *rand.Rand             { return s.rng }
func (s *Space) Logger() *zerolog.Logger      { return &s.log }
func (s *Space) Generator() sysdesc.Generator { return s.generator }

// Bodies returns the live body list in insertion order. The slice is owned
// by the space.
func (s *Space) Bodies() []Body { return s.bodies }

func (s *Space) NumBodies() int { return len(s.bodies) }

// Body looks a body up by id.
func (s *Space) Body(id BodyID) Body {
	if id == 0 {
		return nil
	}
	return s.byID[id]
}

// AddBody registers b, assigning it an id. A body without a frame is placed
// in the root frame.
func (s *Space) AddBody(b Body) {
	base := b.base()
	if base.id == 0 {
		s.nextID++
		base.id = s.nextID
	} else if base.id > s.nextID {
		s.nextID = base.id
	}
	s.bodies = append(s.bodies, b)
	s.byID[base.id] = b
	frame := base.frame
	if frame == NoFrame || s.Frame(frame) == nil {
		frame = RootFrame
	}
	base.frame = NoFrame
	s.SetFrame(b, frame)
}

// RemoveBody unregisters b without notifying anyone.
func (s *Space) RemoveBody(b Body) {
	s.SetFrame(b, NoFrame)
	delete(s.byID, b.ID())
	for i, other := range s.bodies {
		if other == b {
			s.bodies = append(s.bodies[:i], s.bodies[i+1:]...)
			break
		}
	}
}

// KillBody marks b dead and queues it for removal at the end of the tick.
// Killing a dead body does nothing.
func (s *Space) KillBody(b Body) {
	base := b.base()
	if base.dead {
		return
	}
	base.dead = true
	s.corpses = append(s.corpses, b)
	for _, o := range s.observers {
		o.OnDeath(b)
	}
}

// PruneCorpses tells every other live body about each corpse, then removes
// the corpses from the world.
func (s *Space) PruneCorpses() {
	for len(s.corpses) > 0 {
		corpses := s.corpses
		s.corpses = nil
		for _, dead := range corpses {
			for _, b := range s.bodies {
				if b != dead && !b.IsDead() {
					b.NotifyDeath(s, dead)
				}
			}
		}
		for _, dead := range corpses {
			for _, f := range s.frames {
				if f.Astro == dead.ID() {
					f.Astro = 0
				}
			}
			s.RemoveBody(dead)
			if d, ok := dead.(Destroyer); ok {
				d.OnDestroy()
			}
		}
	}
}

// SetFrame moves b into frame id without changing its coordinates, keeping
// collision space membership in step.
func (s *Space) SetFrame(b Body, id FrameID) {
	base := b.base()
	if base.frame == id {
		return
	}
	_, collidable := b.(Collidable)
	if old := s.Frame(base.frame); old != nil && collidable && old.collisions != nil {
		old.collisions.Remove(b)
	}
	base.frame = id
	if f := s.Frame(id); f != nil && collidable && f.collisions != nil {
		f.collisions.Add(b)
	}
}

// Tick advances the world by dt. Errors are internal consistency failures;
// the world should not be ticked again after one.
func (s *Space) Tick(dt float64) error {
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return &TickError{Tick: s.tick, Time: s.time, Phase: "validate", Err: fmt.Errorf("%w: %v", ErrInvalidTimestep, dt)}
	}

	if err := s.advanceHyperspace(dt); err != nil {
		return &TickError{Tick: s.tick, Time: s.time, Phase: "hyperspace", Err: err}
	}

	s.applyGravity()
	s.collideFrame(RootFrame)
	s.updateFramesOfReference()

	s.time += dt
	s.moveOrbitingFrames(RootFrame, dt)

	for _, b := range s.bodies {
		if !b.IsDead() {
			b.TimeStepUpdate(s, dt)
		}
	}
	for _, b := range s.bodies {
		if !b.IsDead() {
			b.StaticUpdate(s, dt)
		}
	}

	s.PruneCorpses()
	s.tick++
	for _, o := range s.observers {
		o.OnTick(s, dt)
	}
	return nil
}

// Clear kills every body except keep, prunes them, drops all frames but the
// root and moves keep into the root frame. keep may be nil.
func (s *Space) Clear(keep Body) {
	for _, b := range s.bodies {
		if b != keep {
			s.KillBody(b)
		}
	}
	s.PruneCorpses()
	if keep != nil {
		s.SetFrame(keep, NoFrame)
	}
	s.resetFrames()
	if keep != nil {
		s.SetFrame(keep, RootFrame)
	}
	s.system = nil
}
