// Package space is the physics core of a single star system: a tree of
// reference frames, the bodies living in them and the per-tick pipeline
// that moves everything forward.
//
// # Core Types
//
//   - [Space]: owns the frame arena, the body registry and the hyperspace state
//   - [Frame]: a reference frame addressed by a stable [FrameID]
//   - [Body]: the contract every simulated object satisfies
//   - [DynamicBody]: integrated rigid body, embedded by ships and missiles
//   - [Star], [Planet], [SpaceStation]: bodies built from system descriptors
//
// # Tick Order
//
// [Space.Tick] runs, in order: hyperspace countdown, gravity, collision,
// frame migration, orbital frame motion, per-body time step, per-body static
// update and corpse pruning.
//
// # Example
//
//	cat, _ := sysdesc.DefaultCatalog()
//	s := space.New(cat, space.WithCollisionSpaces(collide.New))
//	if err := s.EnterSystem(ship, sysdesc.Path{BodyIdx: 2}); err != nil {
//	    log.Fatal(err)
//	}
//	for i := 0; i < 1000; i++ {
//	    if err := s.Tick(1.0 / 60); err != nil {
//	        log.Fatal(err)
//	    }
//	}
package space
