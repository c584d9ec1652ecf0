package space

import (
	"math/rand"

	"github.com/rs/zerolog"
	"github.com/san-kum/spacecore/internal/integrators"
)

type Option func(*Space)

func WithLogger(log zerolog.Logger) Option {
	return func(s *Space) { s.log = log }
}

func WithSeed(seed int64) Option {
	return func(s *Space) { s.rng = rand.New(rand.NewSource(seed)) }
}

func WithIntegrator(integ integrators.Integrator) Option {
	return func(s *Space) { s.integrator = integ }
}

func WithCollisionSpaces(f CollisionSpaceFactory) Option {
	return func(s *Space) { s.newCollisionSpace = f }
}

func WithTerrain(f TerrainFactory) Option {
	return func(s *Space) { s.terrainFor = f }
}

// WithHyperspaceDuration sets how long a jump lasts in game seconds.
func WithHyperspaceDuration(d float64) Option {
	return func(s *Space) {
		if d > 0 {
			s.hyperspaceDuration = d
		}
	}
}

func WithObserver(o Observer) Option {
	return func(s *Space) { s.observers = append(s.observers, o) }
}
