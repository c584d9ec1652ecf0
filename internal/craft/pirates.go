package craft

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spacecore/internal/space"
)

const (
	pirateMinRange = 1e4
	pirateMaxRange = 1e5
)

// Pirates returns an arrival hook that spawns n hostile ships around the
// arriving jumper, all targeting it.
func Pirates(n int, spec ShipSpec) space.ArrivalFunc {
	return func(sp *space.Space, j space.Jumper) {
		if j == nil || n <= 0 {
			return
		}
		rng := sp.Rand()
		for i := 0; i < n; i++ {
			p := NewShip(fmt.Sprintf("Pirate %d", i+1), spec)
			p.hostile = true
			p.missiles = spec.Missiles

			theta := rng.Float64() * 2 * math.Pi
			z := rng.Float64()*2 - 1
			r := math.Sqrt(1 - z*z)
			dist := pirateMinRange + rng.Float64()*(pirateMaxRange-pirateMinRange)
			dir := mgl64.Vec3{r * math.Cos(theta), r * math.Sin(theta), z}

			p.SetPosition(j.Position().Add(dir.Mul(dist)))
			p.SetVelocity(j.Velocity())
			sp.AddBody(p)
			sp.SetFrame(p, j.Frame())
			p.SetTarget(j)
		}
		sp.Logger().Info().Int("count", n).Str("target", j.Label()).Msg("pirates inbound")
	}
}
