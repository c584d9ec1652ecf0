// Package terrain provides planetary height functions sampled by direction
// from the planet centre.
package terrain

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spacecore/internal/sysdesc"
)

// Heightmap returns the distance from the planet centre to the surface
// along a unit direction.
type Heightmap interface {
	Height(dir mgl64.Vec3) float64
}

// Sphere is a featureless body of constant radius.
type Sphere struct {
	Radius float64
}

func (s Sphere) Height(mgl64.Vec3) float64 { return s.Radius }

type band struct {
	axis   mgl64.Vec3
	freq   float64
	phase  float64
	weight float64
}

// Ridged sums seeded sine bands over the sphere. Anything below the base
// radius is sea and is clamped to it.
type Ridged struct {
	radius    float64
	amplitude float64
	bands     []band
}

func NewRidged(radius, amplitude float64, bands int, seed int64) *Ridged {
	if bands <= 0 {
		bands = 6
	}
	rng := rand.New(rand.NewSource(seed))
	r := &Ridged{radius: radius, amplitude: amplitude}
	total := 0.0
	for i := 0; i < bands; i++ {
		axis := mgl64.Vec3{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}
		if axis.Len() == 0 {
			axis = mgl64.Vec3{0, 1, 0}
		}
		w := 1 / float64(i+1)
		r.bands = append(r.bands, band{
			axis:   axis.Normalize(),
			freq:   float64(2 + 3*i),
			phase:  rng.Float64() * 2 * math.Pi,
			weight: w,
		})
		total += w
	}
	for i := range r.bands {
		r.bands[i].weight /= total
	}
	return r
}

func (r *Ridged) Height(dir mgl64.Vec3) float64 {
	sum := 0.0
	for _, b := range r.bands {
		sum += b.weight * math.Sin(b.freq*dir.Dot(b.axis)+b.phase)
	}
	if sum <= 0 {
		return r.radius
	}
	return r.radius + r.amplitude*sum
}

// ForBody builds the height function described by a planet descriptor.
func ForBody(sb *sysdesc.Body) Heightmap {
	spec := sb.Terrain
	if spec == nil || spec.Kind == "" || spec.Kind == "sphere" || spec.Amplitude == 0 {
		return Sphere{Radius: sb.Radius}
	}
	seed := spec.Seed
	if seed == 0 {
		seed = sb.Seed
	}
	return NewRidged(sb.Radius, spec.Amplitude, spec.Bands, seed)
}
