package sysdesc

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// G is the gravitational constant used across the simulation.
const G = 6.67428e-11

// AU is one astronomical unit in metres.
const AU = 149598000000.0

// Orbit is an ephemeris: the position of a body relative to its parent at
// game time t.
type Orbit interface {
	PositionAt(t float64) mgl64.Vec3
	Apoapsis() float64
}

// KeplerOrbit is an elliptical orbit in the parent's x-z plane, tilted about
// the x axis by Inclination.
type KeplerOrbit struct {
	SemiMajorAxis float64
	Eccentricity  float64
	Inclination   float64
	Period        float64
	// MeanAnomaly at t = 0, radians.
	MeanAnomaly float64
}

func (o KeplerOrbit) PositionAt(t float64) mgl64.Vec3 {
	if o.Period <= 0 || o.SemiMajorAxis <= 0 {
		return mgl64.Vec3{}
	}
	e := o.Eccentricity
	m := math.Mod(o.MeanAnomaly+2*math.Pi*t/o.Period, 2*math.Pi)
	ecc := solveKepler(m, e)

	x := o.SemiMajorAxis * (math.Cos(ecc) - e)
	z := o.SemiMajorAxis * math.Sqrt(1-e*e) * math.Sin(ecc)
	return mgl64.QuatRotate(o.Inclination, mgl64.Vec3{1, 0, 0}).Rotate(mgl64.Vec3{x, 0, z})
}

func (o KeplerOrbit) Apoapsis() float64 {
	return o.SemiMajorAxis * (1 + o.Eccentricity)
}

// solveKepler finds the eccentric anomaly E with E - e·sin E = M.
func solveKepler(m, e float64) float64 {
	ecc := m
	if e > 0.8 {
		ecc = math.Pi
	}
	for i := 0; i < 30; i++ {
		f := ecc - e*math.Sin(ecc) - m
		d := f / (1 - e*math.Cos(ecc))
		ecc -= d
		if math.Abs(d) < 1e-12 {
			break
		}
	}
	return ecc
}

// FixedOrbit pins a body at a constant offset from its parent.
type FixedOrbit struct {
	Offset mgl64.Vec3
}

func (o FixedOrbit) PositionAt(float64) mgl64.Vec3 { return o.Offset }
func (o FixedOrbit) Apoapsis() float64             { return o.Offset.Len() }

// KeplerPeriod returns the orbital period for a semi-major axis around a
// combined mass.
func KeplerPeriod(semiMajorAxis, totalMass float64) float64 {
	if totalMass <= 0 {
		return 0
	}
	return 2 * math.Pi * math.Sqrt(semiMajorAxis*semiMajorAxis*semiMajorAxis/(G*totalMass))
}
