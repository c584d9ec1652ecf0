package integrators

import (
	"errors"
	"math"
)

// Dormand-Prince 5(4). The last row of dpA doubles as the fifth-order
// weights, so the seventh stage is the derivative at the new state.
var (
	dpC = [7]float64{0, 1.0 / 5, 3.0 / 10, 4.0 / 5, 8.0 / 9, 1, 1}
	dpA = [7][6]float64{
		{},
		{1.0 / 5},
		{3.0 / 40, 9.0 / 40},
		{44.0 / 45, -56.0 / 15, 32.0 / 9},
		{19372.0 / 6561, -25360.0 / 2187, 64448.0 / 6561, -212.0 / 729},
		{9017.0 / 3168, -355.0 / 33, 46732.0 / 5247, 49.0 / 176, -5103.0 / 18656},
		{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84},
	}
	// Fifth minus fourth order weights.
	dpE = [7]float64{71.0 / 57600, 0, -71.0 / 16695, 71.0 / 1920, -17253.0 / 339200, 22.0 / 525, -1.0 / 40}
)

// minFraction bounds how finely one call may split its step.
const minFraction = 1e-6

var ErrNonFinite = errors.New("integrator produced a non-finite state")

// RK45 covers each requested step with as many Dormand-Prince substeps as
// Tol demands. The last accepted substep seeds the next call.
type RK45 struct {
	Tol float64

	safety   float64
	minScale float64
	maxScale float64
	maxRetry int

	k     [7]State
	stage State
	hint  float64
}

func NewRK45() *RK45 {
	return &RK45{
		Tol:      1e-9,
		safety:   0.9,
		minScale: 0.2,
		maxScale: 5,
		maxRetry: 64,
	}
}

func (r *RK45) Step(sys System, x State, t, dt float64) State {
	cur := x
	h := dt
	if r.hint > 0 && r.hint < dt {
		h = r.hint
	}
	rem := dt
	retries := 0
	for rem > 0 {
		h = math.Min(h, rem)
		next, ratio := r.attempt(sys, cur, t+dt-rem, h, r.Tol)
		if ratio > 1 {
			if retries < r.maxRetry {
				retries++
				h *= r.scale(ratio)
				continue
			}
			// Out of retries: finish the step in one go.
			h = rem
			next, _ = r.attempt(sys, cur, t+dt-rem, h, r.Tol)
		}
		cur = next
		rem -= h
		r.hint = math.Max(h*r.scale(ratio), dt*minFraction)
		h = r.hint
	}
	return cur
}

// StepAdaptive takes a single substep of dt and returns the step size the
// error estimate suggests for the next one.
func (r *RK45) StepAdaptive(sys System, x State, t, dt, tol float64) (State, float64, error) {
	next, ratio := r.attempt(sys, x, t, dt, tol)
	if !next.IsValid() {
		return next, dt, ErrNonFinite
	}
	return next, dt * r.scale(ratio), nil
}

func (r *RK45) scale(ratio float64) float64 {
	if ratio == 0 {
		return r.maxScale
	}
	f := r.safety * math.Pow(ratio, -0.2)
	return math.Max(r.minScale, math.Min(r.maxScale, f))
}

func (r *RK45) grow(n int) {
	if len(r.stage) == n {
		return
	}
	for i := range r.k {
		r.k[i] = make(State, n)
	}
	r.stage = make(State, n)
}

// attempt returns the fifth-order solution and the RMS error relative to
// tol; the step is acceptable when the ratio is at most 1.
func (r *RK45) attempt(sys System, x State, t, h, tol float64) (State, float64) {
	n := len(x)
	r.grow(n)

	copy(r.k[0], sys.Derive(x, t))
	for s := 1; s < 7; s++ {
		for i := 0; i < n; i++ {
			acc := 0.0
			for j := 0; j < s; j++ {
				acc += dpA[s][j] * r.k[j][i]
			}
			r.stage[i] = x[i] + h*acc
		}
		if s == 6 {
			break
		}
		copy(r.k[s], sys.Derive(r.stage, t+dpC[s]*h))
	}
	out := r.stage.Clone()
	copy(r.k[6], sys.Derive(out, t+h))

	sum := 0.0
	for i := 0; i < n; i++ {
		e := 0.0
		for j := range dpE {
			e += dpE[j] * r.k[j][i]
		}
		sc := tol * (1 + math.Max(math.Abs(x[i]), math.Abs(out[i])))
		d := h * e / sc
		sum += d * d
	}
	if n == 0 {
		return out, 0
	}
	return out, math.Sqrt(sum / float64(n))
}
