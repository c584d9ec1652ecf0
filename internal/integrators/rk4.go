package integrators

// RK4 is the classic fourth-order Runge-Kutta method. Stage buffers are
// reused between calls.
type RK4 struct {
	k     [4]State
	stage State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) grow(n int) {
	if len(r.stage) == n {
		return
	}
	for i := range r.k {
		r.k[i] = make(State, n)
	}
	r.stage = make(State, n)
}

func (r *RK4) Step(sys System, x State, t, dt float64) State {
	r.grow(len(x))
	h := 0.5 * dt

	copy(r.k[0], sys.Derive(x, t))
	axpy(r.stage, x, h, r.k[0])
	copy(r.k[1], sys.Derive(r.stage, t+h))
	axpy(r.stage, x, h, r.k[1])
	copy(r.k[2], sys.Derive(r.stage, t+h))
	axpy(r.stage, x, dt, r.k[2])
	copy(r.k[3], sys.Derive(r.stage, t+dt))

	out := make(State, len(x))
	w := dt / 6
	for i := range out {
		out[i] = x[i] + w*(r.k[0][i]+2*r.k[1][i]+2*r.k[2][i]+r.k[3][i])
	}
	return out
}

// axpy writes x + a*k into dst.
func axpy(dst, x State, a float64, k State) {
	for i := range dst {
		dst[i] = x[i] + a*k[i]
	}
}
