package integrators

// Verlet is velocity Verlet over the [pos, vel] halves of the state.
// Positions move with the starting acceleration; velocities take the mean
// of the accelerations at both ends of the step.
type Verlet struct{}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (Verlet) Step(sys System, x State, t, dt float64) State {
	half := len(x) / 2
	a0 := sys.Derive(x, t)
	out := make(State, len(x))
	for i := 0; i < half; i++ {
		out[i] = x[i] + dt*(x[half+i]+0.5*dt*a0[half+i])
		out[half+i] = x[half+i]
	}
	a1 := sys.Derive(out, t+dt)
	for i := 0; i < half; i++ {
		out[half+i] += 0.5 * dt * (a0[half+i] + a1[half+i])
	}
	return out
}

// Leapfrog is kick-drift-kick. It matches Verlet for forces that depend
// only on position, but evaluates the closing kick at the half-step
// velocity.
type Leapfrog struct{}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (Leapfrog) Step(sys System, x State, t, dt float64) State {
	half := len(x) / 2
	a0 := sys.Derive(x, t)
	out := make(State, len(x))
	for i := 0; i < half; i++ {
		out[half+i] = x[half+i] + 0.5*dt*a0[half+i]
		out[i] = x[i] + dt*out[half+i]
	}
	a1 := sys.Derive(out, t+dt)
	for i := 0; i < half; i++ {
		out[half+i] += 0.5 * dt * a1[half+i]
	}
	return out
}
