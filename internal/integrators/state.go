package integrators

import (
	"fmt"
	"math"
	"sort"
)

// State is a flat [positions..., velocities...] vector. The first half holds
// positions, the second half the matching velocities.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// System supplies the time derivative of a state.
type System interface {
	Derive(x State, t float64) State
}

// Integrator advances a state by one step of dt.
type Integrator interface {
	Step(sys System, x State, t, dt float64) State
}

// SystemFunc adapts a plain function to System.
type SystemFunc func(x State, t float64) State

func (f SystemFunc) Derive(x State, t float64) State { return f(x, t) }

var registry = map[string]func() Integrator{
	"euler":      func() Integrator { return NewEuler() },
	"semi-euler": func() Integrator { return NewSemiImplicitEuler() },
	"rk4":        func() Integrator { return NewRK4() },
	"rk45":       func() Integrator { return NewRK45() },
	"verlet":     func() Integrator { return NewVerlet() },
	"leapfrog":   func() Integrator { return NewLeapfrog() },
}

// ByName returns a fresh integrator registered under name.
func ByName(name string) (Integrator, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return f(), nil
}

// Names lists the registered integrators in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
