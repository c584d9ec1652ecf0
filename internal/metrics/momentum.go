package metrics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spacecore/internal/space"
)

// Momentum tracks the total linear momentum of live dynamic bodies,
// measured in the root frame. Value is the largest relative drift from the
// first sample.
type Momentum struct {
	name     string
	initial  float64
	current  float64
	maxDrift float64
	samples  int
}

func NewMomentum() *Momentum {
	return &Momentum{name: "momentum_drift"}
}

func (m *Momentum) Name() string { return m.name }

func (m *Momentum) Observe(s *space.Space) {
	var total mgl64.Vec3
	for _, b := range s.Bodies() {
		d, ok := b.(space.Dynamic)
		if !ok || b.IsDead() || !b.Enabled() {
			continue
		}
		total = total.Add(s.VelocityRelTo(b, space.RootFrame).Mul(d.Mass()))
	}
	p := total.Len()
	if m.samples == 0 {
		m.initial = p
	}
	m.current = p
	m.samples++

	if m.initial != 0 {
		m.maxDrift = math.Max(m.maxDrift, math.Abs(p-m.initial)/m.initial)
	}
}

// Current is the magnitude of the latest sample in kg·m/s.
func (m *Momentum) Current() float64 { return m.current }

func (m *Momentum) Value() float64 { return m.maxDrift }

func (m *Momentum) Reset() {
	m.initial = 0
	m.current = 0
	m.maxDrift = 0
	m.samples = 0
}
