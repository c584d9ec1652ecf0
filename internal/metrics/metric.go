// Package metrics summarises a running simulation: plain Metric values
// sampled once per tick, and an OpenTelemetry Recorder fed by the space's
// observer hooks.
package metrics

import "github.com/san-kum/spacecore/internal/space"

type Metric interface {
	Name() string
	Observe(s *space.Space)
	Value() float64
	Reset()
}

// Default returns the metric set a scenario run reports.
func Default() []Metric {
	return []Metric{NewMomentum(), NewBodyCount(), NewContactRate()}
}
