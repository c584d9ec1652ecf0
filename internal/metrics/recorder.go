package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/san-kum/spacecore/internal/space"
)

const instrumentation = "github.com/san-kum/spacecore/internal/metrics"

// Recorder forwards simulation events to OpenTelemetry instruments.
type Recorder struct {
	ctx          context.Context
	ticks        metric.Int64Counter
	contacts     metric.Int64Counter
	frameChanges metric.Int64Counter
	deaths       metric.Int64Counter
	tickTime     metric.Float64Histogram
	last         time.Time
}

func NewRecorder(ctx context.Context, mp metric.MeterProvider) (*Recorder, error) {
	meter := mp.Meter(instrumentation)
	r := &Recorder{ctx: ctx}
	var err error
	if r.ticks, err = meter.Int64Counter("spacecore.ticks",
		metric.WithDescription("Simulation ticks completed")); err != nil {
		return nil, err
	}
	if r.contacts, err = meter.Int64Counter("spacecore.contacts",
		metric.WithDescription("Resolved collision contacts")); err != nil {
		return nil, err
	}
	if r.frameChanges, err = meter.Int64Counter("spacecore.frame_changes",
		metric.WithDescription("Bodies migrated between frames")); err != nil {
		return nil, err
	}
	if r.deaths, err = meter.Int64Counter("spacecore.deaths",
		metric.WithDescription("Bodies killed")); err != nil {
		return nil, err
	}
	if r.tickTime, err = meter.Float64Histogram("spacecore.tick.duration",
		metric.WithDescription("Wall time between ticks"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Recorder) OnTick(_ *space.Space, _ float64) {
	now := time.Now()
	if !r.last.IsZero() {
		r.tickTime.Record(r.ctx, now.Sub(r.last).Seconds())
	}
	r.last = now
	r.ticks.Add(r.ctx, 1)
}

func (r *Recorder) OnContact(*space.Contact) {
	r.contacts.Add(r.ctx, 1)
}

func (r *Recorder) OnFrameChange(b space.Body, _, _ space.FrameID) {
	r.frameChanges.Add(r.ctx, 1, metric.WithAttributes(attribute.String("kind", string(b.Kind()))))
}

func (r *Recorder) OnDeath(b space.Body) {
	r.deaths.Add(r.ctx, 1, metric.WithAttributes(attribute.String("kind", string(b.Kind()))))
}
