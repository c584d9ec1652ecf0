// Package scenario drives a Space from a config.Config: it builds the
// world, spawns the player ship, runs the clock and samples the ship.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"github.com/san-kum/spacecore/internal/collide"
	"github.com/san-kum/spacecore/internal/config"
	"github.com/san-kum/spacecore/internal/craft"
	"github.com/san-kum/spacecore/internal/integrators"
	"github.com/san-kum/spacecore/internal/metrics"
	"github.com/san-kum/spacecore/internal/space"
	"github.com/san-kum/spacecore/internal/sysdesc"
)

// maxSamples bounds the length of Result.Samples.
const maxSamples = 2000

type Sample struct {
	Time     float64    `json:"time"`
	Frame    string     `json:"frame"`
	Pos      mgl64.Vec3 `json:"pos"`
	Altitude float64    `json:"altitude"`
	Speed    float64    `json:"speed"`
	Hull     float64    `json:"hull"`
	Fuel     float64    `json:"fuel"`
}

type Result struct {
	Seed      int64              `json:"seed"`
	System    string             `json:"system"`
	Ticks     uint64             `json:"ticks"`
	SimTime   float64            `json:"sim_time"`
	Destroyed bool               `json:"destroyed"`
	Jumped    bool               `json:"jumped"`
	Samples   []Sample           `json:"samples"`
	Metrics   map[string]float64 `json:"metrics"`
	Wall      time.Duration      `json:"wall"`
}

type Runner struct {
	cfg     *config.Config
	log     zerolog.Logger
	space   *space.Space
	ship    *craft.Ship
	metrics []metrics.Metric

	jumpDest sysdesc.Path
	jumpDue  bool
	jumped   bool
}

// New builds the world described by cfg. Extra options are applied after
// the ones derived from cfg.
func New(cfg *config.Config, log zerolog.Logger, opts ...space.Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cat, err := loadCatalog(cfg.Catalog)
	if err != nil {
		return nil, err
	}
	integ, err := integrators.ByName(cfg.Integrator)
	if err != nil {
		return nil, err
	}

	rate := metrics.NewContactRate()
	base := []space.Option{
		space.WithLogger(log),
		space.WithSeed(cfg.Seed),
		space.WithIntegrator(integ),
		space.WithCollisionSpaces(collide.New),
		space.WithHyperspaceDuration(cfg.Hyperspace.Duration),
		space.WithObserver(rate),
	}
	s := space.New(cat, append(base, opts...)...)
	craft.Register(s)

	r := &Runner{
		cfg:     cfg,
		log:     log,
		space:   s,
		ship:    craft.NewShip(cfg.Ship.Name, ShipSpec(cfg.Ship)),
		metrics: []metrics.Metric{metrics.NewMomentum(), metrics.NewBodyCount(), rate},
	}
	r.jumpDest, r.jumpDue = cfg.JumpDest()

	start := cfg.StartPath()
	r.ship.SetLocation(start)
	if err := s.EnterSystem(r.ship, start); err != nil {
		return nil, fmt.Errorf("enter %s: %w", start, err)
	}
	if cfg.Ship.Altitude > 0 {
		if err := r.placeNear(start); err != nil {
			return nil, err
		}
	}
	if cfg.Pirates > 0 {
		spec := craft.DefaultShipSpec()
		spec.Missiles = 2
		s.OnArrival(craft.Pirates(cfg.Pirates, spec))
	}
	return r, nil
}

func loadCatalog(path string) (*sysdesc.Catalog, error) {
	if path == "" {
		return sysdesc.DefaultCatalog()
	}
	return sysdesc.LoadCatalog(path)
}

// ShipSpec converts the configured hull to a craft.ShipSpec.
func ShipSpec(c config.ShipConfig) craft.ShipSpec {
	spec := craft.DefaultShipSpec()
	spec.Mass = c.Mass
	spec.Inertia = c.Inertia
	spec.HalfExtents = mgl64.Vec3(c.HalfExtents)
	spec.FuelCapacity = c.Fuel
	spec.FuelPerSector = c.FuelPerSector
	spec.Hull = c.Hull
	spec.Thrust = c.Thrust
	spec.Missiles = c.Missiles
	return spec
}

// placeNear moves the ship to the configured altitude above the start
// body, optionally at circular orbit speed.
func (r *Runner) placeNear(start sysdesc.Path) error {
	s := r.space
	sb := s.System().BodyByPath(start)
	frame := s.FrameWithSBody(sb)
	planet := s.DominantMass(frame)
	if planet == nil {
		return fmt.Errorf("place ship: %s has no body to orbit", sb.Name)
	}

	radius := sb.Radius
	if ts, ok := planet.(space.TerrainSource); ok {
		radius = ts.TerrainHeight(mgl64.Vec3{1, 0, 0})
	}
	dist := radius + r.cfg.Ship.Altitude
	centre := s.PositionRelTo(planet, frame)
	vel := s.VelocityRelTo(planet, frame)
	if r.cfg.Ship.Orbit {
		vel = vel.Add(mgl64.Vec3{0, 0, math.Sqrt(sysdesc.G * sb.Mass / dist)})
	}

	r.ship.SetPosition(centre.Add(mgl64.Vec3{dist, 0, 0}))
	r.ship.SetVelocity(vel)
	s.SetFrame(r.ship, frame)
	r.log.Info().
		Str("body", sb.Name).
		Float64("altitude", r.cfg.Ship.Altitude).
		Bool("orbit", r.cfg.Ship.Orbit).
		Msg("ship placed")
	return nil
}

func (r *Runner) Space() *space.Space    { return r.space }
func (r *Runner) Ship() *craft.Ship      { return r.ship }
func (r *Runner) Config() *config.Config { return r.cfg }

// Done reports whether the configured duration has elapsed or the ship is
// gone.
func (r *Runner) Done() bool {
	return r.ship.IsDead() || r.space.Time() >= r.cfg.Duration-r.cfg.Dt/2
}

// Step fires the scheduled jump when due and advances one tick.
func (r *Runner) Step() error {
	if r.jumpDue && !r.jumped && r.space.Time() >= r.cfg.Hyperspace.At {
		r.jumped = true
		if !r.space.StartHyperspaceTo(r.ship, r.jumpDest) {
			r.log.Warn().Stringer("dest", r.jumpDest).Msg("scheduled jump refused")
		}
	}
	if err := r.space.Tick(r.cfg.Dt); err != nil {
		return err
	}
	for _, m := range r.metrics {
		m.Observe(r.space)
	}
	return nil
}

// Sample describes the ship relative to whatever dominates its frame.
func (r *Runner) Sample() Sample {
	s := r.space
	sh := r.ship
	out := Sample{
		Time: s.Time(),
		Pos:  sh.Position(),
		Hull: sh.Hull(),
		Fuel: sh.Fuel(),
	}
	if f := s.Frame(sh.Frame()); f != nil {
		out.Frame = f.Label
	}
	out.Speed = sh.Velocity().Len()
	out.Altitude = sh.Position().Len()
	if planet := s.DominantMass(sh.Frame()); planet != nil {
		rel := sh.Position().Sub(s.PositionRelTo(planet, sh.Frame()))
		out.Altitude = rel.Len()
		if rp, ok := planet.(interface{ Radius() float64 }); ok {
			out.Altitude -= rp.Radius()
		}
		out.Speed = sh.Velocity().Sub(s.VelocityRelTo(planet, sh.Frame())).Len()
	}
	return out
}

// Run ticks until the configured duration elapses, the ship dies or ctx
// is cancelled. The partial result is returned alongside ctx errors.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	steps := int(math.Round(r.cfg.Duration / r.cfg.Dt))
	every := steps / maxSamples
	if every < 1 {
		every = 1
	}

	for _, m := range r.metrics {
		m.Reset()
	}
	res := &Result{
		Seed:    r.cfg.Seed,
		Samples: make([]Sample, 0, steps/every+2),
		Metrics: make(map[string]float64),
	}
	started := time.Now()
	res.Samples = append(res.Samples, r.Sample())

	var runErr error
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil {
			break
		}
		if err := r.Step(); err != nil {
			runErr = err
			break
		}
		if r.ship.IsDead() {
			res.Destroyed = true
			res.Samples = append(res.Samples, r.Sample())
			r.log.Warn().Float64("time", r.space.Time()).Msg("ship lost")
			break
		}
		if (i+1)%every == 0 {
			res.Samples = append(res.Samples, r.Sample())
		}
	}

	res.Ticks = r.space.TickCount()
	res.SimTime = r.space.Time()
	res.Jumped = r.jumped && r.ship.Location() == r.jumpDest
	if sys := r.space.System(); sys != nil {
		res.System = sys.Name
	}
	for _, m := range r.metrics {
		res.Metrics[m.Name()] = m.Value()
	}
	res.Wall = time.Since(started)

	var te *space.TickError
	if errors.As(runErr, &te) {
		r.log.Error().Err(te).Msg("simulation halted")
	}
	return res, runErr
}
