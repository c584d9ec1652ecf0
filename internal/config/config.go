package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/spacecore/internal/integrators"
	"github.com/san-kum/spacecore/internal/sysdesc"
)

const (
	DefaultDt         = 0.1
	DefaultDuration   = 600.0
	DefaultIntegrator = "verlet"
	DefaultStart      = "0,0,0,2"
	DefaultJumpTime   = 1.0
	DefaultDriver     = "sqlite"
	DefaultDataDir    = "./spacecore-data"
	DefaultAddr       = ":8090"
	DefaultRate       = 10.0
)

// EnvPrefix is prepended to every environment override, e.g.
// SPACECORE_SHIP_FUEL or SPACECORE_LOG_LEVEL.
const EnvPrefix = "SPACECORE"

type Config struct {
	Dt         float64         `yaml:"dt" mapstructure:"dt"`
	Duration   float64         `yaml:"duration" mapstructure:"duration"`
	Seed       int64           `yaml:"seed" mapstructure:"seed"`
	Integrator string          `yaml:"integrator" mapstructure:"integrator"`
	Catalog    string          `yaml:"catalog" mapstructure:"catalog"`
	Start      string          `yaml:"start" mapstructure:"start"`
	Ship       ShipConfig      `yaml:"ship" mapstructure:"ship"`
	Hyperspace JumpConfig      `yaml:"hyperspace" mapstructure:"hyperspace"`
	Pirates    int             `yaml:"pirates" mapstructure:"pirates"`
	Log        LogConfig       `yaml:"log" mapstructure:"log"`
	Storage    StorageConfig   `yaml:"storage" mapstructure:"storage"`
	Telemetry  TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`
}

type ShipConfig struct {
	Name          string     `yaml:"name" mapstructure:"name"`
	Mass          float64    `yaml:"mass" mapstructure:"mass"`
	Inertia       float64    `yaml:"inertia" mapstructure:"inertia"`
	HalfExtents   [3]float64 `yaml:"half_extents" mapstructure:"half_extents"`
	Fuel          float64    `yaml:"fuel" mapstructure:"fuel"`
	FuelPerSector float64    `yaml:"fuel_per_sector" mapstructure:"fuel_per_sector"`
	Hull          float64    `yaml:"hull" mapstructure:"hull"`
	Thrust        float64    `yaml:"thrust" mapstructure:"thrust"`
	Missiles      int        `yaml:"missiles" mapstructure:"missiles"`
	// Altitude above the start body's surface. Zero keeps the hyperspace
	// arrival placement.
	Altitude float64 `yaml:"altitude" mapstructure:"altitude"`
	// Orbit gives the ship circular orbital speed at Altitude.
	Orbit bool `yaml:"orbit" mapstructure:"orbit"`
}

// JumpConfig schedules a hyperspace jump during a run.
type JumpConfig struct {
	Duration float64 `yaml:"duration" mapstructure:"duration"`
	Dest     string  `yaml:"dest" mapstructure:"dest"`
	At       float64 `yaml:"at" mapstructure:"at"`
}

type LogConfig struct {
	Level   string `yaml:"level" mapstructure:"level"`
	Console bool   `yaml:"console" mapstructure:"console"`
	File    string `yaml:"file" mapstructure:"file"`
}

type StorageConfig struct {
	Driver  string `yaml:"driver" mapstructure:"driver"`
	DSN     string `yaml:"dsn" mapstructure:"dsn"`
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`
}

type TelemetryConfig struct {
	Addr    string   `yaml:"addr" mapstructure:"addr"`
	Rate    float64  `yaml:"rate" mapstructure:"rate"`
	Burst   int      `yaml:"burst" mapstructure:"burst"`
	Origins []string `yaml:"origins" mapstructure:"origins"`
}

func DefaultConfig() *Config {
	return &Config{
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Seed:       1,
		Integrator: DefaultIntegrator,
		Start:      DefaultStart,
		Ship: ShipConfig{
			Name:          "Eagle",
			Mass:          2e5,
			Inertia:       5e6,
			HalfExtents:   [3]float64{15, 6, 25},
			Fuel:          20,
			FuelPerSector: 4,
			Hull:          5e4,
			Thrust:        4e6,
			Missiles:      4,
		},
		Hyperspace: JumpConfig{Duration: DefaultJumpTime},
		Log:        LogConfig{Level: "info", Console: true},
		Storage:    StorageConfig{Driver: DefaultDriver, DataDir: DefaultDataDir},
		Telemetry:  TelemetryConfig{Addr: DefaultAddr, Rate: DefaultRate, Burst: 1, Origins: []string{"*"}},
	}
}

// Load reads path (optional) over the defaults, then applies SPACECORE_
// environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("dt", d.Dt)
	v.SetDefault("duration", d.Duration)
	v.SetDefault("seed", d.Seed)
	v.SetDefault("integrator", d.Integrator)
	v.SetDefault("catalog", d.Catalog)
	v.SetDefault("start", d.Start)
	v.SetDefault("pirates", d.Pirates)

	v.SetDefault("ship.name", d.Ship.Name)
	v.SetDefault("ship.mass", d.Ship.Mass)
	v.SetDefault("ship.inertia", d.Ship.Inertia)
	v.SetDefault("ship.half_extents", d.Ship.HalfExtents)
	v.SetDefault("ship.fuel", d.Ship.Fuel)
	v.SetDefault("ship.fuel_per_sector", d.Ship.FuelPerSector)
	v.SetDefault("ship.hull", d.Ship.Hull)
	v.SetDefault("ship.thrust", d.Ship.Thrust)
	v.SetDefault("ship.missiles", d.Ship.Missiles)
	v.SetDefault("ship.altitude", d.Ship.Altitude)
	v.SetDefault("ship.orbit", d.Ship.Orbit)

	v.SetDefault("hyperspace.duration", d.Hyperspace.Duration)
	v.SetDefault("hyperspace.dest", d.Hyperspace.Dest)
	v.SetDefault("hyperspace.at", d.Hyperspace.At)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.console", d.Log.Console)
	v.SetDefault("log.file", d.Log.File)

	v.SetDefault("storage.driver", d.Storage.Driver)
	v.SetDefault("storage.dsn", d.Storage.DSN)
	v.SetDefault("storage.data_dir", d.Storage.DataDir)

	v.SetDefault("telemetry.addr", d.Telemetry.Addr)
	v.SetDefault("telemetry.rate", d.Telemetry.Rate)
	v.SetDefault("telemetry.burst", d.Telemetry.Burst)
	v.SetDefault("telemetry.origins", d.Telemetry.Origins)
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports every problem with cfg at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Dt <= 0 {
		errs = append(errs, fmt.Errorf("dt must be positive, got %g", c.Dt))
	}
	if c.Duration <= 0 {
		errs = append(errs, fmt.Errorf("duration must be positive, got %g", c.Duration))
	}
	if _, err := integrators.ByName(c.Integrator); err != nil {
		errs = append(errs, err)
	}
	if _, err := sysdesc.ParsePath(c.Start); err != nil {
		errs = append(errs, fmt.Errorf("start: %w", err))
	}
	if c.Hyperspace.Dest != "" {
		if _, err := sysdesc.ParsePath(c.Hyperspace.Dest); err != nil {
			errs = append(errs, fmt.Errorf("hyperspace.dest: %w", err))
		}
	}
	if c.Hyperspace.Duration <= 0 {
		errs = append(errs, fmt.Errorf("hyperspace.duration must be positive, got %g", c.Hyperspace.Duration))
	}
	if c.Ship.Mass <= 0 {
		errs = append(errs, fmt.Errorf("ship.mass must be positive, got %g", c.Ship.Mass))
	}
	if c.Pirates < 0 {
		errs = append(errs, fmt.Errorf("pirates must not be negative, got %d", c.Pirates))
	}
	return errors.Join(errs...)
}

// StartPath parses Start. Call Validate first.
func (c *Config) StartPath() sysdesc.Path {
	p, _ := sysdesc.ParsePath(c.Start)
	return p
}

// JumpDest parses Hyperspace.Dest; ok is false when no jump is scheduled.
func (c *Config) JumpDest() (sysdesc.Path, bool) {
	if c.Hyperspace.Dest == "" {
		return sysdesc.Path{}, false
	}
	p, err := sysdesc.ParsePath(c.Hyperspace.Dest)
	return p, err == nil
}
