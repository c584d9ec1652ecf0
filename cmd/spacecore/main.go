package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/san-kum/spacecore/internal/config"
	"github.com/san-kum/spacecore/internal/logging"
	"github.com/san-kum/spacecore/internal/metrics"
	"github.com/san-kum/spacecore/internal/scenario"
	"github.com/san-kum/spacecore/internal/space"
	"github.com/san-kum/spacecore/internal/storage"
)

var (
	configFile string
	envFile    string
	preset     string
	logLevel   string

	dt         float64
	duration   float64
	seed       int64
	integrator string
	start      string
	jumpTo     string
	jumpAt     float64
	pirates    int

	save    bool
	jsonOut string
	csvOut  string
	batch   int
	theme   string

	cfg *config.Config
	log zerolog.Logger
)

// main wires the commands; settings come from the config file, then the
// preset, then SPACECORE_ environment variables, then flags.
func main() {
	var logCloser io.Closer = nopCloser{}
	rootCmd := &cobra.Command{
		Use:           "spacecore",
		Short:         "space flight physics simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = loadConfig(cmd); err != nil {
				return err
			}
			log, logCloser, err = logging.New(logging.Options{
				Level:   cfg.Log.Level,
				Console: cfg.Log.Console,
				File:    cfg.Log.File,
			})
			return err
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment is read")
	pf.StringVar(&preset, "preset", "", "scenario preset, applied over the config file")
	pf.StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scenario headless",
		RunE:  runScenario,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().BoolVar(&save, "save", false, "store the run in the database")
	runCmd.Flags().StringVar(&jsonOut, "json", "", "write the result as json to this path")
	runCmd.Flags().StringVar(&csvOut, "csv", "", "write the samples as csv to this path")
	runCmd.Flags().IntVar(&batch, "batch", 1, "run this many seeds in parallel")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "run a scenario with a live terminal view",
		RunE:  watchScenario,
	}
	addScenarioFlags(watchCmd)
	watchCmd.Flags().StringVar(&theme, "theme", "deep-space", "colour theme")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "run a scenario in real time and stream it over websocket",
		RunE:  serveScenario,
	}
	addScenarioFlags(serveCmd)
	serveCmd.Flags().Float64Var(&speed, "speed", 1, "simulated seconds per wall second")

	rootCmd.AddCommand(
		runCmd,
		watchCmd,
		serveCmd,
		runsCommand(),
		plotCommand(),
		exportCommand(),
		benchCommand(),
		snapshotCommand(),
		presetsCommand(),
		systemsCommand(),
	)

	err := rootCmd.Execute()
	logCloser.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&dt, "dt", config.DefaultDt, "timestep in seconds")
	f.Float64Var(&duration, "time", config.DefaultDuration, "simulated duration in seconds")
	f.Int64Var(&seed, "seed", 0, "random seed")
	f.StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator")
	f.StringVar(&start, "start", config.DefaultStart, "start body path (sectorX,sectorY,system,body)")
	f.StringVar(&jumpTo, "jump", "", "hyperspace destination path")
	f.Float64Var(&jumpAt, "jump-at", 0, "simulated time of the jump")
	f.IntVar(&pirates, "pirates", 0, "hostile ships waiting at the destination")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}
	c, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if preset != "" {
		patch, ok := config.Presets[preset]
		if !ok {
			return nil, fmt.Errorf("unknown preset %q (have %v)", preset, config.ListPresets())
		}
		patch(c)
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		c.Log.Level = logLevel
	}
	if flags.Changed("dt") {
		c.Dt = dt
	}
	if flags.Changed("time") {
		c.Duration = duration
	}
	if flags.Changed("seed") {
		c.Seed = seed
	}
	if flags.Changed("integrator") {
		c.Integrator = integrator
	}
	if flags.Changed("start") {
		c.Start = start
	}
	if flags.Changed("jump") {
		c.Hyperspace.Dest = jumpTo
	}
	if flags.Changed("jump-at") {
		c.Hyperspace.At = jumpAt
	}
	if flags.Changed("pirates") {
		c.Pirates = pirates
	}
	return c, nil
}

// newRunner builds a scenario that also reports to the global
// OpenTelemetry meter provider.
func newRunner(ctx context.Context, opts ...space.Option) (*scenario.Runner, error) {
	rec, err := metrics.NewRecorder(ctx, otel.GetMeterProvider())
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	return scenario.New(cfg, log, append([]space.Option{space.WithObserver(rec)}, opts...)...)
}

func openStore() (*storage.Store, error) {
	dsn := cfg.Storage.DSN
	if dsn == "" && cfg.Storage.Driver == "sqlite" {
		if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
			return nil, err
		}
		dsn = filepath.Join(cfg.Storage.DataDir, "spacecore.db")
	}
	st, err := storage.Open(cfg.Storage.Driver, dsn, log)
	if err != nil {
		return nil, err
	}
	if err := st.Init(); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
