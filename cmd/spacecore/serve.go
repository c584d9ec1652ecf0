package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/spacecore/internal/space"
	"github.com/san-kum/spacecore/internal/telemetry"
)

var speed float64

// serveScenario paces the simulation against the wall clock and streams
// frames to websocket clients until the run ends or a signal arrives.
func serveScenario(cmd *cobra.Command, args []string) error {
	if speed <= 0 {
		return fmt.Errorf("speed must be positive, got %g", speed)
	}
	ctx, cancel := signalContext()
	defer cancel()

	hub := telemetry.NewHub(log, cfg.Telemetry.Origins)
	streamer := telemetry.NewStreamer(hub, cfg.Telemetry.Rate, cfg.Telemetry.Burst)
	r, err := newRunner(ctx, space.WithObserver(streamer))
	if err != nil {
		return err
	}
	streamer.Follow(r.Ship())
	go hub.Run(ctx)

	srv := &http.Server{
		Addr:              cfg.Telemetry.Addr,
		Handler:           hub.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()
	log.Info().Str("addr", cfg.Telemetry.Addr).Float64("speed", speed).Msg("streaming")

	interval := time.Duration(cfg.Dt / speed * float64(time.Second))
	ticker := time.NewTicker(max(interval, time.Millisecond))
	defer ticker.Stop()

	var runErr error
loop:
	for !r.Done() {
		select {
		case <-ctx.Done():
			break loop
		case runErr = <-errc:
			break loop
		case <-ticker.C:
			if runErr = r.Step(); runErr != nil {
				break loop
			}
		}
	}
	log.Info().
		Float64("time", r.Space().Time()).
		Uint64("frames", streamer.Published()).
		Msg("stream finished")

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	return errors.Join(runErr, srv.Shutdown(shutdownCtx))
}
