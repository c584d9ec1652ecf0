// Package export writes scenario results and sky maps to files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/spacecore/internal/config"
	"github.com/san-kum/spacecore/internal/scenario"
)

// Run is the JSON document written for a finished scenario.
type Run struct {
	Preset     string             `json:"preset,omitempty"`
	Integrator string             `json:"integrator"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Seed       int64              `json:"seed"`
	System     string             `json:"system"`
	Ticks      uint64             `json:"ticks"`
	SimTime    float64            `json:"sim_time"`
	Destroyed  bool               `json:"destroyed"`
	Jumped     bool               `json:"jumped"`
	WallMillis int64              `json:"wall_ms"`
	Metrics    map[string]float64 `json:"metrics"`
	Samples    []scenario.Sample  `json:"samples"`
}

func NewRun(preset string, cfg *config.Config, res *scenario.Result) Run {
	return Run{
		Preset:     preset,
		Integrator: cfg.Integrator,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Seed:       res.Seed,
		System:     res.System,
		Ticks:      res.Ticks,
		SimTime:    res.SimTime,
		Destroyed:  res.Destroyed,
		Jumped:     res.Jumped,
		WallMillis: res.Wall.Milliseconds(),
		Metrics:    res.Metrics,
		Samples:    res.Samples,
	}
}

func WriteJSON(w io.Writer, run Run) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(run)
}

func ExportJSON(path string, run Run) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteJSON(f, run)
}

var csvHeader = []string{"time", "frame", "x", "y", "z", "altitude", "speed", "hull", "fuel"}

// WriteCSV writes one row per sample.
func WriteCSV(w io.Writer, samples []scenario.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			formatFloat(s.Time),
			s.Frame,
			formatFloat(s.Pos.X()),
			formatFloat(s.Pos.Y()),
			formatFloat(s.Pos.Z()),
			formatFloat(s.Altitude),
			formatFloat(s.Speed),
			formatFloat(s.Hull),
			formatFloat(s.Fuel),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ExportCSV(path string, samples []scenario.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, samples); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
