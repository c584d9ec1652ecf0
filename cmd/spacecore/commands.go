package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/spacecore/internal/config"
	"github.com/san-kum/spacecore/internal/export"
	"github.com/san-kum/spacecore/internal/integrators"
	"github.com/san-kum/spacecore/internal/scenario"
	"github.com/san-kum/spacecore/internal/sysdesc"
	"github.com/san-kum/spacecore/internal/viz"
)

var (
	plotField    string
	exportFormat string
	runsLimit    int
)

func runScenario(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	var results []*scenario.Result
	if batch > 1 {
		var err error
		if results, err = scenario.RunBatch(ctx, cfg, log, batch); err != nil {
			return err
		}
	} else {
		r, err := newRunner(ctx)
		if err != nil {
			return err
		}
		res, err := r.Run(ctx)
		if err != nil {
			return err
		}
		results = []*scenario.Result{res}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tSYSTEM\tTICKS\tSIM TIME\tDESTROYED\tJUMPED\tWALL")
	for _, res := range results {
		fmt.Fprintf(w, "%d\t%s\t%d\t%.1fs\t%v\t%v\t%v\n",
			res.Seed, res.System, res.Ticks, res.SimTime, res.Destroyed, res.Jumped, res.Wall.Round(time.Millisecond))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	first := results[0]
	names := make([]string, 0, len(first.Metrics))
	for name := range first.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%-16s %.6g\n", name, first.Metrics[name])
	}

	if jsonOut != "" {
		if err := export.ExportJSON(jsonOut, export.NewRun(preset, cfg, first)); err != nil {
			return err
		}
	}
	if csvOut != "" {
		if err := export.ExportCSV(csvOut, first.Samples); err != nil {
			return err
		}
	}
	if save {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		for _, res := range results {
			rec, err := st.SaveRun(preset, cfg, res)
			if err != nil {
				return err
			}
			fmt.Printf("saved run %d\n", rec.ID)
		}
	}
	return nil
}

func watchScenario(cmd *cobra.Command, args []string) error {
	r, err := newRunner(context.Background())
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(viz.NewWatch(r, theme), tea.WithAltScreen()).Run()
	return err
}

func runsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "list stored runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			runs, err := st.ListRuns(runsLimit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs found")
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPRESET\tCREATED\tSYSTEM\tDT\tSIM TIME\tDESTROYED\tJUMPED")
			for _, run := range runs {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.3gs\t%.1fs\t%v\t%v\n",
					run.ID,
					run.Preset,
					run.CreatedAt.Format("2006-01-02 15:04:05"),
					run.System,
					run.Dt,
					run.SimTime,
					run.Destroyed,
					run.Jumped,
				)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&runsLimit, "limit", 20, "maximum runs listed")
	return cmd
}

func loadStoredRun(arg string) (*scenario.Result, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("run id %q: %w", arg, err)
	}
	st, err := openStore()
	if err != nil {
		return nil, err
	}
	defer st.Close()

	rec, samples, err := st.LoadRun(uint(id))
	if err != nil {
		return nil, err
	}
	return rec.Result(samples), nil
}

func plotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := loadStoredRun(args[0])
			if err != nil {
				return err
			}
			if len(res.Samples) == 0 {
				return fmt.Errorf("no samples to plot")
			}
			fmt.Printf("run: %s\n", args[0])
			fmt.Printf("system: %s\n", res.System)
			fmt.Printf("samples: %d\n\n", len(res.Samples))

			fields := []string{"altitude", "speed", "hull", "fuel"}
			if plotField != "" {
				fields = []string{plotField}
			}
			for _, f := range fields {
				if _, ok := viz.Fields[f]; !ok {
					return fmt.Errorf("unknown field %q", f)
				}
				fmt.Println(viz.PlotSamples(res.Samples, f, 80, 10))
				fmt.Println()
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&plotField, "field", "", "plot only this field (altitude, speed, hull, fuel)")
	return cmd
}

func exportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "write a stored run to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := loadStoredRun(args[0])
			if err != nil {
				return err
			}
			switch exportFormat {
			case "json":
				return export.WriteJSON(os.Stdout, export.NewRun("", cfg, res))
			case "csv":
				return export.WriteCSV(os.Stdout, res.Samples)
			case "svg":
				if len(res.Samples) == 0 {
					return fmt.Errorf("no samples to export")
				}
				track := export.SamplesTrack(res.Samples, res.Samples[0].Frame)
				_, err := fmt.Println(export.TrackToSVG(track, 800, 800, "#00ccff"))
				return err
			}
			return fmt.Errorf("unknown format %q", exportFormat)
		},
	}
	cmd.Flags().StringVar(&exportFormat, "format", "json", "json, csv or svg")
	return cmd
}

func benchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "bench",
		Short: "time the scenario under every integrator",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			fmt.Printf("benchmarking %.0fs at dt=%g\n\n", cfg.Duration, cfg.Dt)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "INTEGRATOR\tTICKS\tWALL\tTICKS/SEC\tMOMENTUM DRIFT")
			base := cfg
			defer func() { cfg = base }()
			for _, name := range integrators.Names() {
				c := *base
				c.Integrator = name
				cfg = &c
				r, err := newRunner(ctx)
				if err != nil {
					return err
				}
				res, err := r.Run(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%d\t%v\t%.0f\t%.3g\n",
					name, res.Ticks, res.Wall.Round(time.Microsecond),
					float64(res.Ticks)/res.Wall.Seconds(), res.Metrics["momentum_drift"])
			}
			return w.Flush()
		},
	}
}

func presetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list scenario presets",
		Run: func(cmd *cobra.Command, args []string) {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PRESET\tSTART\tDURATION\tDT\tJUMP")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				jump := "-"
				if p.Hyperspace.Dest != "" {
					jump = fmt.Sprintf("%s at %gs", p.Hyperspace.Dest, p.Hyperspace.At)
				}
				fmt.Fprintf(w, "%s\t%s\t%gs\t%g\t%s\n", name, p.Start, p.Duration, p.Dt, jump)
			}
			w.Flush()
		},
	}
}

func systemsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "systems",
		Short: "list catalog systems",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PATH\tNAME\tBODIES")
			for _, s := range cat.Systems() {
				fmt.Fprintf(w, "%d,%d,%d\t%s\t%d\n", s.Path.SectorX, s.Path.SectorY, s.Path.SystemIdx, s.Name, s.Bodies)
			}
			return w.Flush()
		},
	}
}

func loadCatalog() (*sysdesc.Catalog, error) {
	if cfg.Catalog == "" {
		return sysdesc.DefaultCatalog()
	}
	return sysdesc.LoadCatalog(cfg.Catalog)
}
