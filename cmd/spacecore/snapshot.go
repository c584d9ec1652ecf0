package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/spacecore/internal/collide"
	"github.com/san-kum/spacecore/internal/craft"
	"github.com/san-kum/spacecore/internal/integrators"
	"github.com/san-kum/spacecore/internal/space"
)

var (
	snapshotAt  float64
	snapshotFor float64
)

func snapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "save, restore and list simulation snapshots",
	}

	saveCmd := &cobra.Command{
		Use:   "save [name]",
		Short: "run the scenario up to --at and store the world",
		Args:  cobra.ExactArgs(1),
		RunE:  saveSnapshot,
	}
	addScenarioFlags(saveCmd)
	saveCmd.Flags().Float64Var(&snapshotAt, "at", 0, "simulated time to snapshot at")

	loadCmd := &cobra.Command{
		Use:   "load [name]",
		Short: "restore a snapshot and optionally keep running it",
		Args:  cobra.ExactArgs(1),
		RunE:  loadSnapshot,
	}
	loadCmd.Flags().Float64Var(&snapshotFor, "for", 0, "simulated seconds to run after restoring")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()
			snaps, err := st.ListSnapshots()
			if err != nil {
				return err
			}
			if len(snaps) == 0 {
				fmt.Println("no snapshots found")
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tUPDATED\tSYSTEM\tSIM TIME\tTICK\tBODIES")
			for _, s := range snaps {
				fmt.Fprintf(w, "%s\t%s\t%s\t%.1fs\t%d\t%d\n",
					s.Name, s.UpdatedAt.Format("2006-01-02 15:04:05"), s.System, s.SimTime, s.Tick, s.Bodies)
			}
			return w.Flush()
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete [name]",
		Short: "delete a stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()
			return st.DeleteSnapshot(args[0])
		},
	}

	cmd.AddCommand(saveCmd, loadCmd, listCmd, deleteCmd)
	return cmd
}

func saveSnapshot(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	r, err := newRunner(ctx)
	if err != nil {
		return err
	}
	for r.Space().Time() < snapshotAt && !r.Done() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.Step(); err != nil {
			return err
		}
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	rec, err := st.SaveSnapshot(args[0], r.Space())
	if err != nil {
		return err
	}
	fmt.Printf("saved %s: %s, t=%.1fs, %d bodies\n", rec.Name, rec.System, rec.SimTime, rec.Bodies)
	return nil
}

func loadSnapshot(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	integ, err := integrators.ByName(cfg.Integrator)
	if err != nil {
		return err
	}
	sp := space.New(cat,
		space.WithLogger(log),
		space.WithSeed(cfg.Seed),
		space.WithIntegrator(integ),
		space.WithCollisionSpaces(collide.New),
		space.WithHyperspaceDuration(cfg.Hyperspace.Duration),
	)
	craft.Register(sp)

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	if _, err := st.LoadSnapshot(args[0], sp); err != nil {
		return err
	}

	for end := sp.Time() + snapshotFor; sp.Time() < end-cfg.Dt/2; {
		if err := sp.Tick(cfg.Dt); err != nil {
			return err
		}
	}

	system := "(hyperspace)"
	if sys := sp.System(); sys != nil {
		system = sys.Name
	}
	fmt.Printf("%s  t=%.1fs  tick=%d  bodies=%d\n\n", system, sp.Time(), sp.TickCount(), sp.NumBodies())
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SHIP\tFRAME\tSPEED\tHULL\tFUEL")
	for _, b := range sp.Bodies() {
		sh, ok := b.(*craft.Ship)
		if !ok || sh.IsDead() {
			continue
		}
		frame := "-"
		if f := sp.Frame(sh.Frame()); f != nil {
			frame = f.Label
		}
		fmt.Fprintf(w, "%s\t%s\t%.1f\t%.0f\t%.1f\n", sh.Label(), frame, sh.Velocity().Len(), sh.Hull(), sh.Fuel())
	}
	return w.Flush()
}
