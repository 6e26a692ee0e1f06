package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/okuno/orbitsim/internal/analysis"
	"github.com/okuno/orbitsim/internal/config"
	"github.com/okuno/orbitsim/internal/metrics"
	"github.com/okuno/orbitsim/internal/storage"
	"github.com/okuno/orbitsim/internal/viz"
)

var (
	dataDir     string
	configFile  string
	preset      string
	catalog     string
	dt          float64
	theta       float64
	asteroids   int
	seed        int64
	workers     int
	steps       int
	snapshots   int
	energyCheck bool
	plotBody    string
	outFile     string
	thetas      []float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "orbitsim",
		Short: "Barnes-Hut orbital mechanics simulator",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".orbitsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store the result",
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().IntVar(&steps, "steps", 0, "number of steps")
	runCmd.Flags().IntVar(&snapshots, "snapshot-every", 0, "steps between stored snapshots")
	runCmd.Flags().BoolVar(&energyCheck, "energy-check", false,
		"track energy drift (exact O(n^2) sum per step, slow for large belts)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with live terminal visualization",
		RunE:  runLive,
	}
	addSimFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotBody, "body", "",
		"plot this body's distance from origin instead of total energy")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVar(&outFile, "out", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a run's snapshots as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVar(&outFile, "out", "", "output file (default stdout)")

	accuracyCmd := &cobra.Command{
		Use:   "accuracy",
		Short: "compare tree forces against exact summation across thetas",
		RunE:  runAccuracy,
	}
	addSimFlags(accuracyCmd)
	accuracyCmd.Flags().Float64SliceVar(&thetas, "thetas",
		[]float64{0.1, 0.3, 0.5, 0.8, 1.2}, "opening thresholds to sweep")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure step throughput across worker counts",
		RunE:  runBench,
	}
	addSimFlags(benchCmd)
	benchCmd.Flags().IntVar(&steps, "steps", 100, "steps per measurement")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd,
		exportJSONCmd, exportCSVCmd, accuracyCmd, benchCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use a preset configuration")
	cmd.Flags().StringVar(&catalog, "catalog", "", "body catalog")
	cmd.Flags().Float64Var(&dt, "dt", 0, "timestep in seconds")
	cmd.Flags().Float64Var(&theta, "theta", 0, "opening threshold")
	cmd.Flags().IntVar(&asteroids, "asteroids", -1, "number of asteroids")
	cmd.Flags().Int64Var(&seed, "seed", 0, "asteroid sampling seed")
	cmd.Flags().IntVar(&workers, "workers", -1, "force evaluation goroutines (0 = all cores)")
}

// buildConfig layers preset or config file under explicit flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	var err error
	switch {
	case preset != "":
		cfg, err = config.Preset(preset)
	case configFile != "":
		cfg, err = config.Load(configFile)
	default:
		cfg = config.DefaultConfig()
	}
	if err != nil {
		return nil, err
	}

	f := cmd.Flags()
	if f.Changed("catalog") {
		cfg.Catalog = catalog
	}
	if f.Changed("dt") {
		cfg.Dt = dt
	}
	if f.Changed("theta") {
		cfg.Theta = theta
	}
	if f.Changed("asteroids") {
		cfg.Asteroids = asteroids
	}
	if f.Changed("seed") {
		cfg.Seed = seed
	}
	if f.Changed("workers") {
		cfg.Workers = workers
	}
	if f.Changed("steps") {
		cfg.Steps = steps
	}
	if f.Changed("snapshot-every") {
		cfg.SnapshotEvery = snapshots
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	s, err := cfg.BuildSimulation()
	if err != nil {
		return err
	}
	defer s.Close()

	s.AddMetric(metrics.NewMomentum())
	s.AddMetric(metrics.NewAngularMomentum())
	if energyCheck {
		s.AddMetric(metrics.NewEnergyDrift())
	}

	st := storage.New(dataDir)
	w, err := st.Begin(storage.RunMetadata{
		Catalog:   cfg.Catalog,
		Seed:      cfg.Seed,
		Dt:        cfg.Dt,
		Theta:     cfg.Theta,
		Asteroids: cfg.Asteroids,
		Steps:     cfg.Steps,
	})
	if err != nil {
		return err
	}

	fmt.Printf("running %s: %d bodies, %d steps, theta %.2f\n",
		cfg.Catalog, s.BodyCount(), cfg.Steps, cfg.Theta)
	start := time.Now()

	if err := s.Run(context.Background(), cfg.Steps, cfg.SnapshotEvery, w); err != nil {
		w.Finish(nil)
		return err
	}

	vals := make(map[string]float64)
	for _, m := range s.Metrics() {
		vals[m.Name()] = m.Value()
	}
	if err := w.Finish(vals); err != nil {
		return err
	}

	fmt.Printf("completed in %v (%.1f simulated days)\n", time.Since(start), s.ElapsedDays())
	fmt.Printf("run id: %s\n", w.ID())
	fmt.Println("\nmetrics:")
	for name, val := range vals {
		fmt.Printf("  %s: %g\n", name, val)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	s, err := cfg.BuildSimulation()
	if err != nil {
		return err
	}

	model := viz.NewModel(s, cfg.SimConfig(), cfg.Catalog)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCATALOG\tWHEN\tSTEPS\tSNAPSHOTS\tTHETA\tASTEROIDS")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.2f\t%d\n",
			r.ID, r.Catalog, r.Timestamp.Format("2006-01-02 15:04"),
			r.Steps, r.Snapshots, r.Theta, r.Asteroids)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	snaps, err := st.LoadSnapshots(args[0])
	if err != nil {
		return err
	}
	if len(snaps) < 2 {
		return fmt.Errorf("run %s has %d snapshots, need at least 2", args[0], len(snaps))
	}

	series := make([]float64, 0, len(snaps))
	caption := "total energy"
	if plotBody != "" {
		caption = plotBody + " distance from origin (m)"
		for _, snap := range snaps {
			found := false
			for _, b := range snap.Bodies {
				if b.Name == plotBody {
					series = append(series, b.Position.Norm())
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("body %q not in run %s", plotBody, args[0])
			}
		}
	} else {
		for _, snap := range snaps {
			series = append(series, metrics.TotalEnergy(snap.Bodies))
		}
	}

	fmt.Println(asciigraph.Plot(series,
		asciigraph.Height(15), asciigraph.Width(70), asciigraph.Caption(caption)))
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	snaps, err := st.LoadSnapshots(args[0])
	if err != nil {
		return err
	}

	out, closeOut, err := openOut()
	if err != nil {
		return err
	}
	defer closeOut()
	return storage.ExportJSON(out, *meta, snaps)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	snaps, err := st.LoadSnapshots(args[0])
	if err != nil {
		return err
	}

	out, closeOut, err := openOut()
	if err != nil {
		return err
	}
	defer closeOut()
	return storage.ExportCSV(out, snaps)
}

func openOut() (*os.File, func(), error) {
	if outFile == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func runAccuracy(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	s, err := cfg.BuildSimulation()
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Printf("sweeping %d bodies over %v\n\n", s.BodyCount(), thetas)
	results := analysis.ThetaSweep(s.Bodies(), thetas)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "THETA\tMEAN ERR\tSTDDEV\tMAX ERR\tVISITS/BODY")
	for _, r := range results {
		fmt.Fprintf(w, "%.2f\t%.3e\t%.3e\t%.3e\t%.1f\n",
			r.Theta, r.MeanErr, r.StdDevErr, r.MaxErr, r.MeanVisit)
	}
	return w.Flush()
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if steps <= 0 {
		steps = 100
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WORKERS\tTIME\tSTEPS/SEC")
	for _, n := range []int{1, 2, 4, 0} {
		cfg.Workers = n
		s, err := cfg.BuildSimulation()
		if err != nil {
			return err
		}

		start := time.Now()
		for i := 0; i < steps; i++ {
			s.Step()
		}
		elapsed := time.Since(start)
		s.Close()

		label := fmt.Sprintf("%d", n)
		if n == 0 {
			label = "all"
		}
		fmt.Fprintf(w, "%s\t%v\t%.1f\n", label, elapsed.Round(time.Millisecond),
			float64(steps)/elapsed.Seconds())
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCATALOG\tASTEROIDS\tTHETA\tDT (days)")
	for _, name := range config.PresetNames() {
		p, err := config.Preset(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%.2f\n",
			name, p.Catalog, p.Asteroids, p.Theta, p.Dt/86400)
	}
	return w.Flush()
}
