package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/kmadler/mdthr/internal/atoms"
	"github.com/kmadler/mdthr/internal/config"
	"github.com/kmadler/mdthr/internal/force"
	"github.com/kmadler/mdthr/internal/sim"
	"github.com/kmadler/mdthr/internal/storage"
	"github.com/kmadler/mdthr/internal/tally"
	"github.com/kmadler/mdthr/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	threads    int
	steps      int
	lattice    int
	dt         float64
	seed       int64
	newton     bool
	threadList string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mdthr",
		Short: "threaded molecular dynamics with per-worker tally reduction",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".mdthr", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "preset configuration")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation",
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "sweep thread counts on one scenario",
		RunE:  benchThreads,
	}
	addSimFlags(benchCmd)
	benchCmd.Flags().StringVar(&threadList, "threads-list", "1,2,4,8", "thread counts to sweep")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with live terminal view",
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
		Short: "plot a stored run's thermo series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset configurations",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, benchCmd, liveCmd, listCmd, plotCmd, exportCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&threads, "threads", 0, "worker threads (0 = config value)")
	cmd.Flags().IntVar(&steps, "steps", 0, "simulation steps (0 = config value)")
	cmd.Flags().IntVar(&lattice, "lattice", 0, "atoms per box edge (0 = config value)")
	cmd.Flags().Float64Var(&dt, "dt", 0, "timestep (0 = config value)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = config value)")
	cmd.Flags().BoolVar(&newton, "newton", true, "third-law shortcut for pairwise terms")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if threads > 0 {
		cfg.Threads = threads
	}
	if steps > 0 {
		cfg.Steps = steps
	}
	if lattice > 0 {
		cfg.Lattice = lattice
	}
	if dt > 0 {
		cfg.Dt = dt
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("newton") {
		cfg.Newton = newton
	}

	return cfg, nil
}

func buildSimulator(cfg *config.Config) (*sim.Simulator, *atoms.System) {
	sys := atoms.NewLattice(cfg.Lattice, cfg.Density, cfg.Threads)
	if cfg.Charged {
		sys.SetCharges(cfg.Charge)
	}

	acc := tally.New(cfg.Threads)
	pair := force.NewPairLJCut(cfg.Epsilon, cfg.Sigma, cfg.Cutoff, acc)

	var bond *force.BondHarmonic
	if cfg.Bonds {
		bond = force.NewBondHarmonic(cfg.BondK, cfg.BondR0, force.Chain(sys.Nlocal), acc)
	}

	s := sim.New(sys, pair, bond, sim.Config{
		Dt:         cfg.Dt,
		Steps:      cfg.Steps,
		Threads:    cfg.Threads,
		Every:      cfg.Every,
		Newton:     cfg.Newton,
		NewtonBond: cfg.NewtonBond,
		Flags: tally.Flags{
			GlobalEnergy:  cfg.Output.Energy,
			GlobalVirial:  cfg.Output.Virial,
			PerAtomEnergy: cfg.Output.PerAtomEnergy,
			PerAtomVirial: cfg.Output.PerAtomVirial,
		},
	})
	s.SeedVelocities(cfg.Temperature, cfg.Seed)
	return s, sys
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s, sys := buildSimulator(cfg)

	fmt.Printf("running %d atoms on %d threads...\n", sys.Nlocal, cfg.Threads)
	start := time.Now()

	result, err := s.Run(context.Background())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(sys.Nlocal, cfg.Threads, cfg.Newton, cfg.Dt, cfg.Steps, cfg.Seed, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed %d steps in %v (%.0f steps/sec)\n",
		result.StepsTaken, elapsed, float64(result.StepsTaken)/elapsed.Seconds())
	fmt.Printf("run id: %s\n", runID)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6g\n", name, val)
	}

	if len(result.Pot) > 1 {
		fmt.Println()
		graph := asciigraph.Plot(result.Pot,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("potential energy"),
		)
		fmt.Println(graph)
	}

	return nil
}

func benchThreads(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	counts := make([]int, 0, 4)
	for _, part := range strings.Split(threadList, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 1 {
			return fmt.Errorf("bad thread count: %q", part)
		}
		counts = append(counts, n)
	}

	fmt.Printf("benchmarking %d^3 atoms, %d steps\n\n", cfg.Lattice, cfg.Steps)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "THREADS\tTIME\tSTEPS/SEC\tPOT ENERGY\tDRIFT")

	for _, n := range counts {
		c := *cfg
		c.Threads = n
		s, _ := buildSimulator(&c)

		start := time.Now()
		result, err := s.Run(context.Background())
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%d\t%v\t%.0f\t%.6f\t%.2e\n",
			n, elapsed.Round(time.Millisecond),
			float64(result.StepsTaken)/elapsed.Seconds(),
			result.Metrics["pot_energy"],
			result.Metrics["energy_drift"],
		)
	}

	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	s, _ := buildSimulator(cfg)
	m := viz.NewModel(s, cfg.Steps, 2)

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
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

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tATOMS\tTHREADS\tNEWTON\tSTEPS\tDT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%v\t%d\t%.4f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Atoms,
			run.Threads,
			run.Newton,
			run.Steps,
			run.Dt,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	th, err := st.LoadThermo(args[0])
	if err != nil {
		return err
	}

	if len(th.Times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	series := []struct {
		name string
		data []float64
	}{
		{"potential energy", th.Pot},
		{"temperature", th.Temp},
		{"pressure", th.Press},
	}
	for _, s := range series {
		graph := asciigraph.Plot(s.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.name),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}
