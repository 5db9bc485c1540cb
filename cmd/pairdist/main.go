package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/san-kum/pairdist/internal/analysis"
	"github.com/san-kum/pairdist/internal/config"
	"github.com/san-kum/pairdist/internal/logging"
	"github.com/san-kum/pairdist/internal/metrics"
	"github.com/san-kum/pairdist/internal/pairwise"
	"github.com/san-kum/pairdist/internal/particles"
	"github.com/san-kum/pairdist/internal/storage"
	"github.com/san-kum/pairdist/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	seed       int64
	workers    int
	discipline string
	box        []float32
	bins       int
	logLevel   string
	logFormat  string
	save       bool
	showTUI    bool
	lattice    bool
	benchRuns  int
)

// main registers the pairdist commands and exits with status 1 when the
// selected command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:          "pairdist",
		Short:        "minimum-image pairwise distances in a periodic box",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".pairdist", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console, json)")

	runCmd := &cobra.Command{
		Use:   "run [particles]",
		Short: "compute the distance matrix for random particles",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCompute,
	}
	addEngineFlags(runCmd)
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().BoolVar(&save, "save", false, "store positions and matrix under the data directory")
	runCmd.Flags().BoolVar(&showTUI, "tui", false, "show a progress view while computing")
	runCmd.Flags().BoolVar(&lattice, "lattice", false, "place particles on a cubic lattice instead of at random")

	benchCmd := &cobra.Command{
		Use:   "bench [particles...]",
		Short: "compare serial, locked and disjoint execution",
		RunE:  benchEngine,
	}
	addEngineFlags(benchCmd)
	benchCmd.Flags().IntVar(&benchRuns, "runs", 3, "repetitions per configuration")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	histCmd := &cobra.Command{
		Use:   "hist [run_id]",
		Short: "plot the pair-distance histogram and g(r) of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotHistogram,
	}
	histCmd.Flags().IntVar(&bins, "bins", config.DefaultBins, "histogram bins")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write the pair list of a stored run as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "write a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportParquetCmd := &cobra.Command{
		Use:   "export-parquet [run_id] [path]",
		Short: "write the pair list of a stored run as parquet",
		Args:  cobra.ExactArgs(2),
		RunE:  exportParquet,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tPARTICLES\tDISCIPLINE\tBOX")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%s\t%gx%gx%g\n", name, p.Particles, p.Discipline, p.Box.Lx, p.Box.Ly, p.Box.Lz)
			}
			return w.Flush()
		},
	}

	initConfigCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the default configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Save(args[0], config.DefaultConfig())
		},
	}

	rootCmd.AddCommand(runCmd, benchCmd, listCmd, histCmd, exportCSVCmd, exportJSONCmd, exportParquetCmd, presetsCmd, initConfigCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addEngineFlags(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (0 = all CPUs)")
	cmd.Flags().StringVar(&discipline, "discipline", config.DefaultDiscipline, "write discipline (disjoint, locked)")
	cmd.Flags().Float32SliceVar(&box, "box", []float32{1, 1, 1}, "box edge lengths lx,ly,lz")
	cmd.Flags().IntVar(&bins, "bins", config.DefaultBins, "histogram bins")
}

func newLogger(cfg logging.Config, cmd *cobra.Command) (zerolog.Logger, error) {
	if cmd.Flags().Changed("log-level") || cfg.Level == "" {
		cfg.Level = logLevel
	}
	if cmd.Flags().Changed("log-format") || cfg.Format == "" {
		cfg.Format = logFormat
	}
	return logging.New(cfg)
}

// resolveConfig layers preset, config file and explicitly set flags, in that
// order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
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

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("discipline") {
		cfg.Discipline = discipline
	}
	if flags.Changed("bins") {
		cfg.Bins = bins
	}
	if flags.Changed("box") {
		switch len(box) {
		case 1:
			cfg.Box = config.BoxConfig{Lx: box[0], Ly: box[0], Lz: box[0]}
		case 3:
			cfg.Box = config.BoxConfig{Lx: box[0], Ly: box[1], Lz: box[2]}
		default:
			return nil, fmt.Errorf("--box takes 1 or 3 values, got %d", len(box))
		}
	}
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid number of particles: %w", err)
		}
		cfg.Particles = n
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runCompute(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.Log, cmd)
	if err != nil {
		return err
	}

	engCfg, err := cfg.EngineConfig()
	if err != nil {
		return err
	}
	eng := pairwise.New(engCfg)
	engCfg = eng.Config()

	var positions pairwise.PositionSet
	if lattice {
		positions = particles.Lattice(cfg.Particles, engCfg.Box)
	} else {
		positions = particles.Uniform(cfg.Particles, engCfg.Box, cfg.Seed)
	}

	reg := prometheus.NewRegistry()
	rec := metrics.NewRecorder(reg)
	progress := viz.NewProgress(cfg.Particles)
	eng.SetObserver(pairwise.Observers(rec, progress))

	log.Info().
		Int("particles", cfg.Particles).
		Int("workers", engCfg.Workers).
		Str("discipline", engCfg.Discipline.String()).
		Floats32("box", engCfg.Box.L[:]).
		Int64("seed", cfg.Seed).
		Msg("computing distances")

	var m *pairwise.Matrix
	if showTUI {
		done := make(chan *pairwise.Matrix, 1)
		go func() {
			done <- eng.Compute(positions, len(positions))
		}()
		p := tea.NewProgram(viz.NewProgressModel(fmt.Sprintf("%d particles", cfg.Particles), progress))
		if _, err := p.Run(); err != nil {
			log.Warn().Err(err).Msg("progress view failed")
		}
		m = <-done
	} else {
		m = eng.Compute(positions, len(positions))
	}
	elapsed := progress.Elapsed()

	log.Info().
		Float64("seconds", elapsed.Seconds()).
		Int("pairs", pairwise.PairCount(cfg.Particles)).
		Msg("execution time")
	if snap, err := metrics.Snapshot(reg); err == nil {
		fields := make(map[string]any, len(snap))
		for k, v := range snap {
			fields[k] = v
		}
		log.Debug().Fields(fields).Msg("engine metrics")
	}

	if err := m.Validate(engCfg.Tolerances.SP); err != nil {
		return fmt.Errorf("distance matrix failed validation: %w", err)
	}

	summary := analysis.Summarize(m)
	report := viz.RunReport{
		Box:        engCfg.Box,
		Workers:    engCfg.Workers,
		Discipline: engCfg.Discipline,
		Elapsed:    elapsed,
		Summary:    summary,
	}

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(storage.RunMetadata{
			Seed:       cfg.Seed,
			Workers:    engCfg.Workers,
			Discipline: engCfg.Discipline.String(),
			Box:        engCfg.Box.L,
			Elapsed:    elapsed.Seconds(),
			Summary:    summary,
		}, positions, m)
		if err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		report.RunID = runID
		log.Info().Str("run_id", runID).Str("dir", dataDir).Msg("run saved")
	}

	fmt.Println(viz.RenderReport(report))
	return nil
}

func benchEngine(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, nil)
	if err != nil {
		return err
	}
	engCfg, err := cfg.EngineConfig()
	if err != nil {
		return err
	}

	sizes := []int{500, 1000, 2000}
	if len(args) > 0 {
		sizes = sizes[:0]
		for _, a := range args {
			n, err := strconv.Atoi(a)
			if err != nil || n < 0 {
				return fmt.Errorf("invalid number of particles: %s", a)
			}
			sizes = append(sizes, n)
		}
	}
	if benchRuns < 1 {
		benchRuns = 1
	}

	type mode struct {
		name       string
		workers    int
		discipline pairwise.Discipline
	}
	modes := []mode{
		{"serial", 1, pairwise.Disjoint},
		{"locked", engCfg.Workers, pairwise.Locked},
		{"disjoint", engCfg.Workers, pairwise.Disjoint},
	}

	fmt.Printf("benchmarking (%d workers, best of %d)\n\n", engCfg.Workers, benchRuns)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tMODE\tWORKERS\tTIME\tPAIRS/SEC\tSPEEDUP")

	for _, n := range sizes {
		positions := particles.Uniform(n, engCfg.Box, cfg.Seed)
		var baseline time.Duration
		var reference *pairwise.Matrix

		for _, md := range modes {
			c := engCfg
			c.Workers = md.workers
			c.Discipline = md.discipline
			eng := pairwise.New(c)

			best := time.Duration(0)
			var m *pairwise.Matrix
			for r := 0; r < benchRuns; r++ {
				start := time.Now()
				m = eng.Compute(positions, n)
				if d := time.Since(start); best == 0 || d < best {
					best = d
				}
			}

			if reference == nil {
				reference = m
				baseline = best
			} else if !m.Equal(reference) {
				return fmt.Errorf("%s result differs from serial for n=%d", md.name, n)
			}

			pairsPerSec := 0.0
			if best > 0 {
				pairsPerSec = float64(pairwise.PairCount(n)) / best.Seconds()
			}
			speedup := 0.0
			if best > 0 {
				speedup = baseline.Seconds() / best.Seconds()
			}
			fmt.Fprintf(w, "%d\t%s\t%d\t%v\t%.0f\t%.2fx\n",
				n, md.name, md.workers, best, pairsPerSec, speedup)
		}
	}

	return w.Flush()
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
	fmt.Fprintln(w, "ID\tTIME\tPARTICLES\tWORKERS\tDISCIPLINE\tELAPSED\tMAX")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%.4fs\t%.4f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.Workers,
			run.Discipline,
			run.Elapsed,
			run.Summary.Max,
		)
	}

	return w.Flush()
}

func plotHistogram(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	m, err := st.LoadMatrix(runID)
	if err != nil {
		return err
	}
	if m.N() < 2 {
		return fmt.Errorf("no pairs to plot")
	}

	b := meta.BoxGeometry()
	h := analysis.NewHistogram(m, bins, float64(b.MaxDistance())*1.0001)

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("particles: %d  pairs: %d\n\n", meta.Particles, pairwise.PairCount(meta.Particles))

	graph := asciigraph.Plot(h.Counts,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("pair distances, bin width %.4f", h.BinWidth())),
	)
	fmt.Println(graph)
	fmt.Println()

	rdf := analysis.RadialDistribution(m, b, bins)
	g := make([]float64, len(rdf))
	for i, bin := range rdf {
		g[i] = bin.G
	}
	graph = asciigraph.Plot(g,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("g(r), r up to %.4f", rdf[len(rdf)-1].R)),
	)
	fmt.Println(graph)

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	m, err := st.LoadMatrix(runID)
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"i", "j", "distance"}); err != nil {
		return err
	}
	n := m.N()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			row := []string{
				strconv.Itoa(i),
				strconv.Itoa(j),
				strconv.FormatFloat(float64(m.At(i, j)), 'g', -1, 32),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	positions, err := st.LoadPositions(runID)
	if err != nil {
		return err
	}
	m, err := st.LoadMatrix(runID)
	if err != nil {
		return err
	}

	return storage.ExportJSON(os.Stdout, *meta, positions, m)
}

func exportParquet(cmd *cobra.Command, args []string) error {
	runID, path := args[0], args[1]

	st := storage.New(dataDir)
	m, err := st.LoadMatrix(runID)
	if err != nil {
		return err
	}

	rows, err := storage.ExportParquet(path, m)
	if err != nil {
		return err
	}
	fmt.Printf("wrote %d pairs to %s\n", rows, path)
	return nil
}
