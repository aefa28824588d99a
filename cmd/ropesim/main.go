package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"math"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/san-kum/ropesim/internal/analysis"
	"github.com/san-kum/ropesim/internal/config"
	"github.com/san-kum/ropesim/internal/export"
	"github.com/san-kum/ropesim/internal/gui"
	"github.com/san-kum/ropesim/internal/metrics"
	"github.com/san-kum/ropesim/internal/scene"
	"github.com/san-kum/ropesim/internal/sim"
	"github.com/san-kum/ropesim/internal/storage"
	"github.com/san-kum/ropesim/internal/tui"
	"github.com/san-kum/ropesim/internal/vec"
	"github.com/san-kum/ropesim/internal/verlet"
	"github.com/san-kum/ropesim/internal/viz"
)

var (
	dataDir      string
	configFile   string
	preset       string
	dt           float64
	duration     float64
	iterations   int
	gravityX     float64
	gravityY     float64
	seed         int64
	captureEvery int
	noSave       bool
	// plot / export
	pointIdx   int
	outputFile string
	svgWidth   int
	svgHeight  int
	// bench / compare
	benchSteps int
	sweepIters []int
	parallel   int
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("ropesim: ")

	// .env is optional; variables already set in the environment win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("warning: .env: %v", err)
	}

	rootCmd := &cobra.Command{
		Use:   "ropesim",
		Short: "verlet rope and cloth simulator",
		RunE:  pickAndRun,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", envOr("ROPESIM_DATA", ".ropesim"), "data directory (env ROPESIM_DATA)")
	addSceneFlags(rootCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation in the terminal",
		RunE:  runLive,
	}
	addSceneFlags(liveCmd)

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run the simulation in a window",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, s, err := setup(cmd)
			if err != nil {
				return err
			}
			warnSpawns(cfg)
			gui.Run(cfg, s)
			return nil
		},
	}
	addSceneFlags(guiCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store the result",
		RunE:  runSimulation,
	}
	addSceneFlags(runCmd)
	runCmd.Flags().IntVar(&captureEvery, "every", 1, "keep one frame every n steps")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot stick strain and point height over a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&pointIdx, "point", -1, "also plot the height of this point")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "dominant swing frequency of a point",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&pointIdx, "point", -1, "point to analyze (default: last unpinned point of the initial scene)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render the last frame of a run to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().IntVar(&pointIdx, "trajectory", -1, "draw the path of this point instead")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 800, "image height")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run frames to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time the step loop",
		RunE:  benchScene,
	}
	addSceneFlags(benchCmd)
	benchCmd.Flags().IntVar(&benchSteps, "steps", 1000, "steps per measurement")

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "compare relaxation iteration counts on the same scene",
		RunE:  compareIterations,
	}
	addSceneFlags(compareCmd)
	compareCmd.Flags().IntSliceVar(&sweepIters, "iters", []int{1, 2, 5, 10, 20}, "iteration counts to compare")
	compareCmd.Flags().IntVar(&parallel, "parallel", 0, "max concurrent runs (0 = unlimited)")

	rootCmd.AddCommand(liveCmd, guiCmd, runCmd, listCmd, plotCmd, analyzeCmd, exportSVGCmd, exportJSONCmd, presetsCmd, benchCmd, compareCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func addSceneFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	f.Float64Var(&duration, "time", config.DefaultDuration, "duration")
	f.IntVar(&iterations, "iterations", verlet.DefaultIterations, "relaxation passes per step")
	f.Float64Var(&gravityX, "gx", 0, "gravity x")
	f.Float64Var(&gravityY, "gy", verlet.DefaultGravityY, "gravity y")
	f.Int64Var(&seed, "seed", 0, "random seed")
}

// loadConfig resolves the preset, then the config file, then any flags the
// user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("iterations") {
		cfg.Iterations = iterations
	}
	if flags.Changed("gx") {
		cfg.Gravity.X = gravityX
	}
	if flags.Changed("gy") {
		cfg.Gravity.Y = gravityY
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setup(cmd *cobra.Command) (*config.Config, *verlet.Simulation, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	s, err := scene.FromConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("scene %s: %w", cfg.Name, err)
	}
	return cfg, s, nil
}

func warnSpawns(cfg *config.Config) {
	if len(cfg.Spawns) > 0 {
		log.Printf("warning: %d scheduled drops are ignored by interactive hosts", len(cfg.Spawns))
	}
}

func runConfig(cfg *config.Config) sim.Config {
	rc := sim.DefaultConfig()
	rc.Dt = cfg.Dt
	rc.Duration = cfg.Duration
	rc.Steps = cfg.Steps()
	rc.CaptureEvery = captureEvery
	rc.ValidateState = cfg.ValidateState
	for _, sp := range cfg.Spawns {
		rc.Spawns = append(rc.Spawns, sim.Spawn{Step: sp.Step, Pos: vec.V(sp.X, sp.Y), Locked: sp.Locked})
	}
	return rc
}

func warnSkipped(result *sim.Result) {
	for _, sp := range result.Skipped {
		log.Printf("warning: drop scheduled for step %d never happened (run ended after %d steps)", sp.Step, result.StepsTaken)
	}
}

func defaultMetrics(dt float64) []sim.Metric {
	return []sim.Metric{
		metrics.NewMaxStrain(),
		metrics.NewMeanStrain(),
		metrics.NewEnergy(dt),
		metrics.NewPointCount(),
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, s, err := setup(cmd)
	if err != nil {
		return err
	}
	warnSpawns(cfg)
	return viz.Run(cfg, s)
}

// pickAndRun asks for a preset unless one was given, then opens the
// terminal host.
func pickAndRun(cmd *cobra.Command, args []string) error {
	if preset == "" && configFile == "" {
		name, err := tui.Pick(config.ListPresets())
		if err != nil {
			return err
		}
		if name == "" {
			return nil
		}
		preset = name
	}
	return runLive(cmd, args)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, s, err := setup(cmd)
	if err != nil {
		return err
	}

	r := sim.New()
	for _, m := range defaultMetrics(cfg.Dt) {
		r.AddMetric(m)
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %s simulation...\n", cfg.Name)
	start := time.Now()

	result, err := r.Run(ctx, s, runConfig(cfg))
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	for _, e := range result.Errors {
		log.Printf("warning: %v", e)
	}
	warnSkipped(result)

	fmt.Printf("completed in %v\n", elapsed)
	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("frames: %d\n", len(result.Frames))
	fmt.Println("\nmetrics:")
	for _, name := range []string{"max_strain", "mean_strain", "energy", "points"} {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
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
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tDURATION\tDT\tITERS\tPOINTS\tSTICKS\tMAX STRAIN")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%d\t%d\t%.2e\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Iterations,
			run.Points,
			run.Sticks,
			run.Metrics["max_strain"],
		)
	}

	return w.Flush()
}

// restLengths rebuilds the stored scene to recover the stick rest lengths,
// which are not written with the frames.
func restLengths(st *storage.Store, runID string) ([]float64, error) {
	cfg, err := st.LoadConfig(runID)
	if err != nil {
		return nil, err
	}
	s, err := scene.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	sticks := s.Sticks()
	lengths := make([]float64, len(sticks))
	for i, stick := range sticks {
		lengths[i] = stick.RestLength()
	}
	return lengths, nil
}

func frameStrain(f sim.Frame, sticks [][2]int, rest []float64) float64 {
	peak := 0.0
	for i, pair := range sticks {
		if i >= len(rest) || rest[i] == 0 {
			continue
		}
		d := f.Points[pair[0]].Distance(f.Points[pair[1]])
		peak = math.Max(peak, math.Abs(d-rest[i])/rest[i])
	}
	return peak
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	sticks, err := st.LoadSticks(runID)
	if err != nil {
		return err
	}
	rest, err := restLengths(st, runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("samples: %d\n\n", len(frames))

	strain := make([]float64, len(frames))
	for i, f := range frames {
		strain[i] = frameStrain(f, sticks, rest)
	}
	fmt.Println(asciigraph.Plot(strain,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("max stick strain"),
	))
	fmt.Println()

	if pointIdx < 0 {
		return nil
	}

	var height []float64
	for _, f := range frames {
		if pointIdx < len(f.Points) {
			height = append(height, f.Points[pointIdx].Y)
		}
	}
	if len(height) == 0 {
		return fmt.Errorf("point %d never appears in run %s", pointIdx, runID)
	}
	fmt.Println(asciigraph.Plot(height,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("point %d height", pointIdx)),
	))
	fmt.Println()

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) < 4 {
		return fmt.Errorf("run %s has too few frames to analyze", runID)
	}

	idx := pointIdx
	if idx < 0 {
		free, ok := frames[0].LastFree()
		if !ok {
			return fmt.Errorf("run %s has no unpinned points", runID)
		}
		idx = free
	}

	xs, ys, interval, err := sim.Track(frames, idx)
	if err != nil {
		return fmt.Errorf("run %s: %w", runID, err)
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("point: %d\n\n", idx)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "AXIS\tFREQUENCY\tPERIOD")
	for _, axis := range []struct {
		name string
		data []float64
	}{{"x", xs}, {"y", ys}} {
		period, ok := analysis.Period(axis.data, interval)
		if !ok {
			fmt.Fprintf(w, "%s\t-\t-\n", axis.name)
			continue
		}
		fmt.Fprintf(w, "%s\t%.3f hz\t%.3f s\n", axis.name, 1/period, period)
	}
	return w.Flush()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("run %s has no frames", runID)
	}

	var svg string
	if pointIdx >= 0 {
		svg = export.TrajectoryToSVG(frames, pointIdx, svgWidth, svgHeight, "#00ccff")
	} else {
		sticks, err := st.LoadSticks(runID)
		if err != nil {
			return err
		}
		last := frames[len(frames)-1]
		svg = export.FrameToSVG(last, sticks, export.FitBounds(frames...), svgWidth, svgHeight)
	}

	path := outputFile
	if path == "" {
		path = runID + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	sticks, err := st.LoadSticks(runID)
	if err != nil {
		return err
	}

	data := export.NewExportData(meta.Scene, meta.Dt, meta.Iterations, frames, sticks, meta.Metrics)

	if outputFile == "" {
		return export.WriteJSON(os.Stdout, data)
	}

	f, err := os.Create(outputFile)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := export.WriteJSON(f, data); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outputFile)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSCENE\tPOINTS\tSTICKS\tDROPS")

	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		s, err := scene.FromConfig(cfg)
		if err != nil {
			log.Printf("warning: preset %s: %v", name, err)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n", name, cfg.Scene.Kind, s.Len(), s.StickCount(), len(cfg.Spawns))
	}

	return w.Flush()
}

func benchScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("benchmarking %s (%d steps)\n\n", cfg.Name, benchSteps)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ITERS\tPOINTS\tSTICKS\tTIME\tSTEPS/SEC")

	r := sim.New()
	rc := sim.Config{Dt: cfg.Dt, Steps: benchSteps}
	keepGoing := func(*verlet.Simulation) bool { return true }

	for _, n := range []int{1, 5, 10, 20} {
		c, err := cfg.WithIterations(n)
		if err != nil {
			return err
		}
		s, err := scene.FromConfig(c)
		if err != nil {
			return err
		}

		start := time.Now()
		if err := r.RunWithCallback(context.Background(), s, rc, keepGoing); err != nil {
			return err
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.0f\n",
			n, s.Len(), s.StickCount(), elapsed, float64(benchSteps)/elapsed.Seconds())
	}

	return w.Flush()
}

func compareIterations(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	variants := make([]sim.Variant, len(sweepIters))
	for i, n := range sweepIters {
		c, err := cfg.WithIterations(n)
		if err != nil {
			return fmt.Errorf("--iters: %w", err)
		}
		variants[i] = sim.Variant{
			Label: fmt.Sprintf("%d", n),
			Build: func() (*verlet.Simulation, error) { return scene.FromConfig(c) },
		}
	}

	ctx, cancel := signalContext()
	defer cancel()

	sweep := sim.NewSweep(func() []sim.Metric { return defaultMetrics(cfg.Dt) }, parallel)
	rc := runConfig(cfg)
	rc.CaptureEvery = 0

	fmt.Printf("comparing iteration counts on %s\n\n", cfg.Name)
	start := time.Now()
	results, err := sweep.Run(ctx, variants, rc)
	if err != nil {
		return err
	}

	if len(results) > 0 {
		warnSkipped(results[0])
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ITERS\tSTEPS\tMAX STRAIN\tMEAN STRAIN\tENERGY")
	for i, res := range results {
		fmt.Fprintf(w, "%s\t%d\t%.3e\t%.3e\t%.2f\n",
			variants[i].Label,
			res.StepsTaken,
			res.Metrics["max_strain"],
			res.Metrics["mean_strain"],
			res.Metrics["energy"],
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\ncompleted in %v\n", time.Since(start))
	return nil
}
