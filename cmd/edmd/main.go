package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/edmd/internal/accum"
	"github.com/san-kum/edmd/internal/analysis"
	"github.com/san-kum/edmd/internal/body"
	"github.com/san-kum/edmd/internal/boundary"
	"github.com/san-kum/edmd/internal/config"
	"github.com/san-kum/edmd/internal/experiment"
	"github.com/san-kum/edmd/internal/export"
	"github.com/san-kum/edmd/internal/geom"
	"github.com/san-kum/edmd/internal/optim"
	"github.com/san-kum/edmd/internal/setup"
	"github.com/san-kum/edmd/internal/sim"
	"github.com/san-kum/edmd/internal/storage"
	"github.com/san-kum/edmd/internal/store"
	"github.com/san-kum/edmd/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	seed       int64
	count      int
	radius     float64
	speed      float64
	boxSide    float64
	obsRadius  float64
	obsMass    float64
	noObstacle bool
	binDt      float64
	tieBreak   string
	maxSteps   int
	wallClock  time.Duration
	maxTime    float64
	saveEvery  int
	workers    int
	noTraj     bool
	verbose    bool
	// live view
	frameRate int
	perFrame  int
	theme     string
	// analysis
	surfaceName string
	outPath     string
	svgSize     int
	trackID     int
	lagDt       float64
	ensemble    int
	skipBins    int
	benchEvents int
	// sweep
	planFile    string
	sweepParam  string
	sweepValues []float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "edmd",
		Short:        "event-driven hard-disk molecular dynamics",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".edmd", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a simulation and store its output",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().IntVar(&saveEvery, "save-every", config.DefaultSaveEvery, "record every n-th event")
	runCmd.Flags().BoolVar(&noTraj, "no-trajectory", false, "skip particles.csv")
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every event to stderr")

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "run a simulation with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")
	liveCmd.Flags().IntVar(&perFrame, "events", 10, "events per frame")
	liveCmd.Flags().StringVar(&theme, "theme", "kinetic", "colour theme")
	liveCmd.Flags().IntVar(&trackID, "track", setup.ObstacleID, "body whose path is drawn (-1 for none)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot pressure per bin",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&surfaceName, "surface", "", "single surface to plot (e.g. wall:left, body:0)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run summary and pressure series to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render the last recorded state to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <run>/final.svg)")
	svgCmd.Flags().IntVar(&svgSize, "size", 600, "image size in pixels")
	svgCmd.Flags().IntVar(&trackID, "track", setup.ObstacleID, "body whose path is overlaid (-1 for none)")

	msdCmd := &cobra.Command{
		Use:   "msd [run_id | scenario]",
		Short: "mean squared displacement and diffusion coefficient",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMSD,
	}
	addConfigFlags(msdCmd)
	msdCmd.Flags().IntVar(&trackID, "track", setup.ObstacleID, "tracked body id")
	msdCmd.Flags().Float64Var(&lagDt, "dt", 0.01, "sampling interval")
	msdCmd.Flags().IntVar(&ensemble, "ensemble", 0, "run n seeds of the scenario instead of reading a stored run")

	pressureCmd := &cobra.Command{
		Use:   "pressure [run_id]",
		Short: "time-averaged pressure per surface",
		Args:  cobra.ExactArgs(1),
		RunE:  pressureSummary,
	}
	pressureCmd.Flags().IntVar(&skipBins, "skip", 0, "leading bins to discard")

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list scenarios or the presets of one scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Println("scenarios:")
				for _, s := range experiment.NewRegistry().ListScenarios() {
					fmt.Printf("  %s %v\n", s, config.ListPresets(s))
				}
				return nil
			}
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for scenario: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark event throughput",
		RunE:  bench,
	}
	benchCmd.Flags().IntVar(&benchEvents, "events", 5000, "events per measurement")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "run a parameter grid and tabulate wall pressure",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&planFile, "plan", "", "sweep plan (yaml)")
	sweepCmd.Flags().StringVar(&sweepParam, "param", "speed", "parameter to vary")
	sweepCmd.Flags().Float64SliceVar(&sweepValues, "values", []float64{1, 3, 6, 10}, "parameter values")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportJSONCmd, svgCmd, msdCmd, pressureCmd, presetsCmd, benchCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addConfigFlags(c *cobra.Command) {
	f := c.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.Int64Var(&seed, "seed", 1, "random seed")
	f.IntVarP(&count, "particles", "n", config.DefaultN, "number of moving particles")
	f.Float64Var(&radius, "radius", config.DefaultRadius, "particle radius")
	f.Float64Var(&speed, "speed", config.DefaultSpeed, "initial particle speed")
	f.Float64Var(&boxSide, "box", config.DefaultL, "side of the square box")
	f.Float64Var(&obsRadius, "obstacle-radius", config.DefaultObstacleR, "central obstacle radius")
	f.Float64Var(&obsMass, "obstacle-mass", 0, "central obstacle mass (0 = static)")
	f.BoolVar(&noObstacle, "no-obstacle", false, "omit the central obstacle")
	f.Float64Var(&binDt, "bin-dt", config.DefaultBinDt, "pressure bin width")
	f.StringVar(&tieBreak, "tie-break", config.DefaultTieBreak, "simultaneous event policy (lowest-id, combined)")
	f.IntVar(&maxSteps, "max-steps", config.DefaultMaxSteps, "event budget (0 = unlimited)")
	f.DurationVar(&wallClock, "wall-clock", config.DefaultWallClock, "wall-clock budget (0 = unlimited)")
	f.Float64Var(&maxTime, "max-time", 0, "simulated time budget (0 = unlimited)")
	f.IntVar(&workers, "workers", 1, "goroutines for the event search (0 = GOMAXPROCS)")
}

// buildConfig layers defaults, preset or config file, and explicitly set
// flags, in that order.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	scenario := ""
	if len(args) > 0 {
		scenario = args[0]
	}

	cfg := config.DefaultConfig()
	switch {
	case preset != "":
		if scenario == "" {
			scenario = config.DefaultScenario
		}
		cfg = config.GetPreset(scenario, preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(scenario))
		}
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if scenario != "" {
		cfg.Scenario = scenario
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("particles") {
		cfg.Particles.Count = count
	}
	if flags.Changed("radius") {
		cfg.Particles.Radius = radius
	}
	if flags.Changed("speed") {
		cfg.Particles.Speed = speed
	}
	if flags.Changed("box") {
		cfg.Box = config.BoxConfig{Width: boxSide, Height: boxSide}
	}
	if flags.Changed("obstacle-radius") {
		cfg.Obstacle.Radius = obsRadius
	}
	if flags.Changed("obstacle-mass") {
		cfg.Obstacle.Mass = obsMass
	}
	if flags.Changed("no-obstacle") {
		cfg.Obstacle.Enabled = !noObstacle
	}
	if flags.Changed("bin-dt") {
		cfg.Engine.BinDt = binDt
	}
	if flags.Changed("tie-break") {
		cfg.Engine.TieBreak = tieBreak
	}
	if flags.Changed("max-steps") {
		cfg.Run.MaxSteps = maxSteps
	}
	if flags.Changed("wall-clock") {
		cfg.Run.WallClock = wallClock
	}
	if flags.Changed("max-time") {
		cfg.Run.MaxTime = maxTime
	}
	if flags.Changed("workers") {
		cfg.Engine.Workers = workers
	}
	if flags.Lookup("save-every") != nil && flags.Changed("save-every") {
		cfg.Output.SaveEvery = saveEvery
	}
	if flags.Lookup("no-trajectory") != nil && flags.Changed("no-trajectory") {
		cfg.Output.Trajectory = !noTraj
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupExperiment(cfg *config.Config) (*experiment.Experiment, error) {
	reg := experiment.NewRegistry()
	exp := experiment.New(cfg)
	if err := exp.Setup(reg, reg.DefaultMetrics()); err != nil {
		return nil, err
	}
	return exp, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	exp, err := setupExperiment(cfg)
	if err != nil {
		return err
	}
	s := exp.GetSimulator()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	run, err := st.Create(cfg.Scenario)
	if err != nil {
		return err
	}
	if err := run.SaveStatic(s.Current()); err != nil {
		return fmt.Errorf("save static: %w", err)
	}

	var rec *storage.Recorder
	if cfg.Output.Trajectory {
		rec, err = run.Recorder(cfg.Output.SaveEvery)
		if err != nil {
			return err
		}
		if err := rec.Write(s.Current()); err != nil {
			rec.Close()
			return err
		}
		s.AddObserver(rec)
	}
	if verbose {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		s.AddObserver(sim.NewEventLogger(logger))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s simulation (%d bodies)...\n", cfg.Scenario, len(s.Current().Bodies))
	result, runErr := exp.Run(ctx)
	if rec != nil {
		if err := rec.Close(); err != nil && runErr == nil {
			runErr = fmt.Errorf("save trajectory: %w", err)
		}
	}
	if result == nil {
		return runErr
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	series, err := storage.CollectPressure(s)
	if err != nil {
		return err
	}
	if err := run.SavePressure(series); err != nil {
		return fmt.Errorf("save pressure: %w", err)
	}

	surfaces := make([]string, len(series))
	for i, ps := range series {
		surfaces[i] = ps.Surface.String()
	}
	obsMassMeta := 0.0
	if cfg.Obstacle.Enabled {
		obsMassMeta = cfg.Obstacle.Mass
	}
	meta := storage.RunMetadata{
		Scenario:       cfg.Scenario,
		Preset:         preset,
		Timestamp:      time.Now(),
		Seed:           cfg.Seed,
		Width:          cfg.Box.Width,
		Height:         cfg.Box.Height,
		Bodies:         len(result.Final.Bodies),
		Radius:         cfg.Particles.Radius,
		Speed:          cfg.Particles.Speed,
		ObstacleMass:   obsMassMeta,
		BinDt:          cfg.Engine.BinDt,
		TieBreak:       cfg.Engine.TieBreak,
		Steps:          result.TotalSteps,
		SimTime:        result.Time,
		Reason:         result.Reason.String(),
		ElapsedSeconds: result.Elapsed.Seconds(),
		SaveEvery:      cfg.Output.SaveEvery,
		Surfaces:       surfaces,
		Metrics:        result.Metrics,
	}
	if cfg.Obstacle.Enabled {
		meta.ObstacleRadius = cfg.Obstacle.Radius
	}
	if err := run.SaveMetadata(meta); err != nil {
		return err
	}

	fmt.Printf("completed in %v (%s)\n", result.Elapsed.Round(time.Millisecond), result.Reason)
	fmt.Printf("run id: %s\n", run.ID)
	fmt.Printf("events: %d\n", result.TotalSteps)
	fmt.Printf("simulated time: %.6f\n", result.Time)
	if rec != nil {
		fmt.Printf("states recorded: %d\n", rec.Written())
	}

	fmt.Println("\nsurfaces:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SURFACE\tCOLLISIONS\tUNIQUE\tMOMENTUM\tMEAN P")
	for _, ps := range series {
		n := 0
		mom := 0.0
		for _, b := range ps.Bins {
			n += b.Count
			mom += b.Momentum
		}
		_, unique, _ := s.Ledger().Totals(ps.Surface)
		fmt.Fprintf(w, "%s\t%d\t%d\t%.6g\t%.6g\n", ps.Surface, n, unique, mom, accum.MeanPressure(ps.Samples, 0, true))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6g\n", name, val)
	}
	return runErr
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	factory := func() (*sim.Simulator, error) {
		c := *cfg
		exp, err := setupExperiment(&c)
		if err != nil {
			return nil, err
		}
		return exp.GetSimulator(), nil
	}
	return viz.Run(factory, viz.Options{
		Title:        cfg.Scenario,
		StepsPerTick: perFrame,
		Track:        trackID,
		Theme:        theme,
		FPS:          frameRate,
	})
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
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tBODIES\tEVENTS\tSIM TIME\tSTOP")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.4f\t%s\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Bodies,
			run.Steps,
			run.SimTime,
			run.Reason,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	rows, err := st.LoadPressure(runID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("bin width: %g\n\n", meta.BinDt)

	surfaces := meta.Surfaces
	if surfaceName != "" {
		if _, err := accum.ParseSurface(surfaceName); err != nil {
			return err
		}
		surfaces = []string{surfaceName}
	}
	for _, name := range surfaces {
		series := storage.Series(rows, name)
		// the last bin is still filling
		if len(series) > 1 {
			series = series[:len(series)-1]
		}
		if len(series) < 2 {
			continue
		}
		data := make([]float64, len(series))
		for i, r := range series {
			data[i] = r.Pressure
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("pressure on %s", name)),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func pressureSummary(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	rows, err := st.LoadPressure(args[0])
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SURFACE\tMEAN P")
	for _, name := range meta.Surfaces {
		fmt.Fprintf(w, "%s\t%.6g\n", name, analysis.MeanPressure(rows, name, skipBins))
	}
	fmt.Fprintf(w, "walls\t%.6g\n", analysis.WallPressure(rows, meta.BinDt, meta.Width, meta.Height, skipBins))
	return w.Flush()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	rows, err := st.LoadPressure(runID)
	if err != nil {
		return err
	}
	data := store.Build(*meta, rows)
	if outPath == "" {
		return store.ExportJSONStdout(data)
	}
	if err := store.ExportJSON(outPath, data); err != nil {
		return err
	}
	fmt.Printf("exported %s to %s\n", runID, outPath)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	static, err := st.LoadStatic(runID)
	if err != nil {
		return err
	}
	rows, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	frames := storage.Frames(rows)
	if len(frames) == 0 {
		return fmt.Errorf("run %s has no recorded states", runID)
	}
	last := frames[len(frames)-1]

	bodies := make([]body.Body, 0, len(last.Rows))
	for _, r := range last.Rows {
		pos := geom.V(r.X, r.Y)
		if math.IsInf(static.Mass[r.ID], 1) {
			bodies = append(bodies, body.NewStatic(r.ID, pos, static.Radius[r.ID]))
			continue
		}
		bodies = append(bodies, body.New(r.ID, pos, geom.V(r.VX, r.VY), static.Radius[r.ID], static.Mass[r.ID]))
	}
	bx, err := boundary.NewBox(meta.Width, meta.Height)
	if err != nil {
		return err
	}

	style := export.Style{Size: svgSize}
	if trackID >= 0 {
		style.Path = analysis.Track(rows, trackID)
	}
	svg := export.StateToSVG(bodies, bx, style)

	if outPath == "" {
		outPath = st.Dir(runID) + "/final.svg"
	}
	if err := os.WriteFile(outPath, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (t=%.6f, %d bodies)\n", outPath, last.Time, len(bodies))
	return nil
}

func runMSD(cmd *cobra.Command, args []string) error {
	var (
		points []analysis.Point
		track  []analysis.Sample
		boxW   float64
		boxH   float64
	)

	if ensemble > 0 {
		cfg, err := buildConfig(cmd, args)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		ens := experiment.NewEnsemble(cfg, experiment.NewRegistry(), ensemble, cfg.Seed)
		ens.TrackID = trackID
		fmt.Printf("running %d seeds of %s...\n", ensemble, cfg.Scenario)
		outcomes, err := ens.Run(ctx)
		if err != nil {
			return err
		}
		points = experiment.MSD(outcomes, lagDt)
		track = outcomes[0].Track
		boxW, boxH = cfg.Box.Width, cfg.Box.Height
	} else {
		if len(args) != 1 {
			return fmt.Errorf("msd needs a run id or --ensemble")
		}
		st := storage.New(dataDir)
		meta, err := st.Load(args[0])
		if err != nil {
			return err
		}
		rows, err := st.LoadTrajectory(args[0])
		if err != nil {
			return err
		}
		track = analysis.Track(rows, trackID)
		if len(track) == 0 {
			return fmt.Errorf("body %d not found in %s", trackID, args[0])
		}
		points = analysis.MSD(track, lagDt)
		boxW, boxH = meta.Width, meta.Height
	}

	d, fit, err := analysis.Diffusion(points)
	if err != nil {
		return err
	}

	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.V
	}
	if len(values) > 1 {
		fmt.Println(asciigraph.Plot(values,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption(fmt.Sprintf("MSD of body %d", trackID)),
		))
	}
	fmt.Println()
	fmt.Println(analysis.PathToASCII(track, boxW, boxH, 40, 20))
	fmt.Printf("slope: %.6g  intercept: %.6g  r²: %.4f\n", fit.Slope, fit.Intercept, fit.R2)
	fmt.Printf("D = %.6g\n", d)
	return nil
}

func bench(cmd *cobra.Command, args []string) error {
	counts := []int{50, 100, 200, 400}
	pool := []int{1, 4}

	fmt.Printf("benchmarking %d events per run\n\n", benchEvents)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODIES\tWORKERS\tEVENTS\tTIME\tEVENTS/SEC")

	for _, n := range counts {
		for _, workers := range pool {
			cfg := config.GetPreset(config.DefaultScenario, "fixed")
			cfg.Particles.Count = n
			cfg.Engine.Workers = workers
			cfg.Run.MaxSteps = benchEvents
			cfg.Run.WallClock = 0

			exp := experiment.New(cfg)
			if err := exp.Setup(experiment.NewRegistry(), nil); err != nil {
				return err
			}
			result, err := exp.Run(context.Background())
			if err != nil {
				return err
			}
			rate := float64(result.Steps) / result.Elapsed.Seconds()
			fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.0f\n",
				n, workers, result.Steps, result.Elapsed.Round(time.Microsecond), rate)
		}
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	var (
		base *config.Config
		grid *optim.GridSearch
		err  error
	)
	if planFile != "" {
		plan, err := optim.LoadPlan(planFile)
		if err != nil {
			return err
		}
		if base, err = plan.BaseConfig(); err != nil {
			return err
		}
		if grid, err = plan.Grid(); err != nil {
			return err
		}
		fmt.Printf("plan: %s\n", plan.Name)
	} else {
		if base, err = buildConfig(cmd, args); err != nil {
			return err
		}
		if grid, err = optim.NewGridSearch([]string{sweepParam}, [][]float64{sweepValues}); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("sweeping %d points of %s...\n\n", grid.Size(), base.Scenario)
	points, err := grid.Search(ctx, base, experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARAMS\tEVENTS\tSIM TIME\tWALL P\tPA/E\tDRIFT")
	for _, p := range points {
		names := make([]string, 0, len(p.Params))
		for _, name := range optim.Parameters() {
			if v, ok := p.Params[name]; ok {
				names = append(names, fmt.Sprintf("%s=%g", name, v))
			}
		}
		fmt.Fprintf(w, "%s\t%d\t%.4f\t%.6g\t%.4f\t%.2e\n",
			strings.Join(names, " "),
			p.Result.Steps,
			p.Result.Time,
			p.WallPressure,
			p.Compressibility,
			p.Result.EnergyDrift,
		)
	}
	return w.Flush()
}
