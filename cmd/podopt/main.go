package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/podopt/internal/config"
	"github.com/san-kum/podopt/internal/experiment"
	"github.com/san-kum/podopt/internal/mdo"
	"github.com/san-kum/podopt/internal/optim"
	"github.com/san-kum/podopt/internal/store"
	"github.com/san-kum/podopt/internal/tui"
)

var (
	dataDir    string
	configFile string
	setFlags   []string
	exportPath string
	saveRun    bool
	optimizer  string
	maxIter    int
	tol        float64
	gridPoints int
	live       bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "podopt",
		Short: "hyperloop pod subsystem sizing and optimization",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".podopt", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "evaluate a model once",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runModel,
	}
	runCmd.Flags().StringArrayVar(&setFlags, "set", nil, "override a parameter (name=value)")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&exportPath, "export", "", "export namespace as JSON ('-' for stdout)")

	optimizeCmd := &cobra.Command{
		Use:   "optimize [model]",
		Short: "run the solve driver on a model",
		Args:  cobra.MaximumNArgs(1),
		RunE:  optimizeModel,
	}
	optimizeCmd.Flags().StringArrayVar(&setFlags, "set", nil, "override a parameter (name=value)")
	optimizeCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	optimizeCmd.Flags().StringVar(&optimizer, "optimizer", config.DefaultOptimizer, "optimizer (compass, neldermead, grid)")
	optimizeCmd.Flags().IntVar(&maxIter, "max-iter", 0, "iteration budget (0 = optimizer default)")
	optimizeCmd.Flags().Float64Var(&tol, "tol", 0, "convergence tolerance (0 = optimizer default)")
	optimizeCmd.Flags().IntVar(&gridPoints, "grid-points", config.DefaultGridPoints, "points per axis (grid optimizer)")
	optimizeCmd.Flags().BoolVar(&live, "live", false, "live terminal view")
	optimizeCmd.Flags().BoolVar(&saveRun, "save", false, "save the run")
	optimizeCmd.Flags().StringVar(&exportPath, "export", "", "export result as JSON ('-' for stdout)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run's objective history",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export saved run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list available models",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range experiment.NewRegistry().List() {
				fmt.Println(name)
			}
			return nil
		},
	}

	describeCmd := &cobra.Command{
		Use:   "describe [model]",
		Short: "show a model's namespace and evaluation order",
		Args:  cobra.ExactArgs(1),
		RunE:  describeModel,
	}

	initConfigCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a default config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, optimizeCmd, listCmd, plotCmd, exportCmd, modelsCmd, describeCmd, initConfigCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadExperiment builds the model named on the command line (or in the
// config), applies the config, then applies --set flags on top.
func loadExperiment(args []string) (*experiment.Experiment, *config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	model := cfg.Model
	if len(args) > 0 {
		model = args[0]
	}

	p, err := experiment.NewRegistry().Build(model)
	if err != nil {
		return nil, nil, err
	}
	exp := experiment.New(model, p)
	if err := exp.Apply(cfg); err != nil {
		return nil, nil, err
	}

	for _, s := range setFlags {
		name, v, err := parseSet(s)
		if err != nil {
			return nil, nil, err
		}
		if err := p.Set(name, v); err != nil {
			return nil, nil, err
		}
	}
	return exp, cfg, nil
}

func parseSet(s string) (string, float64, error) {
	name, raw, ok := strings.Cut(s, "=")
	if !ok {
		return "", 0, fmt.Errorf("bad --set %q, want name=value", s)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", 0, fmt.Errorf("bad --set %q: %w", s, err)
	}
	return name, v, nil
}

func runModel(cmd *cobra.Command, args []string) error {
	exp, _, err := loadExperiment(args)
	if err != nil {
		return err
	}

	snap, err := exp.Run(context.Background())
	if err != nil {
		return err
	}

	switch exportPath {
	case "":
	case "-":
		return store.ExportJSONStdout(exp.Model, "", snap, nil)
	default:
		if err := store.ExportJSON(exportPath, exp.Model, "", snap, nil); err != nil {
			return err
		}
	}

	return printNamespace(exp, snap)
}

func printNamespace(exp *experiment.Experiment, snap mdo.Snapshot) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tVALUE\tUNITS\tDESC")
	for _, name := range snap.Names() {
		units, desc, err := exp.Problem.Describe(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%.6g\t%s\t%s\n", name, snap[name], units, desc)
	}
	return w.Flush()
}

func optimizeModel(cmd *cobra.Command, args []string) error {
	exp, cfg, err := loadExperiment(args)
	if err != nil {
		return err
	}

	optName := optimizer
	if !cmd.Flags().Changed("optimizer") && cfg.Optimizer != "" {
		optName = cfg.Optimizer
	}
	if !cmd.Flags().Changed("max-iter") && cfg.MaxIter > 0 {
		maxIter = cfg.MaxIter
	}
	if !cmd.Flags().Changed("tol") && cfg.Tol > 0 {
		tol = cfg.Tol
	}
	opt, err := experiment.Optimizer(optName, maxIter, tol, gridPoints)
	if err != nil {
		return err
	}

	desvars := exp.Problem.DesignVars()
	varNames := make([]string, len(desvars))
	for i, dv := range desvars {
		varNames[i] = dv.Name
	}

	var history []float64
	record := func(it optim.Iteration) {
		history = append(history, it.Best)
	}

	start := time.Now()
	var res *optim.Result
	var optErr error

	if live {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		iters := make(chan optim.Iteration, 64)
		done := make(chan struct{})
		go func() {
			defer close(iters)
			defer close(done)
			res, optErr = exp.Optimize(ctx, opt, func(it optim.Iteration) {
				record(it)
				// unscale for display
				x := make([]float64, len(it.X))
				for i := range it.X {
					if i < len(desvars) {
						x[i] = it.X[i] / scalerOf(desvars[i])
					}
				}
				it.X = x
				iters <- it
			})
		}()
		if err := tui.Run(exp.Model, optName, varNames, iters, cancel); err != nil {
			return err
		}
		<-done
	} else {
		fmt.Printf("optimizing %s with %s...\n", exp.Model, optName)
		res, optErr = exp.Optimize(context.Background(), opt, record)
	}
	elapsed := time.Since(start)

	if optErr != nil && !errors.Is(optErr, mdo.ErrDidNotConverge) {
		return optErr
	}

	fmt.Printf("completed in %v\n", elapsed)
	if optErr != nil {
		fmt.Printf("warning: %v\n", optErr)
	}
	fmt.Printf("objective %s = %.6g (%d iterations, %d evaluations)\n",
		exp.Problem.Objective(), res.F, res.Iterations, res.Evaluations)

	best := make(map[string]float64, len(desvars))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DESIGN VAR\tVALUE")
	for _, dv := range desvars {
		v, err := exp.Problem.Get(dv.Name)
		if err != nil {
			return err
		}
		best[dv.Name] = v
		fmt.Fprintf(w, "%s\t%.6g\n", dv.Name, v)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(history) > 1 && !live {
		fmt.Println()
		fmt.Println(asciigraph.Plot(history,
			asciigraph.Height(10),
			asciigraph.Width(70),
			asciigraph.Caption("best objective"),
		))
	}

	if saveRun {
		st := store.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(store.RunMetadata{
			Model:       exp.Model,
			Optimizer:   optName,
			Objective:   exp.Problem.Objective(),
			Best:        res.F,
			Iterations:  res.Iterations,
			Evaluations: res.Evaluations,
			Converged:   res.Converged,
			DesignVars:  best,
		}, history)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	switch exportPath {
	case "":
	case "-":
		snap := mustSnapshot(exp)
		return store.ExportJSONStdout(exp.Model, optName, snap, history)
	default:
		snap := mustSnapshot(exp)
		if err := store.ExportJSON(exportPath, exp.Model, optName, snap, history); err != nil {
			return err
		}
	}
	return nil
}

func scalerOf(dv mdo.DesignVar) float64 {
	if dv.Scaler == 0 {
		return 1
	}
	return dv.Scaler
}

// mustSnapshot re-reads the namespace after the driver left it at the best
// point; the re-run already succeeded, so only Get errors are possible.
func mustSnapshot(exp *experiment.Experiment) mdo.Snapshot {
	snap, err := exp.Run(context.Background())
	if err != nil {
		return mdo.Snapshot{}
	}
	return snap
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tOPTIMIZER\tBEST\tITERS\tCONVERGED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.6g\t%d\t%v\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Optimizer,
			run.Best,
			run.Iterations,
			run.Converged,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	history, err := st.History(runID)
	if err != nil {
		return err
	}
	if len(history) < 2 {
		return fmt.Errorf("no history to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s  optimizer: %s\n\n", meta.Model, meta.Optimizer)
	fmt.Println(asciigraph.Plot(history,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("best %s per iteration", meta.Objective)),
	))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func describeModel(cmd *cobra.Command, args []string) error {
	p, err := experiment.NewRegistry().Build(args[0])
	if err != nil {
		return err
	}
	snap, err := p.Run(context.Background())
	if err != nil {
		return err
	}

	fmt.Println("evaluation order:")
	for _, path := range p.EvalOrder() {
		fmt.Printf("  %s\n", path)
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDEFAULT RUN VALUE\tUNITS\tDESC")
	for _, name := range snap.Names() {
		units, desc, err := p.Describe(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%.6g\t%s\t%s\n", name, snap[name], units, desc)
	}
	return w.Flush()
}
