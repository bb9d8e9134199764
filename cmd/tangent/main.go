package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/tangent/internal/analysis"
	"github.com/san-kum/tangent/internal/config"
	"github.com/san-kum/tangent/internal/dynamo"
	"github.com/san-kum/tangent/internal/experiment"
	"github.com/san-kum/tangent/internal/lyapunov"
	"github.com/san-kum/tangent/internal/storage"
)

var (
	dataDir    string
	dt         float64
	total      float64
	renorm     float64
	transient  float64
	numExp     int
	integrator string
	initState  []float64
	configFile string
	noSave     bool
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ccff"))
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888899"))
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tangent",
		Short: "Lyapunov spectrum estimation for chaotic systems",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".tangent", "data directory")

	spectrumCmd := &cobra.Command{
		Use:   "spectrum [system]",
		Short: "estimate the Lyapunov spectrum",
		Args:  cobra.ExactArgs(1),
		RunE:  runSpectrum,
	}
	spectrumCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "integrator timestep (flows)")
	spectrumCmd.Flags().Float64Var(&total, "time", config.DefaultTotal, "total evolution (time units or iterations)")
	spectrumCmd.Flags().Float64Var(&renorm, "renorm", config.DefaultRenorm, "renormalization interval")
	spectrumCmd.Flags().Float64Var(&transient, "ttr", config.DefaultTransient, "transient to discard")
	spectrumCmd.Flags().IntVar(&numExp, "k", 0, "number of exponents (0 = system dimension)")
	spectrumCmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator (flows)")
	spectrumCmd.Flags().Float64SliceVar(&initState, "state", nil, "initial state (default: catalog state)")
	spectrumCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	spectrumCmd.Flags().BoolVar(&noSave, "no-save", false, "skip persisting the run")

	largestCmd := &cobra.Command{
		Use:   "largest [system]",
		Short: "estimate only the largest exponent (two-trajectory method)",
		Args:  cobra.ExactArgs(1),
		RunE:  runLargest,
	}
	largestCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "integrator timestep (flows)")
	largestCmd.Flags().Float64Var(&total, "time", config.DefaultTotal, "total evolution")
	largestCmd.Flags().Float64Var(&transient, "ttr", config.DefaultTransient, "transient to discard")
	largestCmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator (flows)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	systemsCmd := &cobra.Command{
		Use:   "systems",
		Short: "list available systems",
		Run: func(cmd *cobra.Command, args []string) {
			reg := experiment.NewRegistry()
			for _, name := range reg.ListSystems() {
				sys, _ := reg.GetSystem(name)
				fmt.Printf("%-14s %s, dimension %d\n", name, sys.Kind(), sys.Dimension())
			}
		},
	}

	rootCmd.AddCommand(spectrumCmd, largestCmd, listCmd, exportCmd, systemsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runSpectrum(cmd *cobra.Command, args []string) error {
	name := args[0]
	reg := experiment.NewRegistry()

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		applyFileConfig(cmd, fileCfg)
		if len(fileCfg.InitState) > 0 && !cmd.Flags().Changed("state") {
			initState = fileCfg.InitState
		}
	}

	sys, err := reg.GetSystem(name)
	if err != nil {
		return err
	}

	var integ dynamo.Integrator
	if sys.Kind() == dynamo.Continuous {
		if integ, err = reg.GetIntegrator(integrator); err != nil {
			return err
		}
	}

	x0 := experiment.InitialState(sys)
	if len(initState) > 0 {
		x0 = dynamo.State(initState)
	}

	cfg := lyapunov.Config{
		K:         numExp,
		Total:     total,
		Renorm:    renorm,
		Transient: transient,
		Dt:        dt,
	}

	res, err := lyapunov.Spectrum(sys, integ, x0, cfg)
	if err != nil {
		return err
	}

	printSpectrum(name, sys, res)

	if !noSave {
		store := storage.New(dataDir)
		if err := store.Init(); err != nil {
			return err
		}
		runID, err := store.Save(name, integrator, cfg, res)
		if err != nil {
			return err
		}
		fmt.Println(dimStyle.Render("saved as " + runID))
	}
	return nil
}

func printSpectrum(name string, sys dynamo.System, res *lyapunov.Result) {
	fmt.Println(titleStyle.Render(fmt.Sprintf("Lyapunov spectrum: %s (%s, D=%d)", name, sys.Kind(), sys.Dimension())))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for i, lam := range res.Exponents {
		fmt.Fprintf(w, "λ%d\t%+.6f\n", i+1, lam)
	}
	w.Flush()

	fmt.Printf("cycles %d, evolution %.1f\n", res.Cycles, res.Elapsed)
	fmt.Printf("Kaplan-Yorke dimension: %.4f\n", analysis.KaplanYorke(res.Exponents))

	switch {
	case analysis.Hyperchaotic(res.Exponents, 1e-3):
		fmt.Println("classification: hyperchaotic (two expanding directions)")
	case analysis.Chaotic(res.Exponents, 1e-3):
		fmt.Println("classification: chaotic")
	default:
		fmt.Println("classification: regular")
	}

	for _, warning := range res.Warnings {
		fmt.Println(warnStyle.Render("warning: " + warning))
	}

	if len(res.History) > 1 {
		top := make([]float64, len(res.History))
		for i, row := range res.History {
			top[i] = row[0]
		}
		fmt.Println(dimStyle.Render("convergence of λ1:"))
		fmt.Println(asciigraph.Plot(top, asciigraph.Height(8), asciigraph.Width(60)))
	}
}

func runLargest(cmd *cobra.Command, args []string) error {
	reg := experiment.NewRegistry()
	sys, err := reg.GetSystem(args[0])
	if err != nil {
		return err
	}

	var integ dynamo.Integrator
	if sys.Kind() == dynamo.Continuous {
		if integ, err = reg.GetIntegrator(integrator); err != nil {
			return err
		}
	}

	lam, err := lyapunov.Largest(sys, integ, experiment.InitialState(sys), lyapunov.LargestConfig{
		Total:     total,
		Transient: transient,
		Dt:        dt,
	})
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("largest Lyapunov exponent: " + args[0]))
	fmt.Printf("λ1 = %+.6f\n", lam)
	if lam > 1e-3 {
		fmt.Println("classification: chaotic")
	} else {
		fmt.Println("classification: regular")
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	runs, err := store.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no stored runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSYSTEM\tK\tTIME\tλ1")
	for _, r := range runs {
		top := 0.0
		if len(r.Exponents) > 0 {
			top = r.Exponents[0]
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%+.4f\n",
			r.ID, r.System, r.K, r.Timestamp.Format("2006-01-02 15:04"), top)
	}
	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	meta, err := store.Load(args[0])
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func applyFileConfig(cmd *cobra.Command, fileCfg *config.Config) {
	flags := cmd.Flags()
	if !flags.Changed("dt") {
		dt = fileCfg.Dt
	}
	if !flags.Changed("time") {
		total = fileCfg.Total
	}
	if !flags.Changed("renorm") {
		renorm = fileCfg.Renorm
	}
	if !flags.Changed("ttr") {
		transient = fileCfg.Transient
	}
	if !flags.Changed("k") {
		numExp = fileCfg.K
	}
	if !flags.Changed("integrator") && fileCfg.Integrator != "" {
		integrator = fileCfg.Integrator
	}
	if !flags.Changed("data") && fileCfg.DataDir != "" {
		dataDir = fileCfg.DataDir
	}
}
