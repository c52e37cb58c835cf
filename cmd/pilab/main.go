package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/san-kum/pilab/internal/config"
	"github.com/san-kum/pilab/internal/logging"
	"github.com/san-kum/pilab/internal/viz"
)

var (
	dataDir     string
	configFile  string
	logLevel    string
	metricsFile string
	lang        string
	theme       string

	tier          string
	termsPerDigit int
	batchSize     int
	hardwareFile  string
	width         int
	outDir        string
	noProgress    bool
	trace         bool
	emulate       bool
	noAccel       bool

	workers int
	seed    uint64
	scatter bool
	svgFile string

	preset      string
	jsonOut     bool
	saveProfile string

	sweepFrom  int
	sweepTo    int
	sweepSteps int
)

// env supplies PILAB_* environment values for flags left unset.
var env = viper.New()

// main registers the pilab commands and runs the interactive menu when no
// subcommand is given. It exits with status 1 when a command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:               "pilab",
		Short:             "π computation lab",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return teardown()
		},
		RunE: runMenu,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".pilab", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&logLevel, "log-level", logging.DefaultLevel, "log level (debug, info, warn, error)")
	pf.StringVar(&metricsFile, "metrics-file", "", "write prometheus metrics to this textfile")
	pf.StringVar(&lang, "lang", "", "language (zh, en); defaults to the environment locale")
	pf.StringVar(&theme, "theme", viz.ThemeCyberpunk.Name, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	env.SetEnvPrefix("PILAB")
	env.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	env.AutomaticEnv()
	if err := env.BindPFlags(pf); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rootCmd.Flags().BoolVar(&noProgress, "no-progress", false, "hide the progress bar")

	seriesCmd := &cobra.Command{
		Use:   "series [digits]",
		Short: "compute π with the Nilakantha series",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSeries,
	}
	seriesCmd.Flags().StringVar(&tier, "tier", "", "precision tier ("+strings.Join(config.ListPresets(config.MethodSeries), ", ")+")")
	seriesCmd.Flags().IntVar(&termsPerDigit, "terms-per-digit", 0, "series terms per requested digit")
	seriesCmd.Flags().IntVar(&batchSize, "batch-size", 0, "terms per accelerator batch")
	seriesCmd.Flags().StringVar(&hardwareFile, "hardware", "", "hardware profile (yaml) instead of detection")
	seriesCmd.Flags().BoolVar(&emulate, "emulate", false, "run accelerated engines on cpu workers")
	seriesCmd.Flags().BoolVar(&noAccel, "no-accel", false, "never use an accelerator")
	seriesCmd.Flags().IntVar(&width, "width", 0, "report line width")
	seriesCmd.Flags().StringVar(&outDir, "out", "", "report directory")
	seriesCmd.Flags().BoolVar(&noProgress, "no-progress", false, "hide the progress bar")
	seriesCmd.Flags().BoolVar(&trace, "trace", false, "record convergence for plot")

	mcCmd := &cobra.Command{
		Use:     "montecarlo [samples]",
		Aliases: []string{"mc"},
		Short:   "estimate π by random sampling",
		Args:    cobra.MaximumNArgs(1),
		RunE:    runMonteCarlo,
	}
	mcCmd.Flags().StringVar(&preset, "preset", "", "sample count preset ("+strings.Join(config.ListPresets(config.MethodMonteCarlo), ", ")+")")
	mcCmd.Flags().IntVar(&workers, "workers", 0, "sampling workers (default: cpu count)")
	mcCmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (0: random)")
	mcCmd.Flags().BoolVar(&scatter, "scatter", false, "draw the samples")
	mcCmd.Flags().StringVar(&svgFile, "svg", "", "also write the sample drawing to this svg file")

	hardwareCmd := &cobra.Command{
		Use:   "hardware",
		Short: "show detected hardware and the engine it selects",
		Args:  cobra.NoArgs,
		RunE:  showHardware,
	}
	hardwareCmd.Flags().StringVar(&hardwareFile, "hardware", "", "hardware profile (yaml) instead of detection")
	hardwareCmd.Flags().StringVar(&saveProfile, "save", "", "write the profile to this yaml file")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a run and its report",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().BoolVar(&jsonOut, "json", false, "print run data as json")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot series convergence of a traced run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgFile, "svg", "", "also write the plot to this svg file")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list precision tiers and sample presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, method := range []string{config.MethodSeries, config.MethodMonteCarlo} {
				fmt.Printf("%s:\n", method)
				for _, name := range config.ListPresets(method) {
					p := config.GetPreset(method, name)
					if method == config.MethodSeries {
						fmt.Printf("  %-10s %d digits\n", name, p.Digits)
					} else {
						fmt.Printf("  %-10s %d samples\n", name, p.Samples)
					}
				}
			}
			return nil
		},
	}

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run the computations listed in a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().BoolVar(&noProgress, "no-progress", false, "hide the progress bar")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "measure series accuracy over a range of digit counts",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sweepCmd.Flags().IntVar(&sweepFrom, "from", 100, "first digit count")
	sweepCmd.Flags().IntVar(&sweepTo, "to", 1000, "last digit count")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of digit counts")
	sweepCmd.Flags().IntVar(&termsPerDigit, "terms-per-digit", 0, "series terms per requested digit")
	sweepCmd.Flags().IntVar(&batchSize, "batch-size", 0, "terms per accelerator batch")
	sweepCmd.Flags().StringVar(&hardwareFile, "hardware", "", "hardware profile (yaml) instead of detection")
	sweepCmd.Flags().BoolVar(&emulate, "emulate", false, "run accelerated engines on cpu workers")
	sweepCmd.Flags().BoolVar(&noAccel, "no-accel", false, "never use an accelerator")

	rootCmd.AddCommand(seriesCmd, mcCmd, hardwareCmd, listCmd, showCmd, plotCmd, presetsCmd, batchCmd, sweepCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
