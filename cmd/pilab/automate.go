package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/pilab/internal/automation"
	"github.com/san-kum/pilab/internal/compute"
	"github.com/san-kum/pilab/internal/config"
	"github.com/san-kum/pilab/internal/locale"
	"github.com/san-kum/pilab/internal/viz"
)

func runBatch(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	if scenario.Name != "" {
		fmt.Println(viz.HeaderStyle.Render(scenario.Name))
	}

	announce := func(i, n int, step automation.Step) {
		fmt.Println(viz.Subtle.Render(fmt.Sprintf("step %d/%d: %s", i, n, step.Method)))
	}
	return automation.RunScenario(cmd.Context(), scenario, runStep, announce)
}

// runStep runs one scenario step on a copy of the session config.
func runStep(ctx context.Context, step automation.Step) error {
	cfg := *sess.cfg
	if step.TermsPerDigit > 0 {
		cfg.Series.TermsPerDigit = step.TermsPerDigit
	}
	if step.Workers > 0 {
		cfg.MonteCarlo.Workers = step.Workers
	}
	if step.Seed != 0 {
		cfg.MonteCarlo.Seed = step.Seed
	}

	prev := sess.loc
	defer func() { sess.loc = prev }()
	if step.Language != "" {
		loc, err := locale.Parse(step.Language)
		if err != nil {
			return err
		}
		sess.loc = loc
	}

	switch step.Method {
	case config.MethodSeries:
		digits := cfg.Digits
		if step.Digits > 0 {
			digits = step.Digits
		}
		return computeSeries(ctx, &cfg, digits, !noProgress)
	case config.MethodMonteCarlo:
		samples := cfg.Samples
		if step.Samples > 0 {
			samples = step.Samples
		}
		return computeMonteCarlo(ctx, &cfg, samples)
	}
	return fmt.Errorf("unknown method %q", step.Method)
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg := sess.cfg
	applySeriesFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	hw, err := loadHardware(cfg)
	if err != nil {
		return err
	}

	engine := compute.NewDefaultDispatcher(compute.Options{
		TermsPerDigit: cfg.Series.TermsPerDigit,
		BatchSize:     cfg.Series.BatchSize,
		Emulate:       cfg.Accelerator.Emulate,
		Logger:        sess.log,
		Metrics:       sess.metrics,
	}).Bind(hw)

	results, err := automation.RunSweep(cmd.Context(), automation.Sweep{From: sweepFrom, To: sweepTo, Steps: sweepSteps}, engine)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DIGITS\tENGINE\tTERMS\tCORRECT\tELAPSED")
	accuracy := make([]float64, len(results))
	for i, r := range results {
		accuracy[i] = float64(r.AccurateDigits)
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\n", r.Digits, r.Engine, r.Terms, r.AccurateDigits, r.Elapsed.Round(time.Microsecond))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(viz.MetricLabel.Render("correct digits ") + viz.SparklineChart(accuracy, len(accuracy), false))
	return nil
}
