package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/pilab/internal/compute"
	"github.com/san-kum/pilab/internal/config"
	"github.com/san-kum/pilab/internal/core"
	"github.com/san-kum/pilab/internal/export"
	"github.com/san-kum/pilab/internal/hardware"
	"github.com/san-kum/pilab/internal/locale"
	"github.com/san-kum/pilab/internal/montecarlo"
	"github.com/san-kum/pilab/internal/series"
	"github.com/san-kum/pilab/internal/storage"
	"github.com/san-kum/pilab/internal/tui"
	"github.com/san-kum/pilab/internal/viz"
)

// scatterSamples caps the points drawn by --scatter.
const scatterSamples = 4000

func runSeries(cmd *cobra.Command, args []string) error {
	cfg := sess.cfg
	applySeriesFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	digits := cfg.Digits
	switch {
	case len(args) == 1:
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("%w: digits %q is not a number", core.ErrInvalidArgument, args[0])
		}
		digits = n
	case tier != "":
		p := config.GetPreset(config.MethodSeries, tier)
		if p == nil {
			return fmt.Errorf("unknown tier: %s (available: %v)", tier, config.ListPresets(config.MethodSeries))
		}
		digits = p.Digits
	}

	return computeSeries(cmd.Context(), cfg, digits, !noProgress)
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg := sess.cfg
	applyMonteCarloFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	samples := cfg.Samples
	switch {
	case len(args) == 1:
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("%w: samples %q is not a number", core.ErrInvalidArgument, args[0])
		}
		samples = n
	case preset != "":
		p := config.GetPreset(config.MethodMonteCarlo, preset)
		if p == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(config.MethodMonteCarlo))
		}
		samples = p.Samples
	}

	return computeMonteCarlo(cmd.Context(), cfg, samples)
}

func runMenu(cmd *cobra.Command, args []string) error {
	choice, err := tui.RunMenu(sess.loc, config.Tiers)
	if err != nil {
		if errors.Is(err, tui.ErrAborted) {
			return nil
		}
		return err
	}
	sess.loc = choice.Locale

	switch choice.Method {
	case config.MethodSeries:
		return computeSeries(cmd.Context(), sess.cfg, choice.Digits, !noProgress)
	case config.MethodMonteCarlo:
		return computeMonteCarlo(cmd.Context(), sess.cfg, choice.Samples)
	}
	return fmt.Errorf("%w: method %q", tui.ErrInvalidChoice, choice.Method)
}

// loadHardware returns the profile the dispatcher routes on, or nil when
// accelerators are disabled.
func loadHardware(cfg *config.Config) (*hardware.Profile, error) {
	if cfg.Accelerator.Disable {
		return nil, nil
	}
	if cfg.Accelerator.Profile != "" {
		return hardware.Load(cfg.Accelerator.Profile)
	}
	return hardware.Detect(), nil
}

func computeSeries(ctx context.Context, cfg *config.Config, digits int, progress bool) error {
	if err := core.Digits(digits).Validate(); err != nil {
		return err
	}

	hw, err := loadHardware(cfg)
	if err != nil {
		return fmt.Errorf("failed to load hardware profile: %w", err)
	}

	ref, err := series.Reference(core.Digits(digits))
	if err != nil {
		return err
	}

	var observers core.Observers
	var bar *viz.Progress
	if progress {
		bar = viz.NewProgress(os.Stderr)
		observers = append(observers, bar)
	}
	var tracer *series.Tracer
	if trace {
		tracer = series.NewTracer(ref)
		observers = append(observers, tracer)
	}

	opts := compute.Options{
		TermsPerDigit: cfg.Series.TermsPerDigit,
		BatchSize:     cfg.Series.BatchSize,
		Emulate:       cfg.Accelerator.Emulate,
		Logger:        sess.log,
		Metrics:       sess.metrics,
	}
	if len(observers) > 0 {
		opts.Observer = observers
	}
	dispatcher := compute.NewDefaultDispatcher(opts)

	res, err := dispatcher.Compute(ctx, core.Digits(digits), hw)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}

	value, _, err := big.ParseFloat(res.Digits, 10, res.PrecisionBits, big.ToNearestEven)
	if err != nil {
		return err
	}

	report, err := storage.Report(sess.loc, digits, res.Digits, cfg.Output.LineWidth)
	if err != nil {
		return err
	}
	reportPath, err := storage.WriteReport(cfg.Output.Dir, sess.loc, report)
	if err != nil {
		return err
	}

	outcome := viz.Outcome{
		Locale:         sess.loc,
		Method:         locale.MethodSeries,
		Value:          res.Digits,
		Reference:      ref,
		AbsError:       series.AbsError(value, ref),
		AccurateDigits: series.AccurateDigits(res.Digits, ref),
		Engine:         res.Engine,
		FellBack:       res.FellBack,
		Elapsed:        res.Elapsed,
		ReportPath:     reportPath,
	}

	run := &storage.Run{
		Meta: storage.RunMetadata{
			Method:         config.MethodSeries,
			Locale:         sess.loc.String(),
			Digits:         digits,
			Engine:         res.Engine,
			FellBack:       res.FellBack,
			Terms:          res.Terms,
			PrecisionBits:  res.PrecisionBits,
			ElapsedSeconds: res.Elapsed.Seconds(),
			AccurateDigits: outcome.AccurateDigits,
			AbsError:       outcome.AbsError,
			Report:         sess.loc.ReportFilename(),
		},
		Report: report,
	}
	if tracer != nil {
		for _, p := range tracer.Points() {
			run.Trace = append(run.Trace, storage.TracePoint{Term: p.Term, Log10Error: p.Log10Error})
		}
	}

	runID, err := saveRun(run)
	if err != nil {
		return err
	}

	fmt.Print(viz.Summary(outcome))
	fmt.Printf("run: %s\n", runID)
	return nil
}

func computeMonteCarlo(ctx context.Context, cfg *config.Config, samples int) error {
	opts := []montecarlo.Option{montecarlo.WithWorkers(cfg.MonteCarlo.Workers)}
	if cfg.MonteCarlo.Seed != 0 {
		opts = append(opts, montecarlo.WithSeed(cfg.MonteCarlo.Seed))
	}
	est := montecarlo.New(opts...)

	start := time.Now()
	estimate, err := est.Estimate(ctx, samples)
	elapsed := time.Since(start)
	sess.metrics.Computation(config.MethodMonteCarlo, 0, elapsed, err)
	if err != nil {
		return err
	}
	sess.metrics.Samples(samples)
	sess.log.Debug("monte carlo estimate", zap.Int("samples", samples), zap.Float64("estimate", estimate))

	ref, err := series.Reference(15)
	if err != nil {
		return err
	}
	value := strconv.FormatFloat(estimate, 'f', 15, 64)

	outcome := viz.Outcome{
		Locale:         sess.loc,
		Method:         locale.MethodMonteCarlo,
		Value:          value,
		Reference:      ref,
		AbsError:       math.Abs(estimate - math.Pi),
		AccurateDigits: series.AccurateDigits(value, ref),
		Engine:         config.MethodMonteCarlo,
		Elapsed:        elapsed,
	}

	runID, err := saveRun(&storage.Run{
		Meta: storage.RunMetadata{
			Method:         config.MethodMonteCarlo,
			Locale:         sess.loc.String(),
			Samples:        samples,
			Engine:         config.MethodMonteCarlo,
			ElapsedSeconds: elapsed.Seconds(),
			Estimate:       estimate,
			AccurateDigits: outcome.AccurateDigits,
			AbsError:       outcome.AbsError,
		},
	})
	if err != nil {
		return err
	}

	if scatter || svgFile != "" {
		board := viz.Dartboard(est.Points(min(samples, scatterSamples)), 40, 20)
		if scatter {
			fmt.Print(board)
		}
		if svgFile != "" {
			if err := export.WriteFile(svgFile, export.CanvasToSVG(board, 6, string(viz.CurrentTheme.Success))); err != nil {
				return err
			}
		}
	}
	fmt.Print(viz.Summary(outcome))
	fmt.Printf("run: %s\n", runID)
	return nil
}

func saveRun(run *storage.Run) (string, error) {
	if err := sess.store.Init(); err != nil {
		return "", err
	}
	runID, err := sess.store.Save(run)
	if err != nil {
		return "", fmt.Errorf("failed to save run: %w", err)
	}
	sess.log.Debug("run saved", zap.String("id", runID))
	return runID, nil
}
