package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/san-kum/pilab/internal/config"
	"github.com/san-kum/pilab/internal/locale"
	"github.com/san-kum/pilab/internal/logging"
	"github.com/san-kum/pilab/internal/metrics"
	"github.com/san-kum/pilab/internal/storage"
	"github.com/san-kum/pilab/internal/viz"
)

// session holds what every command shares, built once before it runs.
type session struct {
	cfg     *config.Config
	loc     locale.Locale
	log     *zap.Logger
	metrics *metrics.Recorder
	store   *storage.Store
}

var sess *session

func setup(cmd *cobra.Command, args []string) error {
	if err := applyEnv(env, cmd.Flags()); err != nil {
		return err
	}

	log, err := logging.New(logLevel)
	if err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	if configFile != "" {
		cfg, err = config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}

	loc, err := resolveLocale(cfg)
	if err != nil {
		return err
	}

	viz.SetTheme(theme)

	var rec *metrics.Recorder
	if metricsFile != "" {
		rec = metrics.NewRecorder()
	}

	sess = &session{
		cfg:     cfg,
		loc:     loc,
		log:     log,
		metrics: rec,
		store:   storage.New(dataDir),
	}
	return nil
}

// applyEnv copies PILAB_* values into flags the command line left unset.
func applyEnv(v *viper.Viper, fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Changed || !v.IsSet(f.Name) {
			return
		}
		if setErr := fs.Set(f.Name, v.GetString(f.Name)); setErr != nil {
			err = fmt.Errorf("PILAB_%s: %w", envKey(f.Name), setErr)
		}
	})
	return err
}

func envKey(flag string) string {
	return strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

func teardown() error {
	if sess == nil {
		return nil
	}
	defer sess.log.Sync()
	if err := sess.metrics.WriteTextfile(metricsFile); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}

// resolveLocale prefers --lang, then the config file, then the environment.
func resolveLocale(cfg *config.Config) (locale.Locale, error) {
	switch {
	case lang != "":
		return locale.Parse(lang)
	case cfg.Language != "":
		return locale.Parse(cfg.Language)
	}
	return locale.FromEnv(), nil
}

// applySeriesFlags lets flags the user set override the config file.
func applySeriesFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("terms-per-digit") {
		cfg.Series.TermsPerDigit = termsPerDigit
	}
	if flags.Changed("batch-size") {
		cfg.Series.BatchSize = batchSize
	}
	if flags.Changed("hardware") {
		cfg.Accelerator.Profile = hardwareFile
	}
	if flags.Changed("emulate") {
		cfg.Accelerator.Emulate = emulate
	}
	if flags.Changed("no-accel") {
		cfg.Accelerator.Disable = noAccel
	}
	if flags.Changed("width") {
		cfg.Output.LineWidth = width
	}
	if flags.Changed("out") {
		cfg.Output.Dir = outDir
	}
}

func applyMonteCarloFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.MonteCarlo.Workers = workers
	}
	if flags.Changed("seed") {
		cfg.MonteCarlo.Seed = seed
	}
}
