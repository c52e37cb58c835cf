package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/pilab/internal/core"
	"github.com/san-kum/pilab/internal/format"
)

const (
	MethodSeries     = "series"
	MethodMonteCarlo = "montecarlo"

	DefaultDigits    = int(core.Kilo)
	DefaultSamples   = 1_000_000
	DefaultBatchSize = 4096
)

type Config struct {
	Language    string            `yaml:"language"`
	Method      string            `yaml:"method"`
	Digits      int               `yaml:"digits"`
	Samples     int               `yaml:"samples"`
	Series      SeriesConfig      `yaml:"series"`
	Accelerator AcceleratorConfig `yaml:"accelerator"`
	MonteCarlo  MonteCarloConfig  `yaml:"montecarlo"`
	Output      OutputConfig      `yaml:"output"`
}

type SeriesConfig struct {
	TermsPerDigit int `yaml:"terms_per_digit"`
	BatchSize     int `yaml:"batch_size"`
}

type AcceleratorConfig struct {
	// Disable skips accelerator selection entirely.
	Disable bool `yaml:"disable"`
	// Emulate runs accelerated engines on CPU workers.
	Emulate bool `yaml:"emulate"`
	// Profile replaces hardware detection with a YAML profile file.
	Profile string `yaml:"profile"`
}

type MonteCarloConfig struct {
	Workers int    `yaml:"workers"`
	Seed    uint64 `yaml:"seed"`
}

type OutputConfig struct {
	LineWidth int    `yaml:"line_width"`
	Dir       string `yaml:"dir"`
}

func DefaultConfig() *Config {
	return &Config{
		Method:  MethodSeries,
		Digits:  DefaultDigits,
		Samples: DefaultSamples,
		Series: SeriesConfig{
			TermsPerDigit: core.DefaultTermsPerDigit,
			BatchSize:     DefaultBatchSize,
		},
		Output: OutputConfig{
			LineWidth: format.DefaultWidth,
			Dir:       ".",
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch c.Method {
	case MethodSeries, MethodMonteCarlo:
	default:
		return fmt.Errorf("unknown method %q (want %s or %s)", c.Method, MethodSeries, MethodMonteCarlo)
	}
	if c.Digits <= 0 {
		return fmt.Errorf("%w: digits must be positive, got %d", core.ErrInvalidArgument, c.Digits)
	}
	if c.Samples <= 0 {
		return fmt.Errorf("%w: samples must be positive, got %d", core.ErrInvalidArgument, c.Samples)
	}
	if c.Series.TermsPerDigit <= 0 {
		return fmt.Errorf("%w: terms_per_digit must be positive", core.ErrInvalidArgument)
	}
	if c.Output.LineWidth <= 0 {
		return fmt.Errorf("%w: line_width must be positive", core.ErrInvalidArgument)
	}
	return nil
}
