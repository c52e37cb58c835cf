// Package automation runs scripted sequences of computations.
package automation

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/pilab/internal/core"
	"github.com/san-kum/pilab/internal/series"
)

// Scenario is a named list of computations read from YAML.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is one computation. Zero fields keep the caller's configuration.
type Step struct {
	Method        string `yaml:"method"`
	Digits        int    `yaml:"digits"`
	Samples       int    `yaml:"samples"`
	TermsPerDigit int    `yaml:"terms_per_digit"`
	Seed          uint64 `yaml:"seed"`
	Workers       int    `yaml:"workers"`
	Language      string `yaml:"language"`
}

// Runner performs a single step.
type Runner func(ctx context.Context, step Step) error

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}

	return &scenario, nil
}

// RunScenario executes steps in order and stops at the first failure.
// progress, when non-nil, is told about each step before it runs.
func RunScenario(ctx context.Context, scenario *Scenario, run Runner, progress func(i, n int, step Step)) error {
	for i, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return core.Canceled(err)
		}
		if progress != nil {
			progress(i+1, len(scenario.Steps), step)
		}
		if err := run(ctx, step); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step.Method, err)
		}
	}
	return nil
}

// Sweep runs an engine over evenly spaced digit counts.
type Sweep struct {
	From  int
	To    int
	Steps int
}

type SweepResult struct {
	Digits         int
	Engine         string
	Terms          int
	AccurateDigits int
	Elapsed        time.Duration
}

func (s Sweep) points() ([]int, error) {
	if s.From <= 0 || s.To < s.From {
		return nil, fmt.Errorf("%w: sweep range %d..%d", core.ErrInvalidArgument, s.From, s.To)
	}
	if s.Steps < 2 || s.From == s.To {
		return []int{s.From}, nil
	}

	step := float64(s.To-s.From) / float64(s.Steps-1)
	pts := make([]int, 0, s.Steps)
	for i := 0; i < s.Steps; i++ {
		d := s.From + int(float64(i)*step+0.5)
		if len(pts) > 0 && d == pts[len(pts)-1] {
			continue
		}
		pts = append(pts, d)
	}
	return pts, nil
}

// RunSweep computes π at each sweep point and scores it against the
// reference digits.
func RunSweep(ctx context.Context, sweep Sweep, engine core.Engine) ([]SweepResult, error) {
	pts, err := sweep.points()
	if err != nil {
		return nil, err
	}

	ref, err := series.Reference(core.Digits(pts[len(pts)-1]))
	if err != nil {
		return nil, err
	}

	results := make([]SweepResult, 0, len(pts))
	for _, d := range pts {
		res, err := engine.Compute(ctx, core.Digits(d))
		if err != nil {
			return results, fmt.Errorf("sweep at %d digits: %w", d, err)
		}
		results = append(results, SweepResult{
			Digits:         d,
			Engine:         res.Engine,
			Terms:          res.Terms,
			AccurateDigits: series.AccurateDigits(res.Digits, ref[:d+2]),
			Elapsed:        res.Elapsed,
		})
	}
	return results, nil
}
