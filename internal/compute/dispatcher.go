package compute

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/pilab/internal/core"
	"github.com/san-kum/pilab/internal/hardware"
	"github.com/san-kum/pilab/internal/logging"
	"github.com/san-kum/pilab/internal/metrics"
)

// Phase is a step of a single dispatch.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseSelecting
	PhaseComputingSeries
	PhaseComputingAccelerated
	PhaseDone
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not-started"
	case PhaseSelecting:
		return "selecting"
	case PhaseComputingSeries:
		return "computing-series"
	case PhaseComputingAccelerated:
		return "computing-accelerated"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Selection is the engine chosen for a hardware profile.
type Selection struct {
	Engine      core.Engine
	Accelerator *hardware.Accelerator
}

func (s Selection) Accelerated() bool { return s.Accelerator != nil }

type Dispatcher struct {
	cpu     core.Engine
	cuda    core.Engine
	hip     core.Engine
	logger  *zap.Logger
	metrics *metrics.Recorder
	onPhase func(Phase)
}

type Option func(*Dispatcher)

func WithCUDA(e core.Engine) Option {
	return func(d *Dispatcher) { d.cuda = e }
}

func WithHIP(e core.Engine) Option {
	return func(d *Dispatcher) { d.hip = e }
}

func WithLogger(l *zap.Logger) Option {
	return func(d *Dispatcher) { d.logger = logging.OrNop(l) }
}

func WithMetrics(r *metrics.Recorder) Option {
	return func(d *Dispatcher) { d.metrics = r }
}

// WithPhaseHook registers fn to observe every phase transition.
func WithPhaseHook(fn func(Phase)) Option {
	return func(d *Dispatcher) { d.onPhase = fn }
}

func NewDispatcher(cpu core.Engine, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		cpu:    cpu,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Select picks the engine for hw: the first accelerator from a known vendor
// wins, anything else runs on the CPU.
func (d *Dispatcher) Select(hw *hardware.Profile) Selection {
	if hw == nil {
		return Selection{Engine: d.cpu}
	}
	for i := range hw.Accelerators {
		acc := &hw.Accelerators[i]
		switch acc.Vendor {
		case hardware.VendorNVIDIA:
			if d.cuda == nil {
				return Selection{Engine: d.cpu}
			}
			return Selection{Engine: d.cuda, Accelerator: acc}
		case hardware.VendorAMD:
			if d.hip == nil {
				return Selection{Engine: d.cpu}
			}
			return Selection{Engine: d.hip, Accelerator: acc}
		}
	}
	return Selection{Engine: d.cpu}
}

// Compute returns π to digits decimal places using the engine hw allows.
func (d *Dispatcher) Compute(ctx context.Context, digits core.Digits, hw *hardware.Profile) (core.Result, error) {
	d.enter(PhaseNotStarted)
	if err := digits.Validate(); err != nil {
		d.enter(PhaseFailed)
		return core.Result{}, err
	}

	d.enter(PhaseSelecting)
	sel := d.Select(hw)

	if !sel.Accelerated() {
		d.logger.Info("computing on cpu", zap.Int("digits", int(digits)))
		d.enter(PhaseComputingSeries)
		res, err := d.run(ctx, sel.Engine, digits)
		if err != nil {
			d.enter(PhaseFailed)
			return core.Result{}, err
		}
		d.enter(PhaseDone)
		return res, nil
	}

	d.logger.Info("computing on accelerator",
		zap.String("engine", sel.Engine.Name()),
		zap.String("device", sel.Accelerator.Name),
		zap.Int("digits", int(digits)))
	d.enter(PhaseComputingAccelerated)

	res, accErr := d.run(ctx, sel.Engine, digits)
	if accErr == nil {
		d.enter(PhaseDone)
		return res, nil
	}
	if !errors.Is(accErr, core.ErrAcceleratorUnavailable) {
		d.enter(PhaseFailed)
		return core.Result{}, accErr
	}

	d.logger.Warn("accelerator unavailable, falling back to cpu",
		zap.String("engine", sel.Engine.Name()),
		zap.Error(accErr))
	d.metrics.Fallback()
	d.enter(PhaseComputingSeries)

	res, cpuErr := d.run(ctx, d.cpu, digits)
	if cpuErr != nil {
		d.enter(PhaseFailed)
		return core.Result{}, fmt.Errorf("%w: %w", core.ErrComputationFailed, errors.Join(accErr, cpuErr))
	}
	res.FellBack = true
	d.enter(PhaseDone)
	return res, nil
}

func (d *Dispatcher) run(ctx context.Context, e core.Engine, digits core.Digits) (core.Result, error) {
	start := time.Now()
	res, err := e.Compute(ctx, digits)
	d.metrics.Computation(e.Name(), int(digits), time.Since(start), err)
	return res, err
}

func (d *Dispatcher) enter(p Phase) {
	d.logger.Debug("dispatch phase", zap.Stringer("phase", p))
	if d.onPhase != nil {
		d.onPhase(p)
	}
}

// Bind returns an Engine that dispatches every computation against hw.
func (d *Dispatcher) Bind(hw *hardware.Profile) core.Engine {
	return boundDispatcher{d: d, hw: hw}
}

type boundDispatcher struct {
	d  *Dispatcher
	hw *hardware.Profile
}

func (b boundDispatcher) Name() string { return b.d.Select(b.hw).Engine.Name() }

func (b boundDispatcher) Compute(ctx context.Context, digits core.Digits) (core.Result, error) {
	return b.d.Compute(ctx, digits, b.hw)
}
