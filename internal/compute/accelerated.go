package compute

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/san-kum/pilab/internal/core"
	"github.com/san-kum/pilab/internal/series"
)

const DefaultBatchSize = 4096

// AcceleratedEngine sums the Nilakantha series with denominators from a Device.
type AcceleratedEngine struct {
	flavor        Flavor
	device        Device
	termsPerDigit int
	batchSize     int
	observer      core.Observer
}

type EngineOption func(*AcceleratedEngine)

func WithEngineTermsPerDigit(n int) EngineOption {
	return func(e *AcceleratedEngine) { e.termsPerDigit = n }
}

func WithBatchSize(n int) EngineOption {
	return func(e *AcceleratedEngine) {
		if n > 0 {
			e.batchSize = n
		}
	}
}

// WithEngineObserver registers o to be notified after every batch.
func WithEngineObserver(o core.Observer) EngineOption {
	return func(e *AcceleratedEngine) { e.observer = o }
}

func NewAcceleratedEngine(flavor Flavor, device Device, opts ...EngineOption) *AcceleratedEngine {
	e := &AcceleratedEngine{
		flavor:        flavor,
		device:        device,
		termsPerDigit: core.DefaultTermsPerDigit,
		batchSize:     DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *AcceleratedEngine) Name() string { return e.flavor.String() }

func (e *AcceleratedEngine) Device() Device { return e.device }

func (e *AcceleratedEngine) Compute(ctx context.Context, digits core.Digits) (core.Result, error) {
	if err := digits.Validate(); err != nil {
		return core.Result{}, err
	}

	start := time.Now()
	total := core.TermCount(digits, e.termsPerDigit)
	if total > maxDeviceTerm {
		return core.Result{}, e.unavailable(digits, fmt.Errorf("%d terms exceed the device word size", total))
	}

	if err := e.device.Open(); err != nil {
		return core.Result{}, e.unavailable(digits, err)
	}
	defer e.device.Close()

	prec := core.WorkingPrecision(digits)
	acc := series.Start(prec)
	dens := make([]uint64, e.batchSize)
	terms := make([]*big.Float, e.batchSize)

	for first := 1; first <= total; first += e.batchSize {
		if err := ctx.Err(); err != nil {
			return core.Result{}, &core.EngineError{Engine: e.Name(), Digits: digits, Wrapped: core.Canceled(err)}
		}

		n := e.batchSize
		if first+n-1 > total {
			n = total - first + 1
		}

		if err := e.device.Denominators(uint64(first), dens[:n]); err != nil {
			return core.Result{}, e.unavailable(digits, err)
		}

		core.ParallelFor(n, 256, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				den := new(big.Float).SetPrec(prec).SetUint64(dens[i])
				terms[i] = series.Quotient(prec, den)
			}
		})

		// sequential reduction keeps the rounding identical to the CPU engine
		for i := 0; i < n; i++ {
			series.Accumulate(acc, terms[i], first+i)
		}

		if e.observer != nil {
			e.observer.OnTerm(first+n-1, total, acc)
		}
	}

	return core.Result{
		Digits:        series.Render(acc, digits),
		Requested:     digits,
		Engine:        e.Name(),
		Terms:         total,
		PrecisionBits: prec,
		Elapsed:       time.Since(start),
	}, nil
}

func (e *AcceleratedEngine) unavailable(digits core.Digits, cause error) error {
	return &core.EngineError{
		Engine:  e.Name(),
		Digits:  digits,
		Wrapped: fmt.Errorf("%w: %s: %v", core.ErrAcceleratorUnavailable, e.device.Name(), cause),
	}
}
