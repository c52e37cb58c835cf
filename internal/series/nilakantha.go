package series

import (
	"context"
	"math/big"
	"time"

	"github.com/san-kum/pilab/internal/core"
)

const Name = "cpu"

type Engine struct {
	termsPerDigit int
	observer      core.Observer
	observeEvery  int
}

type Option func(*Engine)

// WithTermsPerDigit sets how many terms are summed per requested digit.
func WithTermsPerDigit(n int) Option {
	return func(e *Engine) { e.termsPerDigit = n }
}

// WithObserver registers o to be called every `every` terms and on the last term.
// every <= 0 picks roughly 100 notifications per run.
func WithObserver(o core.Observer, every int) Option {
	return func(e *Engine) {
		e.observer = o
		e.observeEvery = every
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{termsPerDigit: core.DefaultTermsPerDigit}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Name() string { return Name }

func (e *Engine) TermsPerDigit() int { return e.termsPerDigit }

func (e *Engine) Compute(ctx context.Context, digits core.Digits) (core.Result, error) {
	if err := digits.Validate(); err != nil {
		return core.Result{}, err
	}

	start := time.Now()
	prec := core.WorkingPrecision(digits)
	total := core.TermCount(digits, e.termsPerDigit)
	every := observeInterval(e.observeEvery, total)

	acc := Start(prec)
	den := new(big.Int)
	denF := new(big.Float).SetPrec(prec)

	for k := 1; k <= total; k++ {
		if k%core.CheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return core.Result{}, &core.EngineError{Engine: Name, Digits: digits, Wrapped: core.Canceled(err)}
			}
		}

		Denominator(den, uint64(k))
		denF.SetInt(den)
		Accumulate(acc, Quotient(prec, denF), k)

		if e.observer != nil && (k%every == 0 || k == total) {
			e.observer.OnTerm(k, total, acc)
		}
	}

	return core.Result{
		Digits:        Render(acc, digits),
		Requested:     digits,
		Engine:        Name,
		Terms:         total,
		PrecisionBits: prec,
		Elapsed:       time.Since(start),
	}, nil
}

func observeInterval(every, total int) int {
	if every > 0 {
		return every
	}
	if total < 100 {
		return 1
	}
	return total / 100
}

// Start returns the accumulator initialised to 3 at precision prec.
func Start(prec uint) *big.Float {
	return new(big.Float).SetPrec(prec).SetInt64(3)
}

// Denominator sets z to (2k)(2k+1)(2k+2) and returns it.
func Denominator(z *big.Int, k uint64) *big.Int {
	n := new(big.Int).SetUint64(2 * k)
	z.Set(n)
	z.Mul(z, n.Add(n, big.NewInt(1)))
	z.Mul(z, n.Add(n, big.NewInt(1)))
	return z
}

// Quotient returns 4/den rounded to prec bits.
func Quotient(prec uint, den *big.Float) *big.Float {
	four := new(big.Float).SetPrec(prec).SetInt64(4)
	return new(big.Float).SetPrec(prec).Quo(four, den)
}

// Accumulate adds term to acc for odd k and subtracts it for even k.
func Accumulate(acc, term *big.Float, k int) {
	if k%2 == 1 {
		acc.Add(acc, term)
	} else {
		acc.Sub(acc, term)
	}
}

// Render formats acc as "3." followed by exactly digits decimal places.
func Render(acc *big.Float, digits core.Digits) string {
	return acc.Text('f', int(digits))
}
