// Package montecarlo estimates π by sampling points in the square [-1,1]².
//
// Accuracy is O(1/√samples) and results differ between runs unless a seed is
// fixed with [WithSeed].
package montecarlo

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/pilab/internal/core"
)

const (
	checkMask        = 1<<16 - 1
	minWorkerSamples = 1 << 14
)

type Estimator struct {
	workers int
	seeded  bool
	seed    uint64
}

type Option func(*Estimator)

func WithWorkers(n int) Option {
	return func(e *Estimator) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithSeed makes estimates reproducible for a fixed worker count.
func WithSeed(seed uint64) Option {
	return func(e *Estimator) {
		e.seeded = true
		e.seed = seed
	}
}

func New(opts ...Option) *Estimator {
	e := &Estimator{workers: runtime.NumCPU()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Estimate returns 4·inside/samples over samples uniform points.
func (e *Estimator) Estimate(ctx context.Context, samples int) (float64, error) {
	if samples <= 0 {
		return 0, fmt.Errorf("%w: samples must be positive, got %d", core.ErrInvalidArgument, samples)
	}

	workers := e.workers
	if limit := samples / minWorkerSamples; limit < workers {
		workers = limit
	}
	if workers < 1 {
		workers = 1
	}

	perWorker := samples / workers
	remainder := samples % workers
	inside := make([]int, workers)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		n := perWorker
		if w == workers-1 {
			n += remainder
		}
		src := e.source(w)

		g.Go(func() error {
			count, err := sample(gctx, rand.New(src), n)
			inside[w] = count
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return 0, core.Canceled(err)
	}

	total := 0
	for _, c := range inside {
		total += c
	}
	return 4 * float64(total) / float64(samples), nil
}

func (e *Estimator) source(worker int) rand.Source {
	if e.seeded {
		return rand.NewPCG(e.seed, uint64(worker))
	}
	return rand.NewPCG(rand.Uint64(), rand.Uint64())
}

func sample(ctx context.Context, r *rand.Rand, n int) (int, error) {
	inside := 0
	for i := 0; i < n; i++ {
		if i&checkMask == 0 {
			if err := ctx.Err(); err != nil {
				return inside, err
			}
		}
		p := Point{X: 2*r.Float64() - 1, Y: 2*r.Float64() - 1}
		if p.Inside() {
			inside++
		}
	}
	return inside, nil
}

// Point is one sample in [-1,1]².
type Point struct {
	X, Y float64
}

func (p Point) Inside() bool { return p.X*p.X+p.Y*p.Y <= 1 }

// Points draws n samples from the first worker's stream, for display.
func (e *Estimator) Points(n int) []Point {
	if n <= 0 {
		return nil
	}
	r := rand.New(e.source(0))
	pts := make([]Point, n)
	for i := range pts {
		pts[i] = Point{X: 2*r.Float64() - 1, Y: 2*r.Float64() - 1}
	}
	return pts
}
