package series

import (
	"math"
	"math/big"
)

// TracePoint is the distance from π of a partial sum.
type TracePoint struct {
	Term       int
	Log10Error float64
}

// Tracer is an Observer that records how fast the partial sums approach π.
type Tracer struct {
	ref    *big.Float
	points []TracePoint
}

// NewTracer compares partial sums against the reference digits pi.
func NewTracer(pi string) *Tracer {
	prec := uint(len(pi))*4 + 64
	ref, ok := new(big.Float).SetPrec(prec).SetString(pi)
	if !ok {
		ref = nil
	}
	return &Tracer{ref: ref}
}

func (t *Tracer) OnTerm(term, total int, partial *big.Float) {
	if t.ref == nil {
		return
	}
	// a restarted computation begins a new trace
	if n := len(t.points); n > 0 && term <= t.points[n-1].Term {
		t.points = t.points[:0]
	}

	diff := new(big.Float).SetPrec(partial.Prec()).Sub(partial, t.ref)
	diff.Abs(diff)
	if diff.Sign() == 0 {
		t.points = append(t.points, TracePoint{Term: term, Log10Error: math.Inf(-1)})
		return
	}
	t.points = append(t.points, TracePoint{Term: term, Log10Error: log10(diff)})
}

func (t *Tracer) Points() []TracePoint {
	out := make([]TracePoint, len(t.points))
	copy(out, t.points)
	return out
}

// log10 of a positive big.Float whose magnitude may underflow float64.
func log10(x *big.Float) float64 {
	mant := new(big.Float)
	exp := x.MantExp(mant)
	m, _ := mant.Float64()
	return math.Log10(m) + float64(exp)*math.Log10(2)
}
