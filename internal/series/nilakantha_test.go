package series

import (
	"context"
	"errors"
	"math"
	"math/big"
	"strings"
	"testing"

	"github.com/san-kum/pilab/internal/core"
)

const pi50 = "3.14159265358979323846264338327950288419716939937510"

func TestComputePrefixAndLength(t *testing.T) {
	e := New()
	for _, d := range []core.Digits{1, 5, 10, 50, 200} {
		r, err := e.Compute(context.Background(), d)
		if err != nil {
			t.Fatalf("digits %d: %v", d, err)
		}
		if !strings.HasPrefix(r.Digits, "3.") {
			t.Errorf("digits %d: expected 3. prefix, got %q", d, r.Digits[:4])
		}
		if len(r.Digits) != int(d)+2 {
			t.Errorf("digits %d: expected length %d, got %d", d, int(d)+2, len(r.Digits))
		}
		if r.Engine != Name {
			t.Errorf("expected engine %s, got %s", Name, r.Engine)
		}
		if r.Terms != core.TermCount(d, core.DefaultTermsPerDigit) {
			t.Errorf("digits %d: unexpected term count %d", d, r.Terms)
		}
	}
}

func TestComputeKnownValue(t *testing.T) {
	r, err := New().Compute(context.Background(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if r.Digits != "3.142" {
		t.Errorf("expected 3.142, got %s", r.Digits)
	}
}

func TestComputeInvalidArgument(t *testing.T) {
	for _, d := range []core.Digits{0, -5} {
		r, err := New().Compute(context.Background(), d)
		if !errors.Is(err, core.ErrInvalidArgument) {
			t.Errorf("digits %d: expected ErrInvalidArgument, got %v", d, err)
		}
		if r.Digits != "" {
			t.Errorf("digits %d: expected no output, got %q", d, r.Digits)
		}
	}
}

func TestAccuracyImprovesWithDigits(t *testing.T) {
	ref, err := Reference(20)
	if err != nil {
		t.Fatal(err)
	}

	e := New()
	low, err := e.Compute(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	high, err := e.Compute(context.Background(), core.Kilo)
	if err != nil {
		t.Fatal(err)
	}

	// 10 significant digits: "3." plus 9 decimals
	lowAcc := AccurateDigits(low.Digits[:11], ref)
	highAcc := AccurateDigits(high.Digits[:11], ref)
	if highAcc < lowAcc {
		t.Errorf("expected digits=1000 (%d correct) to be at least as accurate as digits=10 (%d correct)", highAcc, lowAcc)
	}
	if highAcc < 8 {
		t.Errorf("expected at least 8 correct decimals at digits=1000, got %d", highAcc)
	}
}

func TestComputeDeterministic(t *testing.T) {
	e := New()
	a, _ := e.Compute(context.Background(), 64)
	b, _ := e.Compute(context.Background(), 64)
	if a.Digits != b.Digits {
		t.Error("same input should yield the same digits")
	}
}

func TestComputeObserver(t *testing.T) {
	var calls, last, lastTotal int
	obs := core.ObserverFunc(func(term, total int, partial *big.Float) {
		calls++
		last = term
		lastTotal = total
	})

	e := New(WithTermsPerDigit(5), WithObserver(obs, 7))
	if _, err := e.Compute(context.Background(), 10); err != nil {
		t.Fatal(err)
	}

	// 50 terms: every 7th plus the final one
	if calls != 8 {
		t.Errorf("expected 8 notifications, got %d", calls)
	}
	if last != 50 || lastTotal != 50 {
		t.Errorf("expected final notification at 50/50, got %d/%d", last, lastTotal)
	}
}

func TestComputeCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Compute(ctx, 100)
	if !errors.Is(err, core.ErrCanceled) {
		t.Errorf("expected ErrCanceled, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled in chain, got %v", err)
	}
}

func TestDenominator(t *testing.T) {
	tests := []struct {
		k    uint64
		want int64
	}{
		{1, 24},
		{2, 120},
		{3, 336},
	}
	for _, tt := range tests {
		got := Denominator(new(big.Int), tt.k)
		if got.Int64() != tt.want {
			t.Errorf("k=%d: expected %d, got %s", tt.k, tt.want, got)
		}
	}
}

func TestReference(t *testing.T) {
	ref, err := Reference(50)
	if err != nil {
		t.Fatal(err)
	}
	if ref != pi50 {
		t.Errorf("reference mismatch:\n got  %s\n want %s", ref, pi50)
	}

	if _, err := Reference(0); !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestAccurateDigits(t *testing.T) {
	tests := []struct {
		result string
		want   int
	}{
		{"3.14159", 5},
		{"3.14160", 3},
		{"3.2", 0},
		{"4.14", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := AccurateDigits(tt.result, pi50); got != tt.want {
			t.Errorf("%q: expected %d, got %d", tt.result, tt.want, got)
		}
	}
}

func TestAbsError(t *testing.T) {
	three := Start(128)
	got := AbsError(three, pi50)
	if math.Abs(got-(math.Pi-3)) > 1e-12 {
		t.Errorf("expected %.12f, got %.12f", math.Pi-3, got)
	}
}

func TestTracerConverges(t *testing.T) {
	ref, err := Reference(50)
	if err != nil {
		t.Fatal(err)
	}
	tracer := NewTracer(ref)
	e := New(WithTermsPerDigit(20), WithObserver(tracer, 100))

	if _, err := e.Compute(context.Background(), 50); err != nil {
		t.Fatal(err)
	}

	points := tracer.Points()
	if len(points) != 10 {
		t.Fatalf("expected 10 points, got %d", len(points))
	}
	if points[0].Term != 100 || points[9].Term != 1000 {
		t.Errorf("unexpected terms %d..%d", points[0].Term, points[9].Term)
	}
	if points[9].Log10Error >= points[0].Log10Error {
		t.Errorf("error did not shrink: %f -> %f", points[0].Log10Error, points[9].Log10Error)
	}
	// the series error after n terms is about 1/(4n^3)
	if points[9].Log10Error > -9 || points[9].Log10Error < -10.5 {
		t.Errorf("unexpected final error 1e%f", points[9].Log10Error)
	}
}

func TestTracerRestart(t *testing.T) {
	tracer := NewTracer("3.14159")
	v := big.NewFloat(3.1)

	tracer.OnTerm(10, 20, v)
	tracer.OnTerm(20, 20, v)
	tracer.OnTerm(5, 20, v)

	if points := tracer.Points(); len(points) != 1 || points[0].Term != 5 {
		t.Errorf("expected trace to restart, got %+v", points)
	}
}
