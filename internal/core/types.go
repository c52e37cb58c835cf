package core

import (
	"context"
	"fmt"
	"math/big"
	"time"
)

// Digits is a requested number of decimal places of π.
type Digits int

const (
	Kilo Digits = 1000
	Mega Digits = 10000
)

func (d Digits) Validate() error {
	if d <= 0 {
		return fmt.Errorf("%w: digits must be positive, got %d", ErrInvalidArgument, d)
	}
	return nil
}

// Result is an immutable computed value of π.
type Result struct {
	Digits        string
	Requested     Digits
	Engine        string
	Terms         int
	PrecisionBits uint
	FellBack      bool
	Elapsed       time.Duration
}

type Engine interface {
	Name() string
	Compute(ctx context.Context, digits Digits) (Result, error)
}

// Observer receives the running partial sum while a series is summed.
// partial must not be retained or modified.
type Observer interface {
	OnTerm(term, total int, partial *big.Float)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(term, total int, partial *big.Float)

func (f ObserverFunc) OnTerm(term, total int, partial *big.Float) { f(term, total, partial) }

// Observers fans each term out to every non-nil observer in order.
type Observers []Observer

func (obs Observers) OnTerm(term, total int, partial *big.Float) {
	for _, o := range obs {
		if o != nil {
			o.OnTerm(term, total, partial)
		}
	}
}
