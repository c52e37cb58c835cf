package compute

import (
	"context"
	"errors"

	"github.com/san-kum/pilab/internal/core"
)

// countingEngine wraps an engine and counts Compute calls.
type countingEngine struct {
	name  string
	inner core.Engine
	err   error
	calls int
}

func (c *countingEngine) Name() string { return c.name }

func (c *countingEngine) Compute(ctx context.Context, digits core.Digits) (core.Result, error) {
	c.calls++
	if c.err != nil {
		return core.Result{}, c.err
	}
	res, err := c.inner.Compute(ctx, digits)
	res.Engine = c.name
	return res, err
}

// brokenDevice fails after a number of successful batches.
type brokenDevice struct {
	HostDevice
	openErr   error
	failAfter int
	batches   int
	closed    bool
}

func (b *brokenDevice) Name() string { return "broken" }

func (b *brokenDevice) Open() error { return b.openErr }

func (b *brokenDevice) Close() { b.closed = true }

func (b *brokenDevice) Denominators(first uint64, out []uint64) error {
	if b.batches >= b.failAfter {
		return errors.New("device lost")
	}
	b.batches++
	return b.HostDevice.Denominators(first, out)
}
