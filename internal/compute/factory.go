package compute

import (
	"go.uber.org/zap"

	"github.com/san-kum/pilab/internal/core"
	"github.com/san-kum/pilab/internal/metrics"
	"github.com/san-kum/pilab/internal/series"
)

// Options configures the engines behind a default dispatcher.
type Options struct {
	TermsPerDigit int
	BatchSize     int
	// Emulate runs the CUDA and HIP engines on a HostDevice.
	Emulate  bool
	Observer core.Observer
	Logger   *zap.Logger
	Metrics  *metrics.Recorder
}

// NewDefaultDispatcher wires the CPU series engine with CUDA and HIP engines
// over their native devices.
func NewDefaultDispatcher(o Options) *Dispatcher {
	seriesOpts := []series.Option{series.WithTermsPerDigit(o.TermsPerDigit)}
	engineOpts := []EngineOption{
		WithEngineTermsPerDigit(o.TermsPerDigit),
		WithBatchSize(o.BatchSize),
	}
	if o.Observer != nil {
		seriesOpts = append(seriesOpts, series.WithObserver(o.Observer, 0))
		engineOpts = append(engineOpts, WithEngineObserver(o.Observer))
	}

	return NewDispatcher(
		series.New(seriesOpts...),
		WithCUDA(NewAcceleratedEngine(FlavorCUDA, NewDevice(FlavorCUDA, o.Emulate), engineOpts...)),
		WithHIP(NewAcceleratedEngine(FlavorHIP, NewDevice(FlavorHIP, o.Emulate), engineOpts...)),
		WithLogger(o.Logger),
		WithMetrics(o.Metrics),
	)
}
