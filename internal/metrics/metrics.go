// Package metrics records computation counters in a private prometheus registry.
// The registry is written out as a node_exporter textfile when a run ends.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pilab"

type Recorder struct {
	registry     *prometheus.Registry
	computations *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	fallbacks    prometheus.Counter
	digits       prometheus.Gauge
	samples      prometheus.Counter
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		computations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "computations_total",
			Help:      "Completed and failed computations by engine.",
		}, []string{"engine", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "computation_duration_seconds",
			Help:      "Wall time of computations by engine.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"engine"}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accelerator_fallbacks_total",
			Help:      "Accelerated computations retried on the CPU.",
		}),
		digits: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "requested_digits",
			Help:      "Digit count of the most recent series computation.",
		}),
		samples: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "montecarlo_samples_total",
			Help:      "Monte Carlo samples drawn.",
		}),
	}
	r.registry.MustRegister(r.computations, r.duration, r.fallbacks, r.digits, r.samples)
	return r
}

// Nil receivers are valid so callers need not check whether metrics are enabled.

// Computation counts one finished computation. Monte Carlo runs pass zero
// digits and leave the digit gauge alone.
func (r *Recorder) Computation(engine string, digits int, elapsed time.Duration, err error) {
	if r == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.computations.WithLabelValues(engine, outcome).Inc()
	r.duration.WithLabelValues(engine).Observe(elapsed.Seconds())
	if digits > 0 {
		r.digits.Set(float64(digits))
	}
}

func (r *Recorder) Fallback() {
	if r == nil {
		return
	}
	r.fallbacks.Inc()
}

func (r *Recorder) Samples(n int) {
	if r == nil {
		return
	}
	r.samples.Add(float64(n))
}

// WriteTextfile atomically writes all metrics in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
