// Package metrics exports coerce validation reports as Prometheus metrics.
//
//	reg := prometheus.NewRegistry()
//	m := metrics.MustNew(reg)
//	model, err := schema.Validate(input, coerce.Options{Observer: m})
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/reoring/coerce"
)

// Collector is a coerce.Observer backed by Prometheus vectors.
type Collector struct {
	validations *prometheus.CounterVec
	failures    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

var _ coerce.Observer = (*Collector)(nil)

// New creates the metric vectors and registers them with reg.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coerce_validations_total",
				Help: "Top-level validations by schema kind and result.",
			},
			[]string{"kind", "result"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coerce_validation_errors_total",
				Help: "Recorded validation errors by error code.",
			},
			[]string{"code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "coerce_validation_duration_seconds",
				Help:    "Duration of top-level validations.",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"kind"},
		),
	}
	for _, col := range []prometheus.Collector{c.validations, c.failures, c.duration} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// MustNew is like New but panics when registration fails.
func MustNew(reg prometheus.Registerer) *Collector {
	c, err := New(reg)
	if err != nil {
		panic(err)
	}
	return c
}

// ObserveValidation implements coerce.Observer.
func (c *Collector) ObserveValidation(r coerce.ValidationReport) {
	kind := r.Kind.String()
	result := "success"
	if r.Err != nil {
		result = "failure"
	}
	c.validations.WithLabelValues(kind, result).Inc()
	for _, code := range r.Codes {
		c.failures.WithLabelValues(code).Inc()
	}
	c.duration.WithLabelValues(kind).Observe(r.Duration.Seconds())
}
