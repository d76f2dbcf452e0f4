package middleware

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector is a MetricsCollector backed by Prometheus.
type PrometheusCollector struct {
	processed *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewPrometheusCollector creates the collector and registers its metrics with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewPrometheusCollector(reg prometheus.Registerer) (*PrometheusCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &PrometheusCollector{
		processed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mqconnect",
				Name:      "messages_processed_total",
				Help:      "Messages handled, by destination and status.",
			},
			[]string{"destination", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "mqconnect",
				Name:      "message_duration_seconds",
				Help:      "Handler processing time.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"destination"},
		),
	}
	if err := reg.Register(c.processed); err != nil {
		existing, rerr := reuse[*prometheus.CounterVec](err)
		if rerr != nil {
			return nil, rerr
		}
		c.processed = existing
	}
	if err := reg.Register(c.duration); err != nil {
		existing, rerr := reuse[*prometheus.HistogramVec](err)
		if rerr != nil {
			return nil, rerr
		}
		c.duration = existing
	}
	return c, nil
}

// reuse returns the collector already registered under the same descriptor.
func reuse[T prometheus.Collector](err error) (T, error) {
	var zero T
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return zero, err
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return zero, err
	}
	return existing, nil
}

// MessageProcessed implements MetricsCollector.
func (c *PrometheusCollector) MessageProcessed(destination string, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.processed.WithLabelValues(destination, status).Inc()
	c.duration.WithLabelValues(destination).Observe(d.Seconds())
}
