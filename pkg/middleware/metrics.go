package middleware

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/dispatch-go/pkg/mediator"
)

// MetricsCollector records per-request-type dispatch metrics.
type MetricsCollector struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewMetricsCollector creates the dispatch metric vectors and registers
// them with the given registerer.
func NewMetricsCollector(namespace string, registerer prometheus.Registerer) (*MetricsCollector, error) {
	c := &MetricsCollector{
		// Total dispatches by request type and outcome status
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "dispatch",
				Name:      "requests_total",
				Help:      "Total number of dispatched requests by type and outcome status",
			},
			[]string{"request", "status"},
		),

		// Dispatch duration histogram by request type
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "dispatch",
				Name:      "request_duration_seconds",
				Help:      "Dispatch duration distribution by request type",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0},
			},
			[]string{"request"},
		),
	}

	for _, collector := range []prometheus.Collector{c.requestsTotal, c.requestDuration} {
		if err := registerer.Register(collector); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// RecordDispatch records one dispatch execution.
func (c *MetricsCollector) RecordDispatch(request, status string, duration float64) {
	c.requestsTotal.WithLabelValues(request, status).Inc()
	c.requestDuration.WithLabelValues(request).Observe(duration)
}

// CounterFor returns the underlying counter for a request/status pair.
// Exposed for tests that assert on recorded values.
func (c *MetricsCollector) CounterFor(request, status string) (prometheus.Counter, error) {
	return c.requestsTotal.GetMetricWithLabelValues(request, status)
}

// Metrics returns a middleware that records execution duration and
// outcome counts for every request. A nil collector disables metrics.
func Metrics(collector *MetricsCollector) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) mediator.Result {
		if collector == nil {
			return next(ctx, request)
		}

		start := time.Now()
		result := next(ctx, request)

		status := "success"
		if info := result.ErrorInfo(); info != nil {
			status = string(info.Kind)
		}
		collector.RecordDispatch(RequestName(request), status, time.Since(start).Seconds())

		return result
	}
}
