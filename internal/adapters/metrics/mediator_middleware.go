package metrics

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/breadworks/swpe/internal/application/mediator"
)

// RequestMetricsCollector records mediator request execution for the
// single SolveRequest this engine's mediator carries.
type RequestMetricsCollector struct {
	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
}

func NewRequestMetricsCollector() *RequestMetricsCollector {
	return &RequestMetricsCollector{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "request",
				Name:      "duration_seconds",
				Help:      "Mediator request execution duration",
				Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
			},
			[]string{"request", "status"},
		),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "request",
				Name:      "total",
				Help:      "Total mediator requests by type and status",
			},
			[]string{"request", "status"},
		),
	}
}

func (c *RequestMetricsCollector) Register() error {
	if Registry == nil {
		return nil
	}
	for _, m := range []prometheus.Collector{c.requestDuration, c.requestsTotal} {
		if err := Registry.Register(m); err != nil {
			return err
		}
	}
	return nil
}

// PrometheusMiddleware records request duration and success/failure
// counts, skipping entirely when collector is nil (metrics disabled).
func PrometheusMiddleware(collector *RequestMetricsCollector) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		if collector == nil {
			return next(ctx, request)
		}

		name := extractRequestName(request)
		start := time.Now()
		response, err := next(ctx, request)
		duration := time.Since(start).Seconds()

		status := "success"
		if err != nil {
			status = "error"
		}
		collector.requestDuration.WithLabelValues(name, status).Observe(duration)
		collector.requestsTotal.WithLabelValues(name, status).Inc()

		return response, err
	}
}

func extractRequestName(request mediator.Request) string {
	if request == nil {
		return "UnknownRequest"
	}
	fullName := strings.TrimPrefix(reflect.TypeOf(request).String(), "*")
	parts := strings.Split(fullName, ".")
	if len(parts) > 0 {
		return parts[len(parts)-1]
	}
	return fullName
}
