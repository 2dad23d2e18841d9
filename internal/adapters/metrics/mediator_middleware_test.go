package metrics_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breadworks/swpe/internal/adapters/metrics"
	"github.com/breadworks/swpe/internal/application/mediator"
)

type fakeRequest struct{}

func TestPrometheusMiddleware_NilCollectorPassesThrough(t *testing.T) {
	mw := metrics.PrometheusMiddleware(nil)

	called := false
	_, err := mw(context.Background(), &fakeRequest{}, func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		called = true
		return "ok", nil
	})

	require.NoError(t, err)
	assert.True(t, called)
}

func TestPrometheusMiddleware_RecordsSuccessAndError(t *testing.T) {
	metrics.Registry = prometheus.NewRegistry()
	t.Cleanup(func() { metrics.Registry = nil })

	collector := metrics.NewRequestMetricsCollector()
	require.NoError(t, collector.Register())
	mw := metrics.PrometheusMiddleware(collector)

	_, err := mw(context.Background(), &fakeRequest{}, func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		return "ok", nil
	})
	require.NoError(t, err)

	sentinel := errors.New("boom")
	_, err = mw(context.Background(), &fakeRequest{}, func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		return nil, sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	metricFamilies, gatherErr := metrics.Registry.Gather()
	require.NoError(t, gatherErr)
	assert.NotEmpty(t, metricFamilies)
}
