package base44_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/base44-io/base44-client/pkg/base44"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterceptorChain(t *testing.T) {
	t.Parallel()

	t.Run("request interceptors run in order", func(t *testing.T) {
		t.Parallel()

		chain := base44.NewInterceptorChain()

		var order []string

		chain.AddRequestInterceptor(func(ctx context.Context, req *base44.Request) error {
			order = append(order, "first")

			return nil
		})
		chain.AddRequestInterceptor(func(ctx context.Context, req *base44.Request) error {
			order = append(order, "second")

			return nil
		})

		err := chain.ExecuteRequestInterceptors(context.Background(), &base44.Request{})
		require.NoError(t, err)
		assert.Equal(t, []string{"first", "second"}, order)
	})

	t.Run("request interceptor error stops the chain", func(t *testing.T) {
		t.Parallel()

		chain := base44.NewInterceptorChain()
		boom := errors.New("rejected")

		chain.AddRequestInterceptor(func(ctx context.Context, req *base44.Request) error {
			return boom
		})

		var reached bool

		chain.AddRequestInterceptor(func(ctx context.Context, req *base44.Request) error {
			reached = true

			return nil
		})

		err := chain.ExecuteRequestInterceptors(context.Background(), &base44.Request{})
		require.ErrorIs(t, err, boom)
		assert.False(t, reached)
	})

	t.Run("response interceptors see request and response", func(t *testing.T) {
		t.Parallel()

		chain := base44.NewInterceptorChain()

		var gotStatus int

		chain.AddResponseInterceptor(func(ctx context.Context, req *base44.Request, resp *base44.Response) error {
			gotStatus = resp.StatusCode

			return nil
		})

		err := chain.ExecuteResponseInterceptors(context.Background(),
			&base44.Request{Method: "GET", Path: "/x"},
			&base44.Response{StatusCode: 201})
		require.NoError(t, err)
		assert.Equal(t, 201, gotStatus)
	})
}

func TestHeaderInterceptor(t *testing.T) {
	t.Parallel()

	interceptor := base44.HeaderInterceptor(map[string]string{
		"X-Request-Source": "worker",
	})

	req := &base44.Request{}
	require.NoError(t, interceptor(context.Background(), req))
	assert.Equal(t, "worker", req.Headers.Get("X-Request-Source"))
}

func TestRateLimitInterceptor(t *testing.T) {
	t.Parallel()

	interceptor := base44.RateLimitInterceptor(1)

	// The initial bucket passes without blocking.
	require.NoError(t, interceptor(context.Background(), &base44.Request{}))

	// With the bucket drained, a cancelled context is honored.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := interceptor(ctx, &base44.Request{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMetricsInterceptors(t *testing.T) {
	t.Parallel()

	collector := base44.NewMetricsCollector()
	requestHook := base44.MetricsRequestInterceptor(collector)
	responseHook := base44.MetricsResponseInterceptor(collector)

	ctx := context.Background()

	req := &base44.Request{Method: "GET", Path: "/api/apps/app-1/entities/Task"}
	require.NoError(t, requestHook(ctx, req))
	require.NoError(t, responseHook(ctx, req, &base44.Response{StatusCode: http.StatusOK}))

	failed := &base44.Request{Method: "GET", Path: "/api/apps/app-1/entities/Task"}
	require.NoError(t, requestHook(ctx, failed))
	require.NoError(t, responseHook(ctx, failed, &base44.Response{StatusCode: http.StatusNotFound}))

	metrics := collector.GetMetrics("GET /api/apps/app-1/entities/Task")
	require.NotNil(t, metrics)
	assert.Equal(t, int64(2), metrics.TotalRequests)
	assert.Equal(t, int64(1), metrics.TotalErrors)
	assert.False(t, metrics.LastRequestTime.IsZero())

	assert.Nil(t, collector.GetMetrics("GET /other"))
}
