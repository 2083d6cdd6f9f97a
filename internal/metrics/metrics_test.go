package metrics_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/javivarba/chatbots/internal/metrics"
	"github.com/javivarba/chatbots/pkg/mocks"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEndpointLabel(t *testing.T) {
	testCases := []struct {
		url      string
		expected string
	}{
		{url: "http://backend:5000/api/stats", expected: "/api/stats"},
		{url: "http://backend:5000/api/leads/42", expected: "/api/leads/:id"},
		{url: "http://backend:5000/api/leads/42/update-status", expected: "/api/leads/:id/update-status"},
		{url: "http://backend:5000/api/appointments/7/confirm", expected: "/api/appointments/:id/confirm"},
		{url: "/api/1/2", expected: "/api/:id/:id"},
	}

	for _, tc := range testCases {
		t.Run(tc.url, func(t *testing.T) {
			assert.Equal(t, tc.expected, metrics.EndpointLabel(tc.url))
		})
	}
}

func TestInstrumentHTTPClient(t *testing.T) {
	m := metrics.NewMetrics()
	next := &mocks.HTTPClient{}
	client := metrics.InstrumentHTTPClient(next, m)

	ok := &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader("{}"))}
	next.On("Get", mock.Anything, "http://backend/api/leads/3", mock.Anything).Return(ok, nil)
	next.On("Post", mock.Anything, "http://backend/api/appointments/3/cancel", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	resp, err := client.Get(context.Background(), "http://backend/api/leads/3", nil)
	require.NoError(t, err)
	assert.Same(t, ok, resp)

	_, err = client.Post(context.Background(), "http://backend/api/appointments/3/cancel", nil, nil)
	assert.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.BackendRequestsTotal.WithLabelValues("GET", "/api/leads/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BackendRequestsTotal.WithLabelValues("POST", "/api/appointments/:id/cancel", "error")))
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	m := metrics.NewMetrics()

	app := fiber.New()
	app.Use(metrics.HealthCheckMiddleware("dashboard", func() fiber.Map {
		return fiber.Map{"section": "leads"}
	}))
	app.Use(metrics.HTTPMetricsMiddleware(m, zap.NewNop()))
	app.Get("/fragments/:id", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/metrics", m.Handler())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/fragments/leads-tbody", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/fragments/:id", "200")))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	health, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(health), `"section":"leads"`)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/no-such-page/42", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")))

	m.RecordRefreshCycle(metrics.OutcomeSuperseded, 10*time.Millisecond)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `dashboard_refresh_cycles_total{outcome="superseded"} 1`)
	assert.Contains(t, string(body), "dashboard_http_requests_total")
}

func TestHTTPMetricsMiddleware_ErrorStatus(t *testing.T) {
	m := metrics.NewMetrics()

	app := fiber.New()
	app.Use(metrics.HTTPMetricsMiddleware(m, zap.NewNop()))
	app.Post("/actions/appointments/:id/confirm", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusBadGateway, "backend down")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/actions/appointments/3/confirm", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	assert.Equal(t, 1.0, testutil.ToFloat64(
		m.HTTPRequestsTotal.WithLabelValues("POST", "/actions/appointments/:id/confirm", "502")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.HTTPRequestsInFlight))
}

func TestSystemCollector(t *testing.T) {
	m := metrics.NewMetrics()
	collector := metrics.NewSystemCollector(m, zap.NewNop())

	clients := 0.0
	collector.Watch("push_clients", func() float64 { return clients })
	collector.Watch("document_version", func() float64 { return 7 })

	clients = 2
	collector.Collect()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.DashboardState.WithLabelValues("push_clients")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.DashboardState.WithLabelValues("document_version")))
	assert.Greater(t, testutil.ToFloat64(m.MemoryUsageBytes.WithLabelValues("heap_alloc")), 0.0)

	collector.Start(time.Hour)
	collector.Stop()
	collector.Stop()
}
