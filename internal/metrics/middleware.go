package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	slowRequestThreshold = time.Second
	unmatchedRoute       = "unmatched"
)

// HTTPMetricsMiddleware records every request by its route pattern so that
// fragment and action ids do not explode label cardinality. Errors are
// handed to the app's ErrorHandler here so the recorded status is the one
// the browser sees. Websocket upgrades are counted but not timed because the
// connection outlives the handler.
func HTTPMetricsMiddleware(m *Metrics, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}

		start := time.Now()
		m.HTTPRequestsInFlight.Inc()
		defer m.HTTPRequestsInFlight.Dec()

		if err := c.Next(); err != nil {
			if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		method := c.Method()
		route := routeLabel(c)
		statusCode := strconv.Itoa(c.Response().StatusCode())

		if websocket.IsWebSocketUpgrade(c) {
			m.HTTPRequestsTotal.WithLabelValues(method, route, statusCode).Inc()
			return nil
		}

		duration := time.Since(start)
		responseSize := len(c.Response().Body())
		m.RecordHTTPRequest(method, route, statusCode, duration, responseSize)

		if duration > slowRequestThreshold {
			logger.Warn("Slow dashboard request",
				zap.String("method", method),
				zap.String("route", route),
				zap.String("statusCode", statusCode),
				zap.Duration("duration", duration),
			)
		}

		return nil
	}
}

func routeLabel(c *fiber.Ctx) string {
	route := c.Route()
	if route == nil || route.Path == "" || (route.Path == "/" && c.Path() != "/") {
		return unmatchedRoute
	}
	return route.Path
}

// HealthCheckMiddleware answers /health before routing. state, when set,
// adds the dashboard's live state to the body.
func HealthCheckMiddleware(serviceName string, state func() fiber.Map) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() != "/health" {
			return c.Next()
		}

		body := fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"service":   serviceName,
		}
		if state != nil {
			for key, value := range state() {
				body[key] = value
			}
		}

		return c.Status(fiber.StatusOK).JSON(body)
	}
}
