package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	middleware "github.com/javivarba/chatbots/internal/error"
	"github.com/javivarba/chatbots/internal/metrics"
	"github.com/javivarba/chatbots/internal/view"
	"go.uber.org/zap"
)

const serviceName = "leads-dashboard"

// NewApp builds the fiber app with the error handler and the ambient
// middleware chain installed.
func NewApp(m *metrics.Metrics, dashboard *view.Dashboard, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      serviceName,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(metrics.HealthCheckMiddleware(serviceName, func() fiber.Map {
		return fiber.Map{
			"section": dashboard.Section(),
			"version": dashboard.Document().Version(),
		}
	}))
	app.Use(metrics.HTTPMetricsMiddleware(m, logger))

	return app
}
