package api

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/javivarba/chatbots/internal/api/v1"
	"github.com/javivarba/chatbots/internal/metrics"
)

const prefixActions = "/actions/"

func SetupRoutes(app *fiber.App, handler *v1.Handler, m *metrics.Metrics) {
	app.Get("/ping", handler.Pong)
	app.Get("/metrics", m.Handler())

	app.Get("/", handler.Index)
	app.Get("/fragments", handler.Fragments)
	app.Get("/fragments/:id", handler.Fragment)

	app.Post(prefixActions+"section/:section", handler.ShowSection)
	app.Post(prefixActions+"refresh", handler.Refresh)
	app.Post(prefixActions+"leads/:id/conversation", handler.ViewConversation)
	app.Post(prefixActions+"leads/:id/status", handler.UpdateLeadStatus)
	app.Post(prefixActions+"modal/close", handler.CloseModal)
	app.Post(prefixActions+"appointments/:id/confirm", handler.ConfirmAppointment)
	app.Post(prefixActions+"appointments/:id/cancel", handler.CancelAppointment)

	app.Use("/ws", handler.UpgradeRequired)
	app.Get("/ws", websocket.New(handler.HandleWebSocket))
}
