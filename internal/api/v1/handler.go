package v1

import (
	"context"
	"errors"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/javivarba/chatbots/internal/api/validator"
	"github.com/javivarba/chatbots/internal/constants"
	"github.com/javivarba/chatbots/internal/metrics"
	"github.com/javivarba/chatbots/internal/publishers"
	"github.com/javivarba/chatbots/internal/push"
	"github.com/javivarba/chatbots/internal/view"
	"go.uber.org/zap"
)

type Dashboard interface {
	Section() view.Section
	Document() *view.Document
	ShowSection(ctx context.Context, section string) error
	RefreshData(ctx context.Context) error
	ViewConversation(ctx context.Context, leadID int64) error
	CloseModal()
	ConfirmAppointment(ctx context.Context, appointmentID int64) error
	CancelAppointment(ctx context.Context, appointmentID int64, confirmer view.Confirmer) error
	UpdateLeadStatus(ctx context.Context, leadID int64, status string) error
}

type Handler struct {
	logger    *zap.Logger
	dashboard Dashboard
	page      *Page
	hub       *push.Hub
	validator validator.IXValidator
	publisher publishers.ActionPublisher
	metrics   *metrics.Metrics
}

func NewHandler(logger *zap.Logger, dashboard Dashboard, page *Page, hub *push.Hub,
	validator validator.IXValidator, publisher publishers.ActionPublisher, m *metrics.Metrics) *Handler {
	return &Handler{
		logger:    logger,
		dashboard: dashboard,
		page:      page,
		hub:       hub,
		validator: validator,
		publisher: publisher,
		metrics:   m,
	}
}

func (h *Handler) Pong(c *fiber.Ctx) error {
	return c.SendString("pong")
}

func (h *Handler) Index(c *fiber.Ctx) error {
	body, err := h.page.Render(h.dashboard.Document().Snapshot())
	if err != nil {
		h.logger.Error("Failed to render host page", zap.Error(err))
		return err
	}

	c.Type("html", "utf-8")
	return c.Send(body)
}

func (h *Handler) Fragments(c *fiber.Ctx) error {
	doc := h.dashboard.Document()
	return c.JSON(FragmentsResponse{
		Section:  string(h.dashboard.Section()),
		Version:  doc.Version(),
		Elements: doc.Snapshot(),
	})
}

func (h *Handler) Fragment(c *fiber.Ctx) error {
	var request FragmentRequest
	if err := h.parse(c, &request); err != nil {
		return err
	}

	el, ok := h.dashboard.Document().Element(request.ID)
	if !ok {
		return view.NewError(constants.ErrCodeNotFound, errors.New("unknown element "+request.ID))
	}

	return c.JSON(el)
}

func (h *Handler) ShowSection(c *fiber.Ctx) error {
	var request SectionRequest
	if err := h.parse(c, &request); err != nil {
		return err
	}

	err := h.dashboard.ShowSection(c.UserContext(), request.Section)
	return h.respond(c, true, err)
}

func (h *Handler) Refresh(c *fiber.Ctx) error {
	return h.respond(c, true, h.dashboard.RefreshData(c.UserContext()))
}

func (h *Handler) ViewConversation(c *fiber.Ctx) error {
	var request LeadRequest
	if err := h.parse(c, &request); err != nil {
		return err
	}

	return h.respond(c, true, h.dashboard.ViewConversation(c.UserContext(), request.ID))
}

func (h *Handler) CloseModal(c *fiber.Ctx) error {
	h.dashboard.CloseModal()
	return h.respond(c, true, nil)
}

func (h *Handler) ConfirmAppointment(c *fiber.Ctx) error {
	var request AppointmentRequest
	if err := h.parse(c, &request); err != nil {
		return err
	}

	ctx := c.UserContext()
	err := h.dashboard.ConfirmAppointment(ctx, request.ID)
	h.audit(ctx, publishers.NewActionEvent(publishers.ActionConfirmAppointment, request.ID, err))

	return h.respond(c, true, err)
}

// CancelAppointment only cancels when the browser already confirmed the
// prompt and says so with ?confirm=true.
func (h *Handler) CancelAppointment(c *fiber.Ctx) error {
	var request CancelAppointmentRequest
	if err := h.parse(c, &request); err != nil {
		return err
	}
	if err := c.QueryParser(&request); err != nil {
		return view.NewError(constants.ErrCodeInvalidRequest, err)
	}

	ctx := c.UserContext()
	err := h.dashboard.CancelAppointment(ctx, request.ID, view.Answer(request.Confirm))
	if request.Confirm {
		h.audit(ctx, publishers.NewActionEvent(publishers.ActionCancelAppointment, request.ID, err))
	}

	return h.respond(c, request.Confirm, err)
}

func (h *Handler) UpdateLeadStatus(c *fiber.Ctx) error {
	var request LeadStatusRequest
	if err := c.ParamsParser(&request); err != nil {
		return view.NewError(constants.ErrCodeInvalidRequest, err)
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&request); err != nil {
			h.logger.Warn("Failed to parse body", zap.Error(err), zap.String("body", string(c.Body())))
			return view.NewError(constants.ErrCodeInvalidRequest, err)
		}
	}
	if err := h.validator.Check(request); err != nil {
		return err
	}

	ctx := c.UserContext()
	err := h.dashboard.UpdateLeadStatus(ctx, request.ID, request.Status)

	event := publishers.NewActionEvent(publishers.ActionUpdateLeadStatus, request.ID, err)
	event.Status = request.Status
	h.audit(ctx, event)

	return h.respond(c, true, err)
}

// UpgradeRequired rejects plain HTTP requests to the websocket route.
func (h *Handler) UpgradeRequired(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return c.Next()
}

func (h *Handler) HandleWebSocket(conn *websocket.Conn) {
	h.hub.Serve(conn)
}

func (h *Handler) parse(c *fiber.Ctx, request any) error {
	if err := c.ParamsParser(request); err != nil {
		return view.NewError(constants.ErrCodeInvalidRequest, err)
	}

	return h.validator.Check(request)
}

// respond treats a superseded load as success: the newer load owns the element.
func (h *Handler) respond(c *fiber.Ctx, performed bool, err error) error {
	if err != nil && !errors.Is(err, view.ErrSuperseded) {
		return err
	}

	doc := h.dashboard.Document()
	return c.JSON(ActionResponse{
		Success:   true,
		Performed: performed,
		Section:   string(h.dashboard.Section()),
		Version:   doc.Version(),
		Elements:  doc.Snapshot(),
	})
}

func (h *Handler) audit(ctx context.Context, event publishers.ActionEvent) {
	outcome := metrics.OutcomeSuccess
	if !event.Success {
		outcome = metrics.OutcomeFailed
	}
	if h.metrics != nil {
		h.metrics.RecordAction(event.Action, outcome)
	}

	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.Warn("Action audit event not published",
			zap.String("eventID", event.EventID), zap.Error(err))
	}
}
