package publishers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/javivarba/chatbots/pkg/mq"
	"go.uber.org/zap"
)

const DefaultActionQueue = "dashboard.actions"

const (
	ActionConfirmAppointment = "confirm_appointment"
	ActionCancelAppointment  = "cancel_appointment"
	ActionUpdateLeadStatus   = "update_lead_status"
)

// ActionEvent is the audit record of one operator action.
type ActionEvent struct {
	EventID    string    `json:"event_id"`
	Action     string    `json:"action"`
	TargetID   int64     `json:"target_id"`
	Status     string    `json:"status,omitempty"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewActionEvent(action string, targetID int64, err error) ActionEvent {
	event := ActionEvent{
		EventID:    uuid.NewString(),
		Action:     action,
		TargetID:   targetID,
		Success:    err == nil,
		OccurredAt: time.Now().UTC(),
	}
	if err != nil {
		event.Error = err.Error()
	}

	return event
}

type ActionPublisher interface {
	Publish(ctx context.Context, event ActionEvent) error
}

type actionPublisher struct {
	publisher mq.Publisher
	queue     string
	logger    *zap.Logger
}

func NewActionPublisher(cfg mq.Config, publisher mq.Publisher, logger *zap.Logger) ActionPublisher {
	queue := cfg.Queue
	if queue == "" {
		queue = DefaultActionQueue
	}

	return &actionPublisher{publisher: publisher, queue: queue, logger: logger}
}

func (a *actionPublisher) Publish(ctx context.Context, event ActionEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode action event: %w", err)
	}

	if err := a.publisher.Publish(ctx, "", a.queue, body); err != nil {
		a.logger.Error("Failed to publish action event",
			zap.String("eventID", event.EventID),
			zap.String("action", event.Action),
			zap.Error(err))
		return err
	}

	a.logger.Debug("Action event published",
		zap.String("eventID", event.EventID),
		zap.String("action", event.Action),
		zap.Int64("targetID", event.TargetID))

	return nil
}
