package mq

import (
	"context"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Publisher interface {
	Publish(ctx context.Context, exchange string, routingKey string, body []byte) error
	Close() error
}

// RabbitPublisher serialises publishes because an amqp channel is not safe
// for concurrent use.
type RabbitPublisher struct {
	mu sync.Mutex
	ch *amqp.Channel
}

func NewRabbitPublisher(ch *amqp.Channel) Publisher { return &RabbitPublisher{ch: ch} }

func (r *RabbitPublisher) Publish(ctx context.Context, exchange string, routingKey string, body []byte) error {
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.ch.PublishWithContext(ctx, exchange, routingKey, false, false, msg)
}

func (r *RabbitPublisher) Close() error {
	if r.ch != nil {
		return r.ch.Close()
	}

	return nil
}

// NopPublisher drops every message. It stands in when the broker is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, string, []byte) error { return nil }

func (NopPublisher) Close() error { return nil }
