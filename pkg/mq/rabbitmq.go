package mq

import (
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const defaultHeartbeat = 10 * time.Second

type Config struct {
	Enable         bool          `mapstructure:"enable"`
	URL            string        `mapstructure:"url"`
	Queue          string        `mapstructure:"queue"`
	ConnectionName string        `mapstructure:"connection_name"`
	Heartbeat      time.Duration `mapstructure:"heartbeat"`
	// MessageTTL bounds how long unconsumed events stay queued. Zero keeps
	// them until consumed.
	MessageTTL time.Duration `mapstructure:"message_ttl"`
}

var ErrConnectionClosed = errors.New("rabbitmq connection is closed")

// RabbitMQ owns the broker connection. A lost connection is logged and not
// redialled; publishes fail until the process restarts.
type RabbitMQ struct {
	conn   *amqp.Connection
	cfg    Config
	logger *zap.Logger
}

func NewConnection(cfg Config, logger *zap.Logger) (*RabbitMQ, error) {
	heartbeat := cfg.Heartbeat
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}

	props := amqp.NewConnectionProperties()
	if cfg.ConnectionName != "" {
		props.SetClientConnectionName(cfg.ConnectionName)
	}

	conn, err := amqp.DialConfig(cfg.URL, amqp.Config{Heartbeat: heartbeat, Properties: props})
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ", zap.Error(err))
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	r := &RabbitMQ{conn: conn, cfg: cfg, logger: logger}
	go r.watch(conn.NotifyClose(make(chan *amqp.Error, 1)))

	logger.Info("Connected to RabbitMQ", zap.String("connection", cfg.ConnectionName))
	return r, nil
}

func (r *RabbitMQ) watch(closed <-chan *amqp.Error) {
	if err, ok := <-closed; ok && err != nil {
		r.logger.Warn("RabbitMQ connection lost, action events will not be published",
			zap.Int("code", err.Code), zap.String("reason", err.Reason))
	}
}

// Connected reports whether the broker connection is still open.
func (r *RabbitMQ) Connected() bool {
	return r.conn != nil && !r.conn.IsClosed()
}

func (r *RabbitMQ) OpenChannel() (*amqp.Channel, error) {
	if !r.Connected() {
		return nil, ErrConnectionClosed
	}

	ch, err := r.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	return ch, nil
}

// DeclareQueue declares the durable queue events are published to.
func (r *RabbitMQ) DeclareQueue(name string) error {
	ch, err := r.OpenChannel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(name, true, false, false, false, QueueArgs(r.cfg)); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", name, err)
	}

	r.logger.Info("Queue declared", zap.String("queue", name), zap.Duration("messageTTL", r.cfg.MessageTTL))
	return nil
}

// QueueArgs returns the x-arguments for the event queue, nil when none apply.
func QueueArgs(cfg Config) amqp.Table {
	if cfg.MessageTTL <= 0 {
		return nil
	}

	return amqp.Table{"x-message-ttl": cfg.MessageTTL.Milliseconds()}
}

func (r *RabbitMQ) CreatePublisher() (Publisher, error) {
	ch, err := r.OpenChannel()
	if err != nil {
		return nil, err
	}

	return NewRabbitPublisher(ch), nil
}

func (r *RabbitMQ) Close() error {
	if r.Connected() {
		return r.conn.Close()
	}

	return nil
}
