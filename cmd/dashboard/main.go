package main

import (
	"context"

	playground "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/javivarba/chatbots/internal/api"
	"github.com/javivarba/chatbots/internal/api/v1"
	"github.com/javivarba/chatbots/internal/api/validator"
	"github.com/javivarba/chatbots/internal/config"
	"github.com/javivarba/chatbots/internal/metrics"
	"github.com/javivarba/chatbots/internal/poller"
	"github.com/javivarba/chatbots/internal/publishers"
	"github.com/javivarba/chatbots/internal/push"
	"github.com/javivarba/chatbots/internal/view"
	"github.com/javivarba/chatbots/pkg/dashboardapi"
	"github.com/javivarba/chatbots/pkg/httpclient"
	"github.com/javivarba/chatbots/pkg/mq"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,
			metrics.NewMetrics,
			metrics.NewSystemCollector,

			NewHTTPClient,
			NewDashboardClient,

			view.NewDocument,
			NewFormatter,
			view.NewRenderer,
			view.NewDashboard,
			push.NewHub,

			NewMQConnection,
			NewMQPublisher,
			NewActionPublisher,

			playground.New,
			validator.NewXValidator,
			v1.NewPage,
			NewHandler,
			api.NewApp,

			NewPoller,
		),
		fx.Invoke(runSystemCollector, runHub, startServer, runPoller),
	).Run()
}

func NewHTTPClient(cfg *config.Config, m *metrics.Metrics) httpclient.HTTPClient {
	client := httpclient.NewHTTPClient(cfg.DashboardAPI.Timeout, httpclient.WithDefaultHeader("User-Agent", "leads-dashboard"))
	return metrics.InstrumentHTTPClient(client, m)
}

func NewDashboardClient(cfg *config.Config, client httpclient.HTTPClient) dashboardapi.Client {
	return dashboardapi.NewClient(cfg.DashboardAPI, client)
}

func NewFormatter(cfg *config.Config) (view.Formatter, error) {
	loc, err := cfg.Display.TimeLocation()
	if err != nil {
		return view.Formatter{}, err
	}

	return view.NewFormatter(loc), nil
}

func NewHandler(logger *zap.Logger, dashboard *view.Dashboard, page *v1.Page, hub *push.Hub,
	validator validator.IXValidator, publisher publishers.ActionPublisher, m *metrics.Metrics) *v1.Handler {
	return v1.NewHandler(logger, dashboard, page, hub, validator, publisher, m)
}

func NewPoller(cfg *config.Config, dashboard *view.Dashboard, m *metrics.Metrics, logger *zap.Logger) *poller.Poller {
	return poller.NewPoller(cfg.Poller, dashboard, m, logger)
}

func NewActionPublisher(cfg *config.Config, publisher mq.Publisher, logger *zap.Logger) publishers.ActionPublisher {
	return publishers.NewActionPublisher(cfg.RabbitMQ, publisher, logger)
}

// NewMQConnection dials RabbitMQ when enabled and returns nil otherwise.
func NewMQConnection(cfg *config.Config, logger *zap.Logger, lc fx.Lifecycle) (*mq.RabbitMQ, error) {
	if !cfg.RabbitMQ.Enable {
		logger.Info("rabbitmq disabled, action events will not be published")
		return nil, nil
	}

	rabbit, err := mq.NewConnection(cfg.RabbitMQ, logger)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info("closing rabbitmq connection")
			return rabbit.Close()
		},
	})

	return rabbit, nil
}

// NewMQPublisher declares the action queue and opens a publisher on it. A
// disabled broker gets a publisher that drops every event.
func NewMQPublisher(cfg *config.Config, rabbit *mq.RabbitMQ, logger *zap.Logger, lc fx.Lifecycle) (mq.Publisher, error) {
	if rabbit == nil {
		return mq.NopPublisher{}, nil
	}

	queue := cfg.RabbitMQ.Queue
	if queue == "" {
		queue = publishers.DefaultActionQueue
	}
	if err := rabbit.DeclareQueue(queue); err != nil {
		logger.Error("declare action queue failed", zap.Error(err))
		return nil, err
	}

	publisher, err := rabbit.CreatePublisher()
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return publisher.Close()
		},
	})

	return publisher, nil
}

func runSystemCollector(cfg *config.Config, collector *metrics.SystemCollector, doc *view.Document,
	hub *push.Hub, rabbit *mq.RabbitMQ, lc fx.Lifecycle) {
	collector.Watch("document_version", func() float64 { return float64(doc.Version()) })
	collector.Watch("push_clients", func() float64 { return float64(hub.Clients()) })
	if rabbit != nil {
		collector.Watch("rabbitmq_connected", func() float64 {
			if rabbit.Connected() {
				return 1
			}
			return 0
		})
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			collector.Start(cfg.Metrics.SystemInterval)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			collector.Stop()
			return nil
		},
	})
}

func runHub(hub *push.Hub, logger *zap.Logger, lc fx.Lifecycle) {
	appCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go hub.Run(appCtx)
			logger.Info("push hub started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			return nil
		},
	})
}

func startServer(app *fiber.App, handler *v1.Handler, m *metrics.Metrics, cfg *config.Config,
	logger *zap.Logger, lc fx.Lifecycle) {
	api.SetupRoutes(app, handler, m)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := app.Listen(cfg.API.Port); err != nil {
					logger.Error("http server stopped", zap.Error(err))
				}
			}()
			logger.Info("http server started", zap.String("port", cfg.API.Port))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})
}

func runPoller(cfg *config.Config, p *poller.Poller, logger *zap.Logger, lc fx.Lifecycle) {
	if !cfg.Poller.Enable {
		logger.Info("poller disabled")
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Stop()
			return nil
		},
	})
}
