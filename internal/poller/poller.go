package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/javivarba/chatbots/internal/metrics"
	"github.com/javivarba/chatbots/internal/view"
	"go.uber.org/zap"
)

const DefaultInterval = 10 * time.Second

type Config struct {
	Enable   bool          `mapstructure:"enable"`
	Interval time.Duration `mapstructure:"interval"`
}

type Refresher interface {
	RefreshData(ctx context.Context) error
}

// Poller refreshes the dashboard on a fixed interval. Every cycle runs on its
// own goroutine and starting a cycle cancels the one before it.
type Poller struct {
	refresher Refresher
	interval  time.Duration
	metrics   *metrics.Metrics
	logger    *zap.Logger

	mu          sync.Mutex
	cancelCycle context.CancelFunc
	cycles      sync.WaitGroup

	cancel context.CancelFunc
	done   chan struct{}
}

func NewPoller(cfg Config, refresher Refresher, m *metrics.Metrics, logger *zap.Logger) *Poller {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Poller{refresher: refresher, interval: interval, metrics: m, logger: logger}
}

func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Start runs a first cycle immediately and then one per tick until Stop.
func (p *Poller) Start() {
	appCtx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})

	go func() {
		defer close(p.done)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		p.Trigger(appCtx)
		for {
			select {
			case <-ticker.C:
				p.Trigger(appCtx)
			case <-appCtx.Done():
				p.logger.Info("poller context cancelled")
				return
			}
		}
	}()

	p.logger.Info("poller started", zap.Duration("interval", p.interval))
}

func (p *Poller) Stop() {
	if p.cancel == nil {
		return
	}

	p.cancel()
	<-p.done
	p.cycles.Wait()
	p.logger.Info("poller stopped")
}

// Trigger starts a cycle in the background, superseding any cycle still running.
func (p *Poller) Trigger(ctx context.Context) {
	cycleCtx, cancel := context.WithCancel(ctx)

	p.mu.Lock()
	if p.cancelCycle != nil {
		p.cancelCycle()
	}
	p.cancelCycle = cancel
	p.cycles.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.cycles.Done()
		defer cancel()
		_ = p.RunCycle(cycleCtx)
	}()
}

// RunCycle refreshes once and records the outcome.
func (p *Poller) RunCycle(ctx context.Context) error {
	start := time.Now()
	err := p.refresher.RefreshData(ctx)
	outcome := Outcome(err)

	switch outcome {
	case metrics.OutcomeFailed:
		p.logger.Error("refresh cycle failed", zap.Error(err))
	case metrics.OutcomeSuperseded:
		p.logger.Debug("refresh cycle superseded", zap.Error(err))
	}

	if p.metrics != nil {
		p.metrics.RecordRefreshCycle(outcome, time.Since(start))
	}

	return err
}

func Outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, view.ErrSuperseded), errors.Is(err, context.Canceled):
		return metrics.OutcomeSuperseded
	default:
		return metrics.OutcomeFailed
	}
}
