package metrics

import (
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"
)

const defaultSystemInterval = 15 * time.Second

type probe struct {
	name string
	read func() float64
}

// SystemCollector periodically samples process memory together with the
// dashboard probes registered through Watch, and logs one snapshot line per
// sample.
type SystemCollector struct {
	metrics   *Metrics
	logger    *zap.Logger
	startTime time.Time

	mu      sync.Mutex
	probes  []probe
	started bool

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewSystemCollector(metrics *Metrics, logger *zap.Logger) *SystemCollector {
	return &SystemCollector{
		metrics:   metrics,
		logger:    logger,
		startTime: time.Now(),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Watch adds a probe exported as dashboard_state{probe=name}.
func (sc *SystemCollector) Watch(name string, read func() float64) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	sc.probes = append(sc.probes, probe{name: name, read: read})
}

func (sc *SystemCollector) Start(interval time.Duration) {
	if interval <= 0 {
		interval = defaultSystemInterval
	}

	sc.mu.Lock()
	if sc.started {
		sc.mu.Unlock()
		return
	}
	sc.started = true
	sc.mu.Unlock()

	go sc.loop(interval)
	sc.logger.Info("System collector started", zap.Duration("interval", interval))
}

// Stop waits for the sampling goroutine to exit. It is safe to call twice.
func (sc *SystemCollector) Stop() {
	sc.stopOnce.Do(func() {
		close(sc.stopCh)

		sc.mu.Lock()
		started := sc.started
		sc.mu.Unlock()
		if started {
			<-sc.doneCh
		}
		sc.logger.Info("System collector stopped")
	})
}

func (sc *SystemCollector) loop(interval time.Duration) {
	defer close(sc.doneCh)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sc.Collect()
	for {
		select {
		case <-ticker.C:
			sc.Collect()
		case <-sc.stopCh:
			return
		}
	}
}

// Collect takes one sample immediately.
func (sc *SystemCollector) Collect() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	uptime := time.Since(sc.startTime)
	sc.metrics.UpdateSystemMetrics(uptime, &memStats)

	fields := []zap.Field{
		zap.Duration("uptime", uptime.Truncate(time.Second)),
		zap.Uint64("heapAlloc", memStats.HeapAlloc),
		zap.Int("goroutines", runtime.NumGoroutine()),
	}

	sc.mu.Lock()
	probes := append([]probe(nil), sc.probes...)
	sc.mu.Unlock()

	for _, p := range probes {
		value := p.read()
		sc.metrics.DashboardState.WithLabelValues(p.name).Set(value)
		fields = append(fields, zap.Float64(p.name, value))
	}

	sc.logger.Debug("Dashboard snapshot", fields...)
}
