package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Check probes one dependency; a nil error means reachable.
type Check struct {
	Name    string
	Probe   func(ctx context.Context) error
	Timeout time.Duration
}

// Monitor periodically probes dependencies and caches the result for /health.
type Monitor struct {
	checks   []Check
	interval time.Duration
	logger   *zap.Logger
	cron     *cron.Cron

	mu     sync.RWMutex
	status Status
}

func New(interval time.Duration, logger *zap.Logger, checks ...Check) *Monitor {
	if interval < time.Second {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Monitor{
		checks:   checks,
		interval: interval,
		logger:   logger,
		cron:     cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(interval.Seconds()))
	if _, err := m.cron.AddFunc(schedule, m.Refresh); err != nil {
		logger.Error("invalid monitor schedule", zap.String("schedule", schedule), zap.Error(err))
	}
	return m
}

// Start runs one check round immediately and then follows the schedule.
func (m *Monitor) Start() {
	m.Refresh()
	m.cron.Start()
}

// Stop halts the schedule and waits for a running round to finish.
func (m *Monitor) Stop(ctx context.Context) {
	stopCtx := m.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
}

func (m *Monitor) IsOnline() bool {
	return m.GetStatus().Healthy()
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	services := make(map[string]bool, len(m.status.Services))
	for k, v := range m.status.Services {
		services[k] = v
	}
	return Status{Services: services, LastCheck: m.status.LastCheck}
}

// Refresh probes every dependency once.
func (m *Monitor) Refresh() {
	services := make(map[string]bool, len(m.checks))
	for _, c := range m.checks {
		services[c.Name] = m.probe(c)
	}

	m.mu.Lock()
	m.status = Status{Services: services, LastCheck: time.Now().UTC()}
	m.mu.Unlock()
}

func (m *Monitor) probe(c Check) bool {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := c.Probe(ctx); err != nil {
		m.logger.Warn("dependency check failed", zap.String("service", c.Name), zap.Error(err))
		return false
	}
	return true
}
