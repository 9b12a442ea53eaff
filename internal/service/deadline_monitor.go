package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/escolar-mx/secundaria-api/internal/models"
	"github.com/escolar-mx/secundaria-api/internal/store"
	"github.com/escolar-mx/secundaria-api/pkg/clock"
)

// DeadlineMonitor periodically closes every open period whose deadline has
// passed on the civil clock. It is the only automatic state transition in
// the system. Sweeps are idempotent and convergent: redundant closures from
// concurrently running clients are no-ops, and a sweep that closed nothing
// writes nothing.
type DeadlineMonitor struct {
	store    *store.Store
	clock    clock.Clock
	interval time.Duration
	logger   *zap.Logger
	metrics  *MetricsService

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// NewDeadlineMonitor creates a monitor; interval defaults to 10 seconds.
func NewDeadlineMonitor(st *store.Store, clk clock.Clock, interval time.Duration, logger *zap.Logger, metrics *MetricsService) *DeadlineMonitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeadlineMonitor{
		store:    st,
		clock:    clk,
		interval: interval,
		logger:   logger,
		metrics:  metrics,
	}
}

// Start launches the ticking loop. Safe to call once.
func (m *DeadlineMonitor) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return
	}
	ctx, m.cancel = context.WithCancel(ctx)
	m.running = true
	m.wg.Add(1)
	go m.loop(ctx)
	m.logger.Info("deadline monitor started", zap.Duration("interval", m.interval))
}

// Stop cancels the loop and waits for it to exit.
func (m *DeadlineMonitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.cancel()
	m.running = false
	m.mu.Unlock()
	m.wg.Wait()
	m.logger.Info("deadline monitor stopped")
}

func (m *DeadlineMonitor) loop(ctx context.Context) {
	defer m.wg.Done()
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// Sweep runs one monitor pass and returns how many periods it closed. A
// failed persistence write is not handled here: the next sweep recomputes
// the same closures and commits again.
func (m *DeadlineMonitor) Sweep() int {
	now := m.clock.Now()

	// Cheap read-only probe so idle ticks never produce a write.
	if len(expiredPeriods(m.store.Snapshot().Periods, now)) == 0 {
		m.metrics.ObserveMonitorTick(0)
		return 0
	}

	var closed []models.PeriodID
	m.store.Update(func(state models.SchoolState) (models.SchoolState, bool) {
		closed = expiredPeriods(state.Periods, now)
		if len(closed) == 0 {
			return state, false
		}
		for _, id := range closed {
			state.Periods[id] = models.PeriodState{Open: false}
		}
		return state, true
	})

	for _, id := range closed {
		m.logger.Info("period closed by deadline", zap.String("period", string(id)))
	}
	m.metrics.ObserveMonitorTick(len(closed))
	return len(closed)
}

// expiredPeriods lists open periods whose deadline is at or before now.
func expiredPeriods(states models.PeriodStateMap, now time.Time) []models.PeriodID {
	var expired []models.PeriodID
	for _, p := range models.AllPeriods() {
		st := states[p.ID]
		if st.Open && st.Deadline != nil && !now.Before(*st.Deadline) {
			expired = append(expired, p.ID)
		}
	}
	return expired
}
