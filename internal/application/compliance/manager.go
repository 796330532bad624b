package compliance

import (
	"sync"

	"github.com/meridiancs/engage/internal/infrastructure/monitoring/logging"
	"github.com/meridiancs/engage/internal/infrastructure/monitoring/prometheus"
	"github.com/meridiancs/engage/internal/infrastructure/redis"
)

// Manager pools trackers per view so that repeated requests for the same
// engagement/company/service combination share one collection and one
// generation counter.
type Manager struct {
	fetcher Fetcher
	guard   redis.TransitionGuard
	clock   Clock
	logger  logging.Logger
	metrics *prometheus.AppMetrics

	mu       sync.Mutex
	trackers map[ViewParams]*Tracker
}

// NewManager builds a manager sharing the given dependencies across all
// trackers it creates.
func NewManager(fetcher Fetcher, guard redis.TransitionGuard, clock Clock, logger logging.Logger, metrics *prometheus.AppMetrics) *Manager {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Manager{
		fetcher:  fetcher,
		guard:    guard,
		clock:    clock,
		logger:   logger,
		metrics:  metrics,
		trackers: make(map[ViewParams]*Tracker),
	}
}

// Tracker returns the tracker for the given view, creating it on first use.
func (m *Manager) Tracker(params ViewParams) *Tracker {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.trackers[params]; ok {
		return t
	}
	t := NewTracker(params, m.fetcher, m.guard, m.clock, m.logger, m.metrics)
	m.trackers[params] = t
	return t
}
