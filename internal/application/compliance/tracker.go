// Package compliance holds the application services that drive the
// compliance calendar: the per-view Tracker that owns fetch, refresh and
// transition orchestration, and the Manager that pools trackers across views.
package compliance

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	domain "github.com/meridiancs/engage/internal/domain/compliance"
	"github.com/meridiancs/engage/internal/infrastructure/monitoring/logging"
	"github.com/meridiancs/engage/internal/infrastructure/monitoring/prometheus"
	"github.com/meridiancs/engage/internal/infrastructure/redis"
	"github.com/meridiancs/engage/pkg/errors"
)

// Fetcher is the upstream surface the tracker depends on.  Implemented by
// the practice-management API client; tests substitute fakes.
type Fetcher interface {
	EngagementObligations(ctx context.Context, engagementID, companyID string) ([]domain.RawEngagementObligation, error)
	CalendarEntries(ctx context.Context, companyID string) ([]domain.RawCalendarEntry, error)
	UpdateObligationStatus(ctx context.Context, engagementID, obligationID string, status domain.UpstreamStatus) error
}

// ViewParams identifies one compliance calendar view: the engagement being
// looked at, the company whose calendar is merged in, and the active service
// tab that scopes the category filter.
type ViewParams struct {
	EngagementID string
	CompanyID    string
	ServiceName  string
}

// Snapshot is a point-in-time copy of a tracker's observable state, safe to
// serialize without further locking.
type Snapshot struct {
	Items        []domain.Item       `json:"items"`
	Counts       domain.StatusCounts `json:"counts"`
	Loading      bool                `json:"loading"`
	ErrorMessage string              `json:"error_message,omitempty"`
	Updating     []string            `json:"updating,omitempty"`
}

// Tracker owns the compliance item collection for a single view.  All reads
// go through Snapshot; all writes happen on Refresh and MarkActioned.
//
// Concurrency follows last-request-wins: every Refresh bumps a generation
// counter, and a fetch that completes after a newer fetch started discards
// its result instead of overwriting fresher data.
type Tracker struct {
	params  ViewParams
	fetcher Fetcher
	guard   redis.TransitionGuard
	clock   Clock
	logger  logging.Logger
	metrics *prometheus.AppMetrics

	mu         sync.Mutex
	generation uint64
	loading    bool
	errMsg     string
	items      []domain.Item
	counts     domain.StatusCounts
	updating   map[string]bool
}

// NewTracker builds a tracker for one view.  guard, clock, logger and metrics
// may be nil; sane defaults are substituted.
func NewTracker(params ViewParams, fetcher Fetcher, guard redis.TransitionGuard, clock Clock, logger logging.Logger, metrics *prometheus.AppMetrics) *Tracker {
	if guard == nil {
		guard = redis.NewLocalTransitionGuard()
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Tracker{
		params:   params,
		fetcher:  fetcher,
		guard:    guard,
		clock:    clock,
		logger:   logger.With(logging.String("engagement_id", params.EngagementID)),
		metrics:  metrics,
		updating: make(map[string]bool),
	}
}

// Refresh refetches both sources, renormalizes, and replaces the collection
// wholesale.  On any fetch failure the collection is emptied and the error
// message retained; partial data from one healthy source is never shown.
func (t *Tracker) Refresh(ctx context.Context) error {
	t.mu.Lock()
	t.generation++
	gen := t.generation
	t.loading = true
	t.mu.Unlock()

	start := time.Now()
	obligations, entries, err := t.fetch(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()

	if gen != t.generation {
		// A newer refresh started while this one was in flight.
		t.logger.Debug("dropping stale refresh result")
		if t.metrics != nil {
			t.metrics.StaleRefreshDropped()
		}
		return nil
	}
	t.loading = false

	if err != nil {
		t.items = nil
		t.counts = domain.StatusCounts{}
		t.errMsg = err.Error()
		t.logger.Warn("compliance refresh failed", logging.Err(err))
		if t.metrics != nil {
			t.metrics.RefreshCompleted("error", time.Since(start))
		}
		return err
	}

	all := domain.Normalize(obligations, entries, t.clock.Now())
	t.items = domain.FilterByCategory(all, t.params.ServiceName)
	t.counts = domain.CountByStatus(t.items)
	t.errMsg = ""

	t.logger.Info("compliance refresh completed",
		logging.Int("items", len(t.items)),
		logging.Int("overdue", t.counts.Overdue),
	)
	if t.metrics != nil {
		t.metrics.RefreshCompleted("success", time.Since(start))
		t.metrics.SetItemCount(string(domain.StatusOverdue), t.counts.Overdue)
		t.metrics.SetItemCount(string(domain.StatusDueToday), t.counts.DueToday)
		t.metrics.SetItemCount(string(domain.StatusUpcoming), t.counts.Upcoming)
		t.metrics.SetItemCount(string(domain.StatusFiled), t.counts.Filed)
	}
	return nil
}

// fetch pulls both sources concurrently.  The calendar source is skipped
// entirely when the view has no company, never treated as an error.
func (t *Tracker) fetch(ctx context.Context) ([]domain.RawEngagementObligation, []domain.RawCalendarEntry, error) {
	var (
		obligations []domain.RawEngagementObligation
		entries     []domain.RawCalendarEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		obligations, err = t.fetcher.EngagementObligations(gctx, t.params.EngagementID, t.params.CompanyID)
		t.observeFetch("engagement", err)
		return err
	})
	if t.params.CompanyID != "" {
		g.Go(func() error {
			var err error
			entries, err = t.fetcher.CalendarEntries(gctx, t.params.CompanyID)
			t.observeFetch("calendar", err)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return obligations, entries, nil
}

func (t *Tracker) observeFetch(source string, err error) {
	if t.metrics == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	t.metrics.SourceFetch(source, outcome)
}

// MarkActioned progresses an obligation to ACTION_TAKEN upstream.
//
// Preconditions failing quietly: an unknown ID, a non-actionable item, an
// ineligible upstream status, or a transition already in flight all return
// nil without side effects.  On upstream success the whole collection is
// refetched so the item's filed status comes from the system of record, not
// a local guess.  On upstream failure the error is returned to the caller
// and the collection is left untouched; the failure is item-local.
func (t *Tracker) MarkActioned(ctx context.Context, obligationID string) error {
	t.mu.Lock()
	item, found := t.findLocked(obligationID)
	if !found {
		t.mu.Unlock()
		t.transition("unknown_id")
		return nil
	}
	if !item.Actionable || !item.UpstreamStatus.CanProgress() {
		t.mu.Unlock()
		t.transition("not_actionable")
		return nil
	}
	if t.updating[obligationID] {
		t.mu.Unlock()
		t.transition("in_flight")
		return nil
	}
	t.updating[obligationID] = true
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		delete(t.updating, obligationID)
		t.mu.Unlock()
	}()

	release, acquired, err := t.guard.Acquire(ctx, obligationID)
	if err != nil {
		t.logger.Warn("transition guard unavailable, proceeding unguarded",
			logging.String("obligation_id", obligationID), logging.Err(err))
	} else if !acquired {
		// Another replica is already pushing this obligation.
		t.transition("in_flight")
		return nil
	} else {
		defer release()
	}

	if err := t.fetcher.UpdateObligationStatus(ctx, t.params.EngagementID, obligationID, domain.UpstreamActionTaken); err != nil {
		t.transition("error")
		t.logger.Warn("obligation transition failed",
			logging.String("obligation_id", obligationID), logging.Err(err))
		return errors.Wrap(err, errors.ErrCodeUnknown, "failed to mark obligation as done")
	}

	t.transition("success")
	t.logger.Info("obligation marked as done", logging.String("obligation_id", obligationID))
	return t.Refresh(ctx)
}

func (t *Tracker) transition(outcome string) {
	if t.metrics != nil {
		t.metrics.Transition(outcome)
	}
}

func (t *Tracker) findLocked(obligationID string) (domain.Item, bool) {
	for _, it := range t.items {
		if it.ID == obligationID {
			return it, true
		}
	}
	return domain.Item{}, false
}

// Snapshot returns a copy of the tracker's state, optionally narrowed by a
// status filter.  Filtering never changes the counts: the chips always
// reflect the full post-category set.
func (t *Tracker) Snapshot(filter domain.StatusFilter) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	filtered := domain.ApplyStatusFilter(t.items, filter)
	items := make([]domain.Item, len(filtered))
	copy(items, filtered)

	var updating []string
	for id := range t.updating {
		updating = append(updating, id)
	}

	return Snapshot{
		Items:        items,
		Counts:       t.counts,
		Loading:      t.loading,
		ErrorMessage: t.errMsg,
		Updating:     updating,
	}
}

// Updating reports whether a transition is currently in flight for the item.
func (t *Tracker) Updating(obligationID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.updating[obligationID]
}
