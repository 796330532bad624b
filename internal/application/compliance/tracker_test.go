package compliance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/meridiancs/engage/internal/domain/compliance"
)

var today = time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)

func day(offset int) time.Time {
	return today.AddDate(0, 0, offset)
}

// fakeFetcher is an in-memory stand-in for the practice-management API.
type fakeFetcher struct {
	mu            sync.Mutex
	obligations   []domain.RawEngagementObligation
	entries       []domain.RawCalendarEntry
	fetchErr      error
	updateErr     error
	updated       []string
	calendarCalls int

	// When set, the next EngagementObligations call signals entered and then
	// blocks until release is closed.  Used to interleave refreshes.
	entered chan struct{}
	release chan struct{}
}

func (f *fakeFetcher) EngagementObligations(_ context.Context, _, _ string) ([]domain.RawEngagementObligation, error) {
	f.mu.Lock()
	entered, release := f.entered, f.release
	f.entered, f.release = nil, nil
	err := f.fetchErr
	out := append([]domain.RawEngagementObligation(nil), f.obligations...)
	f.mu.Unlock()

	if entered != nil {
		close(entered)
		<-release
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (f *fakeFetcher) CalendarEntries(_ context.Context, _ string) ([]domain.RawCalendarEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calendarCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return append([]domain.RawCalendarEntry(nil), f.entries...), nil
}

func (f *fakeFetcher) UpdateObligationStatus(_ context.Context, _, obligationID string, status domain.UpstreamStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = append(f.updated, obligationID)
	for i := range f.obligations {
		if f.obligations[i].ID == obligationID {
			f.obligations[i].Status = status
		}
	}
	return nil
}

func (f *fakeFetcher) setObligations(obs ...domain.RawEngagementObligation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.obligations = obs
}

func newTestTracker(params ViewParams, f *fakeFetcher) *Tracker {
	return NewTracker(params, f, nil, FixedClock{T: today}, nil, nil)
}

func TestTracker_RefreshMergesBothSources(t *testing.T) {
	f := &fakeFetcher{
		obligations: []domain.RawEngagementObligation{
			{ID: "ob-1", Deadline: day(-1), Status: domain.UpstreamActionRequired, Service: "VAT"},
			{ID: "ob-2", Deadline: day(0), Status: domain.UpstreamPending, Service: "VAT"},
		},
		entries: []domain.RawCalendarEntry{
			{ID: "cal-1", DueDate: day(5), ServiceCategory: "VAT"},
		},
	}
	tr := newTestTracker(ViewParams{EngagementID: "eng-1", CompanyID: "co-1", ServiceName: "VAT"}, f)

	require.NoError(t, tr.Refresh(context.Background()))
	snap := tr.Snapshot(domain.FilterAll)

	require.Len(t, snap.Items, 3)
	assert.Equal(t, "ob-1", snap.Items[0].ID)
	assert.Equal(t, "cal-1", snap.Items[2].ID, "calendar entries come after engagement obligations")
	assert.Equal(t, domain.StatusCounts{Overdue: 1, DueToday: 1, Upcoming: 1}, snap.Counts)
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.ErrorMessage)
}

func TestTracker_RefreshSkipsCalendarWithoutCompany(t *testing.T) {
	f := &fakeFetcher{
		obligations: []domain.RawEngagementObligation{
			{ID: "ob-1", Deadline: day(1), Status: domain.UpstreamPending, Service: "VAT"},
		},
	}
	tr := newTestTracker(ViewParams{EngagementID: "eng-1", ServiceName: "VAT"}, f)

	require.NoError(t, tr.Refresh(context.Background()))

	assert.Equal(t, 0, f.calendarCalls, "no company means no calendar fetch")
	assert.Len(t, tr.Snapshot(domain.FilterAll).Items, 1)
}

func TestTracker_RefreshAppliesCategoryFilterBeforeCounting(t *testing.T) {
	f := &fakeFetcher{
		obligations: []domain.RawEngagementObligation{
			{ID: "ob-1", Deadline: day(-1), Status: domain.UpstreamPending, Service: "VAT"},
			{ID: "ob-2", Deadline: day(-1), Status: domain.UpstreamPending, Service: "Payroll"},
		},
	}
	tr := newTestTracker(ViewParams{EngagementID: "eng-1", ServiceName: "VAT"}, f)

	require.NoError(t, tr.Refresh(context.Background()))
	snap := tr.Snapshot(domain.FilterAll)

	require.Len(t, snap.Items, 1, "payroll obligation is outside the VAT tab")
	assert.Equal(t, 1, snap.Counts.Overdue, "counts reflect the filtered set only")
	assert.Equal(t, 1, snap.Counts.Total())
}

func TestTracker_RefreshFailureEmptiesCollection(t *testing.T) {
	f := &fakeFetcher{
		obligations: []domain.RawEngagementObligation{
			{ID: "ob-1", Deadline: day(1), Status: domain.UpstreamPending, Service: "VAT"},
		},
	}
	tr := newTestTracker(ViewParams{EngagementID: "eng-1", ServiceName: "VAT"}, f)
	require.NoError(t, tr.Refresh(context.Background()))
	require.Len(t, tr.Snapshot(domain.FilterAll).Items, 1)

	f.mu.Lock()
	f.fetchErr = errors.New("upstream exploded")
	f.mu.Unlock()

	err := tr.Refresh(context.Background())
	require.Error(t, err)

	snap := tr.Snapshot(domain.FilterAll)
	assert.Empty(t, snap.Items, "stale data from the previous fetch is never shown")
	assert.Equal(t, domain.StatusCounts{}, snap.Counts)
	assert.Contains(t, snap.ErrorMessage, "upstream exploded")
}

func TestTracker_LastRequestWins(t *testing.T) {
	f := &fakeFetcher{
		obligations: []domain.RawEngagementObligation{
			{ID: "old", Deadline: day(1), Status: domain.UpstreamPending, Service: "VAT"},
		},
	}
	tr := newTestTracker(ViewParams{EngagementID: "eng-1", ServiceName: "VAT"}, f)

	entered := make(chan struct{})
	release := make(chan struct{})
	f.mu.Lock()
	f.entered, f.release = entered, release
	f.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- tr.Refresh(context.Background()) }()
	<-entered

	// A second refresh starts and finishes while the first is still in
	// flight; it sees the new data.
	f.setObligations(domain.RawEngagementObligation{ID: "new", Deadline: day(2), Status: domain.UpstreamPending, Service: "VAT"})
	require.NoError(t, tr.Refresh(context.Background()))

	close(release)
	require.NoError(t, <-done)

	snap := tr.Snapshot(domain.FilterAll)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "new", snap.Items[0].ID, "the stale first result must not overwrite the newer one")
	assert.False(t, snap.Loading)
}

func TestTracker_MarkActionedSuccessRefetches(t *testing.T) {
	f := &fakeFetcher{
		obligations: []domain.RawEngagementObligation{
			{ID: "ob-1", Deadline: day(-3), Status: domain.UpstreamOverdue, Service: "VAT"},
		},
	}
	tr := newTestTracker(ViewParams{EngagementID: "eng-1", ServiceName: "VAT"}, f)
	require.NoError(t, tr.Refresh(context.Background()))

	require.NoError(t, tr.MarkActioned(context.Background(), "ob-1"))

	assert.Equal(t, []string{"ob-1"}, f.updated)
	snap := tr.Snapshot(domain.FilterAll)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, domain.StatusFiled, snap.Items[0].LifecycleStatus,
		"after the refetch the actioned obligation is filed despite its past deadline")
	assert.False(t, tr.Updating("ob-1"))
}

func TestTracker_MarkActionedFailureIsItemLocal(t *testing.T) {
	f := &fakeFetcher{
		obligations: []domain.RawEngagementObligation{
			{ID: "ob-1", Deadline: day(1), Status: domain.UpstreamActionRequired, Service: "VAT"},
		},
	}
	tr := newTestTracker(ViewParams{EngagementID: "eng-1", ServiceName: "VAT"}, f)
	require.NoError(t, tr.Refresh(context.Background()))

	f.mu.Lock()
	f.updateErr = errors.New("transition rejected")
	f.mu.Unlock()

	err := tr.MarkActioned(context.Background(), "ob-1")
	require.Error(t, err)

	snap := tr.Snapshot(domain.FilterAll)
	require.Len(t, snap.Items, 1, "a failed transition leaves the collection untouched")
	assert.Equal(t, domain.StatusUpcoming, snap.Items[0].LifecycleStatus)
	assert.Empty(t, snap.ErrorMessage, "transition failures never become a collection-wide error")
	assert.False(t, tr.Updating("ob-1"))
}

func TestTracker_MarkActionedPreconditionsAreNoOps(t *testing.T) {
	f := &fakeFetcher{
		obligations: []domain.RawEngagementObligation{
			{ID: "done", Deadline: day(1), Status: domain.UpstreamCompleted, Service: "VAT"},
		},
		entries: []domain.RawCalendarEntry{
			{ID: "cal-1", DueDate: day(1), ServiceCategory: "VAT"},
		},
	}
	tr := newTestTracker(ViewParams{EngagementID: "eng-1", CompanyID: "co-1", ServiceName: "VAT"}, f)
	require.NoError(t, tr.Refresh(context.Background()))

	assert.NoError(t, tr.MarkActioned(context.Background(), "missing"), "unknown ID is a no-op")
	assert.NoError(t, tr.MarkActioned(context.Background(), "done"), "completed obligations are terminal")
	assert.NoError(t, tr.MarkActioned(context.Background(), "cal-1"), "calendar entries are not actionable")

	assert.Empty(t, f.updated, "no precondition miss may reach upstream")
	assert.False(t, tr.Updating("cal-1"), "a no-op never flips the updating mark")
}

func TestManager_PoolsTrackersPerView(t *testing.T) {
	f := &fakeFetcher{}
	m := NewManager(f, nil, FixedClock{T: today}, nil, nil)

	a := m.Tracker(ViewParams{EngagementID: "eng-1", ServiceName: "VAT"})
	b := m.Tracker(ViewParams{EngagementID: "eng-1", ServiceName: "VAT"})
	c := m.Tracker(ViewParams{EngagementID: "eng-1", ServiceName: "Payroll"})

	assert.Same(t, a, b, "identical views share one tracker")
	assert.NotSame(t, a, c, "a different service tab is a different view")
}
