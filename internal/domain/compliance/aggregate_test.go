package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func statusFixture() []Item {
	return []Item{
		{ID: "1", LifecycleStatus: StatusOverdue},
		{ID: "2", LifecycleStatus: StatusUpcoming},
		{ID: "3", LifecycleStatus: StatusDueToday},
		{ID: "4", LifecycleStatus: StatusUpcoming},
		{ID: "5", LifecycleStatus: StatusFiled},
		{ID: "6", LifecycleStatus: StatusOverdue},
	}
}

func TestCountByStatus(t *testing.T) {
	counts := CountByStatus(statusFixture())

	assert.Equal(t, 2, counts.Overdue)
	assert.Equal(t, 1, counts.DueToday)
	assert.Equal(t, 2, counts.Upcoming)
	assert.Equal(t, 1, counts.Filed)
	assert.Equal(t, 6, counts.Total())
}

func TestCountByStatus_Empty(t *testing.T) {
	assert.Equal(t, StatusCounts{}, CountByStatus(nil))
	assert.Zero(t, StatusCounts{}.Total())
}

func TestParseStatusFilter(t *testing.T) {
	for _, raw := range []string{"", "all", "overdue", "due_today", "upcoming", "filed"} {
		_, ok := ParseStatusFilter(raw)
		assert.True(t, ok, "raw %q", raw)
	}

	_, ok := ParseStatusFilter("done")
	assert.False(t, ok)
	_, ok = ParseStatusFilter("OVERDUE")
	assert.False(t, ok)
}

func TestApplyStatusFilter(t *testing.T) {
	items := statusFixture()

	all := ApplyStatusFilter(items, FilterAll)
	assert.Equal(t, items, all)

	overdue := ApplyStatusFilter(items, StatusFilter(StatusOverdue))
	assert.Len(t, overdue, 2)
	assert.Equal(t, "1", overdue[0].ID)
	assert.Equal(t, "6", overdue[1].ID, "input order is preserved")
}

func TestApplyStatusFilter_ConsistentWithCounts(t *testing.T) {
	// Each status bucket's filtered length matches its count, and the buckets
	// partition the full set.
	items := statusFixture()
	counts := CountByStatus(items)

	total := 0
	for _, s := range []LifecycleStatus{StatusOverdue, StatusDueToday, StatusUpcoming, StatusFiled} {
		subset := ApplyStatusFilter(items, StatusFilter(s))
		assert.Len(t, subset, counts.ByStatus(s))
		total += len(subset)
	}
	assert.Equal(t, len(items), total)
}
