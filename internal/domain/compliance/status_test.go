package compliance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var today = time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)

func day(offset int) time.Time {
	return today.AddDate(0, 0, offset)
}

func TestDeriveStatus_DateBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		upstream UpstreamStatus
		due      time.Time
		want     LifecycleStatus
	}{
		{"due yesterday is overdue", UpstreamPending, day(-1), StatusOverdue},
		{"due tomorrow is upcoming", UpstreamPending, day(1), StatusUpcoming},
		{"due later today is due_today", UpstreamPending, today.Add(5 * time.Hour), StatusDueToday},
		{"due earlier today is due_today", UpstreamPending, today.Add(-10 * time.Hour), StatusDueToday},
		{"due at midnight today is due_today", UpstreamPending, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), StatusDueToday},
		{"due far in the future is upcoming", UpstreamInProgress, day(90), StatusUpcoming},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.upstream, tt.due, today))
		})
	}
}

func TestDeriveStatus_CompletionOutranksLateness(t *testing.T) {
	// A completed obligation is filed even when its deadline is long past.
	assert.Equal(t, StatusFiled, DeriveStatus(UpstreamCompleted, day(-30), today))
	assert.Equal(t, StatusFiled, DeriveStatus(UpstreamActionTaken, day(-30), today))

	// Even the upstream OVERDUE flag loses to completion states.
	assert.Equal(t, StatusFiled, DeriveStatus(UpstreamCompleted, day(-1), today))

	// Completed today is filed, not due_today.
	assert.Equal(t, StatusFiled, DeriveStatus(UpstreamCompleted, day(0), today))
}

func TestDeriveStatus_UpstreamOverdueFlagIsAuthoritative(t *testing.T) {
	// Upstream already flagged it overdue although the date alone says
	// due_today or upcoming.
	assert.Equal(t, StatusOverdue, DeriveStatus(UpstreamOverdue, day(0), today))
	assert.Equal(t, StatusOverdue, DeriveStatus(UpstreamOverdue, day(5), today))
}

func TestDeriveStatus_Idempotent(t *testing.T) {
	for _, s := range []UpstreamStatus{UpstreamPending, UpstreamOverdue, UpstreamCompleted} {
		for _, d := range []time.Time{day(-2), day(0), day(2)} {
			first := DeriveStatus(s, d, today)
			second := DeriveStatus(s, d, today)
			assert.Equal(t, first, second)
		}
	}
}

func TestCanProgress(t *testing.T) {
	assert.True(t, UpstreamPending.CanProgress())
	assert.True(t, UpstreamInProgress.CanProgress())
	assert.True(t, UpstreamActionRequired.CanProgress())
	assert.True(t, UpstreamOverdue.CanProgress())

	assert.False(t, UpstreamActionTaken.CanProgress())
	assert.False(t, UpstreamCompleted.CanProgress())
	assert.False(t, UpstreamStatus("BOGUS").CanProgress())
}
