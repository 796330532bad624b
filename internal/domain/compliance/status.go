package compliance

import "time"

// LifecycleStatus is the derived, date-aware state of an obligation as shown
// on the dashboard.  It is recomputed from its inputs on every normalization
// pass and never persisted, so it cannot drift from the upstream status or
// the due date.
type LifecycleStatus string

const (
	StatusFiled    LifecycleStatus = "filed"
	StatusUpcoming LifecycleStatus = "upcoming"
	StatusDueToday LifecycleStatus = "due_today"
	StatusOverdue  LifecycleStatus = "overdue"
)

// startOfDay truncates t to midnight of its calendar day in UTC, using the
// wall-clock date components.  Due-date comparisons are calendar-day
// comparisons, not 24-hour windows.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DeriveStatus computes the lifecycle status of an obligation from its
// upstream workflow status and its due date relative to today.  Evaluation
// order, first match wins:
//
//  1. COMPLETED or ACTION_TAKEN → filed.  Completion outranks lateness: an
//     obligation finished after its deadline is still filed, never overdue.
//  2. upstream OVERDUE or due date before today → overdue.  The upstream
//     flag is authoritative even when the date math alone would not (yet)
//     agree.
//  3. due date on today's calendar day → due_today.
//  4. otherwise → upcoming.
//
// Both dates are truncated to midnight before comparison, so a due date at
// 00:00 today is due_today, not overdue.
func DeriveStatus(upstream UpstreamStatus, dueDate, today time.Time) LifecycleStatus {
	due := startOfDay(dueDate)
	now := startOfDay(today)

	switch upstream {
	case UpstreamCompleted, UpstreamActionTaken:
		return StatusFiled
	}
	if upstream == UpstreamOverdue || due.Before(now) {
		return StatusOverdue
	}
	if due.Equal(now) {
		return StatusDueToday
	}
	return StatusUpcoming
}
