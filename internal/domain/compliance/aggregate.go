package compliance

// StatusCounts holds the per-status tallies shown in the calendar header
// chips.  Counts are computed over the post-category-filter set — the same
// set the status filter operates on — so the chips and the list always agree.
type StatusCounts struct {
	Overdue  int `json:"overdue"`
	DueToday int `json:"due_today"`
	Upcoming int `json:"upcoming"`
	Filed    int `json:"filed"`
}

// Total returns the number of items across all statuses.
func (c StatusCounts) Total() int {
	return c.Overdue + c.DueToday + c.Upcoming + c.Filed
}

// ByStatus returns the count for a single lifecycle status.
func (c StatusCounts) ByStatus(s LifecycleStatus) int {
	switch s {
	case StatusOverdue:
		return c.Overdue
	case StatusDueToday:
		return c.DueToday
	case StatusUpcoming:
		return c.Upcoming
	case StatusFiled:
		return c.Filed
	}
	return 0
}

// CountByStatus reduces an item set to its per-status counts.
func CountByStatus(items []Item) StatusCounts {
	var c StatusCounts
	for _, it := range items {
		switch it.LifecycleStatus {
		case StatusOverdue:
			c.Overdue++
		case StatusDueToday:
			c.DueToday++
		case StatusUpcoming:
			c.Upcoming++
		case StatusFiled:
			c.Filed++
		}
	}
	return c
}

// StatusFilter selects which lifecycle statuses the display list shows.
// FilterAll is the identity; any other value is a single LifecycleStatus.
type StatusFilter string

// FilterAll shows every item regardless of lifecycle status.
const FilterAll StatusFilter = "all"

// ParseStatusFilter validates a raw filter value from a query parameter or
// CLI flag.  Empty input means "all"; anything unrecognized is rejected.
func ParseStatusFilter(raw string) (StatusFilter, bool) {
	switch StatusFilter(raw) {
	case "", FilterAll:
		return FilterAll, true
	case StatusFilter(StatusOverdue), StatusFilter(StatusDueToday),
		StatusFilter(StatusUpcoming), StatusFilter(StatusFiled):
		return StatusFilter(raw), true
	}
	return FilterAll, false
}

// ApplyStatusFilter returns the subset of items matching the filter,
// preserving input order.  No resort happens here: source order is the
// display order.
func ApplyStatusFilter(items []Item, filter StatusFilter) []Item {
	if filter == FilterAll || filter == "" {
		return items
	}

	out := make([]Item, 0, len(items))
	for _, it := range items {
		if StatusFilter(it.LifecycleStatus) == filter {
			out = append(out, it)
		}
	}
	return out
}
