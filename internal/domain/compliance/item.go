// Package compliance implements the obligation status engine behind the
// client dashboard's compliance calendar: normalization of the two upstream
// obligation sources into one item model, date-aware lifecycle derivation,
// service-category classification, and per-status aggregation.
//
// Everything in this package is pure: the current date is always an explicit
// parameter, and no function performs I/O or returns an error.
package compliance

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Upstream workflow status
// ─────────────────────────────────────────────────────────────────────────────

// UpstreamStatus is the workflow state recorded by the practice-management
// system of record.  It is an input to lifecycle derivation, never shown to
// the client directly.
type UpstreamStatus string

const (
	UpstreamPending        UpstreamStatus = "PENDING"
	UpstreamInProgress     UpstreamStatus = "IN_PROGRESS"
	UpstreamActionRequired UpstreamStatus = "ACTION_REQUIRED"
	UpstreamOverdue        UpstreamStatus = "OVERDUE"
	UpstreamActionTaken    UpstreamStatus = "ACTION_TAKEN"
	UpstreamCompleted      UpstreamStatus = "COMPLETED"
)

// actionableUpstream is the set of upstream states from which a client may
// progress an obligation to ACTION_TAKEN.
var actionableUpstream = map[UpstreamStatus]bool{
	UpstreamActionRequired: true,
	UpstreamOverdue:        true,
	UpstreamPending:        true,
	UpstreamInProgress:     true,
}

// CanProgress reports whether an obligation in status s is eligible for the
// "mark as done" transition.  Completed and already-actioned obligations are
// terminal from the client's point of view.
func (s UpstreamStatus) CanProgress() bool {
	return actionableUpstream[s]
}

// ─────────────────────────────────────────────────────────────────────────────
// Raw source records
// ─────────────────────────────────────────────────────────────────────────────

// RawEngagementObligation is an obligation as returned by the engagement
// compliance endpoint (source A).  These records carry a true workflow status
// and support the status-update operation.
type RawEngagementObligation struct {
	ID                      string         `json:"id"`
	EngagementID            string         `json:"engagementId"`
	Title                   string         `json:"title"`
	Type                    string         `json:"type"`
	Deadline                time.Time      `json:"deadline"`
	Status                  UpstreamStatus `json:"status"`
	Service                 string         `json:"service"`
	CustomServiceCycleTitle string         `json:"customServiceCycleTitle,omitempty"`
	Description             string         `json:"description,omitempty"`
	CTA                     string         `json:"cta,omitempty"`
}

// RawCalendarEntry is an obligation as returned by the company compliance
// calendar endpoint (source B).  Calendar entries are informational only:
// they carry no workflow status and cannot be updated.
type RawCalendarEntry struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	DueDate         time.Time `json:"dueDate"`
	ServiceCategory string    `json:"serviceCategory"`
	Description     string    `json:"description,omitempty"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Item — the unified model
// ─────────────────────────────────────────────────────────────────────────────

// Item is the normalized compliance obligation the rest of the engine (and
// the dashboard) operates on.  Items are value snapshots: they are created
// fresh on every fetch cycle and replaced wholesale, never mutated in place.
type Item struct {
	ID                 string          `json:"id"`
	SourceObligationID string          `json:"source_obligation_id"`
	EngagementID       string          `json:"engagement_id"`
	Title              string          `json:"title"`
	Type               string          `json:"type"`
	DueDate            time.Time       `json:"due_date"`
	LifecycleStatus    LifecycleStatus `json:"lifecycle_status"`
	Authority          string          `json:"authority"`
	Description        string          `json:"description"`
	CTALabel           string          `json:"cta_label"`
	UpstreamStatus     UpstreamStatus  `json:"upstream_status"`
	ServiceCategory    string          `json:"service_category"`

	// Actionable is false exactly when the item originated from the
	// calendar source.  Non-actionable items are a read-only projection and
	// must never be offered the "mark as done" transition.
	Actionable bool `json:"actionable"`
}

// defaultCTALabel is used when an engagement obligation carries no CTA text.
const defaultCTALabel = "Mark as done"

// NormalizeEngagement maps a source-A record into the unified Item model.
// The lifecycle status is derived from the record's workflow status and due
// date relative to today; see DeriveStatus for the ordering rules.
func NormalizeEngagement(raw RawEngagementObligation, today time.Time) Item {
	authority := raw.CustomServiceCycleTitle
	if authority == "" {
		authority = raw.Service
	}
	if authority == "" {
		authority = "Internal"
	}
	cta := raw.CTA
	if cta == "" {
		cta = defaultCTALabel
	}

	return Item{
		ID:                 raw.ID,
		SourceObligationID: raw.ID,
		EngagementID:       raw.EngagementID,
		Title:              raw.Title,
		Type:               raw.Type,
		DueDate:            raw.Deadline,
		LifecycleStatus:    DeriveStatus(raw.Status, raw.Deadline, today),
		Authority:          authority,
		Description:        raw.Description,
		CTALabel:           cta,
		UpstreamStatus:     raw.Status,
		ServiceCategory:    Classify(raw.Service).String(),
		Actionable:         true,
	}
}

// NormalizeCalendar maps a source-B record into the unified Item model.
// Calendar entries have no workflow status, so PENDING is synthesized purely
// to feed the date-driven branches of DeriveStatus.
func NormalizeCalendar(raw RawCalendarEntry, today time.Time) Item {
	return Item{
		ID:                 raw.ID,
		SourceObligationID: raw.ID,
		Title:              raw.Title,
		Type:               "calendar",
		DueDate:            raw.DueDate,
		LifecycleStatus:    DeriveStatus(UpstreamPending, raw.DueDate, today),
		Authority:          raw.ServiceCategory,
		Description:        raw.Description,
		CTALabel:           "",
		UpstreamStatus:     UpstreamPending,
		ServiceCategory:    raw.ServiceCategory,
		Actionable:         false,
	}
}

// Normalize maps both raw source collections into one unified slice,
// engagement obligations first, preserving each source's order.
func Normalize(obligations []RawEngagementObligation, entries []RawCalendarEntry, today time.Time) []Item {
	items := make([]Item, 0, len(obligations)+len(entries))
	for _, o := range obligations {
		items = append(items, NormalizeEngagement(o, today))
	}
	for _, e := range entries {
		items = append(items, NormalizeCalendar(e, today))
	}
	return items
}
