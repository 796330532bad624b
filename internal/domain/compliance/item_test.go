package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEngagement(t *testing.T) {
	raw := RawEngagementObligation{
		ID:           "ob-1",
		EngagementID: "eng-1",
		Title:        "Annual return",
		Type:         "filing",
		Deadline:     day(3),
		Status:       UpstreamActionRequired,
		Service:      "MBR Filings",
		Description:  "File the annual return with the registry",
	}

	item := NormalizeEngagement(raw, today)

	assert.Equal(t, "ob-1", item.ID)
	assert.Equal(t, "ob-1", item.SourceObligationID)
	assert.Equal(t, "eng-1", item.EngagementID)
	assert.Equal(t, StatusUpcoming, item.LifecycleStatus)
	assert.Equal(t, "MBR", item.ServiceCategory)
	assert.True(t, item.Actionable)
	assert.Equal(t, "Mark as done", item.CTALabel, "missing CTA falls back to the default label")
	assert.Equal(t, "MBR Filings", item.Authority, "authority falls back to the service name")
}

func TestNormalizeEngagement_AuthorityFallbackChain(t *testing.T) {
	raw := RawEngagementObligation{ID: "ob-2", Deadline: day(1), Status: UpstreamPending}

	raw.CustomServiceCycleTitle = "Q1 VAT cycle"
	raw.Service = "VAT"
	assert.Equal(t, "Q1 VAT cycle", NormalizeEngagement(raw, today).Authority)

	raw.CustomServiceCycleTitle = ""
	assert.Equal(t, "VAT", NormalizeEngagement(raw, today).Authority)

	raw.Service = ""
	assert.Equal(t, "Internal", NormalizeEngagement(raw, today).Authority)
}

func TestNormalizeEngagement_KeepsExplicitCTA(t *testing.T) {
	raw := RawEngagementObligation{ID: "ob-3", Deadline: day(1), Status: UpstreamPending, CTA: "Submit now"}
	assert.Equal(t, "Submit now", NormalizeEngagement(raw, today).CTALabel)
}

func TestNormalizeCalendar(t *testing.T) {
	raw := RawCalendarEntry{
		ID:              "cal-1",
		Title:           "VAT return",
		DueDate:         day(-2),
		ServiceCategory: "VAT",
	}

	item := NormalizeCalendar(raw, today)

	assert.Equal(t, "calendar", item.Type)
	assert.Equal(t, StatusOverdue, item.LifecycleStatus, "calendar entries still get date-driven statuses")
	assert.Equal(t, "VAT", item.Authority)
	assert.False(t, item.Actionable, "calendar entries are read-only")
	assert.Empty(t, item.CTALabel)
}

func TestNormalize_MergesEngagementFirstPreservingOrder(t *testing.T) {
	obligations := []RawEngagementObligation{
		{ID: "a", Deadline: day(1), Status: UpstreamPending},
		{ID: "b", Deadline: day(2), Status: UpstreamPending},
	}
	entries := []RawCalendarEntry{
		{ID: "c", DueDate: day(3)},
		{ID: "d", DueDate: day(4)},
	}

	items := Normalize(obligations, entries, today)
	require.Len(t, items, 4)

	got := make([]string, len(items))
	for i, it := range items {
		got[i] = it.ID
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, got)
}

func TestNormalize_EmptySources(t *testing.T) {
	assert.Empty(t, Normalize(nil, nil, today))
	assert.Len(t, Normalize(nil, []RawCalendarEntry{{ID: "c", DueDate: day(1)}}, today), 1)
}
