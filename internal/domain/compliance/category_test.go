package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		service string
		want    CategoryCode
	}{
		{"Statutory Audit", CategoryAuditing},
		{"audit", CategoryAuditing},
		{"Accounting", CategoryAccounting},
		{"bookkeeping", CategoryAccounting},
		{"Tax Compliance", CategoryTax},
		{"VAT", CategoryVAT},
		{"vat compliance", CategoryVAT},
		{"Payroll", CategoryPayroll},
		{"MBR Filings", CategoryMBR},
		{"Other Services", CategoryCustom},
		{"  VAT  ", CategoryVAT},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.service), "service %q", tt.service)
	}
}

func TestClassify_UnknownFailsClosed(t *testing.T) {
	assert.Equal(t, CategoryUnknown, Classify("Corporate Secretarial"))
	assert.Equal(t, CategoryUnknown, Classify(""))
}

func categoryFixture() []Item {
	return []Item{
		{ID: "1", ServiceCategory: "VAT"},
		{ID: "2", ServiceCategory: "MBR"},
		{ID: "3", ServiceCategory: "vat"},
		{ID: "4", ServiceCategory: "PAYROLL"},
	}
}

func TestFilterByCategory_MatchesCaseInsensitively(t *testing.T) {
	out := FilterByCategory(categoryFixture(), "VAT")

	assert.Len(t, out, 2)
	assert.Equal(t, "1", out[0].ID)
	assert.Equal(t, "3", out[1].ID, "input order is preserved")
}

func TestFilterByCategory_CustomIsWildcard(t *testing.T) {
	items := categoryFixture()
	assert.Equal(t, items, FilterByCategory(items, "Other Services"))
	assert.Equal(t, items, FilterByCategory(items, "custom"))
}

func TestFilterByCategory_UnknownServiceMatchesNothing(t *testing.T) {
	// A misconfigured service tab must show an empty calendar, never another
	// client's unrelated obligations.
	assert.Empty(t, FilterByCategory(categoryFixture(), "Corporate Secretarial"))
}
