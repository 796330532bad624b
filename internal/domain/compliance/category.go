package compliance

import "strings"

// CategoryCode is the canonical tag associating an obligation with one of the
// firm's service lines.
type CategoryCode string

const (
	CategoryAuditing   CategoryCode = "AUDITING"
	CategoryAccounting CategoryCode = "ACCOUNTING"
	CategoryTax        CategoryCode = "TAX"
	CategoryVAT        CategoryCode = "VAT"
	CategoryPayroll    CategoryCode = "PAYROLL"
	CategoryMBR        CategoryCode = "MBR"

	// CategoryCustom is the wildcard: a service mapped to CUSTOM shows every
	// obligation regardless of its category.
	CategoryCustom CategoryCode = "CUSTOM"

	// CategoryUnknown is the fail-closed sentinel for unmapped service
	// names.  It matches no item, so a misconfigured service tab shows an
	// empty calendar rather than unrelated client obligations.
	CategoryUnknown CategoryCode = ""
)

func (c CategoryCode) String() string {
	return string(c)
}

// serviceCategories maps the service display names used across the dashboard
// to their category codes.  Lookup is case-insensitive.
var serviceCategories = map[string]CategoryCode{
	"statutory audit": CategoryAuditing,
	"audit":           CategoryAuditing,
	"accounting":      CategoryAccounting,
	"bookkeeping":     CategoryAccounting,
	"tax compliance":  CategoryTax,
	"income tax":      CategoryTax,
	"vat":             CategoryVAT,
	"vat compliance":  CategoryVAT,
	"payroll":         CategoryPayroll,
	"mbr filings":     CategoryMBR,
	"mbr":             CategoryMBR,
	"custom":          CategoryCustom,
	"other services":  CategoryCustom,
}

// Classify resolves a service display name to its category code.  Unmapped
// names return CategoryUnknown, which deliberately matches nothing.
func Classify(serviceDisplayName string) CategoryCode {
	if code, ok := serviceCategories[strings.ToLower(strings.TrimSpace(serviceDisplayName))]; ok {
		return code
	}
	return CategoryUnknown
}

// FilterByCategory retains the items belonging to the active service's
// category.  A service resolving to the CUSTOM wildcard passes every item
// through unchanged; any other code keeps only items whose category matches
// it case-insensitively.  Input order is preserved.
func FilterByCategory(items []Item, activeServiceName string) []Item {
	code := Classify(activeServiceName)
	if code == CategoryCustom {
		return items
	}

	out := make([]Item, 0, len(items))
	for _, it := range items {
		if code != CategoryUnknown && strings.EqualFold(it.ServiceCategory, code.String()) {
			out = append(out, it)
		}
	}
	return out
}
