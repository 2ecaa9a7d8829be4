// Package classify assigns a business domain to a dataset from its column
// names alone. Rules are evaluated in order and the first match wins, so a
// header set matching several domains always yields the earliest one.
package classify

import (
	"strings"

	"boardroom/domain/dataset"
)

// Label is the closed set of business domains
type Label string

const (
	HR        Label = "HR"
	Sales     Label = "Sales / Retail / Ecommerce"
	Marketing Label = "Marketing"
	Generic   Label = "Generic"
)

// Labels returns every label in rule priority order, Generic last
func Labels() []Label {
	return []Label{HR, Sales, Marketing, Generic}
}

// ParseLabel maps a label string back onto a Label
func ParseLabel(s string) (Label, bool) {
	for _, l := range Labels() {
		if string(l) == s {
			return l, true
		}
	}
	return "", false
}

// Rule assigns Label when any keyword is a substring of the joined headers
type Rule struct {
	Label    Label
	Keywords []string
}

// Matches reports whether the lower-cased joined headers contain a keyword
func (r Rule) Matches(headers string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(headers, kw) {
			return true
		}
	}
	return false
}

// DefaultRules is the priority-ordered rule table
var DefaultRules = []Rule{
	{Label: HR, Keywords: []string{"employee", "salary"}},
	{Label: Sales, Keywords: []string{"sales", "price", "order", "revenue"}},
	{Label: Marketing, Keywords: []string{"campaign", "clicks", "impressions"}},
}

// Headers joins column names with spaces and lower-cases the result
func Headers(names []string) string {
	return strings.ToLower(strings.Join(names, " "))
}

// Classify applies DefaultRules to the column names
func Classify(names []string) Label {
	return ClassifyWith(DefaultRules, names)
}

// ClassifyWith applies rules in order and falls back to Generic
func ClassifyWith(rules []Rule, names []string) Label {
	headers := Headers(names)
	for _, r := range rules {
		if r.Matches(headers) {
			return r.Label
		}
	}
	return Generic
}

// ClassifyDataset classifies by column names only; values are never read
func ClassifyDataset(ds *dataset.Dataset) Label {
	return Classify(ds.Names())
}
