// Package aggregate turns a cleaned dataset into a domain specific executive
// summary. Each domain label selects exactly one template; templates look up
// columns by exact name and derive period columns on the dataset they read.
package aggregate

import (
	"boardroom/domain/classify"
	"boardroom/domain/dataset"
)

// Template builds the report for one domain
type Template func(ds *dataset.Dataset) Report

// GenericNote is the whole report for unclassified datasets
const GenericNote = "Generic dataset. Showing distributions and counts."

// Templates maps each label to its report template
var Templates = map[classify.Label]Template{
	classify.Sales:     Sales,
	classify.Marketing: Marketing,
	classify.HR:        HR,
	classify.Generic:   Generic,
}

// Aggregate runs the template selected by label. Unknown labels fall back to
// the generic report.
func Aggregate(ds *dataset.Dataset, label classify.Label) Report {
	tmpl, ok := Templates[label]
	if !ok {
		tmpl = Generic
	}
	return tmpl(ds)
}

// Generic reports no statistics
func Generic(*dataset.Dataset) Report {
	return Report{Domain: classify.Generic, Note: GenericNote}
}
