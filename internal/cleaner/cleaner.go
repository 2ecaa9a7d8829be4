// Package cleaner normalizes a freshly loaded dataset: exact duplicate rows
// are dropped, gaps are filled from neighbouring rows and date or time named
// columns are converted to timestamps when every value parses.
package cleaner

import (
	"fmt"
	"strings"

	"boardroom/domain/dataset"
)

// Outcome of a timestamp conversion attempt
type Outcome string

const (
	Converted Outcome = "converted"
	Unchanged Outcome = "unchanged"
)

// Conversion records what happened to one date or time named column
type Conversion struct {
	Column  string  `json:"column"`
	Outcome Outcome `json:"outcome"`
	Reason  string  `json:"reason,omitempty"`
}

// Result summarizes a cleaning pass
type Result struct {
	DuplicatesRemoved int          `json:"duplicates_removed"`
	ForwardFilled     int          `json:"forward_filled"`
	BackFilled        int          `json:"back_filled"`
	Conversions       []Conversion `json:"conversions,omitempty"`
}

// Clean runs deduplication, gap filling and timestamp conversion in that order,
// then drops rows that filling or conversion made identical. Cleaning a clean
// dataset again removes nothing. The dataset is modified in place and returned
// for chaining.
func Clean(ds *dataset.Dataset) (*dataset.Dataset, Result) {
	var res Result
	if ds == nil {
		return nil, res
	}
	res.DuplicatesRemoved = DropDuplicates(ds)
	res.ForwardFilled, res.BackFilled = FillMissing(ds)
	res.Conversions = ConvertTimestamps(ds)
	res.DuplicatesRemoved += DropDuplicates(ds)
	return ds, res
}

// DropDuplicates keeps the first occurrence of every distinct row and returns
// the number of rows removed. Missing cells compare equal to each other.
func DropDuplicates(ds *dataset.Dataset) int {
	seen := make(map[string]struct{}, ds.Len())
	keep := make([]int, 0, ds.Len())
	for i := 0; i < ds.Len(); i++ {
		key := ds.RowKey(i)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keep = append(keep, i)
	}
	removed := ds.Len() - len(keep)
	if removed > 0 {
		ds.Keep(keep)
	}
	return removed
}

// FillMissing propagates the last seen value forward through each column, then
// fills leading gaps from the first value below them. Columns with no values at
// all stay missing.
func FillMissing(ds *dataset.Dataset) (forward, back int) {
	for _, col := range ds.Columns() {
		values := col.Values
		first := -1
		for i := range values {
			if values[i].IsMissing() {
				if first >= 0 {
					values[i] = values[i-1]
					forward++
				}
				continue
			}
			if first < 0 {
				first = i
			}
		}
		for i := 0; i < first; i++ {
			values[i] = values[first]
			back++
		}
	}
	return forward, back
}

// IsTemporalName reports whether a column name suggests dates or times
func IsTemporalName(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "date") || strings.Contains(lower, "time")
}

// ConvertTimestamps converts each date or time named column whose non-missing
// values all parse as timestamps. A column with any unparseable value keeps its
// original values.
func ConvertTimestamps(ds *dataset.Dataset) []Conversion {
	var conversions []Conversion
	for _, col := range ds.Columns() {
		if !IsTemporalName(col.Name) {
			continue
		}
		conversions = append(conversions, convertColumn(col))
	}
	return conversions
}

func convertColumn(col *dataset.Column) Conversion {
	conv := Conversion{Column: col.Name, Outcome: Unchanged}
	switch col.Kind {
	case dataset.KindTime:
		conv.Outcome = Converted
		return conv
	case dataset.KindNumber:
		conv.Reason = "numeric column"
		return conv
	}

	converted := make([]dataset.Value, len(col.Values))
	parsed := 0
	for i, v := range col.Values {
		if v.IsMissing() {
			converted[i] = v
			continue
		}
		t, ok := v.AsTime()
		if !ok {
			conv.Reason = fmt.Sprintf("value %q is not a timestamp", v.String())
			return conv
		}
		converted[i] = dataset.Timestamp(t)
		parsed++
	}
	if parsed == 0 {
		conv.Reason = "no values"
		return conv
	}
	col.Values = converted
	col.Kind = dataset.KindTime
	conv.Outcome = Converted
	return conv
}

