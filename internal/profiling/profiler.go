// Package profiling summarizes every column of a cleaned dataset
package profiling

import (
	"sort"

	"boardroom/domain/dataset"
)

// TopValues is how many frequent values a text column profile keeps
const TopValues = 5

// ValueCount is one distinct value and its frequency
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ColumnProfile is the per-column entry of a dataset profile
type ColumnProfile struct {
	Name     string       `json:"name"`
	Kind     dataset.Kind `json:"kind"`
	Count    int          `json:"count"`
	Missing  int          `json:"missing"`
	Distinct int          `json:"distinct"`
	Numeric  *Summary     `json:"numeric,omitempty"`
	Top      []ValueCount `json:"top,omitempty"`
	First    string       `json:"first,omitempty"`
	Last     string       `json:"last,omitempty"`
}

// ProfileDataset profiles every column in order
func ProfileDataset(ds *dataset.Dataset) []ColumnProfile {
	if ds == nil {
		return nil
	}
	out := make([]ColumnProfile, 0, ds.Width())
	for _, c := range ds.Columns() {
		out = append(out, ProfileColumn(c))
	}
	return out
}

// ProfileColumn counts values and adds a numeric summary, the most frequent
// values of a text column, or the time range of a timestamp column
func ProfileColumn(c *dataset.Column) ColumnProfile {
	p := ColumnProfile{Name: c.Name, Kind: c.Kind}

	counts := make(map[string]int)
	var nums []float64
	for _, v := range c.Values {
		if v.IsMissing() {
			p.Missing++
			continue
		}
		p.Count++
		counts[v.Key()]++
		if c.Kind == dataset.KindNumber {
			nums = append(nums, v.Num)
		}
	}
	p.Distinct = len(counts)

	switch c.Kind {
	case dataset.KindNumber:
		if s, err := Describe(nums); err == nil {
			p.Numeric = &s
		}
	case dataset.KindText:
		p.Top = topValues(c.Values, TopValues)
	case dataset.KindTime:
		p.First, p.Last = timeRange(c.Values)
	}
	return p
}

// topValues orders by count descending, then value ascending
func topValues(values []dataset.Value, n int) []ValueCount {
	counts := make(map[string]int)
	for _, v := range values {
		if !v.IsMissing() {
			counts[v.String()]++
		}
	}
	out := make([]ValueCount, 0, len(counts))
	for v, c := range counts {
		out = append(out, ValueCount{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func timeRange(values []dataset.Value) (string, string) {
	var first, last dataset.Value
	seen := false
	for _, v := range values {
		if v.Kind != dataset.KindTime {
			continue
		}
		if !seen || v.Time.Before(first.Time) {
			first = v
		}
		if !seen || v.Time.After(last.Time) {
			last = v
		}
		seen = true
	}
	if !seen {
		return "", ""
	}
	return first.String(), last.String()
}
