package aggregate

import (
	"strings"

	"boardroom/domain/classify"
)

// Status is the outcome of one statistic
type Status string

const (
	Computed     Status = "computed"
	ColumnAbsent Status = "column_absent"
	Undefined    Status = "undefined"
)

// Line is one "- key: value" entry of a report
type Line struct {
	Key    string `json:"key"`
	Value  string `json:"value"`
	Status Status `json:"status"`
}

// Omission is a statistic skipped because its columns are absent
type Omission struct {
	Key     string   `json:"key"`
	Missing []string `json:"missing"`
}

// Report is a narrative executive summary. When Note is set the report is that
// single sentence and carries no title, lines or insight.
type Report struct {
	Domain  classify.Label `json:"domain"`
	Title   string         `json:"title,omitempty"`
	Lines   []Line         `json:"lines,omitempty"`
	Insight string         `json:"insight,omitempty"`
	Omitted []Omission     `json:"omitted,omitempty"`
	Note    string         `json:"note,omitempty"`
}

func (r *Report) add(key, value string) {
	r.Lines = append(r.Lines, Line{Key: key, Value: value, Status: Computed})
}

func (r *Report) undefined(key string) {
	r.Lines = append(r.Lines, Line{Key: key, Value: NotAvailable, Status: Undefined})
}

func (r *Report) omit(key string, missing []string) {
	r.Omitted = append(r.Omitted, Omission{Key: key, Missing: missing})
}

// Line returns the named statistic line
func (r Report) Line(key string) (Line, bool) {
	for _, l := range r.Lines {
		if l.Key == key {
			return l, true
		}
	}
	return Line{}, false
}

// Outcome returns the status of a statistic, or "" when the template never
// attempted it
func (r Report) Outcome(key string) Status {
	if l, ok := r.Line(key); ok {
		return l.Status
	}
	for _, o := range r.Omitted {
		if o.Key == key {
			return ColumnAbsent
		}
	}
	return ""
}

// String renders the plain-text report
func (r Report) String() string {
	if r.Note != "" {
		return r.Note
	}
	var b strings.Builder
	b.WriteString("Executive Summary: ")
	b.WriteString(r.Title)
	b.WriteString("\n\n")
	for _, l := range r.Lines {
		b.WriteString("- ")
		b.WriteString(l.Key)
		b.WriteString(": ")
		b.WriteString(l.Value)
		b.WriteString("\n")
	}
	if r.Insight != "" {
		b.WriteString("\nPrescriptive Insight: ")
		b.WriteString(r.Insight)
		b.WriteString("\n")
	}
	return b.String()
}
