package dataset

import (
	"fmt"
	"strings"

	"boardroom/domain/core"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Column is a named sequence of values aligned by row index
type Column struct {
	Name   string  `json:"name"`
	Kind   Kind    `json:"kind"`
	Values []Value `json:"-"`
}

// IsNumeric reports whether the column was inferred as numeric
func (c *Column) IsNumeric() bool {
	return c.Kind == KindNumber
}

// MissingCount returns the number of missing cells
func (c *Column) MissingCount() int {
	n := 0
	for _, v := range c.Values {
		if v.IsMissing() {
			n++
		}
	}
	return n
}

// Dataset is an ordered set of equally long columns. It is mutated in place by
// the cleaner and by aggregations that derive columns.
type Dataset struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// New creates an empty dataset with no columns and no rows
func New() *Dataset {
	return &Dataset{index: make(map[string]int)}
}

// FromRecords builds a dataset from a header and string records. Short records
// are padded with missing values; records wider than the header are rejected.
// Column kinds are inferred afterwards.
func FromRecords(header []string, records [][]string) (*Dataset, error) {
	names := UniqueNames(header)
	for rowIdx, rec := range records {
		if len(rec) > len(names) {
			return nil, core.NewRaggedRowError(rowIdx+1, len(rec), len(names))
		}
	}
	ds := New()
	ds.rows = len(records)
	for colIdx, name := range names {
		values := make([]Value, len(records))
		for rowIdx, rec := range records {
			if colIdx < len(rec) {
				values[rowIdx] = RawCell(rec[colIdx])
			} else {
				values[rowIdx] = Missing()
			}
		}
		ds.index[name] = len(ds.columns)
		ds.columns = append(ds.columns, &Column{Name: name, Kind: KindText, Values: values})
	}
	ds.InferKinds()
	return ds, nil
}

// RawCell converts a raw text cell into a text or missing value
func RawCell(s string) Value {
	if IsMissingMarker(s) {
		return Missing()
	}
	return Text(s)
}

// UniqueNames trims header names, names blank headers by position and suffixes
// repeats with ".1", ".2", ...
func UniqueNames(header []string) []string {
	used := make(map[string]bool, len(header))
	repeats := make(map[string]int)
	names := make([]string, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		base := name
		for used[name] {
			repeats[base]++
			name = fmt.Sprintf("%s.%d", base, repeats[base])
		}
		used[name] = true
		names[i] = name
	}
	return names
}

// Len returns the number of rows
func (d *Dataset) Len() int {
	return d.rows
}

// Width returns the number of columns
func (d *Dataset) Width() int {
	return len(d.columns)
}

// Names returns column names in order
func (d *Dataset) Names() []string {
	names := make([]string, len(d.columns))
	for i, c := range d.columns {
		names[i] = c.Name
	}
	return names
}

// Columns returns the columns in order
func (d *Dataset) Columns() []*Column {
	return d.columns
}

// Column returns the named column or nil
func (d *Dataset) Column(name string) *Column {
	if i, ok := d.index[name]; ok {
		return d.columns[i]
	}
	return nil
}

// Has reports whether every named column exists
func (d *Dataset) Has(names ...string) bool {
	return len(d.Absent(names...)) == 0
}

// Absent returns the names that are not columns of the dataset
func (d *Dataset) Absent(names ...string) []string {
	var absent []string
	for _, n := range names {
		if _, ok := d.index[n]; !ok {
			absent = append(absent, n)
		}
	}
	return absent
}

// SetColumn replaces the named column or appends it. The first column of an
// empty dataset fixes the row count.
func (d *Dataset) SetColumn(name string, values []Value) error {
	if len(d.columns) > 0 && len(values) != d.rows {
		return fmt.Errorf("%w: column %q has %d values, dataset has %d rows", core.ErrColumnLength, name, len(values), d.rows)
	}
	if len(d.columns) == 0 {
		d.rows = len(values)
	}
	col := &Column{Name: name, Kind: InferKind(values), Values: values}
	if i, ok := d.index[name]; ok {
		d.columns[i] = col
		return nil
	}
	d.index[name] = len(d.columns)
	d.columns = append(d.columns, col)
	return nil
}

// Row returns the values of one row in column order
func (d *Dataset) Row(i int) []Value {
	row := make([]Value, len(d.columns))
	for j, c := range d.columns {
		row[j] = c.Values[i]
	}
	return row
}

// RowKey is a canonical string identifying the content of a row
func (d *Dataset) RowKey(i int) string {
	var b strings.Builder
	for j, c := range d.columns {
		if j > 0 {
			b.WriteByte(0x1f)
		}
		b.WriteString(c.Values[i].Key())
	}
	return b.String()
}

// Keep retains only the given rows, in the given order
func (d *Dataset) Keep(rows []int) {
	for _, c := range d.columns {
		kept := make([]Value, len(rows))
		for k, i := range rows {
			kept[k] = c.Values[i]
		}
		c.Values = kept
	}
	d.rows = len(rows)
}

// Records returns up to n rows as ordered name/value maps for encoding
func (d *Dataset) Records(n int) []*orderedmap.OrderedMap[string, interface{}] {
	if n > d.rows || n < 0 {
		n = d.rows
	}
	records := make([]*orderedmap.OrderedMap[string, interface{}], n)
	for i := 0; i < n; i++ {
		rec := orderedmap.New[string, interface{}](len(d.columns))
		for _, c := range d.columns {
			rec.Set(c.Name, c.Values[i].Interface())
		}
		records[i] = rec
	}
	return records
}

// InferKinds recomputes the kind of every column, promoting text columns whose
// non-missing cells all parse as numbers to numeric columns.
func (d *Dataset) InferKinds() {
	for _, c := range d.columns {
		if promoted, ok := promoteNumeric(c.Values); ok {
			c.Values = promoted
		}
		c.Kind = InferKind(c.Values)
	}
}

// InferKind returns the single kind shared by all non-missing values, or text
// when kinds are mixed or every value is missing.
func InferKind(values []Value) Kind {
	kind := KindMissing
	for _, v := range values {
		if v.IsMissing() {
			continue
		}
		if kind == KindMissing {
			kind = v.Kind
			continue
		}
		if v.Kind != kind {
			return KindText
		}
	}
	if kind == KindMissing {
		return KindText
	}
	return kind
}

func promoteNumeric(values []Value) ([]Value, bool) {
	seen := false
	for _, v := range values {
		switch v.Kind {
		case KindMissing, KindNumber:
		case KindText:
			if _, ok := ParseNumber(v.Str); !ok {
				return nil, false
			}
		default:
			return nil, false
		}
		seen = seen || !v.IsMissing()
	}
	if !seen {
		return nil, false
	}
	out := make([]Value, len(values))
	for i, v := range values {
		if v.Kind == KindText {
			f, _ := ParseNumber(v.Str)
			out[i] = Number(f)
			continue
		}
		out[i] = v
	}
	return out, true
}

// Head returns a copy holding the first n rows
func (d *Dataset) Head(n int) *Dataset {
	if n > d.rows || n < 0 {
		n = d.rows
	}
	out := New()
	out.rows = n
	for _, c := range d.columns {
		values := make([]Value, n)
		copy(values, c.Values[:n])
		out.index[c.Name] = len(out.columns)
		out.columns = append(out.columns, &Column{Name: c.Name, Kind: c.Kind, Values: values})
	}
	return out
}
