package aggregate

import (
	"fmt"
	"sort"
	"time"

	"boardroom/domain/dataset"

	"github.com/montanaflynn/stats"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// PeriodKey maps a timestamp onto its period label
type PeriodKey func(time.Time) string

// YearKey labels a year as "2023"
func YearKey(t time.Time) string { return fmt.Sprintf("%04d", t.Year()) }

// QuarterKey labels a quarter as "2023Q1"
func QuarterKey(t time.Time) string {
	return fmt.Sprintf("%04dQ%d", t.Year(), (int(t.Month())-1)/3+1)
}

// MonthKey labels a month as "2023-01"
func MonthKey(t time.Time) string { return t.Format("2006-01") }

// datedRow pairs a row index with its parsed date
type datedRow struct {
	row int
	at  time.Time
}

// datedRows returns every row whose cell in col reads as a timestamp
func datedRows(col *dataset.Column) []datedRow {
	rows := make([]datedRow, 0, len(col.Values))
	for i, v := range col.Values {
		if t, ok := v.AsTime(); ok {
			rows = append(rows, datedRow{row: i, at: t})
		}
	}
	return rows
}

// sumBy sums values per period in chronological key order. Periods seen in
// rows whose value is missing still appear with the sum of their other rows.
func sumBy(rows []datedRow, values []dataset.Value, key PeriodKey) *orderedmap.OrderedMap[string, float64] {
	groups := make(map[string]stats.Float64Data)
	for _, r := range rows {
		k := key(r.at)
		data := groups[k]
		if f, ok := values[r.row].Float(); ok {
			data = append(data, f)
		}
		groups[k] = data
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := orderedmap.New[string, float64](len(keys))
	for _, k := range keys {
		out.Set(k, sum(groups[k]))
	}
	return out
}

// derivePeriods adds Year, Quarter and Month columns derived from the date
// column. Rows without a readable date get missing values.
func derivePeriods(ds *dataset.Dataset, dateCol string, names ...string) {
	col := ds.Column(dateCol)
	if col == nil {
		return
	}
	for _, name := range names {
		values := make([]dataset.Value, ds.Len())
		for i, v := range col.Values {
			t, ok := v.AsTime()
			if !ok {
				values[i] = dataset.Missing()
				continue
			}
			switch name {
			case "Year":
				values[i] = dataset.Number(float64(t.Year()))
			case "Quarter":
				values[i] = dataset.Text(QuarterKey(t))
			case "Month":
				values[i] = dataset.Text(MonthKey(t))
			}
		}
		// lengths always match the dataset
		_ = ds.SetColumn(name, values)
	}
}

// numbers collects the numeric cells of a column
func numbers(col *dataset.Column) stats.Float64Data {
	data := make(stats.Float64Data, 0, len(col.Values))
	for _, v := range col.Values {
		if f, ok := v.Float(); ok {
			data = append(data, f)
		}
	}
	return data
}

// sum of no values is zero
func sum(data stats.Float64Data) float64 {
	if len(data) == 0 {
		return 0
	}
	s, err := stats.Sum(data)
	if err != nil {
		return 0
	}
	return s
}

// mean of no values is undefined
func mean(data stats.Float64Data) (float64, bool) {
	m, err := stats.Mean(data)
	if err != nil {
		return 0, false
	}
	return m, true
}

// PeriodSums sums valueCol per period of dateCol. Rows whose date cannot be
// read are left out.
func PeriodSums(ds *dataset.Dataset, dateCol, valueCol string, key PeriodKey) *orderedmap.OrderedMap[string, float64] {
	dates, values := ds.Column(dateCol), ds.Column(valueCol)
	if dates == nil || values == nil {
		return orderedmap.New[string, float64]()
	}
	return sumBy(datedRows(dates), values.Values, key)
}
