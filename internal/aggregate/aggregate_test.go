package aggregate

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"boardroom/domain/classify"
	"boardroom/domain/dataset"
	"boardroom/internal/cleaner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, header []string, rows ...[]string) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.FromRecords(header, rows)
	require.NoError(t, err)
	out, _ := cleaner.Clean(ds)
	return out
}

func TestSales_YoYGrowth(t *testing.T) {
	ds := load(t, []string{"Date", "Sales"},
		[]string{"2023-01-15", "100"},
		[]string{"2024-01-15", "150"},
	)

	r := Aggregate(ds, classify.Sales)

	want := "Executive Summary: Sales Performance\n\n" +
		"- Total Sales: 250.00\n" +
		"- Yearly Breakdown: {2023: 100.00, 2024: 150.00}\n" +
		"- Quarterly Breakdown: {2023Q1: 100.00, 2024Q1: 150.00}\n" +
		"- YoY Growth: 50.00%\n" +
		"\nPrescriptive Insight: " + salesInsight + "\n"
	assert.Equal(t, want, r.String())
	assert.Equal(t, Computed, r.Outcome("YoY Growth"))
}

func TestSales_DerivesPeriodColumns(t *testing.T) {
	ds := load(t, []string{"Date", "Sales"},
		[]string{"2023-05-02", "10"},
		[]string{"2023-11-30", "20"},
	)

	Sales(ds)

	require.True(t, ds.Has("Year", "Quarter", "Month"))
	assert.Equal(t, 2023.0, ds.Column("Year").Values[0].Num)
	assert.Equal(t, "2023Q2", ds.Column("Quarter").Values[0].Str)
	assert.Equal(t, "2023-11", ds.Column("Month").Values[1].Str)
}

func TestSales_SingleYearHasNoGrowth(t *testing.T) {
	ds := load(t, []string{"Date", "Sales"}, []string{"2023-01-01", "5"}, []string{"2023-04-01", "7"})

	r := Sales(ds)

	_, ok := r.Line("YoY Growth")
	assert.False(t, ok)
	l, _ := r.Line("Quarterly Breakdown")
	assert.Equal(t, "{2023Q1: 5.00, 2023Q2: 7.00}", l.Value)
}

func TestSales_ZeroPreviousYearIsUndefined(t *testing.T) {
	ds := load(t, []string{"Date", "Sales"}, []string{"2023-01-01", "0"}, []string{"2024-01-01", "7"})

	r := Sales(ds)

	l, ok := r.Line("YoY Growth")
	require.True(t, ok)
	assert.Equal(t, NotAvailable, l.Value)
	assert.Equal(t, Undefined, l.Status)
	assert.NotContains(t, r.String(), "NaN")
	assert.NotContains(t, r.String(), "Inf")
}

func TestSales_UnreadableDatesCountTowardTotalOnly(t *testing.T) {
	ds, err := dataset.FromRecords([]string{"Date", "Sales"}, [][]string{{"2023-01-01", "10"}, {"soon", "5"}})
	require.NoError(t, err)

	r := Sales(ds)

	total, _ := r.Line("Total Sales")
	assert.Equal(t, "15.00", total.Value)
	yearly, _ := r.Line("Yearly Breakdown")
	assert.Equal(t, "{2023: 10.00}", yearly.Value)
}

func TestSales_MissingColumnsGiveHeadingOnly(t *testing.T) {
	ds := load(t, []string{"OrderID", "Sales"}, []string{"1", "10"})

	r := Aggregate(ds, classify.Sales)

	assert.Equal(t, "Executive Summary: Sales Performance\n\n", r.String())
	assert.Equal(t, ColumnAbsent, r.Outcome("Total Sales"))
	assert.Equal(t, []string{"Date"}, r.Omitted[0].Missing)
}

func TestMarketing_ROI(t *testing.T) {
	ds := load(t, []string{"Campaign", "Spend", "Revenue"}, []string{"a", "200", "250"})

	r := Aggregate(ds, classify.Marketing)

	roi, ok := r.Line("Overall ROI")
	require.True(t, ok)
	assert.Equal(t, "25.00%", roi.Value)
	spend, _ := r.Line("Total Spend")
	assert.Equal(t, "200.00", spend.Value)
	assert.Equal(t, ColumnAbsent, r.Outcome("Monthly ROI Trend"))
	assert.True(t, strings.HasSuffix(r.String(), "Prescriptive Insight: "+marketingInsight+"\n"))
}

func TestMarketing_MonthlyTrend(t *testing.T) {
	ds := load(t, []string{"Date", "Spend", "Revenue"},
		[]string{"2024-01-03", "100", "150"},
		[]string{"2024-01-20", "100", "50"},
		[]string{"2024-02-01", "0", "10"},
	)

	r := Marketing(ds)

	trend, ok := r.Line("Monthly ROI Trend")
	require.True(t, ok)
	assert.Equal(t, "{2024-01: 0.00, 2024-02: n/a}", trend.Value)
	assert.True(t, ds.Has("Month"))
}

func TestMarketing_ZeroSpend(t *testing.T) {
	ds := load(t, []string{"Spend", "Revenue"}, []string{"0", "10"})

	r := Marketing(ds)

	assert.Equal(t, Undefined, r.Outcome("Overall ROI"))
	assert.Contains(t, r.String(), "- Overall ROI: n/a\n")
}

func TestHR_SalaryOnly(t *testing.T) {
	ds := load(t, []string{"EmployeeID", "Salary"}, []string{"1", "50000"}, []string{"2", "70000.5"})

	r := Aggregate(ds, classify.HR)

	require.Len(t, r.Lines, 1)
	assert.Equal(t, Line{Key: "Average Salary", Value: "60000.25", Status: Computed}, r.Lines[0])
	assert.Equal(t, ColumnAbsent, r.Outcome("Total Promotions"))
	assert.Contains(t, r.String(), "Prescriptive Insight: "+hrInsight)
}

func TestHR_AllStatistics(t *testing.T) {
	ds := load(t, []string{"Salary", "Promotions", "TimeAssociated"},
		[]string{"100", "1", "2"},
		[]string{"200", "2", "3.5"},
	)

	r := HR(ds)

	want := "Executive Summary: HR Performance\n\n" +
		"- Average Salary: 150.00\n" +
		"- Total Promotions: 3\n" +
		"- Average Tenure: 2.75 years\n" +
		"\nPrescriptive Insight: " + hrInsight + "\n"
	assert.Equal(t, want, r.String())
}

func TestHR_NoColumnsStillHasInsight(t *testing.T) {
	ds := load(t, []string{"employee_name"}, []string{"ann"})

	r := HR(ds)

	assert.Empty(t, r.Lines)
	assert.Equal(t, "Executive Summary: HR Performance\n\n\nPrescriptive Insight: "+hrInsight+"\n", r.String())
}

func TestGeneric(t *testing.T) {
	ds := load(t, []string{"a"}, []string{"1"})

	r := Aggregate(ds, classify.Generic)

	assert.Equal(t, GenericNote, r.String())
	assert.Equal(t, GenericNote, Aggregate(ds, classify.Label("other")).String())
	assert.Equal(t, GenericNote, fmt.Sprint(r))
}

func TestFixed2(t *testing.T) {
	assert.Equal(t, "2.68", fixed2(2.675))
	assert.Equal(t, "-1.01", fixed2(-1.005))
	assert.Equal(t, NotAvailable, fixed2(math.Inf(1)))
	assert.Equal(t, NotAvailable, percent(math.NaN()))
}

func TestPeriodSums(t *testing.T) {
	ds := load(t, []string{"Date", "Sales"},
		[]string{"2023-02-01", "1"},
		[]string{"2023-01-01", "2"},
		[]string{"2023-01-09", "3"},
	)

	sums := PeriodSums(ds, "Date", "Sales", MonthKey)

	keys := []string{}
	for pair := sums.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	assert.Equal(t, []string{"2023-01", "2023-02"}, keys)
	jan, _ := sums.Get("2023-01")
	assert.Equal(t, 5.0, jan)
	assert.Zero(t, PeriodSums(ds, "Date", "Nope", MonthKey).Len())
}
