package aggregate

import (
	"boardroom/domain/classify"
	"boardroom/domain/dataset"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const marketingInsight = "Campaigns with ROI below 10% should be re-evaluated; allocate more budget to high-ROI channels."

// Marketing reports total spend, total revenue and overall ROI, plus a monthly
// ROI trend when a Date column is present.
func Marketing(ds *dataset.Dataset) Report {
	r := Report{Domain: classify.Marketing, Title: "Marketing Performance"}
	if missing := ds.Absent("Spend", "Revenue"); len(missing) > 0 {
		for _, key := range []string{"Total Spend", "Total Revenue", "Overall ROI"} {
			r.omit(key, missing)
		}
		return r
	}

	spendCol, revenueCol := ds.Column("Spend"), ds.Column("Revenue")
	spend := sum(numbers(spendCol))
	revenue := sum(numbers(revenueCol))

	r.add("Total Spend", fixed2(spend))
	r.add("Total Revenue", fixed2(revenue))
	if roi, ok := ratioPercent(revenue, spend); ok {
		r.add("Overall ROI", percent(roi))
	} else {
		r.undefined("Overall ROI")
	}

	if ds.Has("Date") {
		derivePeriods(ds, "Date", "Month")
		rows := datedRows(ds.Column("Date"))
		monthlySpend := sumBy(rows, spendCol.Values, MonthKey)
		monthlyRevenue := sumBy(rows, revenueCol.Values, MonthKey)

		trend := orderedmap.New[string, string](monthlySpend.Len())
		for pair := monthlySpend.Oldest(); pair != nil; pair = pair.Next() {
			rev, _ := monthlyRevenue.Get(pair.Key)
			if roi, ok := ratioPercent(rev, pair.Value); ok {
				trend.Set(pair.Key, fixed2(roi))
			} else {
				trend.Set(pair.Key, NotAvailable)
			}
		}
		r.add("Monthly ROI Trend", breakdown(trend))
	} else {
		r.omit("Monthly ROI Trend", []string{"Date"})
	}

	r.Insight = marketingInsight
	return r
}
