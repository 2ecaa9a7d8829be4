package aggregate

import (
	"boardroom/domain/classify"
	"boardroom/domain/dataset"
)

const salesInsight = "Focus on sustaining growth in high-performing quarters while addressing dips in weaker months."

// Sales reports total, yearly and quarterly sales and year over year growth
// between the two most recent years. Without both Date and Sales the report is
// only its heading.
func Sales(ds *dataset.Dataset) Report {
	r := Report{Domain: classify.Sales, Title: "Sales Performance"}
	if missing := ds.Absent("Date", "Sales"); len(missing) > 0 {
		for _, key := range []string{"Total Sales", "Yearly Breakdown", "Quarterly Breakdown", "YoY Growth"} {
			r.omit(key, missing)
		}
		return r
	}

	derivePeriods(ds, "Date", "Year", "Quarter", "Month")
	sales := ds.Column("Sales")
	rows := datedRows(ds.Column("Date"))
	yearly := sumBy(rows, sales.Values, YearKey)
	quarterly := sumBy(rows, sales.Values, QuarterKey)

	r.add("Total Sales", fixed2(sum(numbers(sales))))
	r.add("Yearly Breakdown", breakdown(formatSums(yearly)))
	r.add("Quarterly Breakdown", breakdown(formatSums(quarterly)))

	if yearly.Len() > 1 {
		latest := yearly.Newest()
		previous := latest.Prev()
		if growth, ok := ratioPercent(latest.Value, previous.Value); ok {
			r.add("YoY Growth", percent(growth))
		} else {
			r.undefined("YoY Growth")
		}
	}

	r.Insight = salesInsight
	return r
}

