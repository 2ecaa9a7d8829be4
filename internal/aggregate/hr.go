package aggregate

import (
	"boardroom/domain/classify"
	"boardroom/domain/dataset"
)

const hrInsight = "Monitor attrition closely; invest in retention programs if promotions are low relative to workforce size."

// HR reports each workforce statistic whose column is present. The insight is
// always appended, even when no statistic could be computed.
func HR(ds *dataset.Dataset) Report {
	r := Report{Domain: classify.HR, Title: "HR Performance", Insight: hrInsight}

	if col := ds.Column("Salary"); col != nil {
		if avg, ok := mean(numbers(col)); ok {
			r.add("Average Salary", fixed2(avg))
		} else {
			r.undefined("Average Salary")
		}
	} else {
		r.omit("Average Salary", []string{"Salary"})
	}

	if col := ds.Column("Promotions"); col != nil {
		r.add("Total Promotions", plain(sum(numbers(col))))
	} else {
		r.omit("Total Promotions", []string{"Promotions"})
	}

	if col := ds.Column("TimeAssociated"); col != nil {
		if avg, ok := mean(numbers(col)); ok {
			r.add("Average Tenure", fixed2(avg)+" years")
		} else {
			r.undefined("Average Tenure")
		}
	} else {
		r.omit("Average Tenure", []string{"TimeAssociated"})
	}

	return r
}
