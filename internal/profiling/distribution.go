package profiling

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// NormalityAlpha is the Jarque-Bera significance level
const NormalityAlpha = 0.05

// Summary describes the shape of a numeric column
type Summary struct {
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Q25      float64 `json:"q25"`
	Median   float64 `json:"median"`
	Q75      float64 `json:"q75"`
	Max      float64 `json:"max"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"excess_kurtosis"`
	Outliers int     `json:"outliers"`
	NormalP  float64 `json:"normality_p"`
	IsNormal bool    `json:"is_normal"`
}

// Describe summarizes a sample. Shape statistics need at least four values
// and a non-zero spread; below that they stay zero and IsNormal is false.
func Describe(data []float64) (Summary, error) {
	var s Summary
	var err error

	if s.Mean, err = stats.Mean(data); err != nil {
		return s, err
	}
	if s.Min, err = stats.Min(data); err != nil {
		return s, err
	}
	if s.Max, err = stats.Max(data); err != nil {
		return s, err
	}
	if s.Median, err = stats.Median(data); err != nil {
		return s, err
	}
	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	s.Q25 = stat.Quantile(0.25, stat.Empirical, sorted, nil)
	s.Q75 = stat.Quantile(0.75, stat.Empirical, sorted, nil)
	if len(data) > 1 {
		if s.StdDev, err = stats.StandardDeviationSample(data); err != nil {
			return s, err
		}
	}

	s.Outliers = countOutliers(data, s.Q25, s.Q75)

	if len(data) >= 4 && s.StdDev > 0 {
		s.Skewness = stat.Skew(data, nil)
		s.Kurtosis = stat.ExKurtosis(data, nil)
		s.NormalP = jarqueBera(len(data), s.Skewness, s.Kurtosis)
		s.IsNormal = s.NormalP > NormalityAlpha
	}
	return s, nil
}

// jarqueBera returns the p-value of the Jarque-Bera statistic against a
// chi-squared distribution with two degrees of freedom
func jarqueBera(n int, skew, exKurt float64) float64 {
	jb := float64(n) / 6 * (skew*skew + exKurt*exKurt/4)
	if math.IsNaN(jb) {
		return 0
	}
	return distuv.ChiSquared{K: 2}.Survival(jb)
}

// countOutliers applies the 1.5 IQR fences
func countOutliers(data []float64, q25, q75 float64) int {
	iqr := q75 - q25
	lower := q25 - 1.5*iqr
	upper := q75 + 1.5*iqr

	n := 0
	for _, x := range data {
		if x < lower || x > upper {
			n++
		}
	}
	return n
}
