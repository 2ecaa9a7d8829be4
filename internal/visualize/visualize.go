// Package visualize selects the exploratory charts for a classified dataset.
// Planning is pure; drawing is delegated to a ports.ChartRenderer.
package visualize

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"boardroom/domain/chart"
	"boardroom/domain/classify"
	"boardroom/domain/dataset"
	"boardroom/internal/aggregate"
	"boardroom/ports"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Plan returns the charts for the dataset. A Sales dataset with Date and Sales
// gets one monthly trend line, a Marketing dataset with Spend and Revenue gets
// one scatter; anything else gets one chart per column. Charts with nothing
// to draw, such as an all-missing column, are left out.
func Plan(ds *dataset.Dataset, label classify.Label) []chart.Chart {
	switch {
	case label == classify.Sales && ds.Has("Date", "Sales"):
		return nonEmpty(MonthlyTrend(ds, "Date", "Sales"))
	case label == classify.Marketing && ds.Has("Spend", "Revenue"):
		return nonEmpty(ScatterOf(ds, "Spend", "Revenue"))
	}
	charts := make([]chart.Chart, 0, ds.Width())
	for _, col := range ds.Columns() {
		if col.IsNumeric() {
			charts = append(charts, nonEmpty(HistogramOf(col, chart.DefaultBins))...)
		} else {
			charts = append(charts, nonEmpty(CountsOf(col))...)
		}
	}
	return charts
}

func nonEmpty(charts ...chart.Chart) []chart.Chart {
	out := charts[:0]
	for _, c := range charts {
		if c.Len() > 0 {
			out = append(out, c)
		}
	}
	return out
}

// Render plans the charts and hands each to the renderer, returning the
// locations it reports
func Render(ctx context.Context, renderer ports.ChartRenderer, ds *dataset.Dataset, label classify.Label) ([]string, error) {
	return RenderAll(ctx, renderer, Plan(ds, label))
}

// RenderAll draws already planned charts in order. A chart that fails is
// skipped and its error joined into the result; cancellation stops the run.
func RenderAll(ctx context.Context, renderer ports.ChartRenderer, charts []chart.Chart) ([]string, error) {
	var paths []string
	var errs []error
	for _, c := range charts {
		if err := ctx.Err(); err != nil {
			return paths, errors.Join(append(errs, err)...)
		}
		path, err := renderer.Render(ctx, c)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to render %q: %w", c.Title, err))
			continue
		}
		paths = append(paths, path)
	}
	return paths, errors.Join(errs...)
}

// MonthlyTrend is a line chart of valueCol summed per month
func MonthlyTrend(ds *dataset.Dataset, dateCol, valueCol string) chart.Chart {
	c := chart.Chart{Kind: chart.Line, Title: "Monthly Sales Trend", XLabel: "Month", YLabel: valueCol}
	sums := aggregate.PeriodSums(ds, dateCol, valueCol, aggregate.MonthKey)
	for pair := sums.Oldest(); pair != nil; pair = pair.Next() {
		c.Labels = append(c.Labels, pair.Key)
		c.Y = append(c.Y, pair.Value)
	}
	return c
}

// ScatterOf plots one point per row where both cells are numeric
func ScatterOf(ds *dataset.Dataset, xCol, yCol string) chart.Chart {
	c := chart.Chart{Kind: chart.Scatter, Title: fmt.Sprintf("%s vs %s", xCol, yCol), XLabel: xCol, YLabel: yCol}
	xs, ys := ds.Column(xCol).Values, ds.Column(yCol).Values
	for i := range xs {
		x, okX := xs[i].Float()
		y, okY := ys[i].Float()
		if okX && okY {
			c.X = append(c.X, x)
			c.Y = append(c.Y, y)
		}
	}
	return c
}

// HistogramOf bins the numeric cells of a column into equal width bins
func HistogramOf(col *dataset.Column, bins int) chart.Chart {
	c := chart.Chart{Kind: chart.Histogram, Title: col.Name + " Distribution", XLabel: col.Name, YLabel: "count"}
	for _, v := range col.Values {
		if f, ok := v.Float(); ok {
			c.Values = append(c.Values, f)
		}
	}
	c.Bins = Bins(c.Values, bins)
	return c
}

// Bins splits [min, max] into n equal width bins. The top edge is nudged up so
// the maximum lands in the last bin; a constant sample gets a unit wide range.
func Bins(values []float64, n int) []chart.Bin {
	if len(values) == 0 || n < 1 {
		return nil
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	dividers := make([]float64, n+1)
	floats.Span(dividers, lo, hi)
	dividers[n] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, sorted, nil)
	out := make([]chart.Bin, n)
	for i := range out {
		out[i] = chart.Bin{Low: dividers[i], High: dividers[i+1], Count: int(counts[i])}
	}
	return out
}

// CountsOf is a bar chart of distinct value counts, most frequent first and
// ties broken by label. Missing cells are not counted.
func CountsOf(col *dataset.Column) chart.Chart {
	c := chart.Chart{Kind: chart.Bar, Title: col.Name + " Counts", XLabel: col.Name, YLabel: "count"}
	counts := make(map[string]int)
	labels := make(map[string]string)
	for _, v := range col.Values {
		if v.IsMissing() {
			continue
		}
		key := v.Key()
		counts[key]++
		labels[key] = v.String()
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return labels[keys[i]] < labels[keys[j]]
	})
	for _, k := range keys {
		c.Labels = append(c.Labels, labels[k])
		c.Y = append(c.Y, float64(counts[k]))
	}
	return c
}
