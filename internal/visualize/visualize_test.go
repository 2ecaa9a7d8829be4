package visualize

import (
	"context"
	"errors"
	"testing"

	"boardroom/domain/chart"
	"boardroom/domain/classify"
	"boardroom/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, header []string, rows ...[]string) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.FromRecords(header, rows)
	require.NoError(t, err)
	return ds
}

func TestPlan_SalesTrend(t *testing.T) {
	ds := load(t, []string{"Date", "Sales"},
		[]string{"2023-02-10", "5"},
		[]string{"2023-01-01", "1"},
		[]string{"2023-01-20", "2"},
	)

	charts := Plan(ds, classify.Sales)

	require.Len(t, charts, 1)
	c := charts[0]
	assert.Equal(t, chart.Line, c.Kind)
	assert.Equal(t, "Monthly Sales Trend", c.Title)
	assert.Equal(t, []string{"2023-01", "2023-02"}, c.Labels)
	assert.Equal(t, []float64{3, 5}, c.Y)
}

func TestPlan_MarketingScatter(t *testing.T) {
	ds := load(t, []string{"Spend", "Revenue"}, []string{"1", "2"}, []string{"3", ""}, []string{"5", "6"})

	charts := Plan(ds, classify.Marketing)

	require.Len(t, charts, 1)
	assert.Equal(t, chart.Scatter, charts[0].Kind)
	assert.Equal(t, "Spend vs Revenue", charts[0].Title)
	assert.Equal(t, []float64{1, 5}, charts[0].X)
	assert.Equal(t, []float64{2, 6}, charts[0].Y)
}

func TestPlan_PerColumnFallback(t *testing.T) {
	// Sales label without a Date column falls through to per-column charts
	ds := load(t, []string{"Sales", "Region"}, []string{"1", "b"}, []string{"2", "a"}, []string{"3", "b"})

	charts := Plan(ds, classify.Sales)

	require.Len(t, charts, 2)
	assert.Equal(t, chart.Histogram, charts[0].Kind)
	assert.Equal(t, "Sales Distribution", charts[0].Title)
	assert.Len(t, charts[0].Bins, chart.DefaultBins)
	assert.Equal(t, chart.Bar, charts[1].Kind)
	assert.Equal(t, "Region Counts", charts[1].Title)
	assert.Equal(t, []string{"b", "a"}, charts[1].Labels)
	assert.Equal(t, []float64{2, 1}, charts[1].Y)
}

func TestBins_CoversEveryValue(t *testing.T) {
	values := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	bins := Bins(values, 5)

	require.Len(t, bins, 5)
	total := 0
	for _, b := range bins {
		total += b.Count
	}
	assert.Equal(t, len(values), total)
	assert.Equal(t, 0.0, bins[0].Low)
	assert.Equal(t, 3, bins[4].Count)
}

func TestBins_ConstantSample(t *testing.T) {
	bins := Bins([]float64{7, 7, 7}, 4)

	require.Len(t, bins, 4)
	assert.Equal(t, 6.5, bins[0].Low)
	total := 0
	for _, b := range bins {
		total += b.Count
	}
	assert.Equal(t, 3, total)
	assert.Nil(t, Bins(nil, 4))
}

func TestCountsOf_TiesByLabel(t *testing.T) {
	col := &dataset.Column{Name: "c", Values: []dataset.Value{
		dataset.Text("z"), dataset.Text("a"), dataset.Missing(), dataset.Text("m"), dataset.Text("m"),
	}}

	c := CountsOf(col)

	assert.Equal(t, []string{"m", "a", "z"}, c.Labels)
	assert.Equal(t, []float64{2, 1, 1}, c.Y)
}

type recordingRenderer struct {
	titles []string
	fail   bool
	failOn string
}

func (r *recordingRenderer) Render(_ context.Context, c chart.Chart) (string, error) {
	if r.fail || c.Title == r.failOn {
		return "", errors.New("disk full")
	}
	r.titles = append(r.titles, c.Title)
	return c.Title + ".png", nil
}

func TestRender(t *testing.T) {
	ds := load(t, []string{"a", "b"}, []string{"1", "x"})
	r := &recordingRenderer{}

	paths, err := Render(context.Background(), r, ds, classify.Generic)

	require.NoError(t, err)
	assert.Equal(t, []string{"a Distribution", "b Counts"}, r.titles)
	assert.Equal(t, []string{"a Distribution.png", "b Counts.png"}, paths)

	_, err = Render(context.Background(), &recordingRenderer{fail: true}, ds, classify.Generic)
	assert.ErrorContains(t, err, "disk full")
}

func TestPlan_SkipsEmptyColumns(t *testing.T) {
	ds := load(t, []string{"Region", "Notes", "Units"},
		[]string{"north", "", "1"},
		[]string{"south", "", "2"},
	)

	charts := Plan(ds, classify.Generic)

	require.Len(t, charts, 2)
	assert.Equal(t, "Region Counts", charts[0].Title)
	assert.Equal(t, "Units Distribution", charts[1].Title)
}

func TestPlan_EmptyTrend(t *testing.T) {
	ds := load(t, []string{"Date", "Sales"}, []string{"soon", "5"})
	assert.Empty(t, Plan(ds, classify.Sales))
}

func TestRenderAll_ContinuesPastFailure(t *testing.T) {
	ds := load(t, []string{"a", "b", "c"}, []string{"1", "x", "y"})
	r := &recordingRenderer{failOn: "b Counts"}

	paths, err := Render(context.Background(), r, ds, classify.Generic)

	assert.ErrorContains(t, err, `failed to render "b Counts"`)
	assert.Equal(t, []string{"a Distribution.png", "c Counts.png"}, paths)
}

func TestRenderAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ds := load(t, []string{"a"}, []string{"1"})

	paths, err := Render(ctx, &recordingRenderer{}, ds, classify.Generic)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, paths)
}
