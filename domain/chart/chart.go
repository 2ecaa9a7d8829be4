// Package chart describes planned charts independently of how they are drawn.
package chart

// Kind of chart
type Kind string

const (
	Line      Kind = "line"
	Scatter   Kind = "scatter"
	Histogram Kind = "histogram"
	Bar       Kind = "bar"
)

// DefaultBins is the histogram bin count
const DefaultBins = 50

// Bin is one histogram bucket covering [Low, High)
type Bin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// Chart is a renderer-agnostic chart description. Line and bar charts use
// Labels with Y; scatter charts use X with Y; histograms carry their Values and
// the computed Bins.
type Chart struct {
	Kind   Kind      `json:"kind"`
	Title  string    `json:"title"`
	XLabel string    `json:"x_label"`
	YLabel string    `json:"y_label"`
	Labels []string  `json:"labels,omitempty"`
	X      []float64 `json:"x,omitempty"`
	Y      []float64 `json:"y,omitempty"`
	Values []float64 `json:"-"`
	Bins   []Bin     `json:"bins,omitempty"`
}

// Len is the number of plotted points or buckets
func (c Chart) Len() int {
	switch c.Kind {
	case Histogram:
		return len(c.Bins)
	case Scatter:
		return len(c.X)
	}
	return len(c.Labels)
}
