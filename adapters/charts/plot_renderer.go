package charts

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"boardroom/domain/chart"
	"boardroom/ports"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var barColor = color.RGBA{R: 0x4c, G: 0x72, B: 0xb0, A: 0xff}

// PlotRenderer draws charts as PNG files under Dir
type PlotRenderer struct {
	Dir    string
	Width  vg.Length
	Height vg.Length
}

// NewPlotRenderer creates a renderer writing 8x5 inch images into dir
func NewPlotRenderer(dir string) *PlotRenderer {
	return &PlotRenderer{Dir: dir, Width: 8 * vg.Inch, Height: 5 * vg.Inch}
}

// maxNameAttempts bounds the numeric suffixes tried for one file name
const maxNameAttempts = 1000

// Scoped returns a renderer writing into a subdirectory of Dir named after run
func (r *PlotRenderer) Scoped(run string) ports.ChartRenderer {
	sub := filepath.Base(filepath.Clean("/" + run))
	if sub == "/" || sub == "." {
		sub = "run"
	}
	return &PlotRenderer{Dir: filepath.Join(r.Dir, sub), Width: r.Width, Height: r.Height}
}

// Render draws the chart and returns the written file path. A title whose
// file name is already taken gets a numeric suffix such as _2.
func (r *PlotRenderer) Render(ctx context.Context, c chart.Chart) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p, err := Build(c)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create chart directory: %w", err)
	}
	wt, err := p.WriterTo(r.Width, r.Height, "png")
	if err != nil {
		return "", fmt.Errorf("failed to draw chart %q: %w", c.Title, err)
	}
	f, path, err := createUnique(r.Dir, FileName(c.Title))
	if err != nil {
		return "", err
	}
	if _, err := wt.WriteTo(f); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to save chart %q: %w", c.Title, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to save chart %q: %w", c.Title, err)
	}
	return path, nil
}

// createUnique claims name in dir, or the first free name_N variant
func createUnique(dir, name string) (*os.File, string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; i <= maxNameAttempts; i++ {
		candidate := name
		if i > 1 {
			candidate = fmt.Sprintf("%s_%d%s", stem, i, ext)
		}
		path := filepath.Join(dir, candidate)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to create chart file: %w", err)
		}
		return f, path, nil
	}
	return nil, "", fmt.Errorf("no free file name for %s", name)
}

// Build converts a chart description into a gonum plot
func Build(c chart.Chart) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel

	switch c.Kind {
	case chart.Line:
		pts := make(plotter.XYs, len(c.Y))
		for i, y := range c.Y {
			pts[i].X, pts[i].Y = float64(i), y
		}
		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return nil, fmt.Errorf("line %q: %w", c.Title, err)
		}
		p.Add(line, points)
		p.NominalX(c.Labels...)
	case chart.Scatter:
		pts := make(plotter.XYs, len(c.X))
		for i := range c.X {
			pts[i].X, pts[i].Y = c.X[i], c.Y[i]
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, fmt.Errorf("scatter %q: %w", c.Title, err)
		}
		p.Add(s)
	case chart.Histogram:
		h := &plotter.Histogram{FillColor: barColor, LineStyle: plotter.DefaultLineStyle}
		for _, b := range c.Bins {
			h.Bins = append(h.Bins, plotter.HistogramBin{Min: b.Low, Max: b.High, Weight: float64(b.Count)})
		}
		if len(c.Bins) > 0 {
			h.Width = c.Bins[0].High - c.Bins[0].Low
		}
		p.Add(h)
	case chart.Bar:
		bars, err := plotter.NewBarChart(plotter.Values(c.Y), vg.Points(16))
		if err != nil {
			return nil, fmt.Errorf("bar %q: %w", c.Title, err)
		}
		bars.Color = barColor
		p.Add(bars)
		p.NominalX(c.Labels...)
	default:
		return nil, fmt.Errorf("unknown chart kind %q", c.Kind)
	}
	return p, nil
}

// FileName turns a chart title into a file name such as sales_distribution.png
func FileName(title string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore && b.Len() > 0 {
			b.WriteByte('_')
			underscore = true
		}
	}
	name := strings.TrimSuffix(b.String(), "_")
	if name == "" {
		name = "chart"
	}
	return name + ".png"
}
