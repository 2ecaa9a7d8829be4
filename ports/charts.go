package ports

import (
	"context"

	"boardroom/domain/chart"
)

// ChartRenderer draws a planned chart and returns where it was written
type ChartRenderer interface {
	Render(ctx context.Context, c chart.Chart) (string, error)
}

// ScopedChartRenderer is a renderer that can keep the files of one run apart
// from every other run
type ScopedChartRenderer interface {
	ChartRenderer
	Scoped(run string) ChartRenderer
}
