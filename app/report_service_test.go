package app

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"boardroom/adapters/loader"
	"boardroom/domain/chart"
	"boardroom/domain/classify"
	"boardroom/domain/core"
	apperrors "boardroom/internal/errors"
	"boardroom/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type stubGenerator struct {
	prompts []string
	reply   string
	err     error
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	return g.reply, g.err
}

type stubRenderer struct{ titles []string }

func (r *stubRenderer) Render(_ context.Context, c chart.Chart) (string, error) {
	r.titles = append(r.titles, c.Title)
	return "/charts/" + c.Title, nil
}

const salesCSV = "Date,Sales,Region\n" +
	"2023-01-15,100,north\n" +
	"2023-01-15,100,north\n" +
	"2024-01-15,150,\n"

type scopedRenderer struct {
	stubRenderer
	runs []string
}

func (r *scopedRenderer) Scoped(run string) ports.ChartRenderer {
	r.runs = append(r.runs, run)
	return &r.stubRenderer
}

func newService(opts ...Option) *ReportService {
	return NewReportService(loader.New(loader.Options{}, nil), opts...)
}

func TestRun_SalesPipeline(t *testing.T) {
	renderer := &stubRenderer{}
	svc := newService(WithRenderer(renderer))

	res, err := svc.Run(context.Background(), "sales.csv", strings.NewReader(salesCSV))

	require.NoError(t, err)
	assert.Equal(t, classify.Sales, res.Domain)
	assert.Equal(t, 1, res.Cleaning.DuplicatesRemoved)
	assert.Equal(t, 1, res.Cleaning.ForwardFilled)
	assert.Equal(t, 2, res.Rows)
	assert.Contains(t, res.Summary, "- YoY Growth: 50.00%\n")
	assert.Contains(t, res.Summary, "- Total Sales: 250.00\n")
	require.Len(t, res.Charts, 1)
	assert.Equal(t, "Monthly Sales Trend", res.Charts[0].Title)
	assert.Equal(t, []string{"Monthly Sales Trend"}, renderer.titles)
	assert.Equal(t, []string{"/charts/Monthly Sales Trend"}, res.ChartFiles)
	assert.True(t, res.Dataset.Has("Year", "Quarter", "Month"))
	require.Len(t, res.Profile, 3)
	assert.Equal(t, "Sales", res.Profile[1].Name)
	require.NotNil(t, res.Profile[1].Numeric)
	assert.Equal(t, 125.0, res.Profile[1].Numeric.Mean)
}

func TestRun_ExcelSalesPipeline(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	money := "#,##0.00"
	style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &money})
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Date", "Sales"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC), 1000.0}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), 1500.0}))
	require.NoError(t, f.SetCellStyle("Sheet1", "B2", "B3", style))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	res, err := newService().Run(context.Background(), "sales.xlsx", bytes.NewReader(buf.Bytes()))

	require.NoError(t, err)
	assert.Equal(t, classify.Sales, res.Domain)
	assert.Contains(t, res.Summary, "- Total Sales: 2500.00\n")
	assert.Contains(t, res.Summary, "- Yearly Breakdown: {2023: 1000.00, 2024: 1500.00}\n")
	assert.Contains(t, res.Summary, "- YoY Growth: 50.00%\n")
}

func TestRun_ScopesChartsPerRun(t *testing.T) {
	renderer := &scopedRenderer{}
	svc := newService(WithRenderer(renderer))

	first, err := svc.Run(context.Background(), "sales.csv", strings.NewReader(salesCSV))
	require.NoError(t, err)
	second, err := svc.Run(context.Background(), "sales.csv", strings.NewReader(salesCSV))
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, []string{first.RunID, second.RunID}, renderer.runs)
	assert.Len(t, second.ChartFiles, 1)
}

func TestRun_GenericPipeline(t *testing.T) {
	res, err := newService().Run(context.Background(), "misc.csv", strings.NewReader("a,b\n1,x\n2,y\n"))

	require.NoError(t, err)
	assert.Equal(t, classify.Generic, res.Domain)
	assert.Equal(t, "Generic dataset. Showing distributions and counts.", res.Summary)
	require.Len(t, res.Charts, 2)
	assert.Equal(t, chart.Histogram, res.Charts[0].Kind)
	assert.Equal(t, chart.Bar, res.Charts[1].Kind)
	assert.Empty(t, res.ChartFiles)
}

func TestRun_UnknownExtension(t *testing.T) {
	_, err := newService().Run(context.Background(), "data.json", strings.NewReader("{}"))

	assert.True(t, errors.Is(err, core.ErrNoDataset))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
}

func TestRun_LoadFailure(t *testing.T) {
	_, err := newService().Run(context.Background(), "broken.csv", strings.NewReader("a\n1,2\n"))

	assert.True(t, apperrors.HasCode(err, apperrors.CodeLoadFailed))
}

func TestAsk(t *testing.T) {
	gen := &stubGenerator{reply: "250"}
	svc := newService(WithGenerator(gen))
	res, err := svc.Run(context.Background(), "sales.csv", strings.NewReader(salesCSV))
	require.NoError(t, err)

	answer, err := svc.Ask(context.Background(), res.Dataset, "What are total sales?")

	require.NoError(t, err)
	assert.Equal(t, "250", answer)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Date, Sales, Region")
	assert.Contains(t, gen.prompts[0], "What are total sales?")
}

func TestAsk_Errors(t *testing.T) {
	res, err := newService().Run(context.Background(), "a.csv", strings.NewReader("a\n1\n"))
	require.NoError(t, err)

	_, err = newService(WithGenerator(&stubGenerator{})).Ask(context.Background(), res.Dataset, "  ")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))

	_, err = newService().Ask(context.Background(), res.Dataset, "why?")
	assert.True(t, errors.Is(err, core.ErrGeneratorMissing))

	boom := apperrors.ExternalServiceError("openai", errors.New("boom"))
	_, err = newService(WithGenerator(&stubGenerator{err: boom})).Ask(context.Background(), res.Dataset, "why?")
	assert.ErrorIs(t, err, boom)
}

func TestSuggestQuestions(t *testing.T) {
	gen := &stubGenerator{reply: "1. Total sales in 2024?\n2. Sales growth?\n"}
	svc := newService(WithGenerator(gen))
	res, err := svc.Run(context.Background(), "sales.csv", strings.NewReader(salesCSV))
	require.NoError(t, err)

	qs, err := svc.SuggestQuestions(context.Background(), res.Dataset)

	require.NoError(t, err)
	assert.Equal(t, []string{"Total sales in 2024?", "Sales growth?"}, qs)
	assert.Contains(t, gen.prompts[0], "single number")
}
