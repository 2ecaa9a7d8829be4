package app

import (
	"context"
	"io"
	"strings"
	"time"

	"boardroom/domain/chart"
	"boardroom/domain/classify"
	"boardroom/domain/core"
	"boardroom/domain/dataset"
	"boardroom/internal"
	"boardroom/internal/aggregate"
	"boardroom/internal/cleaner"
	apperrors "boardroom/internal/errors"
	"boardroom/internal/profiling"
	"boardroom/internal/prompt"
	"boardroom/internal/visualize"
	"boardroom/ports"
)

// ReportService runs the load, clean, classify, aggregate and chart pipeline
// and routes dataset questions to the configured generator
type ReportService struct {
	loader    ports.DatasetLoader
	generator ports.Generator
	renderer  ports.ChartRenderer
	prompts   *prompt.Manager
	logger    *internal.Logger
}

// Result is everything one pipeline run produces
type Result struct {
	RunID      string                    `json:"run_id"`
	Name       string                    `json:"name"`
	Dataset    *dataset.Dataset          `json:"-"`
	Rows       int                       `json:"rows"`
	Columns    []string                  `json:"columns"`
	Cleaning   cleaner.Result            `json:"cleaning"`
	Profile    []profiling.ColumnProfile `json:"profile"`
	Domain     classify.Label            `json:"domain"`
	Report     aggregate.Report          `json:"details"`
	Summary    string                    `json:"report"`
	Charts     []chart.Chart             `json:"charts"`
	ChartFiles []string                  `json:"chart_files,omitempty"`
	RuntimeMs  int64                     `json:"runtime_ms"`
}

// Option configures a ReportService
type Option func(*ReportService)

// WithGenerator sets the text generator used by Ask and SuggestQuestions
func WithGenerator(g ports.Generator) Option {
	return func(s *ReportService) { s.generator = g }
}

// WithRenderer makes Run draw every planned chart
func WithRenderer(r ports.ChartRenderer) Option {
	return func(s *ReportService) { s.renderer = r }
}

// WithPrompts replaces the built-in prompt templates
func WithPrompts(m *prompt.Manager) Option {
	return func(s *ReportService) { s.prompts = m }
}

// WithLogger sets the service logger
func WithLogger(l *internal.Logger) Option {
	return func(s *ReportService) { s.logger = l }
}

// NewReportService creates a report service around a dataset loader
func NewReportService(loader ports.DatasetLoader, opts ...Option) *ReportService {
	s := &ReportService{
		loader:  loader,
		prompts: prompt.NewManager(""),
		logger:  internal.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes the pipeline for one upload. Load failures end the run; an
// unrecognized file type is reported as ErrNoDataset.
func (s *ReportService) Run(ctx context.Context, name string, r io.Reader) (*Result, error) {
	start := time.Now()

	ds, err := s.loader.Load(ctx, name, r)
	if err != nil {
		s.logger.Error("[Pipeline] Load failed for %s: %v", name, err)
		return nil, err
	}
	if ds == nil {
		return nil, &apperrors.AppError{
			Code:    apperrors.CodeInvalidInput,
			Message: "unsupported file type " + name,
			Cause:   core.ErrNoDataset,
		}
	}

	ds, cleaning := cleaner.Clean(ds)
	s.logger.Info("[Pipeline] Cleaned %s: %d duplicates removed, %d cells forward filled, %d back filled",
		name, cleaning.DuplicatesRemoved, cleaning.ForwardFilled, cleaning.BackFilled)
	for _, c := range cleaning.Conversions {
		s.logger.Debug("[Pipeline] Column %s %s %s", c.Column, c.Outcome, c.Reason)
	}

	// profiled before aggregation adds derived period columns
	profile := profiling.ProfileDataset(ds)

	domain := classify.ClassifyDataset(ds)
	s.logger.Info("[Pipeline] Detected domain: %s", domain)

	report := aggregate.Aggregate(ds, domain)
	charts := visualize.Plan(ds, domain)

	res := &Result{
		RunID:    core.NewID().String(),
		Name:     name,
		Dataset:  ds,
		Rows:     ds.Len(),
		Columns:  ds.Names(),
		Cleaning: cleaning,
		Profile:  profile,
		Domain:   domain,
		Report:   report,
		Summary:  report.String(),
		Charts:   charts,
	}

	if s.renderer != nil {
		renderer := s.renderer
		if scoped, ok := renderer.(ports.ScopedChartRenderer); ok {
			renderer = scoped.Scoped(res.RunID)
		}
		files, err := visualize.RenderAll(ctx, renderer, charts)
		if err != nil {
			s.logger.Warn("[Pipeline] Chart rendering stopped: %v", err)
		}
		res.ChartFiles = files
	}

	res.RuntimeMs = time.Since(start).Milliseconds()
	s.logger.Info("[Pipeline] %s done in %dms (%d charts)", name, res.RuntimeMs, len(charts))
	return res, nil
}

// Ask answers a natural language question about the dataset
func (s *ReportService) Ask(ctx context.Context, ds *dataset.Dataset, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", apperrors.InvalidInput("question is empty")
	}
	p, err := s.prompts.Answer(ds, question)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to build prompt")
	}
	return s.generate(ctx, p)
}

// SuggestQuestions asks the generator for questions with numeric answers
func (s *ReportService) SuggestQuestions(ctx context.Context, ds *dataset.Dataset) ([]string, error) {
	p, err := s.prompts.NumericQuestions(ds)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to build prompt")
	}
	text, err := s.generate(ctx, p)
	if err != nil {
		return nil, err
	}
	return prompt.ParseQuestions(text), nil
}

func (s *ReportService) generate(ctx context.Context, p string) (string, error) {
	if s.generator == nil {
		return "", &apperrors.AppError{
			Code:    apperrors.CodeLLMUnavailable,
			Message: "no LLM provider configured",
			Cause:   core.ErrGeneratorMissing,
		}
	}
	start := time.Now()
	text, err := s.generator.Generate(ctx, p)
	if err != nil {
		s.logger.Error("[Pipeline] Generation failed: %v", err)
		return "", err
	}
	s.logger.Debug("[Pipeline] Generation took %dms", time.Since(start).Milliseconds())
	return text, nil
}
