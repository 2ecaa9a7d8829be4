package container

import (
	"fmt"
	"os"
	"path/filepath"

	"boardroom/adapters/charts"
	"boardroom/adapters/llm"
	"boardroom/adapters/loader"
	"boardroom/app"
	"boardroom/internal"
	"boardroom/internal/config"
	"boardroom/internal/prompt"
	"boardroom/internal/session"
	"boardroom/internal/usage"
	"boardroom/ports"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	Loader    *loader.Loader
	Generator ports.Generator
	Renderer  ports.ChartRenderer
	Prompts   *prompt.Manager
	Usage     *usage.Service

	Service  *app.ReportService
	Sessions *session.Store
}

// New builds every component from configuration. An unsupported provider is
// the only LLM setting that fails here; a missing key surfaces on first use.
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.NewNopLogger()
	}

	c := &Container{
		Config:   cfg,
		Logger:   logger,
		Prompts:  prompt.NewManager(cfg.AI.PromptsDir),
		Usage:    usage.NewService(logger),
	}
	c.Sessions = session.NewStore(cfg.Server.MaxSessions, session.WithDiscardHook(c.removeCharts))

	c.Loader = loader.New(loader.Options{
		ChunkThreshold: cfg.Loader.ChunkThresholdBytes,
		ChunkSize:      cfg.Loader.ChunkSizeBytes,
		Workers:        cfg.Loader.Workers,
	}, logger)

	var err error
	c.Generator, err = llm.New(llm.Config{
		Provider:  cfg.AI.Provider,
		Model:     cfg.AI.Model,
		APIKey:    cfg.AI.APIKey(),
		BaseURL:   cfg.AI.BaseURL,
		MaxTokens: cfg.AI.MaxTokens,
		Logger:    logger,
		Usage:     c.Usage,
	})
	if err != nil {
		return nil, err
	}

	opts := []app.Option{
		app.WithGenerator(c.Generator),
		app.WithPrompts(c.Prompts),
		app.WithLogger(logger),
	}
	if cfg.Charts.Dir != "" {
		c.Renderer = charts.NewPlotRenderer(cfg.Charts.Dir)
		opts = append(opts, app.WithRenderer(c.Renderer))
	}
	c.Service = app.NewReportService(c.Loader, opts...)

	logger.Info("[Container] LLM provider %s, charts %s", cfg.AI.Provider, chartTarget(cfg.Charts.Dir))
	return c, nil
}

// WithChartDir swaps in a renderer writing to dir, rebuilding the service
func (c *Container) WithChartDir(dir string) {
	if dir == "" {
		return
	}
	c.Config.Charts.Dir = dir
	c.Renderer = charts.NewPlotRenderer(dir)
	c.Service = app.NewReportService(c.Loader,
		app.WithGenerator(c.Generator),
		app.WithPrompts(c.Prompts),
		app.WithLogger(c.Logger),
		app.WithRenderer(c.Renderer),
	)
}

// removeCharts deletes the chart directory of a discarded session. Only
// directories directly under the configured chart directory are removed.
func (c *Container) removeCharts(sess *session.Session) {
	if sess.Result == nil || len(sess.Result.ChartFiles) == 0 || c.Config.Charts.Dir == "" {
		return
	}
	dir := filepath.Dir(sess.Result.ChartFiles[0])
	if filepath.Dir(dir) != filepath.Clean(c.Config.Charts.Dir) {
		return
	}
	if err := os.RemoveAll(dir); err != nil {
		c.Logger.Warn("[Container] Failed to remove charts of session %s: %v", sess.ID, err)
		return
	}
	c.Logger.Debug("[Container] Removed charts of session %s", sess.ID)
}

func chartTarget(dir string) string {
	if dir == "" {
		return "disabled"
	}
	return "written to " + dir
}
