package ui

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"boardroom/app"
	"boardroom/internal"
	"boardroom/internal/session"
	"boardroom/internal/usage"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server is the HTTP surface over the report pipeline
type Server struct {
	router         *gin.Engine
	service        *app.ReportService
	sessions       *session.Store
	templates      *template.Template
	usage          *usage.Service
	logger         *internal.Logger
	maxUploadBytes int64
	httpServer     *http.Server
}

// Options configures a Server
type Options struct {
	MaxUploadBytes int64
	Logger         *internal.Logger
	Usage          *usage.Service // nil creates a private tracker
}

// NewServer wires routes around the service and an in-memory session store
func NewServer(service *app.ReportService, store *session.Store, opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = internal.NewNopLogger()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 1 << 30
	}
	if store == nil {
		store = session.NewStore(0)
	}
	if opts.Usage == nil {
		opts.Usage = usage.NewService(opts.Logger)
	}

	templates, err := template.New("").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		router:         gin.New(),
		service:        service,
		sessions:       store,
		templates:      templates,
		usage:          opts.Usage,
		logger:         opts.Logger,
		maxUploadBytes: opts.MaxUploadBytes,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.sessions.Len()})
	})

	s.router.GET("/", s.handleIndex)
	s.router.POST("/reports", s.handleUploadForm)
	s.router.GET("/reports/:id", s.handleReportPage)

	api := s.router.Group("/api")
	{
		api.GET("/reports", s.handleListReports)
		api.POST("/reports", s.handleCreateReport)
		api.GET("/reports/:id", s.handleGetReport)
		api.DELETE("/reports/:id", s.handleDeleteReport)
		api.GET("/reports/:id/charts/:file", s.handleChart)
		api.POST("/reports/:id/ask", s.handleAsk)
		api.POST("/reports/:id/questions", s.handleQuestions)
		api.GET("/usage", s.handleUsage)
	}
}

// Start listens on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context, addr string) error {
	s.httpServer = &http.Server{Addr: addr, Handler: s.router}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("[Server] Listening on %s", addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("[Server] Shutting down")
		return s.httpServer.Shutdown(shutdownCtx)
	}
}
