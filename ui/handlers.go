package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"path/filepath"

	"boardroom/domain/core"
	apperrors "boardroom/internal/errors"
	"boardroom/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// UploadField is the multipart field carrying the dataset file
const UploadField = "dataset"

type reportResponse struct {
	SessionID core.SessionID `json:"session_id"`
	Name      string         `json:"name"`
	CreatedAt core.Timestamp `json:"created_at"`
	Domain    string         `json:"domain"`
	Report    string         `json:"report"`
	Rows      int            `json:"rows"`
	Columns   []string       `json:"columns"`
	Cleaning  interface{}    `json:"cleaning"`
	Profile   interface{}    `json:"profile"`
	Details   interface{}    `json:"details"`
	Charts    interface{}    `json:"charts"`
	ChartURLs []string       `json:"chart_urls,omitempty"`
}

func toResponse(sess *session.Session) reportResponse {
	res := sess.Result
	return reportResponse{
		SessionID: sess.ID,
		Name:      sess.Name,
		CreatedAt: sess.CreatedAt,
		Domain:    string(res.Domain),
		Report:    res.Summary,
		Rows:      res.Rows,
		Columns:   res.Columns,
		Cleaning:  res.Cleaning,
		Profile:   res.Profile,
		Details:   res.Report,
		Charts:    res.Charts,
		ChartURLs: chartURLs(sess),
	}
}

// chartURLs lists where the rendered chart images of a session are served
func chartURLs(sess *session.Session) []string {
	var out []string
	for _, path := range sess.Result.ChartFiles {
		out = append(out, "/api/reports/"+sess.ID.String()+"/charts/"+filepath.Base(path))
	}
	return out
}

// respondError maps domain and application errors onto HTTP statuses
func (s *Server) respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if apperrors.GetCode(err) == "UNKNOWN" && core.IsNotFoundError(err) {
		status = http.StatusNotFound
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("[HTTP] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error(), "code": apperrors.GetCode(err)})
}

func (s *Server) lookup(c *gin.Context) (*session.Session, bool) {
	id, err := core.ParseSessionID(c.Param("id"))
	if err != nil {
		s.respondError(c, apperrors.InvalidInput(err.Error()))
		return nil, false
	}
	sess, err := s.sessions.Get(id)
	if err != nil {
		s.respondError(c, err)
		return nil, false
	}
	return sess, true
}

// runUpload reads the multipart dataset and runs the pipeline over it
func (s *Server) runUpload(c *gin.Context) (*session.Session, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUploadBytes)
	fh, err := c.FormFile(UploadField)
	if err != nil {
		return nil, apperrors.InvalidInput(fmt.Sprintf("multipart field %q is required: %v", UploadField, err))
	}
	f, err := fh.Open()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open upload")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to read upload")
	}

	res, err := s.service.Run(c.Request.Context(), fh.Filename, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	sess := s.sessions.Create(fh.Filename, core.NewHash(data), res)
	s.logger.Info("[HTTP] Session %s created for %s (%s)", sess.ID, fh.Filename, sess.Fingerprint.Short())
	return sess, nil
}

func (s *Server) handleCreateReport(c *gin.Context) {
	sess, err := s.runUpload(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toResponse(sess))
}

func (s *Server) handleUploadForm(c *gin.Context) {
	sess, err := s.runUpload(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/reports/"+sess.ID.String())
}

func (s *Server) handleListReports(c *gin.Context) {
	list := s.sessions.List()
	out := make([]reportResponse, 0, len(list))
	for _, sess := range list {
		out = append(out, toResponse(sess))
	}
	c.JSON(http.StatusOK, gin.H{"reports": out})
}

func (s *Server) handleGetReport(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toResponse(sess))
}

func (s *Server) handleDeleteReport(c *gin.Context) {
	id, err := core.ParseSessionID(c.Param("id"))
	if err != nil {
		s.respondError(c, apperrors.InvalidInput(err.Error()))
		return
	}
	if err := s.sessions.Delete(id); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleChart serves a rendered chart image. Only files recorded on the
// session are served.
func (s *Server) handleChart(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	name := c.Param("file")
	for _, path := range sess.Result.ChartFiles {
		if filepath.Base(path) == name {
			c.File(path)
			return
		}
	}
	s.respondError(c, apperrors.NotFound("chart "+name))
}

type askRequest struct {
	Question string `json:"question" binding:"required"`
}

func (s *Server) handleAsk(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, apperrors.InvalidInput("body must be {\"question\": \"...\"}"))
		return
	}
	answer, err := s.service.Ask(c.Request.Context(), sess.Result.Dataset, req.Question)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"question": req.Question, "answer": answer})
}

func (s *Server) handleQuestions(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	questions, err := s.service.SuggestQuestions(c.Request.Context(), sess.Result.Dataset)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

func (s *Server) handleIndex(c *gin.Context) {
	s.renderTemplate(c, "index.html", gin.H{"Title": "Reports", "Sessions": s.sessions.List()})
}

func (s *Server) handleReportPage(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	s.renderTemplate(c, "report.html", gin.H{
		"Title":      sess.Name,
		"Session":    sess,
		"ReportHTML": ReportHTML(sess.Result.Summary),
		"ChartURLs":  chartURLs(sess),
	})
}

// ReportHTML renders the plain-text report as HTML. The report already uses
// markdown list syntax for its statistics.
func ReportHTML(report string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	r := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags | mdhtml.SkipHTML})
	return template.HTML(markdown.ToHTML([]byte(report), p, r))
}

// renderTemplate executes into a buffer first so a template error never
// produces a half written page
func (s *Server) renderTemplate(c *gin.Context, name string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("[HTTP] Template error for %s: %v", name, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "template rendering failed"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) handleUsage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"total_tokens": s.usage.TotalTokens(), "providers": s.usage.Summary()})
}
