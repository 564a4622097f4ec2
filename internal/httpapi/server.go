package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/joelkehle/idea-simulation-engine/internal/apperr"
	"github.com/joelkehle/idea-simulation-engine/internal/knowledge"
	"github.com/joelkehle/idea-simulation-engine/internal/platform/logger"
	"github.com/joelkehle/idea-simulation-engine/internal/report"
	"github.com/joelkehle/idea-simulation-engine/internal/simulation"
)

const maxBodyBytes = 64 << 10

// Simulator runs one idea through the engine.
type Simulator interface {
	Run(ctx context.Context, idea string) (simulation.Result, error)
}

// ReportSource serves previously published reports.
type ReportSource interface {
	Open(ctx context.Context, reportID string) (report.Artifact, error)
	OpenWorkbook(ctx context.Context, reportID string) (report.Artifact, error)
}

type Options struct {
	Simulator Simulator
	Reports   ReportSource
	Knowledge *knowledge.Base
	// ProcessingDelay is slept before each simulation; zero disables it.
	ProcessingDelay time.Duration
	Logger          *logger.Logger
}

type Server struct {
	sim     Simulator
	reports ReportSource
	kb      *knowledge.Base
	delay   time.Duration
	log     *logger.Logger
}

func NewServer(opts Options) http.Handler {
	s := &Server{
		sim:     opts.Simulator,
		reports: opts.Reports,
		kb:      opts.Knowledge,
		delay:   opts.ProcessingDelay,
		log:     opts.Logger,
	}
	if s.kb == nil {
		s.kb = &knowledge.Base{}
	}
	if s.log == nil {
		s.log = logger.Nop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/simulate", s.handleSimulate)
		r.Post("/download-report", s.handleDownloadReport)
		r.Get("/reports/{id}", s.handleReport)
		r.Get("/reports/{id}/workbook", s.handleWorkbook)
		r.Get("/industry-ideas/{industry}", s.handleIndustryIdeas)
		r.Get("/knowledge/status", s.handleKnowledgeStatus)
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

// writeAppError maps error codes onto HTTP statuses and reports the
// outermost AppError message.
func (s *Server) writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch apperr.CodeOf(err) {
	case apperr.CodeInvalidInput:
		status = http.StatusBadRequest
	case apperr.CodeNotFound:
		status = http.StatusNotFound
	}
	msg := "internal error"
	var appErr *apperr.AppError
	if status != http.StatusInternalServerError && errors.As(err, &appErr) {
		msg = appErr.Message
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "error", err)
	}
	writeError(w, status, msg)
}

func decodeJSON(r *http.Request, dst any) error {
	blob, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return apperr.InvalidInput("could not read request body")
	}
	if len(strings.TrimSpace(string(blob))) == 0 {
		return nil
	}
	if err := json.Unmarshal(blob, dst); err != nil {
		return apperr.InvalidInput("invalid JSON body")
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Idea string `json:"idea"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Idea) == "" {
		writeError(w, http.StatusBadRequest, "No idea provided")
		return
	}
	if !s.wait(r.Context()) {
		return
	}

	res, err := s.sim.Run(r.Context(), req.Idea)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// wait sleeps for the processing delay. It returns false when the client
// went away first.
func (s *Server) wait(ctx context.Context) bool {
	if s.delay <= 0 {
		return true
	}
	t := time.NewTimer(s.delay)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *Server) handleDownloadReport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ReportID string `json:"report_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	if strings.TrimSpace(req.ReportID) == "" {
		writeError(w, http.StatusBadRequest, "report_id is required")
		return
	}
	s.serveArtifact(w, r, s.reports.Open, req.ReportID)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	s.serveArtifact(w, r, s.reports.Open, chi.URLParam(r, "id"))
}

func (s *Server) handleWorkbook(w http.ResponseWriter, r *http.Request) {
	s.serveArtifact(w, r, s.reports.OpenWorkbook, chi.URLParam(r, "id"))
}

func (s *Server) serveArtifact(w http.ResponseWriter, r *http.Request, open func(context.Context, string) (report.Artifact, error), reportID string) {
	a, err := open(r.Context(), reportID)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", a.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(a.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(a.Data)
}

func (s *Server) handleIndustryIdeas(w http.ResponseWriter, r *http.Request) {
	ideas, err := s.kb.Ideas.Lookup(chi.URLParam(r, "industry"))
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ideas": ideas})
}

func (s *Server) handleKnowledgeStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.kb.Status())
}
