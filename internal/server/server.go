// Package server exposes the analysis pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/hejijunhao/logsentry/internal/metrics"
	"github.com/hejijunhao/logsentry/internal/model"
	"github.com/hejijunhao/logsentry/internal/parser"
	"github.com/hejijunhao/logsentry/internal/pipeline"
)

const defaultMaxBody = 32 << 20

// Server handles analysis requests. Each request is independent; the
// server keeps no log state between requests.
type Server struct {
	pipeline *pipeline.Pipeline
	metrics  *metrics.Metrics
	maxBody  int64
}

// New creates a Server. maxBody caps the request body in bytes; zero uses
// the 32 MiB default.
func New(p *pipeline.Pipeline, m *metrics.Metrics, maxBody int64) *Server {
	if maxBody <= 0 {
		maxBody = defaultMaxBody
	}
	return &Server{pipeline: p, metrics: m, maxBody: maxBody}
}

// Router returns the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/analyze", s.analyzeHandler).Methods(http.MethodPost)
	api.HandleFunc("/formats", s.formatsHandler).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }).Methods(http.MethodGet)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}
	return r
}

// AnalyzeResponse is the body returned by POST /api/v1/analyze.
type AnalyzeResponse struct {
	Format   string                 `json:"format"`
	Stats    model.ParseStats       `json:"stats"`
	Tally    model.EventTally       `json:"tally"`
	Findings []model.SecurityEvent  `json:"findings"`
	Skipped  []parser.RecordSkipped `json:"skipped,omitempty"`
	Entries  []model.LogEntry       `json:"entries,omitempty"`
	Summary  *SummaryBody           `json:"summary,omitempty"`
}

// SummaryBody carries the report text when a summary is requested.
type SummaryBody struct {
	ReportID string `json:"report_id"`
	Content  string `json:"content"`
	Degraded bool   `json:"degraded"`
}

type errorBody struct {
	Error string `json:"error"`
}

// analyzeHandler parses the request body as one log source.
// Query parameters: format (auto|syslog|windows|csv), name (used for
// extension-based selection), entries=true, summary=true.
func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format, ok := model.ParseFormat(q.Get("format"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: fmt.Sprintf("unknown format %q", q.Get("format"))})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: fmt.Sprintf("body exceeds %d bytes", tooLarge.Limit)})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "unreadable body"})
		return
	}

	a, err := s.pipeline.Analyze(q.Get("name"), string(body), format)
	if err != nil {
		slog.Info("analyze request rejected", "error", err)
		writeJSON(w, statusFor(err), errorBody{Error: err.Error()})
		return
	}

	resp := AnalyzeResponse{
		Format:   a.Format.String(),
		Stats:    a.Stats,
		Tally:    a.Tally,
		Findings: a.Findings,
		Skipped:  a.Skipped,
	}
	if resp.Findings == nil {
		resp.Findings = []model.SecurityEvent{}
	}
	if boolParam(q.Get("entries")) {
		resp.Entries = a.Entries
	}
	if boolParam(q.Get("summary")) {
		report := s.pipeline.Summarize(r.Context(), a)
		resp.Summary = &SummaryBody{ReportID: report.ID, Content: report.Content, Degraded: report.Degraded}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) formatsHandler(w http.ResponseWriter, r *http.Request) {
	var names []string
	for _, f := range parser.Formats() {
		names = append(names, f.String())
	}
	writeJSON(w, http.StatusOK, map[string][]string{"formats": names})
}

// statusFor maps parse errors to HTTP status codes.
func statusFor(err error) int {
	var fe *parser.FormatError
	var ce *parser.ConfigurationError
	switch {
	case errors.As(err, &fe), errors.As(err, &ce):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func boolParam(v string) bool {
	b, _ := strconv.ParseBool(v)
	return b
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ListenAndServe serves h on addr until ctx is cancelled, then shuts down
// gracefully within shutdownTimeout.
func ListenAndServe(ctx context.Context, addr string, h http.Handler, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("logsentry-server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
