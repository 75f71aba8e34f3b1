// Package server exposes module documentation over HTTP: JSON for tooling,
// HTML for humans, plus health and metrics endpoints.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/smaximov/elixir-sense/internal/render"
	"github.com/smaximov/elixir-sense/pkg/docs"
)

// Server serves normalized documentation from a docs.Provider.
type Server struct {
	provider *docs.Provider
	logger   zerolog.Logger
	metrics  *Metrics
}

// New builds a docs server.
func New(provider *docs.Provider, logger zerolog.Logger) *Server {
	return &Server{provider: provider, logger: logger, metrics: NewMetrics()}
}

// Handler returns the full HTTP handler, middleware included.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/modules/{module}/docs", s.handleDocs)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())
	return withMiddleware(s.logger, mux)
}

// ListenAndServe runs the server until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info().Str("listen", addr).Msg("docs server starting")
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

type errorBody struct {
	Error string `json:"error"`
}

// handleDocs serves GET /v1/modules/{module}/docs?category=...&format=...
// category defaults to functions; format is json (default) or html.
func (s *Server) handleDocs(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	module := r.PathValue("module")

	category := r.URL.Query().Get("category")
	if category == "" {
		category = string(docs.CategoryFunctions)
	}
	cat, err := docs.ParseCategory(category)
	if err != nil {
		s.metrics.RecordRequest(category, http.StatusBadRequest, time.Since(start))
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	documentation, err := s.provider.Docs(module, cat)
	switch {
	case docs.Unavailable(err):
		s.metrics.RecordRequest(category, http.StatusNotFound, time.Since(start))
		writeJSON(w, http.StatusNotFound, errorBody{
			Error: fmt.Sprintf("no documentation available for %s", module),
		})
		return
	case err != nil:
		s.logger.Error().Err(err).Str("module", module).Msg("documentation lookup failed")
		s.metrics.RecordRequest(category, http.StatusInternalServerError, time.Since(start))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
		return
	}

	if r.URL.Query().Get("format") == "html" {
		page, err := htmlPage(module, documentation)
		if err != nil {
			s.logger.Error().Err(err).Str("module", module).Msg("html rendering failed")
			s.metrics.RecordRequest(category, http.StatusInternalServerError, time.Since(start))
			writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
			return
		}
		s.metrics.RecordRequest(category, http.StatusOK, time.Since(start))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
		return
	}

	s.metrics.RecordRequest(category, http.StatusOK, time.Since(start))
	writeJSON(w, http.StatusOK, documentation)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// htmlPage lays out one documentation category as a standalone HTML page.
func htmlPage(module string, documentation *docs.Documentation) (string, error) {
	title := fmt.Sprintf("%s — %s", module, documentation.Category)

	if documentation.Module != nil {
		text, _ := documentation.Module.Doc.Text()
		return render.Page(title, []render.Section{{Markdown: text}})
	}

	sections := make([]render.Section, 0, len(documentation.Entries))
	for _, entry := range documentation.Entries {
		heading := entry.ID.String()
		if len(entry.Args) > 0 {
			heading = fmt.Sprintf("%s(%s)", entry.ID.Name, strings.Join(entry.Args, ", "))
		}
		text, _ := entry.Doc.Text()
		sections = append(sections, render.Section{Title: heading, Markdown: text})
	}
	return render.Page(title, sections)
}
