// Package api exposes the trajectory session to the map UI over HTTP.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/UnknownOlympus/trajmap/internal/geocoding"
	"github.com/UnknownOlympus/trajmap/internal/models"
	"github.com/UnknownOlympus/trajmap/internal/params"
	"github.com/UnknownOlympus/trajmap/internal/session"
)

// Runner performs one simulation for a session.
type Runner interface {
	Run(ctx context.Context, sess *session.Session) (models.RunReport, error)
}

// RunHistory lists journaled runs.
type RunHistory interface {
	ListRuns(ctx context.Context, limit int) ([]models.RunRecord, error)
}

// Server serves one session. The geocoder and history are optional.
type Server struct {
	log      *slog.Logger
	session  *session.Session
	params   *params.Set
	runner   Runner
	geocoder geocoding.Provider
	history  RunHistory
}

// NewServer creates the API for sess.
func NewServer(
	log *slog.Logger,
	sess *session.Session,
	set *params.Set,
	runner Runner,
	geocoder geocoding.Provider,
	history RunHistory,
) *Server {
	return &Server{
		log:      log,
		session:  sess,
		params:   set,
		runner:   runner,
		geocoder: geocoder,
		history:  history,
	}
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/session", s.getSession)
	mux.HandleFunc("PUT /api/session/{field}", s.putLocation)
	mux.HandleFunc("POST /api/runs", s.postRun)
	mux.HandleFunc("GET /api/runs", s.listRuns)
	mux.HandleFunc("GET /api/params", s.getParams)
	mux.HandleFunc("PUT /api/params/{name}", s.putParam)
	mux.HandleFunc("POST /api/params/reset", s.resetParams)

	return s.logRequests(mux)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r)

		s.log.DebugContext(r.Context(), "Served API request",
			"method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(status int) {
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.ErrorContext(ctx, "failed to write reply", "error", err)
	}
}

func (s *Server) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	s.writeJSON(ctx, w, status, errorResponse{Error: err.Error()})
}
