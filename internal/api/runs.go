package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/UnknownOlympus/trajmap/internal/models"
	"github.com/UnknownOlympus/trajmap/internal/session"
	"github.com/UnknownOlympus/trajmap/internal/simulation"
)

const (
	defaultRunLimit = 20
	maxRunLimit     = 200
)

var errJournalDisabled = errors.New("run journal is disabled")

type runResponse struct {
	models.RunReport
	DurationMS int64 `json:"durationMs"`
}

type runSummary struct {
	RunID       string           `json:"runId"`
	Status      models.RunStatus `json:"status"`
	Error       string           `json:"error,omitempty"`
	Launchpoint models.GeoPoint  `json:"launchpoint"`
	Aimpoint    models.GeoPoint  `json:"aimpoint"`
	SimAimpoint models.GeoPoint  `json:"simAimpoint"`
	StrikeCount int              `json:"strikeCount"`
	CEPMeters   float64          `json:"cepMeters"`
	StartedAt   string           `json:"startedAt"`
	DurationMS  int64            `json:"durationMs"`
}

func (s *Server) postRun(w http.ResponseWriter, r *http.Request) {
	// A dropped connection must not abandon a run that is already underway.
	ctx := context.WithoutCancel(r.Context())

	report, err := s.runner.Run(ctx, s.session)
	if err != nil {
		s.writeError(ctx, w, runStatusCode(err), err)
		return
	}

	s.writeJSON(ctx, w, http.StatusOK, runResponse{RunReport: report, DurationMS: report.Duration.Milliseconds()})
}

func runStatusCode(err error) int {
	switch {
	case errors.Is(err, session.ErrAlreadyRunning):
		return http.StatusConflict
	case errors.Is(err, simulation.ErrNotReady):
		return http.StatusUnprocessableEntity
	case errors.Is(err, simulation.ErrEngineTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, simulation.ErrEngineInvocation), errors.Is(err, simulation.ErrMalformedResult):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if s.history == nil {
		s.writeError(ctx, w, http.StatusNotFound, errJournalDisabled)
		return
	}

	limit := defaultRunLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxRunLimit {
			s.writeError(ctx, w, http.StatusBadRequest,
				fmt.Errorf("limit must be an integer between 1 and %d", maxRunLimit))
			return
		}
		limit = n
	}

	records, err := s.history.ListRuns(ctx, limit)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to list runs", "error", err)
		s.writeError(ctx, w, http.StatusInternalServerError, errors.New("failed to list runs"))
		return
	}

	out := make([]runSummary, len(records))
	for i, rec := range records {
		out[i] = runSummary{
			RunID:       rec.RunID,
			Status:      rec.Status,
			Error:       rec.Error,
			Launchpoint: rec.Launchpoint,
			Aimpoint:    rec.Aimpoint,
			SimAimpoint: rec.SimAimpoint,
			StrikeCount: rec.StrikeCount,
			CEPMeters:   rec.CEPMeters,
			StartedAt:   rec.StartedAt.UTC().Format(time.RFC3339),
			DurationMS:  rec.Duration.Milliseconds(),
		}
	}

	s.writeJSON(ctx, w, http.StatusOK, out)
}
