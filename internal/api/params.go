package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/UnknownOlympus/trajmap/internal/params"
)

var errMissingValue = errors.New(`body must be {"value": <number>}`)

type paramRequest struct {
	Value *json.Number `json:"value"`
}

func (s *Server) getParams(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := s.params.MarshalJSON()
	if err != nil {
		s.writeError(ctx, w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err = w.Write(body); err != nil {
		s.log.ErrorContext(ctx, "failed to write reply", "error", err)
	}
}

func (s *Server) putParam(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := r.PathValue("name")

	var req paramRequest
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		s.writeError(ctx, w, http.StatusBadRequest, fmt.Errorf("invalid parameter body: %w", err))
		return
	}
	if req.Value == nil {
		s.writeError(ctx, w, http.StatusBadRequest, errMissingValue)
		return
	}

	if err := s.params.Set(name, *req.Value); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, params.ErrUnknownParameter) {
			status = http.StatusNotFound
		}
		s.writeError(ctx, w, status, err)
		return
	}

	updated, err := s.params.Value(name)
	if err != nil {
		s.writeError(ctx, w, http.StatusInternalServerError, err)
		return
	}
	s.log.InfoContext(ctx, "Run parameter changed", "name", name, "value", updated.Value)

	s.writeJSON(ctx, w, http.StatusOK, updated)
}

func (s *Server) resetParams(w http.ResponseWriter, r *http.Request) {
	s.params.Reset()
	s.log.InfoContext(r.Context(), "Run parameters reset to defaults")
	s.getParams(w, r)
}
