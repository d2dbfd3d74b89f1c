package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/UnknownOlympus/trajmap/internal/geo"
	"github.com/UnknownOlympus/trajmap/internal/models"
	"github.com/UnknownOlympus/trajmap/internal/session"
)

var (
	errGeocoderDisabled = errors.New("place-name lookup is disabled")
	errHalfPoint        = errors.New("lat and lon must be given together")
)

type strikeMarker struct {
	Label string  `json:"label"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

type sessionResponse struct {
	ClickLoc     models.GeoPoint `json:"clickLoc"`
	Launchpoint  models.GeoPoint `json:"launchpoint"`
	Aimpoint     models.GeoPoint `json:"aimpoint"`
	SimAimpoint  models.GeoPoint `json:"simAimpoint"`
	Strikepoints []strikeMarker  `json:"strikepoints"`
	Running      bool            `json:"running"`
	Ready        bool            `json:"ready"`
	State        session.State   `json:"state"`
}

// locationRequest sets a point from exactly one of: a lat/lon pair, location-bar text or a place name.
// An empty object clears the point.
type locationRequest struct {
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
	Text    *string  `json:"text"`
	Address *string  `json:"address"`
}

func (s *Server) sessionView() sessionResponse {
	snap := s.session.Snapshot()

	markers := make([]strikeMarker, len(snap.Strikepoints))
	for i, p := range snap.Strikepoints {
		markers[i] = strikeMarker{Label: fmt.Sprintf("Strike Point %d", i+1), Lat: p.Latitude, Lon: p.Longitude}
	}

	return sessionResponse{
		ClickLoc:     snap.ClickLoc,
		Launchpoint:  snap.Launchpoint,
		Aimpoint:     snap.Aimpoint,
		SimAimpoint:  snap.SimAimpoint,
		Strikepoints: markers,
		Running:      snap.Running,
		Ready:        snap.Launchpoint.Valid && snap.Aimpoint.Valid,
		State:        snap.State(),
	}
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(r.Context(), w, http.StatusOK, s.sessionView())
}

func (s *Server) putLocation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var set func(models.GeoPoint)
	switch r.PathValue("field") {
	case "click":
		set = s.session.SetClickLocation
	case "launchpoint":
		set = s.session.SetLaunchpoint
	case "aimpoint":
		set = s.session.SetAimpoint
	default:
		http.NotFound(w, r)
		return
	}

	var req locationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(ctx, w, http.StatusBadRequest, fmt.Errorf("invalid location body: %w", err))
		return
	}

	var point models.GeoPoint
	switch {
	case req.Address != nil:
		if s.geocoder == nil {
			s.writeError(ctx, w, http.StatusBadRequest, errGeocoderDisabled)
			return
		}
		found, err := s.geocoder.Geocode(ctx, *req.Address)
		if err != nil {
			s.log.WarnContext(ctx, "Place-name lookup failed", "address", *req.Address, "error", err)
			s.writeError(ctx, w, http.StatusUnprocessableEntity, err)
			return
		}
		point = found
	case req.Text != nil:
		point = geo.ParseLocation(*req.Text)
	case (req.Lat == nil) != (req.Lon == nil):
		s.writeError(ctx, w, http.StatusBadRequest, errHalfPoint)
		return
	default:
		point = models.GeoPointFromPtrs(req.Lat, req.Lon)
	}

	set(point)
	s.log.DebugContext(ctx, "Session point updated", "field", r.PathValue("field"), "point", point.String())

	s.writeJSON(ctx, w, http.StatusOK, s.sessionView())
}
