package geocoding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/UnknownOlympus/trajmap/internal/models"
	"googlemaps.github.io/maps"
)

// GoogleProvider resolves place names with the Google Maps Geocoding API.
type GoogleProvider struct {
	client GoogleAPIClient
	log    *slog.Logger
}

// GoogleAPIClient is the part of *maps.Client used for lookups.
type GoogleAPIClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// ErrEmptyResponse is returned when the Google Maps API responds with an empty result.
var ErrEmptyResponse = errors.New("get empty response from Google Maps API")

// NewGoogleProvider wraps an already configured Google Maps client.
func NewGoogleProvider(client GoogleAPIClient, log *slog.Logger) *GoogleProvider {
	return &GoogleProvider{client: client, log: log}
}

// Geocode returns the location of the best match for address.
func (gp *GoogleProvider) Geocode(ctx context.Context, address string) (models.GeoPoint, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return models.GeoPoint{}, ErrEmptyAddress
	}

	gp.log.DebugContext(ctx, "Geocoding using Google Maps", "address", address)

	req := maps.GeocodingRequest{Address: address}
	results, err := gp.client.Geocode(ctx, &req)
	if err != nil {
		return models.GeoPoint{}, fmt.Errorf("failed to geocode address: %w", err)
	}

	if len(results) == 0 {
		return models.GeoPoint{}, ErrEmptyResponse
	}
	loc := results[0].Geometry.Location

	gp.log.DebugContext(ctx, "Google Maps found result",
		"address", address, "formatted", results[0].FormattedAddress, "lat", loc.Lat, "lon", loc.Lng)

	return models.NewGeoPoint(loc.Lat, loc.Lng), nil
}
