// Package geocoding resolves place names typed into the location bar into geographic points.
package geocoding

import (
	"context"
	"errors"

	"github.com/UnknownOlympus/trajmap/internal/models"
)

// ErrEmptyAddress is returned when a lookup is requested for a blank place name.
var ErrEmptyAddress = errors.New("address is empty")

// Provider resolves a place name to a present geographic point.
type Provider interface {
	Geocode(ctx context.Context, address string) (models.GeoPoint, error)
}
