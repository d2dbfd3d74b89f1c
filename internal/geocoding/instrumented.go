package geocoding

import (
	"context"

	"github.com/UnknownOlympus/trajmap/internal/metrics"
	"github.com/UnknownOlympus/trajmap/internal/models"
)

// InstrumentedProvider counts lookups by outcome.
type InstrumentedProvider struct {
	next    Provider
	name    string
	metrics *metrics.Metrics
}

// NewInstrumentedProvider labels next's lookups with name.
func NewInstrumentedProvider(next Provider, name string, m *metrics.Metrics) *InstrumentedProvider {
	return &InstrumentedProvider{next: next, name: name, metrics: m}
}

func (ip *InstrumentedProvider) Geocode(ctx context.Context, address string) (models.GeoPoint, error) {
	point, err := ip.next.Geocode(ctx, address)

	status := "success"
	if err != nil {
		status = "error"
	}
	ip.metrics.GeocodingRequests.WithLabelValues(ip.name, status).Inc()

	return point, err
}
