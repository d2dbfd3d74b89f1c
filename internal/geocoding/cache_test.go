package geocoding_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/UnknownOlympus/trajmap/internal/geocoding"
	"github.com/UnknownOlympus/trajmap/internal/metrics"
	"github.com/UnknownOlympus/trajmap/internal/models"
	"github.com/UnknownOlympus/trajmap/test/mocks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedProvider(t *testing.T) {
	ctx := t.Context()
	canaveral := models.NewGeoPoint(28.39, -80.6)

	t.Run("hit skips the provider", func(t *testing.T) {
		next := mocks.NewProvider(t)
		cached := geocoding.NewCachedProvider(next, 0, time.Hour, slog.Default())

		next.On("Geocode", ctx, "Cape Canaveral").Return(canaveral, nil).Once()

		first, err := cached.Geocode(ctx, "Cape Canaveral")
		require.NoError(t, err)
		second, err := cached.Geocode(ctx, "  cape   CANAVERAL ")
		require.NoError(t, err)

		assert.Equal(t, canaveral, first)
		assert.Equal(t, canaveral, second)
		assert.Equal(t, 1, cached.Len())
	})

	t.Run("failures are not cached", func(t *testing.T) {
		next := mocks.NewProvider(t)
		cached := geocoding.NewCachedProvider(next, 0, time.Hour, slog.Default())

		next.On("Geocode", ctx, "Atlantis").Return(models.GeoPoint{}, assert.AnError).Twice()

		_, err := cached.Geocode(ctx, "Atlantis")
		require.ErrorIs(t, err, assert.AnError)
		_, err = cached.Geocode(ctx, "Atlantis")
		require.ErrorIs(t, err, assert.AnError)
		assert.Zero(t, cached.Len())
	})

	t.Run("entries expire", func(t *testing.T) {
		next := mocks.NewProvider(t)
		cached := geocoding.NewCachedProvider(next, 0, 10*time.Millisecond, slog.Default())

		next.On("Geocode", ctx, "Cape Canaveral").Return(canaveral, nil).Twice()

		_, err := cached.Geocode(ctx, "Cape Canaveral")
		require.NoError(t, err)
		require.Eventually(t, func() bool { return cached.Len() == 0 }, time.Second, 5*time.Millisecond)
		_, err = cached.Geocode(ctx, "Cape Canaveral")
		require.NoError(t, err)
	})
}

func TestInstrumentedProvider(t *testing.T) {
	ctx := t.Context()
	m := metrics.NewMetrics(prometheus.NewRegistry())
	next := mocks.NewProvider(t)
	provider := geocoding.NewInstrumentedProvider(next, "nominatim", m)

	next.On("Geocode", ctx, "Kourou").Return(models.NewGeoPoint(5.16, -52.65), nil).Once()
	next.On("Geocode", ctx, "Atlantis").Return(models.GeoPoint{}, assert.AnError).Once()

	_, err := provider.Geocode(ctx, "Kourou")
	require.NoError(t, err)
	_, err = provider.Geocode(ctx, "Atlantis")
	require.ErrorIs(t, err, assert.AnError)

	assert.InDelta(t, 1.0, testutil.ToFloat64(m.GeocodingRequests.WithLabelValues("nominatim", "success")), 0)
	assert.InDelta(t, 1.0, testutil.ToFloat64(m.GeocodingRequests.WithLabelValues("nominatim", "error")), 0)
}
