package main

import (
	"bytes"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/UnknownOlympus/trajmap/internal/config"
	"github.com/UnknownOlympus/trajmap/internal/geocoding"
	"github.com/UnknownOlympus/trajmap/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/natefinch/lumberjack.v2"
)

func TestSetupGeocoder(t *testing.T) {
	t.Parallel()
	m := metrics.NewMetrics(prometheus.NewRegistry())

	disabled, err := setupGeocoder(config.GeocoderConfig{Type: "none"}, m, slog.Default())
	require.NoError(t, err)
	assert.Nil(t, disabled)

	cached, err := setupGeocoder(config.GeocoderConfig{Type: "nominatim", RateLimit: 1, CacheTTL: time.Hour}, m, slog.Default())
	require.NoError(t, err)
	assert.IsType(t, &geocoding.CachedProvider{}, cached)

	uncached, err := setupGeocoder(config.GeocoderConfig{Type: "nominatim", RateLimit: 1}, m, slog.Default())
	require.NoError(t, err)
	assert.IsType(t, &geocoding.InstrumentedProvider{}, uncached)

	_, err = setupGeocoder(config.GeocoderConfig{Type: "google"}, m, slog.Default())
	assert.Error(t, err)
}

func TestLogOutput(t *testing.T) {
	t.Parallel()

	assert.Equal(t, os.Stdout, logOutput(""))

	rotating, ok := logOutput("/var/log/trajmap.log").(*lumberjack.Logger)
	require.True(t, ok)
	assert.Equal(t, "/var/log/trajmap.log", rotating.Filename)
	assert.Equal(t, 32, rotating.MaxSize)
}

func TestSetupLogger(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	logger := setupLogger(envProd, &out)
	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), `"msg":"shown"`)
	assert.NotContains(t, out.String(), `"time"`)

	out.Reset()
	setupLogger("bogus", &out)
	assert.Contains(t, out.String(), "available_envs")
}
