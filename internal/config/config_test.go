package config_test

import (
	"testing"
	"time"

	"github.com/UnknownOlympus/trajmap/internal/config"
	"github.com/UnknownOlympus/trajmap/internal/simulation"
	"github.com/stretchr/testify/assert"
)

func Test_MustLoadFromEnv(t *testing.T) {
	t.Setenv("TRAJMAP_ENV", "local")
	t.Setenv("TRAJMAP_ENGINE_TYPE", "exec")
	t.Setenv("TRAJMAP_ENGINE_PATH", "/opt/mc/run")
	t.Setenv("TRAJMAP_ENGINE_TIMEOUT", "30s")
	t.Setenv("TRAJMAP_AIM_FIELD_OFFSET", "1")
	t.Setenv("TRAJMAP_GEOCODER_TYPE", "google")
	t.Setenv("TRAJMAP_GEOCODER_KEY", "testAPIKey")
	t.Setenv("TRAJMAP_TRACING_ENABLED", "TRUE")
	t.Setenv("TRAJMAP_TRACING_EXPORTER", "OTLP")
	t.Setenv("TRAJMAP_TRACING_ENDPOINT", "collector:4317")
	t.Setenv("TRAJMAP_TRACING_SAMPLE_RATIO", "0.25")
	t.Setenv("DB_HOST", "testHost")
	t.Setenv("DB_PORT", "12345")
	t.Setenv("DB_USERNAME", "admin")
	t.Setenv("DB_PASSWORD", "adminpass")
	t.Setenv("DB_NAME", "testName")

	cfg := config.MustLoad()

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, 8000, cfg.HTTPPort)
	assert.Equal(t, 8080, cfg.HealthPort)
	assert.Equal(t, "exec", cfg.Engine.Type)
	assert.Equal(t, "/opt/mc/run", cfg.Engine.Path)
	assert.Equal(t, "mc_run_wrapper", cfg.Engine.Function)
	assert.Equal(t, 30*time.Second, cfg.Engine.Timeout)
	assert.Equal(t, 1, cfg.Engine.AimOffset)
	assert.Equal(t, 1, cfg.Engine.StrikeOffset)
	assert.Equal(t, "google", cfg.Geocoder.Type)
	assert.Equal(t, "testAPIKey", cfg.Geocoder.APIKey)
	assert.Equal(t, time.Hour, cfg.Geocoder.CacheTTL)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, "otlp", cfg.Tracing.Exporter)
	assert.Equal(t, "collector:4317", cfg.Tracing.Endpoint)
	assert.InDelta(t, 0.25, cfg.Tracing.SampleRatio, 0)
	assert.Equal(t, "testHost", cfg.Database.Host)
	assert.Equal(t, "12345", cfg.Database.Port)
	assert.Equal(t, "admin", cfg.Database.User)
	assert.Equal(t, "adminpass", cfg.Database.Password)
	assert.Equal(t, "testName", cfg.Database.Name)
}

func TestMustLoad_Defaults(t *testing.T) {
	t.Setenv("DB_HOST", "")

	cfg := config.MustLoad()

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "scatter", cfg.Engine.Type)
	assert.Equal(t, 2*time.Minute, cfg.Engine.Timeout)
	assert.Equal(t, 1, cfg.Engine.RateLimit)
	assert.Equal(t, simulation.AutoOffset, cfg.Engine.AimOffset)
	assert.Equal(t, "none", cfg.Geocoder.Type)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Empty(t, cfg.Database.Host)
	assert.Empty(t, cfg.ParamsFile)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, "stdout", cfg.Tracing.Exporter)
	assert.Equal(t, "trajmap", cfg.Tracing.ServiceName)
	assert.InDelta(t, 1.0, cfg.Tracing.SampleRatio, 0)
}

func TestMustLoad_Errors(t *testing.T) {
	tests := []struct {
		key   string
		value string
		panic string
	}{
		{"TRAJMAP_HTTP_PORT", "error_value", "failed to parse port for session API from configuration"},
		{"TRAJMAP_HEALTH_PORT", "error_value", "failed to parse port for monitoring server from configuration"},
		{"TRAJMAP_ENGINE_TIMEOUT", "error_value", "failed to parse engine timeout from configuration"},
		{"TRAJMAP_ENGINE_TIMEOUT", "-1s", "failed to parse engine timeout from configuration"},
		{"TRAJMAP_ENGINE_RATE", "fast", "failed to parse engine rate from configuration, must be an integer types"},
		{
			"TRAJMAP_AIM_FIELD_OFFSET", "-2",
			"failed to parse aim field offset from configuration, must be auto or a non-negative integer",
		},
		{
			"TRAJMAP_STRIKE_FIELD_OFFSET", "x",
			"failed to parse strike field offset from configuration, must be a non-negative integer",
		},
		{"TRAJMAP_GEOCODER_CACHE_TTL", "forever", "failed to parse geocoder cache ttl from configuration"},
		{"TRAJMAP_GEOCODER_RATE", "1.5", "failed to parse geocoder rate from configuration, must be an integer types"},
		{"TRAJMAP_TRACING_ENABLED", "maybe", "failed to parse tracing switch from configuration, must be true or false"},
		{
			"TRAJMAP_TRACING_SAMPLE_RATIO", "3",
			"failed to parse tracing sample ratio from configuration, must be between 0 and 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			assert.PanicsWithValue(t, tt.panic, func() {
				config.MustLoad()
			})
		})
	}
}
