package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/trajmap/internal/simulation"
	"github.com/joho/godotenv"
)

// Config holds the configuration settings for the trajectory session controller.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - HTTPPort: The port for the session API.
// - HealthPort: The port for the monitoring server.
// - Engine: Which simulation engine to call and how.
// - ParamsFile: Optional run-parameter override file.
// - Geocoder: Place-name lookup for the location bar.
// - LogFile: Optional rotating log file; logs go to stdout when empty.
// - Tracing: OpenTelemetry span export for simulation runs.
// - Database: Configuration settings for the PostgreSQL run journal.
type Config struct {
	Env        string         `yaml:"env"`         // Env is the current environment: local, development, production.
	HTTPPort   int            `yaml:"http.port"`   // HTTPPort is the session API port.
	HealthPort int            `yaml:"health.port"` // HealthPort is the monitoring server port.
	Engine     EngineConfig   `yaml:"engine"`      // Engine holds the simulation engine settings.
	ParamsFile string         `yaml:"params_file"` // ParamsFile overrides default run parameters.
	Geocoder   GeocoderConfig `yaml:"geocoder"`    // Geocoder holds the place-name lookup settings.
	LogFile    string         `yaml:"log_file"`    // LogFile is the rotating log file path.
	Tracing    TracingConfig  `yaml:"tracing"`     // Tracing holds the span export settings.
	Database   PostgresConfig `yaml:"postgres"`    // Database holds the postgres database configuration.
}

// EngineConfig selects and tunes the simulation engine.
type EngineConfig struct {
	Type         string        `yaml:"type"`          // Type is scatter, exec or http.
	Path         string        `yaml:"path"`          // Path is the engine binary for exec.
	URL          string        `yaml:"url"`           // URL is the engine endpoint for http.
	Function     string        `yaml:"function"`      // Function is the engine entry point.
	Timeout      time.Duration `yaml:"timeout"`       // Timeout bounds one engine call, 0 disables it.
	RateLimit    int           `yaml:"rate"`          // RateLimit is requests per second for http.
	AimOffset    int           `yaml:"aim_offset"`    // AimOffset locates x in result row 0, or simulation.AutoOffset.
	StrikeOffset int           `yaml:"strike_offset"` // StrikeOffset locates x in strike rows.
}

// GeocoderConfig selects the place-name lookup provider.
type GeocoderConfig struct {
	Type      string        `yaml:"type"`      // Type is none, google or nominatim.
	APIKey    string        `yaml:"api_key"`   // APIKey is required for google.
	URL       string        `yaml:"url"`       // URL overrides the nominatim endpoint.
	RateLimit int           `yaml:"rate"`      // RateLimit is requests per second.
	CacheTTL  time.Duration `yaml:"cache_ttl"` // CacheTTL is how long lookups are remembered, 0 disables the cache.
}

// TracingConfig governs span export. Spans are dropped when Enabled is false.
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`      // Enabled turns span export on.
	ServiceName string  `yaml:"service_name"` // ServiceName labels exported spans.
	Exporter    string  `yaml:"exporter"`     // Exporter is stdout or otlp.
	Endpoint    string  `yaml:"endpoint"`     // Endpoint is the OTLP gRPC collector address.
	SampleRatio float64 `yaml:"sample_ratio"` // SampleRatio is the fraction of runs traced.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
// The journal is disabled when Host is empty.
type PostgresConfig struct {
	Host     string `yaml:"host"`                        // Host is the database server address.
	Port     string `yaml:"port"     env-default:"5432"` // Port is the database server port.
	User     string `yaml:"user"`                        // User is the database user.
	Password string `yaml:"password"`                    // Password is the database user's password.
	Name     string `yaml:"db_name"`                     // Name is the name of the database.
}

// MustLoad reads .env when present, then the environment, and panics on unparsable values.
func MustLoad() *Config {
	_ = godotenv.Load()

	httpPort, err := strconv.Atoi(setDefaultEnv("TRAJMAP_HTTP_PORT", "8000"))
	if err != nil {
		panic("failed to parse port for session API from configuration")
	}

	healthPort, err := strconv.Atoi(setDefaultEnv("TRAJMAP_HEALTH_PORT", "8080"))
	if err != nil {
		panic("failed to parse port for monitoring server from configuration")
	}

	timeout, err := time.ParseDuration(setDefaultEnv("TRAJMAP_ENGINE_TIMEOUT", "2m"))
	if err != nil || timeout < 0 {
		panic("failed to parse engine timeout from configuration")
	}

	engineRate, err := strconv.Atoi(setDefaultEnv("TRAJMAP_ENGINE_RATE", "1"))
	if err != nil {
		panic("failed to parse engine rate from configuration, must be an integer types")
	}

	aimOffset := simulation.AutoOffset
	if raw := setDefaultEnv("TRAJMAP_AIM_FIELD_OFFSET", "auto"); raw != "auto" {
		aimOffset, err = strconv.Atoi(raw)
		if err != nil || aimOffset < 0 {
			panic("failed to parse aim field offset from configuration, must be auto or a non-negative integer")
		}
	}

	strikeOffset, err := strconv.Atoi(setDefaultEnv("TRAJMAP_STRIKE_FIELD_OFFSET", "1"))
	if err != nil || strikeOffset < 0 {
		panic("failed to parse strike field offset from configuration, must be a non-negative integer")
	}

	cacheTTL, err := time.ParseDuration(setDefaultEnv("TRAJMAP_GEOCODER_CACHE_TTL", "1h"))
	if err != nil {
		panic("failed to parse geocoder cache ttl from configuration")
	}

	geocoderRate, err := strconv.Atoi(setDefaultEnv("TRAJMAP_GEOCODER_RATE", "1"))
	if err != nil {
		panic("failed to parse geocoder rate from configuration, must be an integer types")
	}

	tracingEnabled, err := strconv.ParseBool(setDefaultEnv("TRAJMAP_TRACING_ENABLED", "false"))
	if err != nil {
		panic("failed to parse tracing switch from configuration, must be true or false")
	}

	sampleRatio, err := strconv.ParseFloat(setDefaultEnv("TRAJMAP_TRACING_SAMPLE_RATIO", "1"), 64)
	if err != nil || sampleRatio < 0 || sampleRatio > 1 {
		panic("failed to parse tracing sample ratio from configuration, must be between 0 and 1")
	}

	return &Config{
		Env:        setDefaultEnv("TRAJMAP_ENV", "production"),
		HTTPPort:   httpPort,
		HealthPort: healthPort,
		Engine: EngineConfig{
			Type:         setDefaultEnv("TRAJMAP_ENGINE_TYPE", "scatter"),
			Path:         os.Getenv("TRAJMAP_ENGINE_PATH"),
			URL:          os.Getenv("TRAJMAP_ENGINE_URL"),
			Function:     setDefaultEnv("TRAJMAP_ENGINE_FUNCTION", "mc_run_wrapper"),
			Timeout:      timeout,
			RateLimit:    engineRate,
			AimOffset:    aimOffset,
			StrikeOffset: strikeOffset,
		},
		ParamsFile: os.Getenv("TRAJMAP_PARAMS_FILE"),
		Geocoder: GeocoderConfig{
			Type:      setDefaultEnv("TRAJMAP_GEOCODER_TYPE", "none"),
			APIKey:    os.Getenv("TRAJMAP_GEOCODER_KEY"),
			URL:       os.Getenv("TRAJMAP_GEOCODER_URL"),
			RateLimit: geocoderRate,
			CacheTTL:  cacheTTL,
		},
		LogFile: os.Getenv("TRAJMAP_LOG_FILE"),
		Tracing: TracingConfig{
			Enabled:     tracingEnabled,
			ServiceName: setDefaultEnv("TRAJMAP_TRACING_SERVICE_NAME", "trajmap"),
			Exporter:    strings.ToLower(setDefaultEnv("TRAJMAP_TRACING_EXPORTER", "stdout")),
			Endpoint:    os.Getenv("TRAJMAP_TRACING_ENDPOINT"),
			SampleRatio: sampleRatio,
		},
		Database: PostgresConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     setDefaultEnv("DB_PORT", "5432"),
			User:     os.Getenv("DB_USERNAME"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
		},
	}
}

func setDefaultEnv(key, override string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = override
	}

	return value
}
