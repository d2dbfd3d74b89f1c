package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Type selects an engine implementation.
type Type string

const (
	// TypeScatter is the in-process stand-in engine.
	TypeScatter Type = "scatter"
	// TypeExec runs the engine as an external binary.
	TypeExec Type = "exec"
	// TypeHTTP calls a remote engine service.
	TypeHTTP Type = "http"
)

// Config holds configuration for creating an engine.
type Config struct {
	Type      Type          // Type of engine to create
	Path      string        // Binary path (exec engine)
	URL       string        // Service endpoint (http engine)
	RateLimit int           // Requests per second (http engine), 0 disables limiting
	Timeout   time.Duration // HTTP client timeout (http engine)
	Seed      uint64        // Random seed (scatter engine), 0 picks one
	Logger    *slog.Logger  // Logger for the engine
}

// NewEngine creates an engine based on the provided configuration.
func NewEngine(config Config) (Engine, error) {
	switch config.Type {
	case TypeScatter:
		return NewScatterEngine(config.Seed, config.Logger), nil
	case TypeExec:
		if config.Path == "" {
			return nil, errors.New("engine path is required for exec engine")
		}
		return NewExecEngine(config.Path, config.Logger), nil
	case TypeHTTP:
		if config.URL == "" {
			return nil, errors.New("engine URL is required for http engine")
		}
		return NewHTTPEngine(config.URL, config.RateLimit, config.Timeout, config.Logger), nil
	default:
		return nil, fmt.Errorf("unsupported engine type: %s", config.Type)
	}
}
