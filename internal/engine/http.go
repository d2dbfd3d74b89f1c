package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// HTTPClient defines the interface for making HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPEngine calls an engine exposed as a web service.
type HTTPEngine struct {
	client  HTTPClient    // HTTP client for making requests
	url     string        // Engine endpoint
	log     *slog.Logger  // Logger for logging operations
	limiter *rate.Limiter // Rate limiter
}

type invokeRequest struct {
	Function string `json:"function"`
	Args     []Arg  `json:"args"`
}

// NewHTTPEngine creates an engine client for the given endpoint.
func NewHTTPEngine(url string, rateLimit int, timeout time.Duration, log *slog.Logger) *HTTPEngine {
	return NewHTTPEngineWithClient(&http.Client{Timeout: timeout}, url, newLimiter(rateLimit), log)
}

// NewHTTPEngineWithClient allows injecting a custom HTTP client and limiter.
func NewHTTPEngineWithClient(client HTTPClient, url string, limiter *rate.Limiter, log *slog.Logger) *HTTPEngine {
	return &HTTPEngine{client: client, url: url, log: log, limiter: limiter}
}

// Invoke posts the typed argument list and returns the response body as the engine's text result.
func (he *HTTPEngine) Invoke(ctx context.Context, function string, args []Arg) (string, error) {
	if err := he.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit exceeded: %w", err)
	}

	payload, err := json.Marshal(invokeRequest{Function: function, Args: args})
	if err != nil {
		return "", fmt.Errorf("failed to encode engine request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, he.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/plain")

	he.log.DebugContext(ctx, "Calling remote engine", "url", he.url, "function", function, "args", len(args))

	resp, err := he.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: failed to execute engine request: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		he.log.ErrorContext(ctx, "Engine service error", "status", resp.StatusCode, "body", string(body))
		return "", fmt.Errorf("%w: engine service returned status %d: %s", ErrUnavailable, resp.StatusCode, string(body))
	}

	return string(body), nil
}

func newLimiter(perSecond int) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(perSecond), perSecond)
}
