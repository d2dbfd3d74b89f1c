package engine_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/UnknownOlympus/trajmap/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// mockHTTPClient is a mock implementation of HTTPClient for testing.
type mockHTTPClient struct {
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.doFunc(req)
}

func sampleArgs() []engine.Arg {
	return []engine.Arg{
		{Name: "num_runs", Type: engine.Int, Value: 3},
		{Name: "initial_pos_error", Type: engine.Float, Value: 50},
		{Name: "aim_lat", Type: engine.Float, Value: 0.5},
		{Name: "aim_lon", Type: engine.Float, Value: -1.2},
	}
}

func TestArgString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "42", engine.Arg{Type: engine.Int, Value: 42}.String())
	assert.Equal(t, "-3", engine.Arg{Type: engine.Int, Value: -3}.String())
	assert.Equal(t, "0.1", engine.Arg{Type: engine.Float, Value: 0.1}.String())
	assert.Equal(t, "6.371e+06", engine.Arg{Type: engine.Float, Value: 6371e3}.String())
}

func TestNewEngine(t *testing.T) {
	logger := slog.Default()

	t.Run("create scatter engine successfully", func(t *testing.T) {
		eng, err := engine.NewEngine(engine.Config{Type: engine.TypeScatter, Seed: 1, Logger: logger})

		require.NoError(t, err)
		_, ok := eng.(*engine.ScatterEngine)
		assert.True(t, ok, "expected engine to be *ScatterEngine")
	})

	t.Run("create exec engine without path fails", func(t *testing.T) {
		eng, err := engine.NewEngine(engine.Config{Type: engine.TypeExec, Logger: logger})

		require.Error(t, err)
		require.Nil(t, eng)
		assert.Contains(t, err.Error(), "engine path is required")
	})

	t.Run("create http engine successfully", func(t *testing.T) {
		eng, err := engine.NewEngine(engine.Config{
			Type: engine.TypeHTTP, URL: "http://engine.local/run", RateLimit: 2, Timeout: time.Second, Logger: logger,
		})

		require.NoError(t, err)
		_, ok := eng.(*engine.HTTPEngine)
		assert.True(t, ok, "expected engine to be *HTTPEngine")
	})

	t.Run("create http engine without url fails", func(t *testing.T) {
		_, err := engine.NewEngine(engine.Config{Type: engine.TypeHTTP, Logger: logger})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "engine URL is required")
	})

	t.Run("unsupported engine type", func(t *testing.T) {
		eng, err := engine.NewEngine(engine.Config{Type: engine.Type("wasm"), Logger: logger})

		require.Error(t, err)
		require.Nil(t, eng)
		assert.Contains(t, err.Error(), "unsupported engine type: wasm")
	})
}

func TestHTTPEngine_Invoke(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()
	limiter := rate.NewLimiter(rate.Inf, 0)

	t.Run("successful invocation", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				assert.Equal(t, http.MethodPost, req.Method)
				assert.Equal(t, "application/json", req.Header.Get("Content-Type"))

				var body struct {
					Function string       `json:"function"`
					Args     []engine.Arg `json:"args"`
				}
				require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
				assert.Equal(t, engine.DefaultFunction, body.Function)
				assert.Len(t, body.Args, 4)
				assert.Equal(t, engine.Int, body.Args[0].Type)

				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString("1, 2, 3\n")),
				}, nil
			},
		}

		eng := engine.NewHTTPEngineWithClient(mockClient, "http://engine.local/run", limiter, logger)
		text, err := eng.Invoke(ctx, engine.DefaultFunction, sampleArgs())

		require.NoError(t, err)
		assert.Equal(t, "1, 2, 3\n", text)
	})

	t.Run("HTTP error status", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusInternalServerError,
					Body:       io.NopCloser(bytes.NewBufferString("solver crashed")),
				}, nil
			},
		}

		eng := engine.NewHTTPEngineWithClient(mockClient, "http://engine.local/run", limiter, logger)
		_, err := eng.Invoke(ctx, engine.DefaultFunction, sampleArgs())

		require.ErrorIs(t, err, engine.ErrUnavailable)
		assert.Contains(t, err.Error(), "engine service returned status 500")
	})

	t.Run("transport failure", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return nil, assert.AnError
			},
		}

		eng := engine.NewHTTPEngineWithClient(mockClient, "http://engine.local/run", limiter, logger)
		_, err := eng.Invoke(ctx, engine.DefaultFunction, sampleArgs())

		require.ErrorIs(t, err, engine.ErrUnavailable)
		require.ErrorIs(t, err, assert.AnError)
	})

	t.Run("rate limiter honours cancelled context", func(t *testing.T) {
		tight := rate.NewLimiter(rate.Every(time.Hour), 1)
		require.True(t, tight.Allow())
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		eng := engine.NewHTTPEngineWithClient(&mockHTTPClient{}, "http://engine.local/run", tight, logger)
		_, err := eng.Invoke(cctx, engine.DefaultFunction, sampleArgs())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "rate limit exceeded")
	})
}

func TestScatterEngine_Invoke(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("success - output layout", func(t *testing.T) {
		eng := engine.NewScatterEngine(42, logger)

		text, err := eng.Invoke(ctx, engine.DefaultFunction, sampleArgs())

		require.NoError(t, err)
		rows := strings.Split(strings.TrimSpace(text), "\n")
		require.Len(t, rows, 4)
		assert.Len(t, strings.Split(rows[0], ","), 3)
		for _, row := range rows[1:] {
			assert.Len(t, strings.Split(row, ","), 7)
		}
	})

	t.Run("success - same seed same output", func(t *testing.T) {
		a, err := engine.NewScatterEngine(7, logger).Invoke(ctx, engine.DefaultFunction, sampleArgs())
		require.NoError(t, err)
		b, err := engine.NewScatterEngine(7, logger).Invoke(ctx, engine.DefaultFunction, sampleArgs())
		require.NoError(t, err)

		assert.Equal(t, a, b)
	})

	t.Run("success - run count is capped", func(t *testing.T) {
		args := sampleArgs()
		args[0].Value = 5000

		text, err := engine.NewScatterEngine(1, logger).Invoke(ctx, engine.DefaultFunction, args)

		require.NoError(t, err)
		assert.Len(t, strings.Split(strings.TrimSpace(text), "\n"), engine.MaxRuns+1)
	})

	t.Run("error - missing aim point", func(t *testing.T) {
		_, err := engine.NewScatterEngine(1, logger).Invoke(ctx, engine.DefaultFunction, nil)

		require.ErrorIs(t, err, engine.ErrMissingAimpoint)
	})
}

func TestExecEngine_Invoke(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("success - arguments are passed positionally", func(t *testing.T) {
		path, err := exec.LookPath("echo")
		if err != nil {
			t.Skip("echo not available")
		}

		text, err := engine.NewExecEngine(path, logger).Invoke(ctx, engine.DefaultFunction, sampleArgs())

		require.NoError(t, err)
		assert.Equal(t, "mc_run_wrapper 3 50 0.5 -1.2", strings.TrimSpace(text))
	})

	t.Run("error - process fails", func(t *testing.T) {
		path, err := exec.LookPath("false")
		if err != nil {
			t.Skip("false not available")
		}

		_, err = engine.NewExecEngine(path, logger).Invoke(ctx, engine.DefaultFunction, sampleArgs())

		require.ErrorIs(t, err, engine.ErrUnavailable)
	})

	t.Run("error - binary missing", func(t *testing.T) {
		_, err := engine.NewExecEngine("/nonexistent/trajlib", logger).Invoke(ctx, engine.DefaultFunction, sampleArgs())

		require.ErrorIs(t, err, engine.ErrUnavailable)
	})
}
