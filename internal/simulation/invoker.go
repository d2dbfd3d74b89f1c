// Package simulation marshals a run into the engine's calling convention,
// invokes the engine once and applies the parsed result to the session.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/trajmap/internal/analysis"
	"github.com/UnknownOlympus/trajmap/internal/engine"
	"github.com/UnknownOlympus/trajmap/internal/geo"
	"github.com/UnknownOlympus/trajmap/internal/metrics"
	"github.com/UnknownOlympus/trajmap/internal/models"
	"github.com/UnknownOlympus/trajmap/internal/params"
	"github.com/UnknownOlympus/trajmap/internal/session"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Run errors. Every one of them leaves the session out of the running state.
var (
	ErrNotReady         = errors.New("launch point and aim point must both be set")
	ErrEngineInvocation = errors.New("simulation engine invocation failed")
	ErrEngineTimeout    = errors.New("simulation engine did not respond in time")
)

// Journal records finished runs.
type Journal interface {
	RecordRun(ctx context.Context, record models.RunRecord) error
}

// Config holds invoker settings.
type Config struct {
	EngineName string        // Engine label for metrics and traces
	Function   string        // Engine entry point
	Layout     ResultLayout  // Coordinate offsets within result rows
	Timeout    time.Duration // Engine call deadline, 0 waits forever
	Journal    Journal       // Optional run journal
}

// Invoker runs simulations for a session.
type Invoker struct {
	log     *slog.Logger
	engine  engine.Engine
	params  *params.Set
	metrics *metrics.Metrics
	config  Config
	tracer  trace.Tracer
}

// NewInvoker creates an invoker bound to one engine and one parameter set.
func NewInvoker(
	log *slog.Logger,
	eng engine.Engine,
	set *params.Set,
	metrics *metrics.Metrics,
	config Config,
) *Invoker {
	if config.Function == "" {
		config.Function = engine.DefaultFunction
	}
	return &Invoker{
		log:     log,
		engine:  eng,
		params:  set,
		metrics: metrics,
		config:  config,
		tracer:  otel.Tracer("github.com/UnknownOlympus/trajmap/internal/simulation"),
	}
}

// BuildArgs appends the aim point in radians to the parameter snapshot.
func BuildArgs(set *params.Set, aim models.GeoPoint) []engine.Arg {
	return append(set.Args(),
		engine.Arg{Name: "aim_lat", Type: engine.Float, Value: geo.DegreesToRadians(aim.Latitude)},
		engine.Arg{Name: "aim_lon", Type: engine.Float, Value: geo.DegreesToRadians(aim.Longitude)},
	)
}

// Run performs one simulation for the session and blocks until the engine answers.
// On success the result is applied to the session; on failure the session only leaves running.
func (inv *Invoker) Run(ctx context.Context, sess *session.Session) (models.RunReport, error) {
	if !sess.IsReady() {
		return models.RunReport{}, ErrNotReady
	}

	token, err := sess.BeginRun()
	if err != nil {
		return models.RunReport{}, err
	}

	// The points may have been cleared between the readiness check and BeginRun.
	if !token.Launchpoint.Valid || !token.Aimpoint.Valid {
		inv.fail(ctx, sess, token)
		return models.RunReport{}, ErrNotReady
	}

	ctx, span := inv.tracer.Start(ctx, "simulation.run", trace.WithAttributes(
		attribute.String("run.id", token.ID.String()),
		attribute.String("engine", inv.config.EngineName),
		attribute.String("aimpoint", token.Aimpoint.String()),
	))
	defer span.End()

	inv.metrics.RunInProgress.Set(1)
	defer inv.metrics.RunInProgress.Set(0)

	inv.log.InfoContext(ctx, "Simulation run started",
		"run", token.ID, "launchpoint", token.Launchpoint.String(), "aimpoint", token.Aimpoint.String())

	args := BuildArgs(inv.params, token.Aimpoint)
	report, aimCart, strikesCart, err := inv.execute(ctx, token, args)
	status := statusOf(err)
	inv.metrics.RunsProcessed.WithLabelValues(string(status)).Inc()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		inv.log.ErrorContext(ctx, "Simulation run failed", "run", token.ID, "status", status, "error", err)
		inv.fail(ctx, sess, token)
		inv.record(ctx, token, status, err, models.RunReport{})
		return models.RunReport{}, err
	}

	if err = sess.CompleteRun(token, report.Result); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return models.RunReport{}, fmt.Errorf("failed to apply run result: %w", err)
	}

	report.CEPMeters = analysis.CEP(aimCart, strikesCart)
	inv.metrics.StrikePoints.Observe(float64(report.StrikeCount))
	span.SetAttributes(
		attribute.Int("strike.count", report.StrikeCount),
		attribute.Float64("cep.meters", report.CEPMeters),
	)
	inv.log.InfoContext(ctx, "Simulation run completed",
		"run", token.ID, "strikepoints", report.StrikeCount, "cep_m", report.CEPMeters, "duration", report.Duration)

	inv.record(ctx, token, status, nil, report)

	return report, nil
}

func (inv *Invoker) execute(
	ctx context.Context,
	token session.RunToken,
	args []engine.Arg,
) (models.RunReport, models.CartesianPoint, []models.CartesianPoint, error) {
	callCtx := ctx
	if inv.config.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, inv.config.Timeout)
		defer cancel()
	}

	startTime := time.Now()
	text, err := inv.engine.Invoke(callCtx, inv.config.Function, args)
	duration := time.Since(startTime)
	inv.metrics.EngineSeconds.WithLabelValues(inv.config.EngineName).Observe(duration.Seconds())

	if err != nil {
		inv.metrics.EngineErrors.Inc()
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return models.RunReport{}, models.CartesianPoint{}, nil,
				fmt.Errorf("%w: after %s: %w", ErrEngineTimeout, inv.config.Timeout, err)
		}
		return models.RunReport{}, models.CartesianPoint{}, nil, fmt.Errorf("%w: %w", ErrEngineInvocation, err)
	}

	aim, strikes, err := ParseResult(text, inv.config.Layout)
	if err != nil {
		inv.log.DebugContext(ctx, "Unparsable engine output", "run", token.ID, "text", text)
		return models.RunReport{}, models.CartesianPoint{}, nil, err
	}

	result := models.StrikeResult{
		SimAimpoint:  geo.ToGeoPoint(aim),
		Strikepoints: make([]models.GeoPoint, len(strikes)),
	}
	for i, s := range strikes {
		result.Strikepoints[i] = geo.ToGeoPoint(s)
	}

	return models.RunReport{
		RunID:       token.ID.String(),
		Result:      result,
		Duration:    duration,
		StartedAt:   token.StartedAt,
		StrikeCount: len(strikes),
	}, aim, strikes, nil
}

func (inv *Invoker) fail(ctx context.Context, sess *session.Session, token session.RunToken) {
	if err := sess.FailRun(token); err != nil {
		inv.log.ErrorContext(ctx, "Could not clear running run", "run", token.ID, "error", err)
	}
}

func (inv *Invoker) record(
	ctx context.Context,
	token session.RunToken,
	status models.RunStatus,
	runErr error,
	report models.RunReport,
) {
	if inv.config.Journal == nil {
		return
	}

	rec := models.RunRecord{
		RunID:        token.ID.String(),
		Status:       status,
		Launchpoint:  token.Launchpoint,
		Aimpoint:     token.Aimpoint,
		SimAimpoint:  report.Result.SimAimpoint,
		Strikepoints: report.Result.Strikepoints,
		StrikeCount:  report.StrikeCount,
		CEPMeters:    report.CEPMeters,
		StartedAt:    token.StartedAt,
		Duration:     report.Duration,
	}
	if runErr != nil {
		rec.Error = runErr.Error()
	}

	// The run outcome is already decided; a cancelled request must not drop the journal entry.
	if err := inv.config.Journal.RecordRun(context.WithoutCancel(ctx), rec); err != nil {
		inv.metrics.JournalErrors.Inc()
		inv.log.ErrorContext(ctx, "Failed to record run", "run", token.ID, "error", err)
	}
}

func statusOf(err error) models.RunStatus {
	switch {
	case err == nil:
		return models.RunStatusSuccess
	case errors.Is(err, ErrEngineTimeout):
		return models.RunStatusTimeout
	case errors.Is(err, ErrMalformedResult):
		return models.RunStatusMalformed
	default:
		return models.RunStatusEngine
	}
}
