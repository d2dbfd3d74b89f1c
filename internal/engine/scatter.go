package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/UnknownOlympus/trajmap/internal/geo"
)

// MaxRuns is the upper limit on Monte-Carlo samples per call.
const MaxRuns = 1000

const (
	defaultScatterRuns  = 10
	nominalFlightTime   = 1800.0 // seconds
	flightTimeSpread    = 5.0
	defaultImpactSpeed  = 7500.0 // m/s
	defaultPositionSpan = 100.0  // metres, one sigma
)

// ErrMissingAimpoint is returned when the call does not end with the aim latitude and longitude.
var ErrMissingAimpoint = errors.New("engine call must end with aim latitude and longitude")

// ScatterEngine is an in-process stand-in for the ballistic engine. It reproduces the
// engine's output layout with a Gaussian impact scatter around the requested aim point,
// sized by initial_pos_error. It does not model flight.
type ScatterEngine struct {
	mu  sync.Mutex
	rng *rand.Rand
	log *slog.Logger
}

// NewScatterEngine creates the stand-in engine. A zero seed picks one from the clock.
func NewScatterEngine(seed uint64, log *slog.Logger) *ScatterEngine {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &ScatterEngine{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		log: log,
	}
}

// Invoke returns "x, y, z" for the achieved aim point followed by one
// "t, x, y, z, vx, vy, vz" row per sample.
func (se *ScatterEngine) Invoke(ctx context.Context, function string, args []Arg) (string, error) {
	if len(args) < 2 {
		return "", ErrMissingAimpoint
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	aimLat := args[len(args)-2].Value
	aimLon := args[len(args)-1].Value
	named := make(map[string]float64, len(args))
	for _, arg := range args[:len(args)-2] {
		named[arg.Name] = arg.Value
	}

	runs := defaultScatterRuns
	if v, ok := named["num_runs"]; ok {
		runs = int(v)
	}
	runs = max(0, min(runs, MaxRuns))

	sigma := defaultPositionSpan
	if v, ok := named["initial_pos_error"]; ok {
		sigma = math.Abs(v)
	}
	speed := defaultImpactSpeed
	if v, ok := named["reentry_vel"]; ok && v > 0 {
		speed = v
	}

	se.log.DebugContext(ctx, "Scatter engine run", "function", function, "runs", runs, "sigma", sigma)

	aim := geo.GeographicToCartesian(geo.EarthRadius, aimLon, aimLat)
	east := [3]float64{-math.Sin(aimLon), math.Cos(aimLon), 0}
	north := [3]float64{
		-math.Sin(aimLat) * math.Cos(aimLon),
		-math.Sin(aimLat) * math.Sin(aimLon),
		math.Cos(aimLat),
	}
	up := [3]float64{aim.X / geo.EarthRadius, aim.Y / geo.EarthRadius, aim.Z / geo.EarthRadius}

	var out strings.Builder
	fmt.Fprintf(&out, "%f, %f, %f\n", aim.X, aim.Y, aim.Z)

	se.mu.Lock()
	defer se.mu.Unlock()

	for range runs {
		de := se.rng.NormFloat64() * sigma
		dn := se.rng.NormFloat64() * sigma
		x := aim.X + de*east[0] + dn*north[0]
		y := aim.Y + de*east[1] + dn*north[1]
		z := aim.Z + de*east[2] + dn*north[2]
		t := nominalFlightTime + se.rng.NormFloat64()*flightTimeSpread

		fmt.Fprintf(&out, "%f, %f, %f, %f, %f, %f, %f\n",
			t, x, y, z, -speed*up[0], -speed*up[1], -speed*up[2])
	}

	return out.String(), nil
}
