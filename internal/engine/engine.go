package engine

import (
	"context"
	"errors"
	"strconv"
)

// DefaultFunction is the engine entry point that runs a Monte-Carlo batch and returns impact data as text.
const DefaultFunction = "mc_run_wrapper"

// ScalarType is the declared type of one positional engine argument.
type ScalarType string

const (
	// Int arguments are passed as C int.
	Int ScalarType = "int"
	// Float arguments are passed as C double.
	Float ScalarType = "float"
)

// Arg is one positional, typed argument of an engine call.
// Value is integral whenever Type is Int.
type Arg struct {
	Name  string     `json:"name"`
	Type  ScalarType `json:"type"`
	Value float64    `json:"value"`
}

// String formats the value the way the engine parses it.
func (a Arg) String() string {
	if a.Type == Int {
		return strconv.FormatInt(int64(a.Value), 10)
	}
	return strconv.FormatFloat(a.Value, 'g', -1, 64)
}

// Engine is the narrow calling contract of the numeric simulation engine.
// Invoke blocks until the engine replies with a single text blob.
type Engine interface {
	Invoke(ctx context.Context, function string, args []Arg) (string, error)
}

// ErrUnavailable is returned when the engine cannot be reached or loaded.
var ErrUnavailable = errors.New("simulation engine unavailable")
