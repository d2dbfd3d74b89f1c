// Package params holds the fixed, ordered set of numeric run parameters passed
// to the simulation engine on every run.
package params

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/UnknownOlympus/trajmap/internal/engine"
	"github.com/iancoleman/orderedmap"
)

// Errors returned by Set.
var (
	ErrUnknownParameter = errors.New("unknown run parameter")
	ErrTypeMismatch     = errors.New("run parameter type mismatch")
)

// Set is an ordered mapping of parameter name to typed value.
// The names, order and declared types are fixed at construction.
type Set struct {
	mu       sync.RWMutex
	values   *orderedmap.OrderedMap // name -> Parameter, in engine argument order
	defaults []Parameter
}

// NewSet creates a parameter set from a schema. The schema order is the engine argument order.
func NewSet(schema []Parameter) *Set {
	set := &Set{defaults: append([]Parameter(nil), schema...)}
	set.Reset()

	return set
}

// NewDefaultSet creates a parameter set from DefaultSchema.
func NewDefaultSet() *Set {
	return NewSet(DefaultSchema())
}

// Reset restores every parameter to its default value.
func (s *Set) Reset() {
	values := orderedmap.New()
	for _, p := range s.defaults {
		values.Set(p.Name, p)
	}

	s.mu.Lock()
	s.values = values
	s.mu.Unlock()
}

// Get returns all parameters in engine order.
func (s *Set) Get() []Parameter {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Parameter, 0, len(s.defaults))
	for _, name := range s.values.Keys() {
		v, _ := s.values.Get(name)
		out = append(out, v.(Parameter))
	}
	return out
}

// Len is the number of parameters.
func (s *Set) Len() int {
	return len(s.defaults)
}

// Value returns the current value of one parameter.
func (s *Set) Value(name string) (Parameter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values.Get(name)
	if !ok {
		return Parameter{}, fmt.Errorf("%w: %s", ErrUnknownParameter, name)
	}
	return v.(Parameter), nil
}

// Set replaces the value of a named parameter.
// Integer parameters accept Go integers and integral floats; float parameters accept any number.
func (s *Set) Set(name string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.values.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownParameter, name)
	}
	param := v.(Parameter)

	number, err := coerce(param.Type, value)
	if err != nil {
		return fmt.Errorf("%w: %s is %s: %w", ErrTypeMismatch, name, param.Type, err)
	}

	param.Value = number
	s.values.Set(name, param)

	return nil
}

// ApplyOverrides sets several parameters at once, in name order so errors are deterministic.
// It stops at the first failure; earlier overrides stay applied.
func (s *Set) ApplyOverrides(overrides map[string]any) error {
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := s.Set(name, overrides[name]); err != nil {
			return err
		}
	}
	return nil
}

// Args snapshots the parameters as positional engine arguments.
func (s *Set) Args() []engine.Arg {
	params := s.Get()
	args := make([]engine.Arg, len(params))
	for i, p := range params {
		args[i] = engine.Arg{Name: p.Name, Type: p.Type, Value: p.Value}
	}
	return args
}

// MarshalJSON encodes the set as an ordered object of name to value.
func (s *Set) MarshalJSON() ([]byte, error) {
	out := orderedmap.New()
	for _, p := range s.Get() {
		if p.Type == engine.Int {
			out.Set(p.Name, int64(p.Value))
			continue
		}
		out.Set(p.Name, p.Value)
	}
	return json.Marshal(out)
}

func coerce(typ engine.ScalarType, value any) (float64, error) {
	var number float64
	integral := true

	switch v := value.(type) {
	case int:
		number = float64(v)
	case int8:
		number = float64(v)
	case int16:
		number = float64(v)
	case int32:
		number = float64(v)
	case int64:
		number = float64(v)
	case uint:
		number = float64(v)
	case uint8:
		number = float64(v)
	case uint16:
		number = float64(v)
	case uint32:
		number = float64(v)
	case uint64:
		number = float64(v)
	case float32:
		number = float64(v)
		integral = false
	case float64:
		number = v
		integral = false
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", v.String())
		}
		number = f
		integral = false
	default:
		return 0, fmt.Errorf("got %T", value)
	}

	if math.IsNaN(number) || math.IsInf(number, 0) {
		return 0, fmt.Errorf("value %v is not finite", number)
	}

	if typ == engine.Int {
		if !integral && number != math.Trunc(number) {
			return 0, fmt.Errorf("value %v is not integral", number)
		}
		// Engine integers are C int.
		if number < math.MinInt32 || number > math.MaxInt32 {
			return 0, fmt.Errorf("value %v is out of int range", number)
		}
	}

	return number, nil
}
