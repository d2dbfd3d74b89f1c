// Package session holds the interaction state of one operator's trajectory
// editing session and the transitions the UI layer and the simulation invoker
// act upon.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/UnknownOlympus/trajmap/internal/models"
	"github.com/brunoga/deep"
	"github.com/google/uuid"
)

// Errors returned by the run transitions.
var (
	ErrAlreadyRunning = errors.New("a simulation run is already in progress")
	ErrStaleRun       = errors.New("run token is not the outstanding run")
)

// State is derived from the session fields; it is never stored.
type State string

const (
	StateEmpty     State = "empty"
	StateLaunchSet State = "launch_set"
	StateAimSet    State = "aim_set"
	StateReady     State = "ready"
	StateRunning   State = "running"
)

// RunToken identifies one run and carries the points captured when it began.
type RunToken struct {
	ID          uuid.UUID
	Launchpoint models.GeoPoint
	Aimpoint    models.GeoPoint
	StartedAt   time.Time
}

// Snapshot is a detached copy of every session field.
type Snapshot struct {
	ClickLoc     models.GeoPoint   `json:"clickLoc"`
	Launchpoint  models.GeoPoint   `json:"launchpoint"`
	Aimpoint     models.GeoPoint   `json:"aimpoint"`
	SimAimpoint  models.GeoPoint   `json:"simAimpoint"`
	Strikepoints []models.GeoPoint `json:"strikepoints"`
	Running      bool              `json:"running"`
}

// Session is the single trajectory session of the process.
// The mutex only keeps field access race free; the one-run rule is the running flag plus token.
type Session struct {
	mu      sync.Mutex
	fields  Snapshot
	current uuid.UUID
	now     func() time.Time
}

// New creates an empty session: all points absent, not running.
func New() *Session {
	return &Session{
		fields: Snapshot{Strikepoints: []models.GeoPoint{}},
		now:    time.Now,
	}
}

// SetClickLocation records where the operator last clicked. Legal in any state.
func (s *Session) SetClickLocation(p models.GeoPoint) {
	s.mu.Lock()
	s.fields.ClickLoc = p
	s.mu.Unlock()
}

// SetLaunchpoint overwrites the launch point. Legal in any state, including while running.
func (s *Session) SetLaunchpoint(p models.GeoPoint) {
	s.mu.Lock()
	s.fields.Launchpoint = p
	s.mu.Unlock()
}

// SetAimpoint overwrites the aim point. Legal in any state, including while running.
func (s *Session) SetAimpoint(p models.GeoPoint) {
	s.mu.Lock()
	s.fields.Aimpoint = p
	s.mu.Unlock()
}

// IsReady reports whether both launch and aim points are present.
func (s *Session) IsReady() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.fields.Launchpoint.Valid && s.fields.Aimpoint.Valid
}

// IsRunning reports whether a run is outstanding.
func (s *Session) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.fields.Running
}

// State derives the state machine position from the current fields.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.fields.State()
}

// State derives the state machine position from the captured fields.
func (snap Snapshot) State() State {
	launch, aim := snap.Launchpoint.Valid, snap.Aimpoint.Valid
	switch {
	case snap.Running:
		return StateRunning
	case launch && aim:
		return StateReady
	case launch:
		return StateLaunchSet
	case aim:
		return StateAimSet
	default:
		return StateEmpty
	}
}

// BeginRun marks a run as outstanding and captures the launch and aim points.
func (s *Session) BeginRun() (RunToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fields.Running {
		return RunToken{}, fmt.Errorf("%w: run %s", ErrAlreadyRunning, s.current)
	}

	token := RunToken{
		ID:          uuid.New(),
		Launchpoint: s.fields.Launchpoint,
		Aimpoint:    s.fields.Aimpoint,
		StartedAt:   s.now(),
	}
	s.current = token.ID
	s.fields.Running = true

	return token, nil
}

// CompleteRun replaces the simulated aim point and strike points with the result and clears running.
func (s *Session) CompleteRun(token RunToken, result models.StrikeResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkToken(token); err != nil {
		return err
	}

	strikes := make([]models.GeoPoint, len(result.Strikepoints))
	copy(strikes, result.Strikepoints)

	s.fields.SimAimpoint = result.SimAimpoint
	s.fields.Strikepoints = strikes
	s.finish()

	return nil
}

// FailRun clears running for a run that produced no result. Prior results are kept.
func (s *Session) FailRun(token RunToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkToken(token); err != nil {
		return err
	}
	s.finish()

	return nil
}

// Snapshot returns a deep copy of every field for display.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return deep.MustCopy(s.fields)
}

func (s *Session) checkToken(token RunToken) error {
	if !s.fields.Running || token.ID != s.current {
		return fmt.Errorf("%w: %s", ErrStaleRun, token.ID)
	}
	return nil
}

func (s *Session) finish() {
	s.fields.Running = false
	s.current = uuid.Nil
}
