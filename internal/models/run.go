package models

import "time"

// StrikeResult is the outcome of one completed simulation run.
// It always replaces a previous result in full.
type StrikeResult struct {
	SimAimpoint  GeoPoint   `json:"simAimpoint"`
	Strikepoints []GeoPoint `json:"strikepoints"`
}

// RunStatus labels how a run ended.
type RunStatus string

const (
	RunStatusSuccess   RunStatus = "success"
	RunStatusMalformed RunStatus = "malformed"
	RunStatusEngine    RunStatus = "engine_error"
	RunStatusTimeout   RunStatus = "timeout"
)

// RunReport is returned to the caller of a run. Duration is exposed by the API as milliseconds.
type RunReport struct {
	RunID       string        `json:"runId"`
	Result      StrikeResult  `json:"result"`
	CEPMeters   float64       `json:"cepMeters"`
	Duration    time.Duration `json:"-"`
	StartedAt   time.Time     `json:"startedAt"`
	StrikeCount int           `json:"strikeCount"`
}

// RunRecord is one journal entry. Strikepoints may be empty when loaded as a summary.
type RunRecord struct {
	RunID        string
	Status       RunStatus
	Error        string
	Launchpoint  GeoPoint
	Aimpoint     GeoPoint
	SimAimpoint  GeoPoint
	Strikepoints []GeoPoint
	StrikeCount  int
	CEPMeters    float64
	StartedAt    time.Time
	Duration     time.Duration
}
