/*
PURPOSE:
  Defines the core data structures shared by Frame Runner packages.
  These models describe one benchmark session and what it produced.

REQUIREMENTS:
  User-specified:
  - Hold the benchmark tool's exported row as named fields.
  - Describe the scripted hold sequence driven into the target.
  - Record the session's progress and artifacts.

  Implementation-discovered:
  - Need JSON tags for the session report.
  - Need YAML tags on HoldStep (it lives in the config file).

ARCHITECTURE INTEGRATION:
  - Used by: internal/config, internal/engine, internal/output
  - Shared across boundaries.

ERROR HANDLING:
  - None (pure data structs). See errors.go for the error taxonomy.

IMPLEMENTATION RULES:
  - Keep structs simple and public.
  - Use time.Time and time.Duration for timing.

USAGE:
  rec := model.BenchmarkRecord{"Avg": "59.8"}

SELF-HEALING INSTRUCTIONS:
  - If the report grows a field, update output.WriteReport callers.

RELATED FILES:
  - internal/model/state.go
  - internal/output/json.go

MAINTENANCE:
  - Update when adding new session artifacts.
*/

package model

import (
	"time"
)

// BenchmarkRecord maps export header names to the values of one data row.
type BenchmarkRecord map[string]string

// Field returns the value stored under name, if present.
func (r BenchmarkRecord) Field(name string) (string, bool) {
	v, ok := r[name]
	return v, ok
}

// HoldStep is one key held down for a fixed duration.
type HoldStep struct {
	Key  string        `yaml:"key" json:"key"`
	Hold time.Duration `yaml:"hold" json:"hold"`
}

// Transition records when the session entered a state.
type Transition struct {
	State string    `json:"state"`
	At    time.Time `json:"at"`
}

// SessionReport is the machine-readable account of one session.
type SessionReport struct {
	ID          string          `json:"id"`
	Target      string          `json:"target"`
	StartedAt   time.Time       `json:"started_at"`
	FinishedAt  time.Time       `json:"finished_at"`
	State       string          `json:"state"` // last state reached
	Transitions []Transition    `json:"transitions"`
	Screenshots []string        `json:"screenshots,omitempty"`
	SummaryFile string          `json:"summary_file,omitempty"`
	Average     string          `json:"average_fps,omitempty"`
	Record      BenchmarkRecord `json:"record,omitempty"`
	Error       string          `json:"error,omitempty"`
	ErrorKind   string          `json:"error_kind,omitempty"`
}
