/*
PURPOSE:
  Writes the one-line average frame-rate summary (average_fps.txt).

REQUIREMENTS:
  User-specified:
  - Format: "Average FPS on session: <value>".

  Implementation-discovered:
  - Exports without an average column happen; lenient mode writes "None",
    strict mode fails instead.

ARCHITECTURE INTEGRATION:
  - Used by: internal/engine/runner.go, internal/cli/collect.go

ERROR HANDLING:
  - Missing field in strict mode -> model.MissingField.
  - Write failure -> model.IOFailure.

USAGE:
  path, value, err := (&output.Summarizer{Field: "Avg", File: "average_fps.txt"}).Summarize(rec, dir)

RELATED FILES:
  - internal/output/csv.go

MAINTENANCE:
  - The file is read by other scripts; do not change the line format.
*/

package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/daryltucker/frame-runner/internal/model"
)

// MissingValue is written in place of an absent average in lenient mode.
const MissingValue = "None"

// Summarizer writes the one-line average frame-rate summary.
type Summarizer struct {
	Field string // export column holding the average
	File  string // summary file name inside the output directory
	// Strict fails with model.MissingField instead of writing MissingValue.
	Strict bool
}

// Summarize writes the summary for rec into dir and returns the file path
// and the value written.
func (s *Summarizer) Summarize(rec model.BenchmarkRecord, dir string) (string, string, error) {
	value, ok := rec.Field(s.Field)
	if !ok || value == "" {
		if s.Strict {
			return "", "", model.Errorf(model.MissingField, "summarize",
				"export has no %q value", s.Field)
		}
		Logger.Warn("Average field missing from export", "field", s.Field)
		value = MissingValue
	}

	path := filepath.Join(dir, s.File)
	line := fmt.Sprintf("Average FPS on session: %s\n", value)
	if err := os.WriteFile(path, []byte(line), 0644); err != nil {
		return "", "", model.Wrap(model.IOFailure, "summarize", err)
	}
	return path, value, nil
}
