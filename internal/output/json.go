/*
PURPOSE:
  Writes the session report as an indented JSON document.
  Optimized for machine parsing (jq, dashboards).

REQUIREMENTS:
  User-specified:
  - Report which state a failed session was in.

  Implementation-discovered:
  - Must be written on every exit path, including failures, so the file
    is rewritten whole rather than appended.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine
  - Consumes: internal/model.SessionReport

ERROR HANDLING:
  - Returns model.IOFailure on file creation or write failure.

IMPLEMENTATION RULES:
  - Use encoding/json.NewEncoder.
  - Write to a temp file and rename, so a crash never leaves half a report.

USAGE:
  err := output.WriteReport(dir, report)

SELF-HEALING INSTRUCTIONS:
  - None specific.

RELATED FILES:
  - internal/model/types.go

MAINTENANCE:
  - None.
*/

package output

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/daryltucker/frame-runner/internal/model"
)

// ReportFile is the session report's name inside the output directory.
const ReportFile = "session.json"

// WriteReport writes r to dir/ReportFile and returns the path.
func WriteReport(dir string, r *model.SessionReport) (string, error) {
	path := filepath.Join(dir, ReportFile)

	f, err := os.CreateTemp(dir, ReportFile+".*")
	if err != nil {
		return "", model.Wrap(model.IOFailure, "write report", err)
	}
	tmp := f.Name()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", model.Wrap(model.IOFailure, "write report", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", model.Wrap(model.IOFailure, "write report", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", model.Wrap(model.IOFailure, "write report", err)
	}
	return path, nil
}
