/*
PURPOSE:
  Reads the benchmark tool's tabular export (CSV) and manages its directory.
  This is the ResultCollector's input side.

REQUIREMENTS:
  User-specified:
  - Remove stale exports before a session so old results are never read.
  - Read the export after the session and return its last data row.

  Implementation-discovered:
  - The tool pads header names and values with spaces (" Avg").
  - Directory listing order is not a selection criterion: several exports is an error.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine, internal/cli (collect)
  - Produces: internal/model.BenchmarkRecord

ERROR HANDLING:
  - model.NoResultFound when no export (or no data row) exists.
  - model.AmbiguousResult when more than one export exists.
  - model.IOFailure for unreadable directories/files.

IMPLEMENTATION RULES:
  - Use encoding/csv.
  - Trim header names and values.

USAGE:
  c := &output.Collector{Dir: dir, Ext: ".csv"}
  rec, path, err := c.CollectLatest()

SELF-HEALING INSTRUCTIONS:
  - If the tool's export format changes, adjust parseExport.

RELATED FILES:
  - internal/output/summary.go

MAINTENANCE:
  - None.
*/

package output

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/daryltucker/frame-runner/internal/model"
)

// Collector finds and parses exports in one directory.
type Collector struct {
	Dir string
	// Ext is the export extension, including the dot. Matching ignores case.
	Ext string
	// ArchiveDir, when set, receives stale exports instead of deleting them.
	ArchiveDir string
}

// exports lists the qualifying files in Dir, in directory order.
func (c *Collector) exports() ([]string, error) {
	entries, err := os.ReadDir(c.Dir)
	if err != nil {
		return nil, model.Wrap(model.IOFailure, "list exports", err)
	}

	var paths []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), c.Ext) {
			paths = append(paths, filepath.Join(c.Dir, e.Name()))
		}
	}
	return paths, nil
}

// ClearStale removes (or archives) every export in Dir and returns how many
// there were. Finding none is logged, not an error.
func (c *Collector) ClearStale() (int, error) {
	paths, err := c.exports()
	if err != nil {
		return 0, err
	}
	if len(paths) == 0 {
		Logger.Info("No stale benchmark exports found", "dir", c.Dir, "ext", c.Ext)
		return 0, nil
	}

	if c.ArchiveDir != "" {
		if err := os.MkdirAll(c.ArchiveDir, 0755); err != nil {
			return 0, model.Wrap(model.IOFailure, "archive stale exports", err)
		}
	}

	for _, p := range paths {
		if c.ArchiveDir != "" {
			dst := filepath.Join(c.ArchiveDir, filepath.Base(p))
			if err := os.Rename(p, dst); err != nil {
				return 0, model.Wrap(model.IOFailure, "archive stale exports", err)
			}
			Logger.Info("Archived stale export", "file", p, "to", dst)
			continue
		}
		if err := os.Remove(p); err != nil {
			return 0, model.Wrap(model.IOFailure, "remove stale exports", err)
		}
		Logger.Info("Removed stale export", "file", p)
	}
	return len(paths), nil
}

// CollectLatest parses the single export in Dir and returns its last data
// row together with the export's path.
func (c *Collector) CollectLatest() (model.BenchmarkRecord, string, error) {
	paths, err := c.exports()
	if err != nil {
		return nil, "", err
	}
	switch len(paths) {
	case 0:
		return nil, "", model.Errorf(model.NoResultFound, "collect results",
			"no %s export in %s", c.Ext, c.Dir)
	case 1:
	default:
		names := make([]string, len(paths))
		for i, p := range paths {
			names[i] = filepath.Base(p)
		}
		return nil, "", model.Errorf(model.AmbiguousResult, "collect results",
			"%d exports in %s: %s", len(paths), c.Dir, strings.Join(names, ", "))
	}

	f, err := os.Open(paths[0])
	if err != nil {
		return nil, "", model.Wrap(model.IOFailure, "collect results", err)
	}
	defer f.Close()

	rec, err := parseExport(f)
	if err != nil {
		return nil, "", fmt.Errorf("parsing %s: %w", paths[0], err)
	}
	return rec, paths[0], nil
}

// parseExport reads a header row plus data rows and returns the last row.
func parseExport(r io.Reader) (model.BenchmarkRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, model.Errorf(model.NoResultFound, "parse export", "export is empty")
	}
	if err != nil {
		return nil, model.Wrap(model.IOFailure, "parse export", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var last []string
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, model.Wrap(model.IOFailure, "parse export", err)
		}
		last = row
	}
	if last == nil {
		return nil, model.Errorf(model.NoResultFound, "parse export", "export has a header but no data rows")
	}

	rec := make(model.BenchmarkRecord, len(header))
	for i, name := range header {
		if name == "" || i >= len(last) {
			continue
		}
		rec[name] = strings.TrimSpace(last[i])
	}
	return rec, nil
}
