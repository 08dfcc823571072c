package output

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/daryltucker/frame-runner/internal/model"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestClearStale_RemovesExports(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a minmaxavg.csv", "x\n1\n")
	writeFile(t, dir, "B.CSV", "x\n1\n")
	keep := writeFile(t, dir, "notes.txt", "keep me")

	c := &Collector{Dir: dir, Ext: ".csv"}
	n, err := c.ClearStale()
	if err != nil {
		t.Fatalf("ClearStale: %v", err)
	}
	if n != 2 {
		t.Errorf("ClearStale removed %d files, want 2", n)
	}
	if _, err := os.Stat(keep); err != nil {
		t.Errorf("non-export file was touched: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("dir has %d entries after ClearStale, want 1", len(entries))
	}
}

func TestClearStale_EmptyDirIsNotAnError(t *testing.T) {
	c := &Collector{Dir: t.TempDir(), Ext: ".csv"}
	n, err := c.ClearStale()
	if err != nil {
		t.Fatalf("ClearStale: %v", err)
	}
	if n != 0 {
		t.Errorf("ClearStale = %d, want 0", n)
	}
}

func TestClearStale_Archive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "old.csv", "x\n1\n")
	archive := filepath.Join(dir, "archive", "session-1")

	c := &Collector{Dir: dir, Ext: ".csv", ArchiveDir: archive}
	if _, err := c.ClearStale(); err != nil {
		t.Fatalf("ClearStale: %v", err)
	}
	if _, err := os.Stat(filepath.Join(archive, "old.csv")); err != nil {
		t.Errorf("archived export missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "old.csv")); !os.IsNotExist(err) {
		t.Errorf("stale export still in place (err = %v)", err)
	}

	// archived files live in a subdirectory and no longer qualify
	if _, _, err := c.CollectLatest(); !errors.Is(err, model.NoResultFound) {
		t.Errorf("CollectLatest after archive = %v, want %v", err, model.NoResultFound)
	}
}

func TestClearStale_MissingDir(t *testing.T) {
	c := &Collector{Dir: filepath.Join(t.TempDir(), "nope"), Ext: ".csv"}
	if _, err := c.ClearStale(); !errors.Is(err, model.IOFailure) {
		t.Errorf("ClearStale = %v, want %v", err, model.IOFailure)
	}
}

func TestCollectLatest_AfterClearIsNoResult(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "old.csv", "Frames,Avg\n10,30\n")

	c := &Collector{Dir: dir, Ext: ".csv"}
	if _, err := c.ClearStale(); err != nil {
		t.Fatalf("ClearStale: %v", err)
	}
	_, _, err := c.CollectLatest()
	if !errors.Is(err, model.NoResultFound) {
		t.Errorf("CollectLatest = %v, want %v", err, model.NoResultFound)
	}
}

func TestCollectLatest_Ambiguous(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "one.csv", "Frames,Avg\n10,30\n")
	writeFile(t, dir, "two.csv", "Frames,Avg\n10,40\n")

	c := &Collector{Dir: dir, Ext: ".csv"}
	_, _, err := c.CollectLatest()
	if !errors.Is(err, model.AmbiguousResult) {
		t.Fatalf("CollectLatest = %v, want %v", err, model.AmbiguousResult)
	}
	if !strings.Contains(err.Error(), "one.csv") || !strings.Contains(err.Error(), "two.csv") {
		t.Errorf("error = %q, want both file names", err)
	}
}

func TestCollectLatest_LastRowAndTrimming(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "kkrieger minmaxavg.csv",
		"Frames, Time (ms), Min, Max, Avg\n100, 2000, 40, 70, 50.5\n300, 10000, 44, 75, 59.817\n")

	c := &Collector{Dir: dir, Ext: ".csv"}
	rec, got, err := c.CollectLatest()
	if err != nil {
		t.Fatalf("CollectLatest: %v", err)
	}
	if got != path {
		t.Errorf("path = %q, want %q", got, path)
	}
	if rec["Avg"] != "59.817" {
		t.Errorf("Avg = %q, want %q", rec["Avg"], "59.817")
	}
	if rec["Time (ms)"] != "10000" {
		t.Errorf("Time (ms) = %q, want %q", rec["Time (ms)"], "10000")
	}
}

func TestCollectLatest_HeaderOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "empty.csv", "Frames,Avg\n")

	c := &Collector{Dir: dir, Ext: ".csv"}
	if _, _, err := c.CollectLatest(); !errors.Is(err, model.NoResultFound) {
		t.Errorf("CollectLatest = %v, want %v", err, model.NoResultFound)
	}
}

func TestCollectLatest_ShortRow(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "short.csv", "Frames,Min,Max,Avg\n10,20\n")

	c := &Collector{Dir: dir, Ext: ".csv"}
	rec, _, err := c.CollectLatest()
	if err != nil {
		t.Fatalf("CollectLatest: %v", err)
	}
	if _, ok := rec["Avg"]; ok {
		t.Errorf("Avg present in short row: %v", rec)
	}
	if rec["Min"] != "20" {
		t.Errorf("Min = %q, want 20", rec["Min"])
	}
}

func TestRoundTrip_ExportToSummary(t *testing.T) {
	toolDir := t.TempDir()
	outDir := t.TempDir()
	writeFile(t, toolDir, "bench.csv", "Frame,Time,MinFPS,MaxFPS,Avg\n1,1000,55,65,60.123\n")

	c := &Collector{Dir: toolDir, Ext: ".csv"}
	rec, _, err := c.CollectLatest()
	if err != nil {
		t.Fatalf("CollectLatest: %v", err)
	}

	s := &Summarizer{Field: "Avg", File: "average_fps.txt"}
	path, value, err := s.Summarize(rec, outDir)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if value != "60.123" {
		t.Errorf("value = %q, want 60.123", value)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(string(data)); got != "Average FPS on session: 60.123" {
		t.Errorf("summary = %q", got)
	}
}
