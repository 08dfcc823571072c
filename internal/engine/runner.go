/*
PURPOSE:
  High-level runner that orchestrates one benchmark session.
  Launches the measurement tool and the target, waits for the target to load,
  drives it through a scripted sequence inside the tool's capture window,
  tears both down and reduces the tool's export to a one-line summary.

REQUIREMENTS:
  User-specified:
  - Strictly linear session; any failure aborts the session.
  - Both external processes are terminated on every exit path.
  - Progress reported at each state transition; failures name the state.

  Implementation-discovered:
  - Screenshot failures must not hide an otherwise good result: they are
    recorded and reported after the session finishes.
  - The session report is written even when the session aborts.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli
  - Uses: internal/desktop, internal/proc, internal/output

ERROR HANDLING:
  - Returns the first fatal error wrapped with the state it happened in.
  - Deferred teardown never overrides the original error.

IMPLEMENTATION RULES:
  - Every wait goes through Clock so tests and Ctrl-C can cut it short.
  - Processes are registered on the session as soon as they start.

USAGE:
  report, err := engine.Run(ctx, cfg)

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/engine/readiness.go
  - internal/engine/benchtool.go

MAINTENANCE:
  - Update the state list in internal/model/state.go together with run().
*/

package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/daryltucker/frame-runner/internal/config"
	"github.com/daryltucker/frame-runner/internal/desktop"
	"github.com/daryltucker/frame-runner/internal/model"
	"github.com/daryltucker/frame-runner/internal/output"
	"github.com/daryltucker/frame-runner/internal/proc"
	"github.com/google/uuid"
)

// Screenshot names inside the output directory.
const (
	PreScreenshot  = "screenshot1.png"
	PostScreenshot = "screenshot2.png"
)

// Deps are the session's external collaborators.
type Deps struct {
	Keyboard desktop.Keyboard
	Screen   desktop.Screen
	Launcher Launcher
	Clock    Clock // nil means RealClock()
}

// Session is one benchmark run. It is not reusable.
type Session struct {
	ID string

	cfg       *config.Config
	clock     Clock
	launcher  Launcher
	readiness *ReadinessDetector
	input     *InputDriver
	capture   *CaptureService
	tool      *BenchmarkToolController
	collector *output.Collector
	summary   *output.Summarizer

	state    model.SessionState
	target   Process
	bench    Process
	isolated []error
	report   *model.SessionReport
}

// Run opens the configured display and runs one session against it.
func Run(ctx context.Context, cfg *config.Config) (*model.SessionReport, error) {
	x, err := desktop.OpenX11(cfg.Display)
	if err != nil {
		return nil, model.Wrap(model.IOFailure, "open display", err)
	}
	defer x.Close()

	s := NewSession(cfg, Deps{
		Keyboard: x,
		Screen:   x,
		Launcher: ProcLauncher{&proc.Launcher{Args: cfg.LaunchArgs}},
	})
	return s.Run(ctx)
}

// NewSession wires a session from cfg and deps.
func NewSession(cfg *config.Config, deps Deps) *Session {
	clock := deps.Clock
	if clock == nil {
		clock = RealClock()
	}
	id := uuid.New().String()

	input := &InputDriver{Keyboard: deps.Keyboard, Clock: clock}
	collector := &output.Collector{
		Dir: cfg.BenchmarkTool.OutputDir,
		Ext: cfg.BenchmarkTool.ExportExt,
	}
	if cfg.BenchmarkTool.StalePolicy == config.StaleArchive {
		collector.ArchiveDir = filepath.Join(cfg.BenchmarkTool.OutputDir, "archive", id)
	}

	s := &Session{
		ID:        id,
		cfg:       cfg,
		clock:     clock,
		launcher:  deps.Launcher,
		readiness: &ReadinessDetector{Screen: deps.Screen, Clock: clock},
		input:     input,
		capture:   &CaptureService{Screen: deps.Screen},
		tool: &BenchmarkToolController{
			Launcher: deps.Launcher,
			Input:    input,
			Hotkey:   cfg.BenchmarkTool.Hotkey,
		},
		collector: collector,
		summary: &output.Summarizer{
			Field:  cfg.BenchmarkTool.AverageField,
			File:   cfg.Summary.File,
			Strict: cfg.Summary.Strict,
		},
		state: model.Idle,
	}
	s.report = &model.SessionReport{
		ID:          id,
		Target:      cfg.TargetPath,
		Transitions: []model.Transition{{State: model.Idle.String(), At: clock.Now()}},
	}
	return s
}

// State returns the state the session is in (or stopped in).
func (s *Session) State() model.SessionState {
	return s.state
}

// Run executes the session. The returned report is never nil and has been
// written to the output directory when possible.
func (s *Session) Run(ctx context.Context) (rep *model.SessionReport, err error) {
	s.report.StartedAt = s.clock.Now()

	if mkErr := os.MkdirAll(s.cfg.OutputDir, 0755); mkErr != nil {
		err = model.Errorf(model.InvalidPath, "create output dir", "failed to create output directory %s: %w", s.cfg.OutputDir, mkErr)
		s.report.Error = err.Error()
		s.report.ErrorKind = model.KindOf(err).String()
		return s.report, err
	}

	defer func() {
		if tdErr := s.teardown(); tdErr != nil {
			s.isolate(tdErr)
		}

		switch {
		case err != nil:
			output.Logger.Error("Session aborted", "session", s.ID, "state", s.state.String(), "error", err)
			err = fmt.Errorf("session aborted in state %s: %w", s.state, err)
		case len(s.isolated) > 0:
			err = fmt.Errorf("session finished with %d failed step(s): %w", len(s.isolated), s.isolated[0])
		}
		s.finish(err)
		rep = s.report
	}()

	return nil, s.run(ctx)
}

func (s *Session) run(ctx context.Context) error {
	cfg := s.cfg

	// 1. Benchmark tool
	s.enter(model.BenchmarkToolStarting)
	if _, err := s.collector.ClearStale(); err != nil {
		return err
	}
	bench, err := s.tool.Launch(ctx, cfg.BenchmarkTool.Path)
	if err != nil {
		return err
	}
	s.bench = bench
	output.Logger.Info("Benchmark tool launched", "session", s.ID, "path", cfg.BenchmarkTool.Path, "pid", bench.Pid())
	if err := s.pause(ctx, cfg.Script.ToolSettle); err != nil {
		return err
	}

	// 2. Target
	s.enter(model.TargetStarting)
	target, err := s.launcher.Launch(ctx, cfg.TargetPath)
	if err != nil {
		return err
	}
	s.target = target
	output.Logger.Info("Target launched", "session", s.ID, "path", cfg.TargetPath, "pid", target.Pid())

	// 3. Loading screen
	s.enter(model.AwaitingReady)
	polls, err := s.readiness.WaitForReady(ctx, s.readinessOptions())
	if err != nil {
		return err
	}
	output.Logger.Info("Target ready", "session", s.ID, "polls", polls)

	// 4. Opening prompts and first screenshot
	s.enter(model.PreCaptureReady)
	for _, key := range cfg.Script.PromptKeys {
		if err := s.pause(ctx, cfg.Script.PromptDelay); err != nil {
			return err
		}
		// logged by the driver; a missed prompt shows up in the screenshot
		_ = s.input.Tap(key)
	}
	output.Logger.Info("Scene loaded", "session", s.ID)
	if err := s.pause(ctx, cfg.Script.CaptureDelay); err != nil {
		return err
	}
	s.screenshot(PreScreenshot)

	// 5. Capture window
	s.enter(model.Benchmarking)
	if err := s.tool.Start(); err != nil {
		return err
	}
	output.Logger.Info("Capture started", "session", s.ID, "hotkey", cfg.BenchmarkTool.Hotkey)
	if err := s.input.HoldSequence(ctx, cfg.Script.HoldSteps); err != nil {
		return err
	}
	if err := s.tool.Stop(); err != nil {
		return err
	}
	output.Logger.Info("Capture stopped", "session", s.ID)

	// 6. Second screenshot
	s.enter(model.PostCaptureReady)
	if err := s.pause(ctx, cfg.Script.CaptureDelay); err != nil {
		return err
	}
	s.screenshot(PostScreenshot)

	// 7. Teardown
	s.enter(model.TearingDown)
	if err := s.teardown(); err != nil {
		s.isolate(err)
	}
	output.Logger.Info("Teardown complete", "session", s.ID)

	// 8. Results
	s.enter(model.Collecting)
	rec, exportPath, err := s.collector.CollectLatest()
	if err != nil {
		return err
	}
	s.report.Record = rec
	output.Logger.Info("Benchmark export read", "session", s.ID, "file", exportPath, "fields", len(rec))

	summaryPath, value, err := s.summary.Summarize(rec, cfg.OutputDir)
	if err != nil {
		return err
	}
	s.report.SummaryFile = summaryPath
	s.report.Average = value
	output.Logger.Info("Summary written", "session", s.ID, "file", summaryPath, "average_fps", value)

	s.enter(model.Done)
	return nil
}

func (s *Session) readinessOptions() ReadinessOptions {
	r := s.cfg.Readiness
	return ReadinessOptions{
		X:              r.SampleX,
		Y:              r.SampleY,
		BootDelay:      r.BootDelay,
		PollInterval:   r.PollInterval,
		MaxWait:        r.MaxWait,
		MaxPolls:       r.MaxPolls,
		LoadingPalette: r.LoadingPalette,
	}
}

func (s *Session) enter(state model.SessionState) {
	s.state = state
	s.report.Transitions = append(s.report.Transitions, model.Transition{State: state.String(), At: s.clock.Now()})
	output.Logger.Info("Session state", "session", s.ID, "state", state.String())
}

func (s *Session) pause(ctx context.Context, d time.Duration) error {
	if err := s.clock.Sleep(ctx, d); err != nil {
		return model.Wrap(model.Cancelled, "wait", err)
	}
	return nil
}

// screenshot captures name; a failure is recorded and the session goes on.
func (s *Session) screenshot(name string) {
	path, err := s.capture.Capture(s.cfg.OutputDir, name)
	if err != nil {
		output.Logger.Error("Screenshot failed", "session", s.ID, "file", name, "error", err)
		s.isolate(err)
		return
	}
	s.report.Screenshots = append(s.report.Screenshots, path)
	output.Logger.Info("Screenshot captured", "session", s.ID, "file", path)
}

func (s *Session) isolate(err error) {
	s.isolated = append(s.isolated, err)
}

// teardown closes an open capture window, then kills the target and the
// tool, in that order. Calling it again is a no-op.
func (s *Session) teardown() error {
	var errs []error

	if s.bench != nil && s.tool.State() == ToolCapturing {
		if err := s.tool.Stop(); err != nil {
			output.Logger.Warn("Could not stop capture before teardown", "session", s.ID, "error", err)
		}
	}

	if s.target != nil {
		if err := s.target.Terminate(); err != nil {
			errs = append(errs, err)
		} else {
			output.Logger.Info("Target terminated", "session", s.ID)
		}
		s.target = nil
		if s.bench != nil {
			// not cancellable: the tool has to go too
			_ = s.clock.Sleep(context.Background(), s.cfg.Script.KillGap)
		}
	}

	if s.bench != nil {
		if err := s.tool.Terminate(s.bench); err != nil {
			errs = append(errs, err)
		} else {
			output.Logger.Info("Benchmark tool terminated", "session", s.ID)
		}
		s.bench = nil
	}

	return errors.Join(errs...)
}

// finish completes and persists the report.
func (s *Session) finish(err error) {
	s.report.FinishedAt = s.clock.Now()
	s.report.State = s.state.String()
	if err != nil {
		s.report.Error = err.Error()
		s.report.ErrorKind = model.KindOf(err).String()
	}

	path, wErr := output.WriteReport(s.cfg.OutputDir, s.report)
	if wErr != nil {
		output.Logger.Error("Failed to write session report", "session", s.ID, "error", wErr)
		return
	}
	output.Logger.Info("Session report written", "session", s.ID, "file", path)
}
