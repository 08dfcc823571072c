/*
PURPOSE:
  Owns the benchmark tool process and its capture toggle.

REQUIREMENTS:
  User-specified:
  - The tool is launched before the target and killed after it.
  - Capture is toggled by tapping a single hotkey (F11 by default).

  Implementation-discovered:
  - The tool has no API; the only observable state is what we last sent.
    The controller tracks it so Stop without Start is caught early.

ARCHITECTURE INTEGRATION:
  - Used by: internal/engine/runner.go
  - Dependencies: internal/proc (via ProcLauncher), engine.InputDriver

ERROR HANDLING:
  - Start while capturing / Stop while idle -> model.ToggleStateError.
  - Hotkey injection failure -> model.IOFailure.

IMPLEMENTATION RULES:
  - State changes only after the hotkey was delivered.

USAGE:
  c := &engine.BenchmarkToolController{Launcher: l, Input: in, Hotkey: "f11"}

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/proc/launcher.go

MAINTENANCE:
  - None.
*/

package engine

import (
	"context"

	"github.com/daryltucker/frame-runner/internal/model"
	"github.com/daryltucker/frame-runner/internal/proc"
)

// Process is a running external program.
type Process interface {
	Pid() int
	Terminate() error
}

// Launcher starts external programs.
type Launcher interface {
	Launch(ctx context.Context, path string) (Process, error)
}

// ProcLauncher adapts proc.Launcher to Launcher.
type ProcLauncher struct {
	*proc.Launcher
}

func (l ProcLauncher) Launch(ctx context.Context, path string) (Process, error) {
	h, err := l.Launcher.Launch(ctx, path)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// ToolState mirrors the measurement tool's capture window.
type ToolState int

const (
	ToolIdle ToolState = iota
	ToolCapturing
)

func (s ToolState) String() string {
	if s == ToolCapturing {
		return "capturing"
	}
	return "idle"
}

// BenchmarkToolController owns the frame-rate measurement tool. The tool
// toggles capture on every hotkey tap; the controller tracks which side of
// the toggle it is on and refuses out-of-order requests.
type BenchmarkToolController struct {
	Launcher Launcher
	Input    *InputDriver
	Hotkey   string

	state ToolState
}

func (c *BenchmarkToolController) Launch(ctx context.Context, path string) (Process, error) {
	p, err := c.Launcher.Launch(ctx, path)
	if err != nil {
		return nil, err
	}
	c.state = ToolIdle
	return p, nil
}

func (c *BenchmarkToolController) Terminate(p Process) error {
	if p == nil {
		return nil
	}
	return p.Terminate()
}

// State returns the tracked capture state.
func (c *BenchmarkToolController) State() ToolState {
	return c.state
}

// Start opens the tool's capture window.
func (c *BenchmarkToolController) Start() error {
	return c.toggle(ToolIdle, ToolCapturing, "start capture")
}

// Stop closes the tool's capture window.
func (c *BenchmarkToolController) Stop() error {
	return c.toggle(ToolCapturing, ToolIdle, "stop capture")
}

func (c *BenchmarkToolController) toggle(from, to ToolState, op string) error {
	if c.state != from {
		return model.Errorf(model.ToggleStateError, op, "tool is %s, want %s", c.state, from)
	}
	if err := c.Input.Tap(c.Hotkey); err != nil {
		return model.Wrap(model.IOFailure, op, err)
	}
	c.state = to
	return nil
}
