/*
PURPOSE:
  Starts the target and the benchmark tool as child processes and kills them.

REQUIREMENTS:
  Implementation-discovered:
  - Launchers and games fork helpers; on unix each child gets its own
    process group and the whole group is killed.
  - A kill that fails must be retryable, not silently forgotten.

ERROR HANDLING:
  - Missing or non-executable path -> model.ProcessStartFailure.
  - Kill failure -> plain error naming the pid; the handle stays live.

RELATED FILES:
  - internal/proc/kill_unix.go
  - internal/proc/kill_other.go
  - internal/engine/benchtool.go (ProcLauncher)
*/

// Package proc starts external executables as child processes and kills
// them on demand.
package proc

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"

	"github.com/daryltucker/frame-runner/internal/model"
)

// Launcher starts executables with a fixed set of arguments appended.
type Launcher struct {
	Args []string
}

// Handle is a running process started by a Launcher.
type Handle struct {
	Path string

	cmd  *exec.Cmd
	mu   sync.Mutex
	done bool
}

// kill is replaced in tests.
var kill = killProcess

// Launch starts path as a new process (and, on unix, a new process group).
// It does not wait for the process to do anything.
func (l *Launcher) Launch(ctx context.Context, path string) (*Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, model.Wrap(model.Cancelled, "launch "+path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, model.Wrap(model.ProcessStartFailure, "launch "+path, err)
	}
	if info.IsDir() {
		return nil, model.Errorf(model.ProcessStartFailure, "launch "+path, "is a directory")
	}

	cmd := exec.Command(path, l.Args...)
	setProcessGroup(cmd)
	if err := cmd.Start(); err != nil {
		return nil, model.Wrap(model.ProcessStartFailure, "launch "+path, fmt.Errorf("executing %s: %w", path, err))
	}

	return &Handle{Path: path, cmd: cmd}, nil
}

// Terminate kills the process behind h. See Handle.Terminate.
func (l *Launcher) Terminate(h *Handle) error {
	if h == nil {
		return nil
	}
	return h.Terminate()
}

// Pid returns the operating system process id.
func (h *Handle) Pid() int {
	return h.cmd.Process.Pid
}

// Terminate forcibly kills the process and reaps it. Once it has succeeded
// further calls do nothing; a process that already exited is not an error.
// A failed kill leaves the process unreaped so a later call can retry.
func (h *Handle) Terminate() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.done {
		return nil
	}
	if err := kill(h.cmd.Process); err != nil {
		return fmt.Errorf("killing %s (pid %d), process may still be running: %w", h.Path, h.Pid(), err)
	}
	// the exit status of a killed process is not interesting
	_ = h.cmd.Wait()
	h.done = true
	return nil
}

// Exited reports whether the process has been reaped.
func (h *Handle) Exited() bool {
	return h.cmd.ProcessState != nil
}
