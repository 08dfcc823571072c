package proc

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/daryltucker/frame-runner/internal/model"
)

// writeScript creates an executable shell script that ignores its arguments.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	path := filepath.Join(t.TempDir(), "stub.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLaunch_AndTerminate(t *testing.T) {
	path := writeScript(t, "exec sleep 30")
	l := &Launcher{Args: []string{"-f"}}

	h, err := l.Launch(context.Background(), path)
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if h.Pid() <= 0 {
		t.Errorf("Pid = %d, want > 0", h.Pid())
	}
	if err := l.Terminate(h); err != nil {
		t.Fatalf("Terminate: %v", err)
	}
	if !h.Exited() {
		t.Error("Exited = false after Terminate, want true")
	}
}

func TestTerminate_Idempotent(t *testing.T) {
	path := writeScript(t, "exec sleep 30")
	l := &Launcher{}

	h, err := l.Launch(context.Background(), path)
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if err := h.Terminate(); err != nil {
		t.Fatalf("first Terminate: %v", err)
	}
	if err := h.Terminate(); err != nil {
		t.Errorf("second Terminate: %v, want nil", err)
	}
}

func TestTerminate_AlreadyExited(t *testing.T) {
	path := writeScript(t, "exit 0")
	l := &Launcher{}

	h, err := l.Launch(context.Background(), path)
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	time.Sleep(200 * time.Millisecond)
	if err := h.Terminate(); err != nil {
		t.Errorf("Terminate on exited process: %v, want nil", err)
	}
}

func TestTerminate_NilHandle(t *testing.T) {
	l := &Launcher{}
	if err := l.Terminate(nil); err != nil {
		t.Errorf("Terminate(nil) = %v, want nil", err)
	}
}

func TestLaunch_MissingBinary(t *testing.T) {
	l := &Launcher{}
	_, err := l.Launch(context.Background(), filepath.Join(t.TempDir(), "nonexistent-binary-xyz-123"))
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	if !errors.Is(err, model.ProcessStartFailure) {
		t.Errorf("error = %v, want kind %v", err, model.ProcessStartFailure)
	}
}

func TestLaunch_NotExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on windows")
	}
	path := filepath.Join(t.TempDir(), "plain.txt")
	if err := os.WriteFile(path, []byte("not a program"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := &Launcher{}
	_, err := l.Launch(context.Background(), path)
	if !errors.Is(err, model.ProcessStartFailure) {
		t.Errorf("error = %v, want kind %v", err, model.ProcessStartFailure)
	}
}

func TestLaunch_Directory(t *testing.T) {
	l := &Launcher{}
	_, err := l.Launch(context.Background(), t.TempDir())
	if !errors.Is(err, model.ProcessStartFailure) {
		t.Errorf("error = %v, want kind %v", err, model.ProcessStartFailure)
	}
}

func TestLaunch_Cancelled(t *testing.T) {
	path := writeScript(t, "exec sleep 30")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := &Launcher{}
	if _, err := l.Launch(ctx, path); !errors.Is(err, model.Cancelled) {
		t.Errorf("error = %v, want kind %v", err, model.Cancelled)
	}
}

func TestTerminate_RetriesAfterFailedKill(t *testing.T) {
	path := writeScript(t, "exec sleep 30")
	l := &Launcher{}

	h, err := l.Launch(context.Background(), path)
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}

	refused := errors.New("operation not permitted")
	kill = func(*os.Process) error { return refused }
	defer func() { kill = killProcess }()

	for i := 0; i < 2; i++ {
		if err := h.Terminate(); !errors.Is(err, refused) {
			t.Fatalf("Terminate #%d = %v, want %v", i+1, err, refused)
		}
	}
	if h.Exited() {
		t.Fatal("Exited = true after failed kills, want false")
	}

	kill = killProcess
	if err := h.Terminate(); err != nil {
		t.Fatalf("Terminate after restore: %v", err)
	}
	if !h.Exited() {
		t.Error("Exited = false after successful Terminate, want true")
	}
	if err := h.Terminate(); err != nil {
		t.Errorf("Terminate after success: %v, want nil", err)
	}
}
