//go:build unix

package proc

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"golang.org/x/sys/unix"
)

func TestTerminate_KillsProcessGroup(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "child.pid")
	path := writeScript(t, "sleep 30 &\necho $! > "+pidFile+"\nwait")

	l := &Launcher{}
	h, err := l.Launch(context.Background(), path)
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}

	var child int
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		data, err := os.ReadFile(pidFile)
		if err == nil && len(strings.TrimSpace(string(data))) > 0 {
			child, err = strconv.Atoi(strings.TrimSpace(string(data)))
			if err != nil {
				t.Fatalf("bad pid file: %v", err)
			}
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if child == 0 {
		h.Terminate()
		t.Fatal("child pid never written")
	}

	if err := h.Terminate(); err != nil {
		t.Fatalf("Terminate: %v", err)
	}

	// the orphaned child is reaped by init; wait for it to disappear
	deadline = time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if gone(child) {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Errorf("child %d still alive after group kill", child)
}

// gone reports whether pid no longer runs. A zombie counts as gone: whether
// it gets reaped depends on what pid 1 is.
func gone(pid int) bool {
	if err := unix.Kill(pid, 0); errors.Is(err, unix.ESRCH) {
		return true
	}
	data, err := os.ReadFile("/proc/" + strconv.Itoa(pid) + "/stat")
	if err != nil {
		return false
	}
	// state follows the parenthesised command name
	i := strings.LastIndexByte(string(data), ')')
	return i >= 0 && i+2 < len(data) && data[i+2] == 'Z'
}
