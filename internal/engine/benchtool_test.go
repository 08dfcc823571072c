package engine

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/daryltucker/frame-runner/internal/model"
)

func newTool(rec *recorder, kb *fakeKeyboard) *BenchmarkToolController {
	return &BenchmarkToolController{
		Launcher: newFakeLauncher(rec),
		Input:    &InputDriver{Keyboard: kb, Clock: newFakeClock(rec)},
		Hotkey:   "f11",
	}
}

func TestToggle_StartStop(t *testing.T) {
	rec := &recorder{}
	c := newTool(rec, &fakeKeyboard{rec: rec})

	if err := c.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if c.State() != ToolCapturing {
		t.Errorf("State = %v, want capturing", c.State())
	}
	if err := c.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if c.State() != ToolIdle {
		t.Errorf("State = %v, want idle", c.State())
	}
	want := []string{"down f11", "up f11", "down f11", "up f11"}
	if !reflect.DeepEqual(rec.events, want) {
		t.Errorf("events = %v, want %v", rec.events, want)
	}
}

func TestToggle_OutOfOrder(t *testing.T) {
	rec := &recorder{}
	c := newTool(rec, &fakeKeyboard{rec: rec})

	if err := c.Stop(); !errors.Is(err, model.ToggleStateError) {
		t.Errorf("Stop while idle = %v, want %v", err, model.ToggleStateError)
	}
	if err := c.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := c.Start(); !errors.Is(err, model.ToggleStateError) {
		t.Errorf("second Start = %v, want %v", err, model.ToggleStateError)
	}
	if len(rec.events) != 2 {
		t.Errorf("refused toggles still tapped: %v", rec.events)
	}
}

func TestToggle_TapFailureKeepsState(t *testing.T) {
	rec := &recorder{}
	c := newTool(rec, &fakeKeyboard{rec: rec, fail: map[string]bool{"f11": true}})

	if err := c.Start(); !errors.Is(err, model.IOFailure) {
		t.Errorf("Start = %v, want %v", err, model.IOFailure)
	}
	if c.State() != ToolIdle {
		t.Errorf("State = %v after failed tap, want idle", c.State())
	}
}

func TestTool_LaunchAndTerminate(t *testing.T) {
	rec := &recorder{}
	c := newTool(rec, &fakeKeyboard{rec: rec})

	p, err := c.Launch(context.Background(), "/opt/fraps/fraps.exe")
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if err := c.Terminate(p); err != nil {
		t.Fatalf("Terminate: %v", err)
	}
	if err := c.Terminate(p); err != nil {
		t.Errorf("second Terminate = %v, want nil", err)
	}
	if err := c.Terminate(nil); err != nil {
		t.Errorf("Terminate(nil) = %v, want nil", err)
	}
}
