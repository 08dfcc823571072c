/*
PURPOSE:
  Scripted keyboard input: single taps and timed key holds.

REQUIREMENTS:
  User-specified:
  - Hold S for 5s, then W for 5s, while capture runs.

  Implementation-discovered:
  - A held key must always be released, even when the hold is cancelled,
    or the target keeps walking after we exit.

ARCHITECTURE INTEGRATION:
  - Used by: internal/engine/runner.go, internal/engine/benchtool.go
  - Dependencies: internal/desktop.Keyboard

ERROR HANDLING:
  - Injection failures are logged; Tap also returns them.
  - Cancellation during a hold -> model.Cancelled after the key-up.

IMPLEMENTATION RULES:
  - Key names are validated by config.Validate, not here.

USAGE:
  err := driver.HoldSequence(ctx, cfg.Script.HoldSteps)

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/desktop/keys.go

MAINTENANCE:
  - None.
*/

package engine

import (
	"context"

	"github.com/daryltucker/frame-runner/internal/desktop"
	"github.com/daryltucker/frame-runner/internal/model"
	"github.com/daryltucker/frame-runner/internal/output"
)

// InputDriver injects scripted key events into the focused window.
// Injection is fire-and-forget: failures are logged, not returned, except
// by Tap whose callers may care.
type InputDriver struct {
	Keyboard desktop.Keyboard
	Clock    Clock
}

// Tap emits a key-down immediately followed by a key-up.
func (d *InputDriver) Tap(key string) error {
	if err := d.Keyboard.KeyDown(key); err != nil {
		output.Logger.Warn("Key down failed", "key", key, "error", err)
		return err
	}
	if err := d.Keyboard.KeyUp(key); err != nil {
		output.Logger.Warn("Key up failed", "key", key, "error", err)
		return err
	}
	return nil
}

// HoldSequence holds each key for its duration, one step at a time. The
// held key is released even when ctx ends mid-step; only cancellation is
// returned.
func (d *InputDriver) HoldSequence(ctx context.Context, steps []model.HoldStep) error {
	for _, step := range steps {
		if err := d.Keyboard.KeyDown(step.Key); err != nil {
			output.Logger.Warn("Key down failed", "key", step.Key, "error", err)
		}
		sleepErr := d.Clock.Sleep(ctx, step.Hold)
		if err := d.Keyboard.KeyUp(step.Key); err != nil {
			output.Logger.Warn("Key up failed", "key", step.Key, "error", err)
		}
		if sleepErr != nil {
			return model.Wrap(model.Cancelled, "hold "+step.Key, sleepErr)
		}
	}
	return nil
}
