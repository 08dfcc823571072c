/*
PURPOSE:
  Decides when the target has finished loading by sampling one screen pixel
  until its red channel leaves the loading-screen palette.

REQUIREMENTS:
  User-specified:
  - Wait a fixed boot delay, then poll every 500ms.
  - Loading screens show red 0 or 255 at the screen center.

  Implementation-discovered:
  - Polling must be bounded (max_wait and/or max_polls); an unbounded wait
    hangs forever on a crashed target.
  - A failing sample is not fatal on its own; it only shows up in the
    timeout error if nothing ever succeeds.

ARCHITECTURE INTEGRATION:
  - Used by: internal/engine/runner.go (step 3), internal/cli/probe.go (SamplePoint)
  - Dependencies: internal/desktop.Screen, engine.Clock

ERROR HANDLING:
  - Bound reached -> model.ReadinessTimeout (with the last sample error, if any).
  - Context ended -> model.Cancelled.
  - Screen size unavailable -> model.IOFailure.

IMPLEMENTATION RULES:
  - All waiting goes through Clock.Sleep so tests run on virtual time.

USAGE:
  d := &engine.ReadinessDetector{Screen: x, Clock: engine.RealClock()}
  polls, err := d.WaitForReady(ctx, opts)

SELF-HEALING INSTRUCTIONS:
  - If a target shows other loading colors, extend readiness.loading_palette
    in the config rather than the detector.

RELATED FILES:
  - internal/config/config.go (ReadinessConfig)
  - internal/engine/readiness_test.go

MAINTENANCE:
  - Keep SamplePoint the single place that resolves the sample coordinate.
*/

package engine

import (
	"context"
	"time"

	"github.com/daryltucker/frame-runner/internal/desktop"
	"github.com/daryltucker/frame-runner/internal/model"
	"github.com/daryltucker/frame-runner/internal/output"
)

// ReadinessOptions describes what to sample and for how long.
type ReadinessOptions struct {
	// X and Y locate the sampled pixel. Negative means screen center.
	X, Y         int
	BootDelay    time.Duration
	PollInterval time.Duration
	// MaxWait bounds polling time after BootDelay; MaxPolls bounds the number
	// of samples. Zero disables a bound, but at least one must be set.
	MaxWait  time.Duration
	MaxPolls int
	// LoadingPalette holds the red-channel values shown while loading.
	LoadingPalette []int
}

// ReadinessDetector decides that the target finished loading by watching
// one pixel leave the loading screen's palette. It is a visual heuristic:
// a loading screen pausing on another color looks ready too.
type ReadinessDetector struct {
	Screen desktop.Screen
	Clock  Clock
}

// WaitForReady blocks until the sampled red channel is outside the loading
// palette and returns the number of samples taken. It fails with
// model.ReadinessTimeout when a bound is hit and model.Cancelled when ctx ends.
func (d *ReadinessDetector) WaitForReady(ctx context.Context, opts ReadinessOptions) (int, error) {
	if opts.MaxWait <= 0 && opts.MaxPolls <= 0 {
		return 0, model.Errorf(model.ConfigurationMissing, "wait for ready", "no bound on readiness polling")
	}

	x, y, err := d.location(opts)
	if err != nil {
		return 0, err
	}

	if err := d.Clock.Sleep(ctx, opts.BootDelay); err != nil {
		return 0, model.Wrap(model.Cancelled, "wait for ready", err)
	}

	loading := make(map[uint8]bool, len(opts.LoadingPalette))
	for _, v := range opts.LoadingPalette {
		loading[uint8(v)] = true
	}

	start := d.Clock.Now()
	polls := 0
	var lastErr error
	for {
		if err := d.Clock.Sleep(ctx, opts.PollInterval); err != nil {
			return polls, model.Wrap(model.Cancelled, "wait for ready", err)
		}
		polls++

		c, err := d.Screen.Pixel(x, y)
		if err != nil {
			lastErr = err
			output.Logger.Debug("Readiness sample failed", "poll", polls, "error", err)
		} else {
			if !loading[c.R] {
				output.Logger.Debug("Readiness sample", "poll", polls, "red", c.R, "ready", true)
				return polls, nil
			}
			output.Logger.Debug("Readiness sample", "poll", polls, "red", c.R, "ready", false)
		}

		if opts.MaxPolls > 0 && polls >= opts.MaxPolls {
			return polls, d.timeout(polls, d.Clock.Now().Sub(start), lastErr)
		}
		if opts.MaxWait > 0 && d.Clock.Now().Sub(start) >= opts.MaxWait {
			return polls, d.timeout(polls, d.Clock.Now().Sub(start), lastErr)
		}
	}
}

func (d *ReadinessDetector) timeout(polls int, waited time.Duration, lastErr error) error {
	if lastErr != nil {
		return model.Errorf(model.ReadinessTimeout, "wait for ready",
			"still loading after %d samples (%s); last sample error: %w", polls, waited, lastErr)
	}
	return model.Errorf(model.ReadinessTimeout, "wait for ready",
		"still loading after %d samples (%s)", polls, waited)
}

// location resolves the sample point, defaulting to the screen center.
func (d *ReadinessDetector) location(opts ReadinessOptions) (int, int, error) {
	if opts.X >= 0 && opts.Y >= 0 {
		return opts.X, opts.Y, nil
	}
	w, h, err := d.Screen.Size()
	if err != nil {
		return 0, 0, model.Wrap(model.IOFailure, "wait for ready", err)
	}
	x, y := SamplePoint(w, h, opts.X, opts.Y)
	return x, y, nil
}

// SamplePoint resolves a configured sample coordinate on a w x h display.
// A negative coordinate is replaced by the center along that axis.
func SamplePoint(w, h, x, y int) (int, int) {
	if x < 0 {
		x = w / 2
	}
	if y < 0 {
		y = h / 2
	}
	return x, y
}
