/*
PURPOSE:
  Writes full-screen PNG snapshots into the output directory.

ARCHITECTURE INTEGRATION:
  - Used by: internal/engine/runner.go (pre/post screenshots)

ERROR HANDLING:
  - Grab, create or encode failure -> model.IOFailure. The runner isolates
    these so a bad screenshot never aborts a session.

RELATED FILES:
  - internal/desktop/x11.go
*/

package engine

import (
	"image/png"
	"os"
	"path/filepath"

	"github.com/daryltucker/frame-runner/internal/desktop"
	"github.com/daryltucker/frame-runner/internal/model"
)

// CaptureService saves full-screen snapshots as PNG files.
type CaptureService struct {
	Screen desktop.Screen
}

// Capture writes the visible display to dir/name, replacing any existing
// file, and returns the path.
func (c *CaptureService) Capture(dir, name string) (string, error) {
	img, err := c.Screen.Capture()
	if err != nil {
		return "", model.Wrap(model.IOFailure, "capture "+name, err)
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", model.Wrap(model.IOFailure, "capture "+name, err)
	}

	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", model.Wrap(model.IOFailure, "capture "+name, err)
	}
	if err := f.Close(); err != nil {
		return "", model.Wrap(model.IOFailure, "capture "+name, err)
	}
	return path, nil
}
