// Package desktop is the input/display automation capability: injecting key
// events into whichever window has focus and reading pixels off the screen.
package desktop

import (
	"image"
	"image/color"
)

// Keyboard injects key events. Keys are logical names such as "esc",
// "enter", "f11" or "w"; see KnownKey.
type Keyboard interface {
	KeyDown(key string) error
	KeyUp(key string) error
}

// Screen reads the visible display.
type Screen interface {
	// Size returns the display size in pixels.
	Size() (width, height int, err error)
	// Pixel returns the color at (x, y).
	Pixel(x, y int) (color.RGBA, error)
	// Capture returns the whole visible display.
	Capture() (image.Image, error)
}

// Desktop is both halves of the capability, plus a way to release it.
type Desktop interface {
	Keyboard
	Screen
	Close() error
}
