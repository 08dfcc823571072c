/*
PURPOSE:
  X11 implementation of desktop.Desktop.

REQUIREMENTS:
  Implementation-discovered:
  - Key injection needs the XTEST extension.
  - GetImage returns BGRX on common 24/32-bit visuals.

ARCHITECTURE INTEGRATION:
  - Used by: internal/engine/runner.go (Run), internal/cli/probe.go
  - Dependencies: github.com/jezek/xgb

ERROR HANDLING:
  - Connection or extension failures are returned from OpenX11.

MAINTENANCE:
  - Keysym to keycode mapping is read once at open; a keymap change while
    running is not picked up.
*/

package desktop

import (
	"fmt"
	"image"
	"image/color"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"github.com/jezek/xgb/xtest"
)

// X11 drives an X server: XTEST for key injection, GetImage for pixels.
type X11 struct {
	conn     *xgb.Conn
	root     xproto.Window
	width    int
	height   int
	keycodes map[uint32]xproto.Keycode
}

// OpenX11 connects to display ("" means $DISPLAY).
func OpenX11(display string) (*X11, error) {
	conn, err := xgb.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("connecting to X display %q: %w", display, err)
	}
	if err := xtest.Init(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("XTEST extension unavailable: %w", err)
	}

	setup := xproto.Setup(conn)
	screen := setup.DefaultScreen(conn)
	x := &X11{
		conn:   conn,
		root:   screen.Root,
		width:  int(screen.WidthInPixels),
		height: int(screen.HeightInPixels),
	}
	if err := x.loadKeymap(setup); err != nil {
		conn.Close()
		return nil, err
	}
	return x, nil
}

// loadKeymap builds the keysym -> keycode table. The first keycode that
// produces a keysym wins.
func (x *X11) loadKeymap(setup *xproto.SetupInfo) error {
	first := setup.MinKeycode
	count := byte(setup.MaxKeycode - setup.MinKeycode + 1)

	reply, err := xproto.GetKeyboardMapping(x.conn, first, count).Reply()
	if err != nil {
		return fmt.Errorf("reading keyboard mapping: %w", err)
	}

	per := int(reply.KeysymsPerKeycode)
	x.keycodes = make(map[uint32]xproto.Keycode)
	for i := 0; i < int(count); i++ {
		for j := 0; j < per; j++ {
			idx := i*per + j
			if idx >= len(reply.Keysyms) {
				return nil
			}
			sym := uint32(reply.Keysyms[idx])
			if sym == 0 {
				continue
			}
			if _, seen := x.keycodes[sym]; !seen {
				x.keycodes[sym] = first + xproto.Keycode(i)
			}
		}
	}
	return nil
}

func (x *X11) KeyDown(key string) error {
	return x.fakeKey(key, xproto.KeyPress)
}

func (x *X11) KeyUp(key string) error {
	return x.fakeKey(key, xproto.KeyRelease)
}

func (x *X11) fakeKey(key string, event byte) error {
	sym, ok := Keysym(key)
	if !ok {
		return fmt.Errorf("unknown key %q", key)
	}
	code, ok := x.keycodes[sym]
	if !ok {
		return fmt.Errorf("key %q (keysym %#x) has no keycode on this display", key, sym)
	}
	err := xtest.FakeInputChecked(x.conn, event, byte(code), xproto.TimeCurrentTime, x.root, 0, 0, 0).Check()
	if err != nil {
		return fmt.Errorf("injecting key %q: %w", key, err)
	}
	return nil
}

func (x *X11) Size() (int, int, error) {
	return x.width, x.height, nil
}

func (x *X11) Pixel(px, py int) (color.RGBA, error) {
	if px < 0 || py < 0 || px >= x.width || py >= x.height {
		return color.RGBA{}, fmt.Errorf("pixel (%d,%d) outside %dx%d display", px, py, x.width, x.height)
	}
	img, err := x.grab(px, py, 1, 1)
	if err != nil {
		return color.RGBA{}, err
	}
	return img.RGBAAt(0, 0), nil
}

func (x *X11) Capture() (image.Image, error) {
	return x.grab(0, 0, x.width, x.height)
}

func (x *X11) grab(px, py, w, h int) (*image.RGBA, error) {
	reply, err := xproto.GetImage(x.conn, xproto.ImageFormatZPixmap, xproto.Drawable(x.root),
		int16(px), int16(py), uint16(w), uint16(h), 0xffffffff).Reply()
	if err != nil {
		return nil, fmt.Errorf("reading screen image: %w", err)
	}
	return fromBGRX(reply.Data, w, h)
}

func (x *X11) Close() error {
	x.conn.Close()
	return nil
}

// fromBGRX converts a 32 bits-per-pixel ZPixmap (blue, green, red, pad) to RGBA.
func fromBGRX(data []byte, w, h int) (*image.RGBA, error) {
	if len(data) < w*h*4 {
		return nil, fmt.Errorf("screen image has %d bytes, want %d for %dx%d at 32bpp", len(data), w*h*4, w, h)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < w*h; i++ {
		s := data[i*4 : i*4+4]
		d := img.Pix[i*4 : i*4+4]
		d[0], d[1], d[2], d[3] = s[2], s[1], s[0], 0xff
	}
	return img, nil
}
