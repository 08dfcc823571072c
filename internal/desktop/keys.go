package desktop

import (
	"strings"
)

// keysyms maps logical key names to X11 keysyms. Letters and digits are
// resolved from their ASCII value and are not listed.
var keysyms = map[string]uint32{
	"esc":       0xff1b,
	"escape":    0xff1b,
	"enter":     0xff0d,
	"return":    0xff0d,
	"tab":       0xff09,
	"space":     0x0020,
	"backspace": 0xff08,
	"left":      0xff51,
	"up":        0xff52,
	"right":     0xff53,
	"down":      0xff54,
	"shift":     0xffe1,
	"ctrl":      0xffe3,
	"alt":       0xffe9,
	"f1":        0xffbe,
	"f2":        0xffbf,
	"f3":        0xffc0,
	"f4":        0xffc1,
	"f5":        0xffc2,
	"f6":        0xffc3,
	"f7":        0xffc4,
	"f8":        0xffc5,
	"f9":        0xffc6,
	"f10":       0xffc7,
	"f11":       0xffc8,
	"f12":       0xffc9,
}

// Keysym resolves a logical key name to its X11 keysym.
func Keysym(key string) (uint32, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	if sym, ok := keysyms[key]; ok {
		return sym, true
	}
	if len(key) == 1 {
		c := key[0]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			return uint32(c), true
		}
	}
	return 0, false
}

// KnownKey reports whether key can be injected.
func KnownKey(key string) bool {
	_, ok := Keysym(key)
	return ok
}
