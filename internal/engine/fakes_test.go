package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"
)

// recorder is the shared event log of the fakes, in call order.
type recorder struct {
	events []string
}

func (r *recorder) add(format string, args ...interface{}) {
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

// fakeClock advances virtual time on Sleep. onSleep, when set, runs before
// each sleep and may cancel the caller's context.
type fakeClock struct {
	now     time.Time
	rec     *recorder
	onSleep func(d time.Duration)
}

func newFakeClock(rec *recorder) *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), rec: rec}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if c.onSleep != nil {
		c.onSleep(d)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if d > 0 {
		c.now = c.now.Add(d)
		c.rec.add("sleep %s", d)
	}
	return nil
}

type fakeKeyboard struct {
	rec  *recorder
	fail map[string]bool
	// onUp runs after every key-up
	onUp func(key string)
}

func (k *fakeKeyboard) KeyDown(key string) error {
	if k.fail[key] {
		return errors.New("injection refused")
	}
	k.rec.add("down %s", key)
	return nil
}

func (k *fakeKeyboard) KeyUp(key string) error {
	if k.fail[key] {
		return errors.New("injection refused")
	}
	k.rec.add("up %s", key)
	if k.onUp != nil {
		k.onUp(key)
	}
	return nil
}

// fakeScreen reports a red channel chosen by red for every pixel.
type fakeScreen struct {
	w, h       int
	red        func(x, y int) (uint8, error)
	captureErr error
	sizeErr    error
	sampled    [][2]int
}

func (s *fakeScreen) Size() (int, int, error) {
	if s.sizeErr != nil {
		return 0, 0, s.sizeErr
	}
	return s.w, s.h, nil
}

func (s *fakeScreen) Pixel(x, y int) (color.RGBA, error) {
	s.sampled = append(s.sampled, [2]int{x, y})
	r, err := s.red(x, y)
	if err != nil {
		return color.RGBA{}, err
	}
	return color.RGBA{R: r, G: 10, B: 10, A: 255}, nil
}

func (s *fakeScreen) Capture() (image.Image, error) {
	if s.captureErr != nil {
		return nil, s.captureErr
	}
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.SetRGBA(1, 1, color.RGBA{R: 200, A: 255})
	return img, nil
}

type fakeProcess struct {
	name        string
	pid         int
	rec         *recorder
	terminated  int
	onTerminate func()
}

func (p *fakeProcess) Pid() int {
	return p.pid
}

func (p *fakeProcess) Terminate() error {
	p.terminated++
	if p.terminated > 1 {
		return nil
	}
	p.rec.add("terminate %s", p.name)
	if p.onTerminate != nil {
		p.onTerminate()
	}
	return nil
}

// fakeLauncher hands out fakeProcesses keyed by path.
type fakeLauncher struct {
	rec   *recorder
	procs map[string]*fakeProcess
	fail  map[string]error
}

func newFakeLauncher(rec *recorder) *fakeLauncher {
	return &fakeLauncher{rec: rec, procs: map[string]*fakeProcess{}, fail: map[string]error{}}
}

func (l *fakeLauncher) Launch(ctx context.Context, path string) (Process, error) {
	if err := l.fail[path]; err != nil {
		return nil, err
	}
	p, ok := l.procs[path]
	if !ok {
		p = &fakeProcess{name: path}
		l.procs[path] = p
	}
	p.rec = l.rec
	p.pid = 1000 + len(l.rec.events)
	l.rec.add("launch %s", path)
	return p, nil
}
