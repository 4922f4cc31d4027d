package presentation

import (
	"testing"
	"time"

	"github.com/ziadkadry99/storyreel/internal/clock"
	"github.com/ziadkadry99/storyreel/internal/input"
	"github.com/ziadkadry99/storyreel/internal/slides"
)

const scenario = `<h1>Intro</h1><p>Hello</p><img src="x.png" alt="hero"/><p>Bye</p>`

type fakeHost struct {
	active    string
	focusLog  []string
	announced []string
	frames    []Frame
}

func (h *fakeHost) ActiveElement() string { return h.active }

func (h *fakeHost) Focus(id string) {
	h.active = id
	h.focusLog = append(h.focusLog, id)
}

func (h *fakeHost) Announce(text string) { h.announced = append(h.announced, text) }
func (h *fakeHost) Render(f Frame)       { h.frames = append(h.frames, f) }

func (h *fakeHost) last() Frame { return h.frames[len(h.frames)-1] }

func TestOpenStartsPlayingAtFirstSlide(t *testing.T) {
	h := &fakeHost{active: "open-story"}
	fc := clock.NewFake()
	p := Open(scenario, h, func() {}, WithClock(fc))
	defer p.Close()

	f := h.last()
	if f.Index != 0 || f.Count != 3 || !f.Playing {
		t.Fatalf("first frame = %+v", f)
	}
	if f.Slide == nil || f.Slide.Kind != slides.KindHeading || f.Slide.Title != "Intro" {
		t.Errorf("first slide = %+v", f.Slide)
	}
	if f.Duration != 4800*time.Millisecond {
		t.Errorf("duration = %v", f.Duration)
	}
	if len(f.Reveal.Steps) != 2 {
		t.Errorf("reveal steps = %+v", f.Reveal.Steps)
	}
	if len(h.announced) != 1 || h.announced[0] != "Slide 1 of 3. Heading: Intro." {
		t.Errorf("announced = %v", h.announced)
	}
	if h.active != ControlPrev {
		t.Errorf("focus on open = %q, want %q", h.active, ControlPrev)
	}
}

func TestAutoAdvanceAfterFirstDuration(t *testing.T) {
	h := &fakeHost{}
	fc := clock.NewFake()
	p := Open(scenario, h, func() {}, WithClock(fc))
	defer p.Close()

	fc.Advance(4799 * time.Millisecond)
	if got := p.Controller().State().Index; got != 0 {
		t.Fatalf("index before duration elapsed = %d", got)
	}
	fc.Advance(time.Millisecond)

	f := h.last()
	if f.Index != 1 || !f.Playing {
		t.Fatalf("frame after auto-advance = %+v", f)
	}
	if f.Slide.Kind != slides.KindImage || f.Slide.ImageAlt != "hero" {
		t.Errorf("slide = %+v", f.Slide)
	}
	if want := "Slide 2 of 3. Image: hero."; h.announced[len(h.announced)-1] != want {
		t.Errorf("announced = %v", h.announced)
	}
}

func TestEscapeClosesOnceAndRestoresFocus(t *testing.T) {
	h := &fakeHost{active: "open-story"}
	fc := clock.NewFake()
	closes := 0
	p := Open(scenario, h, func() { closes++ }, WithClock(fc))

	fc.Advance(time.Second)
	p.Dispatch(input.Key{Name: input.KeyArrowRight})
	p.Dispatch(input.Key{Name: input.KeyEscape})
	p.Dispatch(input.Key{Name: input.KeyEscape})
	p.Close()

	if closes != 1 {
		t.Errorf("onClose calls = %d, want 1", closes)
	}
	if h.active != "open-story" {
		t.Errorf("focus after close = %q, want open-story", h.active)
	}
	if fc.Pending() != 0 {
		t.Errorf("pending timers after close = %d", fc.Pending())
	}

	frames := len(h.frames)
	fc.Advance(time.Minute)
	p.Dispatch(input.Button{Name: input.ButtonNext})
	if len(h.frames) != frames {
		t.Error("closed presentation kept rendering")
	}
}

func TestTabCyclesControls(t *testing.T) {
	h := &fakeHost{}
	p := Open(scenario, h, nil, WithClock(clock.NewFake()))
	defer p.Close()

	h.active = ControlClose
	res := p.Dispatch(input.Key{Name: input.KeyTab})
	if res.FocusTarget != ControlPrev || h.active != ControlPrev {
		t.Errorf("tab from close = %+v, active %q", res, h.active)
	}
	p.Dispatch(input.Key{Name: input.KeyTab, Shift: true})
	if h.active != ControlClose {
		t.Errorf("shift+tab from prev = %q", h.active)
	}
}

func TestSpaceTogglesInsideSurface(t *testing.T) {
	h := &fakeHost{}
	fc := clock.NewFake()
	p := Open(scenario, h, nil, WithClock(fc))
	defer p.Close()

	fc.Advance(1800 * time.Millisecond)
	p.Dispatch(input.Key{Name: input.KeySpace, InsideSurface: true})
	st := p.Controller().State()
	if st.Playing || st.Remaining == nil || *st.Remaining != 3*time.Second {
		t.Fatalf("state after pause = %+v", st)
	}
	if len(h.announced) != 1 {
		t.Errorf("pause should not be announced, got %v", h.announced)
	}

	p.Dispatch(input.Key{Name: input.KeySpace, InsideSurface: true})
	fc.Advance(3 * time.Second)
	if got := p.Controller().State().Index; got != 1 {
		t.Errorf("index after resume = %d, want 1", got)
	}
}

func TestSwipeNavigates(t *testing.T) {
	h := &fakeHost{}
	p := Open(scenario, h, nil, WithClock(clock.NewFake()))
	defer p.Close()

	p.Dispatch(input.Swipe{StartX: 300, EndX: 100})
	if f := h.last(); f.Index != 1 || f.Playing {
		t.Errorf("after swipe = %+v", f)
	}
}

func TestOpenEmptyMarkup(t *testing.T) {
	h := &fakeHost{}
	fc := clock.NewFake()
	closes := 0
	p := Open("   ", h, func() { closes++ }, WithClock(fc))

	f := h.last()
	if f.Count != 0 || f.Playing || f.Slide != nil {
		t.Errorf("empty frame = %+v", f)
	}
	if fc.Pending() != 0 {
		t.Errorf("pending = %d", fc.Pending())
	}
	p.Dispatch(input.Key{Name: input.KeyArrowRight})
	p.Dispatch(input.Key{Name: input.KeyEscape})
	if closes != 1 {
		t.Errorf("closes = %d", closes)
	}
}

// gatedHost blocks Render of slide gate until release is closed.
type gatedHost struct {
	fakeHost
	gate    int
	entered chan struct{}
	release chan struct{}
}

func (h *gatedHost) Render(f Frame) {
	if f.Index == h.gate && h.entered != nil {
		close(h.entered)
		h.entered = nil
		<-h.release
	}
	h.fakeHost.Render(f)
}

func TestCloseDuringAutoAdvanceStopsRendering(t *testing.T) {
	h := &gatedHost{
		fakeHost: fakeHost{active: "open-story"},
		gate:     1,
		entered:  make(chan struct{}),
		release:  make(chan struct{}),
	}
	entered := h.entered
	fc := clock.NewFake()
	closes := 0
	p := Open(scenario, h, func() { closes++ }, WithClock(fc))

	go fc.Advance(4800 * time.Millisecond)
	<-entered

	done := make(chan struct{})
	go func() {
		p.Close()
		close(done)
	}()
	select {
	case <-done:
		t.Fatal("Close returned while a frame was being rendered")
	case <-time.After(20 * time.Millisecond):
	}
	close(h.release)
	<-done

	frames, announced := len(h.frames), len(h.announced)
	fc.Advance(time.Minute)
	p.Dispatch(input.Key{Name: input.KeyArrowRight})
	if len(h.frames) != frames || len(h.announced) != announced {
		t.Errorf("host updated after Close: frames %d -> %d, announced %d -> %d",
			frames, len(h.frames), announced, len(h.announced))
	}
	if h.active != "open-story" || closes != 1 {
		t.Errorf("active = %q, closes = %d", h.active, closes)
	}
}
