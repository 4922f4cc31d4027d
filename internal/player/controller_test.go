package player

import (
	"testing"
	"time"

	"github.com/ziadkadry99/storyreel/internal/clock"
	"github.com/ziadkadry99/storyreel/internal/slides"
)

func scenarioSlides() []slides.Slide {
	return slides.Segment(`<h1>Intro</h1><p>Hello</p><img src="x.png" alt="hero"/><p>Bye</p>`)
}

func newTestController(t *testing.T, list []slides.Slide) (*Controller, *clock.Fake) {
	t.Helper()
	fake := clock.NewFake()
	c := New(list, WithClock(fake))
	t.Cleanup(c.Close)
	return c, fake
}

func TestDefaultTimingsScenario(t *testing.T) {
	got := DefaultTimings().All(scenarioSlides())
	want := []time.Duration{4800 * time.Millisecond, 4500 * time.Millisecond, 3000 * time.Millisecond}
	if len(got) != len(want) {
		t.Fatalf("durations = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("duration[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTimingsHeadingLevels(t *testing.T) {
	tm := DefaultTimings()
	tests := []struct {
		level int
		want  time.Duration
	}{
		{1, 4800 * time.Millisecond},
		{2, 3800 * time.Millisecond},
		{3, 3200 * time.Millisecond},
		{5, 3200 * time.Millisecond},
	}
	for _, tt := range tests {
		got := tm.For(slides.Slide{Kind: slides.KindHeading, Level: tt.level})
		if got != tt.want {
			t.Errorf("level %d: got %v, want %v", tt.level, got, tt.want)
		}
	}
	if got := tm.At(nil, 0); got != 3500*time.Millisecond {
		t.Errorf("fallback = %v, want 3.5s", got)
	}
	if got := tm.At(scenarioSlides(), 7); got != 3500*time.Millisecond {
		t.Errorf("out of range = %v, want 3.5s", got)
	}
}

func TestOpensPlayingAtZero(t *testing.T) {
	c, fake := newTestController(t, scenarioSlides())

	st := c.State()
	if st.Index != 0 || !st.Playing || st.Remaining != nil {
		t.Fatalf("initial state = %+v", st)
	}
	if fake.Pending() != 1 {
		t.Fatalf("pending timers = %d, want 1", fake.Pending())
	}
}

func TestAutoAdvance(t *testing.T) {
	c, fake := newTestController(t, scenarioSlides())

	fake.Advance(4799 * time.Millisecond)
	if c.State().Index != 0 {
		t.Fatal("advanced before the slide duration elapsed")
	}
	fake.Advance(time.Millisecond)
	if got := c.State().Index; got != 1 {
		t.Fatalf("index = %d, want 1", got)
	}
	if d := fake.Deadlines(); len(d) != 1 || d[0] != 4500*time.Millisecond {
		t.Errorf("next timer = %v, want [4.5s]", d)
	}
}

func TestPlaybackIdlesOnLastSlide(t *testing.T) {
	c, fake := newTestController(t, scenarioSlides())

	fake.Advance(20 * time.Second)

	st := c.State()
	if st.Index != 2 {
		t.Fatalf("index = %d, want 2", st.Index)
	}
	if !st.Playing {
		t.Error("playback should still report playing while idling on the last slide")
	}
	if fake.Pending() != 0 {
		t.Errorf("pending timers = %d, want 0 once idle", fake.Pending())
	}
}

func TestPauseResumePreservesRemaining(t *testing.T) {
	c, fake := newTestController(t, scenarioSlides())

	fake.Advance(1800 * time.Millisecond)
	c.Pause()

	st := c.State()
	if st.Playing {
		t.Fatal("expected paused")
	}
	if st.Remaining == nil || *st.Remaining != 3000*time.Millisecond {
		t.Fatalf("remaining = %v, want 3s", st.Remaining)
	}
	if fake.Pending() != 0 {
		t.Fatalf("pending timers while paused = %d", fake.Pending())
	}

	fake.Advance(time.Minute)
	if c.State().Index != 0 {
		t.Fatal("advanced while paused")
	}

	c.Play()
	if d := fake.Deadlines(); len(d) != 1 || d[0] != 3000*time.Millisecond {
		t.Fatalf("resumed timer = %v, want [3s]", d)
	}
	if c.State().Remaining != nil {
		t.Error("remaining should be consumed by Play")
	}

	fake.Advance(3000 * time.Millisecond)
	if c.State().Index != 1 {
		t.Errorf("index = %d, want 1", c.State().Index)
	}
}

func TestPlayAndPauseAreIdempotent(t *testing.T) {
	c, fake := newTestController(t, scenarioSlides())

	c.Play()
	if fake.Pending() != 1 {
		t.Fatalf("Play while playing re-armed: pending = %d", fake.Pending())
	}

	fake.Advance(time.Second)
	c.Pause()
	first := *c.State().Remaining
	fake.Advance(time.Second)
	c.Pause()
	if got := *c.State().Remaining; got != first {
		t.Errorf("second Pause changed remaining: %v -> %v", first, got)
	}
}

func TestNavigationPausesAndClearsRemaining(t *testing.T) {
	c, fake := newTestController(t, scenarioSlides())

	c.Next()
	st := c.State()
	if st.Playing {
		t.Error("Next should stop autoplay")
	}
	if st.Index != 1 {
		t.Errorf("index = %d, want 1", st.Index)
	}
	if fake.Pending() != 0 {
		t.Errorf("pending timers = %d, want 0", fake.Pending())
	}

	fake.Advance(500 * time.Millisecond)
	c.Play()
	fake.Advance(500 * time.Millisecond)
	c.Pause()
	c.Prev()
	if c.State().Remaining != nil {
		t.Error("manual navigation should clear remaining time")
	}
	c.Play()
	if d := fake.Deadlines(); len(d) != 1 || d[0] != 4800*time.Millisecond {
		t.Errorf("timer after navigation = %v, want full 4.8s", d)
	}
}

func TestNextClampsAtEnd(t *testing.T) {
	list := scenarioSlides()
	c, _ := newTestController(t, list)

	for i := 0; i < len(list)*3; i++ {
		c.Next()
		if idx := c.State().Index; idx > len(list)-1 {
			t.Fatalf("index %d exceeded last slide", idx)
		}
	}
	if idx := c.State().Index; idx != len(list)-1 {
		t.Errorf("index = %d, want %d", idx, len(list)-1)
	}

	for i := 0; i < 10; i++ {
		c.Prev()
	}
	if idx := c.State().Index; idx != 0 {
		t.Errorf("index = %d, want 0", idx)
	}
}

func TestGotoClamps(t *testing.T) {
	c, _ := newTestController(t, scenarioSlides())

	c.Goto(99)
	if c.State().Index != 2 {
		t.Errorf("Goto(99) index = %d, want 2", c.State().Index)
	}
	c.Goto(-5)
	if c.State().Index != 0 {
		t.Errorf("Goto(-5) index = %d, want 0", c.State().Index)
	}
	if c.State().Playing {
		t.Error("Goto should stop autoplay")
	}
}

func TestRestartResumesPlaying(t *testing.T) {
	c, fake := newTestController(t, scenarioSlides())

	c.Goto(2)
	fake.Advance(time.Second)
	c.Restart()

	st := c.State()
	if st.Index != 0 || !st.Playing || st.Remaining != nil {
		t.Fatalf("state after restart = %+v", st)
	}
	if fake.Pending() != 1 {
		t.Errorf("pending = %d, want 1", fake.Pending())
	}
}

func TestSingleOutstandingTimer(t *testing.T) {
	c, fake := newTestController(t, scenarioSlides())

	advances := 0
	last := 0
	c.Subscribe(func(st State) {
		if st.Index > last {
			advances += st.Index - last
		}
		last = st.Index
	})

	ops := []func(){
		c.Play, c.Pause, c.Play, c.Play, c.Restart, c.Next, c.Play,
		c.Prev, c.Restart, c.Pause, c.Play, c.Toggle, c.Toggle, c.Restart,
	}
	for i, op := range ops {
		op()
		if n := fake.Pending(); n > 1 {
			t.Fatalf("after op %d: %d pending timers", i, n)
		}
		fake.Advance(700 * time.Millisecond)
		if n := fake.Pending(); n > 1 {
			t.Fatalf("after advancing op %d: %d pending timers", i, n)
		}
	}

	before := c.State().Index
	fake.Advance(4800 * time.Millisecond)
	if got := c.State().Index; got > before+1 {
		t.Errorf("double advance: %d -> %d", before, got)
	}
}

func TestEmptyIsInert(t *testing.T) {
	c, fake := newTestController(t, slides.Segment(""))

	c.Next()
	c.Prev()
	c.Play()
	c.Toggle()
	c.Restart()
	c.Goto(3)

	st := c.State()
	if st.Index != 0 || st.Count != 0 || st.Playing {
		t.Errorf("state = %+v", st)
	}
	if fake.Pending() != 0 {
		t.Errorf("pending timers = %d, want 0", fake.Pending())
	}
}

func TestCloseCancelsTimer(t *testing.T) {
	c, fake := newTestController(t, scenarioSlides())

	calls := 0
	c.Subscribe(func(State) { calls++ })
	c.Close()

	if fake.Pending() != 0 {
		t.Fatalf("pending timers after Close = %d", fake.Pending())
	}
	fake.Advance(time.Minute)
	c.Next()
	c.Restart()
	if calls != 0 {
		t.Errorf("observer called %d times after Close", calls)
	}
}

func TestSubscribeNotifiesOnChange(t *testing.T) {
	c, fake := newTestController(t, scenarioSlides())

	var seen []State
	unsubscribe := c.Subscribe(func(st State) { seen = append(seen, st) })

	fake.Advance(4800 * time.Millisecond)
	c.Pause()
	c.Play()

	if len(seen) != 3 {
		t.Fatalf("notifications = %d, want 3", len(seen))
	}
	if seen[0].Index != 1 || !seen[0].Playing {
		t.Errorf("first notification = %+v", seen[0])
	}
	if seen[1].Playing || seen[1].Remaining == nil {
		t.Errorf("pause notification = %+v", seen[1])
	}

	unsubscribe()
	c.Next()
	if len(seen) != 3 {
		t.Errorf("notified after unsubscribe")
	}
}

func TestPauseWhileIdlingAtEnd(t *testing.T) {
	c, fake := newTestController(t, scenarioSlides())

	fake.Advance(time.Minute)
	c.Pause()
	st := c.State()
	if st.Remaining == nil || *st.Remaining != 0 {
		t.Fatalf("remaining = %v, want 0", st.Remaining)
	}
	c.Play()
	fake.Advance(time.Second)
	if c.State().Index != 2 {
		t.Errorf("index = %d, want 2", c.State().Index)
	}
}

// waitFor polls cond until it holds or a second has passed.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not reached")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestNotificationsFollowCommitOrder(t *testing.T) {
	list := slides.Segment(`<p>a</p><p>b</p><p>c</p><p>d</p><p>e</p>`)
	c, fake := newTestController(t, list)

	entered := make(chan struct{})
	release := make(chan struct{})
	var seen []State
	c.Subscribe(func(st State) {
		if st.Index == 1 && st.Playing {
			close(entered)
			<-release
		}
		seen = append(seen, st)
	})

	fired := make(chan struct{})
	go func() {
		fake.Advance(3000 * time.Millisecond)
		close(fired)
	}()
	<-entered

	navigated := make(chan struct{})
	go func() {
		c.Goto(3)
		close(navigated)
	}()
	waitFor(t, func() bool { return c.State().Index == 3 })
	close(release)
	<-fired
	<-navigated

	if len(seen) == 0 {
		t.Fatal("no notifications")
	}
	last := seen[len(seen)-1]
	want := c.State()
	if last.Index != want.Index || last.Playing != want.Playing {
		t.Errorf("last notification = %+v, state = %+v", last, want)
	}
	if last.Index != 3 || last.Playing {
		t.Errorf("last notification = %+v, want index 3 paused", last)
	}
	for i := 1; i < len(seen); i++ {
		if seen[i].Index == 1 && seen[i-1].Index == 3 {
			t.Errorf("stale timer notification delivered after Goto: %+v", seen)
		}
	}
}

func TestCloseWaitsForInFlightNotification(t *testing.T) {
	c, fake := newTestController(t, scenarioSlides())

	entered := make(chan struct{})
	release := make(chan struct{})
	calls := 0
	c.Subscribe(func(State) {
		calls++
		if calls == 1 {
			close(entered)
			<-release
		}
	})

	go fake.Advance(4800 * time.Millisecond)
	<-entered

	closed := make(chan struct{})
	go func() {
		c.Close()
		close(closed)
	}()

	select {
	case <-closed:
		t.Fatal("Close returned while a notification was in flight")
	case <-time.After(20 * time.Millisecond):
	}
	close(release)
	<-closed

	fake.Advance(time.Minute)
	c.Next()
	if calls != 1 {
		t.Errorf("observer called %d times, want 1", calls)
	}
}
