package player

import (
	"sync"
	"time"

	"github.com/ziadkadry99/storyreel/internal/clock"
	"github.com/ziadkadry99/storyreel/internal/slides"
)

// State is a snapshot of playback.
type State struct {
	Index   int  `json:"index"`
	Count   int  `json:"count"`
	Playing bool `json:"playing"`
	// Remaining is set while paused mid-slide.
	Remaining *time.Duration `json:"remaining,omitempty"`
	// Duration is the full screen time of the current slide.
	Duration time.Duration `json:"duration"`
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock sets the time source. Defaults to clock.Real().
func WithClock(c clock.Clock) Option {
	return func(ctl *Controller) { ctl.clock = c }
}

// WithTimings overrides the per-slide durations.
func WithTimings(t Timings) Option {
	return func(ctl *Controller) { ctl.timings = t }
}

// Controller owns the playback state of one open presentation and the
// single auto-advance timer that drives it.
//
// All mutation happens under mu, so a timer fire and a user command are
// always applied one after the other. Every change to the index or the
// playing flag cancels the outstanding timer before arming a new one.
//
// Observers are called one at a time in commit order and never after Close
// has returned. An observer must not call back into the Controller.
type Controller struct {
	mu      sync.Mutex
	clock   clock.Clock
	timings Timings
	slides  []slides.Slide

	index     int
	playing   bool
	remaining *time.Duration

	timer    clock.Timer
	armedAt  time.Time
	armedFor time.Duration
	// gen identifies the current timer; fires carrying an older
	// generation lost a race with a cancel and are ignored.
	gen uint64

	closed    bool
	observers []observer
	nextObs   int

	// seq numbers commits; delivered is the last one handed to observers.
	seq uint64

	notifyMu  sync.Mutex
	delivered uint64
}

type observer struct {
	id int
	fn func(State)
}

// New opens playback at the first slide and starts playing. A controller
// over zero slides is inert.
func New(list []slides.Slide, opts ...Option) *Controller {
	c := &Controller{
		clock:   clock.Real(),
		timings: DefaultTimings(),
		slides:  list,
	}
	for _, opt := range opts {
		opt(c)
	}

	if len(c.slides) > 0 {
		c.playing = true
		c.armLocked(c.timings.At(c.slides, 0))
	}
	return c
}

// Subscribe registers fn to be called after every index or playing change.
// The returned func removes the subscription.
func (c *Controller) Subscribe(fn func(State)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextObs
	c.nextObs++
	c.observers = append(c.observers, observer{id: id, fn: fn})
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, o := range c.observers {
			if o.id == id {
				c.observers = append(c.observers[:i:i], c.observers[i+1:]...)
				return
			}
		}
	}
}

// Slides returns the sequence being played.
func (c *Controller) Slides() []slides.Slide { return c.slides }

// Timings returns the duration policy in use.
func (c *Controller) Timings() Timings { return c.timings }

// State returns the current playback snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Play resumes autoplay, honoring the time left when it was paused.
func (c *Controller) Play() {
	c.mu.Lock()
	if c.inertLocked() || c.playing {
		c.mu.Unlock()
		return
	}
	d := c.timings.At(c.slides, c.index)
	if c.remaining != nil {
		d = *c.remaining
	}
	c.playing = true
	c.armLocked(d)
	c.remaining = nil
	c.commitLocked()
}

// Pause stops autoplay and remembers how much of the current slide's
// duration was left.
func (c *Controller) Pause() {
	c.mu.Lock()
	if c.inertLocked() || !c.playing {
		c.mu.Unlock()
		return
	}
	left := c.armedFor - c.clock.Now().Sub(c.armedAt)
	if left < 0 {
		left = 0
	}
	c.remaining = &left
	c.cancelLocked()
	c.playing = false
	c.commitLocked()
}

// Toggle pauses when playing and plays when paused.
func (c *Controller) Toggle() {
	c.mu.Lock()
	playing := c.playing
	c.mu.Unlock()
	if playing {
		c.Pause()
	} else {
		c.Play()
	}
}

// Next moves to the following slide and stops autoplay.
func (c *Controller) Next() { c.navigate(func(i int) int { return i + 1 }) }

// Prev moves to the preceding slide and stops autoplay.
func (c *Controller) Prev() { c.navigate(func(i int) int { return i - 1 }) }

// Goto jumps to slide i, clamped to the sequence, and stops autoplay.
func (c *Controller) Goto(i int) { c.navigate(func(int) int { return i }) }

// Restart returns to the first slide and always resumes playing.
func (c *Controller) Restart() {
	c.mu.Lock()
	if c.inertLocked() {
		c.mu.Unlock()
		return
	}
	c.index = 0
	c.remaining = nil
	c.playing = true
	c.armLocked(c.timings.At(c.slides, 0))
	c.commitLocked()
}

// Close cancels the outstanding timer and detaches all observers. It waits
// for a notification already in flight to finish. The controller ignores
// every call after Close.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.cancelLocked()
	c.observers = nil
	c.mu.Unlock()

	c.notifyMu.Lock()
	c.notifyMu.Unlock()
}

func (c *Controller) navigate(to func(int) int) {
	c.mu.Lock()
	if c.inertLocked() {
		c.mu.Unlock()
		return
	}
	before := c.index
	wasPlaying := c.playing

	c.cancelLocked()
	c.playing = false
	c.remaining = nil
	c.index = c.clamp(to(c.index))

	if c.index == before && !wasPlaying {
		c.mu.Unlock()
		return
	}
	c.commitLocked()
}

func (c *Controller) fire(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.gen || !c.playing {
		c.mu.Unlock()
		return
	}
	c.timer = nil

	next := c.clamp(c.index + 1)
	if next == c.index {
		// Final slide: stay here without re-arming.
		c.mu.Unlock()
		return
	}
	c.index = next
	c.armLocked(c.timings.At(c.slides, next))
	c.commitLocked()
}

func (c *Controller) armLocked(d time.Duration) {
	c.cancelLocked()
	gen := c.gen
	c.armedAt = c.clock.Now()
	c.armedFor = d
	c.timer = c.clock.AfterFunc(d, func() { c.fire(gen) })
}

func (c *Controller) cancelLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.gen++
}

// commitLocked snapshots the state, releases the lock and notifies
// observers outside of it.
func (c *Controller) commitLocked() {
	c.seq++
	seq := c.seq
	st := c.snapshotLocked()
	obs := make([]func(State), 0, len(c.observers))
	for _, o := range c.observers {
		obs = append(obs, o.fn)
	}
	c.mu.Unlock()

	c.deliver(seq, st, obs)
}

// deliver hands st to obs unless a later commit has already been
// delivered or the controller was closed meanwhile. Lock order is
// notifyMu then mu.
func (c *Controller) deliver(seq uint64, st State, obs []func(State)) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	if seq <= c.delivered || c.isClosed() {
		return
	}
	c.delivered = seq
	for _, fn := range obs {
		fn(st)
	}
}

func (c *Controller) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Controller) snapshotLocked() State {
	st := State{
		Index:    c.index,
		Count:    len(c.slides),
		Playing:  c.playing,
		Duration: c.timings.At(c.slides, c.index),
	}
	if c.remaining != nil {
		r := *c.remaining
		st.Remaining = &r
	}
	return st
}

func (c *Controller) inertLocked() bool {
	return c.closed || len(c.slides) == 0
}

func (c *Controller) clamp(i int) int {
	last := len(c.slides) - 1
	if i > last {
		i = last
	}
	if i < 0 {
		i = 0
	}
	return i
}
