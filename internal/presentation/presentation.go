// Package presentation opens markup as a timed slideshow on a Host and
// tears it down again.
package presentation

import (
	"log"
	"sync"
	"time"

	"github.com/ziadkadry99/storyreel/internal/announce"
	"github.com/ziadkadry99/storyreel/internal/clock"
	"github.com/ziadkadry99/storyreel/internal/input"
	"github.com/ziadkadry99/storyreel/internal/player"
	"github.com/ziadkadry99/storyreel/internal/reveal"
	"github.com/ziadkadry99/storyreel/internal/slides"
)

// IDs of the controls a presentation surface exposes, in tab order.
const (
	ControlPrev    = "prev"
	ControlToggle  = "toggle"
	ControlNext    = "next"
	ControlRestart = "restart"
	ControlClose   = "close"
)

// Controls is the default focus order inside the surface.
var Controls = []string{ControlPrev, ControlToggle, ControlNext, ControlRestart, ControlClose}

// Host is whatever displays the presentation: a browser session, a
// terminal, or a test double.
type Host interface {
	// ActiveElement returns the id of the currently focused element.
	ActiveElement() string
	Focus(id string)
	Announce(text string)
	Render(Frame)
}

// Frame is everything a host needs to draw the current slide.
type Frame struct {
	Index    int             `json:"index"`
	Count    int             `json:"count"`
	Playing  bool            `json:"playing"`
	Slide    *slides.Slide   `json:"slide,omitempty"`
	Duration time.Duration   `json:"duration"`
	Reveal   reveal.Schedule `json:"reveal"`
}

type options struct {
	clock          clock.Clock
	timings        player.Timings
	planner        reveal.Planner
	swipeThreshold float64
	previewLength  int
	controls       []string
}

// Option configures Open.
type Option func(*options)

// WithClock sets the time source driving auto-advance.
func WithClock(c clock.Clock) Option { return func(o *options) { o.clock = c } }

// WithTimings overrides per-slide durations.
func WithTimings(t player.Timings) Option { return func(o *options) { o.timings = t } }

// WithPlanner overrides the reveal stagger and transition.
func WithPlanner(p reveal.Planner) Option { return func(o *options) { o.planner = p } }

// WithSwipeThreshold sets the horizontal distance a swipe must exceed.
func WithSwipeThreshold(px float64) Option { return func(o *options) { o.swipeThreshold = px } }

// WithPreviewLength sets how much paragraph text is announced.
func WithPreviewLength(n int) Option { return func(o *options) { o.previewLength = n } }

// WithControls replaces the focusable controls used by the focus trap.
func WithControls(ids []string) Option { return func(o *options) { o.controls = ids } }

// Presentation is one open slideshow.
type Presentation struct {
	host    Host
	ctl     *player.Controller
	router  *input.Router
	planner reveal.Planner

	controls      []string
	previousFocus string
	unsubscribe   []func()

	mu      sync.Mutex
	closed  bool
	onClose func()
}

// Open segments markup and starts playing it on host. The element focused
// before Open is restored on Close, and onClose runs exactly once.
func Open(markup string, host Host, onClose func(), opts ...Option) *Presentation {
	o := options{
		clock:          clock.Real(),
		timings:        player.DefaultTimings(),
		planner:        reveal.DefaultPlanner(),
		swipeThreshold: input.DefaultSwipeThreshold,
		previewLength:  announce.DefaultPreviewLength,
		controls:       Controls,
	}
	for _, opt := range opts {
		opt(&o)
	}

	p := &Presentation{
		host:          host,
		planner:       o.planner,
		controls:      o.controls,
		previousFocus: host.ActiveElement(),
		onClose:       onClose,
	}

	list := slides.Segment(markup)
	p.ctl = player.New(list, player.WithClock(o.clock), player.WithTimings(o.timings))
	p.router = input.NewRouter(p.ctl, p.Close)
	p.router.SwipeThreshold = o.swipeThreshold

	ann := &announce.Announcer{Region: host, PreviewLength: o.previewLength}
	p.unsubscribe = append(p.unsubscribe,
		p.ctl.Subscribe(func(st player.State) {
			if !p.Closed() {
				ann.Observe(list, st)
			}
		}),
		p.ctl.Subscribe(p.render),
	)

	if len(p.controls) > 0 {
		host.Focus(p.controls[0])
	}
	st := p.ctl.State()
	ann.Observe(list, st)
	p.render(st)
	return p
}

// Controller exposes playback for hosts that drive it directly.
func (p *Presentation) Controller() *player.Controller { return p.ctl }

// Frame builds the frame for the current state.
func (p *Presentation) Frame() Frame { return p.frame(p.ctl.State()) }

// Dispatch routes one input event. Key events without an explicit focus
// context get the surface controls and the host's active element.
func (p *Presentation) Dispatch(ev input.Event) input.Result {
	if p.Closed() {
		return input.Result{}
	}
	if k, ok := ev.(input.Key); ok && len(k.Focus.Focusables) == 0 {
		k.Focus = input.FocusContext{Focusables: p.controls, Active: p.host.ActiveElement()}
		ev = k
	}
	res := p.router.Dispatch(ev)
	if res.FocusTarget != "" && !p.Closed() {
		p.host.Focus(res.FocusTarget)
	}
	return res
}

// Close stops playback, releases the presentation's subscriptions,
// restores the previously focused element and calls onClose. Later calls
// do nothing.
func (p *Presentation) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	onClose := p.onClose
	p.onClose = nil
	p.mu.Unlock()

	for _, un := range p.unsubscribe {
		un()
	}
	p.ctl.Close()
	if p.previousFocus != "" {
		p.host.Focus(p.previousFocus)
	}
	if onClose != nil {
		onClose()
	}
}

// Closed reports whether Close has run.
func (p *Presentation) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *Presentation) render(st player.State) {
	if p.Closed() {
		return
	}
	p.host.Render(p.frame(st))
}

func (p *Presentation) frame(st player.State) Frame {
	f := Frame{
		Index:    st.Index,
		Count:    st.Count,
		Playing:  st.Playing,
		Duration: st.Duration,
	}
	list := p.ctl.Slides()
	if st.Index < len(list) {
		s := list[st.Index]
		f.Slide = &s
		f.Reveal = p.planner.Plan(s)
		if !f.Reveal.Fits(st.Duration) {
			log.Printf("presentation: slide %d reveal takes %v of its %v", st.Index, f.Reveal.Total(), st.Duration)
		}
	}
	return f
}
