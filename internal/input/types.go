package input

// Key names, following the DOM KeyboardEvent.key values the viewer sends.
const (
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeySpace      = " "
	KeyEscape     = "Escape"
	KeyTab        = "Tab"
)

// Button names for the on-screen controls.
const (
	ButtonPrev    = "prev"
	ButtonNext    = "next"
	ButtonPlay    = "play"
	ButtonPause   = "pause"
	ButtonToggle  = "toggle"
	ButtonRestart = "restart"
	ButtonClose   = "close"
)

// DefaultSwipeThreshold is the horizontal travel, in logical pixels, a
// drag must exceed to count as a swipe.
const DefaultSwipeThreshold = 40.0

// Event is one input delivered to the Router: Key, Swipe or Button.
type Event interface {
	isEvent()
}

// FocusContext describes the focusable elements inside the presentation
// surface at the time of a key press.
type FocusContext struct {
	Focusables []string `json:"focusables"`
	Active     string   `json:"active"`
}

// Key is a key press.
type Key struct {
	Name  string
	Shift bool
	// InsideSurface reports whether focus was inside the presentation when
	// the key was pressed.
	InsideSurface bool
	Focus         FocusContext
}

// Swipe is a completed touch drag.
type Swipe struct {
	StartX float64
	EndX   float64
}

// Button is a click on one of the playback controls.
type Button struct {
	Name string
}

func (Key) isEvent()    {}
func (Swipe) isEvent()  {}
func (Button) isEvent() {}

// Commands are the playback operations the Router drives.
type Commands interface {
	Play()
	Pause()
	Toggle()
	Next()
	Prev()
	Restart()
}

// Result tells the host what to do with the original event.
type Result struct {
	Handled bool `json:"handled"`
	// PreventDefault asks the host to suppress the platform behavior, such
	// as page scroll on space or focus leaving on tab.
	PreventDefault bool `json:"prevent_default"`
	// FocusTarget, when non-empty, is the element that should receive focus.
	FocusTarget string `json:"focus_target,omitempty"`
}
