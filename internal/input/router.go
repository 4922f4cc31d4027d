package input

// Router translates input events into playback commands. It holds no
// playback state of its own.
type Router struct {
	Commands Commands
	// OnClose is invoked for Escape and the close button.
	OnClose func()
	// SwipeThreshold defaults to DefaultSwipeThreshold when zero.
	SwipeThreshold float64
}

// NewRouter returns a Router with the default swipe threshold.
func NewRouter(cmds Commands, onClose func()) *Router {
	return &Router{Commands: cmds, OnClose: onClose, SwipeThreshold: DefaultSwipeThreshold}
}

// Dispatch handles one event.
func (r *Router) Dispatch(ev Event) Result {
	switch e := ev.(type) {
	case Key:
		return r.key(e)
	case Swipe:
		return r.swipe(e)
	case Button:
		return r.button(e)
	}
	return Result{}
}

func (r *Router) key(k Key) Result {
	switch k.Name {
	case KeyArrowLeft:
		r.Commands.Prev()
		return Result{Handled: true}
	case KeyArrowRight:
		r.Commands.Next()
		return Result{Handled: true}
	case KeySpace, "Spacebar":
		if !k.InsideSurface {
			return Result{}
		}
		r.Commands.Toggle()
		return Result{Handled: true, PreventDefault: true}
	case KeyEscape, "Esc":
		r.close()
		return Result{Handled: true}
	case KeyTab:
		target, ok := NextFocus(k.Focus.Focusables, k.Focus.Active, k.Shift)
		if !ok {
			return Result{Handled: true, PreventDefault: true}
		}
		return Result{Handled: true, PreventDefault: true, FocusTarget: target}
	}
	return Result{}
}

func (r *Router) swipe(s Swipe) Result {
	threshold := r.SwipeThreshold
	if threshold <= 0 {
		threshold = DefaultSwipeThreshold
	}
	dx := s.EndX - s.StartX
	switch {
	case dx < -threshold:
		r.Commands.Next()
	case dx > threshold:
		r.Commands.Prev()
	default:
		return Result{}
	}
	return Result{Handled: true}
}

func (r *Router) button(b Button) Result {
	switch b.Name {
	case ButtonPrev:
		r.Commands.Prev()
	case ButtonNext:
		r.Commands.Next()
	case ButtonPlay:
		r.Commands.Play()
	case ButtonPause:
		r.Commands.Pause()
	case ButtonToggle:
		r.Commands.Toggle()
	case ButtonRestart:
		r.Commands.Restart()
	case ButtonClose:
		r.close()
	default:
		return Result{}
	}
	return Result{Handled: true}
}

func (r *Router) close() {
	if r.OnClose != nil {
		r.OnClose()
	}
}

// NextFocus returns the element that Tab (or Shift+Tab when shift is set)
// should move to, cycling within focusables. It reports false when there
// is nothing to focus.
func NextFocus(focusables []string, active string, shift bool) (string, bool) {
	n := len(focusables)
	if n == 0 {
		return "", false
	}

	pos := -1
	for i, id := range focusables {
		if id == active {
			pos = i
			break
		}
	}

	if pos < 0 {
		if shift {
			return focusables[n-1], true
		}
		return focusables[0], true
	}
	if shift {
		return focusables[(pos-1+n)%n], true
	}
	return focusables[(pos+1)%n], true
}
