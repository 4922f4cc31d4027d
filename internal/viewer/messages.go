package viewer

import (
	"github.com/ziadkadry99/storyreel/internal/input"
	"github.com/ziadkadry99/storyreel/internal/presentation"
	"github.com/ziadkadry99/storyreel/internal/slides"
)

// clientMessage is the incoming WebSocket message format.
type clientMessage struct {
	Type string `json:"type"` // "key", "swipe", "button" or "focus"

	Key    string `json:"key,omitempty"`
	Shift  bool   `json:"shift,omitempty"`
	Inside bool   `json:"inside,omitempty"` // focus is inside the presentation surface

	StartX float64 `json:"start_x,omitempty"`
	EndX   float64 `json:"end_x,omitempty"`

	Name string `json:"name,omitempty"` // button name

	Target string `json:"target,omitempty"` // element that now has focus
}

// event converts m to an input event. ok is false for focus reports and
// unknown types.
func (m clientMessage) event() (input.Event, bool) {
	switch m.Type {
	case "key":
		return input.Key{Name: m.Key, Shift: m.Shift, InsideSurface: m.Inside}, true
	case "swipe":
		return input.Swipe{StartX: m.StartX, EndX: m.EndX}, true
	case "button":
		return input.Button{Name: m.Name}, true
	}
	return nil, false
}

// serverMessage is the outgoing WebSocket message format.
type serverMessage struct {
	Type    string        `json:"type"` // "frame", "announce", "focus", "closed" or "error"
	Frame   *frameMessage `json:"frame,omitempty"`
	Text    string        `json:"text,omitempty"`
	Target  string        `json:"target,omitempty"`
	Content string        `json:"content,omitempty"` // error detail
}

type stepMessage struct {
	Tag     string `json:"tag"`
	DelayMS int64  `json:"delay_ms"`
}

type frameMessage struct {
	Index        int           `json:"index"`
	Count        int           `json:"count"`
	Playing      bool          `json:"playing"`
	Slide        *slides.Slide `json:"slide,omitempty"`
	DurationMS   int64         `json:"duration_ms"`
	Reveal       []stepMessage `json:"reveal"`
	TransitionMS int64         `json:"transition_ms"`
	Controls     []string      `json:"controls"`
}

func newFrameMessage(f presentation.Frame) *frameMessage {
	fm := &frameMessage{
		Index:        f.Index,
		Count:        f.Count,
		Playing:      f.Playing,
		Slide:        f.Slide,
		DurationMS:   f.Duration.Milliseconds(),
		TransitionMS: f.Reveal.Transition.Milliseconds(),
		Reveal:       make([]stepMessage, 0, len(f.Reveal.Steps)),
		Controls:     presentation.Controls,
	}
	for _, st := range f.Reveal.Steps {
		fm.Reveal = append(fm.Reveal, stepMessage{Tag: st.Tag, DelayMS: st.Delay.Milliseconds()})
	}
	return fm
}
