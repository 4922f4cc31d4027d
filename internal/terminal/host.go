// Package terminal plays a presentation in a text terminal.
package terminal

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/mattn/go-runewidth"

	"github.com/ziadkadry99/storyreel/internal/presentation"
	"github.com/ziadkadry99/storyreel/internal/slides"
)

const (
	clearScreen = "\x1b[2J\x1b[H"
	reverse     = "\x1b[7m"
	reset       = "\x1b[0m"
)

const minWidth = 20

var controlLabels = map[string]string{
	presentation.ControlPrev:    "◀ prev",
	presentation.ControlToggle:  "⏯ play/pause",
	presentation.ControlNext:    "next ▶",
	presentation.ControlRestart: "↻ restart",
	presentation.ControlClose:   "✕ close",
}

// Host draws frames as text. Lines are fitted to Width display columns.
type Host struct {
	Out   io.Writer
	Width int

	mu     sync.Mutex
	active string
	status string
	frame  *presentation.Frame
}

// NewHost creates a Host writing to out.
func NewHost(out io.Writer, width int) *Host {
	if width < minWidth {
		width = minWidth
	}
	return &Host{Out: out, Width: width, active: "terminal"}
}

func (h *Host) ActiveElement() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active
}

func (h *Host) Focus(id string) {
	h.mu.Lock()
	h.active = id
	h.mu.Unlock()
	h.redraw()
}

func (h *Host) Announce(text string) {
	h.mu.Lock()
	h.status = text
	h.mu.Unlock()
	h.redraw()
}

func (h *Host) Render(f presentation.Frame) {
	h.mu.Lock()
	h.frame = &f
	h.mu.Unlock()
	h.redraw()
}

func (h *Host) redraw() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.frame == nil {
		return
	}
	io.WriteString(h.Out, clearScreen+strings.ReplaceAll(h.screenLocked(), "\n", "\r\n"))
}

// Screen returns the current screen contents without escape codes for
// clearing.
func (h *Host) Screen() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.frame == nil {
		return ""
	}
	return h.screenLocked()
}

func (h *Host) screenLocked() string {
	f := h.frame
	var b strings.Builder

	state := "paused"
	if f.Playing {
		state = "playing"
	}
	if f.Count == 0 {
		fmt.Fprintf(&b, "%s\n\n", h.fit("(no slides)"))
	} else {
		fmt.Fprintf(&b, "%s\n\n", h.fit(fmt.Sprintf("[%d/%d] %s", f.Index+1, f.Count, state)))
	}

	for _, line := range slideLines(f.Slide) {
		for _, wrapped := range h.wrap(line) {
			b.WriteString(wrapped)
			b.WriteByte('\n')
		}
	}

	b.WriteByte('\n')
	var controls []string
	for _, id := range presentation.Controls {
		label := "[" + controlLabels[id] + "]"
		if id == h.active {
			label = reverse + label + reset
		}
		controls = append(controls, label)
	}
	b.WriteString(strings.Join(controls, " "))
	b.WriteString("\n")
	b.WriteString(h.fit(h.status))
	b.WriteString("\n")
	return b.String()
}

// slideLines is the text of a slide, one paragraph per line.
func slideLines(s *slides.Slide) []string {
	if s == nil {
		return nil
	}
	switch s.Kind {
	case slides.KindImage:
		alt := s.ImageAlt
		if alt == "" {
			alt = s.ImageSrc
		}
		return []string{"[image: " + alt + "]"}
	case slides.KindHeading:
		lines := []string{s.Title, strings.Repeat("─", runewidth.StringWidth(s.Title))}
		if body := slides.PlainText(s.Body); body != "" {
			lines = append(lines, "", body)
		}
		return lines
	default:
		return []string{slides.PlainText(s.Body)}
	}
}

// fit truncates s to the terminal width.
func (h *Host) fit(s string) string {
	return runewidth.Truncate(s, h.Width, "…")
}

// wrap breaks s into lines no wider than the terminal, splitting on spaces
// and hard-breaking words that are wider than a line.
func (h *Host) wrap(s string) []string {
	if s == "" {
		return []string{""}
	}
	var lines []string
	var cur strings.Builder
	curW := 0
	for _, word := range strings.Fields(s) {
		w := runewidth.StringWidth(word)
		if curW > 0 && curW+1+w > h.Width {
			lines = append(lines, cur.String())
			cur.Reset()
			curW = 0
		}
		for w > h.Width {
			head := runewidth.Truncate(word, h.Width, "")
			if head == "" {
				break
			}
			if cur.Len() > 0 {
				lines = append(lines, cur.String())
				cur.Reset()
				curW = 0
			}
			lines = append(lines, head)
			word = word[len(head):]
			w = runewidth.StringWidth(word)
		}
		if curW > 0 {
			cur.WriteByte(' ')
			curW++
		}
		cur.WriteString(word)
		curW += w
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}
