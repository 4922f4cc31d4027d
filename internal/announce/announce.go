package announce

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/ziadkadry99/storyreel/internal/player"
	"github.com/ziadkadry99/storyreel/internal/slides"
)

// DefaultPreviewLength is the number of characters of paragraph text read
// out before truncation.
const DefaultPreviewLength = 80

const ellipsis = "…"

// Region receives announcement text, like an assertive live region.
type Region interface {
	Announce(text string)
}

// Describe returns the spoken description of the slide at index within a
// presentation of count slides. A nil slide yields a position-only text.
func Describe(s *slides.Slide, index, count, previewLength int) string {
	if count <= 0 {
		return "No slides."
	}
	pos := fmt.Sprintf("Slide %d of %d.", index+1, count)
	if s == nil {
		return pos
	}
	return pos + " " + describeSlide(*s, previewLength)
}

func describeSlide(s slides.Slide, previewLength int) string {
	switch s.Kind {
	case slides.KindHeading:
		if s.Title == "" {
			return "Heading."
		}
		return "Heading: " + terminate(s.Title)
	case slides.KindImage:
		if s.ImageAlt == "" {
			return "Image."
		}
		return "Image: " + terminate(s.ImageAlt)
	default:
		text := Preview(slides.PlainText(s.Body), previewLength)
		if text == "" {
			return "Paragraph."
		}
		return "Paragraph: " + terminate(text)
	}
}

// Preview truncates text to n characters, appending an ellipsis when
// anything was cut.
func Preview(text string, n int) string {
	if n <= 0 {
		n = DefaultPreviewLength
	}
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return strings.TrimRight(string(runes[:n]), " ") + ellipsis
}

func terminate(s string) string {
	if strings.HasSuffix(s, ".") || strings.HasSuffix(s, ellipsis) ||
		strings.HasSuffix(s, "!") || strings.HasSuffix(s, "?") {
		return s
	}
	return s + "."
}

// Announcer writes a description to its Region when a presentation mounts
// and whenever the current slide changes. Play and pause changes alone are
// not announced.
type Announcer struct {
	Region        Region
	PreviewLength int

	mu        sync.Mutex
	announced bool
	lastIndex int
}

// Observe announces st if its index differs from the last announcement.
func (a *Announcer) Observe(list []slides.Slide, st player.State) {
	a.mu.Lock()
	if a.announced && a.lastIndex == st.Index {
		a.mu.Unlock()
		return
	}
	a.announced = true
	a.lastIndex = st.Index
	a.mu.Unlock()

	if a.Region == nil {
		return
	}
	var s *slides.Slide
	if st.Index >= 0 && st.Index < len(list) {
		s = &list[st.Index]
	}
	a.Region.Announce(Describe(s, st.Index, len(list), a.PreviewLength))
}
