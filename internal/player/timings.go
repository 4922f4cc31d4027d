package player

import (
	"time"

	"github.com/ziadkadry99/storyreel/internal/slides"
)

// Timings is the per-slide screen time policy. Denser content stays up
// longer.
type Timings struct {
	Image     time.Duration
	Heading1  time.Duration
	Heading2  time.Duration
	Heading3  time.Duration
	Paragraph time.Duration
	// Fallback applies when there is no slide at the requested index.
	Fallback time.Duration
}

// DefaultTimings returns the standard durations.
func DefaultTimings() Timings {
	return Timings{
		Image:     4500 * time.Millisecond,
		Heading1:  4800 * time.Millisecond,
		Heading2:  3800 * time.Millisecond,
		Heading3:  3200 * time.Millisecond,
		Paragraph: 3000 * time.Millisecond,
		Fallback:  3500 * time.Millisecond,
	}
}

// For returns the duration of a single slide.
func (t Timings) For(s slides.Slide) time.Duration {
	switch s.Kind {
	case slides.KindImage:
		return t.Image
	case slides.KindHeading:
		switch s.Level {
		case 1:
			return t.Heading1
		case 2:
			return t.Heading2
		default:
			return t.Heading3
		}
	case slides.KindParagraph:
		return t.Paragraph
	}
	return t.Fallback
}

// At returns the duration of the slide at index i, or Fallback when i is
// out of range.
func (t Timings) At(list []slides.Slide, i int) time.Duration {
	if i < 0 || i >= len(list) {
		return t.Fallback
	}
	return t.For(list[i])
}

// All returns the duration of every slide in order.
func (t Timings) All(list []slides.Slide) []time.Duration {
	out := make([]time.Duration, len(list))
	for i, s := range list {
		out[i] = t.For(s)
	}
	return out
}
