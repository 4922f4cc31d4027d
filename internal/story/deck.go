package story

import (
	"github.com/ziadkadry99/storyreel/internal/announce"
	"github.com/ziadkadry99/storyreel/internal/markup"
	"github.com/ziadkadry99/storyreel/internal/player"
	"github.com/ziadkadry99/storyreel/internal/reveal"
	"github.com/ziadkadry99/storyreel/internal/slides"
)

// DeckOptions is the timing policy used to describe a story's slides.
type DeckOptions struct {
	Timings       player.Timings
	Planner       reveal.Planner
	PreviewLength int
}

// DefaultDeckOptions uses the built-in timings.
func DefaultDeckOptions() DeckOptions {
	return DeckOptions{
		Timings:       player.DefaultTimings(),
		Planner:       reveal.DefaultPlanner(),
		PreviewLength: announce.DefaultPreviewLength,
	}
}

// DeckSlide is a slide with everything a viewer shows or says about it.
type DeckSlide struct {
	slides.Slide
	DurationMS   int64  `json:"duration_ms"`
	Announcement string `json:"announcement"`
	RevealMS     int64  `json:"reveal_ms"`
}

// Deck is the full slide breakdown of a story.
type Deck struct {
	StoryID string      `json:"story_id"`
	Title   string      `json:"title"`
	TotalMS int64       `json:"total_ms"`
	Slides  []DeckSlide `json:"slides"`
}

// HTML renders the story's content for segmentation.
func (st *Story) HTML() (string, error) {
	return markup.ToHTML(st.Format, st.Content)
}

// BuildDeck segments st and attaches per-slide timing and announcements.
func BuildDeck(st *Story, opts DeckOptions) (*Deck, error) {
	html, err := st.HTML()
	if err != nil {
		return nil, err
	}
	list := slides.Segment(html)

	deck := &Deck{StoryID: st.ID, Title: st.Title, Slides: make([]DeckSlide, 0, len(list))}
	for i := range list {
		d := opts.Timings.At(list, i)
		deck.Slides = append(deck.Slides, DeckSlide{
			Slide:        list[i],
			DurationMS:   d.Milliseconds(),
			Announcement: announce.Describe(&list[i], i, len(list), opts.PreviewLength),
			RevealMS:     opts.Planner.Plan(list[i]).Total().Milliseconds(),
		})
		deck.TotalMS += d.Milliseconds()
	}
	return deck, nil
}
