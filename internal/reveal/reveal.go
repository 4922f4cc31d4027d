package reveal

import (
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ziadkadry99/storyreel/internal/slides"
)

// Default reveal timing: each block starts Stagger after the previous one
// and takes Transition to fade and slide up into place.
const (
	DefaultStagger    = 90 * time.Millisecond
	DefaultTransition = 600 * time.Millisecond
)

// Step is one block of a slide to bring into view.
type Step struct {
	Tag   string        `json:"tag"`
	Delay time.Duration `json:"delay"`
}

// Schedule is the staggered entrance of a slide's blocks.
type Schedule struct {
	Steps      []Step        `json:"steps"`
	Transition time.Duration `json:"transition"`
}

// Total is the time until the last block is fully visible.
func (s Schedule) Total() time.Duration {
	if len(s.Steps) == 0 {
		return 0
	}
	return s.Steps[len(s.Steps)-1].Delay + s.Transition
}

// Fits reports whether every block is fully visible before budget runs out.
func (s Schedule) Fits(budget time.Duration) bool {
	return s.Total() <= budget
}

// Planner builds schedules with fixed timing.
type Planner struct {
	Stagger    time.Duration
	Transition time.Duration
}

// DefaultPlanner returns a Planner with the default timing.
func DefaultPlanner() Planner {
	return Planner{Stagger: DefaultStagger, Transition: DefaultTransition}
}

// Plan lists the blocks of s in reveal order. Heading slides reveal the
// title first, image slides reveal the image alone.
func (p Planner) Plan(s slides.Slide) Schedule {
	var tags []string
	switch s.Kind {
	case slides.KindImage:
		tags = []string{"img"}
	case slides.KindHeading:
		tags = append(tags, headingTag(s.Level))
		tags = append(tags, blockTags(s.Body)...)
	default:
		tags = blockTags(s.Body)
	}

	sched := Schedule{Transition: p.Transition}
	for i, tag := range tags {
		sched.Steps = append(sched.Steps, Step{Tag: tag, Delay: time.Duration(i) * p.Stagger})
	}
	return sched
}

func headingTag(level int) string {
	switch level {
	case 1:
		return "h1"
	case 2:
		return "h2"
	default:
		return "h3"
	}
}

var revealed = map[atom.Atom]bool{
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.P: true, atom.Li: true, atom.Blockquote: true, atom.Img: true, atom.Pre: true,
}

// blockTags walks a body fragment in document order and returns the tags
// of the blocks that animate in. A revealed block's own descendants ride
// along with it, except list items inside a list.
func blockTags(fragment string) []string {
	if strings.TrimSpace(fragment) == "" {
		return nil
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type: html.ElementNode, Data: "body", DataAtom: atom.Body,
	})
	if err != nil {
		return nil
	}

	var tags []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		if revealed[n.DataAtom] {
			tags = append(tags, n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return tags
}
