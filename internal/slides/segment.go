package slides

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Segment splits block-level markup into an ordered slide sequence.
//
// A h1-h3 heading starts a heading slide and absorbs the following sibling
// blocks until the next heading or image. An image becomes a standalone
// slide. Every other block that was not absorbed becomes a paragraph
// slide. Markup that is empty or cannot be parsed yields no slides.
func Segment(markup string) []Slide {
	if strings.TrimSpace(markup) == "" {
		return nil
	}

	nodes, err := html.ParseFragment(strings.NewReader(markup), bodyContext())
	if err != nil {
		return nil
	}

	blocks := topLevelBlocks(nodes)
	if len(blocks) == 0 {
		return nil
	}

	var out []Slide
	for i := 0; i < len(blocks); {
		n := blocks[i]

		if img := imageOf(n); img != nil {
			src, alt := cleanImage(img)
			out = append(out, Slide{
				Kind:     KindImage,
				ImageSrc: src,
				ImageAlt: alt,
			})
			i++
			continue
		}

		if level := headingLevel(n); level > 0 {
			s := Slide{
				Kind:  KindHeading,
				Level: level,
				Title: collapse(textOf(n)),
			}
			var body strings.Builder
			i++
			for i < len(blocks) && headingLevel(blocks[i]) == 0 && imageOf(blocks[i]) == nil {
				body.WriteString(render(blocks[i]))
				i++
			}
			s.Body = clean(body.String())
			out = append(out, s)
			continue
		}

		out = append(out, Slide{Kind: KindParagraph, Body: clean(render(n))})
		i++
	}
	return out
}

func bodyContext() *html.Node {
	return &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
}

// topLevelBlocks returns the element blocks of the parsed fragment in
// document order, skipping script-like elements. Loose non-blank text is
// wrapped in a <p>.
func topLevelBlocks(nodes []*html.Node) []*html.Node {
	var blocks []*html.Node
	for _, n := range nodes {
		switch n.Type {
		case html.ElementNode:
			if droppedElements[n.DataAtom] {
				continue
			}
			blocks = append(blocks, n)
		case html.TextNode:
			if strings.TrimSpace(n.Data) == "" {
				continue
			}
			p := &html.Node{Type: html.ElementNode, Data: "p", DataAtom: atom.P}
			p.AppendChild(&html.Node{Type: html.TextNode, Data: strings.TrimSpace(n.Data)})
			blocks = append(blocks, p)
		}
	}
	return blocks
}

func headingLevel(n *html.Node) int {
	if n.Type != html.ElementNode {
		return 0
	}
	switch n.DataAtom {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	}
	return 0
}

// imageOf returns the image a block presents: the block itself when it is
// an <img>, or the single <img> inside a wrapper such as the <p> markdown
// renderers emit for a standalone image.
func imageOf(n *html.Node) *html.Node {
	if n.Type != html.ElementNode {
		return nil
	}
	if n.DataAtom == atom.Img {
		return n
	}
	if n.DataAtom != atom.P && n.DataAtom != atom.Figure && n.DataAtom != atom.Div {
		return nil
	}

	var img *html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if strings.TrimSpace(c.Data) != "" {
				return nil
			}
		case html.ElementNode:
			if c.DataAtom == atom.Img && img == nil {
				img = c
				continue
			}
			if c.DataAtom == atom.Figcaption {
				continue
			}
			return nil
		}
	}
	return img
}

func render(n *html.Node) string {
	var b strings.Builder
	if err := html.Render(&b, n); err != nil {
		return ""
	}
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}
