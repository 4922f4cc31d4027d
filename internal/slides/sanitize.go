package slides

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// droppedElements are removed together with their subtree.
var droppedElements = map[atom.Atom]bool{
	atom.Script: true,
	atom.Style:  true,
	atom.Iframe: true,
	atom.Object: true,
	atom.Embed:  true,
}

// policy is the user-generated-content allowlist applied to every slide
// body and image. It drops event handlers, script URLs (including ones
// hidden behind entities or control characters) and elements such as
// <meta> and <form>. Inline colors from syntax highlighting are kept.
var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowStyles("color", "background-color", "font-weight", "font-style").OnElements("pre", "span")
	return p
}

// clean applies policy to a markup fragment.
func clean(markup string) string {
	return policy.Sanitize(markup)
}

// cleanImage returns the src and alt of img that survive policy. A src
// with a disallowed scheme comes back empty.
func cleanImage(img *html.Node) (src, alt string) {
	nodes, err := html.ParseFragment(strings.NewReader(clean(render(img))), bodyContext())
	if err != nil {
		return "", ""
	}
	for _, n := range nodes {
		if n.Type == html.ElementNode && n.DataAtom == atom.Img {
			return attr(n, "src"), strings.TrimSpace(attr(n, "alt"))
		}
	}
	return "", ""
}

// PlainText returns the whitespace-collapsed text content of a markup
// fragment, ignoring script and style content.
func PlainText(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), bodyContext())
	if err != nil {
		return ""
	}
	var b strings.Builder
	for _, n := range nodes {
		writeText(&b, n)
		b.WriteByte(' ')
	}
	return collapse(b.String())
}

func textOf(n *html.Node) string {
	var b strings.Builder
	writeText(&b, n)
	return b.String()
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		if droppedElements[n.DataAtom] {
			return
		}
		if n.DataAtom == atom.Br {
			b.WriteByte(' ')
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
	if n.Type == html.ElementNode && isBlock(n.DataAtom) {
		b.WriteByte(' ')
	}
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Li, atom.Blockquote, atom.H1, atom.H2, atom.H3,
		atom.H4, atom.H5, atom.H6, atom.Ul, atom.Ol, atom.Pre, atom.Tr, atom.Figcaption:
		return true
	}
	return false
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
