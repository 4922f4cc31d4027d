// Package markup turns stored story content into the HTML the segmenter reads.
package markup

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Format is the source format of a story.
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	return f == FormatHTML || f == FormatMarkdown
}

// FormatForPath guesses the format from a file extension.
func FormatForPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return FormatMarkdown, true
	case ".html", ".htm":
		return FormatHTML, true
	}
	return "", false
}

var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		highlighting.NewHighlighting(
			highlighting.WithStyle("github"),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		// Story authors embed raw <img> and <figure> blocks.
		html.WithUnsafe(),
	),
)

// ToHTML renders content of the given format as HTML. HTML passes through.
func ToHTML(format Format, content string) (string, error) {
	switch format {
	case FormatHTML, "":
		return content, nil
	case FormatMarkdown:
		var buf bytes.Buffer
		if err := md.Convert([]byte(content), &buf); err != nil {
			return "", fmt.Errorf("rendering markdown: %w", err)
		}
		return buf.String(), nil
	default:
		return "", fmt.Errorf("unknown format %q", format)
	}
}
