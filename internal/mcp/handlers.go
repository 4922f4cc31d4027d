package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/storyreel/internal/markup"
	"github.com/ziadkadry99/storyreel/internal/slides"
	"github.com/ziadkadry99/storyreel/internal/story"
)

// handleListStories lists the library.
func (s *Server) handleListStories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", 50)
	if limit <= 0 {
		limit = 50
	}
	filter := story.ListFilter{
		Query:  request.GetString("query", ""),
		Source: story.Source(request.GetString("source", "")),
		Limit:  limit,
	}

	stories, err := s.store.List(ctx, filter)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing stories failed: %v", err)), nil
	}
	if len(stories) == 0 {
		return mcp.NewToolResultText("No stories found. Run `storyreel import` or `storyreel sync` to add some."), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d story(ies):\n", len(stories)))
	for _, st := range stories {
		sb.WriteString(fmt.Sprintf("\n- %s\n  ID: %s\n  Source: %s", st.Title, st.ID, st.Source))
		if st.SourcePath != "" {
			sb.WriteString(" (" + st.SourcePath + ")")
		}
		sb.WriteString(fmt.Sprintf("\n  Updated: %s\n", st.UpdatedAt.Format("2006-01-02 15:04")))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleGetSlides returns the slide breakdown of a stored story.
func (s *Server) handleGetSlides(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("story_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: story_id"), nil
	}

	st, err := s.store.GetByID(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load story: %v", err)), nil
	}
	if st == nil {
		return mcp.NewToolResultError(fmt.Sprintf("No story with id %q. Use list_stories to find one.", id)), nil
	}

	deck, err := story.BuildDeck(st, s.deck)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to segment story: %v", err)), nil
	}
	return mcp.NewToolResultText(formatDeck(deck)), nil
}

// handleSegmentMarkup previews segmentation of unsaved content.
func (s *Server) handleSegmentMarkup(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: content"), nil
	}
	format := markup.Format(request.GetString("format", string(markup.FormatHTML)))
	if !format.Valid() {
		return mcp.NewToolResultError(fmt.Sprintf("unknown format %q", format)), nil
	}

	deck, err := story.BuildDeck(&story.Story{Title: "Preview", Format: format, Content: content}, s.deck)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to segment content: %v", err)), nil
	}
	return mcp.NewToolResultText(formatDeck(deck)), nil
}

// formatDeck renders a deck as readable text.
func formatDeck(deck *story.Deck) string {
	if len(deck.Slides) == 0 {
		return fmt.Sprintf("%s has no slides.", deck.Title)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: %d slide(s), %.1fs total\n", deck.Title, len(deck.Slides), float64(deck.TotalMS)/1000))
	for i, s := range deck.Slides {
		sb.WriteString(fmt.Sprintf("\n--- Slide %d (%s, %dms) ---\n", i+1, kindLabel(s.Slide), s.DurationMS))
		switch s.Kind {
		case slides.KindImage:
			sb.WriteString(fmt.Sprintf("Image: %s\n", s.ImageSrc))
			if s.ImageAlt != "" {
				sb.WriteString(fmt.Sprintf("Alt: %s\n", s.ImageAlt))
			}
		default:
			if text := s.Text(); text != "" {
				sb.WriteString(text + "\n")
			}
		}
		sb.WriteString(fmt.Sprintf("Announced: %s\n", s.Announcement))
		if s.RevealMS > s.DurationMS {
			sb.WriteString(fmt.Sprintf("Note: reveal animation (%dms) outlasts the slide\n", s.RevealMS))
		}
	}
	return sb.String()
}

func kindLabel(s slides.Slide) string {
	if s.Kind == slides.KindHeading {
		return fmt.Sprintf("heading h%d", s.Level)
	}
	return string(s.Kind)
}
