package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/storyreel/internal/markup"
	"github.com/ziadkadry99/storyreel/internal/slides"
	"github.com/ziadkadry99/storyreel/internal/story"
)

var slidesJSON bool

var slidesCmd = &cobra.Command{
	Use:   "slides <story-id|file>",
	Short: "Show how a story is split into slides",
	Long:  `Prints each slide of a library story or a story file with its kind, screen time, reveal time and screen reader announcement.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		var st *story.Story
		if _, ok := markup.FormatForPath(args[0]); ok {
			if _, statErr := os.Stat(args[0]); statErr == nil {
				html, err := readStoryFile(args[0])
				if err != nil {
					return err
				}
				st = &story.Story{Title: args[0], Format: markup.FormatHTML, Content: html}
			}
		}
		if st == nil {
			store, database, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			st, err = store.GetByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if st == nil {
				return fmt.Errorf("no story or file named %q", args[0])
			}
		}

		deck, err := story.BuildDeck(st, deckOptions(cfg))
		if err != nil {
			return err
		}

		if slidesJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(deck)
		}
		printDeck(os.Stdout, deck)
		return nil
	},
}

const slideTextWidth = 48

// printDeck writes deck as a table. Slide text is cut by display width, so
// wide characters count double.
func printDeck(w io.Writer, deck *story.Deck) {
	fmt.Fprintf(w, "%s: %d slide(s), %.1fs\n\n", deck.Title, len(deck.Slides), float64(deck.TotalMS)/1000)
	if len(deck.Slides) == 0 {
		return
	}

	fmt.Fprintf(w, "%-4s %-12s %8s %8s  %s\n", "#", "KIND", "SHOWN", "REVEAL", "TEXT")
	for i, s := range deck.Slides {
		reveal := fmt.Sprintf("%dms", s.RevealMS)
		if s.RevealMS > s.DurationMS {
			reveal += "!"
		}
		fmt.Fprintf(w, "%-4d %-12s %8s %8s  %s\n",
			i+1, slideKind(s.Slide), fmt.Sprintf("%dms", s.DurationMS), reveal,
			runewidth.Truncate(slideSummary(s.Slide), slideTextWidth, "…"))
		if verbose {
			fmt.Fprintf(w, "%s  %s\n", strings.Repeat(" ", 36), s.Announcement)
		}
	}
}

func slideKind(s slides.Slide) string {
	if s.Kind == slides.KindHeading {
		return fmt.Sprintf("heading/h%d", s.Level)
	}
	return string(s.Kind)
}

func slideSummary(s slides.Slide) string {
	if s.Kind == slides.KindImage {
		if s.ImageAlt != "" {
			return s.ImageAlt + " (" + s.ImageSrc + ")"
		}
		return s.ImageSrc
	}
	return s.Text()
}

func init() {
	slidesCmd.Flags().BoolVar(&slidesJSON, "json", false, "print the slide breakdown as JSON")
	rootCmd.AddCommand(slidesCmd)
}
