package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/storyreel/internal/markup"
	"github.com/ziadkadry99/storyreel/internal/slides"
	"github.com/ziadkadry99/storyreel/internal/story"
	"github.com/ziadkadry99/storyreel/internal/terminal"
)

var (
	playStoryID string
	playPick    bool
)

var playCmd = &cobra.Command{
	Use:   "play [file]",
	Short: "Play a story in the terminal",
	Long: `Plays a story file, or a story from the library (--story or --pick), as a
slideshow in the terminal. Slides advance on their own; use the arrow keys
(or h/l) to move, space to pause, tab to move between controls, enter to
press one, and escape or q to close.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		if len(args) == 1 {
			if playStoryID != "" || playPick {
				return fmt.Errorf("pass either a file or --story/--pick, not both")
			}
			html, err := readStoryFile(args[0])
			if err != nil {
				return err
			}
			_, _, err = terminal.Play(ctx, html, os.Stdin, os.Stdout, cfg.PresentationOptions()...)
			return err
		}

		store, database, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		var st *story.Story
		switch {
		case playStoryID != "":
			st, err = store.GetByID(ctx, playStoryID)
			if err != nil {
				return err
			}
			if st == nil {
				return fmt.Errorf("no story with id %q", playStoryID)
			}
		case playPick:
			st, err = pickStory(ctx, store)
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("nothing to play: pass a file, --story <id> or --pick")
		}

		html, err := st.HTML()
		if err != nil {
			return err
		}
		viewing, err := store.StartViewing(ctx, st.ID, len(slides.Segment(html)))
		if err != nil {
			return err
		}

		last, count, playErr := terminal.Play(ctx, html, os.Stdin, os.Stdout, cfg.PresentationOptions()...)
		completed := count > 0 && last == count-1
		if err := store.FinishViewing(context.Background(), viewing.ID, last, completed); err != nil {
			return err
		}
		return playErr
	},
}

// readStoryFile loads a markdown or HTML file as HTML.
func readStoryFile(path string) (string, error) {
	format, ok := markup.FormatForPath(path)
	if !ok {
		return "", fmt.Errorf("%s: unsupported file type %q", path, filepath.Ext(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return markup.ToHTML(format, string(data))
}

// pickStory lets the user choose a story from the library.
func pickStory(ctx context.Context, store *story.Store) (*story.Story, error) {
	stories, err := store.List(ctx, story.ListFilter{})
	if err != nil {
		return nil, err
	}
	if len(stories) == 0 {
		return nil, fmt.Errorf("the library is empty; run `storyreel import` or `storyreel sync` first")
	}

	prompt := promptui.Select{
		Label: "Select a story",
		Items: stories,
		Size:  10,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "▸ {{ .Title | cyan }} ({{ .Source }})",
			Inactive: "  {{ .Title }} ({{ .Source }})",
			Selected: "▸ {{ .Title }}",
		},
		Searcher: func(input string, index int) bool {
			return strings.Contains(strings.ToLower(stories[index].Title), strings.ToLower(input))
		},
	}
	idx, _, err := prompt.Run()
	if err != nil {
		return nil, fmt.Errorf("story selection: %w", err)
	}
	return &stories[idx], nil
}

func init() {
	playCmd.Flags().StringVar(&playStoryID, "story", "", "ID of a library story to play")
	playCmd.Flags().BoolVar(&playPick, "pick", false, "choose a library story interactively")
	rootCmd.AddCommand(playCmd)
}
