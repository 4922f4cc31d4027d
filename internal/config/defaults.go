package config

import (
	"path/filepath"
	"time"

	"github.com/ziadkadry99/storyreel/internal/announce"
	"github.com/ziadkadry99/storyreel/internal/input"
	"github.com/ziadkadry99/storyreel/internal/player"
	"github.com/ziadkadry99/storyreel/internal/presentation"
	"github.com/ziadkadry99/storyreel/internal/reveal"
)

// DefaultIncludes are the story files picked up by import.
var DefaultIncludes = []string{"**/*.md", "**/*.markdown", "**/*.html", "**/*.htm"}

// DefaultExcludes are glob patterns skipped by import.
var DefaultExcludes = []string{
	".git/**",
	"node_modules/**",
	"vendor/**",
	"dist/**",
	"build/**",
	"**/README.md",
	"**/CHANGELOG.md",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	t := player.DefaultTimings()
	return &Config{
		DataDir: ".storyreel",
		Server: ServerConfig{
			Port:     8080,
			Compress: true,
		},
		Backend: BackendConfig{
			TimeoutSeconds: 15,
		},
		Timings: TimingsConfig{
			ImageMS:     int(t.Image / time.Millisecond),
			Heading1MS:  int(t.Heading1 / time.Millisecond),
			Heading2MS:  int(t.Heading2 / time.Millisecond),
			Heading3MS:  int(t.Heading3 / time.Millisecond),
			ParagraphMS: int(t.Paragraph / time.Millisecond),
			FallbackMS:  int(t.Fallback / time.Millisecond),
		},
		Input:    InputConfig{SwipeThreshold: input.DefaultSwipeThreshold},
		Announce: AnnounceConfig{PreviewLength: announce.DefaultPreviewLength},
		Reveal: RevealConfig{
			StaggerMS:    int(reveal.DefaultStagger / time.Millisecond),
			TransitionMS: int(reveal.DefaultTransition / time.Millisecond),
		},
		Import: ImportConfig{
			Include: DefaultIncludes,
			Exclude: DefaultExcludes,
		},
	}
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// PlayerTimings converts the configured durations.
func (c *Config) PlayerTimings() player.Timings {
	return player.Timings{
		Image:     ms(c.Timings.ImageMS),
		Heading1:  ms(c.Timings.Heading1MS),
		Heading2:  ms(c.Timings.Heading2MS),
		Heading3:  ms(c.Timings.Heading3MS),
		Paragraph: ms(c.Timings.ParagraphMS),
		Fallback:  ms(c.Timings.FallbackMS),
	}
}

// Planner returns the configured reveal planner.
func (c *Config) Planner() reveal.Planner {
	return reveal.Planner{Stagger: ms(c.Reveal.StaggerMS), Transition: ms(c.Reveal.TransitionMS)}
}

// PresentationOptions returns the options every presentation opened with
// this configuration shares.
func (c *Config) PresentationOptions() []presentation.Option {
	return []presentation.Option{
		presentation.WithTimings(c.PlayerTimings()),
		presentation.WithPlanner(c.Planner()),
		presentation.WithSwipeThreshold(c.Input.SwipeThreshold),
		presentation.WithPreviewLength(c.Announce.PreviewLength),
	}
}

// DatabasePath is where the story library lives.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "storyreel.db")
}
