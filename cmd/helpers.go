package cmd

import (
	"fmt"
	"os"

	"github.com/ziadkadry99/storyreel/internal/config"
	"github.com/ziadkadry99/storyreel/internal/db"
	"github.com/ziadkadry99/storyreel/internal/story"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `storyreel init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// openStore opens the story library under the configured data directory.
// The caller closes the returned database.
func openStore(cfg *config.Config) (*story.Store, *db.DB, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating data dir: %w", err)
	}
	database, err := db.Open(cfg.DatabasePath())
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	return story.NewStore(database), database, nil
}

// deckOptions is the slide timing policy the config describes.
func deckOptions(cfg *config.Config) story.DeckOptions {
	return story.DeckOptions{
		Timings:       cfg.PlayerTimings(),
		Planner:       cfg.Planner(),
		PreviewLength: cfg.Announce.PreviewLength,
	}
}
