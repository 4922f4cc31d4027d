package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/storyreel/internal/progress"
	"github.com/ziadkadry99/storyreel/internal/storyapi"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync story events from the game backend",
	Long:  `Fetches every story event from the backend configured under backend.base_url and stores it in the library, replacing earlier copies.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Backend.BaseURL == "" {
			return fmt.Errorf("backend.base_url is not set; run `storyreel init` or set STORYREEL_BACKEND_BASE_URL")
		}

		store, database, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		client := storyapi.NewClient(cfg.Backend.BaseURL, cfg.Backend.Token, time.Duration(cfg.Backend.TimeoutSeconds)*time.Second)
		res, err := storyapi.Sync(cmd.Context(), client, store, progress.NewReporter("Syncing"))
		if err != nil {
			return err
		}

		fmt.Printf("Synced %d new and %d updated story(ies) from %s\n", res.Created, res.Updated, cfg.Backend.BaseURL)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
