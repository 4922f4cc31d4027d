package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/storyreel/internal/importer"
	"github.com/ziadkadry99/storyreel/internal/progress"
)

var importCmd = &cobra.Command{
	Use:   "import [dir]",
	Short: "Import story files from a directory into the library",
	Long: `Walks a directory for markdown and HTML story files (see import.include and
import.exclude in the config, plus any .storyreelignore) and adds them to the
library. Re-importing a file replaces the story imported from it earlier.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, database, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		res, err := importer.Import(cmd.Context(), root, cfg.Import.Include, cfg.Import.Exclude, store, progress.NewReporter("Importing"))
		if err != nil {
			return fmt.Errorf("importing %s: %w", root, err)
		}

		fmt.Printf("Imported %d new and %d updated story(ies) from %s\n", res.Created, res.Updated, root)
		if len(res.Skipped) > 0 {
			fmt.Printf("Skipped %d file(s) without slides\n", len(res.Skipped))
			if verbose {
				for _, path := range res.Skipped {
					fmt.Printf("  %s\n", path)
				}
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
