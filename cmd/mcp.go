package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/storyreel/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing the story library and slide breakdowns to AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, database, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		count, err := store.Count(context.Background())
		if err != nil {
			return err
		}
		if count == 0 {
			fmt.Fprintf(os.Stderr, "Warning: the story library at %s is empty.\n", database.Path())
			fmt.Fprintf(os.Stderr, "Run `storyreel import` or `storyreel sync` first.\n")
		}

		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "storyreel MCP server started on stdio (stories=%d)\n", count)

		srv := mcpserver.NewServer(store, deckOptions(cfg))
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
