package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/storyreel/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize storyreel configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to choose the data directory, playback pace, viewer port and story backend, and writes a .storyreel.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
