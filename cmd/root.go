package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/storyreel/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "storyreel",
	Short: "Play stories as timed, accessible slideshows",
	Long: `Storyreel turns story markup (HTML or markdown) into a cinematic
slideshow: headings, paragraphs and images become slides that advance on
their own, can be driven from the keyboard or by swiping, and are announced
to screen readers as they change. Stories are kept in a local library,
imported from disk or synced from a game backend.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.ConfigFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
