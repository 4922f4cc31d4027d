package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/storyreel/internal/story"
)

var storiesCmd = &cobra.Command{
	Use:   "stories",
	Short: "Manage the story library",
}

var storiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stories in the library",
	RunE:  runStoriesList,
}

var storiesRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a story and its viewing history",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoriesRemove,
}

func init() {
	storiesListCmd.Flags().String("source", "", "only stories from this source (local, remote, import)")
	storiesListCmd.Flags().String("query", "", "only stories whose title contains this text")
	storiesListCmd.Flags().Int("limit", 0, "maximum number of stories to list")

	storiesCmd.AddCommand(storiesListCmd)
	storiesCmd.AddCommand(storiesRemoveCmd)
	rootCmd.AddCommand(storiesCmd)
}

func runStoriesList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, database, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	source, _ := cmd.Flags().GetString("source")
	query, _ := cmd.Flags().GetString("query")
	limit, _ := cmd.Flags().GetInt("limit")

	stories, err := store.List(cmd.Context(), story.ListFilter{
		Source: story.Source(source),
		Query:  query,
		Limit:  limit,
	})
	if err != nil {
		return err
	}
	if len(stories) == 0 {
		fmt.Println("No stories found. Run `storyreel import` or `storyreel sync` to add some.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSOURCE\tFORMAT\tUPDATED")
	for _, st := range stories {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			st.ID, runewidth.Truncate(st.Title, 40, "…"), st.Source, st.Format, st.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func runStoriesRemove(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, database, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := store.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Removed story %s\n", args[0])
	return nil
}
