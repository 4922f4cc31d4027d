package storyapi

import (
	"context"
	"fmt"
	"log"

	"github.com/ziadkadry99/storyreel/internal/progress"
	"github.com/ziadkadry99/storyreel/internal/story"
)

// Lister is the part of Client that Sync needs.
type Lister interface {
	List(ctx context.Context) ([]RemoteEvent, error)
}

// SyncResult counts what a sync changed.
type SyncResult struct {
	Created int
	Updated int
}

// Sync copies every remote story event into the local library, replacing
// earlier copies of the same event.
func Sync(ctx context.Context, client Lister, store *story.Store, reporter progress.Reporter) (SyncResult, error) {
	var res SyncResult

	events, err := client.List(ctx)
	if err != nil {
		return res, fmt.Errorf("listing story events: %w", err)
	}

	reporter.Start(len(events))
	defer reporter.Finish()

	for i, ev := range events {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		_, created, err := store.Upsert(ctx, story.Story{
			Title:    ev.Title,
			Format:   ev.Format,
			Content:  ev.Content,
			Source:   story.SourceRemote,
			RemoteID: ev.ID,
		})
		if err != nil {
			return res, fmt.Errorf("saving story event %s: %w", ev.ID, err)
		}
		if created {
			res.Created++
		} else {
			res.Updated++
		}
		reporter.Update(i+1, ev.Title)
	}

	log.Printf("storyapi: synced %d story events (%d new)", len(events), res.Created)
	return res, nil
}
