// Package importer loads story files from a directory into the library.
package importer

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ziadkadry99/storyreel/internal/markup"
	"github.com/ziadkadry99/storyreel/internal/progress"
	"github.com/ziadkadry99/storyreel/internal/slides"
	"github.com/ziadkadry99/storyreel/internal/story"
)

// Result counts what an import changed.
type Result struct {
	Created int
	Updated int
	Skipped []string // files with no recognizable format or no slides
}

// Import walks root and upserts every matching story file.
func Import(ctx context.Context, root string, include, exclude []string, store *story.Store, reporter progress.Reporter) (Result, error) {
	var res Result

	files, err := Walk(root, include, exclude)
	if err != nil {
		return res, err
	}

	reporter.Start(len(files))
	defer reporter.Finish()

	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		reporter.Update(i+1, f.RelPath)

		st, ok, err := readStory(f)
		if err != nil {
			return res, err
		}
		if !ok {
			res.Skipped = append(res.Skipped, f.RelPath)
			continue
		}

		_, created, err := store.Upsert(ctx, st)
		if err != nil {
			return res, fmt.Errorf("saving %s: %w", f.RelPath, err)
		}
		if created {
			res.Created++
		} else {
			res.Updated++
		}
	}

	log.Printf("importer: %d new, %d updated, %d skipped under %s", res.Created, res.Updated, len(res.Skipped), root)
	return res, nil
}

// readStory loads f as a story. ok is false for files that would play as
// an empty presentation.
func readStory(f File) (story.Story, bool, error) {
	format, known := markup.FormatForPath(f.RelPath)
	if !known {
		return story.Story{}, false, nil
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return story.Story{}, false, fmt.Errorf("reading %s: %w", f.RelPath, err)
	}
	content := string(data)

	html, err := markup.ToHTML(format, content)
	if err != nil {
		return story.Story{}, false, fmt.Errorf("rendering %s: %w", f.RelPath, err)
	}
	list := slides.Segment(html)
	if len(list) == 0 {
		return story.Story{}, false, nil
	}

	return story.Story{
		Title:      titleFor(f.RelPath, list),
		Format:     format,
		Content:    content,
		Source:     story.SourceImport,
		SourcePath: f.RelPath,
	}, true, nil
}

var fileTitle = cases.Title(language.English)

// titleFor uses the first heading, falling back to the file name in title
// case.
func titleFor(rel string, list []slides.Slide) string {
	for _, s := range list {
		if s.Kind == slides.KindHeading && s.Title != "" {
			return s.Title
		}
	}
	name := strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))
	return fileTitle.String(strings.NewReplacer("-", " ", "_", " ").Replace(name))
}
