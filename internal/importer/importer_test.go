package importer

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/ziadkadry99/storyreel/internal/db"
	"github.com/ziadkadry99/storyreel/internal/progress"
	"github.com/ziadkadry99/storyreel/internal/story"
)

var defaultInclude = []string{"**/*.md", "**/*.html"}

// testdataDir returns the absolute path to the testdata/stories directory.
func testdataDir(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("unable to determine test file location")
	}
	abs, err := filepath.Abs(filepath.Join(filepath.Dir(filename), "..", "..", "testdata", "stories"))
	if err != nil {
		t.Fatalf("resolve testdata path: %v", err)
	}
	if _, err := os.Stat(abs); os.IsNotExist(err) {
		t.Fatalf("testdata dir does not exist: %s", abs)
	}
	return abs
}

func setupTestStore(t *testing.T) *story.Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return story.NewStore(database)
}

func TestWalkFiltersAndIgnores(t *testing.T) {
	files, err := Walk(testdataDir(t), defaultInclude, nil)
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	got := map[string]bool{}
	for _, f := range files {
		got[f.RelPath] = true
	}
	for _, want := range []string{"prologue.md", "chapter-two/forest-gate.html", "empty.html"} {
		if !got[want] {
			t.Errorf("expected %s in %v", want, got)
		}
	}
	for _, unwanted := range []string{"notes.txt", "drafts/unfinished.md", "node_modules/pkg/readme.md"} {
		if got[unwanted] {
			t.Errorf("did not expect %s", unwanted)
		}
	}
}

func TestWalkReadsStoryreelIgnoreOnly(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"a.md":             "# A\n",
		"b.md":             "# B\n",
		".ignore":          "a.md\n",
		".storyreelignore": "b.md\n",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := Walk(dir, defaultInclude, nil)
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}
	if len(files) != 1 || files[0].RelPath != "a.md" {
		t.Errorf("files = %+v, want only a.md", files)
	}
}

func TestWalkExclude(t *testing.T) {
	files, err := Walk(testdataDir(t), defaultInclude, []string{"chapter-two/**"})
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range files {
		if f.RelPath == "chapter-two/forest-gate.html" {
			t.Error("exclude pattern ignored")
		}
	}
}

func TestWalkNotADirectory(t *testing.T) {
	if _, err := Walk(filepath.Join(testdataDir(t), "prologue.md"), defaultInclude, nil); err == nil {
		t.Error("expected error walking a file")
	}
}

func TestImport(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	res, err := Import(ctx, testdataDir(t), defaultInclude, nil, store, progress.Nop{})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Created != 2 || res.Updated != 0 {
		t.Errorf("result = %+v", res)
	}
	if len(res.Skipped) != 1 || res.Skipped[0] != "empty.html" {
		t.Errorf("skipped = %v", res.Skipped)
	}

	list, _ := store.List(ctx, story.ListFilter{Source: story.SourceImport})
	titles := map[string]bool{}
	for _, st := range list {
		titles[st.Title] = true
	}
	if !titles["The Lantern Festival"] || !titles["The Forest Gate"] {
		t.Errorf("titles = %v", titles)
	}

	res, err = Import(ctx, testdataDir(t), defaultInclude, nil, store, progress.Nop{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Created != 0 || res.Updated != 2 {
		t.Errorf("re-import = %+v", res)
	}
}

func TestImportTitleFallsBackToFileName(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "dragon_hatchery.md"), []byte("Eggs crack at dawn.\n"), 0644); err != nil {
		t.Fatal(err)
	}
	store := setupTestStore(t)

	if _, err := Import(context.Background(), dir, defaultInclude, nil, store, progress.Nop{}); err != nil {
		t.Fatal(err)
	}
	list, _ := store.List(context.Background(), story.ListFilter{})
	if len(list) != 1 || list[0].Title != "Dragon Hatchery" {
		t.Errorf("stories = %+v", list)
	}
}
