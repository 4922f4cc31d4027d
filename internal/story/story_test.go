package story

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/storyreel/internal/db"
	"github.com/ziadkadry99/storyreel/internal/markup"
)

const scenarioHTML = `<h1>Intro</h1><p>Hello</p><img src="x.png" alt="hero"/><p>Bye</p>`

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func setupRouter(store *Store) *chi.Mux {
	r := chi.NewRouter()
	RegisterRoutes(r, store, DefaultDeckOptions())
	return r
}

func TestCreateAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, Story{Title: "The Lantern Festival", Content: scenarioHTML})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Error("expected non-empty ID")
	}
	if created.Format != markup.FormatHTML || created.Source != SourceLocal {
		t.Errorf("defaults not applied: %+v", created)
	}

	fetched, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if fetched == nil || fetched.Content != scenarioHTML {
		t.Errorf("fetched = %+v", fetched)
	}

	missing, err := store.GetByID(ctx, "nope")
	if err != nil || missing != nil {
		t.Errorf("GetByID(missing) = %v, %v", missing, err)
	}
}

func TestCreateRejectsBadInput(t *testing.T) {
	store := setupTestStore(t)
	if _, err := store.Create(context.Background(), Story{}); err == nil {
		t.Error("expected error for missing title")
	}
	if _, err := store.Create(context.Background(), Story{Title: "x", Format: "pdf"}); err == nil {
		t.Error("expected error for bad format")
	}
}

func TestUpsertByRemoteID(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	first, created, err := store.Upsert(ctx, Story{Title: "Old", Source: SourceRemote, RemoteID: "42", Content: "<p>a</p>"})
	if err != nil || !created {
		t.Fatalf("first Upsert: created=%v err=%v", created, err)
	}
	second, created, err := store.Upsert(ctx, Story{Title: "New", Source: SourceRemote, RemoteID: "42", Content: "<p>b</p>"})
	if err != nil || created {
		t.Fatalf("second Upsert: created=%v err=%v", created, err)
	}
	if second.ID != first.ID || second.Title != "New" {
		t.Errorf("second = %+v", second)
	}

	n, err := store.Count(ctx)
	if err != nil || n != 1 {
		t.Errorf("Count = %d, %v", n, err)
	}
}

func TestUpsertByPath(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, _, err := store.Upsert(ctx, Story{Title: "Ch1", Source: SourceImport, SourcePath: "ch1.md", Format: markup.FormatMarkdown}); err != nil {
			t.Fatal(err)
		}
	}
	if _, _, err := store.Upsert(ctx, Story{Title: "Ch2", Source: SourceImport, SourcePath: "ch2.md"}); err != nil {
		t.Fatal(err)
	}
	if n, _ := store.Count(ctx); n != 2 {
		t.Errorf("Count = %d, want 2", n)
	}
}

func TestListFilter(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	store.Create(ctx, Story{Title: "Dragon Hatchery"})
	store.Create(ctx, Story{Title: "Forest Gate", Source: SourceImport, SourcePath: "f.md"})
	store.Create(ctx, Story{Title: "Dragon Wake", Source: SourceRemote, RemoteID: "7"})

	got, err := store.List(ctx, ListFilter{Query: "Dragon"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("query match = %d, want 2", len(got))
	}

	got, _ = store.List(ctx, ListFilter{Source: SourceImport})
	if len(got) != 1 || got[0].Title != "Forest Gate" {
		t.Errorf("source filter = %+v", got)
	}

	got, _ = store.List(ctx, ListFilter{Limit: 1})
	if len(got) != 1 {
		t.Errorf("limit = %d", len(got))
	}
	got, _ = store.List(ctx, ListFilter{Offset: 2})
	if len(got) != 1 {
		t.Errorf("offset without limit = %d", len(got))
	}
}

func TestDelete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	st, _ := store.Create(ctx, Story{Title: "Gone"})
	if err := store.Delete(ctx, st.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, st.ID); err == nil {
		t.Error("expected error deleting twice")
	}
}

func TestViewings(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	st, _ := store.Create(ctx, Story{Title: "Tale", Content: scenarioHTML})
	v, err := store.StartViewing(ctx, st.ID, 3)
	if err != nil {
		t.Fatalf("StartViewing: %v", err)
	}
	if err := store.FinishViewing(ctx, v.ID, 2, true); err != nil {
		t.Fatalf("FinishViewing: %v", err)
	}
	// A second finish is ignored.
	if err := store.FinishViewing(ctx, v.ID, 0, false); err != nil {
		t.Fatalf("FinishViewing again: %v", err)
	}

	list, err := store.ListViewings(ctx, st.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("viewings = %d", len(list))
	}
	got := list[0]
	if got.LastIndex != 2 || !got.Completed || got.FinishedAt == nil || got.SlideCount != 3 {
		t.Errorf("viewing = %+v", got)
	}
}

func TestBuildDeck(t *testing.T) {
	st := &Story{ID: "s", Title: "Tale", Format: markup.FormatHTML, Content: scenarioHTML}
	deck, err := BuildDeck(st, DefaultDeckOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(deck.Slides) != 3 {
		t.Fatalf("slides = %d", len(deck.Slides))
	}
	wantMS := []int64{4800, 4500, 3000}
	for i, s := range deck.Slides {
		if s.DurationMS != wantMS[i] {
			t.Errorf("slide %d duration = %d, want %d", i, s.DurationMS, wantMS[i])
		}
	}
	if deck.TotalMS != 12300 {
		t.Errorf("total = %d", deck.TotalMS)
	}
	if deck.Slides[2].Announcement != "Slide 3 of 3. Paragraph: Bye." {
		t.Errorf("announcement = %q", deck.Slides[2].Announcement)
	}
}

func TestRoutesCreateListSlides(t *testing.T) {
	store := setupTestStore(t)
	r := setupRouter(store)

	body := `{"title":"Moonfall","format":"markdown","content":"# Moonfall\n\nThe sky cracked.\n"}`
	req := httptest.NewRequest(http.MethodPost, "/api/stories", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST status = %d: %s", rec.Code, rec.Body.String())
	}
	var created Story
	json.NewDecoder(rec.Body).Decode(&created)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stories", nil))
	var list []Story
	json.NewDecoder(rec.Body).Decode(&list)
	if len(list) != 1 || list[0].ID != created.ID {
		t.Errorf("list = %+v", list)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stories/"+created.ID+"/slides", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("slides status = %d", rec.Code)
	}
	var deck Deck
	json.NewDecoder(rec.Body).Decode(&deck)
	if len(deck.Slides) != 1 || deck.Slides[0].Title != "Moonfall" || deck.Slides[0].DurationMS != 4800 {
		t.Errorf("deck = %+v", deck)
	}
}

func TestRoutesValidationAndNotFound(t *testing.T) {
	store := setupTestStore(t)
	r := setupRouter(store)

	tests := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodPost, "/api/stories", `{"content":"x"}`, http.StatusBadRequest},
		{http.MethodPost, "/api/stories", `{"title":"x","format":"pdf"}`, http.StatusBadRequest},
		{http.MethodPost, "/api/stories", `not json`, http.StatusBadRequest},
		{http.MethodGet, "/api/stories/missing", "", http.StatusNotFound},
		{http.MethodDelete, "/api/stories/missing", "", http.StatusNotFound},
		{http.MethodGet, "/api/stories/missing/slides", "", http.StatusNotFound},
		{http.MethodGet, "/api/stories/missing/viewings", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)))
		if rec.Code != tt.want {
			t.Errorf("%s %s = %d, want %d", tt.method, tt.path, rec.Code, tt.want)
		}
		var resp map[string]string
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil || resp["error"] == "" {
			t.Errorf("%s %s: expected JSON error body", tt.method, tt.path)
		}
	}
}

func TestRoutesDeleteAndViewings(t *testing.T) {
	store := setupTestStore(t)
	r := setupRouter(store)
	ctx := context.Background()

	st, _ := store.Create(ctx, Story{Title: "Tale", Content: scenarioHTML})
	store.StartViewing(ctx, st.ID, 3)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stories/"+st.ID+"/viewings", nil))
	var viewings []Viewing
	json.NewDecoder(rec.Body).Decode(&viewings)
	if len(viewings) != 1 {
		t.Errorf("viewings = %+v", viewings)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/stories/"+st.ID, nil))
	if rec.Code != http.StatusOK {
		t.Errorf("DELETE status = %d", rec.Code)
	}
	if n, _ := store.Count(ctx); n != 0 {
		t.Errorf("count after delete = %d", n)
	}
}
