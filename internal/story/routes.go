package story

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the story library API routes.
func RegisterRoutes(r chi.Router, store *Store, opts DeckOptions) {
	r.Route("/api/stories", func(r chi.Router) {
		r.Get("/", handleList(store))
		r.Post("/", handleCreate(store))
		r.Get("/{id}", handleGetByID(store))
		r.Delete("/{id}", handleDelete(store))
		r.Get("/{id}/slides", handleSlides(store, opts))
		r.Get("/{id}/viewings", handleViewings(store))
	})
}

func handleList(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := ListFilter{
			Source: Source(q.Get("source")),
			Query:  q.Get("q"),
		}
		if v := q.Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				filter.Limit = n
			}
		}
		if v := q.Get("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				filter.Offset = n
			}
		}

		stories, err := store.List(r.Context(), filter)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if stories == nil {
			stories = []Story{}
		}
		writeJSON(w, http.StatusOK, stories)
	}
}

func handleCreate(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var st Story
		if err := json.NewDecoder(r.Body).Decode(&st); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if st.Title == "" {
			writeError(w, http.StatusBadRequest, "title is required")
			return
		}
		if st.Format != "" && !st.Format.Valid() {
			writeError(w, http.StatusBadRequest, "format must be html or markdown")
			return
		}
		st.ID = ""
		st.Source = SourceLocal

		created, err := store.Create(r.Context(), st)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func handleGetByID(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, ok := loadStory(w, r, store)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

func handleDelete(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := loadStory(w, r, store); !ok {
			return
		}
		if err := store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

func handleSlides(store *Store, opts DeckOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, ok := loadStory(w, r, store)
		if !ok {
			return
		}
		deck, err := BuildDeck(st, opts)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, deck)
	}
}

func handleViewings(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, ok := loadStory(w, r, store)
		if !ok {
			return
		}
		viewings, err := store.ListViewings(r.Context(), st.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if viewings == nil {
			viewings = []Viewing{}
		}
		writeJSON(w, http.StatusOK, viewings)
	}
}

// loadStory fetches the {id} story, answering 404 or 500 itself when it
// cannot.
func loadStory(w http.ResponseWriter, r *http.Request, store *Store) (*Story, bool) {
	st, err := store.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	if st == nil {
		writeError(w, http.StatusNotFound, "not found")
		return nil, false
	}
	return st, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
