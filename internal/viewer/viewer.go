// Package viewer plays stories in the browser over a websocket.
package viewer

import (
	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/storyreel/internal/clock"
	"github.com/ziadkadry99/storyreel/internal/presentation"
	"github.com/ziadkadry99/storyreel/internal/story"
)

// Viewer serves the presentation page and its sessions.
type Viewer struct {
	store *story.Store
	opts  []presentation.Option
	// Clock drives every session's auto-advance. Defaults to clock.Real().
	Clock clock.Clock
}

// New creates a Viewer over the story library. opts apply to every
// presentation it opens.
func New(store *story.Store, opts ...presentation.Option) *Viewer {
	return &Viewer{
		store: store,
		opts:  opts,
		Clock: clock.Real(),
	}
}

// RegisterRoutes mounts the viewer page and websocket endpoint.
func (v *Viewer) RegisterRoutes(r chi.Router) {
	r.Get("/", v.ServeIndex)
	r.Get("/ws/present", v.handleWebSocket)
}
