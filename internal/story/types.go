package story

import (
	"time"

	"github.com/ziadkadry99/storyreel/internal/markup"
)

// Source records where a story came from.
type Source string

const (
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
	SourceImport Source = "import"
)

// Story is one piece of narrative content in the library.
type Story struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Format     markup.Format `json:"format"`
	Content    string        `json:"content"`
	Source     Source        `json:"source"`
	SourcePath string        `json:"source_path,omitempty"` // file path for imports
	RemoteID   string        `json:"remote_id,omitempty"`   // backend id for synced events
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// ListFilter controls which stories to return.
type ListFilter struct {
	Source Source
	Query  string // substring match on title
	Limit  int
	Offset int
}

// Viewing is one time a story was opened. Presentations never resume, so
// viewings are history only.
type Viewing struct {
	ID         string     `json:"id"`
	StoryID    string     `json:"story_id"`
	SlideCount int        `json:"slide_count"`
	LastIndex  int        `json:"last_index"`
	Completed  bool       `json:"completed"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}
