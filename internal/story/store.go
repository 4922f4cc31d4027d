package story

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/storyreel/internal/db"
	"github.com/ziadkadry99/storyreel/internal/markup"
)

// Store manages persistence of stories and their viewings.
type Store struct {
	db *db.DB
}

// NewStore creates a new story store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

const storyColumns = `id, title, format, content, source, source_path, remote_id, created_at, updated_at`

func scanStory(row interface{ Scan(...any) error }) (Story, error) {
	var st Story
	err := row.Scan(&st.ID, &st.Title, &st.Format, &st.Content, &st.Source, &st.SourcePath, &st.RemoteID, &st.CreatedAt, &st.UpdatedAt)
	return st, err
}

func normalize(st *Story) error {
	if st.Title == "" {
		return fmt.Errorf("title is required")
	}
	if st.Format == "" {
		st.Format = markup.FormatHTML
	}
	if !st.Format.Valid() {
		return fmt.Errorf("invalid format %q", st.Format)
	}
	if st.Source == "" {
		st.Source = SourceLocal
	}
	return nil
}

// Create adds a new story to the library.
func (s *Store) Create(ctx context.Context, st Story) (*Story, error) {
	if err := normalize(&st); err != nil {
		return nil, err
	}
	if st.ID == "" {
		st.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	st.CreatedAt = now
	st.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO stories (`+storyColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		st.ID, st.Title, st.Format, st.Content, st.Source, st.SourcePath, st.RemoteID, st.CreatedAt, st.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting story: %w", err)
	}
	return &st, nil
}

// Upsert inserts st or updates the story it replaces: the one with the
// same RemoteID for synced stories, or the same SourcePath for imports.
// The boolean reports whether a new story was created.
func (s *Store) Upsert(ctx context.Context, st Story) (*Story, bool, error) {
	if err := normalize(&st); err != nil {
		return nil, false, err
	}

	existing, err := s.findExisting(ctx, st)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		created, err := s.Create(ctx, st)
		return created, err == nil, err
	}

	existing.Title = st.Title
	existing.Format = st.Format
	existing.Content = st.Content
	existing.UpdatedAt = time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		`UPDATE stories SET title = ?, format = ?, content = ?, updated_at = ? WHERE id = ?`,
		existing.Title, existing.Format, existing.Content, existing.UpdatedAt, existing.ID,
	)
	if err != nil {
		return nil, false, fmt.Errorf("updating story: %w", err)
	}
	return existing, false, nil
}

func (s *Store) findExisting(ctx context.Context, st Story) (*Story, error) {
	var row *sql.Row
	switch {
	case st.RemoteID != "":
		row = s.db.QueryRowContext(ctx, `SELECT `+storyColumns+` FROM stories WHERE source = ? AND remote_id = ?`, st.Source, st.RemoteID)
	case st.SourcePath != "":
		row = s.db.QueryRowContext(ctx, `SELECT `+storyColumns+` FROM stories WHERE source = ? AND source_path = ?`, st.Source, st.SourcePath)
	default:
		return nil, nil
	}
	found, err := scanStory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding story: %w", err)
	}
	return &found, nil
}

// GetByID retrieves a story by its ID.
func (s *Store) GetByID(ctx context.Context, id string) (*Story, error) {
	st, err := scanStory(s.db.QueryRowContext(ctx, `SELECT `+storyColumns+` FROM stories WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting story: %w", err)
	}
	return &st, nil
}

// List returns stories matching the filter, most recently updated first.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]Story, error) {
	query := `SELECT ` + storyColumns + ` FROM stories WHERE 1=1`
	args := []interface{}{}

	if filter.Source != "" {
		query += " AND source = ?"
		args = append(args, filter.Source)
	}
	if filter.Query != "" {
		query += " AND title LIKE ?"
		args = append(args, "%"+filter.Query+"%")
	}

	query += " ORDER BY updated_at DESC, title ASC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		if filter.Limit <= 0 {
			query += " LIMIT -1"
		}
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing stories: %w", err)
	}
	defer rows.Close()

	var stories []Story
	for rows.Next() {
		st, err := scanStory(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning story: %w", err)
		}
		stories = append(stories, st)
	}
	return stories, rows.Err()
}

// Delete removes a story and its viewing history.
func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM stories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting story: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("story %s not found", id)
	}
	return nil
}

// Count returns the number of stories in the library.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM stories`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting stories: %w", err)
	}
	return n, nil
}

// StartViewing records that a story was opened with slideCount slides.
func (s *Store) StartViewing(ctx context.Context, storyID string, slideCount int) (*Viewing, error) {
	v := Viewing{
		ID:         uuid.New().String(),
		StoryID:    storyID,
		SlideCount: slideCount,
		StartedAt:  time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO viewings (id, story_id, slide_count, started_at) VALUES (?, ?, ?, ?)`,
		v.ID, v.StoryID, v.SlideCount, v.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("starting viewing: %w", err)
	}
	return &v, nil
}

// FinishViewing records where a viewing ended.
func (s *Store) FinishViewing(ctx context.Context, id string, lastIndex int, completed bool) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE viewings SET last_index = ?, completed = ?, finished_at = ? WHERE id = ? AND finished_at IS NULL`,
		lastIndex, completed, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("finishing viewing: %w", err)
	}
	return nil
}

// ListViewings returns a story's viewings, newest first.
func (s *Store) ListViewings(ctx context.Context, storyID string) ([]Viewing, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, story_id, slide_count, last_index, completed, started_at, finished_at
		 FROM viewings WHERE story_id = ? ORDER BY started_at DESC`, storyID)
	if err != nil {
		return nil, fmt.Errorf("listing viewings: %w", err)
	}
	defer rows.Close()

	var viewings []Viewing
	for rows.Next() {
		var v Viewing
		var finished sql.NullTime
		if err := rows.Scan(&v.ID, &v.StoryID, &v.SlideCount, &v.LastIndex, &v.Completed, &v.StartedAt, &finished); err != nil {
			return nil, fmt.Errorf("scanning viewing: %w", err)
		}
		if finished.Valid {
			v.FinishedAt = &finished.Time
		}
		viewings = append(viewings, v)
	}
	return viewings, rows.Err()
}
