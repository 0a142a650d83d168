package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/corkboard-app/corkboard/internal/shared"
)

// Repository defines persistence operations for notes.
type Repository interface {
	Insert(ctx context.Context, note *Note) error
	FindByID(ctx context.Context, id string) (*Note, error)
	ListByUser(ctx context.Context, userID string) ([]Note, error)
	Update(ctx context.Context, note *Note) error
	Delete(ctx context.Context, id string) error
}

// SQLiteRepository implements Repository against the embedded SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

// NewRepository constructs a SQLite-backed repository.
func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Insert persists a new note row.
func (r *SQLiteRepository) Insert(ctx context.Context, note *Note) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notes (id, user_id, title, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, note.ID, note.UserID, note.Title, note.Body, note.CreatedAt, note.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

// FindByID fetches a note by primary key.
func (r *SQLiteRepository) FindByID(ctx context.Context, id string) (*Note, error) {
	note := &Note{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, body, created_at, updated_at FROM notes WHERE id = ?
	`, id).Scan(&note.ID, &note.UserID, &note.Title, &note.Body, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("get note: %w", err)
	}
	return note, nil
}

// ListByUser returns the user's notes, newest first.
func (r *SQLiteRepository) ListByUser(ctx context.Context, userID string) ([]Note, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, title, body, created_at, updated_at
		FROM notes WHERE user_id = ? ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var result []Note
	for rows.Next() {
		var note Note
		if err := rows.Scan(&note.ID, &note.UserID, &note.Title, &note.Body, &note.CreatedAt, &note.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		result = append(result, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}
	return result, nil
}

// Update rewrites title and body.
func (r *SQLiteRepository) Update(ctx context.Context, note *Note) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE notes SET title = ?, body = ?, updated_at = ? WHERE id = ?
	`, note.Title, note.Body, time.Now().UTC(), note.ID)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a note row.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ Repository = (*SQLiteRepository)(nil)
