package notes

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/corkboard-app/corkboard/internal/shared"
)

// Service wraps note business rules. Ownership is enforced here: a user may
// only read or mutate their own notes.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create inserts a note owned by userID.
func (s *Service) Create(ctx context.Context, userID, title, body string) (*Note, error) {
	now := time.Now().UTC()
	note := &Note{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// Get returns a single note. Another user's note reads as not-found, the
// same response an absent id produces, so note ids leak nothing about what
// other accounts have stored.
func (s *Service) Get(ctx context.Context, userID, id string) (*Note, error) {
	note, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if note.UserID != userID {
		return nil, fmt.Errorf("note %s: %w", id, shared.ErrNotFound)
	}
	return note, nil
}

// List returns all notes owned by userID.
func (s *Service) List(ctx context.Context, userID string) ([]Note, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Update rewrites a note after an ownership check.
func (s *Service) Update(ctx context.Context, userID, id, title, body string) (*Note, error) {
	note, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	note.Title = title
	note.Body = body
	if err := s.repo.Update(ctx, note); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// Delete removes a note after an ownership check.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
