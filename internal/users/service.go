package users

import (
	"context"

	"github.com/corkboard-app/corkboard/internal/auth"
)

// Service wraps account administration rules.
type Service struct {
	repo     *Repository
	sessions *auth.SessionStore
}

// NewService constructs a new Service.
func NewService(repo *Repository, sessions *auth.SessionStore) *Service {
	return &Service{repo: repo, sessions: sessions}
}

// List returns all accounts.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

// Deactivate disables an account and revokes every live session it owns, so
// deactivation takes effect on the next request rather than at expiry.
func (s *Service) Deactivate(ctx context.Context, id string) error {
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return err
	}
	_, err := s.sessions.RevokeAll(ctx, id)
	return err
}

// Reactivate re-enables an account. Existing sessions stay revoked; the user
// logs in again.
func (s *Service) Reactivate(ctx context.Context, id string) error {
	return s.repo.SetActive(ctx, id, true)
}
