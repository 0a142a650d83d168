package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/corkboard-app/corkboard/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo     Repository
	sessions *SessionStore
}

// NewService constructs a new Service.
func NewService(repo Repository, sessions *SessionStore) *Service {
	return &Service{repo: repo, sessions: sessions}
}

// Sessions exposes the session store for middleware and admin flows.
func (s *Service) Sessions() *SessionStore {
	return s.sessions
}

// Register creates a user and an initial session. The FindUserByEmail
// pre-check gives a friendly error on the common path; the UNIQUE constraint
// on users.email remains the authoritative duplicate check.
func (s *Service) Register(ctx context.Context, email, password, fullName string) (*User, string, error) {
	if _, err := s.repo.FindUserByEmail(ctx, email); err == nil {
		return nil, "", shared.ErrEmailTaken
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, "", err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Meta:         Meta{},
		IsActive:     true,
		Role:         RoleMember,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// EnsureAdmin creates an administrator account if none exists under email.
// An existing account is left untouched, whatever its role, so reseeding a
// live database never rotates credentials or escalates a member. Returns the
// account either way.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) (*User, error) {
	existing, err := s.repo.FindUserByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FullName:     "Administrator",
		Meta:         Meta{},
		IsActive:     true,
		Role:         RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, shared.ErrEmailTaken) {
			return s.repo.FindUserByEmail(ctx, email)
		}
		return nil, err
	}
	return user, nil
}

// Login validates credentials and issues a session. An unknown email and a
// wrong password fail identically so registered addresses are not leaked.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, "", shared.ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !VerifyPassword(password, user.PasswordHash) {
		return nil, "", shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, "", shared.ErrAccountInactive
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	if err := s.repo.TouchLastLogin(ctx, user.ID); err != nil {
		return nil, "", err
	}
	now := time.Now().UTC()
	user.LastLogin = &now
	return user, token, nil
}

// Logout revokes the session behind token. Logout with no session succeeds;
// the operation is idempotent.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Revoke(ctx, token)
}

// LogoutAll revokes every session of userID.
func (s *Service) LogoutAll(ctx context.Context, userID string) (int64, error) {
	return s.sessions.RevokeAll(ctx, userID)
}

// CurrentUser resolves a token to its user, or ErrNotAuthenticated.
func (s *Service) CurrentUser(ctx context.Context, token string) (*User, error) {
	user, err := s.sessions.Validate(ctx, token)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, shared.ErrNotAuthenticated
	}
	return user, nil
}

// UpdateProfile changes the display name and metadata of userID.
func (s *Service) UpdateProfile(ctx context.Context, userID, fullName string, meta Meta) (*User, error) {
	if err := s.repo.UpdateUserProfile(ctx, userID, fullName, meta); err != nil {
		return nil, err
	}
	return s.repo.FindUserByID(ctx, userID)
}
