package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/corkboard-app/corkboard/internal/shared"
)

// DefaultSessionTTL bounds how long a session token stays valid.
const DefaultSessionTTL = 24 * time.Hour

// SessionStore owns the lifecycle of session rows. All other components go
// through it; nothing else mutates the sessions table.
type SessionStore struct {
	repo Repository
	ttl  time.Duration
	now  func() time.Time
}

// NewSessionStore constructs a SessionStore. A non-positive ttl falls back to
// DefaultSessionTTL.
func NewSessionStore(repo Repository, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{repo: repo, ttl: ttl, now: time.Now}
}

// TTL exposes the configured session lifetime.
func (s *SessionStore) TTL() time.Duration {
	return s.ttl
}

// Create issues a fresh token for userID and persists the session row.
func (s *SessionStore) Create(ctx context.Context, userID string) (string, error) {
	token, err := NewToken(TokenBytes)
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	now := s.now().UTC()
	sess := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.repo.CreateSession(ctx, sess); err != nil {
		return "", err
	}
	return token, nil
}

// Validate resolves a token to its owning user. It returns (nil, nil) for
// unknown or expired tokens and for owners whose account has been
// deactivated; deactivation takes precedence over session validity.
// Validation never mutates state.
func (s *SessionStore) Validate(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, nil
	}
	sess, err := s.repo.FindSessionByToken(ctx, token)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if sess.Expired(s.now().UTC()) {
		return nil, nil
	}
	user, err := s.repo.FindUserByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, nil
	}
	return user, nil
}

// Revoke deletes the session row for token. Revoking an absent token is a no-op.
func (s *SessionStore) Revoke(ctx context.Context, token string) error {
	return s.repo.DeleteSessionByToken(ctx, token)
}

// RevokeAll deletes every session owned by userID ("log out everywhere").
// Call it after credential rotation and account deactivation.
func (s *SessionStore) RevokeAll(ctx context.Context, userID string) (int64, error) {
	return s.repo.DeleteSessionsByUser(ctx, userID)
}

// SweepExpired deletes every session past its expiry. Safe to run
// concurrently with Create/Validate; a session expiring between read and
// delete is harmless to delete twice.
func (s *SessionStore) SweepExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpiredSessions(ctx, s.now().UTC())
}
