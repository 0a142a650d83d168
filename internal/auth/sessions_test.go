package auth_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corkboard-app/corkboard/internal/auth"
	"github.com/corkboard-app/corkboard/internal/platform/db"
	_ "github.com/corkboard-app/corkboard/testing"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func createTestUser(t *testing.T, repo auth.Repository, email string) *auth.User {
	t.Helper()
	hash, err := auth.HashPassword("Secret123!")
	require.NoError(t, err)
	now := time.Now().UTC()
	user := &auth.User{
		ID:           email + "-id",
		Email:        email,
		PasswordHash: hash,
		Meta:         auth.Meta{},
		IsActive:     true,
		Role:         auth.RoleMember,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}

func TestSessionLifecycle(t *testing.T) {
	conn := newTestDB(t)
	repo := auth.NewRepository(conn)
	store := auth.NewSessionStore(repo, time.Hour)
	user := createTestUser(t, repo, "lifecycle@test.local")
	ctx := context.Background()

	token, err := store.Create(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, token, 2*auth.TokenBytes)

	resolved, err := store.Validate(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, user.ID, resolved.ID)
	assert.Equal(t, user.Email, resolved.Email)

	require.NoError(t, store.Revoke(ctx, token))

	resolved, err = store.Validate(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, resolved, "revoked token must not validate")

	// Revoking again is a no-op.
	require.NoError(t, store.Revoke(ctx, token))
}

func TestValidateUnknownToken(t *testing.T) {
	conn := newTestDB(t)
	store := auth.NewSessionStore(auth.NewRepository(conn), time.Hour)

	resolved, err := store.Validate(context.Background(), "deadbeef")
	require.NoError(t, err)
	assert.Nil(t, resolved)

	resolved, err = store.Validate(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, resolved)
}

func TestValidateExpiredSession(t *testing.T) {
	conn := newTestDB(t)
	repo := auth.NewRepository(conn)
	store := auth.NewSessionStore(repo, time.Hour)
	user := createTestUser(t, repo, "expired@test.local")
	ctx := context.Background()

	token, err := store.Create(ctx, user.ID)
	require.NoError(t, err)

	// Force the session into the past; the row still exists until swept.
	_, err = conn.ExecContext(ctx, `UPDATE sessions SET expires_at = ? WHERE token = ?`,
		time.Now().UTC().Add(-time.Minute), token)
	require.NoError(t, err)

	resolved, err := store.Validate(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, resolved)

	var count int
	require.NoError(t, conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions WHERE token = ?`, token).Scan(&count))
	assert.Equal(t, 1, count, "expired row remains until swept")
}

func TestValidateInactiveUserFailsClosed(t *testing.T) {
	conn := newTestDB(t)
	repo := auth.NewRepository(conn)
	store := auth.NewSessionStore(repo, time.Hour)
	user := createTestUser(t, repo, "inactive@test.local")
	ctx := context.Background()

	token, err := store.Create(ctx, user.ID)
	require.NoError(t, err)

	_, err = conn.ExecContext(ctx, `UPDATE users SET is_active = 0 WHERE id = ?`, user.ID)
	require.NoError(t, err)

	resolved, err := store.Validate(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, resolved, "deactivation takes precedence over session validity")
}

func TestRevokeAll(t *testing.T) {
	conn := newTestDB(t)
	repo := auth.NewRepository(conn)
	store := auth.NewSessionStore(repo, time.Hour)
	user := createTestUser(t, repo, "everywhere@test.local")
	other := createTestUser(t, repo, "other@test.local")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.Create(ctx, user.ID)
		require.NoError(t, err)
	}
	otherToken, err := store.Create(ctx, other.ID)
	require.NoError(t, err)

	removed, err := store.RevokeAll(ctx, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, removed)

	resolved, err := store.Validate(ctx, otherToken)
	require.NoError(t, err)
	assert.NotNil(t, resolved, "other user's session survives")
}

func TestSweepExpired(t *testing.T) {
	conn := newTestDB(t)
	repo := auth.NewRepository(conn)
	store := auth.NewSessionStore(repo, time.Hour)
	user := createTestUser(t, repo, "sweep@test.local")
	ctx := context.Background()

	liveToken, err := store.Create(ctx, user.ID)
	require.NoError(t, err)
	staleToken, err := store.Create(ctx, user.ID)
	require.NoError(t, err)

	_, err = conn.ExecContext(ctx, `UPDATE sessions SET expires_at = ? WHERE token = ?`,
		time.Now().UTC().Add(-time.Minute), staleToken)
	require.NoError(t, err)

	removed, err := store.SweepExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	resolved, err := store.Validate(ctx, liveToken)
	require.NoError(t, err)
	assert.NotNil(t, resolved)

	var count int
	require.NoError(t, conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions WHERE token = ?`, staleToken).Scan(&count))
	assert.Zero(t, count)

	// Sweeping with nothing to do reports zero rows.
	removed, err = store.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestUserDeleteCascadesSessions(t *testing.T) {
	conn := newTestDB(t)
	repo := auth.NewRepository(conn)
	store := auth.NewSessionStore(repo, time.Hour)
	user := createTestUser(t, repo, "cascade@test.local")
	ctx := context.Background()

	_, err := store.Create(ctx, user.ID)
	require.NoError(t, err)

	_, err = conn.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, user.ID)
	require.NoError(t, err)

	var count int
	require.NoError(t, conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions WHERE user_id = ?`, user.ID).Scan(&count))
	assert.Zero(t, count, "deleting the user cascades to sessions")
}
