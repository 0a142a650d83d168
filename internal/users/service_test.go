package users_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corkboard-app/corkboard/internal/auth"
	"github.com/corkboard-app/corkboard/internal/platform/db"
	"github.com/corkboard-app/corkboard/internal/shared"
	"github.com/corkboard-app/corkboard/internal/users"
	_ "github.com/corkboard-app/corkboard/testing"
)

func newTestService(t *testing.T) (*users.Service, *auth.SessionStore, auth.Repository, *sql.DB) {
	t.Helper()
	conn, err := db.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	authRepo := auth.NewRepository(conn)
	store := auth.NewSessionStore(authRepo, time.Hour)
	service := users.NewService(users.NewRepository(conn), store)
	return service, store, authRepo, conn
}

func seedUser(t *testing.T, repo auth.Repository, email string, role auth.Role) *auth.User {
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
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}

func TestListUsers(t *testing.T) {
	service, _, authRepo, _ := newTestService(t)
	seedUser(t, authRepo, "one@test.local", auth.RoleMember)
	seedUser(t, authRepo, "two@test.local", auth.RoleAdmin)

	listed, err := service.List(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 2)
	emails := []string{listed[0].Email, listed[1].Email}
	assert.Contains(t, emails, "one@test.local")
	assert.Contains(t, emails, "two@test.local")
}

func TestDeactivateRevokesSessions(t *testing.T) {
	service, store, authRepo, _ := newTestService(t)
	user := seedUser(t, authRepo, "target@test.local", auth.RoleMember)
	ctx := context.Background()

	token, err := store.Create(ctx, user.ID)
	require.NoError(t, err)

	require.NoError(t, service.Deactivate(ctx, user.ID))

	// The live session dies with the account.
	resolved, err := store.Validate(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, resolved)

	stored, err := authRepo.FindUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func TestReactivateDoesNotRestoreSessions(t *testing.T) {
	service, store, authRepo, _ := newTestService(t)
	user := seedUser(t, authRepo, "back@test.local", auth.RoleMember)
	ctx := context.Background()

	token, err := store.Create(ctx, user.ID)
	require.NoError(t, err)
	require.NoError(t, service.Deactivate(ctx, user.ID))
	require.NoError(t, service.Reactivate(ctx, user.ID))

	stored, err := authRepo.FindUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsActive)

	resolved, err := store.Validate(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, resolved, "reactivation must not resurrect revoked sessions")
}

func TestSetActiveUnknownUser(t *testing.T) {
	service, _, _, _ := newTestService(t)

	err := service.Deactivate(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
