package users_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corkboard-app/corkboard/internal/auth"
	"github.com/corkboard-app/corkboard/internal/platform/db"
	"github.com/corkboard-app/corkboard/internal/users"
)

type gateFixture struct {
	server       *httptest.Server
	adminCookie  *http.Cookie
	memberCookie *http.Cookie
}

// newGateFixture mounts the admin routes behind the real session middleware
// and hands back live session cookies for one admin and one member.
func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()
	ctx := context.Background()
	conn, err := db.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	authRepo := auth.NewRepository(conn)
	store := auth.NewSessionStore(authRepo, time.Hour)
	cookies := auth.NewCookieAdapter(store.TTL(), false)
	authService := auth.NewService(authRepo, store)

	admin, err := authService.EnsureAdmin(ctx, "root@test.local", "Secret123!")
	require.NoError(t, err)
	adminToken, err := store.Create(ctx, admin.ID)
	require.NoError(t, err)

	_, memberToken, err := authService.Register(ctx, "member@test.local", "Secret123!", "")
	require.NoError(t, err)

	handler := users.NewHandler(logger, users.NewService(users.NewRepository(conn), store))

	r := chi.NewRouter()
	r.Use(auth.Middleware(store, cookies, logger))
	r.Route("/api/users", handler.MountRoutes)
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return &gateFixture{
		server:       server,
		adminCookie:  &http.Cookie{Name: auth.CookieName, Value: adminToken},
		memberCookie: &http.Cookie{Name: auth.CookieName, Value: memberToken},
	}
}

func (f *gateFixture) get(t *testing.T, path string, cookie *http.Cookie) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, f.server.URL+path, nil)
	require.NoError(t, err)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	res, err := f.server.Client().Do(req)
	require.NoError(t, err)
	return res
}

func (f *gateFixture) post(t *testing.T, path string, cookie *http.Cookie) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, f.server.URL+path, nil)
	require.NoError(t, err)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	res, err := f.server.Client().Do(req)
	require.NoError(t, err)
	return res
}

func TestUsersRoutesRejectAnonymous(t *testing.T) {
	f := newGateFixture(t)

	res := f.get(t, "/api/users/", nil)
	defer res.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestUsersRoutesRejectMembers(t *testing.T) {
	f := newGateFixture(t)

	// A freshly registered account holds the member role and must not see
	// the admin surface.
	res := f.get(t, "/api/users/", f.memberCookie)
	require.Equal(t, http.StatusForbidden, res.StatusCode)
	res.Body.Close()

	res = f.post(t, "/api/users/some-id/deactivate", f.memberCookie)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	res.Body.Close()
}

func TestUsersRoutesAdmitAdmins(t *testing.T) {
	f := newGateFixture(t)

	res := f.get(t, "/api/users/", f.adminCookie)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var listed []users.User
	require.NoError(t, json.NewDecoder(res.Body).Decode(&listed))
	res.Body.Close()
	require.Len(t, listed, 2)

	roles := map[string]string{}
	for _, u := range listed {
		roles[u.Email] = u.Role
	}
	assert.Equal(t, "admin", roles["root@test.local"])
	assert.Equal(t, "member", roles["member@test.local"])
}

func TestDeactivateThroughAdminSurface(t *testing.T) {
	f := newGateFixture(t)

	// Find the member's id through the admin listing.
	res := f.get(t, "/api/users/", f.adminCookie)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var listed []users.User
	require.NoError(t, json.NewDecoder(res.Body).Decode(&listed))
	res.Body.Close()

	var memberID string
	for _, u := range listed {
		if u.Role == "member" {
			memberID = u.ID
		}
	}
	require.NotEmpty(t, memberID)

	res = f.post(t, "/api/users/"+memberID+"/deactivate", f.adminCookie)
	require.Equal(t, http.StatusOK, res.StatusCode)
	res.Body.Close()

	// The member's session died with the account.
	res = f.get(t, "/api/users/", f.memberCookie)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	res.Body.Close()
}
