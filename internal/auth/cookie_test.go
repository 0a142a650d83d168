package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachSetsSecurityAttributes(t *testing.T) {
	adapter := NewCookieAdapter(24*time.Hour, true)
	res := httptest.NewRecorder()
	adapter.Attach(res, "abc123")

	cookies := res.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, CookieName, cookie.Name)
	assert.Equal(t, "abc123", cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, int(24*time.Hour/time.Second), cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
}

func TestClearExpiresCookie(t *testing.T) {
	adapter := NewCookieAdapter(time.Hour, false)
	res := httptest.NewRecorder()
	adapter.Clear(res)

	cookies := res.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestExtract(t *testing.T) {
	adapter := NewCookieAdapter(time.Hour, false)

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"token among other cookies", "foo=bar; session_token=abc123; baz=qux", "abc123"},
		{"token alone", "session_token=abc123", "abc123"},
		{"whitespace around pairs", "  foo=bar ;  session_token=abc123 ", "abc123"},
		{"no matching name", "foo=bar; baz=qux", ""},
		{"absent header", "", ""},
		{"stray equals", "=; session_token=abc123; =broken", "abc123"},
		{"empty segments", ";;session_token=abc123;;", "abc123"},
		{"name without value separator", "session_token", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Cookie", tc.header)
			}
			assert.Equal(t, tc.want, adapter.Extract(req))
		})
	}
}
