package auth

import (
	"net/http"
	"strings"
	"time"
)

// CookieName is the fixed session cookie key.
const CookieName = "session_token"

// CookieAdapter binds session tokens to HTTP cookies.
type CookieAdapter struct {
	ttl    time.Duration
	secure bool
}

// NewCookieAdapter constructs a CookieAdapter. Secure should be true whenever
// the deployment terminates TLS.
func NewCookieAdapter(ttl time.Duration, secure bool) *CookieAdapter {
	return &CookieAdapter{ttl: ttl, secure: secure}
}

// Attach sets the session cookie on the response.
func (c *CookieAdapter) Attach(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.ttl / time.Second),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear forces browser-side deletion of the session cookie.
func (c *CookieAdapter) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Extract returns the session token carried by the request, or "" when the
// Cookie header is absent or carries no matching pair. Malformed segments
// are skipped.
func (c *CookieAdapter) Extract(r *http.Request) string {
	header := r.Header.Get("Cookie")
	if header == "" {
		return ""
	}
	for _, segment := range strings.Split(header, ";") {
		name, value, found := strings.Cut(strings.TrimSpace(segment), "=")
		if !found || name == "" {
			continue
		}
		if name == CookieName {
			return value
		}
	}
	return ""
}
