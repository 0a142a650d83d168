package auth

import (
	"log/slog"
	"net/http"

	"github.com/corkboard-app/corkboard/internal/platform/httpx"
)

// Middleware resolves the session cookie to a user once per request and
// stores it in the request context. Requests without a valid session pass
// through with no user attached; guards decide what to do with that.
func Middleware(sessions *SessionStore, cookies *CookieAdapter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := cookies.Extract(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			user, err := sessions.Validate(r.Context(), token)
			if err != nil {
				logger.Error("validate session", slog.Any("error", err))
				httpx.JSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal error"})
				return
			}
			if user != nil {
				r = r.WithContext(ContextWithUser(r.Context(), user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireUser rejects requests that did not resolve to an authenticated user.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			httpx.JSON(w, http.StatusUnauthorized, errorResponse{Error: "Not authenticated"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects authenticated requests whose user lacks the given role.
func RequireRole(role Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil {
				httpx.JSON(w, http.StatusUnauthorized, errorResponse{Error: "Not authenticated"})
				return
			}
			if user.Role != role {
				httpx.JSON(w, http.StatusForbidden, errorResponse{Error: "Forbidden"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
