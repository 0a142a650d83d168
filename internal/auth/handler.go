package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/corkboard-app/corkboard/internal/platform/httpx"
	"github.com/corkboard-app/corkboard/internal/shared"
)

// Handler wires the JSON authentication endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	cookies   *CookieAdapter
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, cookies *CookieAdapter) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		cookies:   cookies,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.Post("/logout-all", h.handleLogoutAll)
	r.Get("/me", h.handleMe)
	r.Put("/me", h.handleUpdateMe)
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	FullName string `json:"fullName"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateMeRequest struct {
	FullName string `json:"full_name"`
	Meta     Meta   `json:"meta"`
}

type authResponse struct {
	Success bool       `json:"success"`
	User    PublicUser `json:"user"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.JSON(w, http.StatusBadRequest, errorResponse{Error: validationMessage(err)})
		return
	}

	user, token, err := h.service.Register(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.cookies.Attach(w, token)
	httpx.JSON(w, http.StatusOK, authResponse{Success: true, User: user.Public()})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.JSON(w, http.StatusBadRequest, errorResponse{Error: validationMessage(err)})
		return
	}

	user, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.cookies.Attach(w, token)
	httpx.JSON(w, http.StatusOK, authResponse{Success: true, User: user.Public()})
}

// handleLogout revokes the current session if one exists and always clears
// the cookie. Logout never fails, even without a session.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := h.cookies.Extract(r)
	if err := h.service.Logout(r.Context(), token); err != nil {
		h.logger.Warn("revoke session", slog.Any("error", err))
	}
	h.cookies.Clear(w)
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) handleLogoutAll(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	if _, err := h.service.LogoutAll(r.Context(), user.ID); err != nil {
		h.respondError(w, err)
		return
	}
	h.cookies.Clear(w)
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, user.Public())
}

func (h *Handler) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var req updateMeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}
	updated, err := h.service.UpdateProfile(r.Context(), user.ID, req.FullName, req.Meta)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, authResponse{Success: true, User: updated.Public()})
}

// currentUser resolves the request's session cookie, writing the 401 response
// itself when the request is not authenticated.
func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) (*User, bool) {
	user, err := h.service.CurrentUser(r.Context(), h.cookies.Extract(r))
	if err != nil {
		h.respondError(w, err)
		return nil, false
	}
	return user, true
}

// respondError maps domain errors to client responses. Internal errors are
// logged and never leak detail to the body.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrEmailTaken):
		httpx.JSON(w, http.StatusBadRequest, errorResponse{Error: "Email already registered"})
	case errors.Is(err, shared.ErrInvalidCredentials):
		httpx.JSON(w, http.StatusUnauthorized, errorResponse{Error: "Invalid credentials"})
	case errors.Is(err, shared.ErrAccountInactive):
		httpx.JSON(w, http.StatusForbidden, errorResponse{Error: "Account is inactive"})
	case errors.Is(err, shared.ErrNotAuthenticated):
		httpx.JSON(w, http.StatusUnauthorized, errorResponse{Error: "Not authenticated"})
	default:
		h.logger.Error("auth request failed", slog.Any("error", err))
		httpx.JSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal error"})
	}
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fieldErr := verrs[0]
		switch fieldErr.Field() {
		case "Email":
			if fieldErr.Tag() == "required" {
				return "Email is required"
			}
			return "Email is invalid"
		case "Password":
			return "Password is required"
		}
	}
	return "Invalid request"
}
