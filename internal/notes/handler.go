package notes

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/corkboard-app/corkboard/internal/auth"
	"github.com/corkboard-app/corkboard/internal/platform/httpx"
	"github.com/corkboard-app/corkboard/internal/shared"
)

// Handler wires the notes CRUD endpoints. All routes require an
// authenticated user resolved by the auth middleware.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers note routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(auth.RequireUser)
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/{id}", h.handleGet)
	r.Put("/{id}", h.handleUpdate)
	r.Delete("/{id}", h.handleDelete)
}

type noteRequest struct {
	Title string `json:"title" validate:"required,max=200"`
	Body  string `json:"body"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	result, err := h.service.List(r.Context(), user.ID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if result == nil {
		result = []Note{}
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	var req noteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "title is required")
		return
	}
	note, err := h.service.Create(r.Context(), user.ID, req.Title, req.Body)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, note)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	note, err := h.service.Get(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, note)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	var req noteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "title is required")
		return
	}
	note, err := h.service.Update(r.Context(), user.ID, chi.URLParam(r, "id"), req.Title, req.Body)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, note)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if err := h.service.Delete(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	if errors.Is(err, shared.ErrNotFound) {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	h.logger.Error("notes request failed", slog.Any("error", err))
	httpx.RespondError(w, err)
}
