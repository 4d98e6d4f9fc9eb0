package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/medialist/medialist-go/internal/middleware"
	"github.com/medialist/medialist-go/internal/model"
	"github.com/medialist/medialist-go/internal/service"
)

// MediaListHandler handles HTTP requests for a user's media statuses.
type MediaListHandler struct {
	service      *service.MediaListService
	exposeErrors bool
	logger       *slog.Logger
}

// NewMediaListHandler creates a new MediaListHandler. With exposeErrors set,
// storage error messages are returned to the client verbatim.
func NewMediaListHandler(svc *service.MediaListService, exposeErrors bool, logger *slog.Logger) *MediaListHandler {
	return &MediaListHandler{service: svc, exposeErrors: exposeErrors, logger: logger}
}

// HandleList handles GET /api/user/medialist requests.
func (h *MediaListHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse(service.ErrUnauthenticated.Error()))
		return
	}

	rows, err := h.service.List(r.Context(), user.ID)
	if err != nil {
		writeStorageError(w, h.logger, h.exposeErrors, err)
		return
	}

	writeJSON(w, http.StatusOK, rows)
}

// HandleWrite handles POST /api/user/medialist requests.
func (h *MediaListHandler) HandleWrite(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse(service.ErrUnauthenticated.Error()))
		return
	}

	var req model.MediaStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		if errors.Is(err, errBodyTooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	resp, err := h.service.Write(r.Context(), user.ID, req)
	if err != nil {
		if service.IsValidationError(err) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		writeStorageError(w, h.logger, h.exposeErrors, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
