package handler

import (
	"net/http"

	"github.com/medialist/medialist-go/internal/middleware"
	"github.com/medialist/medialist-go/internal/service"
)

// UserHandler serves the authenticated user's own record.
type UserHandler struct{}

// NewUserHandler creates a new UserHandler.
func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// HandleMe handles GET /api/user requests.
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse(service.ErrUnauthenticated.Error()))
		return
	}

	writeJSON(w, http.StatusOK, user)
}
