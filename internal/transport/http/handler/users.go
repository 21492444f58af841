package handler

import (
	"net/http"

	"github.com/go-clinic-api/internal/application/user"
)

// UserHandler serves the admin user listing.
type UserHandler struct {
	svc user.Service
}

func NewUserHandler(svc user.Service) *UserHandler { return &UserHandler{svc: svc} }

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		httpError(w, r, err, "Failed to fetch users")
		return
	}
	writeJSON(w, http.StatusOK, users)
}
