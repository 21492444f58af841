package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-clinic-api/internal/domain"
	"github.com/go-clinic-api/internal/pkg/validate"
)

// MessageEnvelope is the generic response wrapper, also used for errors.
type MessageEnvelope struct {
	Message string `json:"message"`
}

// DataEnvelope wraps responses that carry a resource.
type DataEnvelope struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// LoginEnvelope wraps the login response.
type LoginEnvelope struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    *SessionUser `json:"user"`
}

// SessionUser is the public view of the logged-in user.
type SessionUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func toSessionUser(u *domain.User) *SessionUser {
	if u == nil {
		return nil
	}
	return &SessionUser{ID: u.UserID, Username: u.Username, Email: u.Email}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Message: msg})
}

// decode reads a JSON body into dst and validates it. It writes the 400
// response itself and returns false on failure.
func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}
