package handler

import (
	"net/http"

	"github.com/go-clinic-api/internal/application/auth"
	"github.com/go-clinic-api/internal/application/session"
	"github.com/go-clinic-api/internal/domain"
)

// AuthHandler serves the /api/auth endpoints.
type AuthHandler struct {
	auth    auth.Service
	session session.Service
}

func NewAuthHandler(authSvc auth.Service, sessionSvc session.Service) *AuthHandler {
	return &AuthHandler{auth: authSvc, session: sessionSvc}
}

func (h *AuthHandler) SendRegistrationOTP(w http.ResponseWriter, r *http.Request) {
	var req domain.SendRegistrationOTPRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.auth.SendRegistrationOTP(r.Context(), req); err != nil {
		httpError(w, r, err, "Failed to send OTP")
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "OTP sent successfully"})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.auth.Register(r.Context(), req); err != nil {
		httpError(w, r, err, "Registration failed")
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "User registered successfully"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.session.Login(r.Context(), req)
	if err != nil {
		httpError(w, r, err, "Login error")
		return
	}
	writeJSON(w, http.StatusOK, LoginEnvelope{
		Message: "Login successful",
		Token:   res.Token,
		User:    toSessionUser(res.User),
	})
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req domain.ForgotPasswordRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.auth.RequestPasswordReset(r.Context(), req); err != nil {
		httpError(w, r, err, "Failed to send reset OTP")
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "OTP sent for password reset"})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req domain.ResetPasswordRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.auth.ResetPassword(r.Context(), req); err != nil {
		httpError(w, r, err, "Password reset failed")
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Password reset successful"})
}
