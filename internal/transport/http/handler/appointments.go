package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/go-clinic-api/internal/application/appointment"
	"github.com/go-clinic-api/internal/domain"
)

// AppointmentHandler serves /api/appointments.
type AppointmentHandler struct {
	svc appointment.Service
}

func NewAppointmentHandler(svc appointment.Service) *AppointmentHandler {
	return &AppointmentHandler{svc: svc}
}

func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateAppointmentRequest
	if !decode(w, r, &req) {
		return
	}
	a, err := h.svc.Create(r.Context(), req)
	if err != nil {
		httpError(w, r, err, "Failed to book appointment")
		return
	}
	writeJSON(w, http.StatusCreated, DataEnvelope{Message: "Appointment booked successfully", Data: a})
}

func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.svc.List(r.Context())
	if err != nil {
		httpError(w, r, err, "Failed to fetch appointments")
		return
	}
	writeJSON(w, http.StatusOK, all)
}

func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, r, notFound(err), "Failed to fetch appointment")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *AppointmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateAppointmentRequest
	if !decode(w, r, &req) {
		return
	}
	a, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpError(w, r, notFound(err), "Failed to update appointment")
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Message: "Appointment updated successfully", Data: a})
}

func (h *AppointmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpError(w, r, notFound(err), "Failed to delete appointment")
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Appointment deleted successfully"})
}

var errAppointmentNotFound = domain.NewError(domain.ErrNotFound, "Appointment not found")

// notFound gives repository not-found errors their client-facing message.
func notFound(err error) error {
	var de *domain.Error
	if errors.Is(err, domain.ErrNotFound) && !errors.As(err, &de) {
		return errAppointmentNotFound
	}
	return err
}
