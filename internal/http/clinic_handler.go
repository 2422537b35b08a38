package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/pawdesk/internal/application"
)

type clinicService interface {
	CreateClinic(ctx context.Context, principal application.Principal, input application.ClinicInput) (application.Clinic, error)
	UpdateClinic(ctx context.Context, principal application.Principal, clinicID string, input application.ClinicInput) (application.Clinic, error)
	GetClinic(ctx context.Context, principal application.Principal, clinicID string) (application.Clinic, error)
	ListClinics(ctx context.Context, principal application.Principal) ([]application.Clinic, error)
	DeleteClinic(ctx context.Context, principal application.Principal, clinicID string) error
}

// ClinicHandler exposes clinic directory endpoints.
type ClinicHandler struct {
	service   clinicService
	responder responder
	logger    *slog.Logger
}

func NewClinicHandler(service clinicService, logger *slog.Logger) *ClinicHandler {
	return &ClinicHandler{service: service, responder: newResponder(logger), logger: defaultLogger(logger)}
}

type clinicRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

func (r clinicRequest) toInput() application.ClinicInput {
	return application.ClinicInput{
		Name:    strings.TrimSpace(r.Name),
		Address: strings.TrimSpace(r.Address),
		Phone:   strings.TrimSpace(r.Phone),
	}
}

func (h *ClinicHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	clinics, err := h.service.ListClinics(r.Context(), principal)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]clinicDTO, 0, len(clinics))
	for _, clinic := range clinics {
		out = append(out, toClinicDTO(clinic))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, map[string][]clinicDTO{"clinics": out})
}

func (h *ClinicHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req clinicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	clinic, err := h.service.CreateClinic(r.Context(), principal, req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toClinicDTO(clinic))
}

func (h *ClinicHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || id == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	clinic, err := h.service.GetClinic(r.Context(), principal, id)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toClinicDTO(clinic))
}

func (h *ClinicHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || id == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	var req clinicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	clinic, err := h.service.UpdateClinic(r.Context(), principal, id, req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toClinicDTO(clinic))
}

func (h *ClinicHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || id == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	if err := h.service.DeleteClinic(r.Context(), principal, id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type clinicDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toClinicDTO(clinic application.Clinic) clinicDTO {
	return clinicDTO{
		ID:        clinic.ID,
		Name:      clinic.Name,
		Address:   clinic.Address,
		Phone:     clinic.Phone,
		CreatedAt: clinic.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: clinic.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}
