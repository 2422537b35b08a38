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

type vetService interface {
	CreateVet(ctx context.Context, principal application.Principal, input application.VetInput) (application.Vet, error)
	UpdateVet(ctx context.Context, principal application.Principal, vetID string, input application.VetInput) (application.Vet, error)
	GetVet(ctx context.Context, principal application.Principal, vetID string) (application.Vet, error)
	ListVets(ctx context.Context, principal application.Principal) ([]application.Vet, error)
	DeleteVet(ctx context.Context, principal application.Principal, vetID string) error
}

// VetHandler exposes veterinarian directory endpoints.
type VetHandler struct {
	service   vetService
	responder responder
	logger    *slog.Logger
}

func NewVetHandler(service vetService, logger *slog.Logger) *VetHandler {
	return &VetHandler{service: service, responder: newResponder(logger), logger: defaultLogger(logger)}
}

type vetRequest struct {
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
	ClinicIDs []string `json:"clinic_ids"`
}

func (r vetRequest) toInput() application.VetInput {
	return application.VetInput{
		Name:      strings.TrimSpace(r.Name),
		Email:     strings.TrimSpace(r.Email),
		Phone:     strings.TrimSpace(r.Phone),
		ClinicIDs: append([]string(nil), r.ClinicIDs...),
	}
}

func (h *VetHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	vets, err := h.service.ListVets(r.Context(), principal)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]vetDTO, 0, len(vets))
	for _, vet := range vets {
		out = append(out, toVetDTO(vet))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, map[string][]vetDTO{"vets": out})
}

func (h *VetHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req vetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	vet, err := h.service.CreateVet(r.Context(), principal, req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toVetDTO(vet))
}

func (h *VetHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	vet, err := h.service.GetVet(r.Context(), principal, id)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toVetDTO(vet))
}

func (h *VetHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || id == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	var req vetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	vet, err := h.service.UpdateVet(r.Context(), principal, id, req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toVetDTO(vet))
}

func (h *VetHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	if err := h.service.DeleteVet(r.Context(), principal, id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type vetDTO struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	ClinicIDs []string `json:"clinic_ids"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

func toVetDTO(vet application.Vet) vetDTO {
	return vetDTO{
		ID:        vet.ID,
		Name:      vet.Name,
		Email:     vet.Email,
		Phone:     vet.Phone,
		ClinicIDs: append([]string(nil), vet.ClinicIDs...),
		CreatedAt: vet.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: vet.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}
