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

type dogService interface {
	CreateDog(ctx context.Context, principal application.Principal, input application.DogInput) (application.Dog, error)
	UpdateDog(ctx context.Context, principal application.Principal, dogID string, input application.DogInput) (application.Dog, error)
	GetDog(ctx context.Context, principal application.Principal, dogID string) (application.Dog, error)
	ListDogs(ctx context.Context, principal application.Principal) ([]application.Dog, error)
	DeleteDog(ctx context.Context, principal application.Principal, dogID string) error
}

// DogHandler exposes patient management endpoints.
type DogHandler struct {
	service   dogService
	responder responder
	logger    *slog.Logger
}

func NewDogHandler(service dogService, logger *slog.Logger) *DogHandler {
	return &DogHandler{service: service, responder: newResponder(logger), logger: defaultLogger(logger)}
}

type dogRequest struct {
	Name      string   `json:"name"`
	Breed     string   `json:"breed"`
	BirthDate string   `json:"birth_date"`
	Notes     string   `json:"notes"`
	OwnerIDs  []string `json:"owner_ids"`
	VetIDs    []string `json:"vet_ids"`
}

func (r dogRequest) toInput() application.DogInput {
	input := application.DogInput{
		Name:     strings.TrimSpace(r.Name),
		Breed:    strings.TrimSpace(r.Breed),
		Notes:    r.Notes,
		OwnerIDs: append([]string(nil), r.OwnerIDs...),
		VetIDs:   append([]string(nil), r.VetIDs...),
	}
	if date := strings.TrimSpace(r.BirthDate); date != "" {
		if ts, err := time.Parse("2006-01-02", date); err == nil {
			input.BirthDate = &ts
		}
	}
	return input
}

func (h *DogHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	dogs, err := h.service.ListDogs(r.Context(), principal)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]dogDTO, 0, len(dogs))
	for _, dog := range dogs {
		out = append(out, toDogDTO(dog))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, map[string][]dogDTO{"dogs": out})
}

func (h *DogHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req dogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	dog, err := h.service.CreateDog(r.Context(), principal, req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toDogDTO(dog))
}

func (h *DogHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	dog, err := h.service.GetDog(r.Context(), principal, id)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toDogDTO(dog))
}

func (h *DogHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || id == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	var req dogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	dog, err := h.service.UpdateDog(r.Context(), principal, id, req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toDogDTO(dog))
}

func (h *DogHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	if err := h.service.DeleteDog(r.Context(), principal, id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type dogDTO struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Breed     string   `json:"breed,omitempty"`
	BirthDate string   `json:"birth_date,omitempty"`
	Notes     string   `json:"notes,omitempty"`
	OwnerIDs  []string `json:"owner_ids"`
	VetIDs    []string `json:"vet_ids"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

func toDogDTO(dog application.Dog) dogDTO {
	dto := dogDTO{
		ID:        dog.ID,
		Name:      dog.Name,
		Breed:     dog.Breed,
		Notes:     dog.Notes,
		OwnerIDs:  append([]string(nil), dog.OwnerIDs...),
		VetIDs:    append([]string(nil), dog.VetIDs...),
		CreatedAt: dog.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: dog.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if dog.BirthDate != nil {
		dto.BirthDate = dog.BirthDate.Format("2006-01-02")
	}
	return dto
}
