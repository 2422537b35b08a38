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

type clientService interface {
	CreateClient(ctx context.Context, principal application.Principal, input application.ClientInput) (application.Client, error)
	UpdateClient(ctx context.Context, principal application.Principal, clientID string, input application.ClientInput) (application.Client, error)
	GetClient(ctx context.Context, principal application.Principal, clientID string) (application.Client, error)
	ListClients(ctx context.Context, principal application.Principal) ([]application.Client, error)
	DeleteClient(ctx context.Context, principal application.Principal, clientID string) error
}

// ClientHandler exposes pet-owner management endpoints.
type ClientHandler struct {
	service   clientService
	responder responder
	logger    *slog.Logger
}

func NewClientHandler(service clientService, logger *slog.Logger) *ClientHandler {
	return &ClientHandler{service: service, responder: newResponder(logger), logger: defaultLogger(logger)}
}

type clientRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
}

func (r clientRequest) toInput() application.ClientInput {
	return application.ClientInput{
		Name:  strings.TrimSpace(r.Name),
		Email: strings.TrimSpace(r.Email),
		Phone: strings.TrimSpace(r.Phone),
		Notes: r.Notes,
	}
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	clients, err := h.service.ListClients(r.Context(), principal)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]clientDTO, 0, len(clients))
	for _, client := range clients {
		out = append(out, toClientDTO(client))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, map[string][]clientDTO{"clients": out})
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	client, err := h.service.CreateClient(r.Context(), principal, req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toClientDTO(client))
}

func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	client, err := h.service.GetClient(r.Context(), principal, id)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toClientDTO(client))
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || id == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	client, err := h.service.UpdateClient(r.Context(), principal, id, req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toClientDTO(client))
}

func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	if err := h.service.DeleteClient(r.Context(), principal, id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type clientDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toClientDTO(client application.Client) clientDTO {
	return clientDTO{
		ID:        client.ID,
		Name:      client.Name,
		Email:     client.Email,
		Phone:     client.Phone,
		Notes:     client.Notes,
		CreatedAt: client.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: client.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}
