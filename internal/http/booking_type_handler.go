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

type bookingTypeService interface {
	CreateBookingType(ctx context.Context, principal application.Principal, input application.BookingTypeInput) (application.BookingType, error)
	UpdateBookingType(ctx context.Context, principal application.Principal, typeID string, input application.BookingTypeInput) (application.BookingType, error)
	GetBookingType(ctx context.Context, principal application.Principal, typeID string) (application.BookingType, error)
	ListBookingTypes(ctx context.Context, principal application.Principal) ([]application.BookingType, error)
	DeleteBookingType(ctx context.Context, principal application.Principal, typeID string) error
}

// BookingTypeHandler exposes booking category endpoints.
type BookingTypeHandler struct {
	service   bookingTypeService
	responder responder
	logger    *slog.Logger
}

func NewBookingTypeHandler(service bookingTypeService, logger *slog.Logger) *BookingTypeHandler {
	return &BookingTypeHandler{service: service, responder: newResponder(logger), logger: defaultLogger(logger)}
}

type bookingTypeRequest struct {
	Name                   string `json:"name"`
	Color                  string `json:"color"`
	DefaultDurationSeconds int64  `json:"default_duration_seconds"`
}

func (r bookingTypeRequest) toInput() application.BookingTypeInput {
	return application.BookingTypeInput{
		Name:            strings.TrimSpace(r.Name),
		Color:           strings.TrimSpace(r.Color),
		DefaultDuration: time.Duration(r.DefaultDurationSeconds) * time.Second,
	}
}

func (h *BookingTypeHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	types, err := h.service.ListBookingTypes(r.Context(), principal)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]bookingTypeDTO, 0, len(types))
	for _, bookingType := range types {
		out = append(out, toBookingTypeDTO(bookingType))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, map[string][]bookingTypeDTO{"booking_types": out})
}

func (h *BookingTypeHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req bookingTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	bookingType, err := h.service.CreateBookingType(r.Context(), principal, req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toBookingTypeDTO(bookingType))
}

func (h *BookingTypeHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	bookingType, err := h.service.GetBookingType(r.Context(), principal, id)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toBookingTypeDTO(bookingType))
}

func (h *BookingTypeHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || id == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	var req bookingTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	bookingType, err := h.service.UpdateBookingType(r.Context(), principal, id, req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toBookingTypeDTO(bookingType))
}

func (h *BookingTypeHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	if err := h.service.DeleteBookingType(r.Context(), principal, id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type bookingTypeDTO struct {
	ID                     string `json:"id"`
	Name                   string `json:"name"`
	Color                  string `json:"color"`
	DefaultDurationSeconds int64  `json:"default_duration_seconds"`
	CreatedAt              string `json:"created_at"`
	UpdatedAt              string `json:"updated_at"`
}

func toBookingTypeDTO(bookingType application.BookingType) bookingTypeDTO {
	return bookingTypeDTO{
		ID:                     bookingType.ID,
		Name:                   bookingType.Name,
		Color:                  bookingType.Color,
		DefaultDurationSeconds: int64(bookingType.DefaultDuration / time.Second),
		CreatedAt:              bookingType.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:              bookingType.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}
