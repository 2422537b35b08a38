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

type bookingService interface {
	CreateBooking(ctx context.Context, principal application.Principal, input application.BookingInput) (application.Booking, error)
	UpdateBooking(ctx context.Context, principal application.Principal, bookingID string, input application.BookingInput) (application.Booking, error)
	GetBooking(ctx context.Context, principal application.Principal, bookingID string) (application.Booking, error)
	ListBookings(ctx context.Context, params application.ListBookingsParams) ([]application.Booking, error)
	DeleteBooking(ctx context.Context, principal application.Principal, bookingID string) error
	CheckForOverlaps(ctx context.Context, params application.CheckOverlapsParams) ([]application.ConflictingBooking, error)
	WeekView(ctx context.Context, params application.WeekViewParams) (application.WeekView, error)
	ExportWeekICS(ctx context.Context, params application.WeekViewParams) (string, error)
}

// BookingHandler exposes the calendar endpoints: booking CRUD, the laid out
// week view, the iCalendar export, and the overlap probe used by clients
// before submitting.
type BookingHandler struct {
	service   bookingService
	responder responder
	logger    *slog.Logger
}

func NewBookingHandler(service bookingService, logger *slog.Logger) *BookingHandler {
	return &BookingHandler{service: service, responder: newResponder(logger), logger: defaultLogger(logger)}
}

type bookingRequest struct {
	Title           string  `json:"title"`
	Start           string  `json:"start"`
	DurationSeconds *int64  `json:"duration_seconds"`
	AssignedToID    *string `json:"assigned_to_id"`
	DogID           *string `json:"dog_id"`
	BookingTypeID   *string `json:"booking_type_id"`
	Notes           string  `json:"notes"`
	RepeatRule      *string `json:"repeat_rule"`
	Confirmed       bool    `json:"confirmed"`
}

func (r bookingRequest) toInput() (application.BookingInput, error) {
	start, err := time.Parse(time.RFC3339, strings.TrimSpace(r.Start))
	if err != nil {
		return application.BookingInput{}, errInvalidBookingStart
	}

	input := application.BookingInput{
		Title:         strings.TrimSpace(r.Title),
		Start:         start,
		AssignedToID:  r.AssignedToID,
		DogID:         r.DogID,
		BookingTypeID: r.BookingTypeID,
		Notes:         r.Notes,
		RepeatRule:    r.RepeatRule,
		Confirmed:     r.Confirmed,
	}
	if r.DurationSeconds != nil {
		duration := time.Duration(*r.DurationSeconds) * time.Second
		input.Duration = &duration
	}
	return input, nil
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	params := application.ListBookingsParams{Principal: principal}
	query := r.URL.Query()
	if assignee := strings.TrimSpace(query.Get("assigned_to")); assignee != "" {
		params.AssignedToID = &assignee
	}
	if raw := strings.TrimSpace(query.Get("starts_after")); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidBookingStart)
			return
		}
		params.StartsAfter = &ts
	}
	if raw := strings.TrimSpace(query.Get("starts_before")); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidBookingStart)
			return
		}
		params.StartsBefore = &ts
	}

	bookings, err := h.service.ListBookings(r.Context(), params)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]bookingDTO, 0, len(bookings))
	for _, booking := range bookings {
		out = append(out, toBookingDTO(booking))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, map[string][]bookingDTO{"bookings": out})
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	booking, err := h.service.CreateBooking(r.Context(), principal, input)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toBookingDTO(booking))
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	booking, err := h.service.GetBooking(r.Context(), principal, id)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toBookingDTO(booking))
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || id == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	booking, err := h.service.UpdateBooking(r.Context(), principal, id, input)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toBookingDTO(booking))
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	if err := h.service.DeleteBooking(r.Context(), principal, id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// Week renders the laid out calendar for the week starting at ?start=.
func (h *BookingHandler) Week(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	params, err := h.weekParams(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	view, err := h.service.WeekView(r.Context(), params)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toWeekViewDTO(view))
}

// WeekICS serves the same week as an iCalendar document.
func (h *BookingHandler) WeekICS(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	params, err := h.weekParams(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	document, err := h.service.ExportWeekICS(r.Context(), params)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="week.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(document)); err != nil {
		handlerLogger(r.Context(), h.logger, "BookingHandler", "WeekICS").WarnContext(r.Context(), "failed to write ics response", "error", err)
	}
}

type checkOverlapsRequest struct {
	ExcludeBookingID string `json:"exclude_booking_id"`
	AssignedToID     string `json:"assigned_to_id"`
	Start            string `json:"start"`
	DurationSeconds  int64  `json:"duration_seconds"`
}

// Check probes an assignee's calendar for overlaps without writing anything.
func (h *BookingHandler) Check(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req checkOverlapsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	start, err := time.Parse(time.RFC3339, strings.TrimSpace(req.Start))
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidBookingStart)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	conflicts, err := h.service.CheckForOverlaps(r.Context(), application.CheckOverlapsParams{
		Principal:        principal,
		ExcludeBookingID: strings.TrimSpace(req.ExcludeBookingID),
		AssignedToID:     strings.TrimSpace(req.AssignedToID),
		Start:            start,
		Duration:         time.Duration(req.DurationSeconds) * time.Second,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, map[string][]conflictDTO{
		"conflicts": toConflictDTOs(conflicts),
	})
}

func (h *BookingHandler) weekParams(r *http.Request) (application.WeekViewParams, error) {
	query := r.URL.Query()
	weekStart, err := time.Parse("2006-01-02", strings.TrimSpace(query.Get("start")))
	if err != nil {
		return application.WeekViewParams{}, errInvalidWeekStart
	}

	principal, _ := PrincipalFromContext(r.Context())
	params := application.WeekViewParams{Principal: principal, WeekStart: weekStart}
	if assignee := strings.TrimSpace(query.Get("assigned_to")); assignee != "" {
		params.AssignedToID = &assignee
	}
	return params, nil
}

type bookingDTO struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Start           string  `json:"start"`
	DurationSeconds int64   `json:"duration_seconds"`
	AssignedToID    *string `json:"assigned_to_id,omitempty"`
	DogID           *string `json:"dog_id,omitempty"`
	BookingTypeID   *string `json:"booking_type_id,omitempty"`
	Notes           string  `json:"notes,omitempty"`
	RepeatRule      *string `json:"repeat_rule,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

func toBookingDTO(booking application.Booking) bookingDTO {
	return bookingDTO{
		ID:              booking.ID,
		Title:           booking.Title,
		Start:           booking.Start.UTC().Format(time.RFC3339Nano),
		DurationSeconds: int64(booking.Duration / time.Second),
		AssignedToID:    booking.AssignedToID,
		DogID:           booking.DogID,
		BookingTypeID:   booking.BookingTypeID,
		Notes:           booking.Notes,
		RepeatRule:      booking.RepeatRule,
		CreatedAt:       booking.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:       booking.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

type positionedBookingDTO struct {
	ID              string   `json:"id"`
	ParentID        string   `json:"parent_id"`
	Title           string   `json:"title"`
	Start           string   `json:"start"`
	DurationSeconds int64    `json:"duration_seconds"`
	AssignedToID    string   `json:"assigned_to_id,omitempty"`
	ColumnIndex     int      `json:"column_index"`
	OverlapIDs      []string `json:"overlap_ids"`
	WidthPct        float64  `json:"width_pct"`
	WidthPx         float64  `json:"width_px"`
	LeftPct         float64  `json:"left_pct"`
	LeftPx          float64  `json:"left_px"`
}

type weekDayDTO struct {
	Date     string                 `json:"date"`
	Bookings []positionedBookingDTO `json:"bookings"`
}

type weekViewDTO struct {
	WeekStart string       `json:"week_start"`
	Days      []weekDayDTO `json:"days"`
}

func toWeekViewDTO(view application.WeekView) weekViewDTO {
	out := weekViewDTO{
		WeekStart: view.WeekStart.Format("2006-01-02"),
		Days:      make([]weekDayDTO, 0, len(view.Days)),
	}
	for _, day := range view.Days {
		dayDTO := weekDayDTO{
			Date:     day.Date.Format("2006-01-02"),
			Bookings: make([]positionedBookingDTO, 0, len(day.Bookings)),
		}
		for _, booking := range day.Bookings {
			dayDTO.Bookings = append(dayDTO.Bookings, positionedBookingDTO{
				ID:              booking.ID,
				ParentID:        booking.ParentID,
				Title:           booking.Title,
				Start:           booking.Start.UTC().Format(time.RFC3339Nano),
				DurationSeconds: int64(booking.Duration / time.Second),
				AssignedToID:    booking.AssignedToID,
				ColumnIndex:     booking.ColumnIndex,
				OverlapIDs:      append([]string(nil), booking.OverlapIDs...),
				WidthPct:        booking.WidthPct,
				WidthPx:         booking.WidthPx,
				LeftPct:         booking.LeftPct,
				LeftPx:          booking.LeftPx,
			})
		}
		out.Days = append(out.Days, dayDTO)
	}
	return out
}
