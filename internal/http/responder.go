package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/pawdesk/internal/application"
)

var (
	errBadRequestBody      = errors.New("the request body could not be parsed")
	errInvalidResourceID   = errors.New("the resource id is invalid")
	errMissingSessionToken = errors.New("a session token is required")
	errInvalidWeekStart    = errors.New("week start must look like 2026-03-09")
	errInvalidBookingStart = errors.New("booking start must be an RFC 3339 timestamp")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := http.StatusText(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

// handleServiceError maps service errors to HTTP responses. A pending
// double-booking renders as 409 carrying the conflicts; the client resubmits
/// with "confirmed": true to override.
func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	var confirmErr *application.ConfirmationRequiredError
	if errors.As(err, &confirmErr) {
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			ErrorCode: "CONFIRMATION_REQUIRED",
			Message:   "The booking overlaps existing bookings. Resubmit with \"confirmed\": true to double-book.",
			Conflicts: toConflictDTOs(confirmErr.Conflicts),
		})
		return
	}

	var vErr *application.ValidationError
	if errors.As(err, &vErr) {
		r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
			Message: "The submitted data is invalid.",
			Errors:  vErr.FieldErrors,
		})
		return
	}

	switch {
	case errors.Is(err, application.ErrInvalidCredentials):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{
			ErrorCode: "AUTH_INVALID_CREDENTIALS",
			Message:   "The email address or password is incorrect.",
		})
	case errors.Is(err, application.ErrSessionExpired), errors.Is(err, application.ErrSessionRevoked):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{
			ErrorCode: "AUTH_SESSION_EXPIRED",
			Message:   "The session is no longer valid. Sign in again.",
		})
	case errors.Is(err, application.ErrUnauthorized):
		r.writeJSON(ctx, w, http.StatusForbidden, errorResponse{
			ErrorCode: "AUTH_FORBIDDEN",
			Message:   "You are not allowed to perform this operation.",
		})
	case errors.Is(err, application.ErrInviteInvalid):
		r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
			ErrorCode: "INVITE_INVALID",
			Message:   "The invite is invalid or has expired.",
		})
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: "The requested resource was not found."})
	case errors.Is(err, application.ErrAlreadyExists):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{Message: "A resource with those details already exists."})
	default:
		r.loggerFor(ctx).ErrorContext(ctx, "unhandled service error", "error", err)
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: "An internal error occurred."})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

type errorResponse struct {
	ErrorCode string            `json:"error_code,omitempty"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
	Conflicts []conflictDTO     `json:"conflicts,omitempty"`
}

type conflictDTO struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Start        string `json:"start"`
	DurationSecs int64  `json:"duration_seconds"`
	AssignedToID string `json:"assigned_to_id,omitempty"`
}

func toConflictDTOs(conflicts []application.ConflictingBooking) []conflictDTO {
	if len(conflicts) == 0 {
		return nil
	}
	out := make([]conflictDTO, 0, len(conflicts))
	for _, conflict := range conflicts {
		out = append(out, conflictDTO{
			ID:           conflict.ID,
			Title:        conflict.Title,
			Start:        conflict.Start.UTC().Format(time.RFC3339Nano),
			DurationSecs: int64(conflict.Duration / time.Second),
			AssignedToID: conflict.AssignedToID,
		})
	}
	return out
}
