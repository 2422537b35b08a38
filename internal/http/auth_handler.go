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

type authService interface {
	Authenticate(ctx context.Context, params application.AuthenticateParams) (application.AuthenticateResult, error)
	RevokeSession(ctx context.Context, token string) error
	ListSessions(ctx context.Context, principal application.Principal, userID string) ([]application.Session, error)
}

// AuthHandler exposes login and session management endpoints.
type AuthHandler struct {
	service   authService
	responder responder
	logger    *slog.Logger
}

func NewAuthHandler(service authService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: service, responder: newResponder(logger), logger: defaultLogger(logger)}
}

func (h *AuthHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return handlerLogger(ctx, h.logger, "AuthHandler", operation, attrs...)
}

// CreateSession is the login endpoint.
func (h *AuthHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	result, err := h.service.Authenticate(r.Context(), application.AuthenticateParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "CreateSession", "user_id", result.User.ID).InfoContext(r.Context(), "session issued")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, sessionResponse{
		Token:     result.Session.Token,
		ExpiresAt: result.Session.ExpiresAt.UTC().Format(time.RFC3339Nano),
		User:      toUserDTO(result.User),
	})
}

// DeleteCurrentSession revokes the session presented with the request.
func (h *AuthHandler) DeleteCurrentSession(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	token := extractTokenFromRequest(r)
	if token == "" {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	if err := h.service.RevokeSession(r.Context(), token); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// ListSessions enumerates the caller's sessions.
func (h *AuthHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))

	sessions, err := h.service.ListSessions(r.Context(), principal, userID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]sessionDTO, 0, len(sessions))
	for _, session := range sessions {
		dto := sessionDTO{
			ID:        session.ID,
			UserID:    session.UserID,
			ExpiresAt: session.ExpiresAt.UTC().Format(time.RFC3339Nano),
			CreatedAt: session.CreatedAt.UTC().Format(time.RFC3339Nano),
		}
		if session.RevokedAt != nil {
			revoked := session.RevokedAt.UTC().Format(time.RFC3339Nano)
			dto.RevokedAt = &revoked
		}
		out = append(out, dto)
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, map[string][]sessionDTO{"sessions": out})
}

type sessionResponse struct {
	Token     string  `json:"token"`
	ExpiresAt string  `json:"expires_at"`
	User      userDTO `json:"user"`
}

type sessionDTO struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	ExpiresAt string  `json:"expires_at"`
	CreatedAt string  `json:"created_at"`
	RevokedAt *string `json:"revoked_at,omitempty"`
}

func extractTokenFromRequest(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := strings.TrimSpace(r.Header.Get("Authorization")); header != "" {
		const prefix = "Bearer "
		if strings.HasPrefix(header, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(header, prefix))
		}
	}
	if cookie, err := r.Cookie("session_token"); err == nil {
		return cookie.Value
	}
	return ""
}
