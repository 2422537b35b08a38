package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/pawdesk/internal/persistence"
)

// PasswordVerifier compares a stored hash with a candidate password.
type PasswordVerifier func(encoded, password string) error

// AuthService coordinates login, session validation and session lifecycle.
type AuthService struct {
	users          persistence.UserRepository
	sessions       persistence.SessionRepository
	verifyPassword PasswordVerifier
	tokenGenerator func() string
	now            func() time.Time
	sessionTTL     time.Duration
	logger         *slog.Logger
}

// NewAuthService constructs an AuthService with the provided dependencies.
func NewAuthService(users persistence.UserRepository, sessions persistence.SessionRepository, tokenGenerator func() string, now func() time.Time, sessionTTL time.Duration, logger *slog.Logger) *AuthService {
	if tokenGenerator == nil {
		tokenGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AuthService{
		users:          users,
		sessions:       sessions,
		verifyPassword: verifyPassword,
		tokenGenerator: tokenGenerator,
		now:            now,
		sessionTTL:     sessionTTL,
		logger:         defaultLogger(logger),
	}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

// Authenticate validates credentials and issues a new session token.
func (s *AuthService) Authenticate(ctx context.Context, params AuthenticateParams) (result AuthenticateResult, err error) {
	if s == nil {
		err = fmt.Errorf("AuthService is nil")
		return
	}
	if s.users == nil || s.sessions == nil {
		err = fmt.Errorf("auth repositories not configured")
		return
	}

	email := strings.TrimSpace(strings.ToLower(params.Email))

	logger := s.loggerWith(ctx, "Authenticate", "email", email)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "authentication failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With(
			"user_id", result.User.ID,
			"session_id", result.Session.ID,
		).InfoContext(ctx, "authentication succeeded")
	}()

	if email == "" || params.Password == "" {
		err = ErrInvalidCredentials
		return
	}

	user, lookupErr := s.users.GetUserByEmail(ctx, email)
	if lookupErr != nil {
		if mapRepoError(lookupErr) == ErrNotFound {
			err = ErrInvalidCredentials
			return
		}
		err = lookupErr
		return
	}

	if err = s.verifyPassword(user.PasswordHash, params.Password); err != nil {
		err = ErrInvalidCredentials
		return
	}

	now := s.now()
	session := persistence.Session{
		ID:        s.tokenGenerator(),
		UserID:    user.ID,
		Token:     s.tokenGenerator(),
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if session.Token == "" {
		session.Token = session.ID
	}

	persisted, createErr := s.sessions.CreateSession(ctx, session)
	if createErr != nil {
		err = mapRepoError(createErr)
		return
	}

	result = AuthenticateResult{
		User:    fromPersistenceUser(user),
		Session: fromPersistenceSession(persisted),
	}
	return
}

// ValidateSession verifies that the token names an active session and returns
// the principal it authenticates.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (principal Principal, err error) {
	if s == nil {
		err = fmt.Errorf("AuthService is nil")
		return
	}
	if s.users == nil || s.sessions == nil {
		err = fmt.Errorf("auth repositories not configured")
		return
	}

	trimmed := strings.TrimSpace(token)
	logger := s.loggerWith(ctx, "ValidateSession", "token_provided", trimmed != "")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "session validation failed", "error", err, "error_kind", ErrorKind(err))
		}
	}()

	if trimmed == "" {
		err = ErrUnauthorized
		return
	}

	session, lookupErr := s.sessions.GetSession(ctx, trimmed)
	if lookupErr != nil {
		if mapRepoError(lookupErr) == ErrNotFound {
			err = ErrUnauthorized
			return
		}
		err = lookupErr
		return
	}

	now := s.now()
	if session.RevokedAt != nil && !session.RevokedAt.IsZero() {
		err = ErrSessionRevoked
		return
	}
	if !session.ExpiresAt.After(now) {
		err = ErrSessionExpired
		return
	}

	user, userErr := s.users.GetUser(ctx, session.UserID)
	if userErr != nil {
		if mapRepoError(userErr) == ErrNotFound {
			err = ErrUnauthorized
			return
		}
		err = userErr
		return
	}

	principal = Principal{UserID: user.ID, OrgID: user.OrgID, Role: user.Role}
	return
}

// RevokeSession invalidates an existing session token.
func (s *AuthService) RevokeSession(ctx context.Context, token string) error {
	if s == nil {
		return fmt.Errorf("AuthService is nil")
	}
	if s.sessions == nil {
		return fmt.Errorf("session repository not configured")
	}

	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return ErrUnauthorized
	}

	logger := s.loggerWith(ctx, "RevokeSession")

	if _, err := s.sessions.RevokeSession(ctx, trimmed, s.now()); err != nil {
		mapped := mapRepoError(err)
		if mapped == ErrNotFound {
			mapped = ErrUnauthorized
		}
		logger.ErrorContext(ctx, "failed to revoke session", "error", mapped, "error_kind", ErrorKind(mapped))
		return mapped
	}

	logger.InfoContext(ctx, "session revoked")
	return nil
}

// ListSessions enumerates the sessions issued to a user. Staff may only see
// their own sessions.
func (s *AuthService) ListSessions(ctx context.Context, principal Principal, userID string) ([]Session, error) {
	if s == nil {
		return nil, fmt.Errorf("AuthService is nil")
	}
	if s.sessions == nil {
		return nil, fmt.Errorf("session repository not configured")
	}

	if userID == "" {
		userID = principal.UserID
	}
	if userID != principal.UserID && !principal.IsAdmin() {
		return nil, ErrUnauthorized
	}

	stored, err := s.sessions.ListSessionsForUser(ctx, userID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	sessions := make([]Session, 0, len(stored))
	for _, session := range stored {
		sessions = append(sessions, fromPersistenceSession(session))
	}
	return sessions, nil
}

// PurgeExpiredSessions removes sessions whose expiry has passed. Wired to a
// periodic job in the server entrypoint.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("AuthService is nil")
	}
	if s.sessions == nil {
		return fmt.Errorf("session repository not configured")
	}

	logger := s.loggerWith(ctx, "PurgeExpiredSessions")
	if err := s.sessions.DeleteExpiredSessions(ctx, s.now()); err != nil {
		mapped := mapRepoError(err)
		logger.ErrorContext(ctx, "failed to purge expired sessions", "error", mapped, "error_kind", ErrorKind(mapped))
		return mapped
	}
	logger.InfoContext(ctx, "expired sessions purged")
	return nil
}
