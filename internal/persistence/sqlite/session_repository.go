package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/example/pawdesk/internal/persistence"
)

// SessionRepository implements persistence.SessionRepository.
type SessionRepository struct {
	pool *ConnectionPool
}

// NewSessionRepository creates the SQLite session repository.
func NewSessionRepository(pool *ConnectionPool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// CreateSession inserts a new session and returns the stored row.
func (r *SessionRepository) CreateSession(ctx context.Context, session persistence.Session) (persistence.Session, error) {
	if session.ID == "" || session.UserID == "" || session.Token == "" {
		return persistence.Session{}, persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now

	_, err := r.pool.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, token, expires_at, created_at, updated_at, revoked_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		session.ID, session.UserID, session.Token, formatTime(session.ExpiresAt),
		formatTime(session.CreatedAt), formatTime(session.UpdatedAt), nullableTime(session.RevokedAt),
	)
	if err != nil {
		return persistence.Session{}, mapError(err)
	}
	return r.GetSession(ctx, session.Token)
}

// GetSession retrieves a session by its token.
func (r *SessionRepository) GetSession(ctx context.Context, token string) (persistence.Session, error) {
	row := r.pool.db.QueryRowContext(ctx, selectSession+` WHERE token = ?`, token)
	return scanSession(row)
}

// ListSessionsForUser enumerates a user's sessions, newest first.
func (r *SessionRepository) ListSessionsForUser(ctx context.Context, userID string) ([]persistence.Session, error) {
	rows, err := r.pool.db.QueryContext(ctx, selectSession+` WHERE user_id = ? ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var sessions []persistence.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, mapError(rows.Err())
}

// RevokeSession marks a session revoked and returns the stored row.
func (r *SessionRepository) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (persistence.Session, error) {
	result, err := r.pool.db.ExecContext(ctx,
		`UPDATE sessions SET revoked_at = ?, updated_at = ? WHERE token = ?`,
		formatTime(revokedAt), formatTime(time.Now().UTC()), token,
	)
	if err != nil {
		return persistence.Session{}, mapError(err)
	}
	if err := requireRowAffected(result); err != nil {
		return persistence.Session{}, err
	}
	return r.GetSession(ctx, token)
}

// DeleteExpiredSessions removes sessions that expired before the reference
// instant.
func (r *SessionRepository) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	_, err := r.pool.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, formatTime(reference))
	return mapError(err)
}

const selectSession = `SELECT id, user_id, token, expires_at, created_at, updated_at, revoked_at FROM sessions`

func scanSession(row rowScanner) (persistence.Session, error) {
	var session persistence.Session
	var expiresAt, createdAt, updatedAt string
	var revokedAt sql.NullString
	if err := row.Scan(&session.ID, &session.UserID, &session.Token, &expiresAt,
		&createdAt, &updatedAt, &revokedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Session{}, persistence.ErrNotFound
		}
		return persistence.Session{}, mapError(err)
	}

	var err error
	if session.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return persistence.Session{}, err
	}
	if session.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Session{}, err
	}
	if session.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Session{}, err
	}
	if session.RevokedAt, err = timePtr(revokedAt); err != nil {
		return persistence.Session{}, err
	}
	return session, nil
}
