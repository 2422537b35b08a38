package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/example/pawdesk/internal/persistence"
)

// UserRepository implements persistence.UserRepository.
type UserRepository struct {
	pool *ConnectionPool
}

// NewUserRepository creates the SQLite user repository.
func NewUserRepository(pool *ConnectionPool) *UserRepository {
	return &UserRepository{pool: pool}
}

// CreateUser inserts a new staff account.
func (r *UserRepository) CreateUser(ctx context.Context, user persistence.User) error {
	if user.ID == "" || user.OrgID == "" || user.PasswordHash == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.pool.db.ExecContext(ctx,
		`INSERT INTO users (id, org_id, email, display_name, role, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.OrgID, normalizeEmail(user.Email), user.DisplayName, user.Role,
		user.PasswordHash, formatTime(user.CreatedAt), formatTime(user.UpdatedAt),
	)
	return mapError(err)
}

// UpdateUser updates an existing staff account.
func (r *UserRepository) UpdateUser(ctx context.Context, user persistence.User) error {
	result, err := r.pool.db.ExecContext(ctx,
		`UPDATE users SET email = ?, display_name = ?, role = ?, password_hash = ?, updated_at = ? WHERE id = ?`,
		normalizeEmail(user.Email), user.DisplayName, user.Role, user.PasswordHash,
		formatTime(time.Now().UTC()), user.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRowAffected(result)
}

// GetUser retrieves a staff account by id.
func (r *UserRepository) GetUser(ctx context.Context, id string) (persistence.User, error) {
	row := r.pool.db.QueryRowContext(ctx, selectUser+` WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByEmail retrieves a staff account by its normalized email address.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (persistence.User, error) {
	row := r.pool.db.QueryRowContext(ctx, selectUser+` WHERE email = ?`, normalizeEmail(email))
	return scanUser(row)
}

// ListUsers enumerates the staff accounts of one organization.
func (r *UserRepository) ListUsers(ctx context.Context, orgID string) ([]persistence.User, error) {
	rows, err := r.pool.db.QueryContext(ctx, selectUser+` WHERE org_id = ? ORDER BY display_name, id`, orgID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var users []persistence.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, mapError(rows.Err())
}

// DeleteUser removes a staff account. Bookings assigned to the user keep a
// NULL assignee via the schema's ON DELETE SET NULL.
func (r *UserRepository) DeleteUser(ctx context.Context, id string) error {
	result, err := r.pool.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRowAffected(result)
}

const selectUser = `SELECT id, org_id, email, display_name, role, password_hash, created_at, updated_at FROM users`

func scanUser(row rowScanner) (persistence.User, error) {
	var user persistence.User
	var createdAt, updatedAt string
	if err := row.Scan(&user.ID, &user.OrgID, &user.Email, &user.DisplayName, &user.Role,
		&user.PasswordHash, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.User{}, persistence.ErrNotFound
		}
		return persistence.User{}, mapError(err)
	}

	var err error
	if user.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.User{}, err
	}
	if user.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.User{}, err
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
