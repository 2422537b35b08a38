package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/example/pawdesk/internal/persistence"
)

// BookingTypeRepository implements persistence.BookingTypeRepository.
type BookingTypeRepository struct {
	pool *ConnectionPool
}

// NewBookingTypeRepository creates the SQLite booking type repository.
func NewBookingTypeRepository(pool *ConnectionPool) *BookingTypeRepository {
	return &BookingTypeRepository{pool: pool}
}

// CreateBookingType inserts a new booking category.
func (r *BookingTypeRepository) CreateBookingType(ctx context.Context, bt persistence.BookingType) error {
	if bt.ID == "" || bt.OrgID == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	bt.CreatedAt = now
	bt.UpdatedAt = now

	_, err := r.pool.db.ExecContext(ctx,
		`INSERT INTO booking_types (id, org_id, name, color, default_duration_seconds, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		bt.ID, bt.OrgID, bt.Name, bt.Color, int64(bt.DefaultDuration/time.Second),
		formatTime(bt.CreatedAt), formatTime(bt.UpdatedAt),
	)
	return mapError(err)
}

// UpdateBookingType updates an existing booking category.
func (r *BookingTypeRepository) UpdateBookingType(ctx context.Context, bt persistence.BookingType) error {
	result, err := r.pool.db.ExecContext(ctx,
		`UPDATE booking_types SET name = ?, color = ?, default_duration_seconds = ?, updated_at = ? WHERE id = ?`,
		bt.Name, bt.Color, int64(bt.DefaultDuration/time.Second), formatTime(time.Now().UTC()), bt.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRowAffected(result)
}

// GetBookingType retrieves a booking category by id.
func (r *BookingTypeRepository) GetBookingType(ctx context.Context, id string) (persistence.BookingType, error) {
	row := r.pool.db.QueryRowContext(ctx, selectBookingType+` WHERE id = ?`, id)
	return scanBookingType(row)
}

// ListBookingTypes enumerates one organization's booking categories.
func (r *BookingTypeRepository) ListBookingTypes(ctx context.Context, orgID string) ([]persistence.BookingType, error) {
	rows, err := r.pool.db.QueryContext(ctx, selectBookingType+` WHERE org_id = ? ORDER BY name, id`, orgID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var types []persistence.BookingType
	for rows.Next() {
		bt, err := scanBookingType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, bt)
	}
	return types, mapError(rows.Err())
}

// DeleteBookingType removes a category; bookings keep a NULL type reference.
func (r *BookingTypeRepository) DeleteBookingType(ctx context.Context, id string) error {
	result, err := r.pool.db.ExecContext(ctx, `DELETE FROM booking_types WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRowAffected(result)
}

const selectBookingType = `SELECT id, org_id, name, color, default_duration_seconds, created_at, updated_at FROM booking_types`

func scanBookingType(row rowScanner) (persistence.BookingType, error) {
	var bt persistence.BookingType
	var durationSeconds int64
	var createdAt, updatedAt string
	if err := row.Scan(&bt.ID, &bt.OrgID, &bt.Name, &bt.Color, &durationSeconds,
		&createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.BookingType{}, persistence.ErrNotFound
		}
		return persistence.BookingType{}, mapError(err)
	}

	bt.DefaultDuration = time.Duration(durationSeconds) * time.Second

	var err error
	if bt.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.BookingType{}, err
	}
	if bt.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.BookingType{}, err
	}
	return bt, nil
}
