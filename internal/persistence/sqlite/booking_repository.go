package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/example/pawdesk/internal/persistence"
)

// BookingRepository implements persistence.BookingRepository.
type BookingRepository struct {
	pool *ConnectionPool
}

// NewBookingRepository creates the SQLite booking repository.
func NewBookingRepository(pool *ConnectionPool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

// CreateBooking inserts a new calendar entry.
func (r *BookingRepository) CreateBooking(ctx context.Context, booking persistence.Booking) error {
	if booking.ID == "" || booking.OrgID == "" {
		return persistence.ErrConstraintViolation
	}
	if booking.Duration < 0 {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	_, err := r.pool.db.ExecContext(ctx,
		`INSERT INTO bookings (id, org_id, title, start_time, duration_seconds, assigned_to_id, dog_id, booking_type_id, notes, repeat_rule, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		booking.ID, booking.OrgID, booking.Title, formatTime(booking.Start),
		int64(booking.Duration/time.Second), nullableString(booking.AssignedToID),
		nullableString(booking.DogID), nullableString(booking.BookingTypeID),
		booking.Notes, nullableString(booking.RepeatRule),
		formatTime(booking.CreatedAt), formatTime(booking.UpdatedAt),
	)
	return mapError(err)
}

// UpdateBooking updates an existing calendar entry.
func (r *BookingRepository) UpdateBooking(ctx context.Context, booking persistence.Booking) error {
	if booking.Duration < 0 {
		return persistence.ErrConstraintViolation
	}

	result, err := r.pool.db.ExecContext(ctx,
		`UPDATE bookings SET title = ?, start_time = ?, duration_seconds = ?, assigned_to_id = ?, dog_id = ?, booking_type_id = ?, notes = ?, repeat_rule = ?, updated_at = ?
		 WHERE id = ?`,
		booking.Title, formatTime(booking.Start), int64(booking.Duration/time.Second),
		nullableString(booking.AssignedToID), nullableString(booking.DogID),
		nullableString(booking.BookingTypeID), booking.Notes, nullableString(booking.RepeatRule),
		formatTime(time.Now().UTC()), booking.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRowAffected(result)
}

// GetBooking retrieves a calendar entry by id.
func (r *BookingRepository) GetBooking(ctx context.Context, id string) (persistence.Booking, error) {
	row := r.pool.db.QueryRowContext(ctx, selectBooking+` WHERE id = ?`, id)
	return scanBooking(row)
}

// ListBookings enumerates one organization's bookings matching the filter,
// ordered by start then id so simultaneous bookings keep a stable order.
func (r *BookingRepository) ListBookings(ctx context.Context, orgID string, filter persistence.BookingFilter) ([]persistence.Booking, error) {
	var sb strings.Builder
	sb.WriteString(selectBooking)
	sb.WriteString(` WHERE org_id = ?`)
	args := []any{orgID}

	if filter.AssignedToID != nil {
		sb.WriteString(` AND assigned_to_id = ?`)
		args = append(args, *filter.AssignedToID)
	}
	if filter.StartsAfter != nil {
		sb.WriteString(` AND start_time >= ?`)
		args = append(args, formatTime(*filter.StartsAfter))
	}
	if filter.StartsBefore != nil {
		sb.WriteString(` AND start_time < ?`)
		args = append(args, formatTime(*filter.StartsBefore))
	}
	if filter.Repeating != nil {
		if *filter.Repeating {
			sb.WriteString(` AND repeat_rule IS NOT NULL`)
		} else {
			sb.WriteString(` AND repeat_rule IS NULL`)
		}
	}
	sb.WriteString(` ORDER BY start_time, id`)

	rows, err := r.pool.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var bookings []persistence.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, mapError(rows.Err())
}

// DeleteBooking removes a calendar entry.
func (r *BookingRepository) DeleteBooking(ctx context.Context, id string) error {
	result, err := r.pool.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRowAffected(result)
}

const selectBooking = `SELECT id, org_id, title, start_time, duration_seconds, assigned_to_id, dog_id, booking_type_id, notes, repeat_rule, created_at, updated_at FROM bookings`

func scanBooking(row rowScanner) (persistence.Booking, error) {
	var booking persistence.Booking
	var start, createdAt, updatedAt string
	var durationSeconds int64
	var assignedTo, dogID, typeID, repeatRule sql.NullString
	if err := row.Scan(&booking.ID, &booking.OrgID, &booking.Title, &start, &durationSeconds,
		&assignedTo, &dogID, &typeID, &booking.Notes, &repeatRule, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Booking{}, persistence.ErrNotFound
		}
		return persistence.Booking{}, mapError(err)
	}

	booking.Duration = time.Duration(durationSeconds) * time.Second
	booking.AssignedToID = stringPtr(assignedTo)
	booking.DogID = stringPtr(dogID)
	booking.BookingTypeID = stringPtr(typeID)
	booking.RepeatRule = stringPtr(repeatRule)

	var err error
	if booking.Start, err = parseTime(start); err != nil {
		return persistence.Booking{}, err
	}
	if booking.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Booking{}, err
	}
	if booking.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Booking{}, err
	}
	return booking, nil
}
