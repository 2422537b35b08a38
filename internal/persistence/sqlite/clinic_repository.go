package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/example/pawdesk/internal/persistence"
)

// ClinicRepository implements persistence.ClinicRepository.
type ClinicRepository struct {
	pool *ConnectionPool
}

// NewClinicRepository creates the SQLite clinic repository.
func NewClinicRepository(pool *ConnectionPool) *ClinicRepository {
	return &ClinicRepository{pool: pool}
}

// CreateClinic inserts a new clinic.
func (r *ClinicRepository) CreateClinic(ctx context.Context, clinic persistence.Clinic) error {
	if clinic.ID == "" || clinic.OrgID == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	clinic.CreatedAt = now
	clinic.UpdatedAt = now

	_, err := r.pool.db.ExecContext(ctx,
		`INSERT INTO clinics (id, org_id, name, address, phone, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		clinic.ID, clinic.OrgID, clinic.Name, clinic.Address, clinic.Phone,
		formatTime(clinic.CreatedAt), formatTime(clinic.UpdatedAt),
	)
	return mapError(err)
}

// UpdateClinic updates an existing clinic.
func (r *ClinicRepository) UpdateClinic(ctx context.Context, clinic persistence.Clinic) error {
	result, err := r.pool.db.ExecContext(ctx,
		`UPDATE clinics SET name = ?, address = ?, phone = ?, updated_at = ? WHERE id = ?`,
		clinic.Name, clinic.Address, clinic.Phone, formatTime(time.Now().UTC()), clinic.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRowAffected(result)
}

// GetClinic retrieves a clinic by id.
func (r *ClinicRepository) GetClinic(ctx context.Context, id string) (persistence.Clinic, error) {
	row := r.pool.db.QueryRowContext(ctx, selectClinic+` WHERE id = ?`, id)
	return scanClinic(row)
}

// ListClinics enumerates one organization's clinics ordered by name.
func (r *ClinicRepository) ListClinics(ctx context.Context, orgID string) ([]persistence.Clinic, error) {
	rows, err := r.pool.db.QueryContext(ctx, selectClinic+` WHERE org_id = ? ORDER BY name, id`, orgID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var clinics []persistence.Clinic
	for rows.Next() {
		clinic, err := scanClinic(rows)
		if err != nil {
			return nil, err
		}
		clinics = append(clinics, clinic)
	}
	return clinics, mapError(rows.Err())
}

// DeleteClinic removes a clinic; vet links cascade away.
func (r *ClinicRepository) DeleteClinic(ctx context.Context, id string) error {
	result, err := r.pool.db.ExecContext(ctx, `DELETE FROM clinics WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRowAffected(result)
}

const selectClinic = `SELECT id, org_id, name, address, phone, created_at, updated_at FROM clinics`

func scanClinic(row rowScanner) (persistence.Clinic, error) {
	var clinic persistence.Clinic
	var createdAt, updatedAt string
	if err := row.Scan(&clinic.ID, &clinic.OrgID, &clinic.Name, &clinic.Address, &clinic.Phone,
		&createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Clinic{}, persistence.ErrNotFound
		}
		return persistence.Clinic{}, mapError(err)
	}

	var err error
	if clinic.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Clinic{}, err
	}
	if clinic.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Clinic{}, err
	}
	return clinic, nil
}
