package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/example/pawdesk/internal/persistence"
)

// VetRepository implements persistence.VetRepository, including clinic links.
type VetRepository struct {
	pool *ConnectionPool
}

// NewVetRepository creates the SQLite vet repository.
func NewVetRepository(pool *ConnectionPool) *VetRepository {
	return &VetRepository{pool: pool}
}

// CreateVet inserts a new vet together with its clinic links.
func (r *VetRepository) CreateVet(ctx context.Context, vet persistence.Vet) error {
	if vet.ID == "" || vet.OrgID == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	vet.CreatedAt = now
	vet.UpdatedAt = now

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO vets (id, org_id, name, email, phone, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			vet.ID, vet.OrgID, vet.Name, vet.Email, vet.Phone,
			formatTime(vet.CreatedAt), formatTime(vet.UpdatedAt),
		)
		if err != nil {
			return mapError(err)
		}
		return replaceLinks(ctx, tx, "vet_clinics", "vet_id", "clinic_id", vet.ID, vet.ClinicIDs)
	})
}

// UpdateVet updates a vet's attributes and replaces its clinic links.
func (r *VetRepository) UpdateVet(ctx context.Context, vet persistence.Vet) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE vets SET name = ?, email = ?, phone = ?, updated_at = ? WHERE id = ?`,
			vet.Name, vet.Email, vet.Phone, formatTime(time.Now().UTC()), vet.ID,
		)
		if err != nil {
			return mapError(err)
		}
		if err := requireRowAffected(result); err != nil {
			return err
		}
		return replaceLinks(ctx, tx, "vet_clinics", "vet_id", "clinic_id", vet.ID, vet.ClinicIDs)
	})
}

// GetVet retrieves a vet with its clinic ids.
func (r *VetRepository) GetVet(ctx context.Context, id string) (persistence.Vet, error) {
	row := r.pool.db.QueryRowContext(ctx, selectVet+` WHERE id = ?`, id)
	vet, err := scanVet(row)
	if err != nil {
		return persistence.Vet{}, err
	}
	if vet.ClinicIDs, err = listLinks(ctx, r.pool.db, "vet_clinics", "vet_id", "clinic_id", vet.ID); err != nil {
		return persistence.Vet{}, err
	}
	return vet, nil
}

// ListVets enumerates one organization's vets with their clinic links.
func (r *VetRepository) ListVets(ctx context.Context, orgID string) ([]persistence.Vet, error) {
	rows, err := r.pool.db.QueryContext(ctx, selectVet+` WHERE org_id = ? ORDER BY name, id`, orgID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var vets []persistence.Vet
	for rows.Next() {
		vet, err := scanVet(rows)
		if err != nil {
			return nil, err
		}
		vets = append(vets, vet)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	for i := range vets {
		if vets[i].ClinicIDs, err = listLinks(ctx, r.pool.db, "vet_clinics", "vet_id", "clinic_id", vets[i].ID); err != nil {
			return nil, err
		}
	}
	return vets, nil
}

// DeleteVet removes a vet; clinic and dog links cascade away.
func (r *VetRepository) DeleteVet(ctx context.Context, id string) error {
	result, err := r.pool.db.ExecContext(ctx, `DELETE FROM vets WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRowAffected(result)
}

// SetVetClinics replaces a vet's clinic links.
func (r *VetRepository) SetVetClinics(ctx context.Context, vetID string, clinicIDs []string) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		return replaceLinks(ctx, tx, "vet_clinics", "vet_id", "clinic_id", vetID, clinicIDs)
	})
}

const selectVet = `SELECT id, org_id, name, email, phone, created_at, updated_at FROM vets`

func scanVet(row rowScanner) (persistence.Vet, error) {
	var vet persistence.Vet
	var createdAt, updatedAt string
	if err := row.Scan(&vet.ID, &vet.OrgID, &vet.Name, &vet.Email, &vet.Phone,
		&createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Vet{}, persistence.ErrNotFound
		}
		return persistence.Vet{}, mapError(err)
	}

	var err error
	if vet.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Vet{}, err
	}
	if vet.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Vet{}, err
	}
	return vet, nil
}
