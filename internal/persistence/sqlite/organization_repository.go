package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/example/pawdesk/internal/persistence"
)

// OrganizationRepository implements persistence.OrganizationRepository.
type OrganizationRepository struct {
	pool *ConnectionPool
}

// NewOrganizationRepository creates the SQLite organization repository.
func NewOrganizationRepository(pool *ConnectionPool) *OrganizationRepository {
	return &OrganizationRepository{pool: pool}
}

// CreateOrganization inserts a new tenant.
func (r *OrganizationRepository) CreateOrganization(ctx context.Context, org persistence.Organization) error {
	if org.ID == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	org.CreatedAt = now
	org.UpdatedAt = now

	_, err := r.pool.db.ExecContext(ctx,
		`INSERT INTO organizations (id, name, timezone, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		org.ID, org.Name, org.Timezone, formatTime(org.CreatedAt), formatTime(org.UpdatedAt),
	)
	return mapError(err)
}

// UpdateOrganization updates an existing tenant.
func (r *OrganizationRepository) UpdateOrganization(ctx context.Context, org persistence.Organization) error {
	result, err := r.pool.db.ExecContext(ctx,
		`UPDATE organizations SET name = ?, timezone = ?, updated_at = ? WHERE id = ?`,
		org.Name, org.Timezone, formatTime(time.Now().UTC()), org.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRowAffected(result)
}

// GetOrganization retrieves a tenant by id.
func (r *OrganizationRepository) GetOrganization(ctx context.Context, id string) (persistence.Organization, error) {
	row := r.pool.db.QueryRowContext(ctx,
		`SELECT id, name, timezone, created_at, updated_at FROM organizations WHERE id = ?`, id)
	return scanOrganization(row)
}

// ListOrganizations enumerates all tenants ordered by name.
func (r *OrganizationRepository) ListOrganizations(ctx context.Context) ([]persistence.Organization, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		`SELECT id, name, timezone, created_at, updated_at FROM organizations ORDER BY name, id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var orgs []persistence.Organization
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}
	return orgs, mapError(rows.Err())
}

// DeleteOrganization removes a tenant and, via cascades, everything in it.
func (r *OrganizationRepository) DeleteOrganization(ctx context.Context, id string) error {
	result, err := r.pool.db.ExecContext(ctx, `DELETE FROM organizations WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRowAffected(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrganization(row rowScanner) (persistence.Organization, error) {
	var org persistence.Organization
	var createdAt, updatedAt string
	if err := row.Scan(&org.ID, &org.Name, &org.Timezone, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Organization{}, persistence.ErrNotFound
		}
		return persistence.Organization{}, mapError(err)
	}

	var err error
	if org.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Organization{}, err
	}
	if org.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Organization{}, err
	}
	return org, nil
}

func requireRowAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}
