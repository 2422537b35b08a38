package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/example/pawdesk/internal/persistence"
)

// ClientRepository implements persistence.ClientRepository.
type ClientRepository struct {
	pool *ConnectionPool
}

// NewClientRepository creates the SQLite client repository.
func NewClientRepository(pool *ConnectionPool) *ClientRepository {
	return &ClientRepository{pool: pool}
}

// CreateClient inserts a new pet owner.
func (r *ClientRepository) CreateClient(ctx context.Context, client persistence.Client) error {
	if client.ID == "" || client.OrgID == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	client.CreatedAt = now
	client.UpdatedAt = now

	_, err := r.pool.db.ExecContext(ctx,
		`INSERT INTO clients (id, org_id, name, email, phone, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		client.ID, client.OrgID, client.Name, client.Email, client.Phone, client.Notes,
		formatTime(client.CreatedAt), formatTime(client.UpdatedAt),
	)
	return mapError(err)
}

// UpdateClient updates an existing pet owner.
func (r *ClientRepository) UpdateClient(ctx context.Context, client persistence.Client) error {
	result, err := r.pool.db.ExecContext(ctx,
		`UPDATE clients SET name = ?, email = ?, phone = ?, notes = ?, updated_at = ? WHERE id = ?`,
		client.Name, client.Email, client.Phone, client.Notes, formatTime(time.Now().UTC()), client.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRowAffected(result)
}

// GetClient retrieves a pet owner by id.
func (r *ClientRepository) GetClient(ctx context.Context, id string) (persistence.Client, error) {
	row := r.pool.db.QueryRowContext(ctx, selectClient+` WHERE id = ?`, id)
	return scanClient(row)
}

// ListClients enumerates one organization's pet owners ordered by name.
func (r *ClientRepository) ListClients(ctx context.Context, orgID string) ([]persistence.Client, error) {
	rows, err := r.pool.db.QueryContext(ctx, selectClient+` WHERE org_id = ? ORDER BY name, id`, orgID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var clients []persistence.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	return clients, mapError(rows.Err())
}

// DeleteClient removes a pet owner; dog ownership links cascade away.
func (r *ClientRepository) DeleteClient(ctx context.Context, id string) error {
	result, err := r.pool.db.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRowAffected(result)
}

const selectClient = `SELECT id, org_id, name, email, phone, notes, created_at, updated_at FROM clients`

func scanClient(row rowScanner) (persistence.Client, error) {
	var client persistence.Client
	var createdAt, updatedAt string
	if err := row.Scan(&client.ID, &client.OrgID, &client.Name, &client.Email, &client.Phone,
		&client.Notes, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Client{}, persistence.ErrNotFound
		}
		return persistence.Client{}, mapError(err)
	}

	var err error
	if client.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Client{}, err
	}
	if client.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Client{}, err
	}
	return client, nil
}
