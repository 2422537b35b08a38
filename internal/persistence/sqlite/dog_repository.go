package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/example/pawdesk/internal/persistence"
)

// DogRepository implements persistence.DogRepository, including the owner and
// vet link tables.
type DogRepository struct {
	pool *ConnectionPool
}

// NewDogRepository creates the SQLite dog repository.
func NewDogRepository(pool *ConnectionPool) *DogRepository {
	return &DogRepository{pool: pool}
}

// CreateDog inserts a new dog together with its owner and vet links.
func (r *DogRepository) CreateDog(ctx context.Context, dog persistence.Dog) error {
	if dog.ID == "" || dog.OrgID == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	dog.CreatedAt = now
	dog.UpdatedAt = now

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO dogs (id, org_id, name, breed, birth_date, notes, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			dog.ID, dog.OrgID, dog.Name, dog.Breed, nullableTime(dog.BirthDate), dog.Notes,
			formatTime(dog.CreatedAt), formatTime(dog.UpdatedAt),
		)
		if err != nil {
			return mapError(err)
		}
		if err := replaceLinks(ctx, tx, "dog_owners", "dog_id", "client_id", dog.ID, dog.OwnerIDs); err != nil {
			return err
		}
		return replaceLinks(ctx, tx, "dog_vets", "dog_id", "vet_id", dog.ID, dog.VetIDs)
	})
}

// UpdateDog updates a dog's attributes and replaces its links.
func (r *DogRepository) UpdateDog(ctx context.Context, dog persistence.Dog) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE dogs SET name = ?, breed = ?, birth_date = ?, notes = ?, updated_at = ? WHERE id = ?`,
			dog.Name, dog.Breed, nullableTime(dog.BirthDate), dog.Notes, formatTime(time.Now().UTC()), dog.ID,
		)
		if err != nil {
			return mapError(err)
		}
		if err := requireRowAffected(result); err != nil {
			return err
		}
		if err := replaceLinks(ctx, tx, "dog_owners", "dog_id", "client_id", dog.ID, dog.OwnerIDs); err != nil {
			return err
		}
		return replaceLinks(ctx, tx, "dog_vets", "dog_id", "vet_id", dog.ID, dog.VetIDs)
	})
}

// GetDog retrieves a dog with its owner and vet ids.
func (r *DogRepository) GetDog(ctx context.Context, id string) (persistence.Dog, error) {
	row := r.pool.db.QueryRowContext(ctx, selectDog+` WHERE id = ?`, id)
	dog, err := scanDog(row)
	if err != nil {
		return persistence.Dog{}, err
	}

	if dog.OwnerIDs, err = listLinks(ctx, r.pool.db, "dog_owners", "dog_id", "client_id", dog.ID); err != nil {
		return persistence.Dog{}, err
	}
	if dog.VetIDs, err = listLinks(ctx, r.pool.db, "dog_vets", "dog_id", "vet_id", dog.ID); err != nil {
		return persistence.Dog{}, err
	}
	return dog, nil
}

// ListDogs enumerates one organization's dogs with their links.
func (r *DogRepository) ListDogs(ctx context.Context, orgID string) ([]persistence.Dog, error) {
	rows, err := r.pool.db.QueryContext(ctx, selectDog+` WHERE org_id = ? ORDER BY name, id`, orgID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var dogs []persistence.Dog
	for rows.Next() {
		dog, err := scanDog(rows)
		if err != nil {
			return nil, err
		}
		dogs = append(dogs, dog)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	for i := range dogs {
		if dogs[i].OwnerIDs, err = listLinks(ctx, r.pool.db, "dog_owners", "dog_id", "client_id", dogs[i].ID); err != nil {
			return nil, err
		}
		if dogs[i].VetIDs, err = listLinks(ctx, r.pool.db, "dog_vets", "dog_id", "vet_id", dogs[i].ID); err != nil {
			return nil, err
		}
	}
	return dogs, nil
}

// DeleteDog removes a dog; links cascade away.
func (r *DogRepository) DeleteDog(ctx context.Context, id string) error {
	result, err := r.pool.db.ExecContext(ctx, `DELETE FROM dogs WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRowAffected(result)
}

// SetDogOwners replaces the dog's owner links.
func (r *DogRepository) SetDogOwners(ctx context.Context, dogID string, clientIDs []string) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		return replaceLinks(ctx, tx, "dog_owners", "dog_id", "client_id", dogID, clientIDs)
	})
}

// SetDogVets replaces the dog's vet links.
func (r *DogRepository) SetDogVets(ctx context.Context, dogID string, vetIDs []string) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		return replaceLinks(ctx, tx, "dog_vets", "dog_id", "vet_id", dogID, vetIDs)
	})
}

const selectDog = `SELECT id, org_id, name, breed, birth_date, notes, created_at, updated_at FROM dogs`

func scanDog(row rowScanner) (persistence.Dog, error) {
	var dog persistence.Dog
	var birthDate sql.NullString
	var createdAt, updatedAt string
	if err := row.Scan(&dog.ID, &dog.OrgID, &dog.Name, &dog.Breed, &birthDate, &dog.Notes,
		&createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Dog{}, persistence.ErrNotFound
		}
		return persistence.Dog{}, mapError(err)
	}

	var err error
	if dog.BirthDate, err = timePtr(birthDate); err != nil {
		return persistence.Dog{}, err
	}
	if dog.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Dog{}, err
	}
	if dog.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Dog{}, err
	}
	return dog, nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func listLinks(ctx context.Context, q queryer, table, fromColumn, toColumn, fromID string) ([]string, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+toColumn+` FROM `+table+` WHERE `+fromColumn+` = ? ORDER BY `+toColumn, fromID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, mapError(err)
		}
		ids = append(ids, id)
	}
	return ids, mapError(rows.Err())
}

func replaceLinks(ctx context.Context, tx *sql.Tx, table, fromColumn, toColumn, fromID string, toIDs []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE `+fromColumn+` = ?`, fromID); err != nil {
		return mapError(err)
	}
	for _, toID := range toIDs {
		if toID == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO `+table+` (`+fromColumn+`, `+toColumn+`) VALUES (?, ?)`, fromID, toID); err != nil {
			return mapError(err)
		}
	}
	return nil
}
