package sqlite

import (
	"context"
	"fmt"
)

// schema is the declarative database layout. Every statement is idempotent so
// Migrate can run on every startup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS organizations (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		timezone   TEXT NOT NULL DEFAULT 'UTC',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		org_id        TEXT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		email         TEXT NOT NULL UNIQUE,
		display_name  TEXT NOT NULL,
		role          TEXT NOT NULL CHECK (role IN ('admin', 'staff')),
		password_hash TEXT NOT NULL,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		token      TEXT NOT NULL UNIQUE,
		expires_at TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		revoked_at TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS clients (
		id         TEXT PRIMARY KEY,
		org_id     TEXT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL DEFAULT '',
		phone      TEXT NOT NULL DEFAULT '',
		notes      TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS dogs (
		id         TEXT PRIMARY KEY,
		org_id     TEXT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		breed      TEXT NOT NULL DEFAULT '',
		birth_date TEXT,
		notes      TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS vets (
		id         TEXT PRIMARY KEY,
		org_id     TEXT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL DEFAULT '',
		phone      TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS clinics (
		id         TEXT PRIMARY KEY,
		org_id     TEXT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		address    TEXT NOT NULL DEFAULT '',
		phone      TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS dog_owners (
		dog_id    TEXT NOT NULL REFERENCES dogs(id) ON DELETE CASCADE,
		client_id TEXT NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
		PRIMARY KEY (dog_id, client_id)
	)`,
	`CREATE TABLE IF NOT EXISTS dog_vets (
		dog_id TEXT NOT NULL REFERENCES dogs(id) ON DELETE CASCADE,
		vet_id TEXT NOT NULL REFERENCES vets(id) ON DELETE CASCADE,
		PRIMARY KEY (dog_id, vet_id)
	)`,
	`CREATE TABLE IF NOT EXISTS vet_clinics (
		vet_id    TEXT NOT NULL REFERENCES vets(id) ON DELETE CASCADE,
		clinic_id TEXT NOT NULL REFERENCES clinics(id) ON DELETE CASCADE,
		PRIMARY KEY (vet_id, clinic_id)
	)`,
	`CREATE TABLE IF NOT EXISTS booking_types (
		id                       TEXT PRIMARY KEY,
		org_id                   TEXT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		name                     TEXT NOT NULL,
		color                    TEXT NOT NULL DEFAULT '',
		default_duration_seconds INTEGER NOT NULL DEFAULT 0 CHECK (default_duration_seconds >= 0),
		created_at               TEXT NOT NULL,
		updated_at               TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id               TEXT PRIMARY KEY,
		org_id           TEXT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		title            TEXT NOT NULL,
		start_time       TEXT NOT NULL,
		duration_seconds INTEGER NOT NULL CHECK (duration_seconds >= 0),
		assigned_to_id   TEXT REFERENCES users(id) ON DELETE SET NULL,
		dog_id           TEXT REFERENCES dogs(id) ON DELETE SET NULL,
		booking_type_id  TEXT REFERENCES booking_types(id) ON DELETE SET NULL,
		notes            TEXT NOT NULL DEFAULT '',
		repeat_rule      TEXT,
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_org_start ON bookings(org_id, start_time)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_assignee ON bookings(assigned_to_id, start_time)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_expires ON sessions(expires_at)`,
}

// Migrate applies the schema. Safe to call on every startup.
func (cp *ConnectionPool) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := cp.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite: apply schema: %w", err)
		}
	}
	return nil
}
