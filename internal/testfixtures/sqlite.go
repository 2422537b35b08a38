package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/pawdesk/internal/persistence"
	"github.com/example/pawdesk/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite
// database for integration-style persistence tests.
type SQLiteHarness struct {
	Organizations persistence.OrganizationRepository
	Users         persistence.UserRepository
	Sessions      persistence.SessionRepository
	Clients       persistence.ClientRepository
	Dogs          persistence.DogRepository
	Vets          persistence.VetRepository
	Clinics       persistence.ClinicRepository
	BookingTypes  persistence.BookingTypeRepository
	Bookings      persistence.BookingRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness opens a migrated temporary database and exposes every
// repository over it. Cleanup is registered with the provided testing.TB.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "pawdesk.db")

	pool, err := sqlite.Open(path)
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	if err := pool.Migrate(context.Background()); err != nil {
		_ = pool.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	harness := &SQLiteHarness{
		Organizations: sqlite.NewOrganizationRepository(pool),
		Users:         sqlite.NewUserRepository(pool),
		Sessions:      sqlite.NewSessionRepository(pool),
		Clients:       sqlite.NewClientRepository(pool),
		Dogs:          sqlite.NewDogRepository(pool),
		Vets:          sqlite.NewVetRepository(pool),
		Clinics:       sqlite.NewClinicRepository(pool),
		BookingTypes:  sqlite.NewBookingTypeRepository(pool),
		Bookings:      sqlite.NewBookingRepository(pool),
		cleanup: func() {
			_ = pool.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}
