package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/pawdesk/internal/persistence"
)

func TestUserService(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	admin := Principal{UserID: "admin-1", OrgID: "org-1", Role: RoleAdmin}
	staff := Principal{UserID: "staff-1", OrgID: "org-1", Role: RoleStaff}

	seed := func() *userRepositoryStub {
		return newUserRepositoryStub(
			persistence.User{ID: "admin-1", OrgID: "org-1", Email: "admin@example.com", DisplayName: "Admin", Role: RoleAdmin},
			persistence.User{ID: "staff-1", OrgID: "org-1", Email: "staff@example.com", DisplayName: "Staff", Role: RoleStaff},
			persistence.User{ID: "outsider", OrgID: "org-2", Email: "other@example.com", DisplayName: "Other", Role: RoleAdmin},
		)
	}

	newService := func(users *userRepositoryStub, ids ...string) *UserService {
		return NewUserService(users, sequenceGenerator(ids...), func() time.Time { return now }, nil)
	}

	t.Run("staff cannot create accounts", func(t *testing.T) {
		t.Parallel()

		svc := newService(seed())
		_, err := svc.CreateUser(context.Background(), staff, UserInput{Email: "new@example.com", DisplayName: "New", Password: "long-enough"})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("created users default to the staff role", func(t *testing.T) {
		t.Parallel()

		svc := newService(seed(), "user-9")
		user, err := svc.CreateUser(context.Background(), admin, UserInput{Email: "new@example.com", DisplayName: "New", Password: "long-enough"})
		if err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		if user.Role != RoleStaff {
			t.Fatalf("expected staff role, got %s", user.Role)
		}
	})

	t.Run("staff cannot promote themselves", func(t *testing.T) {
		t.Parallel()

		svc := newService(seed())
		_, err := svc.UpdateUser(context.Background(), staff, "staff-1", UserInput{
			Email:       "staff@example.com",
			DisplayName: "Staff",
			Role:        RoleAdmin,
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("accounts in other organizations are invisible", func(t *testing.T) {
		t.Parallel()

		svc := newService(seed())
		_, err := svc.GetUser(context.Background(), admin, "outsider")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("admins cannot delete themselves", func(t *testing.T) {
		t.Parallel()

		svc := newService(seed())
		err := svc.DeleteUser(context.Background(), admin, "admin-1")
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})
}
