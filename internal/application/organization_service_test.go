package application

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestInviteIssuer(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	newIssuer := func(secret string) *InviteIssuer {
		issuer := NewInviteIssuer([]byte(secret), time.Hour)
		issuer.now = func() time.Time { return now }
		return issuer
	}

	t.Run("round-trips org and role", func(t *testing.T) {
		t.Parallel()

		issuer := newIssuer("invite-secret")
		invite, err := issuer.Issue("org-1", RoleStaff)
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}

		orgID, role, err := issuer.Verify(invite.Token)
		if err != nil {
			t.Fatalf("Verify failed: %v", err)
		}
		if orgID != "org-1" || role != RoleStaff {
			t.Fatalf("unexpected claims org=%s role=%s", orgID, role)
		}
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		t.Parallel()

		invite, err := newIssuer("first-secret").Issue("org-1", RoleStaff)
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}

		_, _, err = newIssuer("second-secret").Verify(invite.Token)
		if !errors.Is(err, ErrInviteInvalid) {
			t.Fatalf("expected ErrInviteInvalid, got %v", err)
		}
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		t.Parallel()

		issuer := newIssuer("invite-secret")
		invite, err := issuer.Issue("org-1", RoleAdmin)
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}

		issuer.now = func() time.Time { return now.Add(2 * time.Hour) }
		_, _, err = issuer.Verify(invite.Token)
		if !errors.Is(err, ErrInviteInvalid) {
			t.Fatalf("expected ErrInviteInvalid, got %v", err)
		}
	})
}

func TestOrganizationService_Invites(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	newService := func(orgs *organizationRepositoryStub, users *userRepositoryStub, ids ...string) *OrganizationService {
		issuer := NewInviteIssuer([]byte("invite-secret"), time.Hour)
		issuer.now = func() time.Time { return now }
		return NewOrganizationService(orgs, users, issuer, sequenceGenerator(ids...), func() time.Time { return now }, nil)
	}

	t.Run("only admins issue invites", func(t *testing.T) {
		t.Parallel()

		svc := newService(newOrganizationRepositoryStub(), newUserRepositoryStub())

		_, err := svc.IssueInvite(context.Background(), Principal{UserID: "u", OrgID: "org-1", Role: RoleStaff}, RoleStaff)
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("accepting an invite creates the invited account", func(t *testing.T) {
		t.Parallel()

		orgs := newOrganizationRepositoryStub()
		users := newUserRepositoryStub()
		svc := newService(orgs, users, "org-1", "admin-1", "user-2")

		_, _, err := svc.CreateOrganization(context.Background(),
			OrganizationInput{Name: "Happy Tails", Timezone: "UTC"},
			UserInput{Email: "owner@example.com", DisplayName: "Owner", Password: "long-enough"},
		)
		if err != nil {
			t.Fatalf("CreateOrganization failed: %v", err)
		}

		invite, err := svc.IssueInvite(context.Background(), Principal{UserID: "admin-1", OrgID: "org-1", Role: RoleAdmin}, RoleStaff)
		if err != nil {
			t.Fatalf("IssueInvite failed: %v", err)
		}

		user, err := svc.AcceptInvite(context.Background(), AcceptInviteParams{
			Token:       invite.Token,
			Email:       "groomer@example.com",
			DisplayName: "Groomer",
			Password:    "long-enough",
		})
		if err != nil {
			t.Fatalf("AcceptInvite failed: %v", err)
		}
		if user.OrgID != "org-1" || user.Role != RoleStaff {
			t.Fatalf("unexpected invited user %#v", user)
		}
	})

	t.Run("rejects a tampered invite token", func(t *testing.T) {
		t.Parallel()

		svc := newService(newOrganizationRepositoryStub(), newUserRepositoryStub())

		_, err := svc.AcceptInvite(context.Background(), AcceptInviteParams{
			Token:       "not-a-jwt",
			Email:       "groomer@example.com",
			DisplayName: "Groomer",
			Password:    "long-enough",
		})
		if !errors.Is(err, ErrInviteInvalid) {
			t.Fatalf("expected ErrInviteInvalid, got %v", err)
		}
	})
}

func TestOrganizationService_CreateOrganization(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	t.Run("bootstraps the first admin", func(t *testing.T) {
		t.Parallel()

		orgs := newOrganizationRepositoryStub()
		users := newUserRepositoryStub()
		svc := NewOrganizationService(orgs, users, nil, sequenceGenerator("org-1", "admin-1"), func() time.Time { return now }, nil)

		org, admin, err := svc.CreateOrganization(context.Background(),
			OrganizationInput{Name: "Happy Tails"},
			UserInput{Email: "owner@example.com", DisplayName: "Owner", Password: "long-enough"},
		)
		if err != nil {
			t.Fatalf("CreateOrganization failed: %v", err)
		}
		if org.Timezone != "UTC" {
			t.Fatalf("expected UTC default timezone, got %s", org.Timezone)
		}
		if admin.Role != RoleAdmin || admin.OrgID != org.ID {
			t.Fatalf("unexpected admin %#v", admin)
		}
	})

	t.Run("rejects an unknown timezone", func(t *testing.T) {
		t.Parallel()

		svc := NewOrganizationService(newOrganizationRepositoryStub(), newUserRepositoryStub(), nil, nil, func() time.Time { return now }, nil)

		_, _, err := svc.CreateOrganization(context.Background(),
			OrganizationInput{Name: "Happy Tails", Timezone: "Mars/Olympus"},
			UserInput{Email: "owner@example.com", DisplayName: "Owner", Password: "long-enough"},
		)

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["timezone"]; !ok {
			t.Fatalf("expected timezone field error, got %#v", vErr.FieldErrors)
		}
	})
}
