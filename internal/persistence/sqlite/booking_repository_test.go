package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/pawdesk/internal/persistence"
	"github.com/example/pawdesk/internal/testfixtures"
)

func seedOrgAndUser(t *testing.T, h *testfixtures.SQLiteHarness) (string, string) {
	t.Helper()
	ctx := context.Background()

	org := testfixtures.NewOrganizationFixture()
	if err := h.Organizations.CreateOrganization(ctx, org.Persistence()); err != nil {
		t.Fatalf("CreateOrganization failed: %v", err)
	}
	user := testfixtures.NewUserFixture(testfixtures.WithUserOrgID(org.ID))
	if err := h.Users.CreateUser(ctx, user.Persistence()); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return org.ID, user.ID
}

func TestBookingRepository_CreateAndGet(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()
	orgID, userID := seedOrgAndUser(t, h)

	fixture := testfixtures.NewBookingFixture(testfixtures.WithBookingAssignee(userID))
	booking := fixture.Persistence()
	booking.OrgID = orgID
	if err := h.Bookings.CreateBooking(ctx, booking); err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	stored, err := h.Bookings.GetBooking(ctx, booking.ID)
	if err != nil {
		t.Fatalf("GetBooking failed: %v", err)
	}
	if stored.Title != booking.Title {
		t.Errorf("expected title %q, got %q", booking.Title, stored.Title)
	}
	if !stored.Start.Equal(booking.Start) {
		t.Errorf("expected start %v, got %v", booking.Start, stored.Start)
	}
	if stored.Duration != booking.Duration {
		t.Errorf("expected duration %v, got %v", booking.Duration, stored.Duration)
	}
	if stored.AssignedToID == nil || *stored.AssignedToID != userID {
		t.Errorf("expected assignee %q, got %v", userID, stored.AssignedToID)
	}
}

func TestBookingRepository_GetMissing(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t)

	_, err := h.Bookings.GetBooking(context.Background(), "no-such-booking")
	if !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBookingRepository_ListFilters(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()
	orgID, userID := seedOrgAndUser(t, h)

	base := testfixtures.ReferenceTime()
	rule := "FREQ=WEEKLY"
	bookings := []persistence.Booking{
		{ID: "morning", OrgID: orgID, Title: "Morning", Start: base.Add(9 * time.Hour), Duration: time.Hour, AssignedToID: &userID},
		{ID: "evening", OrgID: orgID, Title: "Evening", Start: base.Add(18 * time.Hour), Duration: time.Hour},
		{ID: "standing", OrgID: orgID, Title: "Standing", Start: base.Add(10 * time.Hour), Duration: time.Hour, RepeatRule: &rule},
	}
	for _, booking := range bookings {
		if err := h.Bookings.CreateBooking(ctx, booking); err != nil {
			t.Fatalf("CreateBooking(%s) failed: %v", booking.ID, err)
		}
	}

	all, err := h.Bookings.ListBookings(ctx, orgID, persistence.BookingFilter{})
	if err != nil {
		t.Fatalf("ListBookings failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 bookings, got %d", len(all))
	}
	if all[0].ID != "morning" || all[1].ID != "standing" || all[2].ID != "evening" {
		t.Errorf("expected start order morning,standing,evening, got %s,%s,%s", all[0].ID, all[1].ID, all[2].ID)
	}

	byAssignee, err := h.Bookings.ListBookings(ctx, orgID, persistence.BookingFilter{AssignedToID: &userID})
	if err != nil {
		t.Fatalf("ListBookings by assignee failed: %v", err)
	}
	if len(byAssignee) != 1 || byAssignee[0].ID != "morning" {
		t.Errorf("expected only the morning booking for the assignee, got %v", byAssignee)
	}

	cutoff := base.Add(12 * time.Hour)
	windowed, err := h.Bookings.ListBookings(ctx, orgID, persistence.BookingFilter{StartsBefore: &cutoff})
	if err != nil {
		t.Fatalf("ListBookings by window failed: %v", err)
	}
	if len(windowed) != 2 {
		t.Errorf("expected 2 bookings before noon, got %d", len(windowed))
	}

	repeating := true
	standing, err := h.Bookings.ListBookings(ctx, orgID, persistence.BookingFilter{Repeating: &repeating})
	if err != nil {
		t.Fatalf("ListBookings repeating failed: %v", err)
	}
	if len(standing) != 1 || standing[0].ID != "standing" {
		t.Errorf("expected only the standing booking, got %v", standing)
	}

	otherOrg, err := h.Bookings.ListBookings(ctx, "some-other-org", persistence.BookingFilter{})
	if err != nil {
		t.Fatalf("ListBookings for other org failed: %v", err)
	}
	if len(otherOrg) != 0 {
		t.Errorf("expected no bookings for another org, got %d", len(otherOrg))
	}
}

func TestBookingRepository_Update(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()
	orgID, _ := seedOrgAndUser(t, h)

	booking := testfixtures.NewBookingFixture().Persistence()
	booking.OrgID = orgID
	if err := h.Bookings.CreateBooking(ctx, booking); err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	booking.Title = "Rescheduled"
	booking.Start = booking.Start.Add(30 * time.Minute)
	if err := h.Bookings.UpdateBooking(ctx, booking); err != nil {
		t.Fatalf("UpdateBooking failed: %v", err)
	}

	stored, err := h.Bookings.GetBooking(ctx, booking.ID)
	if err != nil {
		t.Fatalf("GetBooking failed: %v", err)
	}
	if stored.Title != "Rescheduled" {
		t.Errorf("expected updated title, got %q", stored.Title)
	}
	if !stored.Start.Equal(booking.Start) {
		t.Errorf("expected updated start %v, got %v", booking.Start, stored.Start)
	}
}

func TestBookingRepository_DeletedAssigneeLeavesBooking(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()
	orgID, userID := seedOrgAndUser(t, h)

	booking := testfixtures.NewBookingFixture(testfixtures.WithBookingAssignee(userID)).Persistence()
	booking.OrgID = orgID
	if err := h.Bookings.CreateBooking(ctx, booking); err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	if err := h.Users.DeleteUser(ctx, userID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}

	stored, err := h.Bookings.GetBooking(ctx, booking.ID)
	if err != nil {
		t.Fatalf("GetBooking failed: %v", err)
	}
	if stored.AssignedToID != nil {
		t.Errorf("expected assignee cleared after user deletion, got %v", *stored.AssignedToID)
	}
}

func TestBookingRepository_Delete(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()
	orgID, _ := seedOrgAndUser(t, h)

	booking := testfixtures.NewBookingFixture().Persistence()
	booking.OrgID = orgID
	if err := h.Bookings.CreateBooking(ctx, booking); err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	if err := h.Bookings.DeleteBooking(ctx, booking.ID); err != nil {
		t.Fatalf("DeleteBooking failed: %v", err)
	}
	if _, err := h.Bookings.GetBooking(ctx, booking.ID); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := h.Bookings.DeleteBooking(ctx, booking.ID); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting twice, got %v", err)
	}
}
