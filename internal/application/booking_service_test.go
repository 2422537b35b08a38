package application

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/example/pawdesk/internal/persistence"
)

func bookingAt(id, orgID, assignee string, start time.Time, duration time.Duration) persistence.Booking {
	b := persistence.Booking{
		ID:       id,
		OrgID:    orgID,
		Title:    id,
		Start:    start,
		Duration: duration,
	}
	if assignee != "" {
		b.AssignedToID = &assignee
	}
	return b
}

func newBookingService(bookings *bookingRepositoryStub, types *bookingTypeRepositoryStub, users *userRepositoryStub, dogs *dogRepositoryStub, ids ...string) *BookingService {
	if types == nil {
		types = newBookingTypeRepositoryStub()
	}
	if users == nil {
		users = newUserRepositoryStub()
	}
	if dogs == nil {
		dogs = newDogRepositoryStub()
	}
	return NewBookingService(bookings, types, users, dogs, nil, sequenceGenerator(ids...), func() time.Time {
		return time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	}, nil)
}

func TestBookingService_CreateBooking(t *testing.T) {
	t.Parallel()

	principal := Principal{UserID: "staff-1", OrgID: "org-1", Role: RoleStaff}
	day := time.Date(2026, time.March, 12, 0, 0, 0, 0, time.UTC)

	t.Run("persists a conflict-free booking", func(t *testing.T) {
		t.Parallel()

		users := newUserRepositoryStub(persistence.User{ID: "staff-1", OrgID: "org-1"})
		repo := newBookingRepositoryStub()
		svc := newBookingService(repo, nil, users, nil, "bk-1")

		created, err := svc.CreateBooking(context.Background(), principal, BookingInput{
			Title:        "Wash and trim",
			Start:        day.Add(9 * time.Hour),
			Duration:     durPtr(time.Hour),
			AssignedToID: strPtr("staff-1"),
		})
		if err != nil {
			t.Fatalf("CreateBooking failed: %v", err)
		}
		if created.ID != "bk-1" {
			t.Fatalf("expected generated id bk-1, got %s", created.ID)
		}
		if len(repo.created) != 1 {
			t.Fatalf("expected one persisted booking, got %d", len(repo.created))
		}
	})

	t.Run("rejects a conflicting submission with the conflict list", func(t *testing.T) {
		t.Parallel()

		users := newUserRepositoryStub(persistence.User{ID: "staff-1", OrgID: "org-1"})
		repo := newBookingRepositoryStub(
			bookingAt("existing", "org-1", "staff-1", day.Add(9*time.Hour), time.Hour),
		)
		svc := newBookingService(repo, nil, users, nil, "bk-1")

		_, err := svc.CreateBooking(context.Background(), principal, BookingInput{
			Title:        "Overlapping",
			Start:        day.Add(9*time.Hour + 30*time.Minute),
			Duration:     durPtr(time.Hour),
			AssignedToID: strPtr("staff-1"),
		})

		var confirmErr *ConfirmationRequiredError
		if !errors.As(err, &confirmErr) {
			t.Fatalf("expected ConfirmationRequiredError, got %v", err)
		}
		if len(confirmErr.Conflicts) != 1 || confirmErr.Conflicts[0].ID != "existing" {
			t.Fatalf("unexpected conflicts: %#v", confirmErr.Conflicts)
		}
		if len(repo.created) != 0 {
			t.Fatal("conflicting booking must not be persisted without confirmation")
		}
	})

	t.Run("persists a conflicting submission when confirmed", func(t *testing.T) {
		t.Parallel()

		users := newUserRepositoryStub(persistence.User{ID: "staff-1", OrgID: "org-1"})
		repo := newBookingRepositoryStub(
			bookingAt("existing", "org-1", "staff-1", day.Add(9*time.Hour), time.Hour),
		)
		svc := newBookingService(repo, nil, users, nil, "bk-1")

		_, err := svc.CreateBooking(context.Background(), principal, BookingInput{
			Title:        "Double booked on purpose",
			Start:        day.Add(9*time.Hour + 30*time.Minute),
			Duration:     durPtr(time.Hour),
			AssignedToID: strPtr("staff-1"),
			Confirmed:    true,
		})
		if err != nil {
			t.Fatalf("CreateBooking with confirmation failed: %v", err)
		}
		if len(repo.created) != 1 {
			t.Fatal("confirmed booking must be persisted")
		}
	})

	t.Run("proceeds when the overlap lookup fails", func(t *testing.T) {
		t.Parallel()

		users := newUserRepositoryStub(persistence.User{ID: "staff-1", OrgID: "org-1"})
		repo := newBookingRepositoryStub()
		repo.listErr = errors.New("database offline")
		svc := newBookingService(repo, nil, users, nil, "bk-1")

		_, err := svc.CreateBooking(context.Background(), principal, BookingInput{
			Title:        "Checked during an outage",
			Start:        day.Add(9 * time.Hour),
			Duration:     durPtr(time.Hour),
			AssignedToID: strPtr("staff-1"),
		})
		if err != nil {
			t.Fatalf("expected submission to proceed past a failing overlap check, got %v", err)
		}
		if len(repo.created) != 1 {
			t.Fatal("booking must be persisted when the overlap check degrades")
		}
	})

	t.Run("skips the overlap check for unassigned bookings", func(t *testing.T) {
		t.Parallel()

		repo := newBookingRepositoryStub(
			bookingAt("existing", "org-1", "staff-1", day.Add(9*time.Hour), time.Hour),
		)
		svc := newBookingService(repo, nil, nil, nil, "bk-1")

		_, err := svc.CreateBooking(context.Background(), principal, BookingInput{
			Title:    "Walk-in slot",
			Start:    day.Add(9 * time.Hour),
			Duration: durPtr(time.Hour),
		})
		if err != nil {
			t.Fatalf("CreateBooking failed: %v", err)
		}
	})

	t.Run("rejects negative durations", func(t *testing.T) {
		t.Parallel()

		svc := newBookingService(newBookingRepositoryStub(), nil, nil, nil, "bk-1")

		_, err := svc.CreateBooking(context.Background(), principal, BookingInput{
			Title:    "Backwards",
			Start:    day.Add(9 * time.Hour),
			Duration: durPtr(-time.Hour),
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["duration"]; !ok {
			t.Fatalf("expected duration field error, got %#v", vErr.FieldErrors)
		}
	})

	t.Run("falls back to the booking type default duration", func(t *testing.T) {
		t.Parallel()

		types := newBookingTypeRepositoryStub(persistence.BookingType{
			ID:              "bt-groom",
			OrgID:           "org-1",
			Name:            "Full groom",
			DefaultDuration: 90 * time.Minute,
		})
		repo := newBookingRepositoryStub()
		svc := newBookingService(repo, types, nil, nil, "bk-1")

		created, err := svc.CreateBooking(context.Background(), principal, BookingInput{
			Title:         "Typed booking",
			Start:         day.Add(9 * time.Hour),
			BookingTypeID: strPtr("bt-groom"),
		})
		if err != nil {
			t.Fatalf("CreateBooking failed: %v", err)
		}
		if created.Duration != 90*time.Minute {
			t.Fatalf("expected type default 90m, got %v", created.Duration)
		}
	})

	t.Run("falls back to the schema default duration", func(t *testing.T) {
		t.Parallel()

		svc := newBookingService(newBookingRepositoryStub(), nil, nil, nil, "bk-1")

		created, err := svc.CreateBooking(context.Background(), principal, BookingInput{
			Title: "Untyped booking",
			Start: day.Add(9 * time.Hour),
		})
		if err != nil {
			t.Fatalf("CreateBooking failed: %v", err)
		}
		if created.Duration != time.Hour {
			t.Fatalf("expected schema default 1h, got %v", created.Duration)
		}
	})
}

func TestBookingService_UpdateBooking(t *testing.T) {
	t.Parallel()

	principal := Principal{UserID: "staff-1", OrgID: "org-1", Role: RoleStaff}
	day := time.Date(2026, time.March, 12, 0, 0, 0, 0, time.UTC)

	t.Run("excludes the edited booking from the overlap check", func(t *testing.T) {
		t.Parallel()

		users := newUserRepositoryStub(persistence.User{ID: "staff-1", OrgID: "org-1"})
		repo := newBookingRepositoryStub(
			bookingAt("bk-1", "org-1", "staff-1", day.Add(9*time.Hour), time.Hour),
		)
		svc := newBookingService(repo, nil, users, nil)

		_, err := svc.UpdateBooking(context.Background(), principal, "bk-1", BookingInput{
			Title:        "Renamed, same slot",
			Start:        day.Add(9 * time.Hour),
			Duration:     durPtr(time.Hour),
			AssignedToID: strPtr("staff-1"),
		})
		if err != nil {
			t.Fatalf("expected clean update of an unmoved booking, got %v", err)
		}
	})

	t.Run("keeps the stored duration when the submission omits one", func(t *testing.T) {
		t.Parallel()

		repo := newBookingRepositoryStub(
			bookingAt("bk-1", "org-1", "", day.Add(9*time.Hour), 45*time.Minute),
		)
		svc := newBookingService(repo, nil, nil, nil)

		updated, err := svc.UpdateBooking(context.Background(), principal, "bk-1", BookingInput{
			Title: "Still 45 minutes",
			Start: day.Add(10 * time.Hour),
		})
		if err != nil {
			t.Fatalf("UpdateBooking failed: %v", err)
		}
		if updated.Duration != 45*time.Minute {
			t.Fatalf("expected stored duration to carry over, got %v", updated.Duration)
		}
	})

	t.Run("hides bookings from other organizations", func(t *testing.T) {
		t.Parallel()

		repo := newBookingRepositoryStub(
			bookingAt("bk-other", "org-2", "", day.Add(9*time.Hour), time.Hour),
		)
		svc := newBookingService(repo, nil, nil, nil)

		_, err := svc.UpdateBooking(context.Background(), principal, "bk-other", BookingInput{
			Title: "Reaching across tenants",
			Start: day.Add(9 * time.Hour),
		})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound for foreign booking, got %v", err)
		}
	})
}

func TestBookingService_CheckForOverlaps(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, time.March, 12, 0, 0, 0, 0, time.UTC)
	principal := Principal{UserID: "staff-1", OrgID: "org-1", Role: RoleStaff}

	repo := newBookingRepositoryStub(
		bookingAt("morning", "org-1", "staff-1", day.Add(9*time.Hour), time.Hour),
		bookingAt("afternoon", "org-1", "staff-1", day.Add(14*time.Hour), time.Hour),
		bookingAt("other-staff", "org-1", "staff-2", day.Add(9*time.Hour), time.Hour),
	)
	svc := newBookingService(repo, nil, nil, nil)

	conflicts, err := svc.CheckForOverlaps(context.Background(), CheckOverlapsParams{
		Principal:    principal,
		AssignedToID: "staff-1",
		Start:        day.Add(9*time.Hour + 15*time.Minute),
		Duration:     30 * time.Minute,
	})
	if err != nil {
		t.Fatalf("CheckForOverlaps failed: %v", err)
	}
	if len(conflicts) != 1 || conflicts[0].ID != "morning" {
		t.Fatalf("expected only the assignee's morning booking, got %#v", conflicts)
	}
}

func TestBookingService_WeekView(t *testing.T) {
	t.Parallel()

	weekStart := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC) // Monday
	principal := Principal{UserID: "staff-1", OrgID: "org-1", Role: RoleStaff}

	t.Run("splits a booking crossing midnight into two day columns", func(t *testing.T) {
		t.Parallel()

		repo := newBookingRepositoryStub(
			bookingAt("overnight", "org-1", "staff-1", weekStart.Add(23*time.Hour), 2*time.Hour),
		)
		svc := newBookingService(repo, nil, nil, nil)

		view, err := svc.WeekView(context.Background(), WeekViewParams{Principal: principal, WeekStart: weekStart})
		if err != nil {
			t.Fatalf("WeekView failed: %v", err)
		}

		monday := view.Days[0].Bookings
		tuesday := view.Days[1].Bookings
		if len(monday) != 1 || len(tuesday) != 1 {
			t.Fatalf("expected one segment per day, got %d and %d", len(monday), len(tuesday))
		}
		if monday[0].ID != "overnight" || tuesday[0].ID != "overnight-2" {
			t.Fatalf("unexpected segment ids %q and %q", monday[0].ID, tuesday[0].ID)
		}
		if monday[0].Duration+tuesday[0].Duration != 2*time.Hour {
			t.Fatalf("segment durations must sum to the parent duration, got %v and %v", monday[0].Duration, tuesday[0].Duration)
		}
		if tuesday[0].ParentID != "overnight" {
			t.Fatalf("continuation segment must trace to its parent, got %q", tuesday[0].ParentID)
		}
	})

	t.Run("includes a booking crossing in from the previous day", func(t *testing.T) {
		t.Parallel()

		repo := newBookingRepositoryStub(
			bookingAt("arrival", "org-1", "staff-1", weekStart.Add(-time.Hour), 2*time.Hour),
		)
		svc := newBookingService(repo, nil, nil, nil)

		view, err := svc.WeekView(context.Background(), WeekViewParams{Principal: principal, WeekStart: weekStart})
		if err != nil {
			t.Fatalf("WeekView failed: %v", err)
		}

		monday := view.Days[0].Bookings
		if len(monday) != 1 {
			t.Fatalf("expected the crossing segment on Monday, got %d segments", len(monday))
		}
		segment := monday[0]
		if segment.ID != "arrival-2" || segment.ParentID != "arrival" {
			t.Fatalf("unexpected segment id %q with parent %q", segment.ID, segment.ParentID)
		}
		if !segment.Start.Equal(weekStart) || segment.Duration != time.Hour {
			t.Fatalf("expected the in-window hour from midnight, got start %v duration %v", segment.Start, segment.Duration)
		}
	})

	t.Run("omits a booking that ends before the week begins", func(t *testing.T) {
		t.Parallel()

		repo := newBookingRepositoryStub(
			bookingAt("sunday-only", "org-1", "staff-1", weekStart.Add(-14*time.Hour), time.Hour),
		)
		svc := newBookingService(repo, nil, nil, nil)

		view, err := svc.WeekView(context.Background(), WeekViewParams{Principal: principal, WeekStart: weekStart})
		if err != nil {
			t.Fatalf("WeekView failed: %v", err)
		}
		for day, entries := range view.Days {
			if len(entries.Bookings) != 0 {
				t.Fatalf("expected an empty week, found %d segments on day %d", len(entries.Bookings), day)
			}
		}
	})

	t.Run("keeps a stored id ending in -2 intact", func(t *testing.T) {
		t.Parallel()

		repo := newBookingRepositoryStub(
			bookingAt("bay-2", "org-1", "staff-1", weekStart.Add(23*time.Hour), 2*time.Hour),
		)
		svc := newBookingService(repo, nil, nil, nil)

		view, err := svc.WeekView(context.Background(), WeekViewParams{Principal: principal, WeekStart: weekStart})
		if err != nil {
			t.Fatalf("WeekView failed: %v", err)
		}

		monday := view.Days[0].Bookings
		tuesday := view.Days[1].Bookings
		if len(monday) != 1 || len(tuesday) != 1 {
			t.Fatalf("expected one segment per day, got %d and %d", len(monday), len(tuesday))
		}
		if monday[0].ParentID != "bay-2" {
			t.Fatalf("first segment must keep its own id as parent, got %q", monday[0].ParentID)
		}
		if tuesday[0].ID != "bay-2-2" || tuesday[0].ParentID != "bay-2" {
			t.Fatalf("unexpected continuation %q with parent %q", tuesday[0].ID, tuesday[0].ParentID)
		}
	})

	t.Run("positions a pair of overlapping bookings 75/50", func(t *testing.T) {
		t.Parallel()

		repo := newBookingRepositoryStub(
			bookingAt("first", "org-1", "staff-1", weekStart.Add(9*time.Hour), time.Hour),
			bookingAt("second", "org-1", "staff-1", weekStart.Add(9*time.Hour+30*time.Minute), time.Hour),
		)
		svc := newBookingService(repo, nil, nil, nil)

		view, err := svc.WeekView(context.Background(), WeekViewParams{Principal: principal, WeekStart: weekStart})
		if err != nil {
			t.Fatalf("WeekView failed: %v", err)
		}

		monday := view.Days[0].Bookings
		if len(monday) != 2 {
			t.Fatalf("expected two positioned bookings, got %d", len(monday))
		}

		byID := make(map[string]PositionedBooking, len(monday))
		for _, b := range monday {
			byID[b.ID] = b
		}
		if got := byID["first"]; got.WidthPct != 75 || got.LeftPct != 0 || got.ColumnIndex != 0 {
			t.Fatalf("unexpected layout for first card: %#v", got)
		}
		if got := byID["second"]; got.WidthPct != 50 || got.LeftPct != 50 || got.ColumnIndex != 1 {
			t.Fatalf("unexpected layout for second card: %#v", got)
		}
	})

	t.Run("expands a repeating booking into the visible week", func(t *testing.T) {
		t.Parallel()

		weekly := bookingAt("standing", "org-1", "staff-1", weekStart.AddDate(0, 0, -7).Add(10*time.Hour), time.Hour)
		weekly.RepeatRule = strPtr("FREQ=WEEKLY")

		repo := newBookingRepositoryStub(weekly)
		svc := newBookingService(repo, nil, nil, nil)

		view, err := svc.WeekView(context.Background(), WeekViewParams{Principal: principal, WeekStart: weekStart})
		if err != nil {
			t.Fatalf("WeekView failed: %v", err)
		}

		monday := view.Days[0].Bookings
		if len(monday) != 1 {
			t.Fatalf("expected one expanded occurrence on Monday, got %d", len(monday))
		}
		occ := monday[0]
		if !strings.HasPrefix(occ.ID, "standing@") {
			t.Fatalf("expected derived occurrence id, got %q", occ.ID)
		}
		if occ.ParentID != "standing" {
			t.Fatalf("occurrence must trace to its parent, got %q", occ.ParentID)
		}
		if !occ.Start.Equal(weekStart.Add(10 * time.Hour)) {
			t.Fatalf("unexpected occurrence start %v", occ.Start)
		}
	})
}

func TestBookingService_ExportWeekICS(t *testing.T) {
	t.Parallel()

	weekStart := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)
	principal := Principal{UserID: "staff-1", OrgID: "org-1", Role: RoleStaff}

	repo := newBookingRepositoryStub(
		bookingAt("groom", "org-1", "staff-1", weekStart.Add(9*time.Hour), time.Hour),
		bookingAt("arrival", "org-1", "staff-1", weekStart.Add(-time.Hour), 2*time.Hour),
		bookingAt("sunday-only", "org-1", "staff-1", weekStart.Add(-14*time.Hour), time.Hour),
	)
	svc := newBookingService(repo, nil, nil, nil)

	serialized, err := svc.ExportWeekICS(context.Background(), WeekViewParams{Principal: principal, WeekStart: weekStart})
	if err != nil {
		t.Fatalf("ExportWeekICS failed: %v", err)
	}
	if !strings.Contains(serialized, "BEGIN:VCALENDAR") {
		t.Fatal("expected an iCalendar document")
	}
	if !strings.Contains(serialized, "UID:groom@pawdesk") {
		t.Fatalf("expected event UID in output:\n%s", serialized)
	}
	if !strings.Contains(serialized, "SUMMARY:groom") {
		t.Fatalf("expected event summary in output:\n%s", serialized)
	}
	if !strings.Contains(serialized, "UID:arrival@pawdesk") {
		t.Fatalf("expected the booking crossing into the week:\n%s", serialized)
	}
	if strings.Contains(serialized, "UID:sunday-only@pawdesk") {
		t.Fatalf("did not expect a booking ending before the week:\n%s", serialized)
	}
}
