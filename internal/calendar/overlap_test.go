package calendar

import (
	"testing"
	"time"
)

func at(t *testing.T, hour, minute int) time.Time {
	t.Helper()
	return time.Date(2026, 3, 12, hour, minute, 0, 0, time.UTC)
}

func booking(id string, start time.Time, duration time.Duration) Booking {
	return Booking{ID: id, Start: start, Duration: duration, AssignedToID: "staff-1"}
}

func TestOverlaps_BackToBackBookingsDoNotOverlap(t *testing.T) {
	t.Parallel()

	a := booking("a", at(t, 10, 0), time.Hour)
	b := booking("b", at(t, 11, 0), time.Hour)

	if Overlaps(a, b) {
		t.Fatalf("expected adjacent bookings not to overlap")
	}
}

func TestOverlaps_StrictOverlapIsSymmetric(t *testing.T) {
	t.Parallel()

	a := booking("a", at(t, 10, 0), time.Hour)
	b := booking("b", at(t, 10, 30), time.Hour)

	if !Overlaps(a, b) {
		t.Fatalf("expected overlap for a vs b")
	}
	if !Overlaps(b, a) {
		t.Fatalf("expected overlap for b vs a")
	}
}

func TestOverlaps_ZeroDurationBookingInsideInterval(t *testing.T) {
	t.Parallel()

	span := booking("span", at(t, 10, 0), time.Hour)
	instant := booking("instant", at(t, 10, 30), 0)

	if !Overlaps(span, instant) {
		t.Fatalf("expected zero-duration booking at 10:30 to overlap [10:00,11:00)")
	}
}

func TestOverlaps_DisjointBookings(t *testing.T) {
	t.Parallel()

	a := booking("a", at(t, 9, 0), time.Hour)
	b := booking("b", at(t, 12, 0), time.Hour)

	if Overlaps(a, b) || Overlaps(b, a) {
		t.Fatalf("expected disjoint bookings not to overlap")
	}
}

func TestOverlaps_ContainedBooking(t *testing.T) {
	t.Parallel()

	outer := booking("outer", at(t, 9, 0), 4*time.Hour)
	inner := booking("inner", at(t, 10, 0), 30*time.Minute)

	if !Overlaps(outer, inner) {
		t.Fatalf("expected contained booking to overlap its container")
	}
	if !Overlaps(inner, outer) {
		t.Fatalf("expected container to overlap the contained booking")
	}
}
