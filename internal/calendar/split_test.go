package calendar

import (
	"testing"
	"time"
)

func TestSplitAtMidnight_CrossMidnightBookingYieldsTwoSegments(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 12, 23, 0, 0, 0, time.UTC)
	parent := booking("late", start, 2*time.Hour)

	segments := SplitAtMidnight(parent)
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}

	first, second := segments[0], segments[1]

	if !first.Start.Equal(start) {
		t.Fatalf("first segment start = %v, want %v", first.Start, start)
	}
	midnight := time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC)
	if !first.End().Equal(midnight) {
		t.Fatalf("first segment end = %v, want %v", first.End(), midnight)
	}

	if !second.Start.Equal(midnight) {
		t.Fatalf("second segment start = %v, want %v", second.Start, midnight)
	}
	if !second.End().Equal(parent.End()) {
		t.Fatalf("second segment end = %v, want %v", second.End(), parent.End())
	}

	if first.Duration+second.Duration != parent.Duration {
		t.Fatalf("segment durations sum to %v, want %v", first.Duration+second.Duration, parent.Duration)
	}
}

func TestSplitAtMidnight_DerivedIDTraceableToParent(t *testing.T) {
	t.Parallel()

	parent := booking("booking-9", time.Date(2026, 3, 12, 22, 0, 0, 0, time.UTC), 4*time.Hour)

	segments := SplitAtMidnight(parent)
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}

	if segments[0].ID != "booking-9" {
		t.Fatalf("first segment id = %q, want parent id", segments[0].ID)
	}
	if segments[1].ID != "booking-9-2" {
		t.Fatalf("second segment id = %q, want parent id with suffix", segments[1].ID)
	}
	if segments[1].AssignedToID != parent.AssignedToID {
		t.Fatalf("second segment must keep the parent assignee")
	}
}

func TestSplitAtMidnight_SameDayBookingUnchanged(t *testing.T) {
	t.Parallel()

	b := booking("day", time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC), 45*time.Minute)

	segments := SplitAtMidnight(b)
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	if segments[0] != b {
		t.Fatalf("same-day booking must pass through unchanged")
	}
}

func TestSplitAtMidnight_BookingEndingExactlyAtMidnightUnchanged(t *testing.T) {
	t.Parallel()

	b := booking("edge", time.Date(2026, 3, 12, 23, 0, 0, 0, time.UTC), time.Hour)

	segments := SplitAtMidnight(b)
	if len(segments) != 1 {
		t.Fatalf("a booking ending exactly at midnight must not be split, got %d segments", len(segments))
	}
}

func TestSplitAllAtMidnight_PreservesInputOrder(t *testing.T) {
	t.Parallel()

	first := booking("one", time.Date(2026, 3, 12, 23, 30, 0, 0, time.UTC), time.Hour)
	second := booking("two", time.Date(2026, 3, 13, 9, 0, 0, 0, time.UTC), time.Hour)

	segments := SplitAllAtMidnight([]Booking{first, second})
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segments))
	}
	want := []string{"one", "one-2", "two"}
	for i, id := range want {
		if segments[i].ID != id {
			t.Fatalf("segment %d id = %q, want %q", i, segments[i].ID, id)
		}
	}
}
