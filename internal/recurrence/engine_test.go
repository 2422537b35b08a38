package recurrence

import (
	"strings"
	"testing"
	"time"

	"github.com/example/pawdesk/internal/calendar"
)

func weeklyBase(t *testing.T) calendar.Booking {
	t.Helper()
	return calendar.Booking{
		ID:           "standing-1",
		Title:        "Weekly groom",
		Start:        time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), // a Monday
		Duration:     time.Hour,
		AssignedToID: "staff-1",
	}
}

func TestEngine_ExpandWeeklyRuleIntoWindow(t *testing.T) {
	t.Parallel()

	base := weeklyBase(t)
	rangeStart := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	rangeEnd := rangeStart.AddDate(0, 0, 7)

	occurrences, err := NewEngine(0).Expand(base, "FREQ=WEEKLY;BYDAY=MO", rangeStart, rangeEnd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(occurrences) != 1 {
		t.Fatalf("expected 1 occurrence, got %d", len(occurrences))
	}

	occ := occurrences[0]
	want := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	if !occ.Start.Equal(want) {
		t.Fatalf("occurrence start = %v, want %v", occ.Start, want)
	}
	if occ.Duration != base.Duration || occ.AssignedToID != base.AssignedToID {
		t.Fatalf("occurrence must keep the parent's duration and assignee")
	}
	if !strings.HasPrefix(occ.ID, "standing-1@") {
		t.Fatalf("occurrence id = %q, want parent-derived id", occ.ID)
	}
}

func TestEngine_BaseOccurrenceIsSkipped(t *testing.T) {
	t.Parallel()

	base := weeklyBase(t)
	rangeStart := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	rangeEnd := rangeStart.AddDate(0, 0, 7)

	occurrences, err := NewEngine(0).Expand(base, "FREQ=WEEKLY;BYDAY=MO", rangeStart, rangeEnd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, occ := range occurrences {
		if occ.Start.Equal(base.Start) {
			t.Fatalf("the base start must not be duplicated as an occurrence")
		}
	}
}

func TestEngine_EmptyRuleYieldsNothing(t *testing.T) {
	t.Parallel()

	occurrences, err := NewEngine(0).Expand(weeklyBase(t), "", time.Now(), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if occurrences != nil {
		t.Fatalf("expected nil occurrences for an empty rule")
	}
}

func TestEngine_MalformedRuleReturnsError(t *testing.T) {
	t.Parallel()

	base := weeklyBase(t)
	if _, err := NewEngine(0).Expand(base, "FREQ=SOMETIMES", base.Start, base.Start.AddDate(0, 0, 7)); err == nil {
		t.Fatalf("expected parse error for malformed rule")
	}
}

func TestEngine_OccurrenceCap(t *testing.T) {
	t.Parallel()

	base := weeklyBase(t)
	rangeStart := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	rangeEnd := rangeStart.AddDate(1, 0, 0)

	occurrences, err := NewEngine(5).Expand(base, "FREQ=DAILY", rangeStart, rangeEnd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(occurrences) > 5 {
		t.Fatalf("cap ignored: got %d occurrences", len(occurrences))
	}
}
