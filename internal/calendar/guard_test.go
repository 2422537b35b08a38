package calendar

import (
	"context"
	"errors"
	"testing"
	"time"
)

type overlapCheckerStub struct {
	conflicts []Booking
	err       error

	calls         int
	gotExcludeID  string
	gotAssignedTo string
}

func (s *overlapCheckerStub) CheckForOverlaps(ctx context.Context, excludeID, assignedToID string, start time.Time, duration time.Duration) ([]Booking, error) {
	s.calls++
	s.gotExcludeID = excludeID
	s.gotAssignedTo = assignedToID
	if s.err != nil {
		return nil, s.err
	}
	return s.conflicts, nil
}

func TestConflictGuard_NoConflictProceedsWithoutConfirmation(t *testing.T) {
	t.Parallel()

	checker := &overlapCheckerStub{}
	confirmCalls := 0
	guard := NewConflictGuard(checker, func(ctx context.Context, conflicts []Booking) (bool, error) {
		confirmCalls++
		return false, nil
	}, nil)

	outcome, err := guard.CheckAndConfirm(context.Background(), booking("b1", at(t, 10, 0), time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != OutcomeProceed {
		t.Fatalf("outcome = %v, want proceed", outcome)
	}
	if confirmCalls != 0 {
		t.Fatalf("confirmation must not run when no conflicts exist")
	}
}

func TestConflictGuard_CheckerFailureIsFailOpen(t *testing.T) {
	t.Parallel()

	checker := &overlapCheckerStub{err: errors.New("upstream unavailable")}
	confirmCalls := 0
	guard := NewConflictGuard(checker, func(ctx context.Context, conflicts []Booking) (bool, error) {
		confirmCalls++
		return false, nil
	}, nil)

	outcome, err := guard.CheckAndConfirm(context.Background(), booking("b1", at(t, 10, 0), time.Hour))
	if err != nil {
		t.Fatalf("a failed check must not surface an error, got %v", err)
	}
	if outcome != OutcomeProceed {
		t.Fatalf("outcome = %v, want proceed on checker failure", outcome)
	}
	if confirmCalls != 0 {
		t.Fatalf("confirmation must not run on checker failure")
	}
}

func TestConflictGuard_ConfirmedConflictProceeds(t *testing.T) {
	t.Parallel()

	conflict := booking("other", at(t, 10, 30), time.Hour)
	checker := &overlapCheckerStub{conflicts: []Booking{conflict}}
	var seen []Booking
	guard := NewConflictGuard(checker, func(ctx context.Context, conflicts []Booking) (bool, error) {
		seen = conflicts
		return true, nil
	}, nil)

	outcome, err := guard.CheckAndConfirm(context.Background(), booking("b1", at(t, 10, 0), time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != OutcomeProceed {
		t.Fatalf("outcome = %v, want proceed after confirmation", outcome)
	}
	if len(seen) != 1 || seen[0].ID != "other" {
		t.Fatalf("confirmation callback received %v, want the conflicting booking", seen)
	}
}

func TestConflictGuard_DeclinedConfirmationCancels(t *testing.T) {
	t.Parallel()

	checker := &overlapCheckerStub{conflicts: []Booking{booking("other", at(t, 10, 30), time.Hour)}}
	guard := NewConflictGuard(checker, func(ctx context.Context, conflicts []Booking) (bool, error) {
		return false, nil
	}, nil)

	outcome, err := guard.CheckAndConfirm(context.Background(), booking("b1", at(t, 10, 0), time.Hour))
	if err != nil {
		t.Fatalf("a declined confirmation is a normal abort, got error %v", err)
	}
	if outcome != OutcomeCancelled {
		t.Fatalf("outcome = %v, want cancelled", outcome)
	}
}

func TestConflictGuard_ConfirmerErrorAbortsSubmission(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("confirmation transport failed")
	checker := &overlapCheckerStub{conflicts: []Booking{booking("other", at(t, 10, 30), time.Hour)}}
	guard := NewConflictGuard(checker, func(ctx context.Context, conflicts []Booking) (bool, error) {
		return false, wantErr
	}, nil)

	outcome, err := guard.CheckAndConfirm(context.Background(), booking("b1", at(t, 10, 0), time.Hour))
	if !errors.Is(err, wantErr) {
		t.Fatalf("error = %v, want %v", err, wantErr)
	}
	if outcome != OutcomeCancelled {
		t.Fatalf("outcome = %v, want cancelled on confirmer error", outcome)
	}
}

func TestConflictGuard_ExcludesCandidateFromCheck(t *testing.T) {
	t.Parallel()

	checker := &overlapCheckerStub{}
	guard := NewConflictGuard(checker, nil, nil)

	candidate := booking("edited", at(t, 10, 0), time.Hour)
	if _, err := guard.CheckAndConfirm(context.Background(), candidate); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if checker.calls != 1 {
		t.Fatalf("checker calls = %d, want 1", checker.calls)
	}
	if checker.gotExcludeID != "edited" {
		t.Fatalf("exclude id = %q, want the candidate's own id", checker.gotExcludeID)
	}
	if checker.gotAssignedTo != candidate.AssignedToID {
		t.Fatalf("assignee = %q, want %q", checker.gotAssignedTo, candidate.AssignedToID)
	}
}
