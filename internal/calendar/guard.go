package calendar

import (
	"context"
	"log/slog"
	"time"
)

// Outcome is the resolution of a guarded submission.
type Outcome int

const (
	// OutcomeProceed means the submission may be committed.
	OutcomeProceed Outcome = iota
	// OutcomeCancelled means the user declined and nothing must be mutated.
	OutcomeCancelled
)

// OverlapChecker is the server-authoritative overlap query. It must exclude
// excludeID from its results so that editing a booking without moving it
// passes cleanly, and must consider all of the assignee's bookings, not just
// the visible week.
type OverlapChecker interface {
	CheckForOverlaps(ctx context.Context, excludeID, assignedToID string, start time.Time, duration time.Duration) ([]Booking, error)
}

// ConfirmFunc asks the user to explicitly approve a double-booking. It
// receives the conflicting bookings and returns the decision.
type ConfirmFunc func(ctx context.Context, conflicts []Booking) (bool, error)

// ConflictGuard runs the pre-submission overlap check for a booking and, when
// conflicts exist, obtains confirmation before the mutation is allowed.
//
// The check is advisory: a failing checker degrades to "assume no conflict"
// and the submission proceeds. Blocking staff from scheduling during a
// transient outage is worse than letting an overlap through; final
// consistency belongs to the data layer, not this guard.
type ConflictGuard struct {
	checker OverlapChecker
	confirm ConfirmFunc
	logger  *slog.Logger
}

// NewConflictGuard wires a guard from its collaborators. A nil confirm
// callback declines every conflict.
func NewConflictGuard(checker OverlapChecker, confirm ConfirmFunc, logger *slog.Logger) *ConflictGuard {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConflictGuard{checker: checker, confirm: confirm, logger: logger}
}

// CheckAndConfirm resolves a candidate booking to a submission outcome.
//
// No conflicts, or a checker failure, resolve straight to OutcomeProceed. A
// non-empty conflict list defers to the confirmation callback: approval
// proceeds, decline cancels. A callback error aborts the submission and is
// returned to the caller; only the checker itself is fail-open.
func (g *ConflictGuard) CheckAndConfirm(ctx context.Context, candidate Booking) (Outcome, error) {
	if g == nil || g.checker == nil {
		return OutcomeProceed, nil
	}

	conflicts, err := g.checker.CheckForOverlaps(ctx, candidate.ID, candidate.AssignedToID, candidate.Start, candidate.Duration)
	if err != nil {
		g.logger.WarnContext(ctx, "overlap check failed, proceeding without confirmation",
			"booking_id", candidate.ID,
			"assigned_to", candidate.AssignedToID,
			"error", err,
		)
		return OutcomeProceed, nil
	}

	if len(conflicts) == 0 {
		return OutcomeProceed, nil
	}

	if g.confirm == nil {
		return OutcomeCancelled, nil
	}

	confirmed, err := g.confirm(ctx, conflicts)
	if err != nil {
		return OutcomeCancelled, err
	}
	if !confirmed {
		return OutcomeCancelled, nil
	}
	return OutcomeProceed, nil
}
