// Package calendar implements the weekly calendar core: the interval overlap
// predicate, midnight day-splitting, overlap grouping with column layout, and
// the conflict guard that runs before a booking is committed.
package calendar

import "time"

// Booking is the slice of a booking the calendar core consumes. Durations are
// whole seconds and never negative; that precondition is enforced by service
// validation before bookings reach this package.
type Booking struct {
	ID           string
	Title        string
	Start        time.Time
	Duration     time.Duration
	AssignedToID string
}

// End returns the exclusive end instant of the booking interval.
func (b Booking) End() time.Time {
	return b.Start.Add(b.Duration)
}
