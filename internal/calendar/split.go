package calendar

import "time"

// continuationSuffix marks the synthetic second segment created when a
// booking crosses midnight. The derived id stays traceable to the parent and
// unique within one render pass.
const continuationSuffix = "-2"

// SplitAtMidnight splits a booking that crosses a local calendar-day boundary
// into exactly two segments: the first running from the original start to the
// end of that day, the second from the following midnight to the original
// end. Segment durations sum exactly to the parent duration. Bookings that
// stay within a single day are returned unchanged.
//
// The day boundary is evaluated in the location of the booking's start.
func SplitAtMidnight(b Booking) []Booking {
	boundary := startOfNextDay(b.Start)
	if !b.End().After(boundary) {
		return []Booking{b}
	}

	first := b
	first.Duration = boundary.Sub(b.Start)

	second := b
	second.ID = b.ID + continuationSuffix
	second.Start = boundary
	second.Duration = b.End().Sub(boundary)

	return []Booking{first, second}
}

// SplitAllAtMidnight applies SplitAtMidnight across a batch, preserving the
// relative order of the input and the order of each split pair.
func SplitAllAtMidnight(bookings []Booking) []Booking {
	out := make([]Booking, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, SplitAtMidnight(b)...)
	}
	return out
}

func startOfNextDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day+1, 0, 0, 0, 0, t.Location())
}
