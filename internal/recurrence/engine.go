// Package recurrence expands standing-appointment rules into concrete
// booking occurrences for a visible window.
package recurrence

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/example/pawdesk/internal/calendar"
)

// defaultMaxOccurrences caps expansion so a malformed rule cannot flood a
// window with occurrences.
const defaultMaxOccurrences = 366

// Engine expands RRULE strings attached to bookings.
type Engine struct {
	maxOccurrences int
}

// NewEngine constructs an engine. maxOccurrences <= 0 selects the default
// cap.
func NewEngine(maxOccurrences int) *Engine {
	if maxOccurrences <= 0 {
		maxOccurrences = defaultMaxOccurrences
	}
	return &Engine{maxOccurrences: maxOccurrences}
}

// Validate reports whether rule parses as an RRULE string. An empty rule is
// valid and means the booking does not repeat.
func (e *Engine) Validate(rule string) error {
	if rule == "" {
		return nil
	}
	if _, err := rrule.StrToRRule(rule); err != nil {
		return fmt.Errorf("recurrence: parse rule: %w", err)
	}
	return nil
}

// Expand returns the occurrences of a repeating booking that start within
// [rangeStart, rangeEnd). The stored booking covers its own first instant, so
// an occurrence coinciding with the base start is skipped. Each occurrence
// keeps the parent's fields and gets a derived id unique within the window.
func (e *Engine) Expand(base calendar.Booking, rule string, rangeStart, rangeEnd time.Time) ([]calendar.Booking, error) {
	if rule == "" {
		return nil, nil
	}
	if rangeEnd.Before(rangeStart) {
		return nil, fmt.Errorf("recurrence: range end %v precedes start %v", rangeEnd, rangeStart)
	}

	r, err := rrule.StrToRRule(rule)
	if err != nil {
		return nil, fmt.Errorf("recurrence: parse rule for booking %s: %w", base.ID, err)
	}
	r.DTStart(base.Start)

	starts := r.Between(rangeStart, rangeEnd.Add(-time.Nanosecond), true)

	occurrences := make([]calendar.Booking, 0, len(starts))
	for i, start := range starts {
		if i >= e.maxOccurrences {
			break
		}
		if start.Equal(base.Start) {
			continue
		}
		occ := base
		occ.ID = fmt.Sprintf("%s@%s", base.ID, start.Format("20060102T150405"))
		occ.Start = start
		occurrences = append(occurrences, occ)
	}

	return occurrences, nil
}
