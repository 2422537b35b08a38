package application

import (
	"context"
	"time"

	"github.com/example/pawdesk/internal/persistence"
)

// schemaDefaultDuration applies when neither the submission, the booking
// being edited, nor the booking type supplies one.
const schemaDefaultDuration = time.Hour

// resolveDuration picks the effective duration for a booking write. The
// precedence is: explicit value in the submission, then the value already on
// the booking being edited, then the booking type's default, then the schema
// default.
func resolveDuration(ctx context.Context, types persistence.BookingTypeRepository, input BookingInput, existing *Booking) (time.Duration, error) {
	if input.Duration != nil {
		return *input.Duration, nil
	}
	if existing != nil && existing.Duration > 0 {
		return existing.Duration, nil
	}
	if input.BookingTypeID != nil && *input.BookingTypeID != "" {
		bt, err := types.GetBookingType(ctx, *input.BookingTypeID)
		if err != nil {
			return 0, mapRepoError(err)
		}
		if bt.DefaultDuration > 0 {
			return bt.DefaultDuration, nil
		}
	}
	return schemaDefaultDuration, nil
}
