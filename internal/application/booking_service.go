package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/example/pawdesk/internal/calendar"
	"github.com/example/pawdesk/internal/persistence"
	"github.com/example/pawdesk/internal/recurrence"
)

// ListBookingsParams narrows a booking listing.
type ListBookingsParams struct {
	Principal    Principal
	AssignedToID *string
	StartsAfter  *time.Time
	StartsBefore *time.Time
}

// BookingService orchestrates booking writes behind the conflict guard and
// produces the laid-out week view.
type BookingService struct {
	bookings    persistence.BookingRepository
	types       persistence.BookingTypeRepository
	users       persistence.UserRepository
	dogs        persistence.DogRepository
	recurrence  *recurrence.Engine
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewBookingService wires dependencies for booking operations.
func NewBookingService(bookings persistence.BookingRepository, types persistence.BookingTypeRepository, users persistence.UserRepository, dogs persistence.DogRepository, engine *recurrence.Engine, idGenerator func() string, now func() time.Time, logger *slog.Logger) *BookingService {
	if engine == nil {
		engine = recurrence.NewEngine(0)
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &BookingService{
		bookings:    bookings,
		types:       types,
		users:       users,
		dogs:        dogs,
		recurrence:  engine,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *BookingService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "BookingService", operation, attrs...)
}

func (s *BookingService) validateBookingInput(ctx context.Context, principal Principal, input BookingInput, duration time.Duration) error {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.Title) == "" {
		vErr.add("title", "title is required")
	}
	if input.Start.IsZero() {
		vErr.add("start", "start is required")
	}
	if duration < 0 {
		vErr.add("duration", "duration cannot be negative")
	}

	if input.AssignedToID != nil && *input.AssignedToID != "" {
		user, err := s.users.GetUser(ctx, *input.AssignedToID)
		if err != nil || user.OrgID != principal.OrgID {
			vErr.add("assigned_to_id", "unknown user")
		}
	}
	if input.DogID != nil && *input.DogID != "" {
		dog, err := s.dogs.GetDog(ctx, *input.DogID)
		if err != nil || dog.OrgID != principal.OrgID {
			vErr.add("dog_id", "unknown dog")
		}
	}
	if input.BookingTypeID != nil && *input.BookingTypeID != "" {
		bt, err := s.types.GetBookingType(ctx, *input.BookingTypeID)
		if err != nil || bt.OrgID != principal.OrgID {
			vErr.add("booking_type_id", "unknown booking type")
		}
	}
	if input.RepeatRule != nil && *input.RepeatRule != "" {
		if err := s.recurrence.Validate(*input.RepeatRule); err != nil {
			vErr.add("repeat_rule", "must be a valid RRULE expression")
		}
	}

	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

// guardSubmission runs the conflict guard for a candidate write. When the
// submission collides and is not pre-confirmed it returns a
// ConfirmationRequiredError carrying the conflicts.
func (s *BookingService) guardSubmission(ctx context.Context, principal Principal, candidate persistence.Booking, confirmed bool) error {
	assignedTo := ""
	if candidate.AssignedToID != nil {
		assignedTo = *candidate.AssignedToID
	}
	if assignedTo == "" {
		// Unassigned bookings never double-book anyone.
		return nil
	}

	var pending []calendar.Booking
	confirm := func(_ context.Context, conflicts []calendar.Booking) (bool, error) {
		if confirmed {
			return true, nil
		}
		pending = conflicts
		return false, nil
	}

	checker := &repositoryOverlapChecker{bookings: s.bookings, orgID: principal.OrgID}
	guard := calendar.NewConflictGuard(checker, confirm, s.logger)

	outcome, err := guard.CheckAndConfirm(ctx, calendar.Booking{
		ID:           candidate.ID,
		Title:        candidate.Title,
		Start:        candidate.Start,
		Duration:     candidate.Duration,
		AssignedToID: assignedTo,
	})
	if err != nil {
		return err
	}
	if outcome == calendar.OutcomeCancelled {
		return &ConfirmationRequiredError{Conflicts: toConflictingBookings(pending)}
	}
	return nil
}

// CreateBooking validates and guards a new calendar entry before persisting
// it.
func (s *BookingService) CreateBooking(ctx context.Context, principal Principal, input BookingInput) (Booking, error) {
	if s == nil {
		return Booking{}, fmt.Errorf("BookingService is nil")
	}
	if s.bookings == nil {
		return Booking{}, fmt.Errorf("booking repository not configured")
	}

	duration, err := resolveDuration(ctx, s.types, input, nil)
	if err != nil {
		return Booking{}, err
	}
	if err := s.validateBookingInput(ctx, principal, input, duration); err != nil {
		return Booking{}, err
	}

	now := s.now()
	booking := persistence.Booking{
		ID:            s.idGenerator(),
		OrgID:         principal.OrgID,
		Title:         strings.TrimSpace(input.Title),
		Start:         input.Start,
		Duration:      duration,
		AssignedToID:  normalizeOptional(input.AssignedToID),
		DogID:         normalizeOptional(input.DogID),
		BookingTypeID: normalizeOptional(input.BookingTypeID),
		Notes:         input.Notes,
		RepeatRule:    normalizeOptional(input.RepeatRule),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.guardSubmission(ctx, principal, booking, input.Confirmed); err != nil {
		return Booking{}, err
	}

	if err := s.bookings.CreateBooking(ctx, booking); err != nil {
		return Booking{}, mapRepoError(err)
	}

	s.loggerWith(ctx, "CreateBooking", "booking_id", booking.ID).InfoContext(ctx, "booking created")
	return fromPersistenceBooking(booking), nil
}

// UpdateBooking validates and guards changes to an existing calendar entry.
// The guard excludes the booking itself so editing without moving it passes
// cleanly.
func (s *BookingService) UpdateBooking(ctx context.Context, principal Principal, bookingID string, input BookingInput) (Booking, error) {
	if s == nil {
		return Booking{}, fmt.Errorf("BookingService is nil")
	}
	if s.bookings == nil {
		return Booking{}, fmt.Errorf("booking repository not configured")
	}

	existing, err := s.scopedBooking(ctx, principal, bookingID)
	if err != nil {
		return Booking{}, err
	}

	current := fromPersistenceBooking(existing)
	duration, err := resolveDuration(ctx, s.types, input, &current)
	if err != nil {
		return Booking{}, err
	}
	if err := s.validateBookingInput(ctx, principal, input, duration); err != nil {
		return Booking{}, err
	}

	existing.Title = strings.TrimSpace(input.Title)
	existing.Start = input.Start
	existing.Duration = duration
	existing.AssignedToID = normalizeOptional(input.AssignedToID)
	existing.DogID = normalizeOptional(input.DogID)
	existing.BookingTypeID = normalizeOptional(input.BookingTypeID)
	existing.Notes = input.Notes
	existing.RepeatRule = normalizeOptional(input.RepeatRule)
	existing.UpdatedAt = s.now()

	if err := s.guardSubmission(ctx, principal, existing, input.Confirmed); err != nil {
		return Booking{}, err
	}

	if err := s.bookings.UpdateBooking(ctx, existing); err != nil {
		return Booking{}, mapRepoError(err)
	}

	s.loggerWith(ctx, "UpdateBooking", "booking_id", existing.ID).InfoContext(ctx, "booking updated")
	return fromPersistenceBooking(existing), nil
}

// GetBooking returns a calendar entry in the principal's organization.
func (s *BookingService) GetBooking(ctx context.Context, principal Principal, bookingID string) (Booking, error) {
	if s == nil {
		return Booking{}, fmt.Errorf("BookingService is nil")
	}
	if s.bookings == nil {
		return Booking{}, fmt.Errorf("booking repository not configured")
	}

	booking, err := s.scopedBooking(ctx, principal, bookingID)
	if err != nil {
		return Booking{}, err
	}
	return fromPersistenceBooking(booking), nil
}

// ListBookings enumerates stored calendar entries matching the filter. The
// listing returns the stored rows; recurrence expansion and day-splitting are
// concerns of the week view.
func (s *BookingService) ListBookings(ctx context.Context, params ListBookingsParams) ([]Booking, error) {
	if s == nil {
		return nil, fmt.Errorf("BookingService is nil")
	}
	if s.bookings == nil {
		return nil, fmt.Errorf("booking repository not configured")
	}

	stored, err := s.bookings.ListBookings(ctx, params.Principal.OrgID, persistence.BookingFilter{
		AssignedToID: params.AssignedToID,
		StartsAfter:  params.StartsAfter,
		StartsBefore: params.StartsBefore,
	})
	if err != nil {
		return nil, mapRepoError(err)
	}

	bookings := make([]Booking, 0, len(stored))
	for _, booking := range stored {
		bookings = append(bookings, fromPersistenceBooking(booking))
	}
	return bookings, nil
}

// DeleteBooking removes a calendar entry from the principal's organization.
func (s *BookingService) DeleteBooking(ctx context.Context, principal Principal, bookingID string) error {
	if s == nil {
		return fmt.Errorf("BookingService is nil")
	}
	if s.bookings == nil {
		return fmt.Errorf("booking repository not configured")
	}

	if _, err := s.scopedBooking(ctx, principal, bookingID); err != nil {
		return err
	}

	if err := s.bookings.DeleteBooking(ctx, bookingID); err != nil {
		return mapRepoError(err)
	}

	s.loggerWith(ctx, "DeleteBooking", "booking_id", bookingID).InfoContext(ctx, "booking deleted")
	return nil
}

// CheckForOverlaps runs the overlap probe for a hypothetical booking without
// writing anything. Used by clients to warn before submission.
func (s *BookingService) CheckForOverlaps(ctx context.Context, params CheckOverlapsParams) ([]ConflictingBooking, error) {
	if s == nil {
		return nil, fmt.Errorf("BookingService is nil")
	}
	if s.bookings == nil {
		return nil, fmt.Errorf("booking repository not configured")
	}

	checker := &repositoryOverlapChecker{bookings: s.bookings, orgID: params.Principal.OrgID}
	conflicts, err := checker.CheckForOverlaps(ctx, params.ExcludeBookingID, params.AssignedToID, params.Start, params.Duration)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return toConflictingBookings(conflicts), nil
}

// WeekView assembles the laid-out calendar for one week: stored bookings in
// the window plus expanded recurrences, split at midnight and positioned per
// day column.
func (s *BookingService) WeekView(ctx context.Context, params WeekViewParams) (WeekView, error) {
	if s == nil {
		return WeekView{}, fmt.Errorf("BookingService is nil")
	}
	if s.bookings == nil {
		return WeekView{}, fmt.Errorf("booking repository not configured")
	}

	weekStart := startOfDay(params.WeekStart)
	weekEnd := weekStart.AddDate(0, 0, 7)

	segments, parents, err := s.weekSegments(ctx, params, weekStart, weekEnd)
	if err != nil {
		return WeekView{}, err
	}

	view := WeekView{WeekStart: weekStart, Days: make([]WeekDay, 7)}
	for i := range view.Days {
		view.Days[i].Date = weekStart.AddDate(0, 0, i)
	}

	// Day boundaries come from AddDate so weeks with a DST transition keep
	// their real local midnights.
	boundaries := make([]time.Time, 8)
	for i := range boundaries {
		boundaries[i] = weekStart.AddDate(0, 0, i)
	}

	byDay := make([][]calendar.Booking, 7)
	for _, segment := range segments {
		for day := 0; day < 7; day++ {
			if !segment.Start.Before(boundaries[day]) && segment.Start.Before(boundaries[day+1]) {
				byDay[day] = append(byDay[day], segment)
				break
			}
		}
	}

	for day, entries := range byDay {
		clusters := calendar.GroupOverlapping(entries)
		positioned := make([]PositionedBooking, 0, len(entries))
		for _, segment := range entries {
			entry := clusters[segment.ID]
			layout := calendar.LayoutFor(entry)
			positioned = append(positioned, PositionedBooking{
				ID:           segment.ID,
				ParentID:     parents[segment.ID],
				Title:        segment.Title,
				Start:        segment.Start,
				Duration:     segment.Duration,
				AssignedToID: segment.AssignedToID,
				ColumnIndex:  entry.ColumnIndex(),
				OverlapIDs:   append([]string(nil), entry.Overlaps...),
				WidthPct:     layout.WidthPct,
				WidthPx:      layout.WidthPx,
				LeftPct:      layout.LeftPct,
				LeftPx:       layout.LeftPx,
			})
		}
		view.Days[day].Bookings = positioned
	}

	return view, nil
}

// ExportWeekICS renders the bookings of one week as an iCalendar document.
// Events are exported whole, not as midnight-split render segments.
func (s *BookingService) ExportWeekICS(ctx context.Context, params WeekViewParams) (string, error) {
	if s == nil {
		return "", fmt.Errorf("BookingService is nil")
	}
	if s.bookings == nil {
		return "", fmt.Errorf("booking repository not configured")
	}

	weekStart := startOfDay(params.WeekStart)
	weekEnd := weekStart.AddDate(0, 0, 7)

	occurrences, _, err := s.weekOccurrences(ctx, params, weekStart, weekEnd)
	if err != nil {
		return "", err
	}

	now := s.now()
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//pawdesk//calendar//EN")

	for _, occ := range occurrences {
		event := cal.AddEvent(occ.ID + "@pawdesk")
		event.SetDtStampTime(now)
		event.SetStartAt(occ.Start)
		event.SetEndAt(occ.End())
		event.SetSummary(occ.Title)
	}

	return cal.Serialize(), nil
}

// weekOccurrences collects stored bookings reaching into the window plus
// recurrence occurrences expanded into it. The returned map traces every
// occurrence id back to the stored booking it came from.
func (s *BookingService) weekOccurrences(ctx context.Context, params WeekViewParams, weekStart, weekEnd time.Time) ([]calendar.Booking, map[string]string, error) {
	// Fetch from a day early so a booking that starts before the window and
	// runs past its first midnight is present for splitting.
	fetchStart := weekStart.AddDate(0, 0, -1)
	filter := persistence.BookingFilter{
		AssignedToID: params.AssignedToID,
		StartsAfter:  &fetchStart,
		StartsBefore: &weekEnd,
	}
	stored, err := s.bookings.ListBookings(ctx, params.Principal.OrgID, filter)
	if err != nil {
		return nil, nil, mapRepoError(err)
	}

	occurrences := make([]calendar.Booking, 0, len(stored))
	parents := make(map[string]string, len(stored))
	for _, booking := range stored {
		occ := toCalendarBooking(booking)
		if !occ.End().After(weekStart) {
			continue
		}
		occurrences = append(occurrences, occ)
		parents[occ.ID] = booking.ID
	}

	// Repeating bookings whose base start precedes the window still produce
	// occurrences inside it.
	repeating := true
	repeats, err := s.bookings.ListBookings(ctx, params.Principal.OrgID, persistence.BookingFilter{
		AssignedToID: params.AssignedToID,
		Repeating:    &repeating,
	})
	if err != nil {
		return nil, nil, mapRepoError(err)
	}

	for _, booking := range repeats {
		if booking.RepeatRule == nil {
			continue
		}
		base := toCalendarBooking(booking)
		expanded, err := s.recurrence.Expand(base, *booking.RepeatRule, fetchStart, weekEnd)
		if err != nil {
			s.loggerWith(ctx, "WeekView", "booking_id", booking.ID).
				WarnContext(ctx, "skipping unexpandable repeat rule", "error", err)
			continue
		}
		for _, occ := range expanded {
			if _, ok := parents[occ.ID]; ok {
				continue
			}
			if !occ.End().After(weekStart) {
				continue
			}
			parents[occ.ID] = booking.ID
			occurrences = append(occurrences, occ)
		}
	}

	sort.SliceStable(occurrences, func(i, j int) bool {
		if occurrences[i].Start.Equal(occurrences[j].Start) {
			return occurrences[i].ID < occurrences[j].ID
		}
		return occurrences[i].Start.Before(occurrences[j].Start)
	})

	return occurrences, parents, nil
}

// weekSegments turns the window's occurrences into render segments split at
// midnight. Continuation segments inherit their occurrence's parent, so a
// booking id is never reverse-engineered from a derived id.
func (s *BookingService) weekSegments(ctx context.Context, params WeekViewParams, weekStart, weekEnd time.Time) ([]calendar.Booking, map[string]string, error) {
	occurrences, parents, err := s.weekOccurrences(ctx, params, weekStart, weekEnd)
	if err != nil {
		return nil, nil, err
	}

	segments := make([]calendar.Booking, 0, len(occurrences))
	for _, occ := range occurrences {
		split := calendar.SplitAtMidnight(occ)
		for _, segment := range split {
			if segment.ID != occ.ID {
				parents[segment.ID] = parents[occ.ID]
			}
		}
		segments = append(segments, split...)
	}
	return segments, parents, nil
}

func (s *BookingService) scopedBooking(ctx context.Context, principal Principal, bookingID string) (persistence.Booking, error) {
	booking, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return persistence.Booking{}, mapRepoError(err)
	}
	if booking.OrgID != principal.OrgID {
		return persistence.Booking{}, ErrNotFound
	}
	return booking, nil
}

func toCalendarBooking(b persistence.Booking) calendar.Booking {
	assignedTo := ""
	if b.AssignedToID != nil {
		assignedTo = *b.AssignedToID
	}
	return calendar.Booking{
		ID:           b.ID,
		Title:        b.Title,
		Start:        b.Start,
		Duration:     b.Duration,
		AssignedToID: assignedTo,
	}
}

func toConflictingBookings(conflicts []calendar.Booking) []ConflictingBooking {
	out := make([]ConflictingBooking, 0, len(conflicts))
	for _, c := range conflicts {
		out = append(out, ConflictingBooking{
			ID:           c.ID,
			Title:        c.Title,
			Start:        c.Start,
			Duration:     c.Duration,
			AssignedToID: c.AssignedToID,
		})
	}
	return out
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// repositoryOverlapChecker answers the conflict guard's overlap query from
// the booking repository. It considers every booking of the assignee, not
// just the visible week, and drops the booking being edited.
type repositoryOverlapChecker struct {
	bookings persistence.BookingRepository
	orgID    string
}

func (c *repositoryOverlapChecker) CheckForOverlaps(ctx context.Context, excludeID, assignedToID string, start time.Time, duration time.Duration) ([]calendar.Booking, error) {
	if assignedToID == "" {
		return nil, nil
	}

	stored, err := c.bookings.ListBookings(ctx, c.orgID, persistence.BookingFilter{
		AssignedToID: &assignedToID,
	})
	if err != nil {
		return nil, err
	}

	candidate := calendar.Booking{ID: excludeID, Start: start, Duration: duration, AssignedToID: assignedToID}

	var conflicts []calendar.Booking
	for _, booking := range stored {
		if booking.ID == excludeID {
			continue
		}
		existing := toCalendarBooking(booking)
		if calendar.Overlaps(candidate, existing) {
			conflicts = append(conflicts, existing)
		}
	}
	return conflicts, nil
}
