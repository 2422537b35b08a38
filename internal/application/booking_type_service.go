package application

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/example/pawdesk/internal/persistence"
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// BookingTypeService manages booking categories and their scheduling
// defaults.
type BookingTypeService struct {
	types       persistence.BookingTypeRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewBookingTypeService wires dependencies for booking type operations.
func NewBookingTypeService(types persistence.BookingTypeRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *BookingTypeService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &BookingTypeService{
		types:       types,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *BookingTypeService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "BookingTypeService", operation, attrs...)
}

func validateBookingTypeInput(input BookingTypeInput) error {
	vErr := &ValidationError{}
	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if input.Color != "" && !colorPattern.MatchString(input.Color) {
		vErr.add("color", "color must look like #rrggbb")
	}
	if input.DefaultDuration < 0 {
		vErr.add("default_duration", "default duration cannot be negative")
	}
	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

// CreateBookingType registers a booking category in the principal's
// organization.
func (s *BookingTypeService) CreateBookingType(ctx context.Context, principal Principal, input BookingTypeInput) (BookingType, error) {
	if s == nil {
		return BookingType{}, fmt.Errorf("BookingTypeService is nil")
	}
	if s.types == nil {
		return BookingType{}, fmt.Errorf("booking type repository not configured")
	}

	if err := validateBookingTypeInput(input); err != nil {
		return BookingType{}, err
	}

	now := s.now()
	bt := persistence.BookingType{
		ID:              s.idGenerator(),
		OrgID:           principal.OrgID,
		Name:            strings.TrimSpace(input.Name),
		Color:           input.Color,
		DefaultDuration: input.DefaultDuration,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.types.CreateBookingType(ctx, bt); err != nil {
		return BookingType{}, mapRepoError(err)
	}

	s.loggerWith(ctx, "CreateBookingType", "booking_type_id", bt.ID).InfoContext(ctx, "booking type created")
	return fromPersistenceBookingType(bt), nil
}

// UpdateBookingType modifies a booking category.
func (s *BookingTypeService) UpdateBookingType(ctx context.Context, principal Principal, typeID string, input BookingTypeInput) (BookingType, error) {
	if s == nil {
		return BookingType{}, fmt.Errorf("BookingTypeService is nil")
	}
	if s.types == nil {
		return BookingType{}, fmt.Errorf("booking type repository not configured")
	}

	existing, err := s.scopedBookingType(ctx, principal, typeID)
	if err != nil {
		return BookingType{}, err
	}

	if err := validateBookingTypeInput(input); err != nil {
		return BookingType{}, err
	}

	existing.Name = strings.TrimSpace(input.Name)
	existing.Color = input.Color
	existing.DefaultDuration = input.DefaultDuration
	existing.UpdatedAt = s.now()

	if err := s.types.UpdateBookingType(ctx, existing); err != nil {
		return BookingType{}, mapRepoError(err)
	}

	s.loggerWith(ctx, "UpdateBookingType", "booking_type_id", existing.ID).InfoContext(ctx, "booking type updated")
	return fromPersistenceBookingType(existing), nil
}

// GetBookingType returns a booking category in the principal's organization.
func (s *BookingTypeService) GetBookingType(ctx context.Context, principal Principal, typeID string) (BookingType, error) {
	if s == nil {
		return BookingType{}, fmt.Errorf("BookingTypeService is nil")
	}
	if s.types == nil {
		return BookingType{}, fmt.Errorf("booking type repository not configured")
	}

	bt, err := s.scopedBookingType(ctx, principal, typeID)
	if err != nil {
		return BookingType{}, err
	}
	return fromPersistenceBookingType(bt), nil
}

// ListBookingTypes enumerates the booking categories of the principal's
// organization.
func (s *BookingTypeService) ListBookingTypes(ctx context.Context, principal Principal) ([]BookingType, error) {
	if s == nil {
		return nil, fmt.Errorf("BookingTypeService is nil")
	}
	if s.types == nil {
		return nil, fmt.Errorf("booking type repository not configured")
	}

	stored, err := s.types.ListBookingTypes(ctx, principal.OrgID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	types := make([]BookingType, 0, len(stored))
	for _, bt := range stored {
		types = append(types, fromPersistenceBookingType(bt))
	}
	return types, nil
}

// DeleteBookingType removes a booking category; bookings referencing it keep
// their stored duration and lose only the category link.
func (s *BookingTypeService) DeleteBookingType(ctx context.Context, principal Principal, typeID string) error {
	if s == nil {
		return fmt.Errorf("BookingTypeService is nil")
	}
	if s.types == nil {
		return fmt.Errorf("booking type repository not configured")
	}

	if _, err := s.scopedBookingType(ctx, principal, typeID); err != nil {
		return err
	}

	if err := s.types.DeleteBookingType(ctx, typeID); err != nil {
		return mapRepoError(err)
	}

	s.loggerWith(ctx, "DeleteBookingType", "booking_type_id", typeID).InfoContext(ctx, "booking type deleted")
	return nil
}

func (s *BookingTypeService) scopedBookingType(ctx context.Context, principal Principal, typeID string) (persistence.BookingType, error) {
	bt, err := s.types.GetBookingType(ctx, typeID)
	if err != nil {
		return persistence.BookingType{}, mapRepoError(err)
	}
	if bt.OrgID != principal.OrgID {
		return persistence.BookingType{}, ErrNotFound
	}
	return bt, nil
}
