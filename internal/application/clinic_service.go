package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/pawdesk/internal/persistence"
)

// ClinicService manages the veterinary clinics an organization works with.
type ClinicService struct {
	clinics     persistence.ClinicRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewClinicService wires dependencies for clinic operations.
func NewClinicService(clinics persistence.ClinicRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ClinicService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ClinicService{
		clinics:     clinics,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *ClinicService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ClinicService", operation, attrs...)
}

// CreateClinic registers a clinic in the principal's organization.
func (s *ClinicService) CreateClinic(ctx context.Context, principal Principal, input ClinicInput) (Clinic, error) {
	if s == nil {
		return Clinic{}, fmt.Errorf("ClinicService is nil")
	}
	if s.clinics == nil {
		return Clinic{}, fmt.Errorf("clinic repository not configured")
	}

	if strings.TrimSpace(input.Name) == "" {
		vErr := &ValidationError{}
		vErr.add("name", "name is required")
		return Clinic{}, vErr
	}

	now := s.now()
	clinic := persistence.Clinic{
		ID:        s.idGenerator(),
		OrgID:     principal.OrgID,
		Name:      strings.TrimSpace(input.Name),
		Address:   strings.TrimSpace(input.Address),
		Phone:     strings.TrimSpace(input.Phone),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.clinics.CreateClinic(ctx, clinic); err != nil {
		return Clinic{}, mapRepoError(err)
	}

	s.loggerWith(ctx, "CreateClinic", "clinic_id", clinic.ID).InfoContext(ctx, "clinic created")
	return fromPersistenceClinic(clinic), nil
}

// UpdateClinic modifies a clinic in the principal's organization.
func (s *ClinicService) UpdateClinic(ctx context.Context, principal Principal, clinicID string, input ClinicInput) (Clinic, error) {
	if s == nil {
		return Clinic{}, fmt.Errorf("ClinicService is nil")
	}
	if s.clinics == nil {
		return Clinic{}, fmt.Errorf("clinic repository not configured")
	}

	existing, err := s.scopedClinic(ctx, principal, clinicID)
	if err != nil {
		return Clinic{}, err
	}

	if strings.TrimSpace(input.Name) == "" {
		vErr := &ValidationError{}
		vErr.add("name", "name is required")
		return Clinic{}, vErr
	}

	existing.Name = strings.TrimSpace(input.Name)
	existing.Address = strings.TrimSpace(input.Address)
	existing.Phone = strings.TrimSpace(input.Phone)
	existing.UpdatedAt = s.now()

	if err := s.clinics.UpdateClinic(ctx, existing); err != nil {
		return Clinic{}, mapRepoError(err)
	}

	s.loggerWith(ctx, "UpdateClinic", "clinic_id", existing.ID).InfoContext(ctx, "clinic updated")
	return fromPersistenceClinic(existing), nil
}

// GetClinic returns a clinic in the principal's organization.
func (s *ClinicService) GetClinic(ctx context.Context, principal Principal, clinicID string) (Clinic, error) {
	if s == nil {
		return Clinic{}, fmt.Errorf("ClinicService is nil")
	}
	if s.clinics == nil {
		return Clinic{}, fmt.Errorf("clinic repository not configured")
	}

	clinic, err := s.scopedClinic(ctx, principal, clinicID)
	if err != nil {
		return Clinic{}, err
	}
	return fromPersistenceClinic(clinic), nil
}

// ListClinics enumerates the clinics of the principal's organization.
func (s *ClinicService) ListClinics(ctx context.Context, principal Principal) ([]Clinic, error) {
	if s == nil {
		return nil, fmt.Errorf("ClinicService is nil")
	}
	if s.clinics == nil {
		return nil, fmt.Errorf("clinic repository not configured")
	}

	stored, err := s.clinics.ListClinics(ctx, principal.OrgID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	clinics := make([]Clinic, 0, len(stored))
	for _, clinic := range stored {
		clinics = append(clinics, fromPersistenceClinic(clinic))
	}
	return clinics, nil
}

// DeleteClinic removes a clinic from the principal's organization.
func (s *ClinicService) DeleteClinic(ctx context.Context, principal Principal, clinicID string) error {
	if s == nil {
		return fmt.Errorf("ClinicService is nil")
	}
	if s.clinics == nil {
		return fmt.Errorf("clinic repository not configured")
	}

	if _, err := s.scopedClinic(ctx, principal, clinicID); err != nil {
		return err
	}

	if err := s.clinics.DeleteClinic(ctx, clinicID); err != nil {
		return mapRepoError(err)
	}

	s.loggerWith(ctx, "DeleteClinic", "clinic_id", clinicID).InfoContext(ctx, "clinic deleted")
	return nil
}

func (s *ClinicService) scopedClinic(ctx context.Context, principal Principal, clinicID string) (persistence.Clinic, error) {
	clinic, err := s.clinics.GetClinic(ctx, clinicID)
	if err != nil {
		return persistence.Clinic{}, mapRepoError(err)
	}
	if clinic.OrgID != principal.OrgID {
		return persistence.Clinic{}, ErrNotFound
	}
	return clinic, nil
}
