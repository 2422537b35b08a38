package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/example/pawdesk/internal/persistence"
)

// VetService manages the external veterinarians an organization coordinates
// with and their clinic links.
type VetService struct {
	vets        persistence.VetRepository
	clinics     persistence.ClinicRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewVetService wires dependencies for vet operations.
func NewVetService(vets persistence.VetRepository, clinics persistence.ClinicRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *VetService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &VetService{
		vets:        vets,
		clinics:     clinics,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *VetService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "VetService", operation, attrs...)
}

func (s *VetService) validateVetInput(ctx context.Context, principal Principal, input VetInput) error {
	vErr := &ValidationError{}
	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if email := strings.TrimSpace(input.Email); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			vErr.add("email", "must be a valid email address")
		}
	}

	for _, clinicID := range uniqueStrings(input.ClinicIDs) {
		clinic, err := s.clinics.GetClinic(ctx, clinicID)
		if err != nil || clinic.OrgID != principal.OrgID {
			vErr.add("clinic_ids", fmt.Sprintf("unknown clinic id: %s", clinicID))
			break
		}
	}

	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

// CreateVet registers a vet in the principal's organization and links its
// clinics.
func (s *VetService) CreateVet(ctx context.Context, principal Principal, input VetInput) (Vet, error) {
	if s == nil {
		return Vet{}, fmt.Errorf("VetService is nil")
	}
	if s.vets == nil {
		return Vet{}, fmt.Errorf("vet repository not configured")
	}

	if err := s.validateVetInput(ctx, principal, input); err != nil {
		return Vet{}, err
	}

	now := s.now()
	vet := persistence.Vet{
		ID:        s.idGenerator(),
		OrgID:     principal.OrgID,
		Name:      strings.TrimSpace(input.Name),
		Email:     strings.TrimSpace(input.Email),
		Phone:     strings.TrimSpace(input.Phone),
		ClinicIDs: uniqueStrings(input.ClinicIDs),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.vets.CreateVet(ctx, vet); err != nil {
		return Vet{}, mapRepoError(err)
	}
	if err := s.vets.SetVetClinics(ctx, vet.ID, vet.ClinicIDs); err != nil {
		return Vet{}, mapRepoError(err)
	}

	s.loggerWith(ctx, "CreateVet", "vet_id", vet.ID).InfoContext(ctx, "vet created")
	return fromPersistenceVet(vet), nil
}

// UpdateVet modifies a vet and replaces its clinic links.
func (s *VetService) UpdateVet(ctx context.Context, principal Principal, vetID string, input VetInput) (Vet, error) {
	if s == nil {
		return Vet{}, fmt.Errorf("VetService is nil")
	}
	if s.vets == nil {
		return Vet{}, fmt.Errorf("vet repository not configured")
	}

	existing, err := s.scopedVet(ctx, principal, vetID)
	if err != nil {
		return Vet{}, err
	}

	if err := s.validateVetInput(ctx, principal, input); err != nil {
		return Vet{}, err
	}

	existing.Name = strings.TrimSpace(input.Name)
	existing.Email = strings.TrimSpace(input.Email)
	existing.Phone = strings.TrimSpace(input.Phone)
	existing.ClinicIDs = uniqueStrings(input.ClinicIDs)
	existing.UpdatedAt = s.now()

	if err := s.vets.UpdateVet(ctx, existing); err != nil {
		return Vet{}, mapRepoError(err)
	}
	if err := s.vets.SetVetClinics(ctx, existing.ID, existing.ClinicIDs); err != nil {
		return Vet{}, mapRepoError(err)
	}

	s.loggerWith(ctx, "UpdateVet", "vet_id", existing.ID).InfoContext(ctx, "vet updated")
	return fromPersistenceVet(existing), nil
}

// GetVet returns a vet in the principal's organization.
func (s *VetService) GetVet(ctx context.Context, principal Principal, vetID string) (Vet, error) {
	if s == nil {
		return Vet{}, fmt.Errorf("VetService is nil")
	}
	if s.vets == nil {
		return Vet{}, fmt.Errorf("vet repository not configured")
	}

	vet, err := s.scopedVet(ctx, principal, vetID)
	if err != nil {
		return Vet{}, err
	}
	return fromPersistenceVet(vet), nil
}

// ListVets enumerates the vets of the principal's organization.
func (s *VetService) ListVets(ctx context.Context, principal Principal) ([]Vet, error) {
	if s == nil {
		return nil, fmt.Errorf("VetService is nil")
	}
	if s.vets == nil {
		return nil, fmt.Errorf("vet repository not configured")
	}

	stored, err := s.vets.ListVets(ctx, principal.OrgID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	vets := make([]Vet, 0, len(stored))
	for _, vet := range stored {
		vets = append(vets, fromPersistenceVet(vet))
	}
	return vets, nil
}

// DeleteVet removes a vet from the principal's organization.
func (s *VetService) DeleteVet(ctx context.Context, principal Principal, vetID string) error {
	if s == nil {
		return fmt.Errorf("VetService is nil")
	}
	if s.vets == nil {
		return fmt.Errorf("vet repository not configured")
	}

	if _, err := s.scopedVet(ctx, principal, vetID); err != nil {
		return err
	}

	if err := s.vets.DeleteVet(ctx, vetID); err != nil {
		return mapRepoError(err)
	}

	s.loggerWith(ctx, "DeleteVet", "vet_id", vetID).InfoContext(ctx, "vet deleted")
	return nil
}

func (s *VetService) scopedVet(ctx context.Context, principal Principal, vetID string) (persistence.Vet, error) {
	vet, err := s.vets.GetVet(ctx, vetID)
	if err != nil {
		return persistence.Vet{}, mapRepoError(err)
	}
	if vet.OrgID != principal.OrgID {
		return persistence.Vet{}, ErrNotFound
	}
	return vet, nil
}
