package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/pawdesk/internal/persistence"
)

// DogService manages patients and their owner/vet relationships.
type DogService struct {
	dogs        persistence.DogRepository
	clients     persistence.ClientRepository
	vets        persistence.VetRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewDogService wires dependencies for dog operations.
func NewDogService(dogs persistence.DogRepository, clients persistence.ClientRepository, vets persistence.VetRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *DogService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &DogService{
		dogs:        dogs,
		clients:     clients,
		vets:        vets,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *DogService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "DogService", operation, attrs...)
}

func (s *DogService) validateDogInput(ctx context.Context, principal Principal, input DogInput) error {
	vErr := &ValidationError{}
	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if input.BirthDate != nil && input.BirthDate.After(s.now()) {
		vErr.add("birth_date", "birth date cannot be in the future")
	}

	for _, ownerID := range uniqueStrings(input.OwnerIDs) {
		client, err := s.clients.GetClient(ctx, ownerID)
		if err != nil || client.OrgID != principal.OrgID {
			vErr.add("owner_ids", fmt.Sprintf("unknown client id: %s", ownerID))
			break
		}
	}
	for _, vetID := range uniqueStrings(input.VetIDs) {
		vet, err := s.vets.GetVet(ctx, vetID)
		if err != nil || vet.OrgID != principal.OrgID {
			vErr.add("vet_ids", fmt.Sprintf("unknown vet id: %s", vetID))
			break
		}
	}

	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

// CreateDog registers a dog in the principal's organization and links its
// owners and vets.
func (s *DogService) CreateDog(ctx context.Context, principal Principal, input DogInput) (Dog, error) {
	if s == nil {
		return Dog{}, fmt.Errorf("DogService is nil")
	}
	if s.dogs == nil {
		return Dog{}, fmt.Errorf("dog repository not configured")
	}

	if err := s.validateDogInput(ctx, principal, input); err != nil {
		return Dog{}, err
	}

	now := s.now()
	dog := persistence.Dog{
		ID:        s.idGenerator(),
		OrgID:     principal.OrgID,
		Name:      strings.TrimSpace(input.Name),
		Breed:     strings.TrimSpace(input.Breed),
		BirthDate: input.BirthDate,
		Notes:     input.Notes,
		OwnerIDs:  uniqueStrings(input.OwnerIDs),
		VetIDs:    uniqueStrings(input.VetIDs),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.dogs.CreateDog(ctx, dog); err != nil {
		return Dog{}, mapRepoError(err)
	}
	if err := s.dogs.SetDogOwners(ctx, dog.ID, dog.OwnerIDs); err != nil {
		return Dog{}, mapRepoError(err)
	}
	if err := s.dogs.SetDogVets(ctx, dog.ID, dog.VetIDs); err != nil {
		return Dog{}, mapRepoError(err)
	}

	s.loggerWith(ctx, "CreateDog", "dog_id", dog.ID).InfoContext(ctx, "dog created")
	return fromPersistenceDog(dog), nil
}

// UpdateDog modifies a dog and replaces its owner and vet links.
func (s *DogService) UpdateDog(ctx context.Context, principal Principal, dogID string, input DogInput) (Dog, error) {
	if s == nil {
		return Dog{}, fmt.Errorf("DogService is nil")
	}
	if s.dogs == nil {
		return Dog{}, fmt.Errorf("dog repository not configured")
	}

	existing, err := s.scopedDog(ctx, principal, dogID)
	if err != nil {
		return Dog{}, err
	}

	if err := s.validateDogInput(ctx, principal, input); err != nil {
		return Dog{}, err
	}

	existing.Name = strings.TrimSpace(input.Name)
	existing.Breed = strings.TrimSpace(input.Breed)
	existing.BirthDate = input.BirthDate
	existing.Notes = input.Notes
	existing.OwnerIDs = uniqueStrings(input.OwnerIDs)
	existing.VetIDs = uniqueStrings(input.VetIDs)
	existing.UpdatedAt = s.now()

	if err := s.dogs.UpdateDog(ctx, existing); err != nil {
		return Dog{}, mapRepoError(err)
	}
	if err := s.dogs.SetDogOwners(ctx, existing.ID, existing.OwnerIDs); err != nil {
		return Dog{}, mapRepoError(err)
	}
	if err := s.dogs.SetDogVets(ctx, existing.ID, existing.VetIDs); err != nil {
		return Dog{}, mapRepoError(err)
	}

	s.loggerWith(ctx, "UpdateDog", "dog_id", existing.ID).InfoContext(ctx, "dog updated")
	return fromPersistenceDog(existing), nil
}

// GetDog returns a dog in the principal's organization.
func (s *DogService) GetDog(ctx context.Context, principal Principal, dogID string) (Dog, error) {
	if s == nil {
		return Dog{}, fmt.Errorf("DogService is nil")
	}
	if s.dogs == nil {
		return Dog{}, fmt.Errorf("dog repository not configured")
	}

	dog, err := s.scopedDog(ctx, principal, dogID)
	if err != nil {
		return Dog{}, err
	}
	return fromPersistenceDog(dog), nil
}

// ListDogs enumerates the dogs of the principal's organization.
func (s *DogService) ListDogs(ctx context.Context, principal Principal) ([]Dog, error) {
	if s == nil {
		return nil, fmt.Errorf("DogService is nil")
	}
	if s.dogs == nil {
		return nil, fmt.Errorf("dog repository not configured")
	}

	stored, err := s.dogs.ListDogs(ctx, principal.OrgID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	dogs := make([]Dog, 0, len(stored))
	for _, dog := range stored {
		dogs = append(dogs, fromPersistenceDog(dog))
	}
	return dogs, nil
}

// DeleteDog removes a dog from the principal's organization.
func (s *DogService) DeleteDog(ctx context.Context, principal Principal, dogID string) error {
	if s == nil {
		return fmt.Errorf("DogService is nil")
	}
	if s.dogs == nil {
		return fmt.Errorf("dog repository not configured")
	}

	if _, err := s.scopedDog(ctx, principal, dogID); err != nil {
		return err
	}

	if err := s.dogs.DeleteDog(ctx, dogID); err != nil {
		return mapRepoError(err)
	}

	s.loggerWith(ctx, "DeleteDog", "dog_id", dogID).InfoContext(ctx, "dog deleted")
	return nil
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, value := range values {
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	return result
}

func (s *DogService) scopedDog(ctx context.Context, principal Principal, dogID string) (persistence.Dog, error) {
	dog, err := s.dogs.GetDog(ctx, dogID)
	if err != nil {
		return persistence.Dog{}, mapRepoError(err)
	}
	if dog.OrgID != principal.OrgID {
		return persistence.Dog{}, ErrNotFound
	}
	return dog, nil
}
