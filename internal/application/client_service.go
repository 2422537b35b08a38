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

// ClientService manages the pet owners of an organization.
type ClientService struct {
	clients     persistence.ClientRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewClientService wires dependencies for client operations.
func NewClientService(clients persistence.ClientRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ClientService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ClientService{
		clients:     clients,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *ClientService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ClientService", operation, attrs...)
}

func validateClientInput(input ClientInput) error {
	vErr := &ValidationError{}
	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if email := strings.TrimSpace(input.Email); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			vErr.add("email", "must be a valid email address")
		}
	}
	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

// CreateClient registers a pet owner in the principal's organization.
func (s *ClientService) CreateClient(ctx context.Context, principal Principal, input ClientInput) (Client, error) {
	if s == nil {
		return Client{}, fmt.Errorf("ClientService is nil")
	}
	if s.clients == nil {
		return Client{}, fmt.Errorf("client repository not configured")
	}

	if err := validateClientInput(input); err != nil {
		return Client{}, err
	}

	now := s.now()
	client := persistence.Client{
		ID:        s.idGenerator(),
		OrgID:     principal.OrgID,
		Name:      strings.TrimSpace(input.Name),
		Email:     strings.TrimSpace(input.Email),
		Phone:     strings.TrimSpace(input.Phone),
		Notes:     input.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.clients.CreateClient(ctx, client); err != nil {
		return Client{}, mapRepoError(err)
	}

	s.loggerWith(ctx, "CreateClient", "client_id", client.ID).InfoContext(ctx, "client created")
	return fromPersistenceClient(client), nil
}

// UpdateClient modifies a pet owner in the principal's organization.
func (s *ClientService) UpdateClient(ctx context.Context, principal Principal, clientID string, input ClientInput) (Client, error) {
	if s == nil {
		return Client{}, fmt.Errorf("ClientService is nil")
	}
	if s.clients == nil {
		return Client{}, fmt.Errorf("client repository not configured")
	}

	existing, err := s.scopedClient(ctx, principal, clientID)
	if err != nil {
		return Client{}, err
	}

	if err := validateClientInput(input); err != nil {
		return Client{}, err
	}

	existing.Name = strings.TrimSpace(input.Name)
	existing.Email = strings.TrimSpace(input.Email)
	existing.Phone = strings.TrimSpace(input.Phone)
	existing.Notes = input.Notes
	existing.UpdatedAt = s.now()

	if err := s.clients.UpdateClient(ctx, existing); err != nil {
		return Client{}, mapRepoError(err)
	}

	s.loggerWith(ctx, "UpdateClient", "client_id", existing.ID).InfoContext(ctx, "client updated")
	return fromPersistenceClient(existing), nil
}

// GetClient returns a pet owner in the principal's organization.
func (s *ClientService) GetClient(ctx context.Context, principal Principal, clientID string) (Client, error) {
	if s == nil {
		return Client{}, fmt.Errorf("ClientService is nil")
	}
	if s.clients == nil {
		return Client{}, fmt.Errorf("client repository not configured")
	}

	client, err := s.scopedClient(ctx, principal, clientID)
	if err != nil {
		return Client{}, err
	}
	return fromPersistenceClient(client), nil
}

// ListClients enumerates the pet owners of the principal's organization.
func (s *ClientService) ListClients(ctx context.Context, principal Principal) ([]Client, error) {
	if s == nil {
		return nil, fmt.Errorf("ClientService is nil")
	}
	if s.clients == nil {
		return nil, fmt.Errorf("client repository not configured")
	}

	stored, err := s.clients.ListClients(ctx, principal.OrgID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	clients := make([]Client, 0, len(stored))
	for _, client := range stored {
		clients = append(clients, fromPersistenceClient(client))
	}
	return clients, nil
}

// DeleteClient removes a pet owner from the principal's organization.
func (s *ClientService) DeleteClient(ctx context.Context, principal Principal, clientID string) error {
	if s == nil {
		return fmt.Errorf("ClientService is nil")
	}
	if s.clients == nil {
		return fmt.Errorf("client repository not configured")
	}

	if _, err := s.scopedClient(ctx, principal, clientID); err != nil {
		return err
	}

	if err := s.clients.DeleteClient(ctx, clientID); err != nil {
		return mapRepoError(err)
	}

	s.loggerWith(ctx, "DeleteClient", "client_id", clientID).InfoContext(ctx, "client deleted")
	return nil
}

func (s *ClientService) scopedClient(ctx context.Context, principal Principal, clientID string) (persistence.Client, error) {
	client, err := s.clients.GetClient(ctx, clientID)
	if err != nil {
		return persistence.Client{}, mapRepoError(err)
	}
	if client.OrgID != principal.OrgID {
		return persistence.Client{}, ErrNotFound
	}
	return client, nil
}
