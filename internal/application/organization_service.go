package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/pawdesk/internal/persistence"
)

// OrganizationService manages tenants and the invite flow that adds staff to
// them.
type OrganizationService struct {
	organizations persistence.OrganizationRepository
	users         persistence.UserRepository
	invites       *InviteIssuer
	idGenerator   func() string
	now           func() time.Time
	logger        *slog.Logger
}

// NewOrganizationService wires dependencies for organization operations.
func NewOrganizationService(organizations persistence.OrganizationRepository, users persistence.UserRepository, invites *InviteIssuer, idGenerator func() string, now func() time.Time, logger *slog.Logger) *OrganizationService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &OrganizationService{
		organizations: organizations,
		users:         users,
		invites:       invites,
		idGenerator:   idGenerator,
		now:           now,
		logger:        defaultLogger(logger),
	}
}

func (s *OrganizationService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "OrganizationService", operation, attrs...)
}

func validateOrganizationInput(input OrganizationInput) error {
	vErr := &ValidationError{}
	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if tz := strings.TrimSpace(input.Timezone); tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			vErr.add("timezone", "unknown timezone")
		}
	}
	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

// CreateOrganization registers a new tenant together with its first admin
// account.
func (s *OrganizationService) CreateOrganization(ctx context.Context, input OrganizationInput, admin UserInput) (Organization, User, error) {
	if s == nil {
		return Organization{}, User{}, fmt.Errorf("OrganizationService is nil")
	}
	if s.organizations == nil || s.users == nil {
		return Organization{}, User{}, fmt.Errorf("organization repositories not configured")
	}

	logger := s.loggerWith(ctx, "CreateOrganization", "name", input.Name)

	if err := validateOrganizationInput(input); err != nil {
		return Organization{}, User{}, err
	}
	vErr := &ValidationError{}
	validateUserCore(admin, vErr, true)
	if vErr.HasErrors() {
		return Organization{}, User{}, vErr
	}

	hash, err := hashPassword(admin.Password, defaultArgon2idParams)
	if err != nil {
		return Organization{}, User{}, err
	}

	now := s.now()
	org := persistence.Organization{
		ID:        s.idGenerator(),
		Name:      strings.TrimSpace(input.Name),
		Timezone:  strings.TrimSpace(input.Timezone),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if org.Timezone == "" {
		org.Timezone = "UTC"
	}

	if err := s.organizations.CreateOrganization(ctx, org); err != nil {
		return Organization{}, User{}, mapRepoError(err)
	}

	user := persistence.User{
		ID:           s.idGenerator(),
		OrgID:        org.ID,
		Email:        strings.TrimSpace(strings.ToLower(admin.Email)),
		DisplayName:  strings.TrimSpace(admin.DisplayName),
		Role:         RoleAdmin,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return Organization{}, User{}, mapRepoError(err)
	}

	logger.With("org_id", org.ID, "admin_id", user.ID).InfoContext(ctx, "organization created")
	return fromPersistenceOrganization(org), fromPersistenceUser(user), nil
}

// GetOrganization returns the principal's own organization.
func (s *OrganizationService) GetOrganization(ctx context.Context, principal Principal) (Organization, error) {
	if s == nil {
		return Organization{}, fmt.Errorf("OrganizationService is nil")
	}
	if s.organizations == nil {
		return Organization{}, fmt.Errorf("organization repository not configured")
	}

	org, err := s.organizations.GetOrganization(ctx, principal.OrgID)
	if err != nil {
		return Organization{}, mapRepoError(err)
	}
	return fromPersistenceOrganization(org), nil
}

// UpdateOrganization updates the principal's own organization. Admin only.
func (s *OrganizationService) UpdateOrganization(ctx context.Context, principal Principal, input OrganizationInput) (Organization, error) {
	if s == nil {
		return Organization{}, fmt.Errorf("OrganizationService is nil")
	}
	if s.organizations == nil {
		return Organization{}, fmt.Errorf("organization repository not configured")
	}
	if !principal.IsAdmin() {
		return Organization{}, ErrUnauthorized
	}

	if err := validateOrganizationInput(input); err != nil {
		return Organization{}, err
	}

	existing, err := s.organizations.GetOrganization(ctx, principal.OrgID)
	if err != nil {
		return Organization{}, mapRepoError(err)
	}

	existing.Name = strings.TrimSpace(input.Name)
	if tz := strings.TrimSpace(input.Timezone); tz != "" {
		existing.Timezone = tz
	}
	existing.UpdatedAt = s.now()

	if err := s.organizations.UpdateOrganization(ctx, existing); err != nil {
		return Organization{}, mapRepoError(err)
	}

	s.loggerWith(ctx, "UpdateOrganization", "org_id", existing.ID).InfoContext(ctx, "organization updated")
	return fromPersistenceOrganization(existing), nil
}

// IssueInvite mints a signed token that lets its bearer join the principal's
// organization with the given role. Admin only.
func (s *OrganizationService) IssueInvite(ctx context.Context, principal Principal, role string) (Invite, error) {
	if s == nil {
		return Invite{}, fmt.Errorf("OrganizationService is nil")
	}
	if s.invites == nil {
		return Invite{}, fmt.Errorf("invite issuer not configured")
	}
	if !principal.IsAdmin() {
		return Invite{}, ErrUnauthorized
	}

	if role != RoleAdmin && role != RoleStaff {
		vErr := &ValidationError{}
		vErr.add("role", "role must be admin or staff")
		return Invite{}, vErr
	}

	invite, err := s.invites.Issue(principal.OrgID, role)
	if err != nil {
		return Invite{}, err
	}

	s.loggerWith(ctx, "IssueInvite", "org_id", principal.OrgID, "role", role).InfoContext(ctx, "invite issued")
	return invite, nil
}

// AcceptInvite redeems an invite token and creates the invited account.
func (s *OrganizationService) AcceptInvite(ctx context.Context, params AcceptInviteParams) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("OrganizationService is nil")
	}
	if s.invites == nil || s.users == nil || s.organizations == nil {
		return User{}, fmt.Errorf("invite dependencies not configured")
	}

	logger := s.loggerWith(ctx, "AcceptInvite")

	orgID, role, err := s.invites.Verify(params.Token)
	if err != nil {
		logger.WarnContext(ctx, "invite rejected", "error", err, "error_kind", ErrorKind(err))
		return User{}, err
	}

	vErr := &ValidationError{}
	validateUserCore(UserInput{Email: params.Email, DisplayName: params.DisplayName, Role: role, Password: params.Password}, vErr, true)
	if vErr.HasErrors() {
		return User{}, vErr
	}

	// The organization may have been deleted since the invite was minted.
	if _, err := s.organizations.GetOrganization(ctx, orgID); err != nil {
		if mapRepoError(err) == ErrNotFound {
			return User{}, ErrInviteInvalid
		}
		return User{}, mapRepoError(err)
	}

	hash, err := hashPassword(params.Password, defaultArgon2idParams)
	if err != nil {
		return User{}, err
	}

	now := s.now()
	user := persistence.User{
		ID:           s.idGenerator(),
		OrgID:        orgID,
		Email:        strings.TrimSpace(strings.ToLower(params.Email)),
		DisplayName:  strings.TrimSpace(params.DisplayName),
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return User{}, mapRepoError(err)
	}

	logger.With("org_id", orgID, "user_id", user.ID).InfoContext(ctx, "invite accepted")
	return fromPersistenceUser(user), nil
}
