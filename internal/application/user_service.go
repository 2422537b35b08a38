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

const minPasswordLength = 8

// UserService manages staff accounts within an organization.
type UserService struct {
	users       persistence.UserRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewUserService wires dependencies for user operations.
func NewUserService(users persistence.UserRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *UserService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &UserService{
		users:       users,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *UserService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "UserService", operation, attrs...)
}

func validateUserCore(input UserInput, vErr *ValidationError, requirePassword bool) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		vErr.add("email", "email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		vErr.add("email", "must be a valid email address")
	}

	if strings.TrimSpace(input.DisplayName) == "" {
		vErr.add("display_name", "display name is required")
	}

	if input.Role != "" && input.Role != RoleAdmin && input.Role != RoleStaff {
		vErr.add("role", "role must be admin or staff")
	}

	if requirePassword && len(input.Password) < minPasswordLength {
		vErr.add("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if !requirePassword && input.Password != "" && len(input.Password) < minPasswordLength {
		vErr.add("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
}

// CreateUser adds a staff account to the principal's organization. Admin only.
func (s *UserService) CreateUser(ctx context.Context, principal Principal, input UserInput) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("UserService is nil")
	}
	if s.users == nil {
		return User{}, fmt.Errorf("user repository not configured")
	}
	if !principal.IsAdmin() {
		return User{}, ErrUnauthorized
	}

	vErr := &ValidationError{}
	validateUserCore(input, vErr, true)
	if vErr.HasErrors() {
		return User{}, vErr
	}

	role := input.Role
	if role == "" {
		role = RoleStaff
	}

	hash, err := hashPassword(input.Password, defaultArgon2idParams)
	if err != nil {
		return User{}, err
	}

	now := s.now()
	user := persistence.User{
		ID:           s.idGenerator(),
		OrgID:        principal.OrgID,
		Email:        strings.TrimSpace(strings.ToLower(input.Email)),
		DisplayName:  strings.TrimSpace(input.DisplayName),
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return User{}, mapRepoError(err)
	}

	s.loggerWith(ctx, "CreateUser", "user_id", user.ID).InfoContext(ctx, "user created")
	return fromPersistenceUser(user), nil
}

// UpdateUser modifies a staff account. Staff may edit their own name, email
// and password; role changes and editing others require admin.
func (s *UserService) UpdateUser(ctx context.Context, principal Principal, userID string, input UserInput) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("UserService is nil")
	}
	if s.users == nil {
		return User{}, fmt.Errorf("user repository not configured")
	}

	existing, err := s.scopedUser(ctx, principal, userID)
	if err != nil {
		return User{}, err
	}

	if existing.ID != principal.UserID && !principal.IsAdmin() {
		return User{}, ErrUnauthorized
	}
	if input.Role != "" && input.Role != existing.Role && !principal.IsAdmin() {
		return User{}, ErrUnauthorized
	}

	vErr := &ValidationError{}
	validateUserCore(input, vErr, false)
	if vErr.HasErrors() {
		return User{}, vErr
	}

	existing.Email = strings.TrimSpace(strings.ToLower(input.Email))
	existing.DisplayName = strings.TrimSpace(input.DisplayName)
	if input.Role != "" {
		existing.Role = input.Role
	}
	if input.Password != "" {
		hash, err := hashPassword(input.Password, defaultArgon2idParams)
		if err != nil {
			return User{}, err
		}
		existing.PasswordHash = hash
	}
	existing.UpdatedAt = s.now()

	if err := s.users.UpdateUser(ctx, existing); err != nil {
		return User{}, mapRepoError(err)
	}

	s.loggerWith(ctx, "UpdateUser", "user_id", existing.ID).InfoContext(ctx, "user updated")
	return fromPersistenceUser(existing), nil
}

// GetUser returns a staff account in the principal's organization.
func (s *UserService) GetUser(ctx context.Context, principal Principal, userID string) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("UserService is nil")
	}
	if s.users == nil {
		return User{}, fmt.Errorf("user repository not configured")
	}

	user, err := s.scopedUser(ctx, principal, userID)
	if err != nil {
		return User{}, err
	}
	return fromPersistenceUser(user), nil
}

// ListUsers enumerates the staff accounts of the principal's organization.
func (s *UserService) ListUsers(ctx context.Context, principal Principal) ([]User, error) {
	if s == nil {
		return nil, fmt.Errorf("UserService is nil")
	}
	if s.users == nil {
		return nil, fmt.Errorf("user repository not configured")
	}

	stored, err := s.users.ListUsers(ctx, principal.OrgID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	users := make([]User, 0, len(stored))
	for _, user := range stored {
		users = append(users, fromPersistenceUser(user))
	}
	return users, nil
}

// DeleteUser removes a staff account. Admin only; admins cannot delete
// themselves so an organization always keeps at least one admin.
func (s *UserService) DeleteUser(ctx context.Context, principal Principal, userID string) error {
	if s == nil {
		return fmt.Errorf("UserService is nil")
	}
	if s.users == nil {
		return fmt.Errorf("user repository not configured")
	}
	if !principal.IsAdmin() {
		return ErrUnauthorized
	}
	if userID == principal.UserID {
		vErr := &ValidationError{}
		vErr.add("user_id", "cannot delete your own account")
		return vErr
	}

	if _, err := s.scopedUser(ctx, principal, userID); err != nil {
		return err
	}

	if err := s.users.DeleteUser(ctx, userID); err != nil {
		return mapRepoError(err)
	}

	s.loggerWith(ctx, "DeleteUser", "user_id", userID).InfoContext(ctx, "user deleted")
	return nil
}

// scopedUser fetches a user and hides accounts outside the principal's
// organization behind ErrNotFound.
func (s *UserService) scopedUser(ctx context.Context, principal Principal, userID string) (persistence.User, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return persistence.User{}, mapRepoError(err)
	}
	if user.OrgID != principal.OrgID {
		return persistence.User{}, ErrNotFound
	}
	return user, nil
}
