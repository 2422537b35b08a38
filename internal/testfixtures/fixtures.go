package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/pawdesk/internal/persistence"
)

var (
	organizationCounter uint64
	userCounter         uint64
	clientCounter       uint64
	dogCounter          uint64
	bookingCounter      uint64
)

var referenceTime = time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures. It
// falls on a Monday so week view tests can use it directly as a week start.
func ReferenceTime() time.Time {
	return referenceTime
}

// OrganizationFixture is a deterministic tenant record.
type OrganizationFixture struct {
	ID        string
	Name      string
	Timezone  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrganizationOption configures the generated organization fixture.
type OrganizationOption func(*OrganizationFixture)

// NewOrganizationFixture returns a deterministic organization fixture.
func NewOrganizationFixture(opts ...OrganizationOption) OrganizationFixture {
	idx := atomic.AddUint64(&organizationCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := OrganizationFixture{
		ID:        fmt.Sprintf("org-%03d", idx),
		Name:      fmt.Sprintf("Practice %03d", idx),
		Timezone:  "UTC",
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithOrganizationID overrides the generated organization ID.
func WithOrganizationID(id string) OrganizationOption {
	return func(f *OrganizationFixture) {
		f.ID = id
	}
}

// WithOrganizationTimezone overrides the generated timezone.
func WithOrganizationTimezone(tz string) OrganizationOption {
	return func(f *OrganizationFixture) {
		f.Timezone = tz
	}
}

// Persistence materialises the fixture as a storage model.
func (f OrganizationFixture) Persistence() persistence.Organization {
	return persistence.Organization{
		ID:        f.ID,
		Name:      f.Name,
		Timezone:  f.Timezone,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// UserFixture is a deterministic staff account record.
type UserFixture struct {
	ID           string
	OrgID        string
	Email        string
	DisplayName  string
	Role         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserOption configures the generated user fixture.
type UserOption func(*UserFixture)

// NewUserFixture returns a deterministic user fixture with optional overrides.
func NewUserFixture(opts ...UserOption) UserFixture {
	idx := atomic.AddUint64(&userCounter, 1)
	id := fmt.Sprintf("user-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := UserFixture{
		ID:           id,
		OrgID:        "org-001",
		Email:        fmt.Sprintf("%s@example.com", id),
		DisplayName:  fmt.Sprintf("User %03d", idx),
		Role:         "staff",
		PasswordHash: fmt.Sprintf("hash-%03d", idx),
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithUserID overrides the generated user ID.
func WithUserID(id string) UserOption {
	return func(f *UserFixture) {
		f.ID = id
	}
}

// WithUserOrgID overrides the generated tenant.
func WithUserOrgID(orgID string) UserOption {
	return func(f *UserFixture) {
		f.OrgID = orgID
	}
}

// WithUserRole overrides the generated role.
func WithUserRole(role string) UserOption {
	return func(f *UserFixture) {
		f.Role = role
	}
}

// WithUserEmail overrides the generated email address.
func WithUserEmail(email string) UserOption {
	return func(f *UserFixture) {
		f.Email = email
	}
}

// Persistence materialises the fixture as a storage model.
func (f UserFixture) Persistence() persistence.User {
	return persistence.User{
		ID:           f.ID,
		OrgID:        f.OrgID,
		Email:        f.Email,
		DisplayName:  f.DisplayName,
		Role:         f.Role,
		PasswordHash: f.PasswordHash,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

// ClientFixture is a deterministic pet owner record.
type ClientFixture struct {
	ID        string
	OrgID     string
	Name      string
	Email     string
	Phone     string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ClientOption configures the generated client fixture.
type ClientOption func(*ClientFixture)

// NewClientFixture returns a deterministic client fixture.
func NewClientFixture(opts ...ClientOption) ClientFixture {
	idx := atomic.AddUint64(&clientCounter, 1)
	id := fmt.Sprintf("client-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := ClientFixture{
		ID:        id,
		OrgID:     "org-001",
		Name:      fmt.Sprintf("Client %03d", idx),
		Email:     fmt.Sprintf("%s@example.com", id),
		Phone:     fmt.Sprintf("555-%04d", idx),
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithClientOrgID overrides the generated tenant.
func WithClientOrgID(orgID string) ClientOption {
	return func(f *ClientFixture) {
		f.OrgID = orgID
	}
}

// Persistence materialises the fixture as a storage model.
func (f ClientFixture) Persistence() persistence.Client {
	return persistence.Client{
		ID:        f.ID,
		OrgID:     f.OrgID,
		Name:      f.Name,
		Email:     f.Email,
		Phone:     f.Phone,
		Notes:     f.Notes,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// DogFixture is a deterministic patient record.
type DogFixture struct {
	ID        string
	OrgID     string
	Name      string
	Breed     string
	OwnerIDs  []string
	VetIDs    []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DogOption configures the generated dog fixture.
type DogOption func(*DogFixture)

// NewDogFixture returns a deterministic dog fixture.
func NewDogFixture(opts ...DogOption) DogFixture {
	idx := atomic.AddUint64(&dogCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := DogFixture{
		ID:        fmt.Sprintf("dog-%03d", idx),
		OrgID:     "org-001",
		Name:      fmt.Sprintf("Dog %03d", idx),
		Breed:     "mixed",
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithDogOwnerIDs sets the owning clients.
func WithDogOwnerIDs(ids ...string) DogOption {
	return func(f *DogFixture) {
		f.OwnerIDs = append([]string(nil), ids...)
	}
}

// WithDogVetIDs sets the caring vets.
func WithDogVetIDs(ids ...string) DogOption {
	return func(f *DogFixture) {
		f.VetIDs = append([]string(nil), ids...)
	}
}

// Persistence materialises the fixture as a storage model.
func (f DogFixture) Persistence() persistence.Dog {
	return persistence.Dog{
		ID:        f.ID,
		OrgID:     f.OrgID,
		Name:      f.Name,
		Breed:     f.Breed,
		OwnerIDs:  append([]string(nil), f.OwnerIDs...),
		VetIDs:    append([]string(nil), f.VetIDs...),
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// BookingFixture is a deterministic calendar entry record.
type BookingFixture struct {
	ID           string
	OrgID        string
	Title        string
	Start        time.Time
	Duration     time.Duration
	AssignedToID *string
	DogID        *string
	RepeatRule   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BookingOption configures the generated booking fixture.
type BookingOption func(*BookingFixture)

// NewBookingFixture returns a deterministic booking fixture. Bookings are laid
// out two hours apart from the reference time so consecutive fixtures do not
// overlap by accident.
func NewBookingFixture(opts ...BookingOption) BookingFixture {
	idx := atomic.AddUint64(&bookingCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := BookingFixture{
		ID:        fmt.Sprintf("booking-%03d", idx),
		OrgID:     "org-001",
		Title:     fmt.Sprintf("Booking %03d", idx),
		Start:     referenceTime.Add(time.Duration(idx) * 2 * time.Hour),
		Duration:  time.Hour,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithBookingStart overrides the generated start instant.
func WithBookingStart(start time.Time) BookingOption {
	return func(f *BookingFixture) {
		f.Start = start
	}
}

// WithBookingDuration overrides the generated duration.
func WithBookingDuration(d time.Duration) BookingOption {
	return func(f *BookingFixture) {
		f.Duration = d
	}
}

// WithBookingAssignee sets the assigned staff member.
func WithBookingAssignee(userID string) BookingOption {
	return func(f *BookingFixture) {
		f.AssignedToID = &userID
	}
}

// WithBookingRepeatRule sets the recurrence rule.
func WithBookingRepeatRule(rule string) BookingOption {
	return func(f *BookingFixture) {
		f.RepeatRule = &rule
	}
}

// Persistence materialises the fixture as a storage model.
func (f BookingFixture) Persistence() persistence.Booking {
	return persistence.Booking{
		ID:           f.ID,
		OrgID:        f.OrgID,
		Title:        f.Title,
		Start:        f.Start,
		Duration:     f.Duration,
		AssignedToID: f.AssignedToID,
		DogID:        f.DogID,
		RepeatRule:   f.RepeatRule,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}
