package application

import "time"

// Roles assignable to staff accounts.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// Principal represents the authenticated user invoking a service method.
type Principal struct {
	UserID string
	OrgID  string
	Role   string
}

// IsAdmin reports whether the principal may administer its organization.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Organization represents a tenant practice.
type Organization struct {
	ID        string
	Name      string
	Timezone  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrganizationInput captures caller provided organization fields.
type OrganizationInput struct {
	Name     string
	Timezone string
}

// User represents a staff account exposed by the application services.
type User struct {
	ID          string
	OrgID       string
	Email       string
	DisplayName string
	Role        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UserInput captures caller provided user attributes.
type UserInput struct {
	Email       string
	DisplayName string
	Role        string
	Password    string
}

// UserCredentials models the authentication attributes persisted for a user.
type UserCredentials struct {
	User         User
	PasswordHash string
}

// Session represents an authenticated session issued to a user.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// AuthenticateParams captures the data required to authenticate a user.
type AuthenticateParams struct {
	Email    string
	Password string
}

// AuthenticateResult captures the outcome of a successful authentication attempt.
type AuthenticateResult struct {
	User    User
	Session Session
}

// Client represents a pet owner.
type Client struct {
	ID        string
	OrgID     string
	Name      string
	Email     string
	Phone     string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ClientInput captures caller provided client fields.
type ClientInput struct {
	Name  string
	Email string
	Phone string
	Notes string
}

// Dog represents a patient with its relationship links.
type Dog struct {
	ID        string
	OrgID     string
	Name      string
	Breed     string
	BirthDate *time.Time
	Notes     string
	OwnerIDs  []string
	VetIDs    []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DogInput captures caller provided dog fields.
type DogInput struct {
	Name      string
	Breed     string
	BirthDate *time.Time
	Notes     string
	OwnerIDs  []string
	VetIDs    []string
}

// Vet represents an external veterinarian.
type Vet struct {
	ID        string
	OrgID     string
	Name      string
	Email     string
	Phone     string
	ClinicIDs []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// VetInput captures caller provided vet fields.
type VetInput struct {
	Name      string
	Email     string
	Phone     string
	ClinicIDs []string
}

// Clinic represents a veterinary clinic.
type Clinic struct {
	ID        string
	OrgID     string
	Name      string
	Address   string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ClinicInput captures caller provided clinic fields.
type ClinicInput struct {
	Name    string
	Address string
	Phone   string
}

// BookingType categorises bookings and carries scheduling defaults.
type BookingType struct {
	ID              string
	OrgID           string
	Name            string
	Color           string
	DefaultDuration time.Duration
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BookingTypeInput captures caller provided booking type fields.
type BookingTypeInput struct {
	Name            string
	Color           string
	DefaultDuration time.Duration
}

// Booking represents a calendar entry.
type Booking struct {
	ID            string
	OrgID         string
	Title         string
	Start         time.Time
	Duration      time.Duration
	AssignedToID  *string
	DogID         *string
	BookingTypeID *string
	Notes         string
	RepeatRule    *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// End returns the exclusive end instant of the booking interval.
func (b Booking) End() time.Time {
	return b.Start.Add(b.Duration)
}

// BookingInput captures caller provided booking fields. Confirmed approves a
// known double-booking; without it a conflicting submission is rejected with
// the conflict list.
type BookingInput struct {
	Title         string
	Start         time.Time
	Duration      *time.Duration
	AssignedToID  *string
	DogID         *string
	BookingTypeID *string
	Notes         string
	RepeatRule    *string
	Confirmed     bool
}

// ConflictingBooking is the slice of an existing booking surfaced to a caller
// whose submission overlaps it.
type ConflictingBooking struct {
	ID           string
	Title        string
	Start        time.Time
	Duration     time.Duration
	AssignedToID string
}

// CheckOverlapsParams captures a bare overlap probe against an assignee's
// bookings.
type CheckOverlapsParams struct {
	Principal        Principal
	ExcludeBookingID string
	AssignedToID     string
	Start            time.Time
	Duration         time.Duration
}

// WeekViewParams selects the visible week for calendar layout.
type WeekViewParams struct {
	Principal    Principal
	WeekStart    time.Time
	AssignedToID *string
}

/// PositionedBooking is one rendered calendar card: the booking segment plus
// its column position within its overlap cluster.
type PositionedBooking struct {
	ID           string
	ParentID     string
	Title        string
	Start        time.Time
	Duration     time.Duration
	AssignedToID string
	ColumnIndex  int
	OverlapIDs   []string
	WidthPct     float64
	WidthPx      float64
	LeftPct      float64
	LeftPx       float64
}

// WeekDay is one day column of the week view.
type WeekDay struct {
	Date     time.Time
	Bookings []PositionedBooking
}

// WeekView is the fully laid out visible week.
type WeekView struct {
	WeekStart time.Time
	Days      []WeekDay
}

// Invite carries a minted invite token for joining an organization.
type Invite struct {
	Token     string
	OrgID     string
	Role      string
	ExpiresAt time.Time
}

// AcceptInviteParams captures the data needed to redeem an invite.
type AcceptInviteParams struct {
	Token       string
	Email       string
	DisplayName string
	Password    string
}
