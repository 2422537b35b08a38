package persistence

import "time"

// Organization is the tenant every other row belongs to.
type Organization struct {
	ID        string
	Name      string
	Timezone  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// User represents a staff account within an organization.
type User struct {
	ID           string
	OrgID        string
	Email        string
	DisplayName  string
	Role         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session represents an authentication session persisted for a user.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// Client is a pet owner registered with the practice.
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

// Dog is a patient. Ownership and veterinary care are many-to-many links.
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

// Vet is an external veterinarian the practice coordinates with.
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

// Clinic is a veterinary clinic vets practice at.
type Clinic struct {
	ID        string
	OrgID     string
	Name      string
	Address   string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
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

// Booking is a calendar entry. AssignedToID is nullable so bookings survive
// staff deletion.
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
