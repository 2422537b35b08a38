package persistence

import (
	"context"
	"time"
)

// OrganizationRepository exposes CRUD operations for tenants.
type OrganizationRepository interface {
	CreateOrganization(ctx context.Context, org Organization) error
	UpdateOrganization(ctx context.Context, org Organization) error
	GetOrganization(ctx context.Context, id string) (Organization, error)
	ListOrganizations(ctx context.Context) ([]Organization, error)
	DeleteOrganization(ctx context.Context, id string) error
}

// UserRepository exposes CRUD operations for staff accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	UpdateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context, orgID string) ([]User, error)
	DeleteUser(ctx context.Context, id string) error
}

// SessionRepository stores authentication session state.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) (Session, error)
	GetSession(ctx context.Context, token string) (Session, error)
	ListSessionsForUser(ctx context.Context, userID string) ([]Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) (Session, error)
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}

// ClientRepository exposes CRUD operations for pet owners.
type ClientRepository interface {
	CreateClient(ctx context.Context, client Client) error
	UpdateClient(ctx context.Context, client Client) error
	GetClient(ctx context.Context, id string) (Client, error)
	ListClients(ctx context.Context, orgID string) ([]Client, error)
	DeleteClient(ctx context.Context, id string) error
}

// DogRepository stores dogs and their owner/vet links.
type DogRepository interface {
	CreateDog(ctx context.Context, dog Dog) error
	UpdateDog(ctx context.Context, dog Dog) error
	GetDog(ctx context.Context, id string) (Dog, error)
	ListDogs(ctx context.Context, orgID string) ([]Dog, error)
	DeleteDog(ctx context.Context, id string) error
	SetDogOwners(ctx context.Context, dogID string, clientIDs []string) error
	SetDogVets(ctx context.Context, dogID string, vetIDs []string) error
}

// VetRepository stores vets and their clinic links.
type VetRepository interface {
	CreateVet(ctx context.Context, vet Vet) error
	UpdateVet(ctx context.Context, vet Vet) error
	GetVet(ctx context.Context, id string) (Vet, error)
	ListVets(ctx context.Context, orgID string) ([]Vet, error)
	DeleteVet(ctx context.Context, id string) error
	SetVetClinics(ctx context.Context, vetID string, clinicIDs []string) error
}

// ClinicRepository exposes CRUD operations for vet clinics.
type ClinicRepository interface {
	CreateClinic(ctx context.Context, clinic Clinic) error
	UpdateClinic(ctx context.Context, clinic Clinic) error
	GetClinic(ctx context.Context, id string) (Clinic, error)
	ListClinics(ctx context.Context, orgID string) ([]Clinic, error)
	DeleteClinic(ctx context.Context, id string) error
}

// BookingTypeRepository exposes CRUD operations for booking categories.
type BookingTypeRepository interface {
	CreateBookingType(ctx context.Context, bt BookingType) error
	UpdateBookingType(ctx context.Context, bt BookingType) error
	GetBookingType(ctx context.Context, id string) (BookingType, error)
	ListBookingTypes(ctx context.Context, orgID string) ([]BookingType, error)
	DeleteBookingType(ctx context.Context, id string) error
}

// BookingFilter narrows booking queries. Zero time bounds are open ended.
type BookingFilter struct {
	AssignedToID *string
	StartsAfter  *time.Time
	StartsBefore *time.Time
	Repeating    *bool
}

// BookingRepository stores calendar entries.
type BookingRepository interface {
	CreateBooking(ctx context.Context, booking Booking) error
	UpdateBooking(ctx context.Context, booking Booking) error
	GetBooking(ctx context.Context, id string) (Booking, error)
	ListBookings(ctx context.Context, orgID string, filter BookingFilter) ([]Booking, error)
	DeleteBooking(ctx context.Context, id string) error
}
