package application

import (
	"context"
	"time"

	"github.com/example/pawdesk/internal/persistence"
)

type userRepositoryStub struct {
	users     map[string]persistence.User
	createErr error
	getErr    error
	created   []persistence.User
	updated   []persistence.User
	deleted   []string
}

func newUserRepositoryStub(users ...persistence.User) *userRepositoryStub {
	stub := &userRepositoryStub{users: make(map[string]persistence.User)}
	for _, user := range users {
		stub.users[user.ID] = user
	}
	return stub
}

func (s *userRepositoryStub) CreateUser(_ context.Context, user persistence.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return persistence.ErrDuplicate
		}
	}
	s.users[user.ID] = user
	s.created = append(s.created, user)
	return nil
}

func (s *userRepositoryStub) UpdateUser(_ context.Context, user persistence.User) error {
	if _, ok := s.users[user.ID]; !ok {
		return persistence.ErrNotFound
	}
	s.users[user.ID] = user
	s.updated = append(s.updated, user)
	return nil
}

func (s *userRepositoryStub) GetUser(_ context.Context, id string) (persistence.User, error) {
	if s.getErr != nil {
		return persistence.User{}, s.getErr
	}
	user, ok := s.users[id]
	if !ok {
		return persistence.User{}, persistence.ErrNotFound
	}
	return user, nil
}

func (s *userRepositoryStub) GetUserByEmail(_ context.Context, email string) (persistence.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return persistence.User{}, persistence.ErrNotFound
}

func (s *userRepositoryStub) ListUsers(_ context.Context, orgID string) ([]persistence.User, error) {
	var users []persistence.User
	for _, user := range s.users {
		if user.OrgID == orgID {
			users = append(users, user)
		}
	}
	return users, nil
}

func (s *userRepositoryStub) DeleteUser(_ context.Context, id string) error {
	if _, ok := s.users[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.users, id)
	s.deleted = append(s.deleted, id)
	return nil
}

type sessionRepositoryStub struct {
	sessions    map[string]persistence.Session
	createErr   error
	deleteErr   error
	deleteCalls []time.Time
}

func newSessionRepositoryStub() *sessionRepositoryStub {
	return &sessionRepositoryStub{sessions: make(map[string]persistence.Session)}
}

func (s *sessionRepositoryStub) CreateSession(_ context.Context, session persistence.Session) (persistence.Session, error) {
	if s.createErr != nil {
		return persistence.Session{}, s.createErr
	}
	s.sessions[session.Token] = session
	return session, nil
}

func (s *sessionRepositoryStub) GetSession(_ context.Context, token string) (persistence.Session, error) {
	session, ok := s.sessions[token]
	if !ok {
		return persistence.Session{}, persistence.ErrNotFound
	}
	return session, nil
}

func (s *sessionRepositoryStub) ListSessionsForUser(_ context.Context, userID string) ([]persistence.Session, error) {
	var sessions []persistence.Session
	for _, session := range s.sessions {
		if session.UserID == userID {
			sessions = append(sessions, session)
		}
	}
	return sessions, nil
}

func (s *sessionRepositoryStub) RevokeSession(_ context.Context, token string, revokedAt time.Time) (persistence.Session, error) {
	session, ok := s.sessions[token]
	if !ok {
		return persistence.Session{}, persistence.ErrNotFound
	}
	session.RevokedAt = &revokedAt
	s.sessions[token] = session
	return session, nil
}

func (s *sessionRepositoryStub) DeleteExpiredSessions(_ context.Context, reference time.Time) error {
	s.deleteCalls = append(s.deleteCalls, reference)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	for token, session := range s.sessions {
		if !session.ExpiresAt.After(reference) {
			delete(s.sessions, token)
		}
	}
	return nil
}

type bookingRepositoryStub struct {
	bookings  map[string]persistence.Booking
	listErr   error
	createErr error
	created   []persistence.Booking
	updated   []persistence.Booking
	deleted   []string
}

func newBookingRepositoryStub(bookings ...persistence.Booking) *bookingRepositoryStub {
	stub := &bookingRepositoryStub{bookings: make(map[string]persistence.Booking)}
	for _, booking := range bookings {
		stub.bookings[booking.ID] = booking
	}
	return stub
}

func (s *bookingRepositoryStub) CreateBooking(_ context.Context, booking persistence.Booking) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.bookings[booking.ID] = booking
	s.created = append(s.created, booking)
	return nil
}

func (s *bookingRepositoryStub) UpdateBooking(_ context.Context, booking persistence.Booking) error {
	if _, ok := s.bookings[booking.ID]; !ok {
		return persistence.ErrNotFound
	}
	s.bookings[booking.ID] = booking
	s.updated = append(s.updated, booking)
	return nil
}

func (s *bookingRepositoryStub) GetBooking(_ context.Context, id string) (persistence.Booking, error) {
	booking, ok := s.bookings[id]
	if !ok {
		return persistence.Booking{}, persistence.ErrNotFound
	}
	return booking, nil
}

func (s *bookingRepositoryStub) ListBookings(_ context.Context, orgID string, filter persistence.BookingFilter) ([]persistence.Booking, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var bookings []persistence.Booking
	for _, booking := range s.bookings {
		if booking.OrgID != orgID {
			continue
		}
		if filter.AssignedToID != nil {
			if booking.AssignedToID == nil || *booking.AssignedToID != *filter.AssignedToID {
				continue
			}
		}
		if filter.StartsAfter != nil && booking.Start.Before(*filter.StartsAfter) {
			continue
		}
		if filter.StartsBefore != nil && !booking.Start.Before(*filter.StartsBefore) {
			continue
		}
		if filter.Repeating != nil {
			repeating := booking.RepeatRule != nil && *booking.RepeatRule != ""
			if repeating != *filter.Repeating {
				continue
			}
		}
		bookings = append(bookings, booking)
	}
	return bookings, nil
}

func (s *bookingRepositoryStub) DeleteBooking(_ context.Context, id string) error {
	if _, ok := s.bookings[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.bookings, id)
	s.deleted = append(s.deleted, id)
	return nil
}

type bookingTypeRepositoryStub struct {
	types map[string]persistence.BookingType
}

func newBookingTypeRepositoryStub(types ...persistence.BookingType) *bookingTypeRepositoryStub {
	stub := &bookingTypeRepositoryStub{types: make(map[string]persistence.BookingType)}
	for _, bt := range types {
		stub.types[bt.ID] = bt
	}
	return stub
}

func (s *bookingTypeRepositoryStub) CreateBookingType(_ context.Context, bt persistence.BookingType) error {
	s.types[bt.ID] = bt
	return nil
}

func (s *bookingTypeRepositoryStub) UpdateBookingType(_ context.Context, bt persistence.BookingType) error {
	if _, ok := s.types[bt.ID]; !ok {
		return persistence.ErrNotFound
	}
	s.types[bt.ID] = bt
	return nil
}

func (s *bookingTypeRepositoryStub) GetBookingType(_ context.Context, id string) (persistence.BookingType, error) {
	bt, ok := s.types[id]
	if !ok {
		return persistence.BookingType{}, persistence.ErrNotFound
	}
	return bt, nil
}

func (s *bookingTypeRepositoryStub) ListBookingTypes(_ context.Context, orgID string) ([]persistence.BookingType, error) {
	var types []persistence.BookingType
	for _, bt := range s.types {
		if bt.OrgID == orgID {
			types = append(types, bt)
		}
	}
	return types, nil
}

func (s *bookingTypeRepositoryStub) DeleteBookingType(_ context.Context, id string) error {
	if _, ok := s.types[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.types, id)
	return nil
}

type dogRepositoryStub struct {
	dogs map[string]persistence.Dog
}

func newDogRepositoryStub(dogs ...persistence.Dog) *dogRepositoryStub {
	stub := &dogRepositoryStub{dogs: make(map[string]persistence.Dog)}
	for _, dog := range dogs {
		stub.dogs[dog.ID] = dog
	}
	return stub
}

func (s *dogRepositoryStub) CreateDog(_ context.Context, dog persistence.Dog) error {
	s.dogs[dog.ID] = dog
	return nil
}

func (s *dogRepositoryStub) UpdateDog(_ context.Context, dog persistence.Dog) error {
	if _, ok := s.dogs[dog.ID]; !ok {
		return persistence.ErrNotFound
	}
	s.dogs[dog.ID] = dog
	return nil
}

func (s *dogRepositoryStub) GetDog(_ context.Context, id string) (persistence.Dog, error) {
	dog, ok := s.dogs[id]
	if !ok {
		return persistence.Dog{}, persistence.ErrNotFound
	}
	return dog, nil
}

func (s *dogRepositoryStub) ListDogs(_ context.Context, orgID string) ([]persistence.Dog, error) {
	var dogs []persistence.Dog
	for _, dog := range s.dogs {
		if dog.OrgID == orgID {
			dogs = append(dogs, dog)
		}
	}
	return dogs, nil
}

func (s *dogRepositoryStub) DeleteDog(_ context.Context, id string) error {
	if _, ok := s.dogs[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.dogs, id)
	return nil
}

func (s *dogRepositoryStub) SetDogOwners(_ context.Context, dogID string, clientIDs []string) error {
	dog, ok := s.dogs[dogID]
	if !ok {
		return persistence.ErrNotFound
	}
	dog.OwnerIDs = clientIDs
	s.dogs[dogID] = dog
	return nil
}

func (s *dogRepositoryStub) SetDogVets(_ context.Context, dogID string, vetIDs []string) error {
	dog, ok := s.dogs[dogID]
	if !ok {
		return persistence.ErrNotFound
	}
	dog.VetIDs = vetIDs
	s.dogs[dogID] = dog
	return nil
}

type organizationRepositoryStub struct {
	organizations map[string]persistence.Organization
}

func newOrganizationRepositoryStub(orgs ...persistence.Organization) *organizationRepositoryStub {
	stub := &organizationRepositoryStub{organizations: make(map[string]persistence.Organization)}
	for _, org := range orgs {
		stub.organizations[org.ID] = org
	}
	return stub
}

func (s *organizationRepositoryStub) CreateOrganization(_ context.Context, org persistence.Organization) error {
	s.organizations[org.ID] = org
	return nil
}

func (s *organizationRepositoryStub) UpdateOrganization(_ context.Context, org persistence.Organization) error {
	if _, ok := s.organizations[org.ID]; !ok {
		return persistence.ErrNotFound
	}
	s.organizations[org.ID] = org
	return nil
}

func (s *organizationRepositoryStub) GetOrganization(_ context.Context, id string) (persistence.Organization, error) {
	org, ok := s.organizations[id]
	if !ok {
		return persistence.Organization{}, persistence.ErrNotFound
	}
	return org, nil
}

func (s *organizationRepositoryStub) ListOrganizations(_ context.Context) ([]persistence.Organization, error) {
	var orgs []persistence.Organization
	for _, org := range s.organizations {
		orgs = append(orgs, org)
	}
	return orgs, nil
}

func (s *organizationRepositoryStub) DeleteOrganization(_ context.Context, id string) error {
	if _, ok := s.organizations[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.organizations, id)
	return nil
}

func sequenceGenerator(values ...string) func() string {
	i := 0
	return func() string {
		if i >= len(values) {
			return "overflow"
		}
		value := values[i]
		i++
		return value
	}
}

func strPtr(s string) *string { return &s }

func durPtr(d time.Duration) *time.Duration { return &d }
