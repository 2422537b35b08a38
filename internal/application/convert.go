package application

import "github.com/example/pawdesk/internal/persistence"

func fromPersistenceUser(u persistence.User) User {
	return User{
		ID:          u.ID,
		OrgID:       u.OrgID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func fromPersistenceSession(s persistence.Session) Session {
	return Session{
		ID:        s.ID,
		UserID:    s.UserID,
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		RevokedAt: s.RevokedAt,
	}
}

func fromPersistenceOrganization(o persistence.Organization) Organization {
	return Organization(o)
}

func fromPersistenceClient(c persistence.Client) Client {
	return Client(c)
}

func fromPersistenceDog(d persistence.Dog) Dog {
	return Dog{
		ID:        d.ID,
		OrgID:     d.OrgID,
		Name:      d.Name,
		Breed:     d.Breed,
		BirthDate: d.BirthDate,
		Notes:     d.Notes,
		OwnerIDs:  append([]string(nil), d.OwnerIDs...),
		VetIDs:    append([]string(nil), d.VetIDs...),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func fromPersistenceVet(v persistence.Vet) Vet {
	return Vet{
		ID:        v.ID,
		OrgID:     v.OrgID,
		Name:      v.Name,
		Email:     v.Email,
		Phone:     v.Phone,
		ClinicIDs: append([]string(nil), v.ClinicIDs...),
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

func fromPersistenceClinic(c persistence.Clinic) Clinic {
	return Clinic(c)
}

func fromPersistenceBookingType(bt persistence.BookingType) BookingType {
	return BookingType(bt)
}

func fromPersistenceBooking(b persistence.Booking) Booking {
	return Booking(b)
}

func toPersistenceBooking(b Booking) persistence.Booking {
	return persistence.Booking(b)
}
