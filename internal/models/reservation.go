package models

import "time"

type ReservationStatus string

const (
	StatusConfirmed ReservationStatus = "confirmed"
	StatusWaitlist  ReservationStatus = "waitlist"
	StatusCancelled ReservationStatus = "cancelled"
)

// Valid reports whether s is one of the known reservation statuses.
func (s ReservationStatus) Valid() bool {
	switch s {
	case StatusConfirmed, StatusWaitlist, StatusCancelled:
		return true
	}
	return false
}

// Actor tags who performed a mutation on a reservation.
type Actor string

const (
	ActorCustomer Actor = "customer"
	ActorAdmin    Actor = "admin"
)

// Reservation is a single booking for a date and time slot. Reservations are
// stored as part of their date's bucket and are only ever mutated through a
// load-modify-save cycle on that bucket.
type Reservation struct {
	ID               string            `json:"id"`
	ConfirmationCode string            `json:"confirmation_code"`
	Date             string            `json:"date"` // YYYY-MM-DD
	Time             string            `json:"time"` // HH:MM
	Guests           int               `json:"guests"`
	Status           ReservationStatus `json:"status"`
	Name             string            `json:"name"`
	Email            string            `json:"email"`
	Phone            string            `json:"phone"`
	SpecialRequests  string            `json:"special_requests,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
	CancelledAt      *time.Time        `json:"cancelled_at,omitempty"`
	CancelledBy      Actor             `json:"cancelled_by,omitempty"`
	UpdatedBy        Actor             `json:"updated_by,omitempty"`
}
