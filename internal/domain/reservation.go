package domain

import "time"

type ReservationStatus string

const (
	ReservationStatusPending ReservationStatus = "pending"
	// ReservationStatusConfirmed is accepted by the store but no flow produces it.
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusScanned   ReservationStatus = "scanned"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// ParseReservationStatus accepts the stored form of a status.
func ParseReservationStatus(s string) (ReservationStatus, bool) {
	switch st := ReservationStatus(s); st {
	case ReservationStatusPending, ReservationStatusConfirmed, ReservationStatusScanned, ReservationStatusCancelled:
		return st, true
	}
	return "", false
}

// Terminal reports whether no further transition is possible.
func (s ReservationStatus) Terminal() bool {
	return s == ReservationStatusScanned || s == ReservationStatusCancelled
}

type Reservation struct {
	ID            int64             `json:"id"`
	UserID        int64             `json:"user_id"`
	DepartureID   int64             `json:"departure_id"`
	SeatNumber    int               `json:"seat_number"`
	Credential    string            `json:"credential"`
	ValidUntil    time.Time         `json:"valid_until"`
	DepartureTime time.Time         `json:"departure_time"`
	Status        ReservationStatus `json:"status"`
	PassengerName string            `json:"passenger_name,omitempty"`
	RouteOverride string            `json:"route_override,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}
