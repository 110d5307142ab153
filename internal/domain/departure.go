package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Departure struct {
	ID             int64           `json:"id"`
	BusNumber      string          `json:"bus_number"`
	Route          string          `json:"route"`
	DepartureTime  time.Time       `json:"departure_time"`
	ArrivalTime    time.Time       `json:"arrival_time"`
	TotalSeats     int             `json:"total_seats"`
	AvailableSeats int             `json:"available_seats"`
	Price          decimal.Decimal `json:"price"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// HasDeparted reports whether the bus has left at the given instant.
func (d *Departure) HasDeparted(now time.Time) bool {
	return !now.Before(d.DepartureTime)
}
