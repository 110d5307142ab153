// Package seats picks a seat number for a new reservation.
package seats

import "github.com/Domenick1991/busreservation/internal/domain"

// Allocate returns the seat to assign on a bus with totalSeats seats,
// given the seats already held by live reservations.
//
// With requested == 0 the lowest free seat is chosen. A requested seat is
// returned as is when free, rejected with ErrSeatOutOfRange when outside
// 1..totalSeats and with ErrSeatAlreadyReserved when taken.
func Allocate(totalSeats int, taken []int, requested int) (int, error) {
	held := make(map[int]struct{}, len(taken))
	for _, s := range taken {
		held[s] = struct{}{}
	}

	if requested != 0 {
		if requested < 1 || requested > totalSeats {
			return 0, domain.ErrSeatOutOfRange.With("seat %d is outside 1..%d", requested, totalSeats)
		}
		if _, ok := held[requested]; ok {
			return 0, domain.ErrSeatAlreadyReserved.With("seat %d is already reserved", requested)
		}
		return requested, nil
	}

	for seat := 1; seat <= totalSeats; seat++ {
		if _, ok := held[seat]; !ok {
			return seat, nil
		}
	}
	return 0, domain.ErrNoSeatsAvailable
}
