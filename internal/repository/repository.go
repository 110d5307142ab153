package repository

import (
	"context"
	"time"

	"github.com/Domenick1991/busreservation/internal/domain"
	"github.com/shopspring/decimal"
)

type DepartureRepository interface {
	List(ctx context.Context) ([]domain.Departure, error)
	GetByID(ctx context.Context, id int64) (*domain.Departure, error)
}

// ReservationFilter narrows reservation listings. Zero values mean "any".
type ReservationFilter struct {
	UserID       int64
	DepartureIDs []int64
	Status       domain.ReservationStatus
	Limit        int
	// BySeat orders by departure time then seat instead of most recent first.
	BySeat bool
}

type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	List(ctx context.Context, filter ReservationFilter) ([]domain.Reservation, error)
}

// LedgerFilter narrows ledger listings. Zero values mean "any".
type LedgerFilter struct {
	UserID         int64
	ReservationIDs []int64
}

type LedgerRepository interface {
	ListEntries(ctx context.Context, filter LedgerFilter) ([]domain.LedgerEntry, error)
	// GetBalance returns a zero balance for users that were never credited.
	GetBalance(ctx context.Context, userID int64) (*domain.Balance, error)
}

// TxManager runs fn inside one store transaction. The transaction commits
// when fn returns nil and rolls back on any error or panic.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx is the set of reads and writes available inside an atomic unit.
// Lock* methods take row locks that are held until commit or rollback.
type Tx interface {
	LockDeparture(ctx context.Context, id int64) (*domain.Departure, error)
	// ReservedSeats returns the seats held by non-cancelled reservations.
	ReservedSeats(ctx context.Context, departureID int64) ([]int, error)
	// AdjustAvailableSeats stamps the departure updated_at with at.
	AdjustAvailableSeats(ctx context.Context, departureID int64, delta int, at time.Time) error

	// InsertReservation fills in r.ID. A second active reservation on the
	// same seat fails with domain.ErrSeatAlreadyReserved.
	InsertReservation(ctx context.Context, r *domain.Reservation) error
	LockReservation(ctx context.Context, id int64) (*domain.Reservation, error)
	LockReservationByCredential(ctx context.Context, credential string) (*domain.Reservation, error)
	UpdateReservationStatus(ctx context.Context, r *domain.Reservation) error

	// AppendLedgerEntry fills in e.ID. Entries are never updated.
	AppendLedgerEntry(ctx context.Context, e *domain.LedgerEntry) error
	PaymentEntry(ctx context.Context, reservationID int64) (*domain.LedgerEntry, error)
	CreditBalance(ctx context.Context, userID int64, amount decimal.Decimal, at time.Time) error
}
