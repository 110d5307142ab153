package reservation

import (
	"context"
	"time"

	"github.com/Domenick1991/busreservation/internal/domain"
	"github.com/Domenick1991/busreservation/internal/kafka"
	"github.com/Domenick1991/busreservation/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockTxManager runs the callback against its Tx and then returns the
// configured commit error.
type MockTxManager struct {
	mock.Mock
	tx repository.Tx
}

func (m *MockTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	args := m.Called(ctx)
	if err := fn(ctx, m.tx); err != nil {
		return err
	}
	return args.Error(0)
}

type MockTx struct {
	mock.Mock
}

func (m *MockTx) LockDeparture(ctx context.Context, id int64) (*domain.Departure, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Departure), args.Error(1)
}

func (m *MockTx) ReservedSeats(ctx context.Context, departureID int64) ([]int, error) {
	args := m.Called(ctx, departureID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockTx) AdjustAvailableSeats(ctx context.Context, departureID int64, delta int, at time.Time) error {
	return m.Called(ctx, departureID, delta, at).Error(0)
}

func (m *MockTx) InsertReservation(ctx context.Context, r *domain.Reservation) error {
	args := m.Called(ctx, r)
	if args.Error(0) == nil {
		r.ID = 101
	}
	return args.Error(0)
}

func (m *MockTx) LockReservation(ctx context.Context, id int64) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockTx) LockReservationByCredential(ctx context.Context, credential string) (*domain.Reservation, error) {
	args := m.Called(ctx, credential)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockTx) UpdateReservationStatus(ctx context.Context, r *domain.Reservation) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockTx) AppendLedgerEntry(ctx context.Context, e *domain.LedgerEntry) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockTx) PaymentEntry(ctx context.Context, reservationID int64) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockTx) CreditBalance(ctx context.Context, userID int64, amount decimal.Decimal, at time.Time) error {
	return m.Called(ctx, userID, amount, at).Error(0)
}

type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) List(ctx context.Context, filter repository.ReservationFilter) ([]domain.Reservation, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) AcquireSeatLock(ctx context.Context, departureID int64, seatNumber int, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, departureID, seatNumber, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) ReleaseSeatLock(ctx context.Context, departureID int64, seatNumber int) error {
	return m.Called(ctx, departureID, seatNumber).Error(0)
}

func (m *MockCache) InvalidateDepartures(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockEvents struct {
	mock.Mock
}

func (m *MockEvents) Publish(ctx context.Context, event kafka.ReservationEvent) error {
	return m.Called(ctx, event).Error(0)
}
