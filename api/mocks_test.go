package api

import (
	"context"

	"github.com/Domenick1991/busreservation/internal/domain"
	"github.com/Domenick1991/busreservation/internal/service/reservation"
	"github.com/Domenick1991/busreservation/internal/service/settlement"
	"github.com/stretchr/testify/mock"
)

type MockDepartureUseCase struct {
	mock.Mock
}

func (m *MockDepartureUseCase) List(ctx context.Context) ([]domain.Departure, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Departure), args.Error(1)
}

func (m *MockDepartureUseCase) GetByID(ctx context.Context, id int64) (*domain.Departure, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Departure), args.Error(1)
}

type MockReservationUseCase struct {
	mock.Mock
}

func (m *MockReservationUseCase) Create(ctx context.Context, actor domain.Actor, input reservation.CreateInput) (*domain.Reservation, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationUseCase) Cancel(ctx context.Context, reservationID int64, actor domain.Actor) (*domain.Reservation, error) {
	args := m.Called(ctx, reservationID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationUseCase) Get(ctx context.Context, reservationID int64, actor domain.Actor) (*domain.Reservation, error) {
	args := m.Called(ctx, reservationID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationUseCase) List(ctx context.Context, actor domain.Actor) ([]domain.Reservation, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

type MockSettlementUseCase struct {
	mock.Mock
}

func (m *MockSettlementUseCase) Present(ctx context.Context, token string, presenter domain.Actor) (*settlement.Result, error) {
	args := m.Called(ctx, token, presenter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.Result), args.Error(1)
}

func (m *MockSettlementUseCase) ScanHistory(ctx context.Context, presenter domain.Actor, limit int) ([]settlement.Scan, error) {
	args := m.Called(ctx, presenter, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]settlement.Scan), args.Error(1)
}

func (m *MockSettlementUseCase) Passengers(ctx context.Context, presenter domain.Actor, departureID int64, status string) ([]domain.Reservation, error) {
	args := m.Called(ctx, presenter, departureID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

type MockLedgerUseCase struct {
	mock.Mock
}

func (m *MockLedgerUseCase) Entries(ctx context.Context, actor domain.Actor, userID int64) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, actor, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerUseCase) Balance(ctx context.Context, actor domain.Actor, userID int64) (*domain.Balance, error) {
	args := m.Called(ctx, actor, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Balance), args.Error(1)
}
