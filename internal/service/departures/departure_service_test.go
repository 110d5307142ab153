package departures

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/busreservation/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockDepartureRepository struct {
	mock.Mock
}

func (m *MockDepartureRepository) List(ctx context.Context) ([]domain.Departure, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Departure), args.Error(1)
}

func (m *MockDepartureRepository) GetByID(ctx context.Context, id int64) (*domain.Departure, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Departure), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetDepartures(ctx context.Context) ([]domain.Departure, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Departure), args.Error(1)
}

func (m *MockCache) SetDepartures(ctx context.Context, departures []domain.Departure) error {
	args := m.Called(ctx, departures)
	return args.Error(0)
}

func sampleDepartures() []domain.Departure {
	return []domain.Departure{
		{
			ID:             4,
			BusNumber:      "LT-204",
			Route:          "Douala - Yaounde",
			DepartureTime:  time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
			ArrivalTime:    time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC),
			TotalSeats:     40,
			AvailableSeats: 12,
			Price:          decimal.NewFromInt(500),
		},
	}
}

func TestDepartureService_List_CacheMiss(t *testing.T) {
	mockRepo := &MockDepartureRepository{}
	mockCache := &MockCache{}
	service := NewDepartureService(mockRepo, mockCache, nil)
	ctx := context.Background()
	departures := sampleDepartures()

	mockCache.On("GetDepartures", ctx).Return(nil, nil).Once()
	mockRepo.On("List", ctx).Return(departures, nil).Once()
	mockCache.On("SetDepartures", ctx, departures).Return(nil).Once()

	got, err := service.List(ctx)

	assert.NoError(t, err)
	assert.Equal(t, departures, got)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestDepartureService_List_CacheHit(t *testing.T) {
	mockRepo := &MockDepartureRepository{}
	mockCache := &MockCache{}
	service := NewDepartureService(mockRepo, mockCache, nil)
	ctx := context.Background()

	mockCache.On("GetDepartures", ctx).Return(sampleDepartures(), nil).Once()

	got, err := service.List(ctx)

	assert.NoError(t, err)
	assert.Len(t, got, 1)
	mockRepo.AssertNotCalled(t, "List", mock.Anything)
}

func TestDepartureService_List_CacheErrorFallsBackToRepo(t *testing.T) {
	mockRepo := &MockDepartureRepository{}
	mockCache := &MockCache{}
	service := NewDepartureService(mockRepo, mockCache, nil)
	ctx := context.Background()

	mockCache.On("GetDepartures", ctx).Return(nil, errors.New("redis down")).Once()
	mockRepo.On("List", ctx).Return(sampleDepartures(), nil).Once()
	mockCache.On("SetDepartures", ctx, mock.Anything).Return(errors.New("redis down")).Once()

	got, err := service.List(ctx)

	assert.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestDepartureService_List_WithoutCache(t *testing.T) {
	mockRepo := &MockDepartureRepository{}
	service := NewDepartureService(mockRepo, nil, nil)
	ctx := context.Background()

	mockRepo.On("List", ctx).Return(nil, errors.New("db down")).Once()

	_, err := service.List(ctx)
	assert.ErrorIs(t, err, domain.ErrStorageFailure)
}

func TestDepartureService_GetByID(t *testing.T) {
	mockRepo := &MockDepartureRepository{}
	service := NewDepartureService(mockRepo, nil, nil)
	ctx := context.Background()
	dep := sampleDepartures()[0]

	mockRepo.On("GetByID", ctx, int64(4)).Return(&dep, nil).Once()
	mockRepo.On("GetByID", ctx, int64(5)).Return(nil, domain.ErrDepartureNotFound).Once()

	got, err := service.GetByID(ctx, 4)
	assert.NoError(t, err)
	assert.Equal(t, "LT-204", got.BusNumber)

	_, err = service.GetByID(ctx, 5)
	assert.ErrorIs(t, err, domain.ErrDepartureNotFound)

	_, err = service.GetByID(ctx, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
