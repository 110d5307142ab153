package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/busreservation/internal/auth"
	"github.com/Domenick1991/busreservation/internal/clock"
	"github.com/Domenick1991/busreservation/internal/domain"
	"github.com/Domenick1991/busreservation/internal/service/reservation"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testUser = domain.Actor{UserID: 7, Role: domain.RoleUser}

var testClock = clock.NewFake(time.Date(2026, 10, 31, 12, 0, 0, 0, time.UTC))

func newTestContext(method, target string, body []byte, actor *domain.Actor) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	if actor != nil {
		auth.SetActor(c, *actor)
	}
	return c, w
}

func sampleReservation() *domain.Reservation {
	dep := time.Date(2026, 11, 1, 8, 0, 0, 0, time.UTC)
	return &domain.Reservation{
		ID:            101,
		UserID:        7,
		DepartureID:   1,
		SeatNumber:    3,
		Credential:    "BRT1.abc",
		DepartureTime: dep,
		ValidUntil:    dep.Add(-time.Hour),
		Status:        domain.ReservationStatusPending,
		PassengerName: "Awa Diallo",
	}
}

func TestReservationHandler_create(t *testing.T) {
	mockService := &MockReservationUseCase{}
	handler := NewReservationHandler(mockService, &MockDepartureUseCase{}, nil)

	price := decimal.NewFromInt(500)
	body, _ := json.Marshal(map[string]any{
		"departure_id":   1,
		"seat_number":    3,
		"price":          "500",
		"passenger_name": "Awa Diallo",
	})
	c, w := newTestContext(http.MethodPost, "/api/v1/reservations", body, &testUser)

	mockService.On("Create", mock.Anything, testUser, mock.MatchedBy(func(in reservation.CreateInput) bool {
		return in.DepartureID == 1 && in.SeatNumber == 3 && in.Price != nil && in.Price.Equal(price) && in.PassengerName == "Awa Diallo"
	})).Return(sampleReservation(), nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response domain.Reservation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, int64(101), response.ID)
	assert.Equal(t, "BRT1.abc", response.Credential)
	assert.Equal(t, domain.ReservationStatusPending, response.Status)

	mockService.AssertExpectations(t)
}

func TestReservationHandler_createSeatTaken(t *testing.T) {
	mockService := &MockReservationUseCase{}
	handler := NewReservationHandler(mockService, &MockDepartureUseCase{}, nil)

	body := []byte(`{"departure_id":1,"seat_number":3}`)
	c, w := newTestContext(http.MethodPost, "/api/v1/reservations", body, &testUser)
	mockService.On("Create", mock.Anything, testUser, mock.Anything).Return(nil, domain.ErrSeatAlreadyReserved)

	handler.create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	var response ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "seat_already_reserved", response.Code)
}

func TestReservationHandler_createBadBody(t *testing.T) {
	mockService := &MockReservationUseCase{}
	handler := NewReservationHandler(mockService, &MockDepartureUseCase{}, nil)

	c, w := newTestContext(http.MethodPost, "/api/v1/reservations", []byte(`{"departure_id":"x"`), &testUser)

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestReservationHandler_createUnauthenticated(t *testing.T) {
	handler := NewReservationHandler(&MockReservationUseCase{}, &MockDepartureUseCase{}, nil)

	c, w := newTestContext(http.MethodPost, "/api/v1/reservations", []byte(`{}`), nil)

	handler.create(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestReservationHandler_cancel(t *testing.T) {
	mockService := &MockReservationUseCase{}
	handler := NewReservationHandler(mockService, &MockDepartureUseCase{}, nil)

	c, w := newTestContext(http.MethodDelete, "/api/v1/reservations/101", nil, &testUser)
	c.Params = gin.Params{{Key: "id", Value: "101"}}

	cancelled := sampleReservation()
	cancelled.Status = domain.ReservationStatusCancelled
	mockService.On("Cancel", mock.Anything, int64(101), testUser).Return(cancelled, nil)

	handler.cancel(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var response domain.Reservation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, domain.ReservationStatusCancelled, response.Status)
	mockService.AssertExpectations(t)
}

func TestReservationHandler_cancelBadID(t *testing.T) {
	handler := NewReservationHandler(&MockReservationUseCase{}, &MockDepartureUseCase{}, nil)

	c, w := newTestContext(http.MethodDelete, "/api/v1/reservations/abc", nil, &testUser)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	handler.cancel(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReservationHandler_getForbidden(t *testing.T) {
	mockService := &MockReservationUseCase{}
	handler := NewReservationHandler(mockService, &MockDepartureUseCase{}, nil)

	c, w := newTestContext(http.MethodGet, "/api/v1/reservations/101", nil, &testUser)
	c.Params = gin.Params{{Key: "id", Value: "101"}}
	mockService.On("Get", mock.Anything, int64(101), testUser).Return(nil, domain.ErrForbidden)

	handler.get(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestReservationHandler_listEmpty(t *testing.T) {
	mockService := &MockReservationUseCase{}
	handler := NewReservationHandler(mockService, &MockDepartureUseCase{}, nil)

	c, w := newTestContext(http.MethodGet, "/api/v1/reservations", nil, &testUser)
	mockService.On("List", mock.Anything, testUser).Return(nil, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestReservationHandler_boardingPass(t *testing.T) {
	mockService := &MockReservationUseCase{}
	mockDepartures := &MockDepartureUseCase{}
	handler := NewReservationHandler(mockService, mockDepartures, testClock)

	c, w := newTestContext(http.MethodGet, "/api/v1/reservations/101/boarding-pass", nil, &testUser)
	c.Params = gin.Params{{Key: "id", Value: "101"}}

	res := sampleReservation()
	mockService.On("Get", mock.Anything, int64(101), testUser).Return(res, nil)
	mockDepartures.On("GetByID", mock.Anything, int64(1)).Return(&domain.Departure{
		ID:            1,
		BusNumber:     "DK-204",
		Route:         "Dakar - Thies",
		DepartureTime: res.DepartureTime,
		ArrivalTime:   res.DepartureTime.Add(2 * time.Hour),
		TotalSeats:    40,
		Price:         decimal.NewFromInt(500),
	}, nil)

	handler.boardingPass(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".pdf")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

func TestReservationHandler_boardingPassCancelled(t *testing.T) {
	mockService := &MockReservationUseCase{}
	handler := NewReservationHandler(mockService, &MockDepartureUseCase{}, nil)

	c, w := newTestContext(http.MethodGet, "/api/v1/reservations/101/boarding-pass", nil, &testUser)
	c.Params = gin.Params{{Key: "id", Value: "101"}}

	res := sampleReservation()
	res.Status = domain.ReservationStatusCancelled
	mockService.On("Get", mock.Anything, int64(101), testUser).Return(res, nil)

	handler.boardingPass(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestReservationHandler_boardingPassScanned(t *testing.T) {
	mockService := &MockReservationUseCase{}
	mockDepartures := &MockDepartureUseCase{}
	handler := NewReservationHandler(mockService, mockDepartures, testClock)

	c, w := newTestContext(http.MethodGet, "/api/v1/reservations/101/boarding-pass", nil, &testUser)
	c.Params = gin.Params{{Key: "id", Value: "101"}}

	res := sampleReservation()
	res.Status = domain.ReservationStatusScanned
	mockService.On("Get", mock.Anything, int64(101), testUser).Return(res, nil)

	handler.boardingPass(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already_scanned")
	mockDepartures.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestReservationHandler_boardingPassAfterDeparture(t *testing.T) {
	res := sampleReservation()
	dep := &domain.Departure{
		ID:            1,
		BusNumber:     "DK-204",
		Route:         "Dakar - Thies",
		DepartureTime: res.DepartureTime,
		ArrivalTime:   res.DepartureTime.Add(2 * time.Hour),
		TotalSeats:    40,
		Price:         decimal.NewFromInt(500),
	}

	tests := []struct {
		name   string
		now    time.Time
		status int
	}{
		{"late but before departure", res.ValidUntil.Add(30 * time.Minute), http.StatusOK},
		{"at departure", res.DepartureTime, http.StatusConflict},
		{"after departure", res.DepartureTime.Add(time.Minute), http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockReservationUseCase{}
			mockDepartures := &MockDepartureUseCase{}
			handler := NewReservationHandler(mockService, mockDepartures, clock.NewFake(tt.now))

			c, w := newTestContext(http.MethodGet, "/api/v1/reservations/101/boarding-pass", nil, &testUser)
			c.Params = gin.Params{{Key: "id", Value: "101"}}
			mockService.On("Get", mock.Anything, int64(101), testUser).Return(res, nil)
			mockDepartures.On("GetByID", mock.Anything, int64(1)).Return(dep, nil)

			handler.boardingPass(c)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusConflict {
				assert.Contains(t, w.Body.String(), "departure_already_left")
			}
		})
	}
}
