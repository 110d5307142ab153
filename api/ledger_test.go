package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/Domenick1991/busreservation/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLedgerHandler_entries(t *testing.T) {
	mockService := &MockLedgerUseCase{}
	handler := NewLedgerHandler(mockService)

	c, w := newTestContext(http.MethodGet, "/api/v1/ledger", nil, &testUser)
	mockService.On("Entries", mock.Anything, testUser, int64(0)).Return([]domain.LedgerEntry{
		{ID: 1, ReservationID: 101, UserID: 7, Amount: decimal.NewFromInt(600), Deposit: decimal.NewFromInt(100), Kind: domain.LedgerKindPayment},
	}, nil)

	handler.entries(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var response []domain.LedgerEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response, 1)
	assert.Equal(t, domain.LedgerKindPayment, response[0].Kind)
	mockService.AssertExpectations(t)
}

func TestLedgerHandler_balanceOtherUserForbidden(t *testing.T) {
	mockService := &MockLedgerUseCase{}
	handler := NewLedgerHandler(mockService)

	c, w := newTestContext(http.MethodGet, "/api/v1/balance?user_id=8", nil, &testUser)
	mockService.On("Balance", mock.Anything, testUser, int64(8)).Return(nil, domain.ErrForbidden)

	handler.balance(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLedgerHandler_balance(t *testing.T) {
	mockService := &MockLedgerUseCase{}
	handler := NewLedgerHandler(mockService)

	c, w := newTestContext(http.MethodGet, "/api/v1/balance", nil, &testUser)
	mockService.On("Balance", mock.Anything, testUser, int64(0)).Return(&domain.Balance{UserID: 7, Amount: decimal.NewFromInt(100)}, nil)

	handler.balance(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var response domain.Balance
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Amount.Equal(decimal.NewFromInt(100)))
}

func TestLedgerHandler_badUserID(t *testing.T) {
	handler := NewLedgerHandler(&MockLedgerUseCase{})

	c, w := newTestContext(http.MethodGet, "/api/v1/ledger?user_id=abc", nil, &testUser)

	handler.entries(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
