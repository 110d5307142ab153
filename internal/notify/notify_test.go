package notify

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/Domenick1991/busreservation/internal/kafka"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage(t *testing.T) {
	msg, ok := Message(kafka.ReservationEvent{Type: kafka.EventReservationCreated, ReservationID: 9, DepartureID: 3, SeatNumber: 4})
	assert.True(t, ok)
	assert.Equal(t, "Seat 4 on departure 3 is reserved (reservation #9).", msg)

	msg, ok = Message(kafka.ReservationEvent{Type: kafka.EventReservationScanned, Refund: decimal.NewFromInt(500), Compensation: decimal.NewFromInt(100)})
	assert.True(t, ok)
	assert.Equal(t, "You boarded late: 500.00 refunded, 100.00 deposit retained.", msg)

	msg, ok = Message(kafka.ReservationEvent{Type: kafka.EventReservationScanned, Refund: decimal.NewFromInt(100)})
	assert.True(t, ok)
	assert.Equal(t, "You boarded on time: 100.00 deposit refunded.", msg)

	_, ok = Message(kafka.ReservationEvent{Type: "unknown"})
	assert.False(t, ok)
}

func TestSender_Send(t *testing.T) {
	var buf bytes.Buffer
	s := NewSender(slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, s.Send(context.Background(), kafka.ReservationEvent{Type: kafka.EventReservationCancelled, UserID: 7, ReservationID: 9}))
	assert.Contains(t, buf.String(), "notify passenger")
	assert.Contains(t, buf.String(), "user_id=7")
}
