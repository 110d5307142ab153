// Package notify delivers reservation events to passengers. The worker
// feeds it from the notifications topic.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Domenick1991/busreservation/internal/kafka"
)

type Sender struct {
	logger *slog.Logger
}

func NewSender(logger *slog.Logger) *Sender {
	return &Sender{logger: logger}
}

// Send logs the message a passenger would receive. No delivery channel is
// wired yet.
func (s *Sender) Send(ctx context.Context, event kafka.ReservationEvent) error {
	msg, ok := Message(event)
	if !ok {
		s.logger.Debug("no notification for event", "type", event.Type, "reservation_id", event.ReservationID)
		return nil
	}
	s.logger.Info("notify passenger", "user_id", event.UserID, "reservation_id", event.ReservationID, "message", msg)
	return nil
}

// Message is the passenger-facing text for an event.
func Message(e kafka.ReservationEvent) (string, bool) {
	switch e.Type {
	case kafka.EventReservationCreated:
		return fmt.Sprintf("Seat %d on departure %d is reserved (reservation #%d).", e.SeatNumber, e.DepartureID, e.ReservationID), true
	case kafka.EventReservationCancelled:
		return fmt.Sprintf("Reservation #%d for seat %d on departure %d was cancelled.", e.ReservationID, e.SeatNumber, e.DepartureID), true
	case kafka.EventReservationScanned:
		if e.Compensation.IsPositive() {
			return fmt.Sprintf("You boarded late: %s refunded, %s deposit retained.", e.Refund.StringFixed(2), e.Compensation.StringFixed(2)), true
		}
		return fmt.Sprintf("You boarded on time: %s deposit refunded.", e.Refund.StringFixed(2)), true
	}
	return "", false
}
