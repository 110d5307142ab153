package kafka

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Domenick1991/busreservation/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	EventReservationCreated   = "reservation_created"
	EventReservationCancelled = "reservation_cancelled"
	EventReservationScanned   = "reservation_scanned"
)

type ReservationEvent struct {
	Type          string          `json:"type"`
	ReservationID int64           `json:"reservation_id"`
	UserID        int64           `json:"user_id"`
	DepartureID   int64           `json:"departure_id"`
	SeatNumber    int             `json:"seat_number"`
	Status        string          `json:"status"`
	Refund        decimal.Decimal `json:"refund"`
	Compensation  decimal.Decimal `json:"compensation"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

func NewReservationEvent(eventType string, r *domain.Reservation, at time.Time) ReservationEvent {
	return ReservationEvent{
		Type:          eventType,
		ReservationID: r.ID,
		UserID:        r.UserID,
		DepartureID:   r.DepartureID,
		SeatNumber:    r.SeatNumber,
		Status:        string(r.Status),
		Refund:        decimal.Zero,
		Compensation:  decimal.Zero,
		OccurredAt:    at,
	}
}

// Key partitions events by reservation so consumers see them in order.
func (e ReservationEvent) Key() string {
	return strconv.FormatInt(e.ReservationID, 10)
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// EventPublisher writes every reservation event to the reservations topic
// and the ones with a user to notify to the notifications topic.
type EventPublisher struct {
	producer           Publisher
	reservationsTopic  string
	notificationsTopic string
}

func NewEventPublisher(producer Publisher, reservationsTopic, notificationsTopic string) *EventPublisher {
	return &EventPublisher{
		producer:           producer,
		reservationsTopic:  reservationsTopic,
		notificationsTopic: notificationsTopic,
	}
}

func (p *EventPublisher) Publish(ctx context.Context, event ReservationEvent) error {
	if p == nil || p.producer == nil {
		return nil
	}
	if p.reservationsTopic != "" {
		if err := p.producer.Publish(ctx, p.reservationsTopic, event.Key(), event); err != nil {
			return fmt.Errorf("publish %s: %w", event.Type, err)
		}
	}
	if p.notificationsTopic != "" && event.UserID != 0 {
		if err := p.producer.Publish(ctx, p.notificationsTopic, event.Key(), event); err != nil {
			return fmt.Errorf("publish %s notification: %w", event.Type, err)
		}
	}
	return nil
}
