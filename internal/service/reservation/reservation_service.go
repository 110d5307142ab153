package reservation

import (
	"context"
	"log/slog"
	"time"

	"github.com/Domenick1991/busreservation/internal/clock"
	"github.com/Domenick1991/busreservation/internal/domain"
	"github.com/Domenick1991/busreservation/internal/kafka"
	"github.com/Domenick1991/busreservation/internal/logging"
	"github.com/Domenick1991/busreservation/internal/repository"
	"github.com/Domenick1991/busreservation/internal/service/credential"
	"github.com/Domenick1991/busreservation/internal/service/seats"
	"github.com/shopspring/decimal"
)

type ReservationUseCase interface {
	Create(ctx context.Context, actor domain.Actor, input CreateInput) (*domain.Reservation, error)
	Cancel(ctx context.Context, reservationID int64, actor domain.Actor) (*domain.Reservation, error)
	Get(ctx context.Context, reservationID int64, actor domain.Actor) (*domain.Reservation, error)
	List(ctx context.Context, actor domain.Actor) ([]domain.Reservation, error)
}

type Cache interface {
	AcquireSeatLock(ctx context.Context, departureID int64, seatNumber int, ttl time.Duration) (bool, error)
	ReleaseSeatLock(ctx context.Context, departureID int64, seatNumber int) error
	InvalidateDepartures(ctx context.Context) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event kafka.ReservationEvent) error
}

type CreateInput struct {
	DepartureID int64 `json:"departure_id"`
	// SeatNumber 0 lets the allocator pick the lowest free seat.
	SeatNumber int `json:"seat_number,omitempty"`
	// Price replaces the departure's base price when positive.
	Price         *decimal.Decimal `json:"price,omitempty"`
	PassengerName string           `json:"passenger_name,omitempty"`
	RouteOverride string           `json:"route_override,omitempty"`
}

type ReservationService struct {
	tx           repository.TxManager
	reservations repository.ReservationRepository
	issuer       *credential.Issuer
	clock        clock.Clock
	cache        Cache
	events       EventPublisher
	logger       *slog.Logger
	deposit      decimal.Decimal
	seatLockTTL  time.Duration
}

type ReservationServiceOption func(*ReservationService)

func WithClock(c clock.Clock) ReservationServiceOption {
	return func(s *ReservationService) { s.clock = c }
}

func WithCache(c Cache, seatLockTTL time.Duration) ReservationServiceOption {
	return func(s *ReservationService) {
		s.cache = c
		s.seatLockTTL = seatLockTTL
	}
}

func WithEvents(p EventPublisher) ReservationServiceOption {
	return func(s *ReservationService) { s.events = p }
}

func WithLogger(l *slog.Logger) ReservationServiceOption {
	return func(s *ReservationService) { s.logger = l }
}

// WithDeposit sets the amount charged on top of the ticket price.
func WithDeposit(d decimal.Decimal) ReservationServiceOption {
	return func(s *ReservationService) { s.deposit = d }
}

func NewReservationService(tx repository.TxManager, reservations repository.ReservationRepository, opts ...ReservationServiceOption) *ReservationService {
	s := &ReservationService{
		tx:           tx,
		reservations: reservations,
		clock:        clock.Real(),
		logger:       logging.Discard(),
		deposit:      decimal.NewFromInt(100),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.issuer = credential.NewIssuer(s.clock)
	return s
}

// Create books a seat and records its payment in one transaction.
func (s *ReservationService) Create(ctx context.Context, actor domain.Actor, input CreateInput) (*domain.Reservation, error) {
	if actor.UserID <= 0 {
		return nil, domain.Invalid("user_id", "must be positive")
	}
	if input.DepartureID <= 0 {
		return nil, domain.Invalid("departure_id", "must be positive")
	}

	if input.SeatNumber > 0 && s.cache != nil {
		ok, err := s.cache.AcquireSeatLock(ctx, input.DepartureID, input.SeatNumber, s.seatLockTTL)
		switch {
		case err != nil:
			s.logger.Warn("seat lock unavailable, relying on store", "departure_id", input.DepartureID, "seat", input.SeatNumber, "error", err)
		case !ok:
			return nil, domain.ErrSeatAlreadyReserved.With("seat %d is being reserved", input.SeatNumber)
		default:
			defer s.releaseSeatLock(input.DepartureID, input.SeatNumber)
		}
	}

	var res *domain.Reservation
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		now := s.clock.Now()

		dep, err := tx.LockDeparture(ctx, input.DepartureID)
		if err != nil {
			return err
		}
		if dep.AvailableSeats <= 0 {
			return domain.ErrNoSeatsAvailable
		}
		if dep.HasDeparted(now) {
			return domain.ErrDepartureAlreadyDeparted
		}

		taken, err := tx.ReservedSeats(ctx, dep.ID)
		if err != nil {
			return err
		}
		seat, err := seats.Allocate(dep.TotalSeats, taken, input.SeatNumber)
		if err != nil {
			return err
		}

		token, validUntil, err := s.issuer.Issue(dep, actor.UserID, seat)
		if err != nil {
			return err
		}

		res = &domain.Reservation{
			UserID:        actor.UserID,
			DepartureID:   dep.ID,
			SeatNumber:    seat,
			Credential:    token,
			ValidUntil:    validUntil,
			DepartureTime: dep.DepartureTime,
			Status:        domain.ReservationStatusPending,
			PassengerName: input.PassengerName,
			RouteOverride: input.RouteOverride,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := tx.InsertReservation(ctx, res); err != nil {
			return err
		}

		price := dep.Price
		if input.Price != nil && input.Price.IsPositive() {
			price = *input.Price
		}
		if err := tx.AppendLedgerEntry(ctx, domain.NewPaymentEntry(res, price, s.deposit, now)); err != nil {
			return err
		}
		return tx.AdjustAvailableSeats(ctx, dep.ID, -1, now)
	})
	if err != nil {
		return nil, domain.StorageFailure(err)
	}

	s.logger.Info("reservation created", "reservation_id", res.ID, "departure_id", res.DepartureID, "seat", res.SeatNumber, "user_id", res.UserID)
	s.afterCommit(ctx, kafka.EventReservationCreated, res)
	return res, nil
}

// Cancel releases the seat of a pending reservation. No money moves.
func (s *ReservationService) Cancel(ctx context.Context, reservationID int64, actor domain.Actor) (*domain.Reservation, error) {
	if reservationID <= 0 {
		return nil, domain.Invalid("reservation_id", "must be positive")
	}

	var res *domain.Reservation
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		res, err = tx.LockReservation(ctx, reservationID)
		if err != nil {
			return err
		}
		if !actor.CanAccess(res.UserID) {
			return domain.ErrForbidden
		}
		switch res.Status {
		case domain.ReservationStatusScanned:
			return domain.ErrAlreadyScanned
		case domain.ReservationStatusCancelled:
			return domain.ErrReservationCancelled
		}

		now := s.clock.Now()
		res.Status = domain.ReservationStatusCancelled
		res.UpdatedAt = now
		if err := tx.UpdateReservationStatus(ctx, res); err != nil {
			return err
		}
		return tx.AdjustAvailableSeats(ctx, res.DepartureID, 1, now)
	})
	if err != nil {
		return nil, domain.StorageFailure(err)
	}

	s.logger.Info("reservation cancelled", "reservation_id", res.ID, "departure_id", res.DepartureID, "seat", res.SeatNumber)
	s.afterCommit(ctx, kafka.EventReservationCancelled, res)
	return res, nil
}

func (s *ReservationService) Get(ctx context.Context, reservationID int64, actor domain.Actor) (*domain.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, domain.StorageFailure(err)
	}
	if !actor.CanAccess(res.UserID) {
		return nil, domain.ErrForbidden
	}
	return res, nil
}

// List returns every reservation to admins and the caller's own to everyone else.
func (s *ReservationService) List(ctx context.Context, actor domain.Actor) ([]domain.Reservation, error) {
	filter := repository.ReservationFilter{UserID: actor.UserID}
	if actor.IsAdmin() {
		filter.UserID = 0
	} else if actor.UserID <= 0 {
		return nil, domain.ErrForbidden
	}
	list, err := s.reservations.List(ctx, filter)
	if err != nil {
		return nil, domain.StorageFailure(err)
	}
	return list, nil
}

// afterCommit runs the side effects of a committed change. Failures are
// logged and never reach the caller.
func (s *ReservationService) afterCommit(ctx context.Context, eventType string, res *domain.Reservation) {
	if s.cache != nil {
		if err := s.cache.InvalidateDepartures(ctx); err != nil {
			s.logger.Warn("failed to invalidate departures cache", "error", err)
		}
	}
	if s.events != nil {
		event := kafka.NewReservationEvent(eventType, res, s.clock.Now())
		if err := s.events.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish event", "type", eventType, "reservation_id", res.ID, "error", err)
		}
	}
}

func (s *ReservationService) releaseSeatLock(departureID int64, seat int) {
	// the request context may already be cancelled
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.cache.ReleaseSeatLock(ctx, departureID, seat); err != nil {
		s.logger.Warn("failed to release seat lock", "departure_id", departureID, "seat", seat, "error", err)
	}
}

var _ ReservationUseCase = (*ReservationService)(nil)
