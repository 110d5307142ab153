package settlement

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Domenick1991/busreservation/internal/clock"
	"github.com/Domenick1991/busreservation/internal/domain"
	"github.com/Domenick1991/busreservation/internal/kafka"
	"github.com/Domenick1991/busreservation/internal/logging"
	"github.com/Domenick1991/busreservation/internal/repository"
	"github.com/shopspring/decimal"
)

type Timeliness string

const (
	OnTime Timeliness = "on_time"
	Late   Timeliness = "late"
)

type Result struct {
	ReservationID int64           `json:"reservation_id"`
	DepartureID   int64           `json:"departure_id"`
	SeatNumber    int             `json:"seat_number"`
	Timeliness    Timeliness      `json:"timeliness"`
	Refund        decimal.Decimal `json:"refund"`
	Compensation  decimal.Decimal `json:"compensation"`
	Message       string          `json:"message"`
	ScannedAt     time.Time       `json:"scanned_at"`
	DepartureTime time.Time       `json:"departure_time"`
	ValidUntil    time.Time       `json:"valid_until"`
}

// Scan is a settled reservation together with the refund and compensation
// entries it produced.
type Scan struct {
	Reservation domain.Reservation   `json:"reservation"`
	Entries     []domain.LedgerEntry `json:"entries"`
}

type SettlementUseCase interface {
	Present(ctx context.Context, token string, presenter domain.Actor) (*Result, error)
	ScanHistory(ctx context.Context, presenter domain.Actor, limit int) ([]Scan, error)
	Passengers(ctx context.Context, presenter domain.Actor, departureID int64, status string) ([]domain.Reservation, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event kafka.ReservationEvent) error
}

type SettlementService struct {
	tx           repository.TxManager
	reservations repository.ReservationRepository
	ledger       repository.LedgerRepository
	clock        clock.Clock
	events       EventPublisher
	logger       *slog.Logger
	currency     string
}

type SettlementServiceOption func(*SettlementService)

func WithClock(c clock.Clock) SettlementServiceOption {
	return func(s *SettlementService) { s.clock = c }
}

func WithEvents(p EventPublisher) SettlementServiceOption {
	return func(s *SettlementService) { s.events = p }
}

func WithLogger(l *slog.Logger) SettlementServiceOption {
	return func(s *SettlementService) { s.logger = l }
}

// WithCurrency sets the unit shown in result messages.
func WithCurrency(c string) SettlementServiceOption {
	return func(s *SettlementService) { s.currency = c }
}

func NewSettlementService(tx repository.TxManager, reservations repository.ReservationRepository, ledger repository.LedgerRepository, opts ...SettlementServiceOption) *SettlementService {
	s := &SettlementService{
		tx:           tx,
		reservations: reservations,
		ledger:       ledger,
		clock:        clock.Real(),
		logger:       logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Classify decides how a credential presented at now is settled. The
// on-time window is inclusive of validUntil; the bus is gone from the
// departure instant on.
func Classify(now, validUntil, departure time.Time) (Timeliness, error) {
	switch {
	case !now.Before(departure):
		return "", domain.ErrDepartureAlreadyLeft
	case !now.After(validUntil):
		return OnTime, nil
	default:
		return Late, nil
	}
}

// Present settles the reservation holding token: it is marked scanned and
// the refund and compensation entries are written in one transaction.
func (s *SettlementService) Present(ctx context.Context, token string, presenter domain.Actor) (*Result, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.Invalid("credential", "required")
	}

	var (
		result *Result
		owner  int64
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		res, err := tx.LockReservationByCredential(ctx, token)
		if err != nil {
			return err
		}
		if !presenter.CanSettle(res.DepartureID) {
			return domain.ErrForbidden.With("departure %d is outside the presenter's scope", res.DepartureID)
		}
		switch res.Status {
		case domain.ReservationStatusScanned:
			return domain.ErrAlreadyScanned
		case domain.ReservationStatusCancelled:
			return domain.ErrReservationCancelled
		}

		now := s.clock.Now()
		timeliness, err := Classify(now, res.ValidUntil, res.DepartureTime)
		if err != nil {
			return err
		}

		payment, err := tx.PaymentEntry(ctx, res.ID)
		if err != nil {
			return err
		}
		refund, compensation := payment.Deposit, decimal.Zero
		if timeliness == Late {
			refund, compensation = payment.TicketPrice(), payment.Deposit
		}

		res.Status = domain.ReservationStatusScanned
		res.UpdatedAt = now
		if err := tx.UpdateReservationStatus(ctx, res); err != nil {
			return err
		}
		if refund.IsPositive() {
			if err := tx.AppendLedgerEntry(ctx, domain.NewRefundEntry(res, refund, now)); err != nil {
				return err
			}
			if err := tx.CreditBalance(ctx, res.UserID, refund, now); err != nil {
				return err
			}
		}
		if compensation.IsPositive() {
			if err := tx.AppendLedgerEntry(ctx, domain.NewCompensationEntry(res, compensation, now)); err != nil {
				return err
			}
		}

		owner = res.UserID
		result = &Result{
			ReservationID: res.ID,
			DepartureID:   res.DepartureID,
			SeatNumber:    res.SeatNumber,
			Timeliness:    timeliness,
			Refund:        refund,
			Compensation:  compensation,
			Message:       s.message(timeliness, refund, compensation),
			ScannedAt:     now,
			DepartureTime: res.DepartureTime,
			ValidUntil:    res.ValidUntil,
		}
		return nil
	})
	if err != nil {
		return nil, domain.StorageFailure(err)
	}

	s.logger.Info("credential presented",
		"reservation_id", result.ReservationID,
		"timeliness", result.Timeliness,
		"refund", result.Refund.String(),
		"compensation", result.Compensation.String(),
		"presenter", presenter.UserID)

	if s.events != nil {
		event := kafka.ReservationEvent{
			Type:          kafka.EventReservationScanned,
			ReservationID: result.ReservationID,
			UserID:        owner,
			DepartureID:   result.DepartureID,
			SeatNumber:    result.SeatNumber,
			Status:        string(domain.ReservationStatusScanned),
			Refund:        result.Refund,
			Compensation:  result.Compensation,
			OccurredAt:    result.ScannedAt,
		}
		if err := s.events.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish event", "type", event.Type, "reservation_id", event.ReservationID, "error", err)
		}
	}
	return result, nil
}

func (s *SettlementService) message(t Timeliness, refund, compensation decimal.Decimal) string {
	amount := func(d decimal.Decimal) string {
		if s.currency == "" {
			return d.StringFixed(2)
		}
		return d.StringFixed(2) + " " + s.currency
	}
	if t == OnTime {
		return fmt.Sprintf("boarded on time, deposit of %s refunded", amount(refund))
	}
	return fmt.Sprintf("boarded late, ticket price of %s refunded and deposit of %s retained", amount(refund), amount(compensation))
}

// MaxScanHistory bounds a single ScanHistory page.
const MaxScanHistory = 200

// StatusAll is the Passengers filter that matches every status.
const StatusAll = "all"

// Passengers is the boarding manifest: reservations on the departures the
// presenter may settle, ordered by departure time and seat. departureID 0
// covers every departure in scope; status "" or "all" matches any status.
func (s *SettlementService) Passengers(ctx context.Context, presenter domain.Actor, departureID int64, status string) ([]domain.Reservation, error) {
	if departureID < 0 {
		return nil, domain.Invalid("departure_id", "must not be negative")
	}
	filter := repository.ReservationFilter{BySeat: true}
	if status != "" && status != StatusAll {
		st, ok := domain.ParseReservationStatus(status)
		if !ok {
			return nil, domain.Invalid("status", fmt.Sprintf("unknown status %q", status))
		}
		filter.Status = st
	}

	switch {
	case presenter.IsAdmin():
		if departureID > 0 {
			filter.DepartureIDs = []int64{departureID}
		}
	case presenter.Role == domain.RoleStaff:
		if len(presenter.Departures) == 0 {
			return nil, domain.ErrForbidden.With("no departure assigned to this presenter")
		}
		if departureID > 0 {
			if !presenter.CanSettle(departureID) {
				return nil, domain.ErrForbidden.With("departure %d is outside the presenter's scope", departureID)
			}
			filter.DepartureIDs = []int64{departureID}
		} else {
			filter.DepartureIDs = presenter.Departures
		}
	default:
		return nil, domain.ErrForbidden
	}

	list, err := s.reservations.List(ctx, filter)
	if err != nil {
		return nil, domain.StorageFailure(err)
	}
	return list, nil
}

// ScanHistory lists the latest settled reservations the presenter may see:
// every departure for admins, the departures in scope for staff.
func (s *SettlementService) ScanHistory(ctx context.Context, presenter domain.Actor, limit int) ([]Scan, error) {
	if limit <= 0 || limit > MaxScanHistory {
		limit = MaxScanHistory
	}
	filter := repository.ReservationFilter{Status: domain.ReservationStatusScanned, Limit: limit}
	switch {
	case presenter.IsAdmin():
	case presenter.Role == domain.RoleStaff:
		if len(presenter.Departures) == 0 {
			return []Scan{}, nil
		}
		filter.DepartureIDs = presenter.Departures
	default:
		return nil, domain.ErrForbidden
	}

	reservations, err := s.reservations.List(ctx, filter)
	if err != nil {
		return nil, domain.StorageFailure(err)
	}
	scans := make([]Scan, 0, len(reservations))
	if len(reservations) == 0 {
		return scans, nil
	}

	ids := make([]int64, len(reservations))
	for i, r := range reservations {
		ids[i] = r.ID
	}
	entries, err := s.ledger.ListEntries(ctx, repository.LedgerFilter{ReservationIDs: ids})
	if err != nil {
		return nil, domain.StorageFailure(err)
	}
	byReservation := make(map[int64][]domain.LedgerEntry)
	for _, e := range entries {
		if e.Kind == domain.LedgerKindPayment {
			continue
		}
		byReservation[e.ReservationID] = append(byReservation[e.ReservationID], e)
	}
	for _, r := range reservations {
		scans = append(scans, Scan{Reservation: r, Entries: byReservation[r.ID]})
	}
	return scans, nil
}

var _ SettlementUseCase = (*SettlementService)(nil)
