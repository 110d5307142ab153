package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/busreservation/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PGTxManager struct {
	db *pgxpool.Pool
}

func NewTxManager(db *pgxpool.Pool) TxManager {
	return &PGTxManager{db: db}
}

func (m *PGTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	tx, err := m.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, &pgTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) LockDeparture(ctx context.Context, id int64) (*domain.Departure, error) {
	d, err := scanDeparture(t.tx.QueryRow(ctx, `SELECT `+departureColumns+` FROM departures WHERE id=$1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrDepartureNotFound
	}
	return d, err
}

func (t *pgTx) ReservedSeats(ctx context.Context, departureID int64) ([]int, error) {
	rows, err := t.tx.Query(ctx, `SELECT seat_number FROM reservations WHERE departure_id=$1 AND status <> $2 ORDER BY seat_number`, departureID, domain.ReservationStatusCancelled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seats []int
	for rows.Next() {
		var seat int
		if err := rows.Scan(&seat); err != nil {
			return nil, err
		}
		seats = append(seats, seat)
	}
	return seats, rows.Err()
}

func (t *pgTx) AdjustAvailableSeats(ctx context.Context, departureID int64, delta int, at time.Time) error {
	cmd, err := t.tx.Exec(ctx, `UPDATE departures SET available_seats = available_seats + $1, updated_at = $2 WHERE id=$3`, delta, at, departureID)
	if err != nil {
		return mapPGError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrDepartureNotFound
	}
	return nil
}

func (t *pgTx) InsertReservation(ctx context.Context, r *domain.Reservation) error {
	err := t.tx.QueryRow(ctx, `INSERT INTO reservations
		(user_id, departure_id, seat_number, credential, valid_until, departure_time, status, passenger_name, route_override, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NULLIF($9, ''), $10, $11)
		RETURNING id`,
		r.UserID, r.DepartureID, r.SeatNumber, r.Credential, r.ValidUntil, r.DepartureTime, r.Status, r.PassengerName, r.RouteOverride, r.CreatedAt, r.UpdatedAt).
		Scan(&r.ID)
	return mapPGError(err)
}

func (t *pgTx) LockReservation(ctx context.Context, id int64) (*domain.Reservation, error) {
	r, err := scanReservation(t.tx.QueryRow(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id=$1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrReservationNotFound
	}
	return r, err
}

func (t *pgTx) LockReservationByCredential(ctx context.Context, credential string) (*domain.Reservation, error) {
	r, err := scanReservation(t.tx.QueryRow(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE credential=$1 FOR UPDATE`, credential))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCredentialNotFound
	}
	return r, err
}

func (t *pgTx) UpdateReservationStatus(ctx context.Context, r *domain.Reservation) error {
	cmd, err := t.tx.Exec(ctx, `UPDATE reservations SET status=$1, updated_at=$2 WHERE id=$3`, r.Status, r.UpdatedAt, r.ID)
	if err != nil {
		return mapPGError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrReservationNotFound
	}
	return nil
}

func (t *pgTx) AppendLedgerEntry(ctx context.Context, e *domain.LedgerEntry) error {
	err := t.tx.QueryRow(ctx, `INSERT INTO ledger_entries (reservation_id, user_id, amount, deposit, kind, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		e.ReservationID, e.UserID, e.Amount, e.Deposit, e.Kind, e.Status, e.CreatedAt).Scan(&e.ID)
	return mapPGError(err)
}

func (t *pgTx) PaymentEntry(ctx context.Context, reservationID int64) (*domain.LedgerEntry, error) {
	e, err := scanLedgerEntry(t.tx.QueryRow(ctx, `SELECT `+ledgerColumns+` FROM ledger_entries WHERE reservation_id=$1 AND kind=$2`, reservationID, domain.LedgerKindPayment))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("payment entry for reservation %d: %w", reservationID, err)
	}
	return e, err
}

func (t *pgTx) CreditBalance(ctx context.Context, userID int64, amount decimal.Decimal, at time.Time) error {
	_, err := t.tx.Exec(ctx, `INSERT INTO user_balances (user_id, balance, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET balance = user_balances.balance + EXCLUDED.balance, updated_at = EXCLUDED.updated_at`,
		userID, amount, at)
	return err
}

var (
	_ TxManager = (*PGTxManager)(nil)
	_ Tx        = (*pgTx)(nil)
)
