package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/busreservation/internal/domain"
	"github.com/Domenick1991/busreservation/internal/repository"
	"github.com/shopspring/decimal"
)

// txStore is the repository.Tx handed to WithinTx callbacks. SQLite has no
// row locks; the immediate transaction already holds the database write
// lock, so the Lock* reads are plain selects.
type txStore struct {
	tx *sql.Tx
}

func (t *txStore) LockDeparture(ctx context.Context, id int64) (*domain.Departure, error) {
	return getDeparture(ctx, t.tx, id)
}

func (t *txStore) ReservedSeats(ctx context.Context, departureID int64) ([]int, error) {
	rows, err := t.tx.QueryContext(ctx, `SELECT seat_number FROM reservations WHERE departure_id = ? AND status <> ? ORDER BY seat_number`,
		departureID, domain.ReservationStatusCancelled)
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

func (t *txStore) AdjustAvailableSeats(ctx context.Context, departureID int64, delta int, at time.Time) error {
	res, err := t.tx.ExecContext(ctx, `UPDATE departures SET available_seats = available_seats + ?, updated_at = ? WHERE id = ?`,
		delta, formatTime(at), departureID)
	if err != nil {
		return mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrDepartureNotFound
	}
	return nil
}

func (t *txStore) InsertReservation(ctx context.Context, r *domain.Reservation) error {
	res, err := t.tx.ExecContext(ctx, `INSERT INTO reservations
		(user_id, departure_id, seat_number, credential, valid_until, departure_time, status, passenger_name, route_override, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NULLIF(?, ''), NULLIF(?, ''), ?, ?)`,
		r.UserID, r.DepartureID, r.SeatNumber, r.Credential, formatTime(r.ValidUntil), formatTime(r.DepartureTime),
		r.Status, r.PassengerName, r.RouteOverride, formatTime(r.CreatedAt), formatTime(r.UpdatedAt))
	if err != nil {
		return mapError(err)
	}
	r.ID, err = res.LastInsertId()
	return err
}

func (t *txStore) LockReservation(ctx context.Context, id int64) (*domain.Reservation, error) {
	return getReservation(ctx, t.tx, `id = ?`, id, domain.ErrReservationNotFound)
}

func (t *txStore) LockReservationByCredential(ctx context.Context, credential string) (*domain.Reservation, error) {
	return getReservation(ctx, t.tx, `credential = ?`, credential, domain.ErrCredentialNotFound)
}

func (t *txStore) UpdateReservationStatus(ctx context.Context, r *domain.Reservation) error {
	res, err := t.tx.ExecContext(ctx, `UPDATE reservations SET status = ?, updated_at = ? WHERE id = ?`,
		r.Status, formatTime(r.UpdatedAt), r.ID)
	if err != nil {
		return mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrReservationNotFound
	}
	return nil
}

func (t *txStore) AppendLedgerEntry(ctx context.Context, e *domain.LedgerEntry) error {
	res, err := t.tx.ExecContext(ctx, `INSERT INTO ledger_entries (reservation_id, user_id, amount, deposit, kind, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ReservationID, e.UserID, e.Amount.String(), e.Deposit.String(), e.Kind, e.Status, formatTime(e.CreatedAt))
	if err != nil {
		return mapError(err)
	}
	e.ID, err = res.LastInsertId()
	return err
}

func (t *txStore) PaymentEntry(ctx context.Context, reservationID int64) (*domain.LedgerEntry, error) {
	e, err := scanLedgerEntry(t.tx.QueryRowContext(ctx, `SELECT `+ledgerColumns+` FROM ledger_entries WHERE reservation_id = ? AND kind = ?`,
		reservationID, domain.LedgerKindPayment))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("payment entry for reservation %d: %w", reservationID, err)
	}
	return e, err
}

func (t *txStore) CreditBalance(ctx context.Context, userID int64, amount decimal.Decimal, at time.Time) error {
	current, err := getBalance(ctx, t.tx, userID)
	if err != nil {
		return err
	}
	_, err = t.tx.ExecContext(ctx, `INSERT INTO user_balances (user_id, balance, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET balance = excluded.balance, updated_at = excluded.updated_at`,
		userID, current.Amount.Add(amount).String(), formatTime(at))
	return err
}

var _ repository.Tx = (*txStore)(nil)
