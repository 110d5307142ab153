package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Domenick1991/busreservation/internal/domain"
	"github.com/Domenick1991/busreservation/internal/repository"
	"github.com/shopspring/decimal"
)

type departureRepo struct {
	s *Store
}

func (r *departureRepo) List(ctx context.Context) ([]domain.Departure, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows, err := r.s.db.QueryContext(ctx, `SELECT `+departureColumns+` FROM departures ORDER BY departure_time, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	departures := make([]domain.Departure, 0)
	for rows.Next() {
		d, err := scanDeparture(rows)
		if err != nil {
			return nil, err
		}
		departures = append(departures, *d)
	}
	return departures, rows.Err()
}

func (r *departureRepo) GetByID(ctx context.Context, id int64) (*domain.Departure, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return getDeparture(ctx, r.s.db, id)
}

func getDeparture(ctx context.Context, q querier, id int64) (*domain.Departure, error) {
	d, err := scanDeparture(q.QueryRowContext(ctx, `SELECT `+departureColumns+` FROM departures WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrDepartureNotFound
	}
	return d, err
}

type reservationRepo struct {
	s *Store
}

func (r *reservationRepo) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return getReservation(ctx, r.s.db, `id = ?`, id, domain.ErrReservationNotFound)
}

func (r *reservationRepo) List(ctx context.Context, filter repository.ReservationFilter) ([]domain.Reservation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var (
		where []string
		args  []any
	)
	if filter.UserID != 0 {
		where = append(where, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if len(filter.DepartureIDs) > 0 {
		marks, ids := int64Placeholders(filter.DepartureIDs)
		where = append(where, "departure_id IN ("+marks+")")
		args = append(args, ids...)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}

	query := `SELECT ` + reservationColumns + ` FROM reservations`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	if filter.BySeat {
		query += ` ORDER BY departure_time ASC, seat_number ASC, id ASC`
	} else {
		query += ` ORDER BY updated_at DESC, id DESC`
	}
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reservations := make([]domain.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, *res)
	}
	return reservations, rows.Err()
}

func getReservation(ctx context.Context, q querier, cond string, arg any, notFound error) (*domain.Reservation, error) {
	res, err := scanReservation(q.QueryRowContext(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE `+cond, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound
	}
	return res, err
}

type ledgerRepo struct {
	s *Store
}

func (r *ledgerRepo) ListEntries(ctx context.Context, filter repository.LedgerFilter) ([]domain.LedgerEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var (
		where []string
		args  []any
	)
	if filter.UserID != 0 {
		where = append(where, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if len(filter.ReservationIDs) > 0 {
		marks, ids := int64Placeholders(filter.ReservationIDs)
		where = append(where, "reservation_id IN ("+marks+")")
		args = append(args, ids...)
	}
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.LedgerEntry, 0)
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

func (r *ledgerRepo) GetBalance(ctx context.Context, userID int64) (*domain.Balance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return getBalance(ctx, r.s.db, userID)
}

func getBalance(ctx context.Context, q querier, userID int64) (*domain.Balance, error) {
	b := domain.Balance{UserID: userID, Amount: decimal.Zero}
	var updatedAt string
	err := q.QueryRowContext(ctx, `SELECT balance, updated_at FROM user_balances WHERE user_id = ?`, userID).Scan(&b.Amount, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return &b, nil
	}
	if err != nil {
		return nil, err
	}
	if err := parseTimes(timeColumn{"updated_at", updatedAt, &b.UpdatedAt}); err != nil {
		return nil, fmt.Errorf("balance of user %d: %w", userID, err)
	}
	return &b, nil
}

var (
	_ repository.DepartureRepository   = (*departureRepo)(nil)
	_ repository.ReservationRepository = (*reservationRepo)(nil)
	_ repository.LedgerRepository      = (*ledgerRepo)(nil)
)
