package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Domenick1991/busreservation/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const ledgerColumns = `id, reservation_id, user_id, amount, deposit, kind, status, created_at`

type PGLedgerRepository struct {
	db *pgxpool.Pool
}

func NewLedgerRepository(db *pgxpool.Pool) LedgerRepository {
	return &PGLedgerRepository{db: db}
}

func (r *PGLedgerRepository) ListEntries(ctx context.Context, filter LedgerFilter) ([]domain.LedgerEntry, error) {
	var (
		where []string
		args  []any
	)
	if filter.UserID != 0 {
		args = append(args, filter.UserID)
		where = append(where, fmt.Sprintf("user_id=$%d", len(args)))
	}
	if len(filter.ReservationIDs) > 0 {
		args = append(args, filter.ReservationIDs)
		where = append(where, fmt.Sprintf("reservation_id = ANY($%d)", len(args)))
	}
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query, args...)
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

func (r *PGLedgerRepository) GetBalance(ctx context.Context, userID int64) (*domain.Balance, error) {
	b := domain.Balance{UserID: userID}
	err := r.db.QueryRow(ctx, `SELECT balance, updated_at FROM user_balances WHERE user_id=$1`, userID).Scan(&b.Amount, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return &b, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func scanLedgerEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	var e domain.LedgerEntry
	if err := row.Scan(&e.ID, &e.ReservationID, &e.UserID, &e.Amount, &e.Deposit, &e.Kind, &e.Status, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

var _ LedgerRepository = (*PGLedgerRepository)(nil)
