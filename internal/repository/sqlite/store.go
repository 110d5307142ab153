// Package sqlite provides an embedded SQLite implementation of the
// repository interfaces.
//
// Writers are serialized twice: in-process by the store mutex, and across
// processes by opening every transaction with BEGIN IMMEDIATE (_txlock) so
// the database write lock is held from the first statement. The busy
// timeout makes a second process wait for that lock instead of failing.
//
// Timestamps are stored as fixed-width UTC text so they sort correctly.
// Money is stored as decimal text.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Domenick1991/busreservation/internal/domain"
	"github.com/Domenick1991/busreservation/internal/repository"
	"github.com/mattn/go-sqlite3"
)

const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store implements repository.TxManager and hands out the read repositories.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (and migrates) the database at path. Use ":memory:" for a
// throwaway database.
func New(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate", path)
	if path != ":memory:" {
		dsn += "&_journal_mode=WAL"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == ":memory:" {
		// every connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// FromDB wraps an already opened handle without migrating it.
func FromDB(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS departures (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		bus_number TEXT NOT NULL,
		route TEXT NOT NULL,
		departure_time TEXT NOT NULL,
		arrival_time TEXT NOT NULL,
		total_seats INTEGER NOT NULL CHECK (total_seats > 0),
		available_seats INTEGER NOT NULL,
		price TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		CONSTRAINT departures_available_seats_check CHECK (available_seats >= 0 AND available_seats <= total_seats)
	);

	CREATE TABLE IF NOT EXISTS reservations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		departure_id INTEGER NOT NULL REFERENCES departures(id),
		seat_number INTEGER NOT NULL CHECK (seat_number > 0),
		credential TEXT NOT NULL UNIQUE,
		valid_until TEXT NOT NULL,
		departure_time TEXT NOT NULL,
		status TEXT NOT NULL CHECK (status IN ('pending', 'confirmed', 'scanned', 'cancelled')),
		passenger_name TEXT,
		route_override TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- one live reservation per seat; cancelled rows free the seat
	CREATE UNIQUE INDEX IF NOT EXISTS idx_reservations_active_seat
		ON reservations(departure_id, seat_number) WHERE status <> 'cancelled';
	CREATE INDEX IF NOT EXISTS idx_reservations_user ON reservations(user_id);

	-- append-only: no UPDATE or DELETE is ever issued on this table
	CREATE TABLE IF NOT EXISTS ledger_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		reservation_id INTEGER NOT NULL REFERENCES reservations(id),
		user_id INTEGER NOT NULL,
		amount TEXT NOT NULL,
		deposit TEXT NOT NULL,
		kind TEXT NOT NULL CHECK (kind IN ('payment', 'refund', 'compensation')),
		status TEXT NOT NULL CHECK (status IN ('pending', 'completed', 'failed')),
		created_at TEXT NOT NULL,
		UNIQUE (reservation_id, kind)
	);
	CREATE INDEX IF NOT EXISTS idx_ledger_user ON ledger_entries(user_id);

	CREATE TABLE IF NOT EXISTS user_balances (
		user_id INTEGER PRIMARY KEY,
		balance TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// WithinTx runs fn in one transaction. Any error or panic from fn rolls
// back; a failed commit is reported as such.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(ctx, &txStore{tx: sqlTx}); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// InsertDeparture adds a departure with all seats available. Departures are
// owned by an outside catalogue; this exists for seeding single-node setups.
func (s *Store) InsertDeparture(ctx context.Context, d *domain.Departure) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = now
	}
	if d.AvailableSeats == 0 {
		d.AvailableSeats = d.TotalSeats
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO departures
		(bus_number, route, departure_time, arrival_time, total_seats, available_seats, price, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.BusNumber, d.Route, formatTime(d.DepartureTime), formatTime(d.ArrivalTime),
		d.TotalSeats, d.AvailableSeats, d.Price.String(), formatTime(d.CreatedAt), formatTime(d.UpdatedAt))
	if err != nil {
		return err
	}
	d.ID, err = res.LastInsertId()
	return err
}

func (s *Store) Departures() repository.DepartureRepository { return &departureRepo{s: s} }

func (s *Store) Reservations() repository.ReservationRepository { return &reservationRepo{s: s} }

func (s *Store) Ledger() repository.LedgerRepository { return &ledgerRepo{s: s} }

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

const departureColumns = `id, bus_number, route, departure_time, arrival_time, total_seats, available_seats, price, created_at, updated_at`

func scanDeparture(row rowScanner) (*domain.Departure, error) {
	var (
		d                          domain.Departure
		depTime, arrTime, cAt, uAt string
	)
	if err := row.Scan(&d.ID, &d.BusNumber, &d.Route, &depTime, &arrTime, &d.TotalSeats, &d.AvailableSeats, &d.Price, &cAt, &uAt); err != nil {
		return nil, err
	}
	err := parseTimes(
		timeColumn{"departure_time", depTime, &d.DepartureTime},
		timeColumn{"arrival_time", arrTime, &d.ArrivalTime},
		timeColumn{"created_at", cAt, &d.CreatedAt},
		timeColumn{"updated_at", uAt, &d.UpdatedAt},
	)
	if err != nil {
		return nil, fmt.Errorf("departure %d: %w", d.ID, err)
	}
	return &d, nil
}

const reservationColumns = `id, user_id, departure_id, seat_number, credential, valid_until, departure_time, status,
	COALESCE(passenger_name, ''), COALESCE(route_override, ''), created_at, updated_at`

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var (
		r                   domain.Reservation
		validUntil, depTime string
		cAt, uAt            string
	)
	if err := row.Scan(&r.ID, &r.UserID, &r.DepartureID, &r.SeatNumber, &r.Credential, &validUntil, &depTime, &r.Status,
		&r.PassengerName, &r.RouteOverride, &cAt, &uAt); err != nil {
		return nil, err
	}
	err := parseTimes(
		timeColumn{"valid_until", validUntil, &r.ValidUntil},
		timeColumn{"departure_time", depTime, &r.DepartureTime},
		timeColumn{"created_at", cAt, &r.CreatedAt},
		timeColumn{"updated_at", uAt, &r.UpdatedAt},
	)
	if err != nil {
		return nil, fmt.Errorf("reservation %d: %w", r.ID, err)
	}
	return &r, nil
}

const ledgerColumns = `id, reservation_id, user_id, amount, deposit, kind, status, created_at`

func scanLedgerEntry(row rowScanner) (*domain.LedgerEntry, error) {
	var (
		e   domain.LedgerEntry
		cAt string
	)
	if err := row.Scan(&e.ID, &e.ReservationID, &e.UserID, &e.Amount, &e.Deposit, &e.Kind, &e.Status, &cAt); err != nil {
		return nil, err
	}
	if err := parseTimes(timeColumn{"created_at", cAt, &e.CreatedAt}); err != nil {
		return nil, fmt.Errorf("ledger entry %d: %w", e.ID, err)
	}
	return &e, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

type timeColumn struct {
	name string
	raw  string
	dst  *time.Time
}

// parseTimes fills every column or reports the first one that does not
// hold a timestamp.
func parseTimes(cols ...timeColumn) error {
	for _, c := range cols {
		t, err := parseTime(c.raw)
		if err != nil {
			return fmt.Errorf("column %s: %w", c.name, err)
		}
		*c.dst = t
	}
	return nil
}

// mapError turns constraint violations the services act on into domain
// errors.
func mapError(err error) error {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}
	msg := sqliteErr.Error()
	switch {
	case sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique &&
		strings.Contains(msg, "reservations.departure_id") && strings.Contains(msg, "reservations.seat_number"):
		return domain.ErrSeatAlreadyReserved
	case sqliteErr.ExtendedCode == sqlite3.ErrConstraintCheck &&
		strings.Contains(msg, "departures_available_seats_check"):
		return domain.ErrNoSeatsAvailable
	}
	return err
}

func int64Placeholders(ids []int64) (string, []any) {
	marks := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		marks[i] = "?"
		args[i] = id
	}
	return strings.Join(marks, ", "), args
}

var _ repository.TxManager = (*Store)(nil)
