package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	activeSeatIndex     = "reservations_active_seat_idx"
	credentialIndex     = "reservations_credential_key"
	ledgerKindIndex     = "ledger_entries_reservation_kind_key"
	availableSeatsCheck = "departures_available_seats_check"
)

var pgSchema = []string{
	`CREATE TABLE IF NOT EXISTS departures (
		id BIGSERIAL PRIMARY KEY,
		bus_number TEXT NOT NULL,
		route TEXT NOT NULL,
		departure_time TIMESTAMPTZ NOT NULL,
		arrival_time TIMESTAMPTZ NOT NULL,
		total_seats INTEGER NOT NULL CHECK (total_seats > 0),
		available_seats INTEGER NOT NULL,
		price NUMERIC(12,2) NOT NULL CHECK (price >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT ` + availableSeatsCheck + ` CHECK (available_seats >= 0 AND available_seats <= total_seats)
	)`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL,
		departure_id BIGINT NOT NULL REFERENCES departures(id),
		seat_number INTEGER NOT NULL CHECK (seat_number > 0),
		credential TEXT NOT NULL,
		valid_until TIMESTAMPTZ NOT NULL,
		departure_time TIMESTAMPTZ NOT NULL,
		status TEXT NOT NULL CHECK (status IN ('pending', 'confirmed', 'scanned', 'cancelled')),
		passenger_name TEXT,
		route_override TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT ` + credentialIndex + ` UNIQUE (credential)
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ` + activeSeatIndex + `
		ON reservations (departure_id, seat_number) WHERE status <> 'cancelled'`,
	`CREATE INDEX IF NOT EXISTS reservations_user_idx ON reservations (user_id)`,
	`CREATE TABLE IF NOT EXISTS ledger_entries (
		id BIGSERIAL PRIMARY KEY,
		reservation_id BIGINT NOT NULL REFERENCES reservations(id),
		user_id BIGINT NOT NULL,
		amount NUMERIC(12,2) NOT NULL CHECK (amount >= 0),
		deposit NUMERIC(12,2) NOT NULL DEFAULT 0,
		kind TEXT NOT NULL CHECK (kind IN ('payment', 'refund', 'compensation')),
		status TEXT NOT NULL CHECK (status IN ('pending', 'completed', 'failed')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT ` + ledgerKindIndex + ` UNIQUE (reservation_id, kind)
	)`,
	`CREATE TABLE IF NOT EXISTS user_balances (
		user_id BIGINT PRIMARY KEY,
		balance NUMERIC(12,2) NOT NULL DEFAULT 0,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// Migrate creates the tables and indexes the repositories rely on. It is
// safe to run on every start.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range pgSchema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
