package repository

import (
	"errors"

	"github.com/Domenick1991/busreservation/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

// mapPGError turns constraint violations the services can act on into
// domain errors. Everything else is returned unchanged.
func mapPGError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch {
	case pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == activeSeatIndex:
		return domain.ErrSeatAlreadyReserved
	case pgErr.Code == pgCheckViolation && pgErr.ConstraintName == availableSeatsCheck:
		return domain.ErrNoSeatsAvailable
	}
	return err
}
