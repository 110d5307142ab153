package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/busreservation/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const departureColumns = `id, bus_number, route, departure_time, arrival_time, total_seats, available_seats, price, created_at, updated_at`

type PGDepartureRepository struct {
	db *pgxpool.Pool
}

func NewDepartureRepository(db *pgxpool.Pool) DepartureRepository {
	return &PGDepartureRepository{db: db}
}

func (r *PGDepartureRepository) List(ctx context.Context) ([]domain.Departure, error) {
	rows, err := r.db.Query(ctx, `SELECT `+departureColumns+` FROM departures ORDER BY departure_time, id`)
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

func (r *PGDepartureRepository) GetByID(ctx context.Context, id int64) (*domain.Departure, error) {
	d, err := scanDeparture(r.db.QueryRow(ctx, `SELECT `+departureColumns+` FROM departures WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrDepartureNotFound
	}
	return d, err
}

func scanDeparture(row pgx.Row) (*domain.Departure, error) {
	var d domain.Departure
	if err := row.Scan(&d.ID, &d.BusNumber, &d.Route, &d.DepartureTime, &d.ArrivalTime, &d.TotalSeats, &d.AvailableSeats, &d.Price, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

var _ DepartureRepository = (*PGDepartureRepository)(nil)
