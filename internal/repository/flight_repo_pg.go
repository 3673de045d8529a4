package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/airline-backoffice/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id domain.FlightID) (*domain.Flight, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `id, flight_number, departure_city, arrival_city, departure_airport_id, arrival_airport_id,
	departure_time, arrival_time, number_of_seats, economy_price_cents, business_price_cents, cancelled, created_at, updated_at`

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights ORDER BY departure_time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id domain.FlightID) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, int64(id))
	f, err := scanFlight(row)
	if err != nil {
		return nil, translate(err, fmt.Sprintf("flight %d", id))
	}
	return f, nil
}

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var (
		f  domain.Flight
		id int64
	)
	if err := row.Scan(&id, &f.FlightNumber, &f.DepartureCity, &f.ArrivalCity, &f.DepartureAirportID, &f.ArrivalAirportID,
		&f.DepartureTime, &f.ArrivalTime, &f.NumberOfSeats, &f.EconomyPriceCents, &f.BusinessPriceCents, &f.Cancelled,
		&f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	f.ID = domain.FlightID(id)
	return &f, nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
