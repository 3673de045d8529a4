package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/airline-backoffice/internal/domain"
	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dialectPostgres = "postgres"

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id domain.BookingID) (*domain.Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]domain.Booking, error)
	Update(ctx context.Context, booking *domain.Booking) error
	// Delete removes the booking and returns the removed record so the
	// caller can release its slot. A missing booking is ErrNotFound.
	Delete(ctx context.Context, id domain.BookingID) (*domain.Booking, error)
	// CountByClientInYear counts the client's bookings on flights departing in year.
	CountByClientInYear(ctx context.Context, clientID domain.ClientID, year int) (int, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

var bookingColumns = []any{"id", "flight_id", "client_id", "seat_type", "slot_token", "created_at", "updated_at"}

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	var id int64
	err := r.db.QueryRow(ctx, `INSERT INTO bookings (flight_id, client_id, seat_type, slot_token)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		int64(booking.FlightID), int64(booking.ClientID), string(booking.SeatType), uuid.UUID(booking.SlotToken)).
		Scan(&id, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return translate(err, fmt.Sprintf("booking for client %d on flight %d", booking.ClientID, booking.FlightID))
	}
	booking.ID = domain.BookingID(id)
	return nil
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id domain.BookingID) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT id, flight_id, client_id, seat_type, slot_token, created_at, updated_at
		FROM bookings WHERE id=$1`, int64(id))
	b, err := scanBooking(row)
	if err != nil {
		return nil, translate(err, fmt.Sprintf("booking %d", id))
	}
	return b, nil
}

func (r *PGBookingRepository) List(ctx context.Context, filter BookingFilter) ([]domain.Booking, error) {
	ds := goqu.Dialect(dialectPostgres).
		From("bookings").
		Select(bookingColumns...).
		Order(goqu.I("id").Asc())
	if filter.ClientID.Valid() {
		ds = ds.Where(goqu.C("client_id").Eq(int64(filter.ClientID)))
	}
	if filter.FlightID.Valid() {
		ds = ds.Where(goqu.C("flight_id").Eq(int64(filter.FlightID)))
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build bookings query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	err := r.db.QueryRow(ctx, `UPDATE bookings SET flight_id=$1, seat_type=$2, slot_token=$3, updated_at=now()
		WHERE id=$4 RETURNING updated_at`,
		int64(booking.FlightID), string(booking.SeatType), uuid.UUID(booking.SlotToken), int64(booking.ID)).
		Scan(&booking.UpdatedAt)
	return translate(err, fmt.Sprintf("booking %d", booking.ID))
}

func (r *PGBookingRepository) Delete(ctx context.Context, id domain.BookingID) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `DELETE FROM bookings WHERE id=$1
		RETURNING id, flight_id, client_id, seat_type, slot_token, created_at, updated_at`, int64(id))
	b, err := scanBooking(row)
	if err != nil {
		return nil, translate(err, fmt.Sprintf("booking %d", id))
	}
	return b, nil
}

func (r *PGBookingRepository) CountByClientInYear(ctx context.Context, clientID domain.ClientID, year int) (int, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings b JOIN flights f ON f.id = b.flight_id
		WHERE b.client_id=$1 AND f.departure_time >= $2 AND f.departure_time < $3`,
		int64(clientID), from, to).Scan(&n)
	return n, err
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var (
		b                  domain.Booking
		id, flight, client int64
		seatType           string
		token              uuid.UUID
	)
	if err := row.Scan(&id, &flight, &client, &seatType, &token, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.ID = domain.BookingID(id)
	b.FlightID = domain.FlightID(flight)
	b.ClientID = domain.ClientID(client)
	b.SeatType = domain.SeatType(seatType)
	b.SlotToken = domain.SlotToken(token)
	return &b, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
