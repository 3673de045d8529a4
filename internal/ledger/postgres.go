package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/airline-backoffice/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGLedger keeps reservations in seat_reservations. Each reservation runs in
// a transaction that first takes a row lock on the flight, so concurrent
// reservations on one flight are serialised by Postgres.
type PGLedger struct {
	db *pgxpool.Pool
}

func NewPGLedger(db *pgxpool.Pool) *PGLedger {
	return &PGLedger{db: db}
}

func (l *PGLedger) Reserve(ctx context.Context, flightID domain.FlightID, clientID domain.ClientID) (domain.SlotToken, error) {
	var token domain.SlotToken
	err := l.inTx(ctx, func(tx pgx.Tx) error {
		if err := lockFlights(ctx, tx, flightID); err != nil {
			return err
		}
		var err error
		token, err = admitAndInsert(ctx, tx, flightID, clientID)
		return err
	})
	return token, err
}

func (l *PGLedger) Release(ctx context.Context, flightID domain.FlightID, token domain.SlotToken) error {
	cmd, err := l.db.Exec(ctx, `DELETE FROM seat_reservations WHERE token=$1 AND flight_id=$2`, uuid.UUID(token), int64(flightID))
	if err != nil {
		return fmt.Errorf("release slot: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.Internal("slot %s on flight %d is not reserved", token, flightID)
	}
	return nil
}

func (l *PGLedger) Move(ctx context.Context, from domain.FlightID, token domain.SlotToken, to domain.FlightID, clientID domain.ClientID) (domain.SlotToken, error) {
	if from == to {
		return domain.SlotToken{}, domain.Internal("move of slot %s within flight %d", token, from)
	}

	var moved domain.SlotToken
	err := l.inTx(ctx, func(tx pgx.Tx) error {
		if err := lockFlights(ctx, tx, from, to); err != nil {
			return err
		}
		cmd, err := tx.Exec(ctx, `DELETE FROM seat_reservations WHERE token=$1 AND flight_id=$2 AND client_id=$3`,
			uuid.UUID(token), int64(from), int64(clientID))
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return domain.Internal("slot %s is not held on flight %d", token, from)
		}
		moved, err = admitAndInsert(ctx, tx, to, clientID)
		return err
	})
	return moved, err
}

func (l *PGLedger) Occupancy(ctx context.Context, flightID domain.FlightID) (int, error) {
	var n int
	err := l.db.QueryRow(ctx, `SELECT COUNT(*) FROM seat_reservations WHERE flight_id=$1`, int64(flightID)).Scan(&n)
	return n, err
}

func (l *PGLedger) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := l.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin ledger tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// lockFlights takes row locks in id order and fails with ErrNotFound when
// any of the flights is missing.
func lockFlights(ctx context.Context, tx pgx.Tx, ids ...domain.FlightID) error {
	raw := make([]int64, len(ids))
	for i, id := range ids {
		raw[i] = int64(id)
	}
	rows, err := tx.Query(ctx, `SELECT id FROM flights WHERE id = ANY($1) ORDER BY id FOR UPDATE`, raw)
	if err != nil {
		return err
	}
	defer rows.Close()

	found := make(map[int64]struct{}, len(ids))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return err
		}
		found[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for _, id := range raw {
		if _, ok := found[id]; !ok {
			return domain.NotFound("flight %d not found", id)
		}
	}
	return nil
}

// admitAndInsert must run after lockFlights on flightID in the same tx.
func admitAndInsert(ctx context.Context, tx pgx.Tx, flightID domain.FlightID, clientID domain.ClientID) (domain.SlotToken, error) {
	flight := domain.Flight{ID: flightID}
	var held, clientHeld int
	err := tx.QueryRow(ctx, `SELECT f.number_of_seats, f.cancelled,
			(SELECT COUNT(*) FROM seat_reservations r WHERE r.flight_id = f.id),
			(SELECT COUNT(*) FROM seat_reservations r WHERE r.flight_id = f.id AND r.client_id = $2)
		FROM flights f WHERE f.id = $1`, int64(flightID), int64(clientID)).
		Scan(&flight.NumberOfSeats, &flight.Cancelled, &held, &clientHeld)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.SlotToken{}, domain.NotFound("flight %d not found", flightID)
	}
	if err != nil {
		return domain.SlotToken{}, err
	}

	if err := flight.Bookable(); err != nil {
		return domain.SlotToken{}, err
	}
	if clientHeld > 0 {
		return domain.SlotToken{}, domain.Conflict("client %d already has a reservation on flight %d", clientID, flightID)
	}
	if held >= flight.NumberOfSeats {
		return domain.SlotToken{}, domain.NoCapacity("no seats available on flight %d", flightID)
	}

	token := domain.NewSlotToken()
	if _, err := tx.Exec(ctx, `INSERT INTO seat_reservations (token, flight_id, client_id) VALUES ($1, $2, $3)`,
		uuid.UUID(token), int64(flightID), int64(clientID)); err != nil {
		return domain.SlotToken{}, err
	}
	return token, nil
}

var _ Ledger = (*PGLedger)(nil)
