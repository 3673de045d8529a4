// Package ledger is the authoritative record of reserved seats per flight.
//
// Every implementation performs the duplicate check, the capacity check and
// the increment as one step with respect to other calls on the same flight.
// There is deliberately no separate "is there room" query for callers to
// combine with Reserve.
package ledger

import (
	"context"

	"github.com/Domenick1991/airline-backoffice/internal/domain"
)

type Ledger interface {
	// Reserve takes a seat on flightID for clientID. It fails with
	// domain.ErrConflict when the client already holds a seat on the flight
	// and with domain.ErrCapacity when the flight is full.
	Reserve(ctx context.Context, flightID domain.FlightID, clientID domain.ClientID) (domain.SlotToken, error)
	// Release frees the seat held by token. Releasing an unknown or already
	// released token is domain.ErrInternal.
	Release(ctx context.Context, flightID domain.FlightID, token domain.SlotToken) error
	// Move releases token on from and reserves a seat for clientID on to in
	// one step. On failure the original reservation is untouched.
	Move(ctx context.Context, from domain.FlightID, token domain.SlotToken, to domain.FlightID, clientID domain.ClientID) (domain.SlotToken, error)
	// Occupancy reports how many seats are currently reserved on flightID.
	Occupancy(ctx context.Context, flightID domain.FlightID) (int, error)
}

// FlightLookup resolves the current capacity of a flight at reservation time.
type FlightLookup interface {
	GetByID(ctx context.Context, id domain.FlightID) (*domain.Flight, error)
}
