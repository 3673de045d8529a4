package domain

import (
	"time"

	"github.com/google/uuid"
)

type SeatType string

const (
	SeatTypeEconomy  SeatType = "ECONOMY"
	SeatTypeBusiness SeatType = "BUSINESS"
)

// SlotToken identifies one reserved seat in the ledger.
type SlotToken uuid.UUID

func NewSlotToken() SlotToken { return SlotToken(uuid.New()) }

func (t SlotToken) String() string { return uuid.UUID(t).String() }
func (t SlotToken) IsZero() bool   { return t == SlotToken{} }

type Booking struct {
	ID        BookingID
	FlightID  FlightID
	ClientID  ClientID
	SeatType  SeatType
	SlotToken SlotToken
	CreatedAt time.Time
	UpdatedAt time.Time
}
