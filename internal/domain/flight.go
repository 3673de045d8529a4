package domain

import "time"

type Flight struct {
	ID                 FlightID
	FlightNumber       string
	DepartureCity      string
	ArrivalCity        string
	DepartureAirportID int64
	ArrivalAirportID   int64
	DepartureTime      time.Time
	ArrivalTime        time.Time
	NumberOfSeats      int
	EconomyPriceCents  int64
	BusinessPriceCents int64
	Cancelled          bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Bookable reports whether new reservations may be placed on the flight.
func (f *Flight) Bookable() error {
	if f.Cancelled {
		return Invalid("flight %d is cancelled", f.ID)
	}
	return ValidateCapacity(f.NumberOfSeats)
}
