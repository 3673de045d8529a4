package domain

import (
	"strings"
	"time"
)

var seatTypes = map[SeatType]struct{}{
	SeatTypeEconomy:  {},
	SeatTypeBusiness: {},
}

// ParseSeatType normalises s to upper case before checking membership,
// so "economy" and " Economy " are both accepted as ECONOMY.
func ParseSeatType(s string) (SeatType, error) {
	normalized := SeatType(strings.ToUpper(strings.TrimSpace(s)))
	if normalized == "" {
		return "", Invalid("seat type is required")
	}
	if _, ok := seatTypes[normalized]; !ok {
		return "", Invalid("seat type must be one of [%s %s], got %q", SeatTypeEconomy, SeatTypeBusiness, s)
	}
	return normalized, nil
}

func ValidateFlightDates(departure, arrival time.Time) error {
	if departure.IsZero() || arrival.IsZero() {
		return nil
	}
	if arrival.Before(departure) {
		return Invalid("arrival date cannot be before departure date")
	}
	return nil
}

func ValidatePrices(economyCents, businessCents int64) error {
	if economyCents < 0 {
		return Invalid("economy price must be zero or positive")
	}
	if businessCents < 0 {
		return Invalid("business price must be zero or positive")
	}
	return nil
}

func ValidateCapacity(seats int) error {
	if seats <= 0 {
		return Invalid("number of seats must be greater than 0")
	}
	return nil
}

func ValidateDistinctAirports(departureAirportID, arrivalAirportID int64) error {
	if departureAirportID != 0 && departureAirportID == arrivalAirportID {
		return Invalid("departure and arrival airports must be different")
	}
	return nil
}

// ValidateFlight runs every flight predicate and returns the first failure.
func ValidateFlight(f *Flight) error {
	if f == nil {
		return Invalid("flight payload is required")
	}
	if strings.TrimSpace(f.FlightNumber) == "" {
		return Invalid("flight number is required")
	}
	if err := ValidateCapacity(f.NumberOfSeats); err != nil {
		return err
	}
	if err := ValidatePrices(f.EconomyPriceCents, f.BusinessPriceCents); err != nil {
		return err
	}
	if err := ValidateFlightDates(f.DepartureTime, f.ArrivalTime); err != nil {
		return err
	}
	return ValidateDistinctAirports(f.DepartureAirportID, f.ArrivalAirportID)
}
