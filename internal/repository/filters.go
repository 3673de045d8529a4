package repository

import "github.com/Domenick1991/airline-backoffice/internal/domain"

// BookingFilter narrows List results. Zero fields are ignored.
type BookingFilter struct {
	ClientID domain.ClientID
	FlightID domain.FlightID
}

type RewardFilter struct {
	ClientID domain.ClientID
	FlightID domain.FlightID
}
