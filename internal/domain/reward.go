package domain

import "time"

// MilesReward records that a client was credited for a flight on a given date.
type MilesReward struct {
	ID        RewardID
	ClientID  ClientID
	FlightID  FlightID
	Date      time.Time
	CreatedAt time.Time
}
