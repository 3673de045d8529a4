package kafka

import "time"

const (
	EventBookingCreated = "booking_created"
	EventBookingUpdated = "booking_updated"
	EventBookingDeleted = "booking_deleted"
	EventRewardCreated  = "reward_created"
	EventDiscountIssued = "discount_issued"
)

// Event is the payload published for every booking and loyalty change.
// Fields that do not apply to Type are left empty.
type Event struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	BookingID    int64     `json:"booking_id,omitempty"`
	RewardID     int64     `json:"reward_id,omitempty"`
	FlightID     int64     `json:"flight_id"`
	ClientID     int64     `json:"client_id"`
	SeatType     string    `json:"seat_type,omitempty"`
	DiscountCode string    `json:"discount_code,omitempty"`
	Email        string    `json:"email,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}
