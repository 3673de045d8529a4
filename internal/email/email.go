package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/airline-backoffice/internal/kafka"
	"github.com/sirupsen/logrus"
)

// Sender delivers client notifications. Delivery is a log line until an
// SMTP relay is configured.
type Sender struct {
	log logrus.FieldLogger
}

func NewSender(log logrus.FieldLogger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(_ context.Context, event kafka.Event) error {
	subject, ok := Subject(event)
	if !ok {
		return nil
	}
	s.log.WithFields(logrus.Fields{
		"to":        event.Email,
		"client_id": event.ClientID,
		"event":     event.Type,
	}).Info(subject)
	return nil
}

// Subject returns the mail subject for event, or false when the event type
// does not notify the client.
func Subject(event kafka.Event) (string, bool) {
	switch event.Type {
	case kafka.EventBookingCreated:
		return fmt.Sprintf("Your %s seat on flight %d is confirmed", event.SeatType, event.FlightID), true
	case kafka.EventBookingUpdated:
		return fmt.Sprintf("Your booking %d is now a %s seat on flight %d", event.BookingID, event.SeatType, event.FlightID), true
	case kafka.EventBookingDeleted:
		return fmt.Sprintf("Your booking %d on flight %d was cancelled", event.BookingID, event.FlightID), true
	case kafka.EventDiscountIssued:
		return fmt.Sprintf("Thank you for flying with us: your discount code is %s", event.DiscountCode), true
	default:
		return "", false
	}
}
