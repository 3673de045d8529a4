package email

import (
	"context"
	"testing"

	"github.com/Domenick1991/airline-backoffice/internal/kafka"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func TestSubject(t *testing.T) {
	subject, ok := Subject(kafka.Event{Type: kafka.EventDiscountIssued, DiscountCode: "DISC-XYZ"})
	assert.True(t, ok)
	assert.Contains(t, subject, "DISC-XYZ")

	subject, ok = Subject(kafka.Event{Type: kafka.EventBookingCreated, SeatType: "ECONOMY", FlightID: 3})
	assert.True(t, ok)
	assert.Equal(t, "Your ECONOMY seat on flight 3 is confirmed", subject)

	_, ok = Subject(kafka.Event{Type: kafka.EventRewardCreated})
	assert.False(t, ok)
}

func TestSender_Send(t *testing.T) {
	logger, hook := test.NewNullLogger()
	sender := NewSender(logger)

	assert.NoError(t, sender.Send(context.Background(), kafka.Event{Type: kafka.EventDiscountIssued, Email: "ada@example.com", DiscountCode: "DISC-1"}))
	assert.NoError(t, sender.Send(context.Background(), kafka.Event{Type: kafka.EventRewardCreated}))

	if assert.Len(t, hook.AllEntries(), 1) {
		entry := hook.LastEntry()
		assert.Equal(t, logrus.InfoLevel, entry.Level)
		assert.Equal(t, "ada@example.com", entry.Data["to"])
	}
}
