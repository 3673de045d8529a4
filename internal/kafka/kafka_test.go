package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEvent(t *testing.T) {
	occurred := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	data, err := json.Marshal(Event{
		ID:           "e1",
		Type:         EventDiscountIssued,
		ClientID:     7,
		FlightID:     3,
		DiscountCode: "DISC-ABCD",
		OccurredAt:   occurred,
	})
	require.NoError(t, err)

	event, err := DecodeEvent(data)
	require.NoError(t, err)
	assert.Equal(t, EventDiscountIssued, event.Type)
	assert.Equal(t, int64(7), event.ClientID)
	assert.Equal(t, "DISC-ABCD", event.DiscountCode)
	assert.True(t, occurred.Equal(event.OccurredAt))

	_, err = DecodeEvent([]byte("{"))
	assert.Error(t, err)
}

func TestNewProducerAndConsumer(t *testing.T) {
	p := NewProducer([]string{"localhost:9092"})
	assert.NotNil(t, p)
	assert.NoError(t, p.Close())

	c := NewConsumer([]string{"localhost:9092"}, "group", "topic")
	assert.NotNil(t, c)
	assert.NoError(t, c.Close())

	var nilConsumer *Consumer
	assert.NoError(t, nilConsumer.Close())
}

type flakyPublisher struct {
	failures int
	calls    int
}

func (f *flakyPublisher) Publish(context.Context, string, string, any) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("broker not available")
	}
	return nil
}

func TestRetryingPublisher(t *testing.T) {
	flaky := &flakyPublisher{failures: 2}
	err := NewRetryingPublisher(flaky, 3, time.Millisecond).Publish(context.Background(), "t", "k", Event{})
	assert.NoError(t, err)
	assert.Equal(t, 3, flaky.calls)

	down := &flakyPublisher{failures: 10}
	err = NewRetryingPublisher(down, 2, time.Millisecond).Publish(context.Background(), "t", "k", Event{})
	assert.ErrorContains(t, err, "failed after 2 attempts")
	assert.Equal(t, 2, down.calls)
}
