package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload any) error
}

// RetryingPublisher retries a failed publish with a linear backoff.
type RetryingPublisher struct {
	next     Publisher
	attempts int
	backoff  time.Duration
}

func NewRetryingPublisher(next Publisher, attempts int, backoff time.Duration) *RetryingPublisher {
	if attempts < 1 {
		attempts = 1
	}
	return &RetryingPublisher{next: next, attempts: attempts, backoff: backoff}
}

func (r *RetryingPublisher) Publish(ctx context.Context, topic, key string, payload any) error {
	var lastErr error
	for i := 0; i < r.attempts; i++ {
		err := r.next.Publish(ctx, topic, key, payload)
		if err == nil {
			return nil
		}
		lastErr = err
		logrus.WithError(err).WithFields(logrus.Fields{"topic": topic, "attempt": i + 1}).Debug("publish attempt failed")

		if i < r.attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(i+1) * r.backoff):
			}
		}
	}
	return fmt.Errorf("failed after %d attempts: %w", r.attempts, lastErr)
}
