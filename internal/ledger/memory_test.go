package ledger

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Domenick1991/airline-backoffice/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticFlights map[domain.FlightID]domain.Flight

func (s staticFlights) GetByID(_ context.Context, id domain.FlightID) (*domain.Flight, error) {
	f, ok := s[id]
	if !ok {
		return nil, domain.NotFound("flight %d not found", id)
	}
	return &f, nil
}

func newTestLedger() *MemoryLedger {
	return NewMemoryLedger(staticFlights{
		1: {ID: 1, NumberOfSeats: 1},
		2: {ID: 2, NumberOfSeats: 5},
		3: {ID: 3, NumberOfSeats: 5, Cancelled: true},
	})
}

func TestMemoryLedger_ReserveAndRelease(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger()

	token, err := l.Reserve(ctx, 1, 10)
	require.NoError(t, err)
	assert.False(t, token.IsZero())

	_, err = l.Reserve(ctx, 1, 11)
	assert.ErrorIs(t, err, domain.ErrCapacity)

	_, err = l.Reserve(ctx, 1, 10)
	assert.ErrorIs(t, err, domain.ErrConflict)

	require.NoError(t, l.Release(ctx, 1, token))
	n, err := l.Occupancy(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	assert.ErrorIs(t, l.Release(ctx, 1, token), domain.ErrInternal)

	_, err = l.Reserve(ctx, 1, 11)
	assert.NoError(t, err)
}

func TestMemoryLedger_RejectsUnknownAndCancelledFlights(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger()

	_, err := l.Reserve(ctx, 99, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = l.Reserve(ctx, 3, 1)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestMemoryLedger_ConcurrentReserveNeverOverbooks(t *testing.T) {
	ctx := context.Background()
	const capacity, requests = 7, 50
	l := NewMemoryLedger(staticFlights{4: {ID: 4, NumberOfSeats: capacity}})

	var ok, full, other atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func(client domain.ClientID) {
			defer wg.Done()
			_, err := l.Reserve(ctx, 4, client)
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, domain.ErrCapacity):
				full.Add(1)
			default:
				other.Add(1)
			}
		}(domain.ClientID(i + 1))
	}
	wg.Wait()

	assert.EqualValues(t, capacity, ok.Load())
	assert.EqualValues(t, requests-capacity, full.Load())
	assert.EqualValues(t, 0, other.Load())

	n, err := l.Occupancy(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, capacity, n)
}

func TestMemoryLedger_ConcurrentDuplicateReserve(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger()

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = l.Reserve(ctx, 2, 42)
		}(i)
	}
	wg.Wait()

	succeeded, conflicted := 0, 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else if errors.Is(err, domain.ErrConflict) {
			conflicted++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicted)
}

func TestMemoryLedger_Move(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger()

	token, err := l.Reserve(ctx, 2, 10)
	require.NoError(t, err)

	// flight 1 has one seat, taken by another client
	_, err = l.Reserve(ctx, 1, 20)
	require.NoError(t, err)

	_, err = l.Move(ctx, 2, token, 1, 10)
	assert.ErrorIs(t, err, domain.ErrCapacity)
	n, _ := l.Occupancy(ctx, 2)
	assert.Equal(t, 1, n, "failed move must keep the original seat")

	l2 := NewMemoryLedger(staticFlights{5: {ID: 5, NumberOfSeats: 1}, 6: {ID: 6, NumberOfSeats: 1}})
	token, err = l2.Reserve(ctx, 5, 10)
	require.NoError(t, err)

	moved, err := l2.Move(ctx, 5, token, 6, 10)
	require.NoError(t, err)
	assert.NotEqual(t, token, moved)

	n, _ = l2.Occupancy(ctx, 5)
	assert.Equal(t, 0, n)
	n, _ = l2.Occupancy(ctx, 6)
	assert.Equal(t, 1, n)

	assert.ErrorIs(t, l2.Release(ctx, 5, token), domain.ErrInternal)
	_, err = l2.Move(ctx, 5, token, 6, 10)
	assert.ErrorIs(t, err, domain.ErrInternal)
	_, err = l2.Move(ctx, 6, moved, 6, 10)
	assert.ErrorIs(t, err, domain.ErrInternal)
}

func TestMemoryLedger_OppositeMovesDoNotDeadlock(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger(staticFlights{7: {ID: 7, NumberOfSeats: 100}, 8: {ID: 8, NumberOfSeats: 100}})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		a, err := l.Reserve(ctx, 7, domain.ClientID(100+i))
		require.NoError(t, err)
		b, err := l.Reserve(ctx, 8, domain.ClientID(200+i))
		require.NoError(t, err)

		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, err := l.Move(ctx, 7, a, 8, domain.ClientID(100+i))
			assert.NoError(t, err)
		}(i)
		go func(i int) {
			defer wg.Done()
			_, err := l.Move(ctx, 8, b, 7, domain.ClientID(200+i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	n7, _ := l.Occupancy(ctx, 7)
	n8, _ := l.Occupancy(ctx, 8)
	assert.Equal(t, 20, n7)
	assert.Equal(t, 20, n8)
}

func TestNewPGLedger(t *testing.T) {
	assert.NotNil(t, NewPGLedger(&pgxpool.Pool{}))
}
