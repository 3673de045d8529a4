package ledger

import (
	"context"
	"sync"

	"github.com/Domenick1991/airline-backoffice/internal/domain"
)

// MemoryLedger serialises reservations per flight with one mutex per flight.
type MemoryLedger struct {
	flights FlightLookup

	mu    sync.Mutex
	slots map[domain.FlightID]*flightSlots
}

type flightSlots struct {
	mu       sync.Mutex
	byToken  map[domain.SlotToken]domain.ClientID
	byClient map[domain.ClientID]domain.SlotToken
}

func NewMemoryLedger(flights FlightLookup) *MemoryLedger {
	return &MemoryLedger{
		flights: flights,
		slots:   make(map[domain.FlightID]*flightSlots),
	}
}

func (l *MemoryLedger) flight(id domain.FlightID) *flightSlots {
	l.mu.Lock()
	defer l.mu.Unlock()
	fs, ok := l.slots[id]
	if !ok {
		fs = &flightSlots{
			byToken:  make(map[domain.SlotToken]domain.ClientID),
			byClient: make(map[domain.ClientID]domain.SlotToken),
		}
		l.slots[id] = fs
	}
	return fs
}

func (l *MemoryLedger) Reserve(ctx context.Context, flightID domain.FlightID, clientID domain.ClientID) (domain.SlotToken, error) {
	fs := l.flight(flightID)
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := l.admit(ctx, fs, flightID, clientID); err != nil {
		return domain.SlotToken{}, err
	}
	return fs.add(clientID), nil
}

func (l *MemoryLedger) Release(_ context.Context, flightID domain.FlightID, token domain.SlotToken) error {
	fs := l.flight(flightID)
	fs.mu.Lock()
	defer fs.mu.Unlock()

	return fs.remove(flightID, token)
}

func (l *MemoryLedger) Move(ctx context.Context, from domain.FlightID, token domain.SlotToken, to domain.FlightID, clientID domain.ClientID) (domain.SlotToken, error) {
	if from == to {
		return domain.SlotToken{}, domain.Internal("move of slot %s within flight %d", token, from)
	}

	src, dst := l.flight(from), l.flight(to)
	// Lock in id order so two opposite moves cannot deadlock.
	first, second := src, dst
	if to < from {
		first, second = dst, src
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	if holder, ok := src.byToken[token]; !ok || holder != clientID {
		return domain.SlotToken{}, domain.Internal("slot %s is not held on flight %d", token, from)
	}
	if err := l.admit(ctx, dst, to, clientID); err != nil {
		return domain.SlotToken{}, err
	}
	if err := src.remove(from, token); err != nil {
		return domain.SlotToken{}, err
	}
	return dst.add(clientID), nil
}

func (l *MemoryLedger) Occupancy(_ context.Context, flightID domain.FlightID) (int, error) {
	fs := l.flight(flightID)
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return len(fs.byToken), nil
}

// admit must be called with fs.mu held.
func (l *MemoryLedger) admit(ctx context.Context, fs *flightSlots, flightID domain.FlightID, clientID domain.ClientID) error {
	flight, err := l.flights.GetByID(ctx, flightID)
	if err != nil {
		return err
	}
	if err := flight.Bookable(); err != nil {
		return err
	}
	if _, taken := fs.byClient[clientID]; taken {
		return domain.Conflict("client %d already has a reservation on flight %d", clientID, flightID)
	}
	if len(fs.byToken) >= flight.NumberOfSeats {
		return domain.NoCapacity("no seats available on flight %d", flightID)
	}
	return nil
}

func (fs *flightSlots) add(clientID domain.ClientID) domain.SlotToken {
	token := domain.NewSlotToken()
	fs.byToken[token] = clientID
	fs.byClient[clientID] = token
	return token
}

func (fs *flightSlots) remove(flightID domain.FlightID, token domain.SlotToken) error {
	clientID, ok := fs.byToken[token]
	if !ok {
		return domain.Internal("slot %s on flight %d is not reserved", token, flightID)
	}
	delete(fs.byToken, token)
	delete(fs.byClient, clientID)
	return nil
}

var _ Ledger = (*MemoryLedger)(nil)
