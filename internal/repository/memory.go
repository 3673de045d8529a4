package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Domenick1991/airline-backoffice/internal/domain"
)

// MemoryStore keeps every table in process memory. It backs the "memory"
// database driver and the service tests.
type MemoryStore struct {
	mu          sync.RWMutex
	flights     map[domain.FlightID]domain.Flight
	users       map[domain.UserID]domain.User
	bookings    map[domain.BookingID]domain.Booking
	rewards     map[domain.RewardID]domain.MilesReward
	nextFlight  int64
	nextUser    int64
	nextBooking int64
	nextReward  int64
	now         func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		flights:  make(map[domain.FlightID]domain.Flight),
		users:    make(map[domain.UserID]domain.User),
		bookings: make(map[domain.BookingID]domain.Booking),
		rewards:  make(map[domain.RewardID]domain.MilesReward),
		now:      time.Now,
	}
}

// AddFlight stores f, assigning an id when f.ID is zero.
func (s *MemoryStore) AddFlight(f domain.Flight) domain.Flight {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !f.ID.Valid() {
		s.nextFlight++
		f.ID = domain.FlightID(s.nextFlight)
	} else if int64(f.ID) > s.nextFlight {
		s.nextFlight = int64(f.ID)
	}
	s.flights[f.ID] = f
	return f
}

// AddUser stores u, assigning an id when u.ID is zero.
func (s *MemoryStore) AddUser(u domain.User) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !u.ID.Valid() {
		s.nextUser++
		u.ID = domain.UserID(s.nextUser)
	} else if int64(u.ID) > s.nextUser {
		s.nextUser = int64(u.ID)
	}
	s.users[u.ID] = u
	return u
}

func (s *MemoryStore) Flights() FlightRepository   { return memoryFlights{s} }
func (s *MemoryStore) Clients() ClientRepository   { return memoryClients{s} }
func (s *MemoryStore) Bookings() BookingRepository { return memoryBookings{s} }
func (s *MemoryStore) Rewards() RewardRepository   { return memoryRewards{s} }

type memoryFlights struct{ s *MemoryStore }

func (m memoryFlights) List(_ context.Context) ([]domain.Flight, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	flights := make([]domain.Flight, 0, len(m.s.flights))
	for _, f := range m.s.flights {
		flights = append(flights, f)
	}
	sort.Slice(flights, func(i, j int) bool {
		return flights[i].DepartureTime.Before(flights[j].DepartureTime)
	})
	return flights, nil
}

func (m memoryFlights) GetByID(_ context.Context, id domain.FlightID) (*domain.Flight, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	f, ok := m.s.flights[id]
	if !ok {
		return nil, domain.NotFound("flight %d not found", id)
	}
	return &f, nil
}

type memoryClients struct{ s *MemoryStore }

func (m memoryClients) GetClient(_ context.Context, id domain.ClientID) (*domain.User, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	u, ok := m.s.users[id]
	if !ok {
		return nil, domain.NotFound("client %d not found", id)
	}
	if _, isClient := u.Client(); !isClient {
		return nil, domain.NotFound("client %d not found", id)
	}
	return &u, nil
}

func (m memoryClients) SetDiscountCode(_ context.Context, id domain.ClientID, code string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	u, ok := m.s.users[id]
	if !ok {
		return domain.NotFound("client %d not found", id)
	}
	role, isClient := u.Client()
	if !isClient {
		return domain.NotFound("client %d not found", id)
	}
	role.DiscountCode = code
	u.Role = role
	m.s.users[id] = u
	return nil
}

type memoryBookings struct{ s *MemoryStore }

// pairTaken must be called with the lock held.
func (m memoryBookings) pairTaken(flight domain.FlightID, client domain.ClientID, except domain.BookingID) bool {
	for id, b := range m.s.bookings {
		if id != except && b.FlightID == flight && b.ClientID == client {
			return true
		}
	}
	return false
}

func (m memoryBookings) Create(_ context.Context, booking *domain.Booking) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.flights[booking.FlightID]; !ok {
		return domain.NotFound("flight %d not found", booking.FlightID)
	}
	if m.pairTaken(booking.FlightID, booking.ClientID, 0) {
		return domain.Conflict("client %d already has a booking on flight %d", booking.ClientID, booking.FlightID)
	}
	m.s.nextBooking++
	now := m.s.now()
	booking.ID = domain.BookingID(m.s.nextBooking)
	booking.CreatedAt = now
	booking.UpdatedAt = now
	m.s.bookings[booking.ID] = *booking
	return nil
}

func (m memoryBookings) GetByID(_ context.Context, id domain.BookingID) (*domain.Booking, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	b, ok := m.s.bookings[id]
	if !ok {
		return nil, domain.NotFound("booking %d not found", id)
	}
	return &b, nil
}

func (m memoryBookings) List(_ context.Context, filter BookingFilter) ([]domain.Booking, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	bookings := make([]domain.Booking, 0)
	for _, b := range m.s.bookings {
		if filter.ClientID.Valid() && b.ClientID != filter.ClientID {
			continue
		}
		if filter.FlightID.Valid() && b.FlightID != filter.FlightID {
			continue
		}
		bookings = append(bookings, b)
	}
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].ID < bookings[j].ID })
	return bookings, nil
}

func (m memoryBookings) Update(_ context.Context, booking *domain.Booking) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	current, ok := m.s.bookings[booking.ID]
	if !ok {
		return domain.NotFound("booking %d not found", booking.ID)
	}
	if m.pairTaken(booking.FlightID, current.ClientID, booking.ID) {
		return domain.Conflict("client %d already has a booking on flight %d", current.ClientID, booking.FlightID)
	}
	current.FlightID = booking.FlightID
	current.SeatType = booking.SeatType
	current.SlotToken = booking.SlotToken
	current.UpdatedAt = m.s.now()
	m.s.bookings[booking.ID] = current
	*booking = current
	return nil
}

func (m memoryBookings) Delete(_ context.Context, id domain.BookingID) (*domain.Booking, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	b, ok := m.s.bookings[id]
	if !ok {
		return nil, domain.NotFound("booking %d not found", id)
	}
	delete(m.s.bookings, id)
	return &b, nil
}

func (m memoryBookings) CountByClientInYear(_ context.Context, clientID domain.ClientID, year int) (int, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	n := 0
	for _, b := range m.s.bookings {
		if b.ClientID != clientID {
			continue
		}
		if f, ok := m.s.flights[b.FlightID]; ok && f.DepartureTime.UTC().Year() == year {
			n++
		}
	}
	return n, nil
}

type memoryRewards struct{ s *MemoryStore }

func (m memoryRewards) Create(_ context.Context, reward *domain.MilesReward) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.nextReward++
	reward.ID = domain.RewardID(m.s.nextReward)
	reward.CreatedAt = m.s.now()
	m.s.rewards[reward.ID] = *reward
	return nil
}

func (m memoryRewards) GetByID(_ context.Context, id domain.RewardID) (*domain.MilesReward, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	r, ok := m.s.rewards[id]
	if !ok {
		return nil, domain.NotFound("reward %d not found", id)
	}
	return &r, nil
}

func (m memoryRewards) List(_ context.Context, filter RewardFilter) ([]domain.MilesReward, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	rewards := make([]domain.MilesReward, 0)
	for _, r := range m.s.rewards {
		if filter.ClientID.Valid() && r.ClientID != filter.ClientID {
			continue
		}
		if filter.FlightID.Valid() && r.FlightID != filter.FlightID {
			continue
		}
		rewards = append(rewards, r)
	}
	sort.Slice(rewards, func(i, j int) bool { return rewards[i].ID < rewards[j].ID })
	return rewards, nil
}

func (m memoryRewards) Update(_ context.Context, reward *domain.MilesReward) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	current, ok := m.s.rewards[reward.ID]
	if !ok {
		return domain.NotFound("reward %d not found", reward.ID)
	}
	reward.CreatedAt = current.CreatedAt
	m.s.rewards[reward.ID] = *reward
	return nil
}

func (m memoryRewards) Delete(_ context.Context, id domain.RewardID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.rewards[id]; !ok {
		return domain.NotFound("reward %d not found", id)
	}
	delete(m.s.rewards, id)
	return nil
}

var (
	_ FlightRepository  = memoryFlights{}
	_ ClientRepository  = memoryClients{}
	_ BookingRepository = memoryBookings{}
	_ RewardRepository  = memoryRewards{}
)
