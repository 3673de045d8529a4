package booking

import (
	"context"

	"github.com/Domenick1991/airline-backoffice/internal/domain"
	"github.com/Domenick1991/airline-backoffice/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id domain.BookingID) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) List(ctx context.Context, filter repository.BookingFilter) ([]domain.Booking, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) Delete(ctx context.Context, id domain.BookingID) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) CountByClientInYear(ctx context.Context, clientID domain.ClientID, year int) (int, error) {
	args := m.Called(ctx, clientID, year)
	return args.Int(0), args.Error(1)
}

type MockFlightCatalog struct {
	mock.Mock
}

func (m *MockFlightCatalog) GetByID(ctx context.Context, id domain.FlightID) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

type MockClientDirectory struct {
	mock.Mock
}

func (m *MockClientDirectory) GetClient(ctx context.Context, id domain.ClientID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Reserve(ctx context.Context, flightID domain.FlightID, clientID domain.ClientID) (domain.SlotToken, error) {
	args := m.Called(ctx, flightID, clientID)
	return args.Get(0).(domain.SlotToken), args.Error(1)
}

func (m *MockLedger) Release(ctx context.Context, flightID domain.FlightID, token domain.SlotToken) error {
	args := m.Called(ctx, flightID, token)
	return args.Error(0)
}

func (m *MockLedger) Move(ctx context.Context, from domain.FlightID, token domain.SlotToken, to domain.FlightID, clientID domain.ClientID) (domain.SlotToken, error) {
	args := m.Called(ctx, from, token, to, clientID)
	return args.Get(0).(domain.SlotToken), args.Error(1)
}

func (m *MockLedger) Occupancy(ctx context.Context, flightID domain.FlightID) (int, error) {
	args := m.Called(ctx, flightID)
	return args.Int(0), args.Error(1)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value any) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}
