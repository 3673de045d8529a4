package api

import (
	"context"

	"github.com/Domenick1991/airline-backoffice/internal/domain"
	"github.com/Domenick1991/airline-backoffice/internal/repository"
	"github.com/Domenick1991/airline-backoffice/internal/service/booking"
	"github.com/Domenick1991/airline-backoffice/internal/service/loyalty"
	"github.com/stretchr/testify/mock"
)

// MockBookingUseCase is a mock implementation of booking.BookingUseCase
type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, input booking.CreateBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) UpdateBooking(ctx context.Context, id domain.BookingID, input booking.UpdateBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) DeleteBooking(ctx context.Context, id domain.BookingID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBookingUseCase) GetBooking(ctx context.Context, id domain.BookingID) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListBookings(ctx context.Context, filter repository.BookingFilter) ([]domain.Booking, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

// MockFlightUseCase is a mock implementation of flights.FlightUseCase
type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) List(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) GetByID(ctx context.Context, id domain.FlightID) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Occupancy(ctx context.Context, id domain.FlightID) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

type MockRewardUseCase struct {
	mock.Mock
}

func (m *MockRewardUseCase) CreateReward(ctx context.Context, input loyalty.CreateRewardInput) (*loyalty.CreateRewardResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*loyalty.CreateRewardResult), args.Error(1)
}

func (m *MockRewardUseCase) UpdateReward(ctx context.Context, id domain.RewardID, input loyalty.UpdateRewardInput) (*domain.MilesReward, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MilesReward), args.Error(1)
}

func (m *MockRewardUseCase) DeleteReward(ctx context.Context, id domain.RewardID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRewardUseCase) GetReward(ctx context.Context, id domain.RewardID) (*domain.MilesReward, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MilesReward), args.Error(1)
}

func (m *MockRewardUseCase) ListRewards(ctx context.Context, filter repository.RewardFilter) ([]domain.MilesReward, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.MilesReward), args.Error(1)
}
