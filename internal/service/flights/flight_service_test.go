package flights

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/airline-backoffice/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetByID(ctx context.Context, id domain.FlightID) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetFlights(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockCache) SetFlights(ctx context.Context, flights []domain.Flight) error {
	args := m.Called(ctx, flights)
	return args.Error(0)
}

func (m *MockCache) GetFlight(ctx context.Context, id domain.FlightID) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockCache) SetFlight(ctx context.Context, flight *domain.Flight) error {
	args := m.Called(ctx, flight)
	return args.Error(0)
}

func sampleFlight() domain.Flight {
	return domain.Flight{
		ID:                 4,
		FlightNumber:       "SU024",
		DepartureCity:      "Moscow",
		ArrivalCity:        "Saint Petersburg",
		DepartureAirportID: 1,
		ArrivalAirportID:   2,
		DepartureTime:      time.Now(),
		ArrivalTime:        time.Now().Add(time.Hour),
		NumberOfSeats:      150,
		EconomyPriceCents:  500000,
		BusinessPriceCents: 1500000,
	}
}

func TestFlightService_List_CacheMiss(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, mockCache)
	ctx := context.Background()

	flights := []domain.Flight{sampleFlight()}

	mockCache.On("GetFlights", ctx).Return(([]domain.Flight)(nil), nil).Once()
	mockRepo.On("List", ctx).Return(flights, nil).Once()
	mockCache.On("SetFlights", ctx, flights).Return(nil).Once()

	result, err := service.List(ctx)

	assert.NoError(t, err)
	assert.Equal(t, flights, result)
	mockCache.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestFlightService_List_CacheHit(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, mockCache)
	ctx := context.Background()

	flights := []domain.Flight{sampleFlight()}
	mockCache.On("GetFlights", ctx).Return(flights, nil).Once()

	result, err := service.List(ctx)

	assert.NoError(t, err)
	assert.Equal(t, flights, result)
	mockCache.AssertExpectations(t)
	mockRepo.AssertNotCalled(t, "List")
	mockCache.AssertNotCalled(t, "SetFlights")
}

func TestFlightService_List_CacheError(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, mockCache)
	ctx := context.Background()

	flights := []domain.Flight{sampleFlight()}
	mockCache.On("GetFlights", ctx).Return(([]domain.Flight)(nil), errors.New("cache error")).Once()
	mockRepo.On("List", ctx).Return(flights, nil).Once()
	mockCache.On("SetFlights", ctx, flights).Return(nil).Once()

	result, err := service.List(ctx)

	assert.NoError(t, err)
	assert.Equal(t, flights, result)
	mockCache.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestFlightService_List_RepositoryError(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, mockCache)
	ctx := context.Background()

	expectedErr := errors.New("database error")
	mockCache.On("GetFlights", ctx).Return(([]domain.Flight)(nil), nil).Once()
	mockRepo.On("List", ctx).Return([]domain.Flight{}, expectedErr).Once()

	result, err := service.List(ctx)

	assert.Nil(t, result)
	assert.Equal(t, expectedErr, err)
	mockCache.AssertNotCalled(t, "SetFlights")
}

func TestFlightService_GetByID_CacheMiss(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, mockCache)
	ctx := context.Background()

	flight := sampleFlight()
	mockCache.On("GetFlight", ctx, flight.ID).Return(nil, nil).Once()
	mockRepo.On("GetByID", ctx, flight.ID).Return(&flight, nil).Once()
	mockCache.On("SetFlight", ctx, &flight).Return(nil).Once()

	result, err := service.GetByID(ctx, flight.ID)

	assert.NoError(t, err)
	assert.Equal(t, &flight, result)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestFlightService_GetByID_CacheHit(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, mockCache)
	ctx := context.Background()

	flight := sampleFlight()
	mockCache.On("GetFlight", ctx, flight.ID).Return(&flight, nil).Once()

	result, err := service.GetByID(ctx, flight.ID)

	assert.NoError(t, err)
	assert.Equal(t, flight.ID, result.ID)
	mockRepo.AssertNotCalled(t, "GetByID")
}

func TestFlightService_GetByID_NotFound(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo, nil)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, domain.FlightID(999)).Return(nil, domain.NotFound("flight 999 not found")).Once()

	result, err := service.GetByID(ctx, 999)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	mockRepo.AssertExpectations(t)
}

func TestFlightService_GetByID_InvalidID(t *testing.T) {
	service := NewFlightService(&MockFlightRepository{}, nil)

	_, err := service.GetByID(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestFlightService_NoCache(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo, nil)
	ctx := context.Background()

	flights := []domain.Flight{sampleFlight()}
	mockRepo.On("List", ctx).Return(flights, nil).Once()

	result, err := service.List(ctx)

	assert.NoError(t, err)
	assert.Equal(t, flights, result)
	mockRepo.AssertExpectations(t)
}

type MockSeatCounter struct {
	mock.Mock
}

func (m *MockSeatCounter) Occupancy(ctx context.Context, flightID domain.FlightID) (int, error) {
	args := m.Called(ctx, flightID)
	return args.Int(0), args.Error(1)
}

func TestFlightService_Occupancy(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockSeats := &MockSeatCounter{}
	service := NewFlightService(mockRepo, nil, WithSeats(mockSeats))
	ctx := context.Background()
	flight := sampleFlight()

	mockRepo.On("GetByID", ctx, flight.ID).Return(&flight, nil).Once()
	mockSeats.On("Occupancy", ctx, flight.ID).Return(12, nil).Once()

	n, err := service.Occupancy(ctx, flight.ID)

	assert.NoError(t, err)
	assert.Equal(t, 12, n)
	mockRepo.AssertExpectations(t)
	mockSeats.AssertExpectations(t)
}

func TestFlightService_Occupancy_UnknownFlight(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockSeats := &MockSeatCounter{}
	service := NewFlightService(mockRepo, nil, WithSeats(mockSeats))
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, domain.FlightID(999)).Return(nil, domain.NotFound("flight 999 not found")).Once()

	_, err := service.Occupancy(ctx, 999)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	mockSeats.AssertNotCalled(t, "Occupancy", mock.Anything, mock.Anything)
}

func TestFlightService_Occupancy_WithoutLedger(t *testing.T) {
	service := NewFlightService(&MockFlightRepository{}, nil)

	_, err := service.Occupancy(context.Background(), 4)
	assert.ErrorIs(t, err, domain.ErrInternal)
}
