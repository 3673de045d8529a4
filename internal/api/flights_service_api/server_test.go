package flights_service_api

import (
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/airline-backoffice/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"
)

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

func TestServer_ListFlights(t *testing.T) {
	mockService := &MockFlightUseCase{}
	server := NewServer(mockService)
	ctx := context.Background()

	departure := time.Date(2026, time.May, 1, 8, 0, 0, 0, time.UTC)
	mockService.On("List", ctx).Return([]domain.Flight{
		{ID: 1, FlightNumber: "SU024", DepartureTime: departure, ArrivalTime: departure.Add(time.Hour), NumberOfSeats: 120},
	}, nil).Once()

	resp, err := server.ListFlights(ctx, &structpb.Struct{})

	require.NoError(t, err)
	items := resp.GetFields()["flights"].GetListValue().GetValues()
	require.Len(t, items, 1)
	fields := items[0].GetStructValue().GetFields()
	assert.Equal(t, "SU024", fields["flight_number"].GetStringValue())
	assert.Equal(t, float64(120), fields["number_of_seats"].GetNumberValue())
	assert.Equal(t, "2026-05-01T08:00:00Z", fields["departure_time"].GetStringValue())
}

func TestServer_GetFlight(t *testing.T) {
	mockService := &MockFlightUseCase{}
	server := NewServer(mockService)
	ctx := context.Background()

	mockService.On("GetByID", ctx, domain.FlightID(3)).Return(&domain.Flight{ID: 3, FlightNumber: "SU003", NumberOfSeats: 10}, nil).Once()
	mockService.On("Occupancy", ctx, domain.FlightID(3)).Return(4, nil).Once()
	mockService.On("GetByID", ctx, domain.FlightID(4)).Return(nil, domain.NotFound("flight 4 not found")).Once()

	req, _ := structpb.NewStruct(map[string]any{"id": 3})
	resp, err := server.GetFlight(ctx, req)
	require.NoError(t, err)
	fields := resp.GetFields()["flight"].GetStructValue().GetFields()
	assert.Equal(t, "SU003", fields["flight_number"].GetStringValue())
	assert.Equal(t, float64(4), fields["seats_taken"].GetNumberValue())
	assert.Equal(t, float64(6), fields["seats_available"].GetNumberValue())

	req, _ = structpb.NewStruct(map[string]any{"id": 4})
	_, err = server.GetFlight(ctx, req)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	req, _ = structpb.NewStruct(map[string]any{"id": "four"})
	_, err = server.GetFlight(ctx, req)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
