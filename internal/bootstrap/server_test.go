package bootstrap

import (
	"context"
	"testing"

	"github.com/Domenick1991/airline-backoffice/api"
	"github.com/Domenick1991/airline-backoffice/config"
	"github.com/Domenick1991/airline-backoffice/internal/ledger"
	"github.com/Domenick1991/airline-backoffice/internal/repository"
	"github.com/Domenick1991/airline-backoffice/internal/service/booking"
	"github.com/Domenick1991/airline-backoffice/internal/service/flights"
	"github.com/Domenick1991/airline-backoffice/internal/service/loyalty"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func memoryServices() api.Services {
	store := repository.NewMemoryStore()
	seats := ledger.NewMemoryLedger(store.Flights())
	return api.Services{
		Flights:  flights.NewFlightService(store.Flights(), nil, flights.WithSeats(seats)),
		Bookings: booking.NewBookingService(store.Bookings(), store.Flights(), store.Clients(), seats),
		Rewards:  loyalty.NewRewardService(store.Rewards(), store.Clients(), store.Flights(), store.Bookings()),
	}
}

func TestNewServers(t *testing.T) {
	cfg, err := config.Parse([]byte("database:\n  driver: memory\n"))
	require.NoError(t, err)
	logger, _ := test.NewNullLogger()

	s, err := NewServers(cfg, logger, memoryServices())

	require.NoError(t, err)
	assert.Equal(t, ":8080", s.httpServer.Addr)
	assert.Equal(t, ":9090", s.grpcAddr)
	info := s.grpcServer.GetServiceInfo()
	assert.Contains(t, info, "airline.bookings.v1.BookingsService")
	assert.Contains(t, info, "airline.flights.v1.FlightsService")
}

func TestLoggingInterceptor(t *testing.T) {
	logger, hook := test.NewNullLogger()
	interceptor := loggingInterceptor(logger)
	info := &grpc.UnaryServerInfo{FullMethod: "/airline.bookings.v1.BookingsService/DeleteBooking"}

	_, err := interceptor(context.Background(), nil, info, func(context.Context, any) (any, error) {
		return nil, status.Error(codes.NotFound, "booking 1 not found")
	})

	assert.Error(t, err)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "NotFound", hook.LastEntry().Data["code"])
}

func TestRecoveryInterceptor(t *testing.T) {
	logger, hook := test.NewNullLogger()
	interceptor := recoveryInterceptor(logger)
	info := &grpc.UnaryServerInfo{FullMethod: "/airline.bookings.v1.BookingsService/CreateReward"}

	resp, err := interceptor(context.Background(), nil, info, func(context.Context, any) (any, error) {
		panic("encoding alphabet is not 57-bytes long")
	})

	assert.Nil(t, resp)
	assert.Equal(t, codes.Internal, status.Code(err))
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, info.FullMethod, hook.LastEntry().Data["method"])

	resp, err = interceptor(context.Background(), nil, info, func(context.Context, any) (any, error) {
		return "ok", nil
	})
	assert.NoError(t, err)
	assert.Equal(t, "ok", resp)
}

func TestServers_RunStopsOnCancel(t *testing.T) {
	cfg, err := config.Parse([]byte("database:\n  driver: memory\nhttp:\n  address: 127.0.0.1:0\ngrpc:\n  address: 127.0.0.1:0\n"))
	require.NoError(t, err)
	logger, _ := test.NewNullLogger()

	s, err := NewServers(cfg, logger, memoryServices())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	assert.NoError(t, <-done)
}
