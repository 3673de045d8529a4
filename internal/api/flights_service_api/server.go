package flights_service_api

import (
	"context"
	"time"

	"github.com/Domenick1991/airline-backoffice/internal/api/rpcutil"
	"github.com/Domenick1991/airline-backoffice/internal/domain"
	"github.com/Domenick1991/airline-backoffice/internal/service/flights"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "airline.flights.v1.FlightsService"

type FlightsServiceServer interface {
	ListFlights(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetFlight(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FlightsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		rpcutil.Unary(ServiceName, "ListFlights", FlightsServiceServer.ListFlights),
		rpcutil.Unary(ServiceName, "GetFlight", FlightsServiceServer.GetFlight),
	},
}

func RegisterFlightsServiceServer(s grpc.ServiceRegistrar, srv FlightsServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Server exposes the read-only flight catalog.
type Server struct {
	flights flights.FlightUseCase
}

func NewServer(flights flights.FlightUseCase) *Server {
	return &Server{flights: flights}
}

func (s *Server) ListFlights(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	list, err := s.flights.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]map[string]any, 0, len(list))
	for i := range list {
		items = append(items, flightFields(&list[i]))
	}
	return rpcutil.List("flights", items)
}

func (s *Server) GetFlight(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := rpcutil.Int64(req, "id")
	if err != nil {
		return nil, err
	}
	flight, err := s.flights.GetByID(ctx, domain.FlightID(id))
	if err != nil {
		return nil, err
	}
	taken, err := s.flights.Occupancy(ctx, flight.ID)
	if err != nil {
		return nil, err
	}
	fields := flightFields(flight)
	fields["seats_taken"] = taken
	fields["seats_available"] = flight.NumberOfSeats - taken
	return structpb.NewStruct(map[string]any{"flight": fields})
}

func flightFields(f *domain.Flight) map[string]any {
	return map[string]any{
		"id":                   int64(f.ID),
		"flight_number":        f.FlightNumber,
		"departure_city":       f.DepartureCity,
		"arrival_city":         f.ArrivalCity,
		"departure_time":       f.DepartureTime.Format(time.RFC3339),
		"arrival_time":         f.ArrivalTime.Format(time.RFC3339),
		"number_of_seats":      f.NumberOfSeats,
		"economy_price_cents":  f.EconomyPriceCents,
		"business_price_cents": f.BusinessPriceCents,
		"cancelled":            f.Cancelled,
	}
}

var _ FlightsServiceServer = (*Server)(nil)
