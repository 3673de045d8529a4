package bookings_service_api

import (
	"context"
	"time"

	"github.com/Domenick1991/airline-backoffice/internal/api/rpcutil"
	"github.com/Domenick1991/airline-backoffice/internal/domain"
	"github.com/Domenick1991/airline-backoffice/internal/repository"
	"github.com/Domenick1991/airline-backoffice/internal/service/booking"
	"github.com/Domenick1991/airline-backoffice/internal/service/loyalty"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "airline.bookings.v1.BookingsService"

// BookingsServiceServer is the gRPC surface for bookings and miles rewards.
// Requests and responses are google.protobuf.Struct messages whose keys
// match the JSON HTTP API.
type BookingsServiceServer interface {
	CreateBooking(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetBooking(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListBookings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	UpdateBooking(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	DeleteBooking(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	CreateReward(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetReward(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListRewards(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	UpdateReward(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	DeleteReward(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BookingsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		rpcutil.Unary(ServiceName, "CreateBooking", BookingsServiceServer.CreateBooking),
		rpcutil.Unary(ServiceName, "GetBooking", BookingsServiceServer.GetBooking),
		rpcutil.Unary(ServiceName, "ListBookings", BookingsServiceServer.ListBookings),
		rpcutil.Unary(ServiceName, "UpdateBooking", BookingsServiceServer.UpdateBooking),
		rpcutil.Unary(ServiceName, "DeleteBooking", BookingsServiceServer.DeleteBooking),
		rpcutil.Unary(ServiceName, "CreateReward", BookingsServiceServer.CreateReward),
		rpcutil.Unary(ServiceName, "GetReward", BookingsServiceServer.GetReward),
		rpcutil.Unary(ServiceName, "ListRewards", BookingsServiceServer.ListRewards),
		rpcutil.Unary(ServiceName, "UpdateReward", BookingsServiceServer.UpdateReward),
		rpcutil.Unary(ServiceName, "DeleteReward", BookingsServiceServer.DeleteReward),
	},
}

func RegisterBookingsServiceServer(s grpc.ServiceRegistrar, srv BookingsServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

type Server struct {
	bookings booking.BookingUseCase
	rewards  loyalty.RewardUseCase
}

func NewServer(bookings booking.BookingUseCase, rewards loyalty.RewardUseCase) *Server {
	return &Server{bookings: bookings, rewards: rewards}
}

func (s *Server) CreateBooking(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	clientID, err := rpcutil.Int64(req, "client_id")
	if err != nil {
		return nil, err
	}
	flightID, err := rpcutil.Int64(req, "flight_id")
	if err != nil {
		return nil, err
	}
	created, err := s.bookings.CreateBooking(ctx, booking.CreateBookingInput{
		ClientID: domain.ClientID(clientID),
		FlightID: domain.FlightID(flightID),
		SeatType: rpcutil.String(req, "seat_type"),
	})
	if err != nil {
		return nil, err
	}
	return structpb.NewStruct(bookingFields(created))
}

func (s *Server) GetBooking(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := rpcutil.Int64(req, "id")
	if err != nil {
		return nil, err
	}
	found, err := s.bookings.GetBooking(ctx, domain.BookingID(id))
	if err != nil {
		return nil, err
	}
	return structpb.NewStruct(bookingFields(found))
}

func (s *Server) ListBookings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	clientID, flightID, err := filterIDs(req)
	if err != nil {
		return nil, err
	}
	list, err := s.bookings.ListBookings(ctx, repository.BookingFilter{
		ClientID: domain.ClientID(clientID),
		FlightID: domain.FlightID(flightID),
	})
	if err != nil {
		return nil, err
	}
	items := make([]map[string]any, 0, len(list))
	for i := range list {
		items = append(items, bookingFields(&list[i]))
	}
	return rpcutil.List("bookings", items)
}

func (s *Server) UpdateBooking(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := rpcutil.Int64(req, "id")
	if err != nil {
		return nil, err
	}
	flightID, err := rpcutil.OptionalInt64(req, "flight_id")
	if err != nil {
		return nil, err
	}
	input := booking.UpdateBookingInput{SeatType: rpcutil.OptionalString(req, "seat_type")}
	if flightID != nil {
		target := domain.FlightID(*flightID)
		input.FlightID = &target
	}
	updated, err := s.bookings.UpdateBooking(ctx, domain.BookingID(id), input)
	if err != nil {
		return nil, err
	}
	return structpb.NewStruct(bookingFields(updated))
}

func (s *Server) DeleteBooking(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := rpcutil.Int64(req, "id")
	if err != nil {
		return nil, err
	}
	if err := s.bookings.DeleteBooking(ctx, domain.BookingID(id)); err != nil {
		return nil, err
	}
	return &structpb.Struct{}, nil
}

func (s *Server) CreateReward(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	clientID, err := rpcutil.Int64(req, "client_id")
	if err != nil {
		return nil, err
	}
	flightID, err := rpcutil.Int64(req, "flight_id")
	if err != nil {
		return nil, err
	}
	date, err := rpcutil.Date(req, "date")
	if err != nil {
		return nil, err
	}
	result, err := s.rewards.CreateReward(ctx, loyalty.CreateRewardInput{
		ClientID: domain.ClientID(clientID),
		FlightID: domain.FlightID(flightID),
		Date:     date,
	})
	if err != nil {
		return nil, err
	}
	fields := map[string]any{"reward": rewardFields(result.Reward)}
	if result.DiscountCode != "" {
		fields["discount_code"] = result.DiscountCode
	}
	if result.Warning != "" {
		fields["warning"] = result.Warning
	}
	return structpb.NewStruct(fields)
}

func (s *Server) GetReward(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := rpcutil.Int64(req, "id")
	if err != nil {
		return nil, err
	}
	reward, err := s.rewards.GetReward(ctx, domain.RewardID(id))
	if err != nil {
		return nil, err
	}
	return structpb.NewStruct(rewardFields(reward))
}

func (s *Server) ListRewards(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	clientID, flightID, err := filterIDs(req)
	if err != nil {
		return nil, err
	}
	list, err := s.rewards.ListRewards(ctx, repository.RewardFilter{
		ClientID: domain.ClientID(clientID),
		FlightID: domain.FlightID(flightID),
	})
	if err != nil {
		return nil, err
	}
	items := make([]map[string]any, 0, len(list))
	for i := range list {
		items = append(items, rewardFields(&list[i]))
	}
	return rpcutil.List("rewards", items)
}

func (s *Server) UpdateReward(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := rpcutil.Int64(req, "id")
	if err != nil {
		return nil, err
	}
	var input loyalty.UpdateRewardInput
	clientID, err := rpcutil.OptionalInt64(req, "client_id")
	if err != nil {
		return nil, err
	}
	if clientID != nil {
		c := domain.ClientID(*clientID)
		input.ClientID = &c
	}
	flightID, err := rpcutil.OptionalInt64(req, "flight_id")
	if err != nil {
		return nil, err
	}
	if flightID != nil {
		f := domain.FlightID(*flightID)
		input.FlightID = &f
	}
	date, err := rpcutil.Date(req, "date")
	if err != nil {
		return nil, err
	}
	if !date.IsZero() {
		input.Date = &date
	}

	updated, err := s.rewards.UpdateReward(ctx, domain.RewardID(id), input)
	if err != nil {
		return nil, err
	}
	return structpb.NewStruct(rewardFields(updated))
}

func (s *Server) DeleteReward(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := rpcutil.Int64(req, "id")
	if err != nil {
		return nil, err
	}
	if err := s.rewards.DeleteReward(ctx, domain.RewardID(id)); err != nil {
		return nil, err
	}
	return &structpb.Struct{}, nil
}

func filterIDs(req *structpb.Struct) (int64, int64, error) {
	clientID, err := rpcutil.Int64(req, "client_id")
	if err != nil {
		return 0, 0, err
	}
	flightID, err := rpcutil.Int64(req, "flight_id")
	if err != nil {
		return 0, 0, err
	}
	return clientID, flightID, nil
}

func bookingFields(b *domain.Booking) map[string]any {
	return map[string]any{
		"id":         int64(b.ID),
		"flight_id":  int64(b.FlightID),
		"client_id":  int64(b.ClientID),
		"seat_type":  string(b.SeatType),
		"slot_token": b.SlotToken.String(),
		"created_at": b.CreatedAt.Format(time.RFC3339),
		"updated_at": b.UpdatedAt.Format(time.RFC3339),
	}
}

func rewardFields(r *domain.MilesReward) map[string]any {
	return map[string]any{
		"id":        int64(r.ID),
		"client_id": int64(r.ClientID),
		"flight_id": int64(r.FlightID),
		"date":      r.Date.Format(rpcutil.DateLayout),
	}
}

var _ BookingsServiceServer = (*Server)(nil)
