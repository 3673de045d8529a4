package flights

import (
	"context"

	"github.com/Domenick1991/airline-backoffice/internal/domain"
	"github.com/Domenick1991/airline-backoffice/internal/repository"
	"github.com/sirupsen/logrus"
)

// FlightUseCase is the read-only flight catalog used by the booking core.
type FlightUseCase interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id domain.FlightID) (*domain.Flight, error)
	Occupancy(ctx context.Context, id domain.FlightID) (int, error)
}

// SeatCounter reports how many seats of a flight are held.
type SeatCounter interface {
	Occupancy(ctx context.Context, flightID domain.FlightID) (int, error)
}

type FlightCache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
	GetFlight(ctx context.Context, id domain.FlightID) (*domain.Flight, error)
	SetFlight(ctx context.Context, flight *domain.Flight) error
}

type FlightService struct {
	repo  repository.FlightRepository
	cache FlightCache
	seats SeatCounter
}

type FlightServiceOption func(*FlightService)

func WithSeats(seats SeatCounter) FlightServiceOption {
	return func(s *FlightService) {
		s.seats = seats
	}
}

// NewFlightService builds the catalog. cache may be nil.
func NewFlightService(repo repository.FlightRepository, cache FlightCache, opts ...FlightServiceOption) *FlightService {
	service := &FlightService{repo: repo, cache: cache}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetFlights(ctx); err == nil && cached != nil {
			return cached, nil
		} else if err != nil {
			logrus.WithError(err).Warn("flights cache read failed")
		}
	}

	flights, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetFlights(ctx, flights); err != nil {
			logrus.WithError(err).Warn("flights cache write failed")
		}
	}
	return flights, nil
}

func (s *FlightService) GetByID(ctx context.Context, id domain.FlightID) (*domain.Flight, error) {
	if !id.Valid() {
		return nil, domain.Invalid("flight id is required")
	}
	if s.cache != nil {
		if cached, err := s.cache.GetFlight(ctx, id); err == nil && cached != nil {
			return cached, nil
		} else if err != nil {
			logrus.WithError(err).WithField("flight_id", id).Warn("flight cache read failed")
		}
	}

	flight, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetFlight(ctx, flight); err != nil {
			logrus.WithError(err).WithField("flight_id", id).Warn("flight cache write failed")
		}
	}
	return flight, nil
}

// Occupancy counts the seats held on an existing flight. It is never cached.
func (s *FlightService) Occupancy(ctx context.Context, id domain.FlightID) (int, error) {
	if s.seats == nil {
		return 0, domain.Internal("seat ledger is not configured")
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return 0, err
	}
	return s.seats.Occupancy(ctx, id)
}

var _ FlightUseCase = (*FlightService)(nil)
