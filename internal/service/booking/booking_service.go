package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/airline-backoffice/internal/domain"
	"github.com/Domenick1991/airline-backoffice/internal/kafka"
	"github.com/Domenick1991/airline-backoffice/internal/ledger"
	"github.com/Domenick1991/airline-backoffice/internal/lock"
	"github.com/Domenick1991/airline-backoffice/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	UpdateBooking(ctx context.Context, id domain.BookingID, input UpdateBookingInput) (*domain.Booking, error)
	DeleteBooking(ctx context.Context, id domain.BookingID) error
	GetBooking(ctx context.Context, id domain.BookingID) (*domain.Booking, error)
	ListBookings(ctx context.Context, filter repository.BookingFilter) ([]domain.Booking, error)
}

type FlightCatalog interface {
	GetByID(ctx context.Context, id domain.FlightID) (*domain.Flight, error)
}

type ClientDirectory interface {
	GetClient(ctx context.Context, id domain.ClientID) (*domain.User, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

type BookingService struct {
	bookings repository.BookingRepository
	flights  FlightCatalog
	clients  ClientDirectory
	seats    ledger.Ledger
	locks    lock.Locker
	producer Producer
	topic    string
	log      logrus.FieldLogger
	now      func() time.Time
}

type CreateBookingInput struct {
	ClientID domain.ClientID `json:"client_id"`
	FlightID domain.FlightID `json:"flight_id"`
	SeatType string          `json:"seat_type"`
}

// UpdateBookingInput carries optional changes. Nil fields are left as they are.
type UpdateBookingInput struct {
	SeatType *string         `json:"seat_type,omitempty"`
	FlightID *domain.FlightID `json:"flight_id,omitempty"`
}

type BookingServiceOption func(*BookingService)

// WithEvents publishes booking events to topic. Publishing is skipped when
// producer is nil or topic is empty.
func WithEvents(producer Producer, topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.topic = topic
	}
}

func WithLogger(log logrus.FieldLogger) BookingServiceOption {
	return func(s *BookingService) {
		s.log = log
	}
}

func WithLocker(locks lock.Locker) BookingServiceOption {
	return func(s *BookingService) {
		s.locks = locks
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	flights FlightCatalog,
	clients ClientDirectory,
	seats ledger.Ledger,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings: bookings,
		flights:  flights,
		clients:  clients,
		seats:    seats,
		locks:    lock.NewKeyed(),
		log:      logrus.StandardLogger(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateBooking validates the request, reserves a seat in the ledger and
// stores the booking. Nothing is written before every check has passed.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	seatType, err := domain.ParseSeatType(input.SeatType)
	if err != nil {
		return nil, err
	}
	if !input.ClientID.Valid() {
		return nil, domain.Invalid("booking must have a valid client id")
	}
	if !input.FlightID.Valid() {
		return nil, domain.Invalid("booking must have a valid flight id")
	}

	client, err := s.clients.GetClient(ctx, input.ClientID)
	if err != nil {
		return nil, err
	}
	flight, err := s.flights.GetByID(ctx, input.FlightID)
	if err != nil {
		return nil, err
	}
	if err := flight.Bookable(); err != nil {
		return nil, err
	}

	token, err := s.seats.Reserve(ctx, flight.ID, client.ID)
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		FlightID:  flight.ID,
		ClientID:  client.ID,
		SeatType:  seatType,
		SlotToken: token,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		if relErr := s.seats.Release(ctx, flight.ID, token); relErr != nil {
			s.log.WithError(relErr).WithFields(logrus.Fields{
				"flight_id": flight.ID,
				"client_id": client.ID,
			}).Error("failed to release seat after booking insert failure")
		}
		return nil, fmt.Errorf("save booking: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"flight_id":  booking.FlightID,
		"client_id":  booking.ClientID,
		"seat_type":  booking.SeatType,
	}).Info("booking created")
	s.publish(ctx, kafka.EventBookingCreated, booking, client.Email)
	return booking, nil
}

// UpdateBooking changes the seat type and/or moves the booking to another
// flight. The client is never changed.
func (s *BookingService) UpdateBooking(ctx context.Context, id domain.BookingID, input UpdateBookingInput) (*domain.Booking, error) {
	unlock, err := s.locks.Lock(ctx, bookingLockKey(id))
	if err != nil {
		return nil, err
	}
	defer unlock()

	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	updated := *current
	changed := false

	if input.SeatType != nil && strings.TrimSpace(*input.SeatType) != "" {
		seatType, err := domain.ParseSeatType(*input.SeatType)
		if err != nil {
			return nil, err
		}
		if seatType != current.SeatType {
			updated.SeatType = seatType
			changed = true
		}
	}

	var targetFlight *domain.Flight
	if input.FlightID != nil && *input.FlightID != current.FlightID {
		targetFlight, err = s.flights.GetByID(ctx, *input.FlightID)
		if err != nil {
			return nil, err
		}
		if err := targetFlight.Bookable(); err != nil {
			return nil, err
		}
	}

	if targetFlight != nil {
		token, err := s.seats.Move(ctx, current.FlightID, current.SlotToken, targetFlight.ID, current.ClientID)
		if err != nil {
			return nil, err
		}
		updated.FlightID = targetFlight.ID
		updated.SlotToken = token
		changed = true
	}

	if !changed {
		return current, nil
	}

	if err := s.bookings.Update(ctx, &updated); err != nil {
		if targetFlight != nil {
			s.undoMove(ctx, current, &updated)
		}
		return nil, fmt.Errorf("save booking %d: %w", id, err)
	}

	s.log.WithFields(logrus.Fields{
		"booking_id": updated.ID,
		"flight_id":  updated.FlightID,
		"seat_type":  updated.SeatType,
	}).Info("booking updated")
	s.publish(ctx, kafka.EventBookingUpdated, &updated, "")
	return &updated, nil
}

// DeleteBooking frees the seat and then removes the booking. Deleting a
// booking that no longer exists is ErrNotFound. When the seat cannot be
// released the booking is left untouched.
func (s *BookingService) DeleteBooking(ctx context.Context, id domain.BookingID) error {
	unlock, err := s.locks.Lock(ctx, bookingLockKey(id))
	if err != nil {
		return err
	}
	defer unlock()

	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.seats.Release(ctx, current.FlightID, current.SlotToken); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"booking_id": current.ID,
			"flight_id":  current.FlightID,
		}).Error("failed to release seat, booking kept")
		return fmt.Errorf("release seat of booking %d: %w", id, err)
	}

	deleted, err := s.bookings.Delete(ctx, id)
	if err != nil {
		s.undoRelease(ctx, current)
		return err
	}

	s.log.WithFields(logrus.Fields{"booking_id": id, "flight_id": deleted.FlightID}).Info("booking deleted")
	s.publish(ctx, kafka.EventBookingDeleted, deleted, "")
	return nil
}

func (s *BookingService) GetBooking(ctx context.Context, id domain.BookingID) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

func (s *BookingService) ListBookings(ctx context.Context, filter repository.BookingFilter) ([]domain.Booking, error) {
	return s.bookings.List(ctx, filter)
}

// undoMove puts the seat back on the original flight after the booking row
// could not be updated.
func (s *BookingService) undoMove(ctx context.Context, original, moved *domain.Booking) {
	token, err := s.seats.Move(ctx, moved.FlightID, moved.SlotToken, original.FlightID, original.ClientID)
	entry := s.log.WithFields(logrus.Fields{
		"booking_id": original.ID,
		"from":       moved.FlightID,
		"to":         original.FlightID,
	})
	if err != nil {
		entry.WithError(err).Error("failed to move seat back after booking update failure")
		return
	}
	// Move issues a fresh token, so the stored row has to follow it.
	restored := *original
	restored.SlotToken = token
	if err := s.bookings.Update(ctx, &restored); err != nil {
		entry.WithError(err).Error("failed to restore slot token after booking update failure")
	}
}

// undoRelease takes the seat again after the booking row could not be
// deleted and stores the new token on the row.
func (s *BookingService) undoRelease(ctx context.Context, booking *domain.Booking) {
	entry := s.log.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"flight_id":  booking.FlightID,
	})
	token, err := s.seats.Reserve(ctx, booking.FlightID, booking.ClientID)
	if err != nil {
		entry.WithError(err).Error("failed to reserve seat again after booking delete failure")
		return
	}
	restored := *booking
	restored.SlotToken = token
	if err := s.bookings.Update(ctx, &restored); err != nil {
		entry.WithError(err).Error("failed to restore slot token after booking delete failure")
	}
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking, email string) {
	if s.producer == nil || s.topic == "" {
		return
	}
	if email == "" {
		if client, err := s.clients.GetClient(ctx, booking.ClientID); err == nil {
			email = client.Email
		}
	}
	event := kafka.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		BookingID:  int64(booking.ID),
		FlightID:   int64(booking.FlightID),
		ClientID:   int64(booking.ClientID),
		SeatType:   string(booking.SeatType),
		Email:      email,
		OccurredAt: s.now(),
	}
	if err := s.producer.Publish(ctx, s.topic, booking.ID.String(), event); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"booking_id": booking.ID,
			"event":      eventType,
		}).Warn("failed to publish booking event")
	}
}

func bookingLockKey(id domain.BookingID) string {
	return "booking:" + id.String()
}

var _ BookingUseCase = (*BookingService)(nil)
