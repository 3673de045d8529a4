// Package loyalty records miles rewards and issues discount codes to clients
// who book often in the current calendar year.
package loyalty

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/airline-backoffice/internal/domain"
	"github.com/Domenick1991/airline-backoffice/internal/kafka"
	"github.com/Domenick1991/airline-backoffice/internal/lock"
	"github.com/Domenick1991/airline-backoffice/internal/repository"
	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v3"
	"github.com/sirupsen/logrus"
)

// codeLength characters are taken from a shortuuid, whose alphabet already
// leaves out 0, O, 1, I and l.
const codeLength = 8

type RewardUseCase interface {
	CreateReward(ctx context.Context, input CreateRewardInput) (*CreateRewardResult, error)
	UpdateReward(ctx context.Context, id domain.RewardID, input UpdateRewardInput) (*domain.MilesReward, error)
	DeleteReward(ctx context.Context, id domain.RewardID) error
	GetReward(ctx context.Context, id domain.RewardID) (*domain.MilesReward, error)
	ListRewards(ctx context.Context, filter repository.RewardFilter) ([]domain.MilesReward, error)
}

type FlightCatalog interface {
	GetByID(ctx context.Context, id domain.FlightID) (*domain.Flight, error)
}

// BookingCounter counts a client's bookings whose flight departs in year.
type BookingCounter interface {
	CountByClientInYear(ctx context.Context, clientID domain.ClientID, year int) (int, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

type CreateRewardInput struct {
	ClientID domain.ClientID `json:"client_id"`
	FlightID domain.FlightID `json:"flight_id"`
	Date     time.Time       `json:"date"`
}

type UpdateRewardInput struct {
	ClientID *domain.ClientID `json:"client_id,omitempty"`
	FlightID *domain.FlightID `json:"flight_id,omitempty"`
	Date     *time.Time       `json:"date,omitempty"`
}

// CreateRewardResult is the stored reward plus the outcome of the discount
// trigger. DiscountCode is empty when no code was issued. Warning is set when
// the trigger fired but the code could not be stored.
type CreateRewardResult struct {
	Reward       *domain.MilesReward `json:"reward"`
	DiscountCode string              `json:"discount_code,omitempty"`
	Warning      string              `json:"warning,omitempty"`
}

type RewardService struct {
	rewards  repository.RewardRepository
	clients  repository.ClientRepository
	flights  FlightCatalog
	bookings BookingCounter
	locks    lock.Locker
	producer Producer
	topic    string
	prefix   string
	every    int
	log      logrus.FieldLogger
	now      func() time.Time
	newCode  func() string
}

type RewardServiceOption func(*RewardService)

// WithDiscountPolicy issues a code prefixed with prefix every time the
// yearly booking count reaches a multiple of every.
func WithDiscountPolicy(prefix string, every int) RewardServiceOption {
	return func(s *RewardService) {
		if prefix != "" {
			s.prefix = prefix
		}
		if every > 0 {
			s.every = every
		}
	}
}

func WithEvents(producer Producer, topic string) RewardServiceOption {
	return func(s *RewardService) {
		s.producer = producer
		s.topic = topic
	}
}

// WithLocker sets the lock that serialises discount evaluation per client.
func WithLocker(locks lock.Locker) RewardServiceOption {
	return func(s *RewardService) {
		s.locks = locks
	}
}

func WithLogger(log logrus.FieldLogger) RewardServiceOption {
	return func(s *RewardService) {
		s.log = log
	}
}

func WithClock(now func() time.Time) RewardServiceOption {
	return func(s *RewardService) {
		s.now = now
	}
}

func NewRewardService(
	rewards repository.RewardRepository,
	clients repository.ClientRepository,
	flights FlightCatalog,
	bookings BookingCounter,
	opts ...RewardServiceOption,
) *RewardService {
	service := &RewardService{
		rewards:  rewards,
		clients:  clients,
		flights:  flights,
		bookings: bookings,
		locks:    lock.NewKeyed(),
		prefix:   "DISC-",
		every:    3,
		log:      logrus.StandardLogger(),
		now:      time.Now,
	}
	service.newCode = service.generateCode
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *RewardService) CreateReward(ctx context.Context, input CreateRewardInput) (*CreateRewardResult, error) {
	if !input.ClientID.Valid() {
		return nil, domain.Invalid("reward must have a client id")
	}
	if !input.FlightID.Valid() {
		return nil, domain.Invalid("reward must have a flight id")
	}
	if input.Date.IsZero() {
		return nil, domain.Invalid("reward must have a date")
	}

	client, err := s.clients.GetClient(ctx, input.ClientID)
	if err != nil {
		return nil, err
	}
	if _, err := s.flights.GetByID(ctx, input.FlightID); err != nil {
		return nil, err
	}

	reward := &domain.MilesReward{
		ClientID: client.ID,
		FlightID: input.FlightID,
		Date:     input.Date,
	}
	if err := s.rewards.Create(ctx, reward); err != nil {
		return nil, fmt.Errorf("save reward: %w", err)
	}

	entry := s.log.WithFields(logrus.Fields{
		"reward_id": reward.ID,
		"client_id": reward.ClientID,
		"flight_id": reward.FlightID,
	})
	entry.Info("reward created")
	s.publish(ctx, kafka.Event{
		Type:     kafka.EventRewardCreated,
		RewardID: int64(reward.ID),
		FlightID: int64(reward.FlightID),
		ClientID: int64(reward.ClientID),
	})

	result := &CreateRewardResult{Reward: reward}
	code, err := s.evaluateDiscount(ctx, client.ID)
	if err != nil {
		entry.WithError(err).Warn("discount code not issued")
		result.Warning = "discount code could not be issued"
		return result, nil
	}
	if code != "" {
		result.DiscountCode = code
		entry.WithField("discount_code", code).Info("discount code issued")
		s.publish(ctx, kafka.Event{
			Type:         kafka.EventDiscountIssued,
			RewardID:     int64(reward.ID),
			FlightID:     int64(reward.FlightID),
			ClientID:     int64(client.ID),
			DiscountCode: code,
			Email:        client.Email,
		})
	}
	return result, nil
}

// evaluateDiscount counts this year's bookings and writes a fresh code when
// the count is a positive multiple of the policy period. It returns "" when
// the trigger does not fire.
func (s *RewardService) evaluateDiscount(ctx context.Context, clientID domain.ClientID) (string, error) {
	unlock, err := s.locks.Lock(ctx, clientLockKey(clientID))
	if err != nil {
		return "", fmt.Errorf("lock client %d: %w", clientID, err)
	}
	defer unlock()

	n, err := s.bookings.CountByClientInYear(ctx, clientID, s.now().UTC().Year())
	if err != nil {
		return "", fmt.Errorf("count bookings of client %d: %w", clientID, err)
	}
	if n == 0 || n%s.every != 0 {
		return "", nil
	}

	code := s.newCode()
	if err := s.clients.SetDiscountCode(ctx, clientID, code); err != nil {
		return "", fmt.Errorf("store discount code of client %d: %w", clientID, err)
	}
	return code, nil
}

// UpdateReward changes the references and date of a reward. The discount
// trigger is not evaluated again.
func (s *RewardService) UpdateReward(ctx context.Context, id domain.RewardID, input UpdateRewardInput) (*domain.MilesReward, error) {
	current, err := s.rewards.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	updated := *current

	if input.ClientID != nil && *input.ClientID != current.ClientID {
		client, err := s.clients.GetClient(ctx, *input.ClientID)
		if err != nil {
			return nil, err
		}
		updated.ClientID = client.ID
	}
	if input.FlightID != nil && *input.FlightID != current.FlightID {
		flight, err := s.flights.GetByID(ctx, *input.FlightID)
		if err != nil {
			return nil, err
		}
		updated.FlightID = flight.ID
	}
	if input.Date != nil && !input.Date.IsZero() {
		updated.Date = *input.Date
	}

	if err := s.rewards.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("save reward %d: %w", id, err)
	}
	s.log.WithFields(logrus.Fields{
		"reward_id": updated.ID,
		"client_id": updated.ClientID,
		"flight_id": updated.FlightID,
	}).Info("reward updated")
	return &updated, nil
}

func (s *RewardService) DeleteReward(ctx context.Context, id domain.RewardID) error {
	if err := s.rewards.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithField("reward_id", id).Info("reward deleted")
	return nil
}

func (s *RewardService) GetReward(ctx context.Context, id domain.RewardID) (*domain.MilesReward, error) {
	return s.rewards.GetByID(ctx, id)
}

func (s *RewardService) ListRewards(ctx context.Context, filter repository.RewardFilter) ([]domain.MilesReward, error) {
	return s.rewards.List(ctx, filter)
}

func (s *RewardService) generateCode() string {
	id := shortuuid.New()
	return s.prefix + id[len(id)-codeLength:]
}

func (s *RewardService) publish(ctx context.Context, event kafka.Event) {
	if s.producer == nil || s.topic == "" {
		return
	}
	event.ID = uuid.NewString()
	event.OccurredAt = s.now()
	key := domain.UserID(event.ClientID).String()
	if err := s.producer.Publish(ctx, s.topic, key, event); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"client_id": event.ClientID,
			"event":     event.Type,
		}).Warn("failed to publish loyalty event")
	}
}

func clientLockKey(id domain.ClientID) string {
	return "client:" + id.String()
}

var _ RewardUseCase = (*RewardService)(nil)
