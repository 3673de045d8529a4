package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/airline-backoffice/api"
	"github.com/Domenick1991/airline-backoffice/config"
	"github.com/Domenick1991/airline-backoffice/internal/bootstrap"
	"github.com/Domenick1991/airline-backoffice/internal/cache"
	"github.com/Domenick1991/airline-backoffice/internal/kafka"
	"github.com/Domenick1991/airline-backoffice/internal/ledger"
	"github.com/Domenick1991/airline-backoffice/internal/lock"
	"github.com/Domenick1991/airline-backoffice/internal/logging"
	"github.com/Domenick1991/airline-backoffice/internal/repository"
	"github.com/Domenick1991/airline-backoffice/internal/service/booking"
	"github.com/Domenick1991/airline-backoffice/internal/service/flights"
	"github.com/Domenick1991/airline-backoffice/internal/service/loyalty"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

type storage struct {
	flights  repository.FlightRepository
	clients  repository.ClientRepository
	bookings repository.BookingRepository
	rewards  repository.RewardRepository
	seats    ledger.Ledger
}

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		logrus.WithError(err).Fatal("configure logging")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStorage(ctx, cfg.Database, log)
	if err != nil {
		log.WithError(err).Fatal("open storage")
	}
	defer closeStore()

	var (
		flightCache flights.FlightCache
		locker      lock.Locker = lock.NewKeyed()
	)
	if cfg.Redis.Enabled {
		redisCache := cache.NewRedisCache(
			cfg.Redis,
			time.Duration(cfg.Booking.FlightsCacheTTL)*time.Second,
			time.Duration(cfg.Loyalty.ClientLockTTL)*time.Second,
		)
		defer redisCache.Close()
		flightCache = redisCache
		locker = redisCache
	}

	bookingOpts := []booking.BookingServiceOption{booking.WithLogger(log), booking.WithLocker(locker)}
	rewardOpts := []loyalty.RewardServiceOption{
		loyalty.WithLogger(log),
		loyalty.WithLocker(locker),
		loyalty.WithDiscountPolicy(cfg.Loyalty.DiscountPrefix, cfg.Loyalty.DiscountEvery),
	}
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()
		if err := producer.CheckConnection(ctx); err != nil {
			log.WithError(err).Warn("kafka is not reachable, events will be retried per publish")
		}
		publisher := kafka.NewRetryingPublisher(producer, 3, 500*time.Millisecond)
		bookingOpts = append(bookingOpts, booking.WithEvents(publisher, cfg.Kafka.BookingEventsTopic))
		rewardOpts = append(rewardOpts, loyalty.WithEvents(publisher, cfg.Kafka.NotificationsTopic))
	}

	services := api.Services{
		Flights:  flights.NewFlightService(store.flights, flightCache, flights.WithSeats(store.seats)),
		Bookings: booking.NewBookingService(store.bookings, store.flights, store.clients, store.seats, bookingOpts...),
		Rewards:  loyalty.NewRewardService(store.rewards, store.clients, store.flights, store.bookings, rewardOpts...),
	}

	if err := bootstrap.Run(ctx, cfg, log, services); err != nil {
		log.WithError(err).Fatal("server error")
	}
}

func openStorage(ctx context.Context, cfg config.DatabaseConfig, log logrus.FieldLogger) (*storage, func(), error) {
	if cfg.Driver == config.DriverMemory {
		log.Warn("using in-memory storage, data is lost on restart")
		mem := repository.NewMemoryStore()
		return &storage{
			flights:  mem.Flights(),
			clients:  mem.Clients(),
			bookings: mem.Bookings(),
			rewards:  mem.Rewards(),
			seats:    ledger.NewMemoryLedger(mem.Flights()),
		}, func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		return nil, nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	if cfg.Migrate {
		if err := repository.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		log.Info("database schema is up to date")
	}
	return &storage{
		flights:  repository.NewFlightRepository(pool),
		clients:  repository.NewClientRepository(pool),
		bookings: repository.NewBookingRepository(pool),
		rewards:  repository.NewRewardRepository(pool),
		seats:    ledger.NewPGLedger(pool),
	}, pool.Close, nil
}
