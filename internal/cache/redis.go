package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/airline-backoffice/config"
	"github.com/Domenick1991/airline-backoffice/internal/domain"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var ErrLockTimeout = errors.New("lock wait timed out")

// releaseScript deletes the lock only if it is still owned by the caller.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

type RedisCache struct {
	client       redis.UniversalClient
	flightsTTL   time.Duration
	lockTTL      time.Duration
	lockInterval time.Duration
}

func NewRedisCache(cfg config.RedisConfig, flightsTTL, lockTTL time.Duration) *RedisCache {
	return newRedisCache(redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}), flightsTTL, lockTTL)
}

func newRedisCache(client redis.UniversalClient, flightsTTL, lockTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:       client,
		flightsTTL:   flightsTTL,
		lockTTL:      lockTTL,
		lockInterval: 25 * time.Millisecond,
	}
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) GetFlights(ctx context.Context) ([]domain.Flight, error) {
	var flights []domain.Flight
	found, err := c.get(ctx, flightsKey(), &flights)
	if err != nil || !found {
		return nil, err
	}
	return flights, nil
}

func (c *RedisCache) SetFlights(ctx context.Context, flights []domain.Flight) error {
	return c.set(ctx, flightsKey(), flights)
}

// GetFlight returns nil, nil on a cache miss.
func (c *RedisCache) GetFlight(ctx context.Context, id domain.FlightID) (*domain.Flight, error) {
	var flight domain.Flight
	found, err := c.get(ctx, flightKey(id), &flight)
	if err != nil || !found {
		return nil, err
	}
	return &flight, nil
}

func (c *RedisCache) SetFlight(ctx context.Context, flight *domain.Flight) error {
	return c.set(ctx, flightKey(flight.ID), flight)
}

// Lock implements lock.Locker across processes. It polls SETNX until the key
// is free, the context ends or the lock TTL elapses.
func (c *RedisCache) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := lockKey(key)
	owner := uuid.NewString()
	deadline := time.Now().Add(c.lockTTL)

	for {
		ok, err := c.client.SetNX(ctx, redisKey, owner, c.lockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire %s: %w", redisKey, err)
		}
		if ok {
			return func() {
				// Background context: the lock must be released even if the request was cancelled.
				_ = releaseScript.Run(context.Background(), c.client, []string{redisKey}, owner).Err()
			}, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("acquire %s: %w", redisKey, ErrLockTimeout)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.lockInterval):
		}
	}
}

func (c *RedisCache) get(ctx context.Context, key string, dst any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisCache) set(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, c.flightsTTL).Err()
}

func flightsKey() string {
	return "cache:flights"
}

func flightKey(id domain.FlightID) string {
	return fmt.Sprintf("cache:flight:%d", id)
}

func lockKey(key string) string {
	return "lock:" + key
}
