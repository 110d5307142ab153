package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/busreservation/config"
	"github.com/Domenick1991/busreservation/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client        redis.UniversalClient
	departuresTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, departuresTTL time.Duration) *RedisCache {
	return NewRedisCacheWithClient(
		redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		departuresTTL,
	)
}

func NewRedisCacheWithClient(client redis.UniversalClient, departuresTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, departuresTTL: departuresTTL}
}

// GetDepartures returns nil, nil on a cache miss.
func (c *RedisCache) GetDepartures(ctx context.Context) ([]domain.Departure, error) {
	data, err := c.client.Get(ctx, departuresKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var departures []domain.Departure
	if err := json.Unmarshal(data, &departures); err != nil {
		return nil, err
	}
	return departures, nil
}

func (c *RedisCache) SetDepartures(ctx context.Context, departures []domain.Departure) error {
	payload, err := json.Marshal(departures)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, departuresKey(), payload, c.departuresTTL).Err()
}

func (c *RedisCache) InvalidateDepartures(ctx context.Context) error {
	return c.client.Del(ctx, departuresKey()).Err()
}

// AcquireSeatLock reports false when another request already holds the seat.
func (c *RedisCache) AcquireSeatLock(ctx context.Context, departureID int64, seat int, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, seatLockKey(departureID, seat), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseSeatLock(ctx context.Context, departureID int64, seat int) error {
	return c.client.Del(ctx, seatLockKey(departureID, seat)).Err()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func departuresKey() string {
	return "cache:departures"
}

func seatLockKey(departureID int64, seat int) string {
	return fmt.Sprintf("lock:departure:%d:seat:%d", departureID, seat)
}
