package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fikrisyahid/adzanid/internal/prayer"
)

// RedisOptions configures the redis schedule archive.
type RedisOptions struct {
	Address  string
	Username string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisArchive keeps schedules in redis with an expiry, for setups that
// share one cache between several daemons.
type RedisArchive struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisArchive connects lazily to the configured redis.
func NewRedisArchive(opts RedisOptions) *RedisArchive {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 48 * time.Hour
	}
	return &RedisArchive{
		client: redis.NewClient(&redis.Options{
			Addr:     opts.Address,
			Username: opts.Username,
			Password: opts.Password,
			DB:       opts.DB,
		}),
		ttl: ttl,
	}
}

// Ping checks the connection.
func (a *RedisArchive) Ping(ctx context.Context) error {
	return a.client.Ping(ctx).Err()
}

// Close closes the client.
func (a *RedisArchive) Close() error {
	return a.client.Close()
}

func scheduleKey(location string, date prayer.Date) string {
	return fmt.Sprintf("adzanid:schedule:%s:%s", location, date)
}

// Get implements ScheduleArchive.
func (a *RedisArchive) Get(ctx context.Context, location string, date prayer.Date) (*prayer.Schedule, error) {
	raw, err := a.client.Get(ctx, scheduleKey(location, date)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading schedule from redis: %w", err)
	}

	var times map[prayer.Name]prayer.TimeOfDay
	if err := json.Unmarshal(raw, &times); err != nil {
		return nil, fmt.Errorf("decoding schedule: %w", err)
	}
	return prayer.NewSchedule(date, times)
}

// Put implements ScheduleArchive.
func (a *RedisArchive) Put(ctx context.Context, location string, s *prayer.Schedule) error {
	times := make(map[prayer.Name]prayer.TimeOfDay, len(prayer.Order))
	for _, e := range s.Entries() {
		times[e.Name] = e.Time
	}
	raw, err := json.Marshal(times)
	if err != nil {
		return fmt.Errorf("encoding schedule: %w", err)
	}
	if err := a.client.Set(ctx, scheduleKey(location, s.Date()), raw, a.ttl).Err(); err != nil {
		return fmt.Errorf("writing schedule to redis: %w", err)
	}
	return nil
}
