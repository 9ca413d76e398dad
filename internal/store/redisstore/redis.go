package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vovakirdan/redischat/internal/store"
)

const (
	userKeyPrefix    = "user:"
	weatherKeyPrefix = "weather:"
	historyKeyPrefix = "history:"
	factsKey         = "facts"
)

// Options configures the Redis connection.
type Options struct {
	Addr       string
	Password   string
	DB         int
	Protocol   int
	ClientName string
	// PollWait bounds a non-blocking subscription poll.
	PollWait time.Duration
}

// RedisStore implements store.Store on top of a go-redis client.
type RedisStore struct {
	rdb      *redis.Client
	pollWait time.Duration
}

// New dials Redis and verifies the connection.
func New(ctx context.Context, opts Options) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:       opts.Addr,
		Password:   opts.Password,
		DB:         opts.DB,
		Protocol:   opts.Protocol,
		ClientName: opts.ClientName,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisStore{rdb: rdb, pollWait: opts.PollWait}, nil
}

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close closes the connection pool.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

// ==== ProfileStore implementation ====

// SaveProfile writes all profile fields, overwriting any previous values.
func (s *RedisStore) SaveProfile(ctx context.Context, p store.Profile) error {
	fields := map[string]any{
		"username": p.Username,
		"age":      p.Age,
		"gender":   p.Gender,
		"location": p.Location,
	}
	if err := s.rdb.HSet(ctx, userKeyPrefix+p.Username, fields).Err(); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// GetProfile reads a profile; returns store.ErrNotFound if absent.
func (s *RedisStore) GetProfile(ctx context.Context, username string) (*store.Profile, error) {
	fields, err := s.rdb.HGetAll(ctx, userKeyPrefix+username).Result()
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if len(fields) == 0 {
		return nil, store.ErrNotFound
	}

	return &store.Profile{
		Username: fields["username"],
		Age:      fields["age"],
		Gender:   fields["gender"],
		Location: fields["location"],
	}, nil
}

// ProfileExists reports whether a profile record exists.
func (s *RedisStore) ProfileExists(ctx context.Context, username string) (bool, error) {
	n, err := s.rdb.Exists(ctx, userKeyPrefix+username).Result()
	if err != nil {
		return false, fmt.Errorf("check profile: %w", err)
	}
	return n > 0, nil
}

// ==== LookupStore implementation ====

// ResetWeather drops every weather key and writes reports in one transaction.
// Keys must already be normalized.
func (s *RedisStore) ResetWeather(ctx context.Context, reports map[string]string) error {
	var stale []string
	iter := s.rdb.Scan(ctx, 0, weatherKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		stale = append(stale, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan weather: %w", err)
	}

	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(stale) > 0 {
			pipe.Del(ctx, stale...)
		}
		for city, report := range reports {
			pipe.Set(ctx, weatherKeyPrefix+city, report, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("reset weather: %w", err)
	}
	return nil
}

// GetWeather returns store.ErrNotFound for unknown cities.
func (s *RedisStore) GetWeather(ctx context.Context, city string) (string, error) {
	report, err := s.rdb.Get(ctx, weatherKeyPrefix+city).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", store.ErrNotFound
		}
		return "", fmt.Errorf("get weather: %w", err)
	}
	return report, nil
}

// ResetFacts replaces the whole facts list in one transaction.
func (s *RedisStore) ResetFacts(ctx context.Context, facts []string) error {
	values := make([]any, 0, len(facts))
	for _, f := range facts {
		values = append(values, f)
	}

	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, factsKey)
		if len(values) > 0 {
			pipe.RPush(ctx, factsKey, values...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("reset facts: %w", err)
	}
	return nil
}

// FactCount returns the length of the facts list.
func (s *RedisStore) FactCount(ctx context.Context) (int64, error) {
	n, err := s.rdb.LLen(ctx, factsKey).Result()
	if err != nil {
		return 0, fmt.Errorf("count facts: %w", err)
	}
	return n, nil
}

// FactAt returns the fact at index; store.ErrNotFound when out of range.
func (s *RedisStore) FactAt(ctx context.Context, index int64) (string, error) {
	fact, err := s.rdb.LIndex(ctx, factsKey, index).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", store.ErrNotFound
		}
		return "", fmt.Errorf("get fact %d: %w", index, err)
	}
	return fact, nil
}

// ==== HistoryStore implementation ====

// AppendHistory prepends entry to the channel log and trims it to limit entries.
func (s *RedisStore) AppendHistory(ctx context.Context, channel, entry string, limit int) error {
	key := historyKeyPrefix + channel
	_, err := s.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, key, entry)
		pipe.LTrim(ctx, key, 0, int64(limit)-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// RecentHistory returns up to count entries, newest first.
func (s *RedisStore) RecentHistory(ctx context.Context, channel string, count int) ([]string, error) {
	if count <= 0 {
		return nil, nil
	}
	entries, err := s.rdb.LRange(ctx, historyKeyPrefix+channel, 0, int64(count)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	return entries, nil
}

// ==== PubSub implementation ====

// Publish sends text to channel and returns the number of receivers.
func (s *RedisStore) Publish(ctx context.Context, channel, text string) (int64, error) {
	n, err := s.rdb.Publish(ctx, channel, text).Result()
	if err != nil {
		return 0, fmt.Errorf("publish: %w", err)
	}
	return n, nil
}

// Subscribe opens a subscription with no channels yet.
func (s *RedisStore) Subscribe(ctx context.Context) store.Subscription {
	return newSubscription(s.rdb.Subscribe(ctx), s.pollWait)
}
