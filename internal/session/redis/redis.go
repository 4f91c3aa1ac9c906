// Package redis — «cookie»-хранилище сессии в Redis: общий TTL-стор
// для нескольких процессов клиента (например, gateway за балансировщиком).
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type CookieStore struct {
	rdb    *redis.Client
	prefix string
}

// New создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
// Если prefix пустой — используется "travelblog:cookie:".
func New(ctx context.Context, redisURL, prefix string) (*CookieStore, error) {
	const op = "session/redis/New"

	if prefix == "" {
		prefix = "travelblog:cookie:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &CookieStore{rdb: rdb, prefix: prefix}, nil
}

func (s *CookieStore) key(name string) string { return s.prefix + name }

func (s *CookieStore) Get(ctx context.Context, name string) (string, bool, error) {
	v, err := s.rdb.Get(ctx, s.key(name)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return v, true, nil
}

// Set — ttl <= 0 сохраняет запись без срока жизни.
func (s *CookieStore) Set(ctx context.Context, name, value string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}

	return s.rdb.Set(ctx, s.key(name), value, ttl).Err()
}

func (s *CookieStore) Delete(ctx context.Context, name string) error {
	return s.rdb.Del(ctx, s.key(name)).Err()
}

func (s *CookieStore) Close() error { return s.rdb.Close() }
