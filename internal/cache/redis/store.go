package redis

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Gunvolt24/peerkart/pkg/metrics"
	goredis "github.com/redis/go-redis/v9"
)

// Options — параметры подключения к Redis.
type Options struct {
	Addr         string
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Store — реализация ports.CacheStore поверх go-redis.
// Флаг connected выставляется по результату Connect и сбрасывается в Close.
type Store struct {
	client    *goredis.Client
	connected atomic.Bool
}

func NewStore(opts Options) *Store {
	return &Store{client: goredis.NewClient(&goredis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	})}
}

// Connect — проверка доступности через PING.
func (s *Store) Connect(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		s.setConnected(false)
		return fmt.Errorf("redis ping: %w", err)
	}
	s.setConnected(true)
	return nil
}

func (s *Store) IsConnected() bool { return s.connected.Load() }

func (s *Store) Close() error {
	s.setConnected(false)
	return s.client.Close()
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *Store) setConnected(v bool) {
	s.connected.Store(v)
	if v {
		metrics.CacheConnected.Set(1)
		return
	}
	metrics.CacheConnected.Set(0)
}
