package memory

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/Gunvolt24/peerkart/pkg/metrics"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

type entry struct {
	value     string
	expiresAt time.Time
}

// Store — in-process реализация ports.CacheStore на expirable LRU.
// maxTTL ограничивает жизнь записи сверху, TTL конкретной записи задаётся в Set.
type Store struct {
	lru       *expirable.LRU[string, entry]
	connected atomic.Bool
	now       func() time.Time
}

// NewStore — capacity <= 0 трактуется как 1.
func NewStore(capacity int, maxTTL time.Duration) *Store {
	if capacity <= 0 {
		capacity = 1
	}
	s := &Store{now: time.Now}
	s.lru = expirable.NewLRU[string, entry](capacity, func(string, entry) {
		metrics.CacheOps.WithLabelValues("evicted").Inc()
	}, maxTTL)
	return s
}

// Connect — для локального хранилища подключение всегда успешно.
func (s *Store) Connect(_ context.Context) error {
	s.connected.Store(true)
	return nil
}

func (s *Store) IsConnected() bool { return s.connected.Load() }

// Close — переводит хранилище в отключённое состояние и очищает записи.
func (s *Store) Close() error {
	s.connected.Store(false)
	s.lru.Purge()
	return nil
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	ent, ok := s.lru.Get(key)
	if !ok {
		return "", false, nil
	}
	if !ent.expiresAt.IsZero() && s.now().After(ent.expiresAt) {
		s.lru.Remove(key)
		metrics.CacheOps.WithLabelValues("expired").Inc()
		return "", false, nil
	}
	return ent.value, true, nil
}

func (s *Store) Set(_ context.Context, key, value string, ttl time.Duration) error {
	ent := entry{value: value}
	if ttl > 0 {
		ent.expiresAt = s.now().Add(ttl)
	}
	s.lru.Add(key, ent)
	return nil
}

func (s *Store) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		s.lru.Remove(k)
	}
	return nil
}

// Len — число записей (включая ещё не вычищенные просроченные).
func (s *Store) Len() int { return s.lru.Len() }
