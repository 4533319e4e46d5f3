package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Gunvolt24/peerkart/internal/ports"
	"github.com/Gunvolt24/peerkart/pkg/metrics"
	"github.com/Gunvolt24/peerkart/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// DefaultTTL — единый срок жизни записи; переопределения на уровне ключа нет.
const DefaultTTL = time.Hour

// Layer — read-through / write-around кэш поверх CacheStore.
// Недоступность хранилища никогда не превращается в ошибку для вызывающего:
// чтения идут напрямую в compute, записи и инвалидации становятся no-op.
type Layer struct {
	store ports.CacheStore
	ttl   time.Duration
	log   ports.Logger
}

// NewLayer — конструктор; ttl <= 0 означает DefaultTTL.
func NewLayer(store ports.CacheStore, ttl time.Duration, log ports.Logger) *Layer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Layer{store: store, ttl: ttl, log: log}
}

// TTL — срок жизни записей слоя.
func (l *Layer) TTL() time.Duration { return l.ttl }

// ReadThrough — при попадании декодирует и возвращает значение; при промахе вызывает
// compute, сохраняет результат с TTL и возвращает его. Ошибка compute возвращается как есть,
// в кэш ничего не пишется. Параллельные промахи пересчитывают значение независимо.
func ReadThrough[T any](ctx context.Context, l *Layer, key string, compute func(context.Context) (T, error)) (T, error) {
	ctx, span := telemetry.StartSpan(ctx, "cache.read_through", attribute.String("cache.key", key))
	defer span.End()

	if v, ok := lookup[T](ctx, l, key); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return v, nil
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	v, err := compute(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	l.Write(ctx, key, v)
	return v, nil
}

// lookup — чтение и декодирование; любая проблема считается промахом.
func lookup[T any](ctx context.Context, l *Layer, key string) (T, bool) {
	var v T
	if !l.available() {
		return v, false
	}

	raw, found, err := l.store.Get(ctx, key)
	switch {
	case err != nil:
		metrics.CacheOps.WithLabelValues("error").Inc()
		l.log.Warnf(ctx, "cache get failed key=%s err=%v", key, err)
		return v, false
	case !found:
		metrics.CacheOps.WithLabelValues("miss").Inc()
		return v, false
	}

	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		metrics.CacheOps.WithLabelValues("decode_error").Inc()
		l.log.Warnf(ctx, "cache decode failed key=%s err=%v", key, err)
		return v, false
	}
	metrics.CacheOps.WithLabelValues("hit").Inc()
	return v, true
}

// Write — безусловная перезапись записи целиком (прогрев свежим значением вместо инвалидации).
func (l *Layer) Write(ctx context.Context, key string, value any) {
	if !l.available() {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		l.log.Warnf(ctx, "cache encode failed key=%s err=%v", key, err)
		return
	}
	if err := l.store.Set(ctx, key, string(raw), l.ttl); err != nil {
		metrics.CacheOps.WithLabelValues("error").Inc()
		l.log.Warnf(ctx, "cache set failed key=%s err=%v", key, err)
		return
	}
	metrics.CacheOps.WithLabelValues("set").Inc()
}

// Invalidate — удаляет записи; следующий ReadThrough по этим ключам пересчитает значение.
func (l *Layer) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 || !l.available() {
		return
	}
	if err := l.store.Delete(ctx, keys...); err != nil {
		metrics.CacheOps.WithLabelValues("error").Inc()
		l.log.Warnf(ctx, "cache invalidate failed keys=%v err=%v", keys, err)
		return
	}
	metrics.CacheOps.WithLabelValues("invalidate").Add(float64(len(keys)))
}

// available — подключено ли хранилище; в деградированном режиме только считаем обращения.
func (l *Layer) available() bool {
	if l.store != nil && l.store.IsConnected() {
		return true
	}
	metrics.CacheOps.WithLabelValues("degraded").Inc()
	return false
}
