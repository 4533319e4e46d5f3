package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Gunvolt24/peerkart/config"
	cachemem "github.com/Gunvolt24/peerkart/internal/cache/memory"
	cacheredis "github.com/Gunvolt24/peerkart/internal/cache/redis"
	"github.com/Gunvolt24/peerkart/internal/geo"
	"github.com/Gunvolt24/peerkart/internal/kafka"
	"github.com/Gunvolt24/peerkart/internal/ports"
	"github.com/Gunvolt24/peerkart/internal/usecase"
)

// newCacheStore — хранилище кэша по драйверу из конфигурации.
func newCacheStore(cfg *config.Cache) (ports.CacheStore, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "memory":
		return cachemem.NewStore(cfg.Capacity, cfg.TTL), nil
	case "redis":
		return cacheredis.NewStore(cacheredis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			DialTimeout:  cfg.ConnectTimeout,
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		}), nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}

// connectCache — однократное подключение; при ошибке сервис работает без кэша.
func connectCache(ctx context.Context, store ports.CacheStore, timeout time.Duration, log ports.Logger) {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := store.Connect(cctx); err != nil {
		log.Warnf(ctx, "cache unavailable, running degraded: %v", err)
		return
	}
	log.Infof(ctx, "cache connected")
}

// newGeocoder — nil-интерфейс, если геокодирование выключено или не настроено.
func newGeocoder(ctx context.Context, cfg *config.Geocoder, log ports.Logger) ports.Geocoder {
	if !cfg.Enabled {
		return nil
	}
	g, err := geo.NewGoogleGeocoder(geo.Config{
		APIKey:  cfg.APIKey,
		Region:  cfg.Region,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		log.Warnf(ctx, "geocoder disabled: %v", err)
		return nil
	}
	return g
}

// newEvents — публикатор событий и, при включённой Kafka, консьюмер геокодирования.
// Без Kafka события обрабатываются в процессе в фоне.
func newEvents(cfg *config.Kafka, geocode *usecase.GeocodeService, log ports.Logger) (ports.EventPublisher, ports.MessageConsumer) {
	if !cfg.Enabled {
		return kafka.NewDirectPublisher(geocode, log, cfg.ProcessTimeout), nil
	}

	publisher := kafka.NewPublisher(&kafka.PublisherConfig{
		Brokers:      cfg.Brokers,
		Topic:        cfg.Topic,
		WriteTimeout: cfg.WriteTimeout,
	})
	consumer := kafka.NewConsumer(&kafka.ConsumerConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		GroupID:        cfg.GroupID,
		StartOffset:    cfg.StartOffset,
		ProcessTimeout: cfg.ProcessTimeout,
		RetryInitial:   cfg.RetryInitial,
		RetryMax:       cfg.RetryMax,
	}, geocode, log)
	return publisher, consumer
}
