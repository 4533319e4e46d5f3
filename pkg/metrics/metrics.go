package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	KafkaMessagesConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_consumed_total",
			Help: "Number of messages fetched from Kafka",
		},
		[]string{"topic"},
	)
	KafkaMessagesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_processed_total",
			Help: "Number of messages processed successfully",
		},
		[]string{"topic"},
	)
	KafkaMessagesFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_failed_total",
			Help: "Number of messages failed to process",
		},
		[]string{"topic"},
	)
	EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_events_published_total",
			Help: "Order lifecycle events handed to the publisher",
		},
		[]string{"type", "result"}, // result: ok|error
	)
)

var (
	CacheOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Cache operations",
		},
		[]string{"op"}, // hit|miss|set|invalidate|degraded|error|decode_error
	)
	CacheConnected = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_connected",
			Help: "1 when the cache store is reachable, 0 in degraded mode",
		},
	)
)

var (
	OrderTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_transitions_total",
			Help: "Order lifecycle transitions by outcome",
		},
		[]string{"transition", "result"}, // result: ok|rejected|error
	)
	GeocodeRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocode_requests_total",
			Help: "Geocoding lookups by outcome",
		},
		[]string{"result"}, // found|empty|error
	)
)

var registerOnce sync.Once

// MustRegister — регистрирует метрики в глобальном реестре; повторные вызовы безопасны.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			KafkaMessagesConsumed, KafkaMessagesProcessed, KafkaMessagesFailed, EventsPublished,
			CacheOps, CacheConnected,
			OrderTransitions, GeocodeRequests,
		)
	})
}
