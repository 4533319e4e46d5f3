package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Gunvolt24/peerkart/internal/domain"
	"github.com/Gunvolt24/peerkart/internal/ports"
	"github.com/segmentio/kafka-go"
)

var _ ports.EventPublisher = (*Publisher)(nil)

// writer — контракт над kafka.Writer для подмены в тестах.
type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// PublisherConfig — параметры записи событий.
type PublisherConfig struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

// Publisher — отправка событий заказа в топик. Ключ сообщения — id заказа,
// поэтому события одного заказа попадают в одну партицию и читаются по порядку.
type Publisher struct {
	writer    writer
	timeout   time.Duration
	closeOnce sync.Once
}

func NewPublisher(cfg *PublisherConfig) *Publisher {
	timeout := cfg.WriteTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Topic:                  cfg.Topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
		timeout: timeout,
	}
}

func (p *Publisher) Publish(ctx context.Context, event domain.OrderEvent) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(event.OrderID), Value: raw}); err != nil {
		return fmt.Errorf("write %s event: %w", event.Type, err)
	}
	return nil
}

func (p *Publisher) Close() (retErr error) {
	p.closeOnce.Do(func() {
		retErr = p.writer.Close()
	})
	return retErr
}
