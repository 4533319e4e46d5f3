package kafka

import (
	"context"
	"sync"
	"time"

	"github.com/Gunvolt24/peerkart/internal/domain"
	"github.com/Gunvolt24/peerkart/internal/ports"
)

var _ ports.EventPublisher = (*DirectPublisher)(nil)

// eventHandler — обработчик уже разобранного события.
type eventHandler interface {
	Handle(ctx context.Context, ev domain.OrderEvent) error
}

// DirectPublisher — доставка событий без брокера: обработчик вызывается в фоне
// в процессе. Используется, когда Kafka выключена.
type DirectPublisher struct {
	handler eventHandler
	log     ports.Logger
	timeout time.Duration

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewDirectPublisher(handler eventHandler, log ports.Logger, timeout time.Duration) *DirectPublisher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &DirectPublisher{handler: handler, log: log, timeout: timeout}
}

// Publish не ждёт обработчика; отмена запроса не прерывает обработку.
func (p *DirectPublisher) Publish(ctx context.Context, event domain.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
		defer cancel()
		if err := p.handler.Handle(hctx, event); err != nil {
			p.log.Warnf(hctx, "direct event handling failed type=%s order_id=%s err=%v", event.Type, event.OrderID, err)
		}
	}()
	return nil
}

// Close — новые события отбрасываются, текущие дорабатывают.
func (p *DirectPublisher) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.wg.Wait()
	return nil
}
