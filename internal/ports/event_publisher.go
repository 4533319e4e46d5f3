package ports

import (
	"context"

	"github.com/Gunvolt24/peerkart/internal/domain"
)

// EventPublisher — публикация событий жизненного цикла заказа.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.OrderEvent) error
	Close() error
}
