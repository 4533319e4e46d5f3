package ports

import (
	"context"

	"github.com/Gunvolt24/peerkart/internal/domain"
)

// OrderDraftValidator — проверка полей заказа до записи в хранилище.
type OrderDraftValidator interface {
	Validate(ctx context.Context, draft *domain.OrderDraft) error
}
