package ports

import (
	"context"

	"github.com/Gunvolt24/peerkart/internal/domain"
)

// OrderRepository — хранилище заказов.
// Get* возвращают (nil, nil), если записи нет.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// ListActive — все активные заказы с заполненными ссылками на пользователей.
	ListActive(ctx context.Context) ([]*domain.Order, error)
	ListByRequester(ctx context.Context, userID string) ([]*domain.Order, error)
	ListByFulfiller(ctx context.Context, userID string) ([]*domain.Order, error)
	// NearActive — активные заказы в радиусе maxDistance метров от точки.
	NearActive(ctx context.Context, p domain.Point, maxDistance float64) ([]*domain.Order, error)

	// Update — условная запись: применяется, только если в хранилище state == expected
	// и version == order.Version. Возвращает false, если условие не выполнено.
	// При успехе order.Version и order.UpdatedAt обновляются.
	Update(ctx context.Context, order *domain.Order, expected domain.OrderState) (bool, error)
	// Complete — атомарно переводит заказ в complete и переносит баллы
	// от заказчика к исполнителю (одна транзакция).
	Complete(ctx context.Context, order *domain.Order) (bool, error)
	// Delete — условное удаление (state == active и version совпадает).
	Delete(ctx context.Context, order *domain.Order) (bool, error)
	// SetLocation — сохранить координаты адреса, если текст адреса не изменился.
	SetLocation(ctx context.Context, id, addressText string, p domain.Point) (*domain.Order, error)
}
