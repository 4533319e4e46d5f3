package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/Gunvolt24/peerkart/internal/cache"
	"github.com/Gunvolt24/peerkart/internal/domain"
	"github.com/Gunvolt24/peerkart/internal/ports"
)

var _ ports.OrderQueries = (*Queries)(nil)

// PageSize — размер страницы списка активных заказов.
const PageSize = 10

// Queries — чтения заказов. Кэшируется полный результат запроса, страница вырезается после.
type Queries struct {
	orders ports.OrderRepository
	cache  *cache.Layer
	log    ports.Logger
}

func NewQueries(orders ports.OrderRepository, layer *cache.Layer, log ports.Logger) *Queries {
	return &Queries{orders: orders, cache: layer, log: log}
}

// ActiveOrders — страница активных заказов (нумерация с 1; page < 1 трактуется как 1).
// Страница за пределами списка пустая, TotalPages считается по всему списку.
func (q *Queries) ActiveOrders(ctx context.Context, page int) (ports.OrderPage, error) {
	all, err := cache.ReadThrough(ctx, q.cache, cache.KeyActiveOrders, q.orders.ListActive)
	if err != nil {
		return ports.OrderPage{}, fmt.Errorf("active orders: %w", err)
	}
	if page < 1 {
		page = 1
	}

	res := ports.OrderPage{
		Orders:     []*domain.Order{},
		TotalPages: (len(all) + PageSize - 1) / PageSize,
	}
	start := (page - 1) * PageSize
	if start >= len(all) {
		return res, nil
	}
	end := min(start+PageSize, len(all))
	res.Orders = all[start:end]
	return res, nil
}

// Order — один заказ; отсутствие не кэшируется.
func (q *Queries) Order(ctx context.Context, id string) (*domain.Order, error) {
	return cache.ReadThrough(ctx, q.cache, cache.OrderKey(id), func(ctx context.Context) (*domain.Order, error) {
		order, err := q.orders.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get order: %w", err)
		}
		if order == nil {
			return nil, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
		}
		return order, nil
	})
}

// Nearby — гео-поиск не кэшируется: ключ зависел бы от произвольных координат.
func (q *Queries) Nearby(ctx context.Context, p domain.Point, radius float64) ([]*domain.Order, error) {
	orders, err := q.orders.NearActive(ctx, p, radius)
	if err != nil {
		return nil, fmt.Errorf("nearby orders: %w", err)
	}
	return orders, nil
}

// CreatedBy — заказы, созданные пользователем.
func (q *Queries) CreatedBy(ctx context.Context, userID string) ([]*domain.Order, error) {
	return cache.ReadThrough(ctx, q.cache, cache.UserCreatedKey(userID), func(ctx context.Context) ([]*domain.Order, error) {
		return q.orders.ListByRequester(ctx, userID)
	})
}

// AcceptedBy — заказы, принятые пользователем (включая завершённые).
func (q *Queries) AcceptedBy(ctx context.Context, userID string) ([]*domain.Order, error) {
	return cache.ReadThrough(ctx, q.cache, cache.UserAcceptedKey(userID), func(ctx context.Context) ([]*domain.Order, error) {
		return q.orders.ListByFulfiller(ctx, userID)
	})
}

// LatestAccepted — последний по времени изменения заказ в состоянии accepted у исполнителя.
// Выводится из закэшированного U:<id>:A.
func (q *Queries) LatestAccepted(ctx context.Context, userID string) (*domain.Order, error) {
	orders, err := q.AcceptedBy(ctx, userID)
	if err != nil {
		return nil, err
	}
	var latest *domain.Order
	for _, o := range orders {
		if o.State != domain.StateAccepted {
			continue
		}
		if latest == nil || o.UpdatedAt.After(latest.UpdatedAt) {
			latest = o
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("no accepted orders for %s: %w", userID, domain.ErrNotFound)
	}
	return latest, nil
}

// Activity — созданные и принятые заказы одной лентой, свежие первыми.
func (q *Queries) Activity(ctx context.Context, userID string) ([]*domain.Order, error) {
	return cache.ReadThrough(ctx, q.cache, cache.UserActivityKey(userID), func(ctx context.Context) ([]*domain.Order, error) {
		created, err := q.orders.ListByRequester(ctx, userID)
		if err != nil {
			return nil, err
		}
		accepted, err := q.orders.ListByFulfiller(ctx, userID)
		if err != nil {
			return nil, err
		}
		feed := make([]*domain.Order, 0, len(created)+len(accepted))
		feed = append(feed, created...)
		feed = append(feed, accepted...)
		sort.SliceStable(feed, func(i, j int) bool { return feed[i].UpdatedAt.After(feed[j].UpdatedAt) })
		return feed, nil
	})
}

// WarmUp — прогрев списка активных заказов при старте; ошибка не фатальна.
func (q *Queries) WarmUp(ctx context.Context) {
	page, err := q.ActiveOrders(ctx, 1)
	if err != nil {
		q.log.Warnf(ctx, "cache warm-up skipped err=%v", err)
		return
	}
	q.log.Infof(ctx, "cache warmed: %d active order pages", page.TotalPages)
}
