package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Gunvolt24/peerkart/internal/domain"
	"github.com/Gunvolt24/peerkart/internal/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Проверка, что OrderRepository удовлетворяет интерфейсу OrderRepository.
var _ ports.OrderRepository = (*OrderRepository)(nil)

// earthRadiusMeters — радиус Земли для формулы гаверсинуса.
const earthRadiusMeters = 6371000.0

// OrderRepository — реализация репозитория заказов на Postgres (pgxpool).
// Позиции заказа хранятся в JSONB, ссылки на пользователей подтягиваются JOIN-ом.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository — конструктор OrderRepository.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository { return &OrderRepository{pool: pool} }

const selectOrder = `
	SELECT
		o.id, o.name, o.category, o.items, o.requester_id, o.fulfiller_id, o.state,
		o.address_text, o.lat, o.lng, o.payment_type, o.payment_id, o.contact,
		o.points, o.version, o.created_at, o.updated_at,
		r.username, f.username, f.contacts
	FROM orders o
	JOIN users r ON r.id = o.requester_id
	LEFT JOIN users f ON f.id = o.fulfiller_id
`

// Create — вставка нового заказа; version стартует с 1.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	if order == nil || order.ID == "" {
		return errors.New("order is empty or id is required")
	}
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	lat, lng := splitPoint(order.Address.Location)

	err = r.pool.QueryRow(ctx, `
		INSERT INTO orders (
			id, name, category, items, requester_id, fulfiller_id, state,
			address_text, lat, lng, payment_type, payment_id, contact, points
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING version, created_at, updated_at
	`,
		order.ID, order.Name, string(order.Category), items, order.RequesterID, order.FulfillerID, string(order.State),
		order.Address.Text, lat, lng, order.PaymentMethod.PaymentType, order.PaymentMethod.PaymentID,
		order.Contact, order.Points,
	).Scan(&order.Version, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID — заказ по id; (nil, nil), если записи нет.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	order, err := scanOrder(r.pool.QueryRow(ctx, selectOrder+` WHERE o.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select order: %w", err)
	}
	return order, nil
}

// ListActive — все активные заказы, новые первыми.
func (r *OrderRepository) ListActive(ctx context.Context) ([]*domain.Order, error) {
	return r.list(ctx, selectOrder+`
		WHERE o.state = 'active'
		ORDER BY o.created_at DESC, o.id DESC
	`)
}

// ListByRequester — заказы, созданные пользователем (все состояния).
func (r *OrderRepository) ListByRequester(ctx context.Context, userID string) ([]*domain.Order, error) {
	return r.list(ctx, selectOrder+`
		WHERE o.requester_id = $1
		ORDER BY o.updated_at DESC, o.id DESC
	`, userID)
}

// ListByFulfiller — заказы, принятые пользователем (accepted и complete).
func (r *OrderRepository) ListByFulfiller(ctx context.Context, userID string) ([]*domain.Order, error) {
	return r.list(ctx, selectOrder+`
		WHERE o.fulfiller_id = $1
		ORDER BY o.updated_at DESC, o.id DESC
	`, userID)
}

// NearActive — активные заказы с координатами в радиусе maxDistance метров, ближайшие первыми.
func (r *OrderRepository) NearActive(ctx context.Context, p domain.Point, maxDistance float64) ([]*domain.Order, error) {
	return r.list(ctx, `
		WITH near AS (
			SELECT id, $4 * 2 * asin(sqrt(
				power(sin(radians(lat - $1) / 2), 2) +
				cos(radians($1)) * cos(radians(lat)) * power(sin(radians(lng - $2) / 2), 2)
			)) AS distance
			FROM orders
			WHERE state = 'active' AND lat IS NOT NULL AND lng IS NOT NULL
		)
		`+selectOrder+`
		JOIN near n ON n.id = o.id
		WHERE n.distance <= $3
		ORDER BY n.distance, o.id
	`, p.Lat, p.Lng, maxDistance, earthRadiusMeters)
}

// Update — условная перезапись изменяемых полей: state и version в хранилище должны совпасть.
func (r *OrderRepository) Update(ctx context.Context, order *domain.Order, expected domain.OrderState) (bool, error) {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return false, fmt.Errorf("encode items: %w", err)
	}
	lat, lng := splitPoint(order.Address.Location)

	// Координаты того же адреса берутся из строки: SetLocation версию не меняет,
	// и снимок мог быть прочитан до геокодирования.
	err = r.pool.QueryRow(ctx, `
		UPDATE orders SET
			name = $4, category = $5, items = $6, fulfiller_id = $7, state = $8,
			address_text = $9,
			lat = CASE WHEN address_text = $9 THEN lat ELSE $10 END,
			lng = CASE WHEN address_text = $9 THEN lng ELSE $11 END,
			payment_type = $12, payment_id = $13,
			contact = $14, version = version + 1, updated_at = now()
		WHERE id = $1 AND state = $2 AND version = $3
		RETURNING version, updated_at, lat, lng
	`,
		order.ID, string(expected), order.Version,
		order.Name, string(order.Category), items, order.FulfillerID, string(order.State),
		order.Address.Text, lat, lng, order.PaymentMethod.PaymentType, order.PaymentMethod.PaymentID,
		order.Contact,
	).Scan(&order.Version, &order.UpdatedAt, &lat, &lng)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("update order: %w", err)
	}
	order.Address.Location = nil
	if lat != nil && lng != nil {
		order.Address.Location = &domain.Point{Lat: *lat, Lng: *lng}
	}
	return true, nil
}

// Complete — в одной транзакции: accepted → complete и перенос баллов заказчик → исполнитель.
func (r *OrderRepository) Complete(ctx context.Context, order *domain.Order) (bool, error) {
	if order.FulfillerID == nil {
		return false, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer func() {
		// При уже завершённой транзакции Rollback вернёт ErrTxClosed — игнорируем.
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			_ = rbErr
		}
	}()

	err = tx.QueryRow(ctx, `
		UPDATE orders SET state = 'complete', version = version + 1, updated_at = now()
		WHERE id = $1 AND state = 'accepted' AND version = $2 AND fulfiller_id = $3
		RETURNING version, updated_at
	`, order.ID, order.Version, *order.FulfillerID).Scan(&order.Version, &order.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("complete order: %w", err)
	}

	if _, err = tx.Exec(ctx, `UPDATE users SET points = points + $2 WHERE id = $1`,
		*order.FulfillerID, order.Points); err != nil {
		return false, fmt.Errorf("credit fulfiller: %w", err)
	}
	if _, err = tx.Exec(ctx, `UPDATE users SET points = points - $2 WHERE id = $1`,
		order.RequesterID, order.Points); err != nil {
		return false, fmt.Errorf("debit requester: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	order.State = domain.StateComplete
	return true, nil
}

// Delete — условное удаление активного заказа.
func (r *OrderRepository) Delete(ctx context.Context, order *domain.Order) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM orders WHERE id = $1 AND state = 'active' AND version = $2
	`, order.ID, order.Version)
	if err != nil {
		return false, fmt.Errorf("delete order: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// SetLocation — сохранить координаты, если адрес заказа всё ещё тот, что геокодировали.
// Версию не увеличивает; Update сохраняет координаты, пока адрес не сменился.
// Возвращает (nil, nil), если заказ удалён или адрес успел измениться.
func (r *OrderRepository) SetLocation(ctx context.Context, id, addressText string, p domain.Point) (*domain.Order, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders SET lat = $3, lng = $4
		WHERE id = $1 AND address_text = $2
	`, id, addressText, p.Lat, p.Lng)
	if err != nil {
		return nil, fmt.Errorf("set location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

// ------вспомогательные функции------

func (r *OrderRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("orders rows: %w", err)
	}
	return orders, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		order                      domain.Order
		category, state            string
		items, fulfillerContacts   []byte
		lat, lng                   *float64
		requesterName, fulfillName *string
	)
	if err := row.Scan(
		&order.ID, &order.Name, &category, &items, &order.RequesterID, &order.FulfillerID, &state,
		&order.Address.Text, &lat, &lng, &order.PaymentMethod.PaymentType, &order.PaymentMethod.PaymentID,
		&order.Contact, &order.Points, &order.Version, &order.CreatedAt, &order.UpdatedAt,
		&requesterName, &fulfillName, &fulfillerContacts,
	); err != nil {
		return nil, err
	}

	order.Category = domain.Category(category)
	order.State = domain.OrderState(state)
	if err := json.Unmarshal(items, &order.Items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	if lat != nil && lng != nil {
		order.Address.Location = &domain.Point{Lat: *lat, Lng: *lng}
	}

	if requesterName != nil {
		order.Requester = &domain.UserRef{ID: order.RequesterID, Username: *requesterName}
	}
	if order.FulfillerID != nil && fulfillName != nil {
		ref := &domain.UserRef{ID: *order.FulfillerID, Username: *fulfillName}
		if len(fulfillerContacts) > 0 {
			if err := json.Unmarshal(fulfillerContacts, &ref.Contact); err != nil {
				return nil, fmt.Errorf("decode fulfiller contacts: %w", err)
			}
		}
		order.Fulfiller = ref
	}
	return &order, nil
}

func splitPoint(p *domain.Point) (lat, lng *float64) {
	if p == nil {
		return nil, nil
	}
	la, ln := p.Lat, p.Lng
	return &la, &ln
}
