package ports

import (
	"context"

	"github.com/Gunvolt24/peerkart/internal/domain"
)

// OrderLifecycle — мутации заказа (state machine + инвалидация кэша).
type OrderLifecycle interface {
	Create(ctx context.Context, actorID string, draft *domain.OrderDraft) (*domain.Order, error)
	Accept(ctx context.Context, actorID, orderID string) (*domain.Order, error)
	Reject(ctx context.Context, actorID, orderID string) (*domain.Order, error)
	Complete(ctx context.Context, actorID, orderID string) (*domain.Order, error)
	Modify(ctx context.Context, actorID, orderID string, draft *domain.OrderDraft) (*domain.Order, error)
	Delete(ctx context.Context, actorID, orderID string) (*domain.Order, error)
}

// OrderPage — страница активных заказов.
type OrderPage struct {
	Orders     []*domain.Order
	TotalPages int
}

// OrderQueries — чтение заказов через кэш.
type OrderQueries interface {
	ActiveOrders(ctx context.Context, page int) (OrderPage, error)
	Order(ctx context.Context, id string) (*domain.Order, error)
	Nearby(ctx context.Context, p domain.Point, radius float64) ([]*domain.Order, error)
	CreatedBy(ctx context.Context, userID string) ([]*domain.Order, error)
	AcceptedBy(ctx context.Context, userID string) ([]*domain.Order, error)
	LatestAccepted(ctx context.Context, userID string) (*domain.Order, error)
	Activity(ctx context.Context, userID string) ([]*domain.Order, error)
}

// UserService — профиль и список пользователей.
type UserService interface {
	Details(ctx context.Context, userID string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, upd domain.ProfileUpdate) (*domain.User, error)
}

// SignupInput — данные регистрации.
type SignupInput struct {
	Username string
	Email    string
	Password string
}

// AuthService — регистрация, вход и проверка токена.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (token, userID string, err error)
	Verify(token string) (userID string, err error)
}
