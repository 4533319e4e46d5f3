package ports

import (
	"context"

	"github.com/Gunvolt24/peerkart/internal/domain"
)

// UserRepository — хранилище пользователей.
// Get* возвращают (nil, nil), если записи нет.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// AppendProfile — дописать переданные поля профиля и вернуть обновлённого пользователя.
	AppendProfile(ctx context.Context, id string, upd domain.ProfileUpdate) (*domain.User, error)
}
