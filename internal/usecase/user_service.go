package usecase

import (
	"context"
	"fmt"

	"github.com/Gunvolt24/peerkart/internal/cache"
	"github.com/Gunvolt24/peerkart/internal/domain"
	"github.com/Gunvolt24/peerkart/internal/ports"
	"github.com/Gunvolt24/peerkart/pkg/validate"
)

var _ ports.UserService = (*UserService)(nil)

// UserService — профиль пользователя и админский список.
type UserService struct {
	users ports.UserRepository
	cache *cache.Layer
	log   ports.Logger
}

func NewUserService(users ports.UserRepository, layer *cache.Layer, log ports.Logger) *UserService {
	return &UserService{users: users, cache: layer, log: log}
}

// Details — профиль через U:<id>; баланс баллов может отставать не более чем на TTL.
func (s *UserService) Details(ctx context.Context, userID string) (*domain.User, error) {
	return cache.ReadThrough(ctx, s.cache, cache.UserKey(userID), func(ctx context.Context) (*domain.User, error) {
		u, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("get user: %w", err)
		}
		if u == nil {
			return nil, fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
		}
		return u, nil
	})
}

// List — все пользователи (кэш U).
func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return cache.ReadThrough(ctx, s.cache, cache.KeyAllUsers, s.users.List)
}

// UpdateProfile — дописывает контакт/адрес/способ оплаты и прогревает U:<id> новым профилем.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, upd domain.ProfileUpdate) (*domain.User, error) {
	if err := validate.ProfileUpdate(upd); err != nil {
		return nil, err
	}
	u, err := s.users.AppendProfile(ctx, userID, upd)
	if err != nil {
		s.log.Errorf(ctx, "append profile failed user_id=%s err=%v", userID, err)
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if u == nil {
		return nil, fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}

	s.cache.Write(ctx, cache.UserKey(userID), u)
	s.cache.Invalidate(ctx, profileEffect()...)
	s.log.Infof(ctx, "profile updated user_id=%s can_fulfil=%t", userID, u.CanFulfil())
	return u, nil
}
