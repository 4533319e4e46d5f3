package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Gunvolt24/peerkart/internal/cache"
	"github.com/Gunvolt24/peerkart/internal/domain"
	"github.com/Gunvolt24/peerkart/internal/ports"
	"github.com/Gunvolt24/peerkart/pkg/validate"
	"github.com/google/uuid"
)

var _ ports.AuthService = (*AuthService)(nil)

// AuthService — регистрация, вход и проверка токенов.
type AuthService struct {
	users     ports.UserRepository
	passwords ports.PasswordHasher
	tokens    ports.TokenManager
	cache     *cache.Layer
	log       ports.Logger
}

func NewAuthService(
	users ports.UserRepository,
	passwords ports.PasswordHasher,
	tokens ports.TokenManager,
	layer *cache.Layer,
	log ports.Logger,
) *AuthService {
	return &AuthService{users: users, passwords: passwords, tokens: tokens, cache: layer, log: log}
}

// Signup — новый пользователь со стартовым балансом; email нормализуется к нижнему регистру.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.TrimSpace(in.Username)
	if err := validate.Signup(username, email, in.Password); err != nil {
		return nil, err
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Points:       domain.InitialPoints,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if !errors.Is(err, domain.ErrAlreadyExists) {
			s.log.Errorf(ctx, "create user failed err=%v", err)
		}
		return nil, err
	}

	s.cache.Invalidate(ctx, signupEffect()...)
	s.log.Infof(ctx, "user signed up user_id=%s", u.ID)
	return u, nil
}

// Login — неизвестный email и неверный пароль неразличимы для клиента.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, string, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", "", fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return "", "", fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
	}
	if err := s.passwords.Compare(u.PasswordHash, password); err != nil {
		return "", "", fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return "", "", err
	}
	return token, u.ID, nil
}

func (s *AuthService) Verify(token string) (string, error) {
	return s.tokens.Parse(token)
}
