package auth

import (
	"errors"
	"fmt"

	"github.com/Gunvolt24/peerkart/internal/domain"
	"github.com/Gunvolt24/peerkart/internal/ports"
	"golang.org/x/crypto/bcrypt"
)

var _ ports.PasswordHasher = (*Bcrypt)(nil)

// DefaultCost — стоимость bcrypt по умолчанию.
const DefaultCost = 12

// Bcrypt — хеширование паролей.
type Bcrypt struct {
	cost int
}

// NewBcrypt — cost вне допустимого диапазона заменяется на DefaultCost.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Bcrypt{cost: cost}
}

func (b *Bcrypt) Hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// Compare — несовпадение пароля отдаётся как domain.ErrUnauthorized.
func (b *Bcrypt) Compare(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return domain.ErrUnauthorized
	}
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	return nil
}
