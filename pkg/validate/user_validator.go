package validate

import (
	"fmt"
	"net/mail"

	"github.com/Gunvolt24/peerkart/internal/domain"
)

// MinPasswordLen — минимальная длина пароля при регистрации.
const MinPasswordLen = 8

// Signup — проверка регистрационных данных.
func Signup(username, email, password string) error {
	if blank(username) {
		return fmt.Errorf("%w: username обязателен", domain.ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil || blank(email) {
		return fmt.Errorf("%w: email некорректен", domain.ErrValidation)
	}
	if len(password) < MinPasswordLen {
		return fmt.Errorf("%w: password короче %d символов", domain.ErrValidation, MinPasswordLen)
	}
	return nil
}

// ProfileUpdate — переданные поля не должны быть пустыми; пустой запрос тоже ошибка.
func ProfileUpdate(upd domain.ProfileUpdate) error {
	if upd.Empty() {
		return fmt.Errorf("%w: нет полей для обновления", domain.ErrValidation)
	}
	if upd.Contact != nil && blank(*upd.Contact) {
		return fmt.Errorf("%w: contact не может быть пустым", domain.ErrValidation)
	}
	if upd.Address != nil && blank(*upd.Address) {
		return fmt.Errorf("%w: address не может быть пустым", domain.ErrValidation)
	}
	if upd.PaymentMethod != nil {
		if err := validatePayment(*upd.PaymentMethod); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
	}
	return nil
}
