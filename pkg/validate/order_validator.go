package validate

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Gunvolt24/peerkart/internal/domain"
	"github.com/Gunvolt24/peerkart/internal/ports"
)

// Проверка, что OrderValidator удовлетворяет интерфейсу OrderDraftValidator.
var _ ports.OrderDraftValidator = (*OrderValidator)(nil)

// ErrInvalidOrder — базовая ошибка валидации заказа; errors.Is(err, domain.ErrValidation) тоже истинно.
var ErrInvalidOrder = fmt.Errorf("order: %w", domain.ErrValidation)

// OrderValidator — валидация полей заказа, которые задаёт заказчик.
type OrderValidator struct{}

// NewOrderValidator — конструктор OrderValidator.
// Возвращает ErrInvalidOrder (с обёрнутой причиной) при любой проблеме.
func NewOrderValidator() *OrderValidator { return &OrderValidator{} }

// Validate — проверяет черновик заказа (создание и модификация).
func (v *OrderValidator) Validate(_ context.Context, draft *domain.OrderDraft) error {
	if draft == nil {
		return fmt.Errorf("%w: заказ не может быть nil", ErrInvalidOrder)
	}
	if blank(draft.Name) {
		return fmt.Errorf("%w: name обязателен", ErrInvalidOrder)
	}
	if !validCategory(draft.Category) {
		return fmt.Errorf("%w: category должна быть одной из %v", ErrInvalidOrder, domain.Categories)
	}
	if blank(draft.Address) {
		return fmt.Errorf("%w: address обязателен", ErrInvalidOrder)
	}
	if blank(draft.Contact) {
		return fmt.Errorf("%w: contact обязателен", ErrInvalidOrder)
	}
	if err := validatePayment(draft.PaymentMethod); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOrder, err)
	}
	return v.validateItems(draft.Items)
}

// Валидация позиций
func (v *OrderValidator) validateItems(items []domain.Item) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: items не должен быть пустым", ErrInvalidOrder)
	}

	for i := range items {
		item := &items[i]
		idx := strconv.Itoa(i)

		if blank(item.Name) {
			return fmt.Errorf("%w: items[%s].name обязателен", ErrInvalidOrder, idx)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: items[%s].quantity должен быть положительным", ErrInvalidOrder, idx)
		}
	}
	return nil
}

func validatePayment(p domain.PaymentMethod) error {
	if blank(p.PaymentType) {
		return errors.New("paymentMethod.paymentType обязателен")
	}
	if blank(p.PaymentID) {
		return errors.New("paymentMethod.paymentId обязателен")
	}
	return nil
}

func validCategory(c domain.Category) bool {
	for _, known := range domain.Categories {
		if c == known {
			return true
		}
	}
	return false
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
