package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/Gunvolt24/peerkart/internal/domain"
	"github.com/google/uuid"
)

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func UniqSuffix() string { return randHex(6) }

// MakeUser — пользователь с уникальными email/username и стартовым балансом.
func MakeUser(opts ...func(*domain.User)) domain.User {
	sfx := UniqSuffix()
	u := domain.User{
		ID:           uuid.NewString(),
		Username:     "user-" + sfx,
		Email:        "user-" + sfx + "@example.com",
		PasswordHash: "$2a$12$placeholderplaceholderplaceholderplaceholderplacehold",
		Points:       domain.InitialPoints,
	}
	for _, fn := range opts {
		fn(&u)
	}
	return u
}

// WithFullProfile — контакт, адрес и способ оплаты: пользователь может брать заказы.
func WithFullProfile() func(*domain.User) {
	return func(u *domain.User) {
		u.Contacts = []string{"+91-98000-" + randHex(2)}
		u.Addresses = []domain.Address{{Text: "12 MG Road, Bengaluru"}}
		u.PaymentMethods = []domain.PaymentMethod{{PaymentType: "UPI", PaymentID: "pay-" + UniqSuffix()}}
	}
}

// MakeOrder — активный заказ пользователя requesterID с одной позицией.
func MakeOrder(requesterID string, opts ...func(*domain.Order)) domain.Order {
	now := time.Now().UTC().Truncate(time.Second)
	o := domain.Order{
		ID:          uuid.NewString(),
		Name:        "Weekly groceries",
		Category:    domain.CategoryGrocery,
		Items:       []domain.Item{{Name: "Milk", Quantity: 2, Unit: "l"}},
		RequesterID: requesterID,
		State:       domain.StateActive,
		Address:     domain.Address{Text: "7 Park Street, Kolkata"},
		PaymentMethod: domain.PaymentMethod{
			PaymentType: "UPI",
			PaymentID:   "req-" + UniqSuffix(),
		},
		Contact:   "+91-90000-00000",
		Points:    domain.PointsFor(1),
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

func WithItems(n int) func(*domain.Order) {
	return func(o *domain.Order) {
		o.Items = make([]domain.Item, 0, n)
		for i := 0; i < n; i++ {
			o.Items = append(o.Items, domain.Item{Name: "Item-" + randHex(2), Quantity: float64(i + 1), Unit: "pcs"})
		}
		o.Points = domain.PointsFor(n)
	}
}

func WithLocation(lat, lng float64) func(*domain.Order) {
	return func(o *domain.Order) { o.Address.Location = &domain.Point{Lat: lat, Lng: lng} }
}

// Draft — черновик заказа из готового заказа (для вызовов Create/Modify).
func Draft(o domain.Order) *domain.OrderDraft {
	return &domain.OrderDraft{
		Name:          o.Name,
		Category:      o.Category,
		Items:         append([]domain.Item(nil), o.Items...),
		Address:       o.Address.Text,
		PaymentMethod: o.PaymentMethod,
		Contact:       o.Contact,
	}
}
