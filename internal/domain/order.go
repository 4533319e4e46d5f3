package domain

import "time"

// OrderState — состояние заказа в жизненном цикле.
type OrderState string

const (
	StateActive   OrderState = "active"
	StateAccepted OrderState = "accepted"
	StateComplete OrderState = "complete"
)

// Category — категория заказа.
type Category string

const (
	CategoryGrocery     Category = "Grocery"
	CategoryMedicines   Category = "Medicines"
	CategoryFishAndMeat Category = "Fish and Meat"
	CategoryStationary  Category = "Stationary"
)

// Categories — допустимые категории (порядок важен только для сообщений об ошибках).
var Categories = []Category{CategoryGrocery, CategoryMedicines, CategoryFishAndMeat, CategoryStationary}

// PointsPerItem — фиксированная политика начисления баллов: 5 за каждую позицию.
const PointsPerItem = 5

// Item — позиция заказа.
type Item struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit,omitempty"`
}

// Point — геокоординаты.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Address — адрес в свободной форме и (если удалось) его координаты.
type Address struct {
	Text     string `json:"address"`
	Location *Point `json:"location,omitempty"`
}

// PaymentMethod — способ оплаты.
type PaymentMethod struct {
	PaymentType string `json:"paymentType"`
	PaymentID   string `json:"paymentId"`
}

// UserRef — краткая карточка пользователя для заполнения ссылок заказа.
type UserRef struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Contact  []string `json:"contact,omitempty"`
}

// Order — заказ. Авторитетная копия живёт в хранилище, кэш держит только снимки.
type Order struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Category      Category      `json:"category"`
	Items         []Item        `json:"items"`
	RequesterID   string        `json:"generatedBy"`
	FulfillerID   *string       `json:"acceptedBy"`
	State         OrderState    `json:"state"`
	Address       Address       `json:"address"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Contact       string        `json:"contact"`
	Points        int           `json:"points"`
	Version       int64         `json:"version"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`

	// Заполняются только в списочных выборках.
	Requester *UserRef `json:"requester,omitempty"`
	Fulfiller *UserRef `json:"fulfiller,omitempty"`
}

// OrderDraft — изменяемые поля заказа (создание и модификация).
type OrderDraft struct {
	Name          string        `json:"name"`
	Category      Category      `json:"category"`
	Items         []Item        `json:"items"`
	Address       string        `json:"address"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Contact       string        `json:"contact"`
}

// PointsFor — баллы за заказ из n позиций.
func PointsFor(n int) int { return n * PointsPerItem }

// IsFulfiller — является ли userID текущим исполнителем.
func (o *Order) IsFulfiller(userID string) bool {
	return o.FulfillerID != nil && *o.FulfillerID == userID
}

// Clone — глубокая копия заказа.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	if o.Items != nil {
		c.Items = append([]Item(nil), o.Items...)
	}
	if o.FulfillerID != nil {
		id := *o.FulfillerID
		c.FulfillerID = &id
	}
	if o.Address.Location != nil {
		p := *o.Address.Location
		c.Address.Location = &p
	}
	if o.Requester != nil {
		r := *o.Requester
		c.Requester = &r
	}
	if o.Fulfiller != nil {
		f := *o.Fulfiller
		f.Contact = append([]string(nil), o.Fulfiller.Contact...)
		c.Fulfiller = &f
	}
	return &c
}
