package domain

import "time"

// EventType — тип события жизненного цикла заказа.
type EventType string

const (
	EventOrderCreated   EventType = "order.created"
	EventOrderModified  EventType = "order.modified"
	EventOrderAccepted  EventType = "order.accepted"
	EventOrderRejected  EventType = "order.rejected"
	EventOrderCompleted EventType = "order.completed"
	EventOrderDeleted   EventType = "order.deleted"
)

// OrderEvent — событие, публикуемое после успешного перехода.
type OrderEvent struct {
	Type       EventType `json:"type"`
	OrderID    string    `json:"orderId"`
	ActorID    string    `json:"actorId"`
	Address    string    `json:"address,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NeedsGeocoding — событие несёт адрес, который нужно геокодировать.
func (e OrderEvent) NeedsGeocoding() bool {
	return (e.Type == EventOrderCreated || e.Type == EventOrderModified) && e.Address != ""
}
