package usecase

import (
	"github.com/Gunvolt24/peerkart/internal/cache"
	"github.com/Gunvolt24/peerkart/internal/domain"
)

// Transition — переход жизненного цикла заказа (метка метрик и ключ таблицы инвалидации).
type Transition string

const (
	TransitionCreate   Transition = "create"
	TransitionAccept   Transition = "accept"
	TransitionReject   Transition = "reject"
	TransitionComplete Transition = "complete"
	TransitionModify   Transition = "modify"
	TransitionDelete   Transition = "delete"
)

// cacheEffect — что сделать с кэшем после успешной записи в хранилище.
// RefreshOrder: перезаписать O:<id> свежим снимком вместо инвалидации.
type cacheEffect struct {
	Invalidate   []string
	RefreshOrder bool
}

// effectFor — перечисленная вручную таблица инвалидации.
// Ключ зависит от того, чей список изменился: заказчика (create/modify/delete)
// или исполнителя, совершившего переход (accept/reject/complete).
// Изменения баллов при complete кэшем не отслеживаются: U:<id> живёт до истечения TTL.
func effectFor(t Transition, order *domain.Order, actorID string) cacheEffect {
	req := order.RequesterID
	switch t {
	case TransitionCreate:
		return cacheEffect{Invalidate: []string{
			cache.KeyActiveOrders, cache.UserActivityKey(req), cache.UserCreatedKey(req),
		}}
	case TransitionAccept, TransitionReject:
		return cacheEffect{Invalidate: []string{
			cache.KeyActiveOrders, cache.UserActivityKey(actorID), cache.UserAcceptedKey(actorID),
		}, RefreshOrder: true}
	case TransitionComplete:
		return cacheEffect{Invalidate: []string{
			cache.UserActivityKey(actorID), cache.UserAcceptedKey(actorID),
		}, RefreshOrder: true}
	case TransitionModify:
		return cacheEffect{Invalidate: []string{
			cache.KeyActiveOrders, cache.UserActivityKey(req), cache.UserCreatedKey(req),
		}, RefreshOrder: true}
	case TransitionDelete:
		return cacheEffect{Invalidate: []string{
			cache.KeyActiveOrders, cache.UserActivityKey(req), cache.OrderKey(order.ID), cache.UserCreatedKey(req),
		}}
	}
	return cacheEffect{}
}

// Эффекты вне жизненного цикла заказа.

// profileEffect — обновление профиля: U:<id> перезаписывается, общий список U сбрасывается.
func profileEffect() []string { return []string{cache.KeyAllUsers} }

// signupEffect — новый пользователь меняет только общий список.
func signupEffect() []string { return []string{cache.KeyAllUsers} }

// geocodeEffect — координаты видны во всех списках с этим заказом; O:<id> перезаписывается.
func geocodeEffect(order *domain.Order) []string {
	req := order.RequesterID
	keys := []string{cache.KeyActiveOrders, cache.UserActivityKey(req), cache.UserCreatedKey(req)}
	if order.FulfillerID != nil {
		ful := *order.FulfillerID
		keys = append(keys, cache.UserActivityKey(ful), cache.UserAcceptedKey(ful))
	}
	return keys
}
