package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Gunvolt24/peerkart/internal/cache"
	"github.com/Gunvolt24/peerkart/internal/domain"
	"github.com/Gunvolt24/peerkart/internal/ports"
	"github.com/Gunvolt24/peerkart/pkg/metrics"
	"github.com/Gunvolt24/peerkart/pkg/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

var _ ports.OrderLifecycle = (*Lifecycle)(nil)

// Lifecycle — машина состояний заказа. Каждый переход: guard → условная запись в хранилище →
// эффект на кэш из таблицы инвалидации → событие. Ошибка хранилища прерывает шаги с кэшем.
type Lifecycle struct {
	orders    ports.OrderRepository
	users     ports.UserRepository
	validator ports.OrderDraftValidator
	cache     *cache.Layer
	events    ports.EventPublisher
	log       ports.Logger

	now   func() time.Time
	newID func() string
}

// NewLifecycle — DI-конструктор.
func NewLifecycle(
	orders ports.OrderRepository,
	users ports.UserRepository,
	validator ports.OrderDraftValidator,
	layer *cache.Layer,
	events ports.EventPublisher,
	log ports.Logger,
) *Lifecycle {
	return &Lifecycle{
		orders:    orders,
		users:     users,
		validator: validator,
		cache:     layer,
		events:    events,
		log:       log,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Create — новый активный заказ; баллы фиксируются по числу позиций.
func (s *Lifecycle) Create(ctx context.Context, actorID string, draft *domain.OrderDraft) (_ *domain.Order, err error) {
	ctx, done := s.begin(ctx, TransitionCreate, "")
	defer func() { done(err) }()

	if err := s.validator.Validate(ctx, draft); err != nil {
		return nil, err
	}
	requester, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	order := &domain.Order{
		ID:            s.newID(),
		Name:          draft.Name,
		Category:      draft.Category,
		Items:         append([]domain.Item(nil), draft.Items...),
		RequesterID:   requester.ID,
		State:         domain.StateActive,
		Address:       domain.Address{Text: draft.Address},
		PaymentMethod: draft.PaymentMethod,
		Contact:       draft.Contact,
		Points:        domain.PointsFor(len(draft.Items)),
		CreatedAt:     now,
		UpdatedAt:     now,
		Requester:     &domain.UserRef{ID: requester.ID, Username: requester.Username},
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.apply(ctx, TransitionCreate, order, actorID)
	s.publish(ctx, domain.EventOrderCreated, order, actorID)
	return order, nil
}

// Accept — active → accepted; исполнитель не заказчик и с заполненным профилем.
func (s *Lifecycle) Accept(ctx context.Context, actorID, orderID string) (_ *domain.Order, err error) {
	ctx, done := s.begin(ctx, TransitionAccept, orderID)
	defer func() { done(err) }()

	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	fulfiller, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	switch {
	case order.State != domain.StateActive:
		return nil, conflict("order %s is %s", order.ID, order.State)
	case order.RequesterID == actorID:
		return nil, conflict("requester cannot accept own order %s", order.ID)
	case !fulfiller.CanFulfil():
		return nil, conflict("user %s must have contact, address and payment method", actorID)
	}

	next := order.Clone()
	next.State = domain.StateAccepted
	next.FulfillerID = &fulfiller.ID
	next.Fulfiller = &domain.UserRef{
		ID:       fulfiller.ID,
		Username: fulfiller.Username,
		Contact:  append([]string(nil), fulfiller.Contacts...),
	}
	if err := s.update(ctx, next, domain.StateActive); err != nil {
		return nil, err
	}

	s.apply(ctx, TransitionAccept, next, actorID)
	s.publish(ctx, domain.EventOrderAccepted, next, actorID)
	return next, nil
}

// Reject — accepted → active; только текущим исполнителем.
func (s *Lifecycle) Reject(ctx context.Context, actorID, orderID string) (_ *domain.Order, err error) {
	ctx, done := s.begin(ctx, TransitionReject, orderID)
	defer func() { done(err) }()

	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.State != domain.StateAccepted || !order.IsFulfiller(actorID) {
		return nil, conflict("user %s cannot reject order %s in state %s", actorID, order.ID, order.State)
	}

	next := order.Clone()
	next.State = domain.StateActive
	next.FulfillerID = nil
	next.Fulfiller = nil
	if err := s.update(ctx, next, domain.StateAccepted); err != nil {
		return nil, err
	}

	s.apply(ctx, TransitionReject, next, actorID)
	s.publish(ctx, domain.EventOrderRejected, next, actorID)
	return next, nil
}

// Complete — accepted → complete и перенос баллов; атомарность обеспечивает хранилище.
func (s *Lifecycle) Complete(ctx context.Context, actorID, orderID string) (_ *domain.Order, err error) {
	ctx, done := s.begin(ctx, TransitionComplete, orderID)
	defer func() { done(err) }()

	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.State != domain.StateAccepted || !order.IsFulfiller(actorID) {
		return nil, conflict("user %s cannot complete order %s in state %s", actorID, order.ID, order.State)
	}

	next := order.Clone()
	ok, err := s.orders.Complete(ctx, next)
	if err != nil {
		return nil, fmt.Errorf("complete order: %w", err)
	}
	if !ok {
		return nil, conflict("order %s changed concurrently", order.ID)
	}
	next.State = domain.StateComplete

	s.apply(ctx, TransitionComplete, next, actorID)
	s.publish(ctx, domain.EventOrderCompleted, next, actorID)
	return next, nil
}

// Modify — перезапись изменяемых полей активного заказа его автором.
// Баллы остаются зафиксированными при создании; смена адреса сбрасывает координаты.
func (s *Lifecycle) Modify(ctx context.Context, actorID, orderID string, draft *domain.OrderDraft) (_ *domain.Order, err error) {
	ctx, done := s.begin(ctx, TransitionModify, orderID)
	defer func() { done(err) }()

	if err := s.validator.Validate(ctx, draft); err != nil {
		return nil, err
	}
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.State != domain.StateActive || order.RequesterID != actorID {
		return nil, conflict("user %s cannot modify order %s in state %s", actorID, order.ID, order.State)
	}

	next := order.Clone()
	next.Name = draft.Name
	next.Category = draft.Category
	next.Items = append([]domain.Item(nil), draft.Items...)
	next.PaymentMethod = draft.PaymentMethod
	next.Contact = draft.Contact
	if next.Address.Text != draft.Address {
		next.Address = domain.Address{Text: draft.Address}
	}
	if err := s.update(ctx, next, domain.StateActive); err != nil {
		return nil, err
	}

	s.apply(ctx, TransitionModify, next, actorID)
	s.publish(ctx, domain.EventOrderModified, next, actorID)
	return next, nil
}

// Delete — удаление активного заказа его автором. Возвращает удалённый снимок.
func (s *Lifecycle) Delete(ctx context.Context, actorID, orderID string) (_ *domain.Order, err error) {
	ctx, done := s.begin(ctx, TransitionDelete, orderID)
	defer func() { done(err) }()

	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.State != domain.StateActive || order.RequesterID != actorID {
		return nil, conflict("user %s cannot delete order %s in state %s", actorID, order.ID, order.State)
	}

	ok, err := s.orders.Delete(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("delete order: %w", err)
	}
	if !ok {
		return nil, conflict("order %s changed concurrently", order.ID)
	}

	s.apply(ctx, TransitionDelete, order, actorID)
	s.publish(ctx, domain.EventOrderDeleted, order, actorID)
	return order, nil
}

// ------вспомогательные функции------

// begin — span и учёт исхода перехода.
func (s *Lifecycle) begin(ctx context.Context, t Transition, orderID string) (context.Context, func(error)) {
	ctx, span := telemetry.StartSpan(ctx, "order."+string(t),
		attribute.String("order.id", orderID))

	return ctx, func(err error) {
		defer span.End()
		switch {
		case err == nil:
			metrics.OrderTransitions.WithLabelValues(string(t), "ok").Inc()
		case isRejection(err):
			metrics.OrderTransitions.WithLabelValues(string(t), "rejected").Inc()
			s.log.Infof(ctx, "order %s rejected order_id=%s err=%v", t, orderID, err)
		default:
			span.RecordError(err)
			metrics.OrderTransitions.WithLabelValues(string(t), "error").Inc()
			s.log.Errorf(ctx, "order %s failed order_id=%s err=%v", t, orderID, err)
		}
	}
}

func (s *Lifecycle) load(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
	}
	return order, nil
}

func (s *Lifecycle) actor(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	return user, nil
}

// update — условная запись; проигранная гонка — такой же конфликт, как нарушенный guard.
func (s *Lifecycle) update(ctx context.Context, next *domain.Order, expected domain.OrderState) error {
	ok, err := s.orders.Update(ctx, next, expected)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if !ok {
		return conflict("order %s changed concurrently", next.ID)
	}
	return nil
}

func (s *Lifecycle) apply(ctx context.Context, t Transition, order *domain.Order, actorID string) {
	eff := effectFor(t, order, actorID)
	if eff.RefreshOrder {
		s.cache.Write(ctx, cache.OrderKey(order.ID), order)
	}
	s.cache.Invalidate(ctx, eff.Invalidate...)
}

// publish — best-effort: ошибка публикации логируется, переход уже состоялся.
func (s *Lifecycle) publish(ctx context.Context, typ domain.EventType, order *domain.Order, actorID string) {
	if s.events == nil {
		return
	}
	ev := domain.OrderEvent{
		Type:       typ,
		OrderID:    order.ID,
		ActorID:    actorID,
		OccurredAt: s.now().UTC(),
	}
	if order.Address.Location == nil {
		ev.Address = order.Address.Text
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		metrics.EventsPublished.WithLabelValues(string(typ), "error").Inc()
		s.log.Warnf(ctx, "publish %s failed order_id=%s err=%v", typ, order.ID, err)
		return
	}
	metrics.EventsPublished.WithLabelValues(string(typ), "ok").Inc()
}

func conflict(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), domain.ErrStateConflict)
}

// isRejection — ожидаемый отказ (guard/валидация), а не сбой.
func isRejection(err error) bool {
	return errors.Is(err, domain.ErrStateConflict) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrValidation)
}
