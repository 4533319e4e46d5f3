package testutil

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/Gunvolt24/peerkart/internal/domain"
	"github.com/Gunvolt24/peerkart/internal/ports"
)

// Store — in-memory хранилище заказов и пользователей с теми же условными
// семантиками, что и Postgres-реализация. Для сценарных тестов без контейнеров.
type Store struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
	users  map[string]*domain.User
	now    func() time.Time

	// Reads — число чтений списков (проверка попаданий в кэш).
	Reads int
}

func NewStore() *Store {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	return &Store{
		orders: make(map[string]*domain.Order),
		users:  make(map[string]*domain.User),
		// монотонные метки времени: порядок по updatedAt детерминирован
		now: func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Second)
		},
	}
}

// Orders и Users — порты поверх одного хранилища.
func (s *Store) Orders() ports.OrderRepository { return (*fakeOrders)(s) }
func (s *Store) Users() ports.UserRepository   { return (*fakeUsers)(s) }

// Put — положить пользователя напрямую.
func (s *Store) Put(u domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := u
	s.users[u.ID] = &c
}

// Points — текущий баланс пользователя.
func (s *Store) Points(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u := s.users[userID]; u != nil {
		return u.Points
	}
	return 0
}

type fakeOrders Store

var _ ports.OrderRepository = (*fakeOrders)(nil)

func (f *fakeOrders) Create(_ context.Context, order *domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.now()
	order.Version = 1
	order.CreatedAt, order.UpdatedAt = now, now
	f.orders[order.ID] = stripRefs(order)
	return nil
}

func (f *fakeOrders) GetByID(_ context.Context, id string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o := f.orders[id]
	if o == nil {
		return nil, nil
	}
	return f.withRefs(o), nil
}

func (f *fakeOrders) ListActive(_ context.Context) ([]*domain.Order, error) {
	return f.filter(func(o *domain.Order) bool { return o.State == domain.StateActive }, byCreatedDesc), nil
}

func (f *fakeOrders) ListByRequester(_ context.Context, userID string) ([]*domain.Order, error) {
	return f.filter(func(o *domain.Order) bool { return o.RequesterID == userID }, byUpdatedDesc), nil
}

func (f *fakeOrders) ListByFulfiller(_ context.Context, userID string) ([]*domain.Order, error) {
	return f.filter(func(o *domain.Order) bool { return o.IsFulfiller(userID) }, byUpdatedDesc), nil
}

func (f *fakeOrders) NearActive(_ context.Context, p domain.Point, maxDistance float64) ([]*domain.Order, error) {
	return f.filter(func(o *domain.Order) bool {
		return o.State == domain.StateActive && o.Address.Location != nil &&
			haversine(p, *o.Address.Location) <= maxDistance
	}, byCreatedDesc), nil
}

func (f *fakeOrders) Update(_ context.Context, order *domain.Order, expected domain.OrderState) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur := f.orders[order.ID]
	if cur == nil || cur.State != expected || cur.Version != order.Version {
		return false, nil
	}
	order.Version++
	order.UpdatedAt = f.now()
	if cur.Address.Text == order.Address.Text {
		order.Address.Location = nil
		if cur.Address.Location != nil {
			pt := *cur.Address.Location
			order.Address.Location = &pt
		}
	}
	next := stripRefs(order)
	next.CreatedAt = cur.CreatedAt
	f.orders[order.ID] = next
	return true, nil
}

func (f *fakeOrders) Complete(_ context.Context, order *domain.Order) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur := f.orders[order.ID]
	if cur == nil || cur.State != domain.StateAccepted || cur.Version != order.Version ||
		order.FulfillerID == nil || !cur.IsFulfiller(*order.FulfillerID) {
		return false, nil
	}
	cur.State = domain.StateComplete
	cur.Version++
	cur.UpdatedAt = f.now()
	if u := f.users[*cur.FulfillerID]; u != nil {
		u.Points += cur.Points
	}
	if u := f.users[cur.RequesterID]; u != nil {
		u.Points -= cur.Points
	}
	order.State, order.Version, order.UpdatedAt = cur.State, cur.Version, cur.UpdatedAt
	return true, nil
}

func (f *fakeOrders) Delete(_ context.Context, order *domain.Order) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur := f.orders[order.ID]
	if cur == nil || cur.State != domain.StateActive || cur.Version != order.Version {
		return false, nil
	}
	delete(f.orders, order.ID)
	return true, nil
}

func (f *fakeOrders) SetLocation(_ context.Context, id, addressText string, p domain.Point) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur := f.orders[id]
	if cur == nil || cur.Address.Text != addressText {
		return nil, nil
	}
	pt := p
	cur.Address.Location = &pt
	return f.withRefs(cur), nil
}

func (f *fakeOrders) filter(keep func(*domain.Order) bool, less func(a, b *domain.Order) bool) []*domain.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Reads++
	out := make([]*domain.Order, 0)
	for _, o := range f.orders {
		if keep(o) {
			out = append(out, f.withRefs(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// withRefs — копия с заполненными ссылками на пользователей (как JOIN в Postgres).
func (f *fakeOrders) withRefs(o *domain.Order) *domain.Order {
	c := o.Clone()
	if u := f.users[c.RequesterID]; u != nil {
		c.Requester = &domain.UserRef{ID: u.ID, Username: u.Username}
	}
	if c.FulfillerID != nil {
		if u := f.users[*c.FulfillerID]; u != nil {
			c.Fulfiller = &domain.UserRef{ID: u.ID, Username: u.Username, Contact: append([]string(nil), u.Contacts...)}
		}
	}
	return c
}

type fakeUsers Store

var _ ports.UserRepository = (*fakeUsers)(nil)

func (f *fakeUsers) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email || u.Username == user.Username {
			return domain.ErrAlreadyExists
		}
	}
	c := *user
	f.users[user.ID] = &c
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyUser(f.users[id]), nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) List(_ context.Context) ([]*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, copyUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (f *fakeUsers) AppendProfile(_ context.Context, id string, upd domain.ProfileUpdate) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.users[id]
	if u == nil {
		return nil, nil
	}
	if upd.Contact != nil {
		u.Contacts = append(u.Contacts, *upd.Contact)
	}
	if upd.Address != nil {
		u.Addresses = append(u.Addresses, domain.Address{Text: *upd.Address})
	}
	if upd.PaymentMethod != nil {
		u.PaymentMethods = append(u.PaymentMethods, *upd.PaymentMethod)
	}
	return copyUser(u), nil
}

func copyUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	c.Contacts = append([]string(nil), u.Contacts...)
	c.Addresses = append([]domain.Address(nil), u.Addresses...)
	c.PaymentMethods = append([]domain.PaymentMethod(nil), u.PaymentMethods...)
	return &c
}

func stripRefs(o *domain.Order) *domain.Order {
	c := o.Clone()
	c.Requester, c.Fulfiller = nil, nil
	return c
}

func byCreatedDesc(a, b *domain.Order) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.ID > b.ID
	}
	return a.CreatedAt.After(b.CreatedAt)
}

func byUpdatedDesc(a, b *domain.Order) bool {
	if a.UpdatedAt.Equal(b.UpdatedAt) {
		return a.ID > b.ID
	}
	return a.UpdatedAt.After(b.UpdatedAt)
}

func haversine(a, b domain.Point) float64 {
	const r = 6371000.0
	toRad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat, dLng := toRad(b.Lat-a.Lat), toRad(b.Lng-a.Lng)
	h := math.Pow(math.Sin(dLat/2), 2) + math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Pow(math.Sin(dLng/2), 2)
	return 2 * r * math.Asin(math.Sqrt(h))
}
