//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/peerkart/internal/domain"
	pgrepo "github.com/Gunvolt24/peerkart/internal/repo/postgres"
	"github.com/Gunvolt24/peerkart/internal/testutil"
)

// startDB — контейнер + миграции + пул; длинный контекст только на подъём.
func startDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	ctxStart, cancelStart := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancelStart()

	pg, stopPG, err := testutil.StartPostgresTC(ctxStart)
	require.NoError(t, err)
	t.Cleanup(func() { _ = stopPG(context.Background()) })

	require.NoError(t, testutil.ApplyMigrationsGoose(pg.DSN))

	pool, err := pgrepo.NewPool(ctxStart, pg.DSN, 5)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func seedUser(ctx context.Context, t *testing.T, users *pgrepo.UserRepository, opts ...func(*domain.User)) domain.User {
	t.Helper()
	u := testutil.MakeUser(opts...)
	require.NoError(t, users.Create(ctx, &u))
	return u
}

// 1) Создание, чтение и ссылки на пользователей
func TestOrderRepo_CreateAndGet_TC(t *testing.T) {
	t.Parallel()
	pool := startDB(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := pgrepo.NewUserRepository(pool)
	orders := pgrepo.NewOrderRepository(pool)

	req := seedUser(ctx, t, users)
	ord := testutil.MakeOrder(req.ID, testutil.WithItems(3))
	require.NoError(t, orders.Create(ctx, &ord))
	require.Equal(t, int64(1), ord.Version)

	got, err := orders.GetByID(ctx, ord.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, 15, got.Points)
	require.Len(t, got.Items, 3)
	require.Equal(t, domain.StateActive, got.State)
	require.Nil(t, got.FulfillerID)
	require.NotNil(t, got.Requester)
	require.Equal(t, req.Username, got.Requester.Username)

	missing, err := orders.GetByID(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, missing)
}

// 2) Условный update: устаревшая версия или чужое состояние → false
func TestOrderRepo_ConditionalUpdate_TC(t *testing.T) {
	t.Parallel()
	pool := startDB(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := pgrepo.NewUserRepository(pool)
	orders := pgrepo.NewOrderRepository(pool)

	req := seedUser(ctx, t, users)
	ful := seedUser(ctx, t, users, testutil.WithFullProfile())
	ord := testutil.MakeOrder(req.ID)
	require.NoError(t, orders.Create(ctx, &ord))

	stale := ord

	ord.State = domain.StateAccepted
	ord.FulfillerID = &ful.ID
	ok, err := orders.Update(ctx, &ord, domain.StateActive)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(2), ord.Version)

	// второй «accept» с прочитанной ранее версией проигрывает
	other := req.ID
	stale.State = domain.StateAccepted
	stale.FulfillerID = &other
	ok, err = orders.Update(ctx, &stale, domain.StateActive)
	require.NoError(t, err)
	require.False(t, ok)

	got, err := orders.GetByID(ctx, ord.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StateAccepted, got.State)
	require.NotNil(t, got.Fulfiller)
	require.Equal(t, ful.Username, got.Fulfiller.Username)
	require.Equal(t, ful.Contacts, got.Fulfiller.Contact)

	// удаление принятого заказа не проходит
	ok, err = orders.Delete(ctx, got)
	require.NoError(t, err)
	require.False(t, ok)
}

// 3) Complete переносит баллы атомарно
func TestOrderRepo_CompleteMovesPoints_TC(t *testing.T) {
	t.Parallel()
	pool := startDB(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := pgrepo.NewUserRepository(pool)
	orders := pgrepo.NewOrderRepository(pool)

	req := seedUser(ctx, t, users)
	ful := seedUser(ctx, t, users, testutil.WithFullProfile())
	ord := testutil.MakeOrder(req.ID, testutil.WithItems(3))
	require.NoError(t, orders.Create(ctx, &ord))

	ord.State = domain.StateAccepted
	ord.FulfillerID = &ful.ID
	ok, err := orders.Update(ctx, &ord, domain.StateActive)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = orders.Complete(ctx, &ord)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, domain.StateComplete, ord.State)

	r, err := users.GetByID(ctx, req.ID)
	require.NoError(t, err)
	f, err := users.GetByID(ctx, ful.ID)
	require.NoError(t, err)
	require.Equal(t, 85, r.Points)
	require.Equal(t, 115, f.Points)

	// повторный complete — конфликт, баланс не меняется
	ok, err = orders.Complete(ctx, &ord)
	require.NoError(t, err)
	require.False(t, ok)
	f, err = users.GetByID(ctx, ful.ID)
	require.NoError(t, err)
	require.Equal(t, 115, f.Points)
}

// 4) Списки по ролям, near и координаты
func TestOrderRepo_ListsAndNear_TC(t *testing.T) {
	t.Parallel()
	pool := startDB(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := pgrepo.NewUserRepository(pool)
	orders := pgrepo.NewOrderRepository(pool)

	req := seedUser(ctx, t, users)
	near := testutil.MakeOrder(req.ID, testutil.WithLocation(12.9716, 77.5946))
	far := testutil.MakeOrder(req.ID, testutil.WithLocation(28.6139, 77.2090))
	noLoc := testutil.MakeOrder(req.ID)
	for _, o := range []*domain.Order{&near, &far, &noLoc} {
		require.NoError(t, orders.Create(ctx, o))
	}

	active, err := orders.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 3)

	created, err := orders.ListByRequester(ctx, req.ID)
	require.NoError(t, err)
	require.Len(t, created, 3)

	accepted, err := orders.ListByFulfiller(ctx, req.ID)
	require.NoError(t, err)
	require.Empty(t, accepted)

	got, err := orders.NearActive(ctx, domain.Point{Lat: 12.97, Lng: 77.59}, 5000)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, near.ID, got[0].ID)

	// геокодирование сохраняется только для актуального адреса
	upd, err := orders.SetLocation(ctx, noLoc.ID, "other address", domain.Point{Lat: 1, Lng: 1})
	require.NoError(t, err)
	require.Nil(t, upd)

	upd, err = orders.SetLocation(ctx, noLoc.ID, noLoc.Address.Text, domain.Point{Lat: 12.9717, Lng: 77.5947})
	require.NoError(t, err)
	require.NotNil(t, upd)
	require.NotNil(t, upd.Address.Location)
	require.Equal(t, noLoc.Version, upd.Version)

	got, err = orders.NearActive(ctx, domain.Point{Lat: 12.97, Lng: 77.59}, 5000)
	require.NoError(t, err)
	require.Len(t, got, 2)

	ok, err := orders.Delete(ctx, &far)
	require.NoError(t, err)
	require.True(t, ok)
}

// 5) Пользователи: уникальность и дописывание профиля
func TestUserRepo_CreateAppendProfile_TC(t *testing.T) {
	t.Parallel()
	pool := startDB(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := pgrepo.NewUserRepository(pool)

	u := seedUser(ctx, t, users)
	dup := testutil.MakeUser(func(d *domain.User) { d.Email = u.Email })
	require.ErrorIs(t, users.Create(ctx, &dup), domain.ErrAlreadyExists)

	byEmail, err := users.GetByEmail(ctx, u.Email)
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)
	require.Equal(t, domain.InitialPoints, byEmail.Points)
	require.Empty(t, byEmail.Contacts)

	contact := "+91-99999-11111"
	addr := "5 Residency Road"
	got, err := users.AppendProfile(ctx, u.ID, domain.ProfileUpdate{Contact: &contact, Address: &addr})
	require.NoError(t, err)
	require.Equal(t, []string{contact}, got.Contacts)
	require.Equal(t, []domain.Address{{Text: addr}}, got.Addresses)
	require.Empty(t, got.PaymentMethods)
	require.False(t, got.CanFulfil())

	got, err = users.AppendProfile(ctx, u.ID, domain.ProfileUpdate{
		PaymentMethod: &domain.PaymentMethod{PaymentType: "UPI", PaymentID: "me@upi"},
	})
	require.NoError(t, err)
	require.True(t, got.CanFulfil())

	missing, err := users.AppendProfile(ctx, "nope", domain.ProfileUpdate{Contact: &contact})
	require.NoError(t, err)
	require.Nil(t, missing)

	all, err := users.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

// 5) Снимок, прочитанный до геокодирования, не затирает координаты при условном обновлении.
func TestOrderRepo_UpdateKeepsConcurrentLocation_TC(t *testing.T) {
	t.Parallel()
	pool := startDB(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := pgrepo.NewUserRepository(pool)
	orders := pgrepo.NewOrderRepository(pool)

	req := seedUser(ctx, t, users)
	ful := seedUser(ctx, t, users)
	order := testutil.MakeOrder(req.ID)
	require.NoError(t, orders.Create(ctx, &order))

	snapshot, err := orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.Nil(t, snapshot.Address.Location)

	_, err = orders.SetLocation(ctx, order.ID, order.Address.Text, domain.Point{Lat: 12.9, Lng: 77.6})
	require.NoError(t, err)

	snapshot.State = domain.StateAccepted
	snapshot.FulfillerID = &ful.ID
	ok, err := orders.Update(ctx, snapshot, domain.StateActive)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, snapshot.Address.Location, "returned row carries the stored point")

	got, err := orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Address.Location)
	require.InDelta(t, 12.9, got.Address.Location.Lat, 1e-9)

	// смена адреса сбрасывает координаты
	got.State = domain.StateActive
	got.FulfillerID = nil
	got.Address = domain.Address{Text: "another address"}
	ok, err = orders.Update(ctx, got, domain.StateAccepted)
	require.NoError(t, err)
	require.True(t, ok)
	require.Nil(t, got.Address.Location)
}
