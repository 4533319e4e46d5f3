package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/Gunvolt24/peerkart/internal/cache"
	"github.com/Gunvolt24/peerkart/internal/cache/memory"
	"github.com/Gunvolt24/peerkart/internal/domain"
	"github.com/Gunvolt24/peerkart/internal/ports"
	"github.com/Gunvolt24/peerkart/internal/testutil"
	"github.com/Gunvolt24/peerkart/internal/usecase"
	"github.com/Gunvolt24/peerkart/pkg/validate"
	"github.com/stretchr/testify/require"
)

// geocodeAfterLoad — координаты сохраняются сразу после того, как переход прочитал снимок.
type geocodeAfterLoad struct {
	ports.OrderRepository
	point domain.Point
	done  bool
}

func (g *geocodeAfterLoad) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	order, err := g.OrderRepository.GetByID(ctx, id)
	if err != nil || order == nil || g.done {
		return order, err
	}
	g.done = true
	if _, err := g.OrderRepository.SetLocation(ctx, id, order.Address.Text, g.point); err != nil {
		return nil, err
	}
	return order, nil
}

func newGeocodeRaceEnv(t *testing.T, st *testutil.Store, repo ports.OrderRepository) (*usecase.Lifecycle, *usecase.Queries) {
	t.Helper()
	mem := memory.NewStore(128, 0)
	require.NoError(t, mem.Connect(context.Background()))
	layer := cache.NewLayer(mem, time.Hour, noopLogger{})
	return usecase.NewLifecycle(repo, st.Users(), validate.NewOrderValidator(), layer, nil, noopLogger{}),
		usecase.NewQueries(st.Orders(), layer, noopLogger{})
}

func TestAccept_KeepsPointStoredAfterLoad(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewStore()
	req := testutil.MakeUser()
	ful := testutil.MakeUser(testutil.WithFullProfile())
	st.Put(req)
	st.Put(ful)

	plain, _ := newGeocodeRaceEnv(t, st, st.Orders())
	order, err := plain.Create(ctx, req.ID, threeItemDraft())
	require.NoError(t, err)
	require.Nil(t, order.Address.Location)

	point := domain.Point{Lat: 12.9716, Lng: 77.5946}
	lifecycle, queries := newGeocodeRaceEnv(t, st, &geocodeAfterLoad{OrderRepository: st.Orders(), point: point})

	accepted, err := lifecycle.Accept(ctx, ful.ID, order.ID)
	require.NoError(t, err)
	require.Equal(t, &point, accepted.Address.Location)

	stored, err := st.Orders().GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, &point, stored.Address.Location, "geocoded point survives the transition")

	cached, err := queries.Order(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, &point, cached.Address.Location, "O:<id> is refreshed with the stored point")
}

func TestModify_NewAddressDropsPointStoredAfterLoad(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewStore()
	req := testutil.MakeUser()
	st.Put(req)

	plain, _ := newGeocodeRaceEnv(t, st, st.Orders())
	order, err := plain.Create(ctx, req.ID, threeItemDraft())
	require.NoError(t, err)

	lifecycle, _ := newGeocodeRaceEnv(t, st, &geocodeAfterLoad{OrderRepository: st.Orders(), point: domain.Point{Lat: 1, Lng: 2}})

	draft := threeItemDraft()
	draft.Address = "42 Residency Road, Bengaluru"
	modified, err := lifecycle.Modify(ctx, req.ID, order.ID, draft)
	require.NoError(t, err)
	require.Nil(t, modified.Address.Location)

	stored, err := st.Orders().GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.Nil(t, stored.Address.Location, "point of the old address is not kept")
}
