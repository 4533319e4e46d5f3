package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Gunvolt24/peerkart/internal/cache"
	"github.com/Gunvolt24/peerkart/internal/cache/memory"
	"github.com/Gunvolt24/peerkart/internal/domain"
	"github.com/Gunvolt24/peerkart/internal/ports/mocks"
	"github.com/Gunvolt24/peerkart/internal/usecase"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func connectedLayer(t *testing.T) *cache.Layer {
	t.Helper()
	mem := memory.NewStore(128, 0)
	require.NoError(t, mem.Connect(context.Background()))
	return cache.NewLayer(mem, time.Hour, noopLogger{})
}

func activeOrders(n int) []*domain.Order {
	out := make([]*domain.Order, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &domain.Order{ID: fmt.Sprintf("o%02d", i), State: domain.StateActive})
	}
	return out
}

func TestActiveOrders_PaginatesCachedList(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockOrderRepository(ctrl)
	repo.EXPECT().ListActive(gomock.Any()).Return(activeOrders(23), nil).Times(1)

	q := usecase.NewQueries(repo, connectedLayer(t), noopLogger{})
	ctx := context.Background()

	p1, err := q.ActiveOrders(ctx, 1)
	require.NoError(t, err)
	require.Len(t, p1.Orders, usecase.PageSize)
	require.Equal(t, 3, p1.TotalPages)
	require.Equal(t, "o00", p1.Orders[0].ID)

	p3, err := q.ActiveOrders(ctx, 3)
	require.NoError(t, err)
	require.Len(t, p3.Orders, 3)
	require.Equal(t, "o20", p3.Orders[0].ID)

	p0, err := q.ActiveOrders(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, "o00", p0.Orders[0].ID)

	p9, err := q.ActiveOrders(ctx, 9)
	require.NoError(t, err)
	require.Empty(t, p9.Orders)
	require.Equal(t, 3, p9.TotalPages)
}

func TestActiveOrders_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockOrderRepository(ctrl)
	repo.EXPECT().ListActive(gomock.Any()).Return(nil, errors.New("db down")).Times(2)

	q := usecase.NewQueries(repo, connectedLayer(t), noopLogger{})
	for i := 0; i < 2; i++ {
		_, err := q.ActiveOrders(context.Background(), 1)
		require.Error(t, err, "errors are never cached")
	}
}

func TestActivity_MergesAndSortsByUpdatedAt(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockOrderRepository(ctrl)

	t0 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	repo.EXPECT().ListByRequester(gomock.Any(), "u").Return([]*domain.Order{
		{ID: "c1", UpdatedAt: t0.Add(1 * time.Hour)},
		{ID: "c2", UpdatedAt: t0.Add(3 * time.Hour)},
	}, nil)
	repo.EXPECT().ListByFulfiller(gomock.Any(), "u").Return([]*domain.Order{
		{ID: "a1", UpdatedAt: t0.Add(2 * time.Hour)},
	}, nil)

	q := usecase.NewQueries(repo, connectedLayer(t), noopLogger{})
	feed, err := q.Activity(context.Background(), "u")
	require.NoError(t, err)
	require.Equal(t, []string{"c2", "a1", "c1"}, []string{feed[0].ID, feed[1].ID, feed[2].ID})

	again, err := q.Activity(context.Background(), "u")
	require.NoError(t, err)
	require.Len(t, again, 3)
}

func TestLatestAccepted(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockOrderRepository(ctrl)

	t0 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	repo.EXPECT().ListByFulfiller(gomock.Any(), "f").Return([]*domain.Order{
		{ID: "done", State: domain.StateComplete, UpdatedAt: t0.Add(5 * time.Hour)},
		{ID: "old", State: domain.StateAccepted, UpdatedAt: t0.Add(1 * time.Hour)},
		{ID: "new", State: domain.StateAccepted, UpdatedAt: t0.Add(2 * time.Hour)},
	}, nil)

	q := usecase.NewQueries(repo, connectedLayer(t), noopLogger{})
	got, err := q.LatestAccepted(context.Background(), "f")
	require.NoError(t, err)
	require.Equal(t, "new", got.ID)
}

func TestNearby_NotCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockOrderRepository(ctrl)
	p := domain.Point{Lat: 12.9, Lng: 77.5}
	repo.EXPECT().NearActive(gomock.Any(), p, 3000.0).Return([]*domain.Order{{ID: "n"}}, nil).Times(2)

	q := usecase.NewQueries(repo, connectedLayer(t), noopLogger{})
	for i := 0; i < 2; i++ {
		got, err := q.Nearby(context.Background(), p, 3000)
		require.NoError(t, err)
		require.Len(t, got, 1)
	}
}

func TestWarmUp_PopulatesActiveOrders(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockOrderRepository(ctrl)
	repo.EXPECT().ListActive(gomock.Any()).Return(activeOrders(2), nil).Times(1)

	q := usecase.NewQueries(repo, connectedLayer(t), noopLogger{})
	q.WarmUp(context.Background())

	page, err := q.ActiveOrders(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, page.Orders, 2)
}
