//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/Gunvolt24/peerkart/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestStore_Integration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	env, stop, err := testutil.StartRedisTC(ctx)
	require.NoError(t, err)
	defer func() { _ = stop(context.Background()) }()

	s := NewStore(Options{Addr: env.Addr})
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Connect(ctx))
	require.True(t, s.IsConnected())

	_, ok, err := s.Get(ctx, "O")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Set(ctx, "O", `[{"id":"o1"}]`, time.Hour))
	got, ok, err := s.Get(ctx, "O")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `[{"id":"o1"}]`, got)

	require.NoError(t, s.Set(ctx, "O:o1", "x", 100*time.Millisecond))
	time.Sleep(300 * time.Millisecond)
	_, ok, err = s.Get(ctx, "O:o1")
	require.NoError(t, err)
	require.False(t, ok, "entry must expire after TTL")

	require.NoError(t, s.Delete(ctx, "O", "U:missing"))
	_, ok, err = s.Get(ctx, "O")
	require.NoError(t, err)
	require.False(t, ok)
}
