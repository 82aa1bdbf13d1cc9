package refcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCache_ReadThrough(t *testing.T) {
	c := New(time.Minute)
	ctx := context.Background()

	loads := 0
	load := func(ctx context.Context) (string, error) {
		loads++
		return "MV Aurora", nil
	}

	v, err := c.Get(ctx, ShipName("s1"), load)
	require.NoError(t, err)
	require.Equal(t, "MV Aurora", v)

	v, err = c.Get(ctx, ShipName("s1"), load)
	require.NoError(t, err)
	require.Equal(t, "MV Aurora", v)
	require.Equal(t, 1, loads)
}

func TestCache_LoadErrorNotCached(t *testing.T) {
	c := New(time.Minute)
	ctx := context.Background()

	calls := 0
	failing := func(ctx context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("store down")
		}
		return "Rotterdam", nil
	}

	_, err := c.Get(ctx, PortName("p1"), failing)
	require.Error(t, err)

	v, err := c.Get(ctx, PortName("p1"), failing)
	require.NoError(t, err)
	require.Equal(t, "Rotterdam", v)
	require.Equal(t, 2, calls)
}

func TestCache_Invalidate(t *testing.T) {
	c := New(time.Minute)
	ctx := context.Background()

	names := []string{"Old Shed", "New Shed"}
	i := 0
	load := func(ctx context.Context) (string, error) {
		v := names[i]
		i++
		return v, nil
	}

	v, _ := c.Get(ctx, WarehouseName("w1"), load)
	require.Equal(t, "Old Shed", v)

	c.Invalidate(WarehouseName("w1"))

	v, _ = c.Get(ctx, WarehouseName("w1"), load)
	require.Equal(t, "New Shed", v)
}
