package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/afterglow3292/portops/internal/model"
)

func TestLockTable_AcquireRelease(t *testing.T) {
	lt := NewLockTable(time.Second)
	ctx := context.Background()

	release, err := lt.Acquire(ctx, ShipKey("s1"), VoyageKey("v1"))
	require.NoError(t, err)
	release()

	// Released keys are immediately reusable.
	release, err = lt.Acquire(ctx, ShipKey("s1"))
	require.NoError(t, err)
	release()
}

func TestLockTable_DuplicateKeys(t *testing.T) {
	lt := NewLockTable(time.Second)

	// The same key twice in one call must not self-deadlock.
	release, err := lt.Acquire(context.Background(), CargoKey("c1"), CargoKey("c1"))
	require.NoError(t, err)
	release()
}

func TestLockTable_ContentionTimesOut(t *testing.T) {
	lt := NewLockTable(50 * time.Millisecond)
	ctx := context.Background()

	release, err := lt.Acquire(ctx, WarehouseKey("w1"))
	require.NoError(t, err)
	defer release()

	_, err = lt.Acquire(ctx, WarehouseKey("w1"))
	require.True(t, model.IsBusyError(err))
	var be model.BusyError
	require.ErrorAs(t, err, &be)
	require.Equal(t, WarehouseKey("w1"), be.Key)
}

// A timed-out multi-key acquire must leave no residue: keys it had already
// taken before hitting the contended one come back free.
func TestLockTable_TimeoutReleasesPartialHoldings(t *testing.T) {
	lt := NewLockTable(50 * time.Millisecond)
	ctx := context.Background()

	release, err := lt.Acquire(ctx, VoyageKey("v1"))
	require.NoError(t, err)

	// Sorts after ship s1, so s1 is taken first, then v1 blocks.
	_, err = lt.Acquire(ctx, VoyageKey("v1"), ShipKey("s1"))
	require.True(t, model.IsBusyError(err))

	release()

	release, err = lt.Acquire(ctx, ShipKey("s1"), VoyageKey("v1"))
	require.NoError(t, err)
	release()
}

func TestLockTable_ContextCancelled(t *testing.T) {
	lt := NewLockTable(10 * time.Second)

	release, err := lt.Acquire(context.Background(), PortKey("p1"))
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = lt.Acquire(ctx, PortKey("p1"))
	require.ErrorIs(t, err, context.Canceled)
}
