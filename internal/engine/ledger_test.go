package engine

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/afterglow3292/portops/internal/model"
)

func TestLedger_ReserveRelease(t *testing.T) {
	l := NewLedger(zerolog.Nop())
	w := &model.Warehouse{WarehouseID: "w1", TotalCapacity: 100, UsedCapacity: 0}

	used, err := l.Reserve(w, 40)
	require.NoError(t, err)
	require.Equal(t, 40.0, used)
	w.UsedCapacity = used

	used, err = l.Reserve(w, 60)
	require.NoError(t, err)
	require.Equal(t, 100.0, used)
	w.UsedCapacity = used

	_, err = l.Reserve(w, 0.001)
	require.True(t, model.IsConflictError(err))
	require.Equal(t, 100.0, w.UsedCapacity)

	w.UsedCapacity = l.Release(w, 60)
	require.Equal(t, 40.0, w.UsedCapacity)
}

// Repeated fractional cycles must not drift: 0.1 has no exact binary
// representation, so naive float accumulation would leave residue.
func TestLedger_NoFloatDrift(t *testing.T) {
	l := NewLedger(zerolog.Nop())
	w := &model.Warehouse{WarehouseID: "w1", TotalCapacity: 3, UsedCapacity: 0}

	for i := 0; i < 30; i++ {
		used, err := l.Reserve(w, 0.1)
		require.NoError(t, err)
		w.UsedCapacity = used
	}
	require.Equal(t, 3.0, w.UsedCapacity)

	_, err := l.Reserve(w, 0.1)
	require.True(t, model.IsConflictError(err))

	for i := 0; i < 30; i++ {
		w.UsedCapacity = l.Release(w, 0.1)
	}
	require.Equal(t, 0.0, w.UsedCapacity)
}

func TestLedger_ReserveNegative(t *testing.T) {
	l := NewLedger(zerolog.Nop())
	w := &model.Warehouse{WarehouseID: "w1", TotalCapacity: 10, UsedCapacity: 5}

	used, err := l.Reserve(w, -1)
	require.True(t, model.IsValidationError(err))
	require.Equal(t, 5.0, used)
}

func TestLedger_ReleaseFloorsAtZero(t *testing.T) {
	l := NewLedger(zerolog.Nop())
	w := &model.Warehouse{WarehouseID: "w1", TotalCapacity: 10, UsedCapacity: 2}

	require.Equal(t, 0.0, l.Release(w, 5))
}

func TestWithinCapacity(t *testing.T) {
	require.True(t, WithinCapacity(0, 0))
	require.True(t, WithinCapacity(10, 10))
	require.True(t, WithinCapacity(0.1+0.2, 0.3))
	require.False(t, WithinCapacity(10.000001, 10))
}
