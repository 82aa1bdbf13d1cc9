package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/afterglow3292/portops/internal/model"
)

func TestMonthlyCargo_SplitsAssignedWeight(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	ship := f.seedShip(t, "IMO9400001")
	v := f.seedVoyage(t, "VY-600", ship)

	_, err := f.cargo.Create(ctx, &model.CreateCargoRequest{
		Description: "Assigned lot", Weight: 60, Destination: "Riga", VoyagePlanID: &v.PlanID,
	})
	require.NoError(t, err)
	_, err = f.cargo.Create(ctx, &model.CreateCargoRequest{
		Description: "Pending lot", Weight: 40, Destination: "Riga",
	})
	require.NoError(t, err)

	stats, err := f.stats.MonthlyCargo(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 1)

	month := time.Now().UTC().Format("2006-01")
	require.Equal(t, month, stats[0].Month)
	require.Equal(t, 100.0, stats[0].TotalWeight)
	require.Equal(t, 60.0, stats[0].AssignedWeight)
}

func TestMonthlyCargo_CancelledVoyageNotAssigned(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	ship := f.seedShip(t, "IMO9400002")
	v := f.seedVoyage(t, "VY-601", ship)

	_, err := f.cargo.Create(ctx, &model.CreateCargoRequest{
		Description: "Doomed lot", Weight: 25, Destination: "Tallinn", VoyagePlanID: &v.PlanID,
	})
	require.NoError(t, err)

	// Cargo stays assigned in the store only until the cancel cascade runs;
	// either way it must not count as assigned afterwards.
	_, err = f.voyages.UpdateStatus(ctx, v.PlanID, string(model.VoyageCancelled))
	require.NoError(t, err)

	stats, err := f.stats.MonthlyCargo(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	require.Equal(t, 25.0, stats[0].TotalWeight)
	require.Equal(t, 0.0, stats[0].AssignedWeight)
}

func TestMonthlyCargo_WindowAndOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	now := time.Now().UTC()
	// Two lots this month, one two months back, one outside the window.
	for _, weight := range []float64{10, 5} {
		_, err := f.store.Cargo().Create(ctx, &model.Cargo{
			Description: "Lot", Weight: weight, Destination: "Vilnius", CreatedAt: now,
		})
		require.NoError(t, err)
	}
	twoMonthsAgo := now.AddDate(0, -2, 0)
	_, err := f.store.Cargo().Create(ctx, &model.Cargo{
		Description: "Old lot", Weight: 7, Destination: "Vilnius", CreatedAt: twoMonthsAgo,
	})
	require.NoError(t, err)
	_, err = f.store.Cargo().Create(ctx, &model.Cargo{
		Description: "Ancient lot", Weight: 99, Destination: "Vilnius",
		CreatedAt: now.AddDate(-2, 0, 0),
	})
	require.NoError(t, err)

	stats, err := f.stats.MonthlyCargo(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	require.Equal(t, twoMonthsAgo.Format("2006-01"), stats[0].Month)
	require.Equal(t, 7.0, stats[0].TotalWeight)
	require.Equal(t, now.Format("2006-01"), stats[1].Month)
	require.Equal(t, 15.0, stats[1].TotalWeight)
}

func TestPortOccupancy(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	port := f.seedPort(t, "SEGOT") // 4 berths
	ship := f.seedShip(t, "IMO9400003")

	arrive := time.Now().UTC().Add(-time.Hour)
	occupied := model.PhysicalStatus(model.BerthOccupied)
	_, err := f.berths.Create(ctx, &model.CreateBerthRequest{
		PortID: port.PortID, ShipID: &ship.ShipID, BerthNumber: "G1",
		ArrivalTime: &arrive, Status: &occupied,
	})
	require.NoError(t, err)
	// A planned entry does not count as occupied.
	_, err = f.berths.Create(ctx, &model.CreateBerthRequest{
		PortID: port.PortID, BerthNumber: "G2", ArrivalTime: &arrive,
	})
	require.NoError(t, err)

	rep, err := f.stats.PortOccupancy(ctx, port.PortID)
	require.NoError(t, err)
	require.Equal(t, 1.0, rep.Used)
	require.Equal(t, 4.0, rep.Total)
	require.Equal(t, 25.0, rep.Rate)
}

func TestWarehouseUsage_Rounding(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	used := 1.0
	w, err := f.warehouses.Create(ctx, &model.CreateWarehouseRequest{
		WarehouseName: "W1", WarehouseType: model.WarehouseGeneral,
		TotalCapacity: 3, UsedCapacity: &used,
	})
	require.NoError(t, err)

	rep, err := f.stats.WarehouseUsage(ctx, w.WarehouseID)
	require.NoError(t, err)
	require.Equal(t, 33.3, rep.Rate)
}
