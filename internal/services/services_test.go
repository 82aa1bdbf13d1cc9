package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/afterglow3292/portops/internal/engine"
	"github.com/afterglow3292/portops/internal/model"
	"github.com/afterglow3292/portops/internal/refcache"
	"github.com/afterglow3292/portops/internal/store"
	"github.com/afterglow3292/portops/internal/store/memstore"
)

type fixture struct {
	store      store.Store
	locks      *engine.LockTable
	ships      *ShipService
	ports      *PortService
	berths     *BerthService
	voyages    *VoyageService
	cargo      *CargoService
	warehouses *WarehouseService
	tasks      *TaskService
	stats      *StatsService
}

func newFixture() *fixture {
	return newFixtureLockTimeout(time.Second)
}

func newFixtureLockTimeout(timeout time.Duration) *fixture {
	st := memstore.New()
	locks := engine.NewLockTable(timeout)
	cache := refcache.New(time.Second)
	log := zerolog.Nop()
	ledger := engine.NewLedger(log)
	return &fixture{
		store:      st,
		locks:      locks,
		ships:      NewShipService(st, locks, cache, log),
		ports:      NewPortService(st, locks, cache, log),
		berths:     NewBerthService(st, locks, cache, log),
		voyages:    NewVoyageService(st, locks, log),
		cargo:      NewCargoService(st, locks, ledger, cache, log),
		warehouses: NewWarehouseService(st, locks, cache, log),
		tasks:      NewTaskService(st, locks, log),
		stats:      NewStatsService(st, log),
	}
}

func (f *fixture) seedShip(t *testing.T, imo string) *model.Ship {
	t.Helper()
	ship, err := f.ships.Create(context.Background(), &model.CreateShipRequest{
		Name: "MV Aurora", IMO: imo, CapacityTEU: 8000, Status: model.ShipAtSea,
	})
	require.NoError(t, err)
	return ship
}

func (f *fixture) seedPort(t *testing.T, code string) *model.Port {
	t.Helper()
	port, err := f.ports.Create(context.Background(), &model.CreatePortRequest{
		PortCode: code, PortName: "Port of " + code, Country: "NL", City: "Rotterdam", TotalBerths: 4,
	})
	require.NoError(t, err)
	return port
}

func (f *fixture) seedVoyage(t *testing.T, number string, ship *model.Ship) *model.VoyagePlan {
	t.Helper()
	dep := f.seedPort(t, "DEP-"+number)
	arr := f.seedPort(t, "ARR-"+number)
	v, err := f.voyages.Create(context.Background(), &model.CreateVoyageRequest{
		VoyageNumber:     number,
		ShipID:           ship.ShipID,
		DeparturePortID:  dep.PortID,
		ArrivalPortID:    arr.PortID,
		PlannedDeparture: time.Now().UTC().Add(time.Hour),
		PlannedArrival:   time.Now().UTC().Add(48 * time.Hour),
	})
	require.NoError(t, err)
	return v
}

func TestShipCreate_DuplicateIMO(t *testing.T) {
	f := newFixture()
	f.seedShip(t, "IMO9321483")

	_, err := f.ships.Create(context.Background(), &model.CreateShipRequest{
		Name: "MV Borealis", IMO: "IMO9321483", CapacityTEU: 4000, Status: model.ShipScheduled,
	})
	require.True(t, model.IsConflictError(err))
}

func TestShipDelete_GuardedByVoyage(t *testing.T) {
	f := newFixture()
	ship := f.seedShip(t, "IMO9321484")
	f.seedVoyage(t, "VY-100", ship)

	err := f.ships.Delete(context.Background(), ship.ShipID)
	require.True(t, model.IsReferentialIntegrityError(err))

	// The ship is still there.
	_, err = f.ships.Get(context.Background(), ship.ShipID)
	require.NoError(t, err)
}

func TestBerthCreate_WindowConflict(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	ship := f.seedShip(t, "IMO9321485")
	port := f.seedPort(t, "NLRTM")

	arrive := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	depart := time.Date(2025, 5, 2, 2, 0, 0, 0, time.UTC)
	confirmed := model.ScheduleStatus(model.BerthConfirmed)
	_, err := f.berths.Create(ctx, &model.CreateBerthRequest{
		PortID:        port.PortID,
		ShipID:        &ship.ShipID,
		BerthNumber:   "B-12",
		ArrivalTime:   &arrive,
		DepartureTime: &depart,
		Status:        &confirmed,
	})
	require.NoError(t, err)

	// A second booking arriving inside the window is rejected.
	second := time.Date(2025, 5, 1, 20, 0, 0, 0, time.UTC)
	_, err = f.berths.Create(ctx, &model.CreateBerthRequest{
		PortID:      port.PortID,
		BerthNumber: "B-12",
		ArrivalTime: &second,
	})
	require.True(t, model.IsConflictError(err))

	// The same window on a different berth is fine.
	_, err = f.berths.Create(ctx, &model.CreateBerthRequest{
		PortID:      port.PortID,
		BerthNumber: "B-13",
		ArrivalTime: &second,
	})
	require.NoError(t, err)
}

func TestVoyageCancel_UnassignsCargo(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	ship := f.seedShip(t, "IMO9321486")
	v := f.seedVoyage(t, "VY-200", ship)

	c1, err := f.cargo.Create(ctx, &model.CreateCargoRequest{
		Description: "Steel coils", Weight: 120, Destination: "Hamburg", VoyagePlanID: &v.PlanID,
	})
	require.NoError(t, err)
	c2, err := f.cargo.Create(ctx, &model.CreateCargoRequest{
		Description: "Grain", Weight: 300, Destination: "Hamburg", VoyagePlanID: &v.PlanID,
	})
	require.NoError(t, err)

	cancelled, err := f.voyages.UpdateStatus(ctx, v.PlanID, string(model.VoyageCancelled))
	require.NoError(t, err)
	require.Equal(t, model.VoyageCancelled, cancelled.Status)

	// Both cargo items survive, unassigned.
	for _, id := range []string{c1.CargoID, c2.CargoID} {
		got, err := f.cargo.Get(ctx, id)
		require.NoError(t, err)
		require.Nil(t, got.VoyagePlanID)
	}

	// And no new cargo can board a cancelled voyage.
	_, err = f.cargo.Create(ctx, &model.CreateCargoRequest{
		Description: "Late freight", Weight: 10, Destination: "Hamburg", VoyagePlanID: &v.PlanID,
	})
	require.True(t, model.IsValidationError(err))
}

func TestVoyageDelete_GuardedByCargo(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	ship := f.seedShip(t, "IMO9321487")
	v := f.seedVoyage(t, "VY-300", ship)

	_, err := f.cargo.Create(ctx, &model.CreateCargoRequest{
		Description: "Containers", Weight: 55, Destination: "Antwerp", VoyagePlanID: &v.PlanID,
	})
	require.NoError(t, err)

	err = f.voyages.Delete(ctx, v.PlanID)
	require.True(t, model.IsReferentialIntegrityError(err))
}

func TestVoyageRoundTrip(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	ship := f.seedShip(t, "IMO9321488")
	v := f.seedVoyage(t, "VY-400", ship)

	got, err := f.voyages.Get(ctx, v.PlanID)
	require.NoError(t, err)
	require.Equal(t, v, got)
	require.Equal(t, model.VoyageScheduled, got.Status)
	require.Nil(t, got.ActualDeparture)
	require.Nil(t, got.ActualArrival)
	require.Nil(t, got.AssignedBerthID)
}

func TestCargoWarehouse_CapacityBound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	used := 950.0
	w, err := f.warehouses.Create(ctx, &model.CreateWarehouseRequest{
		WarehouseName: "W1", WarehouseType: model.WarehouseGeneral,
		TotalCapacity: 1000, UsedCapacity: &used,
	})
	require.NoError(t, err)

	// 950 + 100 > 1000: rejected.
	_, err = f.cargo.Create(ctx, &model.CreateCargoRequest{
		Description: "Fertilizer", Weight: 100, Destination: "Gdansk", WarehouseID: &w.WarehouseID,
	})
	require.True(t, model.IsConflictError(err))

	// 950 + 50 = 1000: accepted, warehouse full.
	c, err := f.cargo.Create(ctx, &model.CreateCargoRequest{
		Description: "Fertilizer", Weight: 50, Destination: "Gdansk", WarehouseID: &w.WarehouseID,
	})
	require.NoError(t, err)

	got, err := f.warehouses.Get(ctx, w.WarehouseID)
	require.NoError(t, err)
	require.Equal(t, 1000.0, got.UsedCapacity)

	// Deleting the cargo releases its claim.
	require.NoError(t, f.cargo.Delete(ctx, c.CargoID))
	got, err = f.warehouses.Get(ctx, w.WarehouseID)
	require.NoError(t, err)
	require.Equal(t, 950.0, got.UsedCapacity)
}

func TestCargoUpdate_MovesWarehouseClaim(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	w1, err := f.warehouses.Create(ctx, &model.CreateWarehouseRequest{
		WarehouseName: "W1", WarehouseType: model.WarehouseGeneral, TotalCapacity: 100,
	})
	require.NoError(t, err)
	w2, err := f.warehouses.Create(ctx, &model.CreateWarehouseRequest{
		WarehouseName: "W2", WarehouseType: model.WarehouseGeneral, TotalCapacity: 100,
	})
	require.NoError(t, err)

	c, err := f.cargo.Create(ctx, &model.CreateCargoRequest{
		Description: "Paper rolls", Weight: 40, Destination: "Oslo", WarehouseID: &w1.WarehouseID,
	})
	require.NoError(t, err)

	_, err = f.cargo.Update(ctx, c.CargoID, &model.UpdateCargoRequest{
		Description: "Paper rolls", Weight: 40, Destination: "Oslo", WarehouseID: &w2.WarehouseID,
	})
	require.NoError(t, err)

	g1, _ := f.warehouses.Get(ctx, w1.WarehouseID)
	g2, _ := f.warehouses.Get(ctx, w2.WarehouseID)
	require.Equal(t, 0.0, g1.UsedCapacity)
	require.Equal(t, 40.0, g2.UsedCapacity)
}

func TestWarehouseDelete_GuardedByCargo(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	w, err := f.warehouses.Create(ctx, &model.CreateWarehouseRequest{
		WarehouseName: "W1", WarehouseType: model.WarehouseColdStorage, TotalCapacity: 500,
	})
	require.NoError(t, err)
	_, err = f.cargo.Create(ctx, &model.CreateCargoRequest{
		Description: "Frozen fish", Weight: 80, Destination: "Bergen", WarehouseID: &w.WarehouseID,
	})
	require.NoError(t, err)

	err = f.warehouses.Delete(ctx, w.WarehouseID)
	require.True(t, model.IsReferentialIntegrityError(err))
}

func TestCargoDelete_GuardedByTasks(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	c, err := f.cargo.Create(ctx, &model.CreateCargoRequest{
		Description: "Machinery", Weight: 12, Destination: "Turku",
	})
	require.NoError(t, err)
	_, err = f.tasks.Create(ctx, &model.CreateTaskRequest{
		TaskNumber: "TT-1", CargoID: &c.CargoID, TruckLicense: "B-7741",
		DriverName: "J. Okafor", PickupLocation: "Gate 3", DeliveryLocation: "Terminal 2",
	})
	require.NoError(t, err)

	err = f.cargo.Delete(ctx, c.CargoID)
	require.True(t, model.IsReferentialIntegrityError(err))
}

func TestTaskLifecycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tk, err := f.tasks.Create(ctx, &model.CreateTaskRequest{
		TaskNumber: "TT-2", TruckLicense: "B-7742", DriverName: "A. Lindgren",
		PickupLocation: "Gate 1", DeliveryLocation: "Shed 4",
	})
	require.NoError(t, err)
	require.Equal(t, model.TaskPending, tk.Status)

	tk, err = f.tasks.UpdateStatus(ctx, tk.TaskID, string(model.TaskInTransit))
	require.NoError(t, err)
	require.NotNil(t, tk.ActualPickup)

	tk, err = f.tasks.UpdateStatus(ctx, tk.TaskID, string(model.TaskDelivered))
	require.NoError(t, err)
	require.NotNil(t, tk.ActualDelivery)

	// Replaying the earlier transition against the delivered task fails.
	_, err = f.tasks.UpdateStatus(ctx, tk.TaskID, string(model.TaskInTransit))
	require.True(t, model.IsIllegalTransitionError(err))
}

func TestVoyageStart_SecondUnderwayRejected(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	ship := f.seedShip(t, "IMO9321489")
	v1 := f.seedVoyage(t, "VY-500", ship)
	v2 := f.seedVoyage(t, "VY-501", ship)

	// Planned departures are an hour out; the grace window covers starting now.
	_, err := f.voyages.UpdateStatus(ctx, v1.PlanID, string(model.VoyageInProgress))
	require.NoError(t, err)

	_, err = f.voyages.UpdateStatus(ctx, v2.PlanID, string(model.VoyageInProgress))
	require.True(t, model.IsConflictError(err))
}

func TestCargoCreate_SerializedWithVoyageCancel(t *testing.T) {
	f := newFixtureLockTimeout(50 * time.Millisecond)
	ctx := context.Background()
	ship := f.seedShip(t, "IMO9321490")
	v := f.seedVoyage(t, "VY-600", ship)

	// While the voyage lock is held, boarding cargo on that voyage cannot
	// start; the in-flight holder may be a cancellation.
	held, err := f.locks.Acquire(ctx, engine.VoyageKey(v.PlanID))
	require.NoError(t, err)
	_, err = f.cargo.Create(ctx, &model.CreateCargoRequest{
		Description: "Timber", Weight: 25, Destination: "Riga", VoyagePlanID: &v.PlanID,
	})
	require.True(t, model.IsBusyError(err))
	held()

	// Once released, the cancelled status is seen and the boarding rejected.
	_, err = f.voyages.UpdateStatus(ctx, v.PlanID, string(model.VoyageCancelled))
	require.NoError(t, err)
	_, err = f.cargo.Create(ctx, &model.CreateCargoRequest{
		Description: "Timber", Weight: 25, Destination: "Riga", VoyagePlanID: &v.PlanID,
	})
	require.True(t, model.IsValidationError(err))
}

func TestCargoUpdate_SerializedWithVoyageCancel(t *testing.T) {
	f := newFixtureLockTimeout(50 * time.Millisecond)
	ctx := context.Background()
	ship := f.seedShip(t, "IMO9321491")
	v := f.seedVoyage(t, "VY-601", ship)

	c, err := f.cargo.Create(ctx, &model.CreateCargoRequest{
		Description: "Timber", Weight: 25, Destination: "Riga",
	})
	require.NoError(t, err)

	held, err := f.locks.Acquire(ctx, engine.VoyageKey(v.PlanID))
	require.NoError(t, err)
	_, err = f.cargo.Update(ctx, c.CargoID, &model.UpdateCargoRequest{
		Description: "Timber", Weight: 25, Destination: "Riga", VoyagePlanID: &v.PlanID,
	})
	require.True(t, model.IsBusyError(err))
	held()

	_, err = f.voyages.UpdateStatus(ctx, v.PlanID, string(model.VoyageCancelled))
	require.NoError(t, err)
	_, err = f.cargo.Update(ctx, c.CargoID, &model.UpdateCargoRequest{
		Description: "Timber", Weight: 25, Destination: "Riga", VoyagePlanID: &v.PlanID,
	})
	require.True(t, model.IsValidationError(err))
}

func TestBerthUpdate_KeepsStoredStatus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	ship := f.seedShip(t, "IMO9321492")
	port := f.seedPort(t, "DEHAM")

	arrive := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	depart := time.Date(2025, 6, 2, 2, 0, 0, 0, time.UTC)
	confirmed := model.ScheduleStatus(model.BerthConfirmed)
	b, err := f.berths.Create(ctx, &model.CreateBerthRequest{
		PortID:        port.PortID,
		ShipID:        &ship.ShipID,
		BerthNumber:   "B-20",
		ArrivalTime:   &arrive,
		DepartureTime: &depart,
		Status:        &confirmed,
	})
	require.NoError(t, err)

	_, err = f.berths.UpdateStatus(ctx, b.AssignmentID, model.BerthCancelled)
	require.NoError(t, err)

	// A full replace cannot resurrect the terminal status, even if the
	// request carries one.
	later := arrive.Add(12 * time.Hour)
	got, err := f.berths.Update(ctx, b.AssignmentID, &model.UpdateBerthRequest{
		PortID:      port.PortID,
		ShipID:      &ship.ShipID,
		BerthNumber: "B-20",
		ArrivalTime: &later,
		Status:      &confirmed,
	})
	require.NoError(t, err)
	require.Equal(t, model.BerthCancelled, got.Status.Value)

	// Nor can the state machine.
	_, err = f.berths.UpdateStatus(ctx, b.AssignmentID, model.BerthConfirmed)
	require.True(t, model.IsIllegalTransitionError(err))
}

func TestCargoUpdate_RejectedMoveKeepsOldClaim(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	w1, err := f.warehouses.Create(ctx, &model.CreateWarehouseRequest{
		WarehouseName: "W1", WarehouseType: model.WarehouseGeneral, TotalCapacity: 100,
	})
	require.NoError(t, err)
	w2, err := f.warehouses.Create(ctx, &model.CreateWarehouseRequest{
		WarehouseName: "W2", WarehouseType: model.WarehouseGeneral, TotalCapacity: 30,
	})
	require.NoError(t, err)

	c, err := f.cargo.Create(ctx, &model.CreateCargoRequest{
		Description: "Paper rolls", Weight: 40, Destination: "Oslo", WarehouseID: &w1.WarehouseID,
	})
	require.NoError(t, err)

	// 40 > 30: the move is rejected and the original claim survives intact.
	_, err = f.cargo.Update(ctx, c.CargoID, &model.UpdateCargoRequest{
		Description: "Paper rolls", Weight: 40, Destination: "Oslo", WarehouseID: &w2.WarehouseID,
	})
	require.True(t, model.IsConflictError(err))

	g1, err := f.warehouses.Get(ctx, w1.WarehouseID)
	require.NoError(t, err)
	require.Equal(t, 40.0, g1.UsedCapacity)
	g2, err := f.warehouses.Get(ctx, w2.WarehouseID)
	require.NoError(t, err)
	require.Equal(t, 0.0, g2.UsedCapacity)

	got, err := f.cargo.Get(ctx, c.CargoID)
	require.NoError(t, err)
	require.Equal(t, w1.WarehouseID, *got.WarehouseID)
}

func TestCargoUpdate_GrowInPlace(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	w, err := f.warehouses.Create(ctx, &model.CreateWarehouseRequest{
		WarehouseName: "W1", WarehouseType: model.WarehouseGeneral, TotalCapacity: 100,
	})
	require.NoError(t, err)
	c, err := f.cargo.Create(ctx, &model.CreateCargoRequest{
		Description: "Paper rolls", Weight: 40, Destination: "Oslo", WarehouseID: &w.WarehouseID,
	})
	require.NoError(t, err)

	// Re-weighing in the same warehouse swaps 40 for 90 against the free 60.
	_, err = f.cargo.Update(ctx, c.CargoID, &model.UpdateCargoRequest{
		Description: "Paper rolls", Weight: 90, Destination: "Oslo", WarehouseID: &w.WarehouseID,
	})
	require.NoError(t, err)
	got, err := f.warehouses.Get(ctx, w.WarehouseID)
	require.NoError(t, err)
	require.Equal(t, 90.0, got.UsedCapacity)

	// 110 does not fit even after releasing the 90.
	_, err = f.cargo.Update(ctx, c.CargoID, &model.UpdateCargoRequest{
		Description: "Paper rolls", Weight: 110, Destination: "Oslo", WarehouseID: &w.WarehouseID,
	})
	require.True(t, model.IsConflictError(err))
	got, err = f.warehouses.Get(ctx, w.WarehouseID)
	require.NoError(t, err)
	require.Equal(t, 90.0, got.UsedCapacity)
}

func TestShipCreate_SerializedOnIMO(t *testing.T) {
	f := newFixtureLockTimeout(50 * time.Millisecond)
	ctx := context.Background()

	held, err := f.locks.Acquire(ctx, engine.UniqueKey("ship-imo", "IMO9321493"))
	require.NoError(t, err)
	_, err = f.ships.Create(ctx, &model.CreateShipRequest{
		Name: "MV Aurora", IMO: "IMO9321493", CapacityTEU: 8000, Status: model.ShipAtSea,
	})
	require.True(t, model.IsBusyError(err))
	held()

	_, err = f.ships.Create(ctx, &model.CreateShipRequest{
		Name: "MV Aurora", IMO: "IMO9321493", CapacityTEU: 8000, Status: model.ShipAtSea,
	})
	require.NoError(t, err)
}

func TestBerthList_Upcoming(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	port := f.seedPort(t, "FIHEL")

	later := time.Now().UTC().Add(4 * time.Hour)
	sooner := time.Now().UTC().Add(time.Hour)
	past := time.Now().UTC().Add(-time.Hour)
	for i, arr := range []time.Time{later, sooner, past} {
		_, err := f.berths.Create(ctx, &model.CreateBerthRequest{
			PortID:      port.PortID,
			BerthNumber: string(rune('A' + i)),
			ArrivalTime: &arr,
		})
		require.NoError(t, err)
	}

	got, err := f.berths.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.True(t, got[0].ArrivalTime.Before(*got[1].ArrivalTime))
	require.Equal(t, "Port of FIHEL", got[0].PortName)
}
