package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/afterglow3292/portops/internal/model"
	"github.com/afterglow3292/portops/internal/store"
)

// Run exercises a minimal compliance suite against a store.Store implementation.
// Implementations should provide a clean, isolated store and return it from makeStore.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	imo := "IMO" + uuid.New().String()[:8]

	// Ships
	ship, err := s.Ships().Create(ctx, &model.Ship{Name: "Evergreen", IMO: imo, CapacityTEU: 12000, Status: model.ShipAtSea})
	if err != nil {
		t.Fatalf("CreateShip: %v", err)
	}
	if ship.ShipID == "" || ship.CreatedAt.IsZero() {
		t.Fatalf("CreateShip: missing id or timestamp: %+v", ship)
	}
	if got, err := s.Ships().Get(ctx, ship.ShipID); err != nil || got.Name != "Evergreen" {
		t.Fatalf("GetShip: got=%v err=%v", got, err)
	}
	if got, err := s.Ships().GetByIMO(ctx, imo); err != nil || got.ShipID != ship.ShipID {
		t.Fatalf("GetShipByIMO: got=%v err=%v", got, err)
	}
	if _, err := s.Ships().Create(ctx, &model.Ship{Name: "Impostor", IMO: imo, CapacityTEU: 100, Status: model.ShipAtSea}); !model.IsConflictError(err) {
		t.Fatalf("CreateShip duplicate IMO: want ConflictError, got %v", err)
	}
	ship.Status = model.ShipArrived
	if got, err := s.Ships().Update(ctx, ship); err != nil || got.Status != model.ShipArrived {
		t.Fatalf("UpdateShip: got=%v err=%v", got, err)
	}
	if lst, err := s.Ships().List(ctx); err != nil || len(lst) == 0 {
		t.Fatalf("ListShips: n=%d err=%v", len(lst), err)
	}

	// Ports
	port, err := s.Ports().Create(ctx, &model.Port{PortCode: "SGSIN", PortName: "Singapore", Country: "SG", City: "Singapore", TotalBerths: 4})
	if err != nil {
		t.Fatalf("CreatePort: %v", err)
	}
	if got, err := s.Ports().GetByCode(ctx, "SGSIN"); err != nil || got.PortID != port.PortID {
		t.Fatalf("GetPortByCode: got=%v err=%v", got, err)
	}
	if _, err := s.Ports().Create(ctx, &model.Port{PortCode: "SGSIN", PortName: "Shadow Port", Country: "SG", City: "Singapore", TotalBerths: 1}); !model.IsConflictError(err) {
		t.Fatalf("CreatePort duplicate code: want ConflictError, got %v", err)
	}

	// Berth assignments
	arrive := time.Now().UTC().Add(time.Hour)
	ba, err := s.Berths().Create(ctx, &model.BerthAssignment{
		PortID:      port.PortID,
		ShipID:      &ship.ShipID,
		BerthNumber: "B1",
		ArrivalTime: &arrive,
		Status:      model.ScheduleStatus(model.BerthConfirmed),
	})
	if err != nil {
		t.Fatalf("CreateBerth: %v", err)
	}
	if got, err := s.Berths().Get(ctx, ba.AssignmentID); err != nil || got.Status.Value != model.BerthConfirmed {
		t.Fatalf("GetBerth: got=%v err=%v", got, err)
	}
	if lst, err := s.Berths().ListByBerth(ctx, port.PortID, "B1"); err != nil || len(lst) != 1 {
		t.Fatalf("ListByBerth: n=%d err=%v", len(lst), err)
	}
	if lst, err := s.Berths().ListByBerth(ctx, port.PortID, "B2"); err != nil || len(lst) != 0 {
		t.Fatalf("ListByBerth other slot: n=%d err=%v", len(lst), err)
	}
	if lst, err := s.Berths().ListByShip(ctx, ship.ShipID); err != nil || len(lst) != 1 {
		t.Fatalf("ListBerthsByShip: n=%d err=%v", len(lst), err)
	}

	// Voyage plans
	dep := time.Now().UTC().Add(24 * time.Hour)
	vn := "VY-" + uuid.New().String()[:8]
	vp, err := s.Voyages().Create(ctx, &model.VoyagePlan{
		VoyageNumber:     vn,
		ShipID:           ship.ShipID,
		DeparturePortID:  port.PortID,
		ArrivalPortID:    port.PortID,
		PlannedDeparture: dep,
		PlannedArrival:   dep.Add(48 * time.Hour),
		Status:           model.VoyageScheduled,
	})
	if err != nil {
		t.Fatalf("CreateVoyage: %v", err)
	}
	if got, err := s.Voyages().GetByNumber(ctx, vn); err != nil || got.PlanID != vp.PlanID {
		t.Fatalf("GetVoyageByNumber: got=%v err=%v", got, err)
	}
	if _, err := s.Voyages().Create(ctx, &model.VoyagePlan{
		VoyageNumber:     vn,
		ShipID:           ship.ShipID,
		DeparturePortID:  port.PortID,
		ArrivalPortID:    port.PortID,
		PlannedDeparture: dep,
		PlannedArrival:   dep.Add(48 * time.Hour),
		Status:           model.VoyageScheduled,
	}); !model.IsConflictError(err) {
		t.Fatalf("CreateVoyage duplicate number: want ConflictError, got %v", err)
	}
	if lst, err := s.Voyages().ListByShip(ctx, ship.ShipID); err != nil || len(lst) != 1 {
		t.Fatalf("ListVoyagesByShip: n=%d err=%v", len(lst), err)
	}

	// Warehouses
	wh, err := s.Warehouses().Create(ctx, &model.Warehouse{
		WarehouseName: "North Quay Shed",
		PortID:        &port.PortID,
		WarehouseType: model.WarehouseGeneral,
		TotalCapacity: 5000,
	})
	if err != nil {
		t.Fatalf("CreateWarehouse: %v", err)
	}
	if lst, err := s.Warehouses().List(ctx, "quay"); err != nil || len(lst) != 1 {
		t.Fatalf("ListWarehouses q=quay: n=%d err=%v", len(lst), err)
	}
	if lst, err := s.Warehouses().List(ctx, "no-such-shed"); err != nil || len(lst) != 0 {
		t.Fatalf("ListWarehouses miss: n=%d err=%v", len(lst), err)
	}

	// Cargo
	cg, err := s.Cargo().Create(ctx, &model.Cargo{
		Description:  "Machine parts",
		Weight:       120,
		Destination:  "Rotterdam",
		VoyagePlanID: &vp.PlanID,
		WarehouseID:  &wh.WarehouseID,
	})
	if err != nil {
		t.Fatalf("CreateCargo: %v", err)
	}
	if lst, err := s.Cargo().List(ctx, "rotter"); err != nil || len(lst) != 1 {
		t.Fatalf("ListCargo q=rotter: n=%d err=%v", len(lst), err)
	}
	if lst, err := s.Cargo().ListByVoyage(ctx, vp.PlanID); err != nil || len(lst) != 1 {
		t.Fatalf("ListCargoByVoyage: n=%d err=%v", len(lst), err)
	}
	if lst, err := s.Cargo().ListByWarehouse(ctx, wh.WarehouseID); err != nil || len(lst) != 1 {
		t.Fatalf("ListCargoByWarehouse: n=%d err=%v", len(lst), err)
	}
	cg.VoyagePlanID = nil
	if got, err := s.Cargo().Update(ctx, cg); err != nil || got.VoyagePlanID != nil {
		t.Fatalf("UpdateCargo unassign: got=%v err=%v", got, err)
	}

	// Transport tasks
	tn := "TT-" + uuid.New().String()[:8]
	tk, err := s.Tasks().Create(ctx, &model.TransportTask{
		TaskNumber:       tn,
		CargoID:          &cg.CargoID,
		TruckLicense:     "B-7741",
		DriverName:       "J. Okafor",
		PickupLocation:   "Gate 3",
		DeliveryLocation: "North Quay Shed",
		Status:           model.TaskPending,
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if got, err := s.Tasks().GetByNumber(ctx, tn); err != nil || got.TaskID != tk.TaskID {
		t.Fatalf("GetTaskByNumber: got=%v err=%v", got, err)
	}
	if _, err := s.Tasks().Create(ctx, &model.TransportTask{
		TaskNumber:       tn,
		TruckLicense:     "B-7742",
		DriverName:       "A. Lindgren",
		PickupLocation:   "Gate 1",
		DeliveryLocation: "Shed 4",
		Status:           model.TaskPending,
	}); !model.IsConflictError(err) {
		t.Fatalf("CreateTask duplicate number: want ConflictError, got %v", err)
	}
	if lst, err := s.Tasks().ListByCargo(ctx, cg.CargoID); err != nil || len(lst) != 1 {
		t.Fatalf("ListTasksByCargo: n=%d err=%v", len(lst), err)
	}

	// Missing rows surface NotFoundError
	if _, err := s.Ships().Get(ctx, uuid.New().String()); !model.IsNotFoundError(err) {
		t.Fatalf("GetShip missing: want NotFoundError, got %v", err)
	}
	if _, err := s.Warehouses().Update(ctx, &model.Warehouse{WarehouseID: uuid.New().String()}); !model.IsNotFoundError(err) {
		t.Fatalf("UpdateWarehouse missing: want NotFoundError, got %v", err)
	}
	if err := s.Tasks().Delete(ctx, uuid.New().String()); !model.IsNotFoundError(err) {
		t.Fatalf("DeleteTask missing: want NotFoundError, got %v", err)
	}

	// Deletes
	if err := s.Tasks().Delete(ctx, tk.TaskID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if err := s.Cargo().Delete(ctx, cg.CargoID); err != nil {
		t.Fatalf("DeleteCargo: %v", err)
	}
	if err := s.Warehouses().Delete(ctx, wh.WarehouseID); err != nil {
		t.Fatalf("DeleteWarehouse: %v", err)
	}
	if err := s.Voyages().Delete(ctx, vp.PlanID); err != nil {
		t.Fatalf("DeleteVoyage: %v", err)
	}
	if err := s.Berths().Delete(ctx, ba.AssignmentID); err != nil {
		t.Fatalf("DeleteBerth: %v", err)
	}
	if err := s.Ports().Delete(ctx, port.PortID); err != nil {
		t.Fatalf("DeletePort: %v", err)
	}
	if err := s.Ships().Delete(ctx, ship.ShipID); err != nil {
		t.Fatalf("DeleteShip: %v", err)
	}
}
