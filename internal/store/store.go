package store

import (
	"context"

	"github.com/afterglow3292/portops/internal/model"
)

// Store exposes the persistence operations the façade services need.
// Implementations live under internal/store/<driver>/ (memstore, sqlite,
// postgres). Adapters return model.NotFoundError for missing rows and raw
// driver errors otherwise; rule checks live above this layer.
type Store interface {
	Ships() Ships
	Ports() Ports
	Berths() Berths
	Voyages() Voyages
	Cargo() CargoStore
	Warehouses() Warehouses
	Tasks() Tasks
}

type Ships interface {
	Create(ctx context.Context, s *model.Ship) (*model.Ship, error)
	Get(ctx context.Context, shipID string) (*model.Ship, error)
	GetByIMO(ctx context.Context, imo string) (*model.Ship, error)
	List(ctx context.Context) ([]*model.Ship, error)
	Update(ctx context.Context, s *model.Ship) (*model.Ship, error)
	Delete(ctx context.Context, shipID string) error
}

type Ports interface {
	Create(ctx context.Context, p *model.Port) (*model.Port, error)
	Get(ctx context.Context, portID string) (*model.Port, error)
	GetByCode(ctx context.Context, code string) (*model.Port, error)
	List(ctx context.Context) ([]*model.Port, error)
	Update(ctx context.Context, p *model.Port) (*model.Port, error)
	Delete(ctx context.Context, portID string) error
}

type Berths interface {
	Create(ctx context.Context, b *model.BerthAssignment) (*model.BerthAssignment, error)
	Get(ctx context.Context, assignmentID string) (*model.BerthAssignment, error)
	List(ctx context.Context) ([]*model.BerthAssignment, error)
	// ListByBerth returns all assignments for one physical berth, any status.
	ListByBerth(ctx context.Context, portID, berthNumber string) ([]*model.BerthAssignment, error)
	ListByShip(ctx context.Context, shipID string) ([]*model.BerthAssignment, error)
	Update(ctx context.Context, b *model.BerthAssignment) (*model.BerthAssignment, error)
	Delete(ctx context.Context, assignmentID string) error
}

type Voyages interface {
	Create(ctx context.Context, v *model.VoyagePlan) (*model.VoyagePlan, error)
	Get(ctx context.Context, planID string) (*model.VoyagePlan, error)
	GetByNumber(ctx context.Context, voyageNumber string) (*model.VoyagePlan, error)
	List(ctx context.Context) ([]*model.VoyagePlan, error)
	ListByShip(ctx context.Context, shipID string) ([]*model.VoyagePlan, error)
	Update(ctx context.Context, v *model.VoyagePlan) (*model.VoyagePlan, error)
	Delete(ctx context.Context, planID string) error
}

type CargoStore interface {
	Create(ctx context.Context, c *model.Cargo) (*model.Cargo, error)
	Get(ctx context.Context, cargoID string) (*model.Cargo, error)
	// List filters by a case-insensitive keyword over description and
	// destination when q is non-empty.
	List(ctx context.Context, q string) ([]*model.Cargo, error)
	ListByVoyage(ctx context.Context, planID string) ([]*model.Cargo, error)
	ListByWarehouse(ctx context.Context, warehouseID string) ([]*model.Cargo, error)
	Update(ctx context.Context, c *model.Cargo) (*model.Cargo, error)
	Delete(ctx context.Context, cargoID string) error
}

type Warehouses interface {
	Create(ctx context.Context, w *model.Warehouse) (*model.Warehouse, error)
	Get(ctx context.Context, warehouseID string) (*model.Warehouse, error)
	List(ctx context.Context, q string) ([]*model.Warehouse, error)
	Update(ctx context.Context, w *model.Warehouse) (*model.Warehouse, error)
	Delete(ctx context.Context, warehouseID string) error
}

type Tasks interface {
	Create(ctx context.Context, t *model.TransportTask) (*model.TransportTask, error)
	Get(ctx context.Context, taskID string) (*model.TransportTask, error)
	GetByNumber(ctx context.Context, taskNumber string) (*model.TransportTask, error)
	List(ctx context.Context) ([]*model.TransportTask, error)
	ListByCargo(ctx context.Context, cargoID string) ([]*model.TransportTask, error)
	Update(ctx context.Context, t *model.TransportTask) (*model.TransportTask, error)
	Delete(ctx context.Context, taskID string) error
}
