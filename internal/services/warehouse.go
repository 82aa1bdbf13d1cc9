package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/afterglow3292/portops/internal/engine"
	"github.com/afterglow3292/portops/internal/model"
	"github.com/afterglow3292/portops/internal/refcache"
	"github.com/afterglow3292/portops/internal/store"
)

// WarehouseService handles storage facilities and their capacity bounds.
type WarehouseService struct {
	store store.Store
	locks *engine.LockTable
	cache *refcache.Cache
	log   zerolog.Logger
}

func NewWarehouseService(s store.Store, locks *engine.LockTable, cache *refcache.Cache, log zerolog.Logger) *WarehouseService {
	return &WarehouseService{store: s, locks: locks, cache: cache, log: log}
}

func (s *WarehouseService) validate(ctx context.Context, req *model.CreateWarehouseRequest) (float64, error) {
	if strings.TrimSpace(req.WarehouseName) == "" {
		return 0, model.NewValidationError("warehouseName", "name is required")
	}
	if !req.WarehouseType.Valid() {
		return 0, model.NewValidationError("warehouseType", "unknown warehouse type")
	}
	if req.TotalCapacity <= 0 {
		return 0, model.NewValidationError("totalCapacity", "total capacity must be positive")
	}
	used := 0.0
	if req.UsedCapacity != nil {
		used = *req.UsedCapacity
	}
	if used < 0 {
		return 0, model.NewValidationError("usedCapacity", "used capacity must not be negative")
	}
	if !engine.WithinCapacity(used, req.TotalCapacity) {
		return 0, model.NewValidationError("usedCapacity", "used capacity exceeds total capacity")
	}
	if req.PortID != nil {
		if _, err := s.store.Ports().Get(ctx, *req.PortID); err != nil {
			return 0, err
		}
	}
	return used, nil
}

func (s *WarehouseService) Create(ctx context.Context, req *model.CreateWarehouseRequest) (*model.Warehouse, error) {
	used, err := s.validate(ctx, req)
	if err != nil {
		return nil, err
	}
	created, err := s.store.Warehouses().Create(ctx, &model.Warehouse{
		WarehouseName: req.WarehouseName,
		PortID:        req.PortID,
		WarehouseType: req.WarehouseType,
		TotalCapacity: req.TotalCapacity,
		UsedCapacity:  used,
		Location:      req.Location,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Str("warehouseId", created.WarehouseID).
		Str("type", string(created.WarehouseType)).
		Msg("warehouse created")
	return created, nil
}

func (s *WarehouseService) Get(ctx context.Context, id string) (*model.Warehouse, error) {
	return s.store.Warehouses().Get(ctx, id)
}

// List filters by a case-insensitive keyword over name, type and location
// when q is non-empty.
func (s *WarehouseService) List(ctx context.Context, q string) ([]*model.Warehouse, error) {
	return s.store.Warehouses().List(ctx, q)
}

func (s *WarehouseService) Update(ctx context.Context, id string, req *model.UpdateWarehouseRequest) (*model.Warehouse, error) {
	release, err := s.locks.Acquire(ctx, engine.WarehouseKey(id))
	if err != nil {
		return nil, err
	}
	defer release()

	w, err := s.store.Warehouses().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	// Used capacity stays ledger-owned unless the operator overrides it.
	if req.UsedCapacity == nil {
		u := w.UsedCapacity
		req.UsedCapacity = &u
	}
	used, err := s.validate(ctx, req)
	if err != nil {
		return nil, err
	}
	w.WarehouseName = req.WarehouseName
	w.PortID = req.PortID
	w.WarehouseType = req.WarehouseType
	w.TotalCapacity = req.TotalCapacity
	w.UsedCapacity = used
	w.Location = req.Location

	updated, err := s.store.Warehouses().Update(ctx, w)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(refcache.WarehouseName(id))
	return updated, nil
}

// Delete rejects removal while cargo is stored in the warehouse or capacity
// is still reserved.
func (s *WarehouseService) Delete(ctx context.Context, id string) error {
	release, err := s.locks.Acquire(ctx, engine.WarehouseKey(id))
	if err != nil {
		return err
	}
	defer release()

	w, err := s.store.Warehouses().Get(ctx, id)
	if err != nil {
		return err
	}
	cargo, err := s.store.Cargo().ListByWarehouse(ctx, id)
	if err != nil {
		return err
	}
	if len(cargo) > 0 {
		return model.NewReferentialIntegrityError("warehouse", id, "cargo")
	}
	if !engine.WithinCapacity(w.UsedCapacity, 0) {
		return model.NewReferentialIntegrityError("warehouse", id, "reserved capacity")
	}
	if err := s.store.Warehouses().Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(refcache.WarehouseName(id))
	s.log.Info().Str("warehouseId", id).Msg("warehouse deleted")
	return nil
}
