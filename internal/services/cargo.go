package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/afterglow3292/portops/internal/engine"
	"github.com/afterglow3292/portops/internal/metrics"
	"github.com/afterglow3292/portops/internal/model"
	"github.com/afterglow3292/portops/internal/refcache"
	"github.com/afterglow3292/portops/internal/store"
)

// CargoService handles cargo items. Warehouse assignment reserves the cargo
// weight against the warehouse capacity ledger; unassignment and deletion
// release it.
type CargoService struct {
	store  store.Store
	locks  *engine.LockTable
	ledger *engine.Ledger
	cache  *refcache.Cache
	log    zerolog.Logger
}

func NewCargoService(s store.Store, locks *engine.LockTable, ledger *engine.Ledger, cache *refcache.Cache, log zerolog.Logger) *CargoService {
	return &CargoService{store: s, locks: locks, ledger: ledger, cache: cache, log: log}
}

func validateCargo(req *model.CreateCargoRequest) error {
	if strings.TrimSpace(req.Description) == "" {
		return model.NewValidationError("description", "description is required")
	}
	if req.Weight <= 0 {
		return model.NewValidationError("weight", "weight must be positive")
	}
	if strings.TrimSpace(req.Destination) == "" {
		return model.NewValidationError("destination", "destination is required")
	}
	return nil
}

// checkVoyageRef verifies an assigned voyage exists and is not cancelled.
func (s *CargoService) checkVoyageRef(ctx context.Context, planID *string) error {
	if planID == nil {
		return nil
	}
	v, err := s.store.Voyages().Get(ctx, *planID)
	if err != nil {
		return err
	}
	if v.Status == model.VoyageCancelled {
		return model.NewValidationError("voyagePlanId", "cannot assign cargo to a cancelled voyage")
	}
	return nil
}

// reserve claims weight units on the warehouse and persists the new used
// value. Runs under the warehouse lock held by the caller.
func (s *CargoService) reserve(ctx context.Context, warehouseID string, weight float64) error {
	w, err := s.store.Warehouses().Get(ctx, warehouseID)
	if err != nil {
		return err
	}
	used, err := s.ledger.Reserve(w, weight)
	if err != nil {
		if model.IsConflictError(err) {
			metrics.ConflictsTotal.WithLabelValues("warehouse_capacity").Inc()
		}
		return err
	}
	w.UsedCapacity = used
	_, err = s.store.Warehouses().Update(ctx, w)
	return err
}

// release returns weight units to the warehouse. A missing warehouse is
// logged and swallowed: the cargo mutation must still go through.
func (s *CargoService) release(ctx context.Context, warehouseID string, weight float64) {
	w, err := s.store.Warehouses().Get(ctx, warehouseID)
	if err != nil {
		s.log.Warn().Str("warehouseId", warehouseID).Err(err).Msg("capacity release skipped")
		return
	}
	w.UsedCapacity = s.ledger.Release(w, weight)
	if _, err := s.store.Warehouses().Update(ctx, w); err != nil {
		s.log.Error().Stack().Str("warehouseId", warehouseID).Err(err).Msg("capacity release failed")
	}
}

// rebalance moves the cargo's capacity claim from its current warehouse to
// the requested one. Both ledger checks run before either warehouse row is
// written, so a rejected reserve leaves the old claim intact. Runs under the
// locks for both warehouses held by the caller.
func (s *CargoService) rebalance(ctx context.Context, c *model.Cargo, req *model.UpdateCargoRequest) error {
	oldID, newID := c.WarehouseID, req.WarehouseID
	same := oldID != nil && newID != nil && *oldID == *newID

	var oldW, newW *model.Warehouse
	var err error
	if oldID != nil {
		oldW, err = s.store.Warehouses().Get(ctx, *oldID)
		if err != nil {
			if newID != nil && same {
				return err
			}
			s.log.Warn().Str("warehouseId", *oldID).Err(err).Msg("capacity release skipped")
		}
	}
	if oldW != nil {
		oldW.UsedCapacity = s.ledger.Release(oldW, c.Weight)
	}
	if newID != nil {
		if same {
			newW = oldW
		} else {
			newW, err = s.store.Warehouses().Get(ctx, *newID)
			if err != nil {
				return err
			}
		}
		used, err := s.ledger.Reserve(newW, req.Weight)
		if err != nil {
			if model.IsConflictError(err) {
				metrics.ConflictsTotal.WithLabelValues("warehouse_capacity").Inc()
			}
			return err
		}
		newW.UsedCapacity = used
	}

	if oldW != nil {
		if _, err := s.store.Warehouses().Update(ctx, oldW); err != nil {
			return err
		}
	}
	if newW != nil && !same {
		if _, err := s.store.Warehouses().Update(ctx, newW); err != nil {
			return err
		}
	}
	return nil
}

func (s *CargoService) Create(ctx context.Context, req *model.CreateCargoRequest) (*model.Cargo, error) {
	if err := validateCargo(req); err != nil {
		return nil, err
	}
	keys := []string{}
	if req.VoyagePlanID != nil {
		keys = append(keys, engine.VoyageKey(*req.VoyagePlanID))
	}
	if req.WarehouseID != nil {
		keys = append(keys, engine.WarehouseKey(*req.WarehouseID))
	}
	release, err := s.locks.Acquire(ctx, keys...)
	if err != nil {
		return nil, err
	}
	defer release()

	// Checked under the voyage lock so a concurrent cancellation cannot slip
	// in between the check and the commit.
	if err := s.checkVoyageRef(ctx, req.VoyagePlanID); err != nil {
		return nil, err
	}
	if req.WarehouseID != nil {
		if err := s.reserve(ctx, *req.WarehouseID, req.Weight); err != nil {
			return nil, err
		}
	}
	created, err := s.store.Cargo().Create(ctx, &model.Cargo{
		Description:  req.Description,
		Weight:       req.Weight,
		Destination:  req.Destination,
		VoyagePlanID: req.VoyagePlanID,
		WarehouseID:  req.WarehouseID,
	})
	if err != nil {
		if req.WarehouseID != nil {
			s.release(ctx, *req.WarehouseID, req.Weight)
		}
		return nil, err
	}
	s.log.Info().Str("cargoId", created.CargoID).Float64("weight", created.Weight).Msg("cargo created")
	return s.withShipName(ctx, created), nil
}

// withShipName joins the carrying ship's name through the assigned voyage.
// Lookup failures degrade to a blank name.
func (s *CargoService) withShipName(ctx context.Context, c *model.Cargo) *model.Cargo {
	if c.VoyagePlanID == nil {
		return c
	}
	name, err := s.cache.Get(ctx, refcache.VoyageShip(*c.VoyagePlanID), func(ctx context.Context) (string, error) {
		v, err := s.store.Voyages().Get(ctx, *c.VoyagePlanID)
		if err != nil {
			return "", err
		}
		sh, err := s.store.Ships().Get(ctx, v.ShipID)
		if err != nil {
			return "", err
		}
		return sh.Name, nil
	})
	if err == nil {
		c.ShipName = name
	}
	return c
}

func (s *CargoService) Get(ctx context.Context, id string) (*model.Cargo, error) {
	c, err := s.store.Cargo().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withShipName(ctx, c), nil
}

// List returns cargo, filtered by a case-insensitive keyword over
// description and destination when q is non-empty.
func (s *CargoService) List(ctx context.Context, q string) ([]*model.Cargo, error) {
	items, err := s.store.Cargo().List(ctx, q)
	if err != nil {
		return nil, err
	}
	for _, c := range items {
		s.withShipName(ctx, c)
	}
	return items, nil
}

func (s *CargoService) Update(ctx context.Context, id string, req *model.UpdateCargoRequest) (*model.Cargo, error) {
	if err := validateCargo(req); err != nil {
		return nil, err
	}
	pre, err := s.store.Cargo().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	keys := []string{engine.CargoKey(id)}
	if req.VoyagePlanID != nil {
		keys = append(keys, engine.VoyageKey(*req.VoyagePlanID))
	}
	if pre.WarehouseID != nil {
		keys = append(keys, engine.WarehouseKey(*pre.WarehouseID))
	}
	if req.WarehouseID != nil {
		keys = append(keys, engine.WarehouseKey(*req.WarehouseID))
	}
	release, err := s.locks.Acquire(ctx, keys...)
	if err != nil {
		return nil, err
	}
	defer release()

	// Checked under the voyage lock so a concurrent cancellation cannot slip
	// in between the check and the commit.
	if err := s.checkVoyageRef(ctx, req.VoyagePlanID); err != nil {
		return nil, err
	}
	c, err := s.store.Cargo().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.rebalance(ctx, c, req); err != nil {
		return nil, err
	}
	c.Description = req.Description
	c.Weight = req.Weight
	c.Destination = req.Destination
	c.VoyagePlanID = req.VoyagePlanID
	c.WarehouseID = req.WarehouseID

	updated, err := s.store.Cargo().Update(ctx, c)
	if err != nil {
		return nil, err
	}
	return s.withShipName(ctx, updated), nil
}

// Delete rejects removal while transport tasks still reference the cargo,
// and releases any warehouse capacity the item held.
func (s *CargoService) Delete(ctx context.Context, id string) error {
	pre, err := s.store.Cargo().Get(ctx, id)
	if err != nil {
		return err
	}
	keys := []string{engine.CargoKey(id)}
	if pre.WarehouseID != nil {
		keys = append(keys, engine.WarehouseKey(*pre.WarehouseID))
	}
	release, err := s.locks.Acquire(ctx, keys...)
	if err != nil {
		return err
	}
	defer release()

	c, err := s.store.Cargo().Get(ctx, id)
	if err != nil {
		return err
	}
	tasks, err := s.store.Tasks().ListByCargo(ctx, id)
	if err != nil {
		return err
	}
	if len(tasks) > 0 {
		return model.NewReferentialIntegrityError("cargo", id, "transport tasks")
	}
	if err := s.store.Cargo().Delete(ctx, id); err != nil {
		return err
	}
	if c.WarehouseID != nil {
		s.release(ctx, *c.WarehouseID, c.Weight)
	}
	s.log.Info().Str("cargoId", id).Msg("cargo deleted")
	return nil
}
