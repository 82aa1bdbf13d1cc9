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

// ShipService handles vessel registry operations.
type ShipService struct {
	store store.Store
	locks *engine.LockTable
	cache *refcache.Cache
	log   zerolog.Logger
}

func NewShipService(s store.Store, locks *engine.LockTable, cache *refcache.Cache, log zerolog.Logger) *ShipService {
	return &ShipService{store: s, locks: locks, cache: cache, log: log}
}

func validateShip(name, imo string, capacityTEU int, status model.ShipStatus) error {
	if strings.TrimSpace(name) == "" {
		return model.NewValidationError("name", "name is required")
	}
	if strings.TrimSpace(imo) == "" {
		return model.NewValidationError("imo", "imo number is required")
	}
	if capacityTEU < 0 {
		return model.NewValidationError("capacityTeu", "capacity must not be negative")
	}
	if !status.Valid() {
		return model.NewValidationError("status", "unknown ship status")
	}
	return nil
}

// imoTaken reports a conflict when another ship already carries the IMO.
func (s *ShipService) imoTaken(ctx context.Context, imo, excludeID string) error {
	existing, err := s.store.Ships().GetByIMO(ctx, imo)
	if model.IsNotFoundError(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ShipID == excludeID {
		return nil
	}
	return model.ConflictError{Resource: "ship", Message: "imo number already registered", ConflictWith: existing.ShipID}
}

func (s *ShipService) Create(ctx context.Context, req *model.CreateShipRequest) (*model.Ship, error) {
	if err := validateShip(req.Name, req.IMO, req.CapacityTEU, req.Status); err != nil {
		return nil, err
	}
	release, err := s.locks.Acquire(ctx, engine.UniqueKey("ship-imo", req.IMO))
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.imoTaken(ctx, req.IMO, ""); err != nil {
		return nil, err
	}
	created, err := s.store.Ships().Create(ctx, &model.Ship{
		Name:        req.Name,
		IMO:         req.IMO,
		CapacityTEU: req.CapacityTEU,
		Status:      req.Status,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("shipId", created.ShipID).Str("imo", created.IMO).Msg("ship created")
	return created, nil
}

func (s *ShipService) Get(ctx context.Context, id string) (*model.Ship, error) {
	return s.store.Ships().Get(ctx, id)
}

func (s *ShipService) List(ctx context.Context) ([]*model.Ship, error) {
	return s.store.Ships().List(ctx)
}

func (s *ShipService) Update(ctx context.Context, id string, req *model.UpdateShipRequest) (*model.Ship, error) {
	if err := validateShip(req.Name, req.IMO, req.CapacityTEU, req.Status); err != nil {
		return nil, err
	}
	release, err := s.locks.Acquire(ctx, engine.ShipKey(id), engine.UniqueKey("ship-imo", req.IMO))
	if err != nil {
		return nil, err
	}
	defer release()

	ship, err := s.store.Ships().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.imoTaken(ctx, req.IMO, id); err != nil {
		return nil, err
	}
	ship.Name = req.Name
	ship.IMO = req.IMO
	ship.CapacityTEU = req.CapacityTEU
	ship.Status = req.Status

	updated, err := s.store.Ships().Update(ctx, ship)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(refcache.ShipName(id))
	return updated, nil
}

// Delete rejects removal while berth assignments or voyage plans still
// reference the ship.
func (s *ShipService) Delete(ctx context.Context, id string) error {
	release, err := s.locks.Acquire(ctx, engine.ShipKey(id))
	if err != nil {
		return err
	}
	defer release()

	if _, err := s.store.Ships().Get(ctx, id); err != nil {
		return err
	}
	berths, err := s.store.Berths().ListByShip(ctx, id)
	if err != nil {
		return err
	}
	if len(berths) > 0 {
		return model.NewReferentialIntegrityError("ship", id, "berth assignments")
	}
	voyages, err := s.store.Voyages().ListByShip(ctx, id)
	if err != nil {
		return err
	}
	if len(voyages) > 0 {
		return model.NewReferentialIntegrityError("ship", id, "voyage plans")
	}
	if err := s.store.Ships().Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(refcache.ShipName(id))
	s.log.Info().Str("shipId", id).Msg("ship deleted")
	return nil
}
