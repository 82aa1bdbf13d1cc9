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

// PortService handles harbor reference data.
type PortService struct {
	store store.Store
	locks *engine.LockTable
	cache *refcache.Cache
	log   zerolog.Logger
}

func NewPortService(s store.Store, locks *engine.LockTable, cache *refcache.Cache, log zerolog.Logger) *PortService {
	return &PortService{store: s, locks: locks, cache: cache, log: log}
}

func validatePort(req *model.CreatePortRequest) error {
	if strings.TrimSpace(req.PortCode) == "" {
		return model.NewValidationError("portCode", "port code is required")
	}
	if strings.TrimSpace(req.PortName) == "" {
		return model.NewValidationError("portName", "port name is required")
	}
	if strings.TrimSpace(req.Country) == "" {
		return model.NewValidationError("country", "country is required")
	}
	if strings.TrimSpace(req.City) == "" {
		return model.NewValidationError("city", "city is required")
	}
	if req.TotalBerths < 0 {
		return model.NewValidationError("totalBerths", "berth count must not be negative")
	}
	if req.MaxVesselSize != nil && *req.MaxVesselSize <= 0 {
		return model.NewValidationError("maxVesselSize", "max vessel size must be positive")
	}
	if req.Latitude != nil && (*req.Latitude < -90 || *req.Latitude > 90) {
		return model.NewValidationError("latitude", "latitude must be in [-90, 90]")
	}
	if req.Longitude != nil && (*req.Longitude < -180 || *req.Longitude > 180) {
		return model.NewValidationError("longitude", "longitude must be in [-180, 180]")
	}
	return nil
}

func (s *PortService) codeTaken(ctx context.Context, code, excludeID string) error {
	existing, err := s.store.Ports().GetByCode(ctx, code)
	if model.IsNotFoundError(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.PortID == excludeID {
		return nil
	}
	return model.ConflictError{Resource: "port", Message: "port code already registered", ConflictWith: existing.PortID}
}

func (s *PortService) Create(ctx context.Context, req *model.CreatePortRequest) (*model.Port, error) {
	if err := validatePort(req); err != nil {
		return nil, err
	}
	release, err := s.locks.Acquire(ctx, engine.UniqueKey("port-code", req.PortCode))
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.codeTaken(ctx, req.PortCode, ""); err != nil {
		return nil, err
	}
	created, err := s.store.Ports().Create(ctx, &model.Port{
		PortCode:      req.PortCode,
		PortName:      req.PortName,
		Country:       req.Country,
		City:          req.City,
		TotalBerths:   req.TotalBerths,
		MaxVesselSize: req.MaxVesselSize,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("portId", created.PortID).Str("portCode", created.PortCode).Msg("port created")
	return created, nil
}

func (s *PortService) Get(ctx context.Context, id string) (*model.Port, error) {
	return s.store.Ports().Get(ctx, id)
}

func (s *PortService) List(ctx context.Context) ([]*model.Port, error) {
	return s.store.Ports().List(ctx)
}

func (s *PortService) Update(ctx context.Context, id string, req *model.UpdatePortRequest) (*model.Port, error) {
	if err := validatePort(req); err != nil {
		return nil, err
	}
	release, err := s.locks.Acquire(ctx, engine.PortKey(id), engine.UniqueKey("port-code", req.PortCode))
	if err != nil {
		return nil, err
	}
	defer release()

	port, err := s.store.Ports().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.codeTaken(ctx, req.PortCode, id); err != nil {
		return nil, err
	}
	port.PortCode = req.PortCode
	port.PortName = req.PortName
	port.Country = req.Country
	port.City = req.City
	port.TotalBerths = req.TotalBerths
	port.MaxVesselSize = req.MaxVesselSize
	port.Latitude = req.Latitude
	port.Longitude = req.Longitude

	updated, err := s.store.Ports().Update(ctx, port)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(refcache.PortName(id))
	return updated, nil
}

// Delete rejects removal while berth assignments, voyage plans or warehouses
// still reference the port.
func (s *PortService) Delete(ctx context.Context, id string) error {
	release, err := s.locks.Acquire(ctx, engine.PortKey(id))
	if err != nil {
		return err
	}
	defer release()

	if _, err := s.store.Ports().Get(ctx, id); err != nil {
		return err
	}
	berths, err := s.store.Berths().List(ctx)
	if err != nil {
		return err
	}
	for _, b := range berths {
		if b.PortID == id {
			return model.NewReferentialIntegrityError("port", id, "berth assignments")
		}
	}
	voyages, err := s.store.Voyages().List(ctx)
	if err != nil {
		return err
	}
	for _, v := range voyages {
		if v.DeparturePortID == id || v.ArrivalPortID == id {
			return model.NewReferentialIntegrityError("port", id, "voyage plans")
		}
	}
	warehouses, err := s.store.Warehouses().List(ctx, "")
	if err != nil {
		return err
	}
	for _, w := range warehouses {
		if w.PortID != nil && *w.PortID == id {
			return model.NewReferentialIntegrityError("port", id, "warehouses")
		}
	}
	if err := s.store.Ports().Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(refcache.PortName(id))
	s.log.Info().Str("portId", id).Msg("port deleted")
	return nil
}
