package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/afterglow3292/portops/internal/engine"
	"github.com/afterglow3292/portops/internal/metrics"
	"github.com/afterglow3292/portops/internal/model"
	"github.com/afterglow3292/portops/internal/store"
)

// VoyageService handles voyage plans, including the cancel cascade that
// releases cargo back to the unassigned pool.
type VoyageService struct {
	store store.Store
	locks *engine.LockTable
	log   zerolog.Logger
}

func NewVoyageService(s store.Store, locks *engine.LockTable, log zerolog.Logger) *VoyageService {
	return &VoyageService{store: s, locks: locks, log: log}
}

func (s *VoyageService) validate(ctx context.Context, req *model.CreateVoyageRequest) error {
	if strings.TrimSpace(req.VoyageNumber) == "" {
		return model.NewValidationError("voyageNumber", "voyage number is required")
	}
	if strings.TrimSpace(req.ShipID) == "" {
		return model.NewValidationError("shipId", "ship reference is required")
	}
	if req.DeparturePortID == "" || req.ArrivalPortID == "" {
		return model.NewValidationError("departurePortId", "both port references are required")
	}
	if req.DeparturePortID == req.ArrivalPortID {
		return model.NewValidationError("arrivalPortId", "departure and arrival ports must differ")
	}
	if !req.PlannedArrival.After(req.PlannedDeparture) {
		return model.NewValidationError("plannedArrival", "planned arrival must be after planned departure")
	}
	if _, err := s.store.Ships().Get(ctx, req.ShipID); err != nil {
		return err
	}
	if _, err := s.store.Ports().Get(ctx, req.DeparturePortID); err != nil {
		return err
	}
	if _, err := s.store.Ports().Get(ctx, req.ArrivalPortID); err != nil {
		return err
	}
	if req.AssignedBerthID != nil {
		if _, err := s.store.Berths().Get(ctx, *req.AssignedBerthID); err != nil {
			return err
		}
	}
	return nil
}

func (s *VoyageService) numberTaken(ctx context.Context, number, excludeID string) error {
	existing, err := s.store.Voyages().GetByNumber(ctx, number)
	if model.IsNotFoundError(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.PlanID == excludeID {
		return nil
	}
	return model.ConflictError{Resource: "voyage", Message: "voyage number already registered", ConflictWith: existing.PlanID}
}

func (s *VoyageService) Create(ctx context.Context, req *model.CreateVoyageRequest) (*model.VoyagePlan, error) {
	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}
	release, err := s.locks.Acquire(ctx, engine.UniqueKey("voyage-number", req.VoyageNumber))
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.numberTaken(ctx, req.VoyageNumber, ""); err != nil {
		return nil, err
	}
	created, err := s.store.Voyages().Create(ctx, &model.VoyagePlan{
		VoyageNumber:     req.VoyageNumber,
		ShipID:           req.ShipID,
		DeparturePortID:  req.DeparturePortID,
		ArrivalPortID:    req.ArrivalPortID,
		AssignedBerthID:  req.AssignedBerthID,
		PlannedDeparture: req.PlannedDeparture,
		PlannedArrival:   req.PlannedArrival,
		ActualDeparture:  req.ActualDeparture,
		ActualArrival:    req.ActualArrival,
		Status:           model.VoyageScheduled,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Str("planId", created.PlanID).
		Str("voyageNumber", created.VoyageNumber).
		Msg("voyage plan created")
	return created, nil
}

func (s *VoyageService) Get(ctx context.Context, id string) (*model.VoyagePlan, error) {
	return s.store.Voyages().Get(ctx, id)
}

func (s *VoyageService) List(ctx context.Context) ([]*model.VoyagePlan, error) {
	return s.store.Voyages().List(ctx)
}

func (s *VoyageService) Update(ctx context.Context, id string, req *model.UpdateVoyageRequest) (*model.VoyagePlan, error) {
	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}
	release, err := s.locks.Acquire(ctx, engine.VoyageKey(id), engine.UniqueKey("voyage-number", req.VoyageNumber))
	if err != nil {
		return nil, err
	}
	defer release()

	v, err := s.store.Voyages().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.numberTaken(ctx, req.VoyageNumber, id); err != nil {
		return nil, err
	}
	// Status only moves through transitions, never through edits.
	v.VoyageNumber = req.VoyageNumber
	v.ShipID = req.ShipID
	v.DeparturePortID = req.DeparturePortID
	v.ArrivalPortID = req.ArrivalPortID
	v.AssignedBerthID = req.AssignedBerthID
	v.PlannedDeparture = req.PlannedDeparture
	v.PlannedArrival = req.PlannedArrival
	v.ActualDeparture = req.ActualDeparture
	v.ActualArrival = req.ActualArrival

	return s.store.Voyages().Update(ctx, v)
}

// UpdateStatus drives the voyage state machine. Cancelling unassigns every
// cargo item on the voyage inside the same locked operation; the cargo
// records themselves survive.
func (s *VoyageService) UpdateStatus(ctx context.Context, id, target string) (*model.VoyagePlan, error) {
	to := model.VoyageStatus(target)
	switch to {
	case model.VoyageScheduled, model.VoyageInProgress, model.VoyageCompleted, model.VoyageCancelled:
	default:
		return nil, model.NewValidationError("status", "unknown voyage status")
	}

	// Collect lock keys before acquiring: the voyage, its ship (for the
	// one-voyage-underway rule) and any cargo the cancel cascade may touch.
	pre, err := s.store.Voyages().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	keys := []string{engine.VoyageKey(id), engine.ShipKey(pre.ShipID)}
	if to == model.VoyageCancelled {
		cargo, err := s.store.Cargo().ListByVoyage(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, c := range cargo {
			keys = append(keys, engine.CargoKey(c.CargoID))
		}
	}
	release, err := s.locks.Acquire(ctx, keys...)
	if err != nil {
		return nil, err
	}
	defer release()

	v, err := s.store.Voyages().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	shipVoyages, err := s.store.Voyages().ListByShip(ctx, v.ShipID)
	if err != nil {
		return nil, err
	}
	if err := engine.VoyageTransition(v, to, shipVoyages, time.Now().UTC()); err != nil {
		if model.IsConflictError(err) {
			metrics.ConflictsTotal.WithLabelValues("voyage_underway").Inc()
		}
		s.log.Warn().Str("planId", id).Str("target", target).Err(err).Msg("voyage transition rejected")
		return nil, err
	}
	updated, err := s.store.Voyages().Update(ctx, v)
	if err != nil {
		return nil, err
	}

	if to == model.VoyageCancelled {
		cargo, err := s.store.Cargo().ListByVoyage(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, c := range cargo {
			c.VoyagePlanID = nil
			if _, err := s.store.Cargo().Update(ctx, c); err != nil {
				return nil, err
			}
		}
		s.log.Info().
			Str("planId", id).
			Int("unassignedCargo", len(cargo)).
			Msg("voyage cancelled")
	}
	return updated, nil
}

// Delete rejects removal while cargo is still assigned to the voyage.
func (s *VoyageService) Delete(ctx context.Context, id string) error {
	release, err := s.locks.Acquire(ctx, engine.VoyageKey(id))
	if err != nil {
		return err
	}
	defer release()

	if _, err := s.store.Voyages().Get(ctx, id); err != nil {
		return err
	}
	cargo, err := s.store.Cargo().ListByVoyage(ctx, id)
	if err != nil {
		return err
	}
	if len(cargo) > 0 {
		return model.NewReferentialIntegrityError("voyage plan", id, "cargo")
	}
	return s.store.Voyages().Delete(ctx, id)
}
