package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/afterglow3292/portops/internal/engine"
	"github.com/afterglow3292/portops/internal/metrics"
	"github.com/afterglow3292/portops/internal/model"
	"github.com/afterglow3292/portops/internal/refcache"
	"github.com/afterglow3292/portops/internal/store"
)

// upcomingLimit caps the ?upcoming=true listing.
const upcomingLimit = 20

// BerthService handles berth assignments: the slot bookings whose time
// windows must never overlap on the same physical berth.
type BerthService struct {
	store store.Store
	locks *engine.LockTable
	cache *refcache.Cache
	log   zerolog.Logger
}

func NewBerthService(s store.Store, locks *engine.LockTable, cache *refcache.Cache, log zerolog.Logger) *BerthService {
	return &BerthService{store: s, locks: locks, cache: cache, log: log}
}

// resolveStatus picks the tagged-union status from the request, falling back
// to the legacy flat string, then to a fresh PLANNED scheduling entry.
func resolveStatus(req *model.CreateBerthRequest) (model.BerthStatus, error) {
	if req.Status != nil {
		if !req.Status.Valid() {
			return model.BerthStatus{}, model.NewValidationError("status", "unknown status kind/value combination")
		}
		return *req.Status, nil
	}
	if req.LegacyStatus != "" {
		st, err := model.ParseBerthStatus(req.LegacyStatus)
		if err != nil {
			return model.BerthStatus{}, model.NewValidationError("legacyStatus", err.Error())
		}
		return st, nil
	}
	return model.ScheduleStatus(model.BerthPlanned), nil
}

func (s *BerthService) validate(ctx context.Context, req *model.CreateBerthRequest, status model.BerthStatus) error {
	if strings.TrimSpace(req.PortID) == "" {
		return model.NewValidationError("portId", "port reference is required")
	}
	if strings.TrimSpace(req.BerthNumber) == "" {
		return model.NewValidationError("berthNumber", "berth number is required")
	}
	if _, err := s.store.Ports().Get(ctx, req.PortID); err != nil {
		return err
	}
	if req.ShipID != nil {
		if _, err := s.store.Ships().Get(ctx, *req.ShipID); err != nil {
			return err
		}
	}
	if status.RequiresShip() && (req.ShipID == nil || req.ArrivalTime == nil) {
		return model.NewValidationError("shipId", "occupying a berth requires a ship and an arrival time")
	}
	if req.ArrivalTime != nil && req.DepartureTime != nil && !req.DepartureTime.After(*req.ArrivalTime) {
		return model.NewValidationError("departureTime", "departure must be after arrival")
	}
	return nil
}

// checkWindow runs the temporal conflict check for the slot, skipping it for
// cancelled entries and entries without a window.
func (s *BerthService) checkWindow(ctx context.Context, portID, berthNumber, excludeID string, arrival, departure *time.Time, status model.BerthStatus) error {
	if status.IsCancelled() || arrival == nil {
		return nil
	}
	existing, err := s.store.Berths().ListByBerth(ctx, portID, berthNumber)
	if err != nil {
		return err
	}
	if err := engine.CheckBerthWindow(existing, excludeID, *arrival, departure); err != nil {
		metrics.ConflictsTotal.WithLabelValues("berth_window").Inc()
		return err
	}
	return nil
}

func (s *BerthService) Create(ctx context.Context, req *model.CreateBerthRequest) (*model.BerthAssignment, error) {
	status, err := resolveStatus(req)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, req, status); err != nil {
		return nil, err
	}
	release, err := s.locks.Acquire(ctx, engine.BerthKey(req.PortID, req.BerthNumber))
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.checkWindow(ctx, req.PortID, req.BerthNumber, "", req.ArrivalTime, req.DepartureTime, status); err != nil {
		return nil, err
	}
	created, err := s.store.Berths().Create(ctx, &model.BerthAssignment{
		PortID:        req.PortID,
		ShipID:        req.ShipID,
		BerthNumber:   req.BerthNumber,
		ArrivalTime:   req.ArrivalTime,
		DepartureTime: req.DepartureTime,
		Status:        status,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Str("assignmentId", created.AssignmentID).
		Str("portId", created.PortID).
		Str("berthNumber", created.BerthNumber).
		Msg("berth assignment created")
	return s.withNames(ctx, created), nil
}

// withNames joins the display-only port and vessel names through the cache.
// Join failures degrade to blank names; lists must not fail because one
// lookup did.
func (s *BerthService) withNames(ctx context.Context, b *model.BerthAssignment) *model.BerthAssignment {
	name, err := s.cache.Get(ctx, refcache.PortName(b.PortID), func(ctx context.Context) (string, error) {
		p, err := s.store.Ports().Get(ctx, b.PortID)
		if err != nil {
			return "", err
		}
		return p.PortName, nil
	})
	if err == nil {
		b.PortName = name
	}
	if b.ShipID != nil {
		name, err := s.cache.Get(ctx, refcache.ShipName(*b.ShipID), func(ctx context.Context) (string, error) {
			sh, err := s.store.Ships().Get(ctx, *b.ShipID)
			if err != nil {
				return "", err
			}
			return sh.Name, nil
		})
		if err == nil {
			b.VesselName = name
		}
	}
	return b
}

func (s *BerthService) Get(ctx context.Context, id string) (*model.BerthAssignment, error) {
	b, err := s.store.Berths().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withNames(ctx, b), nil
}

// List returns all assignments, or with upcoming=true only non-cancelled
// entries arriving after now, soonest first, capped at upcomingLimit.
func (s *BerthService) List(ctx context.Context, upcoming bool) ([]*model.BerthAssignment, error) {
	all, err := s.store.Berths().List(ctx)
	if err != nil {
		return nil, err
	}
	if upcoming {
		now := time.Now().UTC()
		next := make([]*model.BerthAssignment, 0, len(all))
		for _, b := range all {
			if b.Status.IsCancelled() || b.ArrivalTime == nil || !b.ArrivalTime.After(now) {
				continue
			}
			next = append(next, b)
		}
		sort.Slice(next, func(i, j int) bool { return next[i].ArrivalTime.Before(*next[j].ArrivalTime) })
		if len(next) > upcomingLimit {
			next = next[:upcomingLimit]
		}
		all = next
	}
	for _, b := range all {
		s.withNames(ctx, b)
	}
	return all, nil
}

// Update replaces the slot and window fields of an assignment. The status is
// kept as stored; lifecycle changes go through UpdateStatus so that every
// transition passes the state machine.
func (s *BerthService) Update(ctx context.Context, id string, req *model.UpdateBerthRequest) (*model.BerthAssignment, error) {
	release, err := s.locks.Acquire(ctx, engine.BerthKey(req.PortID, req.BerthNumber))
	if err != nil {
		return nil, err
	}
	defer release()

	b, err := s.store.Berths().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, req, b.Status); err != nil {
		return nil, err
	}
	if err := s.checkWindow(ctx, req.PortID, req.BerthNumber, id, req.ArrivalTime, req.DepartureTime, b.Status); err != nil {
		return nil, err
	}
	b.PortID = req.PortID
	b.ShipID = req.ShipID
	b.BerthNumber = req.BerthNumber
	b.ArrivalTime = req.ArrivalTime
	b.DepartureTime = req.DepartureTime

	updated, err := s.store.Berths().Update(ctx, b)
	if err != nil {
		return nil, err
	}
	return s.withNames(ctx, updated), nil
}

// UpdateStatus drives the berth state machine from a flat status string.
func (s *BerthService) UpdateStatus(ctx context.Context, id, target string) (*model.BerthAssignment, error) {
	to, err := model.ParseBerthStatus(target)
	if err != nil {
		return nil, model.NewValidationError("status", err.Error())
	}
	cur, err := s.store.Berths().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	release, err := s.locks.Acquire(ctx, engine.BerthKey(cur.PortID, cur.BerthNumber))
	if err != nil {
		return nil, err
	}
	defer release()

	// Reload under the lock; the slot may have moved.
	b, err := s.store.Berths().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := engine.BerthTransition(b, to, time.Now().UTC()); err != nil {
		s.log.Warn().Str("assignmentId", id).Err(err).Msg("berth transition rejected")
		return nil, err
	}
	updated, err := s.store.Berths().Update(ctx, b)
	if err != nil {
		return nil, err
	}
	return s.withNames(ctx, updated), nil
}

// Delete rejects removal while a voyage plan still points at the assignment.
func (s *BerthService) Delete(ctx context.Context, id string) error {
	b, err := s.store.Berths().Get(ctx, id)
	if err != nil {
		return err
	}
	release, err := s.locks.Acquire(ctx, engine.BerthKey(b.PortID, b.BerthNumber))
	if err != nil {
		return err
	}
	defer release()

	voyages, err := s.store.Voyages().List(ctx)
	if err != nil {
		return err
	}
	for _, v := range voyages {
		if v.AssignedBerthID != nil && *v.AssignedBerthID == id {
			return model.NewReferentialIntegrityError("berth assignment", id, "voyage plans")
		}
	}
	return s.store.Berths().Delete(ctx, id)
}
