package services

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/afterglow3292/portops/internal/model"
	"github.com/afterglow3292/portops/internal/store"
)

// monthlyWindow bounds the throughput series to the trailing year.
const monthlyWindow = 12

// StatsService computes read-only derived views. It never acquires entity
// locks: a result stale by one in-flight mutation is acceptable for
// dashboards.
type StatsService struct {
	store store.Store
	log   zerolog.Logger
}

func NewStatsService(s store.Store, log zerolog.Logger) *StatsService {
	return &StatsService{store: s, log: log}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

// rate renders used/total as a percentage with one decimal. A zero total
// yields 0 so empty facilities don't break dashboards.
func rate(used, total float64) float64 {
	if total == 0 {
		return 0
	}
	return round1(used / total * 100)
}

// PortOccupancy reports how many of a port's berths hold a live occupation
// (physically occupied or confirmed), counted once per berth number.
func (s *StatsService) PortOccupancy(ctx context.Context, portID string) (*model.OccupancyReport, error) {
	port, err := s.store.Ports().Get(ctx, portID)
	if err != nil {
		return nil, err
	}
	assignments, err := s.store.Berths().List(ctx)
	if err != nil {
		return nil, err
	}
	occupied := map[string]struct{}{}
	for _, b := range assignments {
		if b.PortID == portID && b.Status.RequiresShip() {
			occupied[b.BerthNumber] = struct{}{}
		}
	}
	used := float64(len(occupied))
	total := float64(port.TotalBerths)
	return &model.OccupancyReport{
		ID:    portID,
		Used:  used,
		Total: total,
		Rate:  rate(used, total),
	}, nil
}

// WarehouseUsage reports capacity utilization for one warehouse.
func (s *StatsService) WarehouseUsage(ctx context.Context, warehouseID string) (*model.OccupancyReport, error) {
	w, err := s.store.Warehouses().Get(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	return &model.OccupancyReport{
		ID:    warehouseID,
		Used:  w.UsedCapacity,
		Total: w.TotalCapacity,
		Rate:  rate(w.UsedCapacity, w.TotalCapacity),
	}, nil
}

// MonthlyCargo groups cargo by creation month over the trailing year.
// Assigned weight counts cargo whose voyage exists and is not cancelled;
// months without cargo are omitted, and the series ascends by month.
func (s *StatsService) MonthlyCargo(ctx context.Context) ([]*model.MonthlyCargoStat, error) {
	cargo, err := s.store.Cargo().List(ctx, "")
	if err != nil {
		return nil, err
	}
	voyages, err := s.store.Voyages().List(ctx)
	if err != nil {
		return nil, err
	}
	voyageStatus := make(map[string]model.VoyageStatus, len(voyages))
	for _, v := range voyages {
		voyageStatus[v.PlanID] = v.Status
	}

	now := time.Now().UTC()
	cutoff := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, -(monthlyWindow - 1), 0)

	byMonth := map[string]*model.MonthlyCargoStat{}
	for _, c := range cargo {
		created := c.CreatedAt.UTC()
		if created.Before(cutoff) {
			continue
		}
		month := created.Format("2006-01")
		stat, ok := byMonth[month]
		if !ok {
			stat = &model.MonthlyCargoStat{Month: month}
			byMonth[month] = stat
		}
		stat.TotalWeight += c.Weight
		if c.VoyagePlanID != nil {
			if st, ok := voyageStatus[*c.VoyagePlanID]; ok && st != model.VoyageCancelled {
				stat.AssignedWeight += c.Weight
			}
		}
	}

	out := make([]*model.MonthlyCargoStat, 0, len(byMonth))
	for _, stat := range byMonth {
		out = append(out, stat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}
