package engine

import (
	"time"

	"github.com/afterglow3292/portops/internal/model"
)

// DepartureGrace is how far before the planned departure a voyage may start.
const DepartureGrace = time.Hour

// Transition tables. A status never lists itself as a target: re-requesting
// a transition whose target equals the current state is rejected as an
// illegal transition, uniformly across all machines.
var berthPhysicalTransitions = map[string][]string{
	model.BerthAvailable:   {model.BerthOccupied, model.BerthMaintenance},
	model.BerthOccupied:    {model.BerthAvailable, model.BerthMaintenance},
	model.BerthMaintenance: {model.BerthAvailable},
}

var berthScheduleTransitions = map[string][]string{
	model.BerthPlanned:   {model.BerthConfirmed, model.BerthDelayed, model.BerthCancelled},
	model.BerthConfirmed: {model.BerthDelayed, model.BerthCancelled},
	model.BerthDelayed:   {model.BerthConfirmed, model.BerthCancelled},
	model.BerthCancelled: {},
}

var voyageTransitions = map[model.VoyageStatus][]model.VoyageStatus{
	model.VoyageScheduled:  {model.VoyageInProgress, model.VoyageCancelled},
	model.VoyageInProgress: {model.VoyageCompleted, model.VoyageCancelled},
	model.VoyageCompleted:  {},
	model.VoyageCancelled:  {},
}

var taskTransitions = map[model.TaskStatus][]model.TaskStatus{
	model.TaskPending:   {model.TaskInTransit, model.TaskCancelled},
	model.TaskInTransit: {model.TaskDelivered, model.TaskCancelled},
	model.TaskDelivered: {},
	model.TaskCancelled: {},
}

func allows[S comparable](table map[S][]S, from, to S) bool {
	for _, t := range table[from] {
		if t == to {
			return true
		}
	}
	return false
}

// BerthTransition validates and applies a berth status change in place.
// The two machines never cross: a physical slot cannot move into a
// scheduling state or vice versa. Failure leaves the record untouched.
func BerthTransition(b *model.BerthAssignment, to model.BerthStatus, now time.Time) error {
	from := b.Status
	if !to.Valid() || to.Kind != from.Kind {
		return model.NewIllegalTransitionError("berth", from.Value, to.Value)
	}
	table := berthPhysicalTransitions
	if from.Kind == model.BerthKindSchedule {
		table = berthScheduleTransitions
	}
	if !allows(table, from.Value, to.Value) {
		return model.NewIllegalTransitionError("berth", from.Value, to.Value)
	}
	if to.RequiresShip() && (b.ShipID == nil || b.ArrivalTime == nil) {
		return model.NewValidationError("shipId", "occupying a berth requires a ship and an arrival time")
	}
	if from.Value == model.BerthOccupied && to.Value == model.BerthAvailable && b.DepartureTime == nil {
		t := now
		b.DepartureTime = &t
	}
	b.Status = to
	return nil
}

// VoyageTransition validates and applies a voyage status change in place.
// shipVoyages are the other voyages of the same ship, used to refuse a second
// concurrent IN_PROGRESS voyage. The CANCELLED cascade (unassigning cargo) is
// the caller's job; it owns the store and the locks.
func VoyageTransition(v *model.VoyagePlan, to model.VoyageStatus, shipVoyages []*model.VoyagePlan, now time.Time) error {
	from := v.Status
	if !allows(voyageTransitions, from, to) {
		return model.NewIllegalTransitionError("voyage", string(from), string(to))
	}
	switch to {
	case model.VoyageInProgress:
		dep := v.ActualDeparture
		if dep == nil {
			t := now
			dep = &t
		}
		if dep.Before(v.PlannedDeparture.Add(-DepartureGrace)) {
			return model.NewValidationError("actualDeparture", "departure too far ahead of plan")
		}
		for _, other := range shipVoyages {
			if other.PlanID != v.PlanID && other.Status == model.VoyageInProgress {
				return model.ConflictError{
					Resource:     "voyage",
					Message:      "ship already underway on another voyage",
					ConflictWith: other.PlanID,
				}
			}
		}
		v.ActualDeparture = dep
	case model.VoyageCompleted:
		if v.ActualArrival == nil {
			t := now
			v.ActualArrival = &t
		}
	}
	v.Status = to
	return nil
}

// TaskTransition validates and applies a transport task status change in
// place, stamping actual pickup and delivery times when absent.
func TaskTransition(t *model.TransportTask, to model.TaskStatus, now time.Time) error {
	from := t.Status
	if !allows(taskTransitions, from, to) {
		return model.NewIllegalTransitionError("transport task", string(from), string(to))
	}
	switch to {
	case model.TaskInTransit:
		if t.ActualPickup == nil {
			ts := now
			t.ActualPickup = &ts
		}
	case model.TaskDelivered:
		if t.ActualDelivery == nil {
			ts := now
			t.ActualDelivery = &ts
		}
	}
	t.Status = to
	return nil
}
