package engine

import (
	"time"

	"github.com/afterglow3292/portops/internal/model"
)

// CheckBerthWindow determines whether the proposed [arrival, departure)
// window overlaps an existing assignment on the same berth. A nil departure
// is open-ended and conflicts with anything starting at or after the arrival.
// Equal arrivals count as overlapping (closed lower bound). Assignments with
// a cancelled scheduling status never participate, and the assignment being
// updated excludes itself by id. The check is pure: it never mutates state.
//
// Returns nil when the window is free, or a ConflictError naming the first
// overlapping assignment found.
func CheckBerthWindow(existing []*model.BerthAssignment, excludeID string, arrival time.Time, departure *time.Time) error {
	for _, a := range existing {
		if a.AssignmentID == excludeID || a.Status.IsCancelled() {
			continue
		}
		if a.ArrivalTime == nil {
			continue
		}
		if windowsOverlap(arrival, departure, *a.ArrivalTime, a.DepartureTime) {
			return model.ConflictError{
				Resource:     "berth",
				Message:      "time window overlaps existing assignment",
				ConflictWith: a.AssignmentID,
			}
		}
	}
	return nil
}

// windowsOverlap compares two [start, end) intervals where a nil end means
// the occupation is open-ended.
func windowsOverlap(aStart time.Time, aEnd *time.Time, bStart time.Time, bEnd *time.Time) bool {
	if aStart.Equal(bStart) {
		return true
	}
	if aEnd == nil && bEnd == nil {
		return true
	}
	if aEnd == nil {
		// a runs forever from aStart; overlaps b unless b ended first.
		return bEnd == nil || bEnd.After(aStart)
	}
	if bEnd == nil {
		return aEnd.After(bStart)
	}
	return aStart.Before(*bEnd) && bStart.Before(*aEnd)
}
