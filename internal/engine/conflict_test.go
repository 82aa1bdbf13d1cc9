package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/afterglow3292/portops/internal/model"
)

func ts(h int) time.Time {
	return time.Date(2026, 3, 1, h, 0, 0, 0, time.UTC)
}

func tsp(h int) *time.Time {
	t := ts(h)
	return &t
}

func assignment(id string, arrival, departure *time.Time, status model.BerthStatus) *model.BerthAssignment {
	return &model.BerthAssignment{
		AssignmentID:  id,
		PortID:        "p1",
		BerthNumber:   "B1",
		ArrivalTime:   arrival,
		DepartureTime: departure,
		Status:        status,
	}
}

func TestCheckBerthWindow_Overlap(t *testing.T) {
	existing := []*model.BerthAssignment{
		assignment("a1", tsp(8), tsp(12), model.ScheduleStatus(model.BerthConfirmed)),
	}

	err := CheckBerthWindow(existing, "", ts(10), tsp(14))
	require.True(t, model.IsConflictError(err))
	var ce model.ConflictError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, "a1", ce.ConflictWith)
}

func TestCheckBerthWindow_DisjointWindows(t *testing.T) {
	existing := []*model.BerthAssignment{
		assignment("a1", tsp(8), tsp(12), model.ScheduleStatus(model.BerthConfirmed)),
	}

	// Departure of the old and arrival of the new may touch: [8,12) then [12,16).
	require.NoError(t, CheckBerthWindow(existing, "", ts(12), tsp(16)))
	require.NoError(t, CheckBerthWindow(existing, "", ts(4), tsp(8)))
}

func TestCheckBerthWindow_EqualArrivals(t *testing.T) {
	existing := []*model.BerthAssignment{
		assignment("a1", tsp(8), tsp(12), model.ScheduleStatus(model.BerthPlanned)),
	}

	err := CheckBerthWindow(existing, "", ts(8), tsp(9))
	require.True(t, model.IsConflictError(err))
}

func TestCheckBerthWindow_OpenEnded(t *testing.T) {
	existing := []*model.BerthAssignment{
		assignment("a1", tsp(8), nil, model.PhysicalStatus(model.BerthOccupied)),
	}

	// An open-ended occupation blocks everything from its arrival onward.
	require.Error(t, CheckBerthWindow(existing, "", ts(20), tsp(22)))
	require.Error(t, CheckBerthWindow(existing, "", ts(20), nil))
	// But a window that closed before the occupation started is fine.
	require.NoError(t, CheckBerthWindow(existing, "", ts(4), tsp(8)))
}

func TestCheckBerthWindow_CancelledIgnored(t *testing.T) {
	existing := []*model.BerthAssignment{
		assignment("a1", tsp(8), tsp(12), model.ScheduleStatus(model.BerthCancelled)),
	}

	require.NoError(t, CheckBerthWindow(existing, "", ts(9), tsp(10)))
}

func TestCheckBerthWindow_ExcludesSelf(t *testing.T) {
	existing := []*model.BerthAssignment{
		assignment("a1", tsp(8), tsp(12), model.ScheduleStatus(model.BerthConfirmed)),
	}

	// Rescheduling a1 within its own old window is not a conflict with itself.
	require.NoError(t, CheckBerthWindow(existing, "a1", ts(9), tsp(13)))
}

func TestCheckBerthWindow_NoArrivalIgnored(t *testing.T) {
	existing := []*model.BerthAssignment{
		assignment("a1", nil, nil, model.PhysicalStatus(model.BerthMaintenance)),
	}

	require.NoError(t, CheckBerthWindow(existing, "", ts(9), tsp(10)))
}
