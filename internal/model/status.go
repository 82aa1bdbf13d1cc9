package model

import "fmt"

// ShipStatus is the operational state of a vessel.
type ShipStatus string

const (
	ShipAtSea     ShipStatus = "AT_SEA"
	ShipArrived   ShipStatus = "ARRIVED"
	ShipScheduled ShipStatus = "SCHEDULED"
	ShipDelayed   ShipStatus = "DELAYED"
)

// Valid reports whether s is a known ship status.
func (s ShipStatus) Valid() bool {
	switch s {
	case ShipAtSea, ShipArrived, ShipScheduled, ShipDelayed:
		return true
	}
	return false
}

// VoyageStatus is the lifecycle state of a voyage plan.
type VoyageStatus string

const (
	VoyageScheduled  VoyageStatus = "SCHEDULED"
	VoyageInProgress VoyageStatus = "IN_PROGRESS"
	VoyageCompleted  VoyageStatus = "COMPLETED"
	VoyageCancelled  VoyageStatus = "CANCELLED"
)

// TaskStatus is the lifecycle state of a transport task.
type TaskStatus string

const (
	TaskPending   TaskStatus = "PENDING"
	TaskInTransit TaskStatus = "IN_TRANSIT"
	TaskDelivered TaskStatus = "DELIVERED"
	TaskCancelled TaskStatus = "CANCELLED"
)

// WarehouseType classifies storage facilities.
type WarehouseType string

const (
	WarehouseGeneral     WarehouseType = "GENERAL"
	WarehouseColdStorage WarehouseType = "COLD_STORAGE"
	WarehouseHazardous   WarehouseType = "HAZARDOUS"
	WarehouseContainer   WarehouseType = "CONTAINER"
)

// Valid reports whether t is a known warehouse type.
func (t WarehouseType) Valid() bool {
	switch t {
	case WarehouseGeneral, WarehouseColdStorage, WarehouseHazardous, WarehouseContainer:
		return true
	}
	return false
}

// BerthStatusKind discriminates the two berth state machines. Legacy records
// conflated a physical berth state (is the slot free) with a scheduling-entry
// state (is the booking confirmed); here they are a tagged union.
type BerthStatusKind string

const (
	BerthKindPhysical BerthStatusKind = "PHYSICAL"
	BerthKindSchedule BerthStatusKind = "SCHEDULE"
)

// Physical berth states.
const (
	BerthAvailable   = "AVAILABLE"
	BerthOccupied    = "OCCUPIED"
	BerthMaintenance = "MAINTENANCE"
)

// Scheduling-entry states.
const (
	BerthPlanned   = "PLANNED"
	BerthConfirmed = "CONFIRMED"
	BerthDelayed   = "DELAYED"
	BerthCancelled = "CANCELLED"
)

// BerthStatus is the tagged union of the two berth state machines.
type BerthStatus struct {
	Kind  BerthStatusKind `json:"kind"`
	Value string          `json:"value"`
}

func PhysicalStatus(value string) BerthStatus {
	return BerthStatus{Kind: BerthKindPhysical, Value: value}
}

func ScheduleStatus(value string) BerthStatus {
	return BerthStatus{Kind: BerthKindSchedule, Value: value}
}

// IsCancelled reports whether the assignment is a cancelled scheduling entry.
// Cancelled entries never participate in conflict checks.
func (b BerthStatus) IsCancelled() bool {
	return b.Kind == BerthKindSchedule && b.Value == BerthCancelled
}

// RequiresShip reports whether the state needs a bound ship and arrival time.
func (b BerthStatus) RequiresShip() bool {
	return b.Value == BerthOccupied || b.Value == BerthConfirmed
}

// legacyBerthStatus maps flat status strings from the pre-rewrite schema onto
// the tagged union. Kept for wire compatibility with old clients.
var legacyBerthStatus = map[string]BerthStatus{
	BerthAvailable:   PhysicalStatus(BerthAvailable),
	BerthOccupied:    PhysicalStatus(BerthOccupied),
	BerthMaintenance: PhysicalStatus(BerthMaintenance),
	BerthPlanned:     ScheduleStatus(BerthPlanned),
	BerthConfirmed:   ScheduleStatus(BerthConfirmed),
	BerthDelayed:     ScheduleStatus(BerthDelayed),
	BerthCancelled:   ScheduleStatus(BerthCancelled),
}

// ParseBerthStatus resolves a flat legacy status string to the tagged union.
func ParseBerthStatus(value string) (BerthStatus, error) {
	st, ok := legacyBerthStatus[value]
	if !ok {
		return BerthStatus{}, fmt.Errorf("unknown berth status %q", value)
	}
	return st, nil
}

// Valid reports whether the kind/value pair is a known combination.
func (b BerthStatus) Valid() bool {
	st, ok := legacyBerthStatus[b.Value]
	return ok && st.Kind == b.Kind
}
