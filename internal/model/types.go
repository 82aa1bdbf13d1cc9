package model

import "time"

// Ship is a vessel known to the port.
type Ship struct {
	ShipID      string     `json:"shipId"`
	Name        string     `json:"name"`
	IMO         string     `json:"imo"`
	CapacityTEU int        `json:"capacityTeu"`
	Status      ShipStatus `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Port is read-mostly reference data for a harbor.
type Port struct {
	PortID        string    `json:"portId"`
	PortCode      string    `json:"portCode"`
	PortName      string    `json:"portName"`
	Country       string    `json:"country"`
	City          string    `json:"city"`
	TotalBerths   int       `json:"totalBerths"`
	MaxVesselSize *float64  `json:"maxVesselSize,omitempty"`
	Latitude      *float64  `json:"latitude,omitempty"`
	Longitude     *float64  `json:"longitude,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// BerthAssignment binds a ship to a physical berth for a time window.
// A nil ShipID means the berth slot is vacant.
type BerthAssignment struct {
	AssignmentID  string      `json:"assignmentId"`
	PortID        string      `json:"portId"`
	ShipID        *string     `json:"shipId,omitempty"`
	BerthNumber   string      `json:"berthNumber"`
	ArrivalTime   *time.Time  `json:"arrivalTime,omitempty"`
	DepartureTime *time.Time  `json:"departureTime,omitempty"`
	Status        BerthStatus `json:"status"`
	CreatedAt     time.Time   `json:"createdAt"`

	// Resolved for display only, never persisted.
	PortName   string `json:"portName,omitempty"`
	VesselName string `json:"vesselName,omitempty"`
}

// VoyagePlan is a scheduled movement of a ship between two ports.
type VoyagePlan struct {
	PlanID           string       `json:"planId"`
	VoyageNumber     string       `json:"voyageNumber"`
	ShipID           string       `json:"shipId"`
	DeparturePortID  string       `json:"departurePortId"`
	ArrivalPortID    string       `json:"arrivalPortId"`
	AssignedBerthID  *string      `json:"assignedBerthId,omitempty"`
	PlannedDeparture time.Time    `json:"plannedDeparture"`
	PlannedArrival   time.Time    `json:"plannedArrival"`
	ActualDeparture  *time.Time   `json:"actualDeparture,omitempty"`
	ActualArrival    *time.Time   `json:"actualArrival,omitempty"`
	Status           VoyageStatus `json:"status"`
	CreatedAt        time.Time    `json:"createdAt"`
}

// Cargo is a shipment item, optionally bound to a voyage and a warehouse.
type Cargo struct {
	CargoID      string    `json:"cargoId"`
	Description  string    `json:"description"`
	Weight       float64   `json:"weight"`
	Destination  string    `json:"destination"`
	VoyagePlanID *string   `json:"voyagePlanId,omitempty"`
	WarehouseID  *string   `json:"warehouseId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`

	// Resolved for display only, never persisted.
	ShipName string `json:"shipName,omitempty"`
}

// IsAssigned reports whether the cargo is bound to a voyage.
func (c *Cargo) IsAssigned() bool { return c.VoyagePlanID != nil }

// Warehouse tracks volumetric storage capacity.
type Warehouse struct {
	WarehouseID   string        `json:"warehouseId"`
	WarehouseName string        `json:"warehouseName"`
	PortID        *string       `json:"portId,omitempty"`
	WarehouseType WarehouseType `json:"warehouseType"`
	TotalCapacity float64       `json:"totalCapacity"`
	UsedCapacity  float64       `json:"usedCapacity"`
	Location      *string       `json:"location,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// TransportTask is a ground transport job for a cargo item.
type TransportTask struct {
	TaskID           string     `json:"taskId"`
	TaskNumber       string     `json:"taskNumber"`
	CargoID          *string    `json:"cargoId,omitempty"`
	TruckLicense     string     `json:"truckLicense"`
	DriverName       string     `json:"driverName"`
	DriverPhone      *string    `json:"driverPhone,omitempty"`
	PickupLocation   string     `json:"pickupLocation"`
	DeliveryLocation string     `json:"deliveryLocation"`
	PlannedPickup    *time.Time `json:"plannedPickup,omitempty"`
	ActualPickup     *time.Time `json:"actualPickup,omitempty"`
	PlannedDelivery  *time.Time `json:"plannedDelivery,omitempty"`
	ActualDelivery   *time.Time `json:"actualDelivery,omitempty"`
	Status           TaskStatus `json:"status"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// MonthlyCargoStat is one month of throughput, grouped by cargo creation
// month. Pending weight is total minus assigned; consumers derive it.
type MonthlyCargoStat struct {
	Month          string  `json:"month"`
	TotalWeight    float64 `json:"totalWeight"`
	AssignedWeight float64 `json:"assignedWeight"`
}

// OccupancyReport is a derived usage view for a port or warehouse.
type OccupancyReport struct {
	ID    string  `json:"id"`
	Used  float64 `json:"used"`
	Total float64 `json:"total"`
	Rate  float64 `json:"rate"`
}
