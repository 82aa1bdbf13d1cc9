package model

import "time"

// CreateShipRequest carries the fields an operator supplies for a new ship.
type CreateShipRequest struct {
	Name        string     `json:"name"`
	IMO         string     `json:"imo"`
	CapacityTEU int        `json:"capacityTeu"`
	Status      ShipStatus `json:"status"`
}

// UpdateShipRequest is a full-record replacement for an existing ship.
type UpdateShipRequest struct {
	Name        string     `json:"name"`
	IMO         string     `json:"imo"`
	CapacityTEU int        `json:"capacityTeu"`
	Status      ShipStatus `json:"status"`
}

type CreatePortRequest struct {
	PortCode      string   `json:"portCode"`
	PortName      string   `json:"portName"`
	Country       string   `json:"country"`
	City          string   `json:"city"`
	TotalBerths   int      `json:"totalBerths"`
	MaxVesselSize *float64 `json:"maxVesselSize,omitempty"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
}

type UpdatePortRequest = CreatePortRequest

// CreateBerthRequest accepts either the tagged-union status or, for legacy
// clients, a flat status string resolved through the compatibility table.
type CreateBerthRequest struct {
	PortID        string       `json:"portId"`
	ShipID        *string      `json:"shipId,omitempty"`
	BerthNumber   string       `json:"berthNumber"`
	ArrivalTime   *time.Time   `json:"arrivalTime,omitempty"`
	DepartureTime *time.Time   `json:"departureTime,omitempty"`
	Status        *BerthStatus `json:"status,omitempty"`
	LegacyStatus  string       `json:"legacyStatus,omitempty"`
}

type UpdateBerthRequest = CreateBerthRequest

type CreateVoyageRequest struct {
	VoyageNumber     string     `json:"voyageNumber"`
	ShipID           string     `json:"shipId"`
	DeparturePortID  string     `json:"departurePortId"`
	ArrivalPortID    string     `json:"arrivalPortId"`
	AssignedBerthID  *string    `json:"assignedBerthId,omitempty"`
	PlannedDeparture time.Time  `json:"plannedDeparture"`
	PlannedArrival   time.Time  `json:"plannedArrival"`
	ActualDeparture  *time.Time `json:"actualDeparture,omitempty"`
	ActualArrival    *time.Time `json:"actualArrival,omitempty"`
}

type UpdateVoyageRequest = CreateVoyageRequest

type CreateCargoRequest struct {
	Description  string  `json:"description"`
	Weight       float64 `json:"weight"`
	Destination  string  `json:"destination"`
	VoyagePlanID *string `json:"voyagePlanId,omitempty"`
	WarehouseID  *string `json:"warehouseId,omitempty"`
}

type UpdateCargoRequest = CreateCargoRequest

type CreateWarehouseRequest struct {
	WarehouseName string        `json:"warehouseName"`
	PortID        *string       `json:"portId,omitempty"`
	WarehouseType WarehouseType `json:"warehouseType"`
	TotalCapacity float64       `json:"totalCapacity"`
	UsedCapacity  *float64      `json:"usedCapacity,omitempty"`
	Location      *string       `json:"location,omitempty"`
}

type UpdateWarehouseRequest = CreateWarehouseRequest

type CreateTaskRequest struct {
	TaskNumber       string     `json:"taskNumber"`
	CargoID          *string    `json:"cargoId,omitempty"`
	TruckLicense     string     `json:"truckLicense"`
	DriverName       string     `json:"driverName"`
	DriverPhone      *string    `json:"driverPhone,omitempty"`
	PickupLocation   string     `json:"pickupLocation"`
	DeliveryLocation string     `json:"deliveryLocation"`
	PlannedPickup    *time.Time `json:"plannedPickup,omitempty"`
	PlannedDelivery  *time.Time `json:"plannedDelivery,omitempty"`
}

type UpdateTaskRequest = CreateTaskRequest

// StatusPatchRequest drives a lifecycle transition on its own.
type StatusPatchRequest struct {
	Status string `json:"status"`
}
