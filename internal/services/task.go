package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/afterglow3292/portops/internal/engine"
	"github.com/afterglow3292/portops/internal/model"
	"github.com/afterglow3292/portops/internal/store"
)

// TaskService handles ground transport tasks.
type TaskService struct {
	store store.Store
	locks *engine.LockTable
	log   zerolog.Logger
}

func NewTaskService(s store.Store, locks *engine.LockTable, log zerolog.Logger) *TaskService {
	return &TaskService{store: s, locks: locks, log: log}
}

func (s *TaskService) validate(ctx context.Context, req *model.CreateTaskRequest) error {
	if strings.TrimSpace(req.TaskNumber) == "" {
		return model.NewValidationError("taskNumber", "task number is required")
	}
	if strings.TrimSpace(req.TruckLicense) == "" {
		return model.NewValidationError("truckLicense", "truck license is required")
	}
	if strings.TrimSpace(req.DriverName) == "" {
		return model.NewValidationError("driverName", "driver name is required")
	}
	if strings.TrimSpace(req.PickupLocation) == "" {
		return model.NewValidationError("pickupLocation", "pickup location is required")
	}
	if strings.TrimSpace(req.DeliveryLocation) == "" {
		return model.NewValidationError("deliveryLocation", "delivery location is required")
	}
	if req.PlannedPickup != nil && req.PlannedDelivery != nil && !req.PlannedDelivery.After(*req.PlannedPickup) {
		return model.NewValidationError("plannedDelivery", "planned delivery must be after planned pickup")
	}
	if req.CargoID != nil {
		if _, err := s.store.Cargo().Get(ctx, *req.CargoID); err != nil {
			return err
		}
	}
	return nil
}

func (s *TaskService) numberTaken(ctx context.Context, number, excludeID string) error {
	existing, err := s.store.Tasks().GetByNumber(ctx, number)
	if model.IsNotFoundError(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.TaskID == excludeID {
		return nil
	}
	return model.ConflictError{Resource: "transport task", Message: "task number already registered", ConflictWith: existing.TaskID}
}

func (s *TaskService) Create(ctx context.Context, req *model.CreateTaskRequest) (*model.TransportTask, error) {
	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}
	release, err := s.locks.Acquire(ctx, engine.UniqueKey("task-number", req.TaskNumber))
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.numberTaken(ctx, req.TaskNumber, ""); err != nil {
		return nil, err
	}
	created, err := s.store.Tasks().Create(ctx, &model.TransportTask{
		TaskNumber:       req.TaskNumber,
		CargoID:          req.CargoID,
		TruckLicense:     req.TruckLicense,
		DriverName:       req.DriverName,
		DriverPhone:      req.DriverPhone,
		PickupLocation:   req.PickupLocation,
		DeliveryLocation: req.DeliveryLocation,
		PlannedPickup:    req.PlannedPickup,
		PlannedDelivery:  req.PlannedDelivery,
		Status:           model.TaskPending,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Str("taskId", created.TaskID).
		Str("taskNumber", created.TaskNumber).
		Msg("transport task created")
	return created, nil
}

func (s *TaskService) Get(ctx context.Context, id string) (*model.TransportTask, error) {
	return s.store.Tasks().Get(ctx, id)
}

func (s *TaskService) List(ctx context.Context) ([]*model.TransportTask, error) {
	return s.store.Tasks().List(ctx)
}

func (s *TaskService) Update(ctx context.Context, id string, req *model.UpdateTaskRequest) (*model.TransportTask, error) {
	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}
	release, err := s.locks.Acquire(ctx, engine.TaskKey(id), engine.UniqueKey("task-number", req.TaskNumber))
	if err != nil {
		return nil, err
	}
	defer release()

	t, err := s.store.Tasks().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.numberTaken(ctx, req.TaskNumber, id); err != nil {
		return nil, err
	}
	// Status and actual timestamps only move through transitions.
	t.TaskNumber = req.TaskNumber
	t.CargoID = req.CargoID
	t.TruckLicense = req.TruckLicense
	t.DriverName = req.DriverName
	t.DriverPhone = req.DriverPhone
	t.PickupLocation = req.PickupLocation
	t.DeliveryLocation = req.DeliveryLocation
	t.PlannedPickup = req.PlannedPickup
	t.PlannedDelivery = req.PlannedDelivery

	return s.store.Tasks().Update(ctx, t)
}

// UpdateStatus drives the task state machine, stamping actual pickup and
// delivery times on the way through.
func (s *TaskService) UpdateStatus(ctx context.Context, id, target string) (*model.TransportTask, error) {
	to := model.TaskStatus(target)
	switch to {
	case model.TaskPending, model.TaskInTransit, model.TaskDelivered, model.TaskCancelled:
	default:
		return nil, model.NewValidationError("status", "unknown task status")
	}
	release, err := s.locks.Acquire(ctx, engine.TaskKey(id))
	if err != nil {
		return nil, err
	}
	defer release()

	t, err := s.store.Tasks().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := engine.TaskTransition(t, to, time.Now().UTC()); err != nil {
		s.log.Warn().Str("taskId", id).Str("target", target).Err(err).Msg("task transition rejected")
		return nil, err
	}
	return s.store.Tasks().Update(ctx, t)
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	release, err := s.locks.Acquire(ctx, engine.TaskKey(id))
	if err != nil {
		return err
	}
	defer release()
	return s.store.Tasks().Delete(ctx, id)
}
