// Package memstore is the in-memory store adapter. It is the default driver
// for development and tests; records survive only for the process lifetime.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/afterglow3292/portops/internal/model"
	"github.com/afterglow3292/portops/internal/store"
)

// New returns an empty in-memory store.
func New() store.Store {
	return &memStore{
		ships:      make(map[string]*model.Ship),
		ports:      make(map[string]*model.Port),
		berths:     make(map[string]*model.BerthAssignment),
		voyages:    make(map[string]*model.VoyagePlan),
		cargo:      make(map[string]*model.Cargo),
		warehouses: make(map[string]*model.Warehouse),
		tasks:      make(map[string]*model.TransportTask),
	}
}

// memStore guards every entity map with one RWMutex. Individual reads and
// writes are consistent; multi-step invariants are serialized above this
// layer by the engine lock table.
type memStore struct {
	mu         sync.RWMutex
	ships      map[string]*model.Ship
	ports      map[string]*model.Port
	berths     map[string]*model.BerthAssignment
	voyages    map[string]*model.VoyagePlan
	cargo      map[string]*model.Cargo
	warehouses map[string]*model.Warehouse
	tasks      map[string]*model.TransportTask
}

func (s *memStore) Ships() store.Ships           { return &ships{s} }
func (s *memStore) Ports() store.Ports           { return &ports{s} }
func (s *memStore) Berths() store.Berths         { return &berths{s} }
func (s *memStore) Voyages() store.Voyages       { return &voyages{s} }
func (s *memStore) Cargo() store.CargoStore      { return &cargoStore{s} }
func (s *memStore) Warehouses() store.Warehouses { return &warehouses{s} }
func (s *memStore) Tasks() store.Tasks           { return &tasks{s} }

// HealthPing implements health.HealthPinger.
func (s *memStore) HealthPing(ctx context.Context) error { return ctx.Err() }

func newID() string { return uuid.New().String() }

// --- Ships ---

type ships struct{ s *memStore }

// imoConflict mirrors the UNIQUE(imo) constraint of the SQL adapters.
// Caller holds the write lock.
func (st *ships) imoConflict(imo, excludeID string) error {
	for _, m := range st.s.ships {
		if m.IMO == imo && m.ShipID != excludeID {
			return model.ConflictError{Resource: "ship", Message: "IMO number already registered", ConflictWith: m.ShipID}
		}
	}
	return nil
}

func (st *ships) Create(_ context.Context, m *model.Ship) (*model.Ship, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	if err := st.imoConflict(m.IMO, ""); err != nil {
		return nil, err
	}
	out := *m
	out.ShipID = newID()
	out.CreatedAt = time.Now().UTC()
	st.s.ships[out.ShipID] = &out
	cp := out
	return &cp, nil
}

func (st *ships) Get(_ context.Context, id string) (*model.Ship, error) {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	m, ok := st.s.ships[id]
	if !ok {
		return nil, model.NewNotFoundError("ship", id)
	}
	cp := *m
	return &cp, nil
}

func (st *ships) GetByIMO(_ context.Context, imo string) (*model.Ship, error) {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	for _, m := range st.s.ships {
		if m.IMO == imo {
			cp := *m
			return &cp, nil
		}
	}
	return nil, model.NewNotFoundError("ship", imo)
}

func (st *ships) List(_ context.Context) ([]*model.Ship, error) {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	out := make([]*model.Ship, 0, len(st.s.ships))
	for _, m := range st.s.ships {
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (st *ships) Update(_ context.Context, m *model.Ship) (*model.Ship, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	cur, ok := st.s.ships[m.ShipID]
	if !ok {
		return nil, model.NewNotFoundError("ship", m.ShipID)
	}
	if err := st.imoConflict(m.IMO, m.ShipID); err != nil {
		return nil, err
	}
	out := *m
	out.CreatedAt = cur.CreatedAt
	st.s.ships[out.ShipID] = &out
	cp := out
	return &cp, nil
}

func (st *ships) Delete(_ context.Context, id string) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	if _, ok := st.s.ships[id]; !ok {
		return model.NewNotFoundError("ship", id)
	}
	delete(st.s.ships, id)
	return nil
}

// --- Ports ---

type ports struct{ s *memStore }

func (st *ports) codeConflict(code, excludeID string) error {
	for _, m := range st.s.ports {
		if m.PortCode == code && m.PortID != excludeID {
			return model.ConflictError{Resource: "port", Message: "port code already registered", ConflictWith: m.PortID}
		}
	}
	return nil
}

func (st *ports) Create(_ context.Context, m *model.Port) (*model.Port, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	if err := st.codeConflict(m.PortCode, ""); err != nil {
		return nil, err
	}
	out := *m
	out.PortID = newID()
	out.CreatedAt = time.Now().UTC()
	st.s.ports[out.PortID] = &out
	cp := out
	return &cp, nil
}

func (st *ports) Get(_ context.Context, id string) (*model.Port, error) {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	m, ok := st.s.ports[id]
	if !ok {
		return nil, model.NewNotFoundError("port", id)
	}
	cp := *m
	return &cp, nil
}

func (st *ports) GetByCode(_ context.Context, code string) (*model.Port, error) {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	for _, m := range st.s.ports {
		if m.PortCode == code {
			cp := *m
			return &cp, nil
		}
	}
	return nil, model.NewNotFoundError("port", code)
}

func (st *ports) List(_ context.Context) ([]*model.Port, error) {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	out := make([]*model.Port, 0, len(st.s.ports))
	for _, m := range st.s.ports {
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (st *ports) Update(_ context.Context, m *model.Port) (*model.Port, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	cur, ok := st.s.ports[m.PortID]
	if !ok {
		return nil, model.NewNotFoundError("port", m.PortID)
	}
	if err := st.codeConflict(m.PortCode, m.PortID); err != nil {
		return nil, err
	}
	out := *m
	out.CreatedAt = cur.CreatedAt
	st.s.ports[out.PortID] = &out
	cp := out
	return &cp, nil
}

func (st *ports) Delete(_ context.Context, id string) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	if _, ok := st.s.ports[id]; !ok {
		return model.NewNotFoundError("port", id)
	}
	delete(st.s.ports, id)
	return nil
}

// --- Berth assignments ---

type berths struct{ s *memStore }

func (st *berths) Create(_ context.Context, m *model.BerthAssignment) (*model.BerthAssignment, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	out := *m
	out.AssignmentID = newID()
	out.CreatedAt = time.Now().UTC()
	st.s.berths[out.AssignmentID] = &out
	cp := out
	return &cp, nil
}

func (st *berths) Get(_ context.Context, id string) (*model.BerthAssignment, error) {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	m, ok := st.s.berths[id]
	if !ok {
		return nil, model.NewNotFoundError("berth assignment", id)
	}
	cp := *m
	return &cp, nil
}

func (st *berths) List(_ context.Context) ([]*model.BerthAssignment, error) {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	out := make([]*model.BerthAssignment, 0, len(st.s.berths))
	for _, m := range st.s.berths {
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (st *berths) ListByBerth(_ context.Context, portID, berthNumber string) ([]*model.BerthAssignment, error) {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	var out []*model.BerthAssignment
	for _, m := range st.s.berths {
		if m.PortID == portID && m.BerthNumber == berthNumber {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (st *berths) ListByShip(_ context.Context, shipID string) ([]*model.BerthAssignment, error) {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	var out []*model.BerthAssignment
	for _, m := range st.s.berths {
		if m.ShipID != nil && *m.ShipID == shipID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (st *berths) Update(_ context.Context, m *model.BerthAssignment) (*model.BerthAssignment, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	cur, ok := st.s.berths[m.AssignmentID]
	if !ok {
		return nil, model.NewNotFoundError("berth assignment", m.AssignmentID)
	}
	out := *m
	out.CreatedAt = cur.CreatedAt
	st.s.berths[out.AssignmentID] = &out
	cp := out
	return &cp, nil
}

func (st *berths) Delete(_ context.Context, id string) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	if _, ok := st.s.berths[id]; !ok {
		return model.NewNotFoundError("berth assignment", id)
	}
	delete(st.s.berths, id)
	return nil
}

// --- Voyage plans ---

type voyages struct{ s *memStore }

func (st *voyages) numberConflict(number, excludeID string) error {
	for _, m := range st.s.voyages {
		if m.VoyageNumber == number && m.PlanID != excludeID {
			return model.ConflictError{Resource: "voyage", Message: "voyage number already registered", ConflictWith: m.PlanID}
		}
	}
	return nil
}

func (st *voyages) Create(_ context.Context, m *model.VoyagePlan) (*model.VoyagePlan, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	if err := st.numberConflict(m.VoyageNumber, ""); err != nil {
		return nil, err
	}
	out := *m
	out.PlanID = newID()
	out.CreatedAt = time.Now().UTC()
	st.s.voyages[out.PlanID] = &out
	cp := out
	return &cp, nil
}

func (st *voyages) Get(_ context.Context, id string) (*model.VoyagePlan, error) {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	m, ok := st.s.voyages[id]
	if !ok {
		return nil, model.NewNotFoundError("voyage plan", id)
	}
	cp := *m
	return &cp, nil
}

func (st *voyages) GetByNumber(_ context.Context, number string) (*model.VoyagePlan, error) {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	for _, m := range st.s.voyages {
		if m.VoyageNumber == number {
			cp := *m
			return &cp, nil
		}
	}
	return nil, model.NewNotFoundError("voyage plan", number)
}

func (st *voyages) List(_ context.Context) ([]*model.VoyagePlan, error) {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	out := make([]*model.VoyagePlan, 0, len(st.s.voyages))
	for _, m := range st.s.voyages {
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (st *voyages) ListByShip(_ context.Context, shipID string) ([]*model.VoyagePlan, error) {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	var out []*model.VoyagePlan
	for _, m := range st.s.voyages {
		if m.ShipID == shipID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (st *voyages) Update(_ context.Context, m *model.VoyagePlan) (*model.VoyagePlan, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	cur, ok := st.s.voyages[m.PlanID]
	if !ok {
		return nil, model.NewNotFoundError("voyage plan", m.PlanID)
	}
	if err := st.numberConflict(m.VoyageNumber, m.PlanID); err != nil {
		return nil, err
	}
	out := *m
	out.CreatedAt = cur.CreatedAt
	st.s.voyages[out.PlanID] = &out
	cp := out
	return &cp, nil
}

func (st *voyages) Delete(_ context.Context, id string) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	if _, ok := st.s.voyages[id]; !ok {
		return model.NewNotFoundError("voyage plan", id)
	}
	delete(st.s.voyages, id)
	return nil
}

// --- Cargo ---

type cargoStore struct{ s *memStore }

func (st *cargoStore) Create(_ context.Context, m *model.Cargo) (*model.Cargo, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	out := *m
	out.CargoID = newID()
	if out.CreatedAt.IsZero() {
		out.CreatedAt = time.Now().UTC()
	}
	st.s.cargo[out.CargoID] = &out
	cp := out
	return &cp, nil
}

func (st *cargoStore) Get(_ context.Context, id string) (*model.Cargo, error) {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	m, ok := st.s.cargo[id]
	if !ok {
		return nil, model.NewNotFoundError("cargo", id)
	}
	cp := *m
	return &cp, nil
}

func (st *cargoStore) List(_ context.Context, q string) ([]*model.Cargo, error) {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]*model.Cargo, 0, len(st.s.cargo))
	for _, m := range st.s.cargo {
		if q != "" &&
			!strings.Contains(strings.ToLower(m.Description), q) &&
			!strings.Contains(strings.ToLower(m.Destination), q) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (st *cargoStore) ListByVoyage(_ context.Context, planID string) ([]*model.Cargo, error) {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	var out []*model.Cargo
	for _, m := range st.s.cargo {
		if m.VoyagePlanID != nil && *m.VoyagePlanID == planID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (st *cargoStore) ListByWarehouse(_ context.Context, warehouseID string) ([]*model.Cargo, error) {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	var out []*model.Cargo
	for _, m := range st.s.cargo {
		if m.WarehouseID != nil && *m.WarehouseID == warehouseID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (st *cargoStore) Update(_ context.Context, m *model.Cargo) (*model.Cargo, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	cur, ok := st.s.cargo[m.CargoID]
	if !ok {
		return nil, model.NewNotFoundError("cargo", m.CargoID)
	}
	out := *m
	out.CreatedAt = cur.CreatedAt
	st.s.cargo[out.CargoID] = &out
	cp := out
	return &cp, nil
}

func (st *cargoStore) Delete(_ context.Context, id string) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	if _, ok := st.s.cargo[id]; !ok {
		return model.NewNotFoundError("cargo", id)
	}
	delete(st.s.cargo, id)
	return nil
}

// --- Warehouses ---

type warehouses struct{ s *memStore }

func (st *warehouses) Create(_ context.Context, m *model.Warehouse) (*model.Warehouse, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	out := *m
	out.WarehouseID = newID()
	out.CreatedAt = time.Now().UTC()
	st.s.warehouses[out.WarehouseID] = &out
	cp := out
	return &cp, nil
}

func (st *warehouses) Get(_ context.Context, id string) (*model.Warehouse, error) {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	m, ok := st.s.warehouses[id]
	if !ok {
		return nil, model.NewNotFoundError("warehouse", id)
	}
	cp := *m
	return &cp, nil
}

func (st *warehouses) List(_ context.Context, q string) ([]*model.Warehouse, error) {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]*model.Warehouse, 0, len(st.s.warehouses))
	for _, m := range st.s.warehouses {
		if q != "" && !warehouseMatches(m, q) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func warehouseMatches(m *model.Warehouse, q string) bool {
	if strings.Contains(strings.ToLower(m.WarehouseName), q) {
		return true
	}
	if strings.Contains(strings.ToLower(string(m.WarehouseType)), q) {
		return true
	}
	return m.Location != nil && strings.Contains(strings.ToLower(*m.Location), q)
}

func (st *warehouses) Update(_ context.Context, m *model.Warehouse) (*model.Warehouse, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	cur, ok := st.s.warehouses[m.WarehouseID]
	if !ok {
		return nil, model.NewNotFoundError("warehouse", m.WarehouseID)
	}
	out := *m
	out.CreatedAt = cur.CreatedAt
	st.s.warehouses[out.WarehouseID] = &out
	cp := out
	return &cp, nil
}

func (st *warehouses) Delete(_ context.Context, id string) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	if _, ok := st.s.warehouses[id]; !ok {
		return model.NewNotFoundError("warehouse", id)
	}
	delete(st.s.warehouses, id)
	return nil
}

// --- Transport tasks ---

type tasks struct{ s *memStore }

func (st *tasks) numberConflict(number, excludeID string) error {
	for _, m := range st.s.tasks {
		if m.TaskNumber == number && m.TaskID != excludeID {
			return model.ConflictError{Resource: "transport task", Message: "task number already registered", ConflictWith: m.TaskID}
		}
	}
	return nil
}

func (st *tasks) Create(_ context.Context, m *model.TransportTask) (*model.TransportTask, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	if err := st.numberConflict(m.TaskNumber, ""); err != nil {
		return nil, err
	}
	out := *m
	out.TaskID = newID()
	out.CreatedAt = time.Now().UTC()
	st.s.tasks[out.TaskID] = &out
	cp := out
	return &cp, nil
}

func (st *tasks) Get(_ context.Context, id string) (*model.TransportTask, error) {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	m, ok := st.s.tasks[id]
	if !ok {
		return nil, model.NewNotFoundError("transport task", id)
	}
	cp := *m
	return &cp, nil
}

func (st *tasks) GetByNumber(_ context.Context, number string) (*model.TransportTask, error) {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	for _, m := range st.s.tasks {
		if m.TaskNumber == number {
			cp := *m
			return &cp, nil
		}
	}
	return nil, model.NewNotFoundError("transport task", number)
}

func (st *tasks) List(_ context.Context) ([]*model.TransportTask, error) {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	out := make([]*model.TransportTask, 0, len(st.s.tasks))
	for _, m := range st.s.tasks {
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (st *tasks) ListByCargo(_ context.Context, cargoID string) ([]*model.TransportTask, error) {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	var out []*model.TransportTask
	for _, m := range st.s.tasks {
		if m.CargoID != nil && *m.CargoID == cargoID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (st *tasks) Update(_ context.Context, m *model.TransportTask) (*model.TransportTask, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	cur, ok := st.s.tasks[m.TaskID]
	if !ok {
		return nil, model.NewNotFoundError("transport task", m.TaskID)
	}
	if err := st.numberConflict(m.TaskNumber, m.TaskID); err != nil {
		return nil, err
	}
	out := *m
	out.CreatedAt = cur.CreatedAt
	st.s.tasks[out.TaskID] = &out
	cp := out
	return &cp, nil
}

func (st *tasks) Delete(_ context.Context, id string) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	if _, ok := st.s.tasks[id]; !ok {
		return model.NewNotFoundError("transport task", id)
	}
	delete(st.s.tasks, id)
	return nil
}
