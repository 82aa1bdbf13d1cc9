// Package postgres is the PostgreSQL store adapter, built on the pgx stdlib
// driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/afterglow3292/portops/internal/model"
	"github.com/afterglow3292/portops/internal/store"
)

// Open opens a connection using the pgx stdlib driver and verifies
// connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Bootstrap connects and applies the schema. Idempotent.
func Bootstrap(ctx context.Context, dsn string) (store.Store, error) {
	db, err := Open(dsn)
	if err != nil {
		return nil, err
	}
	for _, ddl := range schemaDDL {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return NewWithDB(db), nil
}

// NewWithDB wires an existing connection.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Ships() store.Ships           { return &ships{db: s.db} }
func (s *pgStore) Ports() store.Ports           { return &ports{db: s.db} }
func (s *pgStore) Berths() store.Berths         { return &berths{db: s.db} }
func (s *pgStore) Voyages() store.Voyages       { return &voyages{db: s.db} }
func (s *pgStore) Cargo() store.CargoStore      { return &cargoStore{db: s.db} }
func (s *pgStore) Warehouses() store.Warehouses { return &warehouses{db: s.db} }
func (s *pgStore) Tasks() store.Tasks           { return &tasks{db: s.db} }

// HealthPing implements health.HealthPinger.
func (s *pgStore) HealthPing(ctx context.Context) error { return s.db.PingContext(ctx) }

func notFound(err error, entity, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return model.NewNotFoundError(entity, id)
	}
	return err
}

// uniqueConflict translates a unique_violation (SQLSTATE 23505) into the
// conflict error the API layer maps to 409.
func uniqueConflict(err error, resource, message string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return model.ConflictError{Resource: resource, Message: message}
	}
	return err
}

// --- Ships ---

type ships struct{ db *sql.DB }

const shipCols = `ship_id, name, imo, capacity_teu, status, created_at`

func scanShip(row interface{ Scan(...any) error }) (*model.Ship, error) {
	var m model.Ship
	if err := row.Scan(&m.ShipID, &m.Name, &m.IMO, &m.CapacityTEU, &m.Status, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *ships) Create(ctx context.Context, m *model.Ship) (*model.Ship, error) {
	out := *m
	out.ShipID = uuid.New().String()
	out.CreatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ships (`+shipCols+`) VALUES ($1,$2,$3,$4,$5,$6)`,
		out.ShipID, out.Name, out.IMO, out.CapacityTEU, out.Status, out.CreatedAt)
	if err != nil {
		return nil, uniqueConflict(err, "ship", "IMO number already registered")
	}
	return &out, nil
}

func (s *ships) Get(ctx context.Context, id string) (*model.Ship, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+shipCols+` FROM ships WHERE ship_id = $1`, id)
	m, err := scanShip(row)
	if err != nil {
		return nil, notFound(err, "ship", id)
	}
	return m, nil
}

func (s *ships) GetByIMO(ctx context.Context, imo string) (*model.Ship, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+shipCols+` FROM ships WHERE imo = $1`, imo)
	m, err := scanShip(row)
	if err != nil {
		return nil, notFound(err, "ship", imo)
	}
	return m, nil
}

func (s *ships) List(ctx context.Context) ([]*model.Ship, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+shipCols+` FROM ships ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	out := []*model.Ship{}
	for rows.Next() {
		m, err := scanShip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *ships) Update(ctx context.Context, m *model.Ship) (*model.Ship, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE ships SET name=$1, imo=$2, capacity_teu=$3, status=$4 WHERE ship_id=$5`,
		m.Name, m.IMO, m.CapacityTEU, m.Status, m.ShipID)
	if err != nil {
		return nil, uniqueConflict(err, "ship", "IMO number already registered")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.NewNotFoundError("ship", m.ShipID)
	}
	return s.Get(ctx, m.ShipID)
}

func (s *ships) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM ships WHERE ship_id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.NewNotFoundError("ship", id)
	}
	return nil
}

// --- Ports ---

type ports struct{ db *sql.DB }

const portCols = `port_id, port_code, port_name, country, city, total_berths, max_vessel_size, latitude, longitude, created_at`

func scanPort(row interface{ Scan(...any) error }) (*model.Port, error) {
	var m model.Port
	if err := row.Scan(&m.PortID, &m.PortCode, &m.PortName, &m.Country, &m.City,
		&m.TotalBerths, &m.MaxVesselSize, &m.Latitude, &m.Longitude, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *ports) Create(ctx context.Context, m *model.Port) (*model.Port, error) {
	out := *m
	out.PortID = uuid.New().String()
	out.CreatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ports (`+portCols+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		out.PortID, out.PortCode, out.PortName, out.Country, out.City,
		out.TotalBerths, out.MaxVesselSize, out.Latitude, out.Longitude, out.CreatedAt)
	if err != nil {
		return nil, uniqueConflict(err, "port", "port code already registered")
	}
	return &out, nil
}

func (s *ports) Get(ctx context.Context, id string) (*model.Port, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+portCols+` FROM ports WHERE port_id = $1`, id)
	m, err := scanPort(row)
	if err != nil {
		return nil, notFound(err, "port", id)
	}
	return m, nil
}

func (s *ports) GetByCode(ctx context.Context, code string) (*model.Port, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+portCols+` FROM ports WHERE port_code = $1`, code)
	m, err := scanPort(row)
	if err != nil {
		return nil, notFound(err, "port", code)
	}
	return m, nil
}

func (s *ports) List(ctx context.Context) ([]*model.Port, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+portCols+` FROM ports ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	out := []*model.Port{}
	for rows.Next() {
		m, err := scanPort(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *ports) Update(ctx context.Context, m *model.Port) (*model.Port, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE ports SET port_code=$1, port_name=$2, country=$3, city=$4, total_berths=$5,
			max_vessel_size=$6, latitude=$7, longitude=$8 WHERE port_id=$9`,
		m.PortCode, m.PortName, m.Country, m.City, m.TotalBerths,
		m.MaxVesselSize, m.Latitude, m.Longitude, m.PortID)
	if err != nil {
		return nil, uniqueConflict(err, "port", "port code already registered")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.NewNotFoundError("port", m.PortID)
	}
	return s.Get(ctx, m.PortID)
}

func (s *ports) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM ports WHERE port_id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.NewNotFoundError("port", id)
	}
	return nil
}

// --- Berth assignments ---

type berths struct{ db *sql.DB }

const berthCols = `assignment_id, port_id, ship_id, berth_number, arrival_time, departure_time, status_kind, status_value, created_at`

func scanBerth(row interface{ Scan(...any) error }) (*model.BerthAssignment, error) {
	var m model.BerthAssignment
	if err := row.Scan(&m.AssignmentID, &m.PortID, &m.ShipID, &m.BerthNumber,
		&m.ArrivalTime, &m.DepartureTime, &m.Status.Kind, &m.Status.Value, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *berths) Create(ctx context.Context, m *model.BerthAssignment) (*model.BerthAssignment, error) {
	out := *m
	out.AssignmentID = uuid.New().String()
	out.CreatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO berth_assignments (`+berthCols+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		out.AssignmentID, out.PortID, out.ShipID, out.BerthNumber,
		out.ArrivalTime, out.DepartureTime, out.Status.Kind, out.Status.Value, out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *berths) Get(ctx context.Context, id string) (*model.BerthAssignment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+berthCols+` FROM berth_assignments WHERE assignment_id = $1`, id)
	m, err := scanBerth(row)
	if err != nil {
		return nil, notFound(err, "berth assignment", id)
	}
	return m, nil
}

func (s *berths) queryBerths(ctx context.Context, query string, args ...any) ([]*model.BerthAssignment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	out := []*model.BerthAssignment{}
	for rows.Next() {
		m, err := scanBerth(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *berths) List(ctx context.Context) ([]*model.BerthAssignment, error) {
	return s.queryBerths(ctx, `SELECT `+berthCols+` FROM berth_assignments ORDER BY created_at`)
}

func (s *berths) ListByBerth(ctx context.Context, portID, berthNumber string) ([]*model.BerthAssignment, error) {
	return s.queryBerths(ctx,
		`SELECT `+berthCols+` FROM berth_assignments WHERE port_id = $1 AND berth_number = $2`,
		portID, berthNumber)
}

func (s *berths) ListByShip(ctx context.Context, shipID string) ([]*model.BerthAssignment, error) {
	return s.queryBerths(ctx,
		`SELECT `+berthCols+` FROM berth_assignments WHERE ship_id = $1`, shipID)
}

func (s *berths) Update(ctx context.Context, m *model.BerthAssignment) (*model.BerthAssignment, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE berth_assignments SET port_id=$1, ship_id=$2, berth_number=$3, arrival_time=$4,
			departure_time=$5, status_kind=$6, status_value=$7 WHERE assignment_id=$8`,
		m.PortID, m.ShipID, m.BerthNumber, m.ArrivalTime,
		m.DepartureTime, m.Status.Kind, m.Status.Value, m.AssignmentID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.NewNotFoundError("berth assignment", m.AssignmentID)
	}
	return s.Get(ctx, m.AssignmentID)
}

func (s *berths) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM berth_assignments WHERE assignment_id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.NewNotFoundError("berth assignment", id)
	}
	return nil
}

// --- Voyage plans ---

type voyages struct{ db *sql.DB }

const voyageCols = `plan_id, voyage_number, ship_id, departure_port_id, arrival_port_id, assigned_berth_id, planned_departure, planned_arrival, actual_departure, actual_arrival, status, created_at`

func scanVoyage(row interface{ Scan(...any) error }) (*model.VoyagePlan, error) {
	var m model.VoyagePlan
	if err := row.Scan(&m.PlanID, &m.VoyageNumber, &m.ShipID, &m.DeparturePortID, &m.ArrivalPortID,
		&m.AssignedBerthID, &m.PlannedDeparture, &m.PlannedArrival,
		&m.ActualDeparture, &m.ActualArrival, &m.Status, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *voyages) Create(ctx context.Context, m *model.VoyagePlan) (*model.VoyagePlan, error) {
	out := *m
	out.PlanID = uuid.New().String()
	out.CreatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO voyage_plans (`+voyageCols+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		out.PlanID, out.VoyageNumber, out.ShipID, out.DeparturePortID, out.ArrivalPortID,
		out.AssignedBerthID, out.PlannedDeparture, out.PlannedArrival,
		out.ActualDeparture, out.ActualArrival, out.Status, out.CreatedAt)
	if err != nil {
		return nil, uniqueConflict(err, "voyage", "voyage number already registered")
	}
	return &out, nil
}

func (s *voyages) Get(ctx context.Context, id string) (*model.VoyagePlan, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+voyageCols+` FROM voyage_plans WHERE plan_id = $1`, id)
	m, err := scanVoyage(row)
	if err != nil {
		return nil, notFound(err, "voyage plan", id)
	}
	return m, nil
}

func (s *voyages) GetByNumber(ctx context.Context, number string) (*model.VoyagePlan, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+voyageCols+` FROM voyage_plans WHERE voyage_number = $1`, number)
	m, err := scanVoyage(row)
	if err != nil {
		return nil, notFound(err, "voyage plan", number)
	}
	return m, nil
}

func (s *voyages) queryVoyages(ctx context.Context, query string, args ...any) ([]*model.VoyagePlan, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	out := []*model.VoyagePlan{}
	for rows.Next() {
		m, err := scanVoyage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *voyages) List(ctx context.Context) ([]*model.VoyagePlan, error) {
	return s.queryVoyages(ctx, `SELECT `+voyageCols+` FROM voyage_plans ORDER BY created_at`)
}

func (s *voyages) ListByShip(ctx context.Context, shipID string) ([]*model.VoyagePlan, error) {
	return s.queryVoyages(ctx,
		`SELECT `+voyageCols+` FROM voyage_plans WHERE ship_id = $1`, shipID)
}

func (s *voyages) Update(ctx context.Context, m *model.VoyagePlan) (*model.VoyagePlan, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE voyage_plans SET voyage_number=$1, ship_id=$2, departure_port_id=$3,
			arrival_port_id=$4, assigned_berth_id=$5, planned_departure=$6, planned_arrival=$7,
			actual_departure=$8, actual_arrival=$9, status=$10 WHERE plan_id=$11`,
		m.VoyageNumber, m.ShipID, m.DeparturePortID,
		m.ArrivalPortID, m.AssignedBerthID, m.PlannedDeparture, m.PlannedArrival,
		m.ActualDeparture, m.ActualArrival, m.Status, m.PlanID)
	if err != nil {
		return nil, uniqueConflict(err, "voyage", "voyage number already registered")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.NewNotFoundError("voyage plan", m.PlanID)
	}
	return s.Get(ctx, m.PlanID)
}

func (s *voyages) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM voyage_plans WHERE plan_id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.NewNotFoundError("voyage plan", id)
	}
	return nil
}

// --- Cargo ---

type cargoStore struct{ db *sql.DB }

const cargoCols = `cargo_id, description, weight, destination, voyage_plan_id, warehouse_id, created_at`

func scanCargo(row interface{ Scan(...any) error }) (*model.Cargo, error) {
	var m model.Cargo
	if err := row.Scan(&m.CargoID, &m.Description, &m.Weight, &m.Destination,
		&m.VoyagePlanID, &m.WarehouseID, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *cargoStore) Create(ctx context.Context, m *model.Cargo) (*model.Cargo, error) {
	out := *m
	out.CargoID = uuid.New().String()
	if out.CreatedAt.IsZero() {
		out.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cargo (`+cargoCols+`) VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		out.CargoID, out.Description, out.Weight, out.Destination,
		out.VoyagePlanID, out.WarehouseID, out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *cargoStore) Get(ctx context.Context, id string) (*model.Cargo, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+cargoCols+` FROM cargo WHERE cargo_id = $1`, id)
	m, err := scanCargo(row)
	if err != nil {
		return nil, notFound(err, "cargo", id)
	}
	return m, nil
}

func (s *cargoStore) queryCargo(ctx context.Context, query string, args ...any) ([]*model.Cargo, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	out := []*model.Cargo{}
	for rows.Next() {
		m, err := scanCargo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *cargoStore) List(ctx context.Context, q string) ([]*model.Cargo, error) {
	if q == "" {
		return s.queryCargo(ctx, `SELECT `+cargoCols+` FROM cargo ORDER BY created_at`)
	}
	like := "%" + q + "%"
	return s.queryCargo(ctx,
		`SELECT `+cargoCols+` FROM cargo
		 WHERE description ILIKE $1 OR destination ILIKE $2
		 ORDER BY created_at`, like, like)
}

func (s *cargoStore) ListByVoyage(ctx context.Context, planID string) ([]*model.Cargo, error) {
	return s.queryCargo(ctx, `SELECT `+cargoCols+` FROM cargo WHERE voyage_plan_id = $1`, planID)
}

func (s *cargoStore) ListByWarehouse(ctx context.Context, warehouseID string) ([]*model.Cargo, error) {
	return s.queryCargo(ctx, `SELECT `+cargoCols+` FROM cargo WHERE warehouse_id = $1`, warehouseID)
}

func (s *cargoStore) Update(ctx context.Context, m *model.Cargo) (*model.Cargo, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE cargo SET description=$1, weight=$2, destination=$3, voyage_plan_id=$4,
			warehouse_id=$5 WHERE cargo_id=$6`,
		m.Description, m.Weight, m.Destination, m.VoyagePlanID, m.WarehouseID, m.CargoID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.NewNotFoundError("cargo", m.CargoID)
	}
	return s.Get(ctx, m.CargoID)
}

func (s *cargoStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM cargo WHERE cargo_id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.NewNotFoundError("cargo", id)
	}
	return nil
}

// --- Warehouses ---

type warehouses struct{ db *sql.DB }

const warehouseCols = `warehouse_id, warehouse_name, port_id, warehouse_type, total_capacity, used_capacity, location, created_at`

func scanWarehouse(row interface{ Scan(...any) error }) (*model.Warehouse, error) {
	var m model.Warehouse
	if err := row.Scan(&m.WarehouseID, &m.WarehouseName, &m.PortID, &m.WarehouseType,
		&m.TotalCapacity, &m.UsedCapacity, &m.Location, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *warehouses) Create(ctx context.Context, m *model.Warehouse) (*model.Warehouse, error) {
	out := *m
	out.WarehouseID = uuid.New().String()
	out.CreatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO warehouses (`+warehouseCols+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		out.WarehouseID, out.WarehouseName, out.PortID, out.WarehouseType,
		out.TotalCapacity, out.UsedCapacity, out.Location, out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *warehouses) Get(ctx context.Context, id string) (*model.Warehouse, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+warehouseCols+` FROM warehouses WHERE warehouse_id = $1`, id)
	m, err := scanWarehouse(row)
	if err != nil {
		return nil, notFound(err, "warehouse", id)
	}
	return m, nil
}

func (s *warehouses) List(ctx context.Context, q string) ([]*model.Warehouse, error) {
	query := `SELECT ` + warehouseCols + ` FROM warehouses ORDER BY created_at`
	var args []any
	if q != "" {
		like := "%" + q + "%"
		query = `SELECT ` + warehouseCols + ` FROM warehouses
			WHERE warehouse_name ILIKE $1 OR warehouse_type ILIKE $2 OR location ILIKE $3
			ORDER BY created_at`
		args = []any{like, like, like}
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	out := []*model.Warehouse{}
	for rows.Next() {
		m, err := scanWarehouse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *warehouses) Update(ctx context.Context, m *model.Warehouse) (*model.Warehouse, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE warehouses SET warehouse_name=$1, port_id=$2, warehouse_type=$3,
			total_capacity=$4, used_capacity=$5, location=$6 WHERE warehouse_id=$7`,
		m.WarehouseName, m.PortID, m.WarehouseType,
		m.TotalCapacity, m.UsedCapacity, m.Location, m.WarehouseID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.NewNotFoundError("warehouse", m.WarehouseID)
	}
	return s.Get(ctx, m.WarehouseID)
}

func (s *warehouses) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM warehouses WHERE warehouse_id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.NewNotFoundError("warehouse", id)
	}
	return nil
}

// --- Transport tasks ---

type tasks struct{ db *sql.DB }

const taskCols = `task_id, task_number, cargo_id, truck_license, driver_name, driver_phone, pickup_location, delivery_location, planned_pickup, actual_pickup, planned_delivery, actual_delivery, status, created_at`

func scanTask(row interface{ Scan(...any) error }) (*model.TransportTask, error) {
	var m model.TransportTask
	if err := row.Scan(&m.TaskID, &m.TaskNumber, &m.CargoID, &m.TruckLicense, &m.DriverName,
		&m.DriverPhone, &m.PickupLocation, &m.DeliveryLocation, &m.PlannedPickup,
		&m.ActualPickup, &m.PlannedDelivery, &m.ActualDelivery, &m.Status, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *tasks) Create(ctx context.Context, m *model.TransportTask) (*model.TransportTask, error) {
	out := *m
	out.TaskID = uuid.New().String()
	out.CreatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transport_tasks (`+taskCols+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		out.TaskID, out.TaskNumber, out.CargoID, out.TruckLicense, out.DriverName,
		out.DriverPhone, out.PickupLocation, out.DeliveryLocation, out.PlannedPickup,
		out.ActualPickup, out.PlannedDelivery, out.ActualDelivery, out.Status, out.CreatedAt)
	if err != nil {
		return nil, uniqueConflict(err, "transport task", "task number already registered")
	}
	return &out, nil
}

func (s *tasks) Get(ctx context.Context, id string) (*model.TransportTask, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskCols+` FROM transport_tasks WHERE task_id = $1`, id)
	m, err := scanTask(row)
	if err != nil {
		return nil, notFound(err, "transport task", id)
	}
	return m, nil
}

func (s *tasks) GetByNumber(ctx context.Context, number string) (*model.TransportTask, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+taskCols+` FROM transport_tasks WHERE task_number = $1`, number)
	m, err := scanTask(row)
	if err != nil {
		return nil, notFound(err, "transport task", number)
	}
	return m, nil
}

func (s *tasks) queryTasks(ctx context.Context, query string, args ...any) ([]*model.TransportTask, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	out := []*model.TransportTask{}
	for rows.Next() {
		m, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *tasks) List(ctx context.Context) ([]*model.TransportTask, error) {
	return s.queryTasks(ctx, `SELECT `+taskCols+` FROM transport_tasks ORDER BY created_at`)
}

func (s *tasks) ListByCargo(ctx context.Context, cargoID string) ([]*model.TransportTask, error) {
	return s.queryTasks(ctx, `SELECT `+taskCols+` FROM transport_tasks WHERE cargo_id = $1`, cargoID)
}

func (s *tasks) Update(ctx context.Context, m *model.TransportTask) (*model.TransportTask, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE transport_tasks SET task_number=$1, cargo_id=$2, truck_license=$3, driver_name=$4,
			driver_phone=$5, pickup_location=$6, delivery_location=$7, planned_pickup=$8,
			actual_pickup=$9, planned_delivery=$10, actual_delivery=$11, status=$12
		 WHERE task_id=$13`,
		m.TaskNumber, m.CargoID, m.TruckLicense, m.DriverName,
		m.DriverPhone, m.PickupLocation, m.DeliveryLocation, m.PlannedPickup,
		m.ActualPickup, m.PlannedDelivery, m.ActualDelivery, m.Status, m.TaskID)
	if err != nil {
		return nil, uniqueConflict(err, "transport task", "task number already registered")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.NewNotFoundError("transport task", m.TaskID)
	}
	return s.Get(ctx, m.TaskID)
}

func (s *tasks) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transport_tasks WHERE task_id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.NewNotFoundError("transport task", id)
	}
	return nil
}
