package postgres

var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS ships (
		ship_id      TEXT PRIMARY KEY,
		name         TEXT NOT NULL,
		imo          TEXT NOT NULL UNIQUE,
		capacity_teu INTEGER NOT NULL,
		status       TEXT NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ports (
		port_id         TEXT PRIMARY KEY,
		port_code       TEXT NOT NULL UNIQUE,
		port_name       TEXT NOT NULL,
		country         TEXT NOT NULL,
		city            TEXT NOT NULL,
		total_berths    INTEGER NOT NULL,
		max_vessel_size DOUBLE PRECISION,
		latitude        DOUBLE PRECISION,
		longitude       DOUBLE PRECISION,
		created_at      TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS berth_assignments (
		assignment_id  TEXT PRIMARY KEY,
		port_id        TEXT NOT NULL,
		ship_id        TEXT,
		berth_number   TEXT NOT NULL,
		arrival_time   TIMESTAMPTZ,
		departure_time TIMESTAMPTZ,
		status_kind    TEXT NOT NULL,
		status_value   TEXT NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_berth_assignments_berth
		ON berth_assignments (port_id, berth_number)`,
	`CREATE TABLE IF NOT EXISTS voyage_plans (
		plan_id           TEXT PRIMARY KEY,
		voyage_number     TEXT NOT NULL UNIQUE,
		ship_id           TEXT NOT NULL,
		departure_port_id TEXT NOT NULL,
		arrival_port_id   TEXT NOT NULL,
		assigned_berth_id TEXT,
		planned_departure TIMESTAMPTZ NOT NULL,
		planned_arrival   TIMESTAMPTZ NOT NULL,
		actual_departure  TIMESTAMPTZ,
		actual_arrival    TIMESTAMPTZ,
		status            TEXT NOT NULL,
		created_at        TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS cargo (
		cargo_id       TEXT PRIMARY KEY,
		description    TEXT NOT NULL,
		weight         DOUBLE PRECISION NOT NULL,
		destination    TEXT NOT NULL,
		voyage_plan_id TEXT,
		warehouse_id   TEXT,
		created_at     TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS warehouses (
		warehouse_id   TEXT PRIMARY KEY,
		warehouse_name TEXT NOT NULL,
		port_id        TEXT,
		warehouse_type TEXT NOT NULL,
		total_capacity DOUBLE PRECISION NOT NULL,
		used_capacity  DOUBLE PRECISION NOT NULL,
		location       TEXT,
		created_at     TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS transport_tasks (
		task_id           TEXT PRIMARY KEY,
		task_number       TEXT NOT NULL UNIQUE,
		cargo_id          TEXT,
		truck_license     TEXT NOT NULL,
		driver_name       TEXT NOT NULL,
		driver_phone      TEXT,
		pickup_location   TEXT NOT NULL,
		delivery_location TEXT NOT NULL,
		planned_pickup    TIMESTAMPTZ,
		actual_pickup     TIMESTAMPTZ,
		planned_delivery  TIMESTAMPTZ,
		actual_delivery   TIMESTAMPTZ,
		status            TEXT NOT NULL,
		created_at        TIMESTAMPTZ NOT NULL
	)`,
}
