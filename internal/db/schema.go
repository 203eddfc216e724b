package db

import (
	"context"
	"fmt"
)

// One confirmed booking per bus seat is enforced by the schema: a generated
// column with a unique key on MySQL, a partial unique index on Postgres.
// pnr is NULL only inside the booking transaction.
var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	email VARCHAR(255) NOT NULL,
	password_hash VARCHAR(255) NOT NULL,
	phone VARCHAR(32) NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uq_users_email (email)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
	`CREATE TABLE IF NOT EXISTS routes (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	from_city VARCHAR(100) NOT NULL,
	to_city VARCHAR(100) NOT NULL,
	fare DECIMAL(10,2) NOT NULL,
	distance_km INT NULL,
	KEY idx_routes_cities (from_city, to_city)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
	`CREATE TABLE IF NOT EXISTS buses (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	route_id BIGINT NOT NULL,
	bus_number VARCHAR(32) NOT NULL,
	total_seats INT NOT NULL,
	departure_date CHAR(10) NOT NULL,
	departure_time CHAR(5) NOT NULL,
	KEY idx_buses_route (route_id, departure_date, departure_time),
	CONSTRAINT chk_buses_total_seats CHECK (total_seats > 0),
	CONSTRAINT fk_buses_route FOREIGN KEY (route_id) REFERENCES routes(id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
	`CREATE TABLE IF NOT EXISTS bookings (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	user_id BIGINT NULL,
	bus_id BIGINT NOT NULL,
	seat_number INT NOT NULL,
	pnr CHAR(10) NULL,
	status VARCHAR(16) NOT NULL DEFAULT 'confirmed',
	booking_date TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	active_seat INT AS (IF(status = 'confirmed', seat_number, NULL)) STORED,
	UNIQUE KEY uq_bookings_pnr (pnr),
	UNIQUE KEY uq_bookings_active_seat (bus_id, active_seat),
	KEY idx_bookings_bus_status (bus_id, status),
	KEY idx_bookings_user (user_id),
	CONSTRAINT chk_bookings_status CHECK (status IN ('confirmed', 'cancelled')),
	CONSTRAINT chk_bookings_seat CHECK (seat_number > 0),
	CONSTRAINT fk_bookings_bus FOREIGN KEY (bus_id) REFERENCES buses(id),
	CONSTRAINT fk_bookings_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE SET NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
	`CREATE TABLE IF NOT EXISTS feedback (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	user_id BIGINT NULL,
	name VARCHAR(255) NULL,
	email VARCHAR(255) NULL,
	rating TINYINT NOT NULL,
	comments TEXT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	CONSTRAINT chk_feedback_rating CHECK (rating BETWEEN 1 AND 5),
	CONSTRAINT fk_feedback_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE SET NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	email VARCHAR(255) NOT NULL UNIQUE,
	password_hash VARCHAR(255) NOT NULL,
	phone VARCHAR(32),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE TABLE IF NOT EXISTS routes (
	id BIGSERIAL PRIMARY KEY,
	from_city VARCHAR(100) NOT NULL,
	to_city VARCHAR(100) NOT NULL,
	fare NUMERIC(10,2) NOT NULL,
	distance_km INT
)`,
	`CREATE TABLE IF NOT EXISTS buses (
	id BIGSERIAL PRIMARY KEY,
	route_id BIGINT NOT NULL REFERENCES routes(id),
	bus_number VARCHAR(32) NOT NULL,
	total_seats INT NOT NULL CHECK (total_seats > 0),
	departure_date CHAR(10) NOT NULL,
	departure_time CHAR(5) NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_buses_route ON buses (route_id, departure_date, departure_time)`,
	`CREATE TABLE IF NOT EXISTS bookings (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT REFERENCES users(id) ON DELETE SET NULL,
	bus_id BIGINT NOT NULL REFERENCES buses(id),
	seat_number INT NOT NULL CHECK (seat_number > 0),
	pnr CHAR(10) UNIQUE,
	status VARCHAR(16) NOT NULL DEFAULT 'confirmed' CHECK (status IN ('confirmed', 'cancelled')),
	booking_date TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_bookings_active_seat ON bookings (bus_id, seat_number) WHERE status = 'confirmed'`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_bus_status ON bookings (bus_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_user ON bookings (user_id)`,
	`CREATE TABLE IF NOT EXISTS feedback (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT REFERENCES users(id) ON DELETE SET NULL,
	name VARCHAR(255),
	email VARCHAR(255),
	rating SMALLINT NOT NULL CHECK (rating BETWEEN 1 AND 5),
	comments TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
}

// Schema returns the DDL statements for the dialect, in dependency order.
func (d Dialect) Schema() []string {
	if d == Postgres {
		return postgresSchema
	}
	return mysqlSchema
}

// EnsureSchema creates missing tables. Existing tables are left untouched.
func EnsureSchema(ctx context.Context, q Querier, d Dialect) error {
	for i, stmt := range d.Schema() {
		if _, err := q.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
