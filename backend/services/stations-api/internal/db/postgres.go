package db

import (
	"context"
	"database/sql"

	libdb "evdash/backend/libs/db"
)

// Schema creates the users and charging_stations tables if they are missing.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		username      VARCHAR(80)  NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role          VARCHAR(16)  NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'user')),
		created_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS charging_stations (
		id           BIGSERIAL PRIMARY KEY,
		name         VARCHAR(200)     NOT NULL,
		latitude     DOUBLE PRECISION NOT NULL CHECK (latitude BETWEEN -90 AND 90),
		longitude    DOUBLE PRECISION NOT NULL CHECK (longitude BETWEEN -180 AND 180),
		charger_type VARCHAR(8)       NOT NULL CHECK (charger_type IN ('AC', 'DC', 'BOTH')),
		power_kw     DOUBLE PRECISION NOT NULL CHECK (power_kw > 0),
		num_spots    INTEGER          NOT NULL CHECK (num_spots > 0),
		status       VARCHAR(16)      NOT NULL DEFAULT 'OPERATIONAL'
		             CHECK (status IN ('OPERATIONAL', 'MAINTENANCE', 'INACTIVE')),
		state        CHAR(2)          NOT NULL,
		city         VARCHAR(100)     NOT NULL,
		created_at   TIMESTAMPTZ      NOT NULL DEFAULT NOW(),
		updated_at   TIMESTAMPTZ      NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_stations_state_city ON charging_stations (state, city)`,
	`CREATE INDEX IF NOT EXISTS idx_stations_status ON charging_stations (status)`,
	`CREATE INDEX IF NOT EXISTS idx_stations_charger_type ON charging_stations (charger_type)`,
}

// NewPostgres connects to Postgres using shared library helper.
func NewPostgres(dsn string) (*sql.DB, error) {
	return libdb.NewPostgresDB(dsn)
}

// Migrate applies Schema.
func Migrate(ctx context.Context, sqlDB *sql.DB) error {
	return libdb.ApplySchema(ctx, sqlDB, Schema)
}
