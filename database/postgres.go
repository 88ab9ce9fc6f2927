package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// ConnectPostgres opens a pooled connection to dsn and pings it.
func ConnectPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open PostgreSQL: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}
	zap.L().Info("Connected to PostgreSQL")
	return db, nil
}

// schema is idempotent. reviews_user_room_key allows one review per user and room.
// bookings_no_overlap rejects two active bookings of one room
// whose [check_in, check_out) ranges intersect.
var schema = []string{
	`CREATE EXTENSION IF NOT EXISTS btree_gist`,
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		first_name    TEXT NOT NULL,
		last_name     TEXT NOT NULL DEFAULT '',
		phone         TEXT NOT NULL DEFAULT '',
		address       TEXT NOT NULL DEFAULT '',
		city          TEXT NOT NULL DEFAULT '',
		country       TEXT NOT NULL DEFAULT '',
		zip_code      TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT 'guest',
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS rooms (
		id              TEXT PRIMARY KEY,
		slug            TEXT NOT NULL UNIQUE,
		name            TEXT NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		category        TEXT NOT NULL DEFAULT '',
		price_per_night BIGINT NOT NULL CHECK (price_per_night >= 0),
		max_guests      INTEGER NOT NULL CHECK (max_guests >= 1),
		size_sqm        INTEGER NOT NULL DEFAULT 0,
		bed_type        TEXT NOT NULL DEFAULT '',
		amenities       TEXT[] NOT NULL DEFAULT '{}',
		images          TEXT[] NOT NULL DEFAULT '{}',
		is_available    BOOLEAN NOT NULL DEFAULT TRUE,
		created_at      TIMESTAMPTZ NOT NULL,
		updated_at      TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id                TEXT PRIMARY KEY,
		booking_reference TEXT NOT NULL,
		user_id           TEXT NOT NULL,
		room_id           TEXT NOT NULL,
		room_name         TEXT NOT NULL DEFAULT '',
		check_in          DATE NOT NULL,
		check_out         DATE NOT NULL,
		nights            INTEGER NOT NULL,
		adults            INTEGER NOT NULL,
		children          INTEGER NOT NULL DEFAULT 0,
		rooms_count       INTEGER NOT NULL DEFAULT 1,
		net_price         BIGINT NOT NULL,
		tax_amount        BIGINT NOT NULL,
		total_price       BIGINT NOT NULL,
		special_requests  TEXT NOT NULL DEFAULT '',
		booking_status    TEXT NOT NULL,
		payment_status    TEXT NOT NULL,
		payment_method    TEXT NOT NULL DEFAULT '',
		payment_reference TEXT NOT NULL DEFAULT '',
		created_at        TIMESTAMPTZ NOT NULL,
		updated_at        TIMESTAMPTZ NOT NULL,
		CONSTRAINT bookings_reference_key UNIQUE (booking_reference),
		CONSTRAINT bookings_dates_check CHECK (check_in < check_out)
	)`,
	`ALTER TABLE users
		ADD COLUMN IF NOT EXISTS address  TEXT NOT NULL DEFAULT '',
		ADD COLUMN IF NOT EXISTS city     TEXT NOT NULL DEFAULT '',
		ADD COLUMN IF NOT EXISTS country  TEXT NOT NULL DEFAULT '',
		ADD COLUMN IF NOT EXISTS zip_code TEXT NOT NULL DEFAULT ''`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id                TEXT PRIMARY KEY,
		user_id           TEXT NOT NULL,
		room_id           TEXT NOT NULL,
		booking_id        TEXT NOT NULL DEFAULT '',
		booking_reference TEXT NOT NULL DEFAULT '',
		rating            INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
		comment           TEXT NOT NULL DEFAULT '',
		is_approved       BOOLEAN NOT NULL DEFAULT FALSE,
		author_name       TEXT NOT NULL DEFAULT '',
		room_name         TEXT NOT NULL DEFAULT '',
		created_at        TIMESTAMPTZ NOT NULL,
		updated_at        TIMESTAMPTZ NOT NULL,
		CONSTRAINT reviews_user_room_key UNIQUE (user_id, room_id)
	)`,
	`CREATE INDEX IF NOT EXISTS reviews_room_idx ON reviews (room_id, is_approved, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS bookings_user_idx ON bookings (user_id, created_at DESC)`,
	`DO $$ BEGIN
		ALTER TABLE bookings ADD CONSTRAINT bookings_no_overlap
			EXCLUDE USING gist (room_id WITH =, daterange(check_in, check_out, '[)') WITH &&)
			WHERE (booking_status IN ('pending', 'confirmed', 'checked_in'));
	EXCEPTION WHEN duplicate_object OR duplicate_table THEN NULL;
	END $$`,
}

// MigratePostgres creates the tables, indexes and constraints the stores rely on.
func MigratePostgres(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
