package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schemaStatements = []struct {
	name string
	sql  string
}{
	{"users", `CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		phone_number TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		birthdate DATE
	)`},
	{"clients", `CREATE TABLE IF NOT EXISTS clients (
		user_id BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		passport_number TEXT NOT NULL UNIQUE,
		discount_code TEXT
	)`},
	{"employees", `CREATE TABLE IF NOT EXISTS employees (
		user_id BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		employee_number BIGINT NOT NULL UNIQUE,
		profession TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL DEFAULT ''
	)`},
	{"flights", `CREATE TABLE IF NOT EXISTS flights (
		id BIGSERIAL PRIMARY KEY,
		flight_number TEXT NOT NULL UNIQUE,
		departure_city TEXT NOT NULL,
		arrival_city TEXT NOT NULL,
		departure_airport_id BIGINT NOT NULL,
		arrival_airport_id BIGINT NOT NULL,
		departure_time TIMESTAMPTZ NOT NULL,
		arrival_time TIMESTAMPTZ NOT NULL,
		number_of_seats INTEGER NOT NULL CHECK (number_of_seats > 0),
		economy_price_cents BIGINT NOT NULL CHECK (economy_price_cents >= 0),
		business_price_cents BIGINT NOT NULL CHECK (business_price_cents >= 0),
		cancelled BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CHECK (arrival_time >= departure_time),
		CHECK (departure_airport_id <> arrival_airport_id)
	)`},
	{"seat_reservations", `CREATE TABLE IF NOT EXISTS seat_reservations (
		token UUID PRIMARY KEY,
		flight_id BIGINT NOT NULL REFERENCES flights(id) ON DELETE CASCADE,
		client_id BIGINT NOT NULL REFERENCES clients(user_id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (flight_id, client_id)
	)`},
	{"bookings", `CREATE TABLE IF NOT EXISTS bookings (
		id BIGSERIAL PRIMARY KEY,
		flight_id BIGINT NOT NULL REFERENCES flights(id) ON DELETE CASCADE,
		client_id BIGINT NOT NULL REFERENCES clients(user_id) ON DELETE CASCADE,
		seat_type TEXT NOT NULL CHECK (seat_type IN ('ECONOMY', 'BUSINESS')),
		slot_token UUID NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (flight_id, client_id)
	)`},
	{"miles_rewards", `CREATE TABLE IF NOT EXISTS miles_rewards (
		id BIGSERIAL PRIMARY KEY,
		client_id BIGINT NOT NULL REFERENCES clients(user_id) ON DELETE CASCADE,
		flight_id BIGINT NOT NULL REFERENCES flights(id) ON DELETE CASCADE,
		reward_date DATE NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`},
}

// Migrate creates missing tables. It is idempotent.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt.sql); err != nil {
			return fmt.Errorf("create %s table: %w", stmt.name, err)
		}
	}
	return nil
}
