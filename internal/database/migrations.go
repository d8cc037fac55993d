package database

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		gender TEXT NOT NULL DEFAULT '',
		birthday TEXT NOT NULL DEFAULT '',
		profile_image_url TEXT,
		description TEXT,
		verification_code TEXT,
		is_verified BOOLEAN NOT NULL DEFAULT FALSE,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		default_contact_number TEXT,
		default_address TEXT,
		default_lat DOUBLE PRECISION,
		default_lng DOUBLE PRECISION,
		default_instructions TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price NUMERIC(10,2) NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		is_featured BOOLEAN NOT NULL DEFAULT FALSE,
		is_best_seller BOOLEAN NOT NULL DEFAULT FALSE,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id BIGSERIAL PRIMARY KEY,
		customer_id BIGINT NOT NULL REFERENCES users(id),
		total_price NUMERIC(10,2) NOT NULL,
		order_status TEXT NOT NULL DEFAULT 'Pending',
		delivery_address TEXT NOT NULL,
		contact_number TEXT NOT NULL,
		delivery_lat DOUBLE PRECISION,
		delivery_lng DOUBLE PRECISION,
		delivery_instructions TEXT,
		order_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		rating INT,
		issue_reported TEXT,
		feedback TEXT,
		request_redelivery BOOLEAN NOT NULL DEFAULT FALSE,
		idempotency_key TEXT
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS orders_idempotency_key_idx
		ON orders (customer_id, idempotency_key)
		WHERE idempotency_key IS NOT NULL`,
	`CREATE INDEX IF NOT EXISTS orders_customer_date_idx
		ON orders (customer_id, order_date DESC)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id BIGSERIAL PRIMARY KEY,
		order_id BIGINT NOT NULL REFERENCES orders(id),
		product_id BIGINT NOT NULL REFERENCES products(id),
		quantity INT NOT NULL,
		size TEXT NOT NULL,
		price_at_purchase NUMERIC(10,2) NOT NULL
	)`,
}

// Migrate applies the schema at startup. Every statement is idempotent so the
// server can be restarted against an existing database.
func Migrate(ctx context.Context, pool Pool) error {
	for i, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
