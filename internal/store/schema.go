package store

import "context"

// schema creates every table the back office uses. Statements are
// idempotent so EnsureSchema can run on every seed invocation.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		city VARCHAR(255) NOT NULL,
		state VARCHAR(8) NOT NULL,
		country VARCHAR(64) NOT NULL,
		registered_at DATE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		category VARCHAR(32) NOT NULL,
		unit_price DECIMAL(10, 2) NOT NULL,
		unit_cost DECIMAL(10, 2) NOT NULL,
		stock INT NOT NULL,
		min_stock INT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS devices (
		product_id BIGINT PRIMARY KEY REFERENCES products(id),
		color VARCHAR(32) NOT NULL,
		dimensions VARCHAR(64) NOT NULL,
		type VARCHAR(32) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS hardware (
		product_id BIGINT PRIMARY KEY REFERENCES products(id),
		power_draw INT NOT NULL,
		tech_spec VARCHAR(128) NOT NULL,
		type VARCHAR(32) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS peripherals (
		product_id BIGINT PRIMARY KEY REFERENCES products(id),
		color VARCHAR(32) NOT NULL,
		connection VARCHAR(32) NOT NULL,
		type VARCHAR(32) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id BIGSERIAL PRIMARY KEY,
		order_date DATE NOT NULL,
		estimated_delivery DATE NOT NULL,
		status VARCHAR(16) NOT NULL,
		priority VARCHAR(16) NOT NULL,
		shipping_mode VARCHAR(16) NOT NULL,
		customer_id BIGINT NOT NULL REFERENCES customers(id),
		loyalty_points INT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		order_id BIGINT NOT NULL REFERENCES orders(id),
		product_id BIGINT NOT NULL REFERENCES products(id),
		quantity INT NOT NULL,
		unit_price DECIMAL(10, 2) NOT NULL,
		unit_discount DECIMAL(10, 2) NOT NULL DEFAULT 0,
		line_total DECIMAL(10, 2) NOT NULL,
		PRIMARY KEY (order_id, product_id)
	)`,
	`CREATE TABLE IF NOT EXISTS sales (
		order_id BIGINT PRIMARY KEY REFERENCES orders(id),
		shipping_cost DECIMAL(10, 2) NOT NULL,
		store_tax DECIMAL(10, 2) NOT NULL,
		payment_fee DECIMAL(10, 2) NOT NULL,
		shipping_fee DECIMAL(10, 2) NOT NULL,
		customer_tax DECIMAL(10, 2) NOT NULL,
		subtotal DECIMAL(10, 2) NOT NULL,
		discount DECIMAL(10, 2) NOT NULL,
		grand_total DECIMAL(10, 2) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		order_id BIGINT PRIMARY KEY REFERENCES orders(id),
		method VARCHAR(16) NOT NULL,
		installments INT NOT NULL,
		payment_date DATE NOT NULL,
		amount_paid DECIMAL(10, 2) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS applied_discounts (
		order_id BIGINT PRIMARY KEY REFERENCES orders(id),
		kind VARCHAR(32) NOT NULL,
		percentage DECIMAL(5, 2) NOT NULL,
		description VARCHAR(255) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS loyalty_accounts (
		customer_id BIGINT PRIMARY KEY REFERENCES customers(id),
		points INT NOT NULL DEFAULT 0
	)`,
}

// EnsureSchema creates any missing tables
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
