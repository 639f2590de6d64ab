package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"backoffice/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Postgres is the relational Store backend
type Postgres struct {
	db *sqlx.DB
}

// NewPostgres connects to the database and configures the pool
func NewPostgres(databaseURL string) (*Postgres, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Postgres{db: db}, nil
}

// Ping checks database connectivity
func (s *Postgres) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection
func (s *Postgres) Close() error {
	return s.db.Close()
}

// ListProducts retrieves the full catalog
func (s *Postgres) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products, "SELECT * FROM products ORDER BY id")
	return products, err
}

// ListCustomers retrieves all customers
func (s *Postgres) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	err := s.db.SelectContext(ctx, &customers, "SELECT * FROM customers ORDER BY id")
	return customers, err
}

// ListStock retrieves per-product stock levels
func (s *Postgres) ListStock(ctx context.Context) ([]models.StockLevel, error) {
	var rows []models.StockLevel
	err := s.db.SelectContext(ctx, &rows,
		"SELECT id AS product_id, name AS product_name, stock, min_stock FROM products ORDER BY id")
	return rows, err
}

// ListLoyaltyAccounts retrieves all loyalty balances
func (s *Postgres) ListLoyaltyAccounts(ctx context.Context) ([]models.LoyaltyAccount, error) {
	var accounts []models.LoyaltyAccount
	err := s.db.SelectContext(ctx, &accounts, "SELECT * FROM loyalty_accounts ORDER BY customer_id")
	return accounts, err
}

// GetOrder retrieves an order and its line items
func (s *Postgres) GetOrder(ctx context.Context, id int64) (*models.Order, []models.LineItem, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, nil, err
	}

	var items []models.LineItem
	if err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM order_items WHERE order_id = $1 ORDER BY product_id", id); err != nil {
		return nil, nil, err
	}

	return &order, items, nil
}

// GetSale retrieves the sale record for an order
func (s *Postgres) GetSale(ctx context.Context, orderID int64) (*models.Sale, error) {
	var sale models.Sale
	err := s.db.GetContext(ctx, &sale, "SELECT * FROM sales WHERE order_id = $1", orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sale for order %d: %w", orderID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// CountProducts returns the number of catalog rows
func (s *Postgres) CountProducts(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM products")
	return count, err
}

// InsertProduct creates a product and assigns its id
func (s *Postgres) InsertProduct(ctx context.Context, p *models.Product) error {
	query := `
		INSERT INTO products (name, category, unit_price, unit_cost, stock, min_stock)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	return s.db.GetContext(ctx, &p.ID, query,
		p.Name, p.Category, p.UnitPrice, p.UnitCost, p.Stock, p.MinStock)
}

// ProductsMissingSubRecord returns category products lacking their sub-record
func (s *Postgres) ProductsMissingSubRecord(ctx context.Context, category string) ([]models.Product, error) {
	sub, ok := subRecordTable[category]
	if !ok {
		return nil, fmt.Errorf("unknown product category: %s", category)
	}

	var products []models.Product
	query := fmt.Sprintf(`
		SELECT * FROM products
		WHERE category = $1
		AND id NOT IN (SELECT product_id FROM %s)
		ORDER BY id`, sub)
	err := s.db.SelectContext(ctx, &products, query, category)
	return products, err
}

var subRecordTable = map[string]string{
	models.CategoryDevice:     "devices",
	models.CategoryHardware:   "hardware",
	models.CategoryPeripheral: "peripherals",
}

// InsertDevice creates a device sub-record
func (s *Postgres) InsertDevice(ctx context.Context, d *models.Device) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO devices (product_id, color, dimensions, type) VALUES ($1, $2, $3, $4)",
		d.ProductID, d.Color, d.Dimensions, d.Type)
	return err
}

// InsertHardware creates a hardware sub-record
func (s *Postgres) InsertHardware(ctx context.Context, h *models.Hardware) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO hardware (product_id, power_draw, tech_spec, type) VALUES ($1, $2, $3, $4)",
		h.ProductID, h.PowerDraw, h.TechSpec, h.Type)
	return err
}

// InsertPeripheral creates a peripheral sub-record
func (s *Postgres) InsertPeripheral(ctx context.Context, p *models.Peripheral) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO peripherals (product_id, color, connection, type) VALUES ($1, $2, $3, $4)",
		p.ProductID, p.Color, p.Connection, p.Type)
	return err
}

// CountCustomers returns the number of customer rows
func (s *Postgres) CountCustomers(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM customers")
	return count, err
}

// InsertCustomer creates a customer and assigns their id
func (s *Postgres) InsertCustomer(ctx context.Context, c *models.Customer) error {
	query := `
		INSERT INTO customers (name, city, state, country, registered_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	return s.db.GetContext(ctx, &c.ID, query,
		c.Name, c.City, c.State, c.Country, c.RegisteredAt)
}

// CustomerIDs returns all customer ids
func (s *Postgres) CustomerIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := s.db.SelectContext(ctx, &ids, "SELECT id FROM customers ORDER BY id")
	return ids, err
}

// CountOrders returns the number of order rows
func (s *Postgres) CountOrders(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM orders")
	return count, err
}

// InsertOrder creates an order and assigns its id
func (s *Postgres) InsertOrder(ctx context.Context, o *models.Order) error {
	query := `
		INSERT INTO orders (order_date, estimated_delivery, status, priority, shipping_mode, customer_id, loyalty_points)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	return s.db.GetContext(ctx, &o.ID, query,
		o.OrderDate, o.EstimatedDelivery, o.Status, o.Priority, o.ShippingMode, o.CustomerID, o.LoyaltyPoints)
}

// OrdersWithoutItems returns orders that have no line items yet
func (s *Postgres) OrdersWithoutItems(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := s.db.SelectContext(ctx, &ids, `
		SELECT id FROM orders
		WHERE id NOT IN (SELECT order_id FROM order_items)
		ORDER BY id`)
	return ids, err
}

// InsertLineItem creates a line item row
func (s *Postgres) InsertLineItem(ctx context.Context, li *models.LineItem) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO order_items (order_id, product_id, quantity, unit_price, unit_discount, line_total)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		li.OrderID, li.ProductID, li.Quantity, li.UnitPrice, li.UnitDiscount, li.LineTotal)
	return err
}

// OrdersWithoutSale returns orders lacking a sale record
func (s *Postgres) OrdersWithoutSale(ctx context.Context) ([]OrderShipping, error) {
	var rows []OrderShipping
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id AS order_id, shipping_mode FROM orders
		WHERE id NOT IN (SELECT order_id FROM sales)
		ORDER BY id`)
	return rows, err
}

// OrderItemTotals sums an order's line totals and applied item discounts
func (s *Postgres) OrderItemTotals(ctx context.Context, orderID int64) (*OrderTotals, error) {
	var totals OrderTotals
	err := s.db.GetContext(ctx, &totals, `
		SELECT
			COALESCE(SUM(line_total), 0) AS subtotal,
			COALESCE(SUM(unit_discount * quantity), 0) AS discount
		FROM order_items
		WHERE order_id = $1`, orderID)
	return &totals, err
}

// InsertSale creates a sale record
func (s *Postgres) InsertSale(ctx context.Context, sale *models.Sale) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sales (order_id, shipping_cost, store_tax, payment_fee, shipping_fee, customer_tax, subtotal, discount, grand_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		sale.OrderID, sale.ShippingCost, sale.StoreTax, sale.PaymentFee, sale.ShippingFee,
		sale.CustomerTax, sale.Subtotal, sale.Discount, sale.GrandTotal)
	return err
}

// SalesWithoutPayment returns sales lacking a payment record
func (s *Postgres) SalesWithoutPayment(ctx context.Context) ([]SaleDue, error) {
	var rows []SaleDue
	err := s.db.SelectContext(ctx, &rows, `
		SELECT s.order_id, s.grand_total, o.order_date
		FROM sales s
		JOIN orders o ON o.id = s.order_id
		WHERE s.order_id NOT IN (SELECT order_id FROM payments)
		ORDER BY s.order_id`)
	return rows, err
}

// InsertPayment creates a payment record
func (s *Postgres) InsertPayment(ctx context.Context, p *models.Payment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payments (order_id, method, installments, payment_date, amount_paid)
		VALUES ($1, $2, $3, $4, $5)`,
		p.OrderID, p.Method, p.Installments, p.PaymentDate, p.AmountPaid)
	return err
}

// OrdersWithoutAppliedDiscount returns orders that have line items but no discount record
func (s *Postgres) OrdersWithoutAppliedDiscount(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := s.db.SelectContext(ctx, &ids, `
		SELECT DISTINCT o.id
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		WHERE o.id NOT IN (SELECT order_id FROM applied_discounts)
		ORDER BY o.id`)
	return ids, err
}

// OrderOriginalTotals sums an order's undiscounted subtotal and total discount
func (s *Postgres) OrderOriginalTotals(ctx context.Context, orderID int64) (*OrderTotals, error) {
	var totals OrderTotals
	err := s.db.GetContext(ctx, &totals, `
		SELECT
			COALESCE(SUM(quantity * unit_price), 0) AS subtotal,
			COALESCE(SUM(quantity * unit_discount), 0) AS discount
		FROM order_items
		WHERE order_id = $1`, orderID)
	return &totals, err
}

// InsertAppliedDiscount creates an aggregate discount record
func (s *Postgres) InsertAppliedDiscount(ctx context.Context, d *models.AppliedDiscount) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO applied_discounts (order_id, kind, percentage, description)
		VALUES ($1, $2, $3, $4)`,
		d.OrderID, d.Kind, d.Percentage, d.Description)
	return err
}

// SalesWithCustomers joins every sale with the owning customer
func (s *Postgres) SalesWithCustomers(ctx context.Context) ([]SaleCustomer, error) {
	var rows []SaleCustomer
	err := s.db.SelectContext(ctx, &rows, `
		SELECT s.order_id, o.customer_id, s.grand_total
		FROM sales s
		JOIN orders o ON o.id = s.order_id
		ORDER BY s.order_id`)
	return rows, err
}

// SetOrderPoints writes the loyalty points earned onto an order
func (s *Postgres) SetOrderPoints(ctx context.Context, orderID int64, points int) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE orders SET loyalty_points = $1 WHERE id = $2", points, orderID)
	return err
}

// SetLoyaltyBalance upserts a customer's loyalty balance to the given value
func (s *Postgres) SetLoyaltyBalance(ctx context.Context, customerID int64, points int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO loyalty_accounts (customer_id, points) VALUES ($1, $2)
		ON CONFLICT (customer_id) DO UPDATE SET points = EXCLUDED.points`,
		customerID, points)
	return err
}
