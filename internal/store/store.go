package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backoffice/internal/models"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("not found")

// OutOfStockError aborts a checkout naming the offending product
type OutOfStockError struct {
	ProductID int64
	Requested int
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d", e.ProductID, e.Requested)
}

// CheckoutItem is one distinct product within a checkout write
type CheckoutItem struct {
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
}

// CheckoutOrder carries every write a checkout applies as a unit:
// order header, line items, stock decrements, sale, payment and the
// loyalty point increment. Either all of it is persisted or none.
type CheckoutOrder struct {
	Order   models.Order
	Items   []CheckoutItem
	Sale    models.Sale
	Payment models.Payment
	Points  int
}

// OrderShipping pairs an order id with its shipping mode
type OrderShipping struct {
	OrderID      int64               `db:"order_id"`
	ShippingMode models.ShippingMode `db:"shipping_mode"`
}

// OrderTotals aggregates an order's line items
type OrderTotals struct {
	Subtotal decimal.Decimal `db:"subtotal"`
	Discount decimal.Decimal `db:"discount"`
}

// SaleDue is a sale awaiting a payment record
type SaleDue struct {
	OrderID    int64           `db:"order_id"`
	GrandTotal decimal.Decimal `db:"grand_total"`
	OrderDate  time.Time       `db:"order_date"`
}

// SaleCustomer joins a sale with the owning customer
type SaleCustomer struct {
	OrderID    int64           `db:"order_id"`
	CustomerID int64           `db:"customer_id"`
	GrandTotal decimal.Decimal `db:"grand_total"`
}

// Store is the persistence boundary shared by the checkout processor,
// the data generator and the read endpoints. Two backends implement it:
// Postgres and an in-memory store. The backend is chosen at startup and
// never mixed at runtime.
type Store interface {
	Ping(ctx context.Context) error
	Close() error

	// Reads backing the catalog, stock, customer and loyalty endpoints.
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	ListStock(ctx context.Context) ([]models.StockLevel, error)
	ListLoyaltyAccounts(ctx context.Context) ([]models.LoyaltyAccount, error)
	GetOrder(ctx context.Context, id int64) (*models.Order, []models.LineItem, error)
	GetSale(ctx context.Context, orderID int64) (*models.Sale, error)

	// ApplyCheckout persists a checkout atomically and returns the
	// store-assigned order id. Stock decrements are conditional; a
	// shortfall fails with *OutOfStockError and nothing is written.
	ApplyCheckout(ctx context.Context, co *CheckoutOrder) (int64, error)

	// Generator primitives, one batch step each. Inserts assign ids
	// back onto the passed structs.
	CountProducts(ctx context.Context) (int, error)
	InsertProduct(ctx context.Context, p *models.Product) error
	ProductsMissingSubRecord(ctx context.Context, category string) ([]models.Product, error)
	InsertDevice(ctx context.Context, d *models.Device) error
	InsertHardware(ctx context.Context, h *models.Hardware) error
	InsertPeripheral(ctx context.Context, p *models.Peripheral) error
	CountCustomers(ctx context.Context) (int, error)
	InsertCustomer(ctx context.Context, c *models.Customer) error
	CustomerIDs(ctx context.Context) ([]int64, error)
	CountOrders(ctx context.Context) (int, error)
	InsertOrder(ctx context.Context, o *models.Order) error
	OrdersWithoutItems(ctx context.Context) ([]int64, error)
	InsertLineItem(ctx context.Context, li *models.LineItem) error
	OrdersWithoutSale(ctx context.Context) ([]OrderShipping, error)
	OrderItemTotals(ctx context.Context, orderID int64) (*OrderTotals, error)
	InsertSale(ctx context.Context, s *models.Sale) error
	SalesWithoutPayment(ctx context.Context) ([]SaleDue, error)
	InsertPayment(ctx context.Context, p *models.Payment) error
	OrdersWithoutAppliedDiscount(ctx context.Context) ([]int64, error)
	OrderOriginalTotals(ctx context.Context, orderID int64) (*OrderTotals, error)
	InsertAppliedDiscount(ctx context.Context, d *models.AppliedDiscount) error
	SalesWithCustomers(ctx context.Context) ([]SaleCustomer, error)
	SetOrderPoints(ctx context.Context, orderID int64, points int) error
	SetLoyaltyBalance(ctx context.Context, customerID int64, points int) error
}
