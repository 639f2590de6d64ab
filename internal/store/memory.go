package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"backoffice/internal/models"

	"github.com/shopspring/decimal"
)

// Memory is the in-memory Store backend. It replaces the mock fallback
// lists of the legacy back office: same interface as Postgres, ids
// assigned by the store, selected at startup and never mixed with the
// relational backend.
type Memory struct {
	mu sync.Mutex

	products    map[int64]models.Product
	devices     map[int64]models.Device
	hardware    map[int64]models.Hardware
	peripherals map[int64]models.Peripheral
	customers   map[int64]models.Customer
	orders      map[int64]models.Order
	items       map[int64][]models.LineItem
	sales       map[int64]models.Sale
	payments    map[int64]models.Payment
	discounts   map[int64]models.AppliedDiscount
	loyalty     map[int64]int

	nextProductID  int64
	nextCustomerID int64
	nextOrderID    int64
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		products:    make(map[int64]models.Product),
		devices:     make(map[int64]models.Device),
		hardware:    make(map[int64]models.Hardware),
		peripherals: make(map[int64]models.Peripheral),
		customers:   make(map[int64]models.Customer),
		orders:      make(map[int64]models.Order),
		items:       make(map[int64][]models.LineItem),
		sales:       make(map[int64]models.Sale),
		payments:    make(map[int64]models.Payment),
		discounts:   make(map[int64]models.AppliedDiscount),
		loyalty:     make(map[int64]int),
	}
}

// Ping always succeeds for the in-memory backend
func (m *Memory) Ping(ctx context.Context) error { return nil }

// Close is a no-op for the in-memory backend
func (m *Memory) Close() error { return nil }

func sortedKeys[V any](in map[int64]V) []int64 {
	keys := make([]int64, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// ListProducts retrieves the full catalog
func (m *Memory) ListProducts(ctx context.Context) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	products := make([]models.Product, 0, len(m.products))
	for _, id := range sortedKeys(m.products) {
		products = append(products, m.products[id])
	}
	return products, nil
}

// ListCustomers retrieves all customers
func (m *Memory) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	customers := make([]models.Customer, 0, len(m.customers))
	for _, id := range sortedKeys(m.customers) {
		customers = append(customers, m.customers[id])
	}
	return customers, nil
}

// ListStock retrieves per-product stock levels
func (m *Memory) ListStock(ctx context.Context) ([]models.StockLevel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows := make([]models.StockLevel, 0, len(m.products))
	for _, id := range sortedKeys(m.products) {
		p := m.products[id]
		rows = append(rows, models.StockLevel{
			ProductID:   p.ID,
			ProductName: p.Name,
			Stock:       p.Stock,
			MinStock:    p.MinStock,
		})
	}
	return rows, nil
}

// ListLoyaltyAccounts retrieves all loyalty balances
func (m *Memory) ListLoyaltyAccounts(ctx context.Context) ([]models.LoyaltyAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	accounts := make([]models.LoyaltyAccount, 0, len(m.loyalty))
	for _, id := range sortedKeys(m.loyalty) {
		accounts = append(accounts, models.LoyaltyAccount{CustomerID: id, Points: m.loyalty[id]})
	}
	return accounts, nil
}

// GetOrder retrieves an order and its line items
func (m *Memory) GetOrder(ctx context.Context, id int64) (*models.Order, []models.LineItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[id]
	if !ok {
		return nil, nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
	}

	items := make([]models.LineItem, len(m.items[id]))
	copy(items, m.items[id])
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })

	return &order, items, nil
}

// ApplyCheckout applies every checkout write under one lock. Stock is
// validated for every item before anything mutates, so a shortfall
// leaves the store untouched.
func (m *Memory) ApplyCheckout(ctx context.Context, co *CheckoutOrder) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, item := range co.Items {
		product, ok := m.products[item.ProductID]
		if !ok {
			return 0, fmt.Errorf("product %d: %w", item.ProductID, ErrNotFound)
		}
		if product.Stock < item.Quantity {
			return 0, &OutOfStockError{ProductID: item.ProductID, Requested: item.Quantity}
		}
	}

	m.nextOrderID++
	orderID := m.nextOrderID

	order := co.Order
	order.ID = orderID
	order.LoyaltyPoints = co.Points
	m.orders[orderID] = order

	for _, item := range co.Items {
		product := m.products[item.ProductID]
		product.Stock -= item.Quantity
		m.products[item.ProductID] = product

		m.items[orderID] = append(m.items[orderID], models.LineItem{
			OrderID:      orderID,
			ProductID:    item.ProductID,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			UnitDiscount: decimal.Zero,
			LineTotal:    item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}

	sale := co.Sale
	sale.OrderID = orderID
	m.sales[orderID] = sale

	payment := co.Payment
	payment.OrderID = orderID
	m.payments[orderID] = payment

	m.loyalty[co.Order.CustomerID] += co.Points

	return orderID, nil
}

// GetSale retrieves the sale record for an order
func (m *Memory) GetSale(ctx context.Context, orderID int64) (*models.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sale, ok := m.sales[orderID]
	if !ok {
		return nil, fmt.Errorf("sale for order %d: %w", orderID, ErrNotFound)
	}
	return &sale, nil
}

// CountProducts returns the number of catalog rows
func (m *Memory) CountProducts(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.products), nil
}

// InsertProduct creates a product and assigns its id
func (m *Memory) InsertProduct(ctx context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextProductID++
	p.ID = m.nextProductID
	m.products[p.ID] = *p
	return nil
}

// ProductsMissingSubRecord returns category products lacking their sub-record
func (m *Memory) ProductsMissingSubRecord(ctx context.Context, category string) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var missing []models.Product
	for _, id := range sortedKeys(m.products) {
		p := m.products[id]
		if p.Category != category {
			continue
		}

		var exists bool
		switch category {
		case models.CategoryDevice:
			_, exists = m.devices[id]
		case models.CategoryHardware:
			_, exists = m.hardware[id]
		case models.CategoryPeripheral:
			_, exists = m.peripherals[id]
		default:
			return nil, fmt.Errorf("unknown product category: %s", category)
		}

		if !exists {
			missing = append(missing, p)
		}
	}
	return missing, nil
}

// InsertDevice creates a device sub-record
func (m *Memory) InsertDevice(ctx context.Context, d *models.Device) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.devices[d.ProductID] = *d
	return nil
}

// InsertHardware creates a hardware sub-record
func (m *Memory) InsertHardware(ctx context.Context, h *models.Hardware) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hardware[h.ProductID] = *h
	return nil
}

// InsertPeripheral creates a peripheral sub-record
func (m *Memory) InsertPeripheral(ctx context.Context, p *models.Peripheral) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.peripherals[p.ProductID] = *p
	return nil
}

// CountCustomers returns the number of customer rows
func (m *Memory) CountCustomers(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.customers), nil
}

// InsertCustomer creates a customer and assigns their id
func (m *Memory) InsertCustomer(ctx context.Context, c *models.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextCustomerID++
	c.ID = m.nextCustomerID
	m.customers[c.ID] = *c
	return nil
}

// CustomerIDs returns all customer ids
func (m *Memory) CustomerIDs(ctx context.Context) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return sortedKeys(m.customers), nil
}

// CountOrders returns the number of order rows
func (m *Memory) CountOrders(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders), nil
}

// InsertOrder creates an order and assigns its id
func (m *Memory) InsertOrder(ctx context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextOrderID++
	o.ID = m.nextOrderID
	m.orders[o.ID] = *o
	return nil
}

// OrdersWithoutItems returns orders that have no line items yet
func (m *Memory) OrdersWithoutItems(ctx context.Context) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var ids []int64
	for _, id := range sortedKeys(m.orders) {
		if len(m.items[id]) == 0 {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// InsertLineItem creates a line item row
func (m *Memory) InsertLineItem(ctx context.Context, li *models.LineItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[li.OrderID] = append(m.items[li.OrderID], *li)
	return nil
}

// OrdersWithoutSale returns orders lacking a sale record
func (m *Memory) OrdersWithoutSale(ctx context.Context) ([]OrderShipping, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var rows []OrderShipping
	for _, id := range sortedKeys(m.orders) {
		if _, ok := m.sales[id]; !ok {
			rows = append(rows, OrderShipping{OrderID: id, ShippingMode: m.orders[id].ShippingMode})
		}
	}
	return rows, nil
}

// OrderItemTotals sums an order's line totals and applied item discounts
func (m *Memory) OrderItemTotals(ctx context.Context, orderID int64) (*OrderTotals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	totals := OrderTotals{Subtotal: decimal.Zero, Discount: decimal.Zero}
	for _, li := range m.items[orderID] {
		qty := decimal.NewFromInt(int64(li.Quantity))
		totals.Subtotal = totals.Subtotal.Add(li.LineTotal)
		totals.Discount = totals.Discount.Add(li.UnitDiscount.Mul(qty))
	}
	return &totals, nil
}

// InsertSale creates a sale record
func (m *Memory) InsertSale(ctx context.Context, s *models.Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sales[s.OrderID] = *s
	return nil
}

// SalesWithoutPayment returns sales lacking a payment record
func (m *Memory) SalesWithoutPayment(ctx context.Context) ([]SaleDue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var rows []SaleDue
	for _, id := range sortedKeys(m.sales) {
		if _, ok := m.payments[id]; !ok {
			rows = append(rows, SaleDue{
				OrderID:    id,
				GrandTotal: m.sales[id].GrandTotal,
				OrderDate:  m.orders[id].OrderDate,
			})
		}
	}
	return rows, nil
}

// InsertPayment creates a payment record
func (m *Memory) InsertPayment(ctx context.Context, p *models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[p.OrderID] = *p
	return nil
}

// OrdersWithoutAppliedDiscount returns orders that have line items but no discount record
func (m *Memory) OrdersWithoutAppliedDiscount(ctx context.Context) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var ids []int64
	for _, id := range sortedKeys(m.orders) {
		if len(m.items[id]) == 0 {
			continue
		}
		if _, ok := m.discounts[id]; !ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// OrderOriginalTotals sums an order's undiscounted subtotal and total discount
func (m *Memory) OrderOriginalTotals(ctx context.Context, orderID int64) (*OrderTotals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	totals := OrderTotals{Subtotal: decimal.Zero, Discount: decimal.Zero}
	for _, li := range m.items[orderID] {
		qty := decimal.NewFromInt(int64(li.Quantity))
		totals.Subtotal = totals.Subtotal.Add(li.UnitPrice.Mul(qty))
		totals.Discount = totals.Discount.Add(li.UnitDiscount.Mul(qty))
	}
	return &totals, nil
}

// InsertAppliedDiscount creates an aggregate discount record
func (m *Memory) InsertAppliedDiscount(ctx context.Context, d *models.AppliedDiscount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.discounts[d.OrderID] = *d
	return nil
}

// SalesWithCustomers joins every sale with the owning customer
func (m *Memory) SalesWithCustomers(ctx context.Context) ([]SaleCustomer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var rows []SaleCustomer
	for _, id := range sortedKeys(m.sales) {
		rows = append(rows, SaleCustomer{
			OrderID:    id,
			CustomerID: m.orders[id].CustomerID,
			GrandTotal: m.sales[id].GrandTotal,
		})
	}
	return rows, nil
}

// SetOrderPoints writes the loyalty points earned onto an order
func (m *Memory) SetOrderPoints(ctx context.Context, orderID int64, points int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[orderID]
	if !ok {
		return fmt.Errorf("order %d: %w", orderID, ErrNotFound)
	}
	order.LoyaltyPoints = points
	m.orders[orderID] = order
	return nil
}

// SetLoyaltyBalance upserts a customer's loyalty balance to the given value
func (m *Memory) SetLoyaltyBalance(ctx context.Context, customerID int64, points int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loyalty[customerID] = points
	return nil
}

// CountRows reports per-table row counts; used by generator idempotence tests
func (m *Memory) CountRows() map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()

	itemRows := 0
	for _, items := range m.items {
		itemRows += len(items)
	}

	return map[string]int{
		"products":          len(m.products),
		"devices":           len(m.devices),
		"hardware":          len(m.hardware),
		"peripherals":       len(m.peripherals),
		"customers":         len(m.customers),
		"orders":            len(m.orders),
		"order_items":       itemRows,
		"sales":             len(m.sales),
		"payments":          len(m.payments),
		"applied_discounts": len(m.discounts),
		"loyalty_accounts":  len(m.loyalty),
	}
}
