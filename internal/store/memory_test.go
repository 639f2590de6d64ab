package store

import (
	"context"
	"testing"
	"time"

	"backoffice/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func addProduct(t *testing.T, m *Memory, name, category string, price float64, stock int) int64 {
	t.Helper()

	p := &models.Product{
		Name:      name,
		Category:  category,
		UnitPrice: money(price),
		UnitCost:  money(price * 0.6),
		Stock:     stock,
		MinStock:  2,
	}
	require.NoError(t, m.InsertProduct(context.Background(), p))
	return p.ID
}

func addCustomer(t *testing.T, m *Memory) int64 {
	t.Helper()

	c := &models.Customer{
		Name:    "Jamie Doe",
		City:    "Austin",
		State:   "TX",
		Country: "USA",
	}
	require.NoError(t, m.InsertCustomer(context.Background(), c))
	return c.ID
}

func checkoutFixture(custID, prodID int64, qty int) *CheckoutOrder {
	total := money(100).Mul(decimal.NewFromInt(int64(qty)))
	today := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	return &CheckoutOrder{
		Order: models.Order{
			OrderDate:         today,
			EstimatedDelivery: today,
			Status:            models.OrderStatusCompleted,
			Priority:          models.PriorityMedium,
			ShippingMode:      models.ShippingDelivery,
			CustomerID:        custID,
		},
		Items: []CheckoutItem{
			{ProductID: prodID, Quantity: qty, UnitPrice: money(100)},
		},
		Sale: models.Sale{
			Subtotal:   total,
			GrandTotal: total,
		},
		Payment: models.Payment{
			Method:       models.PaymentPix,
			Installments: 1,
			PaymentDate:  today,
			AmountPaid:   total,
		},
		Points: qty * 10,
	}
}

func TestMemoryAssignsSequentialIDs(t *testing.T) {
	m := NewMemory()

	first := addProduct(t, m, "Keyboard", models.CategoryPeripheral, 89.90, 10)
	second := addProduct(t, m, "Mouse", models.CategoryPeripheral, 39.90, 10)
	assert.Equal(t, first+1, second)

	c1 := addCustomer(t, m)
	c2 := addCustomer(t, m)
	assert.Equal(t, c1+1, c2)
}

func TestMemoryApplyCheckout(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	custID := addCustomer(t, m)
	prodID := addProduct(t, m, "Headset", models.CategoryPeripheral, 100, 5)

	orderID, err := m.ApplyCheckout(ctx, checkoutFixture(custID, prodID, 2))
	require.NoError(t, err)

	order, items, err := m.GetOrder(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 20, order.LoyaltyPoints)

	stock, err := m.ListStock(ctx)
	require.NoError(t, err)
	require.Len(t, stock, 1)
	assert.Equal(t, 3, stock[0].Stock)

	accounts, err := m.ListLoyaltyAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, 20, accounts[0].Points)
}

func TestMemoryApplyCheckoutAccumulatesLoyalty(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	custID := addCustomer(t, m)
	prodID := addProduct(t, m, "Webcam", models.CategoryPeripheral, 100, 10)

	_, err := m.ApplyCheckout(ctx, checkoutFixture(custID, prodID, 1))
	require.NoError(t, err)
	_, err = m.ApplyCheckout(ctx, checkoutFixture(custID, prodID, 2))
	require.NoError(t, err)

	accounts, err := m.ListLoyaltyAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, 30, accounts[0].Points)
}

func TestMemoryApplyCheckoutInsufficientStock(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	custID := addCustomer(t, m)
	prodID := addProduct(t, m, "Printer", models.CategoryPeripheral, 100, 1)

	before := m.CountRows()

	_, err := m.ApplyCheckout(ctx, checkoutFixture(custID, prodID, 2))

	var oos *OutOfStockError
	require.ErrorAs(t, err, &oos)
	assert.Equal(t, prodID, oos.ProductID)

	assert.Equal(t, before, m.CountRows())

	stock, err := m.ListStock(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stock[0].Stock)
}

func TestMemoryApplyCheckoutUnknownProduct(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	custID := addCustomer(t, m)

	_, err := m.ApplyCheckout(ctx, checkoutFixture(custID, 999, 1))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryGetOrderNotFound(t *testing.T) {
	m := NewMemory()

	_, _, err := m.GetOrder(context.Background(), 42)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryProductsMissingSubRecord(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	devID := addProduct(t, m, "Tablet A10", models.CategoryDevice, 449.90, 10)
	addProduct(t, m, "SSD NVMe 1TB", models.CategoryHardware, 109.90, 10)

	missing, err := m.ProductsMissingSubRecord(ctx, models.CategoryDevice)
	require.NoError(t, err)
	require.Len(t, missing, 1)
	assert.Equal(t, devID, missing[0].ID)

	require.NoError(t, m.InsertDevice(ctx, &models.Device{
		ProductID: devID,
		Color:     "black",
		Type:      "tablet",
	}))

	missing, err = m.ProductsMissingSubRecord(ctx, models.CategoryDevice)
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestMemoryPendingRowQueries(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	custID := addCustomer(t, m)
	prodID := addProduct(t, m, "Monitor 27 QHD", models.CategoryPeripheral, 299.90, 10)

	o := &models.Order{
		OrderDate:         time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
		EstimatedDelivery: time.Date(2024, 2, 17, 0, 0, 0, 0, time.UTC),
		Status:            models.OrderStatusPending,
		Priority:          models.PriorityMedium,
		ShippingMode:      models.ShippingDelivery,
		CustomerID:        custID,
	}
	require.NoError(t, m.InsertOrder(ctx, o))

	ids, err := m.OrdersWithoutItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{o.ID}, ids)

	require.NoError(t, m.InsertLineItem(ctx, &models.LineItem{
		OrderID:      o.ID,
		ProductID:    prodID,
		Quantity:     1,
		UnitPrice:    money(299.90),
		UnitDiscount: money(29.90),
		LineTotal:    money(270.00),
	}))

	ids, err = m.OrdersWithoutItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	pending, err := m.OrdersWithoutSale(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, o.ID, pending[0].OrderID)
	assert.Equal(t, models.ShippingDelivery, pending[0].ShippingMode)

	totals, err := m.OrderOriginalTotals(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, totals.Subtotal.Equal(money(299.90)))
	assert.True(t, totals.Discount.Equal(money(29.90)))

	require.NoError(t, m.InsertSale(ctx, &models.Sale{
		OrderID:    o.ID,
		Subtotal:   money(299.90),
		Discount:   money(29.90),
		GrandTotal: money(270.00),
	}))

	dues, err := m.SalesWithoutPayment(ctx)
	require.NoError(t, err)
	require.Len(t, dues, 1)
	assert.True(t, dues[0].GrandTotal.Equal(money(270.00)))

	require.NoError(t, m.InsertPayment(ctx, &models.Payment{
		OrderID:      o.ID,
		Method:       models.PaymentBoleto,
		Installments: 1,
		AmountPaid:   money(270.00),
	}))

	dues, err = m.SalesWithoutPayment(ctx)
	require.NoError(t, err)
	assert.Empty(t, dues)
}

func TestMemorySetLoyaltyBalanceOverwrites(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	custID := addCustomer(t, m)

	require.NoError(t, m.SetLoyaltyBalance(ctx, custID, 40))
	require.NoError(t, m.SetLoyaltyBalance(ctx, custID, 25))

	accounts, err := m.ListLoyaltyAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, 25, accounts[0].Points)
}
