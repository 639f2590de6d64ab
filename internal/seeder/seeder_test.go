package seeder

import (
	"context"
	"testing"
	"time"

	"backoffice/internal/models"
	"backoffice/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSeeder(t *testing.T, seed int64) (*Seeder, *store.Memory) {
	t.Helper()

	mem := store.NewMemory()
	s := New(mem, seed)
	s.now = func() time.Time {
		return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	return s, mem
}

func TestRunPopulatesEveryTable(t *testing.T) {
	s, mem := newTestSeeder(t, 1)
	ctx := context.Background()

	require.NoError(t, s.Run(ctx, 20, 50))

	counts := mem.CountRows()
	assert.Equal(t, 22, counts["products"])
	assert.Equal(t, 6, counts["devices"])
	assert.Equal(t, 8, counts["hardware"])
	assert.Equal(t, 8, counts["peripherals"])
	assert.Equal(t, 20, counts["customers"])
	assert.Equal(t, 50, counts["orders"])
	assert.GreaterOrEqual(t, counts["order_items"], 50)
	assert.Equal(t, 50, counts["sales"])
	assert.Equal(t, 50, counts["payments"])
	assert.Positive(t, counts["loyalty_accounts"])
}

func TestRunIsIdempotent(t *testing.T) {
	s, mem := newTestSeeder(t, 7)
	ctx := context.Background()

	require.NoError(t, s.Run(ctx, 15, 40))
	first := mem.CountRows()

	require.NoError(t, s.Run(ctx, 15, 40))
	assert.Equal(t, first, mem.CountRows())

	// a second seeder over the same store adds nothing either
	other := New(mem, 99)
	require.NoError(t, other.Run(ctx, 15, 40))
	assert.Equal(t, first, mem.CountRows())
}

func TestRunTopsUpToTarget(t *testing.T) {
	s, mem := newTestSeeder(t, 3)
	ctx := context.Background()

	require.NoError(t, s.Run(ctx, 10, 20))
	require.NoError(t, s.Run(ctx, 10, 35))

	counts := mem.CountRows()
	assert.Equal(t, 35, counts["orders"])
	assert.Equal(t, 35, counts["sales"])
	assert.Equal(t, 35, counts["payments"])
}

func TestSeededOrdersAreCoherent(t *testing.T) {
	s, mem := newTestSeeder(t, 11)
	ctx := context.Background()

	require.NoError(t, s.Run(ctx, 20, 80))

	products, err := mem.ListProducts(ctx)
	require.NoError(t, err)
	priceByID := make(map[int64]decimal.Decimal)
	for _, p := range products {
		priceByID[p.ID] = p.UnitPrice
	}

	sales, err := mem.SalesWithCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 80)

	for _, sc := range sales {
		order, items, err := mem.GetOrder(ctx, sc.OrderID)
		require.NoError(t, err)
		require.NotEmpty(t, items)
		assert.LessOrEqual(t, len(items), 4)

		switch order.Status {
		case models.OrderStatusCanceled:
			assert.True(t, order.EstimatedDelivery.Equal(order.OrderDate),
				"canceled order %d has a delivery window", order.ID)
		case models.OrderStatusCompleted:
			assert.True(t, order.EstimatedDelivery.Before(s.now()),
				"completed order %d delivered in the future", order.ID)
		default:
			assert.True(t, order.EstimatedDelivery.After(order.OrderDate),
				"open order %d has no delivery window", order.ID)
		}

		for _, li := range items {
			assert.Equal(t, 1, li.Quantity)
			assert.True(t, li.UnitPrice.Equal(priceByID[li.ProductID]),
				"item price diverges from catalog for product %d", li.ProductID)

			limit := li.UnitPrice.Mul(decimal.NewFromFloat(0.75)).Round(2)
			assert.False(t, li.UnitDiscount.GreaterThan(limit),
				"discount %s above 75%% of price %s", li.UnitDiscount, li.UnitPrice)
			assert.True(t, li.LineTotal.Equal(li.UnitPrice.Sub(li.UnitDiscount)))
		}
	}
}

func TestSeededSalesGrandTotalIdentity(t *testing.T) {
	s, mem := newTestSeeder(t, 13)
	ctx := context.Background()

	require.NoError(t, s.Run(ctx, 10, 60))

	pending, err := mem.OrdersWithoutSale(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	sales, err := mem.SalesWithCustomers(ctx)
	require.NoError(t, err)

	discounted := 0
	for _, sc := range sales {
		sale, err := mem.GetSale(ctx, sc.OrderID)
		require.NoError(t, err)

		// subtotal is the sum of net line totals, not the gross
		// catalog prices
		totals, err := mem.OrderItemTotals(ctx, sc.OrderID)
		require.NoError(t, err)
		assert.True(t, sale.Subtotal.Equal(totals.Subtotal),
			"order %d sale subtotal %s, line totals sum to %s",
			sc.OrderID, sale.Subtotal, totals.Subtotal)
		assert.True(t, sale.Discount.Equal(totals.Discount))

		want := sale.Subtotal.Sub(sale.Discount).Add(sale.ShippingFee).Add(sale.CustomerTax)
		assert.True(t, sale.GrandTotal.Equal(want),
			"order %d grand total %s, identity gives %s",
			sc.OrderID, sale.GrandTotal, want)

		order, _, err := mem.GetOrder(ctx, sc.OrderID)
		require.NoError(t, err)
		if order.ShippingMode == models.ShippingPickup {
			assert.True(t, sale.ShippingFee.IsZero())
			assert.True(t, sale.ShippingCost.IsZero())
		}

		if !sale.Discount.IsZero() {
			discounted++
		}
	}
	require.Positive(t, discounted, "no discounted order in the sample")
}

func TestSeededPaymentsFollowInstallmentRules(t *testing.T) {
	s, mem := newTestSeeder(t, 17)
	ctx := context.Background()

	require.NoError(t, s.Run(ctx, 10, 100))

	dues, err := mem.SalesWithoutPayment(ctx)
	require.NoError(t, err)
	assert.Empty(t, dues)
}

func TestInstallmentsSingleForNonCredit(t *testing.T) {
	s, _ := newTestSeeder(t, 19)

	for _, method := range []models.PaymentMethod{
		models.PaymentPix,
		models.PaymentDebitCard,
		models.PaymentBoleto,
		models.PaymentTransfer,
		models.PaymentCash,
	} {
		assert.Equal(t, 1, s.installments(method))
	}

	for i := 0; i < 200; i++ {
		n := s.installments(models.PaymentCreditCard)
		assert.GreaterOrEqual(t, n, 1)
		assert.LessOrEqual(t, n, 12)
	}
}

func TestAppliedDiscountPercentageCapped(t *testing.T) {
	s, mem := newTestSeeder(t, 23)
	ctx := context.Background()

	require.NoError(t, s.Run(ctx, 10, 120))

	remaining, err := mem.OrdersWithoutAppliedDiscount(ctx)
	require.NoError(t, err)

	// orders left without a record are exactly those with zero discount
	for _, orderID := range remaining {
		totals, err := mem.OrderOriginalTotals(ctx, orderID)
		require.NoError(t, err)
		assert.True(t, totals.Discount.IsZero(),
			"order %d has a discount but no record", orderID)
	}
}

func TestLoyaltyPointsTiers(t *testing.T) {
	cases := []struct {
		total  float64
		points int
	}{
		{100.00, 1},     // 1% tier
		{500.00, 5},     // boundary stays in 1% tier
		{501.00, 10},    // 2% tier
		{1999.99, 39},   // truncation, not rounding
		{2000.00, 40},   // boundary stays in 2% tier
		{2500.00, 75},   // 3% tier
		{49.99, 0},      // too small to earn anything
		{10000.00, 300}, // large order
	}

	for _, tc := range cases {
		got := loyaltyPoints(decimal.NewFromFloat(tc.total))
		assert.Equal(t, tc.points, got, "total %.2f", tc.total)
	}
}

func TestLoyaltyBalancesRebuiltNotAccumulated(t *testing.T) {
	s, mem := newTestSeeder(t, 29)
	ctx := context.Background()

	require.NoError(t, s.Run(ctx, 8, 30))

	first, err := mem.ListLoyaltyAccounts(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Run(ctx, 8, 30))

	second, err := mem.ListLoyaltyAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCatalogSubRecordTypes(t *testing.T) {
	assert.Equal(t, "smartphone", typeFromName("Smartphone X200"))
	assert.Equal(t, "gpu", typeFromName("Graphics Card RX 7600"))
	assert.Equal(t, "power_supply", typeFromName("Power Supply 650W"))
	assert.Equal(t, "keyboard", typeFromName("Mechanical Keyboard"))
	assert.Equal(t, "other", typeFromName("Mystery Box"))
}

func TestDeterministicWithSameSeed(t *testing.T) {
	ctx := context.Background()

	s1, mem1 := newTestSeeder(t, 42)
	require.NoError(t, s1.Run(ctx, 12, 25))

	s2, mem2 := newTestSeeder(t, 42)
	require.NoError(t, s2.Run(ctx, 12, 25))

	orders1, err := mem1.CustomerIDs(ctx)
	require.NoError(t, err)
	orders2, err := mem2.CustomerIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, orders1, orders2)

	sales1, err := mem1.SalesWithCustomers(ctx)
	require.NoError(t, err)
	sales2, err := mem2.SalesWithCustomers(ctx)
	require.NoError(t, err)
	require.Equal(t, len(sales1), len(sales2))
	for i := range sales1 {
		assert.True(t, sales1[i].GrandTotal.Equal(sales2[i].GrandTotal))
	}
}
