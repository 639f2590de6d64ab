package seeder

import (
	"context"
	"time"

	"backoffice/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func (s *Seeder) seedCustomers(ctx context.Context, target int) error {
	count, err := s.store.CountCustomers(ctx)
	if err != nil {
		return err
	}
	if count >= target {
		s.logger.Info("Customers already present, skipping", zap.Int("count", count))
		return nil
	}

	missing := target - count
	for i := 0; i < missing; i++ {
		c := &models.Customer{
			Name:         s.faker.Name(),
			City:         s.faker.City(),
			State:        s.faker.StateAbr(),
			Country:      "USA",
			RegisteredAt: s.daysAgo(s.rng.Intn(1500)),
		}
		if err := s.store.InsertCustomer(ctx, c); err != nil {
			return err
		}
	}

	s.countRows("customers", missing)
	return nil
}

var orderStatuses = []models.OrderStatus{
	models.OrderStatusCompleted,
	models.OrderStatusShipping,
	models.OrderStatusPending,
	models.OrderStatusStarted,
	models.OrderStatusCanceled,
}

var orderPriorities = []models.OrderPriority{
	models.PriorityLow,
	models.PriorityMedium,
	models.PriorityHigh,
}

func (s *Seeder) seedOrders(ctx context.Context, target int) error {
	count, err := s.store.CountOrders(ctx)
	if err != nil {
		return err
	}
	if count >= target {
		s.logger.Info("Orders already present, skipping", zap.Int("count", count))
		return nil
	}

	customerIDs, err := s.store.CustomerIDs(ctx)
	if err != nil {
		return err
	}
	if len(customerIDs) == 0 {
		s.logger.Warn("No customers, skipping orders")
		return nil
	}

	missing := target - count
	for i := 0; i < missing; i++ {
		orderDate := s.daysAgo(1 + s.rng.Intn(365))
		status := orderStatuses[s.weighted(50, 15, 10, 15, 10)]
		priority := orderPriorities[s.weighted(20, 60, 20)]

		mode := models.ShippingDelivery
		if s.weighted(80, 20) == 1 {
			mode = models.ShippingPickup
		}

		o := &models.Order{
			OrderDate:         orderDate,
			EstimatedDelivery: s.estimateDelivery(orderDate, status, priority),
			Status:            status,
			Priority:          priority,
			ShippingMode:      mode,
			CustomerID:        customerIDs[s.rng.Intn(len(customerIDs))],
		}
		if err := s.store.InsertOrder(ctx, o); err != nil {
			return err
		}
	}

	s.countRows("orders", missing)
	return nil
}

// estimateDelivery derives a delivery date coherent with the order
// status: canceled orders never shipped, completed orders were
// delivered in the past, shipping orders are almost due, and open
// orders still have their full window ahead. High priority tightens
// the window, low priority relaxes it.
func (s *Seeder) estimateDelivery(orderDate time.Time, status models.OrderStatus, priority models.OrderPriority) time.Time {
	switch status {
	case models.OrderStatusCanceled:
		return orderDate

	case models.OrderStatusCompleted:
		days := 5 + s.rng.Intn(6)
		if priority == models.PriorityHigh {
			days -= 2
			if days < 2 {
				days = 2
			}
		}
		estimated := orderDate.AddDate(0, 0, days)
		if latest := s.daysAgo(1); estimated.After(latest) {
			estimated = s.daysAgo(1 + s.rng.Intn(5))
		}
		return estimated

	case models.OrderStatusShipping:
		days := 1 + s.rng.Intn(5)
		if priority == models.PriorityHigh {
			days--
			if days < 1 {
				days = 1
			}
		}
		return orderDate.AddDate(0, 0, days)

	default: // pending, started
		days := 3 + s.rng.Intn(10)
		switch priority {
		case models.PriorityHigh:
			days -= 2
			if days < 2 {
				days = 2
			}
		case models.PriorityLow:
			days += 2
		}
		return orderDate.AddDate(0, 0, days)
	}
}

var itemDiscountCap = decimal.NewFromFloat(0.75)

func (s *Seeder) seedLineItems(ctx context.Context) error {
	orderIDs, err := s.store.OrdersWithoutItems(ctx)
	if err != nil {
		return err
	}
	if len(orderIDs) == 0 {
		return nil
	}

	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		s.logger.Warn("No products, skipping line items")
		return nil
	}

	inserted := 0
	for _, orderID := range orderIDs {
		itemCount := 1 + s.weighted(60, 25, 10, 5)
		if itemCount > len(products) {
			itemCount = len(products)
		}

		for _, pi := range s.rng.Perm(len(products))[:itemCount] {
			product := products[pi]
			discount := s.itemDiscount(product.UnitPrice)

			li := &models.LineItem{
				OrderID:      orderID,
				ProductID:    product.ID,
				Quantity:     1,
				UnitPrice:    product.UnitPrice,
				UnitDiscount: discount,
				LineTotal:    product.UnitPrice.Sub(discount),
			}
			if err := s.store.InsertLineItem(ctx, li); err != nil {
				return err
			}
			inserted++
		}
	}

	s.countRows("order_items", inserted)
	return nil
}

// itemDiscount draws a per-unit discount: most items have none, some
// a small cut, a few a deep one. Never more than 75% of the price.
func (s *Seeder) itemDiscount(price decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch s.weighted(80, 15, 5) {
	case 0:
		return decimal.Zero
	case 1:
		discount = s.moneyBetween(5, 30)
	default:
		discount = s.moneyBetween(30, 80)
	}

	if limit := price.Mul(itemDiscountCap).Round(2); discount.GreaterThan(limit) {
		discount = limit
	}
	return discount
}
