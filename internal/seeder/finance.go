package seeder

import (
	"context"
	"fmt"

	"backoffice/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func (s *Seeder) seedSales(ctx context.Context) error {
	pending, err := s.store.OrdersWithoutSale(ctx)
	if err != nil {
		return err
	}

	inserted := 0
	for _, row := range pending {
		// Subtotal is the sum of net line totals, already reduced by
		// per-item discounts. Every rate below applies to that base.
		totals, err := s.store.OrderItemTotals(ctx, row.OrderID)
		if err != nil {
			return err
		}
		if totals.Subtotal.IsZero() {
			continue
		}

		shippingCost := decimal.Zero
		shippingFee := decimal.Zero
		if row.ShippingMode == models.ShippingDelivery {
			shippingCost = s.moneyBetween(15, 40)
			shippingFee = s.moneyBetween(20, 60)
		}

		storeTax := totals.Subtotal.Mul(s.rateBetween(0.03, 0.08)).Round(2)
		paymentFee := totals.Subtotal.Mul(s.rateBetween(0.015, 0.03)).Round(2)
		customerTax := totals.Subtotal.Mul(s.rateBetween(0.05, 0.15)).Round(2)

		sale := &models.Sale{
			OrderID:      row.OrderID,
			ShippingCost: shippingCost,
			StoreTax:     storeTax,
			PaymentFee:   paymentFee,
			ShippingFee:  shippingFee,
			CustomerTax:  customerTax,
			Subtotal:     totals.Subtotal,
			Discount:     totals.Discount,
			GrandTotal:   totals.Subtotal.Sub(totals.Discount).Add(shippingFee).Add(customerTax),
		}
		if err := s.store.InsertSale(ctx, sale); err != nil {
			return err
		}
		inserted++
	}

	s.countRows("sales", inserted)
	return nil
}

var paymentMethods = []models.PaymentMethod{
	models.PaymentPix,
	models.PaymentCreditCard,
	models.PaymentDebitCard,
	models.PaymentBoleto,
	models.PaymentTransfer,
	models.PaymentCash,
}

func (s *Seeder) seedPayments(ctx context.Context) error {
	dues, err := s.store.SalesWithoutPayment(ctx)
	if err != nil {
		return err
	}

	for _, due := range dues {
		method := paymentMethods[s.weighted(30, 40, 10, 10, 5, 5)]

		p := &models.Payment{
			OrderID:      due.OrderID,
			Method:       method,
			Installments: s.installments(method),
			PaymentDate:  due.OrderDate.AddDate(0, 0, s.rng.Intn(6)),
			AmountPaid:   due.GrandTotal,
		}
		if err := s.store.InsertPayment(ctx, p); err != nil {
			return err
		}
	}

	s.countRows("payments", len(dues))
	return nil
}

// installments splits credit card payments; every other method pays in
// full at once.
func (s *Seeder) installments(method models.PaymentMethod) int {
	if method != models.PaymentCreditCard {
		return 1
	}

	switch draw := s.rng.Float64(); {
	case draw < 0.40:
		return 1
	case draw < 0.70:
		return 2 + s.rng.Intn(2)
	case draw < 0.90:
		return 4 + s.rng.Intn(3)
	default:
		return 7 + s.rng.Intn(6)
	}
}

var discountKinds = []models.DiscountKind{
	models.DiscountPromotional,
	models.DiscountCoupon,
	models.DiscountLoyalty,
	models.DiscountPartnership,
	models.DiscountOther,
}

var percentageCap = decimal.NewFromFloat(80.00)

func (s *Seeder) seedAppliedDiscounts(ctx context.Context) error {
	orderIDs, err := s.store.OrdersWithoutAppliedDiscount(ctx)
	if err != nil {
		return err
	}

	inserted := 0
	for _, orderID := range orderIDs {
		totals, err := s.store.OrderOriginalTotals(ctx, orderID)
		if err != nil {
			return err
		}
		if totals.Discount.IsZero() || totals.Subtotal.IsZero() {
			continue
		}

		pct := totals.Discount.Div(totals.Subtotal).Mul(decimal.NewFromInt(100)).Round(2)
		if pct.GreaterThan(percentageCap) {
			pct = percentageCap
		}

		kind := discountKinds[s.weighted(60, 20, 10, 5, 5)]

		d := &models.AppliedDiscount{
			OrderID:     orderID,
			Kind:        kind,
			Percentage:  pct,
			Description: fmt.Sprintf("%s campaign %d", kind, s.rng.Intn(900)+100),
		}
		if err := s.store.InsertAppliedDiscount(ctx, d); err != nil {
			return err
		}
		inserted++
	}

	s.countRows("applied_discounts", inserted)
	return nil
}

var (
	tierSilverLimit = decimal.NewFromInt(500)
	tierGoldLimit   = decimal.NewFromInt(2000)

	rateSilver = decimal.NewFromFloat(0.01)
	rateGold   = decimal.NewFromFloat(0.02)
	ratePlat   = decimal.NewFromFloat(0.03)
)

// loyaltyPoints converts a sale amount into points using spend tiers;
// the fractional part is dropped.
func loyaltyPoints(grandTotal decimal.Decimal) int {
	rate := ratePlat
	switch {
	case grandTotal.LessThanOrEqual(tierSilverLimit):
		rate = rateSilver
	case grandTotal.LessThanOrEqual(tierGoldLimit):
		rate = rateGold
	}
	return int(grandTotal.Mul(rate).IntPart())
}

// seedLoyalty writes per-order points and rebuilds account balances
// from scratch, so repeated runs converge on the same totals.
func (s *Seeder) seedLoyalty(ctx context.Context) error {
	sales, err := s.store.SalesWithCustomers(ctx)
	if err != nil {
		return err
	}

	balances := make(map[int64]int)
	for _, sale := range sales {
		points := loyaltyPoints(sale.GrandTotal)
		if err := s.store.SetOrderPoints(ctx, sale.OrderID, points); err != nil {
			return err
		}
		balances[sale.CustomerID] += points
	}

	for customerID, points := range balances {
		if err := s.store.SetLoyaltyBalance(ctx, customerID, points); err != nil {
			return err
		}
	}

	s.logger.Info("Loyalty balances rebuilt", zap.Int("accounts", len(balances)))
	s.countRows("loyalty_accounts", len(balances))
	return nil
}
