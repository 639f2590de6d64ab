package store

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// ApplyCheckout runs the whole checkout as one transaction: order header,
// line items, conditional stock decrements, sale, payment and loyalty
// upsert. Any failure rolls back every write.
func (s *Postgres) ApplyCheckout(ctx context.Context, co *CheckoutOrder) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin checkout transaction: %w", err)
	}
	defer tx.Rollback()

	var orderID int64
	err = tx.GetContext(ctx, &orderID, `
		INSERT INTO orders (order_date, estimated_delivery, status, priority, shipping_mode, customer_id, loyalty_points)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		co.Order.OrderDate, co.Order.EstimatedDelivery, co.Order.Status,
		co.Order.Priority, co.Order.ShippingMode, co.Order.CustomerID, co.Points)
	if err != nil {
		return 0, fmt.Errorf("failed to create order: %w", err)
	}

	for _, item := range co.Items {
		lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))

		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, unit_price, unit_discount, line_total)
			VALUES ($1, $2, $3, $4, 0, $5)`,
			orderID, item.ProductID, item.Quantity, item.UnitPrice, lineTotal)
		if err != nil {
			return 0, fmt.Errorf("failed to create line item for product %d: %w", item.ProductID, err)
		}

		// Atomic conditional decrement; zero rows affected means the
		// product cannot cover the requested quantity.
		res, err := tx.ExecContext(ctx,
			"UPDATE products SET stock = stock - $1 WHERE id = $2 AND stock >= $1",
			item.Quantity, item.ProductID)
		if err != nil {
			return 0, fmt.Errorf("failed to decrement stock for product %d: %w", item.ProductID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		if affected == 0 {
			return 0, &OutOfStockError{ProductID: item.ProductID, Requested: item.Quantity}
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sales (order_id, shipping_cost, store_tax, payment_fee, shipping_fee, customer_tax, subtotal, discount, grand_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		orderID, co.Sale.ShippingCost, co.Sale.StoreTax, co.Sale.PaymentFee, co.Sale.ShippingFee,
		co.Sale.CustomerTax, co.Sale.Subtotal, co.Sale.Discount, co.Sale.GrandTotal)
	if err != nil {
		return 0, fmt.Errorf("failed to create sale: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO payments (order_id, method, installments, payment_date, amount_paid)
		VALUES ($1, $2, $3, $4, $5)`,
		orderID, co.Payment.Method, co.Payment.Installments, co.Payment.PaymentDate, co.Payment.AmountPaid)
	if err != nil {
		return 0, fmt.Errorf("failed to create payment: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO loyalty_accounts (customer_id, points) VALUES ($1, $2)
		ON CONFLICT (customer_id) DO UPDATE SET points = loyalty_accounts.points + EXCLUDED.points`,
		co.Order.CustomerID, co.Points)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert loyalty account: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit checkout: %w", err)
	}

	return orderID, nil
}
