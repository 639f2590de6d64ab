package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"backoffice/internal/broker"
	"backoffice/internal/models"
	"backoffice/internal/redisclient"
	"backoffice/internal/store"
	"backoffice/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Fixed checkout sale components
var (
	checkoutShippingCost = decimal.NewFromFloat(20.00)
	checkoutPaymentFee   = decimal.NewFromFloat(5.00)
	checkoutShippingFee  = decimal.NewFromFloat(20.00)
	storeTaxRate         = decimal.NewFromFloat(0.10)
	loyaltyDivisor       = decimal.NewFromInt(10)
)

const idempotencyTTL = 24 * time.Hour

// ValidationError rejects a request before any write happens
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// CheckoutService processes cart submissions as single transactions
type CheckoutService struct {
	store  store.Store
	events *broker.EventPublisher
	idem   *redisclient.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewCheckoutService creates a new checkout service. idem may be nil
// when Redis is not configured; events may be a disabled publisher.
func NewCheckoutService(st store.Store, events *broker.EventPublisher, idem *redisclient.Client) *CheckoutService {
	return &CheckoutService{
		store:  st,
		events: events,
		idem:   idem,
		logger: util.GetLogger(),
		now:    time.Now,
	}
}

// CartItem is one add-to-cart entry: the product and the unit price
// presented at add time. Duplicate entries for the same product
// increment quantity.
type CartItem struct {
	ProductID int64           `json:"product_id"`
	Price     decimal.Decimal `json:"price"`
}

// CheckoutRequest is the checkout endpoint payload
type CheckoutRequest struct {
	CustomerID     int64           `json:"customer_id"`
	Items          []CartItem      `json:"items"`
	Total          decimal.Decimal `json:"total"`
	PaymentMethod  string          `json:"payment_method"`
	Discount       string          `json:"discount,omitempty"`
	IdempotencyKey string          `json:"-"`
}

// CheckoutResponse is returned with HTTP 201 on success
type CheckoutResponse struct {
	Message      string `json:"message"`
	OrderID      int64  `json:"order_id"`
	PointsEarned int    `json:"points_earned"`
}

func (req *CheckoutRequest) validate() error {
	if req.CustomerID <= 0 {
		return &ValidationError{Reason: "customer_id is required"}
	}
	if len(req.Items) == 0 {
		return &ValidationError{Reason: "items must not be empty"}
	}
	for _, item := range req.Items {
		if item.ProductID <= 0 {
			return &ValidationError{Reason: "every item needs a product_id"}
		}
		if item.Price.IsNegative() {
			return &ValidationError{Reason: fmt.Sprintf("negative price for product %d", item.ProductID)}
		}
	}
	if !req.Total.IsPositive() {
		return &ValidationError{Reason: "total must be positive"}
	}
	if req.PaymentMethod == "" {
		return &ValidationError{Reason: "payment_method is required"}
	}
	return nil
}

// groupItems collapses duplicate cart entries into per-product
// quantities, keeping first-seen order and unit price.
func groupItems(items []CartItem) []store.CheckoutItem {
	index := make(map[int64]int, len(items))
	grouped := make([]store.CheckoutItem, 0, len(items))

	for _, item := range items {
		if i, ok := index[item.ProductID]; ok {
			grouped[i].Quantity++
			continue
		}
		index[item.ProductID] = len(grouped)
		grouped = append(grouped, store.CheckoutItem{
			ProductID: item.ProductID,
			Quantity:  1,
			UnitPrice: item.Price,
		})
	}

	return grouped
}

// Checkout applies a cart as one all-or-nothing transaction and
// returns the created order id and the loyalty points earned.
func (s *CheckoutService) Checkout(ctx context.Context, req *CheckoutRequest) (*CheckoutResponse, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.Checkout")
	defer span.End()

	start := time.Now()
	defer func() {
		util.CheckoutLatency.Observe(time.Since(start).Seconds())
	}()

	if err := req.validate(); err != nil {
		util.CheckoutsFailedTotal.WithLabelValues("validation").Inc()
		return nil, err
	}

	if cached := s.cachedResponse(ctx, req.IdempotencyKey); cached != nil {
		s.logger.Info("Duplicate checkout request detected",
			zap.String("idempotency_key", req.IdempotencyKey),
			zap.Int64("order_id", cached.OrderID))
		return cached, nil
	}

	items := groupItems(req.Items)

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	discount := decimal.Zero
	if req.Discount != "" {
		if subtotal.IsZero() {
			util.CheckoutsFailedTotal.WithLabelValues("validation").Inc()
			return nil, &ValidationError{Reason: "discount requires a non-empty cart subtotal"}
		}
		discount = subtotal.Add(checkoutShippingFee).Sub(req.Total)
		if discount.IsNegative() {
			util.CheckoutsFailedTotal.WithLabelValues("validation").Inc()
			return nil, &ValidationError{Reason: "total exceeds cart subtotal plus shipping"}
		}
	}

	points := int(req.Total.Div(loyaltyDivisor).Floor().IntPart())
	today := dateOnly(s.now())

	co := &store.CheckoutOrder{
		Order: models.Order{
			OrderDate:         today,
			EstimatedDelivery: today,
			Status:            models.OrderStatusCompleted,
			Priority:          models.PriorityMedium,
			ShippingMode:      models.ShippingDelivery,
			CustomerID:        req.CustomerID,
		},
		Items: items,
		Sale: models.Sale{
			ShippingCost: checkoutShippingCost,
			StoreTax:     req.Total.Mul(storeTaxRate).Round(2),
			PaymentFee:   checkoutPaymentFee,
			ShippingFee:  checkoutShippingFee,
			CustomerTax:  decimal.Zero,
			Subtotal:     subtotal,
			Discount:     discount,
			GrandTotal:   req.Total,
		},
		Payment: models.Payment{
			Method:       models.PaymentMethod(req.PaymentMethod),
			Installments: 1,
			PaymentDate:  today,
			AmountPaid:   req.Total,
		},
		Points: points,
	}

	orderID, err := s.store.ApplyCheckout(ctx, co)
	if err != nil {
		var oos *store.OutOfStockError
		if errors.As(err, &oos) {
			util.CheckoutsFailedTotal.WithLabelValues("out_of_stock").Inc()
			s.logger.Warn("Checkout aborted on stock shortfall",
				zap.Int64("customer_id", req.CustomerID),
				zap.Int64("product_id", oos.ProductID),
				zap.Int("requested", oos.Requested))
			return nil, err
		}
		util.CheckoutsFailedTotal.WithLabelValues("store_error").Inc()
		return nil, fmt.Errorf("checkout transaction failed: %w", err)
	}

	util.CheckoutsCompletedTotal.Inc()
	util.LoyaltyPointsAwardedTotal.Add(float64(points))
	s.logger.Info("Checkout committed",
		zap.Int64("order_id", orderID),
		zap.Int64("customer_id", req.CustomerID),
		zap.String("total", req.Total.StringFixed(2)),
		zap.Int("points_earned", points))

	resp := &CheckoutResponse{
		Message:      "order completed",
		OrderID:      orderID,
		PointsEarned: points,
	}

	s.publishCompleted(ctx, orderID, req.CustomerID, req.Total, points, items)
	s.cacheResponse(ctx, req.IdempotencyKey, resp)

	return resp, nil
}

func (s *CheckoutService) publishCompleted(ctx context.Context, orderID, customerID int64, total decimal.Decimal, points int, items []store.CheckoutItem) {
	if !s.events.Enabled() {
		return
	}

	eventItems := make([]models.OrderItemData, 0, len(items))
	for _, item := range items {
		eventItems = append(eventItems, models.OrderItemData{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	event := &models.OrderCompletedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderCompleted,
			Timestamp: s.now(),
		},
		OrderID:      orderID,
		CustomerID:   customerID,
		GrandTotal:   total,
		PointsEarned: points,
		Items:        eventItems,
	}

	if err := s.events.PublishOrderCompleted(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderCompleted event", zap.Error(err))
	}
}

func (s *CheckoutService) cachedResponse(ctx context.Context, key string) *CheckoutResponse {
	if s.idem == nil || key == "" {
		return nil
	}

	payload, found, err := s.idem.GetCheckout(ctx, key)
	if err != nil {
		s.logger.Warn("Idempotency lookup failed", zap.Error(err))
		return nil
	}
	if !found {
		return nil
	}

	var resp CheckoutResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		s.logger.Warn("Discarding unreadable cached checkout", zap.Error(err))
		return nil
	}
	return &resp
}

func (s *CheckoutService) cacheResponse(ctx context.Context, key string, resp *CheckoutResponse) {
	if s.idem == nil || key == "" {
		return
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.idem.CacheCheckout(ctx, key, payload, idempotencyTTL); err != nil {
		s.logger.Warn("Failed to cache checkout response", zap.Error(err))
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
