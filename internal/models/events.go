package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypeOrderCompleted = "ORDER_COMPLETED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderCompletedEvent published after a checkout transaction commits
type OrderCompletedEvent struct {
	BaseEvent
	OrderID      int64           `json:"order_id"`
	CustomerID   int64           `json:"customer_id"`
	GrandTotal   decimal.Decimal `json:"grand_total"`
	PointsEarned int             `json:"points_earned"`
	Items        []OrderItemData `json:"items"`
}

// OrderItemData represents item data in events
type OrderItemData struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}
