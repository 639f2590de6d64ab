package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusStarted   OrderStatus = "started"
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusShipping  OrderStatus = "shipping"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCanceled  OrderStatus = "canceled"
)

// OrderPriority affects the estimated delivery window
type OrderPriority string

const (
	PriorityLow    OrderPriority = "low"
	PriorityMedium OrderPriority = "medium"
	PriorityHigh   OrderPriority = "high"
)

// ShippingMode selects delivery vs in-store pickup
type ShippingMode string

const (
	ShippingDelivery ShippingMode = "delivery"
	ShippingPickup   ShippingMode = "pickup"
)

// PaymentMethod for the payment record
type PaymentMethod string

const (
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentDebitCard  PaymentMethod = "debit_card"
	PaymentBoleto     PaymentMethod = "boleto"
	PaymentPix        PaymentMethod = "pix"
	PaymentTransfer   PaymentMethod = "transfer"
	PaymentCash       PaymentMethod = "cash"
)

// DiscountKind classifies an applied discount
type DiscountKind string

const (
	DiscountPromotional DiscountKind = "promotional"
	DiscountCoupon      DiscountKind = "coupon"
	DiscountLoyalty     DiscountKind = "loyalty"
	DiscountPartnership DiscountKind = "partnership"
	DiscountOther       DiscountKind = "other"
)

// Product categories
const (
	CategoryDevice     = "Device"
	CategoryHardware   = "Hardware"
	CategoryPeripheral = "Peripheral"
)

// Customer is a registered buyer
type Customer struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	City         string    `db:"city" json:"city"`
	State        string    `db:"state" json:"state"`
	Country      string    `db:"country" json:"country"`
	RegisteredAt time.Time `db:"registered_at" json:"registered_at"`
}

// Product is a catalog item with current stock levels
type Product struct {
	ID        int64           `db:"id" json:"id"`
	Name      string          `db:"name" json:"name"`
	Category  string          `db:"category" json:"category"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unit_price"`
	UnitCost  decimal.Decimal `db:"unit_cost" json:"unit_cost"`
	Stock     int             `db:"stock" json:"stock"`
	MinStock  int             `db:"min_stock" json:"min_stock"`
}

// Device is the category sub-record for Device products
type Device struct {
	ProductID  int64  `db:"product_id" json:"product_id"`
	Color      string `db:"color" json:"color"`
	Dimensions string `db:"dimensions" json:"dimensions"`
	Type       string `db:"type" json:"type"`
}

// Hardware is the category sub-record for Hardware products
type Hardware struct {
	ProductID int64  `db:"product_id" json:"product_id"`
	PowerDraw int    `db:"power_draw" json:"power_draw"`
	TechSpec  string `db:"tech_spec" json:"tech_spec"`
	Type      string `db:"type" json:"type"`
}

// Peripheral is the category sub-record for Peripheral products
type Peripheral struct {
	ProductID  int64  `db:"product_id" json:"product_id"`
	Color      string `db:"color" json:"color"`
	Connection string `db:"connection" json:"connection"`
	Type       string `db:"type" json:"type"`
}

// Order is a purchase transaction header
type Order struct {
	ID                int64         `db:"id" json:"id"`
	OrderDate         time.Time     `db:"order_date" json:"order_date"`
	EstimatedDelivery time.Time     `db:"estimated_delivery" json:"estimated_delivery"`
	Status            OrderStatus   `db:"status" json:"status"`
	Priority          OrderPriority `db:"priority" json:"priority"`
	ShippingMode      ShippingMode  `db:"shipping_mode" json:"shipping_mode"`
	CustomerID        int64         `db:"customer_id" json:"customer_id"`
	LoyaltyPoints     int           `db:"loyalty_points" json:"loyalty_points"`
}

// LineItem is one product's quantity and pricing within an order.
// Keyed by (order, product); duplicate cart entries collapse into quantity.
type LineItem struct {
	OrderID      int64           `db:"order_id" json:"order_id"`
	ProductID    int64           `db:"product_id" json:"product_id"`
	Quantity     int             `db:"quantity" json:"quantity"`
	UnitPrice    decimal.Decimal `db:"unit_price" json:"unit_price"`
	UnitDiscount decimal.Decimal `db:"unit_discount" json:"unit_discount"`
	LineTotal    decimal.Decimal `db:"line_total" json:"line_total"`
}

// Sale is the financial summary derived from an order's line items
type Sale struct {
	OrderID      int64           `db:"order_id" json:"order_id"`
	ShippingCost decimal.Decimal `db:"shipping_cost" json:"shipping_cost"`
	StoreTax     decimal.Decimal `db:"store_tax" json:"store_tax"`
	PaymentFee   decimal.Decimal `db:"payment_fee" json:"payment_fee"`
	ShippingFee  decimal.Decimal `db:"shipping_fee" json:"shipping_fee"`
	CustomerTax  decimal.Decimal `db:"customer_tax" json:"customer_tax"`
	Subtotal     decimal.Decimal `db:"subtotal" json:"subtotal"`
	Discount     decimal.Decimal `db:"discount" json:"discount"`
	GrandTotal   decimal.Decimal `db:"grand_total" json:"grand_total"`
}

// Payment settles a sale; installments > 1 only for credit card
type Payment struct {
	OrderID      int64           `db:"order_id" json:"order_id"`
	Method       PaymentMethod   `db:"method" json:"method"`
	Installments int             `db:"installments" json:"installments"`
	PaymentDate  time.Time       `db:"payment_date" json:"payment_date"`
	AmountPaid   decimal.Decimal `db:"amount_paid" json:"amount_paid"`
}

// AppliedDiscount records the aggregate discount attributed to an order
type AppliedDiscount struct {
	OrderID     int64           `db:"order_id" json:"order_id"`
	Kind        DiscountKind    `db:"kind" json:"kind"`
	Percentage  decimal.Decimal `db:"percentage" json:"percentage"`
	Description string          `db:"description" json:"description"`
}

// LoyaltyAccount is a customer's accumulated reward-point balance
type LoyaltyAccount struct {
	CustomerID int64 `db:"customer_id" json:"customer_id"`
	Points     int   `db:"points" json:"points"`
}

// StockLevel is the stock read-endpoint row shape
type StockLevel struct {
	ProductID   int64  `db:"product_id" json:"product_id"`
	ProductName string `db:"product_name" json:"product_name"`
	Stock       int    `db:"stock" json:"stock"`
	MinStock    int    `db:"min_stock" json:"min_stock"`
}
