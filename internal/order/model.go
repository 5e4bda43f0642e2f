package order

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipping   Status = "shipping"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// PaymentStatus lives on the order row. unpaid -> paid|failed,
// paid -> refunded; no transition ever leaves refunded.
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

var transitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipping},
	StatusShipping:   {StatusDelivered},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

func ValidStatus(s Status) bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition reports whether from -> to is an allowed move in the
// lifecycle. Same-status moves are not allowed.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Order struct {
	ID          uint            `json:"id"`
	OrderNumber string          `json:"order_number"`
	UserID      uint            `json:"user_id"`
	Status      Status          `json:"status"`

	Subtotal    decimal.Decimal `json:"subtotal"`
	ShippingFee decimal.Decimal `json:"shipping_fee"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`

	PaymentStatus   PaymentStatus   `json:"payment_status"`
	PaymentMethod   *string         `json:"payment_method,omitempty"`
	TransactionNo   *string         `json:"transaction_no,omitempty"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	PaymentResponse json.RawMessage `json:"-"`

	CustomerName     string  `json:"customer_name"`
	CustomerPhone    string  `json:"customer_phone"`
	CustomerEmail    string  `json:"customer_email"`
	ShippingAddress  string  `json:"shipping_address"`
	ShippingCity     string  `json:"shipping_city"`
	ShippingDistrict *string `json:"shipping_district,omitempty"`
	ShippingWard     *string `json:"shipping_ward,omitempty"`
	Note             *string `json:"note,omitempty"`

	CancelledReason *string `json:"cancelled_reason,omitempty"`

	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	ShippedAt   *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	DeletedAt   *time.Time `json:"-"`

	Items     []*Item   `json:"items,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Item is an immutable snapshot of the product at checkout time.
type Item struct {
	ID           uint            `json:"id"`
	OrderID      uint            `json:"order_id"`
	ProductID    uint            `json:"product_id"`
	VariantID    *uint           `json:"variant_id,omitempty"`
	ProductName  string          `json:"product_name"`
	ProductImage *string         `json:"product_image,omitempty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

type CreateItemInput struct {
	ProductID uint  `json:"product_id" binding:"required"`
	VariantID *uint `json:"variant_id"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

type CreateInput struct {
	Items            []CreateItemInput `json:"items" binding:"required"`
	PaymentMethod    string            `json:"payment_method" binding:"omitempty,oneof=cod vnpay"`
	CustomerName     string            `json:"customer_name" binding:"required"`
	CustomerPhone    string            `json:"customer_phone" binding:"required"`
	// CustomerEmail falls back to the account email when omitted.
	CustomerEmail    string  `json:"customer_email" binding:"omitempty,email"`
	ShippingAddress  string  `json:"shipping_address" binding:"required"`
	ShippingCity     string  `json:"shipping_city" binding:"required"`
	ShippingDistrict *string `json:"shipping_district"`
	ShippingWard     *string `json:"shipping_ward"`
	Note             *string `json:"note"`
}

// ListFilter is the customer-facing listing query.
type ListFilter struct {
	Status *Status
	Limit  int
	Page   int
}

// AdminListFilter extends the listing with reconciliation and support
// lookups.
type AdminListFilter struct {
	Status        *Status
	PaymentStatus *PaymentStatus
	Search        *string
	DateFrom      *time.Time
	DateTo        *time.Time
	Limit         int
	Page          int
}

// Statistics feeds the admin dashboard.
type Statistics struct {
	TotalOrders    int64                  `json:"total_orders"`
	CountsByStatus map[Status]int64       `json:"counts_by_status"`
	Revenue        decimal.Decimal        `json:"revenue"`
	AverageOrder   decimal.Decimal        `json:"average_order_value"`
}

// PaymentUpdate is applied by the payment reconciliation flow.
type PaymentUpdate struct {
	PaymentStatus PaymentStatus
	Method        *string
	TransactionNo *string
	PaidAt        *time.Time
	RawResponse   json.RawMessage
}
