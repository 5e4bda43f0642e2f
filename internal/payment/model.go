package payment

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const MethodVNPay = "vnpay"

var (
	ErrAlreadyPaid      = errors.New("order is already paid")
	ErrReplayedCallback = errors.New("payment callback replayed for a paid order")
	ErrBadSignature     = errors.New("payment callback signature mismatch")
	ErrNotPaid          = errors.New("order has not been paid")
	ErrOrderCancelled   = errors.New("cannot pay for a cancelled order")
)

type CreateInput struct {
	OrderID  uint   `json:"order_id" binding:"required"`
	BankCode string `json:"bank_code"`
	Language string `json:"language"`
}

// CreateResult carries the gateway redirect for the frontend.
type CreateResult struct {
	OrderNumber string          `json:"order_number"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentURL  string          `json:"payment_url"`
}

// ReconcileResult is returned to both the browser return leg and the
// server-to-server callback leg.
type ReconcileResult struct {
	OrderID       uint            `json:"order_id"`
	OrderNumber   string          `json:"order_number"`
	Success       bool            `json:"success"`
	ResponseCode  string          `json:"response_code"`
	Message       string          `json:"message"`
	Amount        decimal.Decimal `json:"amount"`
	TransactionNo string          `json:"transaction_no,omitempty"`
	PayDate       *time.Time      `json:"pay_date,omitempty"`
}

type StatusView struct {
	OrderID       uint       `json:"order_id"`
	OrderNumber   string     `json:"order_number"`
	PaymentStatus string     `json:"payment_status"`
	PaymentMethod *string    `json:"payment_method,omitempty"`
	TransactionNo *string    `json:"transaction_no,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
}
