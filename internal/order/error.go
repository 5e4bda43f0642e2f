package order

import "errors"

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrEmptyOrder           = errors.New("order must contain at least one item")
	ErrProductUnavailable   = errors.New("product is not available for purchase")
	ErrInsufficientStock    = errors.New("insufficient stock for order item")
	ErrInvalidTransition    = errors.New("invalid order status transition")
	ErrSameStatus           = errors.New("order already has the requested status")
	ErrTerminalStatus       = errors.New("order is in a terminal status")
	ErrCannotCancel         = errors.New("order can no longer be cancelled")
	ErrCannotDelete         = errors.New("only pending or cancelled orders can be deleted")
	ErrNotOrderOwner        = errors.New("order belongs to another user")
	ErrDuplicateOrderNumber = errors.New("order number already exists")
	ErrInvalidStatus        = errors.New("unknown order status")
)
