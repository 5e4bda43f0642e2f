package cart

import "errors"

var (
	ErrCartNotFound     = errors.New("cart not found")
	ErrItemNotFound     = errors.New("cart item not found")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrProductInactive  = errors.New("product is not available")
	ErrNotEnoughStock   = errors.New("not enough stock for requested quantity")
	ErrItemNotOwned     = errors.New("cart item belongs to another user")
)
