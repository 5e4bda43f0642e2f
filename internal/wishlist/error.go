package wishlist

import "errors"

var (
	ErrItemNotFound    = errors.New("product is not in the wishlist")
	ErrProductNotFound = errors.New("product not found")
	ErrProductInactive = errors.New("product is not available")
)
