package wishlist

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item carries a live product snapshot for display, same as the cart:
// prices reflect the catalog at read time.
type Item struct {
	ID           uint             `json:"id"`
	UserID       uint             `json:"user_id"`
	ProductID    uint             `json:"product_id"`
	ProductName  string           `json:"product_name"`
	ProductImage *string          `json:"product_image,omitempty"`
	Price        decimal.Decimal  `json:"price"`
	SalePrice    *decimal.Decimal `json:"sale_price,omitempty"`
	InStock      bool             `json:"in_stock"`
	CreatedAt    time.Time        `json:"created_at"`
}

type AddInput struct {
	ProductID uint `json:"product_id" binding:"required"`
}
