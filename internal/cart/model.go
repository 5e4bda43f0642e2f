package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

type Cart struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Items     []*Item   `json:"items"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Item carries a live product snapshot for display; price fields
// reflect the catalog at read time, not at add time.
type Item struct {
	ID            uint             `json:"id"`
	CartID        uint             `json:"cart_id"`
	ProductID     uint             `json:"product_id"`
	VariantID     *uint            `json:"variant_id,omitempty"`
	Quantity      int              `json:"quantity"`
	ProductName   string           `json:"product_name"`
	ProductImage  *string          `json:"product_image,omitempty"`
	Price         decimal.Decimal  `json:"price"`
	SalePrice     *decimal.Decimal `json:"sale_price,omitempty"`
	StockQuantity int              `json:"stock_quantity"`
	IsActive      bool             `json:"is_active"`
	CreatedAt     time.Time        `json:"created_at"`
}

// UnitPrice is the effective catalog price for one unit.
func (i *Item) UnitPrice() decimal.Decimal {
	if i.SalePrice != nil {
		return *i.SalePrice
	}
	return i.Price
}

// Subtotal sums effective prices across all items.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.UnitPrice().Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

type AddItemInput struct {
	ProductID uint  `json:"product_id" binding:"required"`
	VariantID *uint `json:"variant_id"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}
