package product

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrVariantNotFound = errors.New("product variant not found")
	ErrInvalidPrice    = errors.New("price must be greater than zero")
	ErrInvalidStock    = errors.New("stock quantity cannot be negative")
)

type Product struct {
	ID            uint             `json:"id"`
	Name          string           `json:"name"`
	Slug          string           `json:"slug"`
	Description   *string          `json:"description,omitempty"`
	Brand         *string          `json:"brand,omitempty"`
	CategoryID    uint             `json:"category_id"`
	CategoryName  string           `json:"category_name,omitempty"`
	Price         decimal.Decimal  `json:"price"`
	SalePrice     *decimal.Decimal `json:"sale_price,omitempty"`
	StockQuantity int              `json:"stock_quantity"`
	SoldQuantity  int              `json:"sold_quantity"`
	Rating        decimal.Decimal  `json:"rating"`
	ReviewCount   int              `json:"review_count"`
	IsActive      bool             `json:"is_active"`
	IsFeatured    bool             `json:"is_featured"`
	Images        []*Image         `json:"images,omitempty"`
	Variants      []*Variant       `json:"variants,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// EffectivePrice is the unit price charged at checkout. A set sale
// price always wins over the list price.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}

type Image struct {
	ID        uint   `json:"id"`
	ProductID uint   `json:"product_id"`
	URL       string `json:"url"`
	IsPrimary bool   `json:"is_primary"`
	SortOrder int    `json:"sort_order"`
}

type Variant struct {
	ID            uint             `json:"id"`
	ProductID     uint             `json:"product_id"`
	Name          string           `json:"name"`
	Value         string           `json:"value"`
	PriceDelta    *decimal.Decimal `json:"price_delta,omitempty"`
	StockQuantity int              `json:"stock_quantity"`
}

// ListFilter is the composable catalog query. Nil fields are not
// applied. Predicates are always bound as parameters, never
// concatenated into SQL.
type ListFilter struct {
	CategoryID *uint
	Search     *string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Brand      *string
	Featured   *bool
	ActiveOnly bool
	SortBy     string
	SortDesc   bool
	Limit      int
	Page       int
}

// sortColumns is the whitelist of ORDER BY targets. Anything else
// falls back to created_at.
var sortColumns = map[string]string{
	"created_at":    "p.created_at",
	"price":         "COALESCE(p.sale_price, p.price)",
	"name":          "p.name",
	"sold_quantity": "p.sold_quantity",
	"rating":        "p.rating",
}

type CreateInput struct {
	Name          string           `json:"name" binding:"required"`
	Description   *string          `json:"description"`
	Brand         *string          `json:"brand"`
	CategoryID    uint             `json:"category_id" binding:"required"`
	Price         decimal.Decimal  `json:"price" binding:"required"`
	SalePrice     *decimal.Decimal `json:"sale_price"`
	StockQuantity int              `json:"stock_quantity"`
	IsFeatured    bool             `json:"is_featured"`
	Images        []string         `json:"images"`
}

type UpdateInput struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Brand       *string          `json:"brand"`
	CategoryID  *uint            `json:"category_id"`
	Price       *decimal.Decimal `json:"price"`
	SalePrice   *decimal.Decimal `json:"sale_price"`
	ClearSale   bool             `json:"clear_sale_price"`
	IsActive    *bool            `json:"is_active"`
	IsFeatured  *bool            `json:"is_featured"`
}
