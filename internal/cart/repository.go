package cart

import (
	"context"
	"database/sql"
	"errors"
)

type Repository interface {
	// GetOrCreate returns the user's cart, creating an empty one on
	// first use.
	GetOrCreate(ctx context.Context, userID uint) (*Cart, error)
	GetByUser(ctx context.Context, userID uint) (*Cart, error)
	// UpsertItem inserts the (cart, product, variant) row or bumps its
	// quantity when it already exists. Returns the resulting item ID.
	UpsertItem(ctx context.Context, cartID, productID uint, variantID *uint, quantity int) (uint, error)
	GetItem(ctx context.Context, itemID uint) (*Item, error)
	UpdateItemQuantity(ctx context.Context, itemID uint, quantity int) error
	RemoveItem(ctx context.Context, itemID uint) error
	Clear(ctx context.Context, cartID uint) error
	ItemOwner(ctx context.Context, itemID uint) (uint, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetOrCreate(ctx context.Context, userID uint) (*Cart, error) {
	cart, err := r.GetByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, ErrCartNotFound) {
		return nil, err
	}

	var c Cart
	err = r.db.QueryRowContext(ctx, `
		INSERT INTO carts (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET updated_at = NOW()
		RETURNING id, user_id, created_at, updated_at
	`, userID).Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Items = []*Item{}
	return &c, nil
}

func (r *repository) GetByUser(ctx context.Context, userID uint) (*Cart, error) {
	var c Cart
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, created_at, updated_at
		FROM carts
		WHERE user_id = $1
	`, userID).Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, err
	}

	items, err := r.listItems(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	c.Items = items
	return &c, nil
}

func (r *repository) listItems(ctx context.Context, cartID uint) ([]*Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			ci.id, ci.cart_id, ci.product_id, ci.variant_id, ci.quantity,
			p.name,
			(SELECT url FROM product_images
			 WHERE product_id = p.id AND is_primary = TRUE
			 ORDER BY sort_order LIMIT 1),
			p.price, p.sale_price, p.stock_quantity, p.is_active,
			ci.created_at
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at
	`, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*Item{}
	for rows.Next() {
		var it Item
		if err := rows.Scan(
			&it.ID, &it.CartID, &it.ProductID, &it.VariantID, &it.Quantity,
			&it.ProductName, &it.ProductImage,
			&it.Price, &it.SalePrice, &it.StockQuantity, &it.IsActive,
			&it.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

func (r *repository) UpsertItem(ctx context.Context, cartID, productID uint, variantID *uint, quantity int) (uint, error) {
	// COALESCE against a sentinel keeps NULL variants conflict-safe;
	// the table has a unique index on (cart_id, product_id, COALESCE(variant_id, 0)).
	var id uint
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO cart_items (cart_id, product_id, variant_id, quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (cart_id, product_id, COALESCE(variant_id, 0))
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
		RETURNING id
	`, cartID, productID, variantID, quantity).Scan(&id)
	return id, err
}

func (r *repository) GetItem(ctx context.Context, itemID uint) (*Item, error) {
	var it Item
	err := r.db.QueryRowContext(ctx, `
		SELECT
			ci.id, ci.cart_id, ci.product_id, ci.variant_id, ci.quantity,
			p.name, p.price, p.sale_price, p.stock_quantity, p.is_active,
			ci.created_at
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.id = $1
	`, itemID).Scan(
		&it.ID, &it.CartID, &it.ProductID, &it.VariantID, &it.Quantity,
		&it.ProductName, &it.Price, &it.SalePrice, &it.StockQuantity, &it.IsActive,
		&it.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *repository) UpdateItemQuantity(ctx context.Context, itemID uint, quantity int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE cart_items SET quantity = $1, updated_at = NOW() WHERE id = $2
	`, quantity, itemID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *repository) RemoveItem(ctx context.Context, itemID uint) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *repository) Clear(ctx context.Context, cartID uint) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	return err
}

func (r *repository) ItemOwner(ctx context.Context, itemID uint) (uint, error) {
	var userID uint
	err := r.db.QueryRowContext(ctx, `
		SELECT c.user_id
		FROM cart_items ci
		JOIN carts c ON c.id = ci.cart_id
		WHERE ci.id = $1
	`, itemID).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrItemNotFound
	}
	return userID, err
}
