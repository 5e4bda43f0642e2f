package wishlist

import (
	"context"
	"database/sql"
	"errors"
)

type Repository interface {
	ListByUser(ctx context.Context, userID uint) ([]*Item, error)
	// Add is idempotent: re-adding a product returns the existing row's
	// ID. The table has a unique index on (user_id, product_id).
	Add(ctx context.Context, userID, productID uint) (uint, error)
	Remove(ctx context.Context, userID, productID uint) error
	Contains(ctx context.Context, userID, productID uint) (bool, error)
	// Clear removes every row for the user and returns how many.
	Clear(ctx context.Context, userID uint) (int64, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListByUser(ctx context.Context, userID uint) ([]*Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			w.id, w.user_id, w.product_id,
			p.name,
			(SELECT url FROM product_images
			 WHERE product_id = p.id AND is_primary = TRUE
			 ORDER BY sort_order LIMIT 1),
			p.price, p.sale_price, p.stock_quantity > 0,
			w.created_at
		FROM wishlists w
		JOIN products p ON p.id = w.product_id
		WHERE w.user_id = $1
		ORDER BY w.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*Item{}
	for rows.Next() {
		var it Item
		if err := rows.Scan(
			&it.ID, &it.UserID, &it.ProductID,
			&it.ProductName, &it.ProductImage,
			&it.Price, &it.SalePrice, &it.InStock,
			&it.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

func (r *repository) Add(ctx context.Context, userID, productID uint) (uint, error) {
	var id uint
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO wishlists (user_id, product_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, product_id) DO NOTHING
		RETURNING id
	`, userID, productID).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	// Conflict path: the row already exists.
	err = r.db.QueryRowContext(ctx, `
		SELECT id FROM wishlists WHERE user_id = $1 AND product_id = $2
	`, userID, productID).Scan(&id)
	return id, err
}

func (r *repository) Remove(ctx context.Context, userID, productID uint) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM wishlists WHERE user_id = $1 AND product_id = $2
	`, userID, productID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *repository) Contains(ctx context.Context, userID, productID uint) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM wishlists WHERE user_id = $1 AND product_id = $2)
	`, userID, productID).Scan(&exists)
	return exists, err
}

func (r *repository) Clear(ctx context.Context, userID uint) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM wishlists WHERE user_id = $1
	`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
