package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

type Repository interface {
	Create(ctx context.Context, r *Review) (*Review, error)
	GetByID(ctx context.Context, id uint) (*Review, error)
	ListApprovedByProduct(ctx context.Context, productID uint, limit, page int) ([]*Review, int64, error)
	ListAdmin(ctx context.Context, filter AdminListFilter) ([]*Review, int64, error)
	// HasDeliveredPurchase reports whether the user has a delivered,
	// undeleted order containing the product.
	HasDeliveredPurchase(ctx context.Context, userID, productID uint) (bool, error)
	// SetStatus moderates the review and, when it lands on approved,
	// recomputes the product's rating aggregate in the same
	// transaction.
	SetStatus(ctx context.Context, id uint, status Status) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rv *Review) (*Review, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO reviews (product_id, user_id, rating, comment, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, rv.ProductID, rv.UserID, rv.Rating, rv.Comment, rv.Status,
	).Scan(&rv.ID, &rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}
	return rv, nil
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Review, error) {
	var rv Review
	err := r.db.QueryRowContext(ctx, `
		SELECT r.id, r.product_id, r.user_id, u.name, r.rating, r.comment, r.status,
			p.name, r.created_at, r.updated_at
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		JOIN products p ON p.id = r.product_id
		WHERE r.id = $1
	`, id).Scan(
		&rv.ID, &rv.ProductID, &rv.UserID, &rv.UserName, &rv.Rating, &rv.Comment, &rv.Status,
		&rv.ProductName, &rv.CreatedAt, &rv.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *repository) ListApprovedByProduct(ctx context.Context, productID uint, limit, page int) ([]*Review, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM reviews WHERE product_id = $1 AND status = 'approved'
	`, productID).Scan(&total); err != nil {
		return nil, 0, err
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT r.id, r.product_id, r.user_id, u.name, r.rating, r.comment, r.status,
			r.created_at, r.updated_at
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.product_id = $1 AND r.status = 'approved'
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3
	`, productID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Review
	for rows.Next() {
		var rv Review
		if err := rows.Scan(
			&rv.ID, &rv.ProductID, &rv.UserID, &rv.UserName, &rv.Rating, &rv.Comment, &rv.Status,
			&rv.CreatedAt, &rv.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, &rv)
	}
	return out, total, rows.Err()
}

func (r *repository) ListAdmin(ctx context.Context, filter AdminListFilter) ([]*Review, int64, error) {
	where := []string{}
	args := []any{}
	if filter.Status != nil {
		where = append(where, fmt.Sprintf("r.status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reviews r`+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	query := `
		SELECT r.id, r.product_id, r.user_id, u.name, r.rating, r.comment, r.status,
			p.name, r.created_at, r.updated_at
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		JOIN products p ON p.id = r.product_id` + whereClause +
		fmt.Sprintf(" ORDER BY r.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Review
	for rows.Next() {
		var rv Review
		if err := rows.Scan(
			&rv.ID, &rv.ProductID, &rv.UserID, &rv.UserName, &rv.Rating, &rv.Comment, &rv.Status,
			&rv.ProductName, &rv.CreatedAt, &rv.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, &rv)
	}
	return out, total, rows.Err()
}

func (r *repository) HasDeliveredPurchase(ctx context.Context, userID, productID uint) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM orders o
			JOIN order_items oi ON oi.order_id = o.id
			WHERE o.user_id = $1
				AND oi.product_id = $2
				AND o.status = 'delivered'
				AND o.deleted_at IS NULL
		)
	`, userID, productID).Scan(&exists)
	return exists, err
}

func (r *repository) SetStatus(ctx context.Context, id uint, status Status) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var productID uint
	err = tx.QueryRowContext(ctx, `
		UPDATE reviews SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING product_id
	`, status, id).Scan(&productID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrReviewNotFound
	}
	if err != nil {
		return err
	}

	if status == StatusApproved {
		if _, err := tx.ExecContext(ctx, `
			UPDATE products p
			SET rating = sub.avg_rating,
				review_count = sub.cnt,
				updated_at = NOW()
			FROM (
				SELECT COALESCE(AVG(rating), 0) AS avg_rating, COUNT(*) AS cnt
				FROM reviews
				WHERE product_id = $1 AND status = 'approved'
			) sub
			WHERE p.id = $1
		`, productID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
