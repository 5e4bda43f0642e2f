package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

type Repository interface {
	// CreateTx runs the whole checkout write set in one transaction:
	// order row, item rows, conditional stock decrements and the cart
	// wipe. Any failure rolls back everything.
	CreateTx(ctx context.Context, o *Order, clearCartUserID *uint) (*Order, error)
	GetByID(ctx context.Context, id uint) (*Order, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)
	ListByUser(ctx context.Context, userID uint, filter ListFilter) ([]*Order, int64, error)
	ListAdmin(ctx context.Context, filter AdminListFilter) ([]*Order, int64, error)
	// UpdateStatus stamps the per-status timestamp column and, when
	// restoreStock is set, returns each item's quantity to inventory
	// in the same transaction.
	UpdateStatus(ctx context.Context, id uint, status Status, reason *string, restoreStock bool) error
	UpdatePaymentInfo(ctx context.Context, id uint, update PaymentUpdate) error
	SoftDelete(ctx context.Context, id uint) error
	Statistics(ctx context.Context) (*Statistics, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `
	o.id, o.order_number, o.user_id, o.status,
	o.subtotal, o.shipping_fee, o.discount, o.total,
	o.payment_status, o.payment_method, o.transaction_no, o.paid_at, o.payment_response,
	o.customer_name, o.customer_phone, o.customer_email,
	o.shipping_address, o.shipping_city, o.shipping_district, o.shipping_ward, o.note,
	o.cancelled_reason,
	o.confirmed_at, o.shipped_at, o.delivered_at, o.cancelled_at,
	o.created_at, o.updated_at
`

func (r *repository) CreateTx(ctx context.Context, o *Order, clearCartUserID *uint) (*Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders
			(order_number, user_id, status,
			 subtotal, shipping_fee, discount, total,
			 payment_status, payment_method,
			 customer_name, customer_phone, customer_email,
			 shipping_address, shipping_city, shipping_district, shipping_ward, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at, updated_at
	`, o.OrderNumber, o.UserID, o.Status,
		o.Subtotal, o.ShippingFee, o.Discount, o.Total,
		o.PaymentStatus, o.PaymentMethod,
		o.CustomerName, o.CustomerPhone, o.CustomerEmail,
		o.ShippingAddress, o.ShippingCity, o.ShippingDistrict, o.ShippingWard, o.Note,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateOrderNumber
		}
		return nil, err
	}

	for _, item := range o.Items {
		item.OrderID = o.ID
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO order_items
				(order_id, product_id, variant_id, product_name, product_image,
				 unit_price, quantity, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id
		`, item.OrderID, item.ProductID, item.VariantID, item.ProductName, item.ProductImage,
			item.UnitPrice, item.Quantity, item.Subtotal,
		).Scan(&item.ID); err != nil {
			return nil, err
		}

		// Conditional decrement: concurrent checkouts race on this row
		// and the loser sees zero rows affected.
		res, err := tx.ExecContext(ctx, `
			UPDATE products
			SET stock_quantity = stock_quantity - $1,
				sold_quantity = sold_quantity + $1,
				updated_at = NOW()
			WHERE id = $2 AND stock_quantity >= $1
		`, item.Quantity, item.ProductID)
		if err != nil {
			return nil, err
		}
		affected, _ := res.RowsAffected()
		if affected == 0 {
			return nil, fmt.Errorf("product %d: %w", item.ProductID, ErrInsufficientStock)
		}
	}

	if clearCartUserID != nil {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM cart_items
			WHERE cart_id = (SELECT id FROM carts WHERE user_id = $1)
		`, *clearCartUserID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return o, nil
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Order, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		WHERE o.id = $1 AND o.deleted_at IS NULL
	`, id)
	return r.getOne(ctx, row)
}

func (r *repository) GetByOrderNumber(ctx context.Context, orderNumber string) (*Order, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		WHERE o.order_number = $1 AND o.deleted_at IS NULL
	`, orderNumber)
	return r.getOne(ctx, row)
}

func (r *repository) getOne(ctx context.Context, row *sql.Row) (*Order, error) {
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	items, err := r.listItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *repository) listItems(ctx context.Context, orderID uint) ([]*Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, variant_id, product_name, product_image,
			unit_price, quantity, subtotal
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(
			&it.ID, &it.OrderID, &it.ProductID, &it.VariantID, &it.ProductName, &it.ProductImage,
			&it.UnitPrice, &it.Quantity, &it.Subtotal,
		); err != nil {
			return nil, err
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

func (r *repository) ListByUser(ctx context.Context, userID uint, filter ListFilter) ([]*Order, int64, error) {
	where := []string{"o.user_id = $1", "o.deleted_at IS NULL"}
	args := []any{userID}

	if filter.Status != nil {
		where = append(where, fmt.Sprintf("o.status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}

	return r.list(ctx, where, args, filter.Limit, filter.Page)
}

func (r *repository) ListAdmin(ctx context.Context, filter AdminListFilter) ([]*Order, int64, error) {
	where := []string{"o.deleted_at IS NULL"}
	args := []any{}

	if filter.Status != nil {
		where = append(where, fmt.Sprintf("o.status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.PaymentStatus != nil {
		where = append(where, fmt.Sprintf("o.payment_status = $%d", len(args)+1))
		args = append(args, *filter.PaymentStatus)
	}
	if filter.Search != nil && *filter.Search != "" {
		n := len(args) + 1
		where = append(where, fmt.Sprintf(
			"(o.order_number ILIKE $%d OR o.customer_name ILIKE $%d OR o.customer_phone ILIKE $%d)", n, n, n))
		args = append(args, "%"+*filter.Search+"%")
	}
	if filter.DateFrom != nil {
		where = append(where, fmt.Sprintf("o.created_at >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		where = append(where, fmt.Sprintf("o.created_at <= $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}

	return r.list(ctx, where, args, filter.Limit, filter.Page)
}

func (r *repository) list(ctx context.Context, where []string, args []any, limit, page int) ([]*Order, int64, error) {
	whereClause := " WHERE " + strings.Join(where, " AND ")

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders o`+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}

	query := `SELECT ` + orderColumns + ` FROM orders o` + whereClause +
		fmt.Sprintf(" ORDER BY o.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for _, o := range out {
		items, err := r.listItems(ctx, o.ID)
		if err != nil {
			return nil, 0, err
		}
		o.Items = items
	}
	return out, total, nil
}

// timestampColumns maps each status to the column stamped on entry.
var timestampColumns = map[Status]string{
	StatusConfirmed: "confirmed_at",
	StatusShipping:  "shipped_at",
	StatusDelivered: "delivered_at",
	StatusCancelled: "cancelled_at",
}

func (r *repository) UpdateStatus(ctx context.Context, id uint, status Status, reason *string, restoreStock bool) error {
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

	set := []string{"status = $1", "updated_at = NOW()"}
	args := []any{status}
	if col, ok := timestampColumns[status]; ok {
		set = append(set, col+" = NOW()")
	}
	if reason != nil {
		set = append(set, fmt.Sprintf("cancelled_reason = $%d", len(args)+1))
		args = append(args, *reason)
	}
	args = append(args, id)

	res, err := tx.ExecContext(ctx, fmt.Sprintf(
		`UPDATE orders SET %s WHERE id = $%d AND deleted_at IS NULL`,
		strings.Join(set, ", "), len(args)), args...)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrOrderNotFound
	}

	if restoreStock {
		if _, err := tx.ExecContext(ctx, `
			UPDATE products p
			SET stock_quantity = p.stock_quantity + oi.quantity,
				sold_quantity = p.sold_quantity - oi.quantity,
				updated_at = NOW()
			FROM order_items oi
			WHERE oi.order_id = $1 AND oi.product_id = p.id
		`, id); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (r *repository) UpdatePaymentInfo(ctx context.Context, id uint, update PaymentUpdate) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET payment_status = $1,
			payment_method = COALESCE($2, payment_method),
			transaction_no = COALESCE($3, transaction_no),
			paid_at = COALESCE($4, paid_at),
			payment_response = COALESCE($5, payment_response),
			updated_at = NOW()
		WHERE id = $6 AND deleted_at IS NULL
	`, update.PaymentStatus, update.Method, update.TransactionNo, update.PaidAt,
		update.RawResponse, id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *repository) SoftDelete(ctx context.Context, id uint) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *repository) Statistics(ctx context.Context) (*Statistics, error) {
	stats := &Statistics{CountsByStatus: map[Status]int64{}}

	rows, err := r.db.QueryContext(ctx, `
		SELECT status, COUNT(*)
		FROM orders
		WHERE deleted_at IS NULL
		GROUP BY status
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var status Status
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.CountsByStatus[status] = count
		stats.TotalOrders += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Revenue counts only money actually collected.
	err = r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(total), 0), COALESCE(AVG(total), 0)
		FROM orders
		WHERE deleted_at IS NULL AND payment_status = 'paid'
	`).Scan(&stats.Revenue, &stats.AverageOrder)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var o Order
	if err := row.Scan(
		&o.ID, &o.OrderNumber, &o.UserID, &o.Status,
		&o.Subtotal, &o.ShippingFee, &o.Discount, &o.Total,
		&o.PaymentStatus, &o.PaymentMethod, &o.TransactionNo, &o.PaidAt, &o.PaymentResponse,
		&o.CustomerName, &o.CustomerPhone, &o.CustomerEmail,
		&o.ShippingAddress, &o.ShippingCity, &o.ShippingDistrict, &o.ShippingWard, &o.Note,
		&o.CancelledReason,
		&o.ConfirmedAt, &o.ShippedAt, &o.DeliveredAt, &o.CancelledAt,
		&o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &o, nil
}

