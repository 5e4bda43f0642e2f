package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]*Product, int64, error)
	GetByID(ctx context.Context, id uint) (*Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	Create(ctx context.Context, p *Product, images []string) (*Product, error)
	Update(ctx context.Context, p *Product) (*Product, error)
	Delete(ctx context.Context, id uint) error
	SetStock(ctx context.Context, id uint, quantity int) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `
	p.id, p.name, p.slug, p.description, p.brand, p.category_id, c.name,
	p.price, p.sale_price, p.stock_quantity, p.sold_quantity,
	p.rating, p.review_count, p.is_active, p.is_featured,
	p.created_at, p.updated_at
`

func (r *repository) List(ctx context.Context, filter ListFilter) ([]*Product, int64, error) {
	where := []string{}
	args := []any{}

	if filter.ActiveOnly {
		where = append(where, "p.is_active = TRUE")
	}
	if filter.CategoryID != nil {
		where = append(where, fmt.Sprintf("p.category_id = $%d", len(args)+1))
		args = append(args, *filter.CategoryID)
	}
	if filter.Search != nil && *filter.Search != "" {
		where = append(where, fmt.Sprintf("(p.name ILIKE $%d OR p.description ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+*filter.Search+"%")
	}
	if filter.MinPrice != nil {
		where = append(where, fmt.Sprintf("COALESCE(p.sale_price, p.price) >= $%d", len(args)+1))
		args = append(args, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		where = append(where, fmt.Sprintf("COALESCE(p.sale_price, p.price) <= $%d", len(args)+1))
		args = append(args, *filter.MaxPrice)
	}
	if filter.Brand != nil && *filter.Brand != "" {
		where = append(where, fmt.Sprintf("p.brand = $%d", len(args)+1))
		args = append(args, *filter.Brand)
	}
	if filter.Featured != nil {
		where = append(where, fmt.Sprintf("p.is_featured = $%d", len(args)+1))
		args = append(args, *filter.Featured)
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM products p` + whereClause
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderCol, ok := sortColumns[filter.SortBy]
	if !ok {
		orderCol = "p.created_at"
		filter.SortDesc = true
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	query := `SELECT ` + productColumns + `
		FROM products p
		JOIN categories c ON c.id = p.category_id` +
		whereClause +
		fmt.Sprintf(" ORDER BY %s %s, p.id ASC", orderCol, direction) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := r.attachImages(ctx, out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Product, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1
	`, id)
	return r.getOne(ctx, row)
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.slug = $1
	`, slug)
	return r.getOne(ctx, row)
}

func (r *repository) getOne(ctx context.Context, row *sql.Row) (*Product, error) {
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	list := []*Product{p}
	if err := r.attachImages(ctx, list); err != nil {
		return nil, err
	}
	if err := r.attachVariants(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) Create(ctx context.Context, p *Product, images []string) (*Product, error) {
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
		INSERT INTO products
			(name, slug, description, brand, category_id, price, sale_price,
			 stock_quantity, is_active, is_featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, p.Name, p.Slug, p.Description, p.Brand, p.CategoryID, p.Price, p.SalePrice,
		p.StockQuantity, p.IsActive, p.IsFeatured,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	for i, url := range images {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO product_images (product_id, url, is_primary, sort_order)
			VALUES ($1, $2, $3, $4)
		`, p.ID, url, i == 0, i); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	return r.GetByID(ctx, p.ID)
}

func (r *repository) Update(ctx context.Context, p *Product) (*Product, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name = $1, slug = $2, description = $3, brand = $4, category_id = $5,
			price = $6, sale_price = $7, is_active = $8, is_featured = $9,
			updated_at = NOW()
		WHERE id = $10
	`, p.Name, p.Slug, p.Description, p.Brand, p.CategoryID,
		p.Price, p.SalePrice, p.IsActive, p.IsFeatured, p.ID)
	if err != nil {
		return nil, err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return nil, ErrProductNotFound
	}
	return r.GetByID(ctx, p.ID)
}

// Delete deactivates the product instead of removing the row so order
// item history keeps a valid reference.
func (r *repository) Delete(ctx context.Context, id uint) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products SET is_active = FALSE, updated_at = NOW() WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// SetStock is an absolute overwrite used by admin inventory edits.
// Checkout decrements go through the order repository instead.
func (r *repository) SetStock(ctx context.Context, id uint, quantity int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products SET stock_quantity = $1, updated_at = NOW() WHERE id = $2
	`, quantity, id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *repository) attachImages(ctx context.Context, products []*Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]any, 0, len(products))
	placeholders := make([]string, 0, len(products))
	byID := make(map[uint]*Product, len(products))
	for i, p := range products {
		ids = append(ids, p.ID)
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
		byID[p.ID] = p
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, url, is_primary, sort_order
		FROM product_images
		WHERE product_id IN (`+strings.Join(placeholders, ", ")+`)
		ORDER BY product_id, sort_order
	`, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.ID, &img.ProductID, &img.URL, &img.IsPrimary, &img.SortOrder); err != nil {
			return err
		}
		if p, ok := byID[img.ProductID]; ok {
			p.Images = append(p.Images, &img)
		}
	}
	return rows.Err()
}

func (r *repository) attachVariants(ctx context.Context, p *Product) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, name, value, price_delta, stock_quantity
		FROM product_variants
		WHERE product_id = $1
		ORDER BY id
	`, p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var v Variant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Name, &v.Value, &v.PriceDelta, &v.StockQuantity); err != nil {
			return err
		}
		p.Variants = append(p.Variants, &v)
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*Product, error) {
	var p Product
	if err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Brand, &p.CategoryID, &p.CategoryName,
		&p.Price, &p.SalePrice, &p.StockQuantity, &p.SoldQuantity,
		&p.Rating, &p.ReviewCount, &p.IsActive, &p.IsFeatured,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}
