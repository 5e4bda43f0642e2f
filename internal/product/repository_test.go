package product

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func productRowColumns() []string {
	return []string{
		"id", "name", "slug", "description", "brand", "category_id", "category_name",
		"price", "sale_price", "stock_quantity", "sold_quantity",
		"rating", "review_count", "is_active", "is_featured",
		"created_at", "updated_at",
	}
}

func productRow(rows *sqlmock.Rows, id uint, name, slug string, price string) *sqlmock.Rows {
	return rows.AddRow(
		id, name, slug, nil, nil, 1, "Laptop",
		price, nil, 10, 2,
		"4.5", 3, true, false,
		time.Now(), time.Now(),
	)
}

func TestRepositoryList(t *testing.T) {
	ctx := context.Background()

	t.Run("NoFilters", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRepository(db)

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM products p$`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
		mock.ExpectQuery(`ORDER BY p\.created_at DESC, p\.id ASC LIMIT \$1 OFFSET \$2`).
			WithArgs(20, 0).
			WillReturnRows(productRow(productRow(sqlmock.NewRows(productRowColumns()),
				1, "MacBook", "macbook", "45000000"), 2, "ThinkPad", "thinkpad", "32000000"))
		mock.ExpectQuery(`FROM product_images`).
			WithArgs(uint(1), uint(2)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "url", "is_primary", "sort_order"}).
				AddRow(1, 1, "https://cdn.example/mb.jpg", true, 0))

		out, total, err := repo.List(ctx, ListFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, out, 2)
		assert.Len(t, out[0].Images, 1)
		assert.Empty(t, out[1].Images)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ComposedPredicates", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRepository(db)

		catID := uint(3)
		search := "pro"
		minPrice := decimal.NewFromInt(1000000)
		featured := true

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM products p WHERE p\.is_active = TRUE AND p\.category_id = \$1 AND \(p\.name ILIKE \$2 OR p\.description ILIKE \$2\) AND COALESCE\(p\.sale_price, p\.price\) >= \$3 AND p\.is_featured = \$4`).
			WithArgs(catID, "%pro%", minPrice, featured).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`ORDER BY COALESCE\(p\.sale_price, p\.price\) ASC`).
			WithArgs(catID, "%pro%", minPrice, featured, 10, 10).
			WillReturnRows(sqlmock.NewRows(productRowColumns()))

		out, total, err := repo.List(ctx, ListFilter{
			CategoryID: &catID,
			Search:     &search,
			MinPrice:   &minPrice,
			Featured:   &featured,
			ActiveOnly: true,
			SortBy:     "price",
			Limit:      10,
			Page:       2,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
		assert.Empty(t, out)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UnknownSortFallsBack", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRepository(db)

		mock.ExpectQuery(`SELECT COUNT\(\*\)`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`ORDER BY p\.created_at DESC`).
			WithArgs(20, 0).
			WillReturnRows(sqlmock.NewRows(productRowColumns()))

		_, _, err := repo.List(ctx, ListFilter{SortBy: "id; DROP TABLE products"})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepositoryGetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRepository(db)

		mock.ExpectQuery(`WHERE p\.id = \$1`).
			WithArgs(uint(1)).
			WillReturnRows(productRow(sqlmock.NewRows(productRowColumns()), 1, "MacBook", "macbook", "45000000"))
		mock.ExpectQuery(`FROM product_images`).
			WithArgs(uint(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "url", "is_primary", "sort_order"}))
		mock.ExpectQuery(`FROM product_variants`).
			WithArgs(uint(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "name", "value", "price_delta", "stock_quantity"}).
				AddRow(1, 1, "Color", "Silver", nil, 5))

		p, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.True(t, p.Price.Equal(decimal.NewFromInt(45000000)))
		require.Len(t, p.Variants, 1)
		assert.Equal(t, "Silver", p.Variants[0].Value)
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRepository(db)

		mock.ExpectQuery(`WHERE p\.id = \$1`).
			WithArgs(uint(99)).
			WillReturnRows(sqlmock.NewRows(productRowColumns()))

		_, err := repo.GetByID(ctx, 99)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestRepositoryCreate(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO products`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(5, time.Now(), time.Now()))
	mock.ExpectExec(`INSERT INTO product_images`).
		WithArgs(uint(5), "https://cdn.example/a.jpg", true, 0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	// Re-read after commit.
	mock.ExpectQuery(`WHERE p\.id = \$1`).
		WithArgs(uint(5)).
		WillReturnRows(productRow(sqlmock.NewRows(productRowColumns()), 5, "New", "new", "100000"))
	mock.ExpectQuery(`FROM product_images`).
		WithArgs(uint(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "url", "is_primary", "sort_order"}))
	mock.ExpectQuery(`FROM product_variants`).
		WithArgs(uint(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "name", "value", "price_delta", "stock_quantity"}))

	p := &Product{Name: "New", Slug: "new", CategoryID: 1, Price: decimal.NewFromInt(100000), IsActive: true}
	created, err := repo.Create(ctx, p, []string{"https://cdn.example/a.jpg"})
	require.NoError(t, err)
	assert.Equal(t, uint(5), created.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositorySetStock(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRepository(db)

		mock.ExpectExec(`UPDATE products SET stock_quantity = \$1`).
			WithArgs(30, uint(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.SetStock(ctx, 1, 30))
	})

	t.Run("Missing", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRepository(db)

		mock.ExpectExec(`UPDATE products SET stock_quantity = \$1`).
			WithArgs(30, uint(9)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.SetStock(ctx, 9, 30), ErrProductNotFound)
	})
}

func TestRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectExec(`UPDATE products SET is_active = FALSE`).
		WithArgs(uint(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(ctx, 1))
}
