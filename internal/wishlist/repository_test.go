package wishlist

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

func TestListByUser(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "product_id",
		"name", "image", "price", "sale_price", "in_stock", "created_at",
	}).
		AddRow(1, 7, 3, "Tai nghe", "/img/3.jpg", "250000", "199000", true, time.Now()).
		AddRow(2, 7, 5, "Bàn phím", nil, "890000", nil, false, time.Now())

	mock.ExpectQuery(`FROM wishlists w\s+JOIN products p ON p\.id = w\.product_id\s+WHERE w\.user_id = \$1`).
		WithArgs(uint(7)).
		WillReturnRows(rows)

	items, err := repo.ListByUser(ctx, 7)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.True(t, items[0].InStock)
	require.NotNil(t, items[0].SalePrice)
	assert.True(t, items[0].SalePrice.Equal(decimal.NewFromInt(199000)))
	assert.False(t, items[1].InStock)
	assert.Nil(t, items[1].ProductImage)
}

func TestAddIdempotent(t *testing.T) {
	ctx := context.Background()

	t.Run("NewRow", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRepository(db)

		mock.ExpectQuery(`INSERT INTO wishlists \(user_id, product_id\)\s+VALUES \(\$1, \$2\)\s+ON CONFLICT \(user_id, product_id\) DO NOTHING`).
			WithArgs(uint(7), uint(3)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

		id, err := repo.Add(ctx, 7, 3)
		require.NoError(t, err)
		assert.Equal(t, uint(11), id)
	})

	t.Run("ExistingRowReturnsSameID", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRepository(db)

		// ON CONFLICT DO NOTHING yields no row, so the existing ID is
		// looked up.
		mock.ExpectQuery(`INSERT INTO wishlists`).
			WithArgs(uint(7), uint(3)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectQuery(`SELECT id FROM wishlists WHERE user_id = \$1 AND product_id = \$2`).
			WithArgs(uint(7), uint(3)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

		id, err := repo.Add(ctx, 7, 3)
		require.NoError(t, err)
		assert.Equal(t, uint(11), id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRemoveMiss(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectExec(`DELETE FROM wishlists WHERE user_id = \$1 AND product_id = \$2`).
		WithArgs(uint(7), uint(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Remove(ctx, 7, 99), ErrItemNotFound)
}

func TestContains(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(uint(7), uint(3)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.Contains(ctx, 7, 3)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestClearReportsCount(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectExec(`DELETE FROM wishlists WHERE user_id = \$1`).
		WithArgs(uint(7)).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := repo.Clear(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}
