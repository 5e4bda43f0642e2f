package category

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
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

func categoryRowColumns() []string {
	return []string{"id", "name", "slug", "description", "parent_id", "image_url", "is_active", "created_at", "updated_at"}
}

func TestRepositoryGetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("ActiveOnly", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRepository(db)

		mock.ExpectQuery(`FROM categories WHERE is_active = TRUE ORDER BY name`).
			WillReturnRows(sqlmock.NewRows(categoryRowColumns()).
				AddRow(1, "Laptop", "laptop", nil, nil, nil, true, time.Now(), time.Now()))

		out, err := repo.GetAll(ctx, true)
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "laptop", out[0].Slug)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("All", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRepository(db)

		mock.ExpectQuery(`FROM categories ORDER BY name`).
			WillReturnRows(sqlmock.NewRows(categoryRowColumns()).
				AddRow(1, "Laptop", "laptop", nil, nil, nil, true, time.Now(), time.Now()).
				AddRow(2, "Cu", "cu", nil, nil, nil, false, time.Now(), time.Now()))

		out, err := repo.GetAll(ctx, false)
		require.NoError(t, err)
		assert.Len(t, out, 2)
	})
}

func TestRepositoryGetByID(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`FROM categories WHERE id = \$1`).
		WithArgs(uint(7)).
		WillReturnRows(sqlmock.NewRows(categoryRowColumns()))

	_, err := repo.GetByID(ctx, 7)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestRepositoryCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRepository(db)

		mock.ExpectQuery(`INSERT INTO categories`).
			WithArgs("Laptop", "laptop", nil, nil, nil, true).
			WillReturnRows(sqlmock.NewRows(categoryRowColumns()).
				AddRow(1, "Laptop", "laptop", nil, nil, nil, true, time.Now(), time.Now()))

		created, err := repo.Create(ctx, &Category{Name: "Laptop", Slug: "laptop", IsActive: true})
		require.NoError(t, err)
		assert.Equal(t, uint(1), created.ID)
	})

	t.Run("DuplicateSlug", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRepository(db)

		mock.ExpectQuery(`INSERT INTO categories`).
			WillReturnError(&pq.Error{Code: "23505"})

		_, err := repo.Create(ctx, &Category{Name: "Laptop", Slug: "laptop"})
		assert.ErrorIs(t, err, ErrDuplicateSlug)
	})
}

func TestRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectExec(`DELETE FROM categories WHERE id = \$1`).
		WithArgs(uint(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(ctx, 9), ErrCategoryNotFound)
}

func TestRepositoryCountProducts(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM products WHERE category_id = \$1`).
		WithArgs(uint(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	n, err := repo.CountProducts(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}
