package notification

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
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

func TestRepositoryCreate(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	userID := uint(7)
	mock.ExpectQuery(`INSERT INTO notifications \(user_id, title, message, type\)`).
		WithArgs(&userID, "Đặt hàng thành công", "Đơn hàng ORD1 đã được tạo", TypeOrder).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, time.Now()))

	n, err := repo.Create(ctx, &Notification{
		UserID:  &userID,
		Title:   "Đặt hàng thành công",
		Message: "Đơn hàng ORD1 đã được tạo",
		Type:    TypeOrder,
	})
	require.NoError(t, err)
	assert.Equal(t, uint(1), n.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryListByUser(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	userID := uint(7)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM notifications WHERE user_id = \$1`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`FROM notifications\s+WHERE user_id = \$1\s+ORDER BY created_at DESC\s+LIMIT \$2 OFFSET \$3`).
		WithArgs(userID, 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "message", "type", "is_read", "created_at"}).
			AddRow(2, userID, "Giao hàng", "Đơn hàng đang được giao", TypeOrder, false, time.Now()).
			AddRow(1, userID, "Đặt hàng thành công", "Đơn hàng đã được tạo", TypeOrder, true, time.Now()))

	out, total, err := repo.ListByUser(ctx, userID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, out, 2)
	assert.False(t, out[0].IsRead)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryMarkRead(t *testing.T) {
	ctx := context.Background()

	t.Run("Updates", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRepository(db)

		mock.ExpectExec(`UPDATE notifications SET is_read = TRUE WHERE id = \$1`).
			WithArgs(uint(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.MarkRead(ctx, 3))
	})

	t.Run("Missing", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRepository(db)

		mock.ExpectExec(`UPDATE notifications SET is_read = TRUE`).
			WithArgs(uint(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.MarkRead(ctx, 99), ErrNotificationNotFound)
	})
}

func TestRepositoryRecipient(t *testing.T) {
	ctx := context.Background()

	t.Run("PersonalRow", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRepository(db)

		mock.ExpectQuery(`SELECT user_id FROM notifications WHERE id = \$1`).
			WithArgs(uint(3)).
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(7))

		got, err := repo.Recipient(ctx, 3)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, uint(7), *got)
	})

	t.Run("BroadcastRow", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRepository(db)

		mock.ExpectQuery(`SELECT user_id FROM notifications WHERE id = \$1`).
			WithArgs(uint(4)).
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(nil))

		got, err := repo.Recipient(ctx, 4)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Missing", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRepository(db)

		mock.ExpectQuery(`SELECT user_id FROM notifications WHERE id = \$1`).
			WithArgs(uint(99)).
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

		_, err := repo.Recipient(ctx, 99)
		assert.ErrorIs(t, err, ErrNotificationNotFound)
	})
}

func TestRepositoryUnreadCount(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM notifications WHERE user_id = \$1 AND is_read = FALSE`).
		WithArgs(uint(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := repo.UnreadCount(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
