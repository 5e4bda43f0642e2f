package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

type Repository interface {
	Create(ctx context.Context, u *User) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uint) (*User, error)
	UpdateProfile(ctx context.Context, id uint, input UpdateProfileInput) (*User, error)
	ListAdmin(ctx context.Context, filter AdminListFilter) ([]*AdminListItem, int64, error)
	UpdateRole(ctx context.Context, id uint, role string) error
	SetActive(ctx context.Context, id uint, active bool) error
	// CountActiveOrders counts the user's orders that are still moving
	// through fulfilment. Used to guard account deletion.
	CountActiveOrders(ctx context.Context, userID uint) (int64, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const userColumns = `id, name, email, password, phone, address, role, is_active, created_at, updated_at`

func (r *repository) Create(ctx context.Context, u *User) (*User, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_active, created_at, updated_at
	`, u.Name, u.Email, u.Password, u.Role).Scan(&u.ID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return u, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *repository) GetByID(ctx context.Context, id uint) (*User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *repository) UpdateProfile(ctx context.Context, id uint, input UpdateProfileInput) (*User, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE users
		SET name = COALESCE($1, name),
			phone = COALESCE($2, phone),
			address = COALESCE($3, address),
			updated_at = NOW()
		WHERE id = $4
		RETURNING `+userColumns,
		input.Name, input.Phone, input.Address, id)
	return scanUser(row)
}

func (r *repository) ListAdmin(ctx context.Context, filter AdminListFilter) ([]*AdminListItem, int64, error) {
	where := []string{"TRUE"}
	args := []any{}

	if filter.Role != nil && *filter.Role != "" {
		where = append(where, fmt.Sprintf("u.role = $%d", len(args)+1))
		args = append(args, *filter.Role)
	}
	if filter.Active != nil {
		where = append(where, fmt.Sprintf("u.is_active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != nil && *filter.Search != "" {
		n := len(args) + 1
		where = append(where, fmt.Sprintf(
			"(u.name ILIKE $%d OR u.email ILIKE $%d OR u.phone ILIKE $%d)", n, n, n))
		args = append(args, "%"+*filter.Search+"%")
	}
	whereClause := " WHERE " + strings.Join(where, " AND ")

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users u`+whereClause, args...).Scan(&total); err != nil {
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
		SELECT u.id, u.name, u.email, u.password, u.phone, u.address,
			u.role, u.is_active, u.created_at, u.updated_at,
			COUNT(o.id),
			COALESCE(SUM(CASE WHEN o.status <> 'cancelled' THEN o.total ELSE 0 END), 0)
		FROM users u
		LEFT JOIN orders o ON o.user_id = u.id AND o.deleted_at IS NULL` +
		whereClause + `
		GROUP BY u.id
		ORDER BY u.created_at DESC` +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []*AdminListItem{}
	for rows.Next() {
		var it AdminListItem
		if err := rows.Scan(
			&it.ID, &it.Name, &it.Email, &it.Password, &it.Phone, &it.Address,
			&it.Role, &it.IsActive, &it.CreatedAt, &it.UpdatedAt,
			&it.OrdersCount, &it.TotalSpent,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, &it)
	}
	return out, total, rows.Err()
}

func (r *repository) UpdateRole(ctx context.Context, id uint, role string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2
	`, role, id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *repository) SetActive(ctx context.Context, id uint, active bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET is_active = $1, updated_at = NOW() WHERE id = $2
	`, active, id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *repository) CountActiveOrders(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM orders
		WHERE user_id = $1
			AND status IN ('pending', 'confirmed', 'processing', 'shipping')
			AND deleted_at IS NULL
	`, userID).Scan(&n)
	return n, err
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Phone, &u.Address,
		&u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
