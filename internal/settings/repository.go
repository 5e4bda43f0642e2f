package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type Repository interface {
	GetAll(ctx context.Context, category *Category) ([]*Setting, error)
	GetByKey(ctx context.Context, key string) (*Setting, error)
	UpdateValue(ctx context.Context, key, value string, description *string) error
	UpdateBulk(ctx context.Context, updates map[string]string) error
	Create(ctx context.Context, s *Setting) error
	Delete(ctx context.Context, key string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetAll(ctx context.Context, category *Category) ([]*Setting, error) {
	query := `
		SELECT key, value, data_type, category, description, updated_at
		FROM settings
	`
	args := []any{}
	if category != nil {
		query += ` WHERE category = $1`
		args = append(args, *category)
	}
	query += ` ORDER BY category, key`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Setting
	for rows.Next() {
		s, err := scanSetting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repository) GetByKey(ctx context.Context, key string) (*Setting, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT key, value, data_type, category, description, updated_at
		FROM settings
		WHERE key = $1
	`, key)

	s, err := scanSetting(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *repository) UpdateValue(ctx context.Context, key, value string, description *string) error {
	query := `UPDATE settings SET value = $1, updated_at = NOW()`
	args := []any{value}
	if description != nil {
		query += `, description = $2 WHERE key = $3`
		args = append(args, *description, key)
	} else {
		query += ` WHERE key = $2`
		args = append(args, key)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) UpdateBulk(ctx context.Context, updates map[string]string) error {
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

	for key, value := range updates {
		if _, err := tx.ExecContext(ctx, `
			UPDATE settings SET value = $1, updated_at = NOW() WHERE key = $2
		`, value, key); err != nil {
			return fmt.Errorf("failed to update setting %q: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (r *repository) Create(ctx context.Context, s *Setting) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, data_type, category, description)
		VALUES ($1, $2, $3, $4, $5)
	`, s.Key, s.Value, s.DataType, s.Category, s.Description)
	return err
}

func (r *repository) Delete(ctx context.Context, key string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM settings WHERE key = $1`, key)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSetting(row rowScanner) (*Setting, error) {
	var s Setting
	if err := row.Scan(&s.Key, &s.Value, &s.DataType, &s.Category, &s.Description, &s.UpdatedAt); err != nil {
		return nil, err
	}

	parsed, err := ParseValue(s.DataType, s.Value)
	if err != nil {
		// Keep serving the raw value rather than failing reads on one
		// corrupt row.
		parsed = Value{Type: TypeString, Str: s.Value}
	}
	s.Parsed = parsed
	return &s, nil
}
