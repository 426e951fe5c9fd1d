package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"spendbook/internal/core"
	applog "spendbook/internal/log"
)

// CreateCategory inserts a category and returns it with its generated id.
func (r *Repository) CreateCategory(ctx context.Context, name string) (core.Category, error) {
	name, err := core.ValidateName(name)
	if err != nil {
		return core.Category{}, err
	}

	c := core.Category{Name: name}
	err = r.db.QueryRowContext(ctx,
		`INSERT INTO categories (name) VALUES ($1) RETURNING id`, name,
	).Scan(&c.ID)
	if err != nil {
		if pgCode(err) == codeUniqueViolation {
			return core.Category{}, constraintError(core.ErrDuplicateCategory, err)
		}
		return core.Category{}, fmt.Errorf("insert category: %w", err)
	}

	slog.InfoContext(ctx, "Category created",
		applog.FieldOperation, applog.OpCreate,
		applog.FieldCategoryID, c.ID,
		applog.FieldCategory, c.Name)
	return c, nil
}

// ListCategories returns all categories ordered by id.
func (r *Repository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

// GetCategory resolves a category by id.
func (r *Repository) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	c := core.Category{ID: id}
	err := r.db.QueryRowContext(ctx, `SELECT name FROM categories WHERE id = $1`, id).Scan(&c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, fmt.Errorf("%w: id %d", core.ErrCategoryNotFound, id)
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category %d: %w", id, err)
	}
	return c, nil
}

// FindCategoryByKeyword returns the lowest-id category whose name contains
// the fragment, ignoring case.
func (r *Repository) FindCategoryByKeyword(ctx context.Context, keyword string) (core.Category, error) {
	var c core.Category
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name
		FROM categories
		WHERE LOWER(name) LIKE LOWER($1)
		ORDER BY id
		LIMIT 1`, likePattern(keyword),
	).Scan(&c.ID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, fmt.Errorf("%w: keyword %q", core.ErrCategoryNotFound, keyword)
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("find category by %q: %w", keyword, err)
	}
	return c, nil
}

// RenameCategory changes the name of an existing category.
func (r *Repository) RenameCategory(ctx context.Context, id int64, name string) error {
	name, err := core.ValidateName(name)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `UPDATE categories SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		if pgCode(err) == codeUniqueViolation {
			return constraintError(core.ErrDuplicateCategory, err)
		}
		return fmt.Errorf("rename category %d: %w", id, err)
	}
	if err := requireAffected(res, core.ErrCategoryNotFound, id); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Category renamed",
		applog.FieldOperation, applog.OpUpdate,
		applog.FieldCategoryID, id,
		applog.FieldCategory, name)
	return nil
}

// DeleteCategory removes a category that no expense references.
func (r *Repository) DeleteCategory(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if pgCode(err) == codeForeignKeyViolation {
			return constraintError(core.ErrCategoryInUse, err)
		}
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	if err := requireAffected(res, core.ErrCategoryNotFound, id); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Category deleted",
		applog.FieldOperation, applog.OpDelete,
		applog.FieldCategoryID, id)
	return nil
}

func requireAffected(res sql.Result, notFound error, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", notFound, id)
	}
	return nil
}
