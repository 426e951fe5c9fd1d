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

// insertError maps constraint failures of INSERT/UPDATE on expenses.
func insertError(op string, err error) error {
	switch pgCode(err) {
	case codeForeignKeyViolation:
		return constraintError(core.ErrCategoryNotFound, err)
	case codeCheckViolation:
		return constraintError(core.ErrInvalidAmount, err)
	}
	return fmt.Errorf("%s expense: %w", op, err)
}

// CreateExpense inserts an expense and returns its generated id.
func (r *Repository) CreateExpense(ctx context.Context, e core.Expense) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}

	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO expenses (title, amount, expense_date, category_id, description, currency)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		e.Title, e.Amount, e.Date, e.CategoryID, nullString(e.Description), string(e.Currency),
	).Scan(&id)
	if err != nil {
		return 0, insertError("insert", err)
	}

	slog.InfoContext(ctx, "Expense created",
		applog.NewFields().
			WithOperation(applog.OpCreate).
			WithExpense(id, e.Title, core.FormatAmount(e.Amount), string(e.Currency), e.CategoryID).
			ToSlice()...)
	return id, nil
}

// ListExpenses returns every expense, newest date first and newest id first
// within a day.
func (r *Repository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	out, err := r.queryExpenses(ctx, `
		SELECT`+expenseColumns+`
		FROM expenses e
		JOIN categories c ON c.id = e.category_id
		ORDER BY e.expense_date DESC, e.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return out, nil
}

// GetExpense loads one expense joined with its category name.
func (r *Repository) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT`+expenseColumns+`
		FROM expenses e
		JOIN categories c ON c.id = e.category_id
		WHERE e.id = $1`, id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, fmt.Errorf("%w: id %d", core.ErrExpenseNotFound, id)
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense %d: %w", id, err)
	}
	return e, nil
}

// UpdateExpense writes every column of e in a single statement.
func (r *Repository) UpdateExpense(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE expenses
		SET title = $1, expense_date = $2, category_id = $3, amount = $4, currency = $5, description = $6
		WHERE id = $7`,
		e.Title, e.Date, e.CategoryID, e.Amount, string(e.Currency), nullString(e.Description), e.ID,
	)
	if err != nil {
		return insertError("update", err)
	}
	if err := requireAffected(res, core.ErrExpenseNotFound, e.ID); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Expense updated",
		applog.NewFields().
			WithOperation(applog.OpUpdate).
			WithExpense(e.ID, e.Title, core.FormatAmount(e.Amount), string(e.Currency), e.CategoryID).
			ToSlice()...)
	return nil
}

// DeleteExpense removes an expense by id.
func (r *Repository) DeleteExpense(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	if err := requireAffected(res, core.ErrExpenseNotFound, id); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Expense deleted",
		applog.FieldOperation, applog.OpDelete,
		applog.FieldExpenseID, id)
	return nil
}
