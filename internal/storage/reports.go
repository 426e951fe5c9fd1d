package storage

import (
	"context"
	"fmt"

	"spendbook/internal/core"
)

// ExpensesInPeriod returns expenses dated within p, oldest first.
func (r *Repository) ExpensesInPeriod(ctx context.Context, p core.Period) ([]core.Expense, error) {
	out, err := r.queryExpenses(ctx, `
		SELECT`+expenseColumns+`
		FROM expenses e
		JOIN categories c ON c.id = e.category_id
		WHERE e.expense_date BETWEEN $1 AND $2
		ORDER BY e.expense_date, e.id`, p.From, p.To)
	if err != nil {
		return nil, fmt.Errorf("expenses in period %s: %w", p, err)
	}
	return out, nil
}

// SearchExpenses matches the fragment against title or description,
// ignoring case.
func (r *Repository) SearchExpenses(ctx context.Context, fragment string) ([]core.Expense, error) {
	out, err := r.queryExpenses(ctx, `
		SELECT`+expenseColumns+`
		FROM expenses e
		JOIN categories c ON c.id = e.category_id
		WHERE LOWER(e.title) LIKE LOWER($1)
		   OR LOWER(COALESCE(e.description, '')) LIKE LOWER($1)
		ORDER BY e.expense_date, e.id`, likePattern(fragment))
	if err != nil {
		return nil, fmt.Errorf("search expenses %q: %w", fragment, err)
	}
	return out, nil
}

// ExpensesByCategory lists one category's expenses chronologically.
func (r *Repository) ExpensesByCategory(ctx context.Context, categoryID int64) ([]core.Expense, error) {
	out, err := r.queryExpenses(ctx, `
		SELECT`+expenseColumns+`
		FROM expenses e
		JOIN categories c ON c.id = e.category_id
		WHERE e.category_id = $1
		ORDER BY e.expense_date, e.id`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("expenses by category %d: %w", categoryID, err)
	}
	return out, nil
}

// Ties on amount go to the newest date, then the newest id.
const (
	maxPerCategoryQuery = `
		SELECT DISTINCT ON (c.id, COALESCE(e.currency, 'UAH'))` + expenseColumns + `
		FROM categories c
		JOIN expenses e ON e.category_id = c.id
		ORDER BY c.id, COALESCE(e.currency, 'UAH'), e.amount DESC, e.expense_date DESC, e.id DESC`

	minPerCategoryQuery = `
		SELECT DISTINCT ON (c.id, COALESCE(e.currency, 'UAH'))` + expenseColumns + `
		FROM categories c
		JOIN expenses e ON e.category_id = c.id
		ORDER BY c.id, COALESCE(e.currency, 'UAH'), e.amount ASC, e.expense_date DESC, e.id DESC`

	maxInPeriodQuery = `
		SELECT DISTINCT ON (COALESCE(e.currency, 'UAH'))` + expenseColumns + `
		FROM expenses e
		JOIN categories c ON c.id = e.category_id
		WHERE e.expense_date BETWEEN $1 AND $2
		ORDER BY COALESCE(e.currency, 'UAH'), e.amount DESC, e.expense_date DESC, e.id DESC`

	minInPeriodQuery = `
		SELECT DISTINCT ON (COALESCE(e.currency, 'UAH'))` + expenseColumns + `
		FROM expenses e
		JOIN categories c ON c.id = e.category_id
		WHERE e.expense_date BETWEEN $1 AND $2
		ORDER BY COALESCE(e.currency, 'UAH'), e.amount ASC, e.expense_date DESC, e.id DESC`
)

// ExtremesPerCategory returns one max or min expense per (category, currency).
func (r *Repository) ExtremesPerCategory(ctx context.Context, kind core.Extreme) ([]core.Expense, error) {
	query := maxPerCategoryQuery
	if kind == core.Min {
		query = minPerCategoryQuery
	}
	out, err := r.queryExpenses(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s expense per category: %w", kind, err)
	}
	return out, nil
}

// ExtremesInPeriod returns one max or min expense per currency within p.
func (r *Repository) ExtremesInPeriod(ctx context.Context, kind core.Extreme, p core.Period) ([]core.Expense, error) {
	query := maxInPeriodQuery
	if kind == core.Min {
		query = minInPeriodQuery
	}
	out, err := r.queryExpenses(ctx, query, p.From, p.To)
	if err != nil {
		return nil, fmt.Errorf("%s expense in period %s: %w", kind, p, err)
	}
	return out, nil
}

const sumsByCategoryQuery = `
	SELECT c.name AS category, COALESCE(e.currency, 'UAH') AS currency, SUM(e.amount) AS total
	FROM expenses e
	JOIN categories c ON c.id = e.category_id
	WHERE e.expense_date BETWEEN $1 AND $2
	GROUP BY c.name, COALESCE(e.currency, 'UAH')`

// SumsByCategory totals amounts per (category, currency) within p.
func (r *Repository) SumsByCategory(ctx context.Context, p core.Period) ([]core.CategoryTotal, error) {
	out, err := r.queryCategoryTotals(ctx, sumsByCategoryQuery+`
	ORDER BY category, currency`, p)
	if err != nil {
		return nil, fmt.Errorf("sums by category %s: %w", p, err)
	}
	return out, nil
}

// TopCategories returns, per currency, the category with the largest total
// within p. Equal totals go to the alphabetically first category.
func (r *Repository) TopCategories(ctx context.Context, p core.Period) ([]core.CategoryTotal, error) {
	out, err := r.queryCategoryTotals(ctx, `
	WITH sums AS (`+sumsByCategoryQuery+`
	)
	SELECT DISTINCT ON (currency) category, currency, total
	FROM sums
	ORDER BY currency, total DESC, category`, p)
	if err != nil {
		return nil, fmt.Errorf("top categories %s: %w", p, err)
	}
	return out, nil
}

func (r *Repository) queryCategoryTotals(ctx context.Context, query string, p core.Period) ([]core.CategoryTotal, error) {
	rows, err := r.db.QueryContext(ctx, query, p.From, p.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.CategoryTotal
	for rows.Next() {
		var (
			t        core.CategoryTotal
			currency string
		)
		if err := rows.Scan(&t.Category, &currency, &t.Total); err != nil {
			return nil, err
		}
		t.Currency = core.Currency(currency)
		out = append(out, t)
	}
	return out, rows.Err()
}

// TotalsByCurrency sums amounts per currency within p.
func (r *Repository) TotalsByCurrency(ctx context.Context, p core.Period) ([]core.CurrencyTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT COALESCE(e.currency, 'UAH') AS currency, SUM(e.amount)
		FROM expenses e
		WHERE e.expense_date BETWEEN $1 AND $2
		GROUP BY COALESCE(e.currency, 'UAH')
		ORDER BY currency`, p.From, p.To)
	if err != nil {
		return nil, fmt.Errorf("totals by currency %s: %w", p, err)
	}
	defer rows.Close()

	var out []core.CurrencyTotal
	for rows.Next() {
		var (
			t        core.CurrencyTotal
			currency string
		)
		if err := rows.Scan(&currency, &t.Total); err != nil {
			return nil, fmt.Errorf("scan currency total: %w", err)
		}
		t.Currency = core.Currency(currency)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("totals by currency %s: %w", p, err)
	}
	return out, nil
}
