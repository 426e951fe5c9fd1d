package services

import (
	"context"

	"spendbook/internal/core"
)

// CategoryStore persists categories.
type CategoryStore interface {
	CreateCategory(ctx context.Context, name string) (core.Category, error)
	ListCategories(ctx context.Context) ([]core.Category, error)
	GetCategory(ctx context.Context, id int64) (core.Category, error)
	FindCategoryByKeyword(ctx context.Context, keyword string) (core.Category, error)
	RenameCategory(ctx context.Context, id int64, name string) error
	DeleteCategory(ctx context.Context, id int64) error
}

// ExpenseStore persists expenses.
type ExpenseStore interface {
	CreateExpense(ctx context.Context, e core.Expense) (int64, error)
	ListExpenses(ctx context.Context) ([]core.Expense, error)
	GetExpense(ctx context.Context, id int64) (core.Expense, error)
	UpdateExpense(ctx context.Context, e core.Expense) error
	DeleteExpense(ctx context.Context, id int64) error
}

// ReportStore runs the read-only report queries.
type ReportStore interface {
	ExpensesInPeriod(ctx context.Context, p core.Period) ([]core.Expense, error)
	SearchExpenses(ctx context.Context, fragment string) ([]core.Expense, error)
	ExpensesByCategory(ctx context.Context, categoryID int64) ([]core.Expense, error)
	ExtremesPerCategory(ctx context.Context, kind core.Extreme) ([]core.Expense, error)
	ExtremesInPeriod(ctx context.Context, kind core.Extreme, p core.Period) ([]core.Expense, error)
	SumsByCategory(ctx context.Context, p core.Period) ([]core.CategoryTotal, error)
	TopCategories(ctx context.Context, p core.Period) ([]core.CategoryTotal, error)
	TotalsByCurrency(ctx context.Context, p core.Period) ([]core.CurrencyTotal, error)
}

// Store is everything the services need from the database.
type Store interface {
	CategoryStore
	ExpenseStore
	ReportStore
}
