package shell

import (
	"context"
	"errors"

	"spendbook/internal/core"
	applog "spendbook/internal/log"
	"spendbook/internal/services"
)

type failure struct {
	target    error
	message   string
	errorType string
	// raw prints the underlying diagnostic under the message
	raw bool
}

var failures = []failure{
	{core.ErrCategoryNotFound, "Category not found.", applog.ErrorTypeNotFound, false},
	{core.ErrExpenseNotFound, "Expense not found.", applog.ErrorTypeNotFound, false},
	{core.ErrEmptyName, "Category name cannot be empty.", applog.ErrorTypeValidation, false},
	{core.ErrEmptyTitle, "Title cannot be empty.", applog.ErrorTypeValidation, false},
	{services.ErrEmptyQuery, "Search text cannot be empty.", applog.ErrorTypeValidation, false},
	{services.ErrNothingToExport, "No expenses in this period: nothing to export.", applog.ErrorTypeValidation, false},
	{core.ErrDuplicateCategory, "A category with this name already exists.", applog.ErrorTypeConflict, true},
	{core.ErrCategoryInUse, "The category still has expenses and cannot be deleted.", applog.ErrorTypeConflict, true},
	{core.ErrInvalidAmount, "The amount was rejected.", applog.ErrorTypeValidation, true},
	{core.ErrInvalidDate, "The date was rejected.", applog.ErrorTypeValidation, true},
	{core.ErrInvalidCurrency, "The currency was rejected.", applog.ErrorTypeValidation, true},
}

func classify(err error) failure {
	for _, f := range failures {
		if errors.Is(err, f.target) {
			return f
		}
	}
	return failure{message: "The operation failed.", errorType: applog.ErrorTypeDatabase, raw: true}
}

// report prints a failed action and logs it; the menu carries on.
func (s *Shell) report(ctx context.Context, action string, err error) {
	f := classify(err)
	s.println(f.message)
	if f.raw {
		s.println(err)
	}
	applog.LogError(ctx, "Action failed", err, action,
		applog.NewFields().WithErrorType(f.errorType))
}
