package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"spendbook/internal/core"
)

// NewExpense is the input of the add flow. Blank Title falls back to the
// category name and blank Currency to the default currency.
type NewExpense struct {
	Title       string
	Amount      decimal.Decimal
	Date        core.Date
	CategoryRef string
	Description string
	Currency    core.Currency
}

// DescriptionEdit says what an update does with the description.
type DescriptionEdit int

const (
	KeepDescription DescriptionEdit = iota
	ClearDescription
	SetDescription
)

// ClearMarker typed as a new description removes it.
const ClearMarker = "-"

// ParseDescriptionInput interprets the description prompt of the update
// flow: empty keeps, ClearMarker clears, anything else replaces.
func ParseDescriptionInput(s string) (DescriptionEdit, string) {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return KeepDescription, ""
	case ClearMarker:
		return ClearDescription, ""
	default:
		return SetDescription, s
	}
}

// ExpensePatch holds the fields an update changes; nil and empty values keep
// the stored ones.
type ExpensePatch struct {
	Title           *string
	Date            *core.Date
	CategoryRef     string
	Amount          *decimal.Decimal
	Currency        *core.Currency
	DescriptionEdit DescriptionEdit
	Description     string
}

// IsEmpty reports whether applying the patch changes nothing.
func (p ExpensePatch) IsEmpty() bool {
	return p.Title == nil && p.Date == nil && p.CategoryRef == "" &&
		p.Amount == nil && p.Currency == nil && p.DescriptionEdit == KeepDescription
}

// ExpenseService runs the add/list/view/update/delete flows.
type ExpenseService struct {
	store      ExpenseStore
	categories *CategoryService
}

func NewExpenseService(store ExpenseStore, categories *CategoryService) *ExpenseService {
	return &ExpenseService{store: store, categories: categories}
}

// Add resolves the category reference and records the expense. Nothing is
// written when the reference does not resolve.
func (s *ExpenseService) Add(ctx context.Context, in NewExpense) (core.Expense, error) {
	cat, err := s.categories.Resolve(ctx, in.CategoryRef)
	if err != nil {
		return core.Expense{}, fmt.Errorf("add expense: %w", err)
	}

	e := core.Expense{
		Title:        strings.TrimSpace(in.Title),
		Amount:       in.Amount,
		Date:         in.Date,
		CategoryID:   cat.ID,
		CategoryName: cat.Name,
		Description:  strings.TrimSpace(in.Description),
		Currency:     in.Currency,
	}
	if e.Title == "" {
		e.Title = cat.Name
	}
	if e.Currency == "" {
		e.Currency = core.DefaultCurrency
	}

	id, err := s.store.CreateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("add expense: %w", err)
	}
	e.ID = id
	return e, nil
}

func (s *ExpenseService) List(ctx context.Context) ([]core.Expense, error) {
	return s.store.ListExpenses(ctx)
}

func (s *ExpenseService) View(ctx context.Context, id int64) (core.Expense, error) {
	return s.store.GetExpense(ctx, id)
}

// Update merges patch into the stored expense and writes the result in one
// statement. A category reference that does not resolve fails the whole
// update.
func (s *ExpenseService) Update(ctx context.Context, id int64, patch ExpensePatch) (core.Expense, error) {
	e, err := s.store.GetExpense(ctx, id)
	if err != nil {
		return core.Expense{}, err
	}

	if patch.Title != nil && strings.TrimSpace(*patch.Title) != "" {
		e.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Date != nil {
		e.Date = *patch.Date
	}
	if patch.CategoryRef != "" {
		cat, err := s.categories.Resolve(ctx, patch.CategoryRef)
		if err != nil {
			return core.Expense{}, fmt.Errorf("update expense %d: %w", id, err)
		}
		e.CategoryID = cat.ID
		e.CategoryName = cat.Name
	}
	if patch.Amount != nil {
		e.Amount = *patch.Amount
	}
	if patch.Currency != nil {
		e.Currency = *patch.Currency
	}
	switch patch.DescriptionEdit {
	case ClearDescription:
		e.Description = ""
	case SetDescription:
		e.Description = strings.TrimSpace(patch.Description)
	}

	if err := s.store.UpdateExpense(ctx, e); err != nil {
		return core.Expense{}, fmt.Errorf("update expense %d: %w", id, err)
	}
	return e, nil
}

func (s *ExpenseService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}
