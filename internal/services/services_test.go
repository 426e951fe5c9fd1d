package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendbook/internal/core"
	"spendbook/internal/export"
	"spendbook/internal/services/storetest"
)

type fixture struct {
	store      *storetest.Store
	categories *CategoryService
	expenses   *ExpenseService
	reports    *ReportService
	exportDir  string
}

var _ Store = (*storetest.Store)(nil)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := storetest.New()
	categories := NewCategoryService(store)
	dir := filepath.Join(t.TempDir(), "export")
	return &fixture{
		store:      store,
		categories: categories,
		expenses:   NewExpenseService(store, categories),
		reports:    NewReportService(store, store, export.New(dir)),
		exportDir:  dir,
	}
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (f *fixture) mustCategory(t *testing.T, name string) core.Category {
	t.Helper()
	c, err := f.categories.Add(context.Background(), name)
	require.NoError(t, err)
	return c
}

func (f *fixture) mustExpense(t *testing.T, in NewExpense) core.Expense {
	t.Helper()
	e, err := f.expenses.Add(context.Background(), in)
	require.NoError(t, err)
	return e
}

func period(t *testing.T, from, to string) core.Period {
	t.Helper()
	a, err := core.ParseDate(from)
	require.NoError(t, err)
	b, err := core.ParseDate(to)
	require.NoError(t, err)
	p, _ := core.NewPeriod(a, b)
	return p
}

func TestCategoryService_Resolve(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.mustCategory(t, "Food")
	transport := f.mustCategory(t, "Transport")
	f.mustCategory(t, "Public transport")

	tests := []struct {
		name    string
		ref     string
		wantID  int64
		wantErr error
	}{
		{name: "numeric id", ref: "2", wantID: transport.ID},
		{name: "keyword lowest id wins", ref: "trans", wantID: transport.ID},
		{name: "keyword ignores case", ref: "TRANS", wantID: transport.ID},
		{name: "unknown id", ref: "42", wantErr: core.ErrCategoryNotFound},
		{name: "unknown keyword", ref: "rent", wantErr: core.ErrCategoryNotFound},
		{name: "blank", ref: "  ", wantErr: core.ErrCategoryNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := f.categories.Resolve(ctx, tt.ref)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, c.ID)
		})
	}
}

func TestCategoryService_DeleteRestrictedWhileReferenced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	food := f.mustCategory(t, "Food")
	e := f.mustExpense(t, NewExpense{Amount: amount("10"), Date: core.NewDate(2026, 1, 1), CategoryRef: "1"})

	err := f.categories.Delete(ctx, food.ID)
	assert.ErrorIs(t, err, core.ErrCategoryInUse)

	require.NoError(t, f.expenses.Delete(ctx, e.ID))
	require.NoError(t, f.categories.Delete(ctx, food.ID))

	cats, err := f.categories.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, cats)
}

func TestCategoryService_AddDuplicate(t *testing.T) {
	f := newFixture(t)
	f.mustCategory(t, "Food")

	_, err := f.categories.Add(context.Background(), "Food")
	assert.ErrorIs(t, err, core.ErrDuplicateCategory)
}

func TestExpenseService_AddDefaultsFromCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.mustCategory(t, "Transport")

	added := f.mustExpense(t, NewExpense{
		Amount:      amount("125.50"),
		Date:        core.NewDate(2026, 2, 1),
		CategoryRef: "trans",
	})

	got, err := f.expenses.View(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, "Transport", got.Title)
	assert.Equal(t, core.UAH, got.Currency)
	assert.Equal(t, "125.50", core.FormatAmount(got.Amount))
	assert.Equal(t, "2026-02-01", got.Date.String())
	assert.Equal(t, "Transport", got.CategoryName)
	assert.Empty(t, got.Description)
}

func TestExpenseService_AddUnresolvedCategoryWritesNothing(t *testing.T) {
	f := newFixture(t)
	f.mustCategory(t, "Food")

	_, err := f.expenses.Add(context.Background(), NewExpense{
		Amount: amount("5"), Date: core.NewDate(2026, 1, 1), CategoryRef: "rent",
	})
	assert.ErrorIs(t, err, core.ErrCategoryNotFound)
	assert.Zero(t, f.store.ExpenseCount())
}

func TestExpenseService_EmptyUpdateIsIdentity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.mustCategory(t, "Food")
	e := f.mustExpense(t, NewExpense{
		Title: "Dinner", Amount: amount("42.10"), Date: core.NewDate(2026, 1, 3),
		CategoryRef: "food", Description: "pizza", Currency: core.EUR,
	})
	before, err := f.expenses.View(ctx, e.ID)
	require.NoError(t, err)

	patch := ExpensePatch{}
	assert.True(t, patch.IsEmpty())
	_, err = f.expenses.Update(ctx, e.ID, patch)
	require.NoError(t, err)

	after, err := f.expenses.View(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestExpenseService_UpdateDescription(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "blank keeps", input: "", want: "pizza"},
		{name: "dash clears", input: "-", want: ""},
		{name: "text replaces", input: " pasta ", want: "pasta"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			f.mustCategory(t, "Food")
			e := f.mustExpense(t, NewExpense{
				Amount: amount("9"), Date: core.NewDate(2026, 1, 3), CategoryRef: "1", Description: "pizza",
			})

			edit, text := ParseDescriptionInput(tt.input)
			_, err := f.expenses.Update(ctx, e.ID, ExpensePatch{DescriptionEdit: edit, Description: text})
			require.NoError(t, err)

			got, err := f.expenses.View(ctx, e.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Description)
		})
	}
}

func TestExpenseService_UpdateFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.mustCategory(t, "Food")
	f.mustCategory(t, "Transport")
	e := f.mustExpense(t, NewExpense{Amount: amount("9"), Date: core.NewDate(2026, 1, 3), CategoryRef: "food"})

	title := "Bus pass"
	date := core.NewDate(2026, 1, 10)
	amt := amount("300")
	cur := core.USD
	updated, err := f.expenses.Update(ctx, e.ID, ExpensePatch{
		Title: &title, Date: &date, CategoryRef: "trans", Amount: &amt, Currency: &cur,
	})
	require.NoError(t, err)
	assert.Equal(t, "Transport", updated.CategoryName)

	got, err := f.expenses.View(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bus pass", got.Title)
	assert.Equal(t, "2026-01-10", got.Date.String())
	assert.Equal(t, int64(2), got.CategoryID)
	assert.Equal(t, "300.00", core.FormatAmount(got.Amount))
	assert.Equal(t, core.USD, got.Currency)
}

func TestExpenseService_UpdateUnresolvedCategoryFailsWhole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.mustCategory(t, "Food")
	e := f.mustExpense(t, NewExpense{Amount: amount("9"), Date: core.NewDate(2026, 1, 3), CategoryRef: "food"})

	title := "Changed"
	_, err := f.expenses.Update(ctx, e.ID, ExpensePatch{Title: &title, CategoryRef: "99"})
	assert.ErrorIs(t, err, core.ErrCategoryNotFound)
	assert.Zero(t, f.store.Updates())

	got, err := f.expenses.View(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Food", got.Title)
}

func TestExpenseService_UpdateMissing(t *testing.T) {
	f := newFixture(t)

	_, err := f.expenses.Update(context.Background(), 7, ExpensePatch{})
	assert.ErrorIs(t, err, core.ErrExpenseNotFound)
}

func TestExpenseService_ListNewestFirst(t *testing.T) {
	f := newFixture(t)
	f.mustCategory(t, "Food")
	a := f.mustExpense(t, NewExpense{Amount: amount("1"), Date: core.NewDate(2026, 1, 1), CategoryRef: "1"})
	b := f.mustExpense(t, NewExpense{Amount: amount("2"), Date: core.NewDate(2026, 1, 5), CategoryRef: "1"})
	c := f.mustExpense(t, NewExpense{Amount: amount("3"), Date: core.NewDate(2026, 1, 5), CategoryRef: "1"})

	list, err := f.expenses.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int64{c.ID, b.ID, a.ID}, []int64{list[0].ID, list[1].ID, list[2].ID})
}

func TestParseDescriptionInput(t *testing.T) {
	tests := []struct {
		in       string
		wantEdit DescriptionEdit
		wantText string
	}{
		{"", KeepDescription, ""},
		{"   ", KeepDescription, ""},
		{"-", ClearDescription, ""},
		{" - ", ClearDescription, ""},
		{"--", SetDescription, "--"},
		{"note", SetDescription, "note"},
	}
	for _, tt := range tests {
		edit, text := ParseDescriptionInput(tt.in)
		assert.Equal(t, tt.wantEdit, edit, tt.in)
		assert.Equal(t, tt.wantText, text, tt.in)
	}
}
