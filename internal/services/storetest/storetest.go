// Package storetest provides an in-memory fake of the services store
// interfaces. It is a test helper only: the application always runs on the
// PostgreSQL repository, and nothing outside _test.go files imports it.
package storetest

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"spendbook/internal/core"
)

// Store keeps categories and expenses in memory with the same ordering and
// constraint behavior as the PostgreSQL repository.
type Store struct {
	categories []core.Category
	expenses   []core.Expense
	nextCat    int64
	nextExp    int64
	updates    int
}

func New() *Store {
	return &Store{nextCat: 1, nextExp: 1}
}

// ExpenseCount is the number of stored expenses.
func (m *Store) ExpenseCount() int {
	return len(m.expenses)
}

// Updates counts successful UpdateExpense calls.
func (m *Store) Updates() int {
	return m.updates
}

func (m *Store) CreateCategory(_ context.Context, name string) (core.Category, error) {
	name, err := core.ValidateName(name)
	if err != nil {
		return core.Category{}, err
	}
	for _, c := range m.categories {
		if c.Name == name {
			return core.Category{}, core.ErrDuplicateCategory
		}
	}
	c := core.Category{ID: m.nextCat, Name: name}
	m.nextCat++
	m.categories = append(m.categories, c)
	return c, nil
}

func (m *Store) ListCategories(context.Context) ([]core.Category, error) {
	return append([]core.Category(nil), m.categories...), nil
}

func (m *Store) GetCategory(_ context.Context, id int64) (core.Category, error) {
	for _, c := range m.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return core.Category{}, fmt.Errorf("%w: id %d", core.ErrCategoryNotFound, id)
}

func (m *Store) FindCategoryByKeyword(_ context.Context, keyword string) (core.Category, error) {
	kw := strings.ToLower(keyword)
	for _, c := range m.categories {
		if strings.Contains(strings.ToLower(c.Name), kw) {
			return c, nil
		}
	}
	return core.Category{}, fmt.Errorf("%w: keyword %q", core.ErrCategoryNotFound, keyword)
}

func (m *Store) RenameCategory(_ context.Context, id int64, name string) error {
	name, err := core.ValidateName(name)
	if err != nil {
		return err
	}
	idx := -1
	for i, c := range m.categories {
		if c.Name == name && c.ID != id {
			return core.ErrDuplicateCategory
		}
		if c.ID == id {
			idx = i
		}
	}
	if idx < 0 {
		return core.ErrCategoryNotFound
	}
	m.categories[idx].Name = name
	return nil
}

func (m *Store) DeleteCategory(_ context.Context, id int64) error {
	for _, e := range m.expenses {
		if e.CategoryID == id {
			return core.ErrCategoryInUse
		}
	}
	for i, c := range m.categories {
		if c.ID == id {
			m.categories = append(m.categories[:i], m.categories[i+1:]...)
			return nil
		}
	}
	return core.ErrCategoryNotFound
}

func (m *Store) categoryName(id int64) (string, bool) {
	for _, c := range m.categories {
		if c.ID == id {
			return c.Name, true
		}
	}
	return "", false
}

func (m *Store) CreateExpense(_ context.Context, e core.Expense) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	if _, ok := m.categoryName(e.CategoryID); !ok {
		return 0, core.ErrCategoryNotFound
	}
	e.ID = m.nextExp
	e.CategoryName = ""
	m.nextExp++
	m.expenses = append(m.expenses, e)
	return e.ID, nil
}

func (m *Store) joined(e core.Expense) core.Expense {
	e.CategoryName, _ = m.categoryName(e.CategoryID)
	return e
}

func (m *Store) selectExpenses(keep func(core.Expense) bool, newestFirst bool) []core.Expense {
	var out []core.Expense
	for _, e := range m.expenses {
		if keep(e) {
			out = append(out, m.joined(e))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if newestFirst {
			a, b = b, a
		}
		if !a.Date.Equal(b.Date.Time) {
			return a.Date.Before(b.Date.Time)
		}
		return a.ID < b.ID
	})
	return out
}

func (m *Store) ListExpenses(context.Context) ([]core.Expense, error) {
	return m.selectExpenses(func(core.Expense) bool { return true }, true), nil
}

func (m *Store) GetExpense(_ context.Context, id int64) (core.Expense, error) {
	for _, e := range m.expenses {
		if e.ID == id {
			return m.joined(e), nil
		}
	}
	return core.Expense{}, fmt.Errorf("%w: id %d", core.ErrExpenseNotFound, id)
}

func (m *Store) UpdateExpense(_ context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if _, ok := m.categoryName(e.CategoryID); !ok {
		return core.ErrCategoryNotFound
	}
	for i := range m.expenses {
		if m.expenses[i].ID == e.ID {
			e.CategoryName = ""
			m.expenses[i] = e
			m.updates++
			return nil
		}
	}
	return core.ErrExpenseNotFound
}

func (m *Store) DeleteExpense(_ context.Context, id int64) error {
	for i, e := range m.expenses {
		if e.ID == id {
			m.expenses = append(m.expenses[:i], m.expenses[i+1:]...)
			return nil
		}
	}
	return core.ErrExpenseNotFound
}

func inPeriod(p core.Period) func(core.Expense) bool {
	return func(e core.Expense) bool {
		return !e.Date.Before(p.From.Time) && !e.Date.After(p.To.Time)
	}
}

func (m *Store) ExpensesInPeriod(_ context.Context, p core.Period) ([]core.Expense, error) {
	return m.selectExpenses(inPeriod(p), false), nil
}

func (m *Store) SearchExpenses(_ context.Context, fragment string) ([]core.Expense, error) {
	f := strings.ToLower(fragment)
	return m.selectExpenses(func(e core.Expense) bool {
		return strings.Contains(strings.ToLower(e.Title), f) ||
			strings.Contains(strings.ToLower(e.Description), f)
	}, false), nil
}

func (m *Store) ExpensesByCategory(_ context.Context, id int64) ([]core.Expense, error) {
	return m.selectExpenses(func(e core.Expense) bool { return e.CategoryID == id }, false), nil
}

// better reports whether a beats b for the given extreme; ties go to the
// newest date, then the newest id.
func better(kind core.Extreme, a, b core.Expense) bool {
	if c := a.Amount.Cmp(b.Amount); c != 0 {
		return (kind == core.Max) == (c > 0)
	}
	if !a.Date.Equal(b.Date.Time) {
		return a.Date.After(b.Date.Time)
	}
	return a.ID > b.ID
}

func (m *Store) extremes(kind core.Extreme, keep func(core.Expense) bool, key func(core.Expense) string) []core.Expense {
	best := map[string]core.Expense{}
	var keys []string
	for _, e := range m.expenses {
		if !keep(e) {
			continue
		}
		k := key(e)
		cur, ok := best[k]
		if !ok {
			keys = append(keys, k)
		}
		if !ok || better(kind, e, cur) {
			best[k] = e
		}
	}
	sort.Strings(keys)
	out := make([]core.Expense, 0, len(keys))
	for _, k := range keys {
		out = append(out, m.joined(best[k]))
	}
	return out
}

func (m *Store) ExtremesPerCategory(_ context.Context, kind core.Extreme) ([]core.Expense, error) {
	return m.extremes(kind, func(core.Expense) bool { return true }, func(e core.Expense) string {
		return fmt.Sprintf("%08d/%s", e.CategoryID, e.Currency)
	}), nil
}

func (m *Store) ExtremesInPeriod(_ context.Context, kind core.Extreme, p core.Period) ([]core.Expense, error) {
	return m.extremes(kind, inPeriod(p), func(e core.Expense) string { return string(e.Currency) }), nil
}

func (m *Store) SumsByCategory(_ context.Context, p core.Period) ([]core.CategoryTotal, error) {
	sums := map[[2]string]decimal.Decimal{}
	for _, e := range m.expenses {
		if inPeriod(p)(e) {
			name, _ := m.categoryName(e.CategoryID)
			k := [2]string{name, string(e.Currency)}
			sums[k] = sums[k].Add(e.Amount)
		}
	}
	out := make([]core.CategoryTotal, 0, len(sums))
	for k, total := range sums {
		out = append(out, core.CategoryTotal{Category: k[0], Currency: core.Currency(k[1]), Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Currency < out[j].Currency
	})
	return out, nil
}

func (m *Store) TopCategories(ctx context.Context, p core.Period) ([]core.CategoryTotal, error) {
	sums, _ := m.SumsByCategory(ctx, p)
	top := map[core.Currency]core.CategoryTotal{}
	for _, t := range sums {
		cur, ok := top[t.Currency]
		if !ok || t.Total.GreaterThan(cur.Total) {
			top[t.Currency] = t
		}
	}
	out := make([]core.CategoryTotal, 0, len(top))
	for _, t := range top {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Currency < out[j].Currency })
	return out, nil
}

func (m *Store) TotalsByCurrency(_ context.Context, p core.Period) ([]core.CurrencyTotal, error) {
	sums := map[core.Currency]decimal.Decimal{}
	for _, e := range m.expenses {
		if inPeriod(p)(e) {
			sums[e.Currency] = sums[e.Currency].Add(e.Amount)
		}
	}
	out := make([]core.CurrencyTotal, 0, len(sums))
	for c, total := range sums {
		out = append(out, core.CurrencyTotal{Currency: c, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Currency < out[j].Currency })
	return out, nil
}
