package shell

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendbook/internal/core"
	"spendbook/internal/export"
	applog "spendbook/internal/log"
	"spendbook/internal/services"
	"spendbook/internal/services/storetest"
)

type harness struct {
	store     *storetest.Store
	deps      Deps
	exportDir string
	logs      bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{store: storetest.New(), exportDir: filepath.Join(t.TempDir(), "export")}
	categories := services.NewCategoryService(h.store)
	h.deps = Deps{
		Categories: categories,
		Expenses:   services.NewExpenseService(h.store, categories),
		Reports:    services.NewReportService(h.store, h.store, export.New(h.exportDir)),
		Logger: applog.New(applog.Config{
			Handler: applog.NewTextHandler(slog.LevelDebug, &h.logs),
		}),
	}
	return h
}

// run feeds the lines to a fresh shell and returns everything it printed.
func (h *harness) run(t *testing.T, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	sh := New(strings.NewReader(strings.Join(lines, "\n")+"\n"), &out, h.deps)
	require.NoError(t, sh.Run(context.Background()))
	return out.String()
}

func (h *harness) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	_, err := h.deps.Categories.Add(ctx, "Food")
	require.NoError(t, err)
	_, err = h.deps.Categories.Add(ctx, "Transport")
	require.NoError(t, err)
}

func TestShell_ExitAndEOF(t *testing.T) {
	h := newHarness(t)

	out := h.run(t, "0")
	assert.Contains(t, out, "=== Expense tracker ===")
	assert.Contains(t, out, "Bye!")

	var buf bytes.Buffer
	require.NoError(t, New(strings.NewReader("1\n"), &buf, h.deps).Run(context.Background()))
	assert.Contains(t, buf.String(), "=== Categories ===")
	assert.Contains(t, buf.String(), "Bye!")
}

func TestShell_InvalidChoiceReprintsMenu(t *testing.T) {
	h := newHarness(t)

	out := h.run(t, "7", "abc", "0")
	assert.Equal(t, 2, strings.Count(out, "Invalid choice."))
	assert.Equal(t, 3, strings.Count(out, "=== Expense tracker ==="))
}

func TestShell_CategoryFlow(t *testing.T) {
	h := newHarness(t)

	out := h.run(t,
		"1",
		"1", "Food",
		"1", "Food",
		"1", "  ",
		"2",
		"3", "x", "1", "Groceries",
		"0", "0")

	assert.Contains(t, out, "Category added (ID=1).")
	assert.Contains(t, out, "A category with this name already exists.")
	assert.Contains(t, out, "Category name cannot be empty.")
	assert.Contains(t, out, "1 | Food")
	assert.Contains(t, out, "ID must be a positive number.")
	assert.Contains(t, out, "Category renamed.")

	cats, err := h.deps.Categories.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []core.Category{{ID: 1, Name: "Groceries"}}, cats)
	assert.Contains(t, h.logs.String(), "error_type=conflict_error")
}

func (h *harness) addExpense(t *testing.T, in services.NewExpense) core.Expense {
	t.Helper()
	e, err := h.deps.Expenses.Add(context.Background(), in)
	require.NoError(t, err)
	return e
}

func TestShell_DeleteCategoryInUse(t *testing.T) {
	h := newHarness(t)
	h.seed(t)
	h.addExpense(t, services.NewExpense{
		Amount: decimal.RequireFromString("10"), Date: core.NewDate(2026, 1, 1), CategoryRef: "1",
	})

	out := h.run(t, "1", "4", "1", "4", "2", "0", "0")

	assert.Contains(t, out, "The category still has expenses and cannot be deleted.")
	assert.Contains(t, out, "Category deleted.")

	cats, err := h.deps.Categories.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []core.Category{{ID: 1, Name: "Food"}}, cats)
}

func TestShell_AddExpenseByKeyword(t *testing.T) {
	h := newHarness(t)
	h.seed(t)

	out := h.run(t,
		"2", "1",
		"-5", "125,50",
		"2026-31-12", "01.02.2026",
		"GBP", "",
		"trans",
		"",
		"",
		"0", "0")

	assert.Contains(t, out, "Amount must be a positive number")
	assert.Contains(t, out, "Date must be YYYY-MM-DD or DD.MM.YYYY.")
	assert.Contains(t, out, "Currency must be one of UAH/USD/EUR.")
	assert.Contains(t, out, "Expense added (ID=1).")

	e, err := h.deps.Expenses.View(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Transport", e.Title)
	assert.Equal(t, core.UAH, e.Currency)
	assert.Equal(t, "125.50", core.FormatAmount(e.Amount))
	assert.Equal(t, "2026-02-01", e.Date.String())
	assert.Equal(t, int64(2), e.CategoryID)
}

func TestShell_AddExpenseUnknownCategory(t *testing.T) {
	h := newHarness(t)
	h.seed(t)

	out := h.run(t, "2", "1", "10", "2026-01-01", "", "rent", "0", "0")

	assert.Contains(t, out, "Category not found.")
	assert.Zero(t, h.store.ExpenseCount())
}

func TestShell_UpdateExpense(t *testing.T) {
	h := newHarness(t)
	h.seed(t)
	h.addExpense(t, services.NewExpense{
		Title: "Lunch", Amount: decimal.RequireFromString("9"), Date: core.NewDate(2026, 1, 3),
		CategoryRef: "1", Description: "pizza",
	})

	out := h.run(t,
		"2", "4", "1",
		"", "", "trans", "12.5", "usd", "-",
		"0", "0")

	assert.Contains(t, out, "Current values:")
	assert.Contains(t, out, "Description: pizza")
	assert.Contains(t, out, "Expense updated.")

	e, err := h.deps.Expenses.View(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Lunch", e.Title)
	assert.Equal(t, "2026-01-03", e.Date.String())
	assert.Equal(t, "Transport", e.CategoryName)
	assert.Equal(t, "12.50", core.FormatAmount(e.Amount))
	assert.Equal(t, core.USD, e.Currency)
	assert.Empty(t, e.Description)
}

func TestShell_DeleteExpenseConfirmation(t *testing.T) {
	h := newHarness(t)
	h.seed(t)
	h.addExpense(t, services.NewExpense{Amount: decimal.RequireFromString("9"), Date: core.NewDate(2026, 1, 3), CategoryRef: "1"})

	out := h.run(t,
		"2",
		"5", "1", "no",
		"5", "1", "Yes", "y", "yes",
		"5", "1",
		"0", "0")

	assert.Contains(t, out, "Found: ID=1 | 2026-01-03 | Food | Food | 9.00 UAH")
	assert.Contains(t, out, "Deletion cancelled.")
	assert.Equal(t, 2, strings.Count(out, "Type exactly 'yes' or 'no'."))
	assert.Contains(t, out, "Expense deleted.")
	assert.Contains(t, out, "Expense not found.")
	assert.Zero(t, h.store.ExpenseCount())
}

func TestShell_PeriodReportSwapsReversedRange(t *testing.T) {
	h := newHarness(t)
	h.seed(t)
	h.addExpense(t, services.NewExpense{Title: "Bus", Amount: decimal.RequireFromString("15"), Date: core.NewDate(2026, 1, 2), CategoryRef: "2"})

	out := h.run(t, "3", "1", "2026-01-31", "2026-01-01", "0", "0")

	assert.Contains(t, out, "From date is after To date: swapping them.")
	assert.Contains(t, out, "2026-01-02 | Transport | Bus | 15.00 | UAH")
}

func TestShell_SummariesSubmenu(t *testing.T) {
	h := newHarness(t)
	h.seed(t)
	h.addExpense(t, services.NewExpense{Amount: decimal.RequireFromString("100"), Date: core.NewDate(2026, 1, 1), CategoryRef: "1"})
	h.addExpense(t, services.NewExpense{Amount: decimal.RequireFromString("200"), Date: core.NewDate(2026, 1, 3), CategoryRef: "2"})

	out := h.run(t,
		"3", "8",
		"1", "2026-01-01", "2026-01-03",
		"2", "2026-01-01", "2026-01-03",
		"3", "2026-01-01", "2026-01-03",
		"3", "2027-01-01", "2027-01-03",
		"0", "0", "0")

	assert.Contains(t, out, "Food | UAH | 100.00")
	assert.Contains(t, out, "Transport | UAH | 200.00")
	assert.Contains(t, out, "UAH | 300.00 | 3 | 100.00")
	assert.Contains(t, out, "No expenses in this period.")
}

func TestShell_ExtremeReports(t *testing.T) {
	h := newHarness(t)
	h.seed(t)
	h.addExpense(t, services.NewExpense{Title: "Snack", Amount: decimal.RequireFromString("50"), Date: core.NewDate(2026, 1, 1), CategoryRef: "1"})
	h.addExpense(t, services.NewExpense{Title: "Feast", Amount: decimal.RequireFromString("200"), Date: core.NewDate(2026, 1, 5), CategoryRef: "1"})

	out := h.run(t, "3", "4", "6", "0", "0")

	maxAt := strings.Index(out, "Food | UAH | 200.00 | 2026-01-05 | Feast | 2")
	minAt := strings.Index(out, "Food | UAH | 50.00 | 2026-01-01 | Snack | 1")
	require.NotEqual(t, -1, maxAt)
	require.NotEqual(t, -1, minAt)
	assert.Less(t, maxAt, minAt)
}

func TestShell_ExportCSV(t *testing.T) {
	h := newHarness(t)
	h.seed(t)

	out := h.run(t, "3", "9", "2026-01-01", "2026-01-31", "0", "0")
	assert.Contains(t, out, "No expenses in this period: nothing to export.")

	h.addExpense(t, services.NewExpense{Amount: decimal.RequireFromString("15"), Date: core.NewDate(2026, 1, 2), CategoryRef: "2"})
	out = h.run(t, "3", "9", "01.01.2026", "31.01.2026", "0", "0")

	want := filepath.Join(h.exportDir, "expenses_2026-01-01_to_2026-01-31.csv")
	assert.Contains(t, out, "CSV saved: "+want)
	assert.FileExists(t, want)
}

func TestShell_ExportWriteFailureKeepsMenu(t *testing.T) {
	h := newHarness(t)
	h.seed(t)
	h.addExpense(t, services.NewExpense{Amount: decimal.RequireFromString("15"), Date: core.NewDate(2026, 1, 2), CategoryRef: "1"})
	require.NoError(t, os.WriteFile(h.exportDir, []byte("not a directory"), 0o644))

	out := h.run(t,
		"3",
		"9", "2026-01-01", "2026-01-31",
		"10", "2026-01-01", "2026-01-31",
		"1", "2026-01-01", "2026-01-31",
		"0", "0")

	assert.Equal(t, 2, strings.Count(out, "The operation failed."))
	assert.Contains(t, out, "create export directory")
	assert.NotContains(t, out, "CSV saved:")
	assert.NotContains(t, out, "XLSX saved:")
	assert.Contains(t, out, "2026-01-02 | Food | Food | 15.00 | UAH")
	assert.Contains(t, out, "Bye!")
	assert.Contains(t, h.logs.String(), "Export failed")
}

func TestShell_LongInputLine(t *testing.T) {
	h := newHarness(t)
	name := strings.Repeat("x", 70000)

	out := h.run(t, "1", "1", name, "2", "0", "0")

	assert.Contains(t, out, "Category added (ID=1).")
	assert.Contains(t, out, "Bye!")
	cats, err := h.deps.Categories.List(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, name, cats[0].Name)
}

func TestShell_SearchRequiresText(t *testing.T) {
	h := newHarness(t)

	out := h.run(t, "3", "2", "", "2", "taxi", "0", "0")
	assert.Contains(t, out, "Search text cannot be empty.")
	assert.Contains(t, out, "Nothing found.")
}

func TestShell_ActionsAreTraced(t *testing.T) {
	h := newHarness(t)

	h.run(t, "1", "2", "0", "0")

	logs := h.logs.String()
	assert.Contains(t, logs, "Action completed")
	assert.Contains(t, logs, "action_id=act_")
	assert.Contains(t, logs, `action="List categories"`)
	assert.Contains(t, logs, "component=shell")
}

func TestActionID(t *testing.T) {
	assert.Empty(t, ActionID(context.Background()))

	id := NewActionID()
	assert.True(t, strings.HasPrefix(id, "act_"), id)
	assert.Len(t, id, len("act_")+16)
	assert.NotEqual(t, id, NewActionID())
}
