package shell

import (
	"context"

	"spendbook/internal/core"
)

func (s *Shell) reportsMenu() menu {
	return menu{
		title: "Reports",
		back:  "Back",
		items: []item{
			{label: "Expenses in period", run: s.reportPeriod},
			{label: "Filter by title or description", run: s.reportSearch},
			{label: "Expenses by category (ID)", run: s.reportByCategory},
			{label: "Max expense in each category", run: s.reportExtremesPerCategory(core.Max)},
			{label: "Max expense in period", run: s.reportExtremesInPeriod(core.Max)},
			{label: "Min expense in each category", run: s.reportExtremesPerCategory(core.Min)},
			{label: "Min expense in period", run: s.reportExtremesInPeriod(core.Min)},
			submenu(s.summariesMenu()),
			{label: "Export period to CSV", run: s.exportCSV},
			{label: "Export period to XLSX", run: s.exportXLSX},
		},
	}
}

func (s *Shell) summariesMenu() menu {
	return menu{
		title: "Category summaries for a period",
		back:  "Back",
		items: []item{
			{label: "Sum per category (per currency)", run: s.reportSums},
			{label: "Top category (per currency)", run: s.reportTop},
			{label: "Average spend per day (per currency)", run: s.reportAverage},
		},
	}
}

const noExpensesInPeriod = "No expenses in this period."

func (s *Shell) reportPeriod(ctx context.Context) error {
	p, err := s.askPeriod()
	if err != nil {
		return err
	}
	rows, err := s.deps.Reports.InPeriod(ctx, p)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		s.println(noExpensesInPeriod)
		return nil
	}
	s.printExpenses(rows, false)
	return nil
}

func (s *Shell) reportSearch(ctx context.Context) error {
	text, err := s.readLine("Title or description text: ")
	if err != nil {
		return err
	}
	rows, err := s.deps.Reports.Search(ctx, text)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		s.println("Nothing found.")
		return nil
	}
	s.printExpenses(rows, false)
	return nil
}

func (s *Shell) reportByCategory(ctx context.Context) error {
	if err := s.listCategories(ctx); err != nil {
		return err
	}
	id, err := s.askID("Category ID: ")
	if err != nil {
		return err
	}
	cat, rows, err := s.deps.Reports.ByCategory(ctx, id)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		s.printf("No expenses in category %s.\n", cat.Name)
		return nil
	}
	s.printExpenses(rows, true)
	return nil
}

func (s *Shell) reportExtremesPerCategory(kind core.Extreme) func(context.Context) error {
	return func(ctx context.Context) error {
		rows, err := s.deps.Reports.ExtremesPerCategory(ctx, kind)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			s.println("No expenses yet.")
			return nil
		}
		s.printExtremes(rows)
		return nil
	}
}

func (s *Shell) reportExtremesInPeriod(kind core.Extreme) func(context.Context) error {
	return func(ctx context.Context) error {
		p, err := s.askPeriod()
		if err != nil {
			return err
		}
		rows, err := s.deps.Reports.ExtremesInPeriod(ctx, kind, p)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			s.println(noExpensesInPeriod)
			return nil
		}
		s.printExtremes(rows)
		return nil
	}
}

func (s *Shell) reportSums(ctx context.Context) error {
	p, err := s.askPeriod()
	if err != nil {
		return err
	}
	rows, err := s.deps.Reports.SumsByCategory(ctx, p)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		s.println(noExpensesInPeriod)
		return nil
	}
	s.printCategoryTotals("Category | Currency | Total", rows)
	return nil
}

func (s *Shell) reportTop(ctx context.Context) error {
	p, err := s.askPeriod()
	if err != nil {
		return err
	}
	rows, err := s.deps.Reports.TopCategories(ctx, p)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		s.println(noExpensesInPeriod)
		return nil
	}
	s.printCategoryTotals("Top category | Currency | Total", rows)
	return nil
}

func (s *Shell) reportAverage(ctx context.Context) error {
	p, err := s.askPeriod()
	if err != nil {
		return err
	}
	rows, err := s.deps.Reports.AveragePerDay(ctx, p)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		s.println(noExpensesInPeriod)
		return nil
	}
	s.println("\nCurrency | Total | Days | Average/day")
	s.println(rule)
	for _, a := range rows {
		s.printf("%s | %s | %d | %s\n", a.Currency, core.FormatAmount(a.Total), a.Days, core.FormatAmount(a.Average))
	}
	return nil
}

func (s *Shell) exportCSV(ctx context.Context) error {
	p, err := s.askPeriod()
	if err != nil {
		return err
	}
	path, err := s.deps.Reports.ExportCSV(ctx, p)
	if err != nil {
		return err
	}
	s.printf("CSV saved: %s\n", path)
	return nil
}

func (s *Shell) exportXLSX(ctx context.Context) error {
	p, err := s.askPeriod()
	if err != nil {
		return err
	}
	path, err := s.deps.Reports.ExportXLSX(ctx, p)
	if err != nil {
		return err
	}
	s.printf("XLSX saved: %s\n", path)
	return nil
}
