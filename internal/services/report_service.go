package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"spendbook/internal/core"
	"spendbook/internal/export"
	applog "spendbook/internal/log"
)

var (
	// ErrEmptyQuery is returned for a blank search fragment.
	ErrEmptyQuery = errors.New("search text cannot be empty")
	// ErrNothingToExport is returned when the export period has no expenses.
	ErrNothingToExport = export.ErrNoRows
)

// Exporter writes the expenses of a period to a file and returns its path.
type Exporter interface {
	CSV(ctx context.Context, p core.Period, rows []core.Expense) (string, error)
	XLSX(ctx context.Context, p core.Period, rows []core.Expense) (string, error)
}

// ReportService answers the read-only reports and period exports.
type ReportService struct {
	store      ReportStore
	categories CategoryStore
	exporter   Exporter
}

func NewReportService(store ReportStore, categories CategoryStore, exporter Exporter) *ReportService {
	return &ReportService{store: store, categories: categories, exporter: exporter}
}

func (s *ReportService) InPeriod(ctx context.Context, p core.Period) ([]core.Expense, error) {
	return s.store.ExpensesInPeriod(ctx, p)
}

// Search matches fragment against titles and descriptions.
func (s *ReportService) Search(ctx context.Context, fragment string) ([]core.Expense, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return nil, ErrEmptyQuery
	}
	return s.store.SearchExpenses(ctx, fragment)
}

// ByCategory lists the expenses of an existing category.
func (s *ReportService) ByCategory(ctx context.Context, categoryID int64) (core.Category, []core.Expense, error) {
	cat, err := s.categories.GetCategory(ctx, categoryID)
	if err != nil {
		return core.Category{}, nil, err
	}
	rows, err := s.store.ExpensesByCategory(ctx, categoryID)
	if err != nil {
		return core.Category{}, nil, err
	}
	return cat, rows, nil
}

func (s *ReportService) ExtremesPerCategory(ctx context.Context, kind core.Extreme) ([]core.Expense, error) {
	return s.store.ExtremesPerCategory(ctx, kind)
}

func (s *ReportService) ExtremesInPeriod(ctx context.Context, kind core.Extreme, p core.Period) ([]core.Expense, error) {
	return s.store.ExtremesInPeriod(ctx, kind, p)
}

func (s *ReportService) SumsByCategory(ctx context.Context, p core.Period) ([]core.CategoryTotal, error) {
	return s.store.SumsByCategory(ctx, p)
}

func (s *ReportService) TopCategories(ctx context.Context, p core.Period) ([]core.CategoryTotal, error) {
	return s.store.TopCategories(ctx, p)
}

// AveragePerDay divides each currency's total in p by the number of days in p.
func (s *ReportService) AveragePerDay(ctx context.Context, p core.Period) ([]core.DailyAverage, error) {
	totals, err := s.store.TotalsByCurrency(ctx, p)
	if err != nil {
		return nil, err
	}
	days := p.Days()
	out := make([]core.DailyAverage, 0, len(totals))
	for _, t := range totals {
		out = append(out, core.DailyAverage{
			Currency: t.Currency,
			Total:    t.Total,
			Days:     days,
			Average:  core.AveragePerDay(t.Total, days),
		})
	}
	return out, nil
}

// ExportCSV writes the expenses of p to a CSV file.
func (s *ReportService) ExportCSV(ctx context.Context, p core.Period) (string, error) {
	return s.exportPeriod(ctx, p, s.exporter.CSV)
}

// ExportXLSX writes the expenses of p to an XLSX workbook.
func (s *ReportService) ExportXLSX(ctx context.Context, p core.Period) (string, error) {
	return s.exportPeriod(ctx, p, s.exporter.XLSX)
}

type writeFunc func(ctx context.Context, p core.Period, rows []core.Expense) (string, error)

func (s *ReportService) exportPeriod(ctx context.Context, p core.Period, write writeFunc) (string, error) {
	rows, err := s.store.ExpensesInPeriod(ctx, p)
	if err != nil {
		return "", fmt.Errorf("export %s: %w", p, err)
	}
	if len(rows) == 0 {
		return "", ErrNothingToExport
	}

	path, err := write(ctx, p, rows)
	if err != nil {
		applog.LogError(ctx, "Export failed", err, applog.OpExport,
			applog.NewFields().
				WithErrorType(applog.ErrorTypeIO).
				WithPeriod(p.From.String(), p.To.String()))
		return "", fmt.Errorf("export %s: %w", p, err)
	}
	return path, nil
}
