// Package export writes the expenses of a period to CSV and XLSX files.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"spendbook/internal/core"
	applog "spendbook/internal/log"
)

// bom makes spreadsheet programs open the CSV as UTF-8.
const bom = "\ufeff"

// SheetName is the single worksheet of an XLSX export.
const SheetName = "Expenses"

// Header is the column row of every export.
var Header = []string{"date", "category", "title", "amount", "currency", "description"}

// ErrNoRows is returned when there is nothing to write.
var ErrNoRows = errors.New("nothing to export")

// Exporter writes export files below Dir, creating it when absent.
type Exporter struct {
	Dir string
}

func New(dir string) *Exporter {
	return &Exporter{Dir: dir}
}

// FileName is the base name of an export of p with the given extension.
func FileName(p core.Period, ext string) string {
	return fmt.Sprintf("expenses_%s_to_%s.%s", p.From, p.To, ext)
}

// Path is where an export of p with the given extension is written.
func (x *Exporter) Path(p core.Period, ext string) string {
	return filepath.Join(x.Dir, FileName(p, ext))
}

// Record renders one expense as an export row.
func Record(e core.Expense) []string {
	return []string{
		e.Date.String(),
		e.CategoryName,
		e.Title,
		core.FormatAmount(e.Amount),
		e.Currency.String(),
		e.Description,
	}
}

// WriteCSV writes a BOM, the header and one semicolon-separated row per
// expense.
func WriteCSV(w io.Writer, rows []core.Expense) error {
	if _, err := io.WriteString(w, bom); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, e := range rows {
		if err := cw.Write(Record(e)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a file produced by WriteCSV, header included.
func ReadCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte(bom))))
	cr.Comma = ';'
	return cr.ReadAll()
}

// CSV writes rows to the CSV export file of p and returns its path.
func (x *Exporter) CSV(ctx context.Context, p core.Period, rows []core.Expense) (string, error) {
	if len(rows) == 0 {
		return "", ErrNoRows
	}
	path := x.Path(p, "csv")
	if err := x.prepare(); err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(f, rows); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}

	x.logWritten(ctx, p, path, len(rows))
	return path, nil
}

var columnWidths = []struct {
	from, to string
	width    float64
}{
	{"A", "A", 12},
	{"B", "C", 20},
	{"D", "E", 10},
	{"F", "F", 40},
}

// XLSX writes rows to a one-sheet workbook of p and returns its path.
func (x *Exporter) XLSX(ctx context.Context, p core.Period, rows []core.Expense) (string, error) {
	if len(rows) == 0 {
		return "", ErrNoRows
	}
	path := x.Path(p, "xlsx")
	if err := x.prepare(); err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return "", fmt.Errorf("name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return "", fmt.Errorf("header style: %w", err)
	}
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return "", fmt.Errorf("amount style: %w", err)
	}

	for _, w := range columnWidths {
		if err := f.SetColWidth(SheetName, w.from, w.to, w.width); err != nil {
			return "", fmt.Errorf("column width %s: %w", w.from, err)
		}
	}

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", "F1", headerStyle); err != nil {
		return "", fmt.Errorf("style header: %w", err)
	}

	for i, e := range rows {
		row := i + 2
		cells := []any{
			e.Date.String(),
			e.CategoryName,
			e.Title,
			e.Amount.InexactFloat64(),
			e.Currency.String(),
			e.Description,
		}
		if err := f.SetSheetRow(SheetName, fmt.Sprintf("A%d", row), &cells); err != nil {
			return "", fmt.Errorf("write row %d: %w", row, err)
		}
		amountCell := fmt.Sprintf("D%d", row)
		if err := f.SetCellStyle(SheetName, amountCell, amountCell, amountStyle); err != nil {
			return "", fmt.Errorf("style row %d: %w", row, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}

	x.logWritten(ctx, p, path, len(rows))
	return path, nil
}

func (x *Exporter) prepare() error {
	if err := os.MkdirAll(x.Dir, 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	return nil
}

func (x *Exporter) logWritten(ctx context.Context, p core.Period, path string, n int) {
	slog.InfoContext(ctx, "Export written",
		append(applog.NewFields().
			WithComponent(applog.ComponentExport).
			WithOperation(applog.OpExport).
			WithPeriod(p.From.String(), p.To.String()).
			ToSlice(),
			applog.FieldPath, path,
			applog.FieldRows, n)...)
}
