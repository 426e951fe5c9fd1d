package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"spendbook/internal/core"
)

const driverName = "pgx"

// PostgreSQL SQLSTATE codes mapped to domain errors.
const (
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
	codeCheckViolation      = "23514"
)

// Repository is the PostgreSQL-backed store for categories, expenses and
// report queries. Every statement borrows a pooled connection and returns it
// before the method does.
type Repository struct {
	db *sql.DB
}

// NewRepository wraps an already opened database.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Open connects, verifies the connection and applies migrations.
func Open(ctx context.Context, dsn string) (*Repository, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(ctx, dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return NewRepository(db), nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// pgCode returns the SQLSTATE of a PostgreSQL error, or "".
func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// constraintError keeps the driver diagnostic while exposing the sentinel.
func constraintError(sentinel, err error) error {
	return fmt.Errorf("%w: %v", sentinel, err)
}

// likePattern builds a case-insensitive contains pattern with LIKE
// metacharacters in the fragment matched literally.
func likePattern(fragment string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(fragment) + "%"
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// expenseColumns is the joined projection scanned by scanExpense.
const expenseColumns = `
	e.id, e.title, e.amount, e.expense_date, e.category_id, c.name,
	COALESCE(e.description, ''), COALESCE(e.currency, 'UAH')`

func scanExpense(row rowScanner) (core.Expense, error) {
	var (
		e        core.Expense
		currency string
	)
	if err := row.Scan(&e.ID, &e.Title, &e.Amount, &e.Date, &e.CategoryID, &e.CategoryName, &e.Description, &currency); err != nil {
		return core.Expense{}, err
	}
	e.Currency = core.Currency(currency)
	return e, nil
}

func (r *Repository) queryExpenses(ctx context.Context, query string, args ...any) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
