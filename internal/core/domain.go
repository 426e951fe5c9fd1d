package core

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	UAH Currency = "UAH"
	USD Currency = "USD"
	EUR Currency = "EUR"

	// DefaultCurrency is used when the user leaves the currency blank.
	DefaultCurrency = UAH
)

type (
	Currency string

	Date struct {
		time.Time
	}

	Category struct {
		ID   int64
		Name string
	}

	Expense struct {
		ID           int64
		Title        string
		Amount       decimal.Decimal
		Date         Date
		CategoryID   int64
		CategoryName string // filled on joined reads
		Description  string // empty means NULL in the store
		Currency     Currency
	}
)

var (
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidCurrency   = errors.New("invalid currency")
	ErrEmptyName         = errors.New("empty category name")
	ErrEmptyTitle        = errors.New("empty title")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrExpenseNotFound   = errors.New("expense not found")
	ErrDuplicateCategory = errors.New("category already exists")
	ErrCategoryInUse     = errors.New("category is referenced by expenses")
)

// Currencies lists the allowed currencies in display order.
func Currencies() []Currency {
	return []Currency{UAH, USD, EUR}
}

// ParseCurrency accepts any casing of an allowed currency code.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, s)
	}
	return c, nil
}

func (c Currency) IsValid() bool {
	switch c {
	case UAH, USD, EUR:
		return true
	default:
		return false
	}
}

func (c Currency) String() string {
	return string(c)
}

var dateLayouts = []string{"2006-01-02", "02.01.2006"}

// ParseDate accepts YYYY-MM-DD or DD.MM.YYYY.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{Time: t}, nil
		}
	}
	return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return fmt.Errorf("%w: date cannot be zero", ErrInvalidDate)
	}
	return nil
}

// String formats the date the way the store and exports do.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

// DaysUntil counts calendar days from d to other, both ends included.
// Both dates are UTC midnight, so whole-day seconds divide exactly.
func (d Date) DaysUntil(other Date) int {
	return int((other.Unix()-d.Unix())/secondsPerDay) + 1
}

const secondsPerDay = 24 * 60 * 60

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), nil
}

// Scan implements sql.Scanner for DATE columns.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		d.Time = time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)
		return nil
	case string:
		return d.scanText(v)
	case []byte:
		return d.scanText(string(v))
	case nil:
		d.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("scan date: unsupported type %T", src)
	}
}

func (d *Date) scanText(s string) error {
	if len(s) > 10 {
		s = s[:10]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ValidateName trims and checks a category name.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	return name, nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	if err := ValidateAmount(e.Amount); err != nil {
		return err
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if e.CategoryID <= 0 {
		return ErrCategoryNotFound
	}
	if !e.Currency.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCurrency, e.Currency)
	}
	return nil
}
