package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Extreme selects which end of the amount range an extremal report returns.
type Extreme int

const (
	Max Extreme = iota
	Min
)

func (e Extreme) String() string {
	if e == Min {
		return "min"
	}
	return "max"
}

// Period is an inclusive date range with From <= To.
type Period struct {
	From Date
	To   Date
}

// NewPeriod orders the two dates; swapped reports whether they were reversed.
func NewPeriod(from, to Date) (p Period, swapped bool) {
	if from.After(to.Time) {
		return Period{From: to, To: from}, true
	}
	return Period{From: from, To: to}, false
}

// Days counts the calendar days in the period.
func (p Period) Days() int {
	return p.From.DaysUntil(p.To)
}

func (p Period) String() string {
	return fmt.Sprintf("%s..%s", p.From, p.To)
}

// CategoryTotal is a sum of amounts for one category in one currency.
type CategoryTotal struct {
	Category string
	Currency Currency
	Total    decimal.Decimal
}

// CurrencyTotal is a sum of amounts in one currency.
type CurrencyTotal struct {
	Currency Currency
	Total    decimal.Decimal
}

// DailyAverage is the per-day spend of one currency over a period.
type DailyAverage struct {
	Currency Currency
	Total    decimal.Decimal
	Days     int
	Average  decimal.Decimal
}

// AveragePerDay divides total by days, rounded to cents. A non-positive
// day count yields zero.
func AveragePerDay(total decimal.Decimal, days int) decimal.Decimal {
	if days <= 0 {
		return decimal.Zero
	}
	return total.DivRound(decimal.NewFromInt(int64(days)), 2)
}
