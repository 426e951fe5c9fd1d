// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts typed by the user
// and formatting them the way every report and export prints them.
package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// maxAmount is the first value that no longer fits numeric(12,2).
var maxAmount = decimal.New(1, 10)

// currencyMarkers are stripped from typed amounts ("3400 грн").
var currencyMarkers = []string{"грн", "uah"}

// ParseAmount converts user input to a positive amount with two decimal places.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators, ignores
// spaces and a hryvnia marker, and rounds half-up on the third decimal place.
// Returns ErrInvalidAmount for malformed, zero, negative or oversized values.
//
// Examples:
//
//	ParseAmount("125.50")   -> 125.50
//	ParseAmount("3 400 грн") -> 3400.00
//	ParseAmount("1,005")    -> 1.01
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, marker := range currencyMarkers {
		s = strings.ReplaceAll(s, marker, "")
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	d = d.Round(2)
	if err := ValidateAmount(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// ValidateAmount checks the store's positivity and precision limits.
func ValidateAmount(d decimal.Decimal) error {
	if !d.IsPositive() {
		return fmt.Errorf("%w: must be greater than 0", ErrInvalidAmount)
	}
	if d.GreaterThanOrEqual(maxAmount) {
		return fmt.Errorf("%w: too large", ErrInvalidAmount)
	}
	return nil
}

// FormatAmount renders an amount with exactly two decimals.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
