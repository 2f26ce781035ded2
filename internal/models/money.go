package models

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Amounts are NUMERIC(10,2) in storage and carried as strings.
const (
	moneyScale    = 2
	maxMoneyDigit = 8 // integer digits of NUMERIC(10,2)
)

// ParseMoney parses a decimal amount and normalizes it to two fractional digits.
func ParseMoney(s string) (string, decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return "", decimal.Zero, errors.New("A valid number is required.")
	}
	if d.Exponent() < -moneyScale && !d.Equal(d.Round(moneyScale)) {
		return "", decimal.Zero, fmt.Errorf("Ensure that there are no more than %d decimal places.", moneyScale)
	}
	if d.Abs().GreaterThanOrEqual(decimal.New(1, maxMoneyDigit)) {
		return "", decimal.Zero, fmt.Errorf("Ensure that there are no more than %d digits before the decimal point.", maxMoneyDigit)
	}
	return d.StringFixed(moneyScale), d, nil
}

// IsPositiveAmount reports whether s parses to an amount strictly above zero.
func IsPositiveAmount(s string) bool {
	d, err := decimal.NewFromString(s)
	return err == nil && d.GreaterThan(decimal.Zero)
}
