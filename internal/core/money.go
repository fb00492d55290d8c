// Package core holds the bot's domain types: money, ledger entries and the
// parsed command variants.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a user-typed amount into cents with half-up rounding
// on the third decimal place. Only non-negative decimals are accepted; a
// leading sign, garbage or an empty string yield ErrInvalidAmount.
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if d.IsNegative() {
		return Money{}, ErrInvalidAmount
	}
	cents := d.Shift(2).Round(0)
	if !cents.BigInt().IsInt64() {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents.IntPart()}, nil
}

// Decimal returns the exact decimal value of the amount.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String formats the amount with two decimal places, sign included.
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// Abs returns the magnitude of the amount.
func (m Money) Abs() Money {
	if m.Cents < 0 {
		return Money{Cents: -m.Cents}
	}
	return m
}
