package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// minorUnitExponent is the number of fraction digits of every supported settlement currency.
const minorUnitExponent = 2

var currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// Money is an amount in minor currency units (e.g. cents) tagged with an ISO 4217 code.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// NewMoney returns Money with the currency code normalised to upper case.
func NewMoney(amount int64, currency string) Money {
	return Money{Amount: amount, Currency: NormalizeCurrency(currency)}
}

// NormalizeCurrency trims and upper-cases a currency code.
func NormalizeCurrency(currency string) string {
	return strings.ToUpper(strings.TrimSpace(currency))
}

// ParseMoney converts a decimal string such as "12.50" into minor units.
// Values with more than two fraction digits, or an invalid currency code, are rejected.
func ParseMoney(value, currency string) (Money, error) {
	currency = NormalizeCurrency(currency)
	if !currencyRegex.MatchString(currency) {
		return Money{}, fmt.Errorf("%w: invalid currency %q", ErrInvalidInput, currency)
	}
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return Money{}, fmt.Errorf("%w: invalid amount %q", ErrInvalidInput, value)
	}
	minor := d.Shift(minorUnitExponent)
	if !minor.IsInteger() {
		return Money{}, fmt.Errorf("%w: amount %q has too many decimal places", ErrInvalidInput, value)
	}
	if !minor.BigInt().IsInt64() {
		return Money{}, fmt.Errorf("%w: amount %q out of range", ErrInvalidInput, value)
	}
	return Money{Amount: minor.IntPart(), Currency: currency}, nil
}

// IsPositive reports whether the amount is greater than zero.
func (m Money) IsPositive() bool {
	return m.Amount > 0
}

// SameCurrency reports whether both values use the same currency code.
func (m Money) SameCurrency(other Money) bool {
	return m.Currency == other.Currency
}

// Add returns m + other. Both values must share a currency.
func (m Money) Add(other Money) (Money, error) {
	if !m.SameCurrency(other) {
		return Money{}, fmt.Errorf("%w: currency mismatch %s/%s", ErrInvalidInput, m.Currency, other.Currency)
	}
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}, nil
}

// Min returns the smaller of two amounts in the same currency.
func (m Money) Min(other Money) Money {
	if other.Amount < m.Amount {
		return other
	}
	return m
}

// String renders the amount in major units, e.g. "12.50 EUR".
func (m Money) String() string {
	return decimal.New(m.Amount, -minorUnitExponent).StringFixed(minorUnitExponent) + " " + m.Currency
}
