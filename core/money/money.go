// Package money provides fixed-point monetary amounts.
// Amounts are stored as integer minor units (cents, yen, ...) and NEVER as
// float64; all arithmetic goes through decimal.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Money is an immutable amount in a single ISO-4217 currency.
type Money struct {
	minorUnits int64
	code       string
	scale      int32
}

// MinorUnitScale returns the number of minor-unit digits for an ISO-4217 code
// (2 for USD, 0 for JPY). Unknown codes are an error.
func MinorUnitScale(code string) (int32, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return 0, fmt.Errorf("unknown currency code %q: %w", code, err)
	}
	scale, _ := currency.Standard.Rounding(unit)
	return int32(scale), nil
}

// Parse builds Money from a plain decimal string (no symbols or separators)
// and a currency code. The value is quantized to the currency's minor unit,
// rounding half-up.
func Parse(amount, code string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if d.IsNegative() {
		return Money{}, fmt.Errorf("negative amount %q", amount)
	}
	return FromDecimal(d, code)
}

// FromDecimal quantizes a decimal value to the currency's minor unit,
// rounding half-up.
func FromDecimal(d decimal.Decimal, code string) (Money, error) {
	scale, err := MinorUnitScale(code)
	if err != nil {
		return Money{}, err
	}
	// Round rounds half away from zero; amounts are non-negative here, so
	// this is half-up.
	quantized := d.Shift(scale).Round(0)
	// IntPart wraps silently past int64, so overflow must be rejected here.
	if !quantized.BigInt().IsInt64() {
		return Money{}, fmt.Errorf("amount %s %s overflows minor units", d, code)
	}
	return Money{minorUnits: quantized.IntPart(), code: code, scale: scale}, nil
}

// FromMinorUnits builds Money directly from integer minor units.
func FromMinorUnits(units int64, code string) (Money, error) {
	scale, err := MinorUnitScale(code)
	if err != nil {
		return Money{}, err
	}
	return Money{minorUnits: units, code: code, scale: scale}, nil
}

// MinorUnits returns the amount in integer minor units.
func (m Money) MinorUnits() int64 { return m.minorUnits }

// Currency returns the ISO-4217 code.
func (m Money) Currency() string { return m.code }

// Scale returns the number of minor-unit digits.
func (m Money) Scale() int32 { return m.scale }

// Decimal returns the amount as a decimal major-unit value.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.minorUnits, -m.scale)
}

// IsPositive reports whether the amount is greater than zero.
func (m Money) IsPositive() bool { return m.minorUnits > 0 }

// Cmp compares two amounts. It panics on mixed currencies: comparing across
// currencies is always a bug upstream.
func (m Money) Cmp(other Money) int {
	if m.code != other.code {
		panic(fmt.Sprintf("cannot compare %s and %s", m.code, other.code))
	}
	switch {
	case m.minorUnits < other.minorUnits:
		return -1
	case m.minorUnits > other.minorUnits:
		return 1
	default:
		return 0
	}
}

// Equal reports whether two amounts have the same currency and value.
func (m Money) Equal(other Money) bool {
	return m.code == other.code && m.minorUnits == other.minorUnits
}

// Clamp returns the amount limited to [min, max] along with whether the value
// changed. All three amounts must share a currency.
func (m Money) Clamp(min, max Money) (Money, bool) {
	if m.Cmp(min) < 0 {
		return min, true
	}
	if m.Cmp(max) > 0 {
		return max, true
	}
	return m, false
}

// Relabel returns the same numeric value under a different currency code,
// re-quantized to the target currency's minor unit (half-up). No exchange
// rate is applied.
func (m Money) Relabel(code string) (Money, error) {
	if code == m.code {
		return m, nil
	}
	return FromDecimal(m.Decimal(), code)
}

// String renders the amount as "<value> <code>", e.g. "9.99 EUR".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Decimal().StringFixed(m.scale), m.code)
}
