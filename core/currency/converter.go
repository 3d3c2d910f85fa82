// Package currency provides exchange-rate lookup and rounding conversion.
package currency

import (
	"github.com/shopspring/decimal"

	"play-price/core/money"
	"play-price/internal/errors"
)

// Rate is a single directed exchange rate.
type Rate struct {
	From       string          `json:"from"`
	To         string          `json:"to"`
	Multiplier decimal.Decimal `json:"multiplier"`
}

type pair struct {
	from, to string
}

// Converter looks up exchange rates from an immutable table loaded once per
// run. It does not fetch or refresh rates; accuracy of the supplied rates is
// the caller's responsibility.
type Converter struct {
	rates map[pair]decimal.Decimal
}

// NewConverter builds a converter from a rate table. Non-positive multipliers
// are discarded; later duplicates of a pair win so callers can layer
// overrides on top of a base table.
func NewConverter(rates []Rate) *Converter {
	table := make(map[pair]decimal.Decimal, len(rates))
	for _, r := range rates {
		if !r.Multiplier.IsPositive() {
			continue
		}
		table[pair{from: r.From, to: r.To}] = r.Multiplier
	}
	return &Converter{rates: table}
}

// Rate returns the multiplier converting an amount in from-currency to
// to-currency. The identity rate is always available.
func (c *Converter) Rate(from, to string) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	m, ok := c.rates[pair{from: from, to: to}]
	if !ok {
		return decimal.Decimal{}, errors.RateUnavailable(from, to)
	}
	return m, nil
}

// Convert applies a multiplier to an amount and rounds half-up to the target
// currency's minor unit.
func (c *Converter) Convert(m money.Money, multiplier decimal.Decimal, to string) (money.Money, error) {
	return money.FromDecimal(m.Decimal().Mul(multiplier), to)
}

// ConvertBetween is the common lookup-then-convert path.
func (c *Converter) ConvertBetween(m money.Money, to string) (money.Money, error) {
	multiplier, err := c.Rate(m.Currency(), to)
	if err != nil {
		return money.Money{}, err
	}
	return c.Convert(m, multiplier, to)
}
