package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func mustParse(t *testing.T, amount, code string) Money {
	t.Helper()
	m, err := Parse(amount, code)
	if err != nil {
		t.Fatalf("Parse(%q, %q): %v", amount, code, err)
	}
	return m
}

func TestParseStoresMinorUnits(t *testing.T) {
	m := mustParse(t, "9.99", "USD")
	if m.MinorUnits() != 999 {
		t.Errorf("expected 999 minor units, got %d", m.MinorUnits())
	}
	if m.Currency() != "USD" {
		t.Errorf("expected USD, got %s", m.Currency())
	}
	if m.Scale() != 2 {
		t.Errorf("expected scale 2, got %d", m.Scale())
	}
}

func TestParseZeroDecimalCurrency(t *testing.T) {
	m := mustParse(t, "500", "JPY")
	if m.MinorUnits() != 500 {
		t.Errorf("JPY has no minor digits; expected 500, got %d", m.MinorUnits())
	}
	if m.Scale() != 0 {
		t.Errorf("expected scale 0 for JPY, got %d", m.Scale())
	}
}

func TestParseRoundsHalfUp(t *testing.T) {
	cases := []struct {
		amount string
		want   int64
	}{
		{"9.995", 1000},
		{"9.994", 999},
		{"9.985", 999},
	}
	for _, tc := range cases {
		m := mustParse(t, tc.amount, "USD")
		if m.MinorUnits() != tc.want {
			t.Errorf("Parse(%q): expected %d minor units, got %d", tc.amount, tc.want, m.MinorUnits())
		}
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	if _, err := Parse("-1.00", "USD"); err == nil {
		t.Error("expected error for negative amount")
	}
	if _, err := Parse("abc", "USD"); err == nil {
		t.Error("expected error for non-numeric amount")
	}
	if _, err := Parse("1.00", "ZZZ"); err == nil {
		t.Error("expected error for unknown currency")
	}
}

func TestParseRejectsMinorUnitOverflow(t *testing.T) {
	// 1e20 USD is 1e22 cents, past int64; IntPart alone would wrap this
	// to a positive garbage value instead of failing.
	for _, amount := range []string{
		"99999999999999999999",
		"92233720368547758.08", // one cent past max int64 minor units
	} {
		if _, err := Parse(amount, "USD"); err == nil {
			t.Errorf("Parse(%q) should have failed", amount)
		}
	}
	// The largest representable amount still parses.
	m := mustParse(t, "92233720368547758.07", "USD")
	if m.MinorUnits() != 9223372036854775807 {
		t.Errorf("expected max int64 minor units, got %d", m.MinorUnits())
	}
}

func TestDecimalRoundTrips(t *testing.T) {
	m := mustParse(t, "12.30", "EUR")
	if m.Decimal().String() != "12.3" {
		t.Errorf("expected 12.3, got %s", m.Decimal())
	}
}

func TestCmpPanicsAcrossCurrencies(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic comparing USD against EUR")
		}
	}()
	usd := mustParse(t, "1.00", "USD")
	eur := mustParse(t, "1.00", "EUR")
	usd.Cmp(eur)
}

func TestClamp(t *testing.T) {
	min := mustParse(t, "1.00", "EUR")
	max := mustParse(t, "99.99", "EUR")

	below, changed := mustParse(t, "0.50", "EUR").Clamp(min, max)
	if !changed || !below.Equal(min) {
		t.Errorf("expected clamp up to %s, got %s (changed=%t)", min, below, changed)
	}

	above, changed := mustParse(t, "999.99", "EUR").Clamp(min, max)
	if !changed || !above.Equal(max) {
		t.Errorf("expected clamp down to %s, got %s (changed=%t)", max, above, changed)
	}

	inside, changed := mustParse(t, "9.99", "EUR").Clamp(min, max)
	if changed || inside.MinorUnits() != 999 {
		t.Errorf("expected 9.99 unchanged, got %s (changed=%t)", inside, changed)
	}
}

func TestRelabelKeepsNumericAmount(t *testing.T) {
	m := mustParse(t, "9.99", "USD")
	relabeled, err := m.Relabel("EUR")
	if err != nil {
		t.Fatalf("Relabel: %v", err)
	}
	if relabeled.Currency() != "EUR" {
		t.Errorf("expected EUR, got %s", relabeled.Currency())
	}
	if !relabeled.Decimal().Equal(m.Decimal()) {
		t.Errorf("numeric amount changed: %s vs %s", relabeled.Decimal(), m.Decimal())
	}
}

func TestRelabelRequantizesScale(t *testing.T) {
	m := mustParse(t, "9.99", "USD")
	relabeled, err := m.Relabel("JPY")
	if err != nil {
		t.Fatalf("Relabel: %v", err)
	}
	if relabeled.MinorUnits() != 10 {
		t.Errorf("expected 9.99 to round to 10 JPY, got %d", relabeled.MinorUnits())
	}
}

func TestFromDecimal(t *testing.T) {
	m, err := FromDecimal(decimal.RequireFromString("9.1908"), "EUR")
	if err != nil {
		t.Fatalf("FromDecimal: %v", err)
	}
	if m.MinorUnits() != 919 {
		t.Errorf("expected 919 minor units, got %d", m.MinorUnits())
	}
}

func TestString(t *testing.T) {
	if s := mustParse(t, "9.9", "USD").String(); s != "9.90 USD" {
		t.Errorf("expected \"9.90 USD\", got %q", s)
	}
	if s := mustParse(t, "500", "JPY").String(); s != "500 JPY" {
		t.Errorf("expected \"500 JPY\", got %q", s)
	}
}
