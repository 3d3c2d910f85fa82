package currency

import (
	"testing"

	"github.com/shopspring/decimal"

	"play-price/core/money"
	"play-price/internal/errors"
)

func rate(from, to, multiplier string) Rate {
	return Rate{From: from, To: to, Multiplier: decimal.RequireFromString(multiplier)}
}

func TestRateLookup(t *testing.T) {
	conv := NewConverter([]Rate{rate("USD", "EUR", "0.92")})

	m, err := conv.Rate("USD", "EUR")
	if err != nil {
		t.Fatalf("Rate: %v", err)
	}
	if m.String() != "0.92" {
		t.Errorf("expected 0.92, got %s", m)
	}
}

func TestRateIdentity(t *testing.T) {
	conv := NewConverter(nil)
	m, err := conv.Rate("USD", "USD")
	if err != nil {
		t.Fatalf("identity rate should always resolve: %v", err)
	}
	if !m.Equal(decimal.NewFromInt(1)) {
		t.Errorf("expected 1, got %s", m)
	}
}

func TestRateUnavailable(t *testing.T) {
	conv := NewConverter([]Rate{rate("USD", "EUR", "0.92")})
	_, err := conv.Rate("EUR", "USD")
	if err == nil {
		t.Fatal("expected error for missing reverse rate")
	}
	if !errors.IsType(err, errors.TypeRate) {
		t.Errorf("expected RATE_ERROR, got %v", err)
	}
}

func TestNewConverterDiscardsNonPositiveRates(t *testing.T) {
	conv := NewConverter([]Rate{rate("USD", "EUR", "0"), rate("USD", "GBP", "-1")})
	if _, err := conv.Rate("USD", "EUR"); err == nil {
		t.Error("zero rate should have been discarded")
	}
	if _, err := conv.Rate("USD", "GBP"); err == nil {
		t.Error("negative rate should have been discarded")
	}
}

func TestNewConverterLaterDuplicateWins(t *testing.T) {
	conv := NewConverter([]Rate{
		rate("USD", "EUR", "0.90"),
		rate("USD", "EUR", "0.92"),
	})
	m, err := conv.Rate("USD", "EUR")
	if err != nil {
		t.Fatalf("Rate: %v", err)
	}
	if m.String() != "0.92" {
		t.Errorf("expected override 0.92, got %s", m)
	}
}

func TestConvertRoundsHalfUpToMinorUnit(t *testing.T) {
	conv := NewConverter(nil)
	usd, err := money.Parse("9.99", "USD")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	// 9.99 * 0.92 = 9.1908 -> 9.19 EUR
	eur, err := conv.Convert(usd, decimal.RequireFromString("0.92"), "EUR")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if eur.MinorUnits() != 919 || eur.Currency() != "EUR" {
		t.Errorf("expected 9.19 EUR, got %s", eur)
	}
}

func TestConvertToZeroDecimalCurrency(t *testing.T) {
	conv := NewConverter([]Rate{rate("USD", "JPY", "147.5")})
	usd, err := money.Parse("9.99", "USD")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	// 9.99 * 147.5 = 1473.525 -> 1474 JPY
	jpy, err := conv.ConvertBetween(usd, "JPY")
	if err != nil {
		t.Fatalf("ConvertBetween: %v", err)
	}
	if jpy.MinorUnits() != 1474 {
		t.Errorf("expected 1474 JPY, got %s", jpy)
	}
}

func TestConvertBetweenMissingRate(t *testing.T) {
	conv := NewConverter(nil)
	usd, err := money.Parse("1.00", "USD")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := conv.ConvertBetween(usd, "EUR"); err == nil {
		t.Error("expected error for missing rate")
	}
}
