package diff

import (
	"reflect"
	"testing"

	"play-price/core/money"
	"play-price/core/types"
)

func mustMoney(t *testing.T, amount, code string) money.Money {
	t.Helper()
	m, err := money.Parse(amount, code)
	if err != nil {
		t.Fatalf("Parse(%q, %q): %v", amount, code, err)
	}
	return m
}

func reconciled(t *testing.T, region, amount, code string) types.ReconciledPrice {
	t.Helper()
	return types.ReconciledPrice{Region: region, Price: mustMoney(t, amount, code)}
}

func existing(t *testing.T, region, amount, code string, available bool) types.CurrentRegionalEntry {
	t.Helper()
	return types.CurrentRegionalEntry{Region: region, Price: mustMoney(t, amount, code), Available: available}
}

func kinds(result *Result) []ChangeKind {
	out := make([]ChangeKind, 0, len(result.Records))
	for _, rec := range result.Records {
		out = append(out, rec.Kind)
	}
	return out
}

func TestDiffNewRegion(t *testing.T) {
	result := Diff(
		[]types.ReconciledPrice{reconciled(t, "DE", "9.99", "EUR")},
		nil,
		types.Flags{},
	)

	if len(result.Records) != 1 || result.Records[0].Kind != ChangeNew {
		t.Fatalf("expected one NEW record, got %+v", result.Records)
	}
	rec := result.Records[0]
	if rec.Old != nil {
		t.Error("NEW record must have no old price")
	}
	if rec.New == nil || !rec.New.Equal(mustMoney(t, "9.99", "EUR")) {
		t.Errorf("unexpected new price: %v", rec.New)
	}
	if result.NewCount != 1 || result.Changed() != true {
		t.Errorf("unexpected counts: %+v", result)
	}
}

func TestDiffPriceUp(t *testing.T) {
	result := Diff(
		[]types.ReconciledPrice{reconciled(t, "US", "12.99", "USD")},
		[]types.CurrentRegionalEntry{existing(t, "US", "9.99", "USD", true)},
		types.Flags{},
	)

	if !reflect.DeepEqual(kinds(result), []ChangeKind{ChangePriceUp}) {
		t.Fatalf("expected PRICE_UP, got %+v", result.Records)
	}
	rec := result.Records[0]
	if !rec.Old.Equal(mustMoney(t, "9.99", "USD")) || !rec.New.Equal(mustMoney(t, "12.99", "USD")) {
		t.Errorf("unexpected old/new: %v -> %v", rec.Old, rec.New)
	}
}

func TestDiffPriceDown(t *testing.T) {
	result := Diff(
		[]types.ReconciledPrice{reconciled(t, "US", "7.99", "USD")},
		[]types.CurrentRegionalEntry{existing(t, "US", "9.99", "USD", true)},
		types.Flags{},
	)

	if !reflect.DeepEqual(kinds(result), []ChangeKind{ChangePriceDown}) {
		t.Fatalf("expected PRICE_DOWN, got %+v", result.Records)
	}
	if result.PriceDownCount != 1 {
		t.Errorf("PriceDownCount = %d", result.PriceDownCount)
	}
}

func TestDiffUnchanged(t *testing.T) {
	result := Diff(
		[]types.ReconciledPrice{reconciled(t, "US", "9.99", "USD")},
		[]types.CurrentRegionalEntry{existing(t, "US", "9.99", "USD", true)},
		types.Flags{},
	)

	if !reflect.DeepEqual(kinds(result), []ChangeKind{ChangeUnchanged}) {
		t.Fatalf("expected UNCHANGED, got %+v", result.Records)
	}
	if result.Changed() {
		t.Error("Changed() must be false for an all-unchanged diff")
	}
}

func TestDiffCurrencyChangeWithSameAmount(t *testing.T) {
	result := Diff(
		[]types.ReconciledPrice{reconciled(t, "DE", "9.99", "EUR")},
		[]types.CurrentRegionalEntry{existing(t, "DE", "9.99", "USD", true)},
		types.Flags{},
	)

	if !reflect.DeepEqual(kinds(result), []ChangeKind{ChangeCurrency}) {
		t.Fatalf("expected CURRENCY_CHANGE only, got %+v", result.Records)
	}
}

func TestDiffCurrencyChangeDoesNotMaskPriceMovement(t *testing.T) {
	result := Diff(
		[]types.ReconciledPrice{reconciled(t, "DE", "9.19", "EUR")},
		[]types.CurrentRegionalEntry{existing(t, "DE", "9.99", "USD", true)},
		types.Flags{},
	)

	if !reflect.DeepEqual(kinds(result), []ChangeKind{ChangePriceDown, ChangeCurrency}) {
		t.Fatalf("expected PRICE_DOWN then CURRENCY_CHANGE, got %+v", result.Records)
	}
}

func TestDiffAvailabilityOnlyWhenEnabled(t *testing.T) {
	prices := []types.ReconciledPrice{reconciled(t, "US", "9.99", "USD")}
	current := []types.CurrentRegionalEntry{existing(t, "US", "9.99", "USD", false)}

	off := Diff(prices, current, types.Flags{})
	if !reflect.DeepEqual(kinds(off), []ChangeKind{ChangeUnchanged}) {
		t.Fatalf("availability must be ignored when disabled, got %+v", off.Records)
	}

	on := Diff(prices, current, types.Flags{EnableAvailability: true})
	if !reflect.DeepEqual(kinds(on), []ChangeKind{ChangeAvailability}) {
		t.Fatalf("expected AVAILABILITY_CHANGE, got %+v", on.Records)
	}
}

func TestDiffCurrentOnlyRegionsNotReported(t *testing.T) {
	result := Diff(
		[]types.ReconciledPrice{reconciled(t, "US", "9.99", "USD")},
		[]types.CurrentRegionalEntry{
			existing(t, "US", "9.99", "USD", true),
			existing(t, "BR", "19.90", "BRL", true),
		},
		types.Flags{},
	)

	for _, rec := range result.Records {
		if rec.Region == "BR" {
			t.Fatalf("current-only region must not appear: %+v", rec)
		}
	}
}

func TestDiffRecordsSortedByRegionThenKind(t *testing.T) {
	result := Diff(
		[]types.ReconciledPrice{
			reconciled(t, "US", "12.99", "USD"),
			reconciled(t, "DE", "9.19", "EUR"),
			reconciled(t, "BR", "19.90", "BRL"),
		},
		[]types.CurrentRegionalEntry{
			existing(t, "US", "9.99", "USD", true),
			existing(t, "DE", "9.99", "USD", true),
		},
		types.Flags{},
	)

	regions := make([]string, 0, len(result.Records))
	for _, rec := range result.Records {
		regions = append(regions, rec.Region)
	}
	if !reflect.DeepEqual(regions, []string{"BR", "DE", "DE", "US"}) {
		t.Errorf("unexpected region order: %v", regions)
	}
	if !reflect.DeepEqual(kinds(result), []ChangeKind{ChangeNew, ChangePriceDown, ChangeCurrency, ChangePriceUp}) {
		t.Errorf("unexpected kind order: %+v", result.Records)
	}
}

func TestDiffIsDeterministic(t *testing.T) {
	prices := []types.ReconciledPrice{
		reconciled(t, "US", "12.99", "USD"),
		reconciled(t, "DE", "9.19", "EUR"),
		reconciled(t, "JP", "1500", "JPY"),
	}
	current := []types.CurrentRegionalEntry{
		existing(t, "DE", "9.99", "EUR", true),
		existing(t, "US", "9.99", "USD", true),
	}

	first := Diff(prices, current, types.Flags{})
	second := Diff(prices, current, types.Flags{})
	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs must yield identical diffs")
	}
}
