package migrate

import (
	"testing"
	"time"

	"play-price/internal/errors"
)

func TestBuildValidDirective(t *testing.T) {
	d, err := Build("2026-01-15T00:00:00Z", "opt_out")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	if !d.Cutoff.Equal(want) {
		t.Errorf("cutoff = %v, want %v", d.Cutoff, want)
	}
	if d.Increase != IncreaseOptOut {
		t.Errorf("increase = %v, want OPT_OUT", d.Increase)
	}
}

func TestBuildRejectsBadCutoff(t *testing.T) {
	for _, cutoff := range []string{"", "2026-01-15", "yesterday", "15/01/2026"} {
		_, err := Build(cutoff, "opt_in")
		if err == nil {
			t.Errorf("Build(%q) should have failed", cutoff)
			continue
		}
		if !errors.IsType(err, errors.TypeValidation) {
			t.Errorf("Build(%q): expected validation error, got %v", cutoff, err)
		}
	}
}

func TestBuildRejectsBadIncreaseType(t *testing.T) {
	_, err := Build("2026-01-15T00:00:00Z", "maybe")
	if err == nil {
		t.Fatal("expected an error for an unknown increase type")
	}
	if !errors.IsType(err, errors.TypeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestParseIncreaseTypeAcceptsBothCases(t *testing.T) {
	cases := map[string]IncreaseType{
		"opt_in":  IncreaseOptIn,
		"OPT_IN":  IncreaseOptIn,
		"opt_out": IncreaseOptOut,
		"OPT_OUT": IncreaseOptOut,
	}
	for input, want := range cases {
		got, err := ParseIncreaseType(input)
		if err != nil {
			t.Errorf("ParseIncreaseType(%q): %v", input, err)
			continue
		}
		if got != want {
			t.Errorf("ParseIncreaseType(%q) = %v, want %v", input, got, want)
		}
	}
}
