// Package migrate builds the price-migration directive attached to batch
// writes. Validation is fail-fast: a bad directive blocks the run before any
// remote mutation.
package migrate

import (
	"time"

	"play-price/internal/errors"
)

// IncreaseType controls how existing subscribers transition to a new price.
type IncreaseType string

const (
	// IncreaseOptIn requires subscribers to accept the new price
	IncreaseOptIn IncreaseType = "OPT_IN"

	// IncreaseOptOut applies the new price unless subscribers cancel
	IncreaseOptOut IncreaseType = "OPT_OUT"
)

// Directive instructs the pricing service how to migrate existing
// subscribers. Attached to every batch write of a run.
type Directive struct {
	// Cutoff is the oldest price version allowed to remain unmigrated.
	Cutoff time.Time `json:"cutoff"`

	// Increase selects the subscriber consent model.
	Increase IncreaseType `json:"increase_type"`
}

// Build validates the raw inputs and constructs a directive. cutoff must be
// an RFC 3339 timestamp and increaseType one of "opt_in"/"OPT_IN",
// "opt_out"/"OPT_OUT". Invalid input is a fatal validation error.
func Build(cutoff, increaseType string) (*Directive, error) {
	ts, err := time.Parse(time.RFC3339, cutoff)
	if err != nil {
		return nil, errors.Wrapf(errors.TypeValidation, err,
			"migration cutoff %q is not an RFC 3339 timestamp", cutoff)
	}

	increase, err := ParseIncreaseType(increaseType)
	if err != nil {
		return nil, err
	}

	return &Directive{Cutoff: ts, Increase: increase}, nil
}

// ParseIncreaseType normalizes an increase type string.
func ParseIncreaseType(s string) (IncreaseType, error) {
	switch s {
	case "opt_in", string(IncreaseOptIn):
		return IncreaseOptIn, nil
	case "opt_out", "OPT_OUT":
		return IncreaseOptOut, nil
	default:
		return "", errors.Validationf("unknown price increase type %q (use opt_in or opt_out)", s)
	}
}
