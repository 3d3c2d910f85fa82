// Package types defines the shared domain types for price reconciliation.
package types

import (
	"play-price/core/money"
)

// RawPriceEntry is one desired regional price as supplied by the input file.
// Transient: one per CSV row.
type RawPriceEntry struct {
	// Region is the three-letter country/region code from the input row.
	Region string `json:"region"`

	// Currency is the ISO-4217 code the row was priced in.
	Currency string `json:"currency"`

	// Amount is the desired price, already validated as a positive decimal.
	Amount money.Money `json:"amount"`

	// Row is the 1-based input row number (header is row 1), for warnings.
	Row int `json:"row,omitempty"`
}

// RegionConstraint is the pricing service's per-region requirement for one
// catalog version. Immutable after load.
type RegionConstraint struct {
	// Region is the two-letter region code.
	Region string `json:"region"`

	// RequiredCurrency is the only currency the region accepts.
	RequiredCurrency string `json:"required_currency"`

	// MinAmount and MaxAmount bound the allowed price, in RequiredCurrency.
	MinAmount money.Money `json:"min_amount"`
	MaxAmount money.Money `json:"max_amount"`

	// Billable reports whether the region can be priced at all at this
	// catalog version.
	Billable bool `json:"billable"`

	// Recommended is the service-recommended price, when one exists.
	Recommended *money.Money `json:"recommended,omitempty"`
}

// ReconciledPrice is a validated regional price. Immutable once produced.
type ReconciledPrice struct {
	// Region is the two-letter region code.
	Region string `json:"region"`

	// Price is the final amount in the region's required currency.
	Price money.Money `json:"price"`

	// WasClamped is set when the amount was moved into the allowed bounds.
	WasClamped bool `json:"was_clamped,omitempty"`

	// WasCurrencyFixed is set when the input currency was replaced by the
	// region's required currency.
	WasCurrencyFixed bool `json:"was_currency_fixed,omitempty"`

	// WasConverted is set when the amount was exchange-rate converted.
	WasConverted bool `json:"was_converted,omitempty"`
}

// CurrentRegionalEntry is a read-only snapshot of one region's existing
// remote configuration.
type CurrentRegionalEntry struct {
	Region    string      `json:"region"`
	Price     money.Money `json:"price"`
	Available bool        `json:"available"`
}

// Flags are the reconciliation options, loaded once per run.
type Flags struct {
	// FixCurrency replaces a mismatched input currency with the region's
	// required currency instead of dropping the row.
	FixCurrency bool `json:"fix_currency"`

	// ConvertCurrency additionally converts the amount when fixing the
	// currency. Meaningless unless FixCurrency is set.
	ConvertCurrency bool `json:"convert_currency"`

	// UseRecommended overrides input amounts with the catalog's
	// recommended per-region price.
	UseRecommended bool `json:"use_recommended"`

	// BatchSize chunks the remote writes; <=0 means a single write.
	BatchSize int `json:"batch_size"`

	// EnableAvailability marks every updated region as purchasable by new
	// subscribers.
	EnableAvailability bool `json:"enable_availability"`
}

// RunConfig identifies the subscription being reconciled and carries the
// per-run flags. Produced by config loading, consumed read-only by the core.
type RunConfig struct {
	PackageName    string `json:"package_name"`
	ProductID      string `json:"product_id"`
	BasePlanID     string `json:"base_plan_id"`
	RegionsVersion string `json:"regions_version"`
	Flags          Flags  `json:"flags"`
}
