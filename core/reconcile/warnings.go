package reconcile

import "fmt"

// WarningCode classifies a per-row defect. Warnings never abort the run;
// the offending row is dropped and reconciliation continues.
type WarningCode string

const (
	// WarnUnknownCountry - the three-letter code has no region mapping
	WarnUnknownCountry WarningCode = "UNKNOWN_COUNTRY"

	// WarnRegionNotBillable - the region cannot be priced at this catalog version
	WarnRegionNotBillable WarningCode = "REGION_NOT_BILLABLE"

	// WarnCurrencyMismatch - row currency differs from the required currency
	// and currency fixing is disabled
	WarnCurrencyMismatch WarningCode = "CURRENCY_MISMATCH"

	// WarnRateUnavailable - no exchange rate for the requested conversion
	WarnRateUnavailable WarningCode = "RATE_UNAVAILABLE"

	// WarnNoRecommendedPrice - recommended pricing requested but the catalog
	// has no recommendation for the region
	WarnNoRecommendedPrice WarningCode = "NO_RECOMMENDED_PRICE"

	// WarnDuplicateRegion - a later row repeats an already-reconciled region
	WarnDuplicateRegion WarningCode = "DUPLICATE_REGION"
)

// Warning records one dropped row and why.
type Warning struct {
	Code    WarningCode `json:"code"`
	Region  string      `json:"region"`
	Row     int         `json:"row,omitempty"`
	Message string      `json:"message"`
}

// String renders the warning for console output.
func (w Warning) String() string {
	if w.Row > 0 {
		return fmt.Sprintf("row %d [%s] %s: %s", w.Row, w.Code, w.Region, w.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", w.Code, w.Region, w.Message)
}
