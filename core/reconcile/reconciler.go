// Package reconcile validates desired regional prices against the catalog's
// per-region constraints, producing the maximal valid price set plus a
// complete warning log. Reconciliation is a pure function of its inputs: no
// I/O, no clock, no ambient state.
package reconcile

import (
	"fmt"

	"play-price/core/catalog"
	"play-price/core/currency"
	"play-price/core/region"
	"play-price/core/types"
)

// Result is the outcome of one reconciliation pass.
type Result struct {
	// Prices is the validated set, one entry per region, in first-seen
	// input order.
	Prices []types.ReconciledPrice

	// Warnings records every dropped row. A row never aborts the run.
	Warnings []Warning
}

// Reconciler turns raw input rows into validated regional prices.
type Reconciler struct {
	catalog   *catalog.RegionCatalog
	converter *currency.Converter
}

// New builds a reconciler over the run's catalog and rate table.
func New(cat *catalog.RegionCatalog, conv *currency.Converter) *Reconciler {
	return &Reconciler{catalog: cat, converter: conv}
}

// Reconcile processes entries in order. Per entry: map the region code, check
// billability, resolve the currency, optionally override with the recommended
// price, clamp into bounds, and emit unless the region was already emitted
// (first-seen wins).
func (r *Reconciler) Reconcile(entries []types.RawPriceEntry, flags types.Flags) Result {
	result := Result{
		Prices:   make([]types.ReconciledPrice, 0, len(entries)),
		Warnings: []Warning{},
	}
	seen := make(map[string]bool, len(entries))

	for _, entry := range entries {
		regionCode, err := region.ToRegionCode(entry.Region)
		if err != nil {
			result.warn(WarnUnknownCountry, entry.Region, entry.Row,
				fmt.Sprintf("no region mapping for country code %q", entry.Region))
			continue
		}

		constraint, err := r.catalog.Lookup(regionCode)
		if err != nil {
			result.warn(WarnRegionNotBillable, regionCode, entry.Row,
				fmt.Sprintf("region not in catalog version %s", r.catalog.Version()))
			continue
		}
		if !constraint.Billable {
			result.warn(WarnRegionNotBillable, regionCode, entry.Row,
				"region is not billable at this catalog version")
			continue
		}

		price, warning := r.resolveCurrency(entry, constraint, flags)
		if warning != nil {
			result.Warnings = append(result.Warnings, *warning)
			continue
		}

		if flags.UseRecommended {
			if constraint.Recommended == nil {
				result.warn(WarnNoRecommendedPrice, regionCode, entry.Row,
					"no recommended price for region")
				continue
			}
			price.Price = *constraint.Recommended
			// A recommendation replaces whatever the row asked for, so
			// the fix/convert markers no longer describe the amount.
			price.WasCurrencyFixed = false
			price.WasConverted = false
		}

		clamped, changed := price.Price.Clamp(constraint.MinAmount, constraint.MaxAmount)
		price.Price = clamped
		price.WasClamped = changed

		if seen[regionCode] {
			result.warn(WarnDuplicateRegion, regionCode, entry.Row,
				"region already priced by an earlier row; keeping the first")
			continue
		}
		seen[regionCode] = true
		result.Prices = append(result.Prices, price)
	}

	return result
}

// resolveCurrency settles the row's currency against the region's required
// currency. Returns the partially built price, or a warning when the row
// must be dropped.
func (r *Reconciler) resolveCurrency(entry types.RawPriceEntry, constraint types.RegionConstraint, flags types.Flags) (types.ReconciledPrice, *Warning) {
	price := types.ReconciledPrice{
		Region: constraint.Region,
		Price:  entry.Amount,
	}

	if entry.Currency == constraint.RequiredCurrency {
		return price, nil
	}

	if !flags.FixCurrency {
		return types.ReconciledPrice{}, &Warning{
			Code:   WarnCurrencyMismatch,
			Region: constraint.Region,
			Row:    entry.Row,
			Message: fmt.Sprintf("row currency %s but region requires %s (enable fix_currency to correct)",
				entry.Currency, constraint.RequiredCurrency),
		}
	}

	if flags.ConvertCurrency {
		converted, err := r.converter.ConvertBetween(entry.Amount, constraint.RequiredCurrency)
		if err != nil {
			return types.ReconciledPrice{}, &Warning{
				Code:   WarnRateUnavailable,
				Region: constraint.Region,
				Row:    entry.Row,
				Message: fmt.Sprintf("cannot convert %s to %s: no rate",
					entry.Currency, constraint.RequiredCurrency),
			}
		}
		price.Price = converted
		price.WasCurrencyFixed = true
		price.WasConverted = true
		return price, nil
	}

	// Fix without convert: keep the numeric amount, relabel the currency.
	relabeled, err := entry.Amount.Relabel(constraint.RequiredCurrency)
	if err != nil {
		return types.ReconciledPrice{}, &Warning{
			Code:    WarnCurrencyMismatch,
			Region:  constraint.Region,
			Row:     entry.Row,
			Message: fmt.Sprintf("cannot relabel to %s: %v", constraint.RequiredCurrency, err),
		}
	}
	price.Price = relabeled
	price.WasCurrencyFixed = true
	return price, nil
}

func (res *Result) warn(code WarningCode, regionCode string, row int, message string) {
	res.Warnings = append(res.Warnings, Warning{
		Code:    code,
		Region:  regionCode,
		Row:     row,
		Message: message,
	})
}
