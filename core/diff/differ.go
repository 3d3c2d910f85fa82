// Package diff compares a reconciled price set against the current remote
// state, producing ordered change records for deterministic rendering.
package diff

import (
	"sort"

	"play-price/core/money"
	"play-price/core/types"
)

// ChangeKind indicates the type of change for one region
type ChangeKind int

const (
	ChangeNew          ChangeKind = iota // Region absent from current state
	ChangePriceUp                        // Amount increased
	ChangePriceDown                      // Amount decreased
	ChangeCurrency                       // Currency differs
	ChangeAvailability                   // Desired availability differs
	ChangeUnchanged                      // No difference
)

// String returns the change kind name
func (k ChangeKind) String() string {
	switch k {
	case ChangeNew:
		return "NEW"
	case ChangePriceUp:
		return "PRICE_UP"
	case ChangePriceDown:
		return "PRICE_DOWN"
	case ChangeCurrency:
		return "CURRENCY_CHANGE"
	case ChangeAvailability:
		return "AVAILABILITY_CHANGE"
	case ChangeUnchanged:
		return "UNCHANGED"
	default:
		return "unknown"
	}
}

// ChangeRecord describes one classified difference. A region with both an
// amount and a currency difference yields two records.
type ChangeRecord struct {
	Region string      `json:"region"`
	Kind   ChangeKind  `json:"kind"`
	Old    *money.Money `json:"old,omitempty"`
	New    *money.Money `json:"new,omitempty"`
}

// Result is the complete diff for one run.
type Result struct {
	Records []ChangeRecord

	// Counts per kind
	NewCount          int
	PriceUpCount      int
	PriceDownCount    int
	CurrencyCount     int
	AvailabilityCount int
	UnchangedCount    int
}

// Changed reports whether any record describes an actual difference.
func (r *Result) Changed() bool {
	return len(r.Records) > r.UnchangedCount
}

// Diff classifies every reconciled region against the current snapshot.
// Records are sorted by region code ascending, then by kind. Regions present
// only in current are not reported: removal is not a supported operation.
func Diff(reconciled []types.ReconciledPrice, current []types.CurrentRegionalEntry, flags types.Flags) *Result {
	currentByRegion := make(map[string]types.CurrentRegionalEntry, len(current))
	for _, entry := range current {
		currentByRegion[entry.Region] = entry
	}

	result := &Result{Records: []ChangeRecord{}}
	for _, price := range reconciled {
		existing, exists := currentByRegion[price.Region]
		if !exists {
			newAmount := price.Price
			result.add(ChangeRecord{Region: price.Region, Kind: ChangeNew, New: &newAmount})
			continue
		}
		result.compare(price, existing, flags)
	}

	sort.SliceStable(result.Records, func(i, j int) bool {
		if result.Records[i].Region != result.Records[j].Region {
			return result.Records[i].Region < result.Records[j].Region
		}
		return result.Records[i].Kind < result.Records[j].Kind
	})
	return result
}

func (r *Result) compare(price types.ReconciledPrice, existing types.CurrentRegionalEntry, flags types.Flags) {
	oldAmount := existing.Price
	newAmount := price.Price

	// Amount comparison is numeric so a currency change does not mask a
	// simultaneous price movement.
	amountCmp := newAmount.Decimal().Cmp(oldAmount.Decimal())
	currencyDiffers := newAmount.Currency() != oldAmount.Currency()
	// Availability is only managed when the run asked for it; desired is
	// then "purchasable by new subscribers".
	availabilityDiffers := flags.EnableAvailability && !existing.Available

	changed := false
	if amountCmp > 0 {
		r.add(ChangeRecord{Region: price.Region, Kind: ChangePriceUp, Old: &oldAmount, New: &newAmount})
		changed = true
	} else if amountCmp < 0 {
		r.add(ChangeRecord{Region: price.Region, Kind: ChangePriceDown, Old: &oldAmount, New: &newAmount})
		changed = true
	}
	if currencyDiffers {
		r.add(ChangeRecord{Region: price.Region, Kind: ChangeCurrency, Old: &oldAmount, New: &newAmount})
		changed = true
	}
	if availabilityDiffers {
		r.add(ChangeRecord{Region: price.Region, Kind: ChangeAvailability, Old: &oldAmount, New: &newAmount})
		changed = true
	}
	if !changed {
		r.add(ChangeRecord{Region: price.Region, Kind: ChangeUnchanged, Old: &oldAmount, New: &newAmount})
	}
}

func (r *Result) add(record ChangeRecord) {
	r.Records = append(r.Records, record)
	switch record.Kind {
	case ChangeNew:
		r.NewCount++
	case ChangePriceUp:
		r.PriceUpCount++
	case ChangePriceDown:
		r.PriceDownCount++
	case ChangeCurrency:
		r.CurrencyCount++
	case ChangeAvailability:
		r.AvailabilityCount++
	case ChangeUnchanged:
		r.UnchangedCount++
	}
}
