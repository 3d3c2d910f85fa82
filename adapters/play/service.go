// Package play talks to the remote subscription pricing service. The core
// never imports this package's client directly; it sees only the collaborator
// contracts defined here.
package play

import (
	"context"

	"github.com/shopspring/decimal"

	"play-price/core/currency"
	"play-price/core/migrate"
	"play-price/core/money"
	"play-price/core/types"
)

// Service is the remote pricing collaborator contract.
type Service interface {
	// CurrentRegionalConfig reads the existing per-region configuration of
	// a base plan.
	CurrentRegionalConfig(ctx context.Context, productID, basePlanID string) ([]types.CurrentRegionalEntry, error)

	// UpdateRegionalConfig writes one batch of reconciled prices. The call
	// is atomic at the remote: it fully succeeds or fully fails.
	UpdateRegionalConfig(ctx context.Context, productID, basePlanID string, prices []types.ReconciledPrice, directive *migrate.Directive) error

	// ListRegionCatalog returns the per-region constraints for a catalog
	// version.
	ListRegionCatalog(ctx context.Context, version string) ([]types.RegionConstraint, error)

	// ExchangeRates returns the service's current conversion table.
	ExchangeRates(ctx context.Context) ([]currency.Rate, error)
}

// wireMoney is the service's money shape: whole units as a decimal string
// plus nanos of one unit.
type wireMoney struct {
	CurrencyCode string `json:"currencyCode"`
	Units        string `json:"units,omitempty"`
	Nanos        int64  `json:"nanos,omitempty"`
}

var nanoShift = decimal.New(1, -9)

func moneyFromWire(w wireMoney) (money.Money, error) {
	units := decimal.Zero
	if w.Units != "" {
		var err error
		units, err = decimal.NewFromString(w.Units)
		if err != nil {
			return money.Money{}, err
		}
	}
	value := units.Add(decimal.NewFromInt(w.Nanos).Mul(nanoShift))
	return money.FromDecimal(value, w.CurrencyCode)
}

func moneyToWire(m money.Money) wireMoney {
	value := m.Decimal()
	units := value.Truncate(0)
	nanos := value.Sub(units).Shift(9).IntPart()
	return wireMoney{
		CurrencyCode: m.Currency(),
		Units:        units.String(),
		Nanos:        nanos,
	}
}
