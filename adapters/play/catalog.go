package play

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"

	"github.com/shopspring/decimal"

	"play-price/core/currency"
	"play-price/core/money"
	"play-price/core/types"
	"play-price/internal/errors"
)

// The catalog endpoint converts a reference price into every billable
// region's local currency. A 1.00 USD anchor is enough: it yields the billable
// region list, each region's required currency, a recommended price, and the
// service's conversion table.
var anchorPrice = wireMoney{CurrencyCode: "USD", Units: "1", Nanos: 0}

type convertedRegionPrice struct {
	RegionCode string    `json:"regionCode"`
	Price      wireMoney `json:"price"`
}

type convertResponse struct {
	RegionsVersion struct {
		Version string `json:"version"`
	} `json:"regionsVersion"`
	ConvertedRegionPrices map[string]convertedRegionPrice `json:"convertedRegionPrices"`
}

func (c *Client) convertAnchor(ctx context.Context, version string) (*convertResponse, error) {
	if c.anchor != nil {
		return c.anchor, nil
	}

	query := url.Values{}
	if version != "" {
		query.Set("regionsVersion.version", version)
	}
	path := fmt.Sprintf("/applications/%s/pricing:convertRegionPrices",
		url.PathEscape(c.run.PackageName))
	body := map[string]any{"price": anchorPrice}

	var resp convertResponse
	if err := c.do(ctx, http.MethodPost, path, query, body, &resp); err != nil {
		return nil, err
	}
	if len(resp.ConvertedRegionPrices) == 0 {
		return nil, errors.Remote("pricing service returned no billable regions", nil)
	}
	c.anchor = &resp
	return c.anchor, nil
}

// ListRegionCatalog builds the constraint table for a catalog version. The
// service reports each billable region's required currency and a recommended
// price; bounds it does not report default to the widest representable
// range and are narrowed only by the remote's own write-time validation.
func (c *Client) ListRegionCatalog(ctx context.Context, version string) ([]types.RegionConstraint, error) {
	resp, err := c.convertAnchor(ctx, version)
	if err != nil {
		return nil, err
	}

	constraints := make([]types.RegionConstraint, 0, len(resp.ConvertedRegionPrices))
	for regionCode, converted := range resp.ConvertedRegionPrices {
		if converted.RegionCode != "" {
			regionCode = converted.RegionCode
		}
		recommended, err := moneyFromWire(converted.Price)
		if err != nil {
			return nil, errors.Remote(fmt.Sprintf("malformed converted price for region %s", regionCode), err)
		}
		code := recommended.Currency()

		minAmount, err := money.FromMinorUnits(1, code)
		if err != nil {
			return nil, errors.Remote(fmt.Sprintf("unknown currency %s for region %s", code, regionCode), err)
		}
		maxAmount, err := money.FromDecimal(decimal.New(1, 12), code)
		if err != nil {
			return nil, errors.Remote(fmt.Sprintf("unknown currency %s for region %s", code, regionCode), err)
		}

		rec := recommended
		constraints = append(constraints, types.RegionConstraint{
			Region:           regionCode,
			RequiredCurrency: code,
			MinAmount:        minAmount,
			MaxAmount:        maxAmount,
			Billable:         true,
			Recommended:      &rec,
		})
	}

	sort.Slice(constraints, func(i, j int) bool {
		return constraints[i].Region < constraints[j].Region
	})
	return constraints, nil
}

// ExchangeRates derives a pairwise conversion table from the anchor
// response: the converted value of 1.00 USD in each currency gives USD-based
// rates, and cross rates follow by division.
func (c *Client) ExchangeRates(ctx context.Context) ([]currency.Rate, error) {
	resp, err := c.convertAnchor(ctx, c.run.RegionsVersion)
	if err != nil {
		return nil, err
	}

	perUSD := map[string]decimal.Decimal{"USD": decimal.NewFromInt(1)}
	for _, converted := range resp.ConvertedRegionPrices {
		value, err := moneyFromWire(converted.Price)
		if err != nil {
			continue
		}
		if value.IsPositive() {
			perUSD[value.Currency()] = value.Decimal()
		}
	}

	codes := make([]string, 0, len(perUSD))
	for code := range perUSD {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var rates []currency.Rate
	for _, from := range codes {
		for _, to := range codes {
			if from == to {
				continue
			}
			rates = append(rates, currency.Rate{
				From:       from,
				To:         to,
				Multiplier: perUSD[to].Div(perUSD[from]),
			})
		}
	}
	return rates, nil
}
