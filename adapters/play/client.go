package play

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"play-price/core/migrate"
	"play-price/core/types"
	"play-price/internal/errors"
)

const defaultBaseURL = "https://androidpublisher.googleapis.com/androidpublisher/v3"

const availabilityPurchasable = "NEW_SUBSCRIBERS_CAN_PURCHASE"

// Client implements Service over the publisher REST API.
type Client struct {
	baseURL    string
	run        types.RunConfig
	httpClient *http.Client

	// anchor caches the catalog conversion response for the run; the
	// catalog and rate tables load once and stay read-only.
	anchor *convertResponse
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = u }
}

// NewClient creates a pricing service client. httpClient must already carry
// credentials (see NewAuthenticatedClient).
func NewClient(run types.RunConfig, httpClient *http.Client, opts ...ClientOption) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	c := &Client{
		baseURL:    defaultBaseURL,
		run:        run,
		httpClient: httpClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type regionalConfig struct {
	RegionCode                string     `json:"regionCode"`
	Price                     *wireMoney `json:"price,omitempty"`
	NewSubscriberAvailability string     `json:"newSubscriberAvailability,omitempty"`
}

// CurrentRegionalConfig fetches the subscription and extracts the base
// plan's regional entries.
func (c *Client) CurrentRegionalConfig(ctx context.Context, productID, basePlanID string) ([]types.CurrentRegionalEntry, error) {
	subscription, err := c.getSubscription(ctx, productID)
	if err != nil {
		return nil, err
	}

	plan, err := findBasePlan(subscription, basePlanID)
	if err != nil {
		return nil, err
	}

	var configs []regionalConfig
	if raw, ok := plan["regionalConfigs"]; ok {
		if err := json.Unmarshal(raw, &configs); err != nil {
			return nil, errors.Remote("malformed regional configs in subscription response", err)
		}
	}

	entries := make([]types.CurrentRegionalEntry, 0, len(configs))
	for _, rc := range configs {
		if rc.RegionCode == "" || rc.Price == nil {
			continue
		}
		amount, err := moneyFromWire(*rc.Price)
		if err != nil {
			return nil, errors.Remote(fmt.Sprintf("malformed price for region %s", rc.RegionCode), err)
		}
		entries = append(entries, types.CurrentRegionalEntry{
			Region:    rc.RegionCode,
			Price:     amount,
			Available: rc.NewSubscriberAvailability == availabilityPurchasable,
		})
	}
	return entries, nil
}

// UpdateRegionalConfig merges the batch into the base plan's existing
// regional configs and patches the subscription, then submits the migration
// directive for the written regions when one is attached.
func (c *Client) UpdateRegionalConfig(ctx context.Context, productID, basePlanID string, prices []types.ReconciledPrice, directive *migrate.Directive) error {
	subscription, err := c.getSubscription(ctx, productID)
	if err != nil {
		return err
	}

	var plans []map[string]json.RawMessage
	if err := json.Unmarshal(subscription["basePlans"], &plans); err != nil {
		return errors.Remote("malformed base plans in subscription response", err)
	}

	found := false
	for i, plan := range plans {
		var id string
		if err := json.Unmarshal(plan["basePlanId"], &id); err != nil || id != basePlanID {
			continue
		}
		found = true

		var existing []json.RawMessage
		if raw, ok := plan["regionalConfigs"]; ok {
			if err := json.Unmarshal(raw, &existing); err != nil {
				return errors.Remote("malformed regional configs in subscription response", err)
			}
		}
		merged, err := c.mergeConfigs(existing, prices)
		if err != nil {
			return err
		}
		plans[i]["regionalConfigs"] = merged
	}
	if !found {
		return errors.NotFound("base plan", basePlanID).WithContext("product_id", productID)
	}

	encoded, err := json.Marshal(plans)
	if err != nil {
		return errors.Internal("encode base plans", err)
	}
	subscription["basePlans"] = encoded

	query := url.Values{}
	query.Set("updateMask", "basePlans")
	if c.run.RegionsVersion != "" {
		query.Set("regionsVersion.version", c.run.RegionsVersion)
	}
	path := fmt.Sprintf("/applications/%s/subscriptions/%s",
		url.PathEscape(c.run.PackageName), url.PathEscape(productID))
	if err := c.do(ctx, http.MethodPatch, path, query, subscription, nil); err != nil {
		return err
	}

	if directive != nil {
		return c.migratePrices(ctx, productID, basePlanID, prices, directive)
	}
	return nil
}

// mergeConfigs overlays batch prices on the existing regional configs,
// preserving fields this tool does not manage. Output is sorted by the
// remote's own ordering of existing entries with new regions appended.
func (c *Client) mergeConfigs(existing []json.RawMessage, prices []types.ReconciledPrice) (json.RawMessage, error) {
	byRegion := make(map[string]int, len(existing))
	merged := make([]map[string]json.RawMessage, 0, len(existing)+len(prices))
	for i, raw := range existing {
		var cfg map[string]json.RawMessage
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return nil, errors.Remote("malformed regional config entry", err)
		}
		var code string
		if rawCode, ok := cfg["regionCode"]; ok {
			_ = json.Unmarshal(rawCode, &code)
		}
		byRegion[code] = i
		merged = append(merged, cfg)
	}

	for _, price := range prices {
		priceJSON, err := json.Marshal(moneyToWire(price.Price))
		if err != nil {
			return nil, errors.Internal("encode price", err)
		}
		codeJSON, _ := json.Marshal(price.Region)

		idx, ok := byRegion[price.Region]
		if !ok {
			merged = append(merged, map[string]json.RawMessage{})
			idx = len(merged) - 1
			byRegion[price.Region] = idx
		}
		merged[idx]["regionCode"] = codeJSON
		merged[idx]["price"] = priceJSON
		if c.run.Flags.EnableAvailability {
			avail, _ := json.Marshal(availabilityPurchasable)
			merged[idx]["newSubscriberAvailability"] = avail
		}
	}

	return json.Marshal(merged)
}

func (c *Client) migratePrices(ctx context.Context, productID, basePlanID string, prices []types.ReconciledPrice, directive *migrate.Directive) error {
	type priceMigration struct {
		RegionCode                   string `json:"regionCode"`
		OldestAllowedPriceVersionTime string `json:"oldestAllowedPriceVersionTime"`
		PriceIncreaseType            string `json:"priceIncreaseType"`
	}
	type migrateRequest struct {
		PackageName             string           `json:"packageName"`
		ProductID               string           `json:"productId"`
		BasePlanID              string           `json:"basePlanId"`
		RegionalPriceMigrations []priceMigration `json:"regionalPriceMigrations"`
	}

	increaseType := "PRICE_INCREASE_TYPE_OPT_IN"
	if directive.Increase == migrate.IncreaseOptOut {
		increaseType = "PRICE_INCREASE_TYPE_OPT_OUT"
	}
	cutoff := directive.Cutoff.UTC().Format(time.RFC3339)

	requests := make([]migrateRequest, 0, len(prices))
	for _, price := range prices {
		requests = append(requests, migrateRequest{
			PackageName: c.run.PackageName,
			ProductID:   productID,
			BasePlanID:  basePlanID,
			RegionalPriceMigrations: []priceMigration{{
				RegionCode:                    price.Region,
				OldestAllowedPriceVersionTime: cutoff,
				PriceIncreaseType:             increaseType,
			}},
		})
	}

	path := fmt.Sprintf("/applications/%s/subscriptions/%s/basePlans/%s:batchMigratePrices",
		url.PathEscape(c.run.PackageName), url.PathEscape(productID), url.PathEscape(basePlanID))
	body := map[string]any{"requests": requests}
	return c.do(ctx, http.MethodPost, path, nil, body, nil)
}

func (c *Client) getSubscription(ctx context.Context, productID string) (map[string]json.RawMessage, error) {
	path := fmt.Sprintf("/applications/%s/subscriptions/%s",
		url.PathEscape(c.run.PackageName), url.PathEscape(productID))
	var subscription map[string]json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &subscription); err != nil {
		return nil, err
	}
	if _, ok := subscription["basePlans"]; !ok {
		return nil, errors.NotFound("base plans", productID)
	}
	return subscription, nil
}

func findBasePlan(subscription map[string]json.RawMessage, basePlanID string) (map[string]json.RawMessage, error) {
	var plans []map[string]json.RawMessage
	if err := json.Unmarshal(subscription["basePlans"], &plans); err != nil {
		return nil, errors.Remote("malformed base plans in subscription response", err)
	}
	for _, plan := range plans {
		var id string
		if err := json.Unmarshal(plan["basePlanId"], &id); err == nil && id == basePlanID {
			return plan, nil
		}
	}
	return nil, errors.NotFound("base plan", basePlanID)
}

// do performs an API call, classifying HTTP failures into the domain error
// taxonomy: 401/403 are auth-class (fatal during apply), everything else
// remote-class (retryable).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, result any) error {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.Internal("encode request body", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return errors.Internal("create request", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Remote(fmt.Sprintf("%s %s", method, path), err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Remote("read response body", err)
	}

	if resp.StatusCode >= 400 {
		message := apiErrorMessage(payload)
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return errors.Auth(message, nil).WithContext("status", resp.StatusCode)
		}
		return errors.Remote(message, nil).WithContext("status", resp.StatusCode)
	}

	if result != nil {
		if err := json.Unmarshal(payload, result); err != nil {
			return errors.Remote("unmarshal response", err)
		}
	}
	return nil
}

func apiErrorMessage(payload []byte) string {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(payload, &envelope); err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	return "pricing service request failed"
}
