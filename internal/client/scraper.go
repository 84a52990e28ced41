package client

import (
	"context"

	"github.com/pkg/errors"

	"sneakwatch/internal/model"
)

// APIConfig is the configuration object every scraper operation takes:
// currency, proxies, exchange rates and fee parameters all influence
// the prices the service returns.
type APIConfig struct {
	Currency         model.Currency       `json:"currency"`
	IsLoggingEnabled bool                 `json:"isLoggingEnabled"`
	Proxies          []model.Proxy        `json:"proxies"`
	ExchangeRates    model.ExchangeRates  `json:"exchangeRates"`
	FeeCalculation   model.FeeCalculation `json:"feeCalculation"`
}

func NewAPIConfig(settings model.Settings, rates model.ExchangeRates, loggingEnabled bool) APIConfig {
	return APIConfig{
		Currency:         settings.Currency,
		IsLoggingEnabled: loggingEnabled,
		Proxies:          settings.Proxies,
		ExchangeRates:    rates,
		FeeCalculation:   settings.FeeCalculation,
	}
}

// SearchItems looks up items matching term. The result carries no
// store prices yet; those come from GetItemPrices.
func (c Client) SearchItems(ctx context.Context, term string, config APIConfig) ([]model.Item, error) {
	req := struct {
		SearchTerm string    `json:"searchTerm"`
		Config     APIConfig `json:"config"`
	}{SearchTerm: term, Config: config}
	var items []model.Item
	if err := c.postJSON(ctx, "/search", req, &items); err != nil {
		return nil, errors.Wrapf(err, "error searching items with term: %s", term)
	}
	c.Logger.Debugf("SearchItems: Got %d item(s) for term: %s", len(items), term)
	return items, nil
}

// GetItemPrices fetches current store prices for item, fee-adjusted
// according to config. Returns an error on total failure.
func (c Client) GetItemPrices(ctx context.Context, item model.Item, config APIConfig) (model.Item, error) {
	req := struct {
		Item   model.Item `json:"item"`
		Config APIConfig  `json:"config"`
	}{Item: item, Config: config}
	var priced model.Item
	if err := c.postJSON(ctx, "/item/prices", req, &priced); err != nil {
		return model.Item{}, errors.Wrapf(err, "error getting prices for item with ID: %s", item.ID)
	}
	if err := priced.Validate(); err != nil {
		return model.Item{}, errors.Wrapf(err, "got invalid item for ID: %s", item.ID)
	}
	return priced, nil
}

// GetExchangeRates fetches a fresh FX snapshot.
func (c Client) GetExchangeRates(ctx context.Context, config APIConfig) (model.ExchangeRates, error) {
	req := struct {
		Config APIConfig `json:"config"`
	}{Config: config}
	var rates model.ExchangeRates
	if err := c.postJSON(ctx, "/exchangerates", req, &rates); err != nil {
		return model.ExchangeRates{}, errors.Wrap(err, "error getting exchange rates")
	}
	if err := rates.Validate(); err != nil {
		return model.ExchangeRates{}, errors.Wrap(err, "got invalid exchange rates")
	}
	return rates, nil
}
