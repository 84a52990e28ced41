package model

import "time"

// ExchangeRates is the cached FX snapshot, EUR based.
type ExchangeRates struct {
	USD     float64   `json:"usd" validate:"gt=0"`
	GBP     float64   `json:"gbp" validate:"gt=0"`
	CHF     float64   `json:"chf" validate:"gt=0"`
	NOK     float64   `json:"nok" validate:"gt=0"`
	Updated time.Time `json:"updated"`
}

func (r ExchangeRates) Validate() error {
	return validate.Struct(r)
}

// FallbackExchangeRates is the snapshot used when nothing valid is
// persisted. Updated is left at its zero value on purpose, so the
// refresh task treats the snapshot as stale.
func FallbackExchangeRates() ExchangeRates {
	return ExchangeRates{
		USD: 1.1891,
		GBP: 0.8567,
		CHF: 1.0954,
		NOK: 10.2673,
	}
}
