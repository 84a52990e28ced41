package model

import "encoding/json"

const (
	MinUpdateInterval = 5
	MaxUpdateInterval = 1440
)

type Currency struct {
	Code   string `json:"code" validate:"required"`
	Symbol string `json:"symbol" validate:"required"`
}

var (
	CurrencyEUR = Currency{Code: "EUR", Symbol: "€"}
	CurrencyUSD = Currency{Code: "USD", Symbol: "$"}
	CurrencyGBP = Currency{Code: "GBP", Symbol: "£"}
)

type StockXFees struct {
	SellerLevel         int     `json:"sellerLevel" validate:"min=1,max=5"`
	Taxes               float64 `json:"taxes" validate:"min=0"`
	SuccessfulShipBonus bool    `json:"successfulShipBonus"`
	QuickShipBonus      bool    `json:"quickShipBonus"`
}

type GoatFees struct {
	CommissionPercentage float64 `json:"commissionPercentage" validate:"oneof=9.5 15 20"`
	CashOutFee           float64 `json:"cashOutFee" validate:"oneof=0 0.029"`
	Taxes                float64 `json:"taxes" validate:"min=0"`
}

type KlektFees struct {
	Taxes float64 `json:"taxes" validate:"min=0"`
}

type FeeCalculation struct {
	CountryName string     `json:"countryName" validate:"required"`
	StockX      StockXFees `json:"stockx"`
	Goat        GoatFees   `json:"goat"`
	Klekt       KlektFees  `json:"klekt"`
}

// Settings is the singleton user configuration. It is created with
// defaults on first access and overwritten wholesale on save.
type Settings struct {
	Currency              Currency       `json:"currency"`
	UpdateInterval        int            `json:"updateInterval" validate:"min=5,max=1440"`
	NotificationFrequency int            `json:"notificationFrequency" validate:"gt=0"`
	DarkModeOn            bool           `json:"darkModeOn"`
	Proxies               []Proxy        `json:"proxies"`
	FeeCalculation        FeeCalculation `json:"feeCalculation"`
}

func (s Settings) Validate() error {
	return validate.Struct(s)
}

func DefaultSettings() Settings {
	return Settings{
		Currency:              CurrencyEUR,
		UpdateInterval:        60,
		NotificationFrequency: 24,
		DarkModeOn:            false,
		Proxies:               []Proxy{},
		FeeCalculation: FeeCalculation{
			CountryName: "Austria",
			StockX: StockXFees{
				SellerLevel: 1,
			},
			Goat: GoatFees{
				CommissionPercentage: 9.5,
			},
		},
	}
}

// PatchLegacySettings fills fields that were added after the first
// release, so settings persisted by an older version still validate.
// Currently: a missing darkModeOn defaults to false.
func PatchLegacySettings(raw json.RawMessage) json.RawMessage {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil || m == nil {
		return raw
	}
	if _, ok := m["darkModeOn"]; ok {
		return raw
	}
	m["darkModeOn"] = json.RawMessage("false")
	patched, err := json.Marshal(m)
	if err != nil {
		return raw
	}
	return patched
}
