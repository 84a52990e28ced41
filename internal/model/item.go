package model

import "time"

type Store struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
}

// AllStores lists every marketplace the scraper service covers. An Item
// whose StorePrices misses one of these had a partially failed fetch.
var AllStores = []Store{
	{ID: "stockx", Name: "StockX"},
	{ID: "goat", Name: "GOAT"},
	{ID: "klekt", Name: "Klekt"},
}

type InventoryItem struct {
	Size       string  `json:"size" validate:"required"`
	LowestAsk  float64 `json:"lowestAsk"`
	HighestBid float64 `json:"highestBid"`
}

// StorePrice is one marketplace's ask/bid inventory for an Item. It is
// replaced wholesale on every refresh, never merged field by field.
type StorePrice struct {
	Store     Store           `json:"store"`
	Inventory []InventoryItem `json:"inventory"`
}

// Item is a trackable product. ID is the style code and acts as the
// stable key in both the saved and the cached collections.
type Item struct {
	ID          string       `json:"id" validate:"required"`
	Name        string       `json:"name" validate:"required"`
	ImageURL    string       `json:"imageURL"`
	RetailPrice *float64     `json:"retailPrice,omitempty"`
	StorePrices []StorePrice `json:"storePrices"`
	Updated     time.Time    `json:"updated"`
}

func (i Item) Validate() error {
	return validate.Struct(i)
}

// HasAllStorePrices reports whether the item carries a price entry for
// every known marketplace.
func (i Item) HasAllStorePrices() bool {
	for _, s := range AllStores {
		found := false
		for _, sp := range i.StorePrices {
			if sp.Store.ID == s.ID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
